package config

// Official website pages keyed by URL category. These change rarely; they
// live in code rather than env so the keys stay aligned with the category
// detector.
var WebsiteURLs = map[string]string{
	"home":                     "https://vnrvjiet.ac.in/",
	"general":                  "https://vnrvjiet.ac.in/",
	"about":                    "https://vnrvjiet.ac.in/about-us/",
	"admissions":               "https://vnrvjiet.ac.in/admissions/",
	"international_admissions": "https://vnrvjiet.ac.in/international-admissions/",
	"fees":                     "https://vnrvjiet.ac.in/fee-structure/",
	"scholarship":              "https://vnrvjiet.ac.in/scholarships/",
	"placements":               "https://vnrvjiet.ac.in/placements/",
	"hostel":                   "https://vnrvjiet.ac.in/hostel/",
	"campus":                   "https://vnrvjiet.ac.in/campus-life/",
	"transport":                "https://vnrvjiet.ac.in/transport/",
	"library":                  "https://vnrvjiet.ac.in/library/",
	"syllabus":                 "https://vnrvjiet.ac.in/syllabus/",
	"academic_calendar":        "https://vnrvjiet.ac.in/academic-calendar/",
	"departments":              "https://vnrvjiet.ac.in/departments/",
}

// Department pages keyed by department slug (the dept_ prefix stripped).
var DepartmentURLs = map[string]string{
	"cse":           "https://vnrvjiet.ac.in/cse/",
	"cse_aiml_iot":  "https://vnrvjiet.ac.in/cse-aiml-iot/",
	"cse_ds_cys":    "https://vnrvjiet.ac.in/cse-ds-cys/",
	"it":            "https://vnrvjiet.ac.in/it/",
	"mech":          "https://vnrvjiet.ac.in/mechanical/",
	"civil":         "https://vnrvjiet.ac.in/civil/",
	"ece":           "https://vnrvjiet.ac.in/ece/",
	"eee":           "https://vnrvjiet.ac.in/eee/",
	"eie":           "https://vnrvjiet.ac.in/eie/",
	"automobile":    "https://vnrvjiet.ac.in/automobile/",
	"biotechnology": "https://vnrvjiet.ac.in/biotechnology/",
	"chemistry":     "https://vnrvjiet.ac.in/chemistry/",
	"english":       "https://vnrvjiet.ac.in/english/",
	"physics":       "https://vnrvjiet.ac.in/physics/",
	"mathematics":   "https://vnrvjiet.ac.in/mathematics/",
}
