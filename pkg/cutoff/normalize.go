package cutoff

import "strings"

// branchAliases maps free-text branch names to canonical codes. Many-to-one
// on purpose: "aiml", "ai & ml" and "machine learning" are all CSE-CSM.
var branchAliases = map[string]string{
	"computer science": "CSE",
	"computer":         "CSE",
	"cse":              "CSE",
	"cs":               "CSE",

	"ece":                       "ECE",
	"electronics":               "ECE",
	"electronics communication": "ECE",

	"eee":                    "EEE",
	"electrical":             "EEE",
	"electrical electronics": "EEE",

	"it":                     "IT",
	"information technology": "IT",

	"mech":       "ME",
	"me":         "ME",
	"mechanical": "ME",

	"civil": "CIV",
	"civ":   "CIV",

	"ai ml":                "CSE-CSM",
	"ai & ml":              "CSE-CSM",
	"aiml":                 "CSE-CSM",
	"ai and ml":            "CSE-CSM",
	"artificial intelligence ml":                       "CSE-CSM",
	"artificial intelligence machine learning":         "CSE-CSM",
	"artificial intelligence and machine learning":     "CSE-CSM",
	"machine learning":                                 "CSE-CSM",
	"csm":           "CSE-CSM",
	"cse-csm":       "CSE-CSM",
	"cse csm":       "CSE-CSM",
	"cse (ai & ml)": "CSE-CSM",

	"ai & ds":                              "AID",
	"ai ds":                                "AID",
	"aids":                                 "AID",
	"ai and ds":                            "AID",
	"ai & data science":                    "AID",
	"ai and data science":                  "AID",
	"artificial intelligence data science": "AID",
	"artificial intelligence and data science": "AID",
	"aid": "AID",

	"data science":       "CSE-CSD",
	"ds":                 "CSE-CSD",
	"csd":                "CSE-CSD",
	"cse-csd":            "CSE-CSD",
	"cse csd":            "CSE-CSD",
	"cse (data science)": "CSE-CSD",

	"csc":            "CSE-CSC",
	"cse-csc":        "CSE-CSC",
	"cse csc":        "CSE-CSC",
	"cyber security": "CSE-CSC",
	"cys":            "CSE-CSC",
	"cybersecurity":  "CSE-CSC",

	"cso":                "CSE-CSO",
	"cse-cso":            "CSE-CSO",
	"cse cso":            "CSE-CSO",
	"iot":                "CSE-CSO",
	"internet of things": "CSE-CSO",

	"csb":              "CSB",
	"cs business":      "CSB",
	"business systems": "CSB",

	"aut":        "AUT",
	"automobile": "AUT",

	"bio":           "BIO",
	"biotech":       "BIO",
	"biotechnology": "BIO",

	"eie": "EIE",

	"rai":           "RAI",
	"robotics":      "RAI",
	"robotics & ai": "RAI",

	"vlsi": "VLSI",
}

var categoryAliases = map[string]string{
	"oc":      "OC",
	"general": "OC",
	"open":    "OC",
	"obc":     "BC-D",
	"bc-a":    "BC-A",
	"bc-b":    "BC-B",
	"bc-c":    "BC-C",
	"bc-d":    "BC-D",
	"bc-e":    "BC-E",
	"bca":     "BC-A",
	"bcb":     "BC-B",
	"bcc":     "BC-C",
	"bcd":     "BC-D",
	"bce":     "BC-E",
	"sc":      "SC",
	"sc-i":    "SC-I",
	"sc-ii":   "SC-II",
	"sc-iii":  "SC-III",
	"sc-1":    "SC-I",
	"sc-2":    "SC-II",
	"sc-3":    "SC-III",
	"sc1":     "SC-I",
	"sc2":     "SC-II",
	"sc3":     "SC-III",
	"st":      "ST",
	"ews":     "EWS",
}

// validBranches is the whitelist of codes that may appear in branch listings.
// Source rows whose branch does not normalize into this set are dropped.
var validBranches = map[string]bool{
	"CSE": true, "ECE": true, "EEE": true, "IT": true, "ME": true,
	"CIV": true, "CSE-CSM": true, "CSE-CSD": true, "CSE-CSC": true,
	"CSE-CSO": true, "CSB": true, "AID": true, "AUT": true, "BIO": true,
	"EIE": true, "RAI": true, "VLSI": true,
}

// NormaliseBranch maps a free-text branch name to its canonical code.
// Unmapped input is upper-cased and returned as-is; it never fails.
func NormaliseBranch(raw string) string {
	if code, ok := branchAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return code
	}
	return strings.ToUpper(strings.TrimSpace(raw))
}

func NormaliseCategory(raw string) string {
	if code, ok := categoryAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return code
	}
	return strings.ToUpper(strings.TrimSpace(raw))
}

// IsValidBranch reports whether code belongs to the known branch whitelist.
func IsValidBranch(code string) bool { return validBranches[code] }

// BranchAliases returns the alias table for callers that scan free text for
// branch mentions. The returned map must not be mutated.
func BranchAliases() map[string]string { return branchAliases }

// CategoryAliases returns the category alias table.
func CategoryAliases() map[string]string { return categoryAliases }

// departmentPages maps branch codes to a department page key. Several codes
// share one page.
var departmentPages = map[string]string{
	"CSE":     "cse",
	"CSB":     "cse",
	"CSE-CSM": "cse_aiml_iot",
	"CSE-CSO": "cse_aiml_iot",
	"RAI":     "cse_aiml_iot",
	"CSE-CSD": "cse_ds_cys",
	"AID":     "cse_ds_cys",
	"CSE-CSC": "cse_ds_cys",
	"IT":      "it",
	"ME":      "mech",
	"AUT":     "automobile",
	"BIO":     "biotechnology",
	"CIV":     "civil",
	"ECE":     "ece",
	"EEE":     "eee",
	"EIE":     "eie",
}

// DepartmentURL resolves a branch code to its department page URL using the
// configured url table, or "" when the branch has no page.
func DepartmentURL(branch string, urls map[string]string) string {
	if key, ok := departmentPages[branch]; ok {
		return urls[key]
	}
	return ""
}
