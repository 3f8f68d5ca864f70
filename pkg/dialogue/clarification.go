package dialogue

import (
	"strings"

	"admissions-chatbot-be/pkg/store"
)

// clarificationCategory configures one broad topic that gets a narrowing menu
// before retrieval. exclude lists phrases that mark the query as already
// specific enough to answer directly.
type clarificationCategory struct {
	keywords     []string
	minWordCount int
	exclude      []string
	question     string
	clarified    map[string]string
}

// At 10+ words the query is considered specific regardless of keywords.
const clarificationSkipWordCount = 10

var clarificationCategories = map[string]clarificationCategory{
	"fees": {
		keywords:     []string{"fee", "fees", "cost", "tuition", "payment", "charges", "installment", "fee structure"},
		minWordCount: 1,
		exclude: []string{
			"hostel fee", "hostel fees", "mess fee", "transport fee",
			"b.tech fee", "btech fee", "m.tech fee", "mtech fee", "mca fee",
			"what is the fee", "how much is the fee",
			"total fee", "annual fee", "semester fee",
		},
		question: "I'd be happy to help with fee information! 💰\n\n" +
			"Could you specify which programme?\n\n" +
			"1️⃣ **B.Tech** – Bachelor of Technology (4 years)\n" +
			"2️⃣ **M.Tech** – Master of Technology (2 years)\n" +
			"3️⃣ **MCA** – Master of Computer Applications\n" +
			"4️⃣ **Scholarships / Fee Reimbursement**\n\n" +
			"Reply with the number or programme name.",
		clarified: map[string]string{
			"1":             "What is the B.Tech fee structure at VNRVJIET?",
			"b.tech":        "What is the B.Tech fee structure at VNRVJIET?",
			"btech":         "What is the B.Tech fee structure at VNRVJIET?",
			"bachelor":      "What is the B.Tech fee structure at VNRVJIET?",
			"2":             "What is the M.Tech fee structure at VNRVJIET?",
			"m.tech":        "What is the M.Tech fee structure at VNRVJIET?",
			"mtech":         "What is the M.Tech fee structure at VNRVJIET?",
			"master":        "What is the M.Tech fee structure at VNRVJIET?",
			"3":             "What is the MCA fee structure at VNRVJIET?",
			"mca":           "What is the MCA fee structure at VNRVJIET?",
			"4":             "What scholarships and fee reimbursement are available at VNRVJIET?",
			"scholarship":   "What scholarships and fee reimbursement are available at VNRVJIET?",
			"reimbursement": "What scholarships and fee reimbursement are available at VNRVJIET?",
		},
	},
	"placements": {
		keywords: []string{
			"placement", "placements", "placed", "recruiting",
			"campus recruitment", "tnp", "t&p", "training and placement",
			"training & placement", "hiring", "job placement",
		},
		minWordCount: 1,
		exclude: []string{
			"highest package", "average package", "top companies", "placement percentage",
			"placement statistics", "placement record", "how many placed",
			"which companies", "companies visit", "lpa", "internship", "intern",
		},
		question: "Great question about placements! 🎓\n\n" +
			"What specifically would you like to know?\n\n" +
			"1️⃣ **Placement statistics** – percentage of students placed\n" +
			"2️⃣ **Top recruiting companies** – which companies visit campus\n" +
			"3️⃣ **Salary packages** – average and highest CTC\n" +
			"4️⃣ **Internship opportunities** – internship details\n\n" +
			"Reply with the number or topic.",
		clarified: map[string]string{
			"1":          "What is the placement percentage and statistics at VNRVJIET?",
			"statistics": "What is the placement percentage and statistics at VNRVJIET?",
			"percentage": "What is the placement percentage and statistics at VNRVJIET?",
			"how many":   "What is the placement percentage and statistics at VNRVJIET?",
			"2":          "Which are the top recruiting companies at VNRVJIET?",
			"companies":  "Which are the top recruiting companies at VNRVJIET?",
			"company":    "Which are the top recruiting companies at VNRVJIET?",
			"recruiters": "Which are the top recruiting companies at VNRVJIET?",
			"3":          "What is the average and highest salary package at VNRVJIET placements?",
			"package":    "What is the average and highest salary package at VNRVJIET placements?",
			"salary":     "What is the average and highest salary package at VNRVJIET placements?",
			"ctc":        "What is the average and highest salary package at VNRVJIET placements?",
			"lpa":        "What is the average and highest salary package at VNRVJIET placements?",
			"4":          "What internship opportunities are available at VNRVJIET?",
			"internship": "What internship opportunities are available at VNRVJIET?",
			"intern":     "What internship opportunities are available at VNRVJIET?",
		},
	},
	"hostel": {
		keywords:     []string{"hostel", "accommodation", "boarding", "staying on campus", "dormitory", "on-campus stay"},
		minWordCount: 1,
		exclude: []string{
			"hostel fee", "hostel fees", "hostel cost", "hostel charges",
			"hostel rules", "hostel facility", "hostel facilities",
			"boys hostel", "girls hostel", "ladies hostel", "hostel available",
			"hostel warden", "hostel mess",
		},
		question: "I can help with hostel information! 🏨\n\n" +
			"What would you like to know about?\n\n" +
			"1️⃣ **Hostel fees & charges** – annual costs and payment\n" +
			"2️⃣ **Facilities** – rooms, mess, amenities\n" +
			"3️⃣ **Rules & regulations** – hostel policies\n" +
			"4️⃣ **Availability** – seats for boys/girls\n\n" +
			"Reply with the number or topic.",
		clarified: map[string]string{
			"1":            "What are the hostel fees and charges at VNRVJIET?",
			"fees":         "What are the hostel fees and charges at VNRVJIET?",
			"fee":          "What are the hostel fees and charges at VNRVJIET?",
			"charges":      "What are the hostel fees and charges at VNRVJIET?",
			"cost":         "What are the hostel fees and charges at VNRVJIET?",
			"2":            "What are the hostel facilities at VNRVJIET?",
			"facilities":   "What are the hostel facilities at VNRVJIET?",
			"facility":     "What are the hostel facilities at VNRVJIET?",
			"amenities":    "What are the hostel amenities at VNRVJIET?",
			"mess":         "What are the hostel mess and food facilities at VNRVJIET?",
			"room":         "What types of rooms are available in VNRVJIET hostel?",
			"3":            "What are the hostel rules and regulations at VNRVJIET?",
			"rules":        "What are the hostel rules and regulations at VNRVJIET?",
			"regulations":  "What are the hostel rules and regulations at VNRVJIET?",
			"4":            "What is the hostel seat availability for boys and girls at VNRVJIET?",
			"availability": "What is the hostel seat availability for boys and girls at VNRVJIET?",
			"available":    "What is the hostel seat availability for boys and girls at VNRVJIET?",
			"seats":        "What is the hostel seat availability for boys and girls at VNRVJIET?",
			"boys":         "What is the boys hostel availability and details at VNRVJIET?",
			"girls":        "What is the girls hostel availability and details at VNRVJIET?",
		},
	},
	"admissions": {
		keywords: []string{
			"admission process", "how to apply", "how to get admission",
			"apply to vnrvjiet", "joining process", "admission procedure",
			"how admissions work", "apply for admission",
		},
		minWordCount: 3,
		exclude: []string{
			"lateral entry", "management quota", "nri quota", "cat-a", "cat a",
			"eapcet", "ecet", "documents required", "eligibility criteria",
			"admission date", "last date",
		},
		question: "Here's what I can help you with regarding admissions! 📋\n\n" +
			"What specifically are you looking for?\n\n" +
			"1️⃣ **Step-by-step process** – how admissions work\n" +
			"2️⃣ **Eligibility criteria** – qualification requirements\n" +
			"3️⃣ **Required documents** – what to bring / submit\n" +
			"4️⃣ **Important dates** – deadlines and schedule\n" +
			"5️⃣ **Special quota** – Management / NRI / Lateral entry\n\n" +
			"Reply with the number or topic.",
		clarified: map[string]string{
			"1":             "What is the step-by-step admission process at VNRVJIET?",
			"process":       "What is the step-by-step admission process at VNRVJIET?",
			"steps":         "What is the step-by-step admission process at VNRVJIET?",
			"procedure":     "What is the step-by-step admission process at VNRVJIET?",
			"2":             "What are the eligibility criteria for admission to VNRVJIET?",
			"eligibility":   "What are the eligibility criteria for admission to VNRVJIET?",
			"criteria":      "What are the eligibility criteria for admission to VNRVJIET?",
			"qualification": "What are the eligibility criteria for admission to VNRVJIET?",
			"3":             "What documents are required for admission to VNRVJIET?",
			"documents":     "What documents are required for admission to VNRVJIET?",
			"document":      "What documents are required for admission to VNRVJIET?",
			"certificate":   "What certificates are required for admission to VNRVJIET?",
			"4":             "What are the important admission dates and deadlines at VNRVJIET?",
			"dates":         "What are the important admission dates and deadlines at VNRVJIET?",
			"date":          "What are the important admission dates and deadlines at VNRVJIET?",
			"deadline":      "What are the important admission dates and deadlines at VNRVJIET?",
			"5":             "What is the management quota, NRI quota, and lateral entry admission process at VNRVJIET?",
			"management":    "What is the management quota admission process at VNRVJIET?",
			"nri":           "What is the NRI quota admission process at VNRVJIET?",
			"lateral":       "What is the lateral entry admission process at VNRVJIET?",
			"quota":         "What are the different quota options for admission at VNRVJIET?",
		},
	},
	"campus": {
		keywords: []string{
			"campus life", "college life", "college facilities",
			"facilities at vnr", "facilities in college", "what facilities",
			"college infrastructure",
		},
		minWordCount: 2,
		exclude: []string{
			"campus location", "campus address", "how to reach",
			"labs", "library", "sports", "canteen", "transport", "bus",
			"hostel", "gym", "club", "department",
		},
		question: "I can tell you about our campus! 🏫\n\n" +
			"What aspect are you interested in?\n\n" +
			"1️⃣ **Academic facilities** – labs, library, classrooms\n" +
			"2️⃣ **Sports & recreation** – grounds, gym, student clubs\n" +
			"3️⃣ **Canteen & dining** – food options on campus\n" +
			"4️⃣ **Transport** – college bus routes and services\n" +
			"5️⃣ **General overview** – overall campus information\n\n" +
			"Reply with the number or topic.",
		clarified: map[string]string{
			"1":         "What are the academic facilities like labs and library at VNRVJIET?",
			"academic":  "What are the academic facilities like labs and library at VNRVJIET?",
			"lab":       "What laboratory facilities are available at VNRVJIET?",
			"library":   "What are the library facilities at VNRVJIET?",
			"2":         "What sports and recreational facilities are available at VNRVJIET?",
			"sports":    "What sports and recreational facilities are available at VNRVJIET?",
			"gym":       "Is there a gym at VNRVJIET?",
			"clubs":     "What student clubs and activities are available at VNRVJIET?",
			"3":         "What are the canteen and food options at VNRVJIET?",
			"canteen":   "What are the canteen and food options at VNRVJIET?",
			"food":      "What are the food options at VNRVJIET?",
			"4":         "What are the transport and bus facilities at VNRVJIET?",
			"transport": "What are the transport and bus facilities at VNRVJIET?",
			"bus":       "What are the bus routes and transport facilities at VNRVJIET?",
			"5":         "Give me an overview of VNRVJIET campus and facilities.",
			"general":   "Give me an overview of VNRVJIET campus and facilities.",
			"overview":  "Give me an overview of VNRVJIET campus and facilities.",
		},
	},
}

// DetectClarificationCategory returns the category key when the message is a
// broad query that should get a narrowing menu, or "" when it is already
// specific enough to answer directly.
func DetectClarificationCategory(message string) string {
	msg := strings.ToLower(strings.TrimSpace(message))
	wordCount := len(strings.Fields(msg))

	for name, cfg := range clarificationCategories {
		if !containsAnyKeyword(msg, cfg.keywords) {
			continue
		}
		if containsAnyKeyword(msg, cfg.exclude) {
			continue
		}
		if wordCount >= clarificationSkipWordCount {
			continue
		}
		return name
	}
	return ""
}

// ClarificationQuestion returns the menu prompt for a category.
func ClarificationQuestion(category string) string {
	if cfg, ok := clarificationCategories[category]; ok {
		return cfg.question
	}
	return "Could you please be more specific?"
}

// ResolveClarification maps the user's menu answer to a refined query.
// Exact key match wins; otherwise the longest key found as a substring.
func ResolveClarification(reply, category string) (string, bool) {
	cfg, ok := clarificationCategories[category]
	if !ok {
		return "", false
	}

	msg := strings.ToLower(strings.TrimSpace(reply))
	if refined, ok := cfg.clarified[msg]; ok {
		return refined, true
	}

	bestKey := ""
	for key := range cfg.clarified {
		if strings.Contains(msg, key) && len(key) > len(bestKey) {
			bestKey = key
		}
	}
	if bestKey != "" {
		return cfg.clarified[bestKey], true
	}
	return "", false
}

// ClarificationFlow routes pending-clarification replies.
type ClarificationFlow struct{}

// Continue handles a reply while a clarification menu is pending. When the
// answer resolves, the Outcome carries a FollowupQuery for retrieval; when the
// user changes topic, the flow clears and reports not handled.
func (ClarificationFlow) Continue(sess *store.Session, message string) Outcome {
	state := sess.Clarification
	if state == nil {
		return notHandled()
	}

	if IsTopicChange(message, store.PipelineClarification) {
		sess.Clarification = nil
		if sess.Active == store.PipelineClarification {
			sess.Active = store.PipelineNone
		}
		return notHandled()
	}

	refined, ok := ResolveClarification(message, state.Category)
	if !ok {
		reAsk := "I'm not sure I understood that option.\n\n" + ClarificationQuestion(state.Category)
		return handled(reAsk, ReplyIntentClarification)
	}

	sess.Clarification = nil
	if sess.Active == store.PipelineClarification {
		sess.Active = store.PipelineNone
	}
	return Outcome{
		Intent:        ReplyIntentInformational,
		Handled:       true,
		FollowupQuery: refined,
	}
}

// Begin arms the clarification pipeline for a broad query.
func (ClarificationFlow) Begin(sess *store.Session, originalQuery, category string) Outcome {
	sess.Activate(store.PipelineClarification)
	sess.Clarification = &store.ClarificationFlowState{
		OriginalQuery: originalQuery,
		Category:      category,
	}
	return handled(ClarificationQuestion(category), ReplyIntentClarification)
}
