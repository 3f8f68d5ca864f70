package dialogue

import (
	"strings"

	"admissions-chatbot-be/pkg/store"
)

// lacksInfoPhrases indicate the model admitted it does not know the answer.
// Multilingual because replies follow the session language.
var lacksInfoPhrases = []string{
	// English
	"don't have that specific information",
	"don't have that information",
	"information is unavailable",
	"i don't have",
	"not available in my database",
	// Hindi
	"मुझे वह विशिष्ट जानकारी नहीं है",
	"मुझे उस जानकारी नहीं है",
	"जानकारी उपलब्ध नहीं है",
	"मेरे पास नहीं है",
	// Telugu
	"నాకు ఆ సమాచారం లేదు",
	"సమాచారం అందుబాటులో లేదు",
	// Tamil
	"என்னிடம் தகவல் இல்லை",
	// Common patterns
	"नहीं है", "లేదు", "இல்லை",
}

// LacksInformation reports whether a generated reply admits ignorance,
// which is the trigger for offering a website lookup.
func LacksInformation(reply string) bool {
	lower := strings.ToLower(reply)
	for _, phrase := range lacksInfoPhrases {
		if strings.Contains(lower, strings.ToLower(phrase)) {
			return true
		}
	}
	return false
}

const webSearchOfferSuffix = "\n\nWould you like me to search our official **VNRVJIET website** for this information? " +
	"(Reply **yes** or **no**)"

const webSearchDeclinedReply = "No problem! If you have any other questions, feel free to ask. " +
	"You can also contact our admissions team directly:\n\n" +
	"📧 admissionsenquiry@vnrvjiet.in\n📞 +91-40-2304 2758/59/60"

const webSearchUnclearReply = "I didn't quite understand. Would you like me to search our official website? Please reply **yes** or **no**."

// WebSearchFailedReply is shown when fetching the website page fails.
const WebSearchFailedReply = "I tried searching our website but encountered an issue. " +
	"Please contact our admissions office directly:\n\n" +
	"📧 admissionsenquiry@vnrvjiet.in\n📞 +91-40-2304 2758/59/60"

// WebSearchFlow handles the yes/no permission exchange before fetching the
// official website on the user's behalf.
type WebSearchFlow struct{}

// Offer appends the permission question to an "I don't know" reply and arms
// the pending-websearch state.
func (WebSearchFlow) Offer(sess *store.Session, originalQuery, reply string) Outcome {
	sess.Activate(store.PipelineWebSearch)
	sess.WebSearch = &store.WebSearchFlowState{OriginalQuery: originalQuery}
	return handled(reply+webSearchOfferSuffix, ReplyIntentWebSearchPrompt)
}

// Continue resolves the pending permission. A yes returns the original query
// plus the website category to fetch; a no politely closes the offer.
func (WebSearchFlow) Continue(sess *store.Session, message string) Outcome {
	state := sess.WebSearch
	if state == nil {
		return notHandled()
	}

	if IsYesResponse(message) {
		original := state.OriginalQuery
		sess.WebSearch = nil
		if sess.Active == store.PipelineWebSearch {
			sess.Active = store.PipelineNone
		}
		return Outcome{
			Intent:        ReplyIntentInformational,
			Handled:       true,
			FollowupQuery: original,
			URLCategory:   DetectURLCategory(original),
		}
	}

	if IsNoResponse(message) {
		sess.WebSearch = nil
		if sess.Active == store.PipelineWebSearch {
			sess.Active = store.PipelineNone
		}
		return handled(webSearchDeclinedReply, ReplyIntentInformational)
	}

	return handled(webSearchUnclearReply, ReplyIntentWebSearchPrompt)
}

type urlRule struct {
	category string
	keywords []string
}

// Ordered: first match wins, specific categories before generic ones.
var urlRules = []urlRule{
	{"international_admissions", []string{"international", "foreign", "nri", "overseas", "abroad student"}},
	{"transport", []string{"transport", "bus", "travel", "route", "vehicle", "commute"}},
	{"library", []string{"library", "book", "reading room", "digital library", "e-resource"}},
	{"syllabus", []string{"syllabus", "curriculum", "textbook", "book download", "course material"}},
	{"academic_calendar", []string{"calendar", "schedule", "academic year", "semester date", "exam date", "holiday"}},
	{"dept_cse", []string{"cse", "computer science", "csbs", "cs business"}},
	{"dept_cse_aiml_iot", []string{"ai", "ml", "aiml", "artificial intelligence", "machine learning", "iot", "internet of things", "robotics"}},
	{"dept_cse_ds_cys", []string{"data science", "ds", "aids", "ai ds", "cyber security", "cys"}},
	{"dept_mech", []string{"mechanical", "mech"}},
	{"dept_civil", []string{"civil"}},
	{"dept_ece", []string{"ece", "electronics communication"}},
	{"dept_eee", []string{"eee", "electrical electronics"}},
	{"dept_eie", []string{"eie", "instrumentation"}},
	{"dept_automobile", []string{"automobile", "auto", "automotive"}},
	{"dept_biotechnology", []string{"biotechnology", "biotech", "bio tech"}},
	{"dept_chemistry", []string{"chemistry", "chem"}},
	{"dept_english", []string{"english", "humanities", "communication"}},
	{"dept_physics", []string{"physics", "phy"}},
	{"dept_mathematics", []string{"mathematics", "math", "maths", "management"}},
	{"departments", []string{"all departments", "department list", "examination", "exam", "faculty", "hod"}},
	{"placements", []string{"placement", "package", "salary", "company", "recruited", "job", "career", "training"}},
	{"scholarship", []string{"scholarship", "financial aid", "fee concession", "waiver", "reimbursement"}},
	{"fees", []string{"fee", "cost", "tuition", "payment", "installment"}},
	{"hostel", []string{"hostel", "accommodation", "room", "boarding", "mess", "warden"}},
	{"campus", []string{"campus", "facility", "infrastructure", "lab", "sports", "gym", "canteen"}},
	{"about", []string{"about", "history", "established", "founder", "college info", "accreditation"}},
	{"admissions", []string{"admission", "apply", "application", "eligibility", "document", "counselling", "seat"}},
}

// DetectURLCategory picks which official website page to fetch for a query.
func DetectURLCategory(query string) string {
	lower := strings.ToLower(query)

	for _, rule := range urlRules {
		if rule.category == "dept_mech" {
			// The IT department check sits between the CS department rules
			// and mechanical in priority order.
			if strings.Contains(lower, "information technology") ||
				strings.HasPrefix(lower, "it ") || strings.Contains(lower, " it") {
				return "dept_it"
			}
		}
		if containsAnyKeyword(lower, rule.keywords) {
			return rule.category
		}
	}
	return "home"
}
