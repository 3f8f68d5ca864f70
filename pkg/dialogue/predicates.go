package dialogue

import (
	"strings"

	"admissions-chatbot-be/pkg/store"
)

var exitPhrases = []string{
	"never mind", "nevermind", "forget it", "cancel", "stop",
	"go back", "start over", "new question", "different question",
	"something else", "change topic", "actually", "wait", "hold on",
}

// Informational keywords that signal a topic change while collecting
// cutoff or eligibility details.
var cutoffFlowInfoKeywords = []string{
	"placement", "package", "salary", "company", "recruit",
	"campus", "hostel", "mess", "accommodation", "facility",
	"fee", "fees", "cost", "scholarship", "financial",
	"faculty", "professor", "teacher", "staff",
	"infrastructure", "library", "lab", "computer",
	"sports", "club", "extra", "cultural", "event",
	"location", "address", "how to reach", "transport",
	"admission process", "how to apply", "application",
	"document", "certificate", "eligibility criteria",
	"lateral", "management", "nri", "seat", "quota",
}

// Keywords that signal a topic change while collecting contact details.
var contactFlowEscapeKeywords = []string{
	"cutoff", "cut-off", "rank", "eapcet", "eligible",
	"admission", "seat", "can i get", "will i get",
	"placement", "fee", "campus", "hostel", "faculty",
	"course", "branch", "program",
}

var questionWords = []string{
	"what", "when", "where", "how", "why", "which", "who",
	"tell me", "show me", "give me",
}

// IsTopicChange reports whether the user is abandoning the active collection
// flow to ask about something else.
func IsTopicChange(message string, flow store.Pipeline) bool {
	msg := strings.ToLower(strings.TrimSpace(message))

	for _, phrase := range exitPhrases {
		if strings.Contains(msg, phrase) {
			return true
		}
	}

	// Asking about required documents escapes any pipeline.
	if IsDocumentsRequest(message) {
		return true
	}

	wordCount := len(strings.Fields(msg))

	if flow == store.PipelineCutoff || flow == store.PipelineEligibility {
		if wordCount >= 2 && containsAnyKeyword(msg, cutoffFlowInfoKeywords) {
			return true
		}
	}

	if flow == store.PipelineContact {
		if containsAnyKeyword(msg, contactFlowEscapeKeywords) {
			return true
		}
	}

	// A full question (question word + several words) means the user moved on.
	if wordCount >= 4 && containsAnyKeyword(msg, questionWords) {
		return true
	}

	return false
}

var contactKeywords = []string{
	"talk to admission", "speak with admission", "speak to someone", "talk to someone",
	"contact admission", "call me", "callback", "call back", "reach out",
	"not satisfied", "dissatisfied", "want to speak", "want to talk",
	"admission department", "admission team", "admission office",
}

// IsContactRequest reports whether the user wants a human callback.
func IsContactRequest(message string) bool {
	return containsAnyKeyword(strings.ToLower(message), contactKeywords)
}

var requiredDocumentsKeywords = []string{
	"required documents", "required document",
	"documents required", "document required",
	"what documents", "which documents", "documents needed",
	"documents for admission", "document list",
	"certificates required", "certificates needed",
	"what certificate", "which certificate",
	"admission documents", "documents to bring",
	"documents to submit", "bring documents",
}

// IsDocumentsRequest reports whether the user is asking which documents are
// needed for admission.
func IsDocumentsRequest(message string) bool {
	msg := strings.ToLower(strings.TrimSpace(message))
	if containsAnyKeyword(msg, requiredDocumentsKeywords) {
		return true
	}
	switch msg {
	case "documents", "document", "docs", "certificates":
		return true
	}
	return false
}

var trendKeywords = []string{
	"trend", "history", "historical", "all years", "over years",
	"analysis", "analyze", "analyse", "past years", "progression",
	"how has", "changed over", "comparison", "compare years",
	"how it's been", "how its been", "show me all", "from past",
	"previous years", "over the years", "year by year", "yearly",
	"show trend", "give trend", "show all years", "all available years",
}

// IsTrendRequest reports whether the user wants multi-year trend analysis.
func IsTrendRequest(message string) bool {
	return containsAnyKeyword(strings.ToLower(message), trendKeywords)
}

var yesPatterns = []string{
	"yes", "yeah", "yep", "sure", "ok", "okay", "fine",
	"go ahead", "please", "do it", "search", "yes please",
	"👍", "✓", "✔",
}

var noPatterns = []string{
	"no", "nope", "nah", "don't", "dont", "not now",
	"skip", "cancel", "never mind", "nevermind",
}

func IsYesResponse(message string) bool {
	return containsAnyKeyword(strings.ToLower(strings.TrimSpace(message)), yesPatterns)
}

func IsNoResponse(message string) bool {
	return containsAnyKeyword(strings.ToLower(strings.TrimSpace(message)), noPatterns)
}

// reuseConfirmations are the strict affirmatives accepted when offering to
// reuse a previous cutoff query for an eligibility check.
var reuseConfirmations = map[string]bool{
	"yes": true, "y": true, "yeah": true, "yep": true,
	"sure": true, "ok": true, "okay": true,
}

func isReuseConfirmation(message string) bool {
	return reuseConfirmations[strings.ToLower(strings.TrimSpace(message))]
}

var noRankPhrases = []string{
	"no rank", "don't have", "dont have", "no", "don't know", "not sure", "skip",
}

func isNoRankReply(message string) bool {
	return containsAnyKeyword(strings.ToLower(message), noRankPhrases)
}

func containsAnyKeyword(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
