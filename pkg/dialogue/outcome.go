package dialogue

// Response intents surfaced to the client. These are conversational labels,
// distinct from the classifier's intent taxonomy.
const (
	ReplyIntentCutoff            = "cutoff"
	ReplyIntentEligibility       = "eligibility"
	ReplyIntentContactRequest    = "contact_request"
	ReplyIntentRequiredDocuments = "required_documents"
	ReplyIntentClarification     = "clarification"
	ReplyIntentInformational     = "informational"
	ReplyIntentWebSearchPrompt   = "web_search_permission"
	ReplyIntentLanguageSelection = "language_selection"
	ReplyIntentLanguageChanged   = "language_changed"
)

// SourceCutoffDatabase labels replies built from the structured cutoff store.
const SourceCutoffDatabase = "VNRVJIET Cutoff Database"

// Outcome is the result of feeding one user message into a flow handler.
//
// Handled=false means the flow declined the message (topic change or the flow
// was not active) and the caller should continue routing. FollowupQuery, when
// set, is a refined query the caller should answer via retrieval and the LLM.
type Outcome struct {
	Reply         string
	Intent        string
	Sources       []string
	Handled       bool
	FollowupQuery string

	// URLCategory, when set alongside FollowupQuery, asks the caller to
	// answer from the matching official website page instead of retrieval.
	URLCategory string
}

func handled(reply, intent string, sources ...string) Outcome {
	return Outcome{Reply: reply, Intent: intent, Sources: sources, Handled: true}
}

func notHandled() Outcome {
	return Outcome{}
}
