package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
	ChatMessageRoleSystem    = "system"

	// DefaultSystemPrompt is used when no prompt file is configured. The
	// production prompt ships as a separate file so admissions staff can
	// edit it without a deploy.
	DefaultSystemPrompt = `You are the official admissions assistant for VNR Vignana Jyothi Institute of Engineering and Technology (VNRVJIET), Hyderabad.

RULES:
1. Answer ONLY from the provided context blocks (cutoff data and retrieved documents).
2. Never discuss other colleges. If asked, redirect to VNRVJIET admissions topics.
3. When the context does not contain the answer, say so plainly. Do not invent fees, ranks, dates, or policies.
4. Keep answers concise and friendly. Use markdown bold for key figures.
5. Cutoff ranks are EAPCET closing ranks unless stated otherwise.`

	// User-content block headers. The cutoff block comes first so the model
	// prefers structured data over retrieved prose when both are present.
	UserQuestionHeader     = "User question: %s"
	CutoffDataHeader       = "\n--- Cutoff Data (from database) ---\n%s"
	RetrievedContextHeader = "\n--- Retrieved Context ---\n%s"
	NoContextNote          = "\n[No specific context was retrieved. Answer based on general VNRVJIET knowledge in the system prompt, or state that the information is unavailable.]"

	// Generation parameters.
	AnswerTemperature = 0.3
	AnswerMaxTokens   = 600

	// MaxHistoryPairs bounds the conversation history sent to the model and
	// kept on the session.
	MaxHistoryPairs = 10
)
