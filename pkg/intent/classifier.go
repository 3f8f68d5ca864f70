package intent

import (
	"context"
	"encoding/json"
	"strings"

	"admissions-chatbot-be/internal/pkg/logger"
	"admissions-chatbot-be/pkg/llm"
)

// Classifier decides what a user message is asking for.
type Classifier interface {
	Classify(ctx context.Context, message string) Intent
}

const classifierPrompt = `You are an intent classifier for a college admissions chatbot at VNR VJIET, Hyderabad.
Classify the user's message into exactly one of these intents:

- GREETING: greetings, thanks, small talk ("hi", "hello", "thank you")
- CUTOFF: asking for admission cutoff ranks for branches ("CSE cutoff", "closing rank for ECE")
- ELIGIBILITY: asking whether a given rank can get a seat ("can I get CSE with 5000 rank")
- MIXED: asks for both cutoff data and other college information in one message
- INFORMATIONAL: questions about the college itself (fees, placements, hostel, courses, campus, admissions process, documents)
- OUT_OF_SCOPE: anything unrelated to the college or admissions

Respond with JSON only, no prose: {"intent": "<INTENT>"}`

type llmClassifier struct {
	provider llm.LLMProvider
	log      logger.ILogger
}

func NewLLMClassifier(provider llm.LLMProvider, log logger.ILogger) Classifier {
	return &llmClassifier{provider: provider, log: log}
}

func (c *llmClassifier) Classify(ctx context.Context, message string) Intent {
	history := []llm.Message{
		{Role: "system", Content: classifierPrompt},
		{Role: "user", Content: message},
	}

	raw, err := c.provider.Chat(ctx, history, llm.WithTemperature(0), llm.WithMaxTokens(20))
	if err != nil {
		c.log.Warn("intent", "llm classification failed, using rules", map[string]interface{}{
			"error": err.Error(),
		})
		return RuleBased(message)
	}

	if parsed, ok := parseIntentJSON(raw); ok {
		return parsed
	}

	c.log.Warn("intent", "unparseable classifier output, using rules", map[string]interface{}{
		"output": raw,
	})
	return RuleBased(message)
}

// parseIntentJSON extracts {"intent": "..."} from model output, tolerating
// markdown code fences and surrounding prose.
func parseIntentJSON(raw string) (Intent, bool) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	if start := strings.Index(cleaned, "{"); start >= 0 {
		if end := strings.LastIndex(cleaned, "}"); end > start {
			cleaned = cleaned[start : end+1]
		}
	}

	var payload struct {
		Intent string `json:"intent"`
	}
	if err := json.Unmarshal([]byte(cleaned), &payload); err == nil {
		candidate := Intent(strings.ToUpper(strings.TrimSpace(payload.Intent)))
		if candidate.Valid() {
			return candidate, true
		}
	}

	// Some models reply with the bare label despite instructions.
	candidate := Intent(strings.ToUpper(strings.Trim(cleaned, `"' `)))
	if candidate.Valid() {
		return candidate, true
	}
	return "", false
}

var greetingPhrases = []string{
	"hi", "hello", "hey", "good morning", "good afternoon", "good evening",
	"thanks", "thank you", "namaste",
}

var cutoffKeywords = []string{
	"cutoff", "cut off", "cut-off", "closing rank", "last rank", "opening rank",
}

var eligibilityKeywords = []string{
	"eligible", "eligibility", "can i get", "will i get", "chances of getting",
	"my rank is", "with my rank",
}

var collegeKeywords = []string{
	"fee", "fees", "placement", "hostel", "campus", "course", "branch", "branches",
	"admission", "document", "faculty", "scholarship", "bus", "transport",
	"college", "vnr", "vjiet", "eapcet", "eamcet", "ecet", "counselling", "seat",
}

// RuleBased is the deterministic fallback used when the model is unavailable
// or returns garbage.
func RuleBased(message string) Intent {
	normalized := strings.ToLower(strings.TrimSpace(message))
	if normalized == "" {
		return IntentOutOfScope
	}

	for _, phrase := range greetingPhrases {
		if normalized == phrase || normalized == phrase+"!" {
			return IntentGreeting
		}
	}

	hasCutoff := containsAny(normalized, cutoffKeywords)
	hasEligibility := containsAny(normalized, eligibilityKeywords)
	hasCollege := containsAny(normalized, collegeKeywords)

	switch {
	case hasEligibility:
		return IntentEligibility
	case hasCutoff && hasCollege && hasOtherTopic(normalized):
		return IntentMixed
	case hasCutoff:
		return IntentCutoff
	case hasCollege:
		return IntentInformational
	}
	return IntentOutOfScope
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// hasOtherTopic reports whether a cutoff question also asks about a non-cutoff
// college topic, which makes the message MIXED.
func hasOtherTopic(s string) bool {
	for _, kw := range []string{"fee", "placement", "hostel", "campus", "faculty", "scholarship"} {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
