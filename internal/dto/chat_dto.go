package dto

type ChatRequest struct {
	Message   string `json:"message" validate:"required"`
	SessionId string `json:"session_id" validate:"required"`
	Language  string `json:"language,omitempty"`
}

type ChatResponse struct {
	Reply     string   `json:"reply"`
	Intent    string   `json:"intent"`
	SessionId string   `json:"session_id"`
	Sources   []string `json:"sources,omitempty"`
	Language  string   `json:"language"`
}

type ClearSessionRequest struct {
	SessionId string `json:"session_id" validate:"required"`
}

// ClearSessionResponse enumerates what was wiped so the frontend can show
// a meaningful confirmation.
type ClearSessionResponse struct {
	SessionId string   `json:"session_id"`
	Cleared   []string `json:"cleared"`
}

type BranchesResponse struct {
	Branches []string `json:"branches"`
}

type HealthResponse struct {
	Status         string `json:"status"`
	CutoffStore    bool   `json:"cutoff_store"`
	AnswerProvider bool   `json:"answer_provider"`
}

// StreamEvent is one SSE payload on the streaming endpoint. Terminal events
// carry either Done or Error.
type StreamEvent struct {
	Token string `json:"token,omitempty"`
	Done  bool   `json:"done,omitempty"`
	Error string `json:"error,omitempty"`

	// Set on the final event only.
	Intent  string   `json:"intent,omitempty"`
	Sources []string `json:"sources,omitempty"`
}
