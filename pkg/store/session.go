package store

import "time"

// Pipeline identifies which multi-turn collection flow currently owns the
// session. Cutoff and eligibility share one flow record; the record's Flow
// field discriminates between them.
type Pipeline string

const (
	PipelineNone          Pipeline = ""
	PipelineCutoff        Pipeline = "cutoff"
	PipelineEligibility   Pipeline = "eligibility"
	PipelineDocuments     Pipeline = "documents"
	PipelineContact       Pipeline = "contact"
	PipelineClarification Pipeline = "clarification"
	PipelineWebSearch     Pipeline = "websearch"
)

type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// YearChoice distinguishes "never asked" from an explicit year and from the
// user answering "latest". The distinction matters: a filled year slot whose
// value is "latest" must not be re-asked.
type YearChoice int

const (
	YearNotAsked YearChoice = iota
	YearExplicit
	YearLatest
)

type YearOption struct {
	Choice YearChoice `json:"choice"`
	Value  int        `json:"value,omitempty"`
}

func ExplicitYear(y int) YearOption { return YearOption{Choice: YearExplicit, Value: y} }
func LatestYear() YearOption        { return YearOption{Choice: YearLatest} }

// Filled reports whether the year slot has been answered in any form.
func (y YearOption) Filled() bool { return y.Choice != YearNotAsked }

// Year returns the explicit year, or 0 when the latest available data
// should be used.
func (y YearOption) Year() int {
	if y.Choice == YearExplicit {
		return y.Value
	}
	return 0
}

// CutoffSnapshot is the last successfully completed rank-less cutoff query.
// Kept so a follow-up eligibility request can offer to reuse the details.
type CutoffSnapshot struct {
	Branches []string   `json:"branches"`
	Category string     `json:"category"`
	Gender   string     `json:"gender"`
	Year     YearOption `json:"year"`
}

// CutoffFlowState holds the partially collected cutoff/eligibility slots.
// Slot presence is tracked with nil-ness, not truthiness.
type CutoffFlowState struct {
	Flow       Pipeline   `json:"flow"` // PipelineCutoff or PipelineEligibility
	WaitingFor string     `json:"waiting_for"`
	Branches   []string   `json:"branches,omitempty"`
	Category   *string    `json:"category,omitempty"`
	Gender     *string    `json:"gender,omitempty"`
	Year       YearOption `json:"year"`
	Rank       *int       `json:"rank,omitempty"`
	ShowTrend  bool       `json:"show_trend,omitempty"`

	// Reuse-confirmation sub-state for the cutoff -> eligibility handoff.
	ReuseData     *CutoffSnapshot `json:"reuse_data,omitempty"`
	ExtractedRank *int            `json:"extracted_rank,omitempty"`
}

type ContactFlowState struct {
	WaitingFor string  `json:"waiting_for"`
	Name       *string `json:"name,omitempty"`
	Email      *string `json:"email,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Programme  *string `json:"programme,omitempty"`
	QueryType  *string `json:"query_type,omitempty"`
	Message    *string `json:"message,omitempty"`
	MessageSet bool    `json:"message_set,omitempty"`
}

type DocumentsFlowState struct {
	WaitingFor string `json:"waiting_for"` // "program" then "program_reply"
	Program    string `json:"program,omitempty"`
}

type ClarificationFlowState struct {
	OriginalQuery string `json:"original_query"`
	Category      string `json:"category"`
}

type WebSearchFlowState struct {
	OriginalQuery string `json:"original_query"`
}

type Session struct {
	ID        string    `json:"id"`
	History   []Turn    `json:"history"`
	Language  string    `json:"language"`
	Active    Pipeline  `json:"active_pipeline"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Cutoff        *CutoffFlowState        `json:"cutoff,omitempty"`
	Contact       *ContactFlowState       `json:"contact,omitempty"`
	Documents     *DocumentsFlowState     `json:"documents,omitempty"`
	Clarification *ClarificationFlowState `json:"clarification,omitempty"`
	WebSearch     *WebSearchFlowState     `json:"websearch,omitempty"`

	// Survives cutoff-flow completion until another pipeline activates
	// or the session is cleared.
	LastCutoff *CutoffSnapshot `json:"last_cutoff,omitempty"`

	PendingLanguageChoice bool `json:"pending_language_choice,omitempty"`
}

func NewSession(id string) *Session {
	now := time.Now()
	return &Session{ID: id, CreatedAt: now, UpdatedAt: now}
}

// AppendTurn records one conversation turn, keeping at most maxPairs
// user/assistant pairs of history.
func (s *Session) AppendTurn(role, content string, maxPairs int) {
	s.History = append(s.History, Turn{Role: role, Content: content})
	if limit := maxPairs * 2; len(s.History) > limit {
		s.History = s.History[len(s.History)-limit:]
	}
	s.UpdatedAt = time.Now()
}

// Activate enforces pipeline isolation: every flow record not belonging to
// the named pipeline is dropped, so two pipelines never hold state at once.
// Cutoff and eligibility count as one family. Activating anything outside
// that family also drops the last-cutoff snapshot. PipelineNone clears
// everything.
func (s *Session) Activate(p Pipeline) {
	keepCutoff := p == PipelineCutoff || p == PipelineEligibility
	if !keepCutoff {
		s.Cutoff = nil
		s.LastCutoff = nil
	}
	if p != PipelineDocuments {
		s.Documents = nil
	}
	if p != PipelineContact {
		s.Contact = nil
	}
	if p != PipelineClarification {
		s.Clarification = nil
	}
	if p != PipelineWebSearch {
		s.WebSearch = nil
	}
	s.Active = p
	s.UpdatedAt = time.Now()
}

// Clear resets the session for a fresh start and reports which state
// categories were actually present.
func (s *Session) Clear() []string {
	var cleared []string
	if len(s.History) > 0 {
		s.History = nil
		cleared = append(cleared, "history")
	}
	if s.Cutoff != nil {
		s.Cutoff = nil
		cleared = append(cleared, "cutoff_data")
	}
	if s.Contact != nil {
		s.Contact = nil
		cleared = append(cleared, "contact_data")
	}
	if s.Documents != nil {
		s.Documents = nil
		cleared = append(cleared, "documents_data")
	}
	if s.Clarification != nil {
		s.Clarification = nil
		cleared = append(cleared, "pending_clarification")
	}
	if s.WebSearch != nil {
		s.WebSearch = nil
		cleared = append(cleared, "pending_websearch")
	}
	if s.LastCutoff != nil {
		s.LastCutoff = nil
		cleared = append(cleared, "last_cutoff")
	}
	if s.Active != PipelineNone {
		s.Active = PipelineNone
		cleared = append(cleared, "active_pipeline")
	}
	if s.Language != "" {
		s.Language = ""
		cleared = append(cleared, "language")
	}
	s.UpdatedAt = time.Now()
	return cleared
}
