package events

// TopicContactRequestSubmitted carries completed contact-form submissions to
// the background consumer for staff notification. The request is already
// persisted by the time the event is published; ReferenceId points at it.
const TopicContactRequestSubmitted = "contact.request.submitted"

// ContactRequestMessage is the pub/sub payload for a completed contact request.
type ContactRequestMessage struct {
	ReferenceId string `json:"reference_id"`
	SessionId   string `json:"session_id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Programme   string `json:"programme"`
	QueryType   string `json:"query_type"`
	Message     string `json:"message,omitempty"`
	Language    string `json:"language"`
}
