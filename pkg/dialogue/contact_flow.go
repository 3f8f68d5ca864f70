package dialogue

import (
	"fmt"
	"strings"

	"admissions-chatbot-be/pkg/store"
	"admissions-chatbot-be/pkg/validators"
)

const (
	contactSlotName      = "name"
	contactSlotEmail     = "email"
	contactSlotPhone     = "phone"
	contactSlotProgramme = "programme"
	contactSlotQueryType = "query_type"
	contactSlotMessage   = "message"
)

const (
	askName      = "I'd be happy to connect you with our admission team! 😊\n\nMay I have your **full name**?"
	askEmail     = "Thank you, %s! 👋\n\nWhat's your **email address**?"
	askPhone     = "Great! What's your **phone number**? 📞"
	askProgramme = "What programme are you interested in?\n\n1️⃣ **B.Tech** (Bachelor of Technology)\n2️⃣ **M.Tech** (Master of Technology)\n3️⃣ **MCA** (Master of Computer Applications)\n\nReply with the number or name."
	askQueryType = "Thank you! What is this regarding?\n\n1️⃣ Report fraud / unauthorized agent\n2️⃣ General admission inquiry\n3️⃣ Not satisfied with chatbot response\n4️⃣ Other\n\nReply with the number or description."
	askMessage   = "Almost done! Would you like to add any **additional message** or details?\n\n(Or reply **skip** to submit now)"
)

// AdmissionTeamContact is shown whenever the bot hands off to humans.
const AdmissionTeamContact = "📧 admissionsenquiry@vnrvjiet.in\n📞 +91-40-2304 2758"

// ContactSubmission is a fully collected contact request ready to persist.
type ContactSubmission struct {
	Name      string
	Email     string
	Phone     string
	Programme string
	QueryType string
	Message   string
}

// ContactFlow collects name, email, phone, programme, query type and an
// optional message for an admission-team callback.
type ContactFlow struct{}

// Start begins the contact pipeline, displacing any other active flow.
func (ContactFlow) Start(sess *store.Session) Outcome {
	sess.Activate(store.PipelineContact)
	sess.Contact = &store.ContactFlowState{WaitingFor: contactSlotName}
	return handled(askName, ReplyIntentContactRequest)
}

// Continue feeds one reply into the active contact flow. When every slot is
// filled the returned submission is non-nil and the caller persists it and
// builds the confirmation reply. A topic change clears the flow and reports
// not handled.
func (ContactFlow) Continue(sess *store.Session, message string) (Outcome, *ContactSubmission) {
	state := sess.Contact
	if state == nil {
		return notHandled(), nil
	}

	if IsTopicChange(message, store.PipelineContact) {
		sess.Contact = nil
		if sess.Active == store.PipelineContact {
			sess.Active = store.PipelineNone
		}
		return notHandled(), nil
	}

	switch state.WaitingFor {
	case contactSlotName:
		name := strings.TrimSpace(message)
		if len(name) < 2 {
			return handled("Please provide your **full name** (at least 2 characters).", ReplyIntentContactRequest), nil
		}
		state.Name = &name

	case contactSlotEmail:
		email := strings.TrimSpace(message)
		if !validators.IsValidEmail(email) {
			return handled("That doesn't look like a valid email address. Please enter your **email** (e.g., student@example.com).", ReplyIntentContactRequest), nil
		}
		state.Email = &email

	case contactSlotPhone:
		phone := validators.ExtractPhone(message)
		if phone == "" {
			return handled("Please provide a valid **10-digit phone number** (e.g., 9876543210).", ReplyIntentContactRequest), nil
		}
		state.Phone = &phone

	case contactSlotProgramme:
		programme := parseProgrammeChoice(message)
		if programme == "" {
			return handled("Please choose a programme:\n\n1️⃣ B.Tech\n2️⃣ M.Tech\n3️⃣ MCA\n\nReply with the number (1, 2, or 3).", ReplyIntentContactRequest), nil
		}
		state.Programme = &programme

	case contactSlotQueryType:
		queryType := parseQueryTypeChoice(message)
		if queryType == "" {
			return handled("Please choose an option:\n\n1️⃣ Report fraud\n2️⃣ General inquiry\n3️⃣ Not satisfied with chatbot\n4️⃣ Other\n\nReply with the number (1-4).", ReplyIntentContactRequest), nil
		}
		state.QueryType = &queryType

	case contactSlotMessage:
		trimmed := strings.TrimSpace(message)
		if trimmed != "" && !strings.EqualFold(trimmed, "skip") {
			state.Message = &trimmed
		}
		state.MessageSet = true
	}

	if next, ask := nextContactQuestion(state); next != "" {
		state.WaitingFor = next
		return handled(ask, ReplyIntentContactRequest), nil
	}

	submission := &ContactSubmission{
		Name:      deref(state.Name),
		Email:     deref(state.Email),
		Phone:     deref(state.Phone),
		Programme: deref(state.Programme),
		QueryType: deref(state.QueryType),
		Message:   deref(state.Message),
	}
	sess.Contact = nil
	if sess.Active == store.PipelineContact {
		sess.Active = store.PipelineNone
	}
	return Outcome{Intent: ReplyIntentContactRequest, Handled: true}, submission
}

func nextContactQuestion(state *store.ContactFlowState) (slot, ask string) {
	switch {
	case state.Name == nil:
		return contactSlotName, askName
	case state.Email == nil:
		return contactSlotEmail, fmt.Sprintf(askEmail, deref(state.Name))
	case state.Phone == nil:
		return contactSlotPhone, askPhone
	case state.Programme == nil:
		return contactSlotProgramme, askProgramme
	case state.QueryType == nil:
		return contactSlotQueryType, askQueryType
	case !state.MessageSet:
		return contactSlotMessage, askMessage
	}
	return "", ""
}

func parseProgrammeChoice(message string) string {
	msg := strings.ToLower(strings.TrimSpace(message))
	switch {
	case strings.Contains(msg, "1") || strings.Contains(msg, "b.tech") || strings.Contains(msg, "btech") || strings.Contains(msg, "bachelor"):
		return "B.Tech"
	case strings.Contains(msg, "2") || strings.Contains(msg, "m.tech") || strings.Contains(msg, "mtech") || strings.Contains(msg, "master"):
		return "M.Tech"
	case strings.Contains(msg, "3") || strings.Contains(msg, "mca"):
		return "MCA"
	}
	return ""
}

func parseQueryTypeChoice(message string) string {
	msg := strings.ToLower(strings.TrimSpace(message))
	switch {
	case strings.Contains(msg, "1") || strings.Contains(msg, "fraud") || strings.Contains(msg, "agent") || strings.Contains(msg, "scam"):
		return "fraud_report"
	case strings.Contains(msg, "2") || strings.Contains(msg, "general") || strings.Contains(msg, "inquiry") || strings.Contains(msg, "admission"):
		return "general_inquiry"
	case strings.Contains(msg, "3") || strings.Contains(msg, "not satisfied") || strings.Contains(msg, "dissatisfied") || strings.Contains(msg, "chatbot"):
		return "dissatisfied"
	case strings.Contains(msg, "4") || strings.Contains(msg, "other"):
		return "other"
	}
	return ""
}

// BuildSubmissionReply formats the confirmation shown after the request is
// persisted. Phone privacy note applies to sensitive query types.
func BuildSubmissionReply(sub *ContactSubmission, refID string) string {
	phoneNote := ""
	if sub.QueryType != "fraud_report" && sub.QueryType != "general_inquiry" {
		phoneNote = "\n\n🔒 **Note:** Your phone number is kept private and will not be shared with the admission team for this request type."
	}
	return fmt.Sprintf(
		"✅ **Request Submitted Successfully**\n\n"+
			"Thank you, **%s**! Our admission team has received your request.\n\n"+
			"**Contact Details:**\n"+
			"📧 %s\n"+
			"📞 %s\n"+
			"🎓 Programme: %s\n\n"+
			"**What's next:**\n"+
			"Our team will reach out to you within **24 hours**.\n\n"+
			"**Reference ID:** `%s`%s",
		sub.Name, sub.Email, sub.Phone, sub.Programme, refID, phoneNote,
	)
}

// BuildSubmissionErrorReply is shown when persisting the request fails.
func BuildSubmissionErrorReply() string {
	return "⚠️ There was an error processing your request. " +
		"Please contact our admission team directly:\n\n" + AdmissionTeamContact
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
