package dialogue

import (
	"strings"

	"admissions-chatbot-be/pkg/store"
)

const (
	docsWaitingProgram      = "program"
	docsWaitingProgramReply = "program_reply"
)

const askProgramme4Docs = "For which programme do you need the required documents?\n\n" +
	"1️⃣ **B.Tech** – Bachelor of Technology\n" +
	"2️⃣ **M.Tech** – Master of Technology\n" +
	"3️⃣ **MCA** – Master of Computer Applications\n\n" +
	"Reply with the number or programme name."

const reAskProgramme4Docs = "I didn't quite catch that. Please choose a programme:\n\n" +
	"1️⃣ **B.Tech**\n" +
	"2️⃣ **M.Tech**\n" +
	"3️⃣ **MCA**\n\n" +
	"Reply with the number (1, 2, or 3) or the programme name."

// documentsRAGQueries are the retrieval queries used per programme so the
// answer comes from the ingested knowledge base, not hardcoded text.
var documentsRAGQueries = map[string]string{
	"B.Tech": "What documents are required for B.Tech admission at VNRVJIET?",
	"M.Tech": "What documents are required for M.Tech admission at VNRVJIET?",
	"MCA":    "What documents are required for MCA admission at VNRVJIET?",
}

// ResolveProgramSelection maps a reply to a programme name, or "" if unclear.
func ResolveProgramSelection(reply string) string {
	r := strings.ToLower(strings.TrimSpace(reply))
	switch r {
	case "1", "b.tech", "btech", "be", "b.e", "bachelor", "b tech":
		return "B.Tech"
	case "2", "m.tech", "mtech", "me", "m.e", "master", "m tech", "masters":
		return "M.Tech"
	case "3", "mca", "m.c.a", "master of computer applications":
		return "MCA"
	}
	trimmed := strings.TrimSpace(reply)
	switch {
	case strings.HasPrefix(trimmed, "1"):
		return "B.Tech"
	case strings.HasPrefix(trimmed, "2"):
		return "M.Tech"
	case strings.HasPrefix(trimmed, "3"):
		return "MCA"
	}
	return ""
}

// DocumentsFlow asks which programme the user needs the document checklist
// for, then hands a targeted retrieval query back to the caller.
type DocumentsFlow struct{}

// Start activates the documents pipeline and asks for the programme. All
// other pipeline state is cleared first.
func (DocumentsFlow) Start(sess *store.Session) Outcome {
	sess.Activate(store.PipelineDocuments)
	sess.Documents = &store.DocumentsFlowState{WaitingFor: docsWaitingProgramReply}
	return handled(askProgramme4Docs, ReplyIntentRequiredDocuments)
}

// Continue resolves the programme reply. On success the Outcome carries the
// retrieval query in FollowupQuery and the flow tears down.
func (DocumentsFlow) Continue(sess *store.Session, message string) Outcome {
	state := sess.Documents
	if state == nil {
		return notHandled()
	}

	if state.WaitingFor == docsWaitingProgram {
		state.WaitingFor = docsWaitingProgramReply
		return handled(askProgramme4Docs, ReplyIntentRequiredDocuments)
	}

	program := ResolveProgramSelection(message)
	if program == "" {
		return handled(reAskProgramme4Docs, ReplyIntentRequiredDocuments)
	}

	sess.Documents = nil
	if sess.Active == store.PipelineDocuments {
		sess.Active = store.PipelineNone
	}
	return Outcome{
		Intent:        ReplyIntentRequiredDocuments,
		Handled:       true,
		FollowupQuery: documentsRAGQueries[program],
	}
}
