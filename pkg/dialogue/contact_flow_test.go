package dialogue

import (
	"testing"

	"admissions-chatbot-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactFlowHappyPath(t *testing.T) {
	var flow ContactFlow
	sess := store.NewSession("s1")

	out := flow.Start(sess)
	require.True(t, out.Handled)
	assert.Contains(t, out.Reply, "full name")
	assert.Equal(t, store.PipelineContact, sess.Active)

	out, sub := flow.Continue(sess, "Ravi Kumar")
	require.True(t, out.Handled)
	assert.Nil(t, sub)
	assert.Contains(t, out.Reply, "Ravi Kumar")
	assert.Contains(t, out.Reply, "email")

	out, sub = flow.Continue(sess, "ravi@example.com")
	require.True(t, out.Handled)
	assert.Nil(t, sub)
	assert.Contains(t, out.Reply, "phone")

	out, sub = flow.Continue(sess, "9876543210")
	require.True(t, out.Handled)
	assert.Nil(t, sub)
	assert.Contains(t, out.Reply, "programme")

	out, sub = flow.Continue(sess, "1")
	require.True(t, out.Handled)
	assert.Nil(t, sub)
	assert.Contains(t, out.Reply, "regarding")

	out, sub = flow.Continue(sess, "2")
	require.True(t, out.Handled)
	assert.Nil(t, sub)
	assert.Contains(t, out.Reply, "additional message")

	out, sub = flow.Continue(sess, "skip")
	require.True(t, out.Handled)
	require.NotNil(t, sub)
	assert.Equal(t, "Ravi Kumar", sub.Name)
	assert.Equal(t, "ravi@example.com", sub.Email)
	assert.Equal(t, "9876543210", sub.Phone)
	assert.Equal(t, "B.Tech", sub.Programme)
	assert.Equal(t, "general_inquiry", sub.QueryType)
	assert.Empty(t, sub.Message)
	assert.Nil(t, sess.Contact)
}

func TestContactFlowValidationReasks(t *testing.T) {
	var flow ContactFlow
	sess := store.NewSession("s1")
	flow.Start(sess)

	out, sub := flow.Continue(sess, "x")
	require.True(t, out.Handled)
	assert.Nil(t, sub)
	assert.Contains(t, out.Reply, "at least 2 characters")

	flow.Continue(sess, "Priya")

	out, _ = flow.Continue(sess, "not-an-email")
	assert.Contains(t, out.Reply, "valid email")

	flow.Continue(sess, "priya@example.com")

	out, _ = flow.Continue(sess, "12345")
	assert.Contains(t, out.Reply, "10-digit phone number")

	flow.Continue(sess, "call me at 9123456780 please")
	require.NotNil(t, sess.Contact.Phone)
	assert.Equal(t, "9123456780", *sess.Contact.Phone)
}

func TestContactFlowOptionalMessageKept(t *testing.T) {
	var flow ContactFlow
	sess := store.NewSession("s1")
	flow.Start(sess)
	flow.Continue(sess, "Anil")
	flow.Continue(sess, "anil@example.com")
	flow.Continue(sess, "9000000001")
	flow.Continue(sess, "mca")
	flow.Continue(sess, "4")

	_, sub := flow.Continue(sess, "Please call after 5pm")
	require.NotNil(t, sub)
	assert.Equal(t, "Please call after 5pm", sub.Message)
	assert.Equal(t, "other", sub.QueryType)
}

func TestContactFlowTopicChangeEscapes(t *testing.T) {
	var flow ContactFlow
	sess := store.NewSession("s1")
	flow.Start(sess)

	out, sub := flow.Continue(sess, "what is the cutoff for CSE")
	assert.False(t, out.Handled)
	assert.Nil(t, sub)
	assert.Nil(t, sess.Contact)
}

func TestBuildSubmissionReply(t *testing.T) {
	sub := &ContactSubmission{
		Name: "Ravi", Email: "r@example.com", Phone: "9876543210",
		Programme: "B.Tech", QueryType: "dissatisfied",
	}
	reply := BuildSubmissionReply(sub, "REF-123")
	assert.Contains(t, reply, "Request Submitted Successfully")
	assert.Contains(t, reply, "REF-123")
	assert.Contains(t, reply, "kept private", "privacy note for sensitive query types")

	sub.QueryType = "general_inquiry"
	reply = BuildSubmissionReply(sub, "REF-124")
	assert.NotContains(t, reply, "kept private")
}
