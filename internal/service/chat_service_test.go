package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"admissions-chatbot-be/internal/constant"
	"admissions-chatbot-be/internal/dto"
	"admissions-chatbot-be/internal/entity"
	"admissions-chatbot-be/internal/pkg/logger"
	"admissions-chatbot-be/pkg/cache"
	"admissions-chatbot-be/pkg/cutoff"
	"admissions-chatbot-be/pkg/dialogue"
	"admissions-chatbot-be/pkg/intent"
	"admissions-chatbot-be/pkg/language"
	"admissions-chatbot-be/pkg/llm"
	"admissions-chatbot-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSessionRepo struct {
	sessions map[string]*store.Session
	getErr   error
	saveErr  error
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[string]*store.Session{}}
}

func (f *fakeSessionRepo) Save(_ context.Context, s *store.Session) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.sessions[s.ID] = s
	return nil
}

func (f *fakeSessionRepo) Get(_ context.Context, id string) (*store.Session, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.sessions[id], nil
}

func (f *fakeSessionRepo) Delete(_ context.Context, id string) error {
	delete(f.sessions, id)
	return nil
}

type fakeContactRepo struct {
	saved []*entity.ContactRequest
	err   error
}

func (f *fakeContactRepo) Save(_ context.Context, r *entity.ContactRequest) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.saved = append(f.saved, r)
	return "REQ-TEST1234", nil
}

type fakeCutoffStore struct {
	rows     []cutoff.Record
	branches []string
	err      error
}

func (f *fakeCutoffStore) Query(_ context.Context, _ cutoff.Filter) ([]cutoff.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rows, nil
}

func (f *fakeCutoffStore) Branches(_ context.Context) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.branches, nil
}

type fakeClassifier struct {
	result intent.Intent
}

func (f *fakeClassifier) Classify(_ context.Context, _ string) intent.Intent {
	return f.result
}

// fakeProvider serves canned replies and counts calls, streaming each reply
// as two tokens so accumulation is exercised.
type fakeProvider struct {
	reply string
	err   error
	calls int
}

func (f *fakeProvider) Chat(_ context.Context, _ []llm.Message, _ ...llm.Option) (string, error) {
	f.calls++
	return f.reply, f.err
}

func (f *fakeProvider) ChatStream(_ context.Context, _ []llm.Message, handler llm.StreamHandler, _ ...llm.Option) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	half := len(f.reply) / 2
	if err := handler(f.reply[:half]); err != nil {
		return err
	}
	return handler(f.reply[half:])
}

func (f *fakeProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, options...)
}

type fakePublisher struct {
	published [][]byte
	err       error
}

func (f *fakePublisher) Publish(_ context.Context, payload []byte) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, payload)
	return nil
}

type chatFixture struct {
	svc        IChatService
	sessions   *fakeSessionRepo
	contacts   *fakeContactRepo
	storeFake  *fakeCutoffStore
	classifier *fakeClassifier
	provider   *fakeProvider
	publisher  *fakePublisher
}

func newChatFixture() *chatFixture {
	f := &chatFixture{
		sessions:   newFakeSessionRepo(),
		contacts:   &fakeContactRepo{},
		storeFake:  &fakeCutoffStore{branches: []string{"CSE", "ECE"}},
		classifier: &fakeClassifier{result: intent.IntentInformational},
		provider:   &fakeProvider{reply: "VNRVJIET offers strong placements."},
		publisher:  &fakePublisher{},
	}
	engine := cutoff.NewEngine(f.storeFake, logger.Nop(), map[string]string{"cse": "https://example.edu/cse"})
	f.svc = NewChatService(
		f.sessions, f.contacts, f.storeFake, engine, 200000,
		f.classifier, nil, f.provider, cache.NewResponseCache(), nil,
		f.publisher, logger.Nop(), "",
	)
	return f
}

func TestChatEmptyMessage(t *testing.T) {
	f := newChatFixture()
	_, err := f.svc.Chat(context.Background(), &dto.ChatRequest{Message: "   ", SessionId: "s1"})
	assert.ErrorIs(t, err, constant.ErrEmptyMessage)
}

func TestChatGreeting(t *testing.T) {
	f := newChatFixture()
	f.classifier.result = intent.IntentGreeting

	resp, err := f.svc.Chat(context.Background(), &dto.ChatRequest{Message: "hello there", SessionId: "s1"})
	require.NoError(t, err)
	assert.Equal(t, "greeting", resp.Intent)
	assert.Equal(t, language.GreetingMessage("en"), resp.Reply)
	assert.Equal(t, 0, f.provider.calls)

	saved := f.sessions.sessions["s1"]
	require.NotNil(t, saved)
	assert.Len(t, saved.History, 2)
}

func TestChatOutOfScope(t *testing.T) {
	f := newChatFixture()
	f.classifier.result = intent.IntentOutOfScope

	resp, err := f.svc.Chat(context.Background(), &dto.ChatRequest{Message: "best pizza in town?", SessionId: "s1"})
	require.NoError(t, err)
	assert.Equal(t, "out_of_scope", resp.Intent)
	assert.Equal(t, language.OutOfScopeMessage("en"), resp.Reply)
}

func TestChatInformationalGenerationAndCache(t *testing.T) {
	f := newChatFixture()

	resp, err := f.svc.Chat(context.Background(), &dto.ChatRequest{Message: "what is the highest package offered", SessionId: "s1"})
	require.NoError(t, err)
	assert.Equal(t, dialogue.ReplyIntentInformational, resp.Intent)
	assert.Equal(t, "VNRVJIET offers strong placements.", resp.Reply)
	assert.Equal(t, 1, f.provider.calls)

	// Same question again is served from the response cache.
	resp2, err := f.svc.Chat(context.Background(), &dto.ChatRequest{Message: "what is the highest package offered", SessionId: "s2"})
	require.NoError(t, err)
	assert.Equal(t, resp.Reply, resp2.Reply)
	assert.Equal(t, 1, f.provider.calls)
}

func TestChatGenerationFailureDegrades(t *testing.T) {
	f := newChatFixture()
	f.provider.err = errors.New("upstream down")

	resp, err := f.svc.Chat(context.Background(), &dto.ChatRequest{Message: "what is the highest package offered", SessionId: "s1"})
	require.NoError(t, err)
	assert.Equal(t, constant.GenerationFailureReply, resp.Reply)
}

func TestChatWebSearchOfferOnIgnorance(t *testing.T) {
	f := newChatFixture()
	f.provider.reply = "I don't have that information in my knowledge base."

	resp, err := f.svc.Chat(context.Background(), &dto.ChatRequest{Message: "transport routes to campus", SessionId: "s1"})
	require.NoError(t, err)
	assert.Equal(t, dialogue.ReplyIntentWebSearchPrompt, resp.Intent)
	assert.Contains(t, resp.Reply, "Reply **yes** or **no**")

	sess := f.sessions.sessions["s1"]
	require.NotNil(t, sess.WebSearch)
	assert.Equal(t, "transport routes to campus", sess.WebSearch.OriginalQuery)

	// Declining closes the offer without another model call.
	calls := f.provider.calls
	resp2, err := f.svc.Chat(context.Background(), &dto.ChatRequest{Message: "no", SessionId: "s1"})
	require.NoError(t, err)
	assert.Equal(t, dialogue.ReplyIntentInformational, resp2.Intent)
	assert.Equal(t, calls, f.provider.calls)
	assert.Nil(t, f.sessions.sessions["s1"].WebSearch)
}

func TestChatDocumentsRequestDisplacesPendingCutoff(t *testing.T) {
	f := newChatFixture()
	sess := store.NewSession("s1")
	sess.Language = "en"
	sess.Activate(store.PipelineCutoff)
	sess.Cutoff = &store.CutoffFlowState{}
	f.sessions.sessions["s1"] = sess

	resp, err := f.svc.Chat(context.Background(), &dto.ChatRequest{Message: "what documents are required", SessionId: "s1"})
	require.NoError(t, err)
	assert.Equal(t, dialogue.ReplyIntentRequiredDocuments, resp.Intent)
	assert.Nil(t, f.sessions.sessions["s1"].Cutoff)
}

func TestChatLanguageSelectorRoundTrip(t *testing.T) {
	f := newChatFixture()

	resp, err := f.svc.Chat(context.Background(), &dto.ChatRequest{Message: "change language", SessionId: "s1"})
	require.NoError(t, err)
	assert.Equal(t, dialogue.ReplyIntentLanguageSelection, resp.Intent)
	assert.True(t, f.sessions.sessions["s1"].PendingLanguageChoice)

	resp2, err := f.svc.Chat(context.Background(), &dto.ChatRequest{Message: "3", SessionId: "s1"})
	require.NoError(t, err)
	assert.Equal(t, dialogue.ReplyIntentLanguageChanged, resp2.Intent)
	assert.Equal(t, "te", resp2.Language)
	assert.False(t, f.sessions.sessions["s1"].PendingLanguageChoice)
}

func TestChatExplicitLanguageRequestWins(t *testing.T) {
	f := newChatFixture()
	f.classifier.result = intent.IntentGreeting

	resp, err := f.svc.Chat(context.Background(), &dto.ChatRequest{Message: "hello", SessionId: "s1", Language: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "hi", resp.Language)
	assert.Equal(t, language.GreetingMessage("hi"), resp.Reply)
}

func TestChatContactFlowCompletion(t *testing.T) {
	f := newChatFixture()

	steps := []string{
		"I want to talk to admission team",
		"Ravi Kumar",
		"ravi@example.com",
		"9876543210",
		"1",
		"2",
		"skip",
	}
	var resp *dto.ChatResponse
	var err error
	for _, msg := range steps {
		resp, err = f.svc.Chat(context.Background(), &dto.ChatRequest{Message: msg, SessionId: "s1"})
		require.NoError(t, err)
	}

	assert.Equal(t, dialogue.ReplyIntentContactRequest, resp.Intent)
	assert.Contains(t, resp.Reply, "REQ-TEST1234")

	require.Len(t, f.contacts.saved, 1)
	saved := f.contacts.saved[0]
	assert.Equal(t, "Ravi Kumar", saved.Name)
	assert.Equal(t, "ravi@example.com", saved.Email)
	assert.Equal(t, "9876543210", saved.Phone)
	assert.Equal(t, "B.Tech", saved.Programme)
	assert.Equal(t, "general_inquiry", saved.QueryType)
	assert.Equal(t, "s1", saved.SessionId)

	require.Len(t, f.publisher.published, 1)
	assert.Contains(t, string(f.publisher.published[0]), "REQ-TEST1234")
}

func TestChatContactPersistFailure(t *testing.T) {
	f := newChatFixture()
	f.contacts.err = errors.New("firestore down")

	steps := []string{
		"I want to talk to admission team",
		"Ravi Kumar",
		"ravi@example.com",
		"9876543210",
		"1",
		"2",
		"skip",
	}
	var resp *dto.ChatResponse
	var err error
	for _, msg := range steps {
		resp, err = f.svc.Chat(context.Background(), &dto.ChatRequest{Message: msg, SessionId: "s1"})
		require.NoError(t, err)
	}

	assert.Equal(t, dialogue.ReplyIntentContactRequest, resp.Intent)
	assert.Empty(t, f.publisher.published)
	assert.NotContains(t, resp.Reply, "REQ-")
}

func TestChatStreamGreeting(t *testing.T) {
	f := newChatFixture()
	f.classifier.result = intent.IntentGreeting

	var events []dto.StreamEvent
	err := f.svc.ChatStream(context.Background(), &dto.ChatRequest{Message: "hi", SessionId: "s1"}, func(ev dto.StreamEvent) error {
		events = append(events, ev)
		return nil
	})
	require.NoError(t, err)

	require.Len(t, events, 2)
	assert.Equal(t, language.GreetingMessage("en"), events[0].Token)
	assert.True(t, events[1].Done)
	assert.Equal(t, "greeting", events[1].Intent)
}

func TestChatStreamGeneratedTokens(t *testing.T) {
	f := newChatFixture()

	var sb strings.Builder
	var last dto.StreamEvent
	err := f.svc.ChatStream(context.Background(), &dto.ChatRequest{Message: "who is the principal of the college", SessionId: "s1"}, func(ev dto.StreamEvent) error {
		sb.WriteString(ev.Token)
		last = ev
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, f.provider.reply, sb.String())
	assert.True(t, last.Done)
	assert.Equal(t, dialogue.ReplyIntentInformational, last.Intent)

	saved := f.sessions.sessions["s1"]
	require.NotNil(t, saved)
	assert.Equal(t, f.provider.reply, saved.History[1].Content)
}

func TestClearSession(t *testing.T) {
	f := newChatFixture()
	sess := store.NewSession("s1")
	sess.Activate(store.PipelineContact)
	sess.Contact = &store.ContactFlowState{}
	f.sessions.sessions["s1"] = sess

	resp, err := f.svc.ClearSession(context.Background(), "s1")
	require.NoError(t, err)
	assert.Contains(t, resp.Cleared, "contact_data")
	assert.Nil(t, f.sessions.sessions["s1"])
}

func TestClearSessionUnknown(t *testing.T) {
	f := newChatFixture()
	resp, err := f.svc.ClearSession(context.Background(), "nope")
	require.NoError(t, err)
	assert.NotNil(t, resp.Cleared)
	assert.Empty(t, resp.Cleared)
}

func TestHealth(t *testing.T) {
	f := newChatFixture()
	h := f.svc.Health(context.Background())
	assert.Equal(t, "ok", h.Status)
	assert.True(t, h.CutoffStore)

	f.storeFake.err = cutoff.ErrStoreUnavailable
	h = f.svc.Health(context.Background())
	assert.Equal(t, "degraded", h.Status)
	assert.False(t, h.CutoffStore)
}
