// FILE: internal/service/chat_service.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"admissions-chatbot-be/internal/constant"
	"admissions-chatbot-be/internal/dto"
	"admissions-chatbot-be/internal/entity"
	"admissions-chatbot-be/internal/pkg/logger"
	"admissions-chatbot-be/internal/repository/contract"
	"admissions-chatbot-be/pkg/cache"
	"admissions-chatbot-be/pkg/cutoff"
	"admissions-chatbot-be/pkg/dialogue"
	"admissions-chatbot-be/pkg/events"
	"admissions-chatbot-be/pkg/intent"
	"admissions-chatbot-be/pkg/language"
	"admissions-chatbot-be/pkg/llm"
	"admissions-chatbot-be/pkg/llm/openaiprovider"
	"admissions-chatbot-be/pkg/rag"
	"admissions-chatbot-be/pkg/store"
	"admissions-chatbot-be/pkg/validators"
	"admissions-chatbot-be/pkg/webfetch"

	"github.com/google/uuid"
)

const retrievalTopK = 8

type IChatService interface {
	Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error)
	ChatStream(ctx context.Context, req *dto.ChatRequest, emit func(dto.StreamEvent) error) error
	ClearSession(ctx context.Context, sessionID string) (*dto.ClearSessionResponse, error)
	ListBranches(ctx context.Context) []string
	Health(ctx context.Context) *dto.HealthResponse
}

type chatService struct {
	sessions     contract.SessionRepository
	contacts     contract.ContactRepository
	cutoffStore  cutoff.Store
	engine       *cutoff.Engine
	cutoffFlow   *dialogue.CutoffFlow
	contactFlow  dialogue.ContactFlow
	docsFlow     dialogue.DocumentsFlow
	clarifyFlow  dialogue.ClarificationFlow
	searchFlow   dialogue.WebSearchFlow
	classifier   intent.Classifier
	retriever    *rag.Retriever
	provider     llm.LLMProvider
	respCache    *cache.ResponseCache
	fetcher      *webfetch.Fetcher
	publisher    IPublisherService
	log          logger.ILogger
	systemPrompt string
}

func NewChatService(
	sessions contract.SessionRepository,
	contacts contract.ContactRepository,
	cutoffStore cutoff.Store,
	engine *cutoff.Engine,
	rankCeiling int,
	classifier intent.Classifier,
	retriever *rag.Retriever,
	provider llm.LLMProvider,
	respCache *cache.ResponseCache,
	fetcher *webfetch.Fetcher,
	publisher IPublisherService,
	log logger.ILogger,
	systemPrompt string,
) IChatService {
	if systemPrompt == "" {
		systemPrompt = constant.DefaultSystemPrompt
	}
	return &chatService{
		sessions:     sessions,
		contacts:     contacts,
		cutoffStore:  cutoffStore,
		engine:       engine,
		cutoffFlow:   dialogue.NewCutoffFlow(engine, rankCeiling),
		classifier:   classifier,
		retriever:    retriever,
		provider:     provider,
		respCache:    respCache,
		fetcher:      fetcher,
		publisher:    publisher,
		log:          log,
		systemPrompt: systemPrompt,
	}
}

// generationRequest describes an answer that must come from the language
// model rather than a deterministic flow.
type generationRequest struct {
	question       string
	retrieve       bool   // run vector retrieval for context
	webCategory    string // fetch a website page instead of retrieval
	cacheable      bool
	offerWebSearch bool // offer a website lookup when the model admits ignorance
	intent         string
}

// routeResult is either a finished reply or a pending generation request.
type routeResult struct {
	reply   string
	intent  string
	sources []string
	gen     *generationRequest
}

func fixed(reply, intentTag string, sources ...string) routeResult {
	return routeResult{reply: reply, intent: intentTag, sources: sources}
}

func fromOutcome(out dialogue.Outcome) routeResult {
	return routeResult{reply: out.Reply, intent: out.Intent, sources: out.Sources}
}

func (s *chatService) Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	msg := validators.SanitiseInput(req.Message)
	if msg == "" {
		return nil, constant.ErrEmptyMessage
	}

	sess := s.loadSession(ctx, req.SessionId)
	s.applyLanguage(sess, req.Language, msg)

	res := s.route(ctx, sess, msg)

	reply := res.reply
	intentTag := res.intent
	sources := res.sources
	if res.gen != nil {
		reply, intentTag, sources = s.generate(ctx, sess, res.gen)
	}

	sess.AppendTurn(constant.ChatMessageRoleUser, msg, constant.MaxHistoryPairs)
	sess.AppendTurn(constant.ChatMessageRoleAssistant, reply, constant.MaxHistoryPairs)
	if err := s.sessions.Save(ctx, sess); err != nil {
		s.log.Warn("ChatService", "failed to save session", map[string]interface{}{
			"session_id": sess.ID,
			"error":      err.Error(),
		})
	}

	return &dto.ChatResponse{
		Reply:     reply,
		Intent:    intentTag,
		SessionId: sess.ID,
		Sources:   sources,
		Language:  sess.Language,
	}, nil
}

// route decides a single handling path for the message, in strict precedence
// order: pending flows first, fresh intents after, retrieval fallback last.
// Each check either fully claims the message or falls through.
func (s *chatService) route(ctx context.Context, sess *store.Session, msg string) routeResult {
	// Pending language selection.
	if sess.PendingLanguageChoice {
		sess.PendingLanguageChoice = false
		if code := language.ParseSelection(msg); code != "" {
			sess.Language = code
			return fixed(language.Translation("language_changed", code), dialogue.ReplyIntentLanguageChanged)
		}
		// Not a selection; treat as a normal message in the old language.
	}
	if change := language.DetectChangeRequest(msg, sess.Language); change != "" {
		if change == "show_selector" {
			sess.PendingLanguageChoice = true
			return fixed(language.SelectorMessage(sess.Language), dialogue.ReplyIntentLanguageSelection)
		}
		sess.Language = change
		return fixed(language.Translation("language_changed", change), dialogue.ReplyIntentLanguageChanged)
	}

	// Pending web-search permission.
	if sess.WebSearch != nil {
		if out := s.searchFlow.Continue(sess, msg); out.Handled {
			if out.FollowupQuery != "" {
				return routeResult{gen: &generationRequest{
					question:    out.FollowupQuery,
					webCategory: out.URLCategory,
					intent:      dialogue.ReplyIntentInformational,
				}}
			}
			return fromOutcome(out)
		}
	}

	// Pending clarification menu.
	if sess.Clarification != nil {
		if out := s.clarifyFlow.Continue(sess, msg); out.Handled {
			if out.FollowupQuery != "" {
				return routeResult{gen: &generationRequest{
					question:  out.FollowupQuery,
					retrieve:  true,
					cacheable: true,
					intent:    dialogue.ReplyIntentInformational,
				}}
			}
			return fromOutcome(out)
		}
	}

	// Pending contact collection.
	if sess.Contact != nil {
		if out, sub := s.contactFlow.Continue(sess, msg); out.Handled {
			if sub != nil {
				return s.completeContact(ctx, sess, sub)
			}
			return fromOutcome(out)
		}
	}

	// Pending cutoff/eligibility collection.
	if sess.Cutoff != nil {
		if out := s.cutoffFlow.Continue(ctx, sess, msg); out.Handled {
			return fromOutcome(out)
		}
	}

	// Fresh documents request displaces any other pipeline.
	if dialogue.IsDocumentsRequest(msg) {
		return fromOutcome(s.docsFlow.Start(sess))
	}

	// Fresh contact request.
	if dialogue.IsContactRequest(msg) {
		return fromOutcome(s.contactFlow.Start(sess))
	}

	classified := s.classifier.Classify(ctx, msg)
	switch classified {
	case intent.IntentGreeting:
		return fixed(language.GreetingMessage(sess.Language), "greeting")
	case intent.IntentOutOfScope:
		return fixed(language.OutOfScopeMessage(sess.Language), "out_of_scope")
	}

	// Follow-ups reusing the last completed cutoff lookup.
	if out := s.cutoffFlow.TrendFollowup(ctx, sess, msg); out.Handled {
		return fromOutcome(out)
	}
	if out := s.cutoffFlow.GenderFollowup(ctx, sess, msg); out.Handled {
		return fromOutcome(out)
	}

	// Fresh cutoff/eligibility/mixed intent.
	if classified.NeedsCutoffData() {
		if out := s.cutoffFlow.Start(ctx, sess, msg, classified == intent.IntentEligibility); out.Handled {
			return fromOutcome(out)
		}
	}

	// Broad informational query gets a narrowing menu.
	if cat := dialogue.DetectClarificationCategory(msg); cat != "" {
		return fromOutcome(s.clarifyFlow.Begin(sess, msg, cat))
	}

	// Cached informational answer.
	if entry, ok := s.respCache.Get(msg, dialogue.ReplyIntentInformational, sess.Language); ok {
		return routeResult{reply: entry.Reply, intent: entry.Intent, sources: entry.Sources}
	}

	// Full retrieval + generation fallback.
	return routeResult{gen: &generationRequest{
		question:       msg,
		retrieve:       true,
		cacheable:      true,
		offerWebSearch: true,
		intent:         dialogue.ReplyIntentInformational,
	}}
}

// generate answers a generationRequest, including context assembly, the
// minimal-context retry, caching and the web-search offer. Errors degrade to
// fixed advisory replies; they never escape as faults.
func (s *chatService) generate(ctx context.Context, sess *store.Session, gen *generationRequest) (reply, intentTag string, sources []string) {
	contextText, sources, failure := s.assembleContext(ctx, gen)
	if failure != "" {
		return failure, dialogue.ReplyIntentInformational, nil
	}

	reply, err := s.callModel(ctx, sess, gen.question, contextText)
	if err != nil {
		s.log.Error("ChatService", "answer generation failed", map[string]interface{}{
			"session_id": sess.ID,
			"error":      err.Error(),
		})
		return constant.GenerationFailureReply, dialogue.ReplyIntentInformational, nil
	}

	if gen.offerWebSearch && dialogue.LacksInformation(reply) {
		out := s.searchFlow.Offer(sess, gen.question, reply)
		return out.Reply, out.Intent, nil
	}

	if gen.cacheable {
		s.respCache.Set(gen.question, dialogue.ReplyIntentInformational, sess.Language, &cache.Entry{
			Reply:   reply,
			Intent:  gen.intent,
			Sources: sources,
		})
	}
	return reply, gen.intent, sources
}

// assembleContext gathers either a website page or retrieved chunks. A
// website fetch failure is terminal for the turn; a retrieval failure just
// means answering without context.
func (s *chatService) assembleContext(ctx context.Context, gen *generationRequest) (contextText string, sources []string, failureReply string) {
	if gen.webCategory != "" {
		url := s.fetcher.ResolveURL(gen.webCategory)
		text, err := s.fetcher.FetchText(ctx, url)
		if err != nil {
			s.log.Error("ChatService", "website fetch failed", map[string]interface{}{
				"url":   url,
				"error": err.Error(),
			})
			return "", nil, dialogue.WebSearchFailedReply
		}
		return text, []string{fmt.Sprintf("VNRVJIET Website (%s)", url)}, ""
	}

	if gen.retrieve && s.retriever != nil {
		res, err := s.retriever.Retrieve(ctx, gen.question, retrievalTopK)
		if err != nil {
			s.log.Warn("ChatService", "retrieval failed, answering without context", map[string]interface{}{
				"error": err.Error(),
			})
			return "", nil, ""
		}
		return res.ContextText, res.Sources(), ""
	}
	return "", nil, ""
}

func (s *chatService) callModel(ctx context.Context, sess *store.Session, question, contextText string) (string, error) {
	messages := s.buildMessages(sess, question, contextText, "")

	reply, err := s.provider.Chat(ctx, messages,
		llm.WithTemperature(constant.AnswerTemperature),
		llm.WithMaxTokens(constant.AnswerMaxTokens),
	)
	if err == nil {
		return strings.TrimSpace(reply), nil
	}
	if !openaiprovider.IsTokenLimit(err) {
		return "", err
	}

	// Context window overflow: one retry with system prompt + bare question.
	s.log.Warn("ChatService", "token limit hit, retrying with minimal context", map[string]interface{}{
		"session_id": sess.ID,
	})
	minimal := []llm.Message{
		{Role: constant.ChatMessageRoleSystem, Content: s.systemWithLanguage(sess.Language)},
		{Role: constant.ChatMessageRoleUser, Content: question},
	}
	reply, err = s.provider.Chat(ctx, minimal,
		llm.WithTemperature(constant.AnswerTemperature),
		llm.WithMaxTokens(constant.AnswerMaxTokens),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", constant.ErrUpstreamExhausted, err)
	}
	return strings.TrimSpace(reply), nil
}

func (s *chatService) systemWithLanguage(lang string) string {
	return s.systemPrompt + "\n\n**IMPORTANT: " + language.Instruction(lang) + "**"
}

func (s *chatService) buildMessages(sess *store.Session, question, contextText, cutoffInfo string) []llm.Message {
	parts := []string{fmt.Sprintf(constant.UserQuestionHeader, question)}
	if cutoffInfo != "" {
		parts = append(parts, fmt.Sprintf(constant.CutoffDataHeader, cutoffInfo))
	}
	if contextText != "" {
		parts = append(parts, fmt.Sprintf(constant.RetrievedContextHeader, contextText))
	}
	if cutoffInfo == "" && contextText == "" {
		parts = append(parts, constant.NoContextNote)
	}

	messages := make([]llm.Message, 0, len(sess.History)+2)
	messages = append(messages, llm.Message{
		Role:    constant.ChatMessageRoleSystem,
		Content: s.systemWithLanguage(sess.Language),
	})
	for _, turn := range sess.History {
		messages = append(messages, llm.Message{Role: turn.Role, Content: turn.Content})
	}
	messages = append(messages, llm.Message{
		Role:    constant.ChatMessageRoleUser,
		Content: strings.Join(parts, "\n"),
	})
	return messages
}

// completeContact persists the submission, notifies the team through the
// event bus, and builds the confirmation carrying the reference id.
func (s *chatService) completeContact(ctx context.Context, sess *store.Session, sub *dialogue.ContactSubmission) routeResult {
	request := &entity.ContactRequest{
		Id:        uuid.New(),
		Name:      sub.Name,
		Email:     sub.Email,
		Phone:     sub.Phone,
		Programme: sub.Programme,
		QueryType: sub.QueryType,
		Message:   sub.Message,
		SessionId: sess.ID,
		Language:  sess.Language,
		CreatedAt: time.Now(),
	}

	refID, err := s.contacts.Save(ctx, request)
	if err != nil {
		s.log.Error("ChatService", "failed to persist contact request", map[string]interface{}{
			"session_id": sess.ID,
			"error":      err.Error(),
		})
		return fixed(dialogue.BuildSubmissionErrorReply(), dialogue.ReplyIntentContactRequest)
	}

	payload, err := json.Marshal(events.ContactRequestMessage{
		ReferenceId: refID,
		SessionId:   sess.ID,
		Name:        sub.Name,
		Email:       sub.Email,
		Phone:       sub.Phone,
		Programme:   sub.Programme,
		QueryType:   sub.QueryType,
		Message:     sub.Message,
		Language:    sess.Language,
	})
	if err == nil {
		err = s.publisher.Publish(ctx, payload)
	}
	if err != nil {
		// Notification is best effort; the request itself is already saved.
		s.log.Warn("ChatService", "failed to publish contact event", map[string]interface{}{
			"reference_id": refID,
			"error":        err.Error(),
		})
	}

	return fixed(dialogue.BuildSubmissionReply(sub, refID), dialogue.ReplyIntentContactRequest)
}

// ChatStream routes exactly like Chat but delivers generated answers token
// by token. Deterministic flow replies arrive as a single token. Failures
// become a terminal error event; the stream always ends with Done.
func (s *chatService) ChatStream(ctx context.Context, req *dto.ChatRequest, emit func(dto.StreamEvent) error) error {
	msg := validators.SanitiseInput(req.Message)
	if msg == "" {
		return emit(dto.StreamEvent{Error: constant.ErrEmptyMessage.Error(), Done: true})
	}

	sess := s.loadSession(ctx, req.SessionId)
	s.applyLanguage(sess, req.Language, msg)

	res := s.route(ctx, sess, msg)

	var reply string
	intentTag := res.intent
	sources := res.sources

	if res.gen == nil {
		reply = res.reply
		if err := emit(dto.StreamEvent{Token: reply}); err != nil {
			return err
		}
	} else {
		var err error
		reply, intentTag, sources, err = s.generateStream(ctx, sess, res.gen, emit)
		if err != nil {
			return err
		}
	}

	sess.AppendTurn(constant.ChatMessageRoleUser, msg, constant.MaxHistoryPairs)
	sess.AppendTurn(constant.ChatMessageRoleAssistant, reply, constant.MaxHistoryPairs)
	if err := s.sessions.Save(ctx, sess); err != nil {
		s.log.Warn("ChatService", "failed to save session", map[string]interface{}{
			"session_id": sess.ID,
			"error":      err.Error(),
		})
	}

	return emit(dto.StreamEvent{Done: true, Intent: intentTag, Sources: sources})
}

func (s *chatService) generateStream(ctx context.Context, sess *store.Session, gen *generationRequest, emit func(dto.StreamEvent) error) (reply, intentTag string, sources []string, emitErr error) {
	contextText, sources, failure := s.assembleContext(ctx, gen)
	if failure != "" {
		return failure, dialogue.ReplyIntentInformational, nil, emit(dto.StreamEvent{Token: failure})
	}

	var sb strings.Builder
	messages := s.buildMessages(sess, gen.question, contextText, "")
	err := s.provider.ChatStream(ctx, messages, func(token string) error {
		sb.WriteString(token)
		return emit(dto.StreamEvent{Token: token})
	},
		llm.WithTemperature(constant.AnswerTemperature),
		llm.WithMaxTokens(constant.AnswerMaxTokens),
	)
	if err != nil {
		// The stream may have broken mid-answer; fall back to the
		// non-streaming path with its minimal-context retry and deliver
		// whatever it produces as one token.
		if !openaiprovider.IsTokenLimit(err) && sb.Len() > 0 {
			s.log.Error("ChatService", "stream failed mid-answer", map[string]interface{}{
				"session_id": sess.ID,
				"error":      err.Error(),
			})
			return constant.GenerationFailureReply, dialogue.ReplyIntentInformational, nil,
				emit(dto.StreamEvent{Error: err.Error()})
		}
		full, retryErr := s.callModel(ctx, sess, gen.question, contextText)
		if retryErr != nil {
			s.log.Error("ChatService", "answer generation failed", map[string]interface{}{
				"session_id": sess.ID,
				"error":      retryErr.Error(),
			})
			return constant.GenerationFailureReply, dialogue.ReplyIntentInformational, nil,
				emit(dto.StreamEvent{Token: constant.GenerationFailureReply})
		}
		if emitErr := emit(dto.StreamEvent{Token: full}); emitErr != nil {
			return "", "", nil, emitErr
		}
		sb.Reset()
		sb.WriteString(full)
	}

	reply = strings.TrimSpace(sb.String())

	if gen.offerWebSearch && dialogue.LacksInformation(reply) {
		out := s.searchFlow.Offer(sess, gen.question, reply)
		suffix := strings.TrimPrefix(out.Reply, reply)
		if suffix != "" {
			if emitErr := emit(dto.StreamEvent{Token: suffix}); emitErr != nil {
				return "", "", nil, emitErr
			}
		}
		return out.Reply, out.Intent, nil, nil
	}

	if gen.cacheable {
		s.respCache.Set(gen.question, dialogue.ReplyIntentInformational, sess.Language, &cache.Entry{
			Reply:   reply,
			Intent:  gen.intent,
			Sources: sources,
		})
	}
	return reply, gen.intent, sources, nil
}

func (s *chatService) loadSession(ctx context.Context, sessionID string) *store.Session {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		s.log.Warn("ChatService", "failed to load session, starting fresh", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
	}
	if sess == nil {
		sess = store.NewSession(sessionID)
		sess.Language = language.Default
	}
	return sess
}

// applyLanguage picks the response language: an explicit request value wins,
// otherwise the message script is detected and the session follows it.
func (s *chatService) applyLanguage(sess *store.Session, requested, msg string) {
	if requested != "" && language.IsSupported(requested) {
		sess.Language = requested
		return
	}
	if sess.Language == "" {
		sess.Language = language.Default
	}
	if detected := language.Detect(msg); detected != sess.Language {
		s.log.Info("ChatService", "language switched by detection", map[string]interface{}{
			"session_id": sess.ID,
			"from":       sess.Language,
			"to":         detected,
		})
		sess.Language = detected
	}
}

func (s *chatService) ClearSession(ctx context.Context, sessionID string) (*dto.ClearSessionResponse, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var cleared []string
	if sess != nil {
		cleared = sess.Clear()
		if err := s.sessions.Delete(ctx, sessionID); err != nil {
			return nil, err
		}
	}
	if cleared == nil {
		cleared = []string{}
	}
	return &dto.ClearSessionResponse{SessionId: sessionID, Cleared: cleared}, nil
}

func (s *chatService) ListBranches(ctx context.Context) []string {
	return s.engine.ListBranches(ctx)
}

func (s *chatService) Health(ctx context.Context) *dto.HealthResponse {
	probeCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	storeOK := true
	if _, err := s.cutoffStore.Branches(probeCtx); err != nil {
		storeOK = false
	}

	status := "ok"
	if !storeOK {
		status = "degraded"
	}
	return &dto.HealthResponse{
		Status:         status,
		CutoffStore:    storeOK,
		AnswerProvider: s.provider != nil,
	}
}
