package bootstrap

import (
	"context"
	"log"
	"os"
	"time"

	"admissions-chatbot-be/internal/config"
	"admissions-chatbot-be/internal/controller"
	"admissions-chatbot-be/internal/pkg/logger"
	"admissions-chatbot-be/internal/pkg/mailer"
	"admissions-chatbot-be/internal/repository/contract"
	"admissions-chatbot-be/internal/repository/firestoredb"
	"admissions-chatbot-be/internal/repository/memory"
	"admissions-chatbot-be/internal/repository/redisrepo"
	"admissions-chatbot-be/internal/service"
	"admissions-chatbot-be/pkg/cache"
	"admissions-chatbot-be/pkg/cutoff"
	"admissions-chatbot-be/pkg/embedding"
	"admissions-chatbot-be/pkg/intent"
	"admissions-chatbot-be/pkg/llm/factory"
	"admissions-chatbot-be/pkg/rag"
	"admissions-chatbot-be/pkg/webfetch"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	ChatController controller.IChatController
	ChatService    service.IChatService

	// Background services, run by main.go.
	ConsumerService service.IConsumerService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderEmail,
		cfg.SMTP.TeamEmail,
	)

	// Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// Answer generator
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.OpenAIAPIKey,
		cfg.Ai.LLMModel,
		cfg.Ai.LLMBaseURL,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	embeddingProvider := embedding.NewOpenAIProvider(cfg.Ai.OpenAIAPIKey, cfg.Ai.EmbeddingModel)

	// Session storage: Redis when configured, in-process cache otherwise.
	sessionTTL := time.Duration(cfg.Chat.SessionTTLMinutes) * time.Minute
	var sessionRepo contract.SessionRepository
	if cfg.Redis.Enabled {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatalf("[FATAL] Invalid REDIS_URL: %v", err)
		}
		sessionRepo = redisrepo.NewSessionRepository(redis.NewClient(opts), sessionTTL)
		log.Printf("[INFO] Using Redis session store")
	} else {
		sessionRepo = memory.NewSessionRepository(sessionTTL)
		log.Printf("[INFO] Using in-memory session store")
	}

	// Cutoff store and contact persistence: Firestore in production, the
	// in-memory store (optionally seeded from a file) for local work.
	var (
		cutoffStore cutoff.Store
		contactRepo contract.ContactRepository
	)
	if cfg.Firestore.ProjectID != "" {
		fsClient, err := firestoredb.NewClient(context.Background(), cfg.Firestore.ProjectID, cfg.Firestore.CredentialsFile)
		if err != nil {
			log.Fatalf("[FATAL] Failed to connect to Firestore: %v", err)
		}
		cutoffStore = firestoredb.NewCutoffRepository(fsClient, sysLogger)
		contactRepo = firestoredb.NewContactRepository(fsClient, sysLogger)
		log.Printf("[INFO] Using Firestore cutoff store (project %s)", cfg.Firestore.ProjectID)
	} else {
		memStore := memory.NewCutoffRepository()
		if cfg.Chat.CutoffSeedFile != "" {
			seeded, err := memory.NewCutoffRepositoryFromFile(cfg.Chat.CutoffSeedFile)
			if err != nil {
				log.Fatalf("[FATAL] Failed to seed cutoff store: %v", err)
			}
			memStore = seeded
		}
		cutoffStore = memStore
		contactRepo = memory.NewContactRepository(sysLogger)
		log.Printf("[WARN] FIRESTORE_PROJECT_ID not set, using in-memory cutoff store")
	}

	engine := cutoff.NewEngine(cutoffStore, sysLogger, config.DepartmentURLs)

	retriever := rag.NewRetriever(db, embeddingProvider, sysLogger, cfg.Chat.RetrievalTopK)
	classifier := intent.NewLLMClassifier(llmProvider, sysLogger)
	respCache := cache.NewResponseCache()
	fetcher := webfetch.NewFetcher(config.WebsiteURLs, config.DepartmentURLs)

	publisherService := service.NewPublisherService(pubSub, cfg.Chat.ContactTopicName)
	consumerService := service.NewConsumerService(pubSub, cfg.Chat.ContactTopicName, emailService, sysLogger)

	chatService := service.NewChatService(
		sessionRepo,
		contactRepo,
		cutoffStore,
		engine,
		cfg.Chat.RankCeiling,
		classifier,
		retriever,
		llmProvider,
		respCache,
		fetcher,
		publisherService,
		sysLogger,
		loadSystemPrompt(cfg.Ai.SystemPromptPath),
	)

	return &Container{
		ChatController:  controller.NewChatController(chatService),
		ChatService:     chatService,
		ConsumerService: consumerService,
		Logger:          sysLogger,
	}
}

func loadSystemPrompt(path string) string {
	if path == "" {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("[WARN] Failed to read system prompt %s: %v (using default)", path, err)
		return ""
	}
	return string(data)
}
