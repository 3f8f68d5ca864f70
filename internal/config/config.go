package config

import (
	"log"
	"os"
	"strconv"

	"admissions-chatbot-be/pkg/events"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Firestore FirestoreConfig
	SMTP      SMTPConfig
	Ai        AIConfig
	Chat      ChatConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
}

// DatabaseConfig is the Postgres connection holding the document-chunk
// vector table.
type DatabaseConfig struct {
	Connection string
}

type RedisConfig struct {
	URL     string
	Enabled bool
}

type FirestoreConfig struct {
	ProjectID       string
	CredentialsFile string
}

type SMTPConfig struct {
	Host        string
	Port        int
	Email       string
	Password    string
	SenderEmail string
	TeamEmail   string
}

type AIConfig struct {
	LLMProvider      string // "openai", "ollama", "huggingface"
	LLMModel         string
	LLMBaseURL       string
	OpenAIAPIKey     string
	EmbeddingModel   string
	SystemPromptPath string
}

type ChatConfig struct {
	SessionTTLMinutes  int
	RankCeiling        int
	RateLimitPerMinute int
	RateLimitBurst     int
	ContactTopicName   string
	RetrievalTopK      int
	CutoffSeedFile     string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:8000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Redis: RedisConfig{
			URL:     getEnv("REDIS_URL", "redis://localhost:6379"),
			Enabled: getEnvAsBool("REDIS_SESSIONS_ENABLED", false),
		},
		Firestore: FirestoreConfig{
			ProjectID:       getEnv("FIRESTORE_PROJECT_ID", ""),
			CredentialsFile: getEnv("FIRESTORE_CREDENTIALS_FILE", ""),
		},
		SMTP: SMTPConfig{
			Host:        getEnv("SMTP_HOST", ""),
			Port:        getEnvAsInt("SMTP_PORT", 587),
			Email:       getEnv("SMTP_EMAIL", ""),
			Password:    getEnv("SMTP_PASSWORD", ""),
			SenderEmail: getEnv("SMTP_SENDER_EMAIL", "noreply@vnrvjiet.in"),
			TeamEmail:   getEnv("ADMISSIONS_TEAM_EMAIL", "admissionsenquiry@vnrvjiet.in"),
		},
		Ai: AIConfig{
			LLMProvider:      getEnv("LLM_PROVIDER", "openai"),
			LLMModel:         getEnv("LLM_MODEL", "gpt-4o-mini"),
			LLMBaseURL:       getEnv("LLM_BASE_URL", ""),
			OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
			EmbeddingModel:   getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
			SystemPromptPath: getEnv("SYSTEM_PROMPT_PATH", ""),
		},
		Chat: ChatConfig{
			SessionTTLMinutes:  getEnvAsInt("SESSION_TTL_MINUTES", 60),
			RankCeiling:        getEnvAsInt("RANK_CEILING", 200000),
			RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 30),
			RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 10),
			ContactTopicName:   getEnv("CONTACT_REQUEST_TOPIC_NAME", events.TopicContactRequestSubmitted),
			RetrievalTopK:      getEnvAsInt("RETRIEVAL_TOP_K", 8),
			CutoffSeedFile:     getEnv("CUTOFF_SEED_FILE", ""),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
