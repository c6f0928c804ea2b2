package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Keys     APIKeys
	Ai       AIConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	JwtSecret          string
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	Upstage      string
	GoogleGemini string
	EmbedTopic   string // Document embedding topic
}

type AIConfig struct {
	EmbeddingProvider  string // "gemini", "ollama" or "upstage"
	EmbeddingDimension int    // vector width of the configured embedding provider
	OllamaBaseURL      string
	OllamaModel        string
	LLMProvider        string // "upstage" or "ollama"
	LLMModel           string // e.g. "solar-pro2-preview", "llama3"
	ReasoningEffort    string // "low", "medium" or "high"
	RecentTurns        int    // verbatim turns kept before history is summarized
	ChunkSize          int
	ChunkOverlap       int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	embeddingProvider := getEnv("EMBEDDING_PROVIDER", "gemini")

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			JwtSecret:          getEnv("JWT_SECRET", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			Upstage:      getEnv("UPSTAGE_API_KEY", ""),
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			EmbedTopic:   getEnv("EMBED_DOCUMENT_CONTENT_TOPIC_NAME", "EMBED_DOCUMENT_CONTENT"),
		},
		Ai: AIConfig{
			EmbeddingProvider:  embeddingProvider,
			EmbeddingDimension: getEnvAsInt("EMBEDDING_DIMENSION", defaultEmbeddingDimension(embeddingProvider)),
			OllamaBaseURL:      getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:        getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			LLMProvider:        getEnv("LLM_PROVIDER", "upstage"),
			LLMModel:           getEnv("LLM_MODEL", "solar-pro2-preview"),
			ReasoningEffort:    getEnv("LLM_REASONING_EFFORT", "low"),
			RecentTurns:        getEnvAsInt("CHAT_RECENT_TURNS", 7),
			ChunkSize:          getEnvAsInt("DOCUMENT_CHUNK_SIZE", 1500),
			ChunkOverlap:       getEnvAsInt("DOCUMENT_CHUNK_OVERLAP", 200),
		},
	}
}

// defaultEmbeddingDimension matches the vector width each embedding provider
// returns: Upstage embedding models emit 4096 floats, text-embedding-004 and
// nomic-embed-text emit 768.
func defaultEmbeddingDimension(provider string) int {
	if provider == "upstage" {
		return 4096
	}
	return 768
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
