package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Ai        AIConfig
	Rag       RagConfig
	Ingestion IngestionConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	EventBackend       string // "channel" or "nats"
	NatsURL            string
	OtlpEndpoint       string
}

type DatabaseConfig struct {
	Connection string
}

type AIConfig struct {
	EmbeddingProvider    string // "ollama"
	OllamaBaseURL        string
	OllamaEmbeddingModel string
	LLMProvider          string // "ollama" or "huggingface"
	LLMModel             string // e.g. "llama3", "mistralai/Mistral-7B-Instruct-v0.3"
	LLMBaseURL           string
	HuggingFaceKey       string
}

type RagConfig struct {
	TopK          int
	MinK          int
	MinSimilarity float64
	TokenLimit    int
	Language      string // "fr" or "en"
}

type IngestionConfig struct {
	MaxChunkWords       int
	ScrapeTimeoutSecond int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			EventBackend:       getEnv("EVENT_BACKEND", "channel"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			OtlpEndpoint:       getEnv("OTLP_ENDPOINT", "localhost:4318"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider:    getEnv("EMBEDDING_PROVIDER", "ollama"),
			OllamaBaseURL:        getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaEmbeddingModel: getEnv("OLLAMA_EMBEDDING_MODEL", "all-minilm"),
			LLMProvider:          getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:             getEnv("LLM_MODEL", "llama3"),
			LLMBaseURL:           getEnv("LLM_BASE_URL", ""),
			HuggingFaceKey:       getEnv("HUGGINGFACE_API_KEY", ""),
		},
		Rag: RagConfig{
			TopK:          getEnvAsInt("RAG_TOP_K", 5),
			MinK:          getEnvAsInt("RAG_MIN_K", 1),
			MinSimilarity: getEnvAsFloat("RAG_MIN_SIMILARITY", 0.3),
			TokenLimit:    getEnvAsInt("RAG_TOKEN_LIMIT", 1600),
			Language:      getEnv("RAG_LANGUAGE", "fr"),
		},
		Ingestion: IngestionConfig{
			MaxChunkWords:       getEnvAsInt("INGESTION_MAX_CHUNK_WORDS", 300),
			ScrapeTimeoutSecond: getEnvAsInt("INGESTION_SCRAPE_TIMEOUT_SECOND", 4),
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

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
