package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	OpenAI    OpenAIConfig
	Storage   StorageConfig
	Retrieval RetrievalConfig
	App       AppConfig
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN builds a key/value connection string accepted by both pgx and lib/pq.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type OpenAIConfig struct {
	// BaseURL points either at api.openai.com or an Azure OpenAI resource
	// endpoint. APIVersion being non-empty switches the client to the Azure
	// auth style (api-key header + api-version query param).
	BaseURL        string
	APIKey         string
	APIVersion     string
	ChatModel      string
	EmbedModel     string
	TimeoutSeconds int
	MaxRetries     int
	RequestsPerSec float64
}

type StorageConfig struct {
	// Enabled switches archival and storage-backed analytics on. Credentials
	// alone are not a signal: deployments often carry ambient AWS creds.
	Enabled   bool
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
}

type RetrievalConfig struct {
	CorpusDir       string
	CacheDir        string
	ChunkSize       int
	ChunkOverlap    int
	TopK            int
	MaxContextChars int
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
	APIKey      string
	TemplateDir string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "brainbee"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		OpenAI: OpenAIConfig{
			BaseURL:        getEnv("OPENAI_BASE_URL", "https://api.openai.com"),
			APIKey:         getEnv("OPENAI_API_KEY", ""),
			APIVersion:     getEnv("OPENAI_API_VERSION", ""),
			ChatModel:      getEnv("OPENAI_CHAT_MODEL", "gpt-4o"),
			EmbedModel:     getEnv("OPENAI_EMBED_MODEL", "text-embedding-ada-002"),
			TimeoutSeconds: getEnvAsInt("OPENAI_TIMEOUT_SECONDS", 60),
			MaxRetries:     getEnvAsInt("OPENAI_MAX_RETRIES", 3),
			RequestsPerSec: getEnvAsFloat("OPENAI_REQUESTS_PER_SEC", 2),
		},
		Storage: StorageConfig{
			Enabled:   getEnvAsBool("STORAGE_ENABLED", false),
			Endpoint:  getEnv("STORAGE_ENDPOINT", ""),
			Region:    getEnv("STORAGE_REGION", "us-east-1"),
			Bucket:    getEnv("STORAGE_BUCKET", "brain-bee-data"),
			AccessKey: getEnv("STORAGE_ACCESS_KEY", ""),
			SecretKey: getEnv("STORAGE_SECRET_KEY", ""),
		},
		Retrieval: RetrievalConfig{
			CorpusDir:       getEnv("CORPUS_DIR", "corpus"),
			CacheDir:        getEnv("EMBEDDINGS_CACHE_DIR", "embeddings_cache"),
			ChunkSize:       getEnvAsInt("CHUNK_SIZE", 1000),
			ChunkOverlap:    getEnvAsInt("CHUNK_OVERLAP", 200),
			TopK:            getEnvAsInt("RETRIEVAL_TOP_K", 2),
			MaxContextChars: getEnvAsInt("MAX_CONTEXT_CHARS", 8000),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			APIKey:      getEnv("API_KEY", ""),
			TemplateDir: getEnv("TEMPLATE_DIR", "templates"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}

	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}

	if c.Retrieval.ChunkOverlap >= c.Retrieval.ChunkSize {
		return fmt.Errorf("CHUNK_OVERLAP must be smaller than CHUNK_SIZE")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean for %s, using default: %t", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid float for %s, using default: %g", key, defaultValue)
		return defaultValue
	}

	return value
}
