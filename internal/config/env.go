package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL   string
	JWTSecret     string
	GeminiAPIKeys []string
	GenModel      string
	TitleModel    string
	EmbedModel    string
	EmbedDim      int
	HistoryWindow int
	AwsAccessKey  string
	AwsSecretKey  string
	AwsRegion     string
	BucketName    string
	Port          string
}

// LoadConfig loads the environment variables and returns the config.
func LoadConfig() *Config {

	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		GeminiAPIKeys: splitKeys(getEnv("GEMINI_API_KEYS", getEnv("GEMINI_API_KEY", ""))),
		GenModel:      getEnv("GEN_MODEL", "gemini-1.5-flash"),
		TitleModel:    getEnv("TITLE_MODEL", ""),
		EmbedModel:    getEnv("EMBED_MODEL", "text-embedding-004"),
		EmbedDim:      getEnvInt("EMBED_DIM", 768),
		HistoryWindow: getEnvInt("HISTORY_WINDOW", 12),
		AwsAccessKey:  getEnv("AWS_ACCESS_KEY", ""),
		AwsSecretKey:  getEnv("AWS_SECRET_KEY", ""),
		AwsRegion:     getEnv("AWS_REGION", "ap-south-1"),
		BucketName:    getEnv("BUCKET_NAME", ""),
		Port:          getEnv("PORT", "8080"),
	}

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET not set")
	}
	if len(cfg.GeminiAPIKeys) == 0 {
		// The server still starts; every model call fails with a
		// configuration error until the pool is populated.
		log.Println("WARN: GEMINI_API_KEYS not set; model calls will fail")
	}

	return cfg
}

// splitKeys parses the comma-separated credential pool.
func splitKeys(raw string) []string {
	var keys []string
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// Helper to read environment variables with a default fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, def int) int {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("WARN: %s=%q not an int, using default %d", key, v, def)
		return def
	}
	return n
}
