package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr   string
	DBPath string

	CatalogBaseURL string
	SearchLimit    int

	AdminEmail    string
	SessionSecret string
}

// Load reads configuration from the environment, with a .env file as a
// fallback for local development.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	searchLimit, err := strconv.Atoi(getEnv("SEARCH_LIMIT", "10"))
	if err != nil || searchLimit < 1 {
		searchLimit = 10
	}

	return &Config{
		Addr:   getEnv("ADDR", ":8080"),
		DBPath: getEnv("DB_PATH", "songla.db"),

		CatalogBaseURL: getEnv("CATALOG_BASE_URL", "http://localhost:8081/api/ytmusic"),
		SearchLimit:    searchLimit,

		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		SessionSecret: getEnv("SESSION_SECRET", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
