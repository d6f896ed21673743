package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port               string
	DBURL              string
	RedisHost          string
	RedisPort          string
	JWTSecret          string
	JWTExpiresIn       string
	ServerHost         string
	Origin             string
	AllowMethods       string
	Debug              bool
	AttachmentsDir     string
	PendingIdentityTTL int // minutes
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	config := &Config{
		Port:               getEnv("PORT", "2000"),
		DBURL:              getEnv("DB_URL", ""),
		RedisHost:          getEnv("REDIS_HOST", "localhost"),
		RedisPort:          getEnv("REDIS_PORT", "6379"),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		JWTExpiresIn:       getEnv("JWT_EXPIRES_IN", "1d"),
		ServerHost:         getEnv("SERVER_HOST", "http://localhost:2000"),
		Origin:             getEnv("ORIGIN", ""),
		AllowMethods:       getEnv("ALLOWED_METHODS", ""),
		Debug:              getEnv("DEBUG", "false") == "true",
		AttachmentsDir:     getEnv("ATTACHMENTS_DIR", "./attachments"),
		PendingIdentityTTL: getEnvInt("PENDING_IDENTITY_TTL_MINUTES", 30),
	}
	return config
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
