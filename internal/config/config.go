package config

import (
	"os"
	"strconv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort  string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	JWTSecret   string
	SwaggerHost string

	// Nutrition advisor upstream. LLMAPIURL is the full generateContent
	// endpoint; the key is appended as a query parameter.
	LLMAPIURL string
	LLMAPIKey string
	// MealImageBaseURL is the placeholder image service used by
	// meal image generation.
	MealImageBaseURL string
}

// Load builds Config from environment with sensible defaults.
func Load() *Config {
	return &Config{
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		MySQLDSN:         getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/smart_mess?charset=utf8mb4&parseTime=True&loc=Local"),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:          getEnvInt("REDIS_DB", 0),
		RedisPass:        os.Getenv("REDIS_PASSWORD"),
		JWTSecret:        getEnv("JWT_SECRET", "change-me"),
		SwaggerHost:      os.Getenv("SWAGGER_HOST"),
		LLMAPIURL:        getEnv("LLM_API_URL", "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent"),
		LLMAPIKey:        os.Getenv("LLM_API_KEY"),
		MealImageBaseURL: getEnv("MEAL_IMAGE_BASE_URL", "https://placehold.co/400x400/364E7C/FFFFFF"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}
