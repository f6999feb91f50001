// Package config provides application configuration from environment variables
package config

import (
	"os"
	"strconv"
	"time"
)

// AppConfig holds all application configuration
type AppConfig struct {
	ListenAddr  string
	DatabaseURL string
	Redis       RedisConfig
	Nasa        NasaConfig
	LaunchURL   string
	OpenAI      OpenAIConfig
	HTTPTimeout time.Duration
	SessionTTL  time.Duration
	LaunchTTL   time.Duration
	Intervals   FetchIntervals
	LogLevel    string
	LogFormat   string
}

// RedisConfig locates the launch cache; an empty Addr disables it
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NasaConfig configures the daily image API
type NasaConfig struct {
	APODURL string
	APIKey  string
}

// OpenAIConfig configures the chat assistant
type OpenAIConfig struct {
	URL         string
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
}

// FetchIntervals defines background warm-up intervals
type FetchIntervals struct {
	Apod     time.Duration
	Launches time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *AppConfig {
	return &AppConfig{
		ListenAddr:  getEnv("LISTEN_ADDR", ":3000"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Nasa: NasaConfig{
			APODURL: getEnv("NASA_APOD_URL", "https://api.nasa.gov/planetary/apod"),
			APIKey:  getEnv("NASA_API_KEY", "DEMO_KEY"),
		},
		LaunchURL: getEnv("LAUNCH_API_URL", "https://ll.thespacedevs.com/2.2.0"),
		OpenAI: OpenAIConfig{
			URL:         getEnv("OPENAI_API_URL", "https://api.openai.com/v1/chat/completions"),
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			Model:       getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
			MaxTokens:   getEnvInt("OPENAI_MAX_TOKENS", 300),
			Temperature: getEnvFloat("OPENAI_TEMPERATURE", 0.7),
		},
		HTTPTimeout: getEnvSeconds("HTTP_TIMEOUT_SECONDS", 30),
		SessionTTL:  time.Duration(getEnvInt("SESSION_TTL_MINUTES", 60)) * time.Minute,
		LaunchTTL:   getEnvSeconds("LAUNCH_CACHE_TTL_SECONDS", 900),
		Intervals: FetchIntervals{
			Apod:     getEnvSeconds("APOD_EVERY_SECONDS", 43200),
			Launches: getEnvSeconds("LAUNCHES_EVERY_SECONDS", 3600),
		},
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvSeconds(key string, defaultVal int) time.Duration {
	return time.Duration(getEnvInt(key, defaultVal)) * time.Second
}
