package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	OpenAIAPIKey string
	ChatModel    string

	Port    string
	DataDir string

	CORSOrigins []string

	LogFile  string
	LogLevel slog.Level

	LLMTimeout time.Duration
}

func Load() (*Config, error) {
	// .env is optional; env vars may already be set (e.g. in production)
	_ = godotenv.Load()

	cfg := &Config{
		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
		ChatModel:    getEnv("CHAT_MODEL", "gpt-3.5-turbo"),
		Port:         getEnv("PORT", "8000"),
		DataDir:      getEnv("DATA_DIR", "."),
		CORSOrigins:  splitList(getEnv("CORS_ORIGINS", "*")),
		LogFile:      os.Getenv("LOG_FILE"),
		LogLevel:     parseLogLevel(getEnv("LOG_LEVEL", "INFO")),
	}

	timeout, err := time.ParseDuration(getEnv("LLM_TIMEOUT", "60s"))
	if err != nil {
		return nil, fmt.Errorf("parsing LLM_TIMEOUT: %w", err)
	}
	cfg.LLMTimeout = timeout

	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("required env var OPENAI_API_KEY is not set")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
