package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config хранит все параметры запуска приложения.
type Config struct {
	Env      string
	HTTPPort string

	AIBaseURL      string
	AIAPIKey       string
	AIModelQuality string
	AIModelFast    string
	AITimeout      time.Duration

	SystemeBaseURL string
	SystemeAPIKey  string
	SystemeTagIDs  []int

	DownloadTokenSecret string
	DownloadTokenTTL    time.Duration
	LeadConfirmDelay    time.Duration

	ProgressTick  time.Duration
	ProgressGrace time.Duration
	SessionTTL    time.Duration

	AllowedOrigins []string
}

// Load читает переменные окружения и возвращает готовую конфигурацию.
func Load() (*Config, error) {
	// Загружаем .env только если он существует, иначе используем системные переменные.
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("config: .env не найден, используем переменные окружения: %v", err)
	}
	return FromEnv()
}

// FromEnv собирает конфигурацию из уже загруженного окружения.
func FromEnv() (*Config, error) {
	env := getEnv("APP_ENV", "development")

	cfg := &Config{
		Env:            env,
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		AIBaseURL:      getEnv("AI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/openai"),
		AIAPIKey:       getEnv("AI_API_KEY", ""),
		AIModelQuality: getEnv("AI_MODEL_QUALITY", "gemini-2.5-pro"),
		AIModelFast:    getEnv("AI_MODEL_FAST", "gemini-2.5-flash"),
		SystemeBaseURL: getEnv("SYSTEME_BASE_URL", "https://api.systeme.io"),
		SystemeAPIKey:  getEnv("SYSTEME_API_KEY", ""),
	}

	tagIDs, err := parseIntList(getEnv("SYSTEME_TAG_IDS", "494992"))
	if err != nil {
		return nil, fmt.Errorf("config: SYSTEME_TAG_IDS: %w", err)
	}
	cfg.SystemeTagIDs = tagIDs

	secret := getEnv("DOWNLOAD_TOKEN_SECRET", "")
	if env == "production" {
		if len(secret) < 32 {
			return nil, fmt.Errorf("config: DOWNLOAD_TOKEN_SECRET обязателен и должен быть не менее 32 символов в production")
		}
		if cfg.AIAPIKey == "" {
			return nil, fmt.Errorf("config: AI_API_KEY обязателен в production")
		}
		if cfg.SystemeAPIKey == "" {
			return nil, fmt.Errorf("config: SYSTEME_API_KEY обязателен в production")
		}
	} else if secret == "" {
		secret = "download-secret-development-only-change-in-production"
		log.Printf("config: WARNING - используется дефолтный DOWNLOAD_TOKEN_SECRET, измените в production!")
	}
	cfg.DownloadTokenSecret = secret

	// CORS allowed origins
	originsStr := getEnv("CORS_ALLOWED_ORIGINS", "")
	if originsStr == "" {
		if env == "production" {
			return nil, fmt.Errorf("config: CORS_ALLOWED_ORIGINS обязателен в production")
		}
		cfg.AllowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	} else {
		for _, origin := range strings.Split(originsStr, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
			}
		}
	}

	cfg.AITimeout = mustParseDuration(getEnv("AI_TIMEOUT", "120s"))
	cfg.DownloadTokenTTL = mustParseDuration(getEnv("DOWNLOAD_TOKEN_TTL", "15m"))
	cfg.LeadConfirmDelay = mustParseDuration(getEnv("LEAD_CONFIRM_DELAY", "1500ms"))
	cfg.ProgressTick = mustParseDuration(getEnv("PROGRESS_TICK", "300ms"))
	cfg.ProgressGrace = mustParseDuration(getEnv("PROGRESS_GRACE", "400ms"))
	cfg.SessionTTL = mustParseDuration(getEnv("SESSION_TTL", "2h"))

	return cfg, nil
}

// getEnv возвращает значение переменной окружения или дефолт.
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// parseIntList парсит список чисел через запятую. Пустая строка даёт пустой список.
func parseIntList(v string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("не удалось распарсить число %q: %w", part, err)
		}
		out = append(out, n)
	}
	return out, nil
}

// mustParseDuration безопасно парсит строку в duration.
func mustParseDuration(v string) time.Duration {
	dur, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: не удалось распарсить длительность %q: %v", v, err)
	}
	return dur
}
