package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	AppEnv       string
	AuthBaseURL  string
	AuthTimeout  time.Duration // 0 = biarkan transport yang menentukan
	NoticeSecret string
	SessionTTL   time.Duration
	CORSOrigins  string
}

func (c Config) IsDev() bool { return strings.EqualFold(c.AppEnv, "development") }

func Load() (Config, error) {
	// coba load .env, kalau gak ada ya di-skip
	_ = godotenv.Load()

	cfg := Config{
		Port:         getEnv("PORT", "3000"),
		AppEnv:       getEnv("APP_ENV", "production"),
		AuthBaseURL:  strings.TrimRight(getEnv("AUTH_BASE_URL", "http://localhost:8084"), "/"),
		NoticeSecret: strings.TrimSpace(os.Getenv("NOTICE_SECRET")),
		CORSOrigins:  getEnv("CORS_ORIGINS", "http://localhost:3000"),
	}

	var err error
	if cfg.AuthTimeout, err = getDuration("AUTH_TIMEOUT", "0s"); err != nil {
		return Config{}, err
	}
	if cfg.SessionTTL, err = getDuration("SESSION_TTL", "30m"); err != nil {
		return Config{}, err
	}

	if cfg.NoticeSecret == "" {
		return Config{}, fmt.Errorf("NOTICE_SECRET tidak boleh kosong (set di .env)")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func getDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: must not be negative", key)
	}
	return d, nil
}
