package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Backend API
	APIBaseURL   string
	FetchTimeout time.Duration

	// Rate Limit（バックエンドAPIへのリクエストレート）
	APIRateLimit int // req/min
	APIRateBurst int

	// State（ブラウザのlocalStorageに相当する永続ストア）
	StateFile string

	// Localization
	DefaultLanguage string

	// Navigation
	HomePath string

	// Metrics（空文字列の場合はメトリクスエンドポイントを起動しない）
	MetricsPort string

	// Security
	APISSRFGuard bool
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.APIBaseURL = os.Getenv("API_BASE_URL")
	if cfg.APIBaseURL == "" {
		missing = append(missing, "API_BASE_URL")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults
	cfg.FetchTimeout = getEnvDuration("FETCH_TIMEOUT", 10*time.Second)
	cfg.APIRateLimit = getEnvInt("API_RATE_LIMIT", 120)
	cfg.APIRateBurst = getEnvInt("API_RATE_BURST", 10)
	cfg.StateFile = getEnvString("STATE_FILE", "blogfront_state.json")
	cfg.DefaultLanguage = getEnvString("DEFAULT_LANGUAGE", "zh")
	cfg.HomePath = getEnvString("HOME_PATH", "/")
	cfg.MetricsPort = getEnvString("METRICS_PORT", "")
	cfg.APISSRFGuard = getEnvBool("API_SSRF_GUARD", false)

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
