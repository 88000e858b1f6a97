package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"GeoRank-App/internal/infrastructure/ranking"
)

// Config アプリケーション全体の設定
type Config struct {
	Server    ServerConfig
	Provider  ranking.TaskClientConfig
	Storage   StorageConfig
	Audit     AuditConfig
	Locations LocationConfig
}

type ServerConfig struct {
	Port           string
	GinMode        string
	AllowedOrigins []string
}

type StorageConfig struct {
	DatabaseURL        string // 設定されていればPostgreSQLに保存
	BoltPath           string // DATABASE_URLがなければローカルファイルに保存
	FirestoreProjectID string // 設定されていればスナップショットをFirestoreにキャッシュ
	FirestoreKeyFile   string
	SnapshotTTL        time.Duration
}

type AuditConfig struct {
	ProbeConcurrency int
	RandomSeed       int64 // 0なら起動時刻から生成
	MinWordLength    int
	Timeout          time.Duration
}

type LocationConfig struct {
	TablePath string // 空なら組み込みテーブル
}

// Load は.envを読み込み、環境変数から設定を組み立てる
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".envファイルが見つからないため環境変数を使用します")
	}

	provider := ranking.DefaultTaskClientConfig()
	provider.BaseURL = getEnv("RANKING_API_BASE_URL", provider.BaseURL)
	provider.Login = getEnv("RANKING_API_LOGIN", "")
	provider.Password = getEnv("RANKING_API_PASSWORD", "")
	provider.LanguageCode = getEnv("RANKING_LANGUAGE_CODE", provider.LanguageCode)
	provider.Device = getEnv("RANKING_DEVICE", provider.Device)
	provider.OS = getEnv("RANKING_OS", provider.OS)
	provider.InitialDelay = getEnvAsDuration("RANKING_INITIAL_DELAY", provider.InitialDelay)
	provider.PollAttempts = getEnvAsInt("RANKING_POLL_ATTEMPTS", provider.PollAttempts)
	provider.PollInterval = getEnvAsDuration("RANKING_POLL_INTERVAL", provider.PollInterval)
	provider.MaxPollInterval = getEnvAsDuration("RANKING_MAX_POLL_INTERVAL", provider.MaxPollInterval)
	provider.RateLimit = getEnvAsFloat("RANKING_RATE_LIMIT", provider.RateLimit)
	provider.RateBurst = getEnvAsInt("RANKING_RATE_BURST", provider.RateBurst)
	provider.Timeout = getEnvAsDuration("RANKING_HTTP_TIMEOUT", provider.Timeout)

	cfg := Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			GinMode:        getEnv("GIN_MODE", "release"),
			AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS", []string{"*"}),
		},
		Provider: provider,
		Storage: StorageConfig{
			DatabaseURL:        getEnv("DATABASE_URL", ""),
			BoltPath:           getEnv("AUDIT_DB_PATH", ""),
			FirestoreProjectID: getEnv("FIRESTORE_PROJECT_ID", ""),
			FirestoreKeyFile:   getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
			SnapshotTTL:        getEnvAsDuration("SNAPSHOT_TTL", 24*time.Hour),
		},
		Audit: AuditConfig{
			ProbeConcurrency: getEnvAsInt("AUDIT_PROBE_CONCURRENCY", 4),
			RandomSeed:       int64(getEnvAsInt("AUDIT_RANDOM_SEED", 0)),
			MinWordLength:    getEnvAsInt("MATCHER_MIN_WORD_LENGTH", 3),
			Timeout:          getEnvAsDuration("AUDIT_TIMEOUT", 10*time.Minute),
		},
		Locations: LocationConfig{
			TablePath: getEnv("LOCATION_TABLE_PATH", ""),
		},
	}

	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validate(cfg Config) error {
	var errs []error
	if cfg.Provider.BaseURL == "" {
		errs = append(errs, errors.New("RANKING_API_BASE_URLが空です"))
	}
	if cfg.Provider.PollAttempts < 1 {
		errs = append(errs, fmt.Errorf("RANKING_POLL_ATTEMPTSは1以上が必要です: %d", cfg.Provider.PollAttempts))
	}
	if cfg.Audit.ProbeConcurrency < 1 {
		errs = append(errs, fmt.Errorf("AUDIT_PROBE_CONCURRENCYは1以上が必要です: %d", cfg.Audit.ProbeConcurrency))
	}
	if cfg.Audit.MinWordLength < 0 {
		errs = append(errs, fmt.Errorf("MATCHER_MIN_WORD_LENGTHは0以上が必要です: %d", cfg.Audit.MinWordLength))
	}
	return errors.Join(errs...)
}

// HasProviderCredentials はプロバイダの認証情報が揃っているか
func (c Config) HasProviderCredentials() bool {
	return c.Provider.Login != "" && c.Provider.Password != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var values []string
	for _, v := range strings.Split(valueStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}
