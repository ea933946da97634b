package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/petoo-app/petoo-booking/internal/common/database"
)

const (
	defaultBaseURL     = "http://192.168.15.24:3000/api/v1"
	defaultPhoneRegion = "BR"
)

// APIConfig はバックエンドAPIへの接続設定です
type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type Config struct {
	Env   string          `yaml:"env"`
	API   APIConfig       `yaml:"api"`
	Store database.Config `yaml:"store"`
	SFN   struct {
		TaskToken string `yaml:"-"`
	} `yaml:"-"`
	PhoneRegion   string `yaml:"phone_region"`
	BrandColor    string `yaml:"brand_color"`
	EnableTracing bool   `yaml:"-"`
}

// IsLocal はローカル実行かどうかを返します
func (c *Config) IsLocal() bool {
	return strings.ToUpper(c.Env) == "LOCAL"
}

// LoadConfig は設定を読み込みます
// 優先順位は 環境変数 > PETOO_CONFIG_FILE のYAML > デフォルト値 です
func LoadConfig(taskToken string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	cfg := &Config{
		API: APIConfig{
			BaseURL: defaultBaseURL,
			Timeout: 30 * time.Second,
		},
		Store: database.Config{
			Driver: database.DriverSQLite,
			DSN:    "petoo.db",
		},
		PhoneRegion: defaultPhoneRegion,
	}

	if path := os.Getenv("PETOO_CONFIG_FILE"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	cfg.Env = getEnvOrDefault("ENV", cfg.Env)
	cfg.API.BaseURL = strings.TrimRight(getEnvOrDefault("PETOO_API_BASE_URL", cfg.API.BaseURL), "/")
	cfg.API.Timeout = time.Duration(getEnvAsIntOrDefault("PETOO_API_TIMEOUT_SECONDS", int(cfg.API.Timeout/time.Second))) * time.Second
	cfg.Store.Driver = getEnvOrDefault("PETOO_STORE_DRIVER", cfg.Store.Driver)
	cfg.Store.DSN = getEnvOrDefault("PETOO_STORE_DSN", cfg.Store.DSN)
	cfg.PhoneRegion = getEnvOrDefault("PETOO_PHONE_REGION", cfg.PhoneRegion)
	cfg.BrandColor = getEnvOrDefault("PETOO_BRAND_COLOR", cfg.BrandColor)
	cfg.SFN.TaskToken = taskToken

	// 環境変数[SBCNTR_ENABLE_TRACING]を見てトレースを有効にする。対応しているTracingはAWS_XRAYのみ。
	// 環境変数[AWS_XRAY_SDK_DISABLED]がtrueの場合は必ずトレースを無効にする。
	enableKey := os.Getenv("SBCNTR_ENABLE_TRACING")
	if !sdkDisabled() && (strings.ToLower(enableKey) == "true" || enableKey == "1") {
		os.Setenv("AWS_XRAY_SDK_DISABLED", "FALSE")
		cfg.EnableTracing = true
	} else {
		os.Setenv("AWS_XRAY_SDK_DISABLED", "TRUE")
		cfg.EnableTracing = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate は必須項目を検証します
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api base url is required")
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api timeout must be positive")
	}
	switch c.Store.Driver {
	case database.DriverSQLite, database.DriverPostgres:
	default:
		return fmt.Errorf("unsupported store driver: %s", c.Store.Driver)
	}
	if c.Store.DSN == "" {
		return fmt.Errorf("store dsn is required")
	}
	return nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("error parsing config file: %w", err)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	log.Debug().Str("key", key).Msg("Environment variable is not set, using default value")
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Environment variable is not an integer, using default value")
	}
	return defaultValue
}

// Check if SDK is disabled
func sdkDisabled() bool {
	disableKey := os.Getenv("AWS_XRAY_SDK_DISABLED")
	return strings.ToLower(disableKey) == "true"
}
