package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/ini.v1"
)

// Config holds all configuration
type Config struct {
	MySQL    MySQLConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Migrate  bool
	HTTPAddr string
	Version  VersionConfig
	Worker   WorkerConfig
	Twitter  ProviderConfig
	LinkedIn ProviderConfig
}

// MySQLConfig holds MySQL configuration
type MySQLConfig struct {
	DSN string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret        string
	ExpireMinutes int
	Issuer        string
}

// VersionConfig holds marketing version persistence configuration
type VersionConfig struct {
	CookieName       string
	VisitorCookie    string
	CookieMaxAgeDays int
}

// WorkerConfig holds delivery worker configuration
type WorkerConfig struct {
	Enabled       bool
	IntervalSec   int
	ClaimLeaseSec int
	APIKey        string
}

// ProviderConfig holds per-platform OAuth and media polling configuration
type ProviderConfig struct {
	ClientID        string
	ClientSecret    string
	RedirectURL     string
	PollIntervalSec int
	PollMaxAttempts int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		MySQL: MySQLConfig{
			DSN: getEnv("MYSQL_DSN", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASS", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:        os.Getenv("JWT_SECRET"),
			ExpireMinutes: getEnvInt("JWT_EXPIRE_MINUTES", 1440),
			Issuer:        getEnv("JWT_ISSUER", "socialhub"),
		},
		Migrate:  getEnv("MIGRATE", "0") == "1",
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
		Version: VersionConfig{
			CookieName:       getEnv("VERSION_COOKIE_NAME", "site_version"),
			VisitorCookie:    getEnv("VISITOR_COOKIE_NAME", "visitor_id"),
			CookieMaxAgeDays: getEnvInt("VERSION_COOKIE_MAX_AGE_DAYS", 365),
		},
		Worker: WorkerConfig{
			Enabled:       getEnv("POST_WORKER_ENABLED", "1") == "1",
			IntervalSec:   getEnvInt("POST_WORKER_INTERVAL_SEC", 60),
			ClaimLeaseSec: getEnvInt("POST_WORKER_CLAIM_LEASE_SEC", 300),
			APIKey:        getEnv("POST_WORKER_API_KEY", ""),
		},
		Twitter: ProviderConfig{
			ClientID:        getEnv("TWITTER_CLIENT_ID", ""),
			ClientSecret:    getEnv("TWITTER_CLIENT_SECRET", ""),
			RedirectURL:     getEnv("TWITTER_REDIRECT_URL", ""),
			PollIntervalSec: getEnvInt("TWITTER_MEDIA_POLL_INTERVAL_SEC", 1),
			PollMaxAttempts: getEnvInt("TWITTER_MEDIA_POLL_MAX_ATTEMPTS", 30),
		},
		LinkedIn: ProviderConfig{
			ClientID:        getEnv("LINKEDIN_CLIENT_ID", ""),
			ClientSecret:    getEnv("LINKEDIN_CLIENT_SECRET", ""),
			RedirectURL:     getEnv("LINKEDIN_REDIRECT_URL", ""),
			PollIntervalSec: getEnvInt("LINKEDIN_ASSET_POLL_INTERVAL_SEC", 2),
			PollMaxAttempts: getEnvInt("LINKEDIN_ASSET_POLL_MAX_ATTEMPTS", 20),
		},
	}

	// Validate required fields
	if cfg.MySQL.DSN == "" {
		return nil, fmt.Errorf("MYSQL_DSN is required")
	}
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// LoadFromINI loads configuration from INI file with environment variable override
func LoadFromINI(iniPath string) (*Config, error) {
	cfgFile, err := ini.Load(iniPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load INI file: %w", err)
	}

	// Helper function: get value with priority: ENV > INI > default
	getValue := func(envKey, iniSection, iniKey, defaultValue string) string {
		if value := os.Getenv(envKey); value != "" {
			return value
		}
		if value := cfgFile.Section(iniSection).Key(iniKey).String(); value != "" {
			return value
		}
		return defaultValue
	}

	getValueInt := func(envKey, iniSection, iniKey string, defaultValue int) int {
		if value := os.Getenv(envKey); value != "" {
			if intValue, err := strconv.Atoi(value); err == nil {
				return intValue
			}
		}
		if value, err := cfgFile.Section(iniSection).Key(iniKey).Int(); err == nil && value != 0 {
			return value
		}
		return defaultValue
	}

	cfg := &Config{
		MySQL: MySQLConfig{
			DSN: getValue("MYSQL_DSN", "mysql", "dsn", ""),
		},
		Redis: RedisConfig{
			Addr:     getValue("REDIS_ADDR", "redis", "addr", "localhost:6379"),
			Password: getValue("REDIS_PASS", "redis", "password", ""),
			DB:       getValueInt("REDIS_DB", "redis", "db", 0),
		},
		JWT: JWTConfig{
			Secret:        getValue("JWT_SECRET", "jwt", "secret", ""),
			ExpireMinutes: getValueInt("JWT_EXPIRE_MINUTES", "jwt", "expire_minutes", 1440),
			Issuer:        getValue("JWT_ISSUER", "jwt", "issuer", "socialhub"),
		},
		Migrate:  getValue("MIGRATE", "server", "migrate", "0") == "1",
		HTTPAddr: getValue("HTTP_ADDR", "server", "http_addr", ":8080"),
		Version: VersionConfig{
			CookieName:       getValue("VERSION_COOKIE_NAME", "version", "cookie_name", "site_version"),
			VisitorCookie:    getValue("VISITOR_COOKIE_NAME", "version", "visitor_cookie", "visitor_id"),
			CookieMaxAgeDays: getValueInt("VERSION_COOKIE_MAX_AGE_DAYS", "version", "cookie_max_age_days", 365),
		},
		Worker: WorkerConfig{
			Enabled:       getValue("POST_WORKER_ENABLED", "worker", "enabled", "1") == "1",
			IntervalSec:   getValueInt("POST_WORKER_INTERVAL_SEC", "worker", "interval_sec", 60),
			ClaimLeaseSec: getValueInt("POST_WORKER_CLAIM_LEASE_SEC", "worker", "claim_lease_sec", 300),
			APIKey:        getValue("POST_WORKER_API_KEY", "worker", "api_key", ""),
		},
		Twitter: ProviderConfig{
			ClientID:        getValue("TWITTER_CLIENT_ID", "twitter", "client_id", ""),
			ClientSecret:    getValue("TWITTER_CLIENT_SECRET", "twitter", "client_secret", ""),
			RedirectURL:     getValue("TWITTER_REDIRECT_URL", "twitter", "redirect_url", ""),
			PollIntervalSec: getValueInt("TWITTER_MEDIA_POLL_INTERVAL_SEC", "twitter", "media_poll_interval_sec", 1),
			PollMaxAttempts: getValueInt("TWITTER_MEDIA_POLL_MAX_ATTEMPTS", "twitter", "media_poll_max_attempts", 30),
		},
		LinkedIn: ProviderConfig{
			ClientID:        getValue("LINKEDIN_CLIENT_ID", "linkedin", "client_id", ""),
			ClientSecret:    getValue("LINKEDIN_CLIENT_SECRET", "linkedin", "client_secret", ""),
			RedirectURL:     getValue("LINKEDIN_REDIRECT_URL", "linkedin", "redirect_url", ""),
			PollIntervalSec: getValueInt("LINKEDIN_ASSET_POLL_INTERVAL_SEC", "linkedin", "asset_poll_interval_sec", 2),
			PollMaxAttempts: getValueInt("LINKEDIN_ASSET_POLL_MAX_ATTEMPTS", "linkedin", "asset_poll_max_attempts", 20),
		},
	}

	if cfg.MySQL.DSN == "" {
		return nil, fmt.Errorf("mysql dsn is required")
	}
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}

	return cfg, nil
}
