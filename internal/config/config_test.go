package config

import (
	"os"
	"testing"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	os.Setenv("MYSQL_DSN", "user:pass@tcp(localhost:3306)/test")
	os.Setenv("JWT_SECRET", "test-secret")
	t.Cleanup(func() {
		os.Unsetenv("MYSQL_DSN")
		os.Unsetenv("JWT_SECRET")
	})
}

func TestLoad(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.MySQL.DSN == "" {
		t.Error("MySQL DSN should not be empty")
	}

	if cfg.HTTPAddr != ":8080" {
		t.Errorf("Expected HTTPAddr :8080, got %s", cfg.HTTPAddr)
	}

	if cfg.Version.CookieName != "site_version" {
		t.Errorf("Expected version cookie 'site_version', got %s", cfg.Version.CookieName)
	}

	if cfg.Worker.IntervalSec != 60 {
		t.Errorf("Expected worker interval 60, got %d", cfg.Worker.IntervalSec)
	}

	if cfg.LinkedIn.PollIntervalSec != 2 {
		t.Errorf("Expected LinkedIn poll interval 2, got %d", cfg.LinkedIn.PollIntervalSec)
	}

	if cfg.LinkedIn.PollMaxAttempts != 20 {
		t.Errorf("Expected LinkedIn poll max attempts 20, got %d", cfg.LinkedIn.PollMaxAttempts)
	}
}

func TestLoad_MissingMySQLDSN(t *testing.T) {
	os.Unsetenv("MYSQL_DSN")
	os.Setenv("JWT_SECRET", "test-secret")
	defer os.Unsetenv("JWT_SECRET")

	_, err := Load()
	if err == nil {
		t.Error("Expected error when MYSQL_DSN is missing")
	}
}

func TestLoad_MissingJWTSecret(t *testing.T) {
	os.Setenv("MYSQL_DSN", "user:pass@tcp(localhost:3306)/test")
	os.Unsetenv("JWT_SECRET")
	defer os.Unsetenv("MYSQL_DSN")

	_, err := Load()
	if err == nil {
		t.Error("Expected error when JWT_SECRET is missing")
	}
}

func TestLoad_CustomValues(t *testing.T) {
	setRequiredEnv(t)
	os.Setenv("REDIS_ADDR", "redis.example.com:6379")
	os.Setenv("REDIS_DB", "5")
	os.Setenv("HTTP_ADDR", ":9090")
	os.Setenv("POST_WORKER_ENABLED", "0")
	os.Setenv("POST_WORKER_API_KEY", "worker-key")
	os.Setenv("LINKEDIN_ASSET_POLL_MAX_ATTEMPTS", "7")

	defer func() {
		os.Unsetenv("REDIS_ADDR")
		os.Unsetenv("REDIS_DB")
		os.Unsetenv("HTTP_ADDR")
		os.Unsetenv("POST_WORKER_ENABLED")
		os.Unsetenv("POST_WORKER_API_KEY")
		os.Unsetenv("LINKEDIN_ASSET_POLL_MAX_ATTEMPTS")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Redis.Addr != "redis.example.com:6379" {
		t.Errorf("Expected custom Redis addr, got %s", cfg.Redis.Addr)
	}

	if cfg.Redis.DB != 5 {
		t.Errorf("Expected Redis DB 5, got %d", cfg.Redis.DB)
	}

	if cfg.HTTPAddr != ":9090" {
		t.Errorf("Expected HTTPAddr :9090, got %s", cfg.HTTPAddr)
	}

	if cfg.Worker.Enabled {
		t.Error("Expected worker to be disabled")
	}

	if cfg.Worker.APIKey != "worker-key" {
		t.Errorf("Expected worker API key 'worker-key', got %s", cfg.Worker.APIKey)
	}

	if cfg.LinkedIn.PollMaxAttempts != 7 {
		t.Errorf("Expected LinkedIn poll max attempts 7, got %d", cfg.LinkedIn.PollMaxAttempts)
	}
}
