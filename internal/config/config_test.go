package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig(t *testing.T) *Config {
	t.Helper()
	return &Config{
		Port:           "8080",
		SQLiteDBPath:   filepath.Join(t.TempDir(), "fintrack.db"),
		AMQPExchange:   "fintrack",
		AMQPQueue:      "sync_transactions",
		GroqModel:      "llama-3.3-70b-versatile",
		InsightTimeout: 30 * time.Second,
		SyncBatchSize:  10,
		SyncInterval:   30 * time.Second,
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Port != "8080" {
		t.Errorf("Port = %s, want 8080", cfg.Port)
	}
	if cfg.AMQPExchange != "fintrack" {
		t.Errorf("AMQPExchange = %s, want fintrack", cfg.AMQPExchange)
	}
	if cfg.AMQPQueue != "sync_transactions" {
		t.Errorf("AMQPQueue = %s, want sync_transactions", cfg.AMQPQueue)
	}
	if cfg.InsightTimeout != 30*time.Second {
		t.Errorf("InsightTimeout = %v, want 30s", cfg.InsightTimeout)
	}
	if cfg.SyncBatchSize != 10 {
		t.Errorf("SyncBatchSize = %d, want 10", cfg.SyncBatchSize)
	}
}

func TestValidateOK(t *testing.T) {
	if err := validConfig(t).Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidateFailures(t *testing.T) {
	cases := []struct {
		name string
		mut  func(*Config)
		want string
	}{
		{"bad port", func(c *Config) { c.Port = "abc" }, "invalid port"},
		{"port out of range", func(c *Config) { c.Port = "70000" }, "invalid port"},
		{"empty db path", func(c *Config) { c.SQLiteDBPath = "" }, "SQLite database path"},
		{"bad amqp scheme", func(c *Config) { c.AMQPURL = "http://localhost" }, "AMQP URL scheme"},
		{"empty queue with amqp", func(c *Config) { c.AMQPURL = "amqp://localhost"; c.AMQPQueue = "" }, "queue name"},
		{"missing model", func(c *Config) { c.GroqAPIKey = "k"; c.GroqModel = "" }, "Groq model"},
		{"tiny insight timeout", func(c *Config) { c.InsightTimeout = time.Millisecond }, "insight timeout"},
		{"zero batch size", func(c *Config) { c.SyncBatchSize = 0 }, "sync batch size"},
		{"tiny sync interval", func(c *Config) { c.SyncInterval = time.Millisecond }, "sync interval"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig(t)
			tc.mut(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestValidateCollectsAllProblems(t *testing.T) {
	cfg := validConfig(t)
	cfg.Port = "abc"
	cfg.SyncBatchSize = 0
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "port") || !strings.Contains(err.Error(), "batch size") {
		t.Fatalf("expected both problems reported, got %q", err)
	}
}
