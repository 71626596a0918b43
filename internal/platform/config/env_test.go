package config

import (
	"strings"
	"testing"
)

type envTestConfig struct {
	CacheSize int `env:"PARTYLEDGER_TEST_CACHE_SIZE" envDefault:"10"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.CacheSize != 10 {
		t.Fatalf("expected default cache size 10, got %d", cfg.CacheSize)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("PARTYLEDGER_TEST_CACHE_SIZE", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}
