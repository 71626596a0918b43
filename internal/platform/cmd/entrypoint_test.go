package cmd

import (
	"context"
	"flag"
	"testing"
)

type testConfig struct {
	DBPath    string `env:"CMD_TEST_DB_PATH" envDefault:"ledger.db"`
	CacheSize int    `env:"CMD_TEST_CACHE_SIZE" envDefault:"10"`
}

func TestParseConfigReadsEnvAndFlags(t *testing.T) {
	t.Setenv("CMD_TEST_DB_PATH", "env.db")
	t.Setenv("CMD_TEST_CACHE_SIZE", "25")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg := testConfig{}
	if err := ParseConfig(&cfg); err != nil {
		t.Fatalf("load config defaults: %v", err)
	}
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "db path")
	fs.IntVar(&cfg.CacheSize, "cache-size", cfg.CacheSize, "cache size")

	if err := ParseArgs(fs, []string{"-db", "flag.db"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if cfg.DBPath != "flag.db" {
		t.Fatalf("expected flag value for db path, got %q", cfg.DBPath)
	}
	if cfg.CacheSize != 25 {
		t.Fatalf("expected env cache size 25, got %d", cfg.CacheSize)
	}
}

func TestParseConfigFromArgsReadsEnvAndFlags(t *testing.T) {
	t.Setenv("CMD_TEST_DB_PATH", "configarg.db")

	cfg := testConfig{}
	fs := flag.NewFlagSet("configargs", flag.ContinueOnError)
	fs.StringVar(&cfg.DBPath, "db", "", "db path")
	if err := ParseConfigFromArgs(&cfg, fs, []string{"-db", "flag2.db"}); err != nil {
		t.Fatalf("parse config and args: %v", err)
	}
	if cfg.DBPath != "flag2.db" {
		t.Fatalf("expected parsed flag db path, got %q", cfg.DBPath)
	}
	if cfg.CacheSize != 10 {
		t.Fatalf("expected default cache size, got %d", cfg.CacheSize)
	}
}

func TestParseArgsRejectsNilParser(t *testing.T) {
	if err := ParseArgs(nil, []string{}); err == nil {
		t.Fatal("expected parse args to reject nil parser")
	}
}

func TestRunWithTelemetryRejectsMissingInputs(t *testing.T) {
	if err := RunWithTelemetry(nil, "", func(context.Context) error { return nil }); err == nil {
		t.Fatal("expected missing service error")
	}
	if err := RunWithTelemetry(nil, ServiceLedger, nil); err == nil {
		t.Fatal("expected missing run function error")
	}
}
