// Package ledger parses ledger command flags and runs the MCP server.
package ledger

import (
	"context"
	"flag"

	platformcmd "github.com/louisbranch/partyledger/internal/platform/cmd"

	ledgermcp "github.com/louisbranch/partyledger/internal/ledger/api/mcp"
	"github.com/louisbranch/partyledger/internal/ledger/service"
	"github.com/louisbranch/partyledger/internal/ledger/storage/sqlite"
	"github.com/louisbranch/partyledger/internal/ledger/store"
)

// Config holds ledger command configuration.
type Config struct {
	DBPath    string `env:"PARTYLEDGER_DB_PATH"    envDefault:"partyledger.db"`
	CacheSize int    `env:"PARTYLEDGER_CACHE_SIZE" envDefault:"10"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := platformcmd.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "path to the campaign database")
	fs.IntVar(&cfg.CacheSize, "cache-size", cfg.CacheSize, "campaigns held in memory")
	if err := platformcmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run opens the campaign store and serves ledger commands over MCP stdio
// until the context is cancelled.
func Run(ctx context.Context, cfg Config) error {
	return platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceLedger, func(ctx context.Context) error {
		backend, err := sqlite.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer backend.Close()

		campaigns, err := store.NewManager(backend, cfg.CacheSize)
		if err != nil {
			return err
		}

		server := ledgermcp.New(service.New(campaigns))
		return server.Run(ctx)
	})
}
