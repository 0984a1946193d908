// Package server parses engine flags and runs the wagering engine
// process: snapshot restore on startup, the expiry sweeper and autosave
// loops while running, and a final snapshot on shutdown.
package server

import (
	"context"
	"errors"
	"flag"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/louisbranch/antaria.games/internal/casino"
	"github.com/louisbranch/antaria.games/internal/ledger"
	entrypoint "github.com/louisbranch/antaria.games/internal/platform/cmd"
	"github.com/louisbranch/antaria.games/internal/platform/timeouts"
	"github.com/louisbranch/antaria.games/internal/random"
	"github.com/louisbranch/antaria.games/internal/storage/sqlite"
)

// Config holds engine command configuration.
type Config struct {
	DBPath string `env:"ANTARIA_GAMES_DB_PATH" envDefault:"antaria.db"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "The SQLite snapshot database path")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the wagering engine with telemetry wired in.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceEngine, func(ctx context.Context) error {
		return run(ctx, cfg)
	})
}

func run(ctx context.Context, cfg Config) error {
	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("close store: %v", err)
		}
	}()

	seed, err := random.NewSeed()
	if err != nil {
		return err
	}
	led := ledger.New(ledger.Config{
		StarterGrant: ledger.DefaultStarterGrant,
		HouseFloat:   ledger.DefaultHouseFloat,
	})
	svc := casino.New(casino.Config{Ledger: led, Seed: seed})

	snap, ok, err := store.LoadSnapshot(ctx)
	if err != nil {
		return err
	}
	if ok {
		svc.Restore(snap)
		log.Printf("snapshot restored taken_at=%s accounts=%d challenges=%d rounds=%d",
			snap.TakenAt.Format(time.RFC3339), len(snap.Accounts), len(snap.Challenges), len(snap.Rounds))
	}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return svc.RunSweeper(ctx)
	})
	group.Go(func() error {
		ticker := time.NewTicker(timeouts.Autosave)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				if err := store.SaveSnapshot(ctx, svc.Snapshot()); err != nil {
					log.Printf("autosave snapshot: %v", err)
				}
			}
		}
	})

	err = group.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	saveCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
	defer cancel()
	if err := store.SaveSnapshot(saveCtx, svc.Snapshot()); err != nil {
		return err
	}
	log.Print("snapshot saved on shutdown")
	return nil
}
