// Command snapshot-migrate upgrades a persisted snapshot document to
// the current schema version in place. The server does this on startup
// anyway; this tool exists for inspecting and migrating documents
// offline.
package main

import (
	"context"
	"flag"
	"os"

	"kakeibo/internal/backend"
	"kakeibo/internal/cli"
	"kakeibo/internal/state"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	dryRun := flag.Bool("dry-run", false, "report what would change without saving")
	flag.Parse()

	ctx := context.Background()

	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}

	factory := backend.NewFactory(logger)
	result, err := factory.CreateStore(ctx, bcfg)
	if err != nil {
		logger.Error("Failed to initialize snapshot store", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				logger.Error("Store cleanup error", "error", err)
			}
		}()
	}

	snap, ok, err := result.Store.Load(ctx)
	if err != nil {
		logger.Error("Failed to load snapshot", "error", err)
		os.Exit(1)
	}
	if !ok {
		logger.Info("No snapshot found, nothing to migrate")
		return
	}

	migrated := state.Migrate(snap)
	logger.Info("Migration computed",
		"from_version", snap.SchemaVersion,
		"to_version", migrated.SchemaVersion,
		"transactions_before", len(snap.Transactions),
		"transactions_after", len(migrated.Transactions))

	if *dryRun {
		logger.Info("Dry run, not saving")
		return
	}

	if err := result.Store.Save(ctx, migrated); err != nil {
		logger.Error("Failed to save migrated snapshot", "error", err)
		os.Exit(1)
	}
	logger.Info("Snapshot migrated and saved")
}
