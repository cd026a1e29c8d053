package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"toothpickeve.com/migrate/internal/clinicdb"
	"toothpickeve.com/migrate/internal/config"
	"toothpickeve.com/migrate/internal/metrics"
	"toothpickeve.com/migrate/internal/migrate"
	"toothpickeve.com/migrate/internal/source/legacydb"
	"toothpickeve.com/migrate/pkg/zerolog_config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if err := zerolog_config.Startup(cfg.ElasticsearchURL, "migrate-legacy", cfg.DebugMode); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize logging")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	if cfg.MSSQLDatabase == "" {
		log.Fatal().Msg("MSSQL_DATABASE is required")
	}

	metrics.ServeInBackground(cfg.MetricsPort)
	metrics.StartRuntimeMetricsCollection("migrate-legacy")
	metrics.StartSystemMetrics(cfg.EnableSystemMetrics, 15*time.Second)

	log.Info().
		Str("source", cfg.MSSQLServer+"/"+cfg.MSSQLDatabase).
		Str("target", cfg.MySQLDatabase).
		Msg("Starting legacy database migration")

	ctx := context.Background()
	db, err := clinicdb.Connect(ctx, cfg.MySQLDSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to MySQL")
	}
	defer db.Close()

	if err := db.CreateAll(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to create tables")
	}

	store, err := legacydb.Connect(ctx, cfg.MSSQLDSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to SQL Server")
	}
	defer store.Close()

	runner := migrate.NewRunner(cfg, db)
	report, err := migrate.NewLegacyPipeline(runner, store).Run(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Migration aborted")
	}

	if len(report.Failed) > 0 {
		log.Error().Strs("stages", report.Failed).Msg("Migration finished with failed stages")
		os.Exit(1)
	}
	log.Info().Msg("Legacy database migration completed successfully")
}
