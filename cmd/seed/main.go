package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"toothpickeve.com/migrate/internal/clinicdb"
	"toothpickeve.com/migrate/internal/config"
	"toothpickeve.com/migrate/internal/metrics"
	"toothpickeve.com/migrate/internal/seed"
	"toothpickeve.com/migrate/pkg/zerolog_config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if err := zerolog_config.Startup(cfg.ElasticsearchURL, "seed", cfg.DebugMode); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize logging")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	metrics.ServeInBackground(cfg.MetricsPort)
	metrics.StartRuntimeMetricsCollection("seed")
	metrics.StartSystemMetrics(cfg.EnableSystemMetrics, 15*time.Second)

	log.Info().
		Int("patients", cfg.SeedPatients).
		Int("doctors", cfg.SeedDoctors).
		Int64("random_seed", cfg.SeedRandomSeed).
		Msg("Starting dummy data generation")

	ctx := context.Background()
	db, err := clinicdb.Connect(ctx, cfg.MySQLDSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to MySQL")
	}
	defer db.Close()

	if err := db.CreateAll(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to create tables")
	}

	if err := seed.NewGenerator(cfg, db).Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("Data generation failed")
	}

	log.Info().Msg("Dummy data generation completed successfully")
}
