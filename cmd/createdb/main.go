package main

import (
	"context"

	"github.com/rs/zerolog/log"

	"toothpickeve.com/migrate/internal/clinicdb"
	"toothpickeve.com/migrate/internal/config"
	"toothpickeve.com/migrate/pkg/zerolog_config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if err := zerolog_config.Startup(cfg.ElasticsearchURL, "createdb", cfg.DebugMode); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize logging")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().Msg("Starting clinic schema setup")

	ctx := context.Background()
	if err := clinicdb.CreateDatabase(ctx, cfg.MySQLServerDSN(), cfg.MySQLDatabase); err != nil {
		log.Fatal().Err(err).Msg("Failed to create database")
	}

	db, err := clinicdb.Connect(ctx, cfg.MySQLDSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to MySQL")
	}
	defer db.Close()

	if err := db.CreateAll(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to create tables")
	}

	log.Info().Msg("Clinic schema setup completed successfully")
}
