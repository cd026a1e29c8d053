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
	"toothpickeve.com/migrate/internal/source/excelsrc"
	"toothpickeve.com/migrate/pkg/zerolog_config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if err := zerolog_config.Startup(cfg.ElasticsearchURL, "migrate-excel", cfg.DebugMode); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize logging")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	if cfg.ExcelFile == "" {
		log.Fatal().Msg("EXCEL_FILE is required")
	}

	metrics.ServeInBackground(cfg.MetricsPort)
	metrics.StartRuntimeMetricsCollection("migrate-excel")
	metrics.StartSystemMetrics(cfg.EnableSystemMetrics, 15*time.Second)

	log.Info().
		Str("workbook", cfg.ExcelFile).
		Str("target", cfg.MySQLDatabase).
		Bool("test_mode", cfg.TestMode).
		Msg("Starting workbook migration")

	ctx := context.Background()
	db, err := clinicdb.Connect(ctx, cfg.MySQLDSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to MySQL")
	}
	defer db.Close()

	if err := db.CreateAll(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to create tables")
	}

	workbook, err := excelsrc.Open(cfg.ExcelFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open workbook")
	}
	defer workbook.Close()

	runner := migrate.NewRunner(cfg, db)
	report, err := migrate.NewExcelPipeline(runner, workbook).Run(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Migration aborted")
	}

	if len(report.Failed) > 0 {
		log.Error().Strs("stages", report.Failed).Msg("Migration finished with failed stages")
		os.Exit(1)
	}
	log.Info().Msg("Workbook migration completed successfully")
}
