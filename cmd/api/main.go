package main

import (
	"log"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"ksboot/adapters/excel"
	"ksboot/adapters/postgres"
	"ksboot/adapters/rng"
	"ksboot/app"
	"ksboot/internal"
	"ksboot/internal/config"
	"ksboot/ports"
	"ksboot/ui"
)

func main() {
	// Load .env file if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewDefaultLogger()

	var ledger ports.TestLedgerPort
	if cfg.Database.URL != "" {
		db, err := postgres.Connect(cfg.Database.URL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := postgres.Migrate(db); err != nil {
			log.Fatalf("Failed to apply schema: %v", err)
		}
		ledger = postgres.NewTestRepository(db)
		logger.Info("test ledger connected")
	} else {
		logger.Warn("DATABASE_URL not set, running without a test ledger")
	}

	var exporter ports.ExporterPort
	if cfg.Export.Enabled {
		exporter = excel.NewExporter()
		logger.Info("workbook export enabled, dir=%s", cfg.Export.Dir)
	}

	service := app.NewTestService(ledger, exporter, rng.NewAdapter(), cfg.Bootstrap, cfg.Export, logger)
	httpApp := ui.NewApp(service, logger)

	log.Printf("Starting KS test API on http://localhost:%s", cfg.Server.Port)
	log.Fatal(httpApp.Start(cfg.Server.Port))
}
