package main

import (
	"context"
	"database/sql"
	"flag"
	"os"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"campusnest/internal/adapters/observability"
	"campusnest/internal/app"
	"campusnest/internal/shared"
	mysqlrepo "campusnest/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	csvPath := flag.String("csv", "", "path to the listings CSV file")
	adminID := flag.Int64("admin", cfg.ImportAdminID, "admin account the listings are attributed to")
	flag.Parse()
	if *csvPath == "" {
		log.Fatal().Msg("-csv is required")
	}

	log.Info().
		Str("csv", *csvPath).
		Int("workers", cfg.ImportWorkers).
		Int64("admin", *adminID).
		Msg("importer starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	if err := mysqlrepo.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrations failed")
	}

	f, err := os.Open(*csvPath)
	if err != nil {
		log.Fatal().Err(err).Msg("open csv failed")
	}
	defer f.Close()

	svc := app.NewImportService(mysqlrepo.New(db), cfg.ImportWorkers)
	report, err := svc.ImportCSV(ctx, f, *adminID)
	if err != nil {
		log.Fatal().Err(err).Msg("import failed")
	}

	log.Info().
		Int("added", report.Added).
		Int("skipped", report.Skipped).
		Int("failed", report.Failed).
		Msg("import completed")
}
