package main

import (
	"context"
	"database/sql"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"github.com/hqvjet/TourAI/internal/adapters/catalog"
	"github.com/hqvjet/TourAI/internal/adapters/observability"
	"github.com/hqvjet/TourAI/internal/app"
	"github.com/hqvjet/TourAI/internal/shared"
	mysqlrepo "github.com/hqvjet/TourAI/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("catalog", cfg.CatalogBase).
		Int("workers", cfg.Workers).
		Int("page_limit", cfg.PageLimit).
		Msg("snapshot starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	cat, err := catalog.New(cfg.CatalogBase, cfg.CallTimeout, cfg.CatalogRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("catalog client init failed")
	}

	snap := app.NewSnapshotter(cat, mysqlrepo.New(db), cfg.PageLimit, cfg.Workers)
	if err := snap.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("snapshot failed")
	}
	log.Info().Msg("snapshot completed")
}
