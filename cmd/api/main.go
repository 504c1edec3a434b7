package main

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/hqvjet/TourAI/internal/adapters/catalog"
	"github.com/hqvjet/TourAI/internal/adapters/classifier"
	server "github.com/hqvjet/TourAI/internal/adapters/http_server"
	"github.com/hqvjet/TourAI/internal/adapters/observability"
	redisad "github.com/hqvjet/TourAI/internal/adapters/redis"
	"github.com/hqvjet/TourAI/internal/app"
	"github.com/hqvjet/TourAI/internal/shared"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	cat, err := catalog.New(cfg.CatalogBase, cfg.CallTimeout, cfg.CatalogRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("catalog client init failed")
	}
	clf, err := classifier.New(cfg.ClassifierURL, cfg.CallTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("classifier client init failed")
	}

	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	q := app.NewQueryService(cat, cache, cfg.CacheTTL)
	feeds := app.NewFeedSet(q.Comments)

	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Q:          q,
		Catalog:    cat,
		Classifier: clf,
		Feeds:      feeds,
		PageLimit:  cfg.PageLimit,
	})

	log.Info().Str("addr", cfg.HTTPAddr).Str("catalog", cfg.CatalogBase).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
