package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	server "consumer_trends/internal/adapters/http_server"
	"consumer_trends/internal/adapters/observability"
	"consumer_trends/internal/app"
	"consumer_trends/internal/bootstrap"
	"consumer_trends/internal/domain"
	"consumer_trends/internal/shared"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	ctx := context.Background()
	reader, closeDB, err := bootstrap.Reader(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("open record store")
	}
	defer closeDB()

	// deps
	var cache domain.Cache
	if c := bootstrap.Cache(cfg, "api"); c != nil {
		defer c.Close()
		cache = c
	}
	q := app.NewQueryService(reader, cache, cfg.CacheTTL)

	// http
	srv := server.New(15 * time.Second)
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Q: q})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
