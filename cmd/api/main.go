package main

import (
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	server "pricing_insights/internal/adapters/http_server"
	"pricing_insights/internal/adapters/observability"
	redisad "pricing_insights/internal/adapters/redis"
	"pricing_insights/internal/app"
	"pricing_insights/internal/shared"
	extractstore "pricing_insights/internal/storage/mysql"
	ratestore "pricing_insights/internal/storage/postgres"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve(cfg.MetricsAddr)

	// snapshot store
	extractsDB, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open mysql failed")
	}
	if err := extractsDB.Ping(); err != nil {
		log.Fatal().Err(err).Msg("mysql ping failed")
	}
	log.Info().Msg("snapshot store connection ok")

	// exchange-rate store
	ratesDB, err := sql.Open("postgres", cfg.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open postgres failed")
	}
	if err := ratesDB.Ping(); err != nil {
		log.Fatal().Err(err).Msg("postgres ping failed")
	}
	log.Info().Msg("rate store connection ok")

	// deps: direct rate lookup wrapped by the memoizing decorator
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	rates := app.NewCachingRateLookup(ratestore.New(ratesDB), cache, cfg.RateCacheTTL)
	extracts := extractstore.New(extractsDB)
	comparisons := app.NewComparisonService(extracts, app.NewConverter(rates))
	latest := app.NewLatestExtractService(extracts, cache, cfg.LatestCacheTTL)

	// http
	srv := server.New(cfg.HTTPRateLimit)
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Comparisons: comparisons, Latest: latest})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
