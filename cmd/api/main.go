package main

import (
	"context"
	"database/sql"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"landlordwatch/internal/adapters/assessor"
	server "landlordwatch/internal/adapters/http_server"
	"landlordwatch/internal/adapters/observability"
	redisad "landlordwatch/internal/adapters/redis"
	"landlordwatch/internal/adapters/rentcast"
	"landlordwatch/internal/app"
	"landlordwatch/internal/domain"
	"landlordwatch/internal/shared"
	mysqlrepo "landlordwatch/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	var provider domain.PropertyProvider
	if cfg.RentCastKey != "" {
		client, err := rentcast.New(cfg.RentCastBase, cfg.RentCastKey, 5)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize RentCast client")
		}
		provider = client
	}
	scraper := assessor.New(cfg.ScrapeTimeout)

	ratings := app.NewRatingService(repo)
	reviews := app.NewReviewService(repo, ratings, cache, cfg.CacheTTL)
	landlords := app.NewLandlordService(repo, provider, scraper, cache, cfg.CacheTTL, cfg.ProviderTimeout)
	contributions := app.NewContributionService(repo)

	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Landlords:     landlords,
		Reviews:       reviews,
		Contributions: contributions,
		Identity:      server.RemoteIdentity,
	})

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
	// release the scraper's shared browser session
	scraper.Close()
	if err := db.Close(); err != nil {
		log.Error().Err(err).Msg("db close failed")
	}
}
