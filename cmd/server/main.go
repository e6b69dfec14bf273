package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	kycHandler "kyc-service/internal/kyc/handler"
	kycMetrics "kyc-service/internal/kyc/metrics"
	"kyc-service/internal/kyc/service"
	"kyc-service/internal/kyc/store"
	"kyc-service/internal/kyc/store/cached"
	kycPostgres "kyc-service/internal/kyc/store/postgres"
	"kyc-service/internal/platform/config"
	"kyc-service/internal/platform/httpserver"
	"kyc-service/internal/platform/logger"
	"kyc-service/internal/platform/postgres"
	platformRedis "kyc-service/internal/platform/redis"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal/kyc packages.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		// Logger config may itself be broken, so fall back to stderr.
		os.Stderr.WriteString("config error: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg)
	if err != nil {
		log.Error("database unavailable, refusing to start", "error", err.Error())
		os.Exit(1)
	}
	defer db.Close()

	var entries store.Store = kycPostgres.New(db, kycPostgres.WithQueryTimeout(cfg.DBQueryTimeout))

	redisClient, err := platformRedis.New(ctx, cfg.RedisURL)
	if err != nil {
		log.Error("redis unavailable, refusing to start", "error", err.Error())
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		entries = cached.New(entries, redisClient, log)
		log.Info("entry cache enabled")
	}

	svc := service.New(entries,
		service.WithLogger(log),
		service.WithMetrics(kycMetrics.New()),
	)

	router := chi.NewRouter()
	kycHandler.New(svc, log).Register(router)
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			http.Error(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	router.Handle("/metrics", promhttp.Handler())

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting kyc-service", "addr", cfg.Addr)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err.Error())
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
