package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/liveprobe/liveprobe/internal/config"
	"github.com/liveprobe/liveprobe/internal/httpapi"
	apimw "github.com/liveprobe/liveprobe/internal/httpapi/middleware"
	"github.com/liveprobe/liveprobe/internal/logging"
	"github.com/liveprobe/liveprobe/internal/notify"
	"github.com/liveprobe/liveprobe/internal/probe"
	"github.com/liveprobe/liveprobe/internal/repo"
	"github.com/liveprobe/liveprobe/internal/repo/memory"
	"github.com/liveprobe/liveprobe/internal/repo/postgres"
	"github.com/liveprobe/liveprobe/internal/scheduler"
)

func main() {
	cfg := config.FromEnv()
	logger, err := logging.NewLogger(cfg.LogDir)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		targets repo.TargetStore
		results repo.ResultStore
		alerts  repo.AlertStore
	)
	if cfg.DatabaseURL != "" {
		pg, err := postgres.New(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			logger.Fatal("postgres_connect", zap.Error(err))
		}
		defer pg.Close()
		targets, results, alerts = pg, pg, pg
		logger.Info("store", zap.String("kind", "postgres"))
	} else {
		mem := memory.New()
		targets, results, alerts = mem, mem, mem
		logger.Info("store", zap.String("kind", "memory"))
	}

	checker := &probe.RetryChecker{
		Inner:    probe.NewHTTPChecker(cfg.ProbeTimeout),
		Attempts: cfg.RetryAttempts,
		Backoff:  cfg.RetryBackoff,
	}
	prober := probe.NewProber(checker, cfg.ProbeTimeout)

	rechecker := scheduler.NewRechecker(logger, targets, results, prober, cfg.CheckInterval)
	go rechecker.Run(ctx)

	if slack := notify.NewSlack(cfg.SlackWebhook); slack != nil {
		alerter := scheduler.NewAlerter(results, alerts, notify.Multi{slack}, scheduler.AlerterConfig{
			AlertOnRecovery: cfg.AlertOnRecovery,
			Cooldown:        cfg.AlertCooldown,
			PollInterval:    cfg.AlertPoll,
		})
		go func() { _ = alerter.Run(ctx) }()
	} else {
		logger.Info("alerter_disabled")
	}

	api := httpapi.NewServer(logger, targets, results, prober)
	keys := apimw.Keys{Public: cfg.PublicAPIKeys, Admin: cfg.AdminAPIKeys}
	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: api.Router(keys, nil, cfg.PublicRPM, cfg.PublicBurst, cfg.AdminRPM, cfg.AdminBurst),
	}

	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()

	logger.Info("api_listen", zap.String("addr", cfg.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("api_serve", zap.Error(err))
	}
}
