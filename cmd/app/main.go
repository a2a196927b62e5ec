// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"telegram-sport-subscription/internal/config"
	"telegram-sport-subscription/internal/domain/ports/adapter"
	tele "telegram-sport-subscription/internal/infra/adapters/telegram"
	"telegram-sport-subscription/internal/infra/api"
	pg "telegram-sport-subscription/internal/infra/db/postgres"
	"telegram-sport-subscription/internal/infra/i18n"
	"telegram-sport-subscription/internal/infra/logging"
	"telegram-sport-subscription/internal/infra/metrics"
	"telegram-sport-subscription/internal/infra/payment"
	red "telegram-sport-subscription/internal/infra/redis"
	"telegram-sport-subscription/internal/infra/sched"
	"telegram-sport-subscription/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "developer mode (console logs, no real Telegram sends)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("developer mode enabled")
	}

	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	locker := red.NewLocker(redisClient)

	// ---- Repositories ----
	txRepo := pg.NewTransactionRepo(pool)
	planRepo := pg.NewPlanRepo(pool)
	userRepo := pg.NewUserRepo(pool)
	subRepo := pg.NewSubscriptionRepo(pool)

	// ---- Translator ----
	tr, err := i18n.NewTranslator(i18n.LocalesFS, cfg.Octo.Language)
	if err != nil {
		logger.Fatal().Err(err).Msg("i18n")
	}

	// ---- Telegram ----
	var bot adapter.TelegramBotAdapter
	if cfg.Runtime.Dev {
		bot = tele.NewNoopBotAdapter()
	} else {
		bot, err = tele.NewBotAdapter(cfg.Bot.Token)
		if err != nil {
			logger.Fatal().Err(err).Msg("telegram")
		}
	}

	// ---- Use cases ----
	subUC := usecase.NewSubscriptionUseCase(subRepo, logger)
	gateway := payment.NewOctoGateway(cfg.Octo)
	payUC := usecase.NewPaymentUseCase(
		txRepo, planRepo, userRepo, subUC,
		gateway, bot, locker, tr,
		cfg.Bot.ChannelID, cfg.Octo.TestAmount,
		logger,
	)
	statsUC := usecase.NewStatsUseCase(txRepo)

	// ---- HTTP server ----
	auth := api.NewAuthManager(cfg.Admin.SessionSecret, !cfg.Runtime.Dev, cfg.Admin.SessionTTL)
	srv := api.NewServer(payUC, statsUC, auth, cfg.Admin.Password, logger)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Expiry worker ----
	worker := sched.NewExpiryWorker(cfg.Scheduler.ExpiryInterval, subUC, logger)
	go func() { _ = worker.Run(ctx) }()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
}
