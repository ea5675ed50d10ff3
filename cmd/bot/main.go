package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"SignalSentinel/internal/bankroll"
	"SignalSentinel/internal/config"
	"SignalSentinel/internal/evaluator"
	"SignalSentinel/internal/notifier"
	"SignalSentinel/internal/odds"
	"SignalSentinel/internal/pricefeed"
	"SignalSentinel/internal/server"
	"SignalSentinel/internal/sportsfeed"
	"SignalSentinel/internal/store"
)

func main() {
	_ = godotenv.Load()

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}

	setupLogging(cfg.LogLevel)
	log.Info().Msg("SignalSentinel starting...")

	// Price feed: Binance REST behind a rate limit and circuit breaker.
	binance := pricefeed.NewBinanceFetcher(cfg.PriceFeed.BaseURL, cfg.PriceFeed.Interval, cfg.Proxy)
	feed := pricefeed.NewGuarded(binance, cfg.PriceFeed.RateLimitRPS, cfg.PriceFeed.RateLimitBurst,
		time.Duration(cfg.PriceFeed.TimeoutSeconds)*time.Second)
	log.Info().Str("provider", binance.Name()).Msg("price feed ready")

	// Signal store
	var st store.Store
	if cfg.Database.SQLitePath != "" {
		ss, err := store.NewSQLiteStore(cfg.Database.SQLitePath)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite store failed, using in-memory store")
			st = store.NewMemoryStore()
		} else {
			st = ss
			defer ss.Close()
		}
	} else {
		st = store.NewMemoryStore()
	}

	// Bankroll manager
	bank, err := bankroll.NewManager(cfg.Bankroll.StateFile, cfg.Bankroll.InitialBalance, cfg.Bankroll.StakePercent)
	if err != nil {
		log.Fatal().Err(err).Msg("init bankroll manager")
	}

	// Telegram notifier
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
	formatter := notifier.MessageFormatter{}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Evaluator + scheduler
	svc := evaluator.NewService(st, feed, bank, tn, formatter,
		time.Duration(cfg.Evaluation.GraceMinutes)*time.Minute, cfg.Evaluation.MaxConcurrency)
	sched := evaluator.NewScheduler(ctx, svc, formatter)
	if err := sched.Register(cfg.Evaluation.Cron); err != nil {
		log.Fatal().Err(err).Msg("register evaluation cron")
	}
	sched.Start()
	defer sched.Stop()

	// Sports feed is optional; the fixture endpoint 404s without it.
	var statsFeed sportsfeed.StatsFetcher
	if cfg.SportsFeed.BaseURL != "" {
		statsFeed = sportsfeed.NewRESTFetcher(cfg.SportsFeed.BaseURL, cfg.SportsFeed.APIKey)
	}

	// HTTP API
	srv := &server.Server{
		Store: st,
		Bank:  bank,
		Odds:  odds.NewEngine(),
		Stats: statsFeed,
	}
	go func() {
		if err := srv.ListenAndServe(cfg.Server.ListenAddr); err != nil {
			log.Error().Err(err).Msg("http server stopped")
		}
	}()

	// Telegram command polling
	go tn.StartPolling(ctx, sched.HandleCommand)
	log.Info().Msg("telegram polling started")

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Info().Msg("RUN_ON_START enabled, executing evaluation pass now")
		go sched.RunNow()
	}

	log.Info().Msg("SignalSentinel is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutdown signal received, stopping...")
	cancel()
	log.Info().Msg("SignalSentinel stopped")
}

func setupLogging(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}
