package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/subcommands"

	"StockSync/internal/notifier"
	"StockSync/internal/scheduler"
	"StockSync/internal/server"
)

type serveCmd struct {
	runOnStart bool
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "runs the HTTP API, the sync schedule and the Telegram bot" }
func (*serveCmd) Usage() string {
	return `stocksync serve [-run-on-start]

Starts the long-running service:
  - the JSON API on server.addr
  - the cron job syncing sync.tickers on schedule.sync_cron
  - the Telegram bot (/sync, /tickers) when telegram.* is configured

RUN_ON_START=true has the same effect as -run-on-start.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.runOnStart, "run-on-start", os.Getenv("RUN_ON_START") == "true", "Sync the configured tickers immediately")
}

func (c *serveCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	log.Println("[INFO] StockSync starting...")

	cfg, err := loadConfig()
	if err != nil {
		log.Printf("[FATAL] %v", err)
		return subcommands.ExitFailure
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rec, err := openRecorder(ctx, cfg)
	if err != nil {
		log.Printf("[FATAL] open database: %v", err)
		return subcommands.ExitFailure
	}
	defer rec.Close()

	runner, err := newRunner(cfg, rec)
	if err != nil {
		log.Printf("[FATAL] %v", err)
		return subcommands.ExitFailure
	}

	var tn *notifier.TelegramNotifier
	var sender scheduler.Sender
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		sender = tn
	} else {
		log.Println("[WARN] telegram not configured, notifications disabled")
	}

	sched := scheduler.NewScheduler(ctx, runner, cfg.Sync.Tickers, sender)
	if err := sched.RegisterAll(cfg.Schedule.SyncCron); err != nil {
		log.Printf("[FATAL] register cron tasks: %v", err)
		return subcommands.ExitFailure
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}

	srv := server.NewServer(cfg.Server.Addr, rec, runner)
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	if c.runOnStart {
		log.Println("[INFO] run-on-start enabled, executing sync task now")
		sched.RunSyncInBackground()
	}

	log.Println("[INFO] StockSync is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	status := subcommands.ExitSuccess
	select {
	case <-sigCh:
		log.Println("[INFO] shutdown signal received, stopping...")
	case err := <-errCh:
		log.Printf("[ERROR] HTTP server: %v", err)
		status = subcommands.ExitFailure
	}

	cancel()
	shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
	defer done()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[WARN] HTTP shutdown: %v", err)
	}
	log.Println("[INFO] StockSync stopped")
	return status
}
