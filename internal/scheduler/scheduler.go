package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/robfig/cron/v3"

	"StockSync/internal/date"
	"StockSync/internal/notifier"
	"StockSync/internal/pipeline"
)

// Sender delivers a notification message.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler runs the configured ticker sync on a cron schedule and answers chat commands.
type Scheduler struct {
	Cron     *cron.Cron
	Runner   *pipeline.Runner
	Tickers  []string
	Notifier Sender // nil disables notifications
	Ctx      context.Context

	background sync.WaitGroup // syncs started by RunSyncInBackground
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, runner *pipeline.Runner, tickers []string, sender Sender) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Runner:   runner,
		Tickers:  tickers,
		Notifier: sender,
		Ctx:      ctx,
	}
}

// RegisterAll registers the sync task.
func (s *Scheduler) RegisterAll(syncCron string) error {
	if _, err := s.Cron.AddFunc(syncCron, s.syncTask); err != nil {
		return fmt.Errorf("register sync task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for running syncs to finish,
// including those started by RunSyncInBackground.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.background.Wait()
	log.Println("[INFO] scheduler stopped")
}

// RunSyncNow executes the sync task immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunSyncNow() {
	s.syncTask()
}

// RunSyncInBackground starts the sync task in a goroutine that Stop waits for.
func (s *Scheduler) RunSyncInBackground() {
	s.background.Add(1)
	go func() {
		defer s.background.Done()
		s.syncTask()
	}()
}

func (s *Scheduler) syncTask() {
	log.Println("[INFO] running sync task")
	report, err := s.Runner.Run(s.Ctx, s.Tickers)
	if report == nil {
		log.Printf("[ERROR] sync: %v", err)
		s.trySend(notifier.FormatError("sync", err))
		return
	}
	if err != nil {
		log.Printf("[WARN] sync finished with %d failed tickers", report.Failed())
	}
	s.trySend(notifier.FormatSyncReport(date.Today(), report))
}

// HandleCommand processes a chat command and returns a reply.
//
//	/sync            sync the configured tickers
//	/sync A B        sync only the named tickers
//	/tickers         list the configured tickers
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	switch fields[0] {
	case "/sync":
		tickers := s.Tickers
		if len(fields) > 1 {
			tickers = fields[1:]
		}
		report, err := s.Runner.Run(ctx, tickers)
		if report == nil {
			return notifier.FormatError("sync", err)
		}
		return notifier.FormatSyncReport(date.Today(), report)
	case "/tickers":
		return notifier.FormatTickers(s.Tickers)
	default:
		return helpText
	}
}

const helpText = "Available commands:\n• /sync [TICKER...]\n• /tickers"

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
