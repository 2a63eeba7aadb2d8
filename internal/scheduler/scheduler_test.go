package scheduler

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockSync/internal/collector"
	"StockSync/internal/date"
	"StockSync/internal/model"
	"StockSync/internal/pipeline"
	"StockSync/internal/recorder"
)

type fakeSender struct {
	mu       sync.Mutex
	messages []string
	err      error
}

func (f *fakeSender) SendWithRetry(_ context.Context, text string, _ int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, text)
	return f.err
}

func newTestScheduler(t *testing.T, fetcher collector.Fetcher, tickers ...string) (*Scheduler, *recorder.MemoryRecorder, *fakeSender) {
	t.Helper()
	rec := recorder.NewMemoryRecorder()
	runner := pipeline.NewRunner(rec, fetcher, date.MustParse("2023-01-02"), date.MustParse("2023-01-06")).
		WithOutput(&bytes.Buffer{})
	sender := &fakeSender{}
	return NewScheduler(t.Context(), runner, tickers, sender), rec, sender
}

func TestRegisterAll(t *testing.T) {
	s, _, _ := newTestScheduler(t, &collector.MockFetcher{Price: 1}, "A")
	require.NoError(t, s.RegisterAll("0 0 22 * * 1-5"))
	assert.Len(t, s.Cron.Entries(), 1)

	assert.Error(t, s.RegisterAll("not a cron"))
}

func TestRunSyncNow_NotifiesReport(t *testing.T) {
	s, rec, sender := newTestScheduler(t, &collector.MockFetcher{Price: 1}, "TCS.NS", "INFY.NS")
	s.RunSyncNow()

	prices, err := rec.Prices(t.Context(), "INFY.NS")
	require.NoError(t, err)
	assert.Len(t, prices, 5)

	require.Len(t, sender.messages, 1)
	assert.Contains(t, sender.messages[0], "TCS.NS: 5 stored (5 missing)")
	assert.Contains(t, sender.messages[0], "2 tickers, 10 records stored, 0 failed")
}

func TestRunSyncNow_ReportsFailures(t *testing.T) {
	s, _, sender := newTestScheduler(t, &collector.MockFetcher{Err: errors.New("HTTP 503")}, "A")
	s.RunSyncNow()

	require.Len(t, sender.messages, 1)
	assert.Contains(t, sender.messages[0], "HTTP 503")
	assert.Contains(t, sender.messages[0], "1 failed")
}

func TestRunSyncNow_WithoutNotifier(t *testing.T) {
	s, rec, _ := newTestScheduler(t, &collector.MockFetcher{Price: 1}, "A")
	s.Notifier = nil
	s.RunSyncNow()
	assert.True(t, rec.Ready())
}

func TestHandleCommand(t *testing.T) {
	fetcher := &collector.MockFetcher{Price: 1}
	s, rec, sender := newTestScheduler(t, fetcher, "A", "B")

	reply := s.HandleCommand(t.Context(), "/tickers")
	assert.Contains(t, reply, "• A\n• B\n")

	reply = s.HandleCommand(t.Context(), "/sync  c.ns ")
	assert.Contains(t, reply, "c.ns: 5 stored", "symbols are synced as written")
	assert.NotContains(t, reply, "A:")
	prices, err := rec.Prices(t.Context(), "c.ns")
	require.NoError(t, err)
	assert.Len(t, prices, 5)

	reply = s.HandleCommand(t.Context(), "/sync")
	assert.Contains(t, reply, "A: 5 stored")
	assert.Contains(t, reply, "B: 5 stored")

	assert.Contains(t, s.HandleCommand(t.Context(), "hello"), "/sync")
	assert.Contains(t, s.HandleCommand(t.Context(), ""), "/tickers")
	assert.Empty(t, sender.messages, "command replies go back through polling")
}

// slowFetcher delays each fetch so a run is still in flight when Stop is called.
type slowFetcher struct {
	collector.MockFetcher
	delay time.Duration
}

func (f *slowFetcher) FetchRange(ctx context.Context, symbol string, start, end date.Date) ([]model.Bar, error) {
	time.Sleep(f.delay)
	return f.MockFetcher.FetchRange(ctx, symbol, start, end)
}

func TestStop_WaitsForBackgroundSync(t *testing.T) {
	fetcher := &slowFetcher{MockFetcher: collector.MockFetcher{Price: 1}, delay: 100 * time.Millisecond}
	s, rec, sender := newTestScheduler(t, fetcher, "A")
	s.Start()

	s.RunSyncInBackground()
	s.Stop()

	prices, err := rec.Prices(t.Context(), "A")
	require.NoError(t, err)
	assert.Len(t, prices, 5, "sync finished before Stop returned")
	sender.mu.Lock()
	defer sender.mu.Unlock()
	assert.Len(t, sender.messages, 1)
}
