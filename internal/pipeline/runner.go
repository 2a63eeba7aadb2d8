package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"

	"StockSync/internal/collector"
	"StockSync/internal/date"
	"StockSync/internal/model"
)

// Store is the part of the recorder a sync run needs.
type Store interface {
	DateReader
	EnsureTable(ctx context.Context) error
	Append(ctx context.Context, records []model.PriceRecord) (int, error)
}

// Runner syncs a batch of tickers over a date range.
type Runner struct {
	Store   Store
	Fetcher collector.Fetcher
	Range   date.Range // a zero To means today, evaluated at each run
	Logger  *log.Logger

	// mu serializes runs so two triggers never interleave read-then-append.
	// Runners derived with WithOutput share it. Nil disables locking.
	mu *sync.Mutex
}

// NewRunner creates a Runner logging to the standard logger's output.
func NewRunner(store Store, fetcher collector.Fetcher, from, to date.Date) *Runner {
	return &Runner{
		Store:   store,
		Fetcher: fetcher,
		Range:   date.Range{From: from, To: to},
		Logger:  log.New(log.Writer(), "", log.Flags()),
		mu:      &sync.Mutex{},
	}
}

// WithOutput returns a copy of r that logs to w instead, sharing the same run lock.
func (r *Runner) WithOutput(w io.Writer) *Runner {
	return &Runner{
		Store:   r.Store,
		Fetcher: r.Fetcher,
		Range:   r.Range,
		Logger:  log.New(w, "", 0),
		mu:      r.mu,
	}
}

// Run processes tickers one at a time. The schema is ensured first and a
// failure there aborts the run. A failing ticker is reported in its outcome
// and the run continues; the returned error joins every ticker failure.
func (r *Runner) Run(ctx context.Context, tickers []string) (*model.SyncReport, error) {
	if r.Store == nil || r.Fetcher == nil {
		return nil, errors.New("runner: store and fetcher are required")
	}
	if r.mu != nil {
		r.mu.Lock()
		defer r.mu.Unlock()
	}

	lg := r.logger()
	rng := r.Range
	if rng.To.IsZero() {
		rng.To = date.Today()
	}
	lg.Printf("[INFO] sync starting: %d tickers, %s to %s, provider %s",
		len(tickers), rng.From, rng.To, r.Fetcher.Name())

	if err := r.Store.EnsureTable(ctx); err != nil {
		lg.Printf("[ERROR] ensure table: %v", err)
		return nil, fmt.Errorf("%w: ensure table: %w", ErrStorage, err)
	}

	report := &model.SyncReport{}
	if len(tickers) == 0 {
		lg.Println("[INFO] ticker list is empty, nothing to do")
		return report, nil
	}

	var errs []error
	for _, ticker := range tickers {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		out, err := r.syncTicker(ctx, ticker, rng)
		if err != nil {
			lg.Printf("[ERROR] [%s] %v", ticker, err)
			out.Status = model.StatusError
			out.Error = err.Error()
			errs = append(errs, err)
		}
		report.Outcomes = append(report.Outcomes, out)
	}

	lg.Printf("[INFO] sync finished: %d tickers, %d failed", len(report.Outcomes), report.Failed())
	return report, errors.Join(errs...)
}

func (r *Runner) syncTicker(ctx context.Context, ticker string, rng date.Range) (model.TickerOutcome, error) {
	lg := r.logger()
	out := model.TickerOutcome{Ticker: ticker}

	missing, err := FindMissing(ctx, r.Store, ticker, rng.From, rng.To)
	if err != nil {
		return out, err
	}
	out.Missing = len(missing)
	if len(missing) == 0 {
		lg.Printf("[INFO] [%s] data is already up-to-date", ticker)
		out.Status = model.StatusUpToDate
		return out, nil
	}
	lg.Printf("[INFO] [%s] %d missing dates, fetching %s to %s",
		ticker, len(missing), missing[0], missing[len(missing)-1])

	records, err := Reconcile(ctx, r.Fetcher, ticker, missing)
	if err != nil {
		return out, err
	}
	out.Fetched = len(records)
	if len(records) == 0 {
		lg.Printf("[WARN] [%s] provider returned no rows for the missing dates", ticker)
	}

	stored, err := r.Store.Append(ctx, records)
	if err != nil {
		return out, fmt.Errorf("%w: append %s: %w", ErrStorage, ticker, err)
	}
	out.Stored = stored
	out.Status = model.StatusFetched
	lg.Printf("[INFO] [%s] stored %d new records", ticker, stored)
	return out, nil
}

func (r *Runner) logger() *log.Logger {
	if r.Logger == nil {
		return log.Default()
	}
	return r.Logger
}

// FormatReport renders a report as one line per ticker.
func FormatReport(report *model.SyncReport) string {
	var b strings.Builder
	for _, o := range report.Outcomes {
		switch o.Status {
		case model.StatusUpToDate:
			fmt.Fprintf(&b, "%s: up-to-date\n", o.Ticker)
		case model.StatusFetched:
			fmt.Fprintf(&b, "%s: %d dates fetched (%d missing)\n", o.Ticker, o.Stored, o.Missing)
		default:
			fmt.Fprintf(&b, "%s: error: %s\n", o.Ticker, o.Error)
		}
	}
	return b.String()
}
