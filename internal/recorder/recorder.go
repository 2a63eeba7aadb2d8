package recorder

import (
	"context"
	"errors"
	"strings"

	"StockSync/internal/date"
	"StockSync/internal/model"
)

// ErrNotInitialized is returned when a recorder is used before its database is open.
var ErrNotInitialized = errors.New("recorder: database not initialized")

// Recorder persists daily price records and per-user ticker lists.
type Recorder interface {
	// EnsureTable creates the schema if it does not exist. Safe to call repeatedly.
	EnsureTable(ctx context.Context) error
	// ExistingDates returns every date recorded for ticker, with no range bound.
	ExistingDates(ctx context.Context, ticker string) (date.Set, error)
	// Append inserts records and returns the number of rows written.
	// Rows whose (ticker, date) is already stored are skipped, never overwritten.
	Append(ctx context.Context, records []model.PriceRecord) (int, error)
	// Prices returns the stored records of ticker, newest first.
	Prices(ctx context.Context, ticker string) ([]model.PriceRecord, error)

	UserTickers(ctx context.Context, userID string) ([]string, error)
	AddUserTicker(ctx context.Context, userID, ticker string) (string, error)

	Close() error
}

// ErrEmptyTicker is returned by AddUserTicker for blank input.
var ErrEmptyTicker = errors.New("recorder: empty ticker")

// NormalizeTicker trims surrounding space and upper-cases a user-entered symbol.
func NormalizeTicker(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }
