// Package pipeline reconciles stored daily prices against the business
// calendar and fills the gaps from a market-data provider.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"StockSync/internal/date"
)

var (
	// ErrStorage wraps failures of the price store.
	ErrStorage = errors.New("storage unavailable")
	// ErrProvider wraps failures of the market-data provider.
	ErrProvider = errors.New("provider unavailable")
)

// DateReader reports which dates are already stored for a ticker.
type DateReader interface {
	ExistingDates(ctx context.Context, ticker string) (date.Set, error)
}

// FindMissing returns, ascending, the business days in [from, to] that have no
// stored record for ticker. When the range holds no business day (inverted or
// weekend only) the store is not read, so no storage error can surface.
func FindMissing(ctx context.Context, store DateReader, ticker string, from, to date.Date) ([]date.Date, error) {
	expected := date.NewSet(date.BusinessDays(from, to)...)
	if len(expected) == 0 {
		return nil, nil
	}
	existing, err := store.ExistingDates(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("%w: existing dates for %s: %w", ErrStorage, ticker, err)
	}
	return expected.Difference(existing).Sorted(), nil
}
