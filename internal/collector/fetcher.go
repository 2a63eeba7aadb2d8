package collector

import (
	"context"
	"errors"

	"StockSync/internal/date"
	"StockSync/internal/model"
)

// ErrSymbolNotFound is returned when the provider does not know the ticker.
var ErrSymbolNotFound = errors.New("symbol not found")

// Fetcher defines the interface for fetching daily bars from a market-data provider.
//
//go:generate mockgen -package=pipeline_test -destination=../pipeline/mock_fetcher_test.go -source=fetcher.go Fetcher
type Fetcher interface {
	// FetchRange returns the daily bars of symbol in [start, end). An empty
	// result with a nil error means the provider has no data for the window.
	FetchRange(ctx context.Context, symbol string, start, end date.Date) ([]model.Bar, error)
	Name() string
}
