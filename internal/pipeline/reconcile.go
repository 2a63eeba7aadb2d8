package pipeline

import (
	"context"
	"fmt"

	"StockSync/internal/collector"
	"StockSync/internal/date"
	"StockSync/internal/model"
)

// Reconcile fetches the window covering missing with a single provider call
// and keeps only the rows dated exactly on one of the missing dates.
// missing must be ascending and non-empty.
//
// An empty provider response is not an error: the window may hold only
// market holidays, or the symbol may have stopped trading.
func Reconcile(ctx context.Context, fetcher collector.Fetcher, ticker string, missing []date.Date) ([]model.PriceRecord, error) {
	window := model.WindowFor(missing)
	bars, err := fetcher.FetchRange(ctx, ticker, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s [%s, %s): %w", ErrProvider, ticker, window.Start, window.End, err)
	}
	if len(bars) == 0 {
		return nil, nil
	}

	wanted := date.NewSet(missing...)
	records := make([]model.PriceRecord, 0, len(missing))
	for _, bar := range bars {
		if !wanted.Has(bar.Date) {
			continue
		}
		// First row wins if the provider repeats a date.
		delete(wanted, bar.Date)
		records = append(records, model.PriceRecord{Ticker: ticker, Bar: bar})
	}
	return records, nil
}
