package collector

import (
	"context"
	"errors"
	"fmt"

	quote "github.com/markcheno/go-quote"

	"StockSync/internal/date"
	"StockSync/internal/model"
)

// TiingoFetcher implements Fetcher using Tiingo daily prices via go-quote.
// Tiingo returns split/dividend adjusted OHLC, so Close and AdjClose match.
type TiingoFetcher struct {
	Token string

	// download is quote.NewQuoteFromTiingo, swapped in tests.
	download func(symbol, startDate, endDate string, period quote.Period, token string) (quote.Quote, error)
}

func NewTiingoFetcher(token string) *TiingoFetcher {
	return &TiingoFetcher{Token: token, download: quote.NewQuoteFromTiingo}
}

func (f *TiingoFetcher) Name() string { return "tiingo" }

// FetchRange fetches daily bars in [start, end). Tiingo's endDate is inclusive.
func (f *TiingoFetcher) FetchRange(ctx context.Context, symbol string, start, end date.Date) ([]model.Bar, error) {
	last := end.Add(-1)
	if last.Before(start) {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	q, err := f.download(symbol, start.String(), last.String(), quote.Daily, f.Token)
	if err != nil {
		var nf *quote.SymbolNotFoundError
		if errors.As(err, &nf) {
			return nil, fmt.Errorf("tiingo %s: %w", symbol, ErrSymbolNotFound)
		}
		return nil, fmt.Errorf("tiingo fetch: %w", err)
	}
	return quoteToBars(q), nil
}

func quoteToBars(q quote.Quote) []model.Bar {
	bars := make([]model.Bar, 0, len(q.Date))
	for i, t := range q.Date {
		if i >= len(q.Open) || i >= len(q.High) || i >= len(q.Low) || i >= len(q.Close) || i >= len(q.Volume) {
			break
		}
		bars = append(bars, model.Bar{
			Date:     date.FromTime(t),
			Open:     q.Open[i],
			High:     q.High[i],
			Low:      q.Low[i],
			Close:    q.Close[i],
			AdjClose: q.Close[i],
			Volume:   int64(q.Volume[i]),
		})
	}
	return bars
}
