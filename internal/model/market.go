package model

import "StockSync/internal/date"

// Bar is one daily OHLCV row as returned by a provider.
type Bar struct {
	Date     date.Date
	Open     float64
	High     float64
	Low      float64
	Close    float64
	AdjClose float64
	Volume   int64
}

// PriceRecord is a stored Bar keyed by (Ticker, Date).
type PriceRecord struct {
	Ticker string
	Bar
}

// FetchWindow is the single provider request covering a set of missing dates.
// End is exclusive.
type FetchWindow struct {
	Start date.Date
	End   date.Date
}

// WindowFor returns the smallest window covering the ascending dates.
func WindowFor(dates []date.Date) FetchWindow {
	if len(dates) == 0 {
		return FetchWindow{}
	}
	return FetchWindow{Start: dates[0], End: dates[len(dates)-1].Add(1)}
}
