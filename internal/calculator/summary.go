// Package calculator derives simple statistics from stored daily prices.
package calculator

import (
	"slices"

	"StockSync/internal/date"
	"StockSync/internal/model"
)

// Summary describes the latest state of a stored price series.
// Indicators that need more history than is stored are nil.
type Summary struct {
	Days       int       `json:"days"`
	First      date.Date `json:"first"`
	Last       date.Date `json:"last"`
	LastClose  float64   `json:"last_close"`
	SMA20      *float64  `json:"sma20,omitempty"`
	SMA200     *float64  `json:"sma200,omitempty"`
	RSI14      *float64  `json:"rsi14,omitempty"`
	High52w    float64   `json:"high_52w"`
	Low52w     float64   `json:"low_52w"`
	Position52 float64   `json:"position_52w"`
}

// Summarize computes a Summary from records in any order. It returns nil for
// an empty series.
func Summarize(records []model.PriceRecord) *Summary {
	if len(records) == 0 {
		return nil
	}
	bars := make([]model.Bar, len(records))
	for i, r := range records {
		bars[i] = r.Bar
	}
	slices.SortFunc(bars, func(a, b model.Bar) int { return a.Date.Compare(b.Date) })

	last := bars[len(bars)-1]
	closes := Closes(bars)
	s := &Summary{
		Days:      len(bars),
		First:     bars[0].Date,
		Last:      last.Date,
		LastClose: last.Close,
		SMA20:     optional(SMA(closes, 20)),
		SMA200:    optional(SMA(closes, 200)),
		RSI14:     optional(RSI(closes, 14)),
	}
	s.High52w, s.Low52w, _ = HighLow(bars, TradingDaysPerYear)
	s.Position52 = Position(last.Close, s.High52w, s.Low52w)
	return s
}

func optional(v float64, err error) *float64 {
	if err != nil {
		return nil
	}
	return &v
}
