package calculator

import (
	"math"

	"StockSync/internal/model"
)

// TradingDaysPerYear is the bar count treated as a 52-week window.
const TradingDaysPerYear = 252

// HighLow scans the most recent n bars and returns the highest high and lowest low.
// A series shorter than n is scanned whole.
func HighLow(bars []model.Bar, n int) (high, low float64, err error) {
	if len(bars) == 0 {
		return 0, 0, ErrNotEnoughData
	}
	start := max(len(bars)-n, 0)
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, b := range bars[start:] {
		high = math.Max(high, b.High)
		low = math.Min(low, b.Low)
	}
	return high, low, nil
}

// Position returns where current sits within [low, high], clamped to 0..1.
func Position(current, high, low float64) float64 {
	if high <= low {
		return 0.5
	}
	return math.Min(math.Max((current-low)/(high-low), 0), 1)
}
