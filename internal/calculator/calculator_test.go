package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockSync/internal/date"
	"StockSync/internal/model"
)

func TestSMA(t *testing.T) {
	v, err := SMA([]float64{1, 2, 3, 4, 5}, 3)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, v, 1e-9)

	_, err = SMA([]float64{1, 2}, 3)
	assert.ErrorIs(t, err, ErrNotEnoughData)
	_, err = SMA([]float64{1}, 0)
	assert.Error(t, err)
}

func TestRSI(t *testing.T) {
	rising := make([]float64, 20)
	for i := range rising {
		rising[i] = float64(i + 1)
	}
	v, err := RSI(rising, 14)
	require.NoError(t, err)
	assert.Equal(t, 100.0, v)

	// Alternating equal moves balance out.
	flat := make([]float64, 30)
	for i := range flat {
		flat[i] = 10 + float64(i%2)
	}
	v, err = RSI(flat, 14)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, v, 5)

	_, err = RSI(rising[:14], 14)
	assert.ErrorIs(t, err, ErrNotEnoughData)
}

func TestHighLowAndPosition(t *testing.T) {
	bars := []model.Bar{
		{High: 50, Low: 1},
		{High: 12, Low: 8},
		{High: 15, Low: 9},
	}
	high, low, err := HighLow(bars, 2)
	require.NoError(t, err)
	assert.Equal(t, 15.0, high)
	assert.Equal(t, 8.0, low)

	high, low, err = HighLow(bars, 10)
	require.NoError(t, err)
	assert.Equal(t, 50.0, high)
	assert.Equal(t, 1.0, low)

	_, _, err = HighLow(nil, 1)
	assert.ErrorIs(t, err, ErrNotEnoughData)

	assert.Equal(t, 0.5, Position(10, 20, 0))
	assert.Equal(t, 1.0, Position(30, 20, 0))
	assert.Equal(t, 0.0, Position(-1, 20, 0))
	assert.Equal(t, 0.5, Position(5, 5, 5))
}

func TestSummarize(t *testing.T) {
	assert.Nil(t, Summarize(nil))

	days := date.BusinessDays(date.MustParse("2023-01-02"), date.MustParse("2023-02-10"))
	records := make([]model.PriceRecord, len(days))
	for i, d := range days {
		px := float64(100 + i)
		// Newest first, as the recorder returns them.
		records[len(days)-1-i] = model.PriceRecord{Ticker: "X", Bar: model.Bar{Date: d, High: px + 1, Low: px - 1, Close: px, AdjClose: px}}
	}

	s := Summarize(records)
	require.NotNil(t, s)
	assert.Equal(t, len(days), s.Days)
	assert.Equal(t, days[0], s.First)
	assert.Equal(t, days[len(days)-1], s.Last)
	assert.Equal(t, float64(100+len(days)-1), s.LastClose)
	require.NotNil(t, s.SMA20)
	assert.InDelta(t, s.LastClose-9.5, *s.SMA20, 1e-9)
	assert.Nil(t, s.SMA200, "not enough history")
	require.NotNil(t, s.RSI14)
	assert.Equal(t, 100.0, *s.RSI14)
	assert.Equal(t, 99.0, s.Low52w)
	assert.InDelta(t, 1.0, s.Position52, 0.05)
}
