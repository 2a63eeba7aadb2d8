package recorder

import (
	"context"
	"sort"
	"sync"

	"StockSync/internal/date"
	"StockSync/internal/model"
)

// MemoryRecorder keeps everything in process memory. Used for dry runs and tests.
type MemoryRecorder struct {
	mu      sync.Mutex
	ready   bool
	records []model.PriceRecord
	keys    map[string]date.Set
	users   map[string]map[string]struct{}
}

func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{
		keys:  map[string]date.Set{},
		users: map[string]map[string]struct{}{},
	}
}

func (m *MemoryRecorder) EnsureTable(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ready = true
	return nil
}

func (m *MemoryRecorder) ExistingDates(_ context.Context, ticker string) (date.Set, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := date.NewSet()
	for d := range m.keys[ticker] {
		out.Add(d)
	}
	return out, nil
}

func (m *MemoryRecorder) Append(_ context.Context, records []model.PriceRecord) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inserted := 0
	for _, rec := range records {
		set, ok := m.keys[rec.Ticker]
		if !ok {
			set = date.NewSet()
			m.keys[rec.Ticker] = set
		}
		if set.Has(rec.Date) {
			continue
		}
		set.Add(rec.Date)
		m.records = append(m.records, rec)
		inserted++
	}
	return inserted, nil
}

func (m *MemoryRecorder) Prices(_ context.Context, ticker string) ([]model.PriceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.PriceRecord
	for _, rec := range m.records {
		if rec.Ticker == ticker {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (m *MemoryRecorder) UserTickers(_ context.Context, userID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for t := range m.users[userID] {
		out = append(out, t)
	}
	sort.Strings(out)
	return out, nil
}

func (m *MemoryRecorder) AddUserTicker(_ context.Context, userID, ticker string) (string, error) {
	clean := NormalizeTicker(ticker)
	if clean == "" {
		return "", ErrEmptyTicker
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.users[userID] == nil {
		m.users[userID] = map[string]struct{}{}
	}
	m.users[userID][clean] = struct{}{}
	return clean, nil
}

// Ready reports whether EnsureTable has been called.
func (m *MemoryRecorder) Ready() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ready
}

func (m *MemoryRecorder) Close() error { return nil }

var _ Recorder = (*MemoryRecorder)(nil)
