package collector

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"StockSync/internal/config"
	"StockSync/internal/date"
	"StockSync/internal/model"
)

// New builds the fetcher named by the data source config.
func New(ds config.DataSource, proxyURL string) (Fetcher, error) {
	switch ds.Provider {
	case "", config.ProviderYahoo:
		f := NewYahooFetcher(proxyURL)
		if ds.BaseURL != "" {
			f.BaseURL = ds.BaseURL
		}
		return f, nil
	case config.ProviderEODHD:
		return NewEODHDFetcher(ds.BaseURL, ds.APIKey, proxyURL, ds.RateLimit), nil
	case config.ProviderTiingo:
		return NewTiingoFetcher(ds.APIKey), nil
	case config.ProviderMock:
		return &MockFetcher{Price: 100}, nil
	default:
		return nil, fmt.Errorf("unknown data source provider %q", ds.Provider)
	}
}

func newHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}
}

// MockFetcher returns controllable fixed data for development and testing.
// With Bars unset it generates one bar per business day of the window.
type MockFetcher struct {
	Price float64
	Bars  []model.Bar
	Err   error

	mu    sync.Mutex
	calls []model.FetchWindow
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchRange(_ context.Context, _ string, start, end date.Date) ([]model.Bar, error) {
	m.mu.Lock()
	m.calls = append(m.calls, model.FetchWindow{Start: start, End: end})
	m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Bars != nil {
		return m.Bars, nil
	}
	return generateMockBars(m.Price, start, end), nil
}

// Calls returns the windows requested so far.
func (m *MockFetcher) Calls() []model.FetchWindow {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.FetchWindow(nil), m.calls...)
}

func generateMockBars(basePrice float64, start, end date.Date) []model.Bar {
	days := date.BusinessDays(start, end.Add(-1))
	bars := make([]model.Bar, len(days))
	for i, d := range days {
		p := basePrice * (1 + float64(i-len(days)/2)*0.001)
		bars[i] = model.Bar{
			Date:     d,
			Open:     p * 0.999,
			High:     p * 1.005,
			Low:      p * 0.995,
			Close:    p,
			AdjClose: p,
			Volume:   1000000,
		}
	}
	return bars
}
