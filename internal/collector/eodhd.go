package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"

	"golang.org/x/time/rate"

	"StockSync/internal/date"
	"StockSync/internal/model"
)

const (
	eodhdBaseURL   = "https://eodhd.com/api"
	eodhdRateLimit = 10 // requests per second
)

// EODHDFetcher implements Fetcher using the EODHD end-of-day API.
type EODHDFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	limiter *rate.Limiter
}

// NewEODHDFetcher creates a rate-limited EODHD fetcher. A non-positive
// requestsPerSecond uses the default limit.
func NewEODHDFetcher(baseURL, apiKey, proxyURL string, requestsPerSecond int) *EODHDFetcher {
	if baseURL == "" {
		baseURL = eodhdBaseURL
	}
	if requestsPerSecond <= 0 {
		requestsPerSecond = eodhdRateLimit
	}
	return &EODHDFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL),
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
	}
}

func (f *EODHDFetcher) Name() string { return "eodhd" }

// eodBar is the JSON shape of one EODHD daily row.
type eodBar struct {
	Date          string  `json:"date"`
	Open          float64 `json:"open"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Close         float64 `json:"close"`
	AdjustedClose float64 `json:"adjusted_close"`
	Volume        int64   `json:"volume"`
}

// FetchRange fetches daily bars in [start, end). EODHD's "to" is inclusive.
func (f *EODHDFetcher) FetchRange(ctx context.Context, symbol string, start, end date.Date) ([]model.Bar, error) {
	last := end.Add(-1)
	if last.Before(start) {
		return nil, nil
	}
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	params := url.Values{}
	params.Set("api_token", f.APIKey)
	params.Set("fmt", "json")
	params.Set("period", "d")
	params.Set("order", "a")
	params.Set("from", start.String())
	params.Set("to", last.String())
	endpoint := fmt.Sprintf("%s/eod/%s?%s", f.BaseURL, url.PathEscape(symbol), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("eodhd fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("eodhd %s: %w", symbol, ErrSymbolNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("eodhd: status %d, body: %s", resp.StatusCode, string(body))
	}

	var rows []eodBar
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("eodhd decode: %w", err)
	}
	bars := make([]model.Bar, 0, len(rows))
	for _, r := range rows {
		d, err := date.Parse(r.Date)
		if err != nil {
			return nil, fmt.Errorf("eodhd row: %w", err)
		}
		bars = append(bars, model.Bar{
			Date:     d,
			Open:     r.Open,
			High:     r.High,
			Low:      r.Low,
			Close:    r.Close,
			AdjClose: r.AdjustedClose,
			Volume:   r.Volume,
		})
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}
