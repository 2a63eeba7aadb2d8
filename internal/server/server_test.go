package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockSync/internal/collector"
	"StockSync/internal/date"
	"StockSync/internal/model"
	"StockSync/internal/pipeline"
	"StockSync/internal/recorder"
)

func newTestServer(t *testing.T, fetcher collector.Fetcher) (*Server, *recorder.MemoryRecorder) {
	t.Helper()
	rec := recorder.NewMemoryRecorder()
	require.NoError(t, rec.EnsureTable(t.Context()))
	runner := pipeline.NewRunner(rec, fetcher, date.MustParse("2023-01-02"), date.MustParse("2023-01-06")).
		WithOutput(&bytes.Buffer{})
	return NewServer(":0", rec, runner), rec
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, r)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, &collector.MockFetcher{})
	w := do(t, s, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestTickers(t *testing.T) {
	s, _ := newTestServer(t, &collector.MockFetcher{})

	w := do(t, s, http.MethodGet, "/api/users/alice/tickers", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{}, decode[tickersResponse](t, w).Tickers)

	w = do(t, s, http.MethodPost, "/api/users/alice/tickers", `{"ticker":" tcs.ns "}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	added := decode[addTickerResponse](t, w)
	assert.Equal(t, "TCS.NS", added.Ticker)

	do(t, s, http.MethodPost, "/api/users/alice/tickers", `{"ticker":"TCS.NS"}`)
	do(t, s, http.MethodPost, "/api/users/alice/tickers", `{"ticker":"infy.ns"}`)

	w = do(t, s, http.MethodGet, "/api/users/alice/tickers", "")
	assert.Equal(t, []string{"INFY.NS", "TCS.NS"}, decode[tickersResponse](t, w).Tickers)

	w = do(t, s, http.MethodGet, "/api/users/bob/tickers", "")
	assert.Empty(t, decode[tickersResponse](t, w).Tickers)
}

func TestAddTicker_BadInput(t *testing.T) {
	s, _ := newTestServer(t, &collector.MockFetcher{})

	w := do(t, s, http.MethodPost, "/api/users/alice/tickers", `{"ticker":"   "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "ticker is required", decode[ErrorResponse](t, w).Error)

	w = do(t, s, http.MethodPost, "/api/users/alice/tickers", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSync_EmptyList(t *testing.T) {
	fetcher := &collector.MockFetcher{}
	s, _ := newTestServer(t, fetcher)

	w := do(t, s, http.MethodPost, "/api/users/alice/sync", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[ErrorResponse](t, w).Error, "empty")
	assert.Empty(t, fetcher.Calls())
}

func TestSync_ThenPrices(t *testing.T) {
	s, rec := newTestServer(t, &collector.MockFetcher{Price: 100})
	_, err := rec.AddUserTicker(t.Context(), "alice", "TCS.NS")
	require.NoError(t, err)

	w := do(t, s, http.MethodPost, "/api/users/alice/sync", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[syncResponse](t, w)
	require.Len(t, resp.Outcomes, 1)
	assert.Equal(t, model.StatusFetched, resp.Outcomes[0].Status)
	assert.Equal(t, 5, resp.Outcomes[0].Stored)
	assert.Zero(t, resp.Failed)
	assert.Empty(t, resp.Error)
	assert.Contains(t, resp.Transcript, "[TCS.NS] stored 5 new records")

	w = do(t, s, http.MethodPost, "/api/users/alice/sync", "")
	resp = decode[syncResponse](t, w)
	assert.Equal(t, model.StatusUpToDate, resp.Outcomes[0].Status)
	assert.Contains(t, resp.Transcript, "data is already up-to-date")

	w = do(t, s, http.MethodGet, "/api/prices/TCS.NS", "")
	require.Equal(t, http.StatusOK, w.Code)
	prices := decode[pricesResponse](t, w)
	assert.Equal(t, "TCS.NS", prices.Ticker)
	require.Len(t, prices.Prices, 5)
	assert.Equal(t, "2023-01-06", prices.Prices[0].Date, "newest first")
	assert.Equal(t, "2023-01-02", prices.Prices[4].Date)
	require.NotNil(t, prices.Summary)
	assert.Equal(t, 5, prices.Summary.Days)
	assert.Equal(t, date.MustParse("2023-01-06"), prices.Summary.Last)
}

func TestSync_PartialFailure(t *testing.T) {
	s, rec := newTestServer(t, &collector.MockFetcher{Err: errors.New("HTTP 503")})
	_, err := rec.AddUserTicker(t.Context(), "alice", "A")
	require.NoError(t, err)

	w := do(t, s, http.MethodPost, "/api/users/alice/sync", "")
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[syncResponse](t, w)
	assert.Equal(t, 1, resp.Failed)
	assert.Equal(t, model.StatusError, resp.Outcomes[0].Status)
	assert.Contains(t, resp.Error, "HTTP 503")
	assert.Contains(t, resp.Transcript, "[ERROR] [A]")
}

func TestPrices_CaseSensitiveTicker(t *testing.T) {
	s, rec := newTestServer(t, &collector.MockFetcher{})
	_, err := rec.Append(t.Context(), []model.PriceRecord{
		{Ticker: "tcs.ns", Bar: model.Bar{Date: date.MustParse("2023-01-02"), Close: 10}},
	})
	require.NoError(t, err)

	w := do(t, s, http.MethodGet, "/api/prices/tcs.ns", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	prices := decode[pricesResponse](t, w)
	assert.Equal(t, "tcs.ns", prices.Ticker)
	require.Len(t, prices.Prices, 1)
	assert.Equal(t, "2023-01-02", prices.Prices[0].Date)

	w = do(t, s, http.MethodGet, "/api/prices/TCS.NS", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPrices_NotFound(t *testing.T) {
	s, _ := newTestServer(t, &collector.MockFetcher{})
	w := do(t, s, http.MethodGet, "/api/prices/NOPE", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	s, _ := newTestServer(t, &collector.MockFetcher{})
	w := do(t, s, http.MethodDelete, "/api/users/alice/tickers", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestRecoveryMiddleware(t *testing.T) {
	h := recoveryMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRequestIDEchoed(t *testing.T) {
	s, _ := newTestServer(t, &collector.MockFetcher{})
	r := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	r.Header.Set("X-Request-ID", "abc123")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, r)
	assert.Equal(t, "abc123", w.Header().Get("X-Request-ID"))
}
