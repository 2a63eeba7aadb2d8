package server

import (
	"bytes"
	"errors"
	"net/http"
	"strings"

	"StockSync/internal/calculator"
	"StockSync/internal/model"
	"StockSync/internal/recorder"
)

type tickersResponse struct {
	User    string   `json:"user"`
	Tickers []string `json:"tickers"`
}

type addTickerRequest struct {
	Ticker string `json:"ticker"`
}

type addTickerResponse struct {
	Ticker  string   `json:"ticker"`
	Tickers []string `json:"tickers"`
}

type syncResponse struct {
	User       string                `json:"user"`
	Outcomes   []model.TickerOutcome `json:"outcomes"`
	Failed     int                   `json:"failed"`
	Transcript string                `json:"transcript"`
	Error      string                `json:"error,omitempty"`
}

type priceResponse struct {
	Date     string  `json:"date"`
	Open     float64 `json:"open"`
	High     float64 `json:"high"`
	Low      float64 `json:"low"`
	Close    float64 `json:"close"`
	AdjClose float64 `json:"adj_close"`
	Volume   int64   `json:"volume"`
}

type pricesResponse struct {
	Ticker  string              `json:"ticker"`
	Summary *calculator.Summary `json:"summary"`
	Prices  []priceResponse     `json:"prices"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListTickers(w http.ResponseWriter, r *http.Request) {
	user := r.PathValue("user")
	tickers, err := s.store.UserTickers(r.Context(), user)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if tickers == nil {
		tickers = []string{}
	}
	WriteJSON(w, http.StatusOK, tickersResponse{User: user, Tickers: tickers})
}

func (s *Server) handleAddTicker(w http.ResponseWriter, r *http.Request) {
	user := r.PathValue("user")
	var req addTickerRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	ticker, err := s.store.AddUserTicker(r.Context(), user, req.Ticker)
	if errors.Is(err, recorder.ErrEmptyTicker) {
		WriteError(w, http.StatusBadRequest, "ticker is required")
		return
	}
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	tickers, err := s.store.UserTickers(r.Context(), user)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	WriteJSON(w, http.StatusCreated, addTickerResponse{Ticker: ticker, Tickers: tickers})
}

// handleSync runs the pipeline over the user's tickers and returns the
// outcomes together with the run's log transcript.
func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	user := r.PathValue("user")
	tickers, err := s.store.UserTickers(r.Context(), user)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if len(tickers) == 0 {
		WriteError(w, http.StatusBadRequest, "ticker list is empty, add tickers first")
		return
	}

	var transcript bytes.Buffer
	report, err := s.runner.WithOutput(&transcript).Run(r.Context(), tickers)
	if report == nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := syncResponse{
		User:       user,
		Outcomes:   report.Outcomes,
		Failed:     report.Failed(),
		Transcript: transcript.String(),
	}
	if err != nil {
		resp.Error = err.Error()
	}
	WriteJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePrices(w http.ResponseWriter, r *http.Request) {
	ticker := strings.TrimSpace(r.PathValue("ticker"))
	records, err := s.store.Prices(r.Context(), ticker)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if len(records) == 0 {
		WriteError(w, http.StatusNotFound, "no prices stored for "+ticker)
		return
	}
	resp := pricesResponse{
		Ticker:  ticker,
		Summary: calculator.Summarize(records),
		Prices:  make([]priceResponse, len(records)),
	}
	for i, rec := range records {
		resp.Prices[i] = priceResponse{
			Date:     rec.Date.String(),
			Open:     rec.Open,
			High:     rec.High,
			Low:      rec.Low,
			Close:    rec.Close,
			AdjClose: rec.AdjClose,
			Volume:   rec.Volume,
		}
	}
	WriteJSON(w, http.StatusOK, resp)
}
