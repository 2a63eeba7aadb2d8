// Package server exposes per-user ticker lists, on-demand syncs and stored
// prices over a small JSON API.
package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"StockSync/internal/model"
	"StockSync/internal/pipeline"
)

// Store is the part of the recorder the API reads and writes directly.
type Store interface {
	Prices(ctx context.Context, ticker string) ([]model.PriceRecord, error)
	UserTickers(ctx context.Context, userID string) ([]string, error)
	AddUserTicker(ctx context.Context, userID, ticker string) (string, error)
}

// Server wraps the HTTP server and the components its handlers use.
type Server struct {
	store  Store
	runner *pipeline.Runner
	server *http.Server
}

// NewServer creates the HTTP API server listening on addr.
func NewServer(addr string, store Store, runner *pipeline.Runner) *Server {
	s := &Server{
		store:  store,
		runner: runner,
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      applyMiddleware(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server (blocking). It returns http.ErrServerClosed after Shutdown.
func (s *Server) Start() error {
	log.Printf("[INFO] starting HTTP API on %s", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/users/{user}/tickers", s.handleListTickers)
	mux.HandleFunc("POST /api/users/{user}/tickers", s.handleAddTicker)
	mux.HandleFunc("POST /api/users/{user}/sync", s.handleSync)
	mux.HandleFunc("GET /api/prices/{ticker}", s.handlePrices)
}
