package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"StockSync/internal/collector"
	"StockSync/internal/config"
	"StockSync/internal/date"
	"StockSync/internal/pipeline"
	"StockSync/internal/recorder"
)

var configPath = flag.String("config", defaultConfigPath(), "Path to the YAML config file")

func defaultConfigPath() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return "configs/config.yaml"
}

// loadConfig reads and validates the config file named by -config.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// openRecorder opens the SQLite store and ensures its schema.
func openRecorder(ctx context.Context, cfg *config.Config) (*recorder.SQLiteRecorder, error) {
	if dir := filepath.Dir(cfg.Database.SQLitePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}
	rec, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
	if err != nil {
		return nil, err
	}
	if err := rec.EnsureTable(ctx); err != nil {
		rec.Close()
		return nil, err
	}
	return rec, nil
}

// newRunner wires the configured provider and sync range to store.
// A config without an end date syncs up to the current day on every run.
func newRunner(cfg *config.Config, store pipeline.Store) (*pipeline.Runner, error) {
	fetcher, err := collector.New(cfg.DataSource, cfg.Proxy)
	if err != nil {
		return nil, err
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	from, err := cfg.StartDate()
	if err != nil {
		return nil, err
	}
	var to date.Date
	if cfg.Sync.EndDate != "" {
		if to, err = cfg.EndDate(); err != nil {
			return nil, err
		}
	}
	return pipeline.NewRunner(store, fetcher, from, to), nil
}
