package recorder

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync"

	"StockSync/internal/date"
	"StockSync/internal/model"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists price records to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database. The schema is
// created by EnsureTable.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so readers (API, dashboards) do not block the sync writer.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return &SQLiteRecorder{db: db}, nil
}

func (r *SQLiteRecorder) conn() (*sql.DB, error) {
	if r == nil || r.db == nil {
		return nil, ErrNotInitialized
	}
	return r.db, nil
}

func (r *SQLiteRecorder) EnsureTable(ctx context.Context) error {
	db, err := r.conn()
	if err != nil {
		return err
	}
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS stock_data (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			ticker    TEXT NOT NULL,
			date      TEXT NOT NULL,
			open      REAL NOT NULL,
			high      REAL NOT NULL,
			low       REAL NOT NULL,
			close     REAL NOT NULL,
			adj_close REAL NOT NULL,
			volume    INTEGER NOT NULL,
			UNIQUE (ticker, date)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_stock_data_ticker ON stock_data(ticker)`,
		`CREATE INDEX IF NOT EXISTS idx_stock_data_date ON stock_data(date)`,

		`CREATE TABLE IF NOT EXISTS user_tickers (
			user_id    TEXT NOT NULL,
			ticker     TEXT NOT NULL,
			created_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now')),
			PRIMARY KEY (user_id, ticker)
		)`,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) ExistingDates(ctx context.Context, ticker string) (date.Set, error) {
	db, err := r.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `SELECT DISTINCT date FROM stock_data WHERE ticker = ?`, ticker)
	if err != nil {
		return nil, fmt.Errorf("query dates: %w", err)
	}
	defer rows.Close()

	set := date.NewSet()
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan date: %w", err)
		}
		d, err := date.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("stored date for %s: %w", ticker, err)
		}
		set.Add(d)
	}
	return set, rows.Err()
}

func (r *SQLiteRecorder) Append(ctx context.Context, records []model.PriceRecord) (int, error) {
	db, err := r.conn()
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO stock_data
		(ticker, date, open, high, low, close, adj_close, volume)
		VALUES (?,?,?,?,?,?,?,?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, rec := range records {
		res, err := stmt.ExecContext(ctx,
			rec.Ticker, rec.Date.String(),
			rec.Open, rec.High, rec.Low, rec.Close, rec.AdjClose, rec.Volume,
		)
		if err != nil {
			return 0, fmt.Errorf("insert %s %s: %w", rec.Ticker, rec.Date, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("rows affected: %w", err)
		}
		inserted += int(n)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return inserted, nil
}

func (r *SQLiteRecorder) Prices(ctx context.Context, ticker string) ([]model.PriceRecord, error) {
	db, err := r.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `SELECT date, open, high, low, close, adj_close, volume
		FROM stock_data WHERE ticker = ? ORDER BY date DESC`, ticker)
	if err != nil {
		return nil, fmt.Errorf("query prices: %w", err)
	}
	defer rows.Close()

	var out []model.PriceRecord
	for rows.Next() {
		var s string
		rec := model.PriceRecord{Ticker: ticker}
		if err := rows.Scan(&s, &rec.Open, &rec.High, &rec.Low, &rec.Close, &rec.AdjClose, &rec.Volume); err != nil {
			return nil, fmt.Errorf("scan price: %w", err)
		}
		if rec.Date, err = date.Parse(s); err != nil {
			return nil, fmt.Errorf("stored date for %s: %w", ticker, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) UserTickers(ctx context.Context, userID string) ([]string, error) {
	db, err := r.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `SELECT ticker FROM user_tickers WHERE user_id = ? ORDER BY ticker`, userID)
	if err != nil {
		return nil, fmt.Errorf("query user tickers: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan ticker: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) AddUserTicker(ctx context.Context, userID, ticker string) (string, error) {
	db, err := r.conn()
	if err != nil {
		return "", err
	}
	clean := NormalizeTicker(ticker)
	if clean == "" {
		return "", ErrEmptyTicker
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := db.ExecContext(ctx,
		`INSERT INTO user_tickers (user_id, ticker) VALUES (?, ?) ON CONFLICT (user_id, ticker) DO NOTHING`,
		userID, clean,
	); err != nil {
		return "", fmt.Errorf("add user ticker: %w", err)
	}
	return clean, nil
}

func (r *SQLiteRecorder) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}

var _ Recorder = (*SQLiteRecorder)(nil)
