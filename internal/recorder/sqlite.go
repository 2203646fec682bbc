package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists fetches and predictions to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS history_fetches (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp  INTEGER NOT NULL,
			symbol     TEXT NOT NULL,
			source     TEXT,
			points     INTEGER,
			first_date TEXT,
			last_date  TEXT,
			last_close REAL,
			error      TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_fetch_symbol ON history_fetches(symbol, timestamp)`,

		`CREATE TABLE IF NOT EXISTS predictions (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp       INTEGER NOT NULL,
			symbol          TEXT NOT NULL,
			last_date       TEXT,
			last_close      REAL,
			predicted_close REAL,
			rmse            REAL,
			train_size      INTEGER,
			test_size       INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_prediction_symbol ON predictions(symbol, timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordFetch(evt *FetchEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO history_fetches
		(timestamp, symbol, source, points, first_date, last_date, last_close, error)
		VALUES (?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), evt.Symbol, evt.Source, evt.Points,
		evt.FirstDate, evt.LastDate, evt.LastClose, evt.Err,
	)
	return err
}

func (r *SQLiteRecorder) RecordPrediction(evt *PredictionEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ts := evt.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := r.db.Exec(`INSERT INTO predictions
		(timestamp, symbol, last_date, last_close, predicted_close, rmse, train_size, test_size)
		VALUES (?,?,?,?,?,?,?,?)`,
		ts.Unix(), evt.Symbol, evt.LastDate, evt.LastClose,
		evt.PredictedClose, evt.RMSE, evt.TrainSize, evt.TestSize,
	)
	return err
}

// ListPredictions returns the newest predictions for symbol, newest first.
// An empty symbol lists every symbol.
func (r *SQLiteRecorder) ListPredictions(symbol string, limit int) ([]PredictionEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if limit <= 0 {
		limit = 20
	}
	query := `SELECT id, timestamp, symbol, last_date, last_close, predicted_close, rmse, train_size, test_size
		FROM predictions`
	args := []any{}
	if symbol = strings.TrimSpace(symbol); symbol != "" {
		query += ` WHERE symbol = ?`
		args = append(args, symbol)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query predictions: %w", err)
	}
	defer rows.Close()

	var out []PredictionEvent
	for rows.Next() {
		var evt PredictionEvent
		var ts int64
		if err := rows.Scan(&evt.ID, &ts, &evt.Symbol, &evt.LastDate, &evt.LastClose,
			&evt.PredictedClose, &evt.RMSE, &evt.TrainSize, &evt.TestSize); err != nil {
			return nil, fmt.Errorf("scan prediction: %w", err)
		}
		evt.Timestamp = time.Unix(ts, 0)
		out = append(out, evt)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
