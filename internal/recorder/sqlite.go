package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists forecasts and recommendations to a SQLite database.
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

	// WAL lets the dashboard read history while a run is writing.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS forecast_runs (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp       INTEGER NOT NULL,
			symbol          TEXT NOT NULL,
			provider        TEXT,
			horizon_days    INTEGER,
			history_len     INTEGER,
			first_date      TEXT,
			last_date       TEXT,
			last_close      REAL,
			peak_predicted  REAL,
			final_predicted REAL,
			final_lower     REAL,
			final_upper     REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_forecast_symbol_ts ON forecast_runs(symbol, timestamp)`,

		`CREATE TABLE IF NOT EXISTS recommendations (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp     INTEGER NOT NULL,
			label1        TEXT NOT NULL,
			label2        TEXT NOT NULL,
			peak1         REAL,
			peak2         REAL,
			winner        TEXT NOT NULL,
			horizon_years INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_recommendations_ts ON recommendations(timestamp)`,
	}
	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordForecast(run *ForecastRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO forecast_runs
		(timestamp, symbol, provider, horizon_days, history_len, first_date, last_date,
		 last_close, peak_predicted, final_predicted, final_lower, final_upper)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		stamp(run.RecordedAt), run.Symbol, run.Provider, run.HorizonDays, run.HistoryLen,
		run.FirstDate.Format("2006-01-02"), run.LastDate.Format("2006-01-02"),
		run.LastClose, run.PeakPredicted, run.FinalPredicted, run.FinalLower, run.FinalUpper,
	)
	return err
}

func (r *SQLiteRecorder) RecordRecommendation(evt *RecommendationEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO recommendations
		(timestamp, label1, label2, peak1, peak2, winner, horizon_years)
		VALUES (?,?,?,?,?,?,?)`,
		stamp(evt.RecordedAt), evt.Label1, evt.Label2, evt.Peak1, evt.Peak2,
		evt.Winner, evt.HorizonYears,
	)
	return err
}

// RecentRecommendations returns up to limit events, newest first.
func (r *SQLiteRecorder) RecentRecommendations(limit int) ([]RecommendationEvent, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.Query(`SELECT id, timestamp, label1, label2, peak1, peak2, winner, horizon_years
		FROM recommendations ORDER BY timestamp DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recommendations: %w", err)
	}
	defer rows.Close()

	var out []RecommendationEvent
	for rows.Next() {
		var (
			evt RecommendationEvent
			ts  int64
		)
		if err := rows.Scan(&evt.ID, &ts, &evt.Label1, &evt.Label2, &evt.Peak1, &evt.Peak2, &evt.Winner, &evt.HorizonYears); err != nil {
			return nil, fmt.Errorf("scan recommendation: %w", err)
		}
		evt.RecordedAt = time.Unix(ts, 0).UTC()
		out = append(out, evt)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
