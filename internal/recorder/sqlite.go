package recorder

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"FlipSentinel/internal/model"
)

// SQLiteRecorder persists engine run history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboards can read while the broadcaster writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS engine_runs (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp       INTEGER NOT NULL,
			trigger_type    TEXT,
			cash            INTEGER,
			alloc_pct       REAL,
			top_n           INTEGER,
			rec_count       INTEGER,
			eligible_count  INTEGER,
			top_score       REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON engine_runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS recommendations (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id          INTEGER NOT NULL,
			timestamp       INTEGER NOT NULL,
			item_id         INTEGER,
			item_name       TEXT,
			buy_price       INTEGER,
			sell_price      INTEGER,
			quantity        INTEGER,
			profit_per_unit INTEGER,
			total_profit    INTEGER,
			breakout_score  REAL,
			score           REAL,
			eligible        INTEGER,
			notes           TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_recs_run ON recommendations(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_recs_item ON recommendations(item_id, timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRun inserts the run summary plus one row per recommendation.
func (r *SQLiteRecorder) RecordRun(run *RunRecord, recs []model.FlipRecommendation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().Unix()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`INSERT INTO engine_runs
		(timestamp, trigger_type, cash, alloc_pct, top_n, rec_count, eligible_count, top_score)
		VALUES (?,?,?,?,?,?,?,?)`,
		now, run.Trigger, run.Params.Cash, run.Params.AllocPct, run.Params.TopN,
		run.RecCount, run.EligibleCount, run.TopScore,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("run id: %w", err)
	}

	for _, rec := range recs {
		if _, err := tx.Exec(`INSERT INTO recommendations
			(run_id, timestamp, item_id, item_name, buy_price, sell_price, quantity,
			 profit_per_unit, total_profit, breakout_score, score, eligible, notes)
			VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
			runID, now, rec.ItemID, rec.ItemName, rec.BuyPrice, rec.SellPrice, rec.Quantity,
			rec.ProfitPerUnit, rec.TotalProfit, rec.BreakoutScore, rec.Score,
			boolToInt(rec.Eligible), strings.Join(rec.Notes, "; "),
		); err != nil {
			return fmt.Errorf("insert recommendation: %w", err)
		}
	}
	return tx.Commit()
}

// Close closes the underlying database.
func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
