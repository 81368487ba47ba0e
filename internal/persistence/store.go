// Package persistence provides the SQLite observation log: settled
// trades and periodic market snapshots. The simulation only ever writes
// here; the chart and economy endpoints read it back.
package persistence

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"boxlands/internal/engine"
)

// Store wraps a SQLite connection for the trade and period history.
type Store struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*Store, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	st := &Store{conn: conn}
	if err := st.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return st, nil
}

// Close closes the database connection.
func (st *Store) Close() error {
	return st.conn.Close()
}

func (st *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS trades (
		id TEXT PRIMARY KEY,
		tick INTEGER NOT NULL,
		buyer_id INTEGER NOT NULL,
		seller_id INTEGER NOT NULL,
		amount INTEGER NOT NULL,
		total_price REAL NOT NULL,
		unit_price REAL NOT NULL,
		recorded_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_trades_tick ON trades(tick);

	CREATE TABLE IF NOT EXISTS periods (
		tick INTEGER PRIMARY KEY,
		sim_seconds REAL NOT NULL,
		periodic_gdp REAL NOT NULL,
		cumulative_gdp REAL NOT NULL,
		avg_trading_price REAL NOT NULL,
		avg_valuation REAL NOT NULL,
		alive INTEGER NOT NULL
	);
	`
	_, err := st.conn.Exec(schema)
	return err
}

// RecordTrade appends one settled trade to the log.
func (st *Store) RecordTrade(rec engine.TradeRecord) error {
	unitPrice := rec.TotalPrice / float64(rec.Amount)
	_, err := st.conn.Exec(
		`INSERT INTO trades (id, tick, buyer_id, seller_id, amount, total_price, unit_price, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), rec.Tick, rec.Buyer, rec.Seller,
		rec.Amount, rec.TotalPrice, unitPrice,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert trade: %w", err)
	}
	return nil
}

// RecordPeriod appends one periodic market snapshot.
func (st *Store) RecordPeriod(rec engine.PeriodRecord) error {
	_, err := st.conn.Exec(
		`INSERT OR REPLACE INTO periods (tick, sim_seconds, periodic_gdp, cumulative_gdp, avg_trading_price, avg_valuation, alive)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.Tick, rec.SimSeconds, rec.PeriodicGDP, rec.CumulativeGDP,
		rec.AverageTradingPrice, rec.AverageValuation, rec.Alive,
	)
	if err != nil {
		return fmt.Errorf("insert period: %w", err)
	}
	return nil
}

// PeriodRow is one stored market period, oldest first.
type PeriodRow struct {
	Tick             uint64  `db:"tick" json:"tick"`
	SimSeconds       float64 `db:"sim_seconds" json:"sim_seconds"`
	PeriodicGDP      float64 `db:"periodic_gdp" json:"periodic_gdp"`
	CumulativeGDP    float64 `db:"cumulative_gdp" json:"cumulative_gdp"`
	AvgTradingPrice  float64 `db:"avg_trading_price" json:"avg_trading_price"`
	AvgValuation     float64 `db:"avg_valuation" json:"avg_valuation"`
	Alive            int     `db:"alive" json:"alive"`
}

// PeriodHistory returns up to limit of the most recent market periods in
// chronological order. limit <= 0 returns everything.
func (st *Store) PeriodHistory(limit int) ([]PeriodRow, error) {
	query := `SELECT tick, sim_seconds, periodic_gdp, cumulative_gdp, avg_trading_price, avg_valuation, alive
		FROM periods ORDER BY tick DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	var rows []PeriodRow
	if err := st.conn.Select(&rows, query, args...); err != nil {
		return nil, fmt.Errorf("select periods: %w", err)
	}
	// Reverse into chronological order.
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	return rows, nil
}

// TradeCount returns the number of trades logged so far.
func (st *Store) TradeCount() (int, error) {
	var n int
	if err := st.conn.Get(&n, `SELECT COUNT(*) FROM trades`); err != nil {
		return 0, fmt.Errorf("count trades: %w", err)
	}
	return n, nil
}
