// Package ledgerdb exports the ledger of finished runs to SQLite, one row per
// run, family and transaction, for offline analysis across runs.
package ledgerdb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mainframe-market/mfsim/sim"
)

const dateLayout = "2006-01-02"

// DB is an open ledger export database.
type DB struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and initializes the schema.
func Open(path string) (*DB, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(1)

	d := &DB{db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return d, nil
}

// Close closes the database connection.
func (d *DB) Close() error { return d.db.Close() }

func (d *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id          TEXT PRIMARY KEY,
		seed        INTEGER NOT NULL,
		start_date  TEXT NOT NULL,
		end_date    TEXT NOT NULL,
		ticks       INTEGER NOT NULL,
		recorded_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS families (
		run_id    TEXT NOT NULL REFERENCES runs(id),
		name      TEXT NOT NULL,
		position  INTEGER NOT NULL,
		available INTEGER NOT NULL,
		volume    INTEGER NOT NULL,
		buyers    INTEGER NOT NULL,
		PRIMARY KEY (run_id, name)
	);

	CREATE TABLE IF NOT EXISTS transactions (
		run_id  TEXT NOT NULL REFERENCES runs(id),
		family  TEXT NOT NULL,
		seq     INTEGER NOT NULL,
		buyer   TEXT NOT NULL,
		volume  INTEGER NOT NULL,
		date    TEXT NOT NULL,
		PRIMARY KEY (run_id, family, seq)
	);
	CREATE INDEX IF NOT EXISTS idx_transactions_buyer ON transactions(run_id, buyer);
	`
	_, err := d.db.Exec(schema)
	return err
}

// SaveReport stores one run in a single transaction.
func (d *DB) SaveReport(ctx context.Context, runID string, seed int64, r *sim.Report) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, seed, start_date, end_date, ticks, recorded_at) VALUES (?, ?, ?, ?, ?, ?)`,
		runID, seed, r.Start.Format(dateLayout), r.End.Format(dateLayout), r.Ticks,
		time.Now().UTC().Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	famStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO families (run_id, name, position, available, volume, buyers) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer famStmt.Close()
	txStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO transactions (run_id, family, seq, buyer, volume, date) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer txStmt.Close()

	for pos, f := range r.Families {
		if _, err := famStmt.ExecContext(ctx, runID, f.Name, pos, boolToInt(f.Available), f.Volume, f.Buyers); err != nil {
			return fmt.Errorf("insert family %s: %w", f.Name, err)
		}
		for seq, t := range f.Transactions {
			if _, err := txStmt.ExecContext(ctx, runID, f.Name, seq, t.Buyer, t.Volume, t.Timestamp.Format(dateLayout)); err != nil {
				return fmt.Errorf("insert transaction %s/%d: %w", f.Name, seq, err)
			}
		}
	}
	return tx.Commit()
}

// FamilyVolume is a stored family row.
type FamilyVolume struct {
	Name      string
	Available bool
	Volume    int
	Buyers    int
}

// FamilyVolumes returns the families of a run in release order.
func (d *DB) FamilyVolumes(ctx context.Context, runID string) ([]FamilyVolume, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT name, available, volume, buyers FROM families WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []FamilyVolume
	for rows.Next() {
		var fv FamilyVolume
		var avail int
		if err := rows.Scan(&fv.Name, &avail, &fv.Volume, &fv.Buyers); err != nil {
			return nil, err
		}
		fv.Available = avail != 0
		out = append(out, fv)
	}
	return out, rows.Err()
}

// RunIDs returns the ids of all stored runs, oldest first.
func (d *DB) RunIDs(ctx context.Context) ([]string, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT id FROM runs ORDER BY recorded_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// TransactionCount returns how many transactions a run stored.
func (d *DB) TransactionCount(ctx context.Context, runID string) (int, error) {
	var n int
	err := d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions WHERE run_id = ?`, runID).Scan(&n)
	return n, err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
