package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hyperengineering/mealdiary/internal/calendar"
	"github.com/hyperengineering/mealdiary/internal/types"
	_ "modernc.org/sqlite"
)

var _ Store = (*SQLiteStore)(nil)

// SQLiteStore is the embedded single-file engine.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore creates a new SQLiteStore instance.
// It initializes the database with WAL mode, applies pragmas, and runs
// migrations. A failure here is fatal at startup by design.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	// Ensure parent directory exists
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := enablePragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable pragmas: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db, path: dbPath}, nil
}

// enablePragmas sets SQLite pragmas for optimal performance and safety.
func enablePragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA synchronous=NORMAL",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %s: %w", pragma, err)
		}
	}

	return nil
}

// Engine names the backing engine.
func (s *SQLiteStore) Engine() string {
	return "sqlite"
}

// Path returns the database file path, used by the backup worker.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) AddEntry(ctx context.Context, entry types.NewEntry) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO entries (day, meal, ts, note, calories)
		VALUES (?, ?, ?, ?, ?)
	`, entry.Day, entry.Meal, entry.Ts, entry.Note, entry.Calories)
	if err != nil {
		return 0, fmt.Errorf("insert entry: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read inserted id: %w", err)
	}
	return id, nil
}

func (s *SQLiteStore) ListDay(ctx context.Context, day string) ([]types.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, day, meal, ts, note, calories
		FROM entries
		WHERE day = ?
		ORDER BY ts ASC, id ASC
	`, day)
	if err != nil {
		return nil, fmt.Errorf("list day: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (s *SQLiteStore) UpdateEntry(ctx context.Context, id int64, entry types.NewEntry) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE entries
		SET day = ?, meal = ?, ts = ?, note = ?, calories = ?
		WHERE id = ?
	`, entry.Day, entry.Meal, entry.Ts, entry.Note, entry.Calories, id)
	if err != nil {
		return fmt.Errorf("update entry: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update entry: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) DeleteEntry(ctx context.Context, id int64) error {
	// Deleting an absent id is a no-op, not an error.
	if _, err := s.db.ExecContext(ctx, "DELETE FROM entries WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ClearDay(ctx context.Context, day string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM entries WHERE day = ?", day); err != nil {
		return fmt.Errorf("clear day: %w", err)
	}
	return nil
}

func (s *SQLiteStore) SumCaloriesRange(ctx context.Context, start, end string) (int64, error) {
	var total int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(calories), 0) FROM entries WHERE day BETWEEN ? AND ?
	`, start, end).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum calories: %w", err)
	}
	return total, nil
}

func (s *SQLiteStore) HourHistogram(ctx context.Context) ([24]int, int, error) {
	var counts [24]int

	rows, err := s.db.QueryContext(ctx, "SELECT ts FROM entries")
	if err != nil {
		return counts, 0, fmt.Errorf("hour histogram: %w", err)
	}
	defer rows.Close()

	total := 0
	for rows.Next() {
		var ts int64
		if err := rows.Scan(&ts); err != nil {
			return counts, 0, fmt.Errorf("hour histogram: %w", err)
		}
		counts[calendar.HourOf(ts)]++
		total++
	}
	if err := rows.Err(); err != nil {
		return counts, 0, fmt.Errorf("hour histogram: %w", err)
	}
	return counts, total, nil
}

func (s *SQLiteStore) DistinctDays(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(DISTINCT day) FROM entries").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("distinct days: %w", err)
	}
	return count, nil
}

func (s *SQLiteStore) TotalCalories(ctx context.Context) (int64, error) {
	var total int64
	err := s.db.QueryRowContext(ctx, "SELECT COALESCE(SUM(calories), 0) FROM entries").Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("total calories: %w", err)
	}
	return total, nil
}

func (s *SQLiteStore) AllEntries(ctx context.Context) ([]types.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, day, meal, ts, note, calories
		FROM entries
		ORDER BY day ASC, ts ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("all entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (s *SQLiteStore) EntryCount(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM entries").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("entry count: %w", err)
	}
	return count, nil
}

func scanEntries(rows *sql.Rows) ([]types.Entry, error) {
	entries := []types.Entry{}
	for rows.Next() {
		var e types.Entry
		if err := rows.Scan(&e.ID, &e.Day, &e.Meal, &e.Ts, &e.Note, &e.Calories); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan entries: %w", err)
	}
	return entries, nil
}
