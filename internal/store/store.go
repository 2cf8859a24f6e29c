package store

import (
	"context"

	"github.com/hyperengineering/mealdiary/internal/types"
)

// Store defines the interface contract for all entry storage operations.
// Both engines (embedded SQLite, managed Postgres) implement it; callers
// receive the interface at startup and never know which engine backs it.
//
// Inputs are trusted: validation and coercion happen at the API boundary
// before a Store method is called.
type Store interface {
	// AddEntry inserts a new entry and returns the storage-assigned id.
	AddEntry(ctx context.Context, entry types.NewEntry) (int64, error)

	// ListDay returns all entries attributed to day, ordered by ts
	// ascending with id as the tiebreak.
	ListDay(ctx context.Context, day string) ([]types.Entry, error)

	// UpdateEntry overwrites every field of the entry with the given id.
	// Returns ErrNotFound if no such entry exists.
	UpdateEntry(ctx context.Context, id int64, entry types.NewEntry) error

	// DeleteEntry removes the entry if present. Deleting an absent id is
	// not an error.
	DeleteEntry(ctx context.Context, id int64) error

	// ClearDay removes every entry attributed to day. Clearing an empty
	// day is not an error.
	ClearDay(ctx context.Context, day string) error

	// SumCaloriesRange sums calories for start <= day <= end, inclusive.
	// ISO day strings compare lexicographically in date order.
	SumCaloriesRange(ctx context.Context, start, end string) (int64, error)

	// HourHistogram buckets every entry by the server-local hour of its
	// ts and returns the 24 counts plus the total entry count.
	HourHistogram(ctx context.Context) ([24]int, int, error)

	// DistinctDays counts days that have at least one entry.
	DistinctDays(ctx context.Context) (int64, error)

	// TotalCalories sums calories across all entries.
	TotalCalories(ctx context.Context) (int64, error)

	// AllEntries returns every entry ordered by day then ts, for export.
	AllEntries(ctx context.Context) ([]types.Entry, error)

	// EntryCount counts all entries.
	EntryCount(ctx context.Context) (int64, error)

	// Engine names the backing engine ("sqlite" or "postgres").
	Engine() string

	Close() error
}
