package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/hyperengineering/mealdiary/internal/types"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func localMillis(t *testing.T, day string, hour, min int) int64 {
	t.Helper()
	d, err := time.ParseInLocation("2006-01-02", day, time.Local)
	if err != nil {
		t.Fatal(err)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), hour, min, 0, 0, time.Local).UnixMilli()
}

func TestSQLiteStore_AddAndListDay(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.AddEntry(ctx, types.NewEntry{
		Day: "2024-03-10", Meal: "Breakfast",
		Ts: localMillis(t, "2024-03-10", 8, 0), Note: "eggs", Calories: 300,
	})
	if err != nil {
		t.Fatal(err)
	}
	if id == 0 {
		t.Error("expected non-zero id")
	}

	entries, err := s.ListDay(ctx, "2024-03-10")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	got := entries[0]
	if got.ID != id || got.Meal != "Breakfast" || got.Note != "eggs" || got.Calories != 300 {
		t.Errorf("unexpected entry: %+v", got)
	}
}

func TestSQLiteStore_ListDayOrderedByTs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Insert out of chronological order.
	hours := []int{13, 7, 19, 7}
	for _, h := range hours {
		_, err := s.AddEntry(ctx, types.NewEntry{
			Day: "2024-03-10", Meal: "Meal",
			Ts: localMillis(t, "2024-03-10", h, 0),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	entries, err := s.ListDay(ctx, "2024-03-10")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(entries))
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].Ts < entries[i-1].Ts {
			t.Errorf("entries not ordered by ts: %d before %d", entries[i-1].Ts, entries[i].Ts)
		}
		if entries[i].Ts == entries[i-1].Ts && entries[i].ID < entries[i-1].ID {
			t.Error("ts ties not broken by insertion order")
		}
	}
}

func TestSQLiteStore_ListDayEmptyIsNotNil(t *testing.T) {
	s := newTestStore(t)

	entries, err := s.ListDay(context.Background(), "2024-03-10")
	if err != nil {
		t.Fatal(err)
	}
	if entries == nil {
		t.Error("expected empty slice, got nil")
	}
	if len(entries) != 0 {
		t.Errorf("expected no entries, got %d", len(entries))
	}
}

func TestSQLiteStore_UpdateEntryFullOverwrite(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.AddEntry(ctx, types.NewEntry{
		Day: "2024-03-10", Meal: "Breakfast",
		Ts: localMillis(t, "2024-03-10", 8, 0), Note: "eggs", Calories: 300,
	})
	if err != nil {
		t.Fatal(err)
	}

	err = s.UpdateEntry(ctx, id, types.NewEntry{
		Day: "2024-03-11", Meal: "Lunch",
		Ts: localMillis(t, "2024-03-11", 12, 30), Note: "", Calories: 550,
	})
	if err != nil {
		t.Fatal(err)
	}

	// Old day no longer lists the entry; the new one does, with every
	// field replaced.
	old, err := s.ListDay(ctx, "2024-03-10")
	if err != nil {
		t.Fatal(err)
	}
	if len(old) != 0 {
		t.Errorf("entry still attributed to old day")
	}

	entries, err := s.ListDay(ctx, "2024-03-11")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	got := entries[0]
	if got.ID != id || got.Meal != "Lunch" || got.Note != "" || got.Calories != 550 {
		t.Errorf("update was not a full overwrite: %+v", got)
	}
}

func TestSQLiteStore_UpdateEntryNotFound(t *testing.T) {
	s := newTestStore(t)

	err := s.UpdateEntry(context.Background(), 9999, types.NewEntry{
		Day: "2024-03-10", Meal: "Lunch", Ts: 1,
	})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteStore_DeleteEntryIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.AddEntry(ctx, types.NewEntry{
		Day: "2024-03-10", Meal: "Snack", Ts: localMillis(t, "2024-03-10", 15, 0),
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := s.DeleteEntry(ctx, id); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteEntry(ctx, id); err != nil {
		t.Errorf("second delete errored: %v", err)
	}

	count, err := s.EntryCount(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("expected 0 entries, got %d", count)
	}
}

func TestSQLiteStore_ClearDayIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := s.AddEntry(ctx, types.NewEntry{
			Day: "2024-03-10", Meal: "Meal", Ts: localMillis(t, "2024-03-10", 8+i, 0),
		})
		if err != nil {
			t.Fatal(err)
		}
	}
	_, err := s.AddEntry(ctx, types.NewEntry{
		Day: "2024-03-11", Meal: "Breakfast", Ts: localMillis(t, "2024-03-11", 8, 0),
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := s.ClearDay(ctx, "2024-03-10"); err != nil {
		t.Fatal(err)
	}
	// Clearing an already-empty day succeeds with no changes.
	if err := s.ClearDay(ctx, "2024-03-10"); err != nil {
		t.Errorf("clear of empty day errored: %v", err)
	}

	count, err := s.EntryCount(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("other days affected: count = %d", count)
	}
}

func TestSQLiteStore_SumCaloriesRange(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seed := []struct {
		day string
		cal int
	}{
		{"2024-03-09", 100},
		{"2024-03-10", 300},
		{"2024-03-10", 200},
		{"2024-03-11", 400},
		{"2024-04-01", 999},
	}
	for _, e := range seed {
		_, err := s.AddEntry(ctx, types.NewEntry{
			Day: e.day, Meal: "Meal", Ts: localMillis(t, e.day, 12, 0), Calories: e.cal,
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		start, end string
		want       int64
	}{
		{"2024-03-10", "2024-03-10", 500}, // single day equals day sum
		{"2024-03-09", "2024-03-11", 1000},
		{"2024-01-01", "2024-12-31", 1999},
		{"2024-05-01", "2024-05-31", 0}, // no rows
	}
	for _, tt := range tests {
		got, err := s.SumCaloriesRange(ctx, tt.start, tt.end)
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Errorf("SumCaloriesRange(%s, %s) = %d, want %d", tt.start, tt.end, got, tt.want)
		}
	}
}

func TestSQLiteStore_HourHistogram(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, h := range []int{7, 7, 13} {
		_, err := s.AddEntry(ctx, types.NewEntry{
			Day: "2024-03-10", Meal: "Meal", Ts: localMillis(t, "2024-03-10", h, 15),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	counts, total, err := s.HourHistogram(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	if counts[7] != 2 || counts[13] != 1 {
		t.Errorf("counts[7] = %d, counts[13] = %d", counts[7], counts[13])
	}

	sum := 0
	for _, c := range counts {
		sum += c
	}
	if sum != total {
		t.Errorf("bucket sum %d != total %d", sum, total)
	}
}

func TestSQLiteStore_DistinctDaysAndTotals(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	days := []string{"2024-03-10", "2024-03-10", "2024-03-11", "2024-03-12"}
	for _, day := range days {
		_, err := s.AddEntry(ctx, types.NewEntry{
			Day: day, Meal: "Meal", Ts: localMillis(t, day, 9, 0), Calories: 100,
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	distinct, err := s.DistinctDays(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if distinct != 3 {
		t.Errorf("DistinctDays = %d, want 3", distinct)
	}

	total, err := s.TotalCalories(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if total != 400 {
		t.Errorf("TotalCalories = %d, want 400", total)
	}
}

func TestSQLiteStore_AllEntriesOrderedByDayThenTs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.AddEntry(ctx, types.NewEntry{Day: "2024-03-11", Meal: "A", Ts: localMillis(t, "2024-03-11", 9, 0)})
	if err != nil {
		t.Fatal(err)
	}
	_, err = s.AddEntry(ctx, types.NewEntry{Day: "2024-03-10", Meal: "B", Ts: localMillis(t, "2024-03-10", 20, 0)})
	if err != nil {
		t.Fatal(err)
	}
	_, err = s.AddEntry(ctx, types.NewEntry{Day: "2024-03-10", Meal: "C", Ts: localMillis(t, "2024-03-10", 7, 0)})
	if err != nil {
		t.Fatal(err)
	}

	entries, err := s.AllEntries(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Meal != "C" || entries[1].Meal != "B" || entries[2].Meal != "A" {
		t.Errorf("wrong export order: %s, %s, %s", entries[0].Meal, entries[1].Meal, entries[2].Meal)
	}
}

func TestSQLiteStore_ReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "meals.db")

	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatal(err)
	}
	_, err = s.AddEntry(context.Background(), types.NewEntry{
		Day: "2024-03-10", Meal: "Dinner", Ts: localMillis(t, "2024-03-10", 19, 0), Calories: 700,
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	// Migrations are idempotent across restarts.
	s2, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()

	count, err := s2.EntryCount(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("expected 1 entry after reopen, got %d", count)
	}
}
