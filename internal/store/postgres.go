package store

import (
	"context"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hyperengineering/mealdiary/internal/calendar"
	"github.com/hyperengineering/mealdiary/internal/types"
)

var _ Store = (*PostgresStore)(nil)

// PostgresStore is the managed relational engine, for deployments where the
// database lives on a hosting provider rather than on local disk.
type PostgresStore struct {
	db *gorm.DB
}

// NewPostgresStore connects to the database at url and auto-migrates the
// entry model. AutoMigrate covers both create-if-absent and the additive
// calories column, so pre-calorie deployments upgrade in place.
func NewPostgresStore(url string) (*PostgresStore, error) {
	db, err := gorm.Open(postgres.Open(url), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := db.AutoMigrate(&types.Entry{}); err != nil {
		return nil, fmt.Errorf("auto-migrate entries: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// Engine names the backing engine.
func (s *PostgresStore) Engine() string {
	return "postgres"
}

// Close releases the underlying connection pool.
func (s *PostgresStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *PostgresStore) AddEntry(ctx context.Context, entry types.NewEntry) (int64, error) {
	row := types.Entry{
		Day:      entry.Day,
		Meal:     entry.Meal,
		Ts:       entry.Ts,
		Note:     entry.Note,
		Calories: entry.Calories,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return 0, fmt.Errorf("insert entry: %w", err)
	}
	return row.ID, nil
}

func (s *PostgresStore) ListDay(ctx context.Context, day string) ([]types.Entry, error) {
	entries := []types.Entry{}
	err := s.db.WithContext(ctx).
		Where("day = ?", day).
		Order("ts ASC, id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("list day: %w", err)
	}
	return entries, nil
}

func (s *PostgresStore) UpdateEntry(ctx context.Context, id int64, entry types.NewEntry) error {
	res := s.db.WithContext(ctx).
		Model(&types.Entry{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"day":      entry.Day,
			"meal":     entry.Meal,
			"ts":       entry.Ts,
			"note":     entry.Note,
			"calories": entry.Calories,
		})
	if res.Error != nil {
		return fmt.Errorf("update entry: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteEntry(ctx context.Context, id int64) error {
	// Deleting an absent id is a no-op, not an error.
	if err := s.db.WithContext(ctx).Delete(&types.Entry{}, id).Error; err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	return nil
}

func (s *PostgresStore) ClearDay(ctx context.Context, day string) error {
	if err := s.db.WithContext(ctx).Where("day = ?", day).Delete(&types.Entry{}).Error; err != nil {
		return fmt.Errorf("clear day: %w", err)
	}
	return nil
}

func (s *PostgresStore) SumCaloriesRange(ctx context.Context, start, end string) (int64, error) {
	var total int64
	err := s.db.WithContext(ctx).
		Raw("SELECT COALESCE(SUM(calories), 0) FROM entries WHERE day BETWEEN ? AND ?", start, end).
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("sum calories: %w", err)
	}
	return total, nil
}

func (s *PostgresStore) HourHistogram(ctx context.Context) ([24]int, int, error) {
	var counts [24]int

	var timestamps []int64
	err := s.db.WithContext(ctx).
		Model(&types.Entry{}).
		Pluck("ts", &timestamps).Error
	if err != nil {
		return counts, 0, fmt.Errorf("hour histogram: %w", err)
	}

	for _, ts := range timestamps {
		counts[calendar.HourOf(ts)]++
	}
	return counts, len(timestamps), nil
}

func (s *PostgresStore) DistinctDays(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Raw("SELECT COUNT(DISTINCT day) FROM entries").
		Scan(&count).Error
	if err != nil {
		return 0, fmt.Errorf("distinct days: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) TotalCalories(ctx context.Context) (int64, error) {
	var total int64
	err := s.db.WithContext(ctx).
		Raw("SELECT COALESCE(SUM(calories), 0) FROM entries").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("total calories: %w", err)
	}
	return total, nil
}

func (s *PostgresStore) AllEntries(ctx context.Context) ([]types.Entry, error) {
	entries := []types.Entry{}
	err := s.db.WithContext(ctx).
		Order("day ASC, ts ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("all entries: %w", err)
	}
	return entries, nil
}

func (s *PostgresStore) EntryCount(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&types.Entry{}).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("entry count: %w", err)
	}
	return count, nil
}
