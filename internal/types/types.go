package types

import "encoding/json"

// Entry represents one logged meal occurrence.
type Entry struct {
	ID       int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Day      string `json:"day" gorm:"index;not null"`
	Meal     string `json:"meal" gorm:"not null"`
	Ts       int64  `json:"ts" gorm:"index;not null"`
	Note     string `json:"note" gorm:"not null;default:''"`
	Calories int    `json:"calories" gorm:"not null;default:0"`
}

// NewEntry is a validated, coerced entry ready for insertion or full
// overwrite. It never carries an ID; storage assigns one on Add.
type NewEntry struct {
	Day      string
	Meal     string
	Ts       int64
	Note     string
	Calories int
}

// EntryRequest is the wire shape of POST/PUT entry bodies. Ts and Calories
// stay raw so validation can apply the coercion rules (ts must be an
// integer, calories coerces to 0 on anything unusable).
type EntryRequest struct {
	Day      string          `json:"day"`
	Meal     string          `json:"meal"`
	Ts       json.RawMessage `json:"ts"`
	Note     string          `json:"note"`
	Calories json.RawMessage `json:"calories"`
}

// DayEntriesResponse is the response for GET /api/entries.
type DayEntriesResponse struct {
	Day     string  `json:"day"`
	Entries []Entry `json:"entries"`
}

// AddEntryResponse is the response for POST /api/entries.
type AddEntryResponse struct {
	OK bool  `json:"ok"`
	ID int64 `json:"id"`
}

// OKResponse acknowledges an operation with no payload.
type OKResponse struct {
	OK bool `json:"ok"`
}

// ClearDayResponse is the response for POST /api/entries/clear.
type ClearDayResponse struct {
	OK  bool   `json:"ok"`
	Day string `json:"day"`
}

// HistogramResponse is the response for GET /api/histogram/all.
type HistogramResponse struct {
	Counts       [24]int `json:"counts"`
	TotalEntries int     `json:"total_entries"`
}

// SummaryResponse is the response for GET /api/summary.
type SummaryResponse struct {
	Day             string `json:"day"`
	DayTotal        int64  `json:"day_total"`
	WeekTotal       int64  `json:"week_total"`
	MonthTotal      int64  `json:"month_total"`
	AllTotal        int64  `json:"all_total"`
	AvgDaily        int64  `json:"avg_daily"`
	DaysWithEntries int64  `json:"days_with_entries"`
}

// HealthResponse is the response for GET /api/health.
type HealthResponse struct {
	Status     string `json:"status"`
	Version    string `json:"version"`
	Engine     string `json:"engine"`
	EntryCount int64  `json:"entry_count"`
}
