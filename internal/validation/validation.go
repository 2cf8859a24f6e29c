package validation

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/hyperengineering/mealdiary/internal/types"
)

// ValidationError represents a single field validation failure.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Collector accumulates validation errors without failing on first.
type Collector struct {
	errors []ValidationError
}

// Add appends a validation error to the collector if non-nil.
func (c *Collector) Add(err *ValidationError) {
	if err != nil {
		c.errors = append(c.errors, *err)
	}
}

// HasErrors returns true if the collector has accumulated any errors.
func (c *Collector) HasErrors() bool {
	return len(c.errors) > 0
}

// Errors returns all accumulated validation errors.
func (c *Collector) Errors() []ValidationError {
	return c.errors
}

// ValidateRequired returns an error if the value is empty or whitespace-only.
func ValidateRequired(field, value string) *ValidationError {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{
			Field:   field,
			Message: "is required",
		}
	}
	return nil
}

// CoerceTimestamp interprets a raw JSON value as unix milliseconds.
// Integer numbers pass through, floats truncate, and numeric strings parse.
// Anything else (including absent/null) is a validation failure.
func CoerceTimestamp(field string, raw json.RawMessage) (int64, *ValidationError) {
	invalid := &ValidationError{
		Field:   field,
		Message: "must be an integer (unix ms)",
	}

	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return 0, &ValidationError{Field: field, Message: "is required"}
	}

	if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return n, nil
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return int64(f), nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, invalid
}

// CoerceCalories interprets a raw JSON value as a non-negative calorie
// count. Unusable values silently coerce to 0 and negatives clamp to 0;
// calorie input is defensive, never rejected.
func CoerceCalories(raw json.RawMessage) int {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return 0
	}

	if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return clampNonNegative(n)
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return clampNonNegative(int64(f))
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
			return clampNonNegative(n)
		}
	}
	return 0
}

func clampNonNegative(n int64) int {
	if n < 0 {
		return 0
	}
	return int(n)
}

// ParseEntryRequest validates and coerces a wire-level entry body into a
// NewEntry. All field failures are collected before returning.
func ParseEntryRequest(req types.EntryRequest) (types.NewEntry, []ValidationError) {
	var c Collector

	day := strings.TrimSpace(req.Day)
	meal := strings.TrimSpace(req.Meal)
	c.Add(ValidateRequired("day", day))
	c.Add(ValidateRequired("meal", meal))

	ts, tsErr := CoerceTimestamp("ts", req.Ts)
	c.Add(tsErr)

	if c.HasErrors() {
		return types.NewEntry{}, c.Errors()
	}

	return types.NewEntry{
		Day:      day,
		Meal:     meal,
		Ts:       ts,
		Note:     strings.TrimSpace(req.Note),
		Calories: CoerceCalories(req.Calories),
	}, nil
}
