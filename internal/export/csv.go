// Package export renders the two CSV views: the full entry log and the
// all-time 24-hour histogram.
//
// The format is fixed wire contract, not RFC 4180: only meal and note are
// quoted, and only the quote character is escaped (by doubling). Commas in
// unquoted fields are not escaped; existing consumers depend on the exact
// byte layout, so encoding/csv is deliberately not used.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/hyperengineering/mealdiary/internal/calendar"
	"github.com/hyperengineering/mealdiary/internal/types"
)

// EntriesFilename is the attachment filename for the entry export.
const EntriesFilename = "entries.csv"

// HistogramFilename is the attachment filename for the histogram export.
const HistogramFilename = "histogram_24h.csv"

// WriteEntries writes all entries as CSV. Callers pass entries ordered by
// day then ts (store.AllEntries order).
func WriteEntries(w io.Writer, entries []types.Entry) error {
	if _, err := io.WriteString(w, "id,day,meal,ts_iso,ts_ms,calories,note\n"); err != nil {
		return err
	}

	for _, e := range entries {
		line := fmt.Sprintf("%d,%s,%s,%s,%d,%d,%s\n",
			e.ID,
			e.Day,
			quote(e.Meal),
			calendar.LocalTimeString(e.Ts),
			e.Ts,
			e.Calories,
			quote(e.Note),
		)
		if _, err := io.WriteString(w, line); err != nil {
			return err
		}
	}
	return nil
}

// WriteHistogram writes the 24-bucket hour histogram as CSV.
func WriteHistogram(w io.Writer, counts [24]int) error {
	if _, err := io.WriteString(w, "hour,count\n"); err != nil {
		return err
	}
	for hour, count := range counts {
		if _, err := fmt.Fprintf(w, "%d,%d\n", hour, count); err != nil {
			return err
		}
	}
	return nil
}

// quote wraps a field in double quotes, doubling embedded quotes.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
