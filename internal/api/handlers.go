package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hyperengineering/mealdiary/internal/calendar"
	"github.com/hyperengineering/mealdiary/internal/export"
	"github.com/hyperengineering/mealdiary/internal/store"
	"github.com/hyperengineering/mealdiary/internal/types"
	"github.com/hyperengineering/mealdiary/internal/validation"
	"github.com/hyperengineering/mealdiary/internal/web"
)

// Handler implements the API handlers. The store is injected at startup;
// handlers hold no other state.
type Handler struct {
	store   store.Store
	version string
}

// NewHandler creates a new Handler backed by the given store.
func NewHandler(s store.Store, version string) *Handler {
	return &Handler{
		store:   s,
		version: version,
	}
}

// Index serves the embedded single-page UI.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(web.IndexHTML)
}

// Health returns the health status.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	count, err := h.store.EntryCount(r.Context())
	if err != nil {
		MapStoreError(w, r, err)
		return
	}

	writeJSON(w, types.HealthResponse{
		Status:     "healthy",
		Version:    h.version,
		Engine:     h.store.Engine(),
		EntryCount: count,
	})
}

// ListEntries handles GET /api/entries?day=YYYY-MM-DD (default: today).
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	day := r.URL.Query().Get("day")
	if day == "" {
		day = calendar.Today()
	}

	entries, err := h.store.ListDay(r.Context(), day)
	if err != nil {
		slog.Error("list entries failed", "error", err, "day", day)
		MapStoreError(w, r, err)
		return
	}

	writeJSON(w, types.DayEntriesResponse{Day: day, Entries: entries})
}

// AddEntry handles POST /api/entries.
func (h *Handler) AddEntry(w http.ResponseWriter, r *http.Request) {
	var req types.EntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %s", err.Error()))
		return
	}

	entry, errs := validation.ParseEntryRequest(req)
	if len(errs) > 0 {
		WriteValidationProblem(w, r, "Missing or invalid day/meal/ts", errs)
		return
	}

	id, err := h.store.AddEntry(r.Context(), entry)
	if err != nil {
		slog.Error("add entry failed", "error", err, "day", entry.Day)
		MapStoreError(w, r, err)
		return
	}

	writeJSON(w, types.AddEntryResponse{OK: true, ID: id})
}

// UpdateEntry handles PUT /api/entries/{id}. Every field is overwritten;
// there is no partial patch.
func (h *Handler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := entryID(w, r)
	if !ok {
		return
	}

	var req types.EntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %s", err.Error()))
		return
	}

	entry, errs := validation.ParseEntryRequest(req)
	if len(errs) > 0 {
		WriteValidationProblem(w, r, "Missing or invalid day/meal/ts", errs)
		return
	}

	if err := h.store.UpdateEntry(r.Context(), id, entry); err != nil {
		MapStoreError(w, r, err)
		return
	}

	writeJSON(w, types.AddEntryResponse{OK: true, ID: id})
}

// DeleteEntry handles DELETE /api/entries/{id}. Deleting an absent id
// succeeds.
func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := entryID(w, r)
	if !ok {
		return
	}

	if err := h.store.DeleteEntry(r.Context(), id); err != nil {
		slog.Error("delete entry failed", "error", err, "id", id)
		MapStoreError(w, r, err)
		return
	}

	writeJSON(w, types.OKResponse{OK: true})
}

// ClearDay handles POST /api/entries/clear?day=YYYY-MM-DD.
func (h *Handler) ClearDay(w http.ResponseWriter, r *http.Request) {
	day := r.URL.Query().Get("day")
	if day == "" {
		day = calendar.Today()
	}

	if err := h.store.ClearDay(r.Context(), day); err != nil {
		slog.Error("clear day failed", "error", err, "day", day)
		MapStoreError(w, r, err)
		return
	}

	writeJSON(w, types.ClearDayResponse{OK: true, Day: day})
}

// Histogram handles GET /api/histogram/all.
func (h *Handler) Histogram(w http.ResponseWriter, r *http.Request) {
	counts, total, err := h.store.HourHistogram(r.Context())
	if err != nil {
		slog.Error("histogram failed", "error", err)
		MapStoreError(w, r, err)
		return
	}

	writeJSON(w, types.HistogramResponse{Counts: counts, TotalEntries: total})
}

// Summary handles GET /api/summary?day=YYYY-MM-DD.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	dayStr := r.URL.Query().Get("day")
	if dayStr == "" {
		dayStr = calendar.Today()
	}

	day, err := calendar.ParseDay(dayStr)
	if err != nil {
		WriteProblem(w, r, http.StatusBadRequest, "Invalid day. Use YYYY-MM-DD")
		return
	}

	ctx := r.Context()
	weekStart, weekEnd := calendar.WeekBounds(day)
	monthStart, monthEnd := calendar.MonthBounds(day)

	dayTotal, err := h.store.SumCaloriesRange(ctx, dayStr, dayStr)
	if err != nil {
		MapStoreError(w, r, err)
		return
	}
	weekTotal, err := h.store.SumCaloriesRange(ctx, calendar.DayString(weekStart), calendar.DayString(weekEnd))
	if err != nil {
		MapStoreError(w, r, err)
		return
	}
	monthTotal, err := h.store.SumCaloriesRange(ctx, calendar.DayString(monthStart), calendar.DayString(monthEnd))
	if err != nil {
		MapStoreError(w, r, err)
		return
	}
	allTotal, err := h.store.TotalCalories(ctx)
	if err != nil {
		MapStoreError(w, r, err)
		return
	}
	daysWithEntries, err := h.store.DistinctDays(ctx)
	if err != nil {
		MapStoreError(w, r, err)
		return
	}

	var avgDaily int64
	if daysWithEntries > 0 {
		avgDaily = int64(math.Round(float64(allTotal) / float64(daysWithEntries)))
	}

	writeJSON(w, types.SummaryResponse{
		Day:             dayStr,
		DayTotal:        dayTotal,
		WeekTotal:       weekTotal,
		MonthTotal:      monthTotal,
		AllTotal:        allTotal,
		AvgDaily:        avgDaily,
		DaysWithEntries: daysWithEntries,
	})
}

// ExportEntries handles GET /export/entries.csv.
func (h *Handler) ExportEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.store.AllEntries(r.Context())
	if err != nil {
		slog.Error("export entries failed", "error", err)
		MapStoreError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.EntriesFilename+`"`)
	if err := export.WriteEntries(w, entries); err != nil {
		slog.Error("export entries write failed", "error", err)
	}
}

// ExportHistogram handles GET /export/histogram_24h.csv.
func (h *Handler) ExportHistogram(w http.ResponseWriter, r *http.Request) {
	counts, _, err := h.store.HourHistogram(r.Context())
	if err != nil {
		slog.Error("export histogram failed", "error", err)
		MapStoreError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.HistogramFilename+`"`)
	if err := export.WriteHistogram(w, counts); err != nil {
		slog.Error("export histogram write failed", "error", err)
	}
}

// entryID parses the {id} route parameter. A non-numeric id matches no
// entry, so it reports 404 the same way an unknown id does.
func entryID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		WriteProblem(w, r, http.StatusNotFound, "Entry not found")
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
