package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sustainatrend/trendboard/pkg/trends"
)

// TrendHandlers serves trend records read from the analytics store.
type TrendHandlers struct {
	Store trends.Store
}

// HandleTrends serves GET /api/trends with category/timeframe filters.
func (h *TrendHandlers) HandleTrends(w http.ResponseWriter, r *http.Request) {
	h.serveRecords(w, r, "")
}

// HandleRealEstateTrends serves GET /api/realestate-trends. The payload shape
// matches HandleTrends; the records are limited to property categories.
func (h *TrendHandlers) HandleRealEstateTrends(w http.ResponseWriter, r *http.Request) {
	h.serveRecords(w, r, "realestate")
}

func (h *TrendHandlers) serveRecords(w http.ResponseWriter, r *http.Request, scope string) {
	if h.Store == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("trend store not configured"))
		return
	}
	query := queryFromRequest(r)
	records, err := h.Store.Records(r.Context(), query)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if scope == "realestate" {
		records = propertyRecords(records)
	}
	if query.Limit > 0 && len(records) > query.Limit {
		records = records[:query.Limit]
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"trends":    records,
		"category":  query.Category,
		"timeframe": query.Timeframe,
		"count":     len(records),
	})
}

// HandleSampleData serves GET /api/sample-data: it seeds the store with
// deterministic sample history and returns the derived records.
func (h *TrendHandlers) HandleSampleData(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("trend store not configured"))
		return
	}
	records, err := trends.SeedSampleData(r.Context(), h.Store, time.Now().UTC())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"trends": records,
		"count":  len(records),
	})
}

func queryFromRequest(r *http.Request) trends.Query {
	q := trends.Query{
		Category:  strings.TrimSpace(r.URL.Query().Get("category")),
		Timeframe: strings.TrimSpace(r.URL.Query().Get("timeframe")),
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 {
			q.Limit = limit
		}
	}
	return q
}

// propertyCategories are the categories tracked per property in the
// portfolio; the realestate endpoint serves only these.
var propertyCategories = map[string]bool{
	"breeam": true,
	"energy": true,
	"carbon": true,
}

func propertyRecords(records []trends.Record) []trends.Record {
	out := make([]trends.Record, 0, len(records))
	for _, rec := range records {
		if propertyCategories[strings.ToLower(rec.Category)] {
			out = append(out, rec)
		}
	}
	return out
}
