package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/sustainatrend/trendboard/pkg/trends"
)

// StrategyHandlers serves the strategy hub endpoints: trend analysis,
// document generation, integrated search and framework coverage.
type StrategyHandlers struct {
	Analyzer *trends.Analyzer
}

type analyzeTrendRequest struct {
	TrendName string `json:"trend_name"`
}

// HandleAnalyzeTrend serves POST /api/strategy/analyze-trend.
func (h *StrategyHandlers) HandleAnalyzeTrend(w http.ResponseWriter, r *http.Request) {
	if h.Analyzer == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("analyzer not configured"))
		return
	}
	var payload analyzeTrendRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	insight, err := h.Analyzer.AnalyzeTrend(r.Context(), payload.TrendName)
	if err != nil {
		status := http.StatusInternalServerError
		if strings.Contains(err.Error(), "not found") || strings.Contains(err.Error(), "required") {
			status = http.StatusBadRequest
		}
		writeError(w, status, err)
		return
	}
	writeJSON(w, http.StatusOK, insight)
}

type generateDocumentRequest struct {
	Category string `json:"category"`
}

// HandleGenerateDocument serves POST /api/strategy/generate-document.
func (h *StrategyHandlers) HandleGenerateDocument(w http.ResponseWriter, r *http.Request) {
	if h.Analyzer == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("analyzer not configured"))
		return
	}
	var payload generateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	markdown, html, err := h.Analyzer.GenerateDocument(r.Context(), payload.Category, time.Now().UTC())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"markdown": markdown,
		"html":     html,
	})
}

type integratedSearchRequest struct {
	Query string `json:"query"`
}

// HandleIntegratedSearch serves POST /api/integrated-search. The search terms
// come from the JSON body; the q parameter is honored as a fallback so the
// endpoint also answers plain GETs.
func (h *StrategyHandlers) HandleIntegratedSearch(w http.ResponseWriter, r *http.Request) {
	if h.Analyzer == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("analyzer not configured"))
		return
	}
	query := r.URL.Query().Get("q")
	if r.Body != nil {
		var payload integratedSearchRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err == nil && payload.Query != "" {
			query = payload.Query
		}
	}
	results, err := h.Analyzer.Search(r.Context(), query)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"query":   query,
		"results": results,
		"count":   len(results),
	})
}

// HandleFrameworkAnalysis serves POST /api/framework-analysis.
func (h *StrategyHandlers) HandleFrameworkAnalysis(w http.ResponseWriter, r *http.Request) {
	if h.Analyzer == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("analyzer not configured"))
		return
	}
	scores, err := h.Analyzer.FrameworkAnalysis(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"frameworks": scores,
	})
}
