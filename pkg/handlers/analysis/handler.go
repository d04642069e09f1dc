package analysis

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/de-tools/metric-atlas/pkg/models/api"
	"github.com/de-tools/metric-atlas/pkg/services/analysis"
	sqlstore "github.com/de-tools/metric-atlas/pkg/store/sql"
	"github.com/rs/zerolog"
)

type Handler struct {
	analyzer *analysis.Analyzer
	executor sqlstore.Executor // nil when no database is configured
}

func NewHandler(analyzer *analysis.Analyzer, executor sqlstore.Executor) *Handler {
	return &Handler{
		analyzer: analyzer,
		executor: executor,
	}
}

// Analyze runs the metric analysis pipeline and returns the report text.
// Only a missing metric name is a client error; data-source failures are
// absorbed upstream and still yield a report.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	var req api.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body"})
		return
	}

	report, err := h.analyzer.AnalyzeMetric(ctx, req.Metric, req.Filters, req.Period, req.Dashboard)
	if err != nil {
		if errors.Is(err, analysis.ErrMissingMetricName) {
			writeJSON(w, http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error().Err(err).Str("metric", req.Metric.Name).Msg("analysis failed")
		writeJSON(w, http.StatusInternalServerError, api.ErrorResponse{Error: "analysis failed"})
		return
	}

	writeJSON(w, http.StatusOK, api.AnalyzeResponse{Report: report})
}

// ExecuteSQL forwards a read-only query to the data source. Rejections and
// execution failures are reported in the body with success=false; the HTTP
// status stays 200.
func (h *Handler) ExecuteSQL(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	var req api.SQLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body"})
		return
	}

	if h.executor == nil {
		writeJSON(w, http.StatusOK, api.SQLResponse{Success: false, Error: "database is not configured"})
		return
	}

	rows, err := h.executor.Execute(ctx, req.Query, req.Params)
	if err != nil {
		logger.Warn().Err(err).Msg("sql passthrough query failed")
		writeJSON(w, http.StatusOK, api.SQLResponse{Success: false, Error: err.Error()})
		return
	}

	result := make([]map[string]any, len(rows))
	for i, row := range rows {
		result[i] = row
	}
	count := len(result)
	writeJSON(w, http.StatusOK, api.SQLResponse{Success: true, Result: result, RowCount: &count})
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (h *Handler) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "metric-atlas",
		"status":  "running",
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
