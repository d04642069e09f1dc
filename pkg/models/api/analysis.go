package api

import "github.com/de-tools/metric-atlas/pkg/models/domain"

// AnalyzeRequest asks for automated commentary on one metric.
type AnalyzeRequest struct {
	Metric    domain.Metric       `json:"metric"`
	Filters   domain.Filters      `json:"filters,omitempty"`
	Period    *domain.PeriodInput `json:"period,omitempty"`
	Dashboard *domain.Dashboard   `json:"dashboard,omitempty"`
}

// AnalyzeResponse carries the assembled report text.
type AnalyzeResponse struct {
	Report string `json:"report"`
}

// ErrorResponse is the body of a failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}
