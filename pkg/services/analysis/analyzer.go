package analysis

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/de-tools/metric-atlas/pkg/models/domain"
	"github.com/de-tools/metric-atlas/pkg/services/collector"
	sqlstore "github.com/de-tools/metric-atlas/pkg/store/sql"
	"github.com/rs/zerolog"
)

// ErrMissingMetricName is the only analysis failure that reaches the caller.
// Everything downstream degrades to partial data instead of failing.
var ErrMissingMetricName = errors.New("metric name is required")

// Analyzer runs the full pipeline for one metric: resolve periods, collect
// the dashboard snapshot, classify, detect issues, and render the report.
type Analyzer struct {
	executor  sqlstore.Executor
	collector *collector.Collector
}

func New(executor sqlstore.Executor, caps collector.Capabilities) *Analyzer {
	return &Analyzer{
		executor:  executor,
		collector: collector.New(executor, caps),
	}
}

// AnalyzeMetric produces the analysis report for metric. The dashboard
// snapshot is optional; without it the analysis runs on drill-down and
// related-page data alone.
func (a *Analyzer) AnalyzeMetric(
	ctx context.Context,
	metric domain.Metric,
	filters domain.Filters,
	period *domain.PeriodInput,
	dashboard *domain.Dashboard,
) (string, error) {
	if strings.TrimSpace(metric.Name) == "" {
		return "", ErrMissingMetricName
	}
	if filters == nil {
		filters = domain.Filters{}
	}

	current := ResolvePeriod(period)
	comparison := ComparisonPeriod(period, current)

	log := zerolog.Ctx(ctx)
	log.Info().
		Str("metric", metric.Name).
		Str("period_start", current.Start).
		Str("period_end", current.End).
		Msg("metric analysis started")

	data := a.collector.Collect(ctx, dashboard, filters, period, metric)

	resolved := metric
	resolved.Value, resolved.ComparisonValue = resolveValues(metric, dashboard, data, comparison)

	metricType := Classify(metric.Name)

	issues := EvaluateThresholds(resolved, resolved.Value, resolved.ComparisonValue)
	switch metricType {
	case domain.MetricFinancial:
		issues = append(issues, a.analyzeFinancial(ctx, filters, dashboard, current, comparison)...)
	case domain.MetricSales:
		issues = append(issues, analyzeSales(data)...)
	case domain.MetricOperations:
		issues = append(issues, analyzeOperations(data)...)
	case domain.MetricQuality:
		issues = append(issues, analyzeQuality(data)...)
	}
	issues = append(issues, AnalyzeDrilldowns(data.Drilldowns)...)
	issues = append(issues, AnalyzeRelatedPages(data.RelatedPages)...)

	log.Info().
		Str("metric", metric.Name).
		Str("type", string(metricType)).
		Int("issues", len(issues)).
		Msg("metric analysis finished")

	return GenerateReport(resolved, issues, current, comparison, data, metricType), nil
}

// resolveValues fills in the current and comparison values when the caller
// did not supply them: first an exact name match over the collected metrics,
// then a substring match over the dashboard, with the comparison value
// falling back to the history point covering the comparison period.
func resolveValues(
	metric domain.Metric,
	dashboard *domain.Dashboard,
	data *domain.CollectedData,
	comparison *domain.Period,
) (current, previous *float64) {
	current = metric.Value
	previous = metric.ComparisonValue
	if current != nil && previous != nil {
		return current, previous
	}

	for _, m := range data.AllMetrics {
		if !strings.EqualFold(m.Name, metric.Name) {
			continue
		}
		if current == nil && m.Value != nil {
			current = m.Value
		}
		if previous == nil && m.ComparisonValue != nil {
			previous = m.ComparisonValue
		}
		if current != nil && previous != nil {
			return current, previous
		}
	}

	if dashboard == nil {
		return current, previous
	}
	want := strings.ToLower(metric.Name)
	for _, m := range dashboard.Metrics {
		name := strings.ToLower(m.Name)
		if !strings.Contains(name, want) && !strings.Contains(want, name) {
			continue
		}
		if current == nil && m.Value != nil {
			current = m.Value
		}
		if previous == nil && m.ComparisonValue != nil {
			previous = m.ComparisonValue
		}
		if previous == nil && comparison != nil {
			previous = historyValue(m.History, *comparison)
		}
		if current != nil && previous != nil {
			break
		}
	}
	return current, previous
}

func historyValue(history []domain.HistoryPoint, period domain.Period) *float64 {
	for _, point := range history {
		if point.PeriodStart == period.Start && point.PeriodEnd == period.End {
			return point.Value
		}
	}
	return nil
}

// rowNumeric reads one column of a result row as float64, tolerating the
// numeric representations drivers commonly return.
func rowNumeric(row sqlstore.Row, column string) (float64, bool) {
	raw, ok := row[column]
	if !ok || raw == nil {
		return 0, false
	}
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case []byte:
		f, err := strconv.ParseFloat(string(v), 64)
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	}
	return 0, false
}
