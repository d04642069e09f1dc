package analysis

import (
	"context"
	"testing"

	"github.com/de-tools/metric-atlas/pkg/models/domain"
	"github.com/de-tools/metric-atlas/pkg/services/collector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeMetric_MissingName(t *testing.T) {
	a := New(nil, collector.Capabilities{})

	_, err := a.AnalyzeMetric(context.Background(), domain.Metric{}, nil, nil, nil)
	assert.ErrorIs(t, err, ErrMissingMetricName)

	_, err = a.AnalyzeMetric(context.Background(), domain.Metric{Name: "   "}, nil, nil, nil)
	assert.ErrorIs(t, err, ErrMissingMetricName)
}

func TestAnalyzeMetric_ValuesResolvedFromDashboard(t *testing.T) {
	dashboard := &domain.Dashboard{Metrics: []domain.DashboardMetric{
		{Name: "Выручка за месяц", Value: floatPtr(90000), ComparisonValue: floatPtr(100000)},
	}}
	period := &domain.PeriodInput{Start: "2025-03-01", End: "2025-03-31"}

	a := New(nil, collector.Capabilities{})
	report, err := a.AnalyzeMetric(context.Background(), domain.Metric{Name: "Выручка"},
		nil, period, dashboard)

	require.NoError(t, err)
	// The derived comparison window starts on 2025-01-29.
	assert.Contains(t, report, "Анализ метрики 'Выручка' за Март (сравнение с Январь)")
	assert.Contains(t, report, "Текущее значение: 90,000.00")
	// A 10% drop crosses the warning bar but stays below critical.
	assert.Contains(t, report, "Негативное изменение на 10.00%")
	assert.NotContains(t, report, "Критическое негативное изменение")
	// The fallback advisories close the report.
	assert.Contains(t, report, "Рекомендации:")
	assert.Contains(t, report, "внешних факторов")
}

func TestAnalyzeMetric_NoDataAtAll_StillReports(t *testing.T) {
	a := New(nil, collector.Capabilities{})

	report, err := a.AnalyzeMetric(context.Background(), domain.Metric{Name: "Неизвестная метрика"},
		nil, &domain.PeriodInput{Start: "2025-03-01", End: "2025-03-31"}, nil)

	require.NoError(t, err)
	assert.Contains(t, report, "Анализ метрики 'Неизвестная метрика' за Март")
	assert.Contains(t, report, "Проблем не выявлено. Метрика в пределах нормы.")
}

func TestAnalyzeMetric_ExplicitValuesWin(t *testing.T) {
	dashboard := &domain.Dashboard{Metrics: []domain.DashboardMetric{
		{Name: "Выручка", Value: floatPtr(1), ComparisonValue: floatPtr(2)},
	}}
	metric := domain.Metric{Name: "Выручка", Value: floatPtr(500000), ComparisonValue: floatPtr(490000)}

	a := New(nil, collector.Capabilities{})
	report, err := a.AnalyzeMetric(context.Background(), metric, nil,
		&domain.PeriodInput{Start: "2025-03-01", End: "2025-03-31"}, dashboard)

	require.NoError(t, err)
	assert.Contains(t, report, "Текущее значение: 500,000.00")
}

func TestResolveValues_ComparisonFromHistory(t *testing.T) {
	dashboard := &domain.Dashboard{Metrics: []domain.DashboardMetric{
		{
			Name:  "Выручка",
			Value: floatPtr(90000),
			History: []domain.HistoryPoint{
				{PeriodStart: "2025-01-01", PeriodEnd: "2025-01-31", Value: floatPtr(70000)},
				{PeriodStart: "2025-02-01", PeriodEnd: "2025-02-28", Value: floatPtr(80000)},
			},
		},
	}}
	comparison := &domain.Period{Start: "2025-02-01", End: "2025-02-28"}

	data := &domain.CollectedData{}
	current, previous := resolveValues(domain.Metric{Name: "Выручка"}, dashboard, data, comparison)

	require.NotNil(t, current)
	assert.Equal(t, 90000.0, *current)
	require.NotNil(t, previous)
	assert.Equal(t, 80000.0, *previous)
}

func TestResolveValues_ExactCollectedMatchBeatsDashboardSubstring(t *testing.T) {
	dashboard := &domain.Dashboard{Metrics: []domain.DashboardMetric{
		{Name: "Выручка по филиалам", Value: floatPtr(1)},
	}}
	data := &domain.CollectedData{AllMetrics: []domain.SourcedMetric{
		{Name: "выручка", Value: floatPtr(42), ComparisonValue: floatPtr(40), Source: "tab_current"},
	}}

	current, previous := resolveValues(domain.Metric{Name: "Выручка"}, dashboard, data, nil)

	require.NotNil(t, current)
	assert.Equal(t, 42.0, *current)
	require.NotNil(t, previous)
	assert.Equal(t, 40.0, *previous)
}
