package collector

import (
	"context"
	"errors"
	"testing"

	"github.com/de-tools/metric-atlas/pkg/models/domain"
	sqlstore "github.com/de-tools/metric-atlas/pkg/store/sql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubExecutor answers every query with a canned handler.
type stubExecutor struct {
	execute func(ctx context.Context, query string, params sqlstore.Params) ([]sqlstore.Row, error)
}

func (s *stubExecutor) Execute(ctx context.Context, query string, params sqlstore.Params) ([]sqlstore.Row, error) {
	return s.execute(ctx, query, params)
}

func floatPtr(v float64) *float64 { return &v }

func TestCollect_NoExecutor_NoDashboard(t *testing.T) {
	c := New(nil, Capabilities{})

	data := c.Collect(context.Background(), nil, domain.Filters{}, nil, domain.Metric{Name: "Выручка"})

	require.NotNil(t, data)
	assert.Equal(t, []string{"current"}, data.TabOrder)
	assert.Empty(t, data.Drilldowns.ByDimensions)
	assert.Empty(t, data.RelatedPages)
	assert.Empty(t, data.AllMetrics)
}

func TestCollectTabs_FailedLookup_FallsBackToInlineData(t *testing.T) {
	dashboard := &domain.Dashboard{
		CurrentTabID:   "main",
		CurrentTabName: "Главная",
		Metrics:        []domain.DashboardMetric{{Name: "Выручка", Value: floatPtr(100)}},
		Tabs: []domain.TabRef{
			{ID: "main", Name: "Главная"},
			{ID: "finance", Name: "Финансы"},
		},
	}

	c := New(nil, Capabilities{
		TabData: func(ctx context.Context, tabID string, _ domain.Filters, _ *domain.PeriodInput) (*domain.Tab, error) {
			return nil, errors.New("backend down")
		},
	})

	data := c.Collect(context.Background(), dashboard, domain.Filters{}, nil, domain.Metric{Name: "x"})

	assert.Equal(t, []string{"current", "finance"}, data.TabOrder)
	assert.Equal(t, "Финансы", data.Tabs["finance"].Name)
	assert.Empty(t, data.Tabs["finance"].Metrics)
}

func TestMetricsFromRows_SortedAndNumericOnly(t *testing.T) {
	rows := []map[string]any{
		{"total": 15.5, "name": "Москва", "count": 3},
	}

	metrics := metricsFromRows(rows)

	require.Len(t, metrics, 2)
	assert.Equal(t, "count", metrics[0].Name)
	assert.Equal(t, 3.0, *metrics[0].Value)
	assert.Equal(t, "total", metrics[1].Name)
	assert.Equal(t, 15.5, *metrics[1].Value)
}

func TestFlattenMetrics_TagsSources(t *testing.T) {
	data := &domain.CollectedData{
		Tabs: map[string]domain.Tab{
			"current": {Metrics: []domain.DashboardMetric{{Name: "Выручка", Value: floatPtr(100)}}},
		},
		TabOrder: []string{"current"},
		Widgets: map[string]domain.Widget{
			"w1": {Metrics: []domain.DashboardMetric{{Name: "Продажи", Value: floatPtr(50)}}},
		},
		WidgetOrder: []string{"w1"},
		Drilldowns: domain.Drilldowns{
			ByDimensions: map[string][]domain.DrilldownRow{
				"branch": {{DimensionValue: "Москва", TotalValue: 70}},
			},
		},
	}

	flattenMetrics(data)

	require.Len(t, data.AllMetrics, 3)
	assert.Equal(t, "tab_current", data.AllMetrics[0].Source)
	assert.Equal(t, "widget_w1", data.AllMetrics[1].Source)
	assert.Equal(t, "drilldown_branch", data.AllMetrics[2].Source)
	assert.Equal(t, "branch_detail", data.AllMetrics[2].Name)
	assert.Equal(t, "Москва", data.AllMetrics[2].DimensionValue)
}

func TestSummarizeRows_EmptyFetchStillCounts(t *testing.T) {
	summary := summarizeRows(nil)

	require.NotNil(t, summary)
	assert.Zero(t, summary.Count)
	assert.Zero(t, summary.Avg)
}

func TestSummarizeRows_NumericFieldsOnly(t *testing.T) {
	rows := []sqlstore.Row{
		{"amount": 10.0, "supplier": "ООО Ромашка"},
		{"amount": 30.0, "supplier": "ООО Лютик"},
	}

	summary := summarizeRows(rows)

	assert.Equal(t, 2, summary.Count)
	assert.Equal(t, 40.0, summary.Sum)
	assert.Equal(t, 20.0, summary.Avg)
	assert.Equal(t, 10.0, summary.Min)
	assert.Equal(t, 30.0, summary.Max)
}
