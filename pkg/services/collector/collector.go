package collector

import (
	"context"
	"sort"

	"github.com/de-tools/metric-atlas/pkg/models/domain"
	sqlstore "github.com/de-tools/metric-atlas/pkg/store/sql"
	"github.com/rs/zerolog"
)

const currentTabKey = "current"

// TabDataFunc fetches the full state of a tab from the dashboard backend.
type TabDataFunc func(ctx context.Context, tabID string, filters domain.Filters, period *domain.PeriodInput) (*domain.Tab, error)

// WidgetDetailsFunc fetches the detail payload of a widget.
type WidgetDetailsFunc func(ctx context.Context, widgetID string, filters domain.Filters, period *domain.PeriodInput) (map[string]any, error)

// Capabilities are the optional lookups the collector may use to enrich the
// snapshot. A nil capability is not an error: the collector degrades to
// whatever is embedded in the dashboard object.
type Capabilities struct {
	TabData       TabDataFunc
	WidgetDetails WidgetDetailsFunc
}

// Collector walks the dashboard the way an analyst would: every tab, every
// widget, drill-downs for the selected metric, and the related pages its
// name suggests. Each step is independently fault tolerant; a failed fetch
// leaves its slot empty and never aborts the collection.
type Collector struct {
	executor sqlstore.Executor // nil when no data source is configured
	caps     Capabilities
}

func New(executor sqlstore.Executor, caps Capabilities) *Collector {
	return &Collector{executor: executor, caps: caps}
}

// Collect builds the consolidated snapshot for one analysis run.
func (c *Collector) Collect(
	ctx context.Context,
	dashboard *domain.Dashboard,
	filters domain.Filters,
	period *domain.PeriodInput,
	metric domain.Metric,
) *domain.CollectedData {
	data := &domain.CollectedData{
		Tabs:         map[string]domain.Tab{},
		Widgets:      map[string]domain.Widget{},
		RelatedPages: map[string]domain.RelatedPage{},
		Drilldowns: domain.Drilldowns{
			ByDimensions: map[string][]domain.DrilldownRow{},
		},
	}

	c.collectTabs(ctx, dashboard, filters, period, data)
	c.collectWidgets(ctx, dashboard, filters, period, data)
	data.Drilldowns = c.collectDrilldowns(ctx, metric, filters, period)
	data.RelatedPages = c.collectRelatedPages(ctx, metric, filters, period)
	flattenMetrics(data)

	return data
}

func (c *Collector) collectTabs(
	ctx context.Context,
	dashboard *domain.Dashboard,
	filters domain.Filters,
	period *domain.PeriodInput,
	data *domain.CollectedData,
) {
	current := domain.Tab{}
	if dashboard != nil {
		current = domain.Tab{
			ID:      dashboard.CurrentTabID,
			Name:    dashboard.CurrentTabName,
			Metrics: dashboard.Metrics,
			Widgets: dashboard.Widgets,
		}
	}
	data.Tabs[currentTabKey] = current
	data.TabOrder = append(data.TabOrder, currentTabKey)

	if dashboard == nil {
		return
	}
	for _, ref := range dashboard.Tabs {
		if ref.ID == "" || ref.ID == current.ID {
			continue
		}
		data.Tabs[ref.ID] = c.collectTab(ctx, ref, filters, period)
		data.TabOrder = append(data.TabOrder, ref.ID)
	}
}

func (c *Collector) collectTab(
	ctx context.Context,
	ref domain.TabRef,
	filters domain.Filters,
	period *domain.PeriodInput,
) domain.Tab {
	tab := domain.Tab{ID: ref.ID, Name: ref.Name}
	if c.caps.TabData == nil {
		return tab
	}

	fetched, err := c.caps.TabData(ctx, ref.ID, filters, period)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("tab", ref.ID).Msg("tab lookup failed, using inline data")
		return tab
	}
	if fetched == nil {
		return tab
	}

	tab.Metrics = fetched.Metrics
	tab.Widgets = fetched.Widgets
	if fetched.Name != "" {
		tab.Name = fetched.Name
	}
	return tab
}

func (c *Collector) collectWidgets(
	ctx context.Context,
	dashboard *domain.Dashboard,
	filters domain.Filters,
	period *domain.PeriodInput,
	data *domain.CollectedData,
) {
	if dashboard == nil {
		return
	}
	for _, ref := range dashboard.Widgets {
		widget := domain.Widget{
			ID:    ref.ID,
			Title: ref.Title,
			Type:  ref.Type,
		}

		if c.caps.WidgetDetails != nil {
			details, err := c.caps.WidgetDetails(ctx, ref.ID, filters, period)
			if err != nil {
				zerolog.Ctx(ctx).Warn().Err(err).Str("widget", ref.ID).Msg("widget detail lookup failed")
			} else if details != nil {
				widget.Details = details
				widget.RawData = rowsFromDetails(details)
			}
		}

		if len(ref.Metrics) > 0 {
			widget.Metrics = ref.Metrics
		} else if len(ref.Data) > 0 {
			widget.Metrics = metricsFromRows(ref.Data)
		}

		data.Widgets[ref.ID] = widget
		data.WidgetOrder = append(data.WidgetOrder, ref.ID)
	}
}

func rowsFromDetails(details map[string]any) []map[string]any {
	raw, ok := details["data"]
	if !ok {
		return nil
	}
	switch rows := raw.(type) {
	case []map[string]any:
		return rows
	case []any:
		var result []map[string]any
		for _, item := range rows {
			if m, ok := item.(map[string]any); ok {
				result = append(result, m)
			}
		}
		return result
	}
	return nil
}

// metricsFromRows scans row-shaped widget data and treats every numeric
// field as a candidate metric. Keys are visited in sorted order so the
// resulting list is deterministic.
func metricsFromRows(rows []map[string]any) []domain.DashboardMetric {
	var metrics []domain.DashboardMetric
	for _, row := range rows {
		keys := make([]string, 0, len(row))
		for k := range row {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, key := range keys {
			if value, ok := numeric(row[key]); ok {
				v := value
				metrics = append(metrics, domain.DashboardMetric{Name: key, Value: &v})
			}
		}
	}
	return metrics
}

func flattenMetrics(data *domain.CollectedData) {
	var all []domain.SourcedMetric

	for _, tabID := range data.TabOrder {
		for _, m := range data.Tabs[tabID].Metrics {
			all = append(all, domain.SourcedMetric{
				Name:            m.Name,
				Value:           m.Value,
				ComparisonValue: m.ComparisonValue,
				Source:          "tab_" + tabID,
			})
		}
	}
	for _, widgetID := range data.WidgetOrder {
		for _, m := range data.Widgets[widgetID].Metrics {
			all = append(all, domain.SourcedMetric{
				Name:            m.Name,
				Value:           m.Value,
				ComparisonValue: m.ComparisonValue,
				Source:          "widget_" + widgetID,
			})
		}
	}
	for _, dimension := range Dimensions {
		rows, ok := data.Drilldowns.ByDimensions[dimension]
		if !ok {
			continue
		}
		for _, row := range rows {
			v := row.TotalValue
			all = append(all, domain.SourcedMetric{
				Name:           dimension + "_detail",
				Value:          &v,
				Source:         "drilldown_" + dimension,
				DimensionValue: row.DimensionValue,
			})
		}
	}

	data.AllMetrics = all
}
