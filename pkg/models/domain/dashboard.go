package domain

// MetricChange is the change indicator a dashboard renders next to a metric.
type MetricChange struct {
	Type  string  `json:"type"` // "percent" or "absolute"
	Value float64 `json:"value"`
}

// HistoryPoint is one historical value of a dashboard metric.
type HistoryPoint struct {
	PeriodStart string   `json:"period_start"`
	PeriodEnd   string   `json:"period_end"`
	Value       *float64 `json:"value"`
}

// DashboardMetric is a metric as embedded in the dashboard snapshot.
type DashboardMetric struct {
	Name            string         `json:"name"`
	Value           *float64       `json:"value,omitempty"`
	ComparisonValue *float64       `json:"comparison_value,omitempty"`
	Change          *MetricChange  `json:"change,omitempty"`
	History         []HistoryPoint `json:"history,omitempty"`
}

// TabRef identifies one dashboard tab.
type TabRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// WidgetRef is a widget as embedded in the dashboard snapshot. Data holds
// row-shaped widget payloads whose schema the dashboard does not declare;
// numeric fields in those rows are treated as candidate metrics.
type WidgetRef struct {
	ID      string            `json:"id"`
	Title   string            `json:"title"`
	Type    string            `json:"type,omitempty"`
	Metrics []DashboardMetric `json:"metrics,omitempty"`
	Data    []map[string]any  `json:"data,omitempty"`
}

// Dashboard is the snapshot of the BI dashboard the analysis starts from.
// The metrics and widgets at the top level belong to the active tab.
type Dashboard struct {
	CurrentTabID   string            `json:"current_tab_id"`
	CurrentTabName string            `json:"current_tab_name"`
	Metrics        []DashboardMetric `json:"metrics,omitempty"`
	Tabs           []TabRef          `json:"tabs,omitempty"`
	Widgets        []WidgetRef       `json:"widgets,omitempty"`
}
