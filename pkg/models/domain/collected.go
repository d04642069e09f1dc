package domain

// Tab is the collected state of one dashboard tab.
type Tab struct {
	ID      string
	Name    string
	Metrics []DashboardMetric
	Widgets []WidgetRef
}

// Widget is the collected state of one widget, optionally enriched with
// details fetched from the dashboard backend.
type Widget struct {
	ID      string
	Title   string
	Type    string
	Metrics []DashboardMetric
	RawData []map[string]any
	Details map[string]any
}

// DrilldownRow is one row of a per-dimension aggregate.
type DrilldownRow struct {
	DimensionValue string
	TotalValue     float64
	Count          int
	ChangePercent  *float64
}

// Trend is the two-half comparison of a daily series. Percent is the
// absolute magnitude; Direction carries the sign.
type Trend struct {
	Direction     Direction
	Percent       float64
	IsSignificant bool
}

// TimePoint is one day of the time drill-down.
type TimePoint struct {
	Date  string
	Value float64
}

// TimeSeries is the daily breakdown of the selected metric over the period.
type TimeSeries struct {
	Daily []TimePoint
	Trend *Trend
}

// FilterVariant is one filter combination probed for sensitivity: the
// baseline with every filter applied, or a variant with one filter dropped.
// Total is nil when the probe returned nothing.
type FilterVariant struct {
	Name    string
	Filters Filters
	Total   *float64
}

// VariantImpact compares one drop-one-filter variant against the baseline.
type VariantImpact struct {
	Variant       string
	Value         float64
	ChangePercent float64
	Impact        string // "high", "medium" or "low"
}

// VariantComparison summarizes the filter sensitivity probes.
type VariantComparison struct {
	BaseValue     float64
	Comparisons   []VariantImpact
	MostImpactful *VariantImpact
}

// FilterDrilldown holds the filter-sensitivity probes and their comparison.
type FilterDrilldown struct {
	Variants   []FilterVariant
	Comparison *VariantComparison
}

// Drilldowns groups the three drill-down kinds collected for a metric.
type Drilldowns struct {
	ByDimensions map[string][]DrilldownRow
	ByTime       *TimeSeries
	ByFilters    *FilterDrilldown
}

// PageSummary aggregates every numeric field across the rows of a related
// page. Count is the row count; a successful fetch with no rows keeps
// Count at zero so downstream analysis can flag the empty page.
type PageSummary struct {
	Count int
	Sum   float64
	Avg   float64
	Min   float64
	Max   float64
}

// RelatedPage is the collected state of one related page.
type RelatedPage struct {
	PageType string
	Rows     []map[string]any
	Summary  *PageSummary
}

// SourcedMetric is one entry of the flattened metric list, tagged with the
// tab, widget or drill-down it was discovered in.
type SourcedMetric struct {
	Name            string
	Value           *float64
	ComparisonValue *float64
	Source          string
	DimensionValue  string
}

// CollectedData is the immutable snapshot produced once per analysis run.
// The order slices record insertion order so report output does not depend
// on map iteration.
type CollectedData struct {
	Tabs         map[string]Tab
	TabOrder     []string
	Widgets      map[string]Widget
	WidgetOrder  []string
	Drilldowns   Drilldowns
	RelatedPages map[string]RelatedPage
	AllMetrics   []SourcedMetric
}
