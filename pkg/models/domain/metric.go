package domain

import "sort"

// Direction says whether growth of a metric counts as improvement.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// MetricType selects the specialized analysis applied to a metric.
type MetricType string

const (
	MetricFinancial  MetricType = "financial"
	MetricSales      MetricType = "sales"
	MetricOperations MetricType = "operations"
	MetricQuality    MetricType = "quality"
	MetricGeneral    MetricType = "general"
)

// Thresholds are the configured bounds for one metric. Every field is
// optional and applied independently; nil means "not configured".
// ChangeThreshold, CriticalChangeThreshold and SuspiciousPositiveChange are
// percentages with package defaults applied by the evaluator.
type Thresholds struct {
	CriticalMin              *float64 `json:"critical_min,omitempty"`
	CriticalMax              *float64 `json:"critical_max,omitempty"`
	WarningMin               *float64 `json:"warning_min,omitempty"`
	WarningMax               *float64 `json:"warning_max,omitempty"`
	ChangeThreshold          *float64 `json:"change_threshold,omitempty"`
	CriticalChangeThreshold  *float64 `json:"critical_change_threshold,omitempty"`
	SuspiciousPositiveChange *float64 `json:"suspicious_positive_change,omitempty"`
}

// Metric is a named, thresholded KPI selected for analysis.
type Metric struct {
	Name              string     `json:"name"`
	Value             *float64   `json:"value,omitempty"`
	ComparisonValue   *float64   `json:"comparison_value,omitempty"`
	Thresholds        Thresholds `json:"thresholds,omitempty"`
	PositiveDirection Direction  `json:"positive_direction,omitempty"`
}

// Filters is the active dashboard filter set, keyed by dimension name.
type Filters map[string]any

// Keys returns the filter keys in lexicographic order. Variant generation
// and query assembly iterate this instead of the map so output is
// deterministic.
func (f Filters) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
