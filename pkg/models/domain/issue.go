package domain

// Severity drives the report section an issue lands in.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
)

// IssueType tags a detected anomaly; recommendation selection keys off it.
type IssueType string

const (
	IssueCriticalBelowMin         IssueType = "critical_below_min"
	IssueCriticalAboveMax         IssueType = "critical_above_max"
	IssueWarningBelowMin          IssueType = "warning_below_min"
	IssueWarningAboveMax          IssueType = "warning_above_max"
	IssueCriticalNegativeChange   IssueType = "critical_negative_change"
	IssueWarningNegativeChange    IssueType = "warning_negative_change"
	IssueSuspiciousPositiveChange IssueType = "suspicious_positive_change"

	IssueNegativeCost             IssueType = "negative_cost"
	IssueCostSpikeFromZero        IssueType = "cost_spike_from_zero"
	IssueCostCorrectionDistortion IssueType = "cost_correction_distortion"
	IssueProductSalesDrop         IssueType = "product_sales_drop"
	IssuePerformanceDegradation   IssueType = "performance_degradation"
	IssueQualitySource            IssueType = "quality_issue_source"

	IssueDimensionAnomaly IssueType = "dimension_anomaly"
	IssueNegativeTrend    IssueType = "negative_trend"
	IssueNoRelatedData    IssueType = "no_data_on_related_page"
	IssueHighVariance     IssueType = "high_variance_on_related_page"
)

// Issue is one detected anomaly. The evidence fields below Description are
// populated per issue type; unrelated fields stay zero.
type Issue struct {
	Type        IssueType
	Severity    Severity
	Description string

	Value         float64 // threshold violations
	Threshold     float64
	ChangePercent float64 // change issues, signed
	CurrentValue  float64
	PreviousValue float64

	Cost               float64 // negative_cost
	Profitability      float64
	CostIncrease       float64 // cost_spike_from_zero
	GrossProfitChange  float64
	CurrentCorrection  float64 // cost_correction_distortion
	PreviousCorrection float64

	Product      string  // product_sales_drop
	TrendPercent float64 // performance_degradation, negative_trend
	Source       string  // quality_issue_source
	Count        float64

	Dimension string // dimension_anomaly
	MaxValue  float64
	AvgValue  float64
	PageType  string // related-page issues
}
