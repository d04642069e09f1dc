package analysis

import (
	"fmt"
	"math"

	"github.com/de-tools/metric-atlas/pkg/models/domain"
)

// Percent-change defaults applied when a metric configures none. The values
// are business policy, not physics; keep them overridable per metric.
const (
	DefaultChangeThreshold          = 10
	DefaultCriticalChangeThreshold  = 50
	DefaultSuspiciousPositiveChange = 200
)

// EvaluateThresholds compares the current value against every configured
// bound and the previous value against the change thresholds. Rules are
// independent: several issues may fire at once. An unknown current value
// produces no issues at all.
func EvaluateThresholds(metric domain.Metric, current, previous *float64) []domain.Issue {
	var issues []domain.Issue
	if current == nil {
		return issues
	}
	value := *current
	t := metric.Thresholds

	if t.CriticalMin != nil && value < *t.CriticalMin {
		issues = append(issues, domain.Issue{
			Type:     domain.IssueCriticalBelowMin,
			Severity: domain.SeverityCritical,
			Description: fmt.Sprintf("Значение %s ниже критического минимума %s",
				formatAmount(value), formatAmount(*t.CriticalMin)),
			Value:     value,
			Threshold: *t.CriticalMin,
		})
	}
	if t.CriticalMax != nil && value > *t.CriticalMax {
		issues = append(issues, domain.Issue{
			Type:     domain.IssueCriticalAboveMax,
			Severity: domain.SeverityCritical,
			Description: fmt.Sprintf("Значение %s выше критического максимума %s",
				formatAmount(value), formatAmount(*t.CriticalMax)),
			Value:     value,
			Threshold: *t.CriticalMax,
		})
	}

	// Warnings are subsumed by the matching critical bound: they fire only
	// for the band between the warning and critical thresholds.
	if t.WarningMin != nil && value < *t.WarningMin {
		if t.CriticalMin == nil || value >= *t.CriticalMin {
			issues = append(issues, domain.Issue{
				Type:     domain.IssueWarningBelowMin,
				Severity: domain.SeverityWarning,
				Description: fmt.Sprintf("Значение %s ниже предупреждающего минимума %s",
					formatAmount(value), formatAmount(*t.WarningMin)),
				Value:     value,
				Threshold: *t.WarningMin,
			})
		}
	}
	if t.WarningMax != nil && value > *t.WarningMax {
		if t.CriticalMax == nil || value <= *t.CriticalMax {
			issues = append(issues, domain.Issue{
				Type:     domain.IssueWarningAboveMax,
				Severity: domain.SeverityWarning,
				Description: fmt.Sprintf("Значение %s выше предупреждающего максимума %s",
					formatAmount(value), formatAmount(*t.WarningMax)),
				Value:     value,
				Threshold: *t.WarningMax,
			})
		}
	}

	if previous == nil || *previous == 0 {
		return issues
	}
	changePercent := (value - *previous) / math.Abs(*previous) * 100

	isPositive := false
	switch metric.PositiveDirection {
	case domain.DirectionDown:
		isPositive = changePercent < 0
	default:
		isPositive = changePercent > 0
	}

	if math.Abs(changePercent) < orDefault(t.ChangeThreshold, DefaultChangeThreshold) {
		return issues
	}

	switch {
	case !isPositive && math.Abs(changePercent) >= orDefault(t.CriticalChangeThreshold, DefaultCriticalChangeThreshold):
		issues = append(issues, domain.Issue{
			Type:     domain.IssueCriticalNegativeChange,
			Severity: domain.SeverityCritical,
			Description: fmt.Sprintf("Критическое негативное изменение на %.2f%%",
				math.Abs(changePercent)),
			ChangePercent: changePercent,
			CurrentValue:  value,
			PreviousValue: *previous,
		})
	case !isPositive:
		issues = append(issues, domain.Issue{
			Type:     domain.IssueWarningNegativeChange,
			Severity: domain.SeverityWarning,
			Description: fmt.Sprintf("Негативное изменение на %.2f%%",
				math.Abs(changePercent)),
			ChangePercent: changePercent,
			CurrentValue:  value,
			PreviousValue: *previous,
		})
	case math.Abs(changePercent) >= orDefault(t.SuspiciousPositiveChange, DefaultSuspiciousPositiveChange):
		// A jump this large is suspect even when nominally favorable.
		issues = append(issues, domain.Issue{
			Type:     domain.IssueSuspiciousPositiveChange,
			Severity: domain.SeverityWarning,
			Description: fmt.Sprintf("Подозрительно резкое позитивное изменение на %.2f%%",
				changePercent),
			ChangePercent: changePercent,
			CurrentValue:  value,
			PreviousValue: *previous,
		})
	}

	return issues
}

func orDefault(value *float64, fallback float64) float64 {
	if value != nil {
		return *value
	}
	return fallback
}
