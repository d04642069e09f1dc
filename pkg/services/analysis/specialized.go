package analysis

import (
	"fmt"

	"github.com/de-tools/metric-atlas/pkg/models/domain"
	"github.com/de-tools/metric-atlas/pkg/services/collector"
)

const (
	productDropPercent        = -20
	performanceDropPercent    = 30
	qualityConcentrationRatio = 2
)

// analyzeSales looks for the product with the sharpest decline in the
// product drill-down. Ties resolve to the first row seen.
func analyzeSales(data *domain.CollectedData) []domain.Issue {
	var issues []domain.Issue

	rows := data.Drilldowns.ByDimensions["product"]
	var worst *domain.DrilldownRow
	for i := range rows {
		if rows[i].ChangePercent == nil {
			continue
		}
		if worst == nil || *rows[i].ChangePercent < *worst.ChangePercent {
			worst = &rows[i]
		}
	}

	if worst != nil && *worst.ChangePercent < productDropPercent {
		issues = append(issues, domain.Issue{
			Type:     domain.IssueProductSalesDrop,
			Severity: domain.SeverityWarning,
			Description: fmt.Sprintf("Резкое падение продаж товара \"%s\": %.2f%%",
				worst.DimensionValue, *worst.ChangePercent),
			Product:       worst.DimensionValue,
			ChangePercent: *worst.ChangePercent,
		})
	}
	return issues
}

// analyzeOperations escalates a significant downward trend steeper than the
// generic 20% warning threshold into a critical degradation.
func analyzeOperations(data *domain.CollectedData) []domain.Issue {
	var issues []domain.Issue

	series := data.Drilldowns.ByTime
	if series == nil || series.Trend == nil || !series.Trend.IsSignificant {
		return issues
	}
	trend := series.Trend
	if trend.Direction == domain.DirectionDown && trend.Percent > performanceDropPercent {
		issues = append(issues, domain.Issue{
			Type:     domain.IssuePerformanceDegradation,
			Severity: domain.SeverityCritical,
			Description: fmt.Sprintf("Критическое ухудшение производительности: падение на %.2f%%",
				trend.Percent),
			TrendPercent: trend.Percent,
		})
	}
	return issues
}

// analyzeQuality flags dimension values where problems concentrate: the
// worst row holds more than twice the dimension average.
func analyzeQuality(data *domain.CollectedData) []domain.Issue {
	var issues []domain.Issue

	for _, dimension := range collector.Dimensions {
		rows := data.Drilldowns.ByDimensions[dimension]
		if len(rows) == 0 {
			continue
		}

		var (
			sum   float64
			worst = &rows[0]
		)
		for i := range rows {
			sum += rows[i].TotalValue
			if rows[i].TotalValue > worst.TotalValue {
				worst = &rows[i]
			}
		}
		avg := sum / float64(len(rows))

		if worst.TotalValue > 0 && worst.TotalValue > avg*qualityConcentrationRatio {
			issues = append(issues, domain.Issue{
				Type:     domain.IssueQualitySource,
				Severity: domain.SeverityWarning,
				Description: fmt.Sprintf("Высокая концентрация проблем в %s \"%s\": %.0f случаев",
					dimension, worst.DimensionValue, worst.TotalValue),
				Source: worst.DimensionValue,
				Count:  worst.TotalValue,
			})
		}
	}
	return issues
}
