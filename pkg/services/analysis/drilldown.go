package analysis

import (
	"fmt"
	"sort"

	"github.com/de-tools/metric-atlas/pkg/models/domain"
	"github.com/de-tools/metric-atlas/pkg/services/collector"
)

const (
	dimensionAnomalyRatio    = 3
	negativeTrendPercent     = 20
	relatedPageVarianceRatio = 5
)

// AnalyzeDrilldowns applies the generic anomaly rules that run for every
// metric type: skewed dimension distributions and a significant downward
// time trend.
func AnalyzeDrilldowns(drilldowns domain.Drilldowns) []domain.Issue {
	var issues []domain.Issue

	for _, dimension := range collector.Dimensions {
		rows := drilldowns.ByDimensions[dimension]
		if len(rows) == 0 {
			continue
		}

		var (
			max   float64
			sum   float64
			count int
		)
		for _, row := range rows {
			if row.TotalValue == 0 {
				continue
			}
			sum += row.TotalValue
			count++
			if row.TotalValue > max {
				max = row.TotalValue
			}
		}
		if count == 0 {
			continue
		}
		avg := sum / float64(count)

		if avg > 0 && max > avg*dimensionAnomalyRatio {
			issues = append(issues, domain.Issue{
				Type:     domain.IssueDimensionAnomaly,
				Severity: domain.SeverityWarning,
				Description: fmt.Sprintf(
					"Аномалия в распределении по %s: максимальное значение в %.1f раз превышает среднее",
					dimension, max/avg),
				Dimension: dimension,
				MaxValue:  max,
				AvgValue:  avg,
			})
		}
	}

	if series := drilldowns.ByTime; series != nil && series.Trend != nil && series.Trend.IsSignificant {
		trend := series.Trend
		if trend.Direction == domain.DirectionDown && trend.Percent > negativeTrendPercent {
			issues = append(issues, domain.Issue{
				Type:     domain.IssueNegativeTrend,
				Severity: domain.SeverityWarning,
				Description: fmt.Sprintf(
					"Отрицательный тренд: падение на %.2f%% во второй половине периода",
					trend.Percent),
				TrendPercent: trend.Percent,
			})
		}
	}

	return issues
}

// AnalyzeRelatedPages flags related pages that came back empty or whose
// values vary wildly around the mean.
func AnalyzeRelatedPages(pages map[string]domain.RelatedPage) []domain.Issue {
	var issues []domain.Issue

	pageTypes := make([]string, 0, len(pages))
	for pageType := range pages {
		pageTypes = append(pageTypes, pageType)
	}
	sort.Strings(pageTypes)

	for _, pageType := range pageTypes {
		summary := pages[pageType].Summary
		if summary == nil {
			continue
		}
		switch {
		case summary.Count == 0:
			issues = append(issues, domain.Issue{
				Type:        domain.IssueNoRelatedData,
				Severity:    domain.SeverityWarning,
				Description: fmt.Sprintf("На связанной странице %s нет данных", pageType),
				PageType:    pageType,
			})
		case summary.Avg > 0 && summary.Max > summary.Avg*relatedPageVarianceRatio:
			issues = append(issues, domain.Issue{
				Type:     domain.IssueHighVariance,
				Severity: domain.SeverityWarning,
				Description: fmt.Sprintf(
					"Высокая вариативность данных на странице %s: максимальное значение в %.1f раз превышает среднее",
					pageType, summary.Max/summary.Avg),
				PageType: pageType,
			})
		}
	}

	return issues
}
