package analysis

import (
	"strings"
	"testing"

	"github.com/de-tools/metric-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var march = domain.Period{Start: "2025-03-01", End: "2025-03-31"}
var february = domain.Period{Start: "2025-02-01", End: "2025-02-28"}

func TestGenerateReport_NoIssues(t *testing.T) {
	metric := domain.Metric{Name: "Выручка", Value: floatPtr(100000)}

	report := GenerateReport(metric, nil, march, &february, nil, domain.MetricFinancial)

	assert.Contains(t, report, "Анализ метрики 'Выручка' за Март (сравнение с Февраль)")
	assert.Contains(t, report, "Текущее значение: 100,000.00")
	assert.Contains(t, report, "Проблем не выявлено. Метрика в пределах нормы.")
	assert.NotContains(t, report, "Рекомендации:")
	assert.NotContains(t, report, "Критические проблемы")
}

func TestGenerateReport_ChangeLine(t *testing.T) {
	metric := domain.Metric{
		Name:            "Выручка",
		Value:           floatPtr(90000),
		ComparisonValue: floatPtr(100000),
	}

	report := GenerateReport(metric, nil, march, &february, nil, domain.MetricFinancial)

	assert.Contains(t, report, "Изменение: ↓ 10.00% (-10,000.00)")
}

func TestGenerateReport_ChangeIndicatorFollowsDirection(t *testing.T) {
	// A falling cost-like metric is an improvement: arrow up.
	metric := domain.Metric{
		Name:              "Себестоимость",
		Value:             floatPtr(90000),
		ComparisonValue:   floatPtr(100000),
		PositiveDirection: domain.DirectionDown,
	}

	report := GenerateReport(metric, nil, march, &february, nil, domain.MetricFinancial)

	assert.Contains(t, report, "Изменение: ↑ 10.00% (-10,000.00)")
}

func TestGenerateReport_IssueSections(t *testing.T) {
	issues := []domain.Issue{
		{Type: domain.IssueWarningNegativeChange, Severity: domain.SeverityWarning,
			Description: "Негативное изменение на 15.00%"},
		{Type: domain.IssueCriticalBelowMin, Severity: domain.SeverityCritical,
			Description: "Значение 40.00 ниже критического минимума 50.00"},
	}

	report := GenerateReport(domain.Metric{Name: "Выручка"}, issues, march, nil, nil, domain.MetricGeneral)

	criticalAt := strings.Index(report, "Критические проблемы")
	warningAt := strings.Index(report, "Предупреждения")
	require.GreaterOrEqual(t, criticalAt, 0)
	require.GreaterOrEqual(t, warningAt, 0)
	assert.Less(t, criticalAt, warningAt)
	assert.Contains(t, report, "• Значение 40.00 ниже критического минимума 50.00")
	assert.Contains(t, report, "• Негативное изменение на 15.00%")
	assert.NotContains(t, report, "Проблем не выявлено")
}

func TestGenerateReport_DataSummaryAndDrilldownDetail(t *testing.T) {
	data := &domain.CollectedData{
		Tabs:     map[string]domain.Tab{"current": {}, "finance": {}},
		TabOrder: []string{"current", "finance"},
		Widgets:  map[string]domain.Widget{"w1": {}},
		Drilldowns: domain.Drilldowns{
			ByDimensions: map[string][]domain.DrilldownRow{
				"branch": {
					{DimensionValue: "Казань", TotalValue: 200},
					{DimensionValue: "Москва", TotalValue: 5000},
					{DimensionValue: "Тверь", TotalValue: 300},
					{DimensionValue: "Омск", TotalValue: 400},
					{DimensionValue: "Сочи", TotalValue: 500},
					{DimensionValue: "Пермь", TotalValue: 600},
				},
			},
		},
	}

	report := GenerateReport(domain.Metric{Name: "Выручка"}, nil, march, nil, data, domain.MetricFinancial)

	assert.Contains(t, report, "Собраны данные из:")
	assert.Contains(t, report, "• 2 вкладок")
	assert.Contains(t, report, "• 1 виджетов")
	assert.Contains(t, report, "• 1 дрилл-даунов")

	assert.Contains(t, report, "Детализация по измерениям:")
	assert.Contains(t, report, "  branch:")
	assert.Contains(t, report, "    • Москва: 5,000.00")
	// Only the top five make the report; the smallest row is cut.
	assert.NotContains(t, report, "Казань")
}

func TestGenerateRecommendations_Deduplicated(t *testing.T) {
	issues := []domain.Issue{
		{Type: domain.IssueCriticalNegativeChange, Severity: domain.SeverityCritical, ChangePercent: -60},
		{Type: domain.IssueCriticalNegativeChange, Severity: domain.SeverityCritical, ChangePercent: -60},
	}

	recs := GenerateRecommendations(issues, domain.Metric{Name: "Оборот"}, domain.MetricGeneral,
		nil, march, &february)

	var drops int
	for _, rec := range recs {
		if strings.Contains(rec, "критически упала на 60.00%") {
			drops++
		}
	}
	assert.Equal(t, 1, drops)
}

func TestGenerateRecommendations_FallbackWhenNothingSpecificApplies(t *testing.T) {
	issues := []domain.Issue{
		{Type: domain.IssueWarningNegativeChange, Severity: domain.SeverityWarning, ChangePercent: -15},
	}

	recs := GenerateRecommendations(issues, domain.Metric{Name: "Выручка"}, domain.MetricFinancial,
		nil, march, &february)

	require.Len(t, recs, 3)
	assert.Contains(t, recs[0], "детализацию по измерениям")
	assert.Contains(t, recs[1], "аналогичными периодами")
	assert.Contains(t, recs[2], "внешних факторов")
}

func TestGenerateRecommendations_FallbackWithoutComparison(t *testing.T) {
	issues := []domain.Issue{
		{Type: domain.IssueWarningNegativeChange, Severity: domain.SeverityWarning, ChangePercent: -15},
	}

	recs := GenerateRecommendations(issues, domain.Metric{Name: "Выручка"}, domain.MetricFinancial,
		nil, march, nil)

	require.Len(t, recs, 2)
}

func TestGenerateRecommendations_NegativeCostSequence(t *testing.T) {
	issues := []domain.Issue{
		{Type: domain.IssueNegativeCost, Severity: domain.SeverityCritical,
			Cost: -5000, Profitability: 150},
		{Type: domain.IssueCostCorrectionDistortion, Severity: domain.SeverityWarning,
			CurrentCorrection: 15000, PreviousCorrection: -2000},
	}

	recs := GenerateRecommendations(issues, domain.Metric{Name: "Себестоимость"}, domain.MetricFinancial,
		nil, march, &february)

	require.NotEmpty(t, recs)
	assert.Contains(t, recs[0], "КРИТИЧЕСКАЯ ПРОБЛЕМА: Себестоимость отрицательная (-5,000.00 руб.)")
	// The negative-cost sequence outranks the distortion advisories.
	for _, rec := range recs {
		assert.NotContains(t, rec, "ВНИМАНИЕ: Обнаружены коррекции")
	}
}

func TestGenerateRecommendations_SalesDrop(t *testing.T) {
	issues := []domain.Issue{
		{Type: domain.IssueProductSalesDrop, Severity: domain.SeverityWarning,
			Product: "Молоко", ChangePercent: -35},
	}

	recs := GenerateRecommendations(issues, domain.Metric{Name: "Продажи"}, domain.MetricSales,
		nil, march, &february)

	require.Len(t, recs, 2)
	assert.Contains(t, recs[0], "Продажи товара 'Молоко' упали на 35.00%")
	assert.Contains(t, recs[1], "Проанализируйте продажи по клиентам")
}

func TestGenerateRecommendations_DrilldownOutliers(t *testing.T) {
	data := &domain.CollectedData{Drilldowns: domain.Drilldowns{
		ByDimensions: map[string][]domain.DrilldownRow{
			"branch": {
				{DimensionValue: "Москва", TotalValue: 900, ChangePercent: floatPtr(-30)},
				{DimensionValue: "Тверь", TotalValue: 100},
				{DimensionValue: "Омск", TotalValue: 100},
				{DimensionValue: "Сочи", TotalValue: 100},
			},
		},
	}}
	issues := []domain.Issue{
		{Type: domain.IssueWarningNegativeChange, Severity: domain.SeverityWarning},
	}

	recs := GenerateRecommendations(issues, domain.Metric{Name: "Оборот"}, domain.MetricGeneral,
		data, march, &february)

	var outlier, drop bool
	for _, rec := range recs {
		if strings.Contains(rec, "Обратите внимание на branch: Москва") {
			outlier = true
		}
		if strings.Contains(rec, "Критическое падение в branch 'Москва': на 30.00%") {
			drop = true
		}
	}
	assert.True(t, outlier, "outlier advisory missing: %v", recs)
	assert.True(t, drop, "sharp drop advisory missing: %v", recs)
}
