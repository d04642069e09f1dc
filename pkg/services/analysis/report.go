package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/de-tools/metric-atlas/pkg/models/domain"
	"github.com/de-tools/metric-atlas/pkg/services/collector"
)

// GenerateReport assembles the human-readable report. Section order is
// fixed: title, data-source summary, current value, change, critical
// issues, warnings, per-dimension detail, recommendations.
func GenerateReport(
	metric domain.Metric,
	issues []domain.Issue,
	current domain.Period,
	comparison *domain.Period,
	data *domain.CollectedData,
	metricType domain.MetricType,
) string {
	var parts []string

	name := metric.Name
	if name == "" {
		name = "Метрика"
	}

	periodName := PeriodLabel(&current)
	if comparison != nil {
		parts = append(parts, fmt.Sprintf("Анализ метрики '%s' за %s (сравнение с %s)",
			name, periodName, PeriodLabel(comparison)))
	} else {
		parts = append(parts, fmt.Sprintf("Анализ метрики '%s' за %s", name, periodName))
	}
	parts = append(parts, "")

	if data != nil {
		parts = append(parts, dataSummary(data)...)
	}

	if metric.Value != nil {
		parts = append(parts, fmt.Sprintf("Текущее значение: %s", formatAmount(*metric.Value)))
	}
	if metric.Value != nil && metric.ComparisonValue != nil && *metric.ComparisonValue != 0 {
		changePercent := (*metric.Value - *metric.ComparisonValue) / math.Abs(*metric.ComparisonValue) * 100
		changeAbs := *metric.Value - *metric.ComparisonValue

		isPositive := changePercent > 0
		if metric.PositiveDirection == domain.DirectionDown {
			isPositive = changePercent < 0
		}
		indicator := "↓"
		if isPositive {
			indicator = "↑"
		}
		parts = append(parts, fmt.Sprintf("Изменение: %s %.2f%% (%s)",
			indicator, math.Abs(changePercent), formatSigned(changeAbs)))
	}
	parts = append(parts, "")

	critical := filterBySeverity(issues, domain.SeverityCritical)
	if len(critical) > 0 {
		parts = append(parts, "Критические проблемы", "")
		for _, issue := range critical {
			parts = append(parts, "• "+issue.Description)
		}
		parts = append(parts, "")
	}

	warnings := filterBySeverity(issues, domain.SeverityWarning)
	if len(warnings) > 0 {
		parts = append(parts, "Предупреждения", "")
		for _, issue := range warnings {
			parts = append(parts, "• "+issue.Description)
		}
		parts = append(parts, "")
	}

	if len(issues) == 0 {
		parts = append(parts, "Проблем не выявлено. Метрика в пределах нормы.")
	}

	if data != nil && len(data.Drilldowns.ByDimensions) > 0 {
		parts = append(parts, "Детализация по измерениям:", "")
		for _, dimension := range collector.Dimensions {
			rows := data.Drilldowns.ByDimensions[dimension]
			if len(rows) == 0 {
				continue
			}
			top := make([]domain.DrilldownRow, len(rows))
			copy(top, rows)
			sort.SliceStable(top, func(i, j int) bool { return top[i].TotalValue > top[j].TotalValue })
			if len(top) > 5 {
				top = top[:5]
			}

			parts = append(parts, fmt.Sprintf("  %s:", dimension))
			for _, row := range top {
				value := row.DimensionValue
				if value == "" {
					value = "N/A"
				}
				parts = append(parts, fmt.Sprintf("    • %s: %s", value, formatAmount(row.TotalValue)))
			}
			parts = append(parts, "")
		}
	}

	if len(issues) > 0 {
		parts = append(parts, "Рекомендации:", "")
		for _, rec := range GenerateRecommendations(issues, metric, metricType, data, current, comparison) {
			parts = append(parts, "• "+rec)
		}
	}

	return strings.Join(parts, "\n")
}

func dataSummary(data *domain.CollectedData) []string {
	tabs := len(data.Tabs)
	widgets := len(data.Widgets)
	drilldowns := len(data.Drilldowns.ByDimensions)
	related := len(data.RelatedPages)

	if tabs <= 1 && widgets == 0 && drilldowns == 0 {
		return nil
	}

	parts := []string{"Собраны данные из:"}
	if tabs > 1 {
		parts = append(parts, fmt.Sprintf("  • %d вкладок", tabs))
	}
	if widgets > 0 {
		parts = append(parts, fmt.Sprintf("  • %d виджетов", widgets))
	}
	if drilldowns > 0 {
		parts = append(parts, fmt.Sprintf("  • %d дрилл-даунов", drilldowns))
	}
	if related > 0 {
		parts = append(parts, fmt.Sprintf("  • %d связанных страниц", related))
	}
	return append(parts, "")
}

func filterBySeverity(issues []domain.Issue, severity domain.Severity) []domain.Issue {
	var filtered []domain.Issue
	for _, issue := range issues {
		if issue.Severity == severity {
			filtered = append(filtered, issue)
		}
	}
	return filtered
}

func findIssue(issues []domain.Issue, issueType domain.IssueType) *domain.Issue {
	for i := range issues {
		if issues[i].Type == issueType {
			return &issues[i]
		}
	}
	return nil
}

// recommendations accumulates advisory sentences, dropping exact-text
// duplicates.
type recommendations struct {
	items []string
	seen  map[string]struct{}
}

func (r *recommendations) add(text string) {
	if r.seen == nil {
		r.seen = map[string]struct{}{}
	}
	if _, dup := r.seen[text]; dup {
		return
	}
	r.seen[text] = struct{}{}
	r.items = append(r.items, text)
}

// GenerateRecommendations turns detected issues into concrete advisories.
// Type-specific rules run first, then the generic rules over every critical
// issue, then drill-down observations; a report with issues never leaves
// the block empty thanks to the trailing fallback.
func GenerateRecommendations(
	issues []domain.Issue,
	metric domain.Metric,
	metricType domain.MetricType,
	data *domain.CollectedData,
	current domain.Period,
	comparison *domain.Period,
) []string {
	recs := &recommendations{}

	critical := filterBySeverity(issues, domain.SeverityCritical)
	warnings := filterBySeverity(issues, domain.SeverityWarning)

	switch metricType {
	case domain.MetricFinancial:
		financialRecommendations(recs, metric, critical, warnings, data)
	case domain.MetricSales:
		if drop := findIssue(warnings, domain.IssueProductSalesDrop); drop != nil {
			recs.add(fmt.Sprintf(
				"Продажи товара '%s' упали на %.2f%%. Проверьте: наличие товара на складе, изменения в цене, конкуренцию, сезонность спроса.",
				drop.Product, math.Abs(drop.ChangePercent)))
			recs.add(fmt.Sprintf(
				"Проанализируйте продажи по клиентам для товара '%s'. Возможно, потеря ключевых клиентов или изменение их предпочтений.",
				drop.Product))
		}
	case domain.MetricOperations:
		if degradation := findIssue(critical, domain.IssuePerformanceDegradation); degradation != nil {
			recs.add(fmt.Sprintf(
				"Производительность критически ухудшилась на %.2f%%. Проверьте: загрузку системы, проблемы с инфраструктурой, изменения в процессах, недостаток ресурсов.",
				math.Abs(degradation.TrendPercent)))
			recs.add("Используйте детализацию по процессам и времени выполнения для выявления узких мест.")
		}
	case domain.MetricQuality:
		if source := findIssue(warnings, domain.IssueQualitySource); source != nil {
			recs.add(fmt.Sprintf(
				"Высокая концентрация проблем в источнике '%s' (%.0f случаев). Требуется приоритетный анализ и устранение проблем в этом источнике.",
				source.Source, source.Count))
			recs.add(fmt.Sprintf(
				"Проведите детальный анализ процессов в источнике '%s'. Возможно, требуется пересмотр процедур, дополнительное обучение персонала или улучшение контроля качества.",
				source.Source))
		}
	}

	genericCriticalRecommendations(recs, metric, metricType, critical, data)
	drilldownRecommendations(recs, data)

	if len(recs.items) == 0 && len(issues) > 0 {
		recs.add("Используйте детализацию по измерениям для более глубокого понимания причин изменений.")
		if comparison != nil {
			recs.add("Сравните показатели с аналогичными периодами прошлого года для выявления трендов.")
		}
		recs.add("Проверьте влияние внешних факторов (сезонность, изменения в бизнес-процессах, рыночные условия).")
	}

	return recs.items
}

// financialRecommendations handles the ranked cost-integrity sequence: a
// negative cost suppresses the lower-priority financial advisories, then
// the spike-from-zero sequence, then correction distortion. Revenue and
// profit drops are reported independently of that ranking.
func financialRecommendations(
	recs *recommendations,
	metric domain.Metric,
	critical, warnings []domain.Issue,
	data *domain.CollectedData,
) {
	negativeCost := findIssue(critical, domain.IssueNegativeCost)
	costSpike := findIssue(critical, domain.IssueCostSpikeFromZero)

	switch {
	case negativeCost != nil:
		recs.add(fmt.Sprintf(
			"КРИТИЧЕСКАЯ ПРОБЛЕМА: Себестоимость отрицательная (%s руб.), рентабельность аномально высокая (%.2f%%). Это указывает на серьезные ошибки в учете себестоимости, которые требуют немедленного исправления.",
			formatAmount(negativeCost.Cost), negativeCost.Profitability))
		recs.add("Необходимо срочно провести детальный анализ причин коррекций себестоимости. Проверьте: ошибки в расчетах, неправильное отражение операций, проблемы в системе учета, некорректные проводки.")
		recs.add("После выявления причин коррекций: исправьте ошибки в учете, пересмотрите методы расчета себестоимости, внесите корректирующие проводки. Если исправление невозможно в текущем периоде, задокументируйте причины и исключите искаженные данные из операционного анализа, но обязательно проведите мероприятия по предотвращению повторения такой ситуации.")
		recs.add("Для временного анализа операционной деятельности используйте детализацию по себестоимости и показатели без учета коррекций, но помните: это временная мера. Основная задача - устранение причин коррекций.")
	case costSpike != nil:
		recs.add(fmt.Sprintf(
			"КРИТИЧЕСКАЯ ПРОБЛЕМА: В предыдущем периоде себестоимость резко выросла с 0 до %s руб. из-за коррекции. Валовая прибыль упала на %.2f%%. Такие коррекции не должны происходить в нормальной работе.",
			formatAmount(costSpike.CostIncrease), math.Abs(costSpike.GrossProfitChange)))
		recs.add("Необходимо разобраться в причинах коррекции себестоимости в предыдущем периоде. Проверьте: почему себестоимость была равна 0, что привело к необходимости коррекции, какие ошибки в учете были допущены.")
		recs.add("Исправьте ошибки в учете и пересмотрите процессы расчета себестоимости. Внедрите меры контроля для предотвращения повторения: регулярная проверка расчетов, автоматизация контроля корректности данных, обучение персонала.")
	default:
		if distortion := findIssue(warnings, domain.IssueCostCorrectionDistortion); distortion != nil {
			recs.add(fmt.Sprintf(
				"ВНИМАНИЕ: Обнаружены коррекции себестоимости (текущий период: %s руб., предыдущий: %s руб.). Коррекции искажают финансовые показатели и указывают на проблемы в учете.",
				formatAmount(distortion.CurrentCorrection), formatAmount(distortion.PreviousCorrection)))
			recs.add("Проведите анализ причин коррекций. Коррекции себестоимости не должны быть регулярным явлением. Если они происходят систематически, это указывает на проблемы в процессах учета, которые требуют исправления.")
			recs.add("После выявления причин: исправьте ошибки в учете, улучшите процессы расчета себестоимости, внедрите меры контроля. Если исправление невозможно немедленно, исключите искаженные данные из операционного анализа, но обязательно проведите мероприятия по предотвращению повторения.")
		}
	}

	name := strings.ToLower(metric.Name)
	if drop := findIssue(critical, domain.IssueCriticalNegativeChange); drop != nil {
		if matchesAnyKeyword(name, []string{"выручка", "revenue", "сумма со скидкой"}) {
			recs.add(fmt.Sprintf(
				"Выручка критически упала на %.2f%%. Проанализируйте причины: сезонность, изменения в ассортименте, проблемы с поставками, потеря ключевых клиентов.",
				math.Abs(drop.ChangePercent)))
			if data != nil {
				recs.add("Используйте детализацию по товарам, клиентам и филиалам для выявления основных причин падения.")
			}
		}
		if matchesAnyKeyword(name, []string{"прибыль", "profit"}) {
			recs.add(fmt.Sprintf(
				"Прибыль критически упала на %.2f%%. Проверьте: изменение себестоимости, рост расходов, падение выручки, изменение структуры продаж.",
				math.Abs(drop.ChangePercent)))
			recs.add("Используйте детализацию по статьям расходов и себестоимости для выявления основных факторов.")
		}
	}
}

func genericCriticalRecommendations(
	recs *recommendations,
	metric domain.Metric,
	metricType domain.MetricType,
	critical []domain.Issue,
	data *domain.CollectedData,
) {
	name := metric.Name
	if name == "" {
		name = "метрика"
	}

	for _, issue := range critical {
		switch issue.Type {
		case domain.IssueCriticalBelowMin:
			recs.add(fmt.Sprintf(
				"Значение метрики '%s' (%s) критически ниже нормы (%s). Необходимо срочно принять меры для повышения показателя.",
				name, formatAmount(issue.Value), formatAmount(issue.Threshold)))
			switch metricType {
			case domain.MetricSales:
				recs.add("Рассмотрите возможность проведения маркетинговых акций, изменения ценовой политики или улучшения качества товара.")
			case domain.MetricOperations:
				recs.add("Проверьте эффективность процессов, возможность оптимизации или необходимость дополнительных ресурсов.")
			}
		case domain.IssueCriticalAboveMax:
			recs.add(fmt.Sprintf(
				"Значение метрики '%s' (%s) критически выше нормы (%s). Необходимо принять меры для снижения показателя.",
				name, formatAmount(issue.Value), formatAmount(issue.Threshold)))
			switch metricType {
			case domain.MetricOperations:
				recs.add("Проверьте загрузку системы, возможность масштабирования или необходимость оптимизации процессов.")
			case domain.MetricQuality:
				recs.add("Требуется срочный анализ причин и внедрение корректирующих мер для снижения проблем.")
			}
		case domain.IssueCriticalNegativeChange:
			recs.add(fmt.Sprintf(
				"Метрика '%s' критически упала на %.2f%%. Требуется детальный анализ причин и разработка плана восстановления.",
				name, math.Abs(issue.ChangePercent)))
			if data != nil {
				recs.add("Используйте детализацию по измерениям для выявления основных факторов падения.")
			}
		}
	}
}

func drilldownRecommendations(recs *recommendations, data *domain.CollectedData) {
	if data == nil || len(data.Drilldowns.ByDimensions) == 0 {
		return
	}

	for _, dimension := range collector.Dimensions {
		rows := data.Drilldowns.ByDimensions[dimension]
		if len(rows) == 0 {
			continue
		}

		var sum float64
		for _, row := range rows {
			sum += row.TotalValue
		}
		avg := sum / float64(len(rows))

		var (
			outliers   []string
			multiplier float64
		)
		for _, row := range rows {
			if row.TotalValue <= avg*2 {
				continue
			}
			if len(outliers) < 3 {
				outliers = append(outliers, row.DimensionValue)
			}
			if avg > 0 && row.TotalValue/avg > multiplier {
				multiplier = row.TotalValue / avg
			}
		}
		if len(outliers) > 0 {
			recs.add(fmt.Sprintf(
				"Обратите внимание на %s: %s показывают аномально высокие значения (в %.1f раз выше среднего). Требуется детальный анализ.",
				dimension, strings.Join(outliers, ", "), multiplier))
		}

		var worst *domain.DrilldownRow
		for i := range rows {
			if rows[i].ChangePercent == nil {
				continue
			}
			if worst == nil || *rows[i].ChangePercent < *worst.ChangePercent {
				worst = &rows[i]
			}
		}
		if worst != nil && *worst.ChangePercent < -20 {
			recs.add(fmt.Sprintf(
				"Критическое падение в %s '%s': на %.2f%% (текущее значение: %s). Требуется срочный анализ причин.",
				dimension, worst.DimensionValue, math.Abs(*worst.ChangePercent), formatAmount(worst.TotalValue)))
		}
	}
}
