package analysis

import (
	"strings"

	"github.com/de-tools/metric-atlas/pkg/models/domain"
)

// Keyword vocabularies mix the domain language and English; both are
// matched case-insensitively as substrings. Order matters: the first
// vocabulary with a hit wins.
var classifierVocabularies = []struct {
	metricType domain.MetricType
	keywords   []string
}{
	{domain.MetricFinancial, []string{
		"сумма со скидкой", "выручка", "revenue", "доход",
		"себестоимость", "cost", "стоимость",
		"валовая прибыль", "gross profit", "gross_profit",
		"чистая прибыль", "net profit", "net_profit",
		"рентабельность", "profitability",
		"расходы", "expenses", "прочие расходы",
		"прибыль", "profit", "убыток", "loss",
	}},
	{domain.MetricSales, []string{
		"продаж", "sale", "заказ", "order",
		"клиент", "customer", "покупатель",
		"товар", "product", "номенклатура",
		"конверсия", "conversion", "чек", "check",
	}},
	{domain.MetricOperations, []string{
		"время", "time", "длительность", "duration",
		"процесс", "process", "операция", "operation",
		"эффективность", "efficiency", "производительность", "productivity",
		"загрузка", "load", "использование", "utilization",
	}},
	{domain.MetricQuality, []string{
		"качество", "quality", "дефект", "defect",
		"ошибка", "error", "брак", "reject",
		"соответствие", "compliance", "стандарт", "standard",
	}},
}

// Classify tags a metric into the type that selects its specialized
// analysis. No match yields the general type.
func Classify(metricName string) domain.MetricType {
	name := strings.ToLower(metricName)
	for _, vocabulary := range classifierVocabularies {
		for _, keyword := range vocabulary.keywords {
			if strings.Contains(name, keyword) {
				return vocabulary.metricType
			}
		}
	}
	return domain.MetricGeneral
}
