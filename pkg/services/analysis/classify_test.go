package analysis

import (
	"testing"

	"github.com/de-tools/metric-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name     string
		expected domain.MetricType
	}{
		{"Выручка", domain.MetricFinancial},
		{"Сумма со скидкой", domain.MetricFinancial},
		{"Net Profit", domain.MetricFinancial},
		{"Рентабельность продаж", domain.MetricFinancial}, // financial wins over sales
		{"Количество заказов", domain.MetricSales},
		{"Конверсия в покупку", domain.MetricSales},
		{"Среднее время обработки", domain.MetricOperations},
		{"Загрузка склада", domain.MetricOperations},
		{"Процент брака", domain.MetricQuality},
		{"Ошибка отгрузки", domain.MetricQuality},
		{"Температура на складе", domain.MetricGeneral},
		{"", domain.MetricGeneral},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.expected, Classify(tc.name), "metric: %s", tc.name)
	}
}

func TestClassify_CaseInsensitive(t *testing.T) {
	assert.Equal(t, domain.MetricFinancial, Classify("REVENUE TOTAL"))
	assert.Equal(t, domain.MetricQuality, Classify("QUALITY score"))
}
