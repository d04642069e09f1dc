package collector

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/de-tools/metric-atlas/pkg/models/domain"
	sqlstore "github.com/de-tools/metric-atlas/pkg/store/sql"
	"github.com/rs/zerolog"
)

// Dimensions is the fixed drill-down vocabulary. Only these identifiers are
// ever interpolated into query text; filter values always travel as bound
// parameters.
var Dimensions = []string{"branch", "product", "supplier", "category", "region"}

const drilldownRowLimit = 50

var dimensionAllowed = func() map[string]bool {
	m := make(map[string]bool, len(Dimensions))
	for _, d := range Dimensions {
		m[d] = true
	}
	return m
}()

func (c *Collector) collectDrilldowns(
	ctx context.Context,
	metric domain.Metric,
	filters domain.Filters,
	period *domain.PeriodInput,
) domain.Drilldowns {
	drilldowns := domain.Drilldowns{
		ByDimensions: map[string][]domain.DrilldownRow{},
	}
	if c.executor == nil {
		return drilldowns
	}

	for _, dimension := range Dimensions {
		if _, active := filters[dimension]; !active {
			continue
		}
		rows, err := c.drilldownByDimension(ctx, metric, dimension, period)
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("dimension", dimension).Msg("dimension drilldown failed")
			continue
		}
		if len(rows) > 0 {
			drilldowns.ByDimensions[dimension] = rows
		}
	}

	if series, err := c.drilldownByTime(ctx, metric, period); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("time drilldown failed")
	} else if series != nil {
		drilldowns.ByTime = series
	}

	if variants, err := c.drilldownByFilters(ctx, metric, filters, period); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("filter drilldown failed")
	} else if variants != nil {
		drilldowns.ByFilters = variants
	}

	return drilldowns
}

func (c *Collector) drilldownByDimension(
	ctx context.Context,
	metric domain.Metric,
	dimension string,
	period *domain.PeriodInput,
) ([]domain.DrilldownRow, error) {
	if !dimensionAllowed[dimension] {
		return nil, fmt.Errorf("unknown drilldown dimension: %s", dimension)
	}

	query := fmt.Sprintf(`
		SELECT
			%[1]s AS dimension_value,
			SUM(value) AS total_value,
			COUNT(*) AS count
		FROM metrics_table
		WHERE metric_name = :metric_name
		  AND period_start >= :start
		  AND period_end <= :end
		GROUP BY %[1]s
		ORDER BY total_value DESC
		LIMIT %[2]d`, dimension, drilldownRowLimit)

	rows, err := c.executor.Execute(ctx, query, periodParams(metric, period))
	if err != nil {
		return nil, err
	}

	result := make([]domain.DrilldownRow, 0, len(rows))
	for _, row := range rows {
		item := domain.DrilldownRow{
			DimensionValue: text(row["dimension_value"]),
		}
		if v, ok := numeric(row["total_value"]); ok {
			item.TotalValue = v
		}
		if v, ok := numeric(row["count"]); ok {
			item.Count = int(v)
		}
		if v, ok := numeric(row["change_percent"]); ok {
			cp := v
			item.ChangePercent = &cp
		}
		result = append(result, item)
	}
	return result, nil
}

func (c *Collector) drilldownByTime(
	ctx context.Context,
	metric domain.Metric,
	period *domain.PeriodInput,
) (*domain.TimeSeries, error) {
	if period == nil {
		return nil, nil
	}

	query := `
		SELECT
			DATE(period_date) AS date,
			SUM(value) AS daily_value
		FROM metrics_table
		WHERE metric_name = :metric_name
		  AND period_date >= :start
		  AND period_date <= :end
		GROUP BY DATE(period_date)
		ORDER BY date`

	rows, err := c.executor.Execute(ctx, query, periodParams(metric, period))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	daily := make([]domain.TimePoint, 0, len(rows))
	for _, row := range rows {
		point := domain.TimePoint{Date: text(row["date"])}
		if v, ok := numeric(row["daily_value"]); ok {
			point.Value = v
		}
		daily = append(daily, point)
	}

	return &domain.TimeSeries{
		Daily: daily,
		Trend: ComputeTrend(daily),
	}, nil
}

func (c *Collector) drilldownByFilters(
	ctx context.Context,
	metric domain.Metric,
	filters domain.Filters,
	period *domain.PeriodInput,
) (*domain.FilterDrilldown, error) {
	if len(filters) == 0 {
		return nil, nil
	}

	// Keys are captured once, in sorted order, so variants are generated
	// deterministically run to run.
	keys := filters.Keys()

	variants := []domain.FilterVariant{{Name: "all_filters", Filters: filters}}
	for _, dropped := range keys {
		variant := domain.Filters{}
		for k, v := range filters {
			if k != dropped {
				variant[k] = v
			}
		}
		variants = append(variants, domain.FilterVariant{
			Name:    "without_" + dropped,
			Filters: variant,
		})
	}

	for i := range variants {
		total, err := c.variantTotal(ctx, metric, variants[i].Filters, period)
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("variant", variants[i].Name).Msg("filter variant probe failed")
			continue
		}
		variants[i].Total = total
	}

	return &domain.FilterDrilldown{
		Variants:   variants,
		Comparison: compareVariants(variants),
	}, nil
}

func (c *Collector) variantTotal(
	ctx context.Context,
	metric domain.Metric,
	filters domain.Filters,
	period *domain.PeriodInput,
) (*float64, error) {
	query := `
		SELECT SUM(value) AS total_value
		FROM metrics_table
		WHERE metric_name = :metric_name
		  AND period_start >= :start
		  AND period_end <= :end`
	params := periodParams(metric, period)

	for _, key := range filters.Keys() {
		if !dimensionAllowed[key] {
			continue
		}
		query += fmt.Sprintf(" AND %[1]s = :%[1]s", key)
		params[key] = filters[key]
	}

	rows, err := c.executor.Execute(ctx, query, params)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	if v, ok := numeric(rows[0]["total_value"]); ok {
		return &v, nil
	}
	return nil, nil
}

// compareVariants measures every drop-one-filter variant against the
// baseline. Impact bands: high >20%, medium >10%, low otherwise. Ties on
// the most impactful variant resolve to the first one seen.
func compareVariants(variants []domain.FilterVariant) *domain.VariantComparison {
	if len(variants) == 0 || variants[0].Total == nil {
		return nil
	}
	base := *variants[0].Total

	var comparisons []domain.VariantImpact
	for _, variant := range variants[1:] {
		if variant.Total == nil || base == 0 {
			continue
		}
		change := (*variant.Total - base) / base * 100
		impact := "low"
		switch {
		case math.Abs(change) > 20:
			impact = "high"
		case math.Abs(change) > 10:
			impact = "medium"
		}
		comparisons = append(comparisons, domain.VariantImpact{
			Variant:       variant.Name,
			Value:         *variant.Total,
			ChangePercent: change,
			Impact:        impact,
		})
	}

	comparison := &domain.VariantComparison{BaseValue: base, Comparisons: comparisons}
	for i := range comparisons {
		if comparison.MostImpactful == nil ||
			math.Abs(comparisons[i].ChangePercent) > math.Abs(comparison.MostImpactful.ChangePercent) {
			comparison.MostImpactful = &comparisons[i]
		}
	}
	return comparison
}

func periodParams(metric domain.Metric, period *domain.PeriodInput) sqlstore.Params {
	params := sqlstore.Params{
		"metric_name": metric.Name,
		"start":       nil,
		"end":         nil,
	}
	if period != nil {
		params["start"] = period.Start
		params["end"] = period.End
	}
	return params
}

func numeric(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case []byte:
		f, err := strconv.ParseFloat(string(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func text(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}
