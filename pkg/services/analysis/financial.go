package analysis

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/de-tools/metric-atlas/pkg/models/domain"
	sqlstore "github.com/de-tools/metric-atlas/pkg/store/sql"
	"github.com/rs/zerolog"
)

// financialLine pairs one financial indicator with its comparison value and
// percent change.
type financialLine struct {
	Current  *float64
	Previous *float64
	Change   *float64
}

var financialLineKeywords = []struct {
	key      string
	keywords []string
}{
	{"revenue", []string{"сумма со скидкой", "выручка", "revenue", "доход"}},
	{"cost", []string{"себестоимость", "cost", "стоимость"}},
	{"gross_profit", []string{"валовая прибыль", "gross profit", "gross_profit"}},
	{"expenses", []string{"расходы", "expenses"}},
	{"other_expenses", []string{"прочие расходы", "other expenses", "other_expenses"}},
	{"net_profit", []string{"чистая прибыль", "net profit", "net_profit"}},
	{"profitability", []string{"рентабельность", "profitability"}},
}

// extractFinancialLines pulls the fixed set of related financial indicators
// out of the dashboard's metric list by keyword match.
func extractFinancialLines(metrics []domain.DashboardMetric) map[string]financialLine {
	lines := make(map[string]financialLine, len(financialLineKeywords))

	for _, entry := range financialLineKeywords {
		var line financialLine
		for _, m := range metrics {
			name := strings.ToLower(m.Name)
			if !matchesAnyKeyword(name, entry.keywords) {
				continue
			}
			line.Current = m.Value
			line.Previous = m.ComparisonValue
			if m.Change != nil && m.Change.Type == "percent" {
				change := m.Change.Value
				line.Change = &change
			}
			break
		}

		if line.Change == nil && line.Current != nil && line.Previous != nil && *line.Previous != 0 {
			change := (*line.Current - *line.Previous) / math.Abs(*line.Previous) * 100
			line.Change = &change
		}
		lines[entry.key] = line
	}
	return lines
}

type costCorrections struct {
	CurrentAmount  float64
	PreviousAmount float64
	CurrentExists  bool
	PreviousExists bool
	Distorted      bool
}

const costCorrectionQuery = `
		SELECT SUM(correction_amount) AS total_correction
		FROM cost_corrections
		WHERE period_start = :start AND period_end = :end`

// costCorrectionTotals sums retroactive cost adjustments for both periods,
// optionally scoped to the branch filter. Any failure is absorbed as "no
// corrections found".
func (a *Analyzer) costCorrectionTotals(
	ctx context.Context,
	filters domain.Filters,
	current domain.Period,
	comparison *domain.Period,
) costCorrections {
	var corrections costCorrections
	if a.executor == nil {
		return corrections
	}

	query := costCorrectionQuery
	branch, scoped := branchFilter(filters)
	if scoped {
		query += " AND branch_id = :branch_id"
	}

	fetch := func(period domain.Period) (float64, bool) {
		params := sqlstore.Params{"start": period.Start, "end": period.End}
		if scoped {
			params["branch_id"] = branch
		}
		rows, err := a.executor.Execute(ctx, query, params)
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("cost correction lookup failed")
			return 0, false
		}
		if len(rows) == 0 {
			return 0, false
		}
		amount, _ := rowNumeric(rows[0], "total_correction")
		return amount, math.Abs(amount) > 0.01
	}

	corrections.CurrentAmount, corrections.CurrentExists = fetch(current)
	if comparison != nil {
		corrections.PreviousAmount, corrections.PreviousExists = fetch(*comparison)
	}
	corrections.Distorted = corrections.CurrentExists || corrections.PreviousExists
	return corrections
}

// analyzeFinancial applies the cost-integrity rules: negative cost, a cost
// spike from zero, and correction-driven distortion. The distortion warning
// is suppressed when a more severe cost issue already fired.
func (a *Analyzer) analyzeFinancial(
	ctx context.Context,
	filters domain.Filters,
	dashboard *domain.Dashboard,
	current domain.Period,
	comparison *domain.Period,
) []domain.Issue {
	var issues []domain.Issue

	lines := map[string]financialLine{}
	if dashboard != nil {
		lines = extractFinancialLines(dashboard.Metrics)
	}
	corrections := a.costCorrectionTotals(ctx, filters, current, comparison)

	cost := lines["cost"]
	severeCostIssue := false

	if cost.Current != nil && *cost.Current < 0 {
		profitability := valueOrZero(lines["profitability"].Current)
		expensesChange := valueOrZero(lines["expenses"].Change)

		issues = append(issues, domain.Issue{
			Type:     domain.IssueNegativeCost,
			Severity: domain.SeverityCritical,
			Description: fmt.Sprintf(
				"Себестоимость стала отрицательной %s руб. Рентабельность %.2f%%, расходы выросли на %s%%",
				formatAmount(*cost.Current), profitability, fmt.Sprintf("%+.2f", expensesChange)),
			Cost:          *cost.Current,
			Profitability: profitability,
		})
		severeCostIssue = true
	}

	if cost.Previous != nil && math.Abs(*cost.Previous) < 0.01 &&
		cost.Current != nil && *cost.Current > 1000 {
		revenuePrev := valueOrZero(lines["revenue"].Previous)
		if revenuePrev > 0 {
			// Gross profit before the correction is approximately the
			// revenue, since cost was reported as zero.
			gpAfter := revenuePrev - *cost.Current
			gpChange := (gpAfter - revenuePrev) / revenuePrev * 100

			issues = append(issues, domain.Issue{
				Type:     domain.IssueCostSpikeFromZero,
				Severity: domain.SeverityCritical,
				Description: fmt.Sprintf(
					"Себестоимость резко выросла с 0 до %s руб. Валовая прибыль упала на %.2f%%",
					formatAmount(*cost.Current), gpChange),
				CostIncrease:      *cost.Current,
				GrossProfitChange: gpChange,
			})
			severeCostIssue = true
		}
	}

	if corrections.Distorted && !severeCostIssue {
		issues = append(issues, domain.Issue{
			Type:     domain.IssueCostCorrectionDistortion,
			Severity: domain.SeverityWarning,
			Description: fmt.Sprintf(
				"Показатели искажены коррекциями себестоимости: текущий период %s руб., предыдущий %s руб.",
				formatAmount(corrections.CurrentAmount), formatAmount(corrections.PreviousAmount)),
			CurrentCorrection:  corrections.CurrentAmount,
			PreviousCorrection: corrections.PreviousAmount,
		})
	}

	return issues
}

func branchFilter(filters domain.Filters) (any, bool) {
	if v, ok := filters["branch_id"]; ok {
		return v, true
	}
	if v, ok := filters["branch"]; ok {
		return v, true
	}
	return nil, false
}

func matchesAnyKeyword(name string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(name, keyword) {
			return true
		}
	}
	return false
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
