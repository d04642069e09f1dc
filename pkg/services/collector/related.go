package collector

import (
	"context"
	"fmt"
	"strings"

	"github.com/de-tools/metric-atlas/pkg/models/domain"
	sqlstore "github.com/de-tools/metric-atlas/pkg/store/sql"
	"github.com/rs/zerolog"
)

const relatedPageRowLimit = 100

// relatedPages maps a page type to the keyword vocabulary that links a
// metric name to it and the table serving the page. A metric can match
// several pages at once.
var relatedPages = []struct {
	pageType string
	keywords []string
	table    string
}{
	{"purchases", []string{"закуп", "purchase", "supplier", "поставщик"}, "purchases"},
	{"sales", []string{"продаж", "sale", "revenue", "выручка"}, "sales"},
	{"cost", []string{"себестоимость", "cost", "стоимость"}, "cost_details"},
}

func (c *Collector) collectRelatedPages(
	ctx context.Context,
	metric domain.Metric,
	filters domain.Filters,
	period *domain.PeriodInput,
) map[string]domain.RelatedPage {
	pages := map[string]domain.RelatedPage{}
	if c.executor == nil {
		return pages
	}

	name := strings.ToLower(metric.Name)
	for _, page := range relatedPages {
		if !matchesAny(name, page.keywords) {
			continue
		}
		fetched, err := c.relatedPage(ctx, page.pageType, page.table, period)
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("page", page.pageType).Msg("related page fetch failed")
			continue
		}
		pages[page.pageType] = fetched
	}
	return pages
}

func (c *Collector) relatedPage(
	ctx context.Context,
	pageType, table string,
	period *domain.PeriodInput,
) (domain.RelatedPage, error) {
	query := fmt.Sprintf(`
		SELECT *
		FROM %s
		WHERE period_start >= :start AND period_end <= :end
		LIMIT %d`, table, relatedPageRowLimit)

	params := sqlstore.Params{"start": nil, "end": nil}
	if period != nil {
		params["start"] = period.Start
		params["end"] = period.End
	}

	rows, err := c.executor.Execute(ctx, query, params)
	if err != nil {
		return domain.RelatedPage{}, err
	}

	page := domain.RelatedPage{PageType: pageType, Summary: summarizeRows(rows)}
	for _, row := range rows {
		page.Rows = append(page.Rows, map[string]any(row))
	}
	return page, nil
}

// summarizeRows aggregates every numeric field across all rows. A fetch
// that succeeded with zero rows still produces a summary, with Count zero,
// so the empty page is visible to analysis.
func summarizeRows(rows []sqlstore.Row) *domain.PageSummary {
	summary := &domain.PageSummary{Count: len(rows)}

	first := true
	var count int
	for _, row := range rows {
		for _, value := range row {
			v, ok := numeric(value)
			if !ok {
				continue
			}
			summary.Sum += v
			count++
			if first || v < summary.Min {
				summary.Min = v
			}
			if first || v > summary.Max {
				summary.Max = v
			}
			first = false
		}
	}
	if count > 0 {
		summary.Avg = summary.Sum / float64(count)
	}
	return summary
}

func matchesAny(name string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(name, keyword) {
			return true
		}
	}
	return false
}
