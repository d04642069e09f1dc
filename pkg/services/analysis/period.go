package analysis

import (
	"time"

	"github.com/de-tools/metric-atlas/pkg/models/domain"
)

const dateLayout = "2006-01-02"

var monthNames = [12]string{
	"Январь", "Февраль", "Март", "Апрель",
	"Май", "Июнь", "Июль", "Август",
	"Сентябрь", "Октябрь", "Ноябрь", "Декабрь",
}

const genericPeriodLabel = "Период"

// ResolvePeriod derives the canonical analysis period. An absent input
// defaults to month-to-date. Explicit bounds pass through verbatim; no
// calendar validation happens here.
func ResolvePeriod(input *domain.PeriodInput) domain.Period {
	if input == nil {
		now := time.Now()
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return domain.Period{
			Start: start.Format(dateLayout),
			End:   now.Format(dateLayout),
		}
	}
	return domain.Period{Start: input.Start, End: input.End}
}

// ComparisonPeriod returns the explicit comparison sub-range when the caller
// supplied one, otherwise the immediately preceding window of identical
// length. Unparseable current bounds yield no comparison period.
func ComparisonPeriod(input *domain.PeriodInput, current domain.Period) *domain.Period {
	if input != nil && input.Comparison != nil &&
		input.Comparison.Start != "" && input.Comparison.End != "" {
		comparison := *input.Comparison
		return &comparison
	}
	return previousPeriod(current)
}

func previousPeriod(current domain.Period) *domain.Period {
	start, err := time.Parse(dateLayout, current.Start)
	if err != nil {
		return nil
	}
	end, err := time.Parse(dateLayout, current.End)
	if err != nil {
		return nil
	}

	days := int(end.Sub(start).Hours() / 24)
	prevEnd := start.AddDate(0, 0, -1)
	prevStart := prevEnd.AddDate(0, 0, -days)

	return &domain.Period{
		Start: prevStart.Format(dateLayout),
		End:   prevEnd.Format(dateLayout),
	}
}

// PeriodLabel maps the period's start month to its localized name. A
// malformed date never fails; it falls back to the generic label.
func PeriodLabel(period *domain.Period) string {
	if period == nil {
		return ""
	}
	start, err := time.Parse(dateLayout, period.Start)
	if err != nil {
		return genericPeriodLabel
	}
	return monthNames[start.Month()-1]
}
