package analysis

import (
	"fmt"
	"strings"
)

// formatAmount renders a value the way the dashboard does: thousands grouped
// with commas, two decimals, e.g. 1,234,567.89.
func formatAmount(v float64) string {
	s := fmt.Sprintf("%.2f", v)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")

	var grouped strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		grouped.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if grouped.Len() > 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteString(intPart[i : i+3])
	}

	return sign + grouped.String() + "." + frac
}

// formatSigned is formatAmount with an explicit leading sign.
func formatSigned(v float64) string {
	if v >= 0 {
		return "+" + formatAmount(v)
	}
	return formatAmount(v)
}
