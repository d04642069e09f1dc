package collector

import (
	"math"

	"github.com/de-tools/metric-atlas/pkg/models/domain"
)

const significantTrendPercent = 10

// ComputeTrend compares the averages of the two halves of a daily series.
// The second half takes the extra element on odd counts. Fewer than two
// points carry no trend.
func ComputeTrend(daily []domain.TimePoint) *domain.Trend {
	if len(daily) < 2 {
		return nil
	}

	half := len(daily) / 2
	avgFirst := averageOf(daily[:half])
	avgSecond := averageOf(daily[half:])

	percent := 0.0
	if avgFirst != 0 {
		percent = (avgSecond - avgFirst) / avgFirst * 100
	}

	direction := domain.DirectionDown
	if percent > 0 {
		direction = domain.DirectionUp
	}

	return &domain.Trend{
		Direction:     direction,
		Percent:       math.Abs(percent),
		IsSignificant: math.Abs(percent) > significantTrendPercent,
	}
}

func averageOf(points []domain.TimePoint) float64 {
	if len(points) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range points {
		sum += p.Value
	}
	return sum / float64(len(points))
}
