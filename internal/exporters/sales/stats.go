package sales

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"
)

// minStatPoints is the smallest series that gets a statistical analysis.
const minStatPoints = 5

// anomalyThreshold is the z-score beyond which a day is reported.
const anomalyThreshold = 1.5

// dayPoint is the revenue of one calendar day.
type dayPoint struct {
	day     time.Time
	revenue float64
}

// rupees formats an amount as whole rupees.
func rupees(v float64) string {
	return fmt.Sprintf("₹%d", int64(math.Round(v)))
}

// stability classifies a coefficient of variation in percent.
func stability(cv float64) string {
	switch {
	case cv < 10:
		return "Very Stable"
	case cv < 30:
		return "Moderately Volatile"
	default:
		return "Highly Volatile"
	}
}

// analyze describes volatility and outlier days of a daily series.
func analyze(points []dayPoint) string {
	if len(points) < minStatPoints {
		return "Not enough data for statistical analysis."
	}

	var sum float64
	for _, p := range points {
		sum += p.revenue
	}
	mean := sum / float64(len(points))

	var sq float64
	for _, p := range points {
		sq += (p.revenue - mean) * (p.revenue - mean)
	}
	stdev := math.Sqrt(sq / float64(len(points)-1))

	var cv float64
	if mean > 0 {
		cv = stdev / mean * 100
	}

	var anomalies []string
	if stdev > 0 {
		for _, p := range points {
			if math.Abs(p.revenue-mean)/stdev <= anomalyThreshold {
				continue
			}
			kind := "Significant Drop"
			if p.revenue > mean {
				kind = "High Spike"
			}
			anomalies = append(anomalies, fmt.Sprintf("%s (%s: %s)", p.day.Format(dayLayout), kind, rupees(p.revenue)))
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Statistical Analysis: The sales pattern is %s (Variation: %d%%). ", stability(cv), int(cv))
	fmt.Fprintf(&b, "Average daily sales is %s. ", rupees(mean))
	if len(anomalies) > 0 {
		fmt.Fprintf(&b, "Detected Anomalies (Unusual Events): %s.", strings.Join(anomalies, ", "))
	} else {
		b.WriteString("No significant anomalies detected; sales are consistent.")
	}
	return b.String()
}

// weekdayPattern names the weekdays with the best and worst average revenue.
func weekdayPattern(points []dayPoint) string {
	type weekdayAvg struct {
		day time.Weekday
		avg float64
	}

	var totals [7]float64
	var counts [7]int
	for _, p := range points {
		wd := p.day.Weekday()
		totals[wd] += p.revenue
		counts[wd]++
	}

	var avgs []weekdayAvg
	for wd := range 7 {
		if counts[wd] > 0 {
			avgs = append(avgs, weekdayAvg{time.Weekday(wd), totals[wd] / float64(counts[wd])})
		}
	}
	if len(avgs) == 0 {
		return "Day-of-Week Pattern: Not enough recent data."
	}

	slices.SortStableFunc(avgs, func(a, b weekdayAvg) int {
		return cmp.Compare(b.avg, a.avg)
	})
	best, worst := avgs[0], avgs[len(avgs)-1]
	return fmt.Sprintf("Day-of-Week Pattern: Best performing day is %s (Avg %s). Lowest performing day is %s (Avg %s).",
		best.day, rupees(best.avg), worst.day, rupees(worst.avg))
}
