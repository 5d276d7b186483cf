package sim

import (
	"math"
	"sort"

	"github.com/sirupsen/logrus"
)

// calculatePercentile returns the p-th percentile of data via linear
// interpolation between the two closest ranks.
func calculatePercentile(data []float64, p float64) float64 {
	n := len(data)
	if n == 0 {
		return 0
	}

	sorted := make([]float64, n)
	copy(sorted, data)
	sort.Float64s(sorted)

	rank := p / 100.0 * float64(n-1)
	lowerIdx := int(math.Floor(rank))
	upperIdx := int(math.Ceil(rank))

	if lowerIdx == upperIdx {
		return sorted[lowerIdx]
	}
	if upperIdx >= n {
		return sorted[n-1]
	}
	lowerVal, upperVal := sorted[lowerIdx], sorted[upperIdx]
	return lowerVal + (upperVal-lowerVal)*(rank-float64(lowerIdx))
}

// SlowdownSummary is the end-of-run report collected across every invoker's
// slowdown list.
type SlowdownSummary struct {
	Size int
	Mean float64
	P90  float64
	Max  float64
}

// SummarizeSlowdowns aggregates every invoker's recorded slowdowns into one
// SlowdownSummary.
func SummarizeSlowdowns(invokers []InvokerNode) SlowdownSummary {
	var all []float64
	for _, inv := range invokers {
		all = append(all, inv.Slowdowns()...)
	}
	if len(all) == 0 {
		return SlowdownSummary{}
	}

	var sum float64
	max := all[0]
	for _, s := range all {
		sum += s
		if s > max {
			max = s
		}
	}

	return SlowdownSummary{
		Size: len(all),
		Mean: sum / float64(len(all)),
		P90:  calculatePercentile(all, 90),
		Max:  max,
	}
}

// LogSummary reports the summary at info level as structured fields.
func (s SlowdownSummary) LogSummary() {
	logrus.WithFields(logrus.Fields{
		"total_slowdown_size": s.Size,
		"slowdown_mean":       s.Mean,
		"slowdown_p90":        s.P90,
		"slowdown_max":        s.Max,
	}).Info("simulation complete")
}
