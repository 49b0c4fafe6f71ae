package geoerr

import (
	"fmt"
	"sort"
	"strings"
)

// GroupStat is the mean error and sample count for one breakdown bucket.
type GroupStat struct {
	Key   int
	Mean  float64
	Count int
}

// Report aggregates the error statistics of a sample set.
type Report struct {
	Samples            int
	Aircraft           int
	HorizontalMean     float64
	HorizontalMedian   float64
	Horizontal95th     float64
	VerticalMean       float64
	VerticalMedian     float64
	VerticalCount      int
	Error3DMean        float64
	Error3DMedian      float64
	ByDistinctReceiver []GroupStat
	ByDof              []GroupStat
	Worst              []Sample
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// median and percentile index the sorted slice the same way the data is
// reported downstream: median at n/2, percentile at floor(n*q).
func median(sorted []float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	return sorted[len(sorted)/2]
}

func percentile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(float64(len(sorted)) * q)
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func groupStats(samples []Sample, key func(Sample) int) []GroupStat {
	buckets := make(map[int][]float64)
	for _, s := range samples {
		k := key(s)
		buckets[k] = append(buckets[k], s.HorizontalError)
	}

	keys := make([]int, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	stats := make([]GroupStat, 0, len(keys))
	for _, k := range keys {
		stats = append(stats, GroupStat{Key: k, Mean: mean(buckets[k]), Count: len(buckets[k])})
	}
	return stats
}

// Summarize computes the aggregate report for a sample set.
func Summarize(samples []Sample) Report {
	report := Report{Samples: len(samples)}
	if len(samples) == 0 {
		return report
	}

	aircraft := make(map[string]struct{})
	var horizontal, vertical, error3D []float64
	for _, s := range samples {
		aircraft[s.ICAO] = struct{}{}
		horizontal = append(horizontal, s.HorizontalError)
		error3D = append(error3D, s.Error3D)
		if s.VerticalError != nil {
			vertical = append(vertical, *s.VerticalError)
		}
	}
	report.Aircraft = len(aircraft)

	report.HorizontalMean = mean(horizontal)
	sort.Float64s(horizontal)
	report.HorizontalMedian = median(horizontal)
	report.Horizontal95th = percentile(horizontal, 0.95)

	report.VerticalCount = len(vertical)
	if len(vertical) > 0 {
		report.VerticalMean = mean(vertical)
		sort.Float64s(vertical)
		report.VerticalMedian = median(vertical)
	}

	report.Error3DMean = mean(error3D)
	sort.Float64s(error3D)
	report.Error3DMedian = median(error3D)

	report.ByDistinctReceiver = groupStats(samples, func(s Sample) int { return s.Distinct })
	report.ByDof = groupStats(samples, func(s Sample) int { return s.Dof })

	worst := make([]Sample, len(samples))
	copy(worst, samples)
	sort.Slice(worst, func(i, j int) bool {
		return worst[i].HorizontalError > worst[j].HorizontalError
	})
	if len(worst) > 5 {
		worst = worst[:5]
	}
	report.Worst = worst

	return report
}

// Format renders the report as the human-readable summary printed by
// the CLI.
func (r Report) Format() string {
	var b strings.Builder
	rule := strings.Repeat("=", 70)

	fmt.Fprintf(&b, "%s\n", rule)
	fmt.Fprintf(&b, "MLAT vs ADS-B Position Error Analysis\n")
	fmt.Fprintf(&b, "%s\n", rule)

	if r.Samples == 0 {
		fmt.Fprintf(&b, "No matching positions found\n")
		fmt.Fprintf(&b, "%s\n", rule)
		return b.String()
	}

	fmt.Fprintf(&b, "\n--- Horizontal errors ---\n")
	fmt.Fprintf(&b, "  Mean: %.1f m\n", r.HorizontalMean)
	fmt.Fprintf(&b, "  Median: %.1f m\n", r.HorizontalMedian)
	fmt.Fprintf(&b, "  95th percentile: %.1f m\n", r.Horizontal95th)

	if r.VerticalCount > 0 {
		fmt.Fprintf(&b, "\n--- Vertical errors ---\n")
		fmt.Fprintf(&b, "  Mean: %.1f m\n", r.VerticalMean)
		fmt.Fprintf(&b, "  Median: %.1f m\n", r.VerticalMedian)
	}

	fmt.Fprintf(&b, "\n--- 3D errors ---\n")
	fmt.Fprintf(&b, "  Mean: %.1f m\n", r.Error3DMean)
	fmt.Fprintf(&b, "  Median: %.1f m\n", r.Error3DMedian)

	fmt.Fprintf(&b, "\n--- Errors by distinct receivers ---\n")
	for _, g := range r.ByDistinctReceiver {
		fmt.Fprintf(&b, "  %d receivers: %.1f m (n=%d)\n", g.Key, g.Mean, g.Count)
	}

	fmt.Fprintf(&b, "\n--- Errors by DoF ---\n")
	for _, g := range r.ByDof {
		fmt.Fprintf(&b, "  DoF %d: %.1f m (n=%d)\n", g.Key, g.Mean, g.Count)
	}

	fmt.Fprintf(&b, "\n--- Largest errors ---\n")
	for i, s := range r.Worst {
		fmt.Fprintf(&b, "  %d. ICAO %s: %.1f m (%d receivers, DoF=%d, dt=%.2fs)\n",
			i+1, s.ICAO, s.HorizontalError, s.Distinct, s.Dof, s.TimeDiff)
	}

	fmt.Fprintf(&b, "%s\n", rule)
	return b.String()
}
