package datareadiness

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	gonumstat "gonum.org/v1/gonum/stat"

	"wrangler/domain/datareadiness/profiling"
)

// numericSummary carries the public statistics plus the raw values the
// outlier rules need.
type numericSummary struct {
	profiling.NumericSummary
	sorted   []float64
	mean     float64
	stdDev   float64 // sample; NaN when n < 2
	q1, q3   float64
	constant bool
}

// summarize computes distribution statistics over present values (n > 0).
// The standard deviation is the sample (n-1) estimate everywhere,
// including the z-score rule.
func summarize(values []float64) numericSummary {
	n := len(values)
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	s := numericSummary{sorted: sorted, stdDev: math.NaN()}
	s.constant = sorted[0] == sorted[n-1]

	s.mean, _ = stats.Mean(values)
	minimum, _ := stats.Min(values)
	maximum, _ := stats.Max(values)
	median, _ := stats.Median(values)
	s.q1 = quantile(sorted, 0.25)
	s.q3 = quantile(sorted, 0.75)

	// sums of values near the float64 limit overflow; statistics of the
	// values scaled into [-1, 1] do not
	scale := math.Max(math.Abs(sorted[0]), math.Abs(sorted[n-1]))
	var scaled []float64
	if scale > 1 && !math.IsInf(scale, 0) {
		scaled = make([]float64, n)
		for i, v := range values {
			scaled[i] = v / scale
		}
	}
	if !isFinite(s.mean) && scaled != nil {
		m, _ := stats.Mean(scaled)
		s.mean = m * scale
	}
	if !isFinite(median) {
		median = quantile(sorted, 0.5)
	}

	s.Mean = finite(s.mean)
	s.Min = finite(minimum)
	s.Q1 = finite(s.q1)
	s.Median = finite(median)
	s.Q3 = finite(s.q3)
	s.Max = finite(maximum)
	s.Mode = finite(mode(sorted))

	negatives := 0
	for _, v := range values {
		if v < 0 {
			negatives++
		}
	}
	s.NegativeCount = ptr(negatives)

	if n >= 2 {
		s.stdDev, _ = stats.StandardDeviationSample(values)
		if !isFinite(s.stdDev) && scaled != nil {
			sd, _ := stats.StandardDeviationSample(scaled)
			s.stdDev = sd * scale
		}
		if !isFinite(s.stdDev) {
			s.stdDev = math.NaN()
		}
		s.StdDev = finite(s.stdDev)
	}

	// constant data has no shape: skewness and excess kurtosis are 0
	if n >= 3 {
		if s.stdDev == 0 {
			s.Skewness = ptr(0.0)
		} else {
			s.Skewness = finite(scaleFree(gonumstat.Skew, values, scaled))
		}
	}
	if n >= 4 {
		if s.stdDev == 0 {
			s.Kurtosis = ptr(0.0)
		} else {
			s.Kurtosis = finite(scaleFree(gonumstat.ExKurtosis, values, scaled))
		}
	}

	return s
}

// scaleFree evaluates a scale-invariant moment, retrying on the scaled
// values when the direct result overflows
func scaleFree(moment func(x, weights []float64) float64, values, scaled []float64) float64 {
	v := moment(values, nil)
	if !isFinite(v) && scaled != nil {
		v = moment(scaled, nil)
	}
	return v
}

// finite returns a pointer to x, or nil when x is NaN or infinite so the
// statistic reads as missing
func finite(x float64) *float64 {
	if !isFinite(x) {
		return nil
	}
	return &x
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// quantile uses linear interpolation between closest ranks:
// h = (n-1)p, q = x[floor(h)] + (h-floor(h)) * (x[floor(h)+1] - x[floor(h)]).
func quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	h := float64(n-1) * p
	lo := int(math.Floor(h))
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := h - float64(lo)
	q := sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
	if math.IsInf(q, 0) {
		// the gap between neighbours overflowed
		q = (1-frac)*sorted[lo] + frac*sorted[lo+1]
	}
	return q
}

// mode returns the most frequent value. Ties go to the smallest value,
// which is the first modal group met in sorted order.
func mode(sorted []float64) float64 {
	best, bestCount := sorted[0], 0
	for i := 0; i < len(sorted); {
		j := i
		for j < len(sorted) && sorted[j] == sorted[i] {
			j++
		}
		if j-i > bestCount {
			best, bestCount = sorted[i], j-i
		}
		i = j
	}
	return best
}
