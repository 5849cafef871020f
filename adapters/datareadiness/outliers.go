package datareadiness

import (
	"math"

	"wrangler/domain/datareadiness/profiling"
)

// iqrFence flags values strictly outside [Q1 - m*IQR, Q3 + m*IQR]
func iqrFence(values []float64, s numericSummary, multiplier float64) profiling.IQRFence {
	iqr := s.q3 - s.q1
	lower := s.q1 - multiplier*iqr
	upper := s.q3 + multiplier*iqr

	count := 0
	for _, v := range values {
		if v < lower || v > upper {
			count++
		}
	}

	return profiling.IQRFence{
		IQR:             finite(iqr),
		IQRMultiplier:   ptr(multiplier),
		LowerBound:      finite(lower),
		UpperBound:      finite(upper),
		IQROutlierCount: ptr(count),
		IQROutlierPct:   ptr(percent(count, len(values))),
	}
}

// zScoreRule flags values with |x - mean| / sd above threshold. A column
// with a single distinct value has no defined z-scores and gets the
// missing sentinel in every field.
func zScoreRule(values []float64, s numericSummary, threshold float64) profiling.ZScoreRule {
	if s.constant || !isFinite(s.stdDev) || s.stdDev == 0 || !isFinite(s.mean) {
		return profiling.ZScoreRule{}
	}

	maxAbs := 0.0
	count := 0
	for _, v := range values {
		z := math.Abs(v-s.mean) / s.stdDev
		if math.IsInf(z, 0) {
			z = math.Abs(v/s.stdDev - s.mean/s.stdDev)
		}
		if z > maxAbs {
			maxAbs = z
		}
		if z > threshold {
			count++
		}
	}

	return profiling.ZScoreRule{
		MaxAbsZ:       finite(maxAbs),
		ZThreshold:    ptr(threshold),
		ZOutlierCount: ptr(count),
		ZOutlierPct:   ptr(percent(count, len(values))),
	}
}

// percent is 100*part/total rounded to three decimals
func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(100*float64(part)/float64(total)*1000) / 1000
}
