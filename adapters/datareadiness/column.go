package datareadiness

import (
	"strings"

	"wrangler/domain/datareadiness/profiling"
	"wrangler/domain/table"
)

// EmptyTextTokens are the trimmed strings counted as empty-equivalent text
var EmptyTextTokens = map[string]bool{
	"":     true,
	"NA":   true,
	"NULL": true,
	"None": true,
}

// InconsistentToken is the placeholder tallied in non-numeric columns
const InconsistentToken = "?"

// profileColumn runs the single-column pass: counts, kind tally, and for
// numeric storage the distribution statistics and outlier rules.
func (p *ProfilerAdapter) profileColumn(col *table.Column, config profiling.Config) profiling.ColumnProfile {
	profile := profiling.ColumnProfile{
		Column:  col.Name,
		Storage: col.Storage,
	}

	numeric := col.Storage.IsNumeric()
	textual := col.Storage.IsTextual()
	distinct := make(map[string]struct{})
	var numbers []float64
	zeros, empties := 0, 0

	for _, v := range col.Values {
		if v.IsMissing() {
			profile.MissingCount++
			continue
		}

		var x float64
		if numeric {
			// cells that cannot be read as numbers count as missing here
			parsed, ok := p.coercer.ParseFloat(v).AsFloat()
			if !ok {
				profile.MissingCount++
				profile.InconsistentCount++
				continue
			}
			x = parsed
		}

		profile.NonMissingCount++
		distinct[v.CanonicalText()] = struct{}{}
		p.tally(&profile.Kinds, v, col.Storage)

		if numeric {
			numbers = append(numbers, x)
			if x == 0 {
				zeros++
			}
			continue
		}

		if s, ok := v.AsText(); ok {
			trimmed := strings.TrimSpace(s)
			if textual && EmptyTextTokens[trimmed] {
				empties++
			}
			if trimmed == InconsistentToken {
				profile.InconsistentCount++
			}
		}
	}

	profile.DistinctCount = len(distinct)
	if numeric {
		profile.ZeroCount = ptr(zeros)
	}
	if textual {
		profile.EmptyTextCount = ptr(empties)
	}

	if numeric && len(numbers) > 0 {
		summary := summarize(numbers)
		profile.NumericSummary = summary.NumericSummary
		profile.IQRFence = iqrFence(numbers, summary, config.IQRMultiplier)
		profile.ZScoreRule = zScoreRule(numbers, summary, config.ZThreshold)
		if summary.constant {
			profile.Conditions = append(profile.Conditions, profiling.ConditionConstant)
		}
	}

	if profile.NonMissingCount == 0 && len(col.Values) > 0 {
		profile.Conditions = append(profile.Conditions, profiling.ConditionAllMissing)
	}
	if profile.Kinds.Distinct() > 1 {
		profile.Conditions = append(profile.Conditions, profiling.ConditionMixedKinds)
	}

	return profile
}

// tally increments every runtime-kind counter that v belongs to. The
// declared storage type does not restrict which counters move.
func (p *ProfilerAdapter) tally(k *profiling.KindCounts, v table.Value, storage table.StorageType) {
	switch v.Kind() {
	case table.KindInteger:
		k.Integer++
	case table.KindFloat:
		k.Float++
	case table.KindBoolean:
		k.Boolean++
	case table.KindTimestamp:
		k.Timestamp++
	case table.KindText:
		k.Text++
		if p.coercer.LooksLikeTimestamp(v) {
			k.Timestamp++
		}
	case table.KindCategory:
		k.Text++
		k.Categorical++
		return
	}
	if storage == table.StorageCategorical {
		k.Categorical++
	}
}

func ptr[T any](v T) *T {
	return &v
}
