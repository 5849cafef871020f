package datareadiness

import (
	"bytes"
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wrangler/adapters/datareadiness/coercer"
	"wrangler/domain/datareadiness/profiling"
	"wrangler/domain/table"
	"wrangler/internal"
	apperrors "wrangler/internal/errors"
	"wrangler/internal/testkit"
)

func newTestProfiler(t *testing.T) (*ProfilerAdapter, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	logger := internal.NewLoggerTo(&logs, internal.LogLevelDebug)
	return NewProfilerAdapter(coercer.NewTypeCoercer(coercer.DefaultCoercionConfig()), WithLogger(logger)), &logs
}

func profileOne(t *testing.T, col *table.Column, config profiling.Config) profiling.ColumnProfile {
	t.Helper()
	p, _ := newTestProfiler(t)
	report, err := p.Profile(table.MustTable("t", col), config)
	require.NoError(t, err)
	require.Len(t, report.Columns, 1)
	return report.Columns[0]
}

func TestProfileAgeWithPlaceholder(t *testing.T) {
	profile := profileOne(t, testkit.AgeColumn(), profiling.DefaultConfig())

	assert.Equal(t, 4, profile.NonMissingCount)
	assert.Equal(t, 2, profile.MissingCount)
	assert.Equal(t, 3, profile.DistinctCount)
	assert.Equal(t, 1, profile.InconsistentCount)
	require.NotNil(t, profile.Mode)
	assert.Equal(t, 30.0, *profile.Mode)
	require.NotNil(t, profile.ZeroCount)
	assert.Equal(t, 0, *profile.ZeroCount)
	assert.Nil(t, profile.EmptyTextCount, "numeric columns have no empty-text count")
	assert.Equal(t, 4, profile.Kinds.Integer)
	assert.Equal(t, 0, profile.Kinds.Text)
}

func TestProfileStatusEmptyTokens(t *testing.T) {
	profile := profileOne(t, testkit.StatusColumn(), profiling.DefaultConfig())

	require.NotNil(t, profile.EmptyTextCount)
	assert.Equal(t, 2, *profile.EmptyTextCount)
	assert.Equal(t, 1, profile.MissingCount)
	assert.Equal(t, 4, profile.NonMissingCount)
	assert.Nil(t, profile.ZeroCount)
	assert.Nil(t, profile.Mean)
	assert.Nil(t, profile.IQR)
	assert.Nil(t, profile.MaxAbsZ)
}

func TestProfileConstantColumn(t *testing.T) {
	profile := profileOne(t, testkit.ConstantColumn(), profiling.DefaultConfig())

	require.NotNil(t, profile.StdDev)
	assert.Equal(t, 0.0, *profile.StdDev)
	require.NotNil(t, profile.IQR)
	assert.Equal(t, 0.0, *profile.IQR)
	assert.Equal(t, 10.0, *profile.LowerBound)
	assert.Equal(t, 10.0, *profile.UpperBound)
	assert.Equal(t, 0, *profile.IQROutlierCount)
	assert.Equal(t, 0.0, *profile.IQROutlierPct)
	assert.Equal(t, 0.0, *profile.Skewness)
	assert.Equal(t, 0.0, *profile.Kurtosis)

	assert.Nil(t, profile.MaxAbsZ)
	assert.Nil(t, profile.ZThreshold)
	assert.Nil(t, profile.ZOutlierCount)
	assert.Nil(t, profile.ZOutlierPct)
	assert.True(t, profile.HasCondition(profiling.ConditionConstant))
}

func TestProfileIQRFence(t *testing.T) {
	profile := profileOne(t, testkit.SkewedColumn(), profiling.DefaultConfig())

	assert.InDelta(t, 3.25, *profile.Q1, 1e-12)
	assert.InDelta(t, 5.5, *profile.Median, 1e-12)
	assert.InDelta(t, 7.75, *profile.Q3, 1e-12)
	assert.InDelta(t, 4.5, *profile.IQR, 1e-12)
	assert.InDelta(t, 3.0, *profile.IQRMultiplier, 1e-12)
	assert.InDelta(t, 21.25, *profile.UpperBound, 1e-12)
	assert.InDelta(t, -10.25, *profile.LowerBound, 1e-12)
	assert.Equal(t, 1, *profile.IQROutlierCount)
	assert.Equal(t, 10.0, *profile.IQROutlierPct)

	assert.InDelta(t, 104.5, *profile.Mean, 1e-9)
	assert.Equal(t, 1.0, *profile.Min)
	assert.Equal(t, 1000.0, *profile.Max)
	assert.Equal(t, 1.0, *profile.Mode, "all values tie; the smallest wins")
	assert.Greater(t, *profile.Skewness, 3.0)
}

func TestProfileZScoreRule(t *testing.T) {
	config := profiling.DefaultConfig()
	profile := profileOne(t, testkit.SkewedColumn(), config)

	require.NotNil(t, profile.MaxAbsZ)
	assert.InDelta(t, 2.846, *profile.MaxAbsZ, 0.001)
	assert.Equal(t, 3.0, *profile.ZThreshold)
	assert.Equal(t, 0, *profile.ZOutlierCount)
	assert.Equal(t, 0.0, *profile.ZOutlierPct)

	config.ZThreshold = 2.5
	profile = profileOne(t, testkit.SkewedColumn(), config)
	assert.Equal(t, 1, *profile.ZOutlierCount)
	assert.Equal(t, 10.0, *profile.ZOutlierPct)
}

func TestProfileValuesNearFloatLimitStayFinite(t *testing.T) {
	col := table.NewColumn("huge", table.StorageFloat, 1e308, 1e308, -1e308, 5.0)

	for _, workers := range []int{1, 4} {
		config := profiling.DefaultConfig()
		config.Workers = workers
		p, _ := newTestProfiler(t)
		report, err := p.Profile(table.MustTable("t", col), config)
		require.NoError(t, err)
		profile := report.Columns[0]

		require.NotNil(t, profile.Mean)
		assert.InEpsilon(t, 2.5e307, *profile.Mean, 1e-9)
		require.NotNil(t, profile.StdDev)
		assert.False(t, math.IsInf(*profile.StdDev, 0))
		require.NotNil(t, profile.MaxAbsZ)
		assert.Greater(t, *profile.MaxAbsZ, 0.0)

		for name, v := range map[string]*float64{
			"mean": profile.Mean, "std": profile.StdDev, "min": profile.Min, "q1": profile.Q1,
			"median": profile.Median, "q3": profile.Q3, "max": profile.Max, "skew": profile.Skewness,
			"kurtosis": profile.Kurtosis, "iqr": profile.IQR, "lower": profile.LowerBound,
			"upper": profile.UpperBound, "max_abs_z": profile.MaxAbsZ,
		} {
			if v != nil {
				assert.False(t, math.IsNaN(*v) || math.IsInf(*v, 0), "%s = %v", name, *v)
			}
		}

		_, err = json.Marshal(report)
		assert.NoError(t, err)
	}
}

func TestProfileInfiniteCellsReadAsMissingStatistics(t *testing.T) {
	profile := profileOne(t, table.NewColumn("x", table.StorageFloat, math.Inf(1), 1.0, 2.0, 3.0), profiling.DefaultConfig())

	assert.Nil(t, profile.Max)
	assert.Nil(t, profile.Mean)
	assert.Nil(t, profile.StdDev)
	require.NotNil(t, profile.Min)
	assert.Equal(t, 1.0, *profile.Min)

	_, err := json.Marshal(profile)
	assert.NoError(t, err)
}

func TestProfileEmptyTextCountOnlyForTextualStorage(t *testing.T) {
	flags := profileOne(t, table.NewColumn("ok", table.StorageBoolean, true, false, nil), profiling.DefaultConfig())
	assert.Nil(t, flags.EmptyTextCount)

	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	days := profileOne(t, table.NewColumn("day", table.StorageTimestamp, day, day.AddDate(0, 0, 1)), profiling.DefaultConfig())
	assert.Nil(t, days.EmptyTextCount)

	mixed := profileOne(t, table.NewColumn("m", table.StorageMixed, "", 1, "a"), profiling.DefaultConfig())
	require.NotNil(t, mixed.EmptyTextCount)
}

func TestProfilePercentRounding(t *testing.T) {
	col := table.NewColumn("x", table.StorageFloat, 1, 2, 2, 2, 2, 100)
	profile := profileOne(t, col, profiling.Config{IQRMultiplier: 1.5, ZThreshold: 2})

	assert.Equal(t, 2, *profile.IQROutlierCount)
	assert.Equal(t, 33.333, *profile.IQROutlierPct)
}

func TestProfileSurveyTable(t *testing.T) {
	p, _ := newTestProfiler(t)
	src := testkit.SurveyTable()

	report, err := p.Profile(src, profiling.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, src.ColumnNames(), report.Names())
	assert.Equal(t, 5, report.RowCount)
	assert.Empty(t, report.Warnings)

	id, _ := report.Lookup("id")
	assert.Equal(t, 3.0, *id.Mean)
	assert.InDelta(t, math.Sqrt(2.5), *id.StdDev, 1e-12)
	assert.InDelta(t, 0.0, *id.Skewness, 1e-12)
	assert.InDelta(t, -1.2, *id.Kurtosis, 1e-12)

	score, _ := report.Lookup("score")
	assert.Equal(t, 4, score.NonMissingCount)
	assert.Equal(t, 1, *score.ZeroCount)
	assert.Equal(t, 1, *score.NegativeCount)
	assert.Equal(t, 2, score.Kinds.Integer)
	assert.Equal(t, 2, score.Kinds.Float)

	city, _ := report.Lookup("city")
	assert.Equal(t, 2, *city.EmptyTextCount)
	assert.Equal(t, 4, city.DistinctCount)
	assert.Equal(t, 5, city.Kinds.Text)
	assert.Equal(t, 1, city.Kinds.Timestamp, "date-like text is also timestamp-like")

	segment, _ := report.Lookup("segment")
	assert.Equal(t, 1, segment.InconsistentCount)
	assert.Equal(t, 0, *segment.EmptyTextCount)
	assert.Equal(t, 4, segment.Kinds.Categorical)

	vip, _ := report.Lookup("vip")
	assert.Nil(t, vip.EmptyTextCount)
	assert.Nil(t, vip.ZeroCount)
	assert.Equal(t, 3, vip.Kinds.Boolean)
	assert.Equal(t, 1, vip.InconsistentCount)
	assert.True(t, vip.HasCondition(profiling.ConditionMixedKinds))

	mixed, _ := report.Lookup("mixed")
	assert.Equal(t, 4, mixed.DistinctCount, "integer 1 and text \"1\" fold together")
	assert.Equal(t, 1, *mixed.EmptyTextCount)
	assert.Equal(t, profiling.KindCounts{Integer: 1, Float: 1, Boolean: 1, Text: 2}, mixed.Kinds)
}

func TestProfileDuplicateColumnNames(t *testing.T) {
	p, logs := newTestProfiler(t)

	report, err := p.Profile(testkit.DuplicateNameTable(), profiling.DefaultConfig())
	require.NoError(t, err)

	require.Len(t, report.Columns, 3)
	assert.Equal(t, []string{"key", "amount", "amount"}, report.Names())
	require.Len(t, report.Warnings, 1)
	assert.Equal(t, profiling.WarnDuplicateColumn, report.Warnings[0].Code)
	assert.Equal(t, "amount", report.Warnings[0].Column)
	assert.Contains(t, logs.String(), `[WARN] profile merged: column "amount" appears 2 times`)

	first, second := report.Columns[1], report.Columns[2]
	assert.Equal(t, table.StorageFloat, second.Storage, "first physical column wins")
	assert.Equal(t, 20.0, *second.Mean)
	assert.Equal(t, first, second)
	assert.True(t, second.HasCondition(profiling.ConditionDuplicate))
}

func TestProfileZeroRowTable(t *testing.T) {
	p, _ := newTestProfiler(t)
	src := table.MustTable("empty",
		table.NewColumn("n", table.StorageFloat),
		table.NewColumn("s", table.StorageText),
	)

	report, err := p.Profile(src, profiling.DefaultConfig())
	require.NoError(t, err)
	require.Len(t, report.Columns, 2)

	n := report.Columns[0]
	assert.Zero(t, n.NonMissingCount)
	assert.Zero(t, n.MissingCount)
	assert.Zero(t, n.DistinctCount)
	assert.Equal(t, 0, *n.ZeroCount)
	assert.Equal(t, profiling.NumericSummary{}, n.NumericSummary)
	assert.Equal(t, profiling.IQRFence{}, n.IQRFence)
	assert.Equal(t, profiling.ZScoreRule{}, n.ZScoreRule)
	assert.Empty(t, n.Conditions)

	s := report.Columns[1]
	assert.Equal(t, 0, *s.EmptyTextCount)
}

func TestProfileAllMissingNumericColumn(t *testing.T) {
	col := table.NewColumn("n", table.StorageFloat, nil, "?", nil)
	profile := profileOne(t, col, profiling.DefaultConfig())

	assert.Equal(t, 3, profile.MissingCount)
	assert.Equal(t, 0, profile.NonMissingCount)
	assert.Equal(t, profiling.NumericSummary{}, profile.NumericSummary)
	assert.True(t, profile.HasCondition(profiling.ConditionAllMissing))
}

func TestProfileSmallSamples(t *testing.T) {
	one := profileOne(t, table.NewColumn("x", table.StorageFloat, 4.0), profiling.DefaultConfig())
	assert.Equal(t, 4.0, *one.Mean)
	assert.Nil(t, one.StdDev, "sample deviation needs two values")
	assert.Nil(t, one.Skewness)
	assert.Nil(t, one.Kurtosis)
	assert.Nil(t, one.MaxAbsZ)
	assert.Equal(t, 0, *one.IQROutlierCount)

	three := profileOne(t, table.NewColumn("x", table.StorageFloat, 1, 2, 4), profiling.DefaultConfig())
	assert.NotNil(t, three.Skewness)
	assert.Nil(t, three.Kurtosis)
}

func TestProfileParameterErrors(t *testing.T) {
	p, _ := newTestProfiler(t)
	src := testkit.SurveyTable()

	for _, config := range []profiling.Config{
		{IQRMultiplier: 0, ZThreshold: 3},
		{IQRMultiplier: -1, ZThreshold: 3},
		{IQRMultiplier: math.NaN(), ZThreshold: 3},
		{IQRMultiplier: math.Inf(1), ZThreshold: 3},
		{IQRMultiplier: 3, ZThreshold: 0},
		{IQRMultiplier: 3, ZThreshold: -2},
		{IQRMultiplier: 3, ZThreshold: 3, Workers: -1},
	} {
		report, err := p.Profile(src, config)
		assert.Nil(t, report)
		require.Error(t, err)
		assert.Equal(t, apperrors.CodeParameter, apperrors.GetCode(err), "%+v", config)
	}
}

func TestProfileNilTable(t *testing.T) {
	p, _ := newTestProfiler(t)
	_, err := p.Profile(nil, profiling.DefaultConfig())
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeStructural, apperrors.GetCode(err))
}

func TestProfileIsIdempotent(t *testing.T) {
	p, _ := newTestProfiler(t)
	src := testkit.NewClientGenerator(testkit.DefaultClientConfig()).Generate()
	before := snapshot(src)

	first, err := p.Profile(src, profiling.DefaultConfig())
	require.NoError(t, err)
	second, err := p.Profile(src, profiling.DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, before, snapshot(src), "profiling must not modify the input")
}

func TestProfileParallelMatchesSequential(t *testing.T) {
	p, _ := newTestProfiler(t)
	src := testkit.NewClientGenerator(testkit.DefaultClientConfig()).Generate()

	sequential, err := p.Profile(src, profiling.DefaultConfig())
	require.NoError(t, err)

	config := profiling.DefaultConfig()
	config.Workers = 4
	parallel, err := p.Profile(src, config)
	require.NoError(t, err)

	parallel.Config = sequential.Config
	assert.Equal(t, sequential, parallel)
}

func TestProfileInvariants(t *testing.T) {
	p, _ := newTestProfiler(t)

	for seed := int64(1); seed <= 5; seed++ {
		config := testkit.DefaultClientConfig()
		config.Seed = seed
		src := testkit.NewClientGenerator(config).Generate()

		var previous *profiling.Report
		for _, multiplier := range []float64{0.5, 1.5, 3, 6} {
			report, err := p.Profile(src, profiling.Config{IQRMultiplier: multiplier, ZThreshold: 3})
			require.NoError(t, err)
			require.Len(t, report.Columns, src.Width())

			for i, profile := range report.Columns {
				assert.Equal(t, src.RowCount(), profile.NonMissingCount+profile.MissingCount, profile.Column)
				if profile.Mean == nil {
					continue
				}
				assert.LessOrEqual(t, *profile.Min, *profile.Q1)
				assert.LessOrEqual(t, *profile.Q1, *profile.Median)
				assert.LessOrEqual(t, *profile.Median, *profile.Q3)
				assert.LessOrEqual(t, *profile.Q3, *profile.Max)
				assert.LessOrEqual(t, *profile.LowerBound, *profile.UpperBound)

				if previous != nil {
					prev := previous.Columns[i]
					assert.LessOrEqual(t, *profile.LowerBound, *prev.LowerBound)
					assert.GreaterOrEqual(t, *profile.UpperBound, *prev.UpperBound)
					assert.LessOrEqual(t, *profile.IQROutlierCount, *prev.IQROutlierCount)
				}
			}
			previous = report
		}
	}
}

func snapshot(t *table.Table) [][]string {
	out := make([][]string, 0, t.Width())
	for _, col := range t.Columns() {
		cells := make([]string, len(col.Values))
		for i, v := range col.Values {
			cells[i] = v.String()
		}
		out = append(out, cells)
	}
	return out
}
