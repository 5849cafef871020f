package datareadiness

import (
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"wrangler/adapters/datareadiness/coercer"
	"wrangler/domain/core"
	"wrangler/domain/datareadiness/profiling"
	"wrangler/domain/table"
	"wrangler/internal"
	apperrors "wrangler/internal/errors"
)

// ProfilerAdapter implements ProfilerPort for column profiling
type ProfilerAdapter struct {
	coercer *coercer.TypeCoercer
	logger  *internal.Logger
}

// Option configures a ProfilerAdapter
type Option func(*ProfilerAdapter)

// WithLogger routes profiler diagnostics to logger
func WithLogger(logger *internal.Logger) Option {
	return func(p *ProfilerAdapter) {
		p.logger = logger
	}
}

// NewProfilerAdapter creates a new profiler adapter. A nil coercer uses the default rules.
func NewProfilerAdapter(c *coercer.TypeCoercer, opts ...Option) *ProfilerAdapter {
	if c == nil {
		c = coercer.NewTypeCoercer(coercer.DefaultCoercionConfig())
	}
	p := &ProfilerAdapter{coercer: c, logger: internal.DefaultLogger}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Profile computes one ColumnProfile per physical column of t, in column
// order. Data-quality problems never fail the call: they are reported in
// profile fields and in Report.Warnings. Only a nil table (StructuralError)
// and non-positive parameters (ParameterError) are returned as errors.
//
// When a column name occurs more than once the first physical column is
// profiled, every occurrence receives that profile, and a
// duplicate_column warning is emitted once per name.
func (p *ProfilerAdapter) Profile(t *table.Table, config profiling.Config) (*profiling.Report, error) {
	if err := validateConfig(config); err != nil {
		return nil, apperrors.Parameter(err)
	}
	if t == nil {
		return nil, apperrors.Structural("cannot profile table", core.ErrNilTable)
	}

	columns := t.Columns()
	report := &profiling.Report{
		Table:    t.Name(),
		RowCount: t.RowCount(),
		Config:   config,
		Columns:  make([]profiling.ColumnProfile, len(columns)),
		Warnings: []profiling.Warning{},
	}

	// resolve names to the first physical column
	firstIndex := make(map[string]int, len(columns))
	order := make([]int, 0, len(columns))
	duplicated := make(map[string]bool)
	for i, col := range columns {
		if col == nil {
			return nil, apperrors.Structural(fmt.Sprintf("column %d cannot be read", i), core.ErrNilColumn)
		}
		if _, seen := firstIndex[col.Name]; seen {
			continue
		}
		firstIndex[col.Name] = i
		order = append(order, i)
		if matches := t.Lookup(col.Name); len(matches) > 1 {
			duplicated[col.Name] = true
			warning := profiling.Warning{
				Code:    profiling.WarnDuplicateColumn,
				Column:  col.Name,
				Message: fmt.Sprintf("column %q appears %d times; profiling the first occurrence", col.Name, len(matches)),
			}
			report.Warnings = append(report.Warnings, warning)
			p.logger.Warn("profile %s: %s", t.Name(), warning.Message)
		}
	}

	if config.Workers > 1 {
		var g errgroup.Group
		g.SetLimit(config.Workers)
		for _, idx := range order {
			idx := idx
			g.Go(func() error {
				report.Columns[idx] = p.profileColumn(columns[idx], config)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, apperrors.Wrap(err, fmt.Sprintf("profile %s", t.Name()))
		}
	} else {
		for _, idx := range order {
			report.Columns[idx] = p.profileColumn(columns[idx], config)
		}
	}

	for i, col := range columns {
		first := firstIndex[col.Name]
		if duplicated[col.Name] {
			if i == first {
				report.Columns[i].Conditions = append(report.Columns[i].Conditions, profiling.ConditionDuplicate)
			} else {
				report.Columns[i] = cloneProfile(report.Columns[first])
			}
		}
	}

	p.logger.Debug("profile %s: %d columns, %d rows, %d warnings",
		t.Name(), len(columns), t.RowCount(), len(report.Warnings))

	return report, nil
}

func validateConfig(config profiling.Config) error {
	if !isPositiveFinite(config.IQRMultiplier) {
		return core.NewParameterError("iqr_multiplier", config.IQRMultiplier, "must be a positive real number")
	}
	if !isPositiveFinite(config.ZThreshold) {
		return core.NewParameterError("z_threshold", config.ZThreshold, "must be a positive real number")
	}
	if config.Workers < 0 {
		return core.NewParameterError("workers", config.Workers, "must not be negative")
	}
	return nil
}

func isPositiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// cloneProfile copies a profile so duplicated entries do not share slices
func cloneProfile(src profiling.ColumnProfile) profiling.ColumnProfile {
	dst := src
	dst.Conditions = append([]profiling.Condition(nil), src.Conditions...)
	return dst
}
