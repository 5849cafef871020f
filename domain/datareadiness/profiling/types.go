package profiling

import (
	"wrangler/domain/table"
)

// ColumnProfile is the diagnostic record for one column.
//
// Fields that only apply to numeric columns are pointers; nil is the
// missing sentinel and serializes as JSON null. They are never zero-filled.
type ColumnProfile struct {
	Column  string            `json:"column"`
	Storage table.StorageType `json:"storage_type"`

	Kinds             KindCounts `json:"kinds"`
	NonMissingCount   int        `json:"non_missing_count"`
	MissingCount      int        `json:"missing_count"`
	DistinctCount     int        `json:"distinct_count"`
	InconsistentCount int        `json:"inconsistent_count"`
	ZeroCount         *int       `json:"zero_count"`       // numeric storage only
	EmptyTextCount    *int       `json:"empty_text_count"` // textual storage only

	NumericSummary
	IQRFence
	ZScoreRule

	Conditions []Condition `json:"conditions,omitempty"`
}

// KindCounts tallies runtime kinds among present values. The counters are
// independent: a text cell that reads as a date counts as text and as
// timestamp-like.
type KindCounts struct {
	Integer     int `json:"integer"`
	Float       int `json:"float"`
	Boolean     int `json:"boolean"`
	Timestamp   int `json:"timestamp"`
	Text        int `json:"text"`
	Categorical int `json:"categorical"`
}

// Distinct returns how many counters are non-zero
func (k KindCounts) Distinct() int {
	n := 0
	for _, c := range []int{k.Integer, k.Float, k.Boolean, k.Timestamp, k.Text, k.Categorical} {
		if c > 0 {
			n++
		}
	}
	return n
}

// NumericSummary holds distribution statistics over the non-missing values
type NumericSummary struct {
	Mean          *float64 `json:"mean"`
	StdDev        *float64 `json:"std_dev"` // sample (n-1)
	Mode          *float64 `json:"mode"`
	Min           *float64 `json:"min"`
	Q1            *float64 `json:"q1"`
	Median        *float64 `json:"median"`
	Q3            *float64 `json:"q3"`
	Max           *float64 `json:"max"`
	NegativeCount *int     `json:"negative_count"`
	Skewness      *float64 `json:"skewness"`
	Kurtosis      *float64 `json:"kurtosis"` // excess
}

// IQRFence holds the interquartile fence rule result
type IQRFence struct {
	IQR             *float64 `json:"iqr"`
	IQRMultiplier   *float64 `json:"iqr_multiplier"`
	LowerBound      *float64 `json:"lower_bound"`
	UpperBound      *float64 `json:"upper_bound"`
	IQROutlierCount *int     `json:"iqr_outliers"`
	IQROutlierPct   *float64 `json:"iqr_outlier_pct"`
}

// ZScoreRule holds the z-score rule result. All fields are nil for
// constant columns.
type ZScoreRule struct {
	MaxAbsZ       *float64 `json:"max_abs_z"`
	ZThreshold    *float64 `json:"z_threshold"`
	ZOutlierCount *int     `json:"z_outliers"`
	ZOutlierPct   *float64 `json:"z_outlier_pct"`
}

// Condition marks a data-quality situation encoded in the profile
type Condition string

const (
	ConditionAllMissing Condition = "all_missing"
	ConditionConstant   Condition = "constant"
	ConditionMixedKinds Condition = "mixed_kinds"
	ConditionDuplicate  Condition = "duplicate_name"
)

// WarningCode identifies a diagnostic emitted while profiling
type WarningCode string

const (
	WarnDuplicateColumn WarningCode = "duplicate_column"
)

// Warning is a non-fatal diagnostic returned alongside the report
type Warning struct {
	Code    WarningCode `json:"code"`
	Column  string      `json:"column"`
	Message string      `json:"message"`
}

// Config holds the outlier rule parameters
type Config struct {
	IQRMultiplier float64 `json:"iqr_multiplier" validate:"gt=0"`
	ZThreshold    float64 `json:"z_threshold" validate:"gt=0"`
	Workers       int     `json:"workers" validate:"min=0"` // 0 or 1 means sequential
}

// DefaultConfig returns the conventional parameters: a 3x IQR fence and |z| > 3
func DefaultConfig() Config {
	return Config{
		IQRMultiplier: 3,
		ZThreshold:    3.0,
		Workers:       1,
	}
}

// Report is an immutable snapshot: one profile per physical input column,
// in input order.
type Report struct {
	Table    string          `json:"table"`
	RowCount int             `json:"row_count"`
	Config   Config          `json:"config"`
	Columns  []ColumnProfile `json:"columns"`
	Warnings []Warning       `json:"warnings"`
}

// Lookup returns the first profile for the named column
func (r *Report) Lookup(name string) (ColumnProfile, bool) {
	for _, p := range r.Columns {
		if p.Column == name {
			return p, true
		}
	}
	return ColumnProfile{}, false
}

// Names returns the profiled column names in report order
func (r *Report) Names() []string {
	names := make([]string, len(r.Columns))
	for i, p := range r.Columns {
		names[i] = p.Column
	}
	return names
}

// HasCondition reports whether the profile carries condition c
func (p ColumnProfile) HasCondition(c Condition) bool {
	for _, have := range p.Conditions {
		if have == c {
			return true
		}
	}
	return false
}
