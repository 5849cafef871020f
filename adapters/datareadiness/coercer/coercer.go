package coercer

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"wrangler/domain/table"
	"wrangler/internal"
)

// TypeCoercer turns loosely typed cells into typed values. Every Parse*
// method is a parse-or-missing combinator: a value that cannot be read as
// the requested kind comes back as table.Missing(), never as an error and
// never as a zero value.
type TypeCoercer struct {
	config CoercionConfig
	logger *internal.Logger
}

// CoercionConfig defines the coercion thresholds and rules
type CoercionConfig struct {
	NumericThreshold   float64  `json:"numeric_threshold"`   // % of values that must parse as numbers
	BooleanThreshold   float64  `json:"boolean_threshold"`   // % of values that must parse as booleans
	TimestampThreshold float64  `json:"timestamp_threshold"` // % of values that must parse as timestamps
	TimestampLayouts   []string `json:"timestamp_layouts"`
	NormalizeStrings   bool     `json:"normalize_strings"` // Whether to trim/collapse strings on output
}

// DefaultTimestampLayouts are tried in order by ParseTimestamp
var DefaultTimestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"2006/01/02",
	"02-Jan-2006",
	"01/02/2006 15:04",
}

// DefaultCoercionConfig returns sensible defaults
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		NumericThreshold:   0.8, // 80% must parse as numbers
		BooleanThreshold:   0.9, // 90% must parse as booleans
		TimestampThreshold: 0.8, // 80% must parse as timestamps
		TimestampLayouts:   DefaultTimestampLayouts,
		NormalizeStrings:   false,
	}
}

// NewTypeCoercer creates a coercer with the given config
func NewTypeCoercer(config CoercionConfig) *TypeCoercer {
	if len(config.TimestampLayouts) == 0 {
		config.TimestampLayouts = DefaultTimestampLayouts
	}
	return &TypeCoercer{config: config, logger: internal.DefaultLogger}
}

// WithLogger returns a copy of the coercer that logs to logger
func (c *TypeCoercer) WithLogger(logger *internal.Logger) *TypeCoercer {
	cp := *c
	cp.logger = logger
	return &cp
}

// ParseFloat reads v as a float. Integers and booleans convert directly;
// text goes through the lenient number grammar (currency symbols,
// thousands separators, accounting negatives). Failure yields Missing.
func (c *TypeCoercer) ParseFloat(v table.Value) table.Value {
	switch v.Kind() {
	case table.KindInteger, table.KindFloat:
		f, _ := v.AsFloat()
		return table.Float(f)
	case table.KindBoolean:
		if b, _ := v.AsBool(); b {
			return table.Float(1)
		}
		return table.Float(0)
	case table.KindText, table.KindCategory:
		s, _ := v.AsText()
		if f, ok := parseNumber(s); ok {
			return table.Float(f)
		}
	}
	return table.Missing()
}

// ParseInt reads v as a number and truncates toward zero. Failure yields Missing.
func (c *TypeCoercer) ParseInt(v table.Value) table.Value {
	if i, ok := v.AsInt(); ok {
		return table.Int(i)
	}
	f, ok := c.ParseFloat(v).AsFloat()
	if !ok || f >= math.MaxInt64 || f <= math.MinInt64 {
		return table.Missing()
	}
	return table.Int(int64(math.Trunc(f)))
}

// ParseBool accepts true/false, yes/no, y/n, on/off and 1/0. Failure yields Missing.
func (c *TypeCoercer) ParseBool(v table.Value) table.Value {
	switch v.Kind() {
	case table.KindBoolean:
		return v
	case table.KindMissing, table.KindTimestamp, table.KindList, table.KindMap:
		return table.Missing()
	}
	switch strings.ToLower(strings.TrimSpace(v.CanonicalText())) {
	case "true", "1", "yes", "y", "on":
		return table.Bool(true)
	case "false", "0", "no", "n", "off":
		return table.Bool(false)
	}
	return table.Missing()
}

// ParseTimestamp tries each configured layout on text values. Failure yields Missing.
func (c *TypeCoercer) ParseTimestamp(v table.Value) table.Value {
	if v.Kind() == table.KindTimestamp {
		return v
	}
	s, ok := v.AsText()
	if !ok {
		return table.Missing()
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return table.Missing()
	}
	for _, layout := range c.config.TimestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return table.Time(t)
		}
	}
	return table.Missing()
}

// LooksLikeTimestamp reports whether v is a timestamp or text that parses as one
func (c *TypeCoercer) LooksLikeTimestamp(v table.Value) bool {
	return !c.ParseTimestamp(v).IsMissing()
}

// NormalizeString applies deterministic whitespace and control-character cleanup
func (c *TypeCoercer) NormalizeString(s string) string {
	s = strings.TrimSpace(s)
	s = whitespaceRun.ReplaceAllString(s, " ")
	return strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return -1
		}
		return r
	}, s)
}

var whitespaceRun = regexp.MustCompile(`\s+`)

var currencySymbols = []string{"$", "€", "£", "¥", "USD", "EUR", "GBP", "JPY"}

// parseNumber handles international formats: parentheses for negatives,
// European decimals, currency symbols and percent signs
func parseNumber(raw string) (float64, bool) {
	cleanVal := strings.TrimSpace(raw)
	if cleanVal == "" {
		return 0, false
	}

	// Handle parentheses for negative numbers: (123) -> -123
	isNegative := false
	if strings.HasPrefix(cleanVal, "(") && strings.HasSuffix(cleanVal, ")") {
		cleanVal = strings.TrimSuffix(strings.TrimPrefix(cleanVal, "("), ")")
		isNegative = true
	}

	for _, symbol := range currencySymbols {
		cleanVal = strings.ReplaceAll(cleanVal, symbol, "")
	}
	cleanVal = strings.TrimSpace(strings.TrimSuffix(cleanVal, "%"))

	hasComma := strings.Contains(cleanVal, ",")
	hasPeriod := strings.Contains(cleanVal, ".")
	hasSpace := strings.Contains(cleanVal, " ")

	switch {
	case hasComma && (hasPeriod || hasSpace):
		// 1.234,56 and 1 234,56 use the comma as decimal mark when it comes last
		commaIdx := strings.LastIndex(cleanVal, ",")
		if commaIdx > strings.LastIndex(cleanVal, ".") {
			cleanVal = strings.ReplaceAll(cleanVal, ".", "")
			cleanVal = strings.ReplaceAll(cleanVal, " ", "")
			cleanVal = strings.ReplaceAll(cleanVal, ",", ".")
		} else {
			cleanVal = strings.ReplaceAll(cleanVal, ",", "")
			cleanVal = strings.ReplaceAll(cleanVal, " ", "")
		}
	case hasComma:
		// A single comma followed by exactly three digits groups thousands
		parts := strings.Split(cleanVal, ",")
		if len(parts) == 2 && len(parts[1]) != 3 {
			cleanVal = parts[0] + "." + parts[1]
		} else {
			cleanVal = strings.ReplaceAll(cleanVal, ",", "")
		}
	default:
		cleanVal = strings.ReplaceAll(cleanVal, " ", "")
	}

	if isNegative {
		cleanVal = "-" + cleanVal
	}

	val, err := strconv.ParseFloat(cleanVal, 64)
	if err != nil || math.IsInf(val, 0) || math.IsNaN(val) {
		return 0, false
	}
	return val, true
}

// AnalyzeTypeDistribution analyzes a sample to determine the best storage type
func (c *TypeCoercer) AnalyzeTypeDistribution(values []table.Value) TypeAnalysis {
	analysis := TypeAnalysis{TotalCount: len(values)}

	for _, val := range values {
		if val.IsMissing() {
			continue
		}
		analysis.ValidCount++

		switch val.Kind() {
		case table.KindInteger:
			analysis.IntegerCount++
			analysis.NumericCount++
			continue
		case table.KindFloat:
			analysis.NumericCount++
			continue
		case table.KindBoolean:
			analysis.BooleanCount++
			continue
		case table.KindTimestamp:
			analysis.TimestampCount++
			continue
		}

		if f, ok := c.ParseFloat(val).AsFloat(); ok {
			analysis.NumericCount++
			if f == math.Trunc(f) {
				analysis.IntegerCount++
			}
		}
		if !c.ParseBool(val).IsMissing() {
			analysis.BooleanCount++
		}
		if c.LooksLikeTimestamp(val) {
			analysis.TimestampCount++
		}
	}

	if analysis.ValidCount > 0 {
		valid := float64(analysis.ValidCount)
		analysis.NumericRatio = float64(analysis.NumericCount) / valid
		analysis.BooleanRatio = float64(analysis.BooleanCount) / valid
		analysis.TimestampRatio = float64(analysis.TimestampCount) / valid
	}
	analysis.RecommendedType = c.determineRecommendedType(analysis)

	return analysis
}

// determineRecommendedType chooses the best type based on analysis
func (c *TypeCoercer) determineRecommendedType(analysis TypeAnalysis) table.StorageType {
	if analysis.ValidCount == 0 {
		return table.StorageFloat
	}

	// 0/1 columns stay numeric unless true/false words are present
	if analysis.BooleanRatio >= c.config.BooleanThreshold && analysis.BooleanCount > analysis.IntegerCount {
		return table.StorageBoolean
	}

	if analysis.NumericRatio >= c.config.NumericThreshold {
		if analysis.IntegerCount == analysis.NumericCount && analysis.NumericCount == analysis.ValidCount {
			return table.StorageInteger
		}
		if analysis.NumericCount == analysis.ValidCount {
			return table.StorageFloat
		}
		return table.StorageMixed
	}

	if analysis.TimestampRatio >= c.config.TimestampThreshold {
		return table.StorageTimestamp
	}

	if analysis.NumericCount > 0 || analysis.BooleanCount > 0 {
		return table.StorageMixed
	}
	return table.StorageText
}

// TypeAnalysis contains the results of type distribution analysis
type TypeAnalysis struct {
	TotalCount      int               `json:"total_count"`
	ValidCount      int               `json:"valid_count"`
	NumericCount    int               `json:"numeric_count"`
	IntegerCount    int               `json:"integer_count"`
	BooleanCount    int               `json:"boolean_count"`
	TimestampCount  int               `json:"timestamp_count"`
	NumericRatio    float64           `json:"numeric_ratio"`
	BooleanRatio    float64           `json:"boolean_ratio"`
	TimestampRatio  float64           `json:"timestamp_ratio"`
	RecommendedType table.StorageType `json:"recommended_type"`
}
