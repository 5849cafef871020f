package table

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Kind is the runtime variant of a single cell value.
type Kind int

const (
	KindMissing Kind = iota
	KindInteger
	KindFloat
	KindBoolean
	KindTimestamp
	KindText
	KindCategory
	KindList
	KindMap
)

var kindNames = map[Kind]string{
	KindMissing:   "missing",
	KindInteger:   "integer",
	KindFloat:     "float",
	KindBoolean:   "boolean",
	KindTimestamp: "timestamp",
	KindText:      "text",
	KindCategory:  "category",
	KindList:      "list",
	KindMap:       "map",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Value is a tagged cell value. The zero Value is Missing.
type Value struct {
	kind Kind
	i    int64
	f    float64
	b    bool
	t    time.Time
	s    string
	x    any
}

// Missing returns the distinguished missing value.
func Missing() Value { return Value{} }

// Int creates an integer value
func Int(i int64) Value { return Value{kind: KindInteger, i: i} }

// Float creates a float value. NaN is treated as missing.
func Float(f float64) Value {
	if math.IsNaN(f) {
		return Missing()
	}
	return Value{kind: KindFloat, f: f}
}

// Bool creates a boolean value
func Bool(b bool) Value { return Value{kind: KindBoolean, b: b} }

// Time creates a timestamp value. The zero time is treated as missing.
func Time(t time.Time) Value {
	if t.IsZero() {
		return Missing()
	}
	return Value{kind: KindTimestamp, t: t}
}

// Text creates a text value. Empty strings are kept as text, not missing.
func Text(s string) Value { return Value{kind: KindText, s: s} }

// Category creates a categorical label value
func Category(s string) Value { return Value{kind: KindCategory, s: s} }

// List creates a list value
func List(items []any) Value {
	if items == nil {
		return Missing()
	}
	return Value{kind: KindList, x: items}
}

// Map creates a map value
func Map(m map[string]any) Value {
	if m == nil {
		return Missing()
	}
	return Value{kind: KindMap, x: m}
}

// Of wraps a plain Go value into a Value. Unsupported types become text via fmt.
func Of(v any) Value {
	switch x := v.(type) {
	case nil:
		return Missing()
	case Value:
		return x
	case int:
		return Int(int64(x))
	case int8:
		return Int(int64(x))
	case int16:
		return Int(int64(x))
	case int32:
		return Int(int64(x))
	case int64:
		return Int(x)
	case uint8:
		return Int(int64(x))
	case uint16:
		return Int(int64(x))
	case uint32:
		return Int(int64(x))
	case uint:
		return unsigned(uint64(x))
	case uint64:
		return unsigned(x)
	case uintptr:
		return unsigned(uint64(x))
	case float32:
		return Float(float64(x))
	case float64:
		return Float(x)
	case bool:
		return Bool(x)
	case time.Time:
		return Time(x)
	case string:
		return Text(x)
	case []any:
		return List(x)
	case map[string]any:
		return Map(x)
	default:
		return Text(fmt.Sprintf("%v", x))
	}
}

// unsigned keeps values that fit int64 as integers and widens the rest to float
func unsigned(u uint64) Value {
	if u > math.MaxInt64 {
		return Float(float64(u))
	}
	return Int(int64(u))
}

// Kind returns the runtime variant of the value
func (v Value) Kind() Kind { return v.kind }

// IsMissing reports whether the value is the missing sentinel
func (v Value) IsMissing() bool { return v.kind == KindMissing }

// IsNumber reports whether the value is an integer or a float
func (v Value) IsNumber() bool { return v.kind == KindInteger || v.kind == KindFloat }

// AsFloat returns the numeric value. ok is false for non-numeric kinds.
func (v Value) AsFloat() (f float64, ok bool) {
	switch v.kind {
	case KindInteger:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	}
	return 0, false
}

// AsInt returns the integer payload. ok is false unless the kind is integer.
func (v Value) AsInt() (int64, bool) {
	if v.kind == KindInteger {
		return v.i, true
	}
	return 0, false
}

// AsBool returns the boolean payload
func (v Value) AsBool() (bool, bool) {
	if v.kind == KindBoolean {
		return v.b, true
	}
	return false, false
}

// AsTime returns the timestamp payload
func (v Value) AsTime() (time.Time, bool) {
	if v.kind == KindTimestamp {
		return v.t, true
	}
	return time.Time{}, false
}

// AsText returns the text payload for text and category values
func (v Value) AsText() (string, bool) {
	if v.kind == KindText || v.kind == KindCategory {
		return v.s, true
	}
	return "", false
}

// Raw returns the payload as a plain Go value, nil for missing.
func (v Value) Raw() any {
	switch v.kind {
	case KindInteger:
		return v.i
	case KindFloat:
		return v.f
	case KindBoolean:
		return v.b
	case KindTimestamp:
		return v.t
	case KindText, KindCategory:
		return v.s
	case KindList, KindMap:
		return v.x
	}
	return nil
}

// CanonicalText is the type-blind text form used for distinct counting.
// Integer 1, float 1.0 and text "1" share the form "1".
func (v Value) CanonicalText() string {
	switch v.kind {
	case KindInteger:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case KindBoolean:
		return strconv.FormatBool(v.b)
	case KindTimestamp:
		return v.t.Format(time.RFC3339Nano)
	case KindText, KindCategory:
		return v.s
	case KindList, KindMap:
		return fmt.Sprint(v.x)
	}
	return ""
}

func (v Value) String() string {
	if v.kind == KindMissing {
		return "<missing>"
	}
	return v.CanonicalText()
}

// Equal compares kind and payload
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindMissing:
		return true
	case KindTimestamp:
		return v.t.Equal(o.t)
	case KindList, KindMap:
		return fmt.Sprint(v.x) == fmt.Sprint(o.x)
	}
	return v.i == o.i && v.f == o.f && v.b == o.b && v.s == o.s
}
