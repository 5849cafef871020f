package table

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestZeroValueIsMissing(t *testing.T) {
	var v Value
	assert.True(t, v.IsMissing())
	assert.Equal(t, KindMissing, v.Kind())
	assert.Nil(t, v.Raw())
	assert.Equal(t, "", v.CanonicalText())
	assert.Equal(t, "<missing>", v.String())
}

func TestConstructorsNormalizeSentinels(t *testing.T) {
	assert.True(t, Float(math.NaN()).IsMissing(), "NaN is missing")
	assert.True(t, Time(time.Time{}).IsMissing(), "zero time is missing")
	assert.True(t, List(nil).IsMissing())
	assert.True(t, Map(nil).IsMissing())
	assert.False(t, Text("").IsMissing(), "empty text is a value")
	assert.False(t, Float(math.Inf(1)).IsMissing())
}

func TestOf(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		in   any
		kind Kind
	}{
		{"nil", nil, KindMissing},
		{"int", 7, KindInteger},
		{"int32", int32(7), KindInteger},
		{"uint8", uint8(7), KindInteger},
		{"uint", uint(7), KindInteger},
		{"uint64", uint64(7), KindInteger},
		{"uintptr", uintptr(7), KindInteger},
		{"uint64 above int64 range", uint64(math.MaxUint64), KindFloat},
		{"float32", float32(1.5), KindFloat},
		{"float64", 1.5, KindFloat},
		{"bool", true, KindBoolean},
		{"time", ts, KindTimestamp},
		{"string", "x", KindText},
		{"list", []any{1, "a"}, KindList},
		{"map", map[string]any{"k": 2}, KindMap},
		{"value passes through", Category("a"), KindCategory},
		{"other types become text", struct{ A int }{1}, KindText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, Of(tt.in).Kind())
		})
	}
}

func TestOfUnsignedKeepsMagnitude(t *testing.T) {
	i, ok := Of(uint(5)).AsInt()
	assert.True(t, ok)
	assert.Equal(t, int64(5), i)

	i, ok = Of(uint64(math.MaxInt64)).AsInt()
	assert.True(t, ok)
	assert.Equal(t, int64(math.MaxInt64), i)

	f, ok := Of(uint64(math.MaxUint64)).AsFloat()
	assert.True(t, ok)
	assert.Equal(t, float64(math.MaxUint64), f)
}

func TestAccessors(t *testing.T) {
	f, ok := Int(3).AsFloat()
	assert.True(t, ok)
	assert.Equal(t, 3.0, f)

	_, ok = Float(2.5).AsInt()
	assert.False(t, ok, "floats are not integers")

	_, ok = Text("3").AsFloat()
	assert.False(t, ok, "accessors never coerce")

	s, ok := Category("gold").AsText()
	assert.True(t, ok)
	assert.Equal(t, "gold", s)

	b, ok := Bool(true).AsBool()
	assert.True(t, ok)
	assert.True(t, b)

	assert.True(t, Int(1).IsNumber())
	assert.True(t, Float(1).IsNumber())
	assert.False(t, Bool(true).IsNumber())
}

func TestCanonicalTextIsTypeBlind(t *testing.T) {
	assert.Equal(t, "1", Int(1).CanonicalText())
	assert.Equal(t, "1", Float(1.0).CanonicalText())
	assert.Equal(t, "1", Text("1").CanonicalText())
	assert.Equal(t, "2.5", Float(2.5).CanonicalText())
	assert.Equal(t, "true", Bool(true).CanonicalText())
	assert.Equal(t, "2024-03-01T12:00:00Z", Time(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)).CanonicalText())
}

func TestEqual(t *testing.T) {
	assert.True(t, Missing().Equal(Missing()))
	assert.True(t, Int(1).Equal(Int(1)))
	assert.False(t, Int(1).Equal(Float(1)), "kinds must match")
	assert.False(t, Text("a").Equal(Category("a")))
	assert.True(t, List([]any{1, "a"}).Equal(List([]any{1, "a"})))

	utc := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	assert.True(t, Time(utc).Equal(Time(utc.In(time.FixedZone("X", 3600)))), "same instant")
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "integer", KindInteger.String())
	assert.Equal(t, "category", KindCategory.String())
	assert.Equal(t, "kind(42)", Kind(42).String())
}
