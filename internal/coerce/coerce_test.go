package coerce

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seenimoa/finlens/pkg/models"
)

func TestCoerceNumbers(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want models.Value
	}{
		{"float", 1.5, models.Of(1.5)},
		{"int", 42, models.Of(42)},
		{"int64", int64(-7), models.Of(-7)},
		{"uint8", uint8(3), models.Of(3)},
		{"float32", float32(0.5), models.Of(0.5)},
		{"zero", 0, models.Of(0)},
		{"json number", json.Number("1234.5"), models.Of(1234.5)},
		{"value passthrough", models.Of(9), models.Of(9)},
		{"nan", math.NaN(), models.Unavailable()},
		{"inf", math.Inf(1), models.Unavailable()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Coerce(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCoerceStrings(t *testing.T) {
	tests := []struct {
		raw  string
		want models.Value
	}{
		{"23.2%", models.Of(23.2)},
		{"23.20%", models.Of(23.2)},
		{"₹1,23,456", models.Of(123456)},
		{" 1,000.50 ", models.Of(1000.5)},
		{"-45", models.Of(-45)},
		{"0", models.Of(0)},
		{"", models.Unavailable()},
		{"   ", models.Unavailable()},
		{"N/A", models.Unavailable()},
		{"n/a", models.Unavailable()},
		{"NA", models.Unavailable()},
		{"na", models.Unavailable()},
		{"Infinity", models.Unavailable()},
		{"NaN", models.Unavailable()},
		{"twelve", models.Unavailable()},
		{"%", models.Unavailable()},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := Coerce(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCoerceNil(t *testing.T) {
	got, err := Coerce(nil)
	require.NoError(t, err)
	assert.False(t, got.IsAvailable())
}

func TestCoerceTypeMismatch(t *testing.T) {
	for _, raw := range []any{true, false, map[string]any{"a": 1}, []any{1, 2}, struct{}{}} {
		got, err := Coerce(raw)
		require.ErrorIs(t, err, models.ErrTypeMismatch)
		assert.False(t, got.IsAvailable())
		assert.False(t, Number(raw).IsAvailable())
	}
}

func TestNumber(t *testing.T) {
	assert.Equal(t, models.Of(23.2), Number("23.2%"))
	assert.Equal(t, models.Of(0), Number(0))
	assert.False(t, Number(nil).IsAvailable())
}

func TestIsSentinel(t *testing.T) {
	assert.True(t, IsSentinel(" n/a "))
	assert.True(t, IsSentinel(""))
	assert.False(t, IsSentinel("0"))
	assert.False(t, IsSentinel("NAV"))
}
