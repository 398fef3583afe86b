package dmlrt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCast(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		typ     Type
		want    any
		wantErr bool
	}{
		{"integer from string", "42", TypeInteger, int64(42), false},
		{"integer from integral float string", "12.0", TypeInteger, int64(12), false},
		{"integer rejects fraction", "12.5", TypeInteger, nil, true},
		{"integer rejects text", "abc", TypeInteger, nil, true},
		{"integer from bool", true, TypeInteger, int64(1), false},
		{"decimal from string", "3.25", TypeDecimal, 3.25, false},
		{"decimal rejects text", "n/a", TypeDecimal, nil, true},
		{"boolean from yes", "Yes", TypeBoolean, true, false},
		{"boolean rejects text", "maybe", TypeBoolean, nil, true},
		{"string from int", int64(5), TypeString, "5", false},
		{"datetime from date", "2024-03-05", TypeDatetime, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), false},
		{"datetime from EDI date", "20240305", TypeDatetime, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), false},
		{"nil stays nil", nil, TypeInteger, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Cast(tt.value, tt.typ)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a    any
		op   Op
		b    any
		want bool
	}{
		{"numeric string against int", "10", Gt, int64(9), true},
		{"numbers not compared as text", "10", Lt, "9", false},
		{"text", "abc", Lt, "abd", true},
		{"equal text", "A", Eq, "A", true},
		{"nil equals nil", nil, Eq, nil, true},
		{"nil not equal value", nil, Neq, "x", true},
		{"nil never ordered", nil, Gt, int64(1), false},
		{"bool against text", true, Eq, "true", true},
		{"gte", 2.5, Gte, 2.5, true},
		{"lte", int64(3), Lte, 2.5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compare(tt.a, tt.op, tt.b))
		})
	}
}

func TestTruthy(t *testing.T) {
	assert.False(t, Truthy(nil))
	assert.False(t, Truthy(""))
	assert.False(t, Truthy("false"))
	assert.False(t, Truthy(int64(0)))
	assert.True(t, Truthy("x"))
	assert.True(t, Truthy(1.5))
	assert.True(t, Truthy([]any{"a"}))
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "a 3", Join("a", nil, int64(3)))
	assert.Nil(t, Join(nil, nil))
	assert.True(t, AllNull(nil, nil))
	assert.False(t, AllNull(nil, ""))
}

func TestFormatValue(t *testing.T) {
	rec := NewRecord()
	rec.Set("a", int64(1))

	assert.Equal(t, "2.5", FormatValue(2.5))
	assert.Equal(t, "true", FormatValue(true))
	assert.Equal(t, "2024-03-05T10:00:00Z", FormatValue(time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)))
	assert.Equal(t, `{"a":1}`, FormatValue(rec))
	assert.Equal(t, `["x",2]`, FormatValue([]any{"x", int64(2)}))
}
