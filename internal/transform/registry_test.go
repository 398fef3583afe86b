package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_ContainsLibrary(t *testing.T) {
	r := Default()

	assert.Equal(t, []string{
		"concat", "convert_timezone", "float", "format_date", "format_number", "ifelse",
		"int", "lower", "replace", "round", "substring", "trim", "upper",
	}, r.Names())
	assert.Equal(t, []string{"avg", "count", "max", "min", "sum"}, r.AggregateNames())
}

func TestDef_AcceptsArgs(t *testing.T) {
	r := Default()

	sub, ok := r.Lookup("substring")
	require.True(t, ok)
	assert.False(t, sub.AcceptsArgs(0))
	assert.True(t, sub.AcceptsArgs(1))
	assert.True(t, sub.AcceptsArgs(2))
	assert.False(t, sub.AcceptsArgs(3))
	assert.Equal(t, "1 to 2", sub.Arity())

	concat, _ := r.Lookup("concat")
	assert.True(t, concat.AcceptsArgs(0))
	assert.True(t, concat.AcceptsArgs(7))
	assert.Equal(t, "at least 0", concat.Arity())

	upper, _ := r.Lookup("upper")
	assert.False(t, upper.AcceptsArgs(1))
	assert.Equal(t, "0", upper.Arity())
}

func TestRegistry_Aggregate(t *testing.T) {
	r := Default()

	count, ok := r.Aggregate("count")
	require.True(t, ok)
	assert.False(t, count.Numeric)

	sum, _ := r.Aggregate("sum")
	assert.True(t, sum.Numeric)

	_, ok = r.Aggregate("median")
	assert.False(t, ok)
	assert.False(t, r.Has("median"))
}

func TestNewRegistry_IsIndependent(t *testing.T) {
	custom := NewRegistry([]Def{{Name: "upper", Func: "Upper"}}, nil)

	assert.Equal(t, []string{"upper"}, custom.Names())
	assert.Len(t, Default().Names(), 13)
}
