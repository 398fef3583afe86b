package dmlrt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fold(t *testing.T, agg Aggregator, values ...any) any {
	t.Helper()

	for _, v := range values {
		require.NoError(t, agg.Add(v))
	}

	return agg.Result()
}

func TestAggregators(t *testing.T) {
	assert.Equal(t, int64(3), fold(t, Sum(), int64(1), int64(2), nil))
	assert.Equal(t, 3.5, fold(t, Sum(), int64(1), "2.5"))
	assert.Equal(t, int64(0), fold(t, Sum()))
	assert.Equal(t, 2.0, fold(t, Avg(), int64(1), "3"))
	assert.Nil(t, fold(t, Avg()))
	assert.Equal(t, int64(2), fold(t, Count(), nil, "x", int64(0)))
	assert.Equal(t, int64(1), fold(t, Min(), "3", int64(1), 2.5))
	assert.Equal(t, 3.0, fold(t, Max(), "3", int64(1), 2.5))
	assert.Nil(t, fold(t, Max()))
}

func TestAggregators_RejectText(t *testing.T) {
	for _, agg := range []Aggregator{Sum(), Avg(), Min(), Max()} {
		assert.Error(t, agg.Add("abc"))
	}

	assert.NoError(t, Count().Add("abc"))
}
