package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"upper", "uper", 1},
		{"straße", "strasse", 2},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Levenshtein(tt.a, tt.b), "%s/%s", tt.a, tt.b)
		assert.Equal(t, tt.want, Levenshtein(tt.b, tt.a), "%s/%s", tt.b, tt.a)
	}
}

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, Similarity("", ""), 1e-9)
	assert.InDelta(t, 0.8, Similarity("upper", "uppar"), 1e-9)
	assert.InDelta(t, 0.0, Similarity("abc", "xyz"), 1e-9)
}

func TestNormalizeIdent(t *testing.T) {
	assert.Equal(t, "orderid", NormalizeIdent("OrderID"))
	assert.Equal(t, "orderid", NormalizeIdent("order_id"))
	assert.Equal(t, "orderid", NormalizeIdent("order-id"))
}

func TestTokenizeIdent(t *testing.T) {
	assert.Equal(t, []string{"xml", "parser"}, TokenizeIdent("XMLParser"))
	assert.Equal(t, []string{"ship", "to", "name"}, TokenizeIdent("ship_to/Name"))
	assert.Equal(t, []string{"order", "id"}, TokenizeIdent("orderID"))
	assert.Nil(t, TokenizeIdent(""))
}

func TestSuggest(t *testing.T) {
	known := []string{"upper", "lower", "trim", "substring", "format_date", "format_number"}

	assert.Equal(t, []string{"upper"}, Suggest("uper", known))
	assert.Equal(t, []string{"format_date"}, Suggest("formatdate", known))
	assert.Empty(t, Suggest("zzz", known))
}

func TestRankCandidates_Deterministic(t *testing.T) {
	ranked := RankCandidates("ab", []string{"ac", "aa", "ab"})

	assert.Equal(t, []string{"aa", "ac"}, ranked.Names())
}
