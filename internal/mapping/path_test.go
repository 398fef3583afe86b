package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"OrderID", []string{"OrderID"}},
		{"Order/OrderID", []string{"Order", "OrderID"}},
		{"Customer.Name", []string{"Customer", "Name"}},
		{"N1/01", []string{"N1", "01"}},
		{"Order/@id", []string{"Order", "@id"}},
		{"Order ID", []string{"Order ID"}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			p, err := ParsePath(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Segments)
		})
	}
}

func TestParsePath_Invalid(t *testing.T) {
	for _, in := range []string{"", "/a", "a/", "a//b", "a..b", "a/@", "a/b$"} {
		_, err := ParsePath(in)
		assert.Error(t, err, in)
	}
}

func TestFieldPath_Helpers(t *testing.T) {
	p := MustParsePath("Order.Items/Item")

	assert.Equal(t, "Order/Items/Item", p.String())
	assert.Equal(t, "Order", p.Root())
	assert.Equal(t, "Item", p.Last())
	assert.False(t, p.IsSimple())
	assert.True(t, p.Equals(MustParsePath("Order/Items/Item")))
	assert.False(t, p.Equals(MustParsePath("Order/Items")))
}

func TestFieldRef_String(t *testing.T) {
	ref := FieldRef{Alias: "ref", Path: MustParsePath("status")}
	assert.Equal(t, "ref:status", ref.String())
}
