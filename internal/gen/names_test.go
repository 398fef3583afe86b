package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStem(t *testing.T) {
	st := newStem("rule", nil)
	assert.Equal(t, []string{"rule1", "rule2", "rule3"}, []string{st.next(), st.next(), st.next()})

	st = newStem("fold", map[string]struct{}{"fold2": {}})
	assert.Equal(t, []string{"fold1", "fold3", "fold4"}, []string{st.next(), st.next(), st.next()})
}
