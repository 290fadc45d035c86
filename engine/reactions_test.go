package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReactionSetAddRemove(t *testing.T) {
	s := NewReactionSet()

	assert.False(t, s.Has(1, "👍"))
	s.Add(1, "👍")
	s.Add(1, "🎉")
	assert.True(t, s.Has(1, "👍"))
	assert.Equal(t, []string{"🎉", "👍"}, s.For(1))

	s.Remove(1, "👍")
	assert.False(t, s.Has(1, "👍"))
	assert.Equal(t, []string{"🎉"}, s.For(1))

	s.Remove(1, "🎉")
	assert.Nil(t, s.For(1))
}

func TestReactionSetRemoveUnknownIsNoop(t *testing.T) {
	s := NewReactionSet()
	s.Remove(9, "👍")
	assert.Nil(t, s.For(9))
}
