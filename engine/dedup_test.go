package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupWindowRecordAndHas(t *testing.T) {
	w := NewDedupWindow(10)

	assert.False(t, w.Has(42))
	w.Record(42)
	assert.True(t, w.Has(42))
	w.Record(42)
	assert.Equal(t, 1, w.Len())
}

func TestDedupWindowFullResetAtCapacity(t *testing.T) {
	// Overflow clears the whole window and re-seeds it with the newest id.
	// This is the intended behavior, not LRU eviction: the window only needs
	// to cover the gap between a local insert and its push echo.
	w := NewDedupWindow(3)

	w.Record(1)
	w.Record(2)
	w.Record(3)
	assert.Equal(t, 3, w.Len())

	w.Record(4)
	assert.Equal(t, 1, w.Len())
	assert.True(t, w.Has(4))
	assert.False(t, w.Has(1))
	assert.False(t, w.Has(3))
}

func TestDedupWindowDefaultCapacity(t *testing.T) {
	w := NewDedupWindow(0)
	for id := int64(1); id <= DefaultDedupCapacity; id++ {
		w.Record(id)
	}
	assert.Equal(t, DefaultDedupCapacity, w.Len())

	w.Record(DefaultDedupCapacity + 1)
	assert.Equal(t, 1, w.Len())
}
