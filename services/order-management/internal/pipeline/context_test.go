package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaskContext(t *testing.T) {
	tc := NewTaskContext()
	other := NewTaskContext()

	assert.NotEmpty(t, tc.ID())
	assert.NotEqual(t, tc.ID(), other.ID())
	assert.False(t, tc.CreatedAt().IsZero())

	tc.Put("cumQty", 42)
	tc.PutMetadata("source", "kafka")

	v, ok := Value[int](tc, "cumQty")
	assert.True(t, ok)
	assert.Equal(t, 42, v)

	_, ok = Value[string](tc, "cumQty")
	assert.False(t, ok)

	assert.True(t, tc.Has("cumQty"))
	tc.Remove("cumQty")
	assert.False(t, tc.Has("cumQty"))

	tc.Put("k", "v")
	tc.Reset()
	_, ok = tc.Get("k")
	assert.False(t, ok)
	assert.Equal(t, "kafka", tc.Metadata("source"))
}
