package ring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferEvictsOldest(t *testing.T) {
	b := New[int](3)
	for i := 1; i <= 5; i++ {
		b.Push(i)
	}

	require.Equal(t, 3, b.Len())
	assert.Equal(t, []int{3, 4, 5}, b.Values())

	last, ok := b.Last()
	require.True(t, ok)
	assert.Equal(t, 5, last)
}

func TestBufferPartialFill(t *testing.T) {
	b := New[string](4)
	assert.Equal(t, 0, b.Len())
	assert.False(t, b.Full())

	_, ok := b.Last()
	assert.False(t, ok)

	b.Push("a")
	b.Push("b")
	assert.Equal(t, []string{"a", "b"}, b.Values())
	assert.False(t, b.Full())
}

func TestBufferContains(t *testing.T) {
	b := New[string](2)
	b.Push("x")
	b.Push("y")
	b.Push("z") // evicts x

	assert.False(t, Contains(b, "x"))
	assert.True(t, Contains(b, "y"))
	assert.True(t, Contains(b, "z"))
}

func TestBufferReset(t *testing.T) {
	b := New[int](2)
	b.Push(1)
	b.Push(2)
	b.Reset()

	assert.Equal(t, 0, b.Len())
	b.Push(7)
	assert.Equal(t, []int{7}, b.Values())
}

func TestBufferCapacityClamp(t *testing.T) {
	b := New[int](0)
	b.Push(1)
	b.Push(2)
	assert.Equal(t, 1, b.Cap())
	assert.Equal(t, []int{2}, b.Values())
}
