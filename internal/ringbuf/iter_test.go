package ringbuf

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyTo(t *testing.T) {

	t.Run("copies elements in order", func(t *testing.T) {
		d := FromSlice([]int{1, 2, 3})
		rotate(t, d, 1)
		dst := make([]int, 5)
		require.NoError(t, d.CopyTo(dst, 1))
		assert.Equal(t, []int{0, 2, 3, 1, 0}, dst)
	})

	t.Run("empty deque into empty slice", func(t *testing.T) {
		d := New[int]()
		assert.NoError(t, d.CopyTo([]int{}, 0))
	})

	testCases := []struct {
		name   string
		dst    []int
		offset int
	}{
		{name: "rejects nil destination", dst: nil, offset: 0},
		{name: "rejects negative offset", dst: make([]int, 3), offset: -1},
		{name: "rejects insufficient space", dst: make([]int, 3), offset: 1},
		{name: "rejects offset past the end", dst: make([]int, 3), offset: 4},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			d := FromSlice([]int{1, 2, 3})
			assert.ErrorIs(t, d.CopyTo(tt.dst, tt.offset), ErrInvalidArgument)
		})
	}
}

func TestIterators(t *testing.T) {

	t.Run("All yields index-value pairs when split", func(t *testing.T) {
		d := FromSlice([]int{1, 2, 3, 4})
		rotate(t, d, 3)

		var idx, vals []int
		for i, v := range d.All() {
			idx = append(idx, i)
			vals = append(vals, v)
		}
		assert.Equal(t, []int{0, 1, 2, 3}, idx)
		assert.Equal(t, []int{4, 1, 2, 3}, vals)
	})

	t.Run("Values is restartable", func(t *testing.T) {
		d := FromSlice([]int{1, 2, 3})
		rotate(t, d, 1)
		seq := d.Values()
		assert.Equal(t, []int{2, 3, 1}, slices.Collect(seq))

		d.AddToBack(4)
		assert.Equal(t, []int{2, 3, 1, 4}, slices.Collect(seq))
	})

	t.Run("Values stops early", func(t *testing.T) {
		d := FromSlice([]int{1, 2, 3})
		var got []int
		for v := range d.Values() {
			got = append(got, v)
			if v == 2 {
				break
			}
		}
		assert.Equal(t, []int{1, 2}, got)
	})

	t.Run("Backward", func(t *testing.T) {
		d := FromSlice([]int{1, 2, 3})
		rotate(t, d, 2)
		var idx, vals []int
		for i, v := range d.Backward() {
			idx = append(idx, i)
			vals = append(vals, v)
		}
		assert.Equal(t, []int{2, 1, 0}, idx)
		assert.Equal(t, []int{2, 1, 3}, vals)
	})

	t.Run("empty deque yields nothing", func(t *testing.T) {
		d := New[int]()
		assert.Empty(t, slices.Collect(d.Values()))
	})
}
