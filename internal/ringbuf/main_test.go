package ringbuf

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rotate moves n elements from the front to the back, which leaves the logical contents in a
// rotated order and the physical layout split for most n.
func rotate[T any](t *testing.T, d *Deque[T], n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		v, err := d.RemoveFromFront()
		require.NoError(t, err)
		d.AddToBack(v)
	}
}

// rotated is the reference-model counterpart of rotate.
func rotated[T any](s []T, n int) []T {
	r := append([]T(nil), s...)
	for i := 0; i < n; i++ {
		r = append(r[1:], r[0])
	}
	return r
}

func TestConstructors(t *testing.T) {

	t.Run("New uses the default capacity", func(t *testing.T) {
		d := New[int]()
		assert.Equal(t, DefaultCapacity, d.Cap())
		assert.Equal(t, 0, d.Len())
	})

	t.Run("NewWithCapacity", func(t *testing.T) {
		testCases := []struct {
			name     string
			capacity int
			err      error
		}{
			{name: "rejects zero", capacity: 0, err: ErrInvalidArgument},
			{name: "rejects negative", capacity: -1, err: ErrInvalidArgument},
			{name: "accepts one", capacity: 1},
			{name: "accepts larger", capacity: 13},
		}

		for _, tt := range testCases {
			t.Run(tt.name, func(t *testing.T) {
				d, err := NewWithCapacity[int](tt.capacity)
				if tt.err != nil {
					assert.ErrorIs(t, err, tt.err)
					assert.Nil(t, d)
					return
				}
				require.NoError(t, err)
				assert.Equal(t, tt.capacity, d.Cap())
				assert.Equal(t, 0, d.Len())
			})
		}
	})

	t.Run("FromSlice copies the sequence", func(t *testing.T) {
		src := []int{1, 2, 3}
		d := FromSlice(src)
		assert.Equal(t, 3, d.Cap())
		assert.Equal(t, 3, d.Len())
		assert.Equal(t, []int{1, 2, 3}, d.Slice())

		src[0] = 42
		v, err := d.Get(0)
		require.NoError(t, err)
		assert.Equal(t, 1, v, "deque must not alias the source slice")
	})

	t.Run("FromSlice with an empty sequence uses the default capacity", func(t *testing.T) {
		d := FromSlice([]int{})
		assert.Equal(t, DefaultCapacity, d.Cap())
		assert.Equal(t, 0, d.Len())
	})
}

func TestGet(t *testing.T) {

	t.Run("buffer has not wrapped", func(t *testing.T) {
		first := time.Now()
		expected := []time.Time{
			first,
			first.Add(time.Second),
			first.Add(2 * time.Second),
		}

		d := FromSlice(expected)
		for i, expected := range expected {
			t.Run(fmt.Sprintf("index in range/d[%d]", i), func(t *testing.T) {
				actual, err := d.Get(i)
				assert.NoError(t, err)
				assert.Equal(t, expected, actual)
			})
		}
	})

	t.Run("buffer has wrapped", func(t *testing.T) {
		d := FromSlice([]int{1, 2, 3})
		_, err := d.RemoveFromBack()
		require.NoError(t, err)
		d.AddToFront(0)

		for i, expected := range []int{0, 1, 2} {
			t.Run(fmt.Sprintf("index in range/d[%d]", i), func(t *testing.T) {
				actual, err := d.Get(i)
				assert.NoError(t, err)
				assert.Equal(t, expected, actual)
			})
		}
	})

	t.Run("index out of range", func(t *testing.T) {
		d := FromSlice([]int{1, 2, 3})
		for _, i := range []int{-1, 3, 100} {
			t.Run(fmt.Sprintf("d[%d]", i), func(t *testing.T) {
				_, err := d.Get(i)
				assert.ErrorIs(t, err, ErrOutOfRange)
			})
		}
	})
}

func TestSet(t *testing.T) {

	t.Run("writes elements", func(t *testing.T) {
		d := FromSlice([]int{1, 2, 3})
		require.NoError(t, d.Set(0, 7))
		require.NoError(t, d.Set(1, 11))
		require.NoError(t, d.Set(2, 13))
		assert.Equal(t, []int{7, 11, 13}, d.Slice())
	})

	t.Run("writes elements when split", func(t *testing.T) {
		d := FromSlice([]int{1, 2, 3})
		_, err := d.RemoveFromBack()
		require.NoError(t, err)
		d.AddToFront(0)
		require.NoError(t, d.Set(0, 7))
		require.NoError(t, d.Set(1, 11))
		require.NoError(t, d.Set(2, 13))
		assert.Equal(t, []int{7, 11, 13}, d.Slice())
	})

	t.Run("leaves other indices alone at every rotation", func(t *testing.T) {
		initial := []int{1, 2, 3, 4, 5}
		for r := 0; r < len(initial); r++ {
			for i := range initial {
				d := FromSlice(initial)
				rotate(t, d, r)
				expected := rotated(initial, r)
				expected[i] = 99

				require.NoError(t, d.Set(i, 99))
				v, err := d.Get(i)
				require.NoError(t, err)
				assert.Equal(t, 99, v)
				assert.Equal(t, expected, d.Slice(), "rotation %d index %d", r, i)
			}
		}
	})

	t.Run("index out of range", func(t *testing.T) {
		d := FromSlice([]int{1, 2, 3})
		assert.ErrorIs(t, d.Set(3, 13), ErrOutOfRange)
		assert.ErrorIs(t, d.Set(-1, 13), ErrOutOfRange)
		assert.Equal(t, []int{1, 2, 3}, d.Slice())
	})
}

func TestPhysical(t *testing.T) {
	d := FromSlice([]int{1, 2, 3, 4})
	d.offset = 3

	testCases := []struct {
		logical  int
		physical int
	}{
		{logical: 0, physical: 3},
		{logical: 1, physical: 0},
		{logical: 3, physical: 2},
		{logical: -1, physical: 2},
		{logical: -4, physical: 3},
		{logical: 7, physical: 2},
	}

	for _, tt := range testCases {
		t.Run(fmt.Sprintf("logical %d", tt.logical), func(t *testing.T) {
			assert.Equal(t, tt.physical, d.physical(tt.logical))
		})
	}
}
