package alloc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pair struct {
	key string
	val float64
}

func TestAllocateZeroed(t *testing.T) {
	a := New[pair](4)
	p := a.Allocate()
	require.NotNil(t, p)
	assert.Equal(t, pair{}, *p)

	p.key, p.val = "98223", 12.5
	a.Free(p)

	q := a.Allocate()
	assert.Equal(t, pair{}, *q, "reused block must come back zeroed")
	a.Free(q)
}

func TestGrowsByChunk(t *testing.T) {
	a := New[pair](2)
	ptrs := make([]*pair, 0, 5)
	for range 5 {
		ptrs = append(ptrs, a.Allocate())
	}

	s := a.Stats()
	assert.Equal(t, 5, s.Live)
	assert.Equal(t, 3, s.Chunks)

	seen := make(map[*pair]struct{}, len(ptrs))
	for _, p := range ptrs {
		_, dup := seen[p]
		require.False(t, dup, "block %p handed out twice", p)
		seen[p] = struct{}{}
	}

	for _, p := range ptrs {
		a.Free(p)
	}
	s = a.Stats()
	assert.Equal(t, 0, s.Live)
	assert.Equal(t, 5, s.Allocs)
	assert.Equal(t, 5, s.Frees)
	assert.Equal(t, 3, s.Chunks, "chunks stay reserved until Release")

	require.True(t, a.Release())
	assert.Equal(t, 0, a.Stats().Chunks)
}

func TestReleaseWithLiveBlocks(t *testing.T) {
	a := New[pair](2)
	p := a.Allocate()
	assert.False(t, a.Release())
	assert.Equal(t, 1, a.Stats().Chunks)

	a.Free(p)
	assert.True(t, a.Release())
	assert.Panics(t, func() { a.Free(p) }, "released blocks are no longer owned")

	q := a.Allocate()
	assert.Equal(t, 1, a.Live())
	a.Free(q)
}

func TestFreeNil(t *testing.T) {
	a := New[pair](0)
	a.Free(nil)
	assert.Equal(t, Stats{}, a.Stats())
}

func TestDoubleFreePanics(t *testing.T) {
	a := New[pair](4)
	keep := a.Allocate()
	p := a.Allocate()
	a.Free(p)

	assert.PanicsWithValue(t, "alloc: double free of "+ptrString(p), func() { a.Free(p) })
	assert.Equal(t, 1, a.Live())
	a.Free(keep)
}

func TestDoubleFreeOfLastBlockPanics(t *testing.T) {
	a := New[pair](4)
	p := a.Allocate()
	a.Free(p)
	require.Equal(t, 0, a.Live())

	assert.PanicsWithValue(t, "alloc: double free of "+ptrString(p), func() { a.Free(p) })
	assert.Equal(t, 1, a.Stats().Frees)
}

func TestForeignFreePanics(t *testing.T) {
	a := New[pair](4)
	keep := a.Allocate()
	assert.Panics(t, func() { a.Free(&pair{}) })

	other := New[pair](4)
	q := other.Allocate()
	assert.Panics(t, func() { a.Free(q) })

	assert.Equal(t, 1, a.Live())
	assert.Equal(t, 1, other.Live())

	a.Free(keep)
	other.Free(q)
	assert.Equal(t, 0, a.Live())
	assert.Equal(t, 0, other.Live())
}

// Free must not walk the chunk list. With 16-block chunks, 320k live blocks
// span 20k chunks, and a scan over them costs microseconds per Free.
func TestFreeIndependentOfChunkCount(t *testing.T) {
	if testing.Short() {
		t.Skip("timing test")
	}
	const n = 320000

	a := New[pair](16)
	ptrs := make([]*pair, n)
	for i := range ptrs {
		ptrs[i] = a.Allocate()
	}
	require.Equal(t, n/16, a.Stats().Chunks)

	start := time.Now()
	for _, p := range ptrs {
		a.Free(p)
	}
	perFree := time.Since(start) / n
	assert.Less(t, perFree, 3*time.Microsecond)
	assert.Equal(t, 0, a.Live())
}
