package alloc

import (
	"fmt"
	"unsafe"
)

// DefaultChunkSize is the number of blocks an Arena reserves at a time.
const DefaultChunkSize = 256

// Block layout
//
// [PAYLOAD=T][HEADER]
//
// The payload sits at offset 0 so a *T handed out by Allocate addresses its
// block. A free block reuses the header to link into the free list.

type blockMetadata struct {
	allocated bool
	nextFree  unsafe.Pointer
}

type block[T any] struct {
	payload T
	md      blockMetadata
}

// Stats is a snapshot of an Arena's accounting.
type Stats struct {
	Live   int // blocks currently allocated
	Allocs int // total Allocate calls
	Frees  int // total Free calls that released a block
	Chunks int // chunks currently reserved
}

// Arena hands out fixed-size blocks of T from chunks of Go memory and takes
// them back through Free. Every block is released at most once; freeing a
// block twice or freeing a pointer the arena never returned panics.
//
// An Arena is not safe for concurrent use.
type Arena[T any] struct {
	chunkSize int
	chunks    [][]block[T]
	// owned maps every payload address the arena can hand out to its
	// block. Free never touches memory it has not found here.
	owned     map[unsafe.Pointer]*block[T]
	heaplist  unsafe.Pointer // head of free list
	allocated int
	allocs    int
	frees     int
}

// New returns an empty arena that grows chunkSize blocks at a time. A
// non-positive chunkSize selects DefaultChunkSize.
func New[T any](chunkSize int) *Arena[T] {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Arena[T]{
		chunkSize: chunkSize,
		owned:     make(map[unsafe.Pointer]*block[T]),
	}
}

// extendHeap reserves a new chunk and threads all of its blocks onto the
// free list.
func (a *Arena[T]) extendHeap() {
	blocks := make([]block[T], a.chunkSize)
	a.chunks = append(a.chunks, blocks)

	for i := len(blocks) - 1; i >= 0; i-- {
		b := &blocks[i]
		a.owned[unsafe.Pointer(&b.payload)] = b
		a.insertAtFreeListHead(b)
	}
}

func (a *Arena[T]) insertAtFreeListHead(b *block[T]) {
	b.md.allocated = false
	b.md.nextFree = a.heaplist
	a.heaplist = unsafe.Pointer(b)
}

func (a *Arena[T]) popFreeListHead() *block[T] {
	b := (*block[T])(a.heaplist)
	a.heaplist = b.md.nextFree
	b.md.nextFree = nil
	return b
}

// Allocate returns a pointer to a zeroed T owned by the arena.
func (a *Arena[T]) Allocate() *T {
	if a.heaplist == nil {
		a.extendHeap()
	}

	b := a.popFreeListHead()
	b.md.allocated = true
	a.allocated++
	a.allocs++
	return &b.payload
}

// Free returns p to the arena in constant time. Free(nil) is a no-op. The
// payload is zeroed so the arena does not keep anything it referenced alive.
func (a *Arena[T]) Free(p *T) {
	if p == nil {
		return
	}

	b, ok := a.owned[unsafe.Pointer(p)]
	if !ok {
		panic(fmt.Sprintf("alloc: free of pointer %p not owned by arena", p))
	}
	if !b.md.allocated {
		panic(fmt.Sprintf("alloc: double free of %p", p))
	}

	var zero T
	b.payload = zero
	a.insertAtFreeListHead(b)
	a.allocated--
	a.frees++
}

// Release hands every chunk back to the runtime once nothing is live and
// reports whether it did. Pointers from before a Release are no longer owned
// by the arena, so freeing one again panics as a foreign free.
func (a *Arena[T]) Release() bool {
	if a.allocated > 0 {
		return false
	}
	a.chunks = nil
	a.heaplist = nil
	clear(a.owned)
	return true
}

// Live reports the number of blocks currently allocated.
func (a *Arena[T]) Live() int {
	return a.allocated
}

func (a *Arena[T]) Stats() Stats {
	return Stats{
		Live:   a.allocated,
		Allocs: a.allocs,
		Frees:  a.frees,
		Chunks: len(a.chunks),
	}
}
