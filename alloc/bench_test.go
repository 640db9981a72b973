package alloc

import (
	"fmt"
	"testing"
)

type benchNode struct {
	key         string
	left, right *benchNode
}

func BenchmarkAllocs(b *testing.B) {
	NValues := []int{1000, 10000, 100000}

	for _, N := range NValues {
		b.Run(fmt.Sprintf("Arena_N%d", N), func(b *testing.B) {
			a := New[benchNode](0)
			ptrs := make([]*benchNode, N)
			for i := 0; i < b.N; i++ {
				for j := 0; j < N; j++ {
					ptrs[j] = a.Allocate()
				}
				for j := 0; j < N; j++ {
					a.Free(ptrs[j])
				}
			}
		})

		b.Run(fmt.Sprintf("StandardAllocator_N%d", N), func(b *testing.B) {
			ptrs := make([]*benchNode, N)
			for i := 0; i < b.N; i++ {
				for j := 0; j < N; j++ {
					ptrs[j] = &benchNode{}
				}
				clear(ptrs)
			}
		})
	}
}

func BenchmarkFree(b *testing.B) {
	for _, chunks := range []int{10, 1000, 10000} {
		b.Run(fmt.Sprintf("Chunks%d", chunks), func(b *testing.B) {
			a := New[benchNode](16)
			ptrs := make([]*benchNode, chunks*16)
			for i := range ptrs {
				ptrs[i] = a.Allocate()
			}
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				p := ptrs[i%len(ptrs)]
				a.Free(p)
				ptrs[i%len(ptrs)] = a.Allocate()
			}
		})
	}
}
