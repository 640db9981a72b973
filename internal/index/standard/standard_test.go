package standardindex

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shivam-909/bidtree/internal/index"
	"github.com/shivam-909/bidtree/internal/index/indextest"
)

func TestIndex(t *testing.T) {
	indextest.Run(t, func() (index.Index, func() int) {
		ix := New()
		return ix, ix.Len
	})
}

func TestDestroyUnlinksNodes(t *testing.T) {
	b := New().(*standardindex)
	for _, id := range []string{"5", "3", "8", "1", "4", "7", "9"} {
		b.Insert(index.Record{ID: id})
	}
	root, left := b.root, b.root.Left

	b.Destroy()
	assert.Nil(t, b.root)
	assert.Nil(t, root.Left)
	assert.Nil(t, root.Right)
	assert.Nil(t, left.Left)
	assert.Nil(t, left.Right)
	assert.Equal(t, 0, b.Len())
}

func BenchmarkInsert(b *testing.B) {
	for _, N := range []int{1000, 10000} {
		b.Run(fmt.Sprintf("N%d", N), func(b *testing.B) {
			w := index.NewWorkload(42)
			records := make([]index.Record, N)
			for i := range records {
				records[i] = w.GenerateRecord()
			}
			b.ResetTimer()
			for range b.N {
				ix := New()
				for _, r := range records {
					ix.Insert(r)
				}
				ix.Destroy()
			}
		})
	}
}
