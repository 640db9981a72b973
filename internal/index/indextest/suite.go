// Package indextest holds the behavior every index.Index backend must share.
package indextest

import (
	"fmt"
	"math/rand"
	"slices"
	"strconv"
	"testing"

	"github.com/google/btree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shivam-909/bidtree/internal/index"
)

// Factory returns a fresh, empty index together with a function reporting
// how many of its nodes are currently live.
type Factory func() (ix index.Index, live func() int)

func rec(id string) index.Record {
	n, _ := strconv.Atoi(id)
	return index.Record{
		ID:     id,
		Title:  "title-" + id,
		Fund:   "fund-" + id,
		Amount: float64(n) + 0.25,
	}
}

func insertAll(ix index.Index, ids ...string) {
	for _, id := range ids {
		ix.Insert(rec(id))
	}
}

var scenario = []string{"5", "3", "8", "1", "4", "7", "9"}

// Run executes the shared suite against the backend built by newIndex.
func Run(t *testing.T, newIndex Factory) {
	t.Run("Empty", func(t *testing.T) { testEmpty(t, newIndex) })
	t.Run("Scenario", func(t *testing.T) { testScenario(t, newIndex) })
	t.Run("Traversals", func(t *testing.T) { testTraversals(t, newIndex) })
	t.Run("RemoveCases", func(t *testing.T) { testRemoveCases(t, newIndex) })
	t.Run("RemoveAbsent", func(t *testing.T) { testRemoveAbsent(t, newIndex) })
	t.Run("Duplicates", func(t *testing.T) { testDuplicates(t, newIndex) })
	t.Run("CopiesRecords", func(t *testing.T) { testCopiesRecords(t, newIndex) })
	t.Run("StopEarly", func(t *testing.T) { testStopEarly(t, newIndex) })
	t.Run("Destroy", func(t *testing.T) { testDestroy(t, newIndex) })
	t.Run("Chain", func(t *testing.T) { testChain(t, newIndex) })
	t.Run("Random", func(t *testing.T) { testRandom(t, newIndex) })
	t.Run("Workload", func(t *testing.T) { testWorkload(t, newIndex) })
}

func testEmpty(t *testing.T, newIndex Factory) {
	ix, live := newIndex()

	for _, o := range []index.Order{index.InOrder, index.PreOrder, index.PostOrder} {
		index.Walk(ix, o, func(r index.Record) bool {
			t.Errorf("%s-order traversal of empty index emitted %q", o, r.ID)
			return true
		})
	}

	r, ok := ix.Search("98223")
	assert.False(t, ok)
	assert.True(t, r.IsEmpty())
	assert.False(t, ix.Remove("98223"))
	assert.Equal(t, 0, ix.Len())

	ix.Destroy()
	ix.Destroy()
	assert.Equal(t, 0, live())
}

func testScenario(t *testing.T, newIndex Factory) {
	ix, live := newIndex()
	defer ix.Destroy()
	insertAll(ix, scenario...)

	require.Equal(t, []string{"1", "3", "4", "5", "7", "8", "9"}, index.IDs(ix, index.InOrder))
	require.Equal(t, 7, live())

	require.True(t, ix.Remove("5"))
	assert.Equal(t, []string{"1", "3", "4", "7", "8", "9"}, index.IDs(ix, index.InOrder))
	assert.Equal(t, []string{"7", "3", "1", "4", "8", "9"}, index.IDs(ix, index.PreOrder))
	assert.Equal(t, 6, live())
	assert.Equal(t, 6, ix.Len())

	root := index.Collect(ix, index.PreOrder)[0]
	assert.Equal(t, rec("7"), root, "root takes over the successor's record")

	r, ok := ix.Search("2")
	assert.False(t, ok)
	assert.Equal(t, index.Record{}, r)

	r, ok = ix.Search("8")
	assert.True(t, ok)
	assert.Equal(t, rec("8"), r)

	r, ok = ix.Search("5")
	assert.False(t, ok)
	assert.True(t, r.IsEmpty())
}

func testTraversals(t *testing.T, newIndex Factory) {
	ix, _ := newIndex()
	defer ix.Destroy()
	insertAll(ix, scenario...)

	assert.Equal(t, []string{"1", "3", "4", "5", "7", "8", "9"}, index.IDs(ix, index.InOrder))
	assert.Equal(t, []string{"5", "3", "1", "4", "8", "7", "9"}, index.IDs(ix, index.PreOrder))
	assert.Equal(t, []string{"1", "4", "3", "7", "9", "8", "5"}, index.IDs(ix, index.PostOrder))

	// traversals are read-only
	assert.Equal(t, []string{"1", "3", "4", "5", "7", "8", "9"}, index.IDs(ix, index.InOrder))
	assert.Equal(t, 7, ix.Len())

	records := index.Collect(ix, index.InOrder)
	for _, r := range records {
		assert.Equal(t, rec(r.ID), r)
	}
}

func testRemoveCases(t *testing.T, newIndex Factory) {
	cases := []struct {
		name    string
		insert  []string
		remove  string
		inOrder []string
		pre     []string
	}{
		{"Leaf", scenario, "4", []string{"1", "3", "5", "7", "8", "9"}, []string{"5", "3", "1", "8", "7", "9"}},
		{"OnlyRight", []string{"5", "3", "4"}, "3", []string{"4", "5"}, []string{"5", "4"}},
		{"OnlyLeft", []string{"5", "3", "2"}, "3", []string{"2", "5"}, []string{"5", "2"}},
		{"TwoChildrenInner", scenario, "3", []string{"1", "4", "5", "7", "8", "9"}, []string{"5", "4", "1", "8", "7", "9"}},
		{"SuccessorHasRightChild", []string{"2", "1", "6", "4", "5"}, "2", []string{"1", "4", "5", "6"}, []string{"4", "1", "6", "5"}},
		{"SuccessorIsRightChild", []string{"2", "1", "3", "4"}, "2", []string{"1", "3", "4"}, []string{"3", "1", "4"}},
		{"RootLeaf", []string{"5"}, "5", []string{}, []string{}},
		{"RootOnlyRight", []string{"5", "7", "6"}, "5", []string{"6", "7"}, []string{"7", "6"}},
		{"RootOnlyLeft", []string{"5", "3", "4"}, "5", []string{"3", "4"}, []string{"3", "4"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ix, live := newIndex()
			defer ix.Destroy()
			insertAll(ix, tc.insert...)

			require.True(t, ix.Remove(tc.remove))
			assert.Equal(t, tc.inOrder, index.IDs(ix, index.InOrder))
			assert.Equal(t, tc.pre, index.IDs(ix, index.PreOrder))
			assert.Equal(t, len(tc.insert)-1, live())
			assert.Equal(t, len(tc.insert)-1, ix.Len())

			_, ok := ix.Search(tc.remove)
			assert.False(t, ok)
			for _, id := range tc.inOrder {
				r, ok := ix.Search(id)
				assert.True(t, ok, "lost %q", id)
				assert.Equal(t, rec(id), r)
			}
		})
	}
}

func testRemoveAbsent(t *testing.T, newIndex Factory) {
	ix, live := newIndex()
	defer ix.Destroy()
	insertAll(ix, scenario...)
	before := index.Collect(ix, index.PreOrder)

	for _, id := range []string{"0", "2", "6", "10", "99", ""} {
		assert.False(t, ix.Remove(id), "remove %q", id)
	}
	assert.Equal(t, before, index.Collect(ix, index.PreOrder))
	assert.Equal(t, len(scenario), live())
}

// Equal ids go right, so only the shallowest duplicate is reachable by
// Search until it is removed.
func testDuplicates(t *testing.T, newIndex Factory) {
	ix, live := newIndex()
	defer ix.Destroy()

	first := index.Record{ID: "5", Title: "first", Fund: "General Fund", Amount: 1}
	second := index.Record{ID: "5", Title: "second", Fund: "Enterprise", Amount: 2}
	ix.Insert(first)
	ix.Insert(rec("3"))
	ix.Insert(rec("7"))
	ix.Insert(second)

	assert.Equal(t, []string{"5", "3", "7", "5"}, index.IDs(ix, index.PreOrder))
	assert.Equal(t, []string{"3", "5", "5", "7"}, index.IDs(ix, index.InOrder))

	r, ok := ix.Search("5")
	require.True(t, ok)
	assert.Equal(t, first, r)

	// root has two children; its successor is the hidden duplicate
	require.True(t, ix.Remove("5"))
	r, ok = ix.Search("5")
	require.True(t, ok)
	assert.Equal(t, second, r)
	assert.Equal(t, []string{"5", "3", "7"}, index.IDs(ix, index.PreOrder))
	assert.Equal(t, 3, live())

	require.True(t, ix.Remove("5"))
	_, ok = ix.Search("5")
	assert.False(t, ok)
	assert.Equal(t, []string{"7", "3"}, index.IDs(ix, index.PreOrder))
	assert.Equal(t, 2, live())

	// a chain of equal keys is removed one per call
	for _, title := range []string{"a", "b", "c"} {
		ix.Insert(index.Record{ID: "1", Title: title})
	}
	for _, want := range []string{"a", "b", "c"} {
		r, ok := ix.Search("1")
		require.True(t, ok)
		assert.Equal(t, want, r.Title)
		require.True(t, ix.Remove("1"))
	}
	assert.False(t, ix.Remove("1"))
	assert.Equal(t, []string{"3", "7"}, index.IDs(ix, index.InOrder))
}

func testCopiesRecords(t *testing.T, newIndex Factory) {
	ix, _ := newIndex()
	defer ix.Destroy()

	r := rec("42")
	ix.Insert(r)
	r.Title = "changed after insert"

	got, ok := ix.Search("42")
	require.True(t, ok)
	assert.Equal(t, "title-42", got.Title)

	got.Title = "changed after search"
	again, _ := ix.Search("42")
	assert.Equal(t, "title-42", again.Title)
}

func testStopEarly(t *testing.T, newIndex Factory) {
	ix, _ := newIndex()
	defer ix.Destroy()
	insertAll(ix, scenario...)

	for _, o := range []index.Order{index.InOrder, index.PreOrder, index.PostOrder} {
		var got []string
		index.Walk(ix, o, func(r index.Record) bool {
			got = append(got, r.ID)
			return len(got) < 3
		})
		assert.Equal(t, index.IDs(ix, o)[:3], got, "%s-order", o)
	}
}

func testDestroy(t *testing.T, newIndex Factory) {
	for _, n := range []int{0, 1, 2, 100, 1000} {
		t.Run(fmt.Sprint(n), func(t *testing.T) {
			ix, live := newIndex()
			rng := rand.New(rand.NewSource(int64(n)))
			for _, i := range rng.Perm(n) {
				ix.Insert(rec(strconv.Itoa(i)))
			}
			require.Equal(t, n, live())
			require.Equal(t, n, ix.Len())

			ix.Destroy()
			assert.Equal(t, 0, live())
			assert.Equal(t, 0, ix.Len())
			assert.Empty(t, index.IDs(ix, index.InOrder))

			// still usable after teardown
			insertAll(ix, scenario...)
			assert.Equal(t, []string{"1", "3", "4", "5", "7", "8", "9"}, index.IDs(ix, index.InOrder))
			ix.Destroy()
			assert.Equal(t, 0, live())
		})
	}
}

// Ascending inserts build a chain as deep as the tree is large.
func testChain(t *testing.T, newIndex Factory) {
	const n = 5000

	ix, live := newIndex()
	want := make([]string, 0, n)
	for i := range n {
		id := fmt.Sprintf("%06d", i)
		want = append(want, id)
		ix.Insert(rec(id))
	}

	assert.Equal(t, want, index.IDs(ix, index.InOrder))
	assert.Equal(t, want, index.IDs(ix, index.PreOrder))
	post := index.IDs(ix, index.PostOrder)
	slices.Reverse(post)
	assert.Equal(t, want, post)

	r, ok := ix.Search(want[n-1])
	require.True(t, ok)
	assert.Equal(t, want[n-1], r.ID)

	require.True(t, ix.Remove(want[n/2]))
	assert.Equal(t, n-1, live())

	ix.Destroy()
	assert.Equal(t, 0, live())
}

func testRandom(t *testing.T, newIndex Factory) {
	rng := rand.New(rand.NewSource(7))
	ix, live := newIndex()
	defer ix.Destroy()
	oracle := btree.NewOrderedG[string](8)

	for round := range 20 {
		for range 200 {
			id := strconv.Itoa(rng.Intn(5000))
			if _, dup := oracle.ReplaceOrInsert(id); dup {
				continue
			}
			ix.Insert(rec(id))
		}
		for range 120 {
			id := strconv.Itoa(rng.Intn(5000))
			_, had := oracle.Delete(id)
			assert.Equal(t, had, ix.Remove(id), "round %d remove %q", round, id)
		}

		want := make([]string, 0, oracle.Len())
		oracle.Ascend(func(id string) bool {
			want = append(want, id)
			return true
		})
		require.Equal(t, want, index.IDs(ix, index.InOrder), "round %d", round)
		require.Equal(t, oracle.Len(), live())
		require.Equal(t, oracle.Len(), ix.Len())
	}

	for range 500 {
		id := strconv.Itoa(rng.Intn(5000))
		r, ok := ix.Search(id)
		assert.Equal(t, oracle.Has(id), ok, "search %q", id)
		if ok {
			assert.Equal(t, rec(id), r)
		}
	}
}

func testWorkload(t *testing.T, newIndex Factory) {
	ix, live := newIndex()
	defer ix.Destroy()

	w := index.NewWorkload(42)
	for range 5000 {
		w.Act(ix)
	}

	ids := index.IDs(ix, index.InOrder)
	assert.True(t, slices.IsSorted(ids))
	assert.Equal(t, len(ids), live())
	assert.Equal(t, len(ids), ix.Len())
	for _, r := range index.Collect(ix, index.PreOrder) {
		assert.NotEmpty(t, r.Title)
		assert.NotEmpty(t, r.Fund)
		assert.GreaterOrEqual(t, r.Amount, float64(index.MinAmount))
	}
}
