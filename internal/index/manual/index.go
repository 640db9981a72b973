package manualindex

import (
	"github.com/shivam-909/bidtree/alloc"
	"github.com/shivam-909/bidtree/internal/index"
)

// manualindex implements index.Index using a BST whose nodes come from an
// alloc.Arena and are handed back to it explicitly.
type manualindex struct {
	tree  *index.Node
	arena *alloc.Arena[index.Node]
	size  int
}

// New creates a new manualindex with a private arena.
func New() index.Index {
	return NewWithArena(alloc.New[index.Node](0))
}

// NewWithArena creates a new manualindex that allocates nodes from a.
// Callers keep a to inspect allocation accounting.
func NewWithArena(a *alloc.Arena[index.Node]) index.Index {
	return &manualindex{arena: a}
}

// newNode allocates a new leaf holding a copy of r.
func (b *manualindex) newNode(r index.Record) *index.Node {
	node := b.arena.Allocate()
	node.Record = r
	node.Left = nil
	node.Right = nil
	b.size++
	return node
}

func (b *manualindex) release(node *index.Node) {
	b.arena.Free(node)
	b.size--
}

// Insert adds a new record into the BST keyed by Record.ID.
// Duplicates (same ID) go to the right.
func (b *manualindex) Insert(r index.Record) {
	nn := b.newNode(r)

	if b.tree == nil {
		b.tree = nn
		return
	}

	curr := b.tree
	for {
		if r.ID < curr.Record.ID {
			if curr.Left == nil {
				curr.Left = nn
				return
			}
			curr = curr.Left
		} else {
			if curr.Right == nil {
				curr.Right = nn
				return
			}
			curr = curr.Right
		}
	}
}

func (b *manualindex) Search(id string) (index.Record, bool) {
	for curr := b.tree; curr != nil; {
		switch {
		case id == curr.Record.ID:
			return curr.Record, true
		case id < curr.Record.ID:
			curr = curr.Left
		default:
			curr = curr.Right
		}
	}
	return index.Record{}, false
}

// Remove deletes the first node on the search path whose Record.ID is id.
func (b *manualindex) Remove(id string) bool {
	var removed bool
	b.tree, removed = b.removeNode(b.tree, id)
	return removed
}

// removeNode removes id from the subtree rooted at node and returns the
// subtree's new root. Every path returns a root the caller must store back
// into the slot node came from.
func (b *manualindex) removeNode(node *index.Node, id string) (*index.Node, bool) {
	if node == nil {
		return nil, false
	}

	var removed bool
	switch {
	case id < node.Record.ID:
		node.Left, removed = b.removeNode(node.Left, id)
		return node, removed
	case id > node.Record.ID:
		node.Right, removed = b.removeNode(node.Right, id)
		return node, removed
	}

	switch {
	// Case 1: node is a leaf
	case node.Left == nil && node.Right == nil:
		b.release(node)
		return nil, true

	// Case 2: node has only a right subtree
	case node.Left == nil:
		right := node.Right
		b.release(node)
		return right, true

	// Case 3: node has only a left subtree
	case node.Right == nil:
		left := node.Left
		b.release(node)
		return left, true

	// Case 4: both subtrees. Take over the in-order successor's record and
	// release the successor's node instead; it has no left child.
	default:
		successor := node.Right
		for successor.Left != nil {
			successor = successor.Left
		}
		node.Record = successor.Record
		node.Right, removed = b.removeNode(node.Right, node.Record.ID)
		return node, removed
	}
}

func (b *manualindex) InOrder(v index.Visitor) {
	var st []*index.Node
	for curr := b.tree; curr != nil || len(st) > 0; curr = curr.Right {
		for ; curr != nil; curr = curr.Left {
			st = append(st, curr)
		}
		curr, st = st[len(st)-1], st[:len(st)-1]
		if !v(curr.Record) {
			return
		}
	}
}

func (b *manualindex) PreOrder(v index.Visitor) {
	if b.tree == nil {
		return
	}
	st := []*index.Node{b.tree}
	for len(st) > 0 {
		curr := st[len(st)-1]
		st = st[:len(st)-1]
		if !v(curr.Record) {
			return
		}
		if curr.Right != nil {
			st = append(st, curr.Right)
		}
		if curr.Left != nil {
			st = append(st, curr.Left)
		}
	}
}

func (b *manualindex) PostOrder(v index.Visitor) {
	var (
		st   []*index.Node
		last *index.Node
		curr = b.tree
	)
	for curr != nil || len(st) > 0 {
		if curr != nil {
			st = append(st, curr)
			curr = curr.Left
			continue
		}
		top := st[len(st)-1]
		if top.Right != nil && top.Right != last {
			curr = top.Right
			continue
		}
		if !v(top.Record) {
			return
		}
		last = top
		st = st[:len(st)-1]
	}
}

func (b *manualindex) Len() int {
	return b.size
}

// Destroy releases every node back to the arena, then lets the arena return
// its chunks if no other index still holds blocks in it. Children are taken
// off a node before it is freed, so no freed node is read again.
func (b *manualindex) Destroy() {
	if b.tree == nil {
		return
	}
	st := []*index.Node{b.tree}
	b.tree = nil
	for len(st) > 0 {
		curr := st[len(st)-1]
		st = st[:len(st)-1]
		if curr.Left != nil {
			st = append(st, curr.Left)
		}
		if curr.Right != nil {
			st = append(st, curr.Right)
		}
		b.release(curr)
	}
	b.arena.Release()
}
