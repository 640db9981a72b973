package standardindex

import (
	"github.com/emirpasic/gods/stacks/arraystack"

	"github.com/shivam-909/bidtree/internal/index"
)

type standardindex struct {
	root *index.Node
	size int
}

func New() index.Index {
	return &standardindex{}
}

// Insert places a Record into the BST by ID.
// - If the tree is empty, newNode becomes the root.
// - Otherwise, we walk left/right until we find a spot.
// - Duplicates (same ID) go to the right.
func (b *standardindex) Insert(r index.Record) {
	newNode := &index.Node{
		Record: r,
	}
	b.size++

	if b.root == nil {
		b.root = newNode
		return
	}

	curr := b.root
	for {
		if r.ID < curr.Record.ID {
			if curr.Left == nil {
				curr.Left = newNode
				return
			}
			curr = curr.Left
		} else {
			if curr.Right == nil {
				curr.Right = newNode
				return
			}
			curr = curr.Right
		}
	}
}

func (b *standardindex) Search(id string) (index.Record, bool) {
	_, node, _ := b.findNodeByID(id)
	if node == nil {
		return index.Record{}, false
	}
	return node.Record, true
}

// Remove locates a node by its ID and removes it from the BST.
// A node with two children keeps its place and takes over the record of
// its in-order successor, whose own node is unlinked instead.
func (b *standardindex) Remove(id string) bool {
	parent, node, wentLeft := b.findNodeByID(id)
	if node == nil {
		return false
	}

	var replacement *index.Node

	switch {
	case node.Left == nil:
		replacement = node.Right
	case node.Right == nil:
		replacement = node.Left
	default:
		succParent, successor := b.findSuccessor(node.Right)

		node.Record = successor.Record
		if succParent == nil {
			node.Right = successor.Right
		} else {
			succParent.Left = successor.Right
		}
		b.release(successor)
		return true
	}

	if parent == nil {
		b.root = replacement
	} else if wentLeft {
		parent.Left = replacement
	} else {
		parent.Right = replacement
	}

	b.release(node)
	return true
}

func (b *standardindex) release(node *index.Node) {
	node.Left, node.Right = nil, nil
	b.size--
}

// findNodeByID walks the tree to locate the node with matching id,
// returning:
//   - parent of the found node (or nil if node is the root)
//   - the node with the given id (or nil if not found)
//   - a bool indicating if the node was a left child of its parent
func (b *standardindex) findNodeByID(id string) (parent, found *index.Node, isLeft bool) {
	var (
		curr   = b.root
		par    *index.Node
		leftCh bool
	)

	for curr != nil {
		if id == curr.Record.ID {
			return par, curr, leftCh
		}
		par = curr
		if id < curr.Record.ID {
			curr = curr.Left
			leftCh = true
		} else {
			curr = curr.Right
			leftCh = false
		}
	}
	return nil, nil, false
}

// findSuccessor finds the leftmost node of the given subtree 'node'
// and returns: (parentOfSuccessor, successorNode). The parent is nil when
// node itself is the leftmost.
func (b *standardindex) findSuccessor(node *index.Node) (parent, successor *index.Node) {
	var (
		par  *index.Node
		curr = node
	)

	for curr.Left != nil {
		par = curr
		curr = curr.Left
	}

	return par, curr
}

func (b *standardindex) InOrder(v index.Visitor) {
	st := arraystack.New()
	for curr := b.root; curr != nil || !st.Empty(); curr = curr.Right {
		for ; curr != nil; curr = curr.Left {
			st.Push(curr)
		}
		top, _ := st.Pop()
		curr = top.(*index.Node)
		if !v(curr.Record) {
			return
		}
	}
}

func (b *standardindex) PreOrder(v index.Visitor) {
	if b.root == nil {
		return
	}
	st := arraystack.New()
	st.Push(b.root)
	for !st.Empty() {
		top, _ := st.Pop()
		curr := top.(*index.Node)
		if !v(curr.Record) {
			return
		}
		if curr.Right != nil {
			st.Push(curr.Right)
		}
		if curr.Left != nil {
			st.Push(curr.Left)
		}
	}
}

// PostOrder uses two stacks: the first produces node, right, left, which the
// second reverses.
func (b *standardindex) PostOrder(v index.Visitor) {
	if b.root == nil {
		return
	}
	in, out := arraystack.New(), arraystack.New()
	in.Push(b.root)
	for !in.Empty() {
		top, _ := in.Pop()
		curr := top.(*index.Node)
		out.Push(curr)
		if curr.Left != nil {
			in.Push(curr.Left)
		}
		if curr.Right != nil {
			in.Push(curr.Right)
		}
	}
	for !out.Empty() {
		top, _ := out.Pop()
		if !v(top.(*index.Node).Record) {
			return
		}
	}
}

func (b *standardindex) Len() int {
	return b.size
}

// Destroy unlinks every node so none of them keeps a subtree reachable.
func (b *standardindex) Destroy() {
	if b.root == nil {
		return
	}
	st := arraystack.New()
	st.Push(b.root)
	b.root = nil
	for !st.Empty() {
		top, _ := st.Pop()
		curr := top.(*index.Node)
		if curr.Left != nil {
			st.Push(curr.Left)
		}
		if curr.Right != nil {
			st.Push(curr.Right)
		}
		b.release(curr)
	}
}
