package index

import (
	"fmt"
	"strconv"
)

// Record is one bid as loaded from the monthly sales export. The zero
// Record, with an empty ID, is the "not found" sentinel.
type Record struct {
	ID     string
	Title  string
	Fund   string
	Amount float64
}

// IsEmpty reports whether r is the empty sentinel.
func (r Record) IsEmpty() bool {
	return r.ID == ""
}

// Node is one element of an Index tree. Each node exclusively owns its
// children.
type Node struct {
	Record Record
	Left   *Node
	Right  *Node
}

// Visitor receives records during a traversal. Returning false stops the
// traversal.
type Visitor func(r Record) bool

// Index is an ordered collection of records keyed by Record.ID, compared as
// raw strings. Records with equal IDs are kept; Search and Remove act on the
// first one met on the way down from the root.
//
// An Index is owned by a single goroutine.
type Index interface {
	// Insert adds r as a new node. It never replaces an existing record.
	Insert(r Record)
	// Search returns the record with the given id, or the empty Record and
	// false.
	Search(id string) (Record, bool)
	// Remove deletes one record with the given id and reports whether one
	// was found.
	Remove(id string) bool
	InOrder(v Visitor)
	PreOrder(v Visitor)
	PostOrder(v Visitor)
	Len() int
	// Destroy releases every node. The index is empty and usable afterwards.
	Destroy()
}

// Order selects a traversal.
type Order int

const (
	InOrder Order = iota
	PreOrder
	PostOrder
)

func (o Order) String() string {
	switch o {
	case InOrder:
		return "in"
	case PreOrder:
		return "pre"
	case PostOrder:
		return "post"
	}
	return "Order(" + strconv.Itoa(int(o)) + ")"
}

// ParseOrder maps "in", "pre" and "post" to an Order.
func ParseOrder(s string) (Order, error) {
	switch s {
	case "in", "inorder":
		return InOrder, nil
	case "pre", "preorder":
		return PreOrder, nil
	case "post", "postorder":
		return PostOrder, nil
	}
	return 0, fmt.Errorf("unknown traversal order %q", s)
}

// Walk runs the traversal selected by o.
func Walk(ix Index, o Order, v Visitor) {
	switch o {
	case PreOrder:
		ix.PreOrder(v)
	case PostOrder:
		ix.PostOrder(v)
	default:
		ix.InOrder(v)
	}
}

// Collect returns every record of ix in traversal order o.
func Collect(ix Index, o Order) []Record {
	out := make([]Record, 0, ix.Len())
	Walk(ix, o, func(r Record) bool {
		out = append(out, r)
		return true
	})
	return out
}

// IDs returns the ids of every record of ix in traversal order o.
func IDs(ix Index, o Order) []string {
	out := make([]string, 0, ix.Len())
	Walk(ix, o, func(r Record) bool {
		out = append(out, r.ID)
		return true
	})
	return out
}

// Format renders r as a single dump line: "id: title | amount | fund". The
// amount is shown with six significant digits.
func Format(r Record) string {
	return r.ID + ": " + r.Title + " | " + strconv.FormatFloat(r.Amount, 'g', 6, 64) + " | " + r.Fund
}
