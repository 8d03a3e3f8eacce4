package index

import (
	"errors"
	"iter"

	"github.com/Sumatoshi-tech/assemblyline/pkg/record"
)

// ErrNodeNotFound is returned when deleting a node that is not in the list.
var ErrNodeNotFound = errors.New("node is not present in the list")

// Node is an element of a List.
type Node struct {
	item *record.Record
	next *Node
}

// Record returns the record held by the node.
func (n *Node) Record() *record.Record {
	return n.item
}

// List is a sorted singly-linked list of records arranged by an Ordering.
// It mirrors a Tree of the same ordering and yields the same sequence.
//
// List is not safe for concurrent use.
type List struct {
	head  *Node
	order Ordering
	size  int
}

// NewList creates an empty list.
func NewList(order Ordering) *List {
	return &List{order: order}
}

// Order returns the ordering the list is sorted by.
func (l *List) Order() Ordering {
	return l.order
}

// Len returns the number of records in the list.
func (l *List) Len() int {
	return l.size
}

// Clear removes all records.
func (l *List) Clear() {
	l.head = nil
	l.size = 0
}

// Insert places rec before the first element that must follow it and
// returns the new node. For ByID that is the first strictly greater id; for
// ByDuration the first duration greater than or equal to rec's, which puts
// rec ahead of the records it ties with, as the tree does.
func (l *List) Insert(rec *record.Record) *Node {
	created := &Node{item: rec}

	if l.head == nil || l.follows(l.head.item, rec) {
		created.next = l.head
		l.head = created
		l.size++

		return created
	}

	current := l.head
	for current.next != nil && !l.follows(current.next.item, rec) {
		current = current.next
	}

	created.next = current.next
	current.next = created
	l.size++

	return created
}

// follows reports whether existing must come after an inserted rec.
func (l *List) follows(existing, rec *record.Record) bool {
	cmp := l.order.Compare(existing, rec)
	if l.order.AllowsTies() {
		return cmp >= 0
	}

	return cmp > 0
}

// Search returns the node holding the given product id, or nil.
func (l *List) Search(productID string) *Node {
	for current := l.head; current != nil; current = current.next {
		if current.item.ProductID() == productID {
			return current
		}
	}

	return nil
}

// Delete unlinks target. The list may become empty. A node that does not
// belong to the list yields ErrNodeNotFound and nothing changes.
func (l *List) Delete(target *Node) error {
	if target == nil || l.head == nil {
		return ErrNodeNotFound
	}

	if l.head == target {
		l.head = target.next
		target.next = nil
		l.size--

		return nil
	}

	prev := l.head
	for prev.next != nil && prev.next != target {
		prev = prev.next
	}

	if prev.next == nil {
		return ErrNodeNotFound
	}

	prev.next = target.next
	target.next = nil
	l.size--

	return nil
}

// All yields the records from head to tail.
func (l *List) All() iter.Seq[*record.Record] {
	return func(yield func(*record.Record) bool) {
		for current := l.head; current != nil; current = current.next {
			if !yield(current.item) {
				return
			}
		}
	}
}
