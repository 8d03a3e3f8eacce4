package index

import (
	"errors"
	"fmt"
	"iter"

	"github.com/Sumatoshi-tech/assemblyline/pkg/record"
)

// ErrDuplicateKey is returned when a unique-key tree already holds the key.
var ErrDuplicateKey = errors.New("duplicate key")

// Tree is an unbalanced binary search tree of records arranged by an
// Ordering. Nodes live in an Allocator; every mutation walks down
// recursively and hands the (possibly new) subtree root back to its parent.
//
// For ByDuration the tree is a multiset: keys equal to a node's key go to its
// left subtree, so for every node left <= node <= right.
//
// Tree is not safe for concurrent use.
type Tree struct {
	alloc *Allocator
	order Ordering
	root  uint32
	size  int
}

// NewTree creates an empty tree with an unbounded arena.
func NewTree(order Ordering) *Tree {
	return NewTreeWithAllocator(order, NewAllocator(0))
}

// NewTreeWithAllocator creates an empty tree backed by alloc.
func NewTreeWithAllocator(order Ordering, alloc *Allocator) *Tree {
	return &Tree{alloc: alloc, order: order}
}

// Order returns the ordering the tree is arranged by.
func (t *Tree) Order() Ordering {
	return t.order
}

// Len returns the number of records in the tree.
func (t *Tree) Len() int {
	return t.size
}

// Clear removes all records.
func (t *Tree) Clear() {
	t.alloc.Reset()
	t.root = nilNode
	t.size = 0
}

// Insert adds rec. On a ByID tree an existing product id yields
// ErrDuplicateKey and the tree is left unchanged.
func (t *Tree) Insert(rec *record.Record) error {
	root, err := t.insert(t.root, rec)
	if err != nil {
		return err
	}

	t.root = root
	t.size++

	return nil
}

func (t *Tree) insert(idx uint32, rec *record.Record) (uint32, error) {
	if idx == nilNode {
		return t.alloc.malloc(rec)
	}

	current := t.alloc.at(idx).item
	cmp := t.order.Compare(rec, current)

	switch {
	case cmp < 0, cmp == 0 && t.order.AllowsTies():
		child, err := t.insert(t.alloc.at(idx).left, rec)
		if err != nil {
			return idx, err
		}

		// The arena may have grown; re-resolve the node.
		t.alloc.at(idx).left = child
	case cmp > 0:
		child, err := t.insert(t.alloc.at(idx).right, rec)
		if err != nil {
			return idx, err
		}

		t.alloc.at(idx).right = child
	default:
		return idx, fmt.Errorf("%w: %s", ErrDuplicateKey, rec.ProductID())
	}

	return idx, nil
}

// Search returns the record with the given product id.
func (t *Tree) Search(productID string) (*record.Record, bool) {
	var idx uint32
	if t.order == ByID {
		idx = t.descend(productID)
	} else {
		idx = t.depthFirst(t.root, productID)
	}

	if idx == nilNode {
		return nil, false
	}

	return t.alloc.at(idx).item, true
}

// descend walks a ByID tree by key comparison.
func (t *Tree) descend(productID string) uint32 {
	idx := t.root

	for idx != nilNode {
		current := t.alloc.at(idx)

		switch id := current.item.ProductID(); {
		case productID < id:
			idx = current.left
		case productID > id:
			idx = current.right
		default:
			return idx
		}
	}

	return nilNode
}

// depthFirst is a pre-order search that stops at the first match.
func (t *Tree) depthFirst(idx uint32, productID string) uint32 {
	if idx == nilNode {
		return nilNode
	}

	current := t.alloc.at(idx)
	if current.item.ProductID() == productID {
		return idx
	}

	if found := t.depthFirst(current.left, productID); found != nilNode {
		return found
	}

	return t.depthFirst(current.right, productID)
}

// Delete removes rec and reports whether it was present. On a ByDuration
// tree the record is told apart from others sharing its duration by
// product id.
func (t *Tree) Delete(rec *record.Record) bool {
	root, removed := t.remove(t.root, rec)
	t.root = root

	if removed {
		t.size--
	}

	return removed
}

func (t *Tree) remove(idx uint32, rec *record.Record) (uint32, bool) {
	if idx == nilNode {
		return nilNode, false
	}

	// Removal never grows the arena, so current stays valid.
	current := t.alloc.at(idx)
	cmp := t.order.Compare(rec, current.item)

	switch {
	case cmp < 0:
		child, removed := t.remove(current.left, rec)
		current.left = child

		return idx, removed
	case cmp > 0:
		child, removed := t.remove(current.right, rec)
		current.right = child

		return idx, removed
	}

	if current.item.ProductID() == rec.ProductID() {
		return t.unlink(idx), true
	}

	// Equal duration, different product: ties are inserted to the left.
	child, removed := t.remove(current.left, rec)
	current.left = child

	if removed {
		return idx, true
	}

	// A successor promotion can leave an equal key in the right subtree.
	child, removed = t.remove(current.right, rec)
	current.right = child

	return idx, removed
}

// unlink deletes the node at idx and returns the root of what replaces it.
func (t *Tree) unlink(idx uint32) uint32 {
	current := t.alloc.at(idx)

	if current.left == nilNode {
		right := current.right
		t.alloc.free(idx)

		return right
	}

	if current.right == nilNode {
		left := current.left
		t.alloc.free(idx)

		return left
	}

	successor := t.alloc.at(t.minimum(current.right)).item
	current.item = successor

	child, _ := t.remove(current.right, successor)
	current.right = child

	return idx
}

func (t *Tree) minimum(idx uint32) uint32 {
	for t.alloc.at(idx).left != nilNode {
		idx = t.alloc.at(idx).left
	}

	return idx
}

// All yields the records in ascending key order.
func (t *Tree) All() iter.Seq[*record.Record] {
	return func(yield func(*record.Record) bool) {
		var stack []uint32

		idx := t.root

		for idx != nilNode || len(stack) > 0 {
			for idx != nilNode {
				stack = append(stack, idx)
				idx = t.alloc.at(idx).left
			}

			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			current := t.alloc.at(top)
			if !yield(current.item) {
				return
			}

			idx = current.right
		}
	}
}

// Height returns the number of nodes on the longest root-to-leaf path.
func (t *Tree) Height() int {
	return t.height(t.root)
}

func (t *Tree) height(idx uint32) int {
	if idx == nilNode {
		return 0
	}

	current := t.alloc.at(idx)

	return 1 + max(t.height(current.left), t.height(current.right))
}

// check verifies the search-tree shape and the cached size.
func (t *Tree) check() error {
	count := 0

	var prev *record.Record

	for rec := range t.All() {
		if prev != nil {
			cmp := t.order.Compare(prev, rec)
			if cmp > 0 || (cmp == 0 && !t.order.AllowsTies()) {
				return fmt.Errorf("%w: tree by %s: %s after %s", ErrInconsistent, t.order, rec.ProductID(), prev.ProductID())
			}
		}

		prev = rec
		count++
	}

	if count != t.size || t.alloc.Used() != t.size {
		return fmt.Errorf("%w: tree by %s: size %d, walked %d, arena %d",
			ErrInconsistent, t.order, t.size, count, t.alloc.Used())
	}

	return nil
}
