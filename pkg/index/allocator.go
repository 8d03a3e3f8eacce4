package index

import (
	"errors"
	"math"

	"github.com/Sumatoshi-tech/assemblyline/pkg/record"
)

// ErrArenaFull is returned when the node arena cannot grow any further.
var ErrArenaFull = errors.New("node arena is full")

// nilNode is the reserved index standing for "no node".
const nilNode uint32 = 0

// maxArenaNodes keeps math.MaxUint32 free so indices never wrap.
const maxArenaNodes = math.MaxUint32 - 1

// node is a tree node. Children are arena indices, nilNode when absent.
type node struct {
	item        *record.Record
	left, right uint32
}

// Allocator is an arena of tree nodes addressed by stable uint32 indices.
// Released slots are recycled before the arena grows.
type Allocator struct {
	storage []node
	gaps    []uint32
	limit   int
}

// NewAllocator creates an allocator holding at most limit live nodes.
// A non-positive limit means the full uint32 index space.
func NewAllocator(limit int) *Allocator {
	if limit <= 0 || limit > maxArenaNodes {
		limit = maxArenaNodes
	}

	return &Allocator{
		// Zero is reserved.
		storage: []node{{}},
		limit:   limit,
	}
}

// Size returns the number of allocated slots, including recycled ones.
func (allocator *Allocator) Size() int {
	return len(allocator.storage) - 1
}

// Used returns the number of live nodes.
func (allocator *Allocator) Used() int {
	return allocator.Size() - len(allocator.gaps)
}

// Reset drops every node.
func (allocator *Allocator) Reset() {
	allocator.storage = allocator.storage[:1]
	allocator.storage[0] = node{}
	allocator.gaps = allocator.gaps[:0]
}

func (allocator *Allocator) malloc(item *record.Record) (uint32, error) {
	if gapLen := len(allocator.gaps); gapLen > 0 {
		idx := allocator.gaps[gapLen-1]
		allocator.gaps = allocator.gaps[:gapLen-1]
		allocator.storage[idx] = node{item: item}

		return idx, nil
	}

	if allocator.Used() >= allocator.limit {
		return nilNode, ErrArenaFull
	}

	allocator.storage = append(allocator.storage, node{item: item})

	return uint32(len(allocator.storage) - 1), nil //nolint:gosec // bounded by limit.
}

func (allocator *Allocator) free(idx uint32) {
	if idx == nilNode {
		panic("node #0 is special and cannot be deallocated")
	}

	allocator.storage[idx] = node{}
	allocator.gaps = append(allocator.gaps, idx)
}

func (allocator *Allocator) at(idx uint32) *node {
	return &allocator.storage[idx]
}
