// Package index keeps assembly-line records queryable by product id and by
// processing duration at the same time.
//
// Each ordering is served twice, by a binary search tree and by a sorted
// singly-linked list. DualIndex owns the four structures and applies every
// insert and remove to all of them under one lock, so they always describe
// the same record set.
package index

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"sync"
	"time"

	"github.com/Sumatoshi-tech/assemblyline/pkg/record"
)

// Sentinel errors returned by DualIndex.
var (
	ErrDuplicateID  = errors.New("a record with this product id already exists")
	ErrNotFound     = errors.New("product id does not exist")
	ErrNilRecord    = errors.New("record is nil")
	ErrCapacity     = errors.New("index is at capacity")
	ErrInconsistent = errors.New("index structures disagree")
)

// Option configures a DualIndex.
type Option func(*DualIndex)

// WithCapacity caps the number of live records. Zero means unbounded.
func WithCapacity(capacity int) Option {
	return func(d *DualIndex) {
		d.capacity = max(capacity, 0)
	}
}

// Observer receives the time each view spent on one mutation. It is called
// with the write lock held and must not use the index.
type Observer func(op string, view View, elapsed time.Duration)

// Operation names passed to an Observer.
const (
	OpInsert = "insert"
	OpRemove = "remove"
)

// WithObserver reports per-view mutation timings to observe.
func WithObserver(observe Observer) Option {
	return func(d *DualIndex) {
		d.observe = observe
	}
}

// Stats describes the shape of a DualIndex.
type Stats struct {
	Records          int
	Capacity         int
	HeightByID       int
	HeightByDuration int
	ArenaSlots       int
}

// DualIndex is the record store. It is safe for concurrent use.
type DualIndex struct {
	trees    [2]*Tree
	lists    [2]*List
	observe  Observer
	capacity int
	mu       sync.RWMutex
}

// New creates an empty index.
func New(opts ...Option) *DualIndex {
	d := &DualIndex{}

	for _, opt := range opts {
		opt(d)
	}

	for _, order := range Orderings {
		d.trees[order] = NewTreeWithAllocator(order, NewAllocator(d.capacity))
		d.lists[order] = NewList(order)
	}

	return d
}

// Load builds an index by inserting records in sequence order. It stops at
// the first record that cannot be inserted.
func Load(records iter.Seq[*record.Record], opts ...Option) (*DualIndex, error) {
	d := New(opts...)

	for rec := range records {
		err := d.Insert(rec)
		if err != nil {
			return nil, fmt.Errorf("load: %w", err)
		}
	}

	return d, nil
}

// Len returns the number of records.
func (d *DualIndex) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.trees[ByID].Len()
}

// Get returns the record with the given product id.
func (d *DualIndex) Get(productID string) (*record.Record, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.trees[ByID].Search(productID)
}

// Insert adds rec to all four structures. A product id already present
// yields ErrDuplicateID; on any error nothing changes.
func (d *DualIndex) Insert(rec *record.Record) error {
	if rec == nil {
		return ErrNilRecord
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	return d.insertLocked(rec)
}

func (d *DualIndex) insertLocked(rec *record.Record) error {
	if _, exists := d.trees[ByID].Search(rec.ProductID()); exists {
		return fmt.Errorf("%w: %s", ErrDuplicateID, rec.ProductID())
	}

	if d.capacity > 0 && d.trees[ByID].Len() >= d.capacity {
		return fmt.Errorf("%w: %d records", ErrCapacity, d.capacity)
	}

	start := time.Now()

	err := d.trees[ByID].Insert(rec)
	if err != nil {
		return fmt.Errorf("insert %s: %w", rec.ProductID(), err)
	}

	err = d.trees[ByDuration].Insert(rec)
	if err != nil {
		d.trees[ByID].Delete(rec)

		return fmt.Errorf("insert %s: %w", rec.ProductID(), err)
	}

	start = d.report(OpInsert, TreeView, start)

	for _, list := range d.lists {
		list.Insert(rec)
	}

	d.report(OpInsert, ListView, start)

	return nil
}

// report passes the time since start to the observer and returns a new
// start.
func (d *DualIndex) report(op string, view View, start time.Time) time.Time {
	now := time.Now()

	if d.observe != nil {
		d.observe(op, view, now.Sub(start))
	}

	return now
}

// Remove deletes the record with the given product id from all four
// structures and returns it. An unknown id yields ErrNotFound and nothing
// changes.
func (d *DualIndex) Remove(productID string) (*record.Record, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.removeLocked(productID)
}

func (d *DualIndex) removeLocked(productID string) (*record.Record, error) {
	rec, ok := d.trees[ByID].Search(productID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, productID)
	}

	var errs []error

	start := time.Now()

	for _, tree := range d.trees {
		if !tree.Delete(rec) {
			errs = append(errs, fmt.Errorf("%w: %s missing from tree by %s", ErrInconsistent, productID, tree.Order()))
		}
	}

	start = d.report(OpRemove, TreeView, start)

	for _, list := range d.lists {
		err := list.Delete(list.Search(productID))
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: list by %s: %w", ErrInconsistent, list.Order(), err))
		}
	}

	d.report(OpRemove, ListView, start)

	return rec, errors.Join(errs...)
}

// Replace swaps the stored record that has rec's product id for rec and
// returns the previous one. Both steps happen under one lock; if the insert
// fails the previous record is restored.
func (d *DualIndex) Replace(rec *record.Record) (*record.Record, error) {
	if rec == nil {
		return nil, ErrNilRecord
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	old, err := d.removeLocked(rec.ProductID())
	if err != nil {
		return nil, err
	}

	err = d.insertLocked(rec)
	if err != nil {
		return nil, errors.Join(err, d.insertLocked(old))
	}

	return old, nil
}

// Iterate yields the records by order, read from the tree. The read lock is
// held until the loop ends; do not mutate the index from the loop body.
func (d *DualIndex) Iterate(order Ordering) iter.Seq[*record.Record] {
	return d.iterate(order, TreeView)
}

// IterateList is Iterate read from the list. It yields the same sequence.
func (d *DualIndex) IterateList(order Ordering) iter.Seq[*record.Record] {
	return d.iterate(order, ListView)
}

// Records returns a snapshot of the records by order from the given view.
func (d *DualIndex) Records(order Ordering, view View) []*record.Record {
	return slices.Collect(d.iterate(order, view))
}

func (d *DualIndex) iterate(order Ordering, view View) iter.Seq[*record.Record] {
	return func(yield func(*record.Record) bool) {
		d.mu.RLock()
		defer d.mu.RUnlock()

		for rec := range d.source(order, view) {
			if !yield(rec) {
				return
			}
		}
	}
}

func (d *DualIndex) source(order Ordering, view View) iter.Seq[*record.Record] {
	if order != ByID && order != ByDuration {
		panic(fmt.Sprintf("index: unsupported %s", order))
	}

	if view == ListView {
		return d.lists[order].All()
	}

	return d.trees[order].All()
}

// Stats reports the record count and tree shapes.
func (d *DualIndex) Stats() Stats {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return Stats{
		Records:          d.trees[ByID].Len(),
		Capacity:         d.capacity,
		HeightByID:       d.trees[ByID].Height(),
		HeightByDuration: d.trees[ByDuration].Height(),
		ArenaSlots:       d.trees[ByID].alloc.Size() + d.trees[ByDuration].alloc.Size(),
	}
}

// Verify checks that the four structures are sorted, hold the same records
// and that each tree yields the same sequence as its list.
func (d *DualIndex) Verify() error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	ids := make(map[string]*record.Record, d.trees[ByID].Len())
	for rec := range d.trees[ByID].All() {
		ids[rec.ProductID()] = rec
	}

	for _, order := range Orderings {
		tree, list := d.trees[order], d.lists[order]

		err := tree.check()
		if err != nil {
			return err
		}

		if list.Len() != tree.Len() {
			return fmt.Errorf("%w: by %s: tree has %d records, list %d", ErrInconsistent, order, tree.Len(), list.Len())
		}

		if !slices.Equal(slices.Collect(tree.All()), slices.Collect(list.All())) {
			return fmt.Errorf("%w: by %s: tree and list sequences differ", ErrInconsistent, order)
		}

		if tree.Len() != len(ids) {
			return fmt.Errorf("%w: by %s holds %d records, by id %d", ErrInconsistent, order, tree.Len(), len(ids))
		}

		for rec := range tree.All() {
			if ids[rec.ProductID()] != rec {
				return fmt.Errorf("%w: %s in tree by %s only", ErrInconsistent, rec.ProductID(), order)
			}
		}
	}

	return nil
}
