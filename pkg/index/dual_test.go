package index

import (
	"cmp"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/assemblyline/pkg/record"
)

// Test constants.
const (
	testRandomSteps    = 2000
	testRandomIDSpace  = 60
	testRandomMaxSecs  = 8
	testWriters        = 8
	testRecordsPerGoro = 25
)

func loadSample(t *testing.T) *DualIndex {
	t.Helper()

	d, err := Load(slices.Values(sampleRecords(t)))
	require.NoError(t, err)

	return d
}

// assertViews checks both views of both orderings against the expected ids.
func assertViews(t *testing.T, d *DualIndex, byID, byDuration []string) {
	t.Helper()

	assert.Equal(t, byID, ids(d.Iterate(ByID)), "tree by id")
	assert.Equal(t, byID, ids(d.IterateList(ByID)), "list by id")
	assert.Equal(t, byDuration, ids(d.Iterate(ByDuration)), "tree by duration")
	assert.Equal(t, byDuration, ids(d.IterateList(ByDuration)), "list by duration")
	require.NoError(t, d.Verify())
}

func TestDualIndex_LoadScenario(t *testing.T) {
	t.Parallel()

	d := loadSample(t)

	assert.Equal(t, 3, d.Len())
	assertViews(t, d, []string{"A356", "H235", "K542"}, []string{"H235", "A356", "K542"})
	assert.Equal(t, []int64{432, 732, 740}, durations(d.Iterate(ByDuration)))
}

func TestDualIndex_RemoveScenario(t *testing.T) {
	t.Parallel()

	d := loadSample(t)

	removed, err := d.Remove("H235")
	require.NoError(t, err)
	assert.Equal(t, "H235", removed.ProductID())

	assertViews(t, d, []string{"A356", "K542"}, []string{"A356", "K542"})
	assert.Equal(t, []int64{732, 740}, durations(d.Iterate(ByDuration)))
}

func TestDualIndex_RemoveUnknown(t *testing.T) {
	t.Parallel()

	d := loadSample(t)
	before := d.Records(ByDuration, TreeView)

	removed, err := d.Remove("Z999")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, removed)
	assert.Equal(t, before, d.Records(ByDuration, TreeView))
	assertViews(t, d, []string{"A356", "H235", "K542"}, []string{"H235", "A356", "K542"})
}

func TestDualIndex_InsertThenRemoveRestores(t *testing.T) {
	t.Parallel()

	d := loadSample(t)
	beforeID := d.Records(ByID, TreeView)
	beforeDuration := d.Records(ByDuration, ListView)

	// Ties the duration of A356 to stress the tie-break rule.
	require.NoError(t, d.Insert(newRecord(t, "B777", "08:00:00", "08:12:12")))
	assert.Equal(t, []string{"H235", "B777", "A356", "K542"}, ids(d.Iterate(ByDuration)))

	_, err := d.Remove("B777")
	require.NoError(t, err)

	assert.Equal(t, beforeID, d.Records(ByID, ListView))
	assert.Equal(t, beforeDuration, d.Records(ByDuration, TreeView))
	require.NoError(t, d.Verify())
}

func TestDualIndex_InsertDuplicate(t *testing.T) {
	t.Parallel()

	d := loadSample(t)

	err := d.Insert(newRecord(t, "K542", "00:00:00", "00:00:01"))
	require.ErrorIs(t, err, ErrDuplicateID)
	assert.Equal(t, 3, d.Len())
	assert.Equal(t, []int64{432, 732, 740}, durations(d.IterateList(ByDuration)))
	require.NoError(t, d.Verify())
}

func TestDualIndex_InsertNil(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, New().Insert(nil), ErrNilRecord)

	_, err := New().Replace(nil)
	require.ErrorIs(t, err, ErrNilRecord)
}

func TestDualIndex_LoadDuplicate(t *testing.T) {
	t.Parallel()

	records := append(sampleRecords(t), newRecord(t, "H235", "00:00:00", "00:00:01"))

	_, err := Load(slices.Values(records))
	require.ErrorIs(t, err, ErrDuplicateID)
}

func TestDualIndex_RemoveAll(t *testing.T) {
	t.Parallel()

	d := loadSample(t)

	for _, id := range []string{"K542", "A356", "H235"} {
		_, err := d.Remove(id)
		require.NoError(t, err)
	}

	assert.Zero(t, d.Len())
	assertViews(t, d, nil, nil)

	require.NoError(t, d.Insert(recordFor(t, "A001", 3)))
	assertViews(t, d, []string{"A001"}, []string{"A001"})
}

func TestDualIndex_Get(t *testing.T) {
	t.Parallel()

	d := loadSample(t)

	rec, ok := d.Get("A356")
	require.True(t, ok)
	assert.Equal(t, int64(732), rec.Duration())

	_, ok = d.Get("A357")
	assert.False(t, ok)
}

func TestDualIndex_Capacity(t *testing.T) {
	t.Parallel()

	d := New(WithCapacity(2))
	require.NoError(t, d.Insert(recordFor(t, "A001", 1)))
	require.NoError(t, d.Insert(recordFor(t, "A002", 2)))

	err := d.Insert(recordFor(t, "A003", 3))
	require.ErrorIs(t, err, ErrCapacity)
	assertViews(t, d, []string{"A001", "A002"}, []string{"A001", "A002"})

	_, err = d.Remove("A001")
	require.NoError(t, err)
	require.NoError(t, d.Insert(recordFor(t, "A003", 3)))
	assert.Equal(t, 2, d.Stats().Capacity)
}

func TestDualIndex_Replace(t *testing.T) {
	t.Parallel()

	d := loadSample(t)

	old, err := d.Replace(newRecord(t, "K542", "10:00:00", "10:00:10"))
	require.NoError(t, err)
	assert.Equal(t, int64(740), old.Duration())
	assertViews(t, d, []string{"A356", "H235", "K542"}, []string{"K542", "H235", "A356"})

	_, err = d.Replace(recordFor(t, "Q000", 1))
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 3, d.Len())
}

func TestDualIndex_Stats(t *testing.T) {
	t.Parallel()

	stats := loadSample(t).Stats()

	assert.Equal(t, 3, stats.Records)
	assert.Equal(t, 2, stats.HeightByID)
	assert.Equal(t, 3, stats.HeightByDuration)
	assert.Equal(t, 6, stats.ArenaSlots)
	assert.Zero(t, stats.Capacity)
}

func TestDualIndex_ObserverSeesEachView(t *testing.T) {
	t.Parallel()

	type event struct {
		op   string
		view View
	}

	var events []event

	d := New(WithObserver(func(op string, view View, elapsed time.Duration) {
		assert.GreaterOrEqual(t, elapsed, time.Duration(0))
		events = append(events, event{op: op, view: view})
	}))

	require.NoError(t, d.Insert(recordFor(t, "A001", 1)))
	require.ErrorIs(t, d.Insert(recordFor(t, "A001", 2)), ErrDuplicateID)

	_, err := d.Remove("A001")
	require.NoError(t, err)

	_, err = d.Remove("A001")
	require.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, []event{
		{OpInsert, TreeView},
		{OpInsert, ListView},
		{OpRemove, TreeView},
		{OpRemove, ListView},
	}, events)
}

func TestDualIndex_IterateStopsEarly(t *testing.T) {
	t.Parallel()

	d := loadSample(t)

	for range d.Iterate(ByID) {
		break
	}

	// The read lock must have been released.
	require.NoError(t, d.Insert(recordFor(t, "B001", 1)))
}

func TestDualIndex_IterateUnknownOrderingPanics(t *testing.T) {
	t.Parallel()

	d := loadSample(t)
	assert.Panics(t, func() { d.Records(Ordering(7), TreeView) })
}

// modelEntry tracks a live record and when it was inserted.
type modelEntry struct {
	rec *record.Record
	seq int
}

// TestDualIndex_RandomOperations compares the index against a sorted model.
// Duration ties are expected most recently inserted first.
func TestDualIndex_RandomOperations(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(1, 2))
	d := New()
	model := map[string]modelEntry{}

	for step := range testRandomSteps {
		id := fmt.Sprintf("R%03d", rng.IntN(testRandomIDSpace))

		if _, live := model[id]; live && rng.IntN(2) == 0 {
			_, err := d.Remove(id)
			require.NoError(t, err)
			delete(model, id)
		} else {
			rec := recordFor(t, id, rng.IntN(testRandomMaxSecs))

			err := d.Insert(rec)
			if live {
				require.ErrorIs(t, err, ErrDuplicateID)

				continue
			}

			require.NoError(t, err)
			model[id] = modelEntry{rec: rec, seq: step}
		}

		entries := make([]modelEntry, 0, len(model))
		for _, entry := range model {
			entries = append(entries, entry)
		}

		slices.SortFunc(entries, func(a, b modelEntry) int {
			return cmp.Compare(a.rec.ProductID(), b.rec.ProductID())
		})
		assert.Equal(t, recordsOf(entries), d.Records(ByID, TreeView))

		slices.SortFunc(entries, func(a, b modelEntry) int {
			if c := cmp.Compare(a.rec.Duration(), b.rec.Duration()); c != 0 {
				return c
			}

			return cmp.Compare(b.seq, a.seq)
		})
		assert.Equal(t, recordsOf(entries), d.Records(ByDuration, ListView))

		require.NoError(t, d.Verify())
	}
}

func recordsOf(entries []modelEntry) []*record.Record {
	var out []*record.Record
	for _, entry := range entries {
		out = append(out, entry.rec)
	}

	return out
}

func TestDualIndex_ConcurrentWriters(t *testing.T) {
	t.Parallel()

	d := New()

	var wg sync.WaitGroup

	for writer := range testWriters {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for idx := range testRecordsPerGoro {
				rec := record.MustNew(record.Fields{
					ProductID: fmt.Sprintf("%d%03d", writer, idx),
					PieceName: "Bolt",
					PieceID:   "B000",
					TimeEntry: "00:00:00",
					TimeExit:  record.Clock(idx % 5).String(),
				})

				if err := d.Insert(rec); err != nil {
					t.Error(err)
				}

				_ = d.Records(ByDuration, ListView)
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, testWriters*testRecordsPerGoro, d.Len())
	require.NoError(t, d.Verify())
}
