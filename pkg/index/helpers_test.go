package index

import (
	"iter"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/assemblyline/pkg/record"
)

// newRecord builds a record with the given product id and times.
func newRecord(t *testing.T, productID, entry, exit string) *record.Record {
	t.Helper()

	rec, err := record.New(record.Fields{
		ProductID: productID,
		PieceName: "Piece_" + productID,
		PieceID:   "P" + productID[1:],
		TimeEntry: entry,
		TimeExit:  exit,
	})
	require.NoError(t, err)

	return rec
}

// recordFor builds a record that spends seconds on the line from midnight.
func recordFor(t *testing.T, productID string, seconds int) *record.Record {
	t.Helper()

	return newRecord(t, productID, "00:00:00", record.Clock(seconds).String())
}

// ids collects product ids in sequence order.
func ids(seq iter.Seq[*record.Record]) []string {
	var out []string

	for rec := range seq {
		out = append(out, rec.ProductID())
	}

	return out
}

// durations collects durations in sequence order.
func durations(seq iter.Seq[*record.Record]) []int64 {
	var out []int64

	for rec := range seq {
		out = append(out, rec.Duration())
	}

	return out
}

// sampleRecords returns the three records of the reference feed.
func sampleRecords(t *testing.T) []*record.Record {
	t.Helper()

	return []*record.Record{
		newRecord(t, "H235", "15:20:43", "15:27:55"),
		newRecord(t, "K542", "10:03:10", "10:15:30"),
		newRecord(t, "A356", "18:40:11", "18:52:23"),
	}
}
