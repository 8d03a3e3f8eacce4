package index

import (
	"cmp"
	"errors"
	"fmt"
	"strings"

	"github.com/Sumatoshi-tech/assemblyline/pkg/record"
)

// ErrUnknownOrdering is returned by ParseOrdering for unrecognised names.
var ErrUnknownOrdering = errors.New("unknown ordering")

// Ordering selects the key records are arranged by.
type Ordering int

// Supported orderings.
const (
	// ByID orders by product id. Keys are unique.
	ByID Ordering = iota
	// ByDuration orders by processing time. Keys may repeat.
	ByDuration
)

// Orderings lists every supported ordering.
var Orderings = []Ordering{ByID, ByDuration}

// String returns the ordering's configuration name.
func (o Ordering) String() string {
	switch o {
	case ByID:
		return "id"
	case ByDuration:
		return "duration"
	default:
		return fmt.Sprintf("ordering(%d)", int(o))
	}
}

// ParseOrdering maps "id" or "duration" (case-insensitive) to an Ordering.
func ParseOrdering(name string) (Ordering, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "id", "product_id", "product-id":
		return ByID, nil
	case "duration", "time", "processing_time":
		return ByDuration, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownOrdering, name)
	}
}

// Compare orders two records by the ordering's key only.
func (o Ordering) Compare(a, b *record.Record) int {
	if o == ByDuration {
		return cmp.Compare(a.Duration(), b.Duration())
	}

	return strings.Compare(a.ProductID(), b.ProductID())
}

// AllowsTies reports whether distinct records may share a key.
func (o Ordering) AllowsTies() bool {
	return o == ByDuration
}

// View selects which of the two redundant structures serves a traversal.
type View int

// Supported views.
const (
	TreeView View = iota
	ListView
)

// String returns the view's configuration name.
func (v View) String() string {
	if v == ListView {
		return "list"
	}

	return "tree"
}
