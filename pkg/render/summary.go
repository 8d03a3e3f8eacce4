package render

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Sumatoshi-tech/assemblyline/pkg/index"
)

// Timing is the elapsed time of one operation on one view.
type Timing struct {
	View    index.View
	Elapsed time.Duration
}

// Timings writes one line per view, e.g. "insert (tree): 1.2µs".
func (r *Renderer) Timings(op string, timings ...Timing) error {
	for _, timing := range timings {
		_, err := fmt.Fprintln(r.out, r.style.Info("%s (%s): %s", op, timing.View, timing.Elapsed))
		if err != nil {
			return fmt.Errorf("write timing: %w", err)
		}
	}

	return nil
}

// Stats writes a two-column summary of the store's shape.
func (r *Renderer) Stats(stats index.Stats) error {
	capacity := "unbounded"
	if stats.Capacity > 0 {
		capacity = humanize.Comma(int64(stats.Capacity))
	}

	tbl := table.NewWriter()
	tbl.SetOutputMirror(r.out)
	tbl.SetStyle(table.StyleLight)
	tbl.SetTitle(r.style.Title("Index"))
	tbl.AppendRows([]table.Row{
		{"Records", humanize.Comma(int64(stats.Records))},
		{"Capacity", capacity},
		{"Tree height (id)", stats.HeightByID},
		{"Tree height (duration)", stats.HeightByDuration},
		{"Arena slots", humanize.Comma(int64(stats.ArenaSlots))},
	})
	tbl.Render()

	return nil
}
