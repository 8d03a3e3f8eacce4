// Package render writes ordered record sequences and session summaries for
// terminal users and scripts.
package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/assemblyline/pkg/feed"
	"github.com/Sumatoshi-tech/assemblyline/pkg/record"
)

// Format selects the output encoding.
type Format string

// Supported formats.
const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatFeed  Format = "feed"
)

// ErrUnknownFormat is returned for an unsupported output format.
var ErrUnknownFormat = errors.New("unknown output format")

// ParseFormat resolves a format name, case-insensitively.
func ParseFormat(name string) (Format, error) {
	switch format := Format(strings.ToLower(name)); format {
	case FormatTable, FormatJSON, FormatYAML, FormatFeed:
		return format, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// Row is the serialized shape of one record.
type Row struct {
	ProductID      string `json:"product_id"      yaml:"product_id"`
	PieceName      string `json:"piece_name"      yaml:"piece_name"`
	PieceID        string `json:"piece_id"        yaml:"piece_id"`
	TimeEntry      string `json:"time_entry"      yaml:"time_entry"`
	TimeExit       string `json:"time_exit"       yaml:"time_exit"`
	ProcessingTime string `json:"processing_time" yaml:"processing_time"`
	Duration       int64  `json:"duration"        yaml:"duration"`
}

// RowOf converts a record to its serialized shape.
func RowOf(rec *record.Record) Row {
	return Row{
		ProductID:      rec.ProductID(),
		PieceName:      rec.PieceName(),
		PieceID:        rec.PieceID(),
		TimeEntry:      rec.Entry().String(),
		TimeExit:       rec.Exit().String(),
		ProcessingTime: rec.ProcessingTime().String(),
		Duration:       rec.Duration(),
	}
}

// Section is one titled, ordered listing.
type Section struct {
	Title   string `json:"title"             yaml:"title"`
	Elapsed string `json:"elapsed,omitempty" yaml:"elapsed,omitempty"`
	Records []Row  `json:"records"           yaml:"records"`

	source []*record.Record
}

// NewSection builds a section from recs. A zero elapsed is omitted.
func NewSection(title string, recs []*record.Record, elapsed time.Duration) Section {
	rows := make([]Row, 0, len(recs))
	for _, rec := range recs {
		rows = append(rows, RowOf(rec))
	}

	section := Section{Title: title, Records: rows, source: recs}
	if elapsed > 0 {
		section.Elapsed = elapsed.String()
	}

	return section
}

// Renderer writes sections in one format.
type Renderer struct {
	out    io.Writer
	format Format
	style  *Style
}

// New creates a Renderer writing to out. useColor controls status lines and
// table headers.
func New(out io.Writer, format Format, useColor bool) *Renderer {
	return &Renderer{out: out, format: format, style: NewStyle(useColor)}
}

// Style returns the renderer's status-line styling.
func (r *Renderer) Style() *Style {
	return r.style
}

// Sections writes every section. Structured formats emit one document
// holding all sections; the feed format concatenates record lines.
func (r *Renderer) Sections(sections ...Section) error {
	switch r.format {
	case FormatTable:
		for _, section := range sections {
			err := r.table(section)
			if err != nil {
				return err
			}
		}

		return nil
	case FormatJSON:
		enc := json.NewEncoder(r.out)
		enc.SetIndent("", "  ")

		err := enc.Encode(sections)
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}

		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(r.out)

		err := enc.Encode(sections)
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}

		return enc.Close()
	case FormatFeed:
		return r.feed(sections)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, r.format)
	}
}

func (r *Renderer) table(section Section) error {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(r.out)
	tbl.SetStyle(table.StyleLight)
	tbl.SetTitle(r.style.Title(section.Title))
	tbl.AppendHeader(table.Row{"Product id", "Name", "Piece id", "Time entry", "Time exit", "Duration"})

	for _, row := range section.Records {
		tbl.AppendRow(table.Row{
			row.ProductID, row.PieceName, row.PieceID, row.TimeEntry, row.TimeExit, row.Duration,
		})
	}

	footer := humanize.Comma(int64(len(section.Records))) + " records"
	if section.Elapsed != "" {
		footer += " in " + section.Elapsed
	}

	tbl.AppendFooter(table.Row{footer})
	tbl.Render()

	_, err := fmt.Fprintln(r.out)
	if err != nil {
		return fmt.Errorf("write table: %w", err)
	}

	return nil
}

func (r *Renderer) feed(sections []Section) error {
	w := feed.NewWriter(r.out)

	for _, section := range sections {
		for _, rec := range section.source {
			err := w.Write(rec)
			if err != nil {
				return err
			}
		}
	}

	return w.Flush()
}
