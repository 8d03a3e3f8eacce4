// Package feed reads and writes the line-oriented record feed:
//
//	H235 Sportello_dx N246 15:20:43 15:27:55
//
// One record per line, five fields separated by spaces or tabs: product id,
// piece name, piece id, time of entry and time of exit.
package feed

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/Sumatoshi-tech/assemblyline/pkg/record"
)

// fieldCount is the number of fields on a feed line.
const fieldCount = 5

// ErrFieldCount is returned for lines that do not have exactly five fields.
var ErrFieldCount = errors.New("expected 5 fields: product_id name piece_id time_entry time_exit")

// ParseError locates a malformed feed line.
type ParseError struct {
	Err  error
	Line int
}

// Error implements error.
func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseLine splits one feed line into record fields.
func ParseLine(line string) (record.Fields, error) {
	parts := strings.Fields(line)
	if len(parts) != fieldCount {
		return record.Fields{}, fmt.Errorf("%w, got %d", ErrFieldCount, len(parts))
	}

	return record.Fields{
		ProductID: parts[0],
		PieceName: parts[1],
		PieceID:   parts[2],
		TimeEntry: parts[3],
		TimeExit:  parts[4],
	}, nil
}

// Reader parses records from a feed. Blank lines are skipped.
type Reader struct {
	scanner *bufio.Scanner
	line    int
}

// NewReader creates a Reader over src.
func NewReader(src io.Reader) *Reader {
	return &Reader{scanner: bufio.NewScanner(src)}
}

// Read returns the next record, or io.EOF after the last one. Malformed
// lines are reported as *ParseError; reading may continue past them.
func (r *Reader) Read() (*record.Record, error) {
	for r.scanner.Scan() {
		r.line++

		text := r.scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}

		fields, err := ParseLine(text)
		if err != nil {
			return nil, &ParseError{Line: r.line, Err: err}
		}

		rec, err := record.New(fields)
		if err != nil {
			return nil, &ParseError{Line: r.line, Err: err}
		}

		return rec, nil
	}

	err := r.scanner.Err()
	if err != nil {
		return nil, fmt.Errorf("read feed: %w", err)
	}

	return nil, io.EOF
}

// All yields every record with its parse error, if any. Iteration stops at
// end of input or at a read failure.
func (r *Reader) All() iter.Seq2[*record.Record, error] {
	return func(yield func(*record.Record, error) bool) {
		for {
			rec, err := r.Read()
			if errors.Is(err, io.EOF) {
				return
			}

			var parseErr *ParseError

			stop := err != nil && !errors.As(err, &parseErr)
			if !yield(rec, err) || stop {
				return
			}
		}
	}
}

// ReadAll parses src and fails on the first malformed line.
func ReadAll(src io.Reader) ([]*record.Record, error) {
	var out []*record.Record

	for rec, err := range NewReader(src).All() {
		if err != nil {
			return nil, err
		}

		out = append(out, rec)
	}

	return out, nil
}

// Writer formats records as feed lines.
type Writer struct {
	buf *bufio.Writer
}

// NewWriter creates a Writer over dst. Call Flush when done.
func NewWriter(dst io.Writer) *Writer {
	return &Writer{buf: bufio.NewWriter(dst)}
}

// Write appends one record line.
func (w *Writer) Write(rec *record.Record) error {
	_, err := fmt.Fprintln(w.buf, rec.String())
	if err != nil {
		return fmt.Errorf("write feed: %w", err)
	}

	return nil
}

// WriteAll writes every record of seq and flushes.
func (w *Writer) WriteAll(seq iter.Seq[*record.Record]) error {
	for rec := range seq {
		err := w.Write(rec)
		if err != nil {
			return err
		}
	}

	return w.Flush()
}

// Flush writes buffered lines to the destination.
func (w *Writer) Flush() error {
	err := w.buf.Flush()
	if err != nil {
		return fmt.Errorf("flush feed: %w", err)
	}

	return nil
}
