// Package record defines the assembly-line event stored by the index: a
// finished product, the piece worked on, and the time it spent on the line.
//
// A Record is immutable once built by New. Several index structures hold the
// same *Record at once; none of them owns it.
package record

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// IDLength is the exact length of product and piece identifiers.
const IDLength = 4

// Sentinel errors for record construction.
var (
	ErrInvalidRecord    = errors.New("invalid record")
	ErrNegativeDuration = errors.New("time exit must not precede time entry")
)

// fieldValidate checks Fields. The "token" rule rejects embedded whitespace,
// which the line-oriented feed format cannot represent.
var fieldValidate *validator.Validate

func init() {
	fieldValidate = validator.New()

	_ = fieldValidate.RegisterValidation("token", validateToken)
}

func validateToken(fl validator.FieldLevel) bool {
	return !strings.ContainsFunc(fl.Field().String(), unicode.IsSpace)
}

// Fields holds the raw values of a record as supplied by a feed or a prompt.
type Fields struct {
	ProductID string `json:"product_id" yaml:"product_id" validate:"required,len=4,token"`
	PieceName string `json:"piece_name" yaml:"piece_name" validate:"required,token"`
	PieceID   string `json:"piece_id"   yaml:"piece_id"   validate:"required,len=4,token"`
	TimeEntry string `json:"time_entry" yaml:"time_entry" validate:"required"`
	TimeExit  string `json:"time_exit"  yaml:"time_exit"  validate:"required"`
}

// Validate reports the first field that violates the record format.
func (f Fields) Validate() error {
	return fieldError(fieldValidate.Struct(f))
}

// ValidatePartial is Validate restricted to the named struct fields, for
// callers that collect a record one field at a time.
func (f Fields) ValidatePartial(names ...string) error {
	return fieldError(fieldValidate.StructPartial(f, names...))
}

func fieldError(err error) error {
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidRecord, describe(fieldErrs[0]))
	}

	return fmt.Errorf("%w: %w", ErrInvalidRecord, err)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "len":
		return fmt.Sprintf("%s length must be of %s characters", fe.Field(), fe.Param())
	case "token":
		return fmt.Sprintf("%s must not contain spaces (use underscores)", fe.Field())
	default:
		return fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag())
	}
}

// Record is one assembly-line event.
type Record struct {
	productID string
	pieceName string
	pieceID   string
	entry     Clock
	exit      Clock
	duration  int64
}

// New validates the fields, derives the processing duration and returns the
// record. Exit times earlier than the entry time are rejected.
func New(fields Fields) (*Record, error) {
	err := fields.Validate()
	if err != nil {
		return nil, err
	}

	entry, err := ParseClock(fields.TimeEntry)
	if err != nil {
		return nil, fmt.Errorf("%w: time entry: %w", ErrInvalidRecord, err)
	}

	exit, err := ParseClock(fields.TimeExit)
	if err != nil {
		return nil, fmt.Errorf("%w: time exit: %w", ErrInvalidRecord, err)
	}

	duration := exit.Sub(entry)
	if duration < 0 {
		return nil, fmt.Errorf("%w: %s < %s", ErrNegativeDuration, exit, entry)
	}

	return &Record{
		productID: fields.ProductID,
		pieceName: fields.PieceName,
		pieceID:   fields.PieceID,
		entry:     entry,
		exit:      exit,
		duration:  duration,
	}, nil
}

// MustNew is like New but panics on error. Use only with literal data.
func MustNew(fields Fields) *Record {
	rec, err := New(fields)
	if err != nil {
		panic(err)
	}

	return rec
}

// ProductID returns the unique product identifier.
func (r *Record) ProductID() string { return r.productID }

// PieceName returns the piece name, underscores standing in for spaces.
func (r *Record) PieceName() string { return r.pieceName }

// PieceID returns the piece identifier.
func (r *Record) PieceID() string { return r.pieceID }

// Entry returns the time the product entered the line.
func (r *Record) Entry() Clock { return r.entry }

// Exit returns the time the product left the line.
func (r *Record) Exit() Clock { return r.exit }

// Duration returns the processing time in seconds.
func (r *Record) Duration() int64 { return r.duration }

// ProcessingTime returns the processing time as a time.Duration.
func (r *Record) ProcessingTime() time.Duration {
	return time.Duration(r.duration) * time.Second
}

// Fields returns the raw field values the record was built from.
func (r *Record) Fields() Fields {
	return Fields{
		ProductID: r.productID,
		PieceName: r.pieceName,
		PieceID:   r.pieceID,
		TimeEntry: r.entry.String(),
		TimeExit:  r.exit.String(),
	}
}

// String formats the record in feed line order.
func (r *Record) String() string {
	return fmt.Sprintf("%s %s %s %s %s", r.productID, r.pieceName, r.pieceID, r.entry, r.exit)
}
