package data

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Kind classifies a pipeline failure.
type Kind int

const (
	KindUnknown Kind = iota
	FileUnreadable
	// MissingImputationContext means an "NA" cell was seen before any
	// statistic existed for its column.
	MissingImputationContext
	MalformedNumber
	NumberOutOfRange
	ShapeMismatch
	DivisionByZeroVariance
	InvalidArgument
)

var kindNames = map[Kind]string{
	KindUnknown:              "unknown",
	FileUnreadable:           "file unreadable",
	MissingImputationContext: "missing imputation context",
	MalformedNumber:          "malformed number",
	NumberOutOfRange:         "number out of range",
	ShapeMismatch:            "shape mismatch",
	DivisionByZeroVariance:   "division by zero variance",
	InvalidArgument:          "invalid argument",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is returned by every stage of the pipeline. Row and Col are 0-based
// data coordinates (-1 when not applicable); Line is the 1-based source line.
type Error struct {
	Kind  Kind
	Op    string
	Path  string
	Row   int
	Col   int
	Line  int
	Value string
	Err   error

	// Partial holds the rows built before the failure, if any. Cells still
	// waiting on a deferred imputer that could not be resolved are NaN.
	Partial *Table
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.String())
	if e.Path != "" {
		fmt.Fprintf(&b, " in %s", e.Path)
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, " at line %d", e.Line)
	}
	if e.Row >= 0 {
		fmt.Fprintf(&b, " row %d", e.Row)
	}
	if e.Col >= 0 {
		fmt.Fprintf(&b, " column %d", e.Col)
	}
	if e.Value != "" {
		fmt.Fprintf(&b, " (%q)", e.Value)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// NewError builds an Error with no row or column position.
func NewError(op string, kind Kind, err error) *Error {
	return &Error{Kind: kind, Op: op, Row: -1, Col: -1, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given Kind.
func IsKind(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}
