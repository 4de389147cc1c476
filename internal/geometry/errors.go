package geometry

import (
	"errors"
	"fmt"
)

var (
	// ErrDegenerateTriangle means three lengths violate the triangle inequality.
	ErrDegenerateTriangle = errors.New("degenerate triangle")
	// ErrUnderconstrainedPolygon means the supplied lengths do not fix a unique shape.
	ErrUnderconstrainedPolygon = errors.New("underconstrained polygon")
	// ErrInconsistentDiagonal means a supplied diagonal disagrees with the
	// reconstructed shape.
	ErrInconsistentDiagonal = errors.New("inconsistent diagonal")
	// ErrSelfIntersectingPolygon means two non-adjacent edges cross.
	ErrSelfIntersectingPolygon = errors.New("self-intersecting polygon")
	// ErrUnsupportedCorners means the corner count is outside 3..6.
	ErrUnsupportedCorners = errors.New("unsupported corner count")
	// ErrInvalidLength means a required length is missing, zero or negative.
	ErrInvalidLength = errors.New("invalid length")
)

// Error ties a geometry failure to the input field that caused it.
type Error struct {
	Err    error
	Field  string // Edge or diagonal key, "" when not attributable
	Detail string
}

func (e *Error) Error() string {
	msg := e.Err.Error()
	if e.Field != "" {
		msg = fmt.Sprintf("%s: %s", e.Field, msg)
	}
	if e.Detail != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Detail)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// FieldOf returns the field key carried by err, or "".
func FieldOf(err error) string {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Field
	}
	return ""
}

func fieldError(err error, field, format string, args ...any) *Error {
	return &Error{Err: err, Field: field, Detail: fmt.Sprintf(format, args...)}
}
