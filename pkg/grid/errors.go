package grid

import (
	"fmt"
	"strings"
)

// Errors
var (
	ErrInvalidFile            = &GridError{"invalid grid file"}
	ErrTruncatedHeader        = &GridError{"truncated overview header"}
	ErrTruncatedSubGridHeader = &GridError{"truncated sub-grid header"}
	ErrTruncatedShiftData     = &GridError{"truncated shift data"}
	ErrDecodeFailure          = &GridError{"decode failure"}
)

// GridError represents a class of grid decoding failure
type GridError struct {
	Message string
}

func (e *GridError) Error() string {
	return e.Message
}

// DecodeError carries the position and expectation of a failed decode.
// errors.Is matches both Kind and the wrapped cause.
type DecodeError struct {
	Kind    *GridError // One of the Err* sentinels
	Offset  int64      // Byte offset of the failing record
	Read    int        // Bytes available for the failing record
	SubGrid int        // Zero-based sub-grid index, -1 outside sub-grids
	Key     string     // Expected field name, if any
	Index   int        // One-based record or point index
	Count   int        // Number of records or points expected
	Detail  string     // Free-form context
	Err     error      // Underlying cause
}

func (e *DecodeError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Message)

	switch e.Kind {
	case ErrTruncatedHeader:
		fmt.Fprintf(&b, ": record %d/%d", e.Index, e.Count)
	case ErrTruncatedSubGridHeader:
		fmt.Fprintf(&b, ": sub-grid %d field %s", e.SubGrid+1, e.Key)
	case ErrTruncatedShiftData:
		fmt.Fprintf(&b, ": sub-grid %d point %d/%d", e.SubGrid+1, e.Index, e.Count)
	}
	if e.Detail != "" {
		fmt.Fprintf(&b, ": %s", e.Detail)
	}
	if e.Kind != ErrInvalidFile || e.Read > 0 {
		fmt.Fprintf(&b, " at offset %d (read %d of 16 bytes)", e.Offset, e.Read)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *DecodeError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// WarningKind classifies a non-fatal inconsistency
type WarningKind string

const (
	WarnHeaderMismatch WarningKind = "HeaderMismatch"
)

// Warning is a soft inconsistency found while decoding
type Warning struct {
	Kind    WarningKind
	Offset  int64
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s at offset %d: %s", w.Kind, w.Offset, w.Message)
}
