package fixedwidth

import (
	"strconv"
)

// A SpecificationError describes a specification that could not be loaded:
// an unreadable or malformed document, a missing or invalid key, or an
// encoding name that cannot be resolved.
type SpecificationError struct {
	Path string // path of the specification document, if any
	Key  string // offending key, if known
	Err  error  // original error
}

func (e *SpecificationError) Error() string {
	s := "fixedwidth: invalid specification"
	if e.Path != "" {
		s += " " + strconv.Quote(e.Path)
	}
	if e.Key != "" {
		s += " (key " + e.Key + ")"
	}
	if e.Err != nil {
		return s + ": " + e.Err.Error()
	}
	return s
}

func (e *SpecificationError) Unwrap() error { return e.Err }

// Cause returns the underlying error. It satisfies the causer interface used
// by github.com/pkg/errors.
func (e *SpecificationError) Cause() error { return e.Err }

// A DecodingError describes input bytes that are not valid in the declared
// input encoding.
type DecodingError struct {
	Path     string // input file path, if any
	Line     int    // 1-based physical line number
	Encoding string // declared input encoding
	Err      error  // original error
}

func (e *DecodingError) Error() string {
	s := "fixedwidth: cannot decode"
	if e.Path != "" {
		s += " " + strconv.Quote(e.Path)
	}
	s += " line " + strconv.Itoa(e.Line)
	if e.Encoding != "" {
		s += " as " + e.Encoding
	}
	if e.Err != nil {
		return s + ": " + e.Err.Error()
	}
	return s
}

func (e *DecodingError) Unwrap() error { return e.Err }

// Cause returns the underlying error.
func (e *DecodingError) Cause() error { return e.Err }

// An IOError describes a failure to read or write a file or stream, or to
// encode a value in the output encoding.
//
// When Partial is true the output file was created before the failure and
// may contain an incomplete result.
type IOError struct {
	Op      string // "open", "read", "create", "encode", "write", "close"
	Path    string // file path, if any
	Row     int    // 1-based output row, when Op is "encode" or "write"
	Partial bool
	Err     error // original error
}

func (e *IOError) Error() string {
	s := "fixedwidth: " + e.Op
	if e.Path != "" {
		s += " " + strconv.Quote(e.Path)
	}
	if e.Row > 0 {
		s += " row " + strconv.Itoa(e.Row)
	}
	if e.Partial {
		s += " (output may be incomplete)"
	}
	if e.Err != nil {
		return s + ": " + e.Err.Error()
	}
	return s
}

func (e *IOError) Unwrap() error { return e.Err }

// Cause returns the underlying error.
func (e *IOError) Cause() error { return e.Err }
