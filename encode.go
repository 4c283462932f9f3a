package fixedwidth

import (
	"io"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// Write writes records to w as delimited text, preceded by the column names
// when spec.IncludeHeader() is true. The text is encoded in the spec's
// output encoding.
//
// A value that cannot be represented in the output encoding, or a failure
// of w, is returned as an *IOError. Rows before the failing one may already
// have been written to w.
func Write(spec *ColumnSpec, records []Record, w io.Writer, opts ...EncoderOption) error {
	e := NewEncoder(w, spec, opts...)
	if spec.includeHeader {
		if err := e.EncodeHeader(); err != nil {
			return err
		}
	}
	for _, rec := range records {
		if err := e.Encode(rec); err != nil {
			return err
		}
	}
	return e.Close()
}

// An EncoderOption configures an Encoder.
type EncoderOption func(e *Encoder)

// UseCRLF terminates every row with \r\n instead of \n.
func UseCRLF() EncoderOption {
	return func(e *Encoder) {
		e.newline = "\r\n"
	}
}

// Delimiter sets the field separator. The default is ','. The separator may
// not be a quote, a line break or utf8.RuneError.
func Delimiter(r rune) EncoderOption {
	return func(e *Encoder) {
		e.comma = r
	}
}

// An Encoder writes delimited records to an output stream.
//
// Fields that contain the delimiter, a double quote or a line break are
// quoted and embedded quotes are doubled. All other fields are written as
// is.
type Encoder struct {
	spec    *ColumnSpec
	cw      *charsetWriter
	comma   rune
	newline string
	buf     strings.Builder
}

// NewEncoder returns a new encoder that writes to w in the spec's output
// encoding. The caller must call Flush or Close to write buffered rows.
func NewEncoder(w io.Writer, spec *ColumnSpec, opts ...EncoderOption) *Encoder {
	e := &Encoder{
		spec:    spec,
		cw:      newCharsetWriter(w, spec.outEnc, spec.outName),
		comma:   ',',
		newline: "\n",
	}
	for _, opt := range opts {
		opt(e)
	}
	if !validDelim(e.comma) {
		e.cw.Fail(errors.Errorf("fixedwidth: invalid delimiter %q", e.comma))
	}
	return e
}

func validDelim(r rune) bool {
	return r != 0 && r != '"' && r != '\r' && r != '\n' && utf8.ValidRune(r) && r != utf8.RuneError
}

// EncodeHeader writes the spec's column names as a row.
func (e *Encoder) EncodeHeader() error {
	return e.writeRow(e.spec.names)
}

// Encode writes rec as a row. rec must have one value per column.
func (e *Encoder) Encode(rec Record) error {
	if len(rec) != len(e.spec.widths) {
		return e.cw.Fail(&IOError{
			Op:  "encode",
			Row: e.cw.n + 1,
			Err: errors.Errorf("record has %d fields, want %d", len(rec), len(e.spec.widths)),
		})
	}
	return e.writeRow(rec)
}

// Flush writes any buffered rows to the underlying writer.
func (e *Encoder) Flush() error {
	return e.cw.Flush()
}

// Close flushes the encoder and ends the encoded stream. It does not close
// the underlying writer.
func (e *Encoder) Close() error {
	return e.cw.Close()
}

func (e *Encoder) writeRow(fields []string) error {
	e.buf.Reset()
	for i, field := range fields {
		if i > 0 {
			e.buf.WriteRune(e.comma)
		}
		e.writeField(field)
	}
	e.buf.WriteString(e.newline)
	return e.cw.WriteChunk(e.buf.String())
}

func (e *Encoder) writeField(field string) {
	if !e.fieldNeedsQuotes(field) {
		e.buf.WriteString(field)
		return
	}
	e.buf.WriteByte('"')
	start := 0
	for i := 0; i < len(field); i++ {
		if field[i] == '"' {
			e.buf.WriteString(field[start : i+1])
			e.buf.WriteByte('"')
			start = i + 1
		}
	}
	e.buf.WriteString(field[start:])
	e.buf.WriteByte('"')
}

func (e *Encoder) fieldNeedsQuotes(field string) bool {
	return strings.ContainsRune(field, e.comma) || strings.ContainsAny(field, "\"\r\n")
}
