package fixedwidth

import (
	"io"
	"strings"

	"github.com/pkg/errors"
)

// PadRight is a ValueWriter that aligns values on the left and pads them on
// the right. If the value is longer than the destination, the value is
// truncated on the right.
func PadRight(value, destination []rune) {
	copy(destination, value)
}

// PadLeft is a ValueWriter that aligns values on the right and pads them on
// the left. If the value is longer than the destination, the value is
// truncated on the left.
func PadLeft(value, destination []rune) {
	for i := 0; i < len(value) && i < len(destination); i++ {
		destination[len(destination)-i-1] = value[len(value)-i-1]
	}
}

// FormatRecord lays rec out as a single fixed-width line of
// spec.LineWidth() characters, without a line terminator. If vw is nil,
// PadRight is used.
func FormatRecord(spec *ColumnSpec, rec Record, vw ValueWriter) (string, error) {
	if len(rec) != len(spec.widths) {
		return "", errors.Errorf("record has %d fields, want %d", len(rec), len(spec.widths))
	}
	if vw == nil {
		vw = PadRight
	}
	b := newLineBuilder(spec.lineWidth, ' ')
	start := 0
	for i, w := range spec.widths {
		if strings.ContainsAny(rec[i], "\r\n") {
			return "", errors.Errorf("value of column %q contains a line break", spec.names[i])
		}
		b.WriteValue(start, w, rec[i], vw)
		start += w
	}
	return b.String(), nil
}

// Generate writes records to w as fixed-width lines in the spec's input
// encoding. It is the inverse of Parse for values that fit their columns.
func Generate(spec *ColumnSpec, records []Record, w io.Writer, vw ValueWriter) error {
	lw := NewLineWriter(w, spec, vw)
	for _, rec := range records {
		if err := lw.Write(rec); err != nil {
			return err
		}
	}
	return lw.Close()
}

// A LineWriter writes records as fixed-width lines, each terminated by \n.
type LineWriter struct {
	spec *ColumnSpec
	vw   ValueWriter
	cw   *charsetWriter
}

// NewLineWriter returns a LineWriter that writes to w in the spec's input
// encoding. If vw is nil, PadRight is used.
func NewLineWriter(w io.Writer, spec *ColumnSpec, vw ValueWriter) *LineWriter {
	return &LineWriter{
		spec: spec,
		vw:   vw,
		cw:   newCharsetWriter(w, spec.inEnc, spec.inName),
	}
}

// Write lays out rec and writes it as a line.
func (lw *LineWriter) Write(rec Record) error {
	line, err := FormatRecord(lw.spec, rec, lw.vw)
	if err != nil {
		return lw.cw.Fail(&IOError{Op: "encode", Row: lw.cw.n + 1, Err: err})
	}
	return lw.cw.WriteChunk(line + "\n")
}

// Close flushes buffered lines. It does not close the underlying writer.
func (lw *LineWriter) Close() error {
	return lw.cw.Close()
}
