package fixedwidth

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// errInvalidBytes is the cause of a DecodingError raised for bytes that have
// no meaning in the input encoding.
var errInvalidBytes = errors.New("invalid byte sequence")

var utf8BOM = []byte("\ufeff")

// Parse reads all lines from r and slices each of them into a Record as
// described by spec.
//
// Every physical line is one record; blank lines yield records of empty
// fields. If any line cannot be decoded, Parse returns a *DecodingError and
// no records. Read failures are returned as *IOError.
func Parse(spec *ColumnSpec, r io.Reader, opts ...DecoderOption) ([]Record, error) {
	d := NewDecoder(r, spec, opts...)
	var records []Record
	for {
		rec, err := d.Decode()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
}

// A DecoderOption configures a Decoder.
type DecoderOption func(d *Decoder)

// SkipBlankLines makes the Decoder drop lines that are empty once the line
// terminator is removed. By default they produce a record of empty fields.
func SkipBlankLines() DecoderOption {
	return func(d *Decoder) {
		d.skipBlank = true
	}
}

// SkipLines makes the Decoder drop the first n physical lines, for inputs
// that carry a banner or header line.
func SkipLines(n int) DecoderOption {
	return func(d *Decoder) {
		d.skipLines = n
	}
}

// A Decoder reads fixed-width records from an input stream.
type Decoder struct {
	spec      *ColumnSpec
	data      *bufio.Reader
	done      bool
	line      int
	skipBlank bool
	skipLines int

	// UTF-8 inputs skip the transform and are validated as read.
	rawUTF8  bool
	stripBOM bool
}

// NewDecoder returns a new decoder that reads from r. The bytes of r are
// decoded from the spec's input encoding before lines are split.
func NewDecoder(r io.Reader, spec *ColumnSpec, opts ...DecoderOption) *Decoder {
	d := &Decoder{spec: spec}
	switch spec.inEnc {
	case unicode.UTF8:
		d.rawUTF8 = true
	case unicode.UTF8BOM:
		d.rawUTF8 = true
		d.stripBOM = true
	default:
		r = transform.NewReader(r, spec.inEnc.NewDecoder())
	}
	d.data = bufio.NewReader(r)
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Line returns the number of physical lines read so far.
func (d *Decoder) Line() int {
	return d.line
}

// Decode reads the next line and returns it as a Record. When there is no
// data remaining it returns io.EOF.
func (d *Decoder) Decode() (Record, error) {
	for {
		line, ok, err := d.readLine()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, io.EOF
		}
		if d.line <= d.skipLines || (d.skipBlank && line == "") {
			continue
		}
		return sliceLine(line, d.spec.widths), nil
	}
}

// readLine returns the next line without its terminator. ok is false once
// the input is exhausted.
func (d *Decoder) readLine() (line string, ok bool, err error) {
	if d.done {
		return "", false, nil
	}
	raw, err := d.data.ReadBytes('\n')
	if err != nil && err != io.EOF {
		return "", false, &IOError{Op: "read", Err: err}
	}
	if err == io.EOF {
		d.done = true
		if len(raw) == 0 {
			// the input ended with a terminator, or was empty
			return "", false, nil
		}
	}
	d.line++

	raw = bytes.TrimSuffix(raw, []byte{'\n'})
	raw = bytes.TrimSuffix(raw, []byte{'\r'})

	if d.stripBOM && d.line == 1 {
		raw = bytes.TrimPrefix(raw, utf8BOM)
	}
	if !d.validLine(raw) {
		return "", false, &DecodingError{
			Line:     d.line,
			Encoding: d.spec.inName,
			Err:      errInvalidBytes,
		}
	}
	return string(raw), true, nil
}

// validLine reports whether raw holds only text that was valid in the input
// encoding. Other decoders replace undefined bytes with utf8.RuneError, so
// for them a replacement character marks invalid input.
func (d *Decoder) validLine(raw []byte) bool {
	if d.rawUTF8 {
		return utf8.Valid(raw)
	}
	return utf8.Valid(raw) && !bytes.ContainsRune(raw, utf8.RuneError)
}

// sliceLine cuts line into consecutive fields of the given widths, counted
// in characters. Fields beyond the end of the line are empty. Every field is
// trimmed of surrounding white space.
func sliceLine(line string, widths []int) Record {
	rec := make(Record, len(widths))
	pos := 0 // byte offset of the current field
	for i, w := range widths {
		if pos >= len(line) {
			rec[i] = ""
			continue
		}
		end := runeOffset(line, pos, w)
		rec[i] = strings.TrimSpace(line[pos:end])
		pos = end
	}
	return rec
}

// runeOffset returns the byte offset n characters after start, clamped to
// the end of s.
func runeOffset(s string, start, n int) int {
	// fast path for ASCII
	i := start
	for ; n > 0 && i < len(s) && s[i] < utf8.RuneSelf; n-- {
		i++
	}
	for ; n > 0 && i < len(s); n-- {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return i
}
