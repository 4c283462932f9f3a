package fixedwidth

import (
	"bufio"
	"io"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// lineBuilder is a character aware buffer used to lay out a line of fixed
// width text. Positions and lengths are in characters.
type lineBuilder struct {
	data []rune
}

// newLineBuilder makes a new lineBuilder of n characters filled with
// fillChar.
func newLineBuilder(n int, fillChar rune) *lineBuilder {
	data := make([]rune, n)
	if n == 0 {
		return &lineBuilder{data: data}
	}

	// Fill the buffer by doubling the filled prefix.
	data[0] = fillChar
	filled := 1
	for filled < n {
		copy(data[filled:], data[:filled])
		filled *= 2
	}
	return &lineBuilder{data: data}
}

// WriteValue writes value into the slot [start, start+width) using vw. The
// slot is reset to spaces first.
func (b *lineBuilder) WriteValue(start, width int, value string, vw ValueWriter) {
	slot := b.data[start : start+width : start+width]
	for i := range slot {
		slot[i] = ' '
	}
	vw([]rune(value), slot)
}

func (b *lineBuilder) String() string {
	return string(b.data)
}

// charsetWriter buffers UTF-8 text and writes it to the underlying writer in
// a target charset. Every chunk is checked against the charset before it is
// buffered, so a chunk is either written whole or not at all.
type charsetWriter struct {
	charset string
	tw      *transform.Writer
	w       *bufio.Writer
	probe   *encoding.Encoder

	// n counts chunks accepted so far.
	n int

	// err is sticky; once set every call returns it.
	err error
}

func newCharsetWriter(w io.Writer, enc encoding.Encoding, charset string) *charsetWriter {
	tw := transform.NewWriter(w, enc.NewEncoder())
	return &charsetWriter{
		charset: charset,
		tw:      tw,
		w:       bufio.NewWriter(tw),
		probe:   enc.NewEncoder(),
	}
}

// WriteChunk encodes and buffers s. Failures are reported as *IOError with
// Row set to the 1-based chunk number.
func (c *charsetWriter) WriteChunk(s string) error {
	if c.err != nil {
		return c.err
	}
	c.n++
	if _, err := c.probe.String(s); err != nil {
		c.err = &IOError{Op: "encode", Row: c.n, Err: errors.Wrapf(err, "cannot encode as %s", c.charset)}
		return c.err
	}
	if _, err := c.w.WriteString(s); err != nil {
		c.err = &IOError{Op: "write", Row: c.n, Err: err}
		return c.err
	}
	return nil
}

// Fail makes err the sticky error of the writer.
func (c *charsetWriter) Fail(err error) error {
	if c.err == nil {
		c.err = err
	}
	return c.err
}

// Flush writes buffered data to the underlying writer.
func (c *charsetWriter) Flush() error {
	if c.err != nil {
		return c.err
	}
	if err := c.w.Flush(); err != nil {
		c.err = &IOError{Op: "write", Err: err}
		return c.err
	}
	return nil
}

// Close flushes and ends the encoded stream. The underlying writer is not
// closed.
func (c *charsetWriter) Close() error {
	if err := c.Flush(); err != nil {
		return err
	}
	if err := c.tw.Close(); err != nil {
		c.err = &IOError{Op: "write", Err: err}
		return c.err
	}
	return nil
}
