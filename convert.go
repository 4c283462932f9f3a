package fixedwidth

import (
	"io"
	"os"
	"time"

	"go.uber.org/zap"
)

// A Converter converts fixed-width input to delimited output. The zero value
// is ready to use and logs nothing.
type Converter struct {
	// Logger receives debug events about each conversion. It may be nil.
	Logger *zap.Logger

	DecoderOptions []DecoderOption
	EncoderOptions []EncoderOption
}

var defaultConverter Converter

// Convert parses all of r and writes the resulting records to w. Nothing is
// written to w if the input cannot be parsed.
func Convert(spec *ColumnSpec, r io.Reader, w io.Writer) error {
	return defaultConverter.Convert(spec, r, w)
}

// ConvertFile converts the file at inPath and writes the result to outPath.
// See Converter.ConvertFile.
func ConvertFile(spec *ColumnSpec, inPath, outPath string) error {
	return defaultConverter.ConvertFile(spec, inPath, outPath)
}

func (c *Converter) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// Convert parses all of r and writes the resulting records to w. Nothing is
// written to w if the input cannot be parsed.
func (c *Converter) Convert(spec *ColumnSpec, r io.Reader, w io.Writer) error {
	records, err := c.parse(spec, r)
	if err != nil {
		return err
	}
	return c.write(spec, records, w)
}

// ConvertFile converts the file at inPath and writes the result to outPath.
//
// The input is parsed completely before outPath is created, so a decoding
// failure leaves no output file behind. A failure after outPath was created
// is returned as an *IOError with Partial set; the incomplete file is left
// in place.
func (c *Converter) ConvertFile(spec *ColumnSpec, inPath, outPath string) (err error) {
	in, err := os.Open(inPath)
	if err != nil {
		return &IOError{Op: "open", Path: inPath, Err: err}
	}
	defer in.Close()

	records, err := c.parse(spec, in)
	if err != nil {
		switch e := err.(type) {
		case *DecodingError:
			e.Path = inPath
		case *IOError:
			e.Path = inPath
		}
		return err
	}

	out, err := os.Create(outPath)
	if err != nil {
		return &IOError{Op: "create", Path: outPath, Err: err}
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = &IOError{Op: "close", Path: outPath, Partial: true, Err: cerr}
		}
	}()

	if werr := c.write(spec, records, out); werr != nil {
		if e, ok := werr.(*IOError); ok {
			e.Path = outPath
			e.Partial = true
		}
		return werr
	}
	return nil
}

func (c *Converter) parse(spec *ColumnSpec, r io.Reader) ([]Record, error) {
	log := c.logger()
	start := time.Now()
	records, err := Parse(spec, r, c.DecoderOptions...)
	if err != nil {
		log.Debug("parse failed", zap.Error(err))
		return nil, err
	}
	log.Debug("parsed fixed-width input",
		zap.Int("records", len(records)),
		zap.String("encoding", spec.inName),
		zap.Duration("elapsed", time.Since(start)))
	return records, nil
}

func (c *Converter) write(spec *ColumnSpec, records []Record, w io.Writer) error {
	log := c.logger()
	start := time.Now()
	if err := Write(spec, records, w, c.EncoderOptions...); err != nil {
		log.Debug("write failed", zap.Error(err))
		return err
	}
	rows := len(records)
	if spec.includeHeader {
		rows++
	}
	log.Debug("wrote delimited output",
		zap.Int("rows", rows),
		zap.String("encoding", spec.outName),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

// Describe returns zap fields summarizing spec, for logging by callers.
func Describe(spec *ColumnSpec) []zap.Field {
	return []zap.Field{
		zap.Strings("columns", spec.names),
		zap.Ints("widths", spec.widths),
		zap.Int("line_width", spec.lineWidth),
		zap.String("input_encoding", spec.inName),
		zap.String("output_encoding", spec.outName),
		zap.Bool("include_header", spec.includeHeader),
	}
}
