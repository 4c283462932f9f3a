// Package fixedwidth converts fixed-width formatted text into delimited (CSV)
// text.
//
// The layout of the fixed-width data is described by a ColumnSpec: the
// column names, the width of every column in characters, the encoding of the
// fixed-width input and the encoding of the produced CSV. A ColumnSpec is
// usually loaded from a JSON or YAML document with LoadSpec.
//
//	spec, err := fixedwidth.LoadSpec("spec.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := fixedwidth.ConvertFile(spec, "input.txt", "output.csv"); err != nil {
//		log.Fatal(err)
//	}
//
// Errors are reported as *SpecificationError, *DecodingError or *IOError.
package fixedwidth

// A Record is a single parsed line. It holds one trimmed value per column,
// in column order.
type Record []string

// ValueWriter is responsible for writing a value into a fixed-width slot.
// ValueWriter should handle padding and truncation.
//
// The destination always has the length of the slot in characters and is
// filled with spaces.
type ValueWriter func(value, destination []rune)
