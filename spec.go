package fixedwidth

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
	"gopkg.in/yaml.v3"
)

// Specification document keys. Keys are matched case-sensitively.
const (
	keyColumnNames        = "ColumnNames"
	keyOffsets            = "Offsets"
	keyFixedWidthEncoding = "FixedWidthEncoding"
	keyInputEncoding      = "InputEncoding"
	keyIncludeHeader      = "IncludeHeader"
	keyDelimitedEncoding  = "DelimitedEncoding"
	keyOutputEncoding     = "OutputEncoding"
)

// MaxLineWidth is the largest total width, in characters, of all columns of
// a ColumnSpec.
const MaxLineWidth = 1 << 24

// headerEnabled is the only IncludeHeader value that enables the header row.
// "true", a JSON boolean and every other value disable it.
const headerEnabled = "True"

// A ColumnSpec describes the layout of a fixed-width file and how it is
// converted. A ColumnSpec is immutable; use NewColumnSpec, ParseSpec or
// LoadSpec to create one.
type ColumnSpec struct {
	names         []string
	widths        []int
	inName        string
	outName       string
	inEnc         encoding.Encoding
	outEnc        encoding.Encoding
	includeHeader bool

	// lineWidth is the sum of all widths.
	lineWidth int
}

// NewColumnSpec validates its arguments and returns a ColumnSpec.
//
// names and widths must have the same, non-zero length and every width must
// be positive. The widths may add up to at most MaxLineWidth. Both encoding
// names must resolve to a known charset.
func NewColumnSpec(names []string, widths []int, inputEncoding, outputEncoding string, includeHeader bool) (*ColumnSpec, error) {
	if len(names) == 0 {
		return nil, &SpecificationError{Key: keyColumnNames, Err: errors.New("no columns")}
	}
	if len(names) != len(widths) {
		return nil, &SpecificationError{
			Key: keyOffsets,
			Err: errors.Errorf("%d column names but %d offsets", len(names), len(widths)),
		}
	}

	s := &ColumnSpec{
		names:         append([]string(nil), names...),
		widths:        append([]int(nil), widths...),
		inName:        inputEncoding,
		outName:       outputEncoding,
		includeHeader: includeHeader,
	}
	for i, w := range widths {
		if w <= 0 {
			return nil, &SpecificationError{
				Key: keyOffsets,
				Err: errors.Errorf("width of column %q must be positive, have %d", names[i], w),
			}
		}
		if w > MaxLineWidth-s.lineWidth {
			return nil, &SpecificationError{
				Key: keyOffsets,
				Err: errors.Errorf("columns are wider than %d characters in total", MaxLineWidth),
			}
		}
		s.lineWidth += w
	}

	var err error
	if s.inEnc, err = lookupEncoding(inputEncoding); err != nil {
		return nil, &SpecificationError{Key: keyFixedWidthEncoding, Err: err}
	}
	if s.outEnc, err = lookupEncoding(outputEncoding); err != nil {
		return nil, &SpecificationError{Key: keyDelimitedEncoding, Err: err}
	}
	return s, nil
}

// ColumnNames returns a copy of the column names in column order.
func (s *ColumnSpec) ColumnNames() []string { return append([]string(nil), s.names...) }

// Widths returns a copy of the column widths in characters.
func (s *ColumnSpec) Widths() []int { return append([]int(nil), s.widths...) }

// InputEncoding returns the charset name of the fixed-width input.
func (s *ColumnSpec) InputEncoding() string { return s.inName }

// OutputEncoding returns the charset name of the delimited output.
func (s *ColumnSpec) OutputEncoding() string { return s.outName }

// IncludeHeader reports whether the column names are written as the first
// output row.
func (s *ColumnSpec) IncludeHeader() bool { return s.includeHeader }

// LineWidth returns the number of characters covered by all columns.
func (s *ColumnSpec) LineWidth() int { return s.lineWidth }

// SpecFormat is the serialization format of a specification document.
type SpecFormat int

const (
	// FormatJSON is a JSON object. It is the default for LoadSpec.
	FormatJSON SpecFormat = iota

	// FormatYAML is a YAML mapping, chosen by LoadSpec for .yaml and .yml
	// files.
	FormatYAML
)

func (f SpecFormat) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return "SpecFormat(" + strconv.Itoa(int(f)) + ")"
	}
}

// specFormatFromPath picks the document format from a file extension.
// Anything that is not .yaml or .yml is read as JSON.
func specFormatFromPath(path string) SpecFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// LoadSpec reads the specification document at path. Files ending in .yaml
// or .yml are parsed as YAML, all others as JSON.
//
// Every failure is returned as a *SpecificationError.
func LoadSpec(path string) (*ColumnSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &SpecificationError{Path: path, Err: err}
	}
	s, err := ParseSpec(data, specFormatFromPath(path))
	if err != nil {
		if se, ok := err.(*SpecificationError); ok {
			se.Path = path
		}
		return nil, err
	}
	return s, nil
}

// ParseSpec parses a specification document.
//
// The document must be an object with the keys ColumnNames, Offsets,
// FixedWidthEncoding (or InputEncoding) and DelimitedEncoding (or
// OutputEncoding). IncludeHeader is optional and enables the header row only
// when its value is exactly "True".
//
// ColumnNames may be a list of strings or a single comma separated string.
// Offsets may be a list of integers, a list of integer strings or a single
// comma separated string.
func ParseSpec(data []byte, format SpecFormat) (*ColumnSpec, error) {
	var (
		doc specDocument
		err error
	)
	switch format {
	case FormatJSON:
		doc, err = decodeJSONDocument(data)
	case FormatYAML:
		doc, err = decodeYAMLDocument(data)
	default:
		err = &SpecificationError{Err: errors.Errorf("unknown format %v", format)}
	}
	if err != nil {
		return nil, err
	}
	return doc.columnSpec()
}

// specDocument is the decoded, not yet validated, content of a document.
// A nil pointer means the key was absent.
type specDocument struct {
	names         *nameList
	widths        *widthList
	inEncoding    *string
	inKey         string
	outEncoding   *string
	outKey        string
	includeHeader headerFlag
}

func (d specDocument) columnSpec() (*ColumnSpec, error) {
	if d.names == nil {
		return nil, missingKey(keyColumnNames)
	}
	if d.widths == nil {
		return nil, missingKey(keyOffsets)
	}
	if d.inEncoding == nil {
		return nil, missingKey(keyFixedWidthEncoding)
	}
	if d.outEncoding == nil {
		return nil, missingKey(keyDelimitedEncoding)
	}

	s, err := NewColumnSpec(*d.names, *d.widths, *d.inEncoding, *d.outEncoding, bool(d.includeHeader))
	if err != nil {
		// report the key that was actually used in the document
		if se, ok := err.(*SpecificationError); ok {
			switch se.Key {
			case keyFixedWidthEncoding:
				se.Key = d.inKey
			case keyDelimitedEncoding:
				se.Key = d.outKey
			}
		}
		return nil, err
	}
	return s, nil
}

func missingKey(key string) error {
	return &SpecificationError{Key: key, Err: errors.New("missing required key")}
}

// pickSynonym returns the value of whichever of the two keys is set. Both
// keys may be set only when they agree.
func pickSynonym(primary, secondary string, p, s *string) (*string, string, error) {
	switch {
	case p != nil && s != nil && *p != *s:
		return nil, "", &SpecificationError{
			Key: primary,
			Err: errors.Errorf("conflicts with %s (%q != %q)", secondary, *p, *s),
		}
	case p != nil:
		return p, primary, nil
	case s != nil:
		return s, secondary, nil
	}
	return nil, primary, nil
}

// documentKeys lists the recognized keys in the order they are decoded.
var documentKeys = []string{
	keyColumnNames,
	keyOffsets,
	keyFixedWidthEncoding,
	keyInputEncoding,
	keyIncludeHeader,
	keyDelimitedEncoding,
	keyOutputEncoding,
}

// valueDecoder decodes one document value into target.
type valueDecoder func(target interface{}) error

func decodeJSONDocument(data []byte) (specDocument, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return specDocument{}, &SpecificationError{Err: errors.Wrap(err, "malformed json")}
	}
	values := make(map[string]valueDecoder, len(raw))
	for key, msg := range raw {
		msg := msg // per-iteration copy (go directive < 1.22)
		values[key] = func(target interface{}) error { return json.Unmarshal(msg, target) }
	}
	return decodeDocument(values)
}

func decodeYAMLDocument(data []byte) (specDocument, error) {
	var raw map[string]yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return specDocument{}, &SpecificationError{Err: errors.Wrap(err, "malformed yaml")}
	}
	values := make(map[string]valueDecoder, len(raw))
	for key, node := range raw {
		node := node // per-iteration copy (go directive < 1.22)
		values[key] = node.Decode
	}
	return decodeDocument(values)
}

func decodeDocument(values map[string]valueDecoder) (specDocument, error) {
	var (
		doc                                   specDocument
		fixedEnc, inEnc, delimitedEnc, outEnc *string
	)
	for _, key := range documentKeys {
		decode, ok := values[key]
		if !ok {
			continue
		}
		var target interface{}
		switch key {
		case keyColumnNames:
			doc.names = new(nameList)
			target = doc.names
		case keyOffsets:
			doc.widths = new(widthList)
			target = doc.widths
		case keyIncludeHeader:
			target = &doc.includeHeader
		case keyFixedWidthEncoding:
			fixedEnc = new(string)
			target = fixedEnc
		case keyInputEncoding:
			inEnc = new(string)
			target = inEnc
		case keyDelimitedEncoding:
			delimitedEnc = new(string)
			target = delimitedEnc
		case keyOutputEncoding:
			outEnc = new(string)
			target = outEnc
		}
		if err := decode(target); err != nil {
			return specDocument{}, &SpecificationError{Key: key, Err: err}
		}
	}
	return doc.withEncodings(fixedEnc, inEnc, delimitedEnc, outEnc)
}

func (d specDocument) withEncodings(fixedEnc, inEnc, delimitedEnc, outEnc *string) (specDocument, error) {
	var err error
	if d.inEncoding, d.inKey, err = pickSynonym(keyFixedWidthEncoding, keyInputEncoding, fixedEnc, inEnc); err != nil {
		return specDocument{}, err
	}
	if d.outEncoding, d.outKey, err = pickSynonym(keyDelimitedEncoding, keyOutputEncoding, delimitedEnc, outEnc); err != nil {
		return specDocument{}, err
	}
	return d, nil
}

// splitList splits a comma separated string and trims every element.
func splitList(s string) []string {
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// nameList is a list of column names, written either as a list or as a comma
// separated string.
type nameList []string

func (l *nameList) set(names []string) error {
	for i, n := range names {
		if strings.TrimSpace(n) == "" {
			return errors.Errorf("column %d has an empty name", i+1)
		}
	}
	*l = names
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *nameList) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return l.set(splitList(s))
	}
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return errors.New("must be a list of strings or a comma separated string")
	}
	return l.set(names)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *nameList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		return l.set(splitList(node.Value))
	case yaml.SequenceNode:
		var names []string
		if err := node.Decode(&names); err != nil {
			return err
		}
		return l.set(names)
	}
	return errors.New("must be a list of strings or a comma separated string")
}

// widthList is a list of column widths, written either as a list of
// integers, a list of integer strings or a comma separated string.
type widthList []int

// parseWidth converts a single offset to a positive integer.
func parseWidth(s string) (int, error) {
	w, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, errors.Errorf("offset %q is not an integer", s)
	}
	if w <= 0 {
		return 0, errors.Errorf("offset %d must be positive", w)
	}
	return w, nil
}

func (l *widthList) set(values []string) error {
	widths := make([]int, len(values))
	for i, v := range values {
		w, err := parseWidth(v)
		if err != nil {
			return err
		}
		widths[i] = w
	}
	*l = widths
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *widthList) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return l.set(splitList(s))
	}
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return errors.New("must be a list of integers or a comma separated string")
	}
	values := make([]string, len(items))
	for i, item := range items {
		item = bytes.TrimSpace(item)
		if len(item) > 0 && item[0] == '"' {
			if err := json.Unmarshal(item, &values[i]); err != nil {
				return err
			}
			continue
		}
		var n json.Number
		if err := json.Unmarshal(item, &n); err != nil {
			return errors.Errorf("offset %s is not an integer", item)
		}
		values[i] = n.String()
	}
	return l.set(values)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *widthList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		return l.set(splitList(node.Value))
	case yaml.SequenceNode:
		values := make([]string, len(node.Content))
		for i, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return errors.Errorf("offset %d is not a scalar", i+1)
			}
			values[i] = item.Value
		}
		return l.set(values)
	}
	return errors.New("must be a list of integers or a comma separated string")
}

// headerFlag is true only when the literal value is "True".
type headerFlag bool

// UnmarshalJSON implements json.Unmarshaler.
func (f *headerFlag) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// not a string, so not "True"
		*f = false
		return nil
	}
	*f = s == headerEnabled
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler. The scalar's literal text is
// compared, so both True and "True" enable the header.
func (f *headerFlag) UnmarshalYAML(node *yaml.Node) error {
	*f = headerFlag(node.Kind == yaml.ScalarNode && node.Value == headerEnabled)
	return nil
}
