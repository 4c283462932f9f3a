package fixedwidth

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
)

func ExampleGenerate() {
	spec, err := NewColumnSpec([]string{"id", "name", "grade"}, []int{5, 10, 5}, "utf-8", "utf-8", false)
	if err != nil {
		log.Fatal(err)
	}
	records := []Record{
		{"1", "Ian", "99.50"},
		{"2", "Jonathan Doe", "89.50"},
	}
	if err := Generate(spec, records, os.Stdout, nil); err != nil {
		log.Fatal(err)
	}
	// Output:
	// 1    Ian       99.50
	// 2    Jonathan D89.50
}

func TestFormatRecord(t *testing.T) {
	spec := utf8Spec(t, 3, 4, 2)
	for _, tt := range []struct {
		name      string
		rec       Record
		vw        ValueWriter
		expected  string
		shouldErr bool
	}{
		{"Default Pads Right", Record{"a", "b", "c"}, nil, "a  b   c ", false},
		{"Pad Left", Record{"a", "b", "c"}, PadLeft, "  a   b c", false},
		{"Truncates", Record{"abcdef", "ghijkl", "mno"}, PadRight, "abcghijmn", false},
		{"Empty Values", Record{"", "", ""}, nil, "         ", false},
		{"Multi-byte", Record{"é", "世界", "ü"}, nil, "é  世界  ü ", false},
		{"Too Few Fields", Record{"a"}, nil, "", true},
		{"Line Break", Record{"a", "b\nc", "d"}, nil, "", true},
	} {
		t.Run(tt.name, func(t *testing.T) {
			line, err := FormatRecord(spec, tt.rec, tt.vw)
			if tt.shouldErr != (err != nil) {
				t.Fatalf("FormatRecord() shouldErr expected %v, have %v (%v)", tt.shouldErr, err != nil, err)
			}
			if line != tt.expected {
				t.Errorf("FormatRecord() expected %q, have %q", tt.expected, line)
			}
		})
	}
}

func TestGenerate_RoundTrip(t *testing.T) {
	for _, enc := range []string{"utf-8", "windows-1252", "utf-16le"} {
		t.Run(enc, func(t *testing.T) {
			spec := mustSpec(t, []string{"a", "b", "c"}, []int{4, 6, 3}, enc, "utf-8", false)
			records := []Record{
				{"abcd", "café", "1"},
				{"", "x", ""},
				{"z", "", "999"},
			}

			var buf bytes.Buffer
			if err := Generate(spec, records, &buf, PadLeft); err != nil {
				t.Fatalf("Generate() err %v", err)
			}
			parsed, err := Parse(spec, &buf)
			if err != nil {
				t.Fatalf("Parse() err %v", err)
			}
			if diff := cmp.Diff(records, parsed); diff != "" {
				t.Errorf("round trip mismatch (-want +have):\n%s", diff)
			}
		})
	}
}

func TestGenerate_Errors(t *testing.T) {
	t.Run("Unrepresentable", func(t *testing.T) {
		spec := mustSpec(t, []string{"a"}, []int{2}, "windows-1252", "utf-8", false)
		err := Generate(spec, []Record{{"ok"}, {"世界"}}, &bytes.Buffer{}, nil)
		var ie *IOError
		if !errors.As(err, &ie) || ie.Op != "encode" || ie.Row != 2 {
			t.Errorf("Generate() err want encode *IOError at row 2, have %v", err)
		}
	})

	t.Run("Field Count", func(t *testing.T) {
		err := Generate(utf8Spec(t, 1, 1), []Record{{"a"}}, &bytes.Buffer{}, nil)
		var ie *IOError
		if !errors.As(err, &ie) || ie.Op != "encode" || ie.Row != 1 {
			t.Errorf("Generate() err want encode *IOError at row 1, have %v", err)
		}
	})

	t.Run("Sink", func(t *testing.T) {
		err := Generate(utf8Spec(t, 1), []Record{{"a"}}, failWriter{fmt.Errorf("nope")}, nil)
		var ie *IOError
		if !errors.As(err, &ie) || ie.Op != "write" {
			t.Errorf("Generate() err want write *IOError, have %v", err)
		}
	})
}
