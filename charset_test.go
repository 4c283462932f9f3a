package fixedwidth

import (
	"testing"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
)

func TestLookupEncoding(t *testing.T) {
	for _, tt := range []struct {
		name     string
		expected encoding.Encoding
	}{
		{"utf-8", unicode.UTF8},
		{"UTF-8", unicode.UTF8},
		{" utf8 ", unicode.UTF8},
		{"utf_8", unicode.UTF8},
		{"utf-8-sig", unicode.UTF8BOM},
		{"windows-1252", charmap.Windows1252},
		{"cp1252", charmap.Windows1252},
		{"latin-1", charmap.ISO8859_1},
		{"ISO-8859-1", charmap.ISO8859_1},
		{"iso_8859_1", charmap.ISO8859_1},
		{"iso_8859-1", charmap.ISO8859_1},
		{"ISO88591", charmap.ISO8859_1},
		{"shift_jis", japanese.ShiftJIS},
		{"ascii", asciiEncoding{}},
		{"US-ASCII", asciiEncoding{}},
		{"us_ascii", asciiEncoding{}},
		{"646", asciiEncoding{}},
		{"ANSI_X3.4-1968", asciiEncoding{}},
		{"Shift-JIS", japanese.ShiftJIS},
	} {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := lookupEncoding(tt.name)
			if err != nil {
				t.Fatalf("lookupEncoding(%q) err %v", tt.name, err)
			}
			if enc != tt.expected {
				t.Errorf("lookupEncoding(%q) want %v, have %v", tt.name, tt.expected, enc)
			}
		})
	}

	t.Run("Resolvable Only", func(t *testing.T) {
		for _, name := range []string{"utf-16le", "utf-16be", "koi8-r", "gbk", "euc-kr", "ibm866"} {
			if _, err := lookupEncoding(name); err != nil {
				t.Errorf("lookupEncoding(%q) err %v", name, err)
			}
		}
	})

	t.Run("Errors", func(t *testing.T) {
		for _, name := range []string{"", "   ", "klingon", "utf-9"} {
			if enc, err := lookupEncoding(name); err == nil {
				t.Errorf("lookupEncoding(%q) want error, have %v", name, enc)
			}
		}
	})
}

func TestASCIIEncoding(t *testing.T) {
	enc := asciiEncoding{}

	t.Run("Decode", func(t *testing.T) {
		have, err := enc.NewDecoder().String("abc\x7f")
		if err != nil || have != "abc\x7f" {
			t.Errorf("Decoder.String() want %q, have %q (%v)", "abc\x7f", have, err)
		}
		have, err = enc.NewDecoder().String("caf\xe9")
		if err != nil || have != "caf\uFFFD" {
			t.Errorf("Decoder.String() want %q, have %q (%v)", "caf\uFFFD", have, err)
		}
	})

	t.Run("Encode", func(t *testing.T) {
		have, err := enc.NewEncoder().String("plain text\n")
		if err != nil || have != "plain text\n" {
			t.Errorf("Encoder.String() want %q, have %q (%v)", "plain text\n", have, err)
		}
		for _, s := range []string{"café", "\u0080", "世界"} {
			if _, err := enc.NewEncoder().String(s); err == nil {
				t.Errorf("Encoder.String(%q) want error", s)
			}
		}
	})
}
