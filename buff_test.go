package fixedwidth

import (
	"testing"
)

func TestNewLineBuilder(t *testing.T) {
	for _, tt := range []struct {
		name       string
		len        int
		fillChar   rune
		expectData string
	}{
		{"empty", 0, ' ', ""},
		{"one", 1, '_', "_"},
		{"base case", 5, ' ', "     "},
		{"not a power of two", 7, '.', "......."},
		{"multi-byte fill", 3, '·', "···"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			b := newLineBuilder(tt.len, tt.fillChar)
			if len(b.data) != tt.len {
				t.Errorf("newLineBuilder() expected len %v, have %v", tt.len, len(b.data))
			}
			if b.String() != tt.expectData {
				t.Errorf("newLineBuilder() expected data %q, have %q", tt.expectData, b.String())
			}
		})
	}
}

func TestLineBuilder_WriteValue(t *testing.T) {
	for _, tt := range []struct {
		name       string
		len        int
		start      int
		width      int
		value      string
		vw         ValueWriter
		expectData string
	}{
		{"fill", 3, 0, 3, "foo", PadRight, "foo"},
		{"pad right", 6, 0, 6, "foo", PadRight, "foo   "},
		{"pad left", 6, 0, 6, "foo", PadLeft, "   foo"},
		{"truncate right", 3, 0, 3, "foobar", PadRight, "foo"},
		{"truncate left", 3, 0, 3, "foobar", PadLeft, "bar"},
		{"offset", 6, 2, 3, "ab", PadRight, "  ab  "},
		{"multi-byte value", 5, 1, 3, "世界", PadRight, " 世界  "},
		{"multi-byte pad left", 4, 0, 4, "é", PadLeft, "   é"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			b := newLineBuilder(tt.len, ' ')
			b.WriteValue(tt.start, tt.width, tt.value, tt.vw)
			if b.String() != tt.expectData {
				t.Errorf("WriteValue() expected %q, have %q", tt.expectData, b.String())
			}
		})
	}

	t.Run("overwrite resets slot", func(t *testing.T) {
		b := newLineBuilder(4, ' ')
		b.WriteValue(0, 4, "long", PadRight)
		b.WriteValue(0, 4, "ab", PadRight)
		if b.String() != "ab  " {
			t.Errorf("WriteValue() expected %q, have %q", "ab  ", b.String())
		}
	})
}
