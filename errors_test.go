package fixedwidth

import (
	"io"
	"testing"

	"github.com/pkg/errors"
)

func TestErrorMessages(t *testing.T) {
	cause := errors.New("boom")
	for _, tt := range []struct {
		name     string
		err      error
		expected string
	}{
		{"Spec Bare", &SpecificationError{}, "fixedwidth: invalid specification"},
		{"Spec Full", &SpecificationError{Path: "s.json", Key: "Offsets", Err: cause},
			`fixedwidth: invalid specification "s.json" (key Offsets): boom`},
		{"Decoding", &DecodingError{Line: 3, Encoding: "utf-8", Err: cause},
			"fixedwidth: cannot decode line 3 as utf-8: boom"},
		{"Decoding With Path", &DecodingError{Path: "in.txt", Line: 1},
			`fixedwidth: cannot decode "in.txt" line 1`},
		{"IO Open", &IOError{Op: "open", Path: "in.txt", Err: cause},
			`fixedwidth: open "in.txt": boom`},
		{"IO Partial", &IOError{Op: "encode", Path: "out.csv", Row: 7, Partial: true, Err: cause},
			`fixedwidth: encode "out.csv" row 7 (output may be incomplete): boom`},
	} {
		t.Run(tt.name, func(t *testing.T) {
			if have := tt.err.Error(); have != tt.expected {
				t.Errorf("Error() expected %q, have %q", tt.expected, have)
			}
		})
	}
}

func TestErrorCauses(t *testing.T) {
	for _, err := range []error{
		&SpecificationError{Err: io.ErrUnexpectedEOF},
		&DecodingError{Err: io.ErrUnexpectedEOF},
		&IOError{Op: "read", Err: io.ErrUnexpectedEOF},
	} {
		wrapped := errors.Wrap(err, "context")
		if errors.Cause(wrapped) != io.ErrUnexpectedEOF {
			t.Errorf("Cause(%T) expected %v, have %v", err, io.ErrUnexpectedEOF, errors.Cause(wrapped))
		}
		if !errors.Is(wrapped, io.ErrUnexpectedEOF) {
			t.Errorf("Is(%T, io.ErrUnexpectedEOF) expected true", err)
		}
	}

	var ie *IOError
	if !errors.As(errors.Wrap(&IOError{Op: "write"}, "context"), &ie) || ie.Op != "write" {
		t.Errorf("As() did not find *IOError")
	}
}
