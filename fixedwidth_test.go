package fixedwidth

import (
	"testing"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// mustSpec builds a ColumnSpec or fails the test.
func mustSpec(t testing.TB, names []string, widths []int, in, out string, header bool) *ColumnSpec {
	t.Helper()
	s, err := NewColumnSpec(names, widths, in, out, header)
	if err != nil {
		t.Fatalf("NewColumnSpec() err %v", err)
	}
	return s
}

// utf8Spec is a header-less UTF-8 to UTF-8 spec with generated column names.
func utf8Spec(t testing.TB, widths ...int) *ColumnSpec {
	t.Helper()
	names := make([]string, len(widths))
	for i := range names {
		names[i] = "f" + string(rune('1'+i))
	}
	return mustSpec(t, names, widths, "utf-8", "utf-8", false)
}

// failWriter fails every write.
type failWriter struct{ err error }

func (w failWriter) Write(p []byte) (int, error) { return 0, w.err }
