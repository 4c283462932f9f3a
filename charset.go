package fixedwidth

import (
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// charsetAliases holds names that the WHATWG index either does not know or
// maps to a different charset than the one users of these files expect.
// WHATWG treats latin-1 and us-ascii as windows-1252, for example.
var charsetAliases = map[string]encoding.Encoding{
	"latin-1":         charmap.ISO8859_1,
	"latin1":          charmap.ISO8859_1,
	"l1":              charmap.ISO8859_1,
	"iso-8859-1":      charmap.ISO8859_1,
	"iso8859-1":       charmap.ISO8859_1,
	"iso88591":        charmap.ISO8859_1,
	"iso_8859-1":      charmap.ISO8859_1,
	"iso_8859-1:1987": charmap.ISO8859_1,
	"iso-ir-100":      charmap.ISO8859_1,
	"cp819":           charmap.ISO8859_1,
	"ibm819":          charmap.ISO8859_1,
	"csisolatin1":     charmap.ISO8859_1,
	"cp1252":          charmap.Windows1252,
	"ascii":           asciiEncoding{},
	"us-ascii":        asciiEncoding{},
	"us":              asciiEncoding{},
	"646":             asciiEncoding{},
	"iso646-us":       asciiEncoding{},
	"iso-ir-6":        asciiEncoding{},
	"ansi_x3.4-1968":  asciiEncoding{},
	"ansi_x3.4-1986":  asciiEncoding{},
	"cp367":           asciiEncoding{},
	"ibm367":          asciiEncoding{},
	"csascii":         asciiEncoding{},
	"utf8":            unicode.UTF8,
	"utf-8-sig":       unicode.UTF8BOM,
	"utf8-sig":        unicode.UTF8BOM,
}

// lookupEncoding resolves a charset name. Names are matched case-insensitively
// and '_' is accepted in place of '-'.
func lookupEncoding(name string) (encoding.Encoding, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil, errors.New("empty encoding name")
	}
	keys := []string{key}
	if alt := strings.ReplaceAll(key, "_", "-"); alt != key {
		keys = append(keys, alt)
	}

	for _, k := range keys {
		if enc, ok := charsetAliases[k]; ok {
			return enc, nil
		}
		if enc, err := htmlindex.Get(k); err == nil {
			return enc, nil
		}
		enc, err := ianaindex.IANA.Encoding(k)
		if err != nil {
			continue
		}
		if enc == nil {
			// registered with IANA but not implemented by x/text
			return nil, errors.Errorf("encoding %q is not implemented", name)
		}
		return enc, nil
	}
	return nil, errors.Errorf("unsupported encoding %q", name)
}

// errNotASCII is returned when encoding a rune above U+007F as ASCII.
var errNotASCII = errors.New("character is not in the ASCII range")

// asciiEncoding is 7-bit US-ASCII. Decoding turns every byte above 0x7F
// into utf8.RuneError; encoding fails on every character above U+007F.
type asciiEncoding struct{}

func (asciiEncoding) NewDecoder() *encoding.Decoder {
	return &encoding.Decoder{Transformer: runes.Map(func(r rune) rune {
		if r >= utf8.RuneSelf {
			return utf8.RuneError
		}
		return r
	})}
}

func (asciiEncoding) NewEncoder() *encoding.Encoder {
	return &encoding.Encoder{Transformer: asciiEncoder{}}
}

func (asciiEncoding) String() string { return "US-ASCII" }

type asciiEncoder struct{ transform.NopResetter }

func (asciiEncoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	n := len(src)
	if n > len(dst) {
		n = len(dst)
		err = transform.ErrShortDst
	}
	for i := 0; i < n; i++ {
		if src[i] >= utf8.RuneSelf {
			return i, i, errNotASCII
		}
		dst[i] = src[i]
	}
	return n, n, err
}
