package csv

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultEncoding is used when Options.Encoding is empty.
const DefaultEncoding = "utf-8"

// lookupEncoding resolves an encoding label. The empty label and the UTF-8
// labels resolve to nil, meaning "bytes are already UTF-8". The latin-1
// labels map to true ISO-8859-1 rather than the WHATWG windows-1252 alias.
func lookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return nil, nil
	case "latin1", "latin-1", "iso-8859-1", "iso8859-1":
		return charmap.ISO8859_1, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	if enc == unicode.UTF8 {
		return nil, nil
	}
	return enc, nil
}

// ValidEncoding reports whether name is an encoding label the reader accepts.
func ValidEncoding(name string) bool {
	_, err := lookupEncoding(name)
	return err == nil
}

// decodeReader wraps r so that it yields UTF-8. A leading byte-order mark is
// always consumed; a UTF-16 BOM switches decoding to UTF-16 regardless of
// the configured label.
func decodeReader(r io.Reader, name string) (io.Reader, error) {
	enc, err := lookupEncoding(name)
	if err != nil {
		return nil, err
	}
	fallback := transform.Transformer(transform.Nop)
	if enc != nil {
		fallback = enc.NewDecoder()
	}
	return transform.NewReader(r, unicode.BOMOverride(fallback)), nil
}
