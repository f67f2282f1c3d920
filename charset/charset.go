// Package charset turns text in whatever character set a message declares into
// UTF-8. Conversion never fails outright. When the declared charset is unknown
// or the bytes cannot be converted, the bytes are widened one byte per code
// point (as if they were ISO-8859-1) and the result is marked as degraded.
package charset

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	gmcharset "github.com/emersion/go-message/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
)

// DefaultCharset is assumed when nothing has been declared.
const DefaultCharset = "ASCII"

// ErrUnknownCharset is returned by Lookup and NewReader when no decoder can be
// found for a charset name.
var ErrUnknownCharset = errors.New("unknown charset")

func init() {
	// not an IANA name, but Outlook sends it
	gmcharset.RegisterEncoding("cp1252", charmap.Windows1252)
}

// Result is the outcome of a conversion to UTF-8.
type Result struct {
	// Text is always valid UTF-8.
	Text string

	// Degraded is true when the lossy fallback was used or invalid input had
	// to be replaced.
	Degraded bool
}

// Clean reduces a declared charset to a bare, upper-cased charset name. It
// drops quotes, anything after a semicolon, and markers that sometimes ride
// along in the same field, such as FORMAT=FLOWED. An empty declaration
// results in DefaultCharset.
func Clean(declared string) string {
	s := strings.ToUpper(declared)
	if ix := strings.IndexByte(s, ';'); ix >= 0 {
		s = s[:ix]
	}

	s = strings.ReplaceAll(s, "FORMAT=FLOWED", "")
	s = strings.NewReplacer(`"`, "", "'", "").Replace(s)

	fs := strings.Fields(s)
	if len(fs) == 0 {
		return DefaultCharset
	}

	return fs[0]
}

func isUTF8(name string) bool {
	return name == "UTF-8" || name == "UTF8"
}

func isASCII(name string) bool {
	switch name {
	case "ASCII", "US-ASCII", "ANSI_X3.4-1968", "US", "646":
		return true
	}
	return false
}

// Lookup finds the encoding for the given charset name using the MIME and
// IANA registries from golang.org/x/text.
func Lookup(name string) (encoding.Encoding, error) {
	for _, idx := range []*ianaindex.Index{ianaindex.MIME, ianaindex.IANA} {
		if e, err := idx.Encoding(name); err == nil && e != nil {
			return e, nil
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownCharset, name)
}

// NewReader returns a reader that converts the input from the named charset
// into UTF-8. It is suitable for use as the CharsetReader of a
// mime.WordDecoder. Names unknown to golang.org/x/text are retried against the
// alias table of github.com/emersion/go-message/charset.
func NewReader(name string, r io.Reader) (io.Reader, error) {
	c := Clean(name)
	if isUTF8(c) || isASCII(c) {
		return r, nil
	}

	if e, err := Lookup(c); err == nil {
		return e.NewDecoder().Reader(r), nil
	}

	cr, err := gmcharset.Reader(strings.ToLower(c), r)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCharset, name)
	}

	return cr, nil
}

// Latin1 widens each byte into the code point with the same value. This is
// the lossy fallback: it cannot fail, but it is only correct for ISO-8859-1.
func Latin1(b []byte) string {
	var s strings.Builder
	s.Grow(len(b))
	for _, c := range b {
		s.WriteRune(rune(c))
	}
	return s.String()
}

// Normalize converts the bytes from the declared charset into UTF-8.
func Normalize(b []byte, declared string) Result {
	c := Clean(declared)

	switch {
	case isUTF8(c):
		if utf8.Valid(b) {
			return Result{Text: string(b)}
		}
		return Result{Text: strings.ToValidUTF8(string(b), string(utf8.RuneError)), Degraded: true}

	case isASCII(c):
		// 8-bit bytes in "ascii" text are nearly always UTF-8 from a client
		// that did not bother to declare it
		if utf8.Valid(b) {
			return Result{Text: string(b)}
		}
		return Result{Text: Latin1(b), Degraded: true}
	}

	r, err := NewReader(c, bytes.NewReader(b))
	if err != nil {
		return Result{Text: Latin1(b), Degraded: true}
	}

	out, err := io.ReadAll(r)
	if err != nil || !utf8.Valid(out) {
		return Result{Text: Latin1(b), Degraded: true}
	}

	return Result{Text: string(out)}
}
