package param

import (
	"fmt"
	"mime"
	"sort"
	"strings"
)

const (
	// Charset is the name of the charset parameter that may be present in the
	// Content-type header.
	Charset = "charset"

	// Boundary is the name of the boundary parameter that may be present in
	// the Content-type header.
	Boundary = "boundary"

	// Name is the name of the name parameter that may be present in the
	// Content-type header of an attached file.
	Name = "name"

	// Filename is the name of the filename parameter that may be present in the
	// Content-disposition header.
	Filename = "filename"
)

// Value represents a parsed parameterized header field, such as is used in the
// Content-type and Content-disposition headers. A Value object is immutable.
type Value struct {
	v  string
	ps map[string]string
}

// Parse takes a header field body, parses it strictly as a Value, and returns
// it. If the body is not a valid RFC 2045 parameterized value, it returns an
// error.
func Parse(v string) (*Value, error) {
	mt, ps, err := mime.ParseMediaType(v)
	if err != nil {
		return nil, err
	}

	return &Value{mt, ps}, nil
}

// ParseLenient parses a header field body as a Value and never fails. It
// tries Parse first. If that fails, it falls back to splitting the body on
// semicolons (outside of quotes) and each parameter on its first equal sign,
// stripping any quotes from around the parameter values. This accepts the
// kind of thing you find in real mail, like unquoted values containing
// spaces or a stray semicolon at the end.
func ParseLenient(v string) *Value {
	if pv, err := Parse(v); err == nil {
		// single quotes are token characters to mime.ParseMediaType
		for k, pval := range pv.ps {
			pv.ps[k] = Unquote(pval)
		}
		return pv
	}

	pieces := splitOutsideQuotes(v, ';')
	pv := &Value{
		v:  strings.ToLower(strings.TrimSpace(pieces[0])),
		ps: make(map[string]string, len(pieces)-1),
	}

	for _, piece := range pieces[1:] {
		k, val, found := strings.Cut(piece, "=")
		if !found {
			continue
		}

		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}

		// first one wins, same as mime.ParseMediaType
		if _, dup := pv.ps[k]; dup {
			continue
		}

		pv.ps[k] = Unquote(val)
	}

	return pv
}

// Unquote trims space from the value and then removes one layer of matching
// double or single quotes from around it, if present.
func Unquote(v string) string {
	v = strings.TrimSpace(v)
	if len(v) >= 2 {
		if (v[0] == '"' && v[len(v)-1] == '"') || (v[0] == '\'' && v[len(v)-1] == '\'') {
			return v[1 : len(v)-1]
		}
	}
	return strings.Trim(v, `"'`)
}

// splitOutsideQuotes splits s on sep, except where sep appears inside double
// quotes. It always returns at least one element.
func splitOutsideQuotes(s string, sep rune) []string {
	var (
		parts   []string
		cur     strings.Builder
		inQuote bool
		escaped bool
	)

	for _, c := range s {
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inQuote:
			escaped = true
		case c == '"':
			inQuote = !inQuote
		case c == sep && !inQuote:
			parts = append(parts, cur.String())
			cur.Reset()
			continue
		}
		cur.WriteRune(c)
	}

	return append(parts, cur.String())
}

// New creates a new parameterized header field with the given parameters.
func New(v string, ps map[string]string) *Value {
	if ps == nil {
		ps = map[string]string{}
	}
	return &Value{v, ps}
}

// Value returns the primary value of the Value. This is the value before the
// first semi-colon.
func (pv *Value) Value() string {
	return pv.v
}

// Disposition is a synonym for Value() and returns the Content-disposition,
// either "inline" or "attachment".
func (pv *Value) Disposition() string {
	return pv.v
}

// MediaType is a synonym for Value() and returns the Content-type value, e.g.,
// "text/html", "image/jpeg", "multipart/mixed", etc.
func (pv *Value) MediaType() string {
	return pv.v
}

// Type is only intended for use with the Content-type header. It searches the
// MediaType() for a slash. If found, it will return the string before that
// slash. If no slash is found, it returns an empty string.
//
// For example, if MediaType() returns "image/jpeg", this method will return
// "image".
func (pv *Value) Type() string {
	if ix := strings.IndexRune(pv.v, '/'); ix >= 0 {
		return pv.v[:ix]
	}
	return ""
}

// Subtype is only intended for use with the Content-type header. It searches
// the MediaType() for a slash. If found, it will return the string after that
// slash. If no slash is found, it returns an empty string.
//
// For example, if MediaType() returns "text/html", this method will return
// "html".
func (pv *Value) Subtype() string {
	if ix := strings.IndexRune(pv.v, '/'); ix >= 0 {
		return pv.v[ix+1:]
	}
	return ""
}

// Parameters returns the parameters encoded on this Value as a map. Do not
// modify this map. If you need to modify it, make a copy first.
func (pv *Value) Parameters() map[string]string {
	return pv.ps
}

// Parameter returns the value of the parameter with the given name.
func (pv *Value) Parameter(k string) string {
	return pv.ps[k]
}

// Filename returns the value of the "filename" parameter. It is intended for
// use with the Content-disposition header.
func (pv *Value) Filename() string {
	return pv.ps[Filename]
}

// Name returns the value of the "name" parameter. It is intended for use with
// the Content-type header.
func (pv *Value) Name() string {
	return pv.ps[Name]
}

// Charset returns the value of the "charset" parameter. It is intended for use
// with the Content-type header.
func (pv *Value) Charset() string {
	return pv.ps[Charset]
}

// Boundary returns the value of the "boundary" parameter. It is intended for
// use with the Content-type header.
func (pv *Value) Boundary() string {
	return pv.ps[Boundary]
}

// String returns the serialized value of the Value including the primary value
// and all parameters.
func (pv *Value) String() string {
	pks := make([]string, 0, len(pv.ps))
	for k := range pv.ps {
		pks = append(pks, k)
	}
	sort.Strings(pks)

	parts := make([]string, len(pv.ps)+1)
	parts[0] = pv.v

	for n, k := range pks {
		parts[n+1] = fmt.Sprintf("%s=%s", k, pv.ps[k])
	}

	return strings.Join(parts, "; ")
}

// Clone returns a deep copy of the Value.
func (pv *Value) Clone() *Value {
	var c Value
	c.v = pv.v
	c.ps = make(map[string]string, len(pv.ps))
	for k, v := range pv.ps {
		c.ps[k] = v
	}
	return &c
}
