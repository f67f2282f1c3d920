package header

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/zostay/go-addr/pkg/addr"

	"github.com/zostay/go-maildecode/message/header/param"
)

// ErrHeaderNotFound is returned by the accessors of required header fields
// when the field is not present at all. It is wrapped with the field name.
var ErrHeaderNotFound = errors.New("header not found")

// These are standard field names, lowercased as they are stored.
const (
	Bcc                     = "bcc"
	Cc                      = "cc"
	ContentDisposition      = "content-disposition"
	ContentTransferEncoding = "content-transfer-encoding"
	ContentType             = "content-type"
	Date                    = "date"
	From                    = "from"
	MessageID               = "message-id"
	Subject                 = "subject"
	To                      = "to"
)

// DefaultContentType is the Content-type assumed for a message or part that
// does not declare one.
const DefaultContentType = "text/plain"

// DefaultCharset is the charset assumed along with DefaultContentType.
const DefaultCharset = "us-ascii"

// Even more custom date formats, built from those seen in the wild that the
// usual parsers have trouble with.
const (
	// UnixDateWithEarlyYear is a weird one, eh?
	UnixDateWithEarlyYear = "Mon Jan 02 15:04:05 2006 MST"
)

// Header is the header table of a message or message part. The zero value is
// an empty header, ready to use.
type Header struct {
	names  []string
	fields map[string][]string
}

// Add appends a value for the named field. The name is lowercased.
func (h *Header) Add(name, value string) {
	n := strings.ToLower(name)
	if h.fields == nil {
		h.fields = make(map[string][]string)
	}

	if _, seen := h.fields[n]; !seen {
		h.names = append(h.names, n)
	}

	h.fields[n] = append(h.fields[n], value)
}

// appendToLast glues a continuation line onto the last value of the named
// field.
func (h *Header) appendToLast(name, cont string) {
	vs := h.fields[name]
	if len(vs) == 0 {
		return
	}
	vs[len(vs)-1] += cont
}

// Len returns the number of distinct field names in the header.
func (h *Header) Len() int {
	return len(h.names)
}

// Names returns the lowercased field names in the order each first appeared.
func (h *Header) Names() []string {
	ns := make([]string, len(h.names))
	copy(ns, h.names)
	return ns
}

// Has returns true if at least one field with the given name is present.
func (h *Header) Has(name string) bool {
	_, found := h.fields[strings.ToLower(name)]
	return found
}

// Get returns the value of the named field, which is matched
// case-insensitively. If the field was repeated, the first value is returned.
// A missing field results in an empty string.
func (h *Header) Get(name string) string {
	vs := h.fields[strings.ToLower(name)]
	if len(vs) == 0 {
		return ""
	}
	return vs[0]
}

// GetAll returns every value of the named field in the order they appeared.
// It returns nil if the field is not present.
func (h *Header) GetAll(name string) []string {
	vs := h.fields[strings.ToLower(name)]
	if len(vs) == 0 {
		return nil
	}
	out := make([]string, len(vs))
	copy(out, vs)
	return out
}

// getRequired returns the encoded-word decoded value of a field that the
// caller cannot do without.
func (h *Header) getRequired(name string) (string, error) {
	if !h.Has(name) {
		return "", fmt.Errorf("%w: %s", ErrHeaderNotFound, name)
	}
	return DecodeWords(h.Get(name)), nil
}

// GetSubject returns the Subject with any RFC 2047 encoded words decoded to
// UTF-8. It returns ErrHeaderNotFound if there is no Subject.
func (h *Header) GetSubject() (string, error) {
	return h.getRequired(Subject)
}

// GetFrom returns the From field with any RFC 2047 encoded words decoded to
// UTF-8. It returns ErrHeaderNotFound if there is no From.
func (h *Header) GetFrom() (string, error) {
	return h.getRequired(From)
}

// GetTo returns the To field with any RFC 2047 encoded words decoded to UTF-8.
// It returns ErrHeaderNotFound if there is no To.
func (h *Header) GetTo() (string, error) {
	return h.getRequired(To)
}

// GetFromName returns the display name part of the From field.
func (h *Header) GetFromName() (string, error) {
	v, err := h.GetFrom()
	if err != nil {
		return "", err
	}
	name, _ := SplitAddress(v)
	return name, nil
}

// GetFromEmail returns the email address part of the From field.
func (h *Header) GetFromEmail() (string, error) {
	v, err := h.GetFrom()
	if err != nil {
		return "", err
	}
	_, email := SplitAddress(v)
	return email, nil
}

// GetToName returns the display name part of the To field.
func (h *Header) GetToName() (string, error) {
	v, err := h.GetTo()
	if err != nil {
		return "", err
	}
	name, _ := SplitAddress(v)
	return name, nil
}

// GetToEmail returns the email address part of the To field.
func (h *Header) GetToEmail() (string, error) {
	v, err := h.GetTo()
	if err != nil {
		return "", err
	}
	_, email := SplitAddress(v)
	return email, nil
}

// SplitAddress breaks a value like `Display Name <user@example.com>` into the
// display name and the email address.
//
// If the value, with any angle brackets removed, is a valid address all by
// itself (and contains no whitespace or quotes), the name is empty and the email is that address. Otherwise, the
// name is everything before the "<" (trimmed, with surrounding quotes removed)
// and the email is everything between "<" and ">". When there is no "<" at
// all, the whole value is treated as the name.
func SplitAddress(v string) (name, email string) {
	v = strings.TrimSpace(v)

	possible := strings.TrimSpace(strings.NewReplacer("<", "", ">", "").Replace(v))
	if possible != "" && !strings.ContainsAny(possible, " \t\"") {
		if _, err := addr.ParseEmailAddrSpec(possible); err == nil {
			return "", possible
		}
	}

	lt := strings.IndexByte(v, '<')
	if lt < 0 {
		return param.Unquote(v), ""
	}

	name = param.Unquote(v[:lt])
	rest := v[lt+1:]
	if gt := strings.IndexByte(rest, '>'); gt >= 0 {
		rest = rest[:gt]
	}

	return name, strings.TrimSpace(rest)
}

// splitList returns the comma-separated entries of the named field, trimmed
// and with empty entries dropped. It returns nil when the field is missing.
func (h *Header) splitList(name string) []string {
	if !h.Has(name) {
		return nil
	}

	var out []string
	for _, v := range h.GetAll(name) {
		for _, a := range strings.Split(DecodeWords(v), ",") {
			if a = strings.TrimSpace(a); a != "" {
				out = append(out, a)
			}
		}
	}

	return out
}

// GetCc returns the entries of the Cc field, or nil if there is none.
func (h *Header) GetCc() []string {
	return h.splitList(Cc)
}

// GetBcc returns the entries of the Bcc field, or nil if there is none.
func (h *Header) GetBcc() []string {
	return h.splitList(Bcc)
}

// ParseTime is a function that provides the time parsing used by GetTime() to
// parse dates. This will attempt to parse the date using the format specified
// by RFC 5322 first and fallback to parsing it in many other formats.
//
// It either returns a parsed time or the parse error.
func ParseTime(body string) (time.Time, error) {
	t, err := mail.ParseDate(body)
	if err == nil {
		return t, nil
	}

	t, err = dateparse.ParseAny(body)
	if err == nil {
		return t, nil
	}

	t, err = time.Parse(UnixDateWithEarlyYear, body)
	if err == nil {
		return t, nil
	}

	return t, fmt.Errorf("time string %q cannot be parsed", body)
}

// GetDate returns the raw value of the Date field or an empty string if there
// is none. Use GetTime to parse it.
func (h *Header) GetDate() string {
	return h.Get(Date)
}

// GetTime parses the Date field as a time.Time. It returns ErrHeaderNotFound
// if there is no Date field or an error if it cannot be parsed in any of the
// formats ParseTime knows.
func (h *Header) GetTime() (time.Time, error) {
	if !h.Has(Date) {
		return time.Time{}, fmt.Errorf("%w: %s", ErrHeaderNotFound, Date)
	}
	return ParseTime(h.Get(Date))
}

// GetContentType returns the Content-type field as a param.Value. This never
// fails. A missing or empty field results in text/plain with a charset of
// us-ascii. Sloppy parameter syntax is tolerated.
func (h *Header) GetContentType() *param.Value {
	v := h.Get(ContentType)
	if strings.TrimSpace(v) == "" {
		return param.New(DefaultContentType, map[string]string{
			param.Charset: DefaultCharset,
		})
	}

	pv := param.ParseLenient(v)
	if pv.MediaType() == "" {
		return param.New(DefaultContentType, pv.Parameters())
	}

	return pv
}

// GetContentDisposition returns the Content-disposition field as a
// param.Value, or nil if the field is not present.
func (h *Header) GetContentDisposition() *param.Value {
	v := h.Get(ContentDisposition)
	if strings.TrimSpace(v) == "" {
		return nil
	}
	return param.ParseLenient(v)
}

// GetPresentation returns the disposition value of the Content-disposition
// field, lowercased ("inline" or "attachment", usually), or an empty string if
// there is no such field.
func (h *Header) GetPresentation() string {
	if cd := h.GetContentDisposition(); cd != nil {
		return cd.Disposition()
	}
	return ""
}

// GetTransferEncoding returns the Content-transfer-encoding, lowercased and
// trimmed, or an empty string if there is no such field.
func (h *Header) GetTransferEncoding() string {
	return strings.ToLower(strings.TrimSpace(h.Get(ContentTransferEncoding)))
}
