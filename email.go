package email

import (
	"errors"
	"fmt"
	"io"

	"github.com/zostay/go-maildecode/internal/scanner"
	"github.com/zostay/go-maildecode/message"
	"github.com/zostay/go-maildecode/message/header"
	"github.com/zostay/go-maildecode/message/textbody"
	"github.com/zostay/go-maildecode/message/uuencode"
)

// ErrRead is returned by ReadMessage when the input cannot be read.
var ErrRead = message.ErrRead

// Message is a raw email message split into its header and body lines. It is
// never modified after it is created.
type Message struct {
	raw      []byte
	lines    []string
	header   *header.Header
	body     []string
	badStart []string
}

// Parse splits the raw message into header and body. It never fails. Junk
// found before the first header field is skipped and can be retrieved with
// BadStart.
func Parse(raw []byte) *Message {
	lines := scanner.SplitLines(raw)

	h, body, err := header.Parse(lines)

	m := &Message{
		raw:    raw,
		lines:  lines,
		header: h,
		body:   body,
	}

	var bsErr *header.BadStartError
	if errors.As(err, &bsErr) {
		m.badStart = bsErr.BadStart
	}

	return m
}

// ReadMessage reads the whole message from the reader and then calls Parse.
func ReadMessage(r io.Reader) (*Message, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}

	return Parse(raw), nil
}

// Raw returns the original bytes of the message.
func (m *Message) Raw() []byte {
	return m.raw
}

// BadStart returns the lines skipped at the start of the message because they
// did not look like header fields. Usually this is nil.
func (m *Message) BadStart() []string {
	return m.badStart
}

// GetHeader returns the header of the message.
func (m *Message) GetHeader() *header.Header {
	return m.header
}

// Header returns the value of the named header field, matched
// case-insensitively. If the field is repeated, the first value is returned.
// A missing field results in an empty string. Use GetHeader().GetAll() to get
// every value.
func (m *Message) Header(name string) string {
	return m.header.Get(name)
}

// BodyLines returns the raw lines of the body, starting with the blank line
// that ends the header. It returns nil if the message has no body.
func (m *Message) BodyLines() []string {
	return m.body
}

// Tree parses the message into a tree of parts.
func (m *Message) Tree(opts ...message.ParseOption) message.Generic {
	return message.ParseLines(m.lines, opts...)
}

// extract finds a body by scanning the raw lines and removes any uuencoded
// files from it.
func (m *Message) extract(kind textbody.Kind) textbody.Result {
	res := textbody.Extract(m.header, m.body, scanner.ExtractBoundaries(m.raw), kind)
	res.Text = uuencode.Strip(res.Text)
	return res
}

// Plain returns the plain text body of the message, found by scanning the raw
// lines for the first text/plain part. If there is none, the whole body is
// used. The text is converted to UTF-8 and any uuencoded files are removed.
//
// This differs from the Plain field of Decode, which includes every inline
// text/plain part of the message, each followed by a line break.
func (m *Message) Plain() string {
	return m.extract(textbody.Plain).Text
}

// HTML returns the HTML body of the message, found by scanning the raw lines
// for the first text/html part and ending it after the first </html>. If there
// is none, the whole body is used.
func (m *Message) HTML() string {
	return m.extract(textbody.HTML).Text
}

// PlainResult is just like Plain, but it returns the textbody.Result so the
// caller can see whether the text was found and whether it is degraded.
func (m *Message) PlainResult() textbody.Result {
	return m.extract(textbody.Plain)
}

// HTMLResult is just like HTML, but it returns the textbody.Result.
func (m *Message) HTMLResult() textbody.Result {
	return m.extract(textbody.HTML)
}
