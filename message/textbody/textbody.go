// Package textbody pulls the plain text or HTML body out of a message by
// scanning its raw lines, without building a part tree. This works on messages
// too broken for the tree to make sense of, and it is cheap, but it only ever
// finds the first body of the requested type.
package textbody

import (
	"regexp"
	"strings"

	"github.com/zostay/go-maildecode/charset"
	"github.com/zostay/go-maildecode/internal/scanner"
	"github.com/zostay/go-maildecode/message/header"
	"github.com/zostay/go-maildecode/message/transfer"
)

// Kind selects which body to extract.
type Kind int

// The kinds of body that can be extracted.
const (
	Plain Kind = iota // text/plain
	HTML              // text/html
)

var (
	plainStart = regexp.MustCompile(`(?i)^Content-Type: ?text/plain`)
	htmlStart  = regexp.MustCompile(`(?i)^Content-Type: ?text/html`)
	charsetRe  = regexp.MustCompile(`(?i)charset=(.*)`)
	cteRe      = regexp.MustCompile(`(?i)^Content-Transfer-Encoding: ?(.*)`)
	htmlEnd    = regexp.MustCompile(`(?i)</html>`)
)

// Result holds the extracted body.
type Result struct {
	// Text is the body, decoded into UTF-8.
	Text string

	// Found is true when a Content-Type line for the requested kind was found
	// in the body. When it is false, Text holds the whole body.
	Found bool

	// Degraded is true when the transfer encoding or charset could not be
	// decoded without loss.
	Degraded bool
}

// scanner states
const (
	seekingContentType = iota
	awaitingContentStart
	collectingContent
)

// Extract finds the body of the requested kind in the raw body lines of a
// message. The body lines are expected to start with the blank line that ends
// the header, as returned by header.Parse. The boundaries are every multipart
// boundary in the message, as returned by scanner.ExtractBoundaries.
//
// The lines are scanned for the first Content-Type line of the requested kind.
// Any charset= seen on the way (or between that line and the next blank line)
// is remembered, as is the first Content-Transfer-Encoding after it. The
// content is then every line up to the next boundary line or the end of input.
//
// If no such Content-Type line is found, the whole body is used, and the
// charset and transfer encoding come from the top-level header h.
//
// Trailing line breaks are removed before the content is transfer decoded and
// converted to UTF-8. The HTML kind is cut off after the first </html>.
func Extract(h *header.Header, body []string, boundaries []string, kind Kind) Result {
	start := plainStart
	if kind == HTML {
		start = htmlStart
	}

	var (
		declared   string
		cte        string
		cteFound   bool
		content    []string
		state      = seekingContentType
		detected   bool
		charsetSet bool
	)

	captureCharset := func(line string) {
		if m := charsetRe.FindStringSubmatch(line); m != nil {
			declared = m[1]
			charsetSet = true
		}
	}

Lines:
	for _, line := range body {
		switch state {
		case seekingContentType:
			if start.MatchString(line) {
				detected = true
				state = awaitingContentStart
			}
			captureCharset(line)

		case awaitingContentStart:
			captureCharset(line)
			if m := cteRe.FindStringSubmatch(line); !cteFound && m != nil {
				cte = m[1]
				cteFound = true
			}
			if scanner.IsBlank(line) {
				state = collectingContent
			}

		case collectingContent:
			if scanner.ClassifyAnyBoundaryLine(line, boundaries) != scanner.Content {
				break Lines
			}
			content = append(content, line)
		}
	}

	if !detected {
		content = body
		if len(content) > 0 && scanner.IsBlank(content[0]) {
			content = content[1:]
		}

		if !charsetSet {
			declared = h.GetContentType().Charset()
		}
		if !cteFound {
			cte = h.GetTransferEncoding()
		}
	}

	text := strings.TrimRight(strings.Join(content, "\n"), "\r\n")

	tres := transfer.Decode(strings.ToLower(strings.TrimSpace(cte)), []byte(text))
	cres := charset.Normalize(tres.Content, declared)

	out := cres.Text
	if kind == HTML {
		if loc := htmlEnd.FindStringIndex(out); loc != nil {
			out = out[:loc[1]]
		}
	}

	return Result{
		Text:     out,
		Found:    detected,
		Degraded: tres.Degraded || cres.Degraded,
	}
}

// FromBytes parses the header of the raw message and then calls Extract with
// the boundaries found anywhere in the message.
func FromBytes(raw []byte, kind Kind) Result {
	h, body, _ := header.ParseBytes(raw)
	return Extract(h, body, scanner.ExtractBoundaries(raw), kind)
}
