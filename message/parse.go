package message

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/zostay/go-maildecode/internal/scanner"
	"github.com/zostay/go-maildecode/message/header"
	"github.com/zostay/go-maildecode/message/transfer"
)

// DefaultMaxMultipartDepth is the default depth the parser will recurse into a
// message.
const DefaultMaxMultipartDepth = 32

// ErrRead is returned by Parse when the input cannot be read.
var ErrRead = errors.New("unable to read message")

type parser struct {
	maxDepth int
	logger   *slog.Logger
}

func (pr *parser) clone() *parser {
	p := *pr
	return &p
}

var defaultParser = &parser{
	maxDepth: DefaultMaxMultipartDepth,
}

// ParseOption refers to options that may be passed to the Parse function to
// modify how the parser works.
type ParseOption func(pr *parser)

// WithMaxDepth is a ParseOption that controls how deep the parser will go in
// recursively parsing a multipart message. This is set to
// DefaultMaxMultipartDepth by default. Multipart parts found below this depth
// are returned as *Opaque leaves holding the undivided body.
func WithMaxDepth(maxDepth int) ParseOption {
	return func(pr *parser) { pr.maxDepth = maxDepth }
}

// WithoutMultipart is a ParseOption that will not allow parsing of any
// multipart messages. The message returned from Parse() will always be
// *Opaque.
func WithoutMultipart() ParseOption {
	return func(pr *parser) { pr.maxDepth = 0 }
}

// WithUnlimitedRecursion is a ParseOption that will allow the parser to parse
// sub-parts of any depth.
func WithUnlimitedRecursion() ParseOption {
	return func(pr *parser) { pr.maxDepth = -1 }
}

// WithLogger is a ParseOption that sets the logger used to report the places
// where the parser had to make do with bad input. These are all logged at
// debug level. The default is slog.Default().
func WithLogger(logger *slog.Logger) ParseOption {
	return func(pr *parser) { pr.logger = logger }
}

// Parse will consume all input from the given reader and return a Generic
// message containing the parsed content. The only error it returns is a
// failure to read the input, wrapped in ErrRead.
func Parse(r io.Reader, opts ...ParseOption) (Generic, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}

	return ParseBytes(raw, opts...), nil
}

// ParseBytes parses the raw message. See ParseLines.
func ParseBytes(raw []byte, opts ...ParseOption) Generic {
	return ParseLines(scanner.SplitLines(raw), opts...)
}

// ParseLines builds the part tree from the lines of a message. Parsing always
// succeeds.
//
// The header is parsed from the lines up to the first blank line. If the
// Content-type is multipart/* and has a boundary parameter, the body is split
// on the lines that are exactly "--boundary" (separator) or "--boundary--"
// (terminator), ignoring trailing whitespace. Anything before the first
// separator (the preamble) or after the terminator (the epilogue) is
// discarded. Each segment between is parsed the same way, recursively, and the
// parts are kept in their original order. A multipart without a separator line
// has no parts.
//
// Everything else becomes an *Opaque. The body lines are joined with "\n" and
// the Content-transfer-encoding is decoded leniently. A multipart with no
// boundary parameter also becomes an *Opaque holding the undivided body.
func ParseLines(lines []string, opts ...ParseOption) Generic {
	pr := defaultParser.clone()
	for _, opt := range opts {
		opt(pr)
	}

	if pr.logger == nil {
		pr.logger = slog.Default()
	}

	return pr.parse(lines, 0)
}

// parse implements the Parse methods.
func (pr *parser) parse(lines []string, depth int) Generic {
	h, body, err := header.Parse(lines)
	if err != nil {
		var bsErr *header.BadStartError
		if errors.As(err, &bsErr) {
			pr.logger.Debug("skipped junk before header",
				"depth", depth,
				"lines", len(bsErr.BadStart))
		}
	}

	// the first line of the body is the blank line ending the header
	if len(body) > 0 {
		body = body[1:]
	}

	ct := h.GetContentType()
	if ct.Type() != "multipart" {
		return pr.leaf(h, body)
	}

	// if the boundary is missing, we cannot split it up
	if ct.Boundary() == "" {
		pr.logger.Debug("multipart part has no boundary, keeping it whole",
			"depth", depth,
			"content-type", ct.MediaType())
		m := pr.leaf(h, body)
		m.Degraded = true
		return m
	}

	// we're too deep: stop here and just keep the whole body
	if pr.maxDepth >= 0 && depth >= pr.maxDepth {
		pr.logger.Debug("multipart nested too deeply, keeping it whole",
			"depth", depth,
			"max-depth", pr.maxDepth)
		return pr.leaf(h, body)
	}

	segments := splitParts(body, ct.Boundary())
	parts := make([]Part, 0, len(segments))
	for _, seg := range segments {
		parts = append(parts, pr.parse(seg, depth+1))
	}

	return &Multipart{
		Header: *h,
		parts:  parts,
	}
}

// leaf builds an Opaque from the body lines, decoding the transfer encoding.
func (pr *parser) leaf(h *header.Header, body []string) *Opaque {
	res := transfer.ApplyTransferDecoding(h, []byte(strings.Join(body, "\n")))
	if res.Degraded {
		pr.logger.Debug("transfer encoding could not be fully decoded",
			"content-transfer-encoding", h.GetTransferEncoding(),
			"content-type", h.GetContentType().MediaType())
	}

	return &Opaque{
		Header:   *h,
		Content:  res.Content,
		Degraded: res.Degraded,
	}
}

// splitParts breaks up a multipart body into the line segments found between
// the boundary lines.
func splitParts(body []string, boundary string) [][]string {
	const (
		inPreamble = iota
		inPart
	)

	var (
		segments [][]string
		start    int
	)

	state := inPreamble
	for i, line := range body {
		switch scanner.ClassifyBoundaryLine(line, boundary) {
		case scanner.Separator:
			if state == inPart {
				segments = append(segments, body[start:i])
			}
			state = inPart
			start = i + 1

		case scanner.Terminator:
			if state == inPart {
				segments = append(segments, body[start:i])
			}
			return segments
		}
	}

	// no terminator, so the last part runs to the end
	if state == inPart {
		segments = append(segments, body[start:])
	}

	return segments
}
