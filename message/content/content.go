// Package content classifies the leaves of a message tree into the plain text
// body, the HTML body, and attachments.
package content

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/zostay/go-maildecode/attachment"
	"github.com/zostay/go-maildecode/charset"
	"github.com/zostay/go-maildecode/message"
	"github.com/zostay/go-maildecode/message/header"
	"github.com/zostay/go-maildecode/message/walk"
)

// DefaultFilename is the name given to an attachment that does not name
// itself.
const DefaultFilename = "file"

// Media types that become body text rather than attachments.
const (
	TextPlain = "text/plain"
	TextHTML  = "text/html"
)

// Result accumulates what the classifier finds. Text is only ever appended to
// and attachments are kept in the order they were found.
type Result struct {
	// Plain is the text/plain body. Each inline text/plain part is converted
	// to UTF-8 and added followed by a line break.
	Plain strings.Builder

	// HTML is the text/html body, built the same way as Plain.
	HTML strings.Builder

	// Attachments are the attachments kept by the sink.
	Attachments []attachment.Attachment

	// InlineRoot is set when the message itself is a single inline part that
	// is neither text/plain nor text/html. Such a message has no body text.
	InlineRoot bool

	// Degraded is set when any part could not be decoded without loss.
	Degraded bool
}

// Classifier walks a message tree, feeding the parts into a Result.
type Classifier struct {
	// Policy decides which attachments are kept. If nil,
	// attachment.DefaultPolicy() is used.
	Policy *attachment.Policy

	// Sink receives the attachments that are kept. If nil,
	// attachment.MemorySink is used.
	Sink attachment.Sink

	// Logger receives debug messages about dropped or degraded content. If
	// nil, slog.Default() is used.
	Logger *slog.Logger
}

func (c *Classifier) init() {
	if c.Policy == nil {
		c.Policy = attachment.DefaultPolicy()
	}
	if c.Sink == nil {
		c.Sink = attachment.MemorySink{}
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Filename returns the name of the attachment in the part: the name parameter
// of the Content-type, or its filename parameter, or the filename parameter of
// the Content-disposition, or DefaultFilename. Encoded words are decoded.
func Filename(h *header.Header) string {
	ct := h.GetContentType()
	for _, fn := range []string{ct.Name(), ct.Filename()} {
		if fn != "" {
			return header.DecodeWords(fn)
		}
	}

	if cd := h.GetContentDisposition(); cd != nil && cd.Filename() != "" {
		return header.DecodeWords(cd.Filename())
	}

	return DefaultFilename
}

// Classify walks the message depth-first and left-to-right and adds each leaf
// to the given result, which is then returned.
//
// Inline (or undisposed) text/plain and text/html leaves are converted to
// UTF-8 and appended to the matching body. Every other leaf is an attachment
// candidate. A candidate whose type the Policy allows is handed to the Sink.
// Candidates that are not allowed and attachments the Sink fails to keep are
// dropped with a debug log message. Classification itself never fails.
func (c *Classifier) Classify(res *Result, msg message.Part) *Result {
	c.init()
	if res == nil {
		res = &Result{}
	}

	if !msg.IsMultipart() && isInlineRoot(msg.GetHeader()) {
		res.InlineRoot = true
		c.attach(res, msg)
		return res
	}

	_ = walk.AndProcessOpaque(
		func(part message.Part, _ []message.Part) error {
			c.leaf(res, part)
			return nil
		}, msg)

	return res
}

// isInlineRoot checks for a top-level part declared inline that is not body
// text.
func isInlineRoot(h *header.Header) bool {
	if h.GetPresentation() != "inline" {
		return false
	}

	mt := h.GetContentType().MediaType()
	return mt != TextPlain && mt != TextHTML
}

// leaf classifies a single leaf.
func (c *Classifier) leaf(res *Result, part message.Part) {
	h := part.GetHeader()

	mt := h.GetContentType().MediaType()
	disp := h.GetPresentation()

	if disp == "" || disp == "inline" {
		switch mt {
		case TextPlain:
			c.text(res, &res.Plain, part)
			return
		case TextHTML:
			c.text(res, &res.HTML, part)
			return
		}
	}

	c.attach(res, part)
}

// text converts the content of the part to UTF-8 and adds it to the body.
func (c *Classifier) text(res *Result, body *strings.Builder, part message.Part) {
	h := part.GetHeader()
	cs := h.GetContentType().Charset()

	conv := charset.Normalize(part.GetContent(), cs)
	if conv.Degraded || isDegraded(part) {
		c.Logger.Debug("text part decoded with loss",
			"content-type", h.GetContentType().MediaType(),
			"charset", cs,
			"content-transfer-encoding", h.GetTransferEncoding())
		res.Degraded = true
	}

	body.WriteString(conv.Text)
	body.WriteString("\n")
}

// attach hands an attachment candidate to the sink, if the policy allows.
func (c *Classifier) attach(res *Result, part message.Part) {
	h := part.GetHeader()
	mt := h.GetContentType().MediaType()
	fn := Filename(h)

	if !c.Policy.Allows(mt) {
		c.Logger.Debug("attachment type not allowed, dropping it",
			"filename", fn,
			"content-type", mt)
		return
	}

	if isDegraded(part) {
		res.Degraded = true
	}

	c.Save(res, fn, mt, part.GetContent())
}

// Save hands content to the sink and records the attachment in the result.
// It does not consult the policy. A sink failure is logged and the attachment
// is left out.
func (c *Classifier) Save(res *Result, name, mimeType string, content []byte) {
	c.init()

	a, err := c.Sink.Save(name, mimeType, content)
	if err != nil || a == nil {
		lvl := slog.LevelDebug
		if err != nil && !errors.Is(err, attachment.ErrNoUniqueName) {
			lvl = slog.LevelWarn
		}
		c.Logger.Log(context.Background(), lvl, "attachment could not be kept",
			"filename", name,
			"content-type", mimeType,
			"error", err)
		return
	}

	res.Attachments = append(res.Attachments, *a)
}

func isDegraded(part message.Part) bool {
	op, isOpaque := part.(*message.Opaque)
	return isOpaque && op.Degraded
}
