package email

import (
	"encoding/json"
	"log/slog"

	"github.com/zostay/go-maildecode/attachment"
	"github.com/zostay/go-maildecode/message"
	"github.com/zostay/go-maildecode/message/content"
	"github.com/zostay/go-maildecode/message/uuencode"
)

// Decoded is the result of decoding a message.
type Decoded struct {
	// Plain is every inline text/plain part, converted to UTF-8, each followed
	// by a line break. Uuencoded files are removed from it.
	Plain string

	// HTML is every inline text/html part, converted to UTF-8, each followed
	// by a line break.
	HTML string

	// Attachments are the attachments that were kept, in the order they were
	// found. Uuencoded files found in Plain come last.
	Attachments []attachment.Attachment

	// Degraded is true if anything had to be decoded with loss.
	Degraded bool
}

// AttachmentsJSON returns the attachments as a JSON array.
func (d *Decoded) AttachmentsJSON() ([]byte, error) {
	return attachment.MarshalJSON(d.Attachments)
}

// MarshalJSON encodes the result as an object with the fields plain, html,
// attachments, and degraded. The attachments are always an array.
func (d *Decoded) MarshalJSON() ([]byte, error) {
	as, err := d.AttachmentsJSON()
	if err != nil {
		return nil, err
	}

	return json.Marshal(struct {
		Plain       string          `json:"plain"`
		HTML        string          `json:"html"`
		Attachments json.RawMessage `json:"attachments"`
		Degraded    bool            `json:"degraded"`
	}{d.Plain, d.HTML, as, d.Degraded})
}

type decoder struct {
	logger   *slog.Logger
	policy   *attachment.Policy
	sink     attachment.Sink
	storage  string
	maxDepth int
}

// Option changes how Decode works.
type Option func(*decoder)

// WithLogger sets the logger that receives the debug messages describing what
// was dropped or degraded. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(d *decoder) { d.logger = logger }
}

// WithPolicy sets the policy deciding which attachments are kept. The default
// is attachment.DefaultPolicy().
func WithPolicy(p *attachment.Policy) Option {
	return func(d *decoder) { d.policy = p }
}

// WithSink sets the sink receiving attachments. The default keeps them in
// memory.
func WithSink(s attachment.Sink) Option {
	return func(d *decoder) {
		d.sink = s
		d.storage = ""
	}
}

// WithStorage saves attachments as files in the given directory using an
// attachment.StorageSink. The directory is created if needed.
func WithStorage(dir string) Option {
	return func(d *decoder) {
		d.storage = dir
		d.sink = nil
	}
}

// WithMaxDepth limits how deeply nested multipart parts are split up. The
// default is message.DefaultMaxMultipartDepth.
func WithMaxDepth(n int) Option {
	return func(d *decoder) { d.maxDepth = n }
}

// Decode parses the message into a tree of parts and classifies them.
//
// Every inline text/plain and text/html part is converted to UTF-8 and added
// to the matching body. Every other part is an attachment, which is kept only
// if the policy allows its type. If the message itself is a single inline
// part that is not text, it is treated as an attachment and the message has no
// plain body.
//
// Afterwards, any uuencoded files in the plain body are decoded and removed
// from it. Every one of those files is kept, whatever its type. The type is
// guessed from the file name and is only a label.
//
// Decode does not fail at present. When the directory given to WithStorage
// cannot be created, attachments are kept in memory instead and the result
// is marked degraded. Attachments that cannot be saved are left out.
func (m *Message) Decode(opts ...Option) (*Decoded, error) {
	d := &decoder{
		maxDepth: message.DefaultMaxMultipartDepth,
	}
	for _, opt := range opts {
		opt(d)
	}

	if d.logger == nil {
		d.logger = slog.Default()
	}
	if d.policy == nil {
		d.policy = attachment.DefaultPolicy()
	}

	storageFailed := false
	if d.storage != "" {
		s, err := attachment.NewStorageSink(d.storage, d.logger)
		if err != nil {
			d.logger.Warn("unable to use attachment directory, keeping attachments in memory",
				"dir", d.storage,
				"error", err)
			d.sink = attachment.MemorySink{}
			storageFailed = true
		} else {
			d.sink = s
		}
	}

	tree := m.Tree(
		message.WithMaxDepth(d.maxDepth),
		message.WithLogger(d.logger),
	)

	c := &content.Classifier{
		Policy: d.policy,
		Sink:   d.sink,
		Logger: d.logger,
	}

	res := c.Classify(nil, tree)

	plain := res.Plain.String()
	if !res.InlineRoot && uuencode.Has(plain) {
		// the block is gone from the body, so the file is kept regardless
		// of policy
		for _, f := range uuencode.Scan(plain) {
			c.Save(res, f.Name, f.MimeType, f.Data)
		}
		plain = uuencode.Strip(plain)
	}

	return &Decoded{
		Plain:       plain,
		HTML:        res.HTML.String(),
		Attachments: res.Attachments,
		Degraded:    res.Degraded || storageFailed,
	}, nil
}

// Attachments decodes the message and returns only the attachments, which are
// kept in memory unless another sink is chosen with the options.
func (m *Message) Attachments(opts ...Option) ([]attachment.Attachment, error) {
	d, err := m.Decode(opts...)
	if err != nil {
		return nil, err
	}
	return d.Attachments, nil
}

// AttachmentsJSON decodes the message and returns the attachments as a JSON
// array.
func (m *Message) AttachmentsJSON(opts ...Option) ([]byte, error) {
	as, err := m.Attachments(opts...)
	if err != nil {
		return nil, err
	}
	return attachment.MarshalJSON(as)
}
