package message

import (
	"github.com/zostay/go-maildecode/message/header"
)

// Opaque is a leaf in the message tree. It is simply a header and a message
// body, very similar to the net/mail message implementation.
type Opaque struct {
	// Header will contain the header of the part. A top-level message must
	// have several headers to be correct. A message part should have one or
	// more headers as well, but it is not unusual to find none.
	header.Header

	// Content is the body of the part with any Content-transfer-encoding
	// decoded. The charset has not been touched.
	Content []byte

	// Degraded is set when the Content-transfer-encoding could not be decoded
	// completely and some of the original content was dropped. It is also set
	// when a multipart part had to be treated as a leaf because it had no
	// boundary.
	Degraded bool
}

// IsMultipart always returns false.
func (m *Opaque) IsMultipart() bool {
	return false
}

// GetHeader returns the header for the message.
func (m *Opaque) GetHeader() *header.Header {
	return &m.Header
}

// GetContent returns the decoded content of the part.
func (m *Opaque) GetContent() []byte {
	return m.Content
}

// GetParts always returns nil.
func (m *Opaque) GetParts() []Part {
	return nil
}
