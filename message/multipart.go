package message

import (
	"github.com/zostay/go-maildecode/message/header"
)

// Part is an interface define the parts of a Multipart. Each Part is
// either a branch or a leaf.
//
// A branch Part is one that has sub-parts. In this case, the IsMultipart()
// method will return true. The GetParts() method is available, but
// GetContent() always returns nil.
//
// A leaf Part is one that contains content. In this case, the IsMultipart()
// method will return false. The GetParts() method returns nil on a leaf Part
// and the GetContent() method will return the content of the part.
//
// It should be noted that it is possible for a Part to contain content that
// is a multipart MIME message when IsMultipart() returns false. This happens
// when the boundary is missing or the parser has reached its maximum depth.
type Part interface {
	// IsMultipart will return true if this Part is a branch with nested
	// parts.
	IsMultipart() bool

	// GetHeader is available on all Part objects.
	GetHeader() *header.Header

	// GetContent provides the decoded content of a leaf. It returns nil if
	// IsMultipart() returns true.
	GetContent() []byte

	// GetParts provides the sub-parts of a branch. It returns nil if
	// IsMultipart() returns false.
	GetParts() []Part
}

// Generic is just an alias for Part, which is intended to convey
// additional semantics:
//
// 1. The message returned is not necessarily a sub-part of a message.
//
// 2. The returned message is guaranteed to either be a *Opaque or a
// *Multipart. Therefore, it is safe to use this in a type-switch
// and only look for either of those two objects.
type Generic = Part

// Multipart is a multipart MIME message. The MIME type set in the Content-type
// header always starts with multipart/*.
type Multipart struct {
	// Header is the header for the message.
	header.Header

	// parts holds this layer's parts
	parts []Part
}

// NewMultipart returns a Multipart with the given header and sub-parts.
func NewMultipart(h *header.Header, parts ...Part) *Multipart {
	return &Multipart{
		Header: *h,
		parts:  parts,
	}
}

// IsMultipart always returns true.
func (mm *Multipart) IsMultipart() bool {
	return true
}

// GetHeader returns the header for the message.
func (mm *Multipart) GetHeader() *header.Header {
	return &mm.Header
}

// GetContent always returns nil.
func (mm *Multipart) GetContent() []byte {
	return nil
}

// GetParts returns the sub-parts of this message or nil if there aren't any.
func (mm *Multipart) GetParts() []Part {
	return mm.parts
}
