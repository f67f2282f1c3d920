package attachment

import (
	"encoding/json"
	"errors"
)

// Errors returned by sinks.
var (
	// ErrNoUniqueName is returned by StorageSink.Save when no unused, lockable
	// file name could be found within MaxAttempts tries.
	ErrNoUniqueName = errors.New("unable to find a unique attachment file name")

	// ErrWrite is returned by StorageSink.Save when the content could not be
	// written to the file that was created for it.
	ErrWrite = errors.New("unable to write attachment")
)

// Attachment describes an attachment that has been kept. Exactly one of Path or
// Content is set, depending on whether it was kept by a StorageSink or by a
// MemorySink.
type Attachment struct {
	// Name is the file name given by the message, or "file" if it gave none.
	Name string `json:"name"`

	// MimeType is the declared MIME type of the attachment.
	MimeType string `json:"type"`

	// Size is the length of the decoded content in bytes.
	Size int64 `json:"size"`

	// HumanSize is Size formatted by FormatBytes.
	HumanSize string `json:"human_size,omitempty"`

	// Path is where the content was saved.
	Path string `json:"path,omitempty"`

	// Content is the decoded content. It is serialized as base64 in JSON.
	Content []byte `json:"content,omitempty"`
}

// Sink receives attachments as they are found.
type Sink interface {
	// Save keeps the content of an attachment and returns a description of
	// it. On error, the attachment is not kept.
	Save(name, mimeType string, content []byte) (*Attachment, error)
}

// MarshalJSON serializes a list of attachments as a JSON array. A nil list is
// written as an empty array.
func MarshalJSON(as []Attachment) ([]byte, error) {
	if as == nil {
		as = []Attachment{}
	}
	return json.Marshal(as)
}
