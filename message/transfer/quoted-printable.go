package transfer

import (
	"bytes"
	"io"
	"mime/quotedprintable"
)

// NewQuotedPrintableDecoder will read bytes from the given io.Reader and return
// them in the returned io.Reader after decoding them from quoted-printable
// format.
func NewQuotedPrintableDecoder(r io.Reader) io.Reader {
	return quotedprintable.NewReader(r)
}

// DecodeQuotedPrintable decodes quoted-printable content. On a malformed
// escape, whatever was decoded before it is kept and the result is marked
// degraded.
func DecodeQuotedPrintable(content []byte) Result {
	out, err := io.ReadAll(NewQuotedPrintableDecoder(bytes.NewReader(content)))
	return Result{
		Content:  out,
		Degraded: err != nil,
	}
}
