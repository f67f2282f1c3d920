package transfer

import "io"

// NewAsIsDecoder returns an io.Reader that reads bytes as-is.
func NewAsIsDecoder(r io.Reader) io.Reader {
	return r
}

// DecodeAsIs returns the content unchanged.
func DecodeAsIs(content []byte) Result {
	return Result{Content: content}
}
