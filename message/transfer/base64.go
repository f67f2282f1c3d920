package transfer

import (
	"bytes"
	"encoding/base64"
	"unicode"
)

// DecodeBase64 decodes base64 content, ignoring any whitespace (including the
// line breaks that always appear in mail). Padding is optional. If a byte is
// found that cannot be decoded, everything decoded up to that point is kept,
// the rest is discarded, and the result is marked degraded.
func DecodeBase64(content []byte) Result {
	clean := bytes.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, content)
	clean = bytes.TrimRight(clean, "=")

	out := make([]byte, base64.RawStdEncoding.DecodedLen(len(clean)))
	n, err := base64.RawStdEncoding.Decode(out, clean)
	return Result{
		Content:  out[:n],
		Degraded: err != nil,
	}
}
