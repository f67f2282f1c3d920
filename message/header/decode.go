package header

import (
	"mime"
	"strings"

	"github.com/zostay/go-maildecode/charset"
)

var wordDecoder = &mime.WordDecoder{
	CharsetReader: charset.NewReader,
}

// DecodeWords looks for RFC 2047 encoded words in a field value and decodes
// them into UTF-8. If decoding fails, the original value is returned
// unchanged.
func DecodeWords(body string) string {
	if !strings.Contains(body, "=?") {
		return body
	}

	dec, err := wordDecoder.DecodeHeader(body)
	if err != nil {
		return body
	}

	return dec
}
