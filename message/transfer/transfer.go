package transfer

import (
	"github.com/zostay/go-maildecode/message/header"
)

const (
	None            = ""                 // bytes will be left as-is
	Bit7            = "7bit"             // bytes will be left as-is
	Bit8            = "8bit"             // bytes will be left as-is
	Binary          = "binary"           // bytes will be left as-is
	QuotedPrintable = "quoted-printable" // bytes will be transformed from quoted-printable to binary data
	Base64          = "base64"           // bytes will be transformed from base64 to binary data
)

// Result is the outcome of a transfer decoding.
type Result struct {
	// Content is the decoded content.
	Content []byte

	// Degraded is set when some of the input could not be decoded and was
	// discarded.
	Degraded bool
}

// Decoder turns transfer encoded bytes back into binary data.
type Decoder func([]byte) Result

// Decoders defines the supported Content-transfer-encodings and how to decode
// them. It can be modified to change the global handling of transfer
// encodings. Keys are lowercase.
var Decoders = map[string]Decoder{
	None:            DecodeAsIs,
	Bit7:            DecodeAsIs,
	Bit8:            DecodeAsIs,
	Binary:          DecodeAsIs,
	QuotedPrintable: DecodeQuotedPrintable,
	Base64:          DecodeBase64,
}

// Decode decodes the content according to the named transfer encoding, which
// is expected to be lowercase already. Unknown encodings leave the content
// unchanged.
func Decode(cte string, content []byte) Result {
	if dec, hasCode := Decoders[cte]; hasCode {
		return dec(content)
	}
	return DecodeAsIs(content)
}

// ApplyTransferDecoding is a helper that will check the given header to see
// if transfer decoding ought to be performed and then performs it.
func ApplyTransferDecoding(h *header.Header, content []byte) Result {
	// check to see if the content-type is permitted to have
	// content-transfer-encoding, it's allowed if:
	// |-> Content-type is missing
	// |-> Content-type is not a "multipart/*" type
	if ct := h.GetContentType(); ct.Type() == "multipart" {
		return DecodeAsIs(content)
	}

	return Decode(h.GetTransferEncoding(), content)
}
