// Package transfer decodes the Content-transfer-encoding of a message part.
// Only quoted-printable and base64 actually change the bytes. Other settings
// such as binary, 7bit, or 8bit (or no setting at all, or a setting we have
// never heard of) leave the bytes as-is.
//
// Decoding here never fails. Mail in the wild is frequently broken, so the
// decoders keep whatever could be decoded and report that the result is
// incomplete by setting Result.Degraded.
//
// For the sake of this module, the term "decoded" means that the content has
// been transformed from the named Content-transfer-encoding to the charset
// encoded form.
package transfer
