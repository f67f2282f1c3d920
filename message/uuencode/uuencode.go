// Package uuencode finds and decodes uuencoded files embedded in message text,
// which is how attachments were sent before MIME and is still seen now and
// then.
//
// A block looks like this:
//
//	begin 644 hello.txt
//	%:&5L;&\`
//	`
//	end
package uuencode

import (
	"mime"
	"regexp"
	"strings"

	"github.com/zostay/go-maildecode/attachment"
)

// UnknownType is the MIME type given to decoded files whose type cannot be
// inferred from the file name.
const UnknownType = "unknown"

var block = regexp.MustCompile(`(?s)begin ([0-7]{3}) (.+?)\r?\n(.+?)\r?\nend`)

// File is a file decoded from a uuencoded block.
type File struct {
	// Name is the file name given on the begin line.
	Name string

	// Mode is the octal permission given on the begin line, e.g., "644".
	Mode string

	// MimeType is inferred from the extension of Name, or UnknownType.
	MimeType string

	// Data is the decoded content.
	Data []byte
}

// Has returns true if the text contains at least one uuencoded block.
func Has(body string) bool {
	return block.MatchString(body)
}

// Scan decodes every uuencoded block in the text, in order.
func Scan(body string) []File {
	ms := block.FindAllStringSubmatch(body, -1)
	if len(ms) == 0 {
		return nil
	}

	files := make([]File, 0, len(ms))
	for _, m := range ms {
		name := strings.TrimSpace(m[2])
		files = append(files, File{
			Name:     name,
			Mode:     m[1],
			MimeType: TypeByName(name),
			Data:     Decode(m[3]),
		})
	}

	return files
}

// Strip replaces every uuencoded block in the text with a single line break,
// and keeps doing so until no block remains. Stripping text that has already
// been stripped changes nothing.
func Strip(body string) string {
	for block.MatchString(body) {
		body = block.ReplaceAllLiteralString(body, "\n")
	}
	return body
}

// TypeByName infers a MIME type from the extension of the file name. It
// returns UnknownType when the extension is not known.
func TypeByName(name string) string {
	ext := attachment.Extension(name)
	if ext == "" {
		return UnknownType
	}

	t := mime.TypeByExtension("." + ext)
	if t == "" {
		return UnknownType
	}

	if mt, _, err := mime.ParseMediaType(t); err == nil {
		return mt
	}

	return t
}

// Decode decodes the data lines of a uuencoded block. Each line starts with a
// character giving the number of bytes on the line, followed by groups of four
// characters, each carrying six bits. A line with a length of zero ends the
// data. Lines that are too short are decoded as far as they go.
func Decode(data string) []byte {
	var out []byte
	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}

		n := int(sixBits(line[0]))
		if n == 0 {
			break
		}

		chars := line[1:]
		for i := 0; n > 0 && i < len(chars); i += 4 {
			var c [4]byte
			for j := 0; j < 4; j++ {
				if i+j < len(chars) {
					c[j] = sixBits(chars[i+j])
				}
			}

			b := [3]byte{
				c[0]<<2 | c[1]>>4,
				c[1]<<4 | c[2]>>2,
				c[2]<<6 | c[3],
			}

			take := min(n, 3)
			out = append(out, b[:take]...)
			n -= take
		}
	}

	return out
}

// sixBits maps a uuencoded character to its value. The backtick stands in
// for zero, the same as a space.
func sixBits(c byte) byte {
	return (c - ' ') & 0x3f
}
