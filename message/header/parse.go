package header

import (
	"strings"

	"github.com/zostay/go-maildecode/internal/scanner"
)

// BadStartError is returned when the header begins with junk text that does not
// appear to be a header. This text is preserved in the error object. The
// error is recoverable: the header returned alongside it is complete.
type BadStartError struct {
	BadStart []string // the lines skipped at the start of header
}

// Error returns the error message.
func (err *BadStartError) Error() string {
	return "header starts with text that does not appear to be a header"
}

// parser states
const (
	scanningHeaders = iota
	inBody
)

func startsWithLetter(line string) bool {
	if line == "" {
		return false
	}
	c := line[0]
	return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z'
}

// fieldName splits a line that starts a new field on its first colon. The
// name is trimmed and lowercased and the value is trimmed. It fails only when
// there is no colon.
func fieldName(line string) (name, value string, ok bool) {
	n, v, found := strings.Cut(line, ":")
	if !found {
		return "", "", false
	}

	return strings.ToLower(strings.TrimSpace(n)), strings.TrimSpace(v), true
}

// Parse reads header fields from the given lines until the first blank line.
// It returns the header and the remaining lines, starting with that blank line.
// If there is no blank line, all lines are header and the body is nil.
//
// A line starting with an ASCII letter starts a new field, split on the first
// colon. Any other line continues the field that is currently open: its first
// character (the fold character) is dropped and the rest is appended to the
// most recent value of that field. A letter-initial line with no colon cannot
// be split, so it is dropped and closes the open field; continuation lines
// after it are dropped too. Once the blank line is seen, header parsing never
// resumes.
//
// Lines that precede the first field are skipped and reported with a
// *BadStartError. The header is still usable in that case.
func Parse(lines []string) (*Header, []string, error) {
	h := &Header{}

	var (
		current  string
		seen     bool
		badStart *BadStartError
		body     []string
	)

	state := scanningHeaders
	for i, line := range lines {
		if state == inBody {
			break
		}

		if scanner.IsBlank(line) {
			body = lines[i:]
			state = inBody
			continue
		}

		if startsWithLetter(line) {
			if name, value, ok := fieldName(line); ok {
				h.Add(name, value)
				current = name
				seen = true
				continue
			}

			current = ""
		}

		if current == "" {
			if !seen {
				if badStart == nil {
					badStart = &BadStartError{}
				}
				badStart.BadStart = append(badStart.BadStart, line)
			}
			continue
		}

		h.appendToLast(current, strings.TrimRight(line[1:], "\r\n"))
	}

	if badStart != nil {
		return h, body, badStart
	}

	return h, body, nil
}

// ParseBytes splits the raw message into lines and then calls Parse.
func ParseBytes(raw []byte) (*Header, []string, error) {
	return Parse(scanner.SplitLines(raw))
}
