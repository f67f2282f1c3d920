// Package scanner holds the line-level text scanning shared by the MIME tree
// parser and the raw body reconstructor: splitting a message into lines,
// recognizing blank lines, and recognizing multipart boundary lines.
package scanner

import (
	"bufio"
	"bytes"
	"strings"
)

// ScanAnyLines is a bufio.SplitFunc that splits on any of the line breaks seen
// in the wild: "\r\n", "\n", and a lone "\r". The line break is not included
// in the returned token.
//
// The built-in bufio.ScanLines only knows about "\n" (with an optional "\r"
// before it), which leaves old Mac style messages as one enormous line.
func ScanAnyLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}

		// a "\r" might be the front half of "\r\n", so we need one more byte
		// to decide, unless there is no more to get
		switch {
		case i+1 < len(data) && data[i+1] == '\n':
			return i + 2, data[:i], nil
		case i+1 < len(data) || atEOF:
			return i + 1, data[:i], nil
		default:
			return 0, nil, nil
		}
	}

	if atEOF {
		return len(data), data, nil
	}

	return 0, nil, nil
}

// SplitLines breaks the whole input up into lines using ScanAnyLines. Line
// breaks are dropped. A final line break does not produce a final empty line.
func SplitLines(raw []byte) []string {
	sc := bufio.NewScanner(bytes.NewReader(raw))
	sc.Buffer(make([]byte, 0, 4096), len(raw)+4096)
	sc.Split(ScanAnyLines)

	lines := make([]string, 0, len(raw)/40+1)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}

	// the buffer always holds the entire input, so sc.Err() cannot report
	// bufio.ErrTooLong here and a bytes.Reader never fails
	return lines
}

// IsBlank returns true if the line is empty once any line break characters
// are stripped.
func IsBlank(line string) bool {
	return strings.Trim(line, "\r\n") == ""
}
