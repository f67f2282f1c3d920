package scanner

import (
	"regexp"
	"strings"
)

// LineKind classifies a line found in the body of a multipart entity.
type LineKind int

// The kinds of lines that a multipart body is made of.
const (
	Content    LineKind = iota // any line that is not a boundary line
	Separator                  // --boundary, starts the next part
	Terminator                 // --boundary--, ends the multipart body
)

// String returns a name for the line kind, which is mostly handy in tests.
func (k LineKind) String() string {
	switch k {
	case Separator:
		return "separator"
	case Terminator:
		return "terminator"
	default:
		return "content"
	}
}

// ClassifyBoundaryLine reports whether the line is a separator or terminator
// line for the given boundary. Trailing spaces and tabs are ignored as RFC
// 2046 permits transport padding there. An empty boundary never matches.
func ClassifyBoundaryLine(line, boundary string) LineKind {
	if boundary == "" {
		return Content
	}

	line = strings.TrimRight(line, " \t\r\n")
	if !strings.HasPrefix(line, "--") {
		return Content
	}

	rest := line[2:]
	switch {
	case rest == boundary:
		return Separator
	case rest == boundary+"--":
		return Terminator
	default:
		return Content
	}
}

// ClassifyAnyBoundaryLine is the same as ClassifyBoundaryLine, but the line is
// compared against every given boundary.
func ClassifyAnyBoundaryLine(line string, boundaries []string) LineKind {
	for _, b := range boundaries {
		if k := ClassifyBoundaryLine(line, b); k != Content {
			return k
		}
	}
	return Content
}

var boundaryParam = regexp.MustCompile(`(?i)boundary\s*=\s*(?:"([^"\r\n]+)"|'([^'\r\n]+)'|([^\s;"']+))`)

// ExtractBoundaries scans the entire raw message for every boundary parameter
// it can find, in order of appearance, without parsing any structure. Any
// surrounding quotes are removed and duplicates are dropped.
func ExtractBoundaries(raw []byte) []string {
	ms := boundaryParam.FindAllSubmatch(raw, -1)
	if len(ms) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(ms))
	bs := make([]string, 0, len(ms))
	for _, m := range ms {
		var b string
		for _, g := range m[1:] {
			if len(g) > 0 {
				b = strings.TrimSpace(string(g))
				break
			}
		}

		if b == "" {
			continue
		}

		if _, dup := seen[b]; dup {
			continue
		}

		seen[b] = struct{}{}
		bs = append(bs, b)
	}

	return bs
}
