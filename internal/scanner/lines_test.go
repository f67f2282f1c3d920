package scanner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zostay/go-maildecode/internal/scanner"
)

func TestSplitLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		out  []string
	}{
		{"empty", "", []string{}},
		{"lf", "a\nb\n", []string{"a", "b"}},
		{"crlf", "a\r\nb\r\n", []string{"a", "b"}},
		{"cr", "a\rb\r", []string{"a", "b"}},
		{"mixed", "a\r\nb\nc\rd", []string{"a", "b", "c", "d"}},
		{"blank lines", "a\n\n\nb", []string{"a", "", "", "b"}},
		{"cr then lf blank", "a\r\r\nb", []string{"a", "", "b"}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.out, scanner.SplitLines([]byte(tc.in)))
		})
	}
}

func TestSplitLines_LongLine(t *testing.T) {
	t.Parallel()

	long := make([]byte, 200_000)
	for i := range long {
		long[i] = 'x'
	}

	lines := scanner.SplitLines(append(long, '\n', 'y'))
	assert.Len(t, lines, 2)
	assert.Len(t, lines[0], 200_000)
	assert.Equal(t, "y", lines[1])
}

func TestIsBlank(t *testing.T) {
	t.Parallel()

	assert.True(t, scanner.IsBlank(""))
	assert.True(t, scanner.IsBlank("\r"))
	assert.True(t, scanner.IsBlank("\r\n"))
	assert.False(t, scanner.IsBlank(" "))
	assert.False(t, scanner.IsBlank("x"))
}
