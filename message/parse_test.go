package message_test

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-maildecode/message"
)

func TestParse_Nested(t *testing.T) {
	t.Parallel()

	src, err := os.Open("testdata/nested.eml")
	require.NoError(t, err)
	defer func() { _ = src.Close() }()

	m, err := message.Parse(src)
	require.NoError(t, err)

	require.True(t, m.IsMultipart())
	assert.Equal(t, "nested", m.GetHeader().Get("subject"))
	assert.Nil(t, m.GetContent())

	parts := m.GetParts()
	require.Len(t, parts, 2)

	alt := parts[0]
	require.True(t, alt.IsMultipart())
	assert.Equal(t, "multipart/alternative", alt.GetHeader().GetContentType().MediaType())

	altParts := alt.GetParts()
	require.Len(t, altParts, 2)
	assert.False(t, altParts[0].IsMultipart())
	assert.Equal(t, "café", string(altParts[0].GetContent()))
	assert.Equal(t, "<html><body>café</body></html>", string(altParts[1].GetContent()))

	pdf, isOpaque := parts[1].(*message.Opaque)
	require.True(t, isOpaque)
	assert.Equal(t, "%PDF-1.4\n%%EOF\n", string(pdf.Content))
	assert.False(t, pdf.Degraded)
	assert.Equal(t, "file.pdf", pdf.GetContentDisposition().Filename())
	assert.Nil(t, pdf.GetParts())
}

func TestParse_Simple(t *testing.T) {
	t.Parallel()

	m := message.ParseBytes([]byte("Subject: hi\r\n\r\nline one\r\nline two\r\n"))

	op, isOpaque := m.(*message.Opaque)
	require.True(t, isOpaque)
	assert.Equal(t, "line one\nline two", string(op.Content))
	assert.False(t, op.Degraded)
	assert.Equal(t, "text/plain", op.GetContentType().MediaType())
}

func TestParse_HeaderOnly(t *testing.T) {
	t.Parallel()

	m := message.ParseBytes([]byte("Subject: hi\n"))
	assert.False(t, m.IsMultipart())
	assert.Empty(t, m.GetContent())
}

func TestParse_NoBoundary(t *testing.T) {
	t.Parallel()

	m := message.ParseBytes([]byte("Content-Type: multipart/mixed\n\n--x\nhello\n--x--\n"))

	op, isOpaque := m.(*message.Opaque)
	require.True(t, isOpaque)
	assert.True(t, op.Degraded)
	assert.Equal(t, "--x\nhello\n--x--", string(op.Content))
}

func TestParse_NoTerminator(t *testing.T) {
	t.Parallel()

	m := message.ParseBytes([]byte("Content-Type: multipart/mixed; boundary=b\n\n" +
		"--b\n\none\n" +
		"--b \t\n\ntwo\n"))

	require.True(t, m.IsMultipart())
	parts := m.GetParts()
	require.Len(t, parts, 2)
	assert.Equal(t, "one", string(parts[0].GetContent()))
	assert.Equal(t, "two", string(parts[1].GetContent()))
}

func TestParse_NoSeparator(t *testing.T) {
	t.Parallel()

	m := message.ParseBytes([]byte("Content-Type: multipart/mixed; boundary=b\n\njust text\n--b--\n"))

	require.True(t, m.IsMultipart())
	assert.Empty(t, m.GetParts())
}

func TestParse_MaxDepth(t *testing.T) {
	t.Parallel()

	raw := []byte("Content-Type: multipart/mixed; boundary=a\n\n" +
		"--a\n" +
		"Content-Type: multipart/mixed; boundary=b\n\n" +
		"--b\n\ndeep\n--b--\n" +
		"--a--\n")

	m := message.ParseBytes(raw, message.WithMaxDepth(1))
	require.True(t, m.IsMultipart())
	require.Len(t, m.GetParts(), 1)

	inner := m.GetParts()[0]
	assert.False(t, inner.IsMultipart())
	assert.Equal(t, "--b\n\ndeep\n--b--", string(inner.GetContent()))

	m = message.ParseBytes(raw, message.WithoutMultipart())
	assert.False(t, m.IsMultipart())

	m = message.ParseBytes(raw, message.WithUnlimitedRecursion())
	require.True(t, m.IsMultipart())
	require.True(t, m.GetParts()[0].IsMultipart())
	assert.Equal(t, "deep", string(m.GetParts()[0].GetParts()[0].GetContent()))
}

func TestParse_DeepNesting(t *testing.T) {
	t.Parallel()

	const levels = 100

	var buf strings.Builder
	for i := 0; i < levels; i++ {
		buf.WriteString("Content-Type: multipart/mixed; boundary=b")
		buf.WriteString(strings.Repeat("x", i))
		buf.WriteString("\n\n--b")
		buf.WriteString(strings.Repeat("x", i))
		buf.WriteString("\n")
	}
	buf.WriteString("\nbottom\n")

	m := message.ParseBytes([]byte(buf.String()))

	depth := 0
	for m.IsMultipart() {
		require.Len(t, m.GetParts(), 1)
		m = m.GetParts()[0]
		depth++
	}

	assert.Equal(t, message.DefaultMaxMultipartDepth, depth)
}

func TestParse_DegradedBase64(t *testing.T) {
	t.Parallel()

	m := message.ParseBytes([]byte("Content-Type: application/octet-stream\n" +
		"Content-Transfer-Encoding: base64\n\n" +
		"aGVsbG8gd29y!!!\n"))

	op, isOpaque := m.(*message.Opaque)
	require.True(t, isOpaque)
	assert.True(t, op.Degraded)
	assert.Equal(t, "hello wor", string(op.Content))
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestParse_ReadError(t *testing.T) {
	t.Parallel()

	_, err := message.Parse(errReader{})
	assert.ErrorIs(t, err, message.ErrRead)

	m, err := message.Parse(bytes.NewReader(nil))
	assert.NoError(t, err)
	assert.False(t, m.IsMultipart())
}
