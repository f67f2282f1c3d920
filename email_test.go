package email_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	email "github.com/zostay/go-maildecode"
	"github.com/zostay/go-maildecode/attachment"
	"github.com/zostay/go-maildecode/message/header"
)

const xyzMsg = "From: Sender <sender@example.com>\r\n" +
	"To: rcpt@example.com\r\n" +
	"Subject: report\r\n" +
	"Content-Type: multipart/mixed; boundary=\"XYZ\"\r\n" +
	"\r\n" +
	"--XYZ\r\n" +
	"Content-Type: text/plain\r\n" +
	"\r\n" +
	"hello\r\n" +
	"--XYZ\r\n" +
	"Content-Type: application/pdf\r\n" +
	"Content-Disposition: attachment; filename=\"file.pdf\"\r\n" +
	"Content-Transfer-Encoding: base64\r\n" +
	"\r\n" +
	"JVBERi0xLjQK\r\n" +
	"JSVFT0YK\r\n" +
	"--XYZ--\r\n"

func TestParse_EncodedSubject(t *testing.T) {
	t.Parallel()

	m := email.Parse([]byte("Subject: =?UTF-8?B?PHV0Zjgtc3ViamVjdD4=?=\r\n\r\nbody text"))

	s, err := m.GetHeader().GetSubject()
	require.NoError(t, err)
	assert.Equal(t, "<utf8-subject>", s)
	assert.Equal(t, "=?UTF-8?B?PHV0Zjgtc3ViamVjdD4=?=", m.Header("SUBJECT"))

	assert.Equal(t, "body text", m.Plain())

	d, err := m.Decode()
	require.NoError(t, err)
	assert.Equal(t, "body text\n", d.Plain)
	assert.Empty(t, d.Attachments)
}

func TestParse_EncodedFromTo(t *testing.T) {
	t.Parallel()

	m := email.Parse([]byte("From: =?UTF-8?Q?Andr=C3=A9?= <andre@example.com>\n" +
		"To: =?ISO-8859-1?Q?J=F6rg?= <joerg@example.com>\n" +
		"\n"))

	h := m.GetHeader()

	from, err := h.GetFrom()
	require.NoError(t, err)
	assert.Equal(t, "André <andre@example.com>", from)

	name, err := h.GetFromName()
	require.NoError(t, err)
	assert.Equal(t, "André", name)

	name, err = h.GetToName()
	require.NoError(t, err)
	assert.Equal(t, "Jörg", name)

	addr, err := h.GetToEmail()
	require.NoError(t, err)
	assert.Equal(t, "joerg@example.com", addr)

	_, err = h.GetSubject()
	assert.ErrorIs(t, err, header.ErrHeaderNotFound)
}

func TestDecode_XYZ(t *testing.T) {
	t.Parallel()

	m := email.Parse([]byte(xyzMsg))

	d, err := m.Decode()
	require.NoError(t, err)

	assert.Equal(t, "hello\n", d.Plain)
	assert.Equal(t, "", d.HTML)
	assert.False(t, d.Degraded)

	require.Len(t, d.Attachments, 1)
	assert.Equal(t, "file.pdf", d.Attachments[0].Name)
	assert.Equal(t, "application/pdf", d.Attachments[0].MimeType)
	assert.Equal(t, []byte("%PDF-1.4\n%%EOF\n"), d.Attachments[0].Content)
	assert.Equal(t, int64(15), d.Attachments[0].Size)

	assert.Equal(t, "hello", m.Plain())
}

func TestDecode_Storage(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "att")
	m := email.Parse([]byte(xyzMsg))

	d, err := m.Decode(email.WithStorage(dir))
	require.NoError(t, err)

	require.Len(t, d.Attachments, 1)
	a := d.Attachments[0]
	assert.Nil(t, a.Content)
	assert.Equal(t, dir, filepath.Dir(a.Path))
	assert.True(t, strings.HasSuffix(a.Path, ".pdf"))
	assert.Equal(t, "15 B", a.HumanSize)

	content, err := os.ReadFile(a.Path)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4\n%%EOF\n"), content)
}

func TestDecode_StorageError(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(file, nil, 0o600))

	d, err := email.Parse([]byte(xyzMsg)).Decode(email.WithStorage(filepath.Join(file, "sub")))
	require.NoError(t, err)

	// kept in memory instead
	assert.True(t, d.Degraded)
	require.Len(t, d.Attachments, 1)
	assert.Equal(t, "", d.Attachments[0].Path)
	assert.Equal(t, "file.pdf", d.Attachments[0].Name)
}

func TestDecode_TwoPlainParts(t *testing.T) {
	t.Parallel()

	m := email.Parse([]byte("Content-Type: multipart/mixed; boundary=b\n" +
		"\n" +
		"--b\n" +
		"Content-Type: text/plain\n" +
		"\n" +
		"first\n" +
		"--b\n" +
		"Content-Type: text/plain\n" +
		"\n" +
		"second\n" +
		"--b--\n"))

	d, err := m.Decode()
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", d.Plain)

	// the raw line view only finds the first
	assert.Equal(t, "first", m.Plain())
}

func TestDecode_InlineNonText(t *testing.T) {
	t.Parallel()

	m := email.Parse([]byte("Content-Type: image/gif\n" +
		"Content-Disposition: inline\n" +
		"Content-Transfer-Encoding: base64\n" +
		"\n" +
		"R0lGODlh\n"))

	d, err := m.Decode()
	require.NoError(t, err)

	assert.Equal(t, "", d.Plain)
	require.Len(t, d.Attachments, 1)
	assert.Equal(t, "file", d.Attachments[0].Name)
	assert.Equal(t, "image/gif", d.Attachments[0].MimeType)
	assert.Equal(t, []byte("GIF89a"), d.Attachments[0].Content)
}

func TestDecode_Disallowed(t *testing.T) {
	t.Parallel()

	m := email.Parse([]byte("Content-Type: multipart/mixed; boundary=b\n" +
		"\n" +
		"--b\n" +
		"Content-Type: application/x-msdownload\n" +
		"Content-Disposition: attachment; filename=setup.exe\n" +
		"\n" +
		"MZ\n" +
		"--b\n" +
		"Content-Type: image/png\n" +
		"Content-Disposition: attachment; filename=dot.png\n" +
		"\n" +
		"png\n" +
		"--b--\n"))

	d, err := m.Decode()
	require.NoError(t, err)
	require.Len(t, d.Attachments, 1)
	assert.Equal(t, "dot.png", d.Attachments[0].Name)

	d, err = m.Decode(email.WithPolicy(attachment.DefaultPolicy().Deny("image/png")))
	require.NoError(t, err)
	assert.Empty(t, d.Attachments)

	d, err = m.Decode(email.WithPolicy(attachment.DefaultPolicy().Allow("application/x-msdownload")))
	require.NoError(t, err)
	assert.Len(t, d.Attachments, 2)
}

const uuMsg = "Subject: old school\n" +
	"\n" +
	"See attached.\n" +
	"\n" +
	"begin 644 data.zzq\n" +
	"#0V%T\n" +
	"`\n" +
	"end\n" +
	"begin 644 page.html\n" +
	"%:&5L;&\\`\n" +
	"`\n" +
	"end\n" +
	"\n" +
	"Bye.\n"

func TestDecode_Uuencode(t *testing.T) {
	t.Parallel()

	m := email.Parse([]byte(uuMsg))

	d, err := m.Decode()
	require.NoError(t, err)

	// uuencoded files skip the policy, even text/html
	require.Len(t, d.Attachments, 2)
	assert.Equal(t, "data.zzq", d.Attachments[0].Name)
	assert.Equal(t, "unknown", d.Attachments[0].MimeType)
	assert.Equal(t, []byte("Cat"), d.Attachments[0].Content)
	assert.Equal(t, "page.html", d.Attachments[1].Name)
	assert.Equal(t, "text/html", d.Attachments[1].MimeType)

	assert.NotContains(t, d.Plain, "begin 644")
	assert.Contains(t, d.Plain, "See attached.")
	assert.Contains(t, d.Plain, "Bye.")

	assert.NotContains(t, m.Plain(), "begin 644")

	d, err = m.Decode(email.WithPolicy(attachment.DefaultPolicy().Deny("unknown")))
	require.NoError(t, err)
	assert.Len(t, d.Attachments, 2)
}

func TestDecode_UuencodeKnownType(t *testing.T) {
	t.Parallel()

	const msg = "Subject: x\n" +
		"\n" +
		"See attached.\n" +
		"\n" +
		"begin 644 notes.txt\n" +
		"#0V%T\n" +
		"`\n" +
		"end\n"

	d, err := email.Parse([]byte(msg)).Decode()
	require.NoError(t, err)

	require.Len(t, d.Attachments, 1)
	assert.Equal(t, "notes.txt", d.Attachments[0].Name)
	assert.Equal(t, []byte("Cat"), d.Attachments[0].Content)
	assert.NotContains(t, d.Plain, "begin 644")
}

func TestDecode_MaxDepth(t *testing.T) {
	t.Parallel()

	d, err := email.Parse([]byte(xyzMsg)).Decode(email.WithMaxDepth(0))
	require.NoError(t, err)

	// the whole multipart is treated as one part, which is not text
	assert.Equal(t, "", d.Plain)
	assert.Empty(t, d.Attachments)
}

type recordingSink struct {
	names []string
}

func (s *recordingSink) Save(name, mimeType string, content []byte) (*attachment.Attachment, error) {
	s.names = append(s.names, name)
	return &attachment.Attachment{Name: name, MimeType: mimeType, Size: int64(len(content))}, nil
}

func TestDecode_WithSink(t *testing.T) {
	t.Parallel()

	s := &recordingSink{}
	d, err := email.Parse([]byte(xyzMsg)).Decode(email.WithSink(s))
	require.NoError(t, err)

	assert.Equal(t, []string{"file.pdf"}, s.names)
	assert.Len(t, d.Attachments, 1)
}

func TestAttachmentsJSON(t *testing.T) {
	t.Parallel()

	m := email.Parse([]byte(xyzMsg))

	js, err := m.AttachmentsJSON()
	require.NoError(t, err)

	var out []map[string]any
	require.NoError(t, json.Unmarshal(js, &out))
	require.Len(t, out, 1)
	assert.Equal(t, "file.pdf", out[0]["name"])
	assert.Equal(t, "application/pdf", out[0]["type"])
	assert.Equal(t, "JVBERi0xLjQKJSVFT0YK", out[0]["content"])

	d, err := email.Parse([]byte("\nno attachments\n")).Decode()
	require.NoError(t, err)
	js, err = d.AttachmentsJSON()
	require.NoError(t, err)
	assert.Equal(t, "[]", string(js))

	as, err := m.Attachments()
	require.NoError(t, err)
	assert.Len(t, as, 1)

	js, err = json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `{"plain":"no attachments\n","html":"","attachments":[],"degraded":false}`, string(js))
}

func TestHTML(t *testing.T) {
	t.Parallel()

	m := email.Parse([]byte("Content-Type: multipart/alternative; boundary=b\n" +
		"\n" +
		"--b\n" +
		"Content-Type: text/plain\n" +
		"\n" +
		"plain\n" +
		"--b\n" +
		"Content-Type: text/html; charset=utf-8\n" +
		"\n" +
		"<html><body>html</body></html>\n" +
		"trailing junk\n" +
		"--b--\n"))

	assert.Equal(t, "<html><body>html</body></html>", m.HTML())
	assert.True(t, m.HTMLResult().Found)
	assert.Equal(t, "plain", m.Plain())
	assert.True(t, m.PlainResult().Found)

	d, err := m.Decode()
	require.NoError(t, err)
	assert.Equal(t, "plain\n", d.Plain)
	assert.Equal(t, "<html><body>html</body></html>\ntrailing junk\n", d.HTML)
}

func TestParse_BadStart(t *testing.T) {
	t.Parallel()

	m := email.Parse([]byte(">From junk\nSubject: hi\n\nbody\n"))
	assert.Equal(t, []string{">From junk"}, m.BadStart())
	assert.Equal(t, "hi", m.Header("subject"))
	assert.Equal(t, []string{"", "body"}, m.BodyLines())
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestReadMessage(t *testing.T) {
	t.Parallel()

	m, err := email.ReadMessage(bytes.NewReader([]byte(xyzMsg)))
	require.NoError(t, err)
	assert.Equal(t, []byte(xyzMsg), m.Raw())

	_, err = email.ReadMessage(errReader{})
	assert.ErrorIs(t, err, email.ErrRead)
}
