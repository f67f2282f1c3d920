package textbody_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zostay/go-maildecode/message/textbody"
)

const multipartMsg = "From: a@example.com\r\n" +
	"Content-Type: multipart/alternative; boundary=\"0016e65b5ec22721580487cb20fd\"\r\n" +
	"\r\n" +
	"--0016e65b5ec22721580487cb20fd\r\n" +
	"Content-Type: text/plain; charset=ISO-8859-1\r\n" +
	"Content-Transfer-Encoding: quoted-printable\r\n" +
	"\r\n" +
	"Hi all. I am new to Android development.=\r\n" +
	" Caf=E9 anyone?\r\n" +
	"\r\n" +
	"--\r\n" +
	"My signature\r\n" +
	"\r\n" +
	"\r\n" +
	"--0016e65b5ec22721580487cb20fd\r\n" +
	"Content-Type: text/html; charset=\"utf-8\"\r\n" +
	"Content-Transfer-Encoding: base64\r\n" +
	"\r\n" +
	"PGh0bWw+PGJvZHk+SGk8L2JvZHk+PC9IVE1MPgpqdW5rIGFmdGVy\r\n" +
	"--0016e65b5ec22721580487cb20fd--\r\n"

func TestFromBytes_Plain(t *testing.T) {
	t.Parallel()

	res := textbody.FromBytes([]byte(multipartMsg), textbody.Plain)
	assert.True(t, res.Found)
	assert.False(t, res.Degraded)
	assert.Equal(t, "Hi all. I am new to Android development. Café anyone?\n\n--\nMy signature", res.Text)
}

func TestFromBytes_HTML(t *testing.T) {
	t.Parallel()

	res := textbody.FromBytes([]byte(multipartMsg), textbody.HTML)
	assert.True(t, res.Found)
	assert.False(t, res.Degraded)
	assert.Equal(t, "<html><body>Hi</body></HTML>", res.Text)
}

func TestFromBytes_Fallback(t *testing.T) {
	t.Parallel()

	res := textbody.FromBytes([]byte("Subject: hi\r\n\r\nbody text\r\n\r\n\r\n"), textbody.Plain)
	assert.False(t, res.Found)
	assert.False(t, res.Degraded)
	assert.Equal(t, "body text", res.Text)

	res = textbody.FromBytes([]byte("Subject: hi\n\n\nline one\n  \nline two\n\n"), textbody.Plain)
	assert.Equal(t, "\nline one\n  \nline two", res.Text)
}

func TestFromBytes_FallbackUsesTopLevelHeader(t *testing.T) {
	t.Parallel()

	res := textbody.FromBytes([]byte("Content-Type: text/plain; charset=iso-8859-1\n"+
		"Content-Transfer-Encoding: base64\n"+
		"\n"+
		"Y2Fm6Q==\n"), textbody.Plain)

	assert.False(t, res.Found)
	assert.False(t, res.Degraded)
	assert.Equal(t, "café", res.Text)
}

func TestFromBytes_NoBody(t *testing.T) {
	t.Parallel()

	res := textbody.FromBytes([]byte("Subject: header only\n"), textbody.Plain)
	assert.Equal(t, "", res.Text)
	assert.False(t, res.Degraded)
}

func TestFromBytes_Degraded(t *testing.T) {
	t.Parallel()

	res := textbody.FromBytes([]byte("Content-Type: text/plain; charset=x-no-such-charset\n"+
		"\n"+
		"caf\xe9\n"), textbody.Plain)

	assert.True(t, res.Degraded)
	assert.Equal(t, "café", res.Text)
}

func TestFromBytes_NoTerminator(t *testing.T) {
	t.Parallel()

	res := textbody.FromBytes([]byte("Content-Type: multipart/mixed; boundary=b\n"+
		"\n"+
		"--b\n"+
		"Content-Type: text/plain\n"+
		"\n"+
		"runs to the end\n"), textbody.Plain)

	assert.True(t, res.Found)
	assert.Equal(t, "runs to the end", res.Text)
}
