package uuencode_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-maildecode/message/uuencode"
)

const twoBlocks = "Here are the files.\r\n" +
	"\r\n" +
	"begin 644 hello.html\r\n" +
	"%:&5L;&\\`\r\n" +
	"`\r\n" +
	"end\r\n" +
	"begin 600 cat.xyzzy\n" +
	"#0V%T\n" +
	"`\n" +
	"end\n" +
	"\n" +
	"Bye.\n"

func TestScan(t *testing.T) {
	t.Parallel()

	files := uuencode.Scan(twoBlocks)
	require.Len(t, files, 2)

	assert.Equal(t, "hello.html", files[0].Name)
	assert.Equal(t, "644", files[0].Mode)
	assert.Equal(t, "text/html", files[0].MimeType)
	assert.Equal(t, []byte("hello"), files[0].Data)

	assert.Equal(t, "cat.xyzzy", files[1].Name)
	assert.Equal(t, "600", files[1].Mode)
	assert.Equal(t, uuencode.UnknownType, files[1].MimeType)
	assert.Equal(t, []byte("Cat"), files[1].Data)

	assert.Nil(t, uuencode.Scan("nothing to see here"))
}

func TestDecode(t *testing.T) {
	t.Parallel()

	const fox = "M5&AE('%U:6-K(&)R;W=N(&9O>\"!J=6UP<R!O=F5R('1H92!L87IY(&1O9R$A\n`\n"
	assert.Equal(t, []byte("The quick brown fox jumps over the lazy dog!!"), uuencode.Decode(fox))

	// a truncated line decodes as far as it goes
	assert.Equal(t, []byte("hel"), uuencode.Decode("%:&5L"))
}

func TestStrip(t *testing.T) {
	t.Parallel()

	stripped := uuencode.Strip(twoBlocks)
	assert.Equal(t, "Here are the files.\r\n\r\n\n\r\n\n\n\nBye.\n", stripped)
	assert.False(t, uuencode.Has(stripped))

	// idempotent
	assert.Equal(t, stripped, uuencode.Strip(stripped))
	assert.Empty(t, uuencode.Scan(stripped))

	assert.Equal(t, "plain text", uuencode.Strip("plain text"))
}

func TestTypeByName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "application/pdf", uuencode.TypeByName("doc.PDF"))
	assert.Equal(t, uuencode.UnknownType, uuencode.TypeByName("noext"))
	assert.Equal(t, uuencode.UnknownType, uuencode.TypeByName("file.zzqqxx"))
}
