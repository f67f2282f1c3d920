package transfer_test

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zostay/go-maildecode/message/transfer"
)

const asisString = `1234567890-=
~!@#$%^&*()_+
qwertyuiop[]\
QWERTYUIOP{}|
asdfghjkl;'
ASDFGHJKL:"
zxcvbnm,./
ZXCVBNM<>?
 
` + "\x80\x90\xa0\xb0\xc0\xd0\xe0\xf0\xff\r\n\t\b"

func TestNewAsIsDecoder(t *testing.T) {
	t.Parallel()

	r := strings.NewReader(asisString)
	ad := transfer.NewAsIsDecoder(r)
	db, err := io.ReadAll(ad)
	assert.NoError(t, err)
	assert.Equal(t, []byte(asisString), db)
}

func TestDecodeAsIs(t *testing.T) {
	t.Parallel()

	for _, cte := range []string{transfer.None, transfer.Bit7, transfer.Bit8, transfer.Binary, "x-unheard-of"} {
		res := transfer.Decode(cte, []byte(asisString))
		assert.Equal(t, []byte(asisString), res.Content, cte)
		assert.False(t, res.Degraded, cte)
	}
}
