package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey() []byte {
	return []byte("01234567890123456789012345678901") // 32 bytes trimmed to 32
}

func TestSealOpenRoundTrip(t *testing.T) {
	box, err := NewBox(testKey()[:32])
	require.NoError(t, err)

	plaintext := []byte("AUTH-CODE-12345")
	sealed, err := box.Seal(plaintext)
	require.NoError(t, err)
	assert.NotEqual(t, plaintext, sealed)

	opened, err := box.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, plaintext, opened)
}

func TestOpen_TamperedCiphertext(t *testing.T) {
	box, err := NewBox(testKey()[:32])
	require.NoError(t, err)

	sealed, err := box.Seal([]byte("secret"))
	require.NoError(t, err)
	sealed[len(sealed)-1] ^= 0xFF

	_, err = box.Open(sealed)
	assert.Error(t, err)
}

func TestLast4(t *testing.T) {
	assert.Equal(t, "6789", Last4("0123456789"))
	assert.Equal(t, "12", Last4("12"))
}

func TestHexRoundTrip(t *testing.T) {
	data := []byte{1, 2, 3, 255}
	encoded := EncodeHex(data)
	decoded, err := DecodeHex(encoded)
	require.NoError(t, err)
	assert.Equal(t, data, decoded)
}
