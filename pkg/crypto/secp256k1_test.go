package crypto

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Private key 1 and its well-known encodings.
const (
	keyOneHex            = "0000000000000000000000000000000000000000000000000000000000000001"
	keyOneWIFCompressed  = "KwDiBf89QgGbjEhKnhXJuH7LrciVrZi3qYjgd9M7rFU73sVHnoWn"
	keyOneWIFUncompresed = "5HpHagT65TZzG1PH3CSu63k8DbpvD8s5ip4nEB3kEsreAnchuDf"
	generatorCompressed  = "0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798"
)

// hexDecode decodes a hex string, failing the test on error
func hexDecode(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err, "Failed to decode hex: %s", s)
	return b
}

func TestPrivateKeyFromBytes(t *testing.T) {
	pk, err := PrivateKeyFromBytes(hexDecode(t, keyOneHex))
	require.NoError(t, err)

	assert.Equal(t, hexDecode(t, keyOneHex), pk.Bytes())
	assert.Equal(t, generatorCompressed, hex.EncodeToString(pk.PublicKey().Bytes()))

	compressed := pk.PublicKey().SerializeCompressed()
	assert.Equal(t, pk.PublicKey().Bytes(), compressed[:])

	_, err = PrivateKeyFromBytes(make([]byte, 31))
	assert.Error(t, err)
}

func TestParsePrivateKeyWIF(t *testing.T) {
	for _, wif := range []string{keyOneWIFCompressed, keyOneWIFUncompresed} {
		pk, err := ParsePrivateKeyWIF(wif)
		require.NoError(t, err, wif)
		assert.Equal(t, hexDecode(t, keyOneHex), pk.Bytes())
	}

	_, err := ParsePrivateKeyWIF("not-a-wif")
	assert.Error(t, err)

	// Corrupt the last character to break the checksum.
	bad := keyOneWIFCompressed[:len(keyOneWIFCompressed)-1] + "o"
	_, err = ParsePrivateKeyWIF(bad)
	assert.Error(t, err)
}

func TestEncodeWIF(t *testing.T) {
	key := hexDecode(t, keyOneHex)

	wif, err := EncodeWIF(key, true, false)
	require.NoError(t, err)
	assert.Equal(t, keyOneWIFCompressed, wif)

	wif, err = EncodeWIF(key, false, false)
	require.NoError(t, err)
	assert.Equal(t, keyOneWIFUncompresed, wif)

	wif, err = EncodeWIF(key, true, true)
	require.NoError(t, err)
	pk, err := ParsePrivateKeyWIF(wif)
	require.NoError(t, err)
	assert.Equal(t, key, pk.Bytes())

	_, err = EncodeWIF(key[:16], true, false)
	assert.Error(t, err)
}

func TestParsePublicKey(t *testing.T) {
	pub, err := ParsePublicKey(hexDecode(t, generatorCompressed))
	require.NoError(t, err)
	assert.Equal(t, generatorCompressed, hex.EncodeToString(pub.Bytes()))

	_, err = ParsePublicKey(hexDecode(t, generatorCompressed)[:32])
	assert.Error(t, err)

	notOnCurve := bytes.Repeat([]byte{0xff}, 33)
	notOnCurve[0] = 0x02
	_, err = ParsePublicKey(notOnCurve)
	assert.Error(t, err)
}
