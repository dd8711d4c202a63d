package ecc

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/curve25519"
)

func mustHex(t testing.TB, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func TestX25519Facade(t *testing.T) {
	// RFC 7748 section 6.1.
	alicePriv := mustHex(t, "77076d0a7318a57d3c16c17251b26645df4c2f87ebc0992ab177fba51db92c2a")
	bobPriv := mustHex(t, "5dab087e624a8a4b79e17f8b83800ee66f3bb1292618b6fd1c2f8b27ff88e0eb")
	shared := mustHex(t, "4a5d9d5ba4ce2de1728e3bf480350f25e07e21c947d19e3376f09b3c1e161742")

	alicePub, err := X25519Base(alicePriv)
	require.NoError(t, err)
	assert.Equal(t, "8520f0098930a754748b7ddcb43ef75a0dbf3a0d26381af4eba4a98eaa9b4e6a", hex.EncodeToString(alicePub))
	bobPub, err := X25519Base(bobPriv)
	require.NoError(t, err)

	s1, err := X25519(alicePriv, bobPub)
	require.NoError(t, err)
	s2, err := X25519(bobPriv, alicePub)
	require.NoError(t, err)
	assert.Equal(t, shared, s1)
	assert.Equal(t, shared, s2)

	k := make([]byte, X25519Size)
	_, err = rand.Read(k)
	require.NoError(t, err)
	want, err := curve25519.X25519(k, curve25519.Basepoint)
	require.NoError(t, err)
	got, err := X25519Base(k)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestX448Facade(t *testing.T) {
	// RFC 7748 section 6.2.
	alicePriv := mustHex(t, "9a8f4925d1519f5775cf46b04b5800d4ee9ee8bae8bc5565d498c28dd9c9baf574a9419744897391006382a6f127ab1d9ac2d8c0a598726b")
	bobPriv := mustHex(t, "1c306a7ac2a0e2e0990b294470cba339e6453772b075811d8fad0d1d6927c120bb5ee8972b0d3e21374c9c921b09d1b0366f10b65173992d")
	shared := mustHex(t, "07fff4181ac6cc95ec1c16a94a0f74d12da232ce40a77552281d282bb60c0b56fd2464c335543936521c24403085d59a449a5037514a879d")

	alicePub, err := X448Base(alicePriv)
	require.NoError(t, err)
	assert.Equal(t, "9b08f7cc31b7e3e67d22d5aea121074a273bd2b83de09c63faa73d2c22c5d9bbc836647241d953d40c5b12da88120d53177f80e532c41fa0", hex.EncodeToString(alicePub))
	bobPub, err := X448Base(bobPriv)
	require.NoError(t, err)

	s1, err := X448(alicePriv, bobPub)
	require.NoError(t, err)
	s2, err := X448(bobPriv, alicePub)
	require.NoError(t, err)
	assert.Equal(t, shared, s1)
	assert.Equal(t, shared, s2)
}

func TestMontgomeryErrors(t *testing.T) {
	_, err := X25519(make([]byte, 31), make([]byte, 32))
	assert.ErrorIs(t, err, ErrDecodePoint)
	_, err = X448(make([]byte, 56), make([]byte, 32))
	assert.ErrorIs(t, err, ErrDecodePoint)

	k := make([]byte, X25519Size)
	k[0] = 1
	_, err = X25519(k, make([]byte, X25519Size))
	assert.ErrorIs(t, err, ErrSmallOrder)

	k448 := make([]byte, X448Size)
	_, err = X448(k448, make([]byte, X448Size))
	assert.ErrorIs(t, err, ErrSmallOrder)
}

func TestX25519FromEd25519(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	u, err := X25519FromEd25519(pub)
	require.NoError(t, err)
	scalar, err := X25519PrivateFromEd25519(priv)
	require.NoError(t, err)
	derived, err := X25519Base(scalar)
	require.NoError(t, err)
	assert.Equal(t, u, derived)

	_, err = X25519FromEd25519(pub[:31])
	assert.ErrorIs(t, err, ErrDecodePoint)
	_, err = X25519PrivateFromEd25519(priv[:32])
	assert.ErrorIs(t, err, ErrDomainParameter)
}
