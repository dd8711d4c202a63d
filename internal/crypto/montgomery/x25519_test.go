package montgomery

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha512"
	"encoding/hex"
	"testing"

	"github.com/cloudflare/circl/dh/x448"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/curve25519"
)

func hex32(t testing.TB, s string) [X25519Size]byte {
	var out [X25519Size]byte
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	require.Len(t, b, X25519Size)
	copy(out[:], b)
	return out
}

func hex56(t testing.TB, s string) [X448Size]byte {
	var out [X448Size]byte
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	require.Len(t, b, X448Size)
	copy(out[:], b)
	return out
}

func TestX25519Vectors(t *testing.T) {
	tests := []struct {
		name           string
		scalar, u, out string
	}{
		{
			name:   "rfc7748 5.2 first",
			scalar: "a546e36bf0527c9d3b16154b82465edd62144c0ac1fc5a18506a2244ba449ac4",
			u:      "e6db6867583030db3594c1a424b15f7c726624ec26b3353b10a903a6d0ab1c4c",
			out:    "c3da55379de9c6908e94ea4df28d084f32eccf03491c71f754b4075577a28552",
		},
		{
			name:   "rfc7748 5.2 second",
			scalar: "4b66e9d4d1b4673c5ad22691957d6af5c11b6421e0ea01d42ca4169e7918ba0d",
			u:      "e5210f12786811d3f4b7959d0538ae2c31dbe7106fc03c3efc4cd549c715a493",
			out:    "95cbde9476e8907d7aade45cb4b873f88b595a68799fa152e6f8f7647aac7957",
		},
		{
			name:   "rfc7748 6.1 alice public",
			scalar: "77076d0a7318a57d3c16c17251b26645df4c2f87ebc0992ab177fba51db92c2a",
			u:      "0900000000000000000000000000000000000000000000000000000000000000",
			out:    "8520f0098930a754748b7ddcb43ef75a0dbf3a0d26381af4eba4a98eaa9b4e6a",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := X25519(hex32(t, tt.scalar), hex32(t, tt.u))
			require.NoError(t, err)
			assert.Equal(t, tt.out, hex.EncodeToString(got[:]))
		})
	}
}

// The RFC 7748 section 5.2 scalar is paired with its own u-coordinate, not
// the base point. Against u = 9 it yields a different public value.
func TestX25519RFCScalarWithBasepoint(t *testing.T) {
	k := hex32(t, "a546e36bf0527c9d3b16154b82465edd62144c0ac1fc5a18506a2244ba449ac4")
	got, err := X25519(k, Basepoint25519)
	require.NoError(t, err)
	assert.Equal(t, "1c9fd88f45606d932a80c71824ae151d15d73e77de38e8e000852e614fae7019", hex.EncodeToString(got[:]))
	assert.NotEqual(t, "c3da55379de9c6908e94ea4df28d084f32eccf03491c71f754b4075577a28552", hex.EncodeToString(got[:]))
}

func TestX25519Iterated(t *testing.T) {
	k, u := Basepoint25519, Basepoint25519
	iterations := 1000
	if testing.Short() {
		iterations = 1
	}
	for i := 1; i <= iterations; i++ {
		r, err := X25519(k, u)
		require.NoError(t, err)
		u, k = k, r
		switch i {
		case 1:
			assert.Equal(t, "422c8e7a6227d7bca1350b3e2bb7279f7897b87bb6854b783c60e80311ae3079", hex.EncodeToString(k[:]))
		case 1000:
			assert.Equal(t, "684cf59ba83309552800ef566f2f4d3c1c3887c49360e3875f2eb94d99532c51", hex.EncodeToString(k[:]))
		}
	}
}

func TestX448Vectors(t *testing.T) {
	tests := []struct {
		name           string
		scalar, u, out string
	}{
		{
			name:   "rfc7748 5.2 first",
			scalar: "3d262fddf9ec8e88495266fea19a34d28882acef045104d0d1aae121700a779c984c24f8cdd78fbff44943eba368f54b29259a4f1c600ad3",
			u:      "06fce640fa3487bfda5f6cf2d5263f8aad88334cbd07437f020f08f9814dc031ddbdc38c19c6da2583fa5429db94ada18aa7a7fb4ef8a086",
			out:    "ce3e4ff95a60dc6697da1db1d85e6afbdf79b50a2412d7546d5f239fe14fbaadeb445fc66a01b0779d98223961111e21766282f73dd96b6f",
		},
		{
			name:   "rfc7748 5.2 second",
			scalar: "203d494428b8399352665ddca42f9de8fef600908e0d461cb021f8c538345dd77c3e4806e25f46d3315c44e0a5b4371282dd2c8d5be3095f",
			u:      "0fbcc2f993cd56d3305b0b7d9e55d4c1a8fb5dbb52f8e9a1e9b6201b165d015894e56c4d3570bee52fe205e28a78b91cdfbde71ce8d157db",
			out:    "884a02576239ff7a2f2f63b2db6a9ff37047ac13568e1e30fe63c4a7ad1b3ee3a5700df34321d62077e63633c575c1c954514e99da7c179d",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := X448(hex56(t, tt.scalar), hex56(t, tt.u))
			require.NoError(t, err)
			assert.Equal(t, tt.out, hex.EncodeToString(got[:]))
		})
	}

	t.Run("one iteration", func(t *testing.T) {
		got, err := X448(Basepoint448, Basepoint448)
		require.NoError(t, err)
		assert.Equal(t, "3f482c8a9f19b01e6c46ee9711d9dc14fd4bf67af30765c2ae2b846a4d23a8cd0db897086239492caf350b51f833868b9bc2b3bca9cf4113", hex.EncodeToString(got[:]))
	})
}

func TestSmallOrderRejected(t *testing.T) {
	var k25519 [X25519Size]byte
	_, err := rand.Read(k25519[:])
	require.NoError(t, err)

	low := []string{
		"0000000000000000000000000000000000000000000000000000000000000000",
		"0100000000000000000000000000000000000000000000000000000000000000",
		"e0eb7a7c3b41b8ae1656e3faf19fc46ada098deb9c32b1fd866205165f49b800",
		"5f9c95bca3508c24b1d0b1559c83ef5b04445cc4581c8e86d8224eddd09f1157",
		"ecffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff7f",
		"edffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff7f",
		"eeffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff7f",
	}
	for _, u := range low {
		_, err := X25519(k25519, hex32(t, u))
		assert.ErrorIs(t, err, ErrSmallOrder, u)
	}

	var k448 [X448Size]byte
	_, err = rand.Read(k448[:])
	require.NoError(t, err)
	var zero, one [X448Size]byte
	one[0] = 1
	minusOne := hex56(t, "fefffffffffffffffffffffffffffffffffffffffffffffffffffffffeffffffffffffffffffffffffffffffffffffffffffffffffffffff")
	for _, u := range [][X448Size]byte{zero, one, minusOne} {
		_, err := X448(k448, u)
		assert.ErrorIs(t, err, ErrSmallOrder)
	}
}

func TestX25519MatchesXCrypto(t *testing.T) {
	for i := 0; i < 50; i++ {
		var k, u [X25519Size]byte
		_, err := rand.Read(k[:])
		require.NoError(t, err)
		_, err = rand.Read(u[:])
		require.NoError(t, err)

		want, wantErr := curve25519.X25519(k[:], u[:])
		got, err := X25519(k, u)
		if wantErr != nil {
			assert.ErrorIs(t, err, ErrSmallOrder)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, want, got[:])
	}
}

func TestX448MatchesCircl(t *testing.T) {
	for i := 0; i < 20; i++ {
		var k, u [X448Size]byte
		_, err := rand.Read(k[:])
		require.NoError(t, err)
		_, err = rand.Read(u[:])
		require.NoError(t, err)

		var shared, secret, public x448.Key
		copy(secret[:], k[:])
		copy(public[:], u[:])
		ok := x448.Shared(&shared, &secret, &public)

		got, err := X448(k, u)
		if !ok {
			assert.ErrorIs(t, err, ErrSmallOrder)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, shared[:], got[:])
	}
}

func TestDiffieHellmanAgreement(t *testing.T) {
	var a, b [X448Size]byte
	_, _ = rand.Read(a[:])
	_, _ = rand.Read(b[:])
	pa, err := X448(a, Basepoint448)
	require.NoError(t, err)
	pb, err := X448(b, Basepoint448)
	require.NoError(t, err)
	s1, err := X448(a, pb)
	require.NoError(t, err)
	s2, err := X448(b, pa)
	require.NoError(t, err)
	assert.Equal(t, s1, s2)
}

func TestEd25519PublicKeyToX25519(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	// The X25519 secret of an Ed25519 key is the clamped first half of
	// SHA-512(seed); X25519 clamps it again.
	h := sha512.Sum512(priv.Seed())
	var k [X25519Size]byte
	copy(k[:], h[:32])
	want, err := X25519(k, Basepoint25519)
	require.NoError(t, err)

	got, err := Ed25519PublicKeyToX25519(pub)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = Ed25519PublicKeyToX25519([]byte{1, 2, 3})
	assert.Error(t, err)
}

func BenchmarkX25519(b *testing.B) {
	k := Basepoint25519
	for i := 0; i < b.N; i++ {
		k, _ = X25519(k, Basepoint25519)
	}
}

func BenchmarkX448(b *testing.B) {
	k := Basepoint448
	for i := 0; i < b.N; i++ {
		k, _ = X448(k, Basepoint448)
	}
}
