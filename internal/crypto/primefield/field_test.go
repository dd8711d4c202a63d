package primefield

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustHex(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("bad hex " + s)
	}
	return n
}

var testPrimes = map[string]*big.Int{
	"small":     big.NewInt(23),
	"word":      mustHex("ffffffffffffffc5"), // 2^64 - 59
	"secp192r1": mustHex("fffffffffffffffffffffffffffffffeffffffffffffffff"),
	"secp224r1": mustHex("ffffffffffffffffffffffffffffffff000000000000000000000001"),
	"secp224k1": mustHex("fffffffffffffffffffffffffffffffffffffffffffffffeffffe56d"),
	"secp256k1": mustHex("fffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2f"),
	"secp256r1": mustHex("ffffffff00000001000000000000000000000000ffffffffffffffffffffffff"),
	"brainpool": mustHex("a9fb57dba1eea9bc3e660a909d838d726e3bf623d52620282013481d1f6e5377"),
	"secp384r1": mustHex("fffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffeffffffff0000000000000000ffffffff"),
	"secp521r1": new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 521), big.NewInt(1)),
}

func assertBig(t *testing.T, want, got *big.Int, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Equal(t, want.String(), got.String(), msgAndArgs...)
}

func randElement(t *testing.T, f *Field) (Element, *big.Int) {
	t.Helper()
	x, err := rand.Int(rand.Reader, f.Modulus())
	require.NoError(t, err)
	return f.FromBig(x), x
}

// limbsBig reads all n limbs of e, including bits above the field size.
func limbsBig(e Element, n int) *big.Int {
	x := new(big.Int)
	for i := n - 1; i >= 0; i-- {
		x.Lsh(x, 64)
		x.Or(x, new(big.Int).SetUint64(e[i]))
	}
	return x
}

// randPrime returns a random prime of the given size with p = residue mod 4.
func randPrime(t *testing.T, bits int, residue uint) *big.Int {
	t.Helper()
	for {
		p, err := rand.Prime(rand.Reader, bits)
		require.NoError(t, err)
		if p.Bit(1)<<1|p.Bit(0) == residue {
			return p
		}
	}
}

func TestNewRejectsBadModulus(t *testing.T) {
	for _, p := range []*big.Int{nil, big.NewInt(0), big.NewInt(-7), big.NewInt(3), big.NewInt(1 << 20), new(big.Int).Lsh(big.NewInt(1), 600)} {
		_, err := New(p)
		assert.ErrorIs(t, err, ErrModulus, "modulus %v", p)
	}
}

func TestMontgomeryConstant(t *testing.T) {
	for name, p := range testPrimes {
		f, err := New(p)
		require.NoError(t, err, name)
		rbits := 64 * f.Limbs()
		R := new(big.Int).Lsh(big.NewInt(1), uint(rbits))
		mp := limbsBig(f.mprime, f.Limbs())
		// p * mprime = -1 mod R
		got := new(big.Int).Mul(p, mp)
		got.Add(got, big.NewInt(1))
		got.Mod(got, R)
		assert.Zero(t, got.Sign(), name)
	}
}

func TestArithmeticMatchesBigInt(t *testing.T) {
	for name, p := range testPrimes {
		t.Run(name, func(t *testing.T) {
			f, err := New(p)
			require.NoError(t, err)
			for i := 0; i < 200; i++ {
				a, ab := randElement(t, f)
				b, bb := randElement(t, f)

				want := new(big.Int)
				assertBig(t, want.Add(ab, bb).Mod(want, p), f.Big(f.Add(a, b)), "add")
				want = new(big.Int)
				assertBig(t, want.Sub(ab, bb).Mod(want, p), f.Big(f.Sub(a, b)), "sub")
				want = new(big.Int)
				assertBig(t, want.Mul(ab, bb).Mod(want, p), f.Big(f.Mul(a, b)), "mul")
				want = new(big.Int)
				assertBig(t, want.Mul(ab, ab).Mod(want, p), f.Big(f.Square(a)), "square")
				want = new(big.Int)
				assertBig(t, want.Neg(ab).Mod(want, p), f.Big(f.Neg(a)), "neg")
			}
		})
	}
}

func TestReduceUpperBound(t *testing.T) {
	for name, p := range testPrimes {
		f, err := New(p)
		require.NoError(t, err)
		pm1 := new(big.Int).Sub(p, big.NewInt(1))
		a := f.FromBig(pm1)
		// (p-1)^2 is the largest product of reduced operands.
		assertBig(t, big.NewInt(1), f.Big(f.Mul(a, a)), name)
		assertBig(t, big.NewInt(1), f.Big(f.Square(a)), name)
		assert.True(t, f.IsZero(f.Add(a, f.One())), name)
	}
}

func TestInverse(t *testing.T) {
	for name, p := range testPrimes {
		t.Run(name, func(t *testing.T) {
			f, err := New(p)
			require.NoError(t, err)
			one := f.One()
			assert.True(t, f.Equal(f.Inverse(one), one))
			minusOne := f.Neg(one)
			assert.True(t, f.Equal(f.Inverse(minusOne), minusOne))
			assert.True(t, f.IsZero(f.Inverse(f.Zero())))
			for i := 0; i < 100; i++ {
				a, ab := randElement(t, f)
				if ab.Sign() == 0 {
					continue
				}
				inv := f.Inverse(a)
				if !f.Equal(f.Mul(a, inv), one) {
					t.Fatalf("%v * %v != 1", ab, f.Big(inv))
				}
			}
		})
	}
}

func TestSqrt(t *testing.T) {
	for name, p := range testPrimes {
		t.Run(name, func(t *testing.T) {
			f, err := New(p)
			require.NoError(t, err)
			for i := 0; i < 50; i++ {
				a, _ := randElement(t, f)
				sq := f.Square(a)
				r, ok := f.Sqrt(sq)
				require.True(t, ok)
				assert.True(t, f.Equal(f.Square(r), sq))
			}
			// -1 is a non-residue exactly when p = 3 mod 4.
			_, ok := f.Sqrt(f.Neg(f.One()))
			assert.Equal(t, p.Bit(1) == 0, ok)
		})
	}
}

// nonResidue returns a fixed quadratic non-residue of f.
func nonResidue(f *Field) Element {
	if f.sqrtExp != nil {
		return f.Neg(f.One())
	}
	return f.tsZ
}

func TestRandomPrimesMatchBigInt(t *testing.T) {
	for _, bits := range []int{64, 65, 127, 192, 255, 256, 384, 448, 521} {
		for _, residue := range []uint{1, 3} {
			p := randPrime(t, bits, residue)
			t.Run(fmt.Sprintf("%d/%d", bits, residue), func(t *testing.T) {
				f, err := New(p)
				require.NoError(t, err)
				for i := 0; i < 50; i++ {
					a, ab := randElement(t, f)
					b, bb := randElement(t, f)
					want := new(big.Int).Mul(ab, bb)
					assertBig(t, want.Mod(want, p), f.Big(f.Mul(a, b)), "mul %x %x mod %x", ab, bb, p)

					if ab.Sign() != 0 {
						assertBig(t, new(big.Int).ModInverse(ab, p), f.Big(f.Inverse(a)), "inverse %x mod %x", ab, p)
					}

					sq := f.Square(a)
					r, ok := f.Sqrt(sq)
					require.True(t, ok)
					assert.True(t, f.Equal(f.Square(r), sq))
					_, ok = f.Sqrt(f.Mul(sq, nonResidue(f)))
					assert.Equal(t, ab.Sign() == 0, ok, "non-residue must not have a root")
				}
			})
		}
	}
}

func TestNewRejectsModulusWithoutNonResidue(t *testing.T) {
	// 1031^2 = 1 mod 4 and every Jacobi symbol modulo it is 0 or 1.
	q := big.NewInt(1031)
	_, err := New(new(big.Int).Mul(q, q))
	assert.ErrorIs(t, err, ErrModulus)
}

func TestBytes(t *testing.T) {
	f, err := New(testPrimes["secp521r1"])
	require.NoError(t, err)
	assert.Equal(t, 66, f.ByteLen())

	a, ab := randElement(t, f)
	enc := f.Bytes(a)
	require.Len(t, enc, 66)
	assertBig(t, ab, new(big.Int).SetBytes(enc))

	back, ok := f.SetBytes(enc)
	require.True(t, ok)
	assert.True(t, f.Equal(a, back))

	_, ok = f.SetBytes(f.Modulus().FillBytes(make([]byte, 66)))
	assert.False(t, ok, "p itself must be rejected")
	_, ok = f.SetBytes(enc[1:])
	assert.False(t, ok, "short input must be rejected")
}

func TestSelect(t *testing.T) {
	f, err := New(testPrimes["secp256k1"])
	require.NoError(t, err)
	a, _ := randElement(t, f)
	b, _ := randElement(t, f)
	assert.Equal(t, a, f.Select(a, b, 0))
	assert.Equal(t, b, f.Select(a, b, 1))
}

func BenchmarkInverse(b *testing.B) {
	f, _ := New(testPrimes["secp256r1"])
	x := f.FromUint64(0xdeadbeef)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = f.Inverse(x)
	}
}

func BenchmarkMul(b *testing.B) {
	f, _ := New(testPrimes["secp256r1"])
	x := f.FromUint64(0xdeadbeef)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = f.Mul(x, x)
	}
}
