// Package primefield implements arithmetic modulo an odd prime p on fixed
// width limb arrays. Reduction uses Barrett's method and inversion uses
// Kaliski's almost Montgomery inverse followed by a Montgomery correction.
//
// Every operation expects reduced inputs in [0, p) and returns reduced
// outputs. Nothing here checks that contract at run time.
package primefield

import (
	"encoding/binary"
	"errors"
	"math/big"
	"math/bits"
)

// MaxLimbs is the largest supported modulus size in 64-bit limbs (576 bits).
const MaxLimbs = 9

// Element is a field element as little-endian 64-bit limbs. Limbs at or
// above the field's limb count are always zero.
type Element [MaxLimbs]uint64

// Wide holds a double-width value, such as the product of two elements.
type Wide [2 * MaxLimbs]uint64

// ErrModulus is returned by New for a modulus it cannot work with.
var ErrModulus = errors.New("primefield: invalid modulus")

// Field is GF(p) for a fixed odd prime p. It is immutable and safe for
// concurrent use.
type Field struct {
	p       Element
	n       int // limbs in use
	bitLen  int
	byteLen int
	modulus *big.Int

	// Barrett constant floor(2^(128n) / p), n+1 limbs.
	mu [MaxLimbs + 1]uint64

	// mprime satisfies R*rinv - p*mprime = 1 with R = 2^(64n).
	mprime Element

	// Square root: p = 3 mod 4 uses a single exponentiation, anything else
	// goes through Tonelli-Shanks with p-1 = q*2^s and non-residue z.
	sqrtExp *big.Int
	tsQ     *big.Int
	tsQ1    *big.Int // (q+1)/2
	tsS     int
	tsZ     Element
}

// New returns the field of integers modulo p. p must be an odd prime
// greater than 3; primality is not verified.
func New(p *big.Int) (*Field, error) {
	if p == nil || p.Sign() <= 0 || p.Bit(0) == 0 || p.Cmp(big.NewInt(3)) <= 0 {
		return nil, ErrModulus
	}
	n := (p.BitLen() + 63) / 64
	if n > MaxLimbs {
		return nil, ErrModulus
	}
	f := &Field{
		n:       n,
		bitLen:  p.BitLen(),
		byteLen: (p.BitLen() + 7) / 8,
		modulus: new(big.Int).Set(p),
	}
	f.p = limbsOf(p)

	mu := new(big.Int).Lsh(big.NewInt(1), uint(128*n))
	mu.Div(mu, p)
	muBuf := make([]byte, 8*(MaxLimbs+1))
	mu.FillBytes(muBuf)
	for i := range f.mu {
		off := len(muBuf) - 8*(i+1)
		f.mu[i] = binary.BigEndian.Uint64(muBuf[off : off+8])
	}

	f.mprime = limbsOf(montgomeryConstant(p, 64*n))
	if err := f.initSqrt(); err != nil {
		return nil, err
	}
	return f, nil
}

// montgomeryConstant runs the halving recurrence 2^i*u - p*v = 1 for
// rbits steps, starting from u = 1, v = 0, and returns v. At the end
// u = R^-1 mod p and v is the negated inverse of p modulo R.
func montgomeryConstant(p *big.Int, rbits int) *big.Int {
	u := big.NewInt(1)
	v := new(big.Int)
	for i := 0; i < rbits; i++ {
		if u.Bit(0) == 1 {
			u.Add(u, p)
			v.SetBit(v, i, 1)
		}
		u.Rsh(u, 1)
	}
	return v
}

func limbsOf(x *big.Int) Element {
	var e Element
	buf := make([]byte, 8*MaxLimbs)
	x.FillBytes(buf)
	for i := range e {
		off := len(buf) - 8*(i+1)
		e[i] = binary.BigEndian.Uint64(buf[off : off+8])
	}
	return e
}

// Modulus returns a copy of p.
func (f *Field) Modulus() *big.Int { return new(big.Int).Set(f.modulus) }

// BitLen returns the bit length of p.
func (f *Field) BitLen() int { return f.bitLen }

// ByteLen returns the length of the fixed-size encoding of an element.
func (f *Field) ByteLen() int { return f.byteLen }

// Limbs returns the number of 64-bit limbs in use.
func (f *Field) Limbs() int { return f.n }

func (f *Field) Zero() Element { return Element{} }

func (f *Field) One() Element { return Element{1} }

// FromBig reduces x modulo p, including negative x.
func (f *Field) FromBig(x *big.Int) Element {
	if x.Sign() < 0 || x.Cmp(f.modulus) >= 0 {
		x = new(big.Int).Mod(x, f.modulus)
	}
	return limbsOf(x)
}

// FromUint64 returns x mod p.
func (f *Field) FromUint64(x uint64) Element {
	return f.FromBig(new(big.Int).SetUint64(x))
}

// Big returns a as a non-negative integer.
func (f *Field) Big(a Element) *big.Int {
	return new(big.Int).SetBytes(f.Bytes(a))
}

// Bytes returns the big-endian encoding of a, left-padded to ByteLen.
func (f *Field) Bytes(a Element) []byte {
	buf := make([]byte, 8*f.n)
	for i := 0; i < f.n; i++ {
		binary.BigEndian.PutUint64(buf[len(buf)-8*(i+1):], a[i])
	}
	return buf[len(buf)-f.byteLen:]
}

// SetBytes decodes a big-endian value of exactly ByteLen bytes. It
// reports false when the length is wrong or the value is not below p.
func (f *Field) SetBytes(b []byte) (Element, bool) {
	if len(b) != f.byteLen {
		return Element{}, false
	}
	x := new(big.Int).SetBytes(b)
	if x.Cmp(f.modulus) >= 0 {
		return Element{}, false
	}
	return limbsOf(x), true
}

// IsZero reports whether a is zero, in constant time.
func (f *Field) IsZero(a Element) bool {
	return isZero(a[:f.n])
}

// Equal reports whether a and b are equal, in constant time.
func (f *Field) Equal(a, b Element) bool {
	var acc uint64
	for i := 0; i < f.n; i++ {
		acc |= a[i] ^ b[i]
	}
	return acc == 0
}

// IsOdd reports whether the canonical integer value of a is odd.
func (f *Field) IsOdd(a Element) bool { return a[0]&1 == 1 }

// Select returns b if cond is 1 and a if cond is 0.
func (f *Field) Select(a, b Element, cond int) Element {
	mask := -uint64(cond & 1)
	var z Element
	selectTo(z[:f.n], a[:f.n], b[:f.n], mask)
	return z
}

// Add returns a + b mod p.
func (f *Field) Add(a, b Element) Element {
	n := f.n
	var s, t [MaxLimbs + 1]uint64
	s[n] = addTo(s[:n], a[:n], b[:n])
	var pw [MaxLimbs + 1]uint64
	copy(pw[:n], f.p[:n])
	borrow := subTo(t[:n+1], s[:n+1], pw[:n+1])
	var z Element
	// Keep s when s - p went negative.
	selectTo(z[:n], t[:n], s[:n], -borrow)
	return z
}

// Double returns 2a mod p.
func (f *Field) Double(a Element) Element { return f.Add(a, a) }

// Sub returns a - b mod p.
func (f *Field) Sub(a, b Element) Element {
	n := f.n
	var d, t Element
	borrow := subTo(d[:n], a[:n], b[:n])
	addTo(t[:n], d[:n], f.p[:n])
	var z Element
	selectTo(z[:n], d[:n], t[:n], -borrow)
	return z
}

// Neg returns -a mod p.
func (f *Field) Neg(a Element) Element { return f.Sub(Element{}, a) }

// MulWide returns the full product a*b.
func (f *Field) MulWide(a, b Element) Wide {
	var w Wide
	mulTo(w[:2*f.n], a[:f.n], b[:f.n])
	return w
}

// Mul returns a*b mod p.
func (f *Field) Mul(a, b Element) Element {
	w := f.MulWide(a, b)
	return f.Reduce(&w)
}

// Square returns a^2 mod p.
func (f *Field) Square(a Element) Element {
	n := f.n
	var w Wide
	// Cross products once, doubled, then the diagonal.
	for i := 0; i < n; i++ {
		var carry uint64
		for j := i + 1; j < n; j++ {
			hi, lo := bits.Mul64(a[i], a[j])
			var c uint64
			lo, c = bits.Add64(lo, w[i+j], 0)
			hi += c
			lo, c = bits.Add64(lo, carry, 0)
			hi += c
			w[i+j] = lo
			carry = hi
		}
		w[i+n] = carry
	}
	shl1(w[:2*n])
	var c uint64
	for i := 0; i < n; i++ {
		hi, lo := bits.Mul64(a[i], a[i])
		w[2*i], c = bits.Add64(w[2*i], lo, c)
		w[2*i+1], c = bits.Add64(w[2*i+1], hi, c)
	}
	return f.Reduce(&w)
}

// Reduce returns x mod p by Barrett reduction. x must be below p^2.
func (f *Field) Reduce(x *Wide) Element {
	n := f.n
	// x < 2^(128n), so q = floor(x * mu / 2^(128n)) is at most one below
	// floor(x / p) and t = x - q*p lies in [0, 2p).
	var prod [3*MaxLimbs + 1]uint64
	mulTo(prod[:3*n+1], x[:2*n], f.mu[:n+1])
	q := prod[2*n : 3*n+1]

	var qp, t, u [MaxLimbs + 1]uint64
	mulLowTo(qp[:n+1], q, f.p[:n])
	subTo(t[:n+1], x[:n+1], qp[:n+1])

	var pw [MaxLimbs + 1]uint64
	copy(pw[:n], f.p[:n])
	borrow := subTo(u[:n+1], t[:n+1], pw[:n+1])
	selectTo(t[:n+1], u[:n+1], t[:n+1], -borrow)
	var z Element
	copy(z[:n], t[:n])
	return z
}

// Exp returns a^e for a public, non-negative exponent e.
func (f *Field) Exp(a Element, e *big.Int) Element {
	r := f.One()
	for i := e.BitLen() - 1; i >= 0; i-- {
		r = f.Square(r)
		if e.Bit(i) == 1 {
			r = f.Mul(r, a)
		}
	}
	return r
}
