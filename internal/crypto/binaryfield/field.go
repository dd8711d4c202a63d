// Package binaryfield implements GF(2^m) arithmetic in polynomial basis.
//
// Elements are bit vectors of ceil(m/64) words holding the coefficients
// of a polynomial of degree below m. The field is defined by a trinomial
// x^m + x^k1 + 1 (k3 = k2 = 0) or a pentanomial x^m + x^k3 + x^k2 + x^k1 + 1.
package binaryfield

import (
	"encoding/binary"
	"errors"
	"math/big"
	"math/bits"
)

// MaxWords is the largest element size in 64-bit words.
const MaxWords = 9

// MaxDegree is the largest supported m.
const MaxDegree = 64 * MaxWords

// Element is a polynomial of degree below m, little-endian by word.
type Element [MaxWords]uint64

// Wide holds an unreduced product of degree below 2m-1.
type Wide [2 * MaxWords]uint64

// ErrPolynomial is returned by New for unusable reduction polynomials.
var ErrPolynomial = errors.New("binaryfield: invalid reduction polynomial")

// Field is GF(2^m). It is immutable and safe for concurrent use.
type Field struct {
	m, k3, k2, k1 int
	words         int
	byteLen       int
	reducer       Reducer
}

// New returns GF(2^m) with reduction polynomial
// x^m + x^k3 + x^k2 + x^k1 + 1. Pass k3 = k2 = 0 for a trinomial.
func New(m, k3, k2, k1 int) (*Field, error) {
	if m < 2 || m > MaxDegree || k1 <= 0 || k1 >= m {
		return nil, ErrPolynomial
	}
	if k3 != 0 || k2 != 0 {
		if !(k1 < k2 && k2 < k3 && k3 < m) {
			return nil, ErrPolynomial
		}
	}
	f := &Field{
		m:       m,
		k3:      k3,
		k2:      k2,
		k1:      k1,
		words:   (m + 63) / 64,
		byteLen: (m + 7) / 8,
	}
	f.reducer = reducerFor(m, k3, k2, k1)
	return f, nil
}

// Degree returns m.
func (f *Field) Degree() int { return f.m }

// Polynomial returns (m, k3, k2, k1).
func (f *Field) Polynomial() (m, k3, k2, k1 int) { return f.m, f.k3, f.k2, f.k1 }

// Words returns the number of 64-bit words in use.
func (f *Field) Words() int { return f.words }

// ByteLen returns the length of the fixed-size encoding of an element.
func (f *Field) ByteLen() int { return f.byteLen }

// Reducer reports the reduction strategy chosen for this field.
func (f *Field) Reducer() Reducer { return f.reducer }

func (f *Field) Zero() Element { return Element{} }

func (f *Field) One() Element { return Element{1} }

// FromBig converts x, which must satisfy 0 <= x < 2^m.
func (f *Field) FromBig(x *big.Int) (Element, bool) {
	if x.Sign() < 0 || x.BitLen() > f.m {
		return Element{}, false
	}
	var e Element
	buf := make([]byte, 8*MaxWords)
	x.FillBytes(buf)
	for i := range e {
		off := len(buf) - 8*(i+1)
		e[i] = binary.BigEndian.Uint64(buf[off : off+8])
	}
	return e, true
}

// Big returns the integer whose bits are the coefficients of a.
func (f *Field) Big(a Element) *big.Int {
	return new(big.Int).SetBytes(f.Bytes(a))
}

// Bytes returns the big-endian encoding of a in ByteLen bytes.
func (f *Field) Bytes(a Element) []byte {
	buf := make([]byte, 8*f.words)
	for i := 0; i < f.words; i++ {
		binary.BigEndian.PutUint64(buf[len(buf)-8*(i+1):], a[i])
	}
	return buf[len(buf)-f.byteLen:]
}

// SetBytes decodes exactly ByteLen big-endian bytes with no bits at or
// above m.
func (f *Field) SetBytes(b []byte) (Element, bool) {
	if len(b) != f.byteLen {
		return Element{}, false
	}
	return f.FromBig(new(big.Int).SetBytes(b))
}

// Bit returns coefficient i of a.
func (f *Field) Bit(a Element, i int) uint {
	return uint(a[i>>6]>>(i&63)) & 1
}

func (f *Field) IsZero(a Element) bool {
	var acc uint64
	for i := 0; i < f.words; i++ {
		acc |= a[i]
	}
	return acc == 0
}

func (f *Field) Equal(a, b Element) bool {
	var acc uint64
	for i := 0; i < f.words; i++ {
		acc |= a[i] ^ b[i]
	}
	return acc == 0
}

// Select returns b if cond is 1 and a if cond is 0.
func (f *Field) Select(a, b Element, cond int) Element {
	mask := -uint64(cond & 1)
	var z Element
	for i := 0; i < f.words; i++ {
		z[i] = a[i] ^ (mask & (a[i] ^ b[i]))
	}
	return z
}

// Add returns a + b, which is also a - b.
func (f *Field) Add(a, b Element) Element {
	var z Element
	for i := 0; i < f.words; i++ {
		z[i] = a[i] ^ b[i]
	}
	return z
}

// MulWide returns the unreduced product of a and b using the
// right-to-left comb method. Every bit of b costs the same work.
func (f *Field) MulWide(a, b Element) Wide {
	w := f.words
	var c Wide
	var sh [MaxWords + 1]uint64
	copy(sh[:w], a[:w])
	for k := 0; k < 64; k++ {
		for j := 0; j < w; j++ {
			mask := -((b[j] >> k) & 1)
			for i := 0; i <= w; i++ {
				c[i+j] ^= sh[i] & mask
			}
		}
		shiftLeft1(sh[:w+1])
	}
	return c
}

// Mul returns a*b mod f.
func (f *Field) Mul(a, b Element) Element {
	c := f.MulWide(a, b)
	return f.Reduce(&c)
}

// SquareWide spreads the bits of a: coefficient i moves to 2i.
func (f *Field) SquareWide(a Element) Wide {
	var c Wide
	for i := 0; i < f.words; i++ {
		c[2*i] = spread(uint32(a[i]))
		c[2*i+1] = spread(uint32(a[i] >> 32))
	}
	return c
}

// Square returns a^2 mod f.
func (f *Field) Square(a Element) Element {
	c := f.SquareWide(a)
	return f.Reduce(&c)
}

// SquareN returns a^(2^n).
func (f *Field) SquareN(a Element, n int) Element {
	for i := 0; i < n; i++ {
		a = f.Square(a)
	}
	return a
}

// spread interleaves zero bits between the bits of x.
func spread(x uint32) uint64 {
	v := uint64(x)
	v = (v | v<<16) & 0x0000ffff0000ffff
	v = (v | v<<8) & 0x00ff00ff00ff00ff
	v = (v | v<<4) & 0x0f0f0f0f0f0f0f0f
	v = (v | v<<2) & 0x3333333333333333
	v = (v | v<<1) & 0x5555555555555555
	return v
}

func shiftLeft1(x []uint64) {
	for i := len(x) - 1; i > 0; i-- {
		x[i] = x[i]<<1 | x[i-1]>>63
	}
	x[0] <<= 1
}

func shiftRight1(x []uint64) {
	for i := 0; i < len(x)-1; i++ {
		x[i] = x[i]>>1 | x[i+1]<<63
	}
	x[len(x)-1] >>= 1
}

// degree returns the index of the highest set bit, or -1 for zero.
func degree(x []uint64) int {
	for i := len(x) - 1; i >= 0; i-- {
		if x[i] != 0 {
			return 64*i + 63 - bits.LeadingZeros64(x[i])
		}
	}
	return -1
}

func isOne(x []uint64) bool {
	if x[0] != 1 {
		return false
	}
	for _, w := range x[1:] {
		if w != 0 {
			return false
		}
	}
	return true
}

// Inverse returns a^-1 mod f by the binary extended Euclidean algorithm
// for polynomials. The zero element maps to zero. Running time depends on
// a.
func (f *Field) Inverse(a Element) Element {
	if f.IsZero(a) {
		return Element{}
	}
	w := f.words + 1 // f itself and g + f carry bit m
	var u, v, g1, g2 [MaxWords + 1]uint64
	copy(u[:f.words], a[:f.words])
	f.addRp(v[:w], 0, ^uint64(0))
	g1[0] = 1

	for !isOne(u[:w]) && !isOne(v[:w]) {
		for u[0]&1 == 0 {
			shiftRight1(u[:w])
			f.addRp(g1[:w], 0, -(g1[0] & 1))
			shiftRight1(g1[:w])
		}
		for v[0]&1 == 0 {
			shiftRight1(v[:w])
			f.addRp(g2[:w], 0, -(g2[0] & 1))
			shiftRight1(g2[:w])
		}
		if isOne(u[:w]) || isOne(v[:w]) {
			break
		}
		if degree(u[:w]) > degree(v[:w]) {
			for i := 0; i < w; i++ {
				u[i] ^= v[i]
				g1[i] ^= g2[i]
			}
		} else {
			for i := 0; i < w; i++ {
				v[i] ^= u[i]
				g2[i] ^= g1[i]
			}
		}
	}

	var z Element
	if isOne(u[:w]) {
		copy(z[:f.words], g1[:f.words])
	} else {
		copy(z[:f.words], g2[:f.words])
	}
	return z
}

// Trace returns Tr(a) = a + a^2 + ... + a^(2^(m-1)), which is 0 or 1.
func (f *Field) Trace(a Element) uint {
	t := a
	s := a
	for i := 1; i < f.m; i++ {
		s = f.Square(s)
		t = f.Add(t, s)
	}
	return uint(t[0] & 1)
}

// HalfTrace returns sum(beta^(2^(2i))) for i = 0..(m-1)/2. For odd m and
// Tr(beta) = 0 the result z solves z^2 + z = beta.
func (f *Field) HalfTrace(beta Element) Element {
	t := beta
	for i := 0; i < (f.m-1)/2; i++ {
		t = f.Square(t)
		t = f.Square(t)
		t = f.Add(t, beta)
	}
	return t
}

// Sqrt returns the unique square root a^(2^(m-1)).
func (f *Field) Sqrt(a Element) Element {
	return f.SquareN(a, f.m-1)
}
