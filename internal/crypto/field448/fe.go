// Package field448 implements constant-time arithmetic modulo
// p = 2^448 - 2^224 - 1 on eight 56-bit limbs.
//
// The API mirrors filippo.io/edwards25519/field so that the Montgomery
// ladder can be written once for both fields.
package field448

import (
	"crypto/subtle"
	"errors"
	"math/bits"
)

// Element is the sum of l[i]*2^(56i). Limbs stay below 2^57 between
// operations; Bytes returns the canonical value.
type Element struct {
	l [8]uint64
}

const mask56 uint64 = 1<<56 - 1

// Zero sets v = 0, and returns v.
func (v *Element) Zero() *Element {
	*v = Element{}
	return v
}

// One sets v = 1, and returns v.
func (v *Element) One() *Element {
	*v = Element{l: [8]uint64{1}}
	return v
}

// Set sets v = a, and returns v.
func (v *Element) Set(a *Element) *Element {
	*v = *a
	return v
}

type uint128 struct {
	lo, hi uint64
}

func (a uint128) add(b uint128) uint128 {
	lo, c := bits.Add64(a.lo, b.lo, 0)
	hi, _ := bits.Add64(a.hi, b.hi, c)
	return uint128{lo, hi}
}

func (a uint128) addMul(x, y uint64) uint128 {
	hi, lo := bits.Mul64(x, y)
	return a.add(uint128{lo, hi})
}

func (a uint128) shr56() uint128 {
	return uint128{a.lo>>56 | a.hi<<8, a.hi >> 56}
}

// carry brings 128-bit columns back to limbs below 2^57. Since
// 2^448 = 2^224 + 1 mod p, the carry out of the top limb re-enters at
// limbs 0 and 4. Two passes are enough for columns below 2^120.
func (v *Element) carry(c *[8]uint128) *Element {
	for pass := 0; pass < 2; pass++ {
		for i := 0; i < 7; i++ {
			c[i+1] = c[i+1].add(c[i].shr56())
			c[i] = uint128{c[i].lo & mask56, 0}
		}
		top := c[7].shr56()
		c[7] = uint128{c[7].lo & mask56, 0}
		c[0] = c[0].add(top)
		c[4] = c[4].add(top)
	}
	for i := range v.l {
		v.l[i] = c[i].lo
	}
	return v
}

// Add sets v = a + b, and returns v.
func (v *Element) Add(a, b *Element) *Element {
	var c [8]uint128
	for i := range c {
		c[i].lo = a.l[i] + b.l[i]
	}
	return v.carry(&c)
}

// 4p, limb by limb. Every entry exceeds 2^57 so a - b + 4p never
// underflows a limb.
var fourP = [8]uint64{
	1<<58 - 4, 1<<58 - 4, 1<<58 - 4, 1<<58 - 4,
	1<<58 - 8, 1<<58 - 4, 1<<58 - 4, 1<<58 - 4,
}

// Subtract sets v = a - b, and returns v.
func (v *Element) Subtract(a, b *Element) *Element {
	var c [8]uint128
	for i := range c {
		c[i].lo = a.l[i] + fourP[i] - b.l[i]
	}
	return v.carry(&c)
}

// Negate sets v = -a, and returns v.
func (v *Element) Negate(a *Element) *Element {
	return v.Subtract(&Element{}, a)
}

// Multiply sets v = a * b, and returns v.
func (v *Element) Multiply(a, b *Element) *Element {
	var c [15]uint128
	for i := 0; i < 8; i++ {
		for j := 0; j < 8; j++ {
			c[i+j] = c[i+j].addMul(a.l[i], b.l[j])
		}
	}
	return v.fold(&c)
}

// Square sets v = a * a, and returns v.
func (v *Element) Square(a *Element) *Element {
	var c [15]uint128
	for i := 0; i < 8; i++ {
		c[2*i] = c[2*i].addMul(a.l[i], a.l[i])
		for j := i + 1; j < 8; j++ {
			c[i+j] = c[i+j].addMul(2*a.l[i], a.l[j])
		}
	}
	return v.fold(&c)
}

// fold folds columns 14 down to 8 into columns i-8 and i-4, then carries.
func (v *Element) fold(c *[15]uint128) *Element {
	for i := 14; i >= 8; i-- {
		c[i-8] = c[i-8].add(c[i])
		c[i-4] = c[i-4].add(c[i])
	}
	var low [8]uint128
	copy(low[:], c[:8])
	return v.carry(&low)
}

// SquareN sets v = a^(2^n), and returns v.
func (v *Element) SquareN(a *Element, n int) *Element {
	v.Set(a)
	for i := 0; i < n; i++ {
		v.Square(v)
	}
	return v
}

// Mult32 sets v = a * b, and returns v.
func (v *Element) Mult32(a *Element, b uint32) *Element {
	var c [8]uint128
	for i := range c {
		c[i] = c[i].addMul(a.l[i], uint64(b))
	}
	return v.carry(&c)
}

// Invert sets v = 1/a mod p as a^(p-2), and returns v. If a == 0, Invert
// returns v = 0.
func (v *Element) Invert(a *Element) *Element {
	// xk = a^(2^k - 1)
	var x1, x2, x3, x6, x12, x24, x48, x96, x192, x222, x223, t Element

	x1.Set(a)
	x2.Square(&x1)
	x2.Multiply(&x2, &x1)
	x3.Square(&x2)
	x3.Multiply(&x3, &x1)
	x6.SquareN(&x3, 3)
	x6.Multiply(&x6, &x3)
	x12.SquareN(&x6, 6)
	x12.Multiply(&x12, &x6)
	x24.SquareN(&x12, 12)
	x24.Multiply(&x24, &x12)
	x48.SquareN(&x24, 24)
	x48.Multiply(&x48, &x24)
	x96.SquareN(&x48, 48)
	x96.Multiply(&x96, &x48)
	x192.SquareN(&x96, 96)
	x192.Multiply(&x192, &x96)
	x222.SquareN(&x192, 24)
	x222.Multiply(&x222, &x24)
	x222.SquareN(&x222, 6)
	x222.Multiply(&x222, &x6)
	x223.Square(&x222)
	x223.Multiply(&x223, &x1)

	// p - 2 = (2^223 - 1) || 0 || (2^222 - 1) || 0 || 1
	t.Square(&x223)
	t.SquareN(&t, 222)
	t.Multiply(&t, &x222)
	t.Square(&t)
	t.Square(&t)
	return v.Multiply(&t, a)
}

// reduce brings v to its canonical value in [0, p).
func (v *Element) reduce() *Element {
	l := v.l
	// v < 2p here. Adding 2^224 + 1 carries out of bit 448 exactly when
	// v >= p.
	c := (l[0] + 1) >> 56
	for i := 1; i < 8; i++ {
		add := c
		if i == 4 {
			add++
		}
		c = (l[i] + add) >> 56
	}
	l[0] += c
	l[4] += c
	for i := 0; i < 7; i++ {
		l[i+1] += l[i] >> 56
		l[i] &= mask56
	}
	l[7] &= mask56
	v.l = l
	return v
}

// SetBytes sets v to x, a 56-byte little-endian encoding. Values in
// [p, 2^448) are accepted and reduced lazily, as RFC 7748 requires for
// u-coordinates.
func (v *Element) SetBytes(x []byte) (*Element, error) {
	if len(x) != 56 {
		return nil, errors.New("field448: invalid element length")
	}
	for i := range v.l {
		var limb uint64
		for j := 6; j >= 0; j-- {
			limb = limb<<8 | uint64(x[7*i+j])
		}
		v.l[i] = limb
	}
	return v, nil
}

// Bytes returns the canonical 56-byte little-endian encoding of v.
func (v *Element) Bytes() []byte {
	t := *v
	t.reduce()
	out := make([]byte, 56)
	for i, limb := range t.l {
		for j := 0; j < 7; j++ {
			out[7*i+j] = byte(limb >> (8 * j))
		}
	}
	return out
}

// Equal returns 1 if v and u are equal, and 0 otherwise.
func (v *Element) Equal(u *Element) int {
	return subtle.ConstantTimeCompare(v.Bytes(), u.Bytes())
}

// Select sets v to a if cond == 1, and to b if cond == 0.
func (v *Element) Select(a, b *Element, cond int) *Element {
	m := -uint64(cond & 1)
	for i := range v.l {
		v.l[i] = (m & a.l[i]) | (^m & b.l[i])
	}
	return v
}

// Swap swaps v and u if cond == 1 or leaves them unchanged if cond == 0.
func (v *Element) Swap(u *Element, cond int) {
	m := -uint64(cond & 1)
	for i := range v.l {
		t := m & (v.l[i] ^ u.l[i])
		v.l[i] ^= t
		u.l[i] ^= t
	}
}
