// Package montgomery implements the X25519 and X448 functions of RFC 7748
// with a single constant-time ladder shared by both fields.
package montgomery

import "errors"

// ErrSmallOrder is returned when the peer's u-coordinate lies in a small
// subgroup, which makes the shared secret all zeros.
var ErrSmallOrder = errors.New("montgomery: low order point")

// fieldElement is the arithmetic the ladder needs. edwards25519's
// field.Element and field448.Element both satisfy it through their
// pointer types.
type fieldElement[E any] interface {
	*E
	Set(a *E) *E
	Zero() *E
	One() *E
	Add(a, b *E) *E
	Subtract(a, b *E) *E
	Multiply(a, b *E) *E
	Square(a *E) *E
	Mult32(a *E, b uint32) *E
	Invert(a *E) *E
	Swap(u *E, cond int)
	SetBytes(x []byte) (*E, error)
	Bytes() []byte
}

// ladder returns the u-coordinate of k*u. k is a clamped little-endian
// scalar and steps is the number of low bits of k to process. Every step
// performs the same operations regardless of the scalar bits.
func ladder[E any, P fieldElement[E]](k, u []byte, steps int, a24 uint32) ([]byte, error) {
	var x1, x2, z2, x3, z3 E
	if _, err := P(&x1).SetBytes(u); err != nil {
		return nil, err
	}
	P(&x2).One()
	P(&z2).Zero()
	P(&x3).Set(&x1)
	P(&z3).One()

	var a, aa, b, bb, e, c, d, da, cb E
	swap := 0
	for t := steps - 1; t >= 0; t-- {
		kt := int(k[t>>3]>>(t&7)) & 1
		swap ^= kt
		P(&x2).Swap(&x3, swap)
		P(&z2).Swap(&z3, swap)
		swap = kt

		P(&a).Add(&x2, &z2)
		P(&aa).Square(&a)
		P(&b).Subtract(&x2, &z2)
		P(&bb).Square(&b)
		P(&e).Subtract(&aa, &bb)
		P(&c).Add(&x3, &z3)
		P(&d).Subtract(&x3, &z3)
		P(&da).Multiply(&d, &a)
		P(&cb).Multiply(&c, &b)

		P(&x3).Add(&da, &cb)
		P(&x3).Square(&x3)
		P(&z3).Subtract(&da, &cb)
		P(&z3).Square(&z3)
		P(&z3).Multiply(&z3, &x1)
		P(&x2).Multiply(&aa, &bb)
		P(&z2).Mult32(&e, a24)
		P(&z2).Add(&z2, &aa)
		P(&z2).Multiply(&z2, &e)
	}
	P(&x2).Swap(&x3, swap)
	P(&z2).Swap(&z3, swap)

	P(&z2).Invert(&z2)
	P(&x2).Multiply(&x2, &z2)
	out := P(&x2).Bytes()

	var acc byte
	for _, v := range out {
		acc |= v
	}
	if acc == 0 {
		return nil, ErrSmallOrder
	}
	return out, nil
}
