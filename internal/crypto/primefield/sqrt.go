package primefield

import "math/big"

// maxNonResidueSearch bounds the search for a quadratic non-residue. For
// a prime modulus half of all candidates qualify, so hitting the bound
// means p is not prime.
const maxNonResidueSearch = 1 << 10

func (f *Field) initSqrt() error {
	p := f.modulus
	if p.Bit(1) == 1 {
		// p = 3 mod 4
		e := new(big.Int).Add(p, big.NewInt(1))
		f.sqrtExp = e.Rsh(e, 2)
		return nil
	}
	q := new(big.Int).Sub(p, big.NewInt(1))
	s := 0
	for q.Bit(0) == 0 {
		q.Rsh(q, 1)
		s++
	}
	f.tsQ = q
	f.tsQ1 = new(big.Int).Rsh(new(big.Int).Add(q, big.NewInt(1)), 1)
	f.tsS = s

	z := new(big.Int)
	for c := int64(2); c < maxNonResidueSearch; c++ {
		z.SetInt64(c)
		if big.Jacobi(z, p) == -1 {
			f.tsZ = f.FromUint64(uint64(c))
			return nil
		}
	}
	return ErrModulus
}

// Sqrt returns a square root of a and true, or zero and false when a is
// not a quadratic residue. It is not constant time and must only see
// public values such as point coordinates being decompressed.
func (f *Field) Sqrt(a Element) (Element, bool) {
	if f.IsZero(a) {
		return Element{}, true
	}
	var r Element
	if f.sqrtExp != nil {
		r = f.Exp(a, f.sqrtExp)
	} else {
		r = f.tonelliShanks(a)
	}
	if !f.Equal(f.Square(r), a) {
		return Element{}, false
	}
	return r, true
}

func (f *Field) tonelliShanks(a Element) Element {
	one := f.One()
	m := f.tsS
	c := f.Exp(f.tsZ, f.tsQ)
	t := f.Exp(a, f.tsQ)
	r := f.Exp(a, f.tsQ1)
	for !f.Equal(t, one) {
		// Least i with t^(2^i) = 1.
		i := 0
		for t2 := t; !f.Equal(t2, one); t2 = f.Square(t2) {
			i++
			if i == m {
				// Non-residue; the caller's check rejects r.
				return r
			}
		}
		b := c
		for j := 0; j < m-i-1; j++ {
			b = f.Square(b)
		}
		m = i
		c = f.Square(b)
		t = f.Mul(t, c)
		r = f.Mul(r, b)
	}
	return r
}
