package curves

import (
	"fmt"
	"math/big"

	"github.com/smallyu/go-ecc/internal/crypto/primefield"
)

// primeArith is the group law of y^2 = x^3 + ax + b over GF(p).
type primeArith struct {
	f    *primefield.Field
	a, b primefield.Element
}

type primePoint = affine[primefield.Element]

func newPrime(params Params) (Curve, error) {
	if err := params.checkCommon(); err != nil {
		return nil, err
	}
	p := params.P
	if !p.ProbablyPrime(20) {
		return nil, fmt.Errorf("%w: %s: modulus is not prime", ErrDomainParameter, params.Name)
	}
	f, err := primefield.New(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDomainParameter, params.Name, err)
	}
	ar := &primeArith{f: f}
	var ok bool
	if ar.a, ok = ar.fromBig(params.A); !ok {
		return nil, fmt.Errorf("%w: %s: a out of range", ErrDomainParameter, params.Name)
	}
	if ar.b, ok = ar.fromBig(params.B); !ok {
		return nil, fmt.Errorf("%w: %s: b out of range", ErrDomainParameter, params.Name)
	}

	// 4a^3 + 27b^2 = 0 makes the curve singular.
	a3 := f.Mul(f.Square(ar.a), ar.a)
	b2 := f.Square(ar.b)
	disc := f.Add(f.Mul(f.FromUint64(4), a3), f.Mul(f.FromUint64(27), b2))
	if f.IsZero(disc) {
		return nil, fmt.Errorf("%w: %s: singular curve", ErrDomainParameter, params.Name)
	}
	w, err := newWeierstrass(params, arith[primefield.Element](ar))
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (c *primeArith) kind() FieldKind { return PrimeField }
func (c *primeArith) byteLen() int    { return c.f.ByteLen() }

func (c *primeArith) fromBig(x *big.Int) (primefield.Element, bool) {
	if x == nil || x.Sign() < 0 || x.Cmp(c.f.Modulus()) >= 0 {
		return primefield.Element{}, false
	}
	return c.f.FromBig(x), true
}

func (c *primeArith) toBig(a primefield.Element) *big.Int { return c.f.Big(a) }
func (c *primeArith) encode(a primefield.Element) []byte  { return c.f.Bytes(a) }

func (c *primeArith) decode(b []byte) (primefield.Element, bool) { return c.f.SetBytes(b) }

func (c *primeArith) sel(a, b primefield.Element, cond int) primefield.Element {
	return c.f.Select(a, b, cond)
}

func (c *primeArith) double(p primePoint) primePoint {
	f := c.f
	if p.inf || f.IsZero(p.y) {
		return primePoint{inf: true}
	}
	// m = (3x^2 + a) / 2y
	x2 := f.Square(p.x)
	num := f.Add(f.Add(f.Double(x2), x2), c.a)
	m := f.Mul(num, f.Inverse(f.Double(p.y)))
	x3 := f.Sub(f.Square(m), f.Double(p.x))
	y3 := f.Sub(f.Mul(m, f.Sub(p.x, x3)), p.y)
	return primePoint{x: x3, y: y3}
}

func (c *primeArith) add(p, q primePoint) primePoint {
	f := c.f
	if p.inf {
		return q
	}
	if q.inf {
		return p
	}
	if f.Equal(p.x, q.x) {
		if f.IsZero(f.Add(p.y, q.y)) {
			return primePoint{inf: true}
		}
		return c.double(p)
	}
	m := f.Mul(f.Sub(q.y, p.y), f.Inverse(f.Sub(q.x, p.x)))
	x3 := f.Sub(f.Sub(f.Square(m), p.x), q.x)
	y3 := f.Sub(f.Mul(m, f.Sub(p.x, x3)), p.y)
	return primePoint{x: x3, y: y3}
}

func (c *primeArith) negate(p primePoint) primePoint {
	if p.inf {
		return p
	}
	return primePoint{x: p.x, y: c.f.Neg(p.y)}
}

// rhs returns x^3 + ax + b.
func (c *primeArith) rhs(x primefield.Element) primefield.Element {
	f := c.f
	return f.Add(f.Mul(f.Add(f.Square(x), c.a), x), c.b)
}

func (c *primeArith) onCurve(p primePoint) bool {
	if p.inf {
		return true
	}
	return c.f.Equal(c.f.Square(p.y), c.rhs(p.x))
}

func (c *primeArith) yBit(p primePoint) uint {
	if c.f.IsOdd(p.y) {
		return 1
	}
	return 0
}

func (c *primeArith) decompress(x primefield.Element, bit uint) (primePoint, bool) {
	y, ok := c.f.Sqrt(c.rhs(x))
	if !ok {
		return primePoint{}, false
	}
	p := primePoint{x: x, y: y}
	if c.yBit(p) != bit {
		p.y = c.f.Neg(y)
	}
	// y = 0 has no odd root.
	if c.yBit(p) != bit {
		return primePoint{}, false
	}
	return p, true
}
