package curves

import (
	"fmt"
	"math/big"

	"github.com/smallyu/go-ecc/internal/crypto/binaryfield"
)

// binaryArith is the group law of y^2 + xy = x^3 + ax^2 + b over GF(2^m).
type binaryArith struct {
	f    *binaryfield.Field
	a, b binaryfield.Element
}

type binaryPoint = affine[binaryfield.Element]

func newBinary(params Params) (Curve, error) {
	if err := params.checkCommon(); err != nil {
		return nil, err
	}
	if params.M%2 == 0 {
		// Point decompression relies on the half-trace, which needs odd m.
		return nil, fmt.Errorf("%w: %s: even extension degree", ErrDomainParameter, params.Name)
	}
	f, err := binaryfield.New(params.M, params.K3, params.K2, params.K1)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDomainParameter, params.Name, err)
	}
	ar := &binaryArith{f: f}
	var ok bool
	if ar.a, ok = f.FromBig(params.A); !ok {
		return nil, fmt.Errorf("%w: %s: a out of range", ErrDomainParameter, params.Name)
	}
	if ar.b, ok = f.FromBig(params.B); !ok {
		return nil, fmt.Errorf("%w: %s: b out of range", ErrDomainParameter, params.Name)
	}
	if f.IsZero(ar.b) {
		return nil, fmt.Errorf("%w: %s: b = 0 gives a singular curve", ErrDomainParameter, params.Name)
	}
	w, err := newWeierstrass(params, arith[binaryfield.Element](ar))
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (c *binaryArith) kind() FieldKind { return BinaryField }
func (c *binaryArith) byteLen() int    { return c.f.ByteLen() }

func (c *binaryArith) fromBig(x *big.Int) (binaryfield.Element, bool) {
	if x == nil {
		return binaryfield.Element{}, false
	}
	return c.f.FromBig(x)
}

func (c *binaryArith) toBig(a binaryfield.Element) *big.Int { return c.f.Big(a) }
func (c *binaryArith) encode(a binaryfield.Element) []byte  { return c.f.Bytes(a) }

func (c *binaryArith) decode(b []byte) (binaryfield.Element, bool) { return c.f.SetBytes(b) }

func (c *binaryArith) sel(a, b binaryfield.Element, cond int) binaryfield.Element {
	return c.f.Select(a, b, cond)
}

func (c *binaryArith) double(p binaryPoint) binaryPoint {
	f := c.f
	if p.inf || f.IsZero(p.x) {
		return binaryPoint{inf: true}
	}
	// lambda = x + y/x
	l := f.Add(p.x, f.Mul(p.y, f.Inverse(p.x)))
	x3 := f.Add(f.Add(f.Square(l), l), c.a)
	y3 := f.Add(f.Square(p.x), f.Add(f.Mul(l, x3), x3))
	return binaryPoint{x: x3, y: y3}
}

func (c *binaryArith) add(p, q binaryPoint) binaryPoint {
	f := c.f
	if p.inf {
		return q
	}
	if q.inf {
		return p
	}
	if f.Equal(p.x, q.x) {
		if f.Equal(p.y, q.y) {
			return c.double(p)
		}
		return binaryPoint{inf: true}
	}
	sx := f.Add(p.x, q.x)
	l := f.Mul(f.Add(p.y, q.y), f.Inverse(sx))
	x3 := f.Add(f.Add(f.Add(f.Square(l), l), sx), c.a)
	y3 := f.Add(f.Add(f.Mul(l, f.Add(p.x, x3)), x3), p.y)
	return binaryPoint{x: x3, y: y3}
}

func (c *binaryArith) negate(p binaryPoint) binaryPoint {
	if p.inf {
		return p
	}
	return binaryPoint{x: p.x, y: c.f.Add(p.x, p.y)}
}

func (c *binaryArith) onCurve(p binaryPoint) bool {
	if p.inf {
		return true
	}
	f := c.f
	x2 := f.Square(p.x)
	lhs := f.Add(f.Square(p.y), f.Mul(p.x, p.y))
	rhs := f.Add(f.Mul(f.Add(p.x, c.a), x2), c.b)
	return f.Equal(lhs, rhs)
}

// yBit is the low bit of y/x, or 0 when x = 0.
func (c *binaryArith) yBit(p binaryPoint) uint {
	if c.f.IsZero(p.x) {
		return 0
	}
	return c.f.Bit(c.f.Mul(p.y, c.f.Inverse(p.x)), 0)
}

func (c *binaryArith) decompress(x binaryfield.Element, bit uint) (binaryPoint, bool) {
	f := c.f
	if f.IsZero(x) {
		return binaryPoint{x: x, y: f.Sqrt(c.b)}, true
	}
	// With y = xz the curve equation becomes z^2 + z = x + a + b/x^2.
	beta := f.Add(f.Add(x, c.a), f.Mul(c.b, f.Inverse(f.Square(x))))
	z := f.HalfTrace(beta)
	if !f.Equal(f.Add(f.Square(z), z), beta) {
		return binaryPoint{}, false
	}
	if f.Bit(z, 0) != bit {
		z = f.Add(z, f.One())
	}
	return binaryPoint{x: x, y: f.Mul(x, z)}, true
}
