// Package curves implements affine point arithmetic on short Weierstrass
// curves over prime fields (y^2 = x^3 + ax + b) and binary fields
// (y^2 + xy = x^3 + ax^2 + b), with SEC1 point encoding and fixed-base
// precomputation.
//
// Points cross the package boundary as math/big coordinates and are
// converted to fixed-width limbs on entry. Every exported operation checks
// that its input points are on the curve.
package curves

import (
	"fmt"
	"math/big"
)

// Point is an affine point. The point at infinity has Infinity set and nil
// coordinates.
type Point struct {
	X, Y     *big.Int
	Infinity bool
}

// Infinity returns the identity element.
func Infinity() Point { return Point{Infinity: true} }

// NewPoint returns the affine point (x, y). The coordinates are copied.
func NewPoint(x, y *big.Int) Point {
	return Point{X: new(big.Int).Set(x), Y: new(big.Int).Set(y)}
}

// Equal reports whether p and q are the same point.
func (p Point) Equal(q Point) bool {
	if p.Infinity || q.Infinity {
		return p.Infinity == q.Infinity
	}
	if p.X == nil || p.Y == nil || q.X == nil || q.Y == nil {
		return false
	}
	return p.X.Cmp(q.X) == 0 && p.Y.Cmp(q.Y) == 0
}

func (p Point) String() string {
	if p.Infinity {
		return "infinity"
	}
	return fmt.Sprintf("(%x, %x)", p.X, p.Y)
}

// Curve is a Weierstrass curve over either a prime or a binary field. The
// two variants are the only implementations; use Kind to tell them apart.
// A Curve is immutable and safe for concurrent use.
type Curve interface {
	Name() string
	Kind() FieldKind
	// Params returns a copy of the domain parameters.
	Params() Params
	Order() *big.Int
	Cofactor() int
	// ByteLen is the length of one encoded coordinate.
	ByteLen() int

	Generator() Point
	// GeneratorTable is the fixed-base table of the generator, built when
	// the curve was constructed.
	GeneratorTable() *Table

	Contains(p Point) bool
	Add(p, q Point) (Point, error)
	Double(p Point) (Point, error)
	Negate(p Point) (Point, error)
	Subtract(p, q Point) (Point, error)

	// Multiply returns k*p with the Montgomery ladder. The sequence of
	// group operations does not depend on the bits of k, so it is the
	// path for secret scalars. Negative k is reduced modulo the order.
	Multiply(p Point, k *big.Int) (Point, error)

	// Precompute builds the window-4 table {p, 16p, 16^2 p, ...} used by
	// MultiplyTable.
	Precompute(p Point) (*Table, error)

	// MultiplyTable returns k times the table's base point. Which table
	// entries are added depends on the digits of k, so k must be public.
	MultiplyTable(t *Table, k *big.Int) (Point, error)

	// Encode returns the SEC1 encoding of p.
	Encode(p Point, compressed bool) ([]byte, error)
	// Decode parses a SEC1 encoding and checks the result is on the curve.
	Decode(b []byte) (Point, error)

	// CoordinateBytes returns x as a big-endian field element of ByteLen
	// bytes.
	CoordinateBytes(x *big.Int) ([]byte, error)

	isCurve()
}

// New validates params and builds the curve they describe, including the
// generator table. Validation failures wrap ErrDomainParameter.
func New(params Params) (Curve, error) {
	kind, err := params.kind()
	if err != nil {
		return nil, err
	}
	switch kind {
	case PrimeField:
		return newPrime(params)
	case BinaryField:
		return newBinary(params)
	}
	return nil, fmt.Errorf("%w: unknown field kind", ErrDomainParameter)
}
