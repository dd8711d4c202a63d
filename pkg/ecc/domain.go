// Package ecc is the public face of the elliptic curve engine: curve
// domains over prime and binary fields, key pairs, ECDSA, ECDH and the
// RFC 7748 functions X25519 and X448.
package ecc

import (
	"math/big"

	"go.uber.org/zap"

	"github.com/smallyu/go-ecc/internal/crypto/curves"
	"github.com/smallyu/go-ecc/internal/crypto/primefield"
)

type (
	// Point is an affine curve point; see curves.Point.
	Point = curves.Point
	// Params are curve domain parameters; see curves.Params.
	Params = curves.Params
	// FieldKind tells prime curves from binary curves.
	FieldKind = curves.FieldKind
)

const (
	PrimeField  = curves.PrimeField
	BinaryField = curves.BinaryField
)

// Infinity returns the point at infinity.
func Infinity() Point { return curves.Infinity() }

// NewPoint returns the affine point (x, y).
func NewPoint(x, y *big.Int) Point { return curves.NewPoint(x, y) }

// Names lists the catalog curves accepted by NamedDomain.
func Names() []string { return curves.Names() }

// Option configures a Domain.
type Option func(*Domain)

// WithLogger sets the logger used for debug output. Domains log nothing
// by default.
func WithLogger(log *zap.Logger) Option {
	return func(d *Domain) {
		if log != nil {
			d.log = log
		}
	}
}

// Domain is a curve together with its generator table and scalar field.
// It is immutable and safe for concurrent use.
type Domain struct {
	curve   curves.Curve
	scalars *primefield.Field
	log     *zap.Logger
}

// NewDomain validates params and builds a domain. Besides the checks of
// the curve itself it requires N*G to be the point at infinity.
func NewDomain(params Params, opts ...Option) (*Domain, error) {
	c, err := curves.New(params)
	if err != nil {
		return nil, NewOpError("new domain", params.Name, err)
	}
	ng, err := c.Multiply(c.Generator(), c.Order())
	if err != nil {
		return nil, NewOpError("new domain", params.Name, err)
	}
	if !ng.Infinity {
		return nil, NewOpError("new domain", params.Name, errorf(ErrDomainParameter, "generator does not have order n"))
	}
	return newDomain(c, opts)
}

// NamedDomain returns the domain of a catalog curve such as "secp256r1"
// or "P-256".
func NamedDomain(name string, opts ...Option) (*Domain, error) {
	c, err := curves.Named(name)
	if err != nil {
		return nil, NewOpError("new domain", name, err)
	}
	return newDomain(c, opts)
}

func newDomain(c curves.Curve, opts []Option) (*Domain, error) {
	d := &Domain{curve: c, log: zap.NewNop()}
	for _, opt := range opts {
		opt(d)
	}
	// Signing needs arithmetic modulo the order, which must be prime.
	n := c.Order()
	if !n.ProbablyPrime(20) {
		return nil, NewOpError("new domain", c.Name(), errorf(ErrDomainParameter, "order is not prime"))
	}
	scalars, err := primefield.New(n)
	if err != nil {
		return nil, NewOpError("new domain", c.Name(), errorf(ErrDomainParameter, "%v", err))
	}
	d.scalars = scalars
	d.log.Debug("domain ready",
		zap.String("curve", c.Name()),
		zap.Stringer("field", c.Kind()),
		zap.Int("order_bits", n.BitLen()),
		zap.Int("table_entries", c.GeneratorTable().Len()),
	)
	return d, nil
}

func (d *Domain) Name() string { return d.curve.Name() }
func (d *Domain) Kind() FieldKind { return d.curve.Kind() }
func (d *Domain) Params() Params { return d.curve.Params() }
func (d *Domain) Order() *big.Int { return d.curve.Order() }
func (d *Domain) Generator() Point { return d.curve.Generator() }

// ByteLen is the length of one encoded field element.
func (d *Domain) ByteLen() int { return d.curve.ByteLen() }

// ScalarLen is the length of an encoded private scalar.
func (d *Domain) ScalarLen() int { return (d.curve.Order().BitLen() + 7) / 8 }

func (d *Domain) Contains(p Point) bool { return d.curve.Contains(p) }

func (d *Domain) Add(p, q Point) (Point, error) {
	r, err := d.curve.Add(p, q)
	return r, d.wrap("add", err)
}

func (d *Domain) Double(p Point) (Point, error) {
	r, err := d.curve.Double(p)
	return r, d.wrap("double", err)
}

func (d *Domain) Negate(p Point) (Point, error) {
	r, err := d.curve.Negate(p)
	return r, d.wrap("negate", err)
}

func (d *Domain) Subtract(p, q Point) (Point, error) {
	r, err := d.curve.Subtract(p, q)
	return r, d.wrap("subtract", err)
}

// Multiply returns k*p using the constant-time ladder.
func (d *Domain) Multiply(p Point, k *big.Int) (Point, error) {
	r, err := d.curve.Multiply(p, k)
	return r, d.wrap("multiply", err)
}

// MultiplyGenerator returns k*G from the generator table. k must be
// public; use Multiply(Generator(), k) for secrets.
func (d *Domain) MultiplyGenerator(k *big.Int) (Point, error) {
	r, err := d.curve.MultiplyTable(d.curve.GeneratorTable(), k)
	return r, d.wrap("multiply generator", err)
}

// Encode returns the SEC1 encoding of p.
func (d *Domain) Encode(p Point, compressed bool) ([]byte, error) {
	b, err := d.curve.Encode(p, compressed)
	return b, d.wrap("encode", err)
}

// Decode parses a SEC1 encoding.
func (d *Domain) Decode(b []byte) (Point, error) {
	p, err := d.curve.Decode(b)
	return p, d.wrap("decode", err)
}

func (d *Domain) wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return NewOpError(op, d.curve.Name(), err)
}
