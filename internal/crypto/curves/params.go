package curves

import (
	"fmt"
	"math/big"
)

// FieldKind tells prime curves from binary curves.
type FieldKind int

const (
	PrimeField FieldKind = iota + 1
	BinaryField
)

func (k FieldKind) String() string {
	switch k {
	case PrimeField:
		return "prime"
	case BinaryField:
		return "binary"
	default:
		return "unknown"
	}
}

// Params are the domain parameters of a Weierstrass curve. Prime curves
// set P and leave M zero; binary curves set the reduction polynomial
// x^M + x^K3 + x^K2 + x^K1 + 1 (K3 = K2 = 0 for a trinomial) and leave P
// nil. Binary field values use the polynomial basis bit order.
type Params struct {
	Name string
	OID  string

	P *big.Int

	M, K3, K2, K1 int

	A, B   *big.Int
	Gx, Gy *big.Int
	N      *big.Int
	H      int
}

func (p Params) kind() (FieldKind, error) {
	switch {
	case p.P != nil && p.M != 0:
		return 0, fmt.Errorf("%w: both a prime modulus and a binary polynomial are set", ErrDomainParameter)
	case p.P != nil:
		return PrimeField, nil
	case p.M != 0:
		return BinaryField, nil
	}
	return 0, fmt.Errorf("%w: no field given", ErrDomainParameter)
}

// Kind reports the field family, or 0 if the parameters name neither or
// both.
func (p Params) Kind() FieldKind {
	k, _ := p.kind()
	return k
}

func copyInt(x *big.Int) *big.Int {
	if x == nil {
		return nil
	}
	return new(big.Int).Set(x)
}

// Clone returns a deep copy of p.
func (p Params) Clone() Params {
	c := p
	c.P = copyInt(p.P)
	c.A = copyInt(p.A)
	c.B = copyInt(p.B)
	c.Gx = copyInt(p.Gx)
	c.Gy = copyInt(p.Gy)
	c.N = copyInt(p.N)
	return c
}

// checkCommon validates what both field families share.
func (p Params) checkCommon() error {
	if p.Name == "" {
		return fmt.Errorf("%w: missing name", ErrDomainParameter)
	}
	for _, v := range []struct {
		name string
		x    *big.Int
	}{{"a", p.A}, {"b", p.B}, {"gx", p.Gx}, {"gy", p.Gy}, {"n", p.N}} {
		if v.x == nil {
			return fmt.Errorf("%w: %s: missing %s", ErrDomainParameter, p.Name, v.name)
		}
		if v.x.Sign() < 0 {
			return fmt.Errorf("%w: %s: negative %s", ErrDomainParameter, p.Name, v.name)
		}
	}
	if p.N.Cmp(big.NewInt(2)) < 0 {
		return fmt.Errorf("%w: %s: order must be at least 2", ErrDomainParameter, p.Name)
	}
	if p.H < 1 {
		return fmt.Errorf("%w: %s: cofactor must be positive", ErrDomainParameter, p.Name)
	}
	return nil
}
