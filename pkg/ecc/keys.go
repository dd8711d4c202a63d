package ecc

import (
	crand "crypto/rand"
	"crypto/subtle"
	"io"
	"math/big"

	"go.uber.org/zap"

	"github.com/smallyu/go-ecc/internal/crypto/curves"
)

// PublicKey is a validated curve point with its own fixed-base table. It
// is immutable.
type PublicKey struct {
	domain       *Domain
	point        Point
	table        *curves.Table
	compressed   []byte
	uncompressed []byte
}

// PrivateKey is a scalar in [1, N-1] and its public key.
type PrivateKey struct {
	domain *Domain
	d      *big.Int
	pub    *PublicKey
}

// NewPublicKey validates q and precomputes its table. q must be on the
// curve, must not be the point at infinity, and must have order N when
// the cofactor is not 1.
func NewPublicKey(d *Domain, q Point) (*PublicKey, error) {
	if err := d.checkPublic(q); err != nil {
		d.log.Debug("public key rejected", zap.String("curve", d.Name()), zap.Error(err))
		return nil, NewOpError("public key", d.Name(), err)
	}
	table, err := d.curve.Precompute(q)
	if err != nil {
		return nil, NewOpError("public key", d.Name(), err)
	}
	pub := &PublicKey{domain: d, point: curves.NewPoint(q.X, q.Y), table: table}
	if pub.compressed, err = d.curve.Encode(q, true); err != nil {
		return nil, NewOpError("public key", d.Name(), err)
	}
	if pub.uncompressed, err = d.curve.Encode(q, false); err != nil {
		return nil, NewOpError("public key", d.Name(), err)
	}
	return pub, nil
}

func (d *Domain) checkPublic(q Point) error {
	if q.Infinity {
		return errorf(ErrNotOnCurve, "public key is the point at infinity")
	}
	if !d.curve.Contains(q) {
		return ErrNotOnCurve
	}
	if d.curve.Cofactor() != 1 {
		nq, err := d.curve.Multiply(q, d.curve.Order())
		if err != nil {
			return err
		}
		if !nq.Infinity {
			return errorf(ErrNotOnCurve, "public key is outside the prime-order subgroup")
		}
	}
	return nil
}

// ParsePublicKey decodes a SEC1 encoded public key.
func ParsePublicKey(d *Domain, b []byte) (*PublicKey, error) {
	q, err := d.curve.Decode(b)
	if err != nil {
		return nil, NewOpError("parse public key", d.Name(), err)
	}
	return NewPublicKey(d, q)
}

func (k *PublicKey) Domain() *Domain { return k.domain }

// Point returns a copy of the key's point.
func (k *PublicKey) Point() Point { return curves.NewPoint(k.point.X, k.point.Y) }

// Bytes returns the SEC1 encoding of the key.
func (k *PublicKey) Bytes(compressed bool) []byte {
	if compressed {
		return append([]byte(nil), k.compressed...)
	}
	return append([]byte(nil), k.uncompressed...)
}

// Equal reports whether k and other are the same point on the same domain.
func (k *PublicKey) Equal(other *PublicKey) bool {
	return other != nil && k.domain.Name() == other.domain.Name() && k.point.Equal(other.point)
}

// multiply returns s times the key point from the key's table. s must be
// public.
func (k *PublicKey) multiply(s *big.Int) (Point, error) {
	return k.domain.curve.MultiplyTable(k.table, s)
}

// GenerateKey returns a private key with a uniformly random scalar in
// [1, N-1] read from rand.
func GenerateKey(rand io.Reader, d *Domain) (*PrivateKey, error) {
	s, err := randScalar(rand, d.Order())
	if err != nil {
		return nil, NewOpError("generate key", d.Name(), err)
	}
	return NewPrivateKey(d, s)
}

// NewPrivateKey builds the key pair for scalar s, which must lie in
// [1, N-1].
func NewPrivateKey(d *Domain, s *big.Int) (*PrivateKey, error) {
	n := d.Order()
	if s == nil || s.Sign() <= 0 || s.Cmp(n) >= 0 {
		return nil, NewOpError("private key", d.Name(), errorf(ErrDomainParameter, "scalar out of range"))
	}
	q, err := d.curve.Multiply(d.curve.Generator(), s)
	if err != nil {
		return nil, NewOpError("private key", d.Name(), err)
	}
	pub, err := NewPublicKey(d, q)
	if err != nil {
		return nil, err
	}
	return &PrivateKey{domain: d, d: new(big.Int).Set(s), pub: pub}, nil
}

// ParsePrivateKey decodes a big-endian scalar of Domain.ScalarLen bytes.
func ParsePrivateKey(d *Domain, b []byte) (*PrivateKey, error) {
	if len(b) != d.ScalarLen() {
		return nil, NewOpError("parse private key", d.Name(), errorf(ErrDomainParameter, "scalar must be %d bytes, got %d", d.ScalarLen(), len(b)))
	}
	return NewPrivateKey(d, new(big.Int).SetBytes(b))
}

func (k *PrivateKey) Domain() *Domain { return k.domain }
func (k *PrivateKey) Public() *PublicKey { return k.pub }

// D returns a copy of the scalar.
func (k *PrivateKey) D() *big.Int { return new(big.Int).Set(k.d) }

// Bytes returns the scalar as ScalarLen big-endian bytes.
func (k *PrivateKey) Bytes() []byte {
	return k.d.FillBytes(make([]byte, k.domain.ScalarLen()))
}

// Equal compares two private keys in constant time.
func (k *PrivateKey) Equal(other *PrivateKey) bool {
	if other == nil || k.domain.Name() != other.domain.Name() {
		return false
	}
	return subtle.ConstantTimeCompare(k.Bytes(), other.Bytes()) == 1
}

// randScalar returns a uniform integer in [1, n-1].
func randScalar(rand io.Reader, n *big.Int) (*big.Int, error) {
	k, err := crand.Int(rand, new(big.Int).Sub(n, big.NewInt(1)))
	if err != nil {
		return nil, err
	}
	return k.Add(k, big.NewInt(1)), nil
}
