package ecc

import (
	"crypto"
	_ "crypto/sha256" // registers SHA-224 and SHA-256
	_ "crypto/sha512" // registers SHA-384 and SHA-512
	"io"
	"math/big"

	"go.uber.org/zap"
	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"
)

// maxSignAttempts bounds the retry loop for r = 0 or s = 0, which only
// happens with negligible probability on a real curve.
const maxSignAttempts = 64

// Hash returns the digest function matched to the order size: SHA-256
// up to 256 bits, SHA-384 up to 384 bits and SHA-512 above.
func (d *Domain) Hash() crypto.Hash {
	switch bits := d.Order().BitLen(); {
	case bits <= 256:
		return crypto.SHA256
	case bits <= 384:
		return crypto.SHA384
	default:
		return crypto.SHA512
	}
}

// Digest hashes msg with Domain.Hash.
func (d *Domain) Digest(msg []byte) []byte {
	h := d.Hash().New()
	h.Write(msg)
	return h.Sum(nil)
}

// hashToInt converts a digest to an integer, keeping the leftmost
// bitlen(N) bits as SEC1 4.1.3 prescribes.
func hashToInt(digest []byte, n *big.Int) *big.Int {
	orderBits := n.BitLen()
	orderBytes := (orderBits + 7) / 8
	if len(digest) > orderBytes {
		digest = digest[:orderBytes]
	}
	e := new(big.Int).SetBytes(digest)
	if excess := len(digest)*8 - orderBits; excess > 0 {
		e.Rsh(e, uint(excess))
	}
	return e
}

// Sign signs digest with priv. The nonce is read from rand and the
// nonce multiplication runs on the constant-time ladder.
func Sign(rand io.Reader, priv *PrivateKey, digest []byte) (r, s *big.Int, err error) {
	d := priv.domain
	n := d.Order()
	f := d.scalars

	// 1. Truncate the digest to the order length
	e := f.FromBig(hashToInt(digest, n))
	x := f.FromBig(priv.d)

	for attempt := 0; attempt < maxSignAttempts; attempt++ {
		// 2. Generate random nonce k
		k, err := randScalar(rand, n)
		if err != nil {
			return nil, nil, NewOpError("sign", d.Name(), err)
		}

		// 3. Compute R = k*G and r = R.x mod N
		R, err := d.curve.Multiply(d.curve.Generator(), k)
		if err != nil {
			return nil, nil, NewOpError("sign", d.Name(), err)
		}
		rr := f.FromBig(R.X)
		if f.IsZero(rr) {
			continue
		}

		// 4. s = k^-1 * (e + r*d) mod N, with k^-1 = k^(N-2)
		kInv := f.Exp(f.FromBig(k), new(big.Int).Sub(n, big.NewInt(2)))
		ss := f.Mul(kInv, f.Add(e, f.Mul(rr, x)))
		if f.IsZero(ss) {
			continue
		}
		return f.Big(rr), f.Big(ss), nil
	}
	d.log.Warn("signing gave up", zap.String("curve", d.Name()), zap.Int("attempts", maxSignAttempts))
	return nil, nil, NewOpError("sign", d.Name(), errorf(ErrDomainParameter, "no valid nonce after %d attempts", maxSignAttempts))
}

// Verify reports whether (r, s) is a valid signature of digest under pub.
func Verify(pub *PublicKey, digest []byte, r, s *big.Int) bool {
	d := pub.domain
	n := d.Order()
	f := d.scalars

	// 1. Range check r and s
	if r == nil || s == nil || r.Sign() <= 0 || s.Sign() <= 0 || r.Cmp(n) >= 0 || s.Cmp(n) >= 0 {
		return false
	}

	// 2. u1 = e/s and u2 = r/s mod N
	e := f.FromBig(hashToInt(digest, n))
	w := f.Inverse(f.FromBig(s))
	u1 := f.Big(f.Mul(e, w))
	u2 := f.Big(f.Mul(f.FromBig(r), w))

	// 3. X = u1*G + u2*Q from the two tables
	p1, err := d.curve.MultiplyTable(d.curve.GeneratorTable(), u1)
	if err != nil {
		return false
	}
	p2, err := pub.multiply(u2)
	if err != nil {
		return false
	}
	X, err := d.curve.Add(p1, p2)
	if err != nil || X.Infinity {
		return false
	}

	// 4. Accept if X.x mod N == r
	return f.Equal(f.FromBig(X.X), f.FromBig(r))
}

// SignASN1 signs digest and returns the DER SEQUENCE { r, s }.
func SignASN1(rand io.Reader, priv *PrivateKey, digest []byte) ([]byte, error) {
	r, s, err := Sign(rand, priv, digest)
	if err != nil {
		return nil, err
	}
	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1BigInt(r)
		b.AddASN1BigInt(s)
	})
	return b.Bytes()
}

// VerifyASN1 reports whether sig, a DER SEQUENCE { r, s }, is a valid
// signature of digest under pub.
func VerifyASN1(pub *PublicKey, digest, sig []byte) bool {
	r, s, ok := parseSignature(sig)
	if !ok {
		return false
	}
	return Verify(pub, digest, r, s)
}

func parseSignature(sig []byte) (r, s *big.Int, ok bool) {
	var inner cryptobyte.String
	input := cryptobyte.String(sig)
	r, s = new(big.Int), new(big.Int)
	if !input.ReadASN1(&inner, asn1.SEQUENCE) ||
		!input.Empty() ||
		!inner.ReadASN1Integer(r) ||
		!inner.ReadASN1Integer(s) ||
		!inner.Empty() {
		return nil, nil, false
	}
	return r, s, true
}
