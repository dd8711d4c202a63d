package ecc

import (
	"crypto/ed25519"
	"crypto/sha512"

	"github.com/smallyu/go-ecc/internal/crypto/montgomery"
)

const (
	// X25519Size is the length of X25519 keys and shared secrets.
	X25519Size = montgomery.X25519Size
	// X448Size is the length of X448 keys and shared secrets.
	X448Size = montgomery.X448Size
)

// X25519 computes the RFC 7748 function on Curve25519. It fails with
// ErrSmallOrder when the result is all zeros.
func X25519(scalar, point []byte) ([]byte, error) {
	var k, u [X25519Size]byte
	if len(scalar) != X25519Size || len(point) != X25519Size {
		return nil, NewOpError("x25519", "curve25519", errorf(ErrDecodePoint, "inputs must be %d bytes", X25519Size))
	}
	copy(k[:], scalar)
	copy(u[:], point)
	out, err := montgomery.X25519(k, u)
	if err != nil {
		return nil, NewOpError("x25519", "curve25519", err)
	}
	return out[:], nil
}

// X25519Base returns the public key for scalar.
func X25519Base(scalar []byte) ([]byte, error) {
	return X25519(scalar, montgomery.Basepoint25519[:])
}

// X448 computes the RFC 7748 function on Curve448.
func X448(scalar, point []byte) ([]byte, error) {
	var k, u [X448Size]byte
	if len(scalar) != X448Size || len(point) != X448Size {
		return nil, NewOpError("x448", "curve448", errorf(ErrDecodePoint, "inputs must be %d bytes", X448Size))
	}
	copy(k[:], scalar)
	copy(u[:], point)
	out, err := montgomery.X448(k, u)
	if err != nil {
		return nil, NewOpError("x448", "curve448", err)
	}
	return out[:], nil
}

// X448Base returns the public key for scalar.
func X448Base(scalar []byte) ([]byte, error) {
	return X448(scalar, montgomery.Basepoint448[:])
}

// X25519FromEd25519 converts an Ed25519 public key to an X25519 public key.
func X25519FromEd25519(pub ed25519.PublicKey) ([]byte, error) {
	if len(pub) != ed25519.PublicKeySize {
		return nil, NewOpError("x25519 from ed25519", "curve25519", errorf(ErrDecodePoint, "public key must be %d bytes", ed25519.PublicKeySize))
	}
	u, err := montgomery.Ed25519PublicKeyToX25519(pub)
	if err != nil {
		return nil, NewOpError("x25519 from ed25519", "curve25519", errorf(ErrDecodePoint, "%v", err))
	}
	return u[:], nil
}

// X25519PrivateFromEd25519 derives the X25519 scalar matching an Ed25519
// private key: the first half of SHA-512 of the seed.
func X25519PrivateFromEd25519(priv ed25519.PrivateKey) ([]byte, error) {
	if len(priv) != ed25519.PrivateKeySize {
		return nil, NewOpError("x25519 from ed25519", "curve25519", errorf(ErrDomainParameter, "private key must be %d bytes", ed25519.PrivateKeySize))
	}
	h := sha512.Sum512(priv.Seed())
	return h[:X25519Size], nil
}
