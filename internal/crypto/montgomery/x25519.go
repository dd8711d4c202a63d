package montgomery

import (
	"fmt"

	"filippo.io/edwards25519"
	"filippo.io/edwards25519/field"
	"github.com/smallyu/go-ecc/internal/crypto/field448"
)

const (
	// X25519Size is the length of X25519 scalars, u-coordinates and shared secrets.
	X25519Size = 32
	// X448Size is the length of X448 scalars, u-coordinates and shared secrets.
	X448Size = 56

	a24Curve25519 = 121665
	a24Curve448   = 39081
)

// Base points: u = 9 on Curve25519 and u = 5 on Curve448.
var (
	Basepoint25519 = [X25519Size]byte{9}
	Basepoint448   = [X448Size]byte{5}
)

// X25519 returns the u-coordinate of k*u on Curve25519. The scalar is
// clamped and the top bit of u is ignored.
func X25519(k, u [X25519Size]byte) ([X25519Size]byte, error) {
	k[0] &= 248
	k[31] &= 127
	k[31] |= 64

	var out [X25519Size]byte
	r, err := ladder[field.Element](k[:], u[:], 255, a24Curve25519)
	if err != nil {
		return out, err
	}
	copy(out[:], r)
	return out, nil
}

// X448 returns the u-coordinate of k*u on Curve448. The scalar is clamped.
func X448(k, u [X448Size]byte) ([X448Size]byte, error) {
	k[0] &= 252
	k[55] |= 128

	var out [X448Size]byte
	r, err := ladder[field448.Element](k[:], u[:], 448, a24Curve448)
	if err != nil {
		return out, err
	}
	copy(out[:], r)
	return out, nil
}

// Ed25519PublicKeyToX25519 maps an encoded Ed25519 public key to the
// u-coordinate of the birationally equivalent Curve25519 point.
func Ed25519PublicKeyToX25519(pub []byte) ([X25519Size]byte, error) {
	var out [X25519Size]byte
	p, err := edwards25519.NewIdentityPoint().SetBytes(pub)
	if err != nil {
		return out, fmt.Errorf("montgomery: invalid ed25519 public key: %w", err)
	}
	copy(out[:], p.BytesMontgomery())
	return out, nil
}
