package ecc

import "go.uber.org/zap"

// ECDH returns the x-coordinate of priv*pub, encoded as a field element of
// ByteLen bytes. Both keys must belong to the same domain. On curves with
// a cofactor the public key has already been checked to lie in the
// prime-order subgroup, so the result is never the point at infinity for
// a valid key pair.
func ECDH(priv *PrivateKey, pub *PublicKey) ([]byte, error) {
	d := priv.domain
	if pub.domain.Name() != d.Name() {
		return nil, NewOpError("ecdh", d.Name(), errorf(ErrDomainParameter, "public key is on %s", pub.domain.Name()))
	}
	s, err := d.curve.Multiply(pub.point, priv.d)
	if err != nil {
		return nil, NewOpError("ecdh", d.Name(), err)
	}
	if s.Infinity {
		d.log.Debug("shared point at infinity", zap.String("curve", d.Name()))
		return nil, NewOpError("ecdh", d.Name(), errorf(ErrNotOnCurve, "shared point is the point at infinity"))
	}
	z, err := d.curve.CoordinateBytes(s.X)
	if err != nil {
		return nil, NewOpError("ecdh", d.Name(), err)
	}
	return z, nil
}
