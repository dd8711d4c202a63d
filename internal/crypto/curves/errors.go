package curves

import "errors"

var (
	// ErrDomainParameter reports curve parameters that do not describe a
	// usable curve: singular or degenerate coefficients, a generator off
	// the curve, or a missing or out of range value.
	ErrDomainParameter = errors.New("curves: invalid domain parameters")

	// ErrNotOnCurve reports a caller-supplied point that fails the curve
	// equation.
	ErrNotOnCurve = errors.New("curves: point is not on the curve")

	// ErrEncodePoint reports a point that cannot be serialized.
	ErrEncodePoint = errors.New("curves: cannot encode point")

	// ErrDecodePoint reports a malformed or invalid SEC1 encoding.
	ErrDecodePoint = errors.New("curves: cannot decode point")

	// ErrUnknownCurve is returned by Named for names outside the catalog.
	ErrUnknownCurve = errors.New("curves: unknown curve")
)
