package ecc

import (
	"fmt"

	"github.com/smallyu/go-ecc/internal/crypto/curves"
	"github.com/smallyu/go-ecc/internal/crypto/montgomery"
)

// Error kinds. Every error returned by this package wraps one of these or
// an I/O error, so callers can test with errors.Is.
var (
	ErrDomainParameter = curves.ErrDomainParameter
	ErrNotOnCurve      = curves.ErrNotOnCurve
	ErrEncodePoint     = curves.ErrEncodePoint
	ErrDecodePoint     = curves.ErrDecodePoint
	ErrUnknownCurve    = curves.ErrUnknownCurve
	ErrSmallOrder      = montgomery.ErrSmallOrder
)

// OpError records the operation and curve that failed.
type OpError struct {
	Op    string
	Curve string
	Err   error
}

func (e *OpError) Error() string {
	if e.Curve != "" {
		return fmt.Sprintf("ecc: %s on %s: %v", e.Op, e.Curve, e.Err)
	}
	return fmt.Sprintf("ecc: %s: %v", e.Op, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// NewOpError creates a new OpError.
func NewOpError(op, curve string, err error) *OpError {
	return &OpError{
		Op:    op,
		Curve: curve,
		Err:   err,
	}
}

// errorf wraps kind with a formatted detail.
func errorf(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{kind}, args...)...)
}
