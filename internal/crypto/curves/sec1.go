package curves

import "fmt"

// SEC1 point encodings (SEC 1 v2, sections 2.3.3 and 2.3.4).
const (
	tagInfinity     = 0x00
	tagCompressed   = 0x02
	tagUncompressed = 0x04
)

// Encode serializes p. The point at infinity is a single zero byte,
// compressed points are 02|03 || X and uncompressed points are
// 04 || X || Y, with coordinates left-padded to ByteLen.
func (w *weierstrass[E]) Encode(p Point, compressed bool) ([]byte, error) {
	a, err := w.toAffine(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodePoint, err)
	}
	if a.inf {
		return []byte{tagInfinity}, nil
	}
	x := w.ar.encode(a.x)
	if compressed {
		out := make([]byte, 0, 1+len(x))
		out = append(out, tagCompressed|byte(w.ar.yBit(a)))
		return append(out, x...), nil
	}
	y := w.ar.encode(a.y)
	out := make([]byte, 0, 1+len(x)+len(y))
	out = append(out, tagUncompressed)
	out = append(out, x...)
	return append(out, y...), nil
}

// Decode parses any of the three encodings produced by Encode. Hybrid
// encodings (06, 07) are rejected.
func (w *weierstrass[E]) Decode(b []byte) (Point, error) {
	n := w.ar.byteLen()
	if len(b) == 0 {
		return Point{}, fmt.Errorf("%w: %s: empty input", ErrDecodePoint, w.params.Name)
	}
	switch tag := b[0]; {
	case tag == tagInfinity:
		if len(b) != 1 {
			return Point{}, fmt.Errorf("%w: %s: trailing bytes after infinity", ErrDecodePoint, w.params.Name)
		}
		return Infinity(), nil

	case tag == tagUncompressed:
		if len(b) != 1+2*n {
			return Point{}, fmt.Errorf("%w: %s: uncompressed point must be %d bytes, got %d", ErrDecodePoint, w.params.Name, 1+2*n, len(b))
		}
		x, okx := w.ar.decode(b[1 : 1+n])
		y, oky := w.ar.decode(b[1+n:])
		if !okx || !oky {
			return Point{}, fmt.Errorf("%w: %s: coordinate out of range", ErrDecodePoint, w.params.Name)
		}
		a := affine[E]{x: x, y: y}
		if !w.ar.onCurve(a) {
			return Point{}, fmt.Errorf("%w: %s: point is not on the curve", ErrDecodePoint, w.params.Name)
		}
		return w.toPoint(a), nil

	case tag == tagCompressed || tag == tagCompressed|1:
		if len(b) != 1+n {
			return Point{}, fmt.Errorf("%w: %s: compressed point must be %d bytes, got %d", ErrDecodePoint, w.params.Name, 1+n, len(b))
		}
		x, ok := w.ar.decode(b[1:])
		if !ok {
			return Point{}, fmt.Errorf("%w: %s: coordinate out of range", ErrDecodePoint, w.params.Name)
		}
		a, ok := w.ar.decompress(x, uint(tag&1))
		if !ok {
			return Point{}, fmt.Errorf("%w: %s: no point with this x-coordinate", ErrDecodePoint, w.params.Name)
		}
		return w.toPoint(a), nil

	default:
		return Point{}, fmt.Errorf("%w: %s: invalid tag 0x%02x", ErrDecodePoint, w.params.Name, tag)
	}
}
