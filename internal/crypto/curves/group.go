package curves

import (
	"fmt"
	"math/big"
)

// affine is a point in limb form. The point at infinity has inf set and
// meaningless coordinates.
type affine[E any] struct {
	x, y E
	inf  bool
}

// arith is the field and group-law layer of one curve family. The group
// law methods assume their inputs are on the curve.
type arith[E any] interface {
	kind() FieldKind
	byteLen() int
	// fromBig accepts only canonical values.
	fromBig(x *big.Int) (E, bool)
	toBig(a E) *big.Int
	encode(a E) []byte
	decode(b []byte) (E, bool)
	sel(a, b E, cond int) E

	add(p, q affine[E]) affine[E]
	double(p affine[E]) affine[E]
	negate(p affine[E]) affine[E]
	onCurve(p affine[E]) bool
	// yBit is the SEC1 compression bit of a finite point.
	yBit(p affine[E]) uint
	decompress(x E, yBit uint) (affine[E], bool)
}

func selectPoint[E any](ar arith[E], a, b affine[E], cond int) affine[E] {
	ai, bi := boolInt(a.inf), boolInt(b.inf)
	return affine[E]{
		x:   ar.sel(a.x, b.x, cond),
		y:   ar.sel(a.y, b.y, cond),
		inf: ai^(-(cond&1)&(ai^bi)) == 1,
	}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func swapPoints[E any](ar arith[E], a, b *affine[E], cond int) {
	na := selectPoint(ar, *a, *b, cond)
	nb := selectPoint(ar, *b, *a, cond)
	*a, *b = na, nb
}

// ladder returns k*p over the low bits of k. Each step does one addition
// and one doubling and picks operands with a masked swap.
func ladder[E any](ar arith[E], p affine[E], k *big.Int, bits int) affine[E] {
	r0 := affine[E]{inf: true}
	r1 := p
	for i := bits - 1; i >= 0; i-- {
		b := int(k.Bit(i))
		swapPoints(ar, &r0, &r1, b)
		r1 = ar.add(r0, r1)
		r0 = ar.double(r0)
		swapPoints(ar, &r0, &r1, b)
	}
	return r0
}

// precompute returns {p, 16p, 16^2 p, ...} with d entries.
func precompute[E any](ar arith[E], p affine[E], d int) []affine[E] {
	t := make([]affine[E], d)
	t[0] = p
	for i := 1; i < d; i++ {
		q := t[i-1]
		for j := 0; j < 4; j++ {
			q = ar.double(q)
		}
		t[i] = q
	}
	return t
}

// multiplyTable is the fixed-base windowing method with w = 4 (Guide to
// ECC, algorithm 3.41). k must fit in 4*len(t) bits.
func multiplyTable[E any](ar arith[E], t []affine[E], k *big.Int) affine[E] {
	digits := make([]int, len(t))
	for i := range digits {
		digits[i] = int(k.Bit(4*i)) | int(k.Bit(4*i+1))<<1 | int(k.Bit(4*i+2))<<2 | int(k.Bit(4*i+3))<<3
	}
	a := affine[E]{inf: true}
	b := affine[E]{inf: true}
	for j := 15; j >= 1; j-- {
		for i, d := range digits {
			if d == j {
				b = ar.add(b, t[i])
			}
		}
		a = ar.add(a, b)
	}
	return a
}

// Table holds the fixed-base multiples of one point on one curve. It is
// immutable once built.
type Table struct {
	curve   string
	owner   any
	base    Point
	entries any // []affine[E] of the owning curve
	size    int
}

// Len returns the number of entries, ceil(bitlen(N)/4).
func (t *Table) Len() int { return t.size }

// Base returns the point the table was built from.
func (t *Table) Base() Point { return clonePoint(t.base) }

// CurveName returns the name of the curve that built the table.
func (t *Table) CurveName() string { return t.curve }

func clonePoint(p Point) Point {
	if p.Infinity {
		return Infinity()
	}
	return NewPoint(p.X, p.Y)
}

// weierstrass implements Curve for either field family.
type weierstrass[E any] struct {
	params Params
	ar     arith[E]
	g      affine[E]
	bits   int // bitlen(N)
	gTable *Table
}

func newWeierstrass[E any](params Params, ar arith[E]) (*weierstrass[E], error) {
	w := &weierstrass[E]{
		params: params.Clone(),
		ar:     ar,
		bits:   params.N.BitLen(),
	}
	gx, okx := ar.fromBig(params.Gx)
	gy, oky := ar.fromBig(params.Gy)
	if !okx || !oky {
		return nil, fmt.Errorf("%w: %s: generator coordinate out of range", ErrDomainParameter, params.Name)
	}
	w.g = affine[E]{x: gx, y: gy}
	if !ar.onCurve(w.g) {
		return nil, fmt.Errorf("%w: %s: generator is not on the curve", ErrDomainParameter, params.Name)
	}
	w.gTable = w.newTable(w.g)
	return w, nil
}

func (w *weierstrass[E]) isCurve() {}

func (w *weierstrass[E]) Name() string { return w.params.Name }
func (w *weierstrass[E]) Kind() FieldKind { return w.ar.kind() }
func (w *weierstrass[E]) Params() Params { return w.params.Clone() }
func (w *weierstrass[E]) Order() *big.Int { return new(big.Int).Set(w.params.N) }
func (w *weierstrass[E]) Cofactor() int { return w.params.H }
func (w *weierstrass[E]) ByteLen() int { return w.ar.byteLen() }
func (w *weierstrass[E]) Generator() Point { return w.toPoint(w.g) }

func (w *weierstrass[E]) GeneratorTable() *Table { return w.gTable }

func (w *weierstrass[E]) toPoint(p affine[E]) Point {
	if p.inf {
		return Infinity()
	}
	return Point{X: w.ar.toBig(p.x), Y: w.ar.toBig(p.y)}
}

// toAffine converts and validates a caller-supplied point.
func (w *weierstrass[E]) toAffine(p Point) (affine[E], error) {
	if p.Infinity {
		return affine[E]{inf: true}, nil
	}
	if p.X == nil || p.Y == nil {
		return affine[E]{}, fmt.Errorf("%w: %s: missing coordinate", ErrNotOnCurve, w.params.Name)
	}
	x, okx := w.ar.fromBig(p.X)
	y, oky := w.ar.fromBig(p.Y)
	if !okx || !oky {
		return affine[E]{}, fmt.Errorf("%w: %s: coordinate out of range", ErrNotOnCurve, w.params.Name)
	}
	a := affine[E]{x: x, y: y}
	if !w.ar.onCurve(a) {
		return affine[E]{}, fmt.Errorf("%w: %s", ErrNotOnCurve, w.params.Name)
	}
	return a, nil
}

func (w *weierstrass[E]) Contains(p Point) bool {
	_, err := w.toAffine(p)
	return err == nil
}

func (w *weierstrass[E]) Add(p, q Point) (Point, error) {
	a, err := w.toAffine(p)
	if err != nil {
		return Point{}, err
	}
	b, err := w.toAffine(q)
	if err != nil {
		return Point{}, err
	}
	return w.toPoint(w.ar.add(a, b)), nil
}

func (w *weierstrass[E]) Double(p Point) (Point, error) {
	a, err := w.toAffine(p)
	if err != nil {
		return Point{}, err
	}
	return w.toPoint(w.ar.double(a)), nil
}

func (w *weierstrass[E]) Negate(p Point) (Point, error) {
	a, err := w.toAffine(p)
	if err != nil {
		return Point{}, err
	}
	return w.toPoint(w.ar.negate(a)), nil
}

func (w *weierstrass[E]) Subtract(p, q Point) (Point, error) {
	a, err := w.toAffine(p)
	if err != nil {
		return Point{}, err
	}
	b, err := w.toAffine(q)
	if err != nil {
		return Point{}, err
	}
	return w.toPoint(w.ar.add(a, w.ar.negate(b))), nil
}

func (w *weierstrass[E]) scalar(k *big.Int) (*big.Int, error) {
	if k == nil {
		return nil, fmt.Errorf("curves: %s: nil scalar", w.params.Name)
	}
	if k.Sign() < 0 {
		return new(big.Int).Mod(k, w.params.N), nil
	}
	return k, nil
}

func (w *weierstrass[E]) Multiply(p Point, k *big.Int) (Point, error) {
	a, err := w.toAffine(p)
	if err != nil {
		return Point{}, err
	}
	k, err = w.scalar(k)
	if err != nil {
		return Point{}, err
	}
	bits := w.bits
	if k.BitLen() > bits {
		bits = k.BitLen()
	}
	return w.toPoint(ladder(w.ar, a, k, bits)), nil
}

func (w *weierstrass[E]) newTable(p affine[E]) *Table {
	d := (w.bits + 3) / 4
	return &Table{
		curve:   w.params.Name,
		owner:   w,
		base:    w.toPoint(p),
		entries: precompute(w.ar, p, d),
		size:    d,
	}
}

func (w *weierstrass[E]) Precompute(p Point) (*Table, error) {
	a, err := w.toAffine(p)
	if err != nil {
		return nil, err
	}
	return w.newTable(a), nil
}

func (w *weierstrass[E]) MultiplyTable(t *Table, k *big.Int) (Point, error) {
	if t == nil || t.owner != any(w) {
		return Point{}, fmt.Errorf("curves: %s: table belongs to another curve", w.params.Name)
	}
	entries := t.entries.([]affine[E])
	k, err := w.scalar(k)
	if err != nil {
		return Point{}, err
	}
	if k.BitLen() > 4*len(entries) {
		// Exact when the base has order N, as generators and validated
		// public keys do.
		k = new(big.Int).Mod(k, w.params.N)
	}
	return w.toPoint(multiplyTable(w.ar, entries, k)), nil
}

func (w *weierstrass[E]) CoordinateBytes(x *big.Int) ([]byte, error) {
	e, ok := w.ar.fromBig(x)
	if !ok {
		return nil, fmt.Errorf("%w: %s: coordinate out of range", ErrEncodePoint, w.params.Name)
	}
	return w.ar.encode(e), nil
}
