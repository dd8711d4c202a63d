package primefield

// Inverse returns a^-1 mod p. The zero element has no inverse and maps to
// zero; the point arithmetic never asks for it.
//
// The binary phase computes the almost Montgomery inverse a^-1 * 2^k
// (Kaliski). The correction brings 2^k to R = 2^(64n) with doublings, or
// overshoots with one Montgomery reduction and halves back down, and then
// strips R with a Montgomery reduction.
func (f *Field) Inverse(a Element) Element {
	if f.IsZero(a) {
		return Element{}
	}
	n := f.n
	w := n + 1 // r and s reach up to 2p

	var u, v, r, s, pw [MaxLimbs + 1]uint64
	copy(u[:n], f.p[:n])
	copy(v[:n], a[:n])
	copy(pw[:n], f.p[:n])
	s[0] = 1

	k := 0
	for !isZero(v[:w]) {
		switch {
		case u[0]&1 == 0:
			shr1(u[:w])
			shl1(s[:w])
		case v[0]&1 == 0:
			shr1(v[:w])
			shl1(r[:w])
		case cmp(u[:w], v[:w]) > 0:
			subTo(u[:w], u[:w], v[:w])
			shr1(u[:w])
			addTo(r[:w], r[:w], s[:w])
			shl1(s[:w])
		default:
			subTo(v[:w], v[:w], u[:w])
			shr1(v[:w])
			addTo(s[:w], s[:w], r[:w])
			shl1(r[:w])
		}
		k++
	}

	if cmp(r[:w], pw[:w]) >= 0 {
		subTo(r[:w], r[:w], pw[:w])
	}
	var x Element
	subTo(x[:n], f.p[:n], r[:n])

	rbits := 64 * n
	if k <= rbits {
		for i := 0; i < rbits-k; i++ {
			x = f.Double(x)
		}
		return f.redc(x)
	}
	x = f.redc(x)
	for i := 0; i < k-rbits; i++ {
		x = f.halve(x)
	}
	return x
}

// redc returns t * R^-1 mod p for t < p.
func (f *Field) redc(t Element) Element {
	n := f.n
	var m Element
	mulLowTo(m[:n], t[:n], f.mprime[:n])

	var mp Wide
	mulTo(mp[:2*n], m[:n], f.p[:n])
	var sum [2*MaxLimbs + 1]uint64
	var tw Wide
	copy(tw[:n], t[:n])
	sum[2*n] = addTo(sum[:2*n], mp[:2*n], tw[:2*n])

	// The low n limbs of t + m*p are zero by construction of mprime.
	hi := sum[n : 2*n+1]
	var pw, d [MaxLimbs + 1]uint64
	copy(pw[:n], f.p[:n])
	borrow := subTo(d[:n+1], hi, pw[:n+1])
	var z Element
	selectTo(z[:n], d[:n], hi[:n], -borrow)
	return z
}

// halve returns a/2 mod p.
func (f *Field) halve(a Element) Element {
	n := f.n
	var t [MaxLimbs + 1]uint64
	var pw [MaxLimbs + 1]uint64
	copy(pw[:n], f.p[:n])
	copy(t[:n], a[:n])
	var added [MaxLimbs + 1]uint64
	addTo(added[:n+1], t[:n+1], pw[:n+1])
	selectTo(t[:n+1], t[:n+1], added[:n+1], -(a[0] & 1))
	shr1(t[:n+1])
	var z Element
	copy(z[:n], t[:n])
	return z
}
