package primefield

import "math/bits"

// Multi-precision helpers over little-endian uint64 slices. All of them
// operate on the full slice length given by the caller.

// addTo sets z = x + y and returns the carry out.
func addTo(z, x, y []uint64) uint64 {
	var c uint64
	for i := range z {
		z[i], c = bits.Add64(x[i], y[i], c)
	}
	return c
}

// subTo sets z = x - y and returns the borrow out.
func subTo(z, x, y []uint64) uint64 {
	var b uint64
	for i := range z {
		z[i], b = bits.Sub64(x[i], y[i], b)
	}
	return b
}

// mulTo sets z = x * y. len(z) must be len(x)+len(y).
func mulTo(z, x, y []uint64) {
	for i := range z {
		z[i] = 0
	}
	for i, xi := range x {
		var carry uint64
		for j, yj := range y {
			hi, lo := bits.Mul64(xi, yj)
			var c uint64
			lo, c = bits.Add64(lo, z[i+j], 0)
			hi += c
			lo, c = bits.Add64(lo, carry, 0)
			hi += c
			z[i+j] = lo
			carry = hi
		}
		z[i+len(y)] = carry
	}
}

// mulLowTo sets z = x * y mod 2^(64*len(z)).
func mulLowTo(z, x, y []uint64) {
	n := len(z)
	for i := range z {
		z[i] = 0
	}
	for i := 0; i < n && i < len(x); i++ {
		var carry uint64
		for j := 0; i+j < n && j < len(y); j++ {
			hi, lo := bits.Mul64(x[i], y[j])
			var c uint64
			lo, c = bits.Add64(lo, z[i+j], 0)
			hi += c
			lo, c = bits.Add64(lo, carry, 0)
			hi += c
			z[i+j] = lo
			carry = hi
		}
		if i+len(y) < n {
			z[i+len(y)] = carry
		}
	}
}

// selectTo sets z = x when mask is zero and z = y when mask is all ones.
func selectTo(z, x, y []uint64, mask uint64) {
	for i := range z {
		z[i] = x[i] ^ (mask & (x[i] ^ y[i]))
	}
}

func shr1(x []uint64) {
	for i := 0; i < len(x)-1; i++ {
		x[i] = x[i]>>1 | x[i+1]<<63
	}
	x[len(x)-1] >>= 1
}

func shl1(x []uint64) {
	for i := len(x) - 1; i > 0; i-- {
		x[i] = x[i]<<1 | x[i-1]>>63
	}
	x[0] <<= 1
}

func isZero(x []uint64) bool {
	var acc uint64
	for _, w := range x {
		acc |= w
	}
	return acc == 0
}

// cmp returns -1, 0 or +1. It is variable time.
func cmp(x, y []uint64) int {
	for i := len(x) - 1; i >= 0; i-- {
		switch {
		case x[i] > y[i]:
			return 1
		case x[i] < y[i]:
			return -1
		}
	}
	return 0
}
