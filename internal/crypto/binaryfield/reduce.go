package binaryfield

// Reducer selects how a double-width product is brought below degree m.
// It is chosen once, when the field is built.
type Reducer int

const (
	// Generic eliminates one bit at a time from the top.
	Generic Reducer = iota
	// EC163 folds modulo x^163 + x^7 + x^6 + x^3 + 1.
	EC163
	// EC233 folds modulo x^233 + x^74 + 1.
	EC233
	// EC283 folds modulo x^283 + x^12 + x^7 + x^5 + 1.
	EC283
	// EC409 folds modulo x^409 + x^87 + 1.
	EC409
	// EC571 folds modulo x^571 + x^10 + x^5 + x^2 + 1.
	EC571
)

func (r Reducer) String() string {
	switch r {
	case EC163:
		return "ec163"
	case EC233:
		return "ec233"
	case EC283:
		return "ec283"
	case EC409:
		return "ec409"
	case EC571:
		return "ec571"
	default:
		return "generic"
	}
}

func reducerFor(m, k3, k2, k1 int) Reducer {
	switch [4]int{m, k3, k2, k1} {
	case [4]int{163, 7, 6, 3}:
		return EC163
	case [4]int{233, 0, 0, 74}:
		return EC233
	case [4]int{283, 12, 7, 5}:
		return EC283
	case [4]int{409, 0, 0, 87}:
		return EC409
	case [4]int{571, 10, 5, 2}:
		return EC571
	}
	return Generic
}

// Reduce returns c mod f. c must have degree below 2m-1, which holds for
// any product or square of reduced elements. c is clobbered.
func (f *Field) Reduce(c *Wide) Element {
	switch f.reducer {
	case EC163:
		reduce163(c)
	case EC233:
		reduce233(c)
	case EC283:
		reduce283(c)
	case EC409:
		reduce409(c)
	case EC571:
		reduce571(c)
	default:
		f.reduceModP(c)
	}
	var z Element
	copy(z[:f.words], c[:f.words])
	return z
}

// reduceModP clears bits 2m-2 down to m, adding the shifted reduction
// polynomial under a mask derived from each bit.
func (f *Field) reduceModP(c *Wide) {
	for i := 2*f.m - 2; i >= f.m; i-- {
		bit := (c[i>>6] >> (i & 63)) & 1
		f.addRp(c[:], i-f.m, -bit)
	}
}

// addRp XORs f(x) * x^shift into c where mask is all ones, and does
// nothing where mask is zero.
func (f *Field) addRp(c []uint64, shift int, mask uint64) {
	flipBit(c, shift+f.m, mask)
	if f.k3 != 0 {
		flipBit(c, shift+f.k3, mask)
		flipBit(c, shift+f.k2, mask)
	}
	flipBit(c, shift+f.k1, mask)
	flipBit(c, shift, mask)
}

func flipBit(c []uint64, i int, mask uint64) {
	c[i>>6] ^= (1 << (i & 63)) & mask
}

// The fast reducers below use x^m = r(x) to fold each high word into the
// two words that sit m bits lower, top down, then clear the bits above m
// in the word that contains bit m.

func reduce163(c *Wide) {
	for i := 5; i >= 3; i-- {
		t := c[i]
		c[i-3] ^= t<<29 ^ t<<32 ^ t<<35 ^ t<<36
		c[i-2] ^= t>>35 ^ t>>32 ^ t>>29 ^ t>>28
		c[i] = 0
	}
	t := c[2] >> 35
	c[0] ^= t ^ t<<3 ^ t<<6 ^ t<<7
	c[2] &= 1<<35 - 1
}

func reduce233(c *Wide) {
	for i := 7; i >= 4; i-- {
		t := c[i]
		c[i-4] ^= t << 23
		c[i-3] ^= t>>41 ^ t<<33
		c[i-2] ^= t >> 31
		c[i] = 0
	}
	t := c[3] >> 41
	c[0] ^= t
	c[1] ^= t << 10
	c[3] &= 1<<41 - 1
}

func reduce283(c *Wide) {
	for i := 8; i >= 5; i-- {
		t := c[i]
		c[i-5] ^= t<<37 ^ t<<42 ^ t<<44 ^ t<<49
		c[i-4] ^= t>>27 ^ t>>22 ^ t>>20 ^ t>>15
		c[i] = 0
	}
	t := c[4] >> 27
	c[0] ^= t ^ t<<5 ^ t<<7 ^ t<<12
	c[1] ^= t>>59 ^ t>>57 ^ t>>52
	c[4] &= 1<<27 - 1
}

func reduce409(c *Wide) {
	for i := 12; i >= 7; i-- {
		t := c[i]
		c[i-7] ^= t << 39
		c[i-6] ^= t>>25 ^ t<<62
		c[i-5] ^= t >> 2
		c[i] = 0
	}
	t := c[6] >> 25
	c[0] ^= t
	c[1] ^= t << 23
	c[6] &= 1<<25 - 1
}

func reduce571(c *Wide) {
	for i := 17; i >= 9; i-- {
		t := c[i]
		c[i-9] ^= t<<5 ^ t<<7 ^ t<<10 ^ t<<15
		c[i-8] ^= t>>59 ^ t>>57 ^ t>>54 ^ t>>49
		c[i] = 0
	}
	t := c[8] >> 59
	c[0] ^= t ^ t<<2 ^ t<<5 ^ t<<10
	c[8] &= 1<<59 - 1
}
