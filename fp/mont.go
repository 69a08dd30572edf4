package fp

import "math/bits"

// macWithCarry returns a*b + c + carry as (low limb, new carry),
// mirroring the device mac_with_carry helpers.
func (f *Field) macWithCarry(a, b, c, carry uint64) (uint64, uint64) {
	if f.limbBits == LimbBits32 {
		res := a*b + c + carry
		return res & f.mask, res >> 32
	}
	hi, lo := bits.Mul64(a, b)
	lo, c1 := bits.Add64(lo, c, 0)
	lo, c2 := bits.Add64(lo, carry, 0)
	return lo, hi + c1 + c2
}

// addWithCarry returns a + carry as (low limb, new carry), mirroring the
// device add_with_carry helpers.
func (f *Field) addWithCarry(a, carry uint64) (uint64, uint64) {
	if f.limbBits == LimbBits32 {
		res := a + carry
		return res & f.mask, res >> 32
	}
	lo, c := bits.Add64(a, carry, 0)
	return lo, c
}

// Mul is the Montgomery product a*b*R^-1 mod p via CIOS, the exact
// schedule of the emitted mul_default: per limb of b one multiplication
// pass and one interleaved reduction pass over a LIMBS+2 accumulator.
func (f *Field) Mul(a, b Element) Element {
	n := f.limbs
	t := make([]uint64, n+2)
	for i := 0; i < n; i++ {
		var carry uint64
		for j := 0; j < n; j++ {
			t[j], carry = f.macWithCarry(a[j], b[i], t[j], carry)
		}
		t[n], carry = f.addWithCarry(t[n], carry)
		t[n+1] = carry

		carry = 0
		m := (f.inv * t[0]) & f.mask
		_, carry = f.macWithCarry(m, f.p[0], t[0], carry)
		for j := 1; j < n; j++ {
			t[j-1], carry = f.macWithCarry(m, f.p[j], t[j], carry)
		}
		t[n-1], carry = f.addWithCarry(t[n], carry)
		t[n] = (t[n+1] + carry) & f.mask
	}

	res := Element(append([]uint64(nil), t[:n]...))
	if t[n] != 0 || gteLimbs(res, f.p) {
		res = f.subRaw(res, f.p)
	}
	return res
}

// chain models the PTX carry-chain intrinsics on the host: a single
// carry flag threaded through 32-bit add/madlo/madhi steps. Used to
// replay the NVIDIA multiplication schedule exactly.
type chain struct {
	carry uint64 // 0 or 1
}

func (ch *chain) add(a, b uint64) uint64 {
	s := a + b + ch.carry
	ch.carry = s >> 32
	return s & 0xffffffff
}

func (ch *chain) madlo(a, b, c uint64) uint64 {
	s := (a*b)&0xffffffff + c + ch.carry
	ch.carry = s >> 32
	return s & 0xffffffff
}

func (ch *chain) madhi(a, b, c uint64) uint64 {
	s := (a*b)>>32 + c + ch.carry
	ch.carry = s >> 32
	return s & 0xffffffff
}

// mulNvidia replays the emitted CUDA backend (mult_v1 followed by
// reduce) on the host, including its even/odd chain scheduling and
// bucket carry. Only meaningful for 32-bit limb fields; it exists so the
// two device backends can be proven equal without a device.
func (f *Field) mulNvidia(a, b Element) Element {
	n := f.limbs
	res := make([]uint64, 2*n)

	// mult_v1: full schoolbook product.
	for i := 0; i < n; i++ {
		var even chain
		for j := 0; j < n; j += 2 {
			res[i+j] = even.madlo(a[j], b[i], res[i+j])
			res[i+j+1] = even.madhi(a[j], b[i], res[i+j+1])
		}
		res[i+n] = even.add(res[i+n], 0)

		var odd chain
		for j := 1; j < n; j += 2 {
			res[i+j] = odd.madlo(a[j], b[i], res[i+j])
			res[i+j+1] = odd.madhi(a[j], b[i], res[i+j+1])
		}
		res[i+n] = odd.add(res[i+n], 0)
	}

	// reduce: zero the low half row by row, propagate carries through
	// the upper half, collect the top overflow in the bucket.
	var bucket uint64
	for i := 0; i < n; i++ {
		m := (f.inv * res[i]) & 0xffffffff

		var even chain
		for j := 0; j < n; j += 2 {
			res[i+j] = even.madlo(m, f.p[j], res[i+j])
			res[i+j+1] = even.madhi(m, f.p[j], res[i+j+1])
		}
		lowCarry := even.add(0, 0)

		var odd chain
		for j := 1; j < n; j += 2 {
			res[i+j] = odd.madlo(m, f.p[j], res[i+j])
			res[i+j+1] = odd.madhi(m, f.p[j], res[i+j+1])
		}
		highCarry := odd.add(0, 0)

		var prop chain
		res[i+n] = prop.add(res[i+n], lowCarry)
		if i+n+1 < 2*n {
			res[i+n+1] = prop.add(res[i+n+1], highCarry)
			for j := i + n + 2; j < 2*n; j++ {
				res[j] = prop.add(res[j], 0)
			}
			bucket += prop.add(0, 0)
		} else {
			bucket += highCarry + prop.add(0, 0)
		}
	}

	out := Element(append([]uint64(nil), res[n:]...))
	if bucket != 0 || gteLimbs(out, f.p) {
		out = f.subRaw(out, f.p)
	}
	return out
}
