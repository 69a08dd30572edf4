package ecgpu

import (
	"fmt"
	"strings"
)

// mangle rewrites a template's placeholder token into the field or curve
// prefix. The placeholder covers both the bare struct name (FIELD ->
// Fr_) and every derived symbol (FIELD_add -> Fr__add), so a single
// replacement produces the whole prefixed namespace.
func mangle(template, placeholder, name string) string {
	return strings.ReplaceAll(template, placeholder, name+"_")
}

// fieldSource emits everything for one field: limb typedefs, constant
// tables, both add/sub implementations, the multiplication backends (the
// NVIDIA one only for 32-bit limbs) and the remaining layer operations.
func fieldSource(f *Field) string {
	var b strings.Builder
	b.WriteString(fieldHeader(f))
	b.WriteString(fieldAddSubNvidia(f))
	b.WriteString(mangle(fieldOpsTemplate, "FIELD", f.Name))
	if f.LimbBits == LimbBits32 {
		b.WriteString(mangle(fieldMulNvidiaTemplate, "FIELD", f.Name))
		b.WriteString(mangle(fieldMulDispatchNvidia, "FIELD", f.Name))
	} else {
		// The chain intrinsics are 32-bit; 64-bit fields always take the
		// CIOS path, also under CUDA.
		b.WriteString(mangle(fieldMulDispatchDefault, "FIELD", f.Name))
	}
	b.WriteString(mangle(fieldTailTemplate, "FIELD", f.Name))
	return b.String()
}

// fieldHeader renders the limb layout macros, the value structs and the
// CONSTANT tables holding the modulus and Montgomery constants.
func fieldHeader(f *Field) string {
	p := f.Name
	limbType := "uint"
	helperSuffix := "32"
	if f.LimbBits == LimbBits64 {
		limbType = "ulong"
		helperSuffix = "64"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "// Field %s: %d-bit modulus in %d x %d-bit limbs, little endian.\n",
		p, f.Modulus.BitLen(), f.Limbs, f.LimbBits)
	fmt.Fprintf(&b, "typedef %s %s__limb;\n", limbType, p)
	fmt.Fprintf(&b, "#define %s__LIMBS %d\n", p, f.Limbs)
	fmt.Fprintf(&b, "#define %s__LIMB_BITS %d\n", p, f.LimbBits)
	fmt.Fprintf(&b, "#define %s__INV %#x\n", p, f.inv)
	fmt.Fprintf(&b, "#define %s__BITS (%s__LIMBS * %s__LIMB_BITS)\n", p, p, p)
	fmt.Fprintf(&b, "typedef struct { %s__limb val[%s__LIMBS]; } %s_;\n", p, p, p)
	fmt.Fprintf(&b, "typedef struct { %s__limb val[%s__LIMBS]; } %s__repr;\n", p, p, p)
	b.WriteString(constantTable(p, "ONE", limbsOf(f.r, f.Limbs, f.LimbBits)))
	b.WriteString(constantTable(p, "P", limbsOf(f.Modulus, f.Limbs, f.LimbBits)))
	b.WriteString(constantTable(p, "R2", limbsOf(f.r2, f.Limbs, f.LimbBits)))
	b.WriteString(constantTable(p, "ZERO", make([]uint64, f.Limbs)))
	fmt.Fprintf(&b, "#define %s__mac_with_carry mac_with_carry_%s\n", p, helperSuffix)
	fmt.Fprintf(&b, "#define %s__add_with_carry add_with_carry_%s\n", p, helperSuffix)
	return b.String()
}

// fieldAddSubNvidia synthesises the inline-PTX add/sub chains. Each body
// is one asm statement of exactly LIMBS instructions: the first uses the
// carry-generating .cc form, the middle ones consume and regenerate the
// carry, and the terminal one only consumes it.
func fieldAddSubNvidia(f *Field) string {
	width := "u32"
	constraint := "r"
	if f.LimbBits == LimbBits64 {
		width = "u64"
		constraint = "l"
	}

	chain := func(op string) string {
		var b strings.Builder
		for i := 0; i < f.Limbs; i++ {
			mnemonic := op + "c.cc"
			if i == 0 {
				mnemonic = op + ".cc"
			} else if i == f.Limbs-1 {
				mnemonic = op + "c"
			}
			fmt.Fprintf(&b, "\"%s.%s %%%d, %%%d, %%%d;\\r\\n\"\n",
				mnemonic, width, i, i, i+f.Limbs)
		}
		return b.String()
	}
	operands := func() string {
		outs := make([]string, f.Limbs)
		ins := make([]string, f.Limbs)
		for i := 0; i < f.Limbs; i++ {
			outs[i] = fmt.Sprintf("\"+%s\"(a.val[%d])", constraint, i)
			ins[i] = fmt.Sprintf("\"%s\"(b.val[%d])", constraint, i)
		}
		return ":" + strings.Join(outs, ", ") + "\n:" + strings.Join(ins, ", ") + ");"
	}

	p := f.Name
	var b strings.Builder
	b.WriteString("#if defined(OPENCL_NVIDIA) || defined(CUDA)\n")
	fmt.Fprintf(&b, "DEVICE %s_ %s__sub_nvidia(%s_ a, %s_ b) {\n", p, p, p, p)
	b.WriteString("asm(" + strings.TrimSuffix(chain("sub"), "\n") + "\n" + operands() + "\n")
	b.WriteString("return a;\n}\n")
	fmt.Fprintf(&b, "DEVICE %s_ %s__add_nvidia(%s_ a, %s_ b) {\n", p, p, p, p)
	b.WriteString("asm(" + strings.TrimSuffix(chain("add"), "\n") + "\n" + operands() + "\n")
	b.WriteString("return a;\n}\n")
	b.WriteString("#endif\n")
	return b.String()
}

// fieldOpsTemplate carries the comparison layer, the raw and modular
// add/sub and the generic CIOS Montgomery multiplication. FIELD is the
// mangling placeholder.
const fieldOpsTemplate = `
// Greater than or equal (returns true on equality).
DEVICE bool FIELD_gte(FIELD a, FIELD b) {
  for(char i = FIELD_LIMBS - 1; i >= 0; i--){
    if(a.val[i] > b.val[i])
      return true;
    if(a.val[i] < b.val[i])
      return false;
  }
  return true;
}

// Equals
DEVICE bool FIELD_eq(FIELD a, FIELD b) {
  for(uchar i = 0; i < FIELD_LIMBS; i++)
    if(a.val[i] != b.val[i])
      return false;
  return true;
}

#if defined(OPENCL_NVIDIA) || defined(CUDA)
  #define FIELD_add_ FIELD_add_nvidia
  #define FIELD_sub_ FIELD_sub_nvidia
#else
  // Plain addition, no modular reduction.
  DEVICE FIELD FIELD_add_(FIELD a, FIELD b) {
    bool carry = 0;
    for(uchar i = 0; i < FIELD_LIMBS; i++) {
      FIELD_limb old = a.val[i];
      a.val[i] += b.val[i] + carry;
      carry = carry ? old >= a.val[i] : old > a.val[i];
    }
    return a;
  }

  // Plain subtraction, no modular reduction.
  DEVICE FIELD FIELD_sub_(FIELD a, FIELD b) {
    bool borrow = 0;
    for(uchar i = 0; i < FIELD_LIMBS; i++) {
      FIELD_limb old = a.val[i];
      a.val[i] -= b.val[i] + borrow;
      borrow = borrow ? old <= a.val[i] : old < a.val[i];
    }
    return a;
  }
#endif

// Modular subtraction.
DEVICE FIELD FIELD_sub(FIELD a, FIELD b) {
  FIELD res = FIELD_sub_(a, b);
  if(!FIELD_gte(a, b)) res = FIELD_add_(res, FIELD_P);
  return res;
}

// Modular addition.
DEVICE FIELD FIELD_add(FIELD a, FIELD b) {
  FIELD res = FIELD_add_(a, b);
  // A wrapped sum is below a; it still needs the subtraction of P.
  if(!FIELD_gte(res, a) || FIELD_gte(res, FIELD_P)) res = FIELD_sub_(res, FIELD_P);
  return res;
}

/*
 * Montgomery multiplication, CIOS variant: the multiplication and the
 * reduction are interleaved, one limb of b per outer iteration. The
 * accumulator needs two extra limbs for the running carries.
 */
DEVICE FIELD FIELD_mul_default(FIELD a, FIELD b) {
  FIELD_limb t[FIELD_LIMBS + 2] = {0};
  for(uchar i = 0; i < FIELD_LIMBS; i++) {
    FIELD_limb carry = 0;
    for(uchar j = 0; j < FIELD_LIMBS; j++)
      t[j] = FIELD_mac_with_carry(a.val[j], b.val[i], t[j], &carry);
    t[FIELD_LIMBS] = FIELD_add_with_carry(t[FIELD_LIMBS], &carry);
    t[FIELD_LIMBS + 1] = carry;

    carry = 0;
    FIELD_limb m = FIELD_INV * t[0];
    FIELD_mac_with_carry(m, FIELD_P.val[0], t[0], &carry);
    for(uchar j = 1; j < FIELD_LIMBS; j++)
      t[j - 1] = FIELD_mac_with_carry(m, FIELD_P.val[j], t[j], &carry);
    t[FIELD_LIMBS - 1] = FIELD_add_with_carry(t[FIELD_LIMBS], &carry);
    t[FIELD_LIMBS] = t[FIELD_LIMBS + 1] + carry;
  }

  FIELD result;
  for(uchar i = 0; i < FIELD_LIMBS; i++) result.val[i] = t[i];

  // t[LIMBS] is the carry out of the top limb, possible when P uses the
  // full representation width.
  if(t[FIELD_LIMBS] != 0 || FIELD_gte(result, FIELD_P)) result = FIELD_sub_(result, FIELD_P);

  return result;
}
`

// fieldMulNvidiaTemplate is the CUDA-only multiplication backend built
// on the chain intrinsics. It requires an even limb count: the partial
// products are split by the parity of the target word so that every
// chain advances one word per instruction and the carry flag always
// lands where it belongs. Only emitted for 32-bit limb fields.
const fieldMulNvidiaTemplate = `
#if defined(CUDA)
// Full 2*LIMBS-word schoolbook product. Per word of b two chains run,
// one over the even-indexed words of a and one over the odd-indexed
// ones, each folding its final carry into the next free word.
DEVICE void FIELD_mult_v1(FIELD a, FIELD b, FIELD_limb *res) {
  #pragma unroll
  for(uchar i = 0; i < FIELD_LIMBS; i++) {
    chain_t even;
    chain_init(&even);
    #pragma unroll
    for(uchar j = 0; j < FIELD_LIMBS; j += 2) {
      res[i + j] = chain_madlo(&even, a.val[j], b.val[i], res[i + j]);
      res[i + j + 1] = chain_madhi(&even, a.val[j], b.val[i], res[i + j + 1]);
    }
    res[i + FIELD_LIMBS] = chain_add(&even, res[i + FIELD_LIMBS], 0);

    chain_t odd;
    chain_init(&odd);
    #pragma unroll
    for(uchar j = 1; j < FIELD_LIMBS; j += 2) {
      res[i + j] = chain_madlo(&odd, a.val[j], b.val[i], res[i + j]);
      res[i + j + 1] = chain_madhi(&odd, a.val[j], b.val[i], res[i + j + 1]);
    }
    res[i + FIELD_LIMBS] = chain_add(&odd, res[i + FIELD_LIMBS], 0);
  }
}

// Montgomery reduction of a 2*LIMBS-word product. Row i zeroes word i by
// adding m*P at offset i, again split into an even and an odd chain. The
// even chain's final carry lands one word below the odd chain's; both
// are pushed through the upper half with an add chain. The bucket
// collects what overflows the topmost word and is 0 or 1, since the
// reduced value is below 2*P.
DEVICE FIELD FIELD_reduce(FIELD_limb *accLow) {
  FIELD_limb bucket = 0;
  #pragma unroll
  for(uchar i = 0; i < FIELD_LIMBS; i++) {
    FIELD_limb m = FIELD_INV * accLow[i];

    chain_t even;
    chain_init(&even);
    #pragma unroll
    for(uchar j = 0; j < FIELD_LIMBS; j += 2) {
      accLow[i + j] = chain_madlo(&even, m, FIELD_P.val[j], accLow[i + j]);
      accLow[i + j + 1] = chain_madhi(&even, m, FIELD_P.val[j], accLow[i + j + 1]);
    }
    FIELD_limb lowCarry = chain_add(&even, 0, 0);

    chain_t odd;
    chain_init(&odd);
    #pragma unroll
    for(uchar j = 1; j < FIELD_LIMBS; j += 2) {
      accLow[i + j] = chain_madlo(&odd, m, FIELD_P.val[j], accLow[i + j]);
      accLow[i + j + 1] = chain_madhi(&odd, m, FIELD_P.val[j], accLow[i + j + 1]);
    }
    FIELD_limb highCarry = chain_add(&odd, 0, 0);

    chain_t prop;
    chain_init(&prop);
    accLow[i + FIELD_LIMBS] = chain_add(&prop, accLow[i + FIELD_LIMBS], lowCarry);
    if(i + FIELD_LIMBS + 1 < FIELD_LIMBS * 2) {
      accLow[i + FIELD_LIMBS + 1] = chain_add(&prop, accLow[i + FIELD_LIMBS + 1], highCarry);
      #pragma unroll
      for(uchar j = i + FIELD_LIMBS + 2; j < FIELD_LIMBS * 2; j++)
        accLow[j] = chain_add(&prop, accLow[j], 0);
      bucket += chain_add(&prop, 0, 0);
    } else {
      bucket += highCarry + chain_add(&prop, 0, 0);
    }
  }

  // The upper half now holds the reduced value; fold in the bucket bit
  // with one conditional subtraction.
  FIELD result;
  #pragma unroll
  for(uchar i = 0; i < FIELD_LIMBS; i++) result.val[i] = accLow[i + FIELD_LIMBS];

  if(bucket != 0 || FIELD_gte(result, FIELD_P)) result = FIELD_sub_(result, FIELD_P);

  return result;
}

// Montgomery multiplication via full product plus interleaved reduction.
// Must agree limb for limb with FIELD_mul_default.
DEVICE FIELD FIELD_mul_nvidia(FIELD a, FIELD b) {
  FIELD_limb res[FIELD_LIMBS * 2] = {0};
  FIELD_mult_v1(a, b, res);
  return FIELD_reduce(res);
}
#endif
`

const fieldMulDispatchNvidia = `
#if defined(CUDA)
  #define FIELD_mul(a, b) FIELD_mul_nvidia(a, b)
#else
  #define FIELD_mul(a, b) FIELD_mul_default(a, b)
#endif
`

const fieldMulDispatchDefault = `
#define FIELD_mul(a, b) FIELD_mul_default(a, b)
`

// fieldTailTemplate carries the operations layered on top of mul: the
// squaring alias, doubling, exponentiation, Montgomery conversion and
// repr bit access.
const fieldTailTemplate = `
DEVICE FIELD FIELD_sqr(FIELD a) {
  return FIELD_mul(a, a);
}

// Left-shift the limbs by one bit, with a conditional reduction. Assumes
// the input is below P.
DEVICE FIELD FIELD_double(FIELD a) {
  bool overflow = a.val[FIELD_LIMBS - 1] >> (FIELD_LIMB_BITS - 1);
  for(uchar i = FIELD_LIMBS - 1; i >= 1; i--)
    a.val[i] = (a.val[i] << 1) | (a.val[i - 1] >> (FIELD_LIMB_BITS - 1));
  a.val[0] <<= 1;
  if(overflow || FIELD_gte(a, FIELD_P)) a = FIELD_sub_(a, FIELD_P);
  return a;
}

// Square-and-multiply from the least significant exponent bit.
DEVICE FIELD FIELD_pow(FIELD base, uint exponent) {
  FIELD res = FIELD_ONE;
  while(exponent > 0) {
    if(exponent & 1)
      res = FIELD_mul(res, base);
    exponent = exponent >> 1;
    base = FIELD_sqr(base);
  }
  return res;
}

// Exponentiation against a caller-supplied table of successive squares
// of the base.
DEVICE FIELD FIELD_pow_lookup(GLOBAL FIELD *bases, uint exponent) {
  FIELD res = FIELD_ONE;
  uint i = 0;
  while(exponent > 0) {
    if(exponent & 1)
      res = FIELD_mul(res, bases[i]);
    exponent = exponent >> 1;
    i++;
  }
  return res;
}

// Enter the Montgomery domain. FIELD and FIELD_repr share one layout, so
// the cast is free.
DEVICE FIELD FIELD_mont(FIELD_repr a) {
#ifdef CUDA
  FIELD tmp = *reinterpret_cast<FIELD *>(&a);
#else
  FIELD tmp = *(FIELD *)&a;
#endif
  return FIELD_mul(tmp, FIELD_R2);
}

// Leave the Montgomery domain.
DEVICE FIELD_repr FIELD_unmont(FIELD a) {
  FIELD one = FIELD_ZERO;
  one.val[0] = 1;
  FIELD tmp = FIELD_mul(a, one);
#ifdef CUDA
  return *reinterpret_cast<FIELD_repr *>(&tmp);
#else
  return *(FIELD_repr *)&tmp;
#endif
}

// Gets the bit at index i, counted from the most significant bit of the
// concatenated limbs.
DEVICE bool FIELD_get_bit(FIELD_repr l, uint i) {
  return (l.val[FIELD_LIMBS - 1 - i / FIELD_LIMB_BITS] >> (FIELD_LIMB_BITS - 1 - (i % FIELD_LIMB_BITS))) & 1;
}

// Gets window consecutive bits starting skip bits below the most
// significant bit.
DEVICE uint FIELD_get_bits(FIELD_repr l, uint skip, uint window) {
  uint ret = 0;
  for(uint i = 0; i < window; i++) {
    ret <<= 1;
    ret |= FIELD_get_bit(l, skip + i);
  }
  return ret;
}
`
