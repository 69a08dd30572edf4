package ecgpu

// kernelSource emits the canonical device test kernels, bound to the
// representative field (first declared) and, when present, the
// representative curve. The host launcher feeds these with vectors from
// the fp package and diffs the results against the host expectations.
func kernelSource(f *Field, e *Curve) string {
	s := mangle(fieldKernelTemplate, "FIELD", f.Name)
	if e != nil {
		t := mangle(curveKernelTemplate, "POINT", e.Name)
		t = mangle(t, "EXPONENT", e.Scalar.Name)
		s += t
	}
	return s
}

const fieldKernelTemplate = `
// Test kernels, one per public field operation.

KERNEL void test_add(FIELD a, FIELD b, GLOBAL FIELD *result) {
  *result = FIELD_add(a, b);
}

KERNEL void test_mul(FIELD a, FIELD b, GLOBAL FIELD *result) {
  *result = FIELD_mul(a, b);
}

KERNEL void test_sub(FIELD a, FIELD b, GLOBAL FIELD *result) {
  *result = FIELD_sub(a, b);
}

KERNEL void test_pow(FIELD a, uint b, GLOBAL FIELD *result) {
  *result = FIELD_pow(a, b);
}

KERNEL void test_sqr(FIELD a, GLOBAL FIELD *result) {
  *result = FIELD_sqr(a);
}

KERNEL void test_double(FIELD a, GLOBAL FIELD *result) {
  *result = FIELD_double(a);
}

KERNEL void test_mont(FIELD_repr a, GLOBAL FIELD *result) {
  *result = FIELD_mont(a);
}

KERNEL void test_unmont(FIELD a, GLOBAL FIELD_repr *result) {
  *result = FIELD_unmont(a);
}
`

const curveKernelTemplate = `
KERNEL void test_ec(POINT_jacobian a, EXPONENT b, GLOBAL POINT_jacobian *result) {
  *result = POINT_mul(a, b);
}
`
