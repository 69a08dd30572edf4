package ecgpu

// commonSource is the portability layer emitted once at the top of every
// generated translation unit. It bridges CUDA and OpenCL, provides the
// generic carry helpers used by the CIOS multiplier, and (CUDA only) the
// carry-chain intrinsic wrappers used by the NVIDIA multiplier.
const commonSource = `#if defined(__NVCC__)
  #define CUDA
#endif

#ifdef __NV_CL_C_VERSION
  #define OPENCL_NVIDIA
#endif

#if defined(__WinterPark__) || defined(__BeaverCreek__) || defined(__Turks__) || \
    defined(__Caicos__) || defined(__Tahiti__) || defined(__Pitcairn__) || \
    defined(__Capeverde__) || defined(__Cayman__) || defined(__Barts__) || \
    defined(__Cypress__) || defined(__Juniper__) || defined(__Redwood__) || \
    defined(__Cedar__) || defined(__ATI_RV770__) || defined(__ATI_RV730__) || \
    defined(__ATI_RV710__) || defined(__Loveland__) || defined(__GPU__)
  #define AMD
#endif

#ifdef CUDA

typedef unsigned char uchar;
typedef unsigned short ushort;
typedef unsigned int uint;
typedef unsigned long ulong;

#define DEVICE __device__
#define GLOBAL
#define KERNEL extern "C" __global__
#define LOCAL __shared__
#define CONSTANT __constant__

#define GET_GLOBAL_ID() (blockIdx.x * blockDim.x + threadIdx.x)
#define GET_GROUP_ID() blockIdx.x
#define GET_LOCAL_ID() threadIdx.x
#define GET_LOCAL_SIZE() blockDim.x
#define BARRIER_LOCAL() __syncthreads()

// Dynamic shared memory, cast by higher-level kernels as needed.
extern __shared__ uchar cuda_shared[];

#else // OpenCL

#define DEVICE
#define GLOBAL __global
#define KERNEL __kernel
#define LOCAL __local
#define CONSTANT __constant

#define GET_GLOBAL_ID() get_global_id(0)
#define GET_GROUP_ID() get_group_id(0)
#define GET_LOCAL_ID() get_local_id(0)
#define GET_LOCAL_SIZE() get_local_size(0)
#define BARRIER_LOCAL() barrier(CLK_LOCAL_MEM_FENCE)

#endif

// Returns a * b + c + d, puts the carry in d.
DEVICE ulong mac_with_carry_64(ulong a, ulong b, ulong c, ulong *d) {
  #if defined(OPENCL_NVIDIA) || defined(CUDA)
    ulong lo, hi;
    asm("mad.lo.cc.u64 %0, %2, %3, %4;\r\n"
        "madc.hi.u64 %1, %2, %3, 0;\r\n"
        "add.cc.u64 %0, %0, %5;\r\n"
        "addc.u64 %1, %1, 0;\r\n"
        : "=l"(lo), "=l"(hi) : "l"(a), "l"(b), "l"(c), "l"(*d));
    *d = hi;
    return lo;
  #else
    ulong lo = a * b + c;
    ulong hi = mul_hi(a, b) + (lo < c);
    a = lo;
    lo += *d;
    hi += (lo < a);
    *d = hi;
    return lo;
  #endif
}

// Returns a + b, puts the carry in b.
DEVICE ulong add_with_carry_64(ulong a, ulong *b) {
  #if defined(OPENCL_NVIDIA) || defined(CUDA)
    ulong lo, hi;
    asm("add.cc.u64 %0, %2, %3;\r\n"
        "addc.u64 %1, 0, 0;\r\n"
        : "=l"(lo), "=l"(hi) : "l"(a), "l"(*b));
    *b = hi;
    return lo;
  #else
    ulong lo = a + *b;
    *b = lo < a;
    return lo;
  #endif
}

// Returns a * b + c + d, puts the carry in d.
DEVICE uint mac_with_carry_32(uint a, uint b, uint c, uint *d) {
  ulong res = (ulong)a * b + c + *d;
  *d = res >> 32;
  return res;
}

// Returns a + b, puts the carry in b.
DEVICE uint add_with_carry_32(uint a, uint *b) {
  uint lo = a + *b;
  *b = lo < a;
  return lo;
}

// Reverses the low "bits" bits of n.
DEVICE uint bitreverse(uint n, uint bits) {
  uint r = 0;
  for(int i = 0; i < bits; i++) {
    r = (r << 1) | (n & 1);
    n >>= 1;
  }
  return r;
}

#ifdef CUDA

// PTX carry-chain wrappers. The first operation of a chain issues the
// plain .cc form, every later one the carry-consuming c form, so a whole
// chain threads the carry flag without touching it in between.
DEVICE inline uint add_cc(uint a, uint b) {
  uint r;
  asm volatile ("add.cc.u32 %0, %1, %2;" : "=r"(r) : "r"(a), "r"(b));
  return r;
}

DEVICE inline uint addc_cc(uint a, uint b) {
  uint r;
  asm volatile ("addc.cc.u32 %0, %1, %2;" : "=r"(r) : "r"(a), "r"(b));
  return r;
}

DEVICE inline uint addc(uint a, uint b) {
  uint r;
  asm volatile ("addc.u32 %0, %1, %2;" : "=r"(r) : "r"(a), "r"(b));
  return r;
}

DEVICE inline uint madlo(uint a, uint b, uint c) {
  uint r;
  asm volatile ("mad.lo.u32 %0, %1, %2, %3;" : "=r"(r) : "r"(a), "r"(b), "r"(c));
  return r;
}

DEVICE inline uint madlo_cc(uint a, uint b, uint c) {
  uint r;
  asm volatile ("mad.lo.cc.u32 %0, %1, %2, %3;" : "=r"(r) : "r"(a), "r"(b), "r"(c));
  return r;
}

DEVICE inline uint madloc_cc(uint a, uint b, uint c) {
  uint r;
  asm volatile ("madc.lo.cc.u32 %0, %1, %2, %3;" : "=r"(r) : "r"(a), "r"(b), "r"(c));
  return r;
}

DEVICE inline uint madloc(uint a, uint b, uint c) {
  uint r;
  asm volatile ("madc.lo.u32 %0, %1, %2, %3;" : "=r"(r) : "r"(a), "r"(b), "r"(c));
  return r;
}

DEVICE inline uint madhi(uint a, uint b, uint c) {
  uint r;
  asm volatile ("mad.hi.u32 %0, %1, %2, %3;" : "=r"(r) : "r"(a), "r"(b), "r"(c));
  return r;
}

DEVICE inline uint madhi_cc(uint a, uint b, uint c) {
  uint r;
  asm volatile ("mad.hi.cc.u32 %0, %1, %2, %3;" : "=r"(r) : "r"(a), "r"(b), "r"(c));
  return r;
}

DEVICE inline uint madhic_cc(uint a, uint b, uint c) {
  uint r;
  asm volatile ("madc.hi.cc.u32 %0, %1, %2, %3;" : "=r"(r) : "r"(a), "r"(b), "r"(c));
  return r;
}

DEVICE inline uint madhic(uint a, uint b, uint c) {
  uint r;
  asm volatile ("madc.hi.u32 %0, %1, %2, %3;" : "=r"(r) : "r"(a), "r"(b), "r"(c));
  return r;
}

typedef struct {
  uint _position;
} chain_t;

DEVICE inline void chain_init(chain_t *c) {
  c->_position = 0;
}

DEVICE inline uint chain_add(chain_t *ch, uint a, uint b) {
  ch->_position++;
  if(ch->_position == 1)
    return add_cc(a, b);
  return addc_cc(a, b);
}

DEVICE inline uint chain_madlo(chain_t *ch, uint a, uint b, uint c) {
  ch->_position++;
  if(ch->_position == 1)
    return madlo_cc(a, b, c);
  return madloc_cc(a, b, c);
}

DEVICE inline uint chain_madhi(chain_t *ch, uint a, uint b, uint c) {
  ch->_position++;
  if(ch->_position == 1)
    return madhi_cc(a, b, c);
  return madhic_cc(a, b, c);
}

#endif
`
