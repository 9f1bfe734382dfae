// Package softfloat isolates RV32F arithmetic behind a narrow interface so
// the execution core never assumes a particular floating-point
// implementation is available. This mirrors the way an external backend
// (GPU, subprocess, accelerator) is kept at arm's length elsewhere in this
// codebase: the core calls through Oracle and never touches IEEE-754 bit
// tricks itself.
package softfloat

import "math"

// Oracle performs RV32F single-precision arithmetic on raw IEEE-754 bit
// patterns. All inputs and outputs are the 32-bit encoding stored directly
// in Machine.F; Oracle implementations decide how (hardware float32, a
// software soft-float library, ...) but never see register numbers or PC.
//
// Methods whose RISC-V instruction can raise IEEE-754 exceptions return a
// sticky flags byte alongside their result, laid out bit-for-bit like
// fcsr's low 5 bits (invalid 1<<4, divide-by-zero 1<<3, overflow 1<<2,
// underflow 1<<1, inexact 1<<0) so a caller can OR it straight into fcsr
// without translating bit positions. Classify, Min/Max, and the
// int-to-float conversions FromInt/FromUint return no flags.
type Oracle interface {
	Add(a, b uint32) (uint32, uint8)
	Sub(a, b uint32) (uint32, uint8)
	Mul(a, b uint32) (uint32, uint8)
	Div(a, b uint32) (uint32, uint8)
	Sqrt(a uint32) (uint32, uint8)
	Min(a, b uint32) uint32
	Max(a, b uint32) uint32
	Eq(a, b uint32) (bool, uint8)
	Lt(a, b uint32) (bool, uint8)
	Le(a, b uint32) (bool, uint8)
	Classify(a uint32) uint32
	ToInt(a uint32) (int32, uint8)
	ToUint(a uint32) (uint32, uint8)
	FromInt(a int32) uint32
	FromUint(a uint32) uint32

	// MulAdd computes a*b+c with a single rounding (the FMADD.S primitive).
	// FMSUB.S/FNMSUB.S/FNMADD.S are formed by the caller XORing the sign
	// bit of a and/or c before calling, which is exact under IEEE-754 and
	// needs no separate Oracle method.
	MulAdd(a, b, c uint32) (uint32, uint8)
}

// Sticky IEEE-754 exception flags, laid out to match fcsr's low 5 bits
// (pkg/cpu.Fflag*). Kept local rather than imported so this package stays
// independent of pkg/cpu, per Oracle's "never sees register numbers or PC"
// contract.
const (
	flagInvalidOp uint8 = 1 << 4
	flagDivByZero uint8 = 1 << 3
	flagOverflow  uint8 = 1 << 2
	flagUnderflow uint8 = 1 << 1
	flagInexact   uint8 = 1 << 0
)

// Hardware is the default Oracle: it trusts the host's native float32 unit
// for the arithmetic itself, then derives sticky flags by inspecting
// operands and result (Go exposes no FE_* exception state the way C's
// fenv.h does). Sufficient for interpretation and testing; a cross-compiled
// target that needs bit-exact soft-float behavior supplies its own Oracle.
type Hardware struct{}

func (Hardware) Add(a, b uint32) (uint32, uint8) {
	fa, fb := fromBits(a), fromBits(b)
	full := float64(fa) + float64(fb)
	res := float32(full)
	return toBits(res), arithFlags(fa, fb, full, res)
}

func (Hardware) Sub(a, b uint32) (uint32, uint8) {
	fa, fb := fromBits(a), fromBits(b)
	full := float64(fa) - float64(fb)
	res := float32(full)
	return toBits(res), arithFlags(fa, fb, full, res)
}

func (Hardware) Mul(a, b uint32) (uint32, uint8) {
	fa, fb := fromBits(a), fromBits(b)
	full := float64(fa) * float64(fb)
	res := float32(full)
	return toBits(res), arithFlags(fa, fb, full, res)
}

func (Hardware) Div(a, b uint32) (uint32, uint8) {
	fa, fb := fromBits(a), fromBits(b)
	full := float64(fa) / float64(fb)
	res := float32(full)
	flags := arithFlags(fa, fb, full, res)
	if fb == 0 && fa != 0 && !isNaN(fa) {
		flags |= flagDivByZero
	}
	return toBits(res), flags
}

func (Hardware) Sqrt(a uint32) (uint32, uint8) {
	fa := fromBits(a)
	full := math.Sqrt(float64(fa))
	res := float32(full)
	var flags uint8
	switch {
	case isSignaling(fa):
		flags = flagInvalidOp
	case isNaN(fa):
		// A quiet NaN input propagates without raising a flag.
	case fa < 0:
		flags = flagInvalidOp
	case float64(res) != full:
		flags = flagInexact
	}
	return toBits(res), flags
}

func (Hardware) Min(a, b uint32) uint32 {
	fa, fb := fromBits(a), fromBits(b)
	if fa < fb {
		return a
	}
	return b
}

func (Hardware) Max(a, b uint32) uint32 {
	fa, fb := fromBits(a), fromBits(b)
	if fa > fb {
		return a
	}
	return b
}

// Eq signals invalid only for a signaling NaN operand — unlike Lt/Le, a
// quiet NaN makes feq.s simply false, per the RISC-V F extension.
func (Hardware) Eq(a, b uint32) (bool, uint8) {
	fa, fb := fromBits(a), fromBits(b)
	var flags uint8
	if isSignaling(fa) || isSignaling(fb) {
		flags = flagInvalidOp
	}
	return fa == fb, flags
}

func (Hardware) Lt(a, b uint32) (bool, uint8) {
	fa, fb := fromBits(a), fromBits(b)
	var flags uint8
	if isNaN(fa) || isNaN(fb) {
		flags = flagInvalidOp
	}
	return fa < fb, flags
}

func (Hardware) Le(a, b uint32) (bool, uint8) {
	fa, fb := fromBits(a), fromBits(b)
	var flags uint8
	if isNaN(fa) || isNaN(fb) {
		flags = flagInvalidOp
	}
	return fa <= fb, flags
}

func (Hardware) ToInt(a uint32) (int32, uint8) {
	fa := fromBits(a)
	v := int32(fa)
	var flags uint8
	switch {
	case isNaN(fa):
		flags = flagInvalidOp
	case fa >= 2147483648 || fa < -2147483648:
		flags = flagInvalidOp
	case fa != float32(v):
		flags = flagInexact
	}
	return v, flags
}

func (Hardware) ToUint(a uint32) (uint32, uint8) {
	fa := fromBits(a)
	v := uint32(fa)
	var flags uint8
	switch {
	case isNaN(fa):
		flags = flagInvalidOp
	case fa >= 4294967296 || fa <= -1:
		flags = flagInvalidOp
	case fa != float32(v):
		flags = flagInexact
	}
	return v, flags
}

func (Hardware) FromInt(a int32) uint32   { return toBits(float32(a)) }
func (Hardware) FromUint(a uint32) uint32 { return toBits(float32(a)) }

// MulAdd fuses the multiply and add into a single float64-precision
// computation before rounding once to float32 — math.FMA gives the same
// single-rounding result a hardware FMA unit would, since a float32
// product and a float32 addend both fit losslessly in float64.
func (Hardware) MulAdd(a, b, c uint32) (uint32, uint8) {
	fa, fb, fc := fromBits(a), fromBits(b), fromBits(c)
	full := math.FMA(float64(fa), float64(fb), float64(fc))
	res := float32(full)
	return toBits(res), roundingFlags(full, res, fa, fb, fc)
}

// Classify implements FCLASS.S's one-hot bit encoding (RISC-V spec table
// 11.1): bit 0 negative infinity, 1 negative normal, 2 negative subnormal,
// 3 -0, 4 +0, 5 positive subnormal, 6 positive normal, 7 positive infinity,
// 8 signaling NaN, 9 quiet NaN.
// FCLASS never raises an exception flag, so it returns no flags.
func (Hardware) Classify(a uint32) uint32 {
	f := fromBits(a)
	switch {
	case math.IsInf(float64(f), -1):
		return 1 << 0
	case math.IsInf(float64(f), 1):
		return 1 << 7
	case math.IsNaN(float64(f)):
		if a&(1<<22) != 0 {
			return 1 << 9 // quiet NaN
		}
		return 1 << 8 // signaling NaN
	case f == 0:
		if a&FmaskSign != 0 {
			return 1 << 3
		}
		return 1 << 4
	case isSubnormal(f) && f < 0:
		return 1 << 2
	case isSubnormal(f):
		return 1 << 5
	case f < 0:
		return 1 << 1
	default:
		return 1 << 6
	}
}

// FmaskSign is the IEEE-754 single-precision sign bit.
const FmaskSign uint32 = 1 << 31

// arithFlags derives Add/Sub/Mul/Div's sticky flags from the operands, the
// full-precision (float64) result, and the rounded float32 result. Go's
// math package exposes no FE_* exception state, so flags are reconstructed
// from first principles rather than read out of the host FPU.
func arithFlags(fa, fb float32, full float64, res float32) uint8 {
	return roundingFlags(full, res, fa, fb)
}

// roundingFlags is arithFlags generalized to N operands, so MulAdd's three
// inputs (a, b, c) can share the same signaling/NaN/overflow/underflow
// classification as the two-operand arithmetic ops.
func roundingFlags(full float64, res float32, ops ...float32) uint8 {
	switch {
	case anySignaling(ops):
		return flagInvalidOp
	case math.IsNaN(full):
		if anyNaN(ops) {
			return 0 // a quiet NaN operand propagates silently
		}
		return flagInvalidOp // e.g. Inf-Inf, 0*Inf, 0/0
	case !math.IsInf(full, 0) && math.IsInf(float64(res), 0):
		return flagOverflow | flagInexact
	case full != 0 && res == 0:
		return flagUnderflow | flagInexact
	case float64(res) != full:
		if isSubnormal(res) {
			return flagInexact | flagUnderflow
		}
		return flagInexact
	default:
		return 0
	}
}

func anySignaling(ops []float32) bool {
	for _, f := range ops {
		if isSignaling(f) {
			return true
		}
	}
	return false
}

func anyNaN(ops []float32) bool {
	for _, f := range ops {
		if isNaN(f) {
			return true
		}
	}
	return false
}

func isNaN(f float32) bool { return f != f }

// isSignaling reports whether f is a NaN with the quiet bit (mantissa
// MSB, bit 22) clear — the RISC-V F extension's signaling-NaN encoding.
func isSignaling(f float32) bool {
	return isNaN(f) && toBits(f)&(1<<22) == 0
}

func isSubnormal(f float32) bool {
	if f == 0 {
		return false
	}
	bits := toBits(f)
	return bits&0x7f800000 == 0
}

func fromBits(a uint32) float32 { return math.Float32frombits(a) }
func toBits(f float32) uint32   { return math.Float32bits(f) }
