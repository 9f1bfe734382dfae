package exec

import (
	"github.com/oisee/rv32core/pkg/inst"
)

func registerMulDiv() {
	Table[inst.MUL] = rtype(func(a, b uint32) uint32 { return a * b })

	Table[inst.MULH] = rtype(func(a, b uint32) uint32 {
		product := int64(int32(a)) * int64(int32(b))
		return uint32(uint64(product) >> 32)
	})
	Table[inst.MULHSU] = rtype(func(a, b uint32) uint32 {
		product := int64(int32(a)) * int64(uint64(b))
		return uint32(uint64(product) >> 32)
	})
	Table[inst.MULHU] = rtype(func(a, b uint32) uint32 {
		return uint32((uint64(a) * uint64(b)) >> 32)
	})

	// DIV/REM edge cases follow the RISC-V spec table verbatim: division
	// by zero never traps, and signed overflow (INT32_MIN / -1) saturates
	// to the dividend rather than overflowing the 32-bit result.
	Table[inst.DIV] = rtype(func(a, b uint32) uint32 {
		dividend, divisor := int32(a), int32(b)
		switch {
		case divisor == 0:
			return ^uint32(0)
		case divisor == -1 && a == 0x80000000:
			return a
		default:
			return uint32(dividend / divisor)
		}
	})
	Table[inst.DIVU] = rtype(func(a, b uint32) uint32 {
		if b == 0 {
			return ^uint32(0)
		}
		return a / b
	})
	Table[inst.REM] = rtype(func(a, b uint32) uint32 {
		dividend, divisor := int32(a), int32(b)
		switch {
		case divisor == 0:
			return a
		case divisor == -1 && a == 0x80000000:
			return 0
		default:
			return uint32(dividend % divisor)
		}
	})
	Table[inst.REMU] = rtype(func(a, b uint32) uint32 {
		if b == 0 {
			return a
		}
		return a % b
	})
}
