package exec

import (
	"github.com/oisee/rv32core/pkg/cpu"
	"github.com/oisee/rv32core/pkg/inst"
)

// RV32A is implemented as non-atomic read-modify-write: this core runs one
// hart at a time (pkg/bench parallelizes independent Machine instances, it
// never shares one), so LR/SC/AMO* need no reservation tracking or memory
// fencing to be observably correct. LR.W behaves as a plain load; SC.W
// always succeeds and reports success (rd=0).
func registerAMO() {
	Table[inst.LRW] = load(4, func(m *cpu.Machine, addr uint32) uint32 { return m.Mem.ReadW(addr) })

	Table[inst.SCW] = func(m *cpu.Machine, rec *inst.Instruction) *inst.Instruction {
		addr := m.Reg(rec.Rs1)
		m.Mem.WriteW(addr, m.Reg(rec.Rs2))
		m.SetReg(rec.Rd, 0)
		return next(m, rec)
	}

	Table[inst.AMOSWAPW] = amo(func(old, src uint32) uint32 { return src })
	Table[inst.AMOADDW] = amo(func(old, src uint32) uint32 { return old + src })
	Table[inst.AMOXORW] = amo(func(old, src uint32) uint32 { return old ^ src })
	Table[inst.AMOANDW] = amo(func(old, src uint32) uint32 { return old & src })
	Table[inst.AMOORW] = amo(func(old, src uint32) uint32 { return old | src })
	Table[inst.AMOMINW] = amo(func(old, src uint32) uint32 {
		if int32(src) < int32(old) {
			return src
		}
		return old
	})
	Table[inst.AMOMAXW] = amo(func(old, src uint32) uint32 {
		if int32(src) > int32(old) {
			return src
		}
		return old
	})
	Table[inst.AMOMINUW] = amo(func(old, src uint32) uint32 {
		if src < old {
			return src
		}
		return old
	})
	Table[inst.AMOMAXUW] = amo(func(old, src uint32) uint32 {
		if src > old {
			return src
		}
		return old
	})
}

func amo(combine func(old, src uint32) uint32) inst.Impl {
	return func(m *cpu.Machine, rec *inst.Instruction) *inst.Instruction {
		addr := m.Reg(rec.Rs1)
		old := m.Mem.ReadW(addr)
		m.Mem.WriteW(addr, combine(old, m.Reg(rec.Rs2)))
		m.SetReg(rec.Rd, old)
		return next(m, rec)
	}
}
