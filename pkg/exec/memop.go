package exec

import (
	"github.com/oisee/rv32core/pkg/cpu"
	"github.com/oisee/rv32core/pkg/inst"
)

func registerMem() {
	Table[inst.LB] = load(1, func(m *cpu.Machine, addr uint32) uint32 {
		return uint32(int32(int8(m.Mem.ReadB(addr))))
	})
	Table[inst.LBU] = load(1, func(m *cpu.Machine, addr uint32) uint32 {
		return uint32(m.Mem.ReadB(addr))
	})
	Table[inst.LH] = load(2, func(m *cpu.Machine, addr uint32) uint32 {
		return uint32(int32(int16(m.Mem.ReadH(addr))))
	})
	Table[inst.LHU] = load(2, func(m *cpu.Machine, addr uint32) uint32 {
		return uint32(m.Mem.ReadH(addr))
	})
	Table[inst.LW] = load(4, func(m *cpu.Machine, addr uint32) uint32 {
		return m.Mem.ReadW(addr)
	})

	Table[inst.SB] = store(1, func(m *cpu.Machine, addr uint32, v uint32) { m.Mem.WriteB(addr, uint8(v)) })
	Table[inst.SH] = store(2, func(m *cpu.Machine, addr uint32, v uint32) { m.Mem.WriteH(addr, uint16(v)) })
	Table[inst.SW] = store(4, func(m *cpu.Machine, addr uint32, v uint32) { m.Mem.WriteW(addr, v) })
}

func load(size uint32, read func(m *cpu.Machine, addr uint32) uint32) inst.Impl {
	return func(m *cpu.Machine, rec *inst.Instruction) *inst.Instruction {
		addr := m.Reg(rec.Rs1) + uint32(rec.Imm)
		if size > 1 && addr%size != 0 {
			m.LatchMisalign(rec.PC, cpu.MisalignLoad, addr)
			m.Cycle++
			m.PC = rec.PC
			return nil
		}
		m.SetReg(rec.Rd, read(m, addr))
		return next(m, rec)
	}
}

func store(size uint32, write func(m *cpu.Machine, addr uint32, v uint32)) inst.Impl {
	return func(m *cpu.Machine, rec *inst.Instruction) *inst.Instruction {
		addr := m.Reg(rec.Rs1) + uint32(rec.Imm)
		if size > 1 && addr%size != 0 {
			m.LatchMisalign(rec.PC, cpu.MisalignStore, addr)
			m.Cycle++
			m.PC = rec.PC
			return nil
		}
		write(m, addr, m.Reg(rec.Rs2))
		return next(m, rec)
	}
}
