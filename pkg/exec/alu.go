package exec

import (
	"github.com/oisee/rv32core/pkg/cpu"
	"github.com/oisee/rv32core/pkg/inst"
)

func registerALU() {
	Table[inst.ADD] = rtype(func(a, b uint32) uint32 { return a + b })
	Table[inst.SUB] = rtype(func(a, b uint32) uint32 { return a - b })
	Table[inst.SLL] = rtype(func(a, b uint32) uint32 { return a << (b & 0x1f) })
	Table[inst.SLT] = rtype(func(a, b uint32) uint32 { return boolU32(int32(a) < int32(b)) })
	Table[inst.SLTU] = rtype(func(a, b uint32) uint32 { return boolU32(a < b) })
	Table[inst.XOR] = rtype(func(a, b uint32) uint32 { return a ^ b })
	Table[inst.SRL] = rtype(func(a, b uint32) uint32 { return a >> (b & 0x1f) })
	Table[inst.SRA] = rtype(func(a, b uint32) uint32 { return uint32(int32(a) >> (b & 0x1f)) })
	Table[inst.OR] = rtype(func(a, b uint32) uint32 { return a | b })
	Table[inst.AND] = rtype(func(a, b uint32) uint32 { return a & b })

	Table[inst.ADDI] = itype(func(a uint32, imm int32) uint32 { return a + uint32(imm) })
	Table[inst.SLTI] = itype(func(a uint32, imm int32) uint32 { return boolU32(int32(a) < imm) })
	Table[inst.SLTIU] = itype(func(a uint32, imm int32) uint32 { return boolU32(a < uint32(imm)) })
	Table[inst.XORI] = itype(func(a uint32, imm int32) uint32 { return a ^ uint32(imm) })
	Table[inst.ORI] = itype(func(a uint32, imm int32) uint32 { return a | uint32(imm) })
	Table[inst.ANDI] = itype(func(a uint32, imm int32) uint32 { return a & uint32(imm) })
	Table[inst.SLLI] = shiftI(func(a uint32, shamt uint8) uint32 { return a << shamt })
	Table[inst.SRLI] = shiftI(func(a uint32, shamt uint8) uint32 { return a >> shamt })
	Table[inst.SRAI] = shiftI(func(a uint32, shamt uint8) uint32 { return uint32(int32(a) >> shamt) })

	Table[inst.LUI] = func(m *cpu.Machine, rec *inst.Instruction) *inst.Instruction {
		m.SetReg(rec.Rd, uint32(rec.Imm))
		return next(m, rec)
	}
	Table[inst.AUIPC] = func(m *cpu.Machine, rec *inst.Instruction) *inst.Instruction {
		m.SetReg(rec.Rd, rec.PC+uint32(rec.Imm))
		return next(m, rec)
	}
}

func boolU32(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

func rtype(op func(a, b uint32) uint32) inst.Impl {
	return func(m *cpu.Machine, rec *inst.Instruction) *inst.Instruction {
		m.SetReg(rec.Rd, op(m.Reg(rec.Rs1), m.Reg(rec.Rs2)))
		return next(m, rec)
	}
}

func itype(op func(a uint32, imm int32) uint32) inst.Impl {
	return func(m *cpu.Machine, rec *inst.Instruction) *inst.Instruction {
		m.SetReg(rec.Rd, op(m.Reg(rec.Rs1), rec.Imm))
		return next(m, rec)
	}
}

func shiftI(op func(a uint32, shamt uint8) uint32) inst.Impl {
	return func(m *cpu.Machine, rec *inst.Instruction) *inst.Instruction {
		m.SetReg(rec.Rd, op(m.Reg(rec.Rs1), rec.Shamt))
		return next(m, rec)
	}
}
