package exec

import (
	"github.com/oisee/rv32core/pkg/cpu"
	"github.com/oisee/rv32core/pkg/inst"
)

// registerFloat wires RV32F to the package-level Oracle. Every Impl here
// only moves bits between Machine.F/X and Oracle — none of them know or
// care how the arithmetic itself is carried out.
func registerFloat() {
	Table[inst.FLW] = func(m *cpu.Machine, rec *inst.Instruction) *inst.Instruction {
		addr := m.Reg(rec.Rs1) + uint32(rec.Imm)
		if addr%4 != 0 {
			m.LatchMisalign(rec.PC, cpu.MisalignLoad, addr)
			m.Cycle++
			m.PC = rec.PC
			return nil
		}
		m.F[rec.Rd] = m.Mem.ReadW(addr)
		return next(m, rec)
	}
	Table[inst.FSW] = func(m *cpu.Machine, rec *inst.Instruction) *inst.Instruction {
		addr := m.Reg(rec.Rs1) + uint32(rec.Imm)
		if addr%4 != 0 {
			m.LatchMisalign(rec.PC, cpu.MisalignStore, addr)
			m.Cycle++
			m.PC = rec.PC
			return nil
		}
		m.Mem.WriteW(addr, m.F[rec.Rs2])
		return next(m, rec)
	}

	Table[inst.FADDS] = ftype(func(a, b uint32) (uint32, uint8) { return Oracle.Add(a, b) })
	Table[inst.FSUBS] = ftype(func(a, b uint32) (uint32, uint8) { return Oracle.Sub(a, b) })
	Table[inst.FMULS] = ftype(func(a, b uint32) (uint32, uint8) { return Oracle.Mul(a, b) })
	Table[inst.FDIVS] = ftype(func(a, b uint32) (uint32, uint8) { return Oracle.Div(a, b) })
	Table[inst.FMINS] = func(m *cpu.Machine, rec *inst.Instruction) *inst.Instruction {
		m.F[rec.Rd] = Oracle.Min(m.F[rec.Rs1], m.F[rec.Rs2])
		return next(m, rec)
	}
	Table[inst.FMAXS] = func(m *cpu.Machine, rec *inst.Instruction) *inst.Instruction {
		m.F[rec.Rd] = Oracle.Max(m.F[rec.Rs1], m.F[rec.Rs2])
		return next(m, rec)
	}

	Table[inst.FSQRTS] = func(m *cpu.Machine, rec *inst.Instruction) *inst.Instruction {
		res, flags := Oracle.Sqrt(m.F[rec.Rs1])
		m.F[rec.Rd] = res
		m.CSRFcsr |= uint32(flags)
		return next(m, rec)
	}

	Table[inst.FSGNJS] = func(m *cpu.Machine, rec *inst.Instruction) *inst.Instruction {
		m.F[rec.Rd] = (m.F[rec.Rs1] &^ signMask) | (m.F[rec.Rs2] & signMask)
		return next(m, rec)
	}
	Table[inst.FSGNJNS] = func(m *cpu.Machine, rec *inst.Instruction) *inst.Instruction {
		m.F[rec.Rd] = (m.F[rec.Rs1] &^ signMask) | (^m.F[rec.Rs2] & signMask)
		return next(m, rec)
	}
	Table[inst.FSGNJXS] = func(m *cpu.Machine, rec *inst.Instruction) *inst.Instruction {
		m.F[rec.Rd] = m.F[rec.Rs1] ^ (m.F[rec.Rs2] & signMask)
		return next(m, rec)
	}

	Table[inst.FCVTWS] = func(m *cpu.Machine, rec *inst.Instruction) *inst.Instruction {
		v, flags := Oracle.ToInt(m.F[rec.Rs1])
		m.SetReg(rec.Rd, uint32(v))
		m.CSRFcsr |= uint32(flags)
		return next(m, rec)
	}
	Table[inst.FCVTWUS] = func(m *cpu.Machine, rec *inst.Instruction) *inst.Instruction {
		v, flags := Oracle.ToUint(m.F[rec.Rs1])
		m.SetReg(rec.Rd, v)
		m.CSRFcsr |= uint32(flags)
		return next(m, rec)
	}
	Table[inst.FCVTSW] = func(m *cpu.Machine, rec *inst.Instruction) *inst.Instruction {
		m.F[rec.Rd] = Oracle.FromInt(int32(m.Reg(rec.Rs1)))
		return next(m, rec)
	}
	Table[inst.FCVTSWU] = func(m *cpu.Machine, rec *inst.Instruction) *inst.Instruction {
		m.F[rec.Rd] = Oracle.FromUint(m.Reg(rec.Rs1))
		return next(m, rec)
	}
	Table[inst.FMVXW] = func(m *cpu.Machine, rec *inst.Instruction) *inst.Instruction {
		m.SetReg(rec.Rd, m.F[rec.Rs1])
		return next(m, rec)
	}
	Table[inst.FMVWX] = func(m *cpu.Machine, rec *inst.Instruction) *inst.Instruction {
		m.F[rec.Rd] = m.Reg(rec.Rs1)
		return next(m, rec)
	}

	Table[inst.FEQS] = fcmp(func(a, b uint32) (bool, uint8) { return Oracle.Eq(a, b) })
	Table[inst.FLTS] = fcmp(func(a, b uint32) (bool, uint8) { return Oracle.Lt(a, b) })
	Table[inst.FLES] = fcmp(func(a, b uint32) (bool, uint8) { return Oracle.Le(a, b) })

	Table[inst.FCLASSS] = func(m *cpu.Machine, rec *inst.Instruction) *inst.Instruction {
		m.SetReg(rec.Rd, Oracle.Classify(m.F[rec.Rs1]))
		return next(m, rec)
	}

	Table[inst.FMADDS] = fma(false, false)
	Table[inst.FMSUBS] = fma(false, true)
	Table[inst.FNMSUBS] = fma(true, false)
	Table[inst.FNMADDS] = fma(true, true)
}

const signMask uint32 = 1 << 31

func ftype(op func(a, b uint32) (uint32, uint8)) inst.Impl {
	return func(m *cpu.Machine, rec *inst.Instruction) *inst.Instruction {
		res, flags := op(m.F[rec.Rs1], m.F[rec.Rs2])
		m.F[rec.Rd] = res
		m.CSRFcsr |= uint32(flags)
		return next(m, rec)
	}
}

func fcmp(op func(a, b uint32) (bool, uint8)) inst.Impl {
	return func(m *cpu.Machine, rec *inst.Instruction) *inst.Instruction {
		res, flags := op(m.F[rec.Rs1], m.F[rec.Rs2])
		m.SetReg(rec.Rd, boolU32(res))
		m.CSRFcsr |= uint32(flags)
		return next(m, rec)
	}
}

// fma builds the Impl for the four RV32F fused multiply-add forms, all
// routed through Oracle.MulAdd with the sign of rs1 and/or rs3 flipped:
// FMADD.S rd = rs1*rs2+rs3, FMSUB.S rd = rs1*rs2-rs3,
// FNMSUB.S rd = -(rs1*rs2)+rs3, FNMADD.S rd = -(rs1*rs2)-rs3.
func fma(negMul, negAdd bool) inst.Impl {
	return func(m *cpu.Machine, rec *inst.Instruction) *inst.Instruction {
		a, c := m.F[rec.Rs1], m.F[rec.Rs3]
		if negMul {
			a ^= signMask
		}
		if negAdd {
			c ^= signMask
		}
		res, flags := Oracle.MulAdd(a, m.F[rec.Rs2], c)
		m.F[rec.Rd] = res
		m.CSRFcsr |= uint32(flags)
		return next(m, rec)
	}
}
