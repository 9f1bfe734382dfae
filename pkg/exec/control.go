package exec

import (
	"github.com/oisee/rv32core/pkg/cpu"
	"github.com/oisee/rv32core/pkg/inst"
)

func registerControl() {
	Table[inst.JAL] = jumpLink
	Table[inst.CJ] = jumpLink
	Table[inst.CJAL] = jumpLink

	Table[inst.JALR] = jumpLinkRegister
	Table[inst.CJR] = jumpLinkRegister
	Table[inst.CJALR] = jumpLinkRegister

	Table[inst.BEQ] = branch(func(a, b uint32) bool { return a == b })
	Table[inst.CBEQZ] = Table[inst.BEQ]
	Table[inst.BNE] = branch(func(a, b uint32) bool { return a != b })
	Table[inst.CBNEZ] = Table[inst.BNE]
	Table[inst.BLT] = branch(func(a, b uint32) bool { return int32(a) < int32(b) })
	Table[inst.BGE] = branch(func(a, b uint32) bool { return int32(a) >= int32(b) })
	Table[inst.BLTU] = branch(func(a, b uint32) bool { return a < b })
	Table[inst.BGEU] = branch(func(a, b uint32) bool { return a >= b })

	Table[inst.FENCE] = noop
	Table[inst.FENCEI] = noop

	Table[inst.ECALL] = func(m *cpu.Machine, rec *inst.Instruction) *inst.Instruction {
		retire(m, rec)
		m.Sys.OnECall(m)
		return nil
	}
	Table[inst.EBREAK] = func(m *cpu.Machine, rec *inst.Instruction) *inst.Instruction {
		retire(m, rec)
		m.Sys.OnEBreak(m)
		return nil
	}
	Table[inst.CEBREAK] = Table[inst.EBREAK]

	Table[inst.MRET] = func(m *cpu.Machine, rec *inst.Instruction) *inst.Instruction {
		retire(m, rec)
		m.MRET()
		return nil
	}

	Table[inst.CSRRW] = csrOp(func(old, src uint32) uint32 { return src }, false)
	Table[inst.CSRRS] = csrOp(func(old, src uint32) uint32 { return old | src }, false)
	Table[inst.CSRRC] = csrOp(func(old, src uint32) uint32 { return old &^ src }, false)
	Table[inst.CSRRWI] = csrOp(func(old, src uint32) uint32 { return src }, true)
	Table[inst.CSRRSI] = csrOp(func(old, src uint32) uint32 { return old | src }, true)
	Table[inst.CSRRCI] = csrOp(func(old, src uint32) uint32 { return old &^ src }, true)
}

// retire commits PC/Cycle/Compressed for a control-transfer record just
// before handing off — the trampoline never returns through next() for
// these, so the bookkeeping has to happen here.
func retire(m *cpu.Machine, rec *inst.Instruction) {
	m.Cycle++
	m.PC = rec.PC
	m.Compressed = rec.Size == 2
}

func noop(m *cpu.Machine, rec *inst.Instruction) *inst.Instruction {
	return next(m, rec)
}

func jumpLink(m *cpu.Machine, rec *inst.Instruction) *inst.Instruction {
	pc := rec.PC
	target := uint32(int32(pc) + rec.Imm)
	link := pc + uint32(rec.Size)
	if rec.Rd != 0 {
		m.SetReg(rec.Rd, link)
	}
	if target&1 != 0 {
		m.LatchMisalign(pc, cpu.MisalignInsn, target)
		m.Cycle++
		m.PC = pc
		return nil
	}
	m.Cycle++
	m.PC = target
	m.Compressed = rec.Size == 2
	return rec.TakenTarget
}

func jumpLinkRegister(m *cpu.Machine, rec *inst.Instruction) *inst.Instruction {
	pc := rec.PC
	target := (m.Reg(rec.Rs1) + uint32(rec.Imm)) &^ 1
	link := pc + uint32(rec.Size)
	if rec.Rd != 0 {
		m.SetReg(rec.Rd, link)
	}
	if target&1 != 0 {
		m.LatchMisalign(pc, cpu.MisalignInsn, target)
		m.Cycle++
		m.PC = pc
		return nil
	}
	m.Cycle++
	m.PC = target
	m.Compressed = rec.Size == 2
	// Indirect targets are resolved by the interpreter's branch history
	// table (pkg/bht), not by a statically linked pointer: the same JALR
	// record legitimately targets different blocks across calls.
	return nil
}

func branch(taken func(a, b uint32) bool) inst.Impl {
	return func(m *cpu.Machine, rec *inst.Instruction) *inst.Instruction {
		pc := rec.PC
		if !taken(m.Reg(rec.Rs1), m.Reg(rec.Rs2)) {
			m.Cycle++
			m.PC = pc + uint32(rec.Size)
			m.Compressed = rec.Size == 2
			return rec.UntakenTarget
		}
		target := uint32(int32(pc) + rec.Imm)
		if target&1 != 0 {
			m.LatchMisalign(pc, cpu.MisalignInsn, target)
			m.Cycle++
			m.PC = pc
			return nil
		}
		m.Cycle++
		m.PC = target
		m.Compressed = rec.Size == 2
		return rec.TakenTarget
	}
}

// csrOp builds a CSRRx Impl. The immediate forms (CSRRWI/CSRRSI/CSRRCI)
// decode their zimm operand into rec.Rs1 rather than a register index
// (same field, different meaning) — imm selects reading it as a literal
// instead of through the register file.
func csrOp(combine func(old, src uint32) uint32, imm bool) inst.Impl {
	return func(m *cpu.Machine, rec *inst.Instruction) *inst.Instruction {
		addr := uint32(rec.Imm)
		old := readCSR(m, addr)
		var src uint32
		if imm {
			src = uint32(rec.Rs1)
		} else {
			src = m.Reg(rec.Rs1)
		}
		writeCSR(m, addr, combine(old, src))
		m.SetReg(rec.Rd, old)
		return next(m, rec)
	}
}

const (
	csrCycle   = 0xC00
	csrCycleH  = 0xC80
	csrMstatus = 0x300
	csrMepc    = 0x341
	csrFcsr    = 0x003
)

func readCSR(m *cpu.Machine, addr uint32) uint32 {
	switch addr {
	case csrCycle:
		return uint32(m.Cycle)
	case csrCycleH:
		return uint32(m.Cycle >> 32)
	case csrMstatus:
		return m.CSRMstatus
	case csrMepc:
		return m.CSRMepc
	case csrFcsr:
		return m.CSRFcsr
	default:
		return 0
	}
}

func writeCSR(m *cpu.Machine, addr uint32, v uint32) {
	switch addr {
	case csrMstatus:
		m.CSRMstatus = v
	case csrMepc:
		m.CSRMepc = v
	case csrFcsr:
		m.CSRFcsr = v
	}
}
