package exec

import (
	"github.com/oisee/rv32core/pkg/inst"
	"github.com/oisee/rv32core/pkg/jit"
)

// EmitSequence returns the tier-1 Op stream for rec, the JIT-facing twin of
// Table[rec.Op]. The two are written side by side in this package so a
// change to one opcode's architectural effect is hard to make without
// touching the other.
func EmitSequence(rec *inst.Instruction) []jit.Op {
	switch rec.Op {
	case inst.ADD:
		return rtypeOps(jit.ALUAdd, rec)
	case inst.SUB:
		return rtypeOps(jit.ALUSub, rec)
	case inst.AND:
		return rtypeOps(jit.ALUAnd, rec)
	case inst.OR:
		return rtypeOps(jit.ALUOr, rec)
	case inst.XOR:
		return rtypeOps(jit.ALUXor, rec)
	case inst.SLL:
		return rtypeOps(jit.ALUSll, rec)
	case inst.SRL:
		return rtypeOps(jit.ALUSrl, rec)
	case inst.SRA:
		return rtypeOps(jit.ALUSra, rec)
	case inst.SLT:
		return rtypeOps(jit.ALUSlt, rec)
	case inst.SLTU:
		return rtypeOps(jit.ALUSltu, rec)

	case inst.ADDI:
		return itypeOps(jit.ALUAdd, rec)
	case inst.ANDI:
		return itypeOps(jit.ALUAnd, rec)
	case inst.ORI:
		return itypeOps(jit.ALUOr, rec)
	case inst.XORI:
		return itypeOps(jit.ALUXor, rec)
	case inst.SLLI:
		return itypeOps(jit.ALUSll, rec)
	case inst.SRLI:
		return itypeOps(jit.ALUSrl, rec)
	case inst.SRAI:
		return itypeOps(jit.ALUSra, rec)
	case inst.SLTI:
		return itypeOps(jit.ALUSlt, rec)
	case inst.SLTIU:
		return itypeOps(jit.ALUSltu, rec)

	case inst.LUI:
		return []jit.Op{
			{Kind: jit.OpLdImm, Imm: int64(rec.Imm)},
			{Kind: jit.OpSt, Field: jit.FieldX, Reg: rec.Rd, Size: 4},
		}
	case inst.AUIPC:
		return []jit.Op{
			{Kind: jit.OpLdImm, Imm: int64(rec.PC) + int64(rec.Imm)},
			{Kind: jit.OpSt, Field: jit.FieldX, Reg: rec.Rd, Size: 4},
		}

	case inst.LB, inst.LH, inst.LW, inst.LBU, inst.LHU:
		return loadOps(rec)
	case inst.SB, inst.SH, inst.SW:
		return storeOps(rec)

	case inst.MUL:
		return []jit.Op{
			{Kind: jit.OpLd, Field: jit.FieldX, Reg: rec.Rs1, Size: 4},
			{Kind: jit.OpLd, Field: jit.FieldX, Reg: rec.Rs2, Size: 4},
			{Kind: jit.OpMul},
			{Kind: jit.OpSt, Field: jit.FieldX, Reg: rec.Rd, Size: 4},
		}
	case inst.DIV, inst.DIVU:
		return []jit.Op{
			{Kind: jit.OpLd, Field: jit.FieldX, Reg: rec.Rs1, Size: 4},
			{Kind: jit.OpLd, Field: jit.FieldX, Reg: rec.Rs2, Size: 4},
			{Kind: jit.OpDiv},
			{Kind: jit.OpSt, Field: jit.FieldX, Reg: rec.Rd, Size: 4},
		}
	case inst.REM, inst.REMU:
		return []jit.Op{
			{Kind: jit.OpLd, Field: jit.FieldX, Reg: rec.Rs1, Size: 4},
			{Kind: jit.OpLd, Field: jit.FieldX, Reg: rec.Rs2, Size: 4},
			{Kind: jit.OpMod},
			{Kind: jit.OpSt, Field: jit.FieldX, Reg: rec.Rd, Size: 4},
		}

	case inst.JAL, inst.CJ, inst.CJAL:
		ops := []jit.Op{}
		if rec.Rd != 0 {
			ops = append(ops,
				jit.Op{Kind: jit.OpCond, Reg: rec.Rd},
				jit.Op{Kind: jit.OpLdImm, Field: jit.FieldPC, Imm: int64(rec.Size)},
				jit.Op{Kind: jit.OpSt, Field: jit.FieldX, Reg: rec.Rd, Size: 4},
				jit.Op{Kind: jit.OpEnd},
			)
		}
		ops = append(ops,
			jit.Op{Kind: jit.OpLdImm, Field: jit.FieldPC, Imm: int64(rec.Imm)},
			jit.Op{Kind: jit.OpSt, Field: jit.FieldPC},
			jit.Op{Kind: jit.OpJmp, Imm: int64(rec.Imm)},
			jit.Op{Kind: jit.OpExit},
		)
		return ops

	case inst.JALR, inst.CJR, inst.CJALR:
		ops := []jit.Op{}
		if rec.Rd != 0 {
			ops = append(ops,
				jit.Op{Kind: jit.OpCond, Reg: rec.Rd},
				jit.Op{Kind: jit.OpLdImm, Field: jit.FieldPC, Imm: int64(rec.Size)},
				jit.Op{Kind: jit.OpSt, Field: jit.FieldX, Reg: rec.Rd, Size: 4},
				jit.Op{Kind: jit.OpEnd},
			)
		}
		return append(ops,
			jit.Op{Kind: jit.OpLd, Field: jit.FieldX, Reg: rec.Rs1, Size: 4},
			jit.Op{Kind: jit.OpAluImm, ALU: jit.ALUAdd, Imm: int64(rec.Imm)},
			jit.Op{Kind: jit.OpAluImm, ALU: jit.ALUAnd, Imm: ^int64(1)},
			jit.Op{Kind: jit.OpSt, Field: jit.FieldPC},
			jit.Op{Kind: jit.OpExit},
		)

	case inst.BEQ, inst.BNE, inst.BLT, inst.BGE, inst.BLTU, inst.BGEU, inst.CBEQZ, inst.CBNEZ:
		return branchOps(rec)

	case inst.ECALL:
		return []jit.Op{{Kind: jit.OpCall, Handler: "ecall"}, {Kind: jit.OpExit}}
	case inst.EBREAK, inst.CEBREAK:
		return []jit.Op{{Kind: jit.OpCall, Handler: "ebreak"}, {Kind: jit.OpExit}}
	case inst.MRET:
		return []jit.Op{{Kind: jit.OpCall, Handler: "mret"}, {Kind: jit.OpExit}}

	case inst.FENCE, inst.FENCEI:
		return nil

	default:
		// Opcodes without a tier-1 lowering (CSR, AMO, F-extension, ...)
		// fall back to a host callback: correct, just not inlined.
		return []jit.Op{{Kind: jit.OpCall, Handler: "interpret_one"}, {Kind: jit.OpExit}}
	}
}

func rtypeOps(op jit.ALU, rec *inst.Instruction) []jit.Op {
	return []jit.Op{
		{Kind: jit.OpLd, Field: jit.FieldX, Reg: rec.Rs1, Size: 4},
		{Kind: jit.OpLd, Field: jit.FieldX, Reg: rec.Rs2, Size: 4},
		{Kind: jit.OpAlu, ALU: op},
		{Kind: jit.OpSt, Field: jit.FieldX, Reg: rec.Rd, Size: 4},
	}
}

func itypeOps(op jit.ALU, rec *inst.Instruction) []jit.Op {
	return []jit.Op{
		{Kind: jit.OpLd, Field: jit.FieldX, Reg: rec.Rs1, Size: 4},
		{Kind: jit.OpAluImm, ALU: op, Imm: int64(rec.Imm)},
		{Kind: jit.OpSt, Field: jit.FieldX, Reg: rec.Rd, Size: 4},
	}
}

func loadSize(op inst.OpCode) (uint8, bool) {
	switch op {
	case inst.LB:
		return 1, true
	case inst.LBU:
		return 1, false
	case inst.LH:
		return 2, true
	case inst.LHU:
		return 2, false
	default:
		return 4, false
	}
}

func loadOps(rec *inst.Instruction) []jit.Op {
	size, sext := loadSize(rec.Op)
	return []jit.Op{
		{Kind: jit.OpMem},
		{Kind: jit.OpLd, Field: jit.FieldX, Reg: rec.Rs1, Size: 4},
		{Kind: jit.OpLdSext, Size: size, Sext: sext, Imm: int64(rec.Imm)},
		{Kind: jit.OpSt, Field: jit.FieldX, Reg: rec.Rd, Size: 4},
	}
}

func storeSize(op inst.OpCode) uint8 {
	switch op {
	case inst.SB:
		return 1
	case inst.SH:
		return 2
	default:
		return 4
	}
}

func storeOps(rec *inst.Instruction) []jit.Op {
	return []jit.Op{
		{Kind: jit.OpMem},
		{Kind: jit.OpLd, Field: jit.FieldX, Reg: rec.Rs1, Size: 4},
		{Kind: jit.OpLd, Field: jit.FieldX, Reg: rec.Rs2, Size: 4},
		{Kind: jit.OpSt, Size: storeSize(rec.Op), Imm: int64(rec.Imm)},
	}
}

func branchCond(op inst.OpCode) uint8 {
	switch op {
	case inst.BEQ, inst.CBEQZ:
		return 0
	case inst.BNE, inst.CBNEZ:
		return 1
	case inst.BLT:
		return 2
	case inst.BGE:
		return 3
	case inst.BLTU:
		return 4
	default: // BGEU
		return 5
	}
}

func branchOps(rec *inst.Instruction) []jit.Op {
	return []jit.Op{
		{Kind: jit.OpLd, Field: jit.FieldX, Reg: rec.Rs1, Size: 4},
		{Kind: jit.OpLd, Field: jit.FieldX, Reg: rec.Rs2, Size: 4},
		{Kind: jit.OpCmp},
		{Kind: jit.OpSetJmpOff},
		{Kind: jit.OpJcc, Cond: branchCond(rec.Op)},
		{Kind: jit.OpCond, Reg: 0},
		{Kind: jit.OpJmp, Imm: int64(rec.Size)},
		{Kind: jit.OpEnd},
		{Kind: jit.OpLdImm, Field: jit.FieldPC, Imm: int64(rec.Size)},
		{Kind: jit.OpSt, Field: jit.FieldPC},
		{Kind: jit.OpExit},
		{Kind: jit.OpJmpOff},
		{Kind: jit.OpCond, Reg: 0},
		{Kind: jit.OpJmp, Imm: int64(rec.Imm)},
		{Kind: jit.OpEnd},
		{Kind: jit.OpLdImm, Field: jit.FieldPC, Imm: int64(rec.Imm)},
		{Kind: jit.OpSt, Field: jit.FieldPC},
		{Kind: jit.OpExit},
	}
}
