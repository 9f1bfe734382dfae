package inst

// Info holds static metadata for an opcode: its canonical mnemonic. Catalog is
// consulted by the disassembler and by tests; it plays no role in dispatch
// (that is Instruction.Impl, assigned by pkg/exec).
type Info struct {
	Mnemonic string
}

// Catalog maps each OpCode to its static Info.
var Catalog [OpCodeCount]Info

// AllOps returns all valid OpCode values (for enumeration/tests).
func AllOps() []OpCode {
	ops := make([]OpCode, 0, OpCodeCount-1)
	for i := OpCode(1); i < OpCodeCount; i++ {
		ops = append(ops, i)
	}
	return ops
}

// Mnemonic returns the assembly mnemonic for op.
func Mnemonic(op OpCode) string {
	return Catalog[op].Mnemonic
}

func init() {
	set := func(op OpCode, mnemonic string) { Catalog[op] = Info{Mnemonic: mnemonic} }

	set(ADD, "add")
	set(SUB, "sub")
	set(SLL, "sll")
	set(SLT, "slt")
	set(SLTU, "sltu")
	set(XOR, "xor")
	set(SRL, "srl")
	set(SRA, "sra")
	set(OR, "or")
	set(AND, "and")

	set(ADDI, "addi")
	set(SLTI, "slti")
	set(SLTIU, "sltiu")
	set(XORI, "xori")
	set(ORI, "ori")
	set(ANDI, "andi")
	set(SLLI, "slli")
	set(SRLI, "srli")
	set(SRAI, "srai")

	set(LUI, "lui")
	set(AUIPC, "auipc")

	set(JAL, "jal")
	set(JALR, "jalr")
	set(BEQ, "beq")
	set(BNE, "bne")
	set(BLT, "blt")
	set(BGE, "bge")
	set(BLTU, "bltu")
	set(BGEU, "bgeu")

	set(LB, "lb")
	set(LH, "lh")
	set(LW, "lw")
	set(LBU, "lbu")
	set(LHU, "lhu")
	set(SB, "sb")
	set(SH, "sh")
	set(SW, "sw")

	set(FENCE, "fence")
	set(FENCEI, "fence.i")
	set(ECALL, "ecall")
	set(EBREAK, "ebreak")
	set(MRET, "mret")

	set(CSRRW, "csrrw")
	set(CSRRS, "csrrs")
	set(CSRRC, "csrrc")
	set(CSRRWI, "csrrwi")
	set(CSRRSI, "csrrsi")
	set(CSRRCI, "csrrci")

	set(MUL, "mul")
	set(MULH, "mulh")
	set(MULHSU, "mulhsu")
	set(MULHU, "mulhu")
	set(DIV, "div")
	set(DIVU, "divu")
	set(REM, "rem")
	set(REMU, "remu")

	set(LRW, "lr.w")
	set(SCW, "sc.w")
	set(AMOSWAPW, "amoswap.w")
	set(AMOADDW, "amoadd.w")
	set(AMOXORW, "amoxor.w")
	set(AMOANDW, "amoand.w")
	set(AMOORW, "amoor.w")
	set(AMOMINW, "amomin.w")
	set(AMOMAXW, "amomax.w")
	set(AMOMINUW, "amominu.w")
	set(AMOMAXUW, "amomaxu.w")

	set(FLW, "flw")
	set(FSW, "fsw")
	set(FADDS, "fadd.s")
	set(FSUBS, "fsub.s")
	set(FMULS, "fmul.s")
	set(FDIVS, "fdiv.s")
	set(FSQRTS, "fsqrt.s")
	set(FSGNJS, "fsgnj.s")
	set(FSGNJNS, "fsgnjn.s")
	set(FSGNJXS, "fsgnjx.s")
	set(FMINS, "fmin.s")
	set(FMAXS, "fmax.s")
	set(FCVTWS, "fcvt.w.s")
	set(FCVTWUS, "fcvt.wu.s")
	set(FCVTSW, "fcvt.s.w")
	set(FCVTSWU, "fcvt.s.wu")
	set(FMVXW, "fmv.x.w")
	set(FMVWX, "fmv.w.x")
	set(FEQS, "feq.s")
	set(FLTS, "flt.s")
	set(FLES, "fle.s")
	set(FCLASSS, "fclass.s")
	set(FMADDS, "fmadd.s")
	set(FMSUBS, "fmsub.s")
	set(FNMSUBS, "fnmsub.s")
	set(FNMADDS, "fnmadd.s")

	set(CJ, "c.j")
	set(CJAL, "c.jal")
	set(CJR, "c.jr")
	set(CJALR, "c.jalr")
	set(CBEQZ, "c.beqz")
	set(CBNEZ, "c.bnez")
	set(CEBREAK, "c.ebreak")
}
