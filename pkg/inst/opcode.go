package inst

// OpCode is a compact identifier for a decoded RV32-IMC instruction. It is
// not the raw encoding — compressed and base forms of the same operation
// (e.g. C.ADDI and ADDI) share one OpCode once decoded, since their
// architectural effect is identical.
type OpCode uint16

const (
	opInvalid OpCode = iota

	// --- RV32I: register-register ALU ---
	ADD
	SUB
	SLL
	SLT
	SLTU
	XOR
	SRL
	SRA
	OR
	AND

	// --- RV32I: register-immediate ALU ---
	ADDI
	SLTI
	SLTIU
	XORI
	ORI
	ANDI
	SLLI
	SRLI
	SRAI

	// --- RV32I: upper immediate ---
	LUI
	AUIPC

	// --- RV32I: control transfer ---
	JAL
	JALR
	BEQ
	BNE
	BLT
	BGE
	BLTU
	BGEU

	// --- RV32I: loads/stores ---
	LB
	LH
	LW
	LBU
	LHU
	SB
	SH
	SW

	// --- RV32I: misc-mem / system ---
	FENCE
	FENCEI // Zifencei hook
	ECALL
	EBREAK
	MRET

	// --- Zicsr hooks ---
	CSRRW
	CSRRS
	CSRRC
	CSRRWI
	CSRRSI
	CSRRCI

	// --- RV32M ---
	MUL
	MULH
	MULHSU
	MULHU
	DIV
	DIVU
	REM
	REMU

	// --- RV32A (AMO; non-atomic placeholders, see spec.md §9 Open Question) ---
	LRW
	SCW
	AMOSWAPW
	AMOADDW
	AMOXORW
	AMOANDW
	AMOORW
	AMOMINW
	AMOMAXW
	AMOMINUW
	AMOMAXUW

	// --- RV32F hooks (interface-level per spec.md §4.5/§9) ---
	FLW
	FSW
	FADDS
	FSUBS
	FMULS
	FDIVS
	FSQRTS
	FSGNJS
	FSGNJNS
	FSGNJXS
	FMINS
	FMAXS
	FCVTWS
	FCVTWUS
	FCVTSW
	FCVTSWU
	FMVXW
	FMVWX
	FEQS
	FLTS
	FLES
	FCLASSS
	FMADDS
	FMSUBS
	FNMSUBS
	FNMADDS

	// --- C extension control-transfer forms kept distinct only where their
	// architectural effect differs from the base form they expand to; all
	// other compressed ops decode directly into the base OpCode above. ---
	CJ     // expands to JAL with rd=x0
	CJAL   // expands to JAL with rd=x1
	CJR    // expands to JALR with rd=x0
	CJALR  // expands to JALR with rd=x1
	CBEQZ  // expands to BEQ with rs2=x0
	CBNEZ  // expands to BNE with rs2=x0
	CEBREAK

	OpCodeCount
)
