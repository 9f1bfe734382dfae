// Package jit defines the abstract tier-1 code generation contract: a
// small, architecture-neutral instruction set that a concrete backend (x86,
// arm64, an interpreter-of-Ops) can consume. pkg/exec emits Op streams;
// nothing in this module or pkg/exec assumes a particular target ISA —
// Generator is the seam, per the teacher's external-backend-behind-
// interface pattern (pkg/gpu.CUDAProcess in the reference codebase).
package jit

// Kind enumerates the tier-1 op vocabulary. Names and grouping follow the
// RVOP X64(...) templates they are extracted from (ld_imm, ld, ld_sext, st,
// st_imm, alu/alu_imm, cmp, jcc/set_jmp_off/jmp_off, jmp, mul/div/mod,
// cond/end, call, mem, exit).
type Kind uint8

const (
	OpLdImm Kind = iota
	OpLd
	OpLdSext
	OpSt
	OpStImm
	OpAlu
	OpAluImm
	OpCmp
	OpSetJmpOff
	OpJcc
	OpJmpOff
	OpJmp
	OpMul
	OpDiv
	OpMod
	OpCond
	OpEnd
	OpCall
	OpMem
	OpExit
)

// Field names the architectural storage an Op reads or writes: a register
// file slot, the PC, or a Machine member reached through a handler call.
type Field uint8

const (
	FieldNone Field = iota
	FieldX          // integer register file
	FieldF          // float register file
	FieldPC
)

// ALU names the arithmetic/logical operator an OpAlu/OpAluImm Op performs;
// values mirror the RV32I opcodes directly rather than introducing a
// second naming scheme.
type ALU uint8

const (
	ALUAdd ALU = iota
	ALUSub
	ALUAnd
	ALUOr
	ALUXor
	ALUSll
	ALUSrl
	ALUSra
	ALUSlt
	ALUSltu
)

// Op is one abstract tier-1 instruction. Only the fields relevant to Kind
// are populated; the rest stay zero. A Generator is expected to type-switch
// on Kind, same as the reference x64 backend generates per RVOP template.
type Op struct {
	Kind Kind

	Field Field // which Machine member a Ld/St targets
	Reg   uint8 // register index into Field's array, when applicable

	Imm   int64
	ALU   ALU
	Size  uint8 // byte width for ld/st (1, 2, 4)
	Sext  bool
	Cond  uint8 // comparison predicate id for Jcc
	Label int   // correlates SetJmpOff/JmpOff pairs within one sequence

	Handler string // callback name for OpCall (e.g. "ecall", "ebreak", "mret")
}

// Generator consumes an Op stream for one Instruction and lowers it to
// whatever the concrete backend emits (x86 bytes, a second-tier bytecode,
// ...). EmitSequence in pkg/exec produces the stream; Generator never sees
// pkg/inst or pkg/cpu types.
type Generator interface {
	Emit(ops []Op) error
}

// NullGenerator discards every Op. Used by hosts that only want the
// interpreter and by tests that check EmitSequence output directly without
// standing up a real backend.
type NullGenerator struct{}

func (NullGenerator) Emit(ops []Op) error { return nil }
