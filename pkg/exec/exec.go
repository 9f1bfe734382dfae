// Package exec supplies the per-opcode architectural semantics that drive
// both the interpreter and the JIT tier-1 code generator. For every OpCode
// it holds two things in this one package: an Impl in Table (executed
// directly) and a case in EmitSequence (jit.go, emitted as an abstract
// jit.Op stream). Shape follows the
// teacher's big opcode switch backed by small ALU helpers underneath it.
package exec

import (
	"github.com/oisee/rv32core/pkg/cpu"
	"github.com/oisee/rv32core/pkg/inst"
	"github.com/oisee/rv32core/pkg/softfloat"
)

// Table maps each OpCode to its interpreter implementation. Assign wires a
// freshly decoded Instruction to it; Table itself is immutable after init.
var Table [inst.OpCodeCount]inst.Impl

// Oracle is the floating-point backend used by F-extension Impls. Tests and
// hosts that need bit-exact soft-float behavior may replace it before any
// FADDS/FSUBS/... record executes; the default trusts the host FPU.
var Oracle softfloat.Oracle = softfloat.Hardware{}

// Assign sets rec.Impl from Table. Called once by the block builder right
// after decode; dispatch never re-consults Table afterwards.
func Assign(rec *inst.Instruction) {
	rec.Impl = Table[rec.Op]
}

// next is the fallthrough helper shared by every non-control-transfer
// Impl: advance the cycle counter and PC, then tail-chain to rec.Next (or
// signal the outer loop with nil at block end).
func next(m *cpu.Machine, rec *inst.Instruction) *inst.Instruction {
	m.Cycle++
	m.PC = rec.PC + uint32(rec.Size)
	m.Compressed = rec.Size == 2
	return rec.Next
}

func init() {
	registerALU()
	registerMem()
	registerControl()
	registerMulDiv()
	registerAMO()
	registerFloat()
}
