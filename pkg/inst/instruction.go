package inst

import "github.com/oisee/rv32core/pkg/cpu"

// Impl is the per-instruction dispatch function. It executes the
// instruction's architectural effect against m, then returns the successor
// record to tail-chain into, or nil if the interpreter must return to the
// outer loop (block end, exception, or cycle budget exhaustion handled by
// the caller). Implementations never allocate.
type Impl func(m *cpu.Machine, rec *Instruction) *Instruction

// BranchHistory is a fixed-capacity, round-robin (PC, target) side table
// owned by JALR-class records (spec.md §4.3). Only JALR/C.JR/C.JALR records
// allocate one.
type BranchHistory struct {
	Entries [HistoryCapacity]BranchHistoryEntry
	Next    int // round-robin write cursor
}

// HistoryCapacity is H in spec.md §4.3: a small fixed power of two.
const HistoryCapacity = 8

// BranchHistoryEntry pairs an indirect-jump target PC with the decoded
// record at that target, so a hit can tail-chain without consulting the
// block map.
type BranchHistoryEntry struct {
	Valid  bool
	PC     uint32
	Target *Instruction
}

// Instruction is the decoded record: a tagged variant over the RV32-IMC
// opcode set with pre-extracted operand fields, the dispatch function
// pointer, and the block-linker's successor handles.
//
// TakenTarget/UntakenTarget carry the linker's resolved successor and are
// stamped with the block-map generation they were resolved against
// (LinkGen) rather than being bare pointers: since Go's GC keeps an
// evicted block's memory alive as long as something still points to it,
// the risk isn't a dangling pointer (spec.md §9's C-level concern) but a
// stale one — pointing at a block the map has since invalidated. The
// generation stamp lets the interpreter detect that at dereference time
// and re-resolve instead of trusting silently-stale data.
type Instruction struct {
	Op OpCode

	Rd, Rs1, Rs2, Rs3 uint8 // Rs3 is F-extension only (FMADD family)
	Imm               int32 // sign- or zero-extended per the source form
	Shamt             uint8

	Size uint8 // 2 (compressed) or 4 (base)

	// PC is the guest address this record was decoded at. Needed by
	// branches/jumps to compute pc-relative targets and by the linker to
	// resolve fall-through addresses.
	PC uint32

	Impl Impl

	// Next is the following record within the same block, set by the
	// block builder for every non-terminal instruction. A non-control-
	// transfer Impl tail-chains into Next directly; nil means rec is the
	// last instruction of its block and the interpreter must return to
	// the outer loop to resolve the successor block.
	Next *Instruction

	TakenTarget   *Instruction
	UntakenTarget *Instruction

	// LinkGen is the block map generation TakenTarget/UntakenTarget were
	// resolved against. A mismatch against the current generation means
	// the target may have been invalidated since, so the interpreter
	// re-resolves rather than trusting the cached pointer.
	LinkGen uint64

	// History is non-nil only for JALR-class records (spec.md §4.3).
	History *BranchHistory
}

// IsControlTransfer reports whether op always ends a block (spec.md §3:
// block ends at "any control transfer").
func IsControlTransfer(op OpCode) bool {
	switch op {
	case JAL, JALR, BEQ, BNE, BLT, BGE, BLTU, BGEU,
		ECALL, EBREAK, MRET,
		CJ, CJAL, CJR, CJALR, CBEQZ, CBNEZ, CEBREAK:
		return true
	}
	return false
}

// IsIndirect reports whether op resolves its target at dispatch time via
// a register (JALR-class), as opposed to a statically known PC-relative
// target.
func IsIndirect(op OpCode) bool {
	switch op {
	case JALR, CJR, CJALR:
		return true
	}
	return false
}
