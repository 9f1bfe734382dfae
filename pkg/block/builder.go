package block

import (
	"github.com/oisee/rv32core/pkg/decode"
	"github.com/oisee/rv32core/pkg/inst"
)

// MaxLen bounds how many instructions a single block may hold even if no
// control transfer is hit first, so a decode error or pathological input
// can't grow one block without limit.
const MaxLen = 512

// PageSize is the guest page granularity a block never straddles. A block
// that ran across a page boundary could outlive a page remap (the guest
// unmapping/remapping the page past its start), so the builder always ends
// a block at the page it started in, even absent a control transfer.
const PageSize = 4096

func pageOf(addr uint32) uint32 { return addr / PageSize }

// AssignImpl wires a freshly decoded Instruction to its dispatch function.
// Builder takes it as a parameter rather than importing pkg/exec directly,
// keeping decode-and-group logic independent of instruction semantics.
type AssignImpl func(*inst.Instruction)

// Build decodes a straight-line run starting at pc, stopping at (and
// including) the first control-transfer instruction, the last instruction
// of pc's guest page, MaxLen instructions, or the first decode error (the
// partial block built so far is returned alongside the error; callers
// that can't tolerate a short block should discard it).
func Build(pc uint32, fetch decode.Fetch16, assign AssignImpl) (*Block, error) {
	b := &Block{PC: pc}
	entryPage := pageOf(pc)
	cur := pc
	for len(b.Instrs) < MaxLen {
		rec, err := decode.Decode(cur, fetch)
		if err != nil {
			return b, err
		}
		assign(rec)
		if len(b.Instrs) > 0 {
			b.Instrs[len(b.Instrs)-1].Next = rec
		}
		b.Instrs = append(b.Instrs, rec)

		if rec.Op == inst.JALR || rec.Op == inst.CJR || rec.Op == inst.CJALR {
			rec.History = &inst.BranchHistory{}
		}

		if inst.IsControlTransfer(rec.Op) {
			break
		}
		cur += uint32(rec.Size)
		if pageOf(cur) != entryPage {
			break
		}
	}
	return b, nil
}
