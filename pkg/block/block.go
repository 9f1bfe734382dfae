// Package block groups decoded instructions into straight-line sequences
// (spec: a block ends at the first control transfer) and provides the two
// collaborators that keep the interpreter from re-decoding and
// re-resolving successors on every pass: Map (a persistent PC->Block
// index) and Cache (a small bounded set of "hot" blocks).
package block

import "github.com/oisee/rv32core/pkg/inst"

// Block is a straight-line run of decoded instructions starting at PC and
// ending at the first control-transfer instruction (inclusive). Instrs[i]
// always has Instrs[i].Next == Instrs[i+1] for i < len-1; the last
// record's Next is nil.
type Block struct {
	PC      uint32
	Instrs  []*inst.Instruction
	Hotness uint32 // bumped by Cache.Get on every cache hit; read by Cache.Hot
}

// Entry returns the first instruction, the tail-chain target for anything
// that jumps to PC.
func (b *Block) Entry() *inst.Instruction {
	if len(b.Instrs) == 0 {
		return nil
	}
	return b.Instrs[0]
}
