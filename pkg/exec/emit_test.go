package exec

import (
	"testing"

	"github.com/oisee/rv32core/pkg/inst"
	"github.com/oisee/rv32core/pkg/jit"
)

// TestEmitSequenceCoversTable spot-checks that every opcode with an
// interpreter Impl also has a defined tier-1 lowering — nil is only
// acceptable for FENCE/FENCEI, which really do emit no code in this
// single-hart core.
func TestEmitSequenceCoversTable(t *testing.T) {
	for _, op := range inst.AllOps() {
		if Table[op] == nil {
			continue
		}
		rec := &inst.Instruction{Op: op, Size: 4}
		ops := EmitSequence(rec)
		if ops == nil && op != inst.FENCE && op != inst.FENCEI {
			t.Errorf("opcode %s has an Impl but EmitSequence returned nil", inst.Mnemonic(op))
		}
	}
}

func TestEmitSequenceBranchHasBothArms(t *testing.T) {
	rec := &inst.Instruction{Op: inst.BEQ, Size: 4, Rs1: 1, Rs2: 2, Imm: 16}
	ops := EmitSequence(rec)
	var sawExit int
	for _, o := range ops {
		if o.Kind == jit.OpExit {
			sawExit++
		}
	}
	if sawExit != 2 {
		t.Errorf("branch lowering should exit on both the taken and untaken arm, got %d OpExit", sawExit)
	}
}
