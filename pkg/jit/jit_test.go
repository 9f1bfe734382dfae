package jit

import "testing"

func TestNullGeneratorDiscardsOps(t *testing.T) {
	var g NullGenerator
	ops := []Op{{Kind: OpLdImm, Imm: 42}, {Kind: OpExit}}
	if err := g.Emit(ops); err != nil {
		t.Errorf("NullGenerator.Emit returned %v, want nil", err)
	}
}

func TestGeneratorInterfaceSatisfiedByNullGenerator(t *testing.T) {
	var _ Generator = NullGenerator{}
}

func TestOpZeroValueIsLdImm(t *testing.T) {
	var op Op
	if op.Kind != OpLdImm {
		t.Errorf("zero-value Op.Kind = %v, want OpLdImm (iota base)", op.Kind)
	}
}
