package inst

import "testing"

func TestIsControlTransferCoversBranchesAndJumps(t *testing.T) {
	transfers := []OpCode{JAL, JALR, BEQ, BNE, BLT, BGE, BLTU, BGEU,
		ECALL, EBREAK, MRET, CJ, CJAL, CJR, CJALR, CBEQZ, CBNEZ, CEBREAK}
	for _, op := range transfers {
		if !IsControlTransfer(op) {
			t.Errorf("IsControlTransfer(%v) = false, want true", op)
		}
	}
}

func TestIsControlTransferFalseForALU(t *testing.T) {
	straightLine := []OpCode{ADD, SUB, ADDI, AND, OR, XOR, LW, SW}
	for _, op := range straightLine {
		if IsControlTransfer(op) {
			t.Errorf("IsControlTransfer(%v) = true, want false", op)
		}
	}
}

func TestIsIndirectOnlyJalrClass(t *testing.T) {
	for _, op := range []OpCode{JALR, CJR, CJALR} {
		if !IsIndirect(op) {
			t.Errorf("IsIndirect(%v) = false, want true", op)
		}
	}
	for _, op := range []OpCode{JAL, BEQ, CJ, ADD} {
		if IsIndirect(op) {
			t.Errorf("IsIndirect(%v) = true, want false", op)
		}
	}
}
