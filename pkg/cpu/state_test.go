package cpu

import "testing"

func TestX0AlwaysReadsZero(t *testing.T) {
	m := &Machine{}
	m.SetReg(0, 0xDEADBEEF)
	if got := m.Reg(0); got != 0 {
		t.Errorf("Reg(0) = %#x after a write, want 0", got)
	}
}

func TestSetRegWritesNonZeroRegisters(t *testing.T) {
	m := &Machine{}
	m.SetReg(5, 0x1234)
	if got := m.Reg(5); got != 0x1234 {
		t.Errorf("Reg(5) = %#x, want 0x1234", got)
	}
}

func TestResetPreservesHostsClearState(t *testing.T) {
	m := &Machine{}
	m.SetReg(1, 42)
	m.PC = 0x1000
	m.Cycle = 99
	m.Reset(0x80)
	if m.PC != 0x80 {
		t.Errorf("PC after reset = %#x, want 0x80", m.PC)
	}
	if m.Cycle != 0 {
		t.Errorf("Cycle after reset = %d, want 0", m.Cycle)
	}
	if got := m.Reg(1); got != 0 {
		t.Errorf("x1 after reset = %#x, want 0", got)
	}
}

func TestMRETRestoresMPIE(t *testing.T) {
	m := &Machine{CSRMepc: 0x4000}
	m.MRET()
	if m.PC != 0x4000 {
		t.Errorf("PC after MRET = %#x, want 0x4000", m.PC)
	}
	if m.CSRMstatus != MstatusMPIE {
		t.Errorf("mstatus after MRET = %#x, want MPIE bit set only", m.CSRMstatus)
	}
}

func TestLatchMisalignOverwritesPrevious(t *testing.T) {
	m := &Machine{}
	m.LatchMisalign(0x10, MisalignLoad, 0x21)
	m.LatchMisalign(0x20, MisalignStore, 0x41)
	if m.Misalign.PC != 0x20 || m.Misalign.Kind != MisalignStore {
		t.Errorf("Misalign = %+v, want the most recent fault", m.Misalign)
	}
}
