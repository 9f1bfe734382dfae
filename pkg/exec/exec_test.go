package exec

import (
	"testing"

	"github.com/oisee/rv32core/pkg/cpu"
	"github.com/oisee/rv32core/pkg/inst"
)

// flatMem is a minimal cpu.MemoryHost backed by a byte slice, enough for
// exec-level unit tests that never touch pkg/mem.
type flatMem struct {
	bytes []byte
}

func newFlatMem(size int) *flatMem { return &flatMem{bytes: make([]byte, size)} }

func (f *flatMem) ReadB(addr uint32) uint8  { return f.bytes[addr] }
func (f *flatMem) ReadH(addr uint32) uint16 { return uint16(f.bytes[addr]) | uint16(f.bytes[addr+1])<<8 }
func (f *flatMem) ReadW(addr uint32) uint32 {
	return uint32(f.bytes[addr]) | uint32(f.bytes[addr+1])<<8 | uint32(f.bytes[addr+2])<<16 | uint32(f.bytes[addr+3])<<24
}
func (f *flatMem) WriteB(addr uint32, v uint8) { f.bytes[addr] = v }
func (f *flatMem) WriteH(addr uint32, v uint16) {
	f.bytes[addr] = uint8(v)
	f.bytes[addr+1] = uint8(v >> 8)
}
func (f *flatMem) WriteW(addr uint32, v uint32) {
	f.bytes[addr] = uint8(v)
	f.bytes[addr+1] = uint8(v >> 8)
	f.bytes[addr+2] = uint8(v >> 16)
	f.bytes[addr+3] = uint8(v >> 24)
}
func (f *flatMem) MemBase() uintptr { return 0 }

type noopSys struct{}

func (noopSys) OnECall(m *cpu.Machine)  {}
func (noopSys) OnEBreak(m *cpu.Machine) {}

func newMachine() *cpu.Machine {
	m := &cpu.Machine{Mem: newFlatMem(4096), Sys: noopSys{}}
	return m
}

func TestX0WritesAreDropped(t *testing.T) {
	m := newMachine()
	rec := &inst.Instruction{Op: inst.ADDI, PC: 0, Size: 4, Rd: 0, Rs1: 0, Imm: 5}
	Assign(rec)
	rec.Impl(m, rec)
	if m.Reg(0) != 0 {
		t.Errorf("x0 = %d, want 0 (writes to x0 must be dropped)", m.Reg(0))
	}
}

func TestAddiSignExtension(t *testing.T) {
	m := newMachine()
	m.SetReg(1, 10)
	rec := &inst.Instruction{Op: inst.ADDI, PC: 0, Size: 4, Rd: 2, Rs1: 1, Imm: -3}
	Assign(rec)
	rec.Impl(m, rec)
	if got := m.Reg(2); got != 7 {
		t.Errorf("addi x2, x1, -3 = %d, want 7", got)
	}
}

func TestDivByZero(t *testing.T) {
	m := newMachine()
	m.SetReg(1, 42)
	m.SetReg(2, 0)
	rec := &inst.Instruction{Op: inst.DIV, PC: 0, Size: 4, Rd: 3, Rs1: 1, Rs2: 2}
	Assign(rec)
	rec.Impl(m, rec)
	if got := m.Reg(3); got != 0xFFFFFFFF {
		t.Errorf("div by zero = %#x, want all-ones", got)
	}
}

func TestDivSignedOverflow(t *testing.T) {
	m := newMachine()
	m.SetReg(1, 0x80000000) // INT32_MIN
	m.SetReg(2, 0xFFFFFFFF) // -1
	rec := &inst.Instruction{Op: inst.DIV, PC: 0, Size: 4, Rd: 3, Rs1: 1, Rs2: 2}
	Assign(rec)
	rec.Impl(m, rec)
	if got := m.Reg(3); got != 0x80000000 {
		t.Errorf("INT32_MIN / -1 = %#x, want dividend (%#x)", got, uint32(0x80000000))
	}
}

func TestRemSignedOverflow(t *testing.T) {
	m := newMachine()
	m.SetReg(1, 0x80000000)
	m.SetReg(2, 0xFFFFFFFF)
	rec := &inst.Instruction{Op: inst.REM, PC: 0, Size: 4, Rd: 3, Rs1: 1, Rs2: 2}
	Assign(rec)
	rec.Impl(m, rec)
	if got := m.Reg(3); got != 0 {
		t.Errorf("INT32_MIN %% -1 = %d, want 0", got)
	}
}

func TestRemuByZero(t *testing.T) {
	m := newMachine()
	m.SetReg(1, 7)
	m.SetReg(2, 0)
	rec := &inst.Instruction{Op: inst.REMU, PC: 0, Size: 4, Rd: 3, Rs1: 1, Rs2: 2}
	Assign(rec)
	rec.Impl(m, rec)
	if got := m.Reg(3); got != 7 {
		t.Errorf("remu x,0 = %d, want dividend (7)", got)
	}
}

func TestMulhSigned(t *testing.T) {
	m := newMachine()
	m.SetReg(1, 0x80000000) // -2^31
	m.SetReg(2, 0x80000000) // -2^31
	rec := &inst.Instruction{Op: inst.MULH, PC: 0, Size: 4, Rd: 3, Rs1: 1, Rs2: 2}
	Assign(rec)
	rec.Impl(m, rec)
	// (-2^31) * (-2^31) = 2^62, high 32 bits = 0x40000000.
	if got := m.Reg(3); got != 0x40000000 {
		t.Errorf("mulh = %#x, want 0x40000000", got)
	}
}

func TestJalrMasksLowBit(t *testing.T) {
	m := newMachine()
	m.SetReg(1, 0x1001) // odd target; jalr must clear bit 0
	rec := &inst.Instruction{Op: inst.JALR, PC: 0x100, Size: 4, Rd: 1, Rs1: 1, Imm: 0}
	Assign(rec)
	rec.Impl(m, rec)
	if m.PC != 0x1000 {
		t.Errorf("jalr target = %#x, want 0x1000 (bit 0 masked)", m.PC)
	}
	if got := m.Reg(1); got != 0x104 {
		t.Errorf("jalr link = %#x, want 0x104", got)
	}
}

func TestJalOddTargetLatchesMisalign(t *testing.T) {
	// JALR clears bit 0 of its target, so it cannot produce an odd target;
	// a direct JAL with an odd offset can, and must latch an instruction
	// misalignment fault without moving PC.
	m := newMachine()
	rec := &inst.Instruction{Op: inst.JAL, PC: 0, Size: 4, Rd: 0, Imm: 1}
	Assign(rec)
	rec.Impl(m, rec)
	if m.Misalign == nil {
		t.Fatal("expected a latched misalignment fault")
	}
	if m.Misalign.Kind != cpu.MisalignInsn {
		t.Errorf("fault kind = %v, want insn", m.Misalign.Kind)
	}
	if m.PC != 0 {
		t.Errorf("PC after a faulting jump should stay at the faulting instruction, got %#x", m.PC)
	}
}

func TestCSRImmediateUsesZimmNotRegister(t *testing.T) {
	m := newMachine()
	m.SetReg(5, 0xDEADBEEF) // if csrrwi mistakenly read x5 as a register, this would leak in
	rec := &inst.Instruction{Op: inst.CSRRWI, PC: 0, Size: 4, Rd: 1, Rs1: 5, Imm: 0x300}
	Assign(rec)
	rec.Impl(m, rec)
	if m.CSRMstatus != 5 {
		t.Errorf("mstatus = %#x, want 5 (the zimm field, not x5's contents)", m.CSRMstatus)
	}
}

func TestCSRRWReadsOldValueIntoRd(t *testing.T) {
	m := newMachine()
	m.CSRMstatus = 0x80
	m.SetReg(2, 0x42)
	rec := &inst.Instruction{Op: inst.CSRRW, PC: 0, Size: 4, Rd: 1, Rs1: 2, Imm: 0x300}
	Assign(rec)
	rec.Impl(m, rec)
	if got := m.Reg(1); got != 0x80 {
		t.Errorf("csrrw rd = %#x, want old mstatus 0x80", got)
	}
	if m.CSRMstatus != 0x42 {
		t.Errorf("mstatus after csrrw = %#x, want 0x42", m.CSRMstatus)
	}
}

func TestMretRestoresMPIEAndMepc(t *testing.T) {
	m := newMachine()
	m.CSRMepc = 0x2000
	rec := &inst.Instruction{Op: inst.MRET, PC: 0x100, Size: 4}
	Assign(rec)
	rec.Impl(m, rec)
	if m.PC != 0x2000 {
		t.Errorf("PC after mret = %#x, want mepc 0x2000", m.PC)
	}
	if m.CSRMstatus != cpu.MstatusMPIE {
		t.Errorf("mstatus after mret = %#x, want MPIE bit only", m.CSRMstatus)
	}
}

func TestLoadStoreMisalignment(t *testing.T) {
	m := newMachine()
	m.SetReg(1, 1) // address 1: misaligned for a word access
	rec := &inst.Instruction{Op: inst.LW, PC: 0, Size: 4, Rd: 2, Rs1: 1, Imm: 0}
	Assign(rec)
	rec.Impl(m, rec)
	if m.Misalign == nil {
		t.Fatal("expected a latched misalignment fault")
	}
	if m.Misalign.Kind != cpu.MisalignLoad {
		t.Errorf("fault kind = %v, want load", m.Misalign.Kind)
	}
}

func TestByteLoadsNeverMisalign(t *testing.T) {
	m := newMachine()
	m.Mem.WriteB(7, 0xAB)
	m.SetReg(1, 7)
	rec := &inst.Instruction{Op: inst.LB, PC: 0, Size: 4, Rd: 2, Rs1: 1, Imm: 0}
	Assign(rec)
	rec.Impl(m, rec)
	if m.Misalign != nil {
		t.Fatalf("byte load at any address should never misalign, got %v", m.Misalign)
	}
	if got := int32(m.Reg(2)); got != -85 { // 0xAB sign-extended
		t.Errorf("lb = %d, want -85", got)
	}
}
