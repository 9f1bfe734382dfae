package cpu

// Constants surfaced to the host and JIT per spec.md §6.
const (
	// MstatusMPIE is the bit MRET restores mstatus to (spec.md §4.5: "write
	// mstatus <- MSTATUS_MPIE").
	MstatusMPIE uint32 = 1 << 7

	// F-extension sticky flag and sign masks (spec.md §6).
	FmaskSign      uint32 = 1 << 31
	RVNan          uint32 = 0x7fc00000
	FflagInvalidOp uint32 = 1 << 4
	FflagDivByZero uint32 = 1 << 3
	FflagOverflow  uint32 = 1 << 2
	FflagUnderflow uint32 = 1 << 1
	FflagInexact   uint32 = 1 << 0
)

// MRET restores PC from mepc and mstatus to MPIE, per spec.md §4.5.
// Privileged traps beyond MRET are out of scope (spec.md §1 Non-goals).
func (m *Machine) MRET() {
	m.CSRMstatus = MstatusMPIE
	m.PC = m.CSRMepc
}

// LatchMisalign records a misalignment fault at the given PC. It overwrites
// any previously latched fault — the host is expected to inspect and clear
// it between runs.
func (m *Machine) LatchMisalign(pc uint32, kind MisalignKind, target uint32) {
	m.Misalign = &MisalignFault{PC: pc, Kind: kind, Target: target}
}
