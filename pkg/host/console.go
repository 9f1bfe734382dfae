// Package host provides a minimal cpu.SystemHost: an ECALL convention
// loosely modeled on the classic RISC-V "newlib" syscall ABI (a7 selects
// the call, a0-a2 carry arguments) just deep enough to run simple guest
// programs that print and exit, plus an EBREAK that halts.
package host

import (
	"fmt"
	"io"

	"github.com/oisee/rv32core/pkg/cpu"
)

const (
	sysWrite = 64
	sysExit  = 93
)

// HaltError is returned by Run (pkg/interp) when the guest requests exit
// via ECALL or hits EBREAK. It is not a failure: Code carries the guest's
// requested exit status.
type HaltError struct {
	Code    int32
	Breakpoint bool
}

func (e *HaltError) Error() string {
	if e.Breakpoint {
		return fmt.Sprintf("ebreak at exit code %d", e.Code)
	}
	return fmt.Sprintf("exit(%d)", e.Code)
}

// Console is a cpu.SystemHost writing guest stdout to Out and halting the
// run (Halted reports true plus the terminal error) on exit or ebreak.
type Console struct {
	Out io.Writer

	done    bool
	haltErr *HaltError
}

func (c *Console) OnECall(m *cpu.Machine) {
	switch m.Reg(17) { // a7
	case sysWrite:
		addr, length := m.Reg(11), m.Reg(12) // a0 ignored (fd), a1=addr, a2=len
		buf := make([]byte, length)
		for i := range buf {
			buf[i] = m.Mem.ReadB(addr + uint32(i))
		}
		fmt.Fprint(c.Out, string(buf))
		m.SetReg(10, length)
	case sysExit:
		c.done = true
		c.haltErr = &HaltError{Code: int32(m.Reg(10))}
	default:
		// Unknown syscalls are a no-op returning -1 in a0, matching the
		// "unimplemented ecall" convention rather than panicking the host.
		m.SetReg(10, ^uint32(0))
	}
	if !c.done {
		m.PC += 4 // resume after the ecall
	}
}

func (c *Console) OnEBreak(m *cpu.Machine) {
	c.done = true
	c.haltErr = &HaltError{Code: int32(m.Reg(10)), Breakpoint: true}
}

// Halted satisfies pkg/interp.Haltable.
func (c *Console) Halted() (bool, error) {
	if !c.done {
		return false, nil
	}
	return true, c.haltErr
}
