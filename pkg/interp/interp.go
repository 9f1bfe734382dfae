// Package interp is the outer driver: it turns the per-instruction
// dispatch functions in pkg/exec into a running machine by resolving
// block successors (via pkg/block's map/cache) and indirect jumps (via
// pkg/bht) whenever a tail-chain bottoms out with nil, then re-entering
// the trampoline at the resolved target. Go has no guaranteed tail calls,
// so unlike the reference interpreter's MUST_TAIL recursion this is a
// plain loop: Impl functions "return" their successor instead of calling
// it, and Run keeps stepping until one returns nil with nothing left to
// resolve.
package interp

import (
	"github.com/oisee/rv32core/pkg/bht"
	"github.com/oisee/rv32core/pkg/block"
	"github.com/oisee/rv32core/pkg/cpu"
	"github.com/oisee/rv32core/pkg/decode"
	"github.com/oisee/rv32core/pkg/exec"
	"github.com/oisee/rv32core/pkg/inst"
)

// Haltable is implemented by a cpu.SystemHost that wants Run to stop
// cleanly instead of looping forever once it has serviced an exit-style
// ECALL or an EBREAK. pkg/host.Console implements it.
type Haltable interface {
	Halted() (bool, error)
}

// Interp is the complete running configuration: architectural state plus
// the block map/cache pair that makes repeated execution of the same
// guest code cheap.
type Interp struct {
	M     *cpu.Machine
	Fetch decode.Fetch16

	Map   *block.Map
	Cache *block.Cache
}

// New builds an Interp with a default-sized block cache.
func New(m *cpu.Machine, fetch decode.Fetch16) *Interp {
	return &Interp{
		M:     m,
		Fetch: fetch,
		Map:   block.NewMap(),
		Cache: block.NewCache(64),
	}
}

// Run dispatches instructions starting at p.M.PC until the host halts, a
// misalignment fault is latched, a decode error occurs, or maxCycles is
// reached (0 means unbounded). The budget is checked at block exits, so
// Cycle may pass maxCycles by up to one block. It returns nil when
// maxCycles is hit, or when the host halts without an error; otherwise it
// returns the latched fault, the decode error, or the host's halt error.
func (p *Interp) Run(maxCycles uint64) error {
	for maxCycles == 0 || p.M.Cycle < maxCycles {
		entry, err := p.resolve(p.M.PC)
		if err != nil {
			return err
		}
		if err := p.drive(entry, maxCycles); err != nil {
			return err
		}
		if halted, err := p.checkHalt(); halted {
			return err
		}
	}
	return nil
}

// drive runs the trampoline starting at cur, resolving block successors
// and indirect jumps itself, and returns on an exception, a decode error,
// a host halt, or (at a block exit) once maxCycles is reached.
func (p *Interp) drive(cur *inst.Instruction, maxCycles uint64) error {
	for cur != nil {
		rec := cur
		nextRec := rec.Impl(p.M, rec)
		if nextRec != nil && nextRec == rec.Next {
			cur = nextRec
			continue
		}

		if p.M.Misalign != nil {
			return p.M.Misalign
		}
		if halted, err := p.checkHalt(); halted {
			return err
		}
		if maxCycles != 0 && p.M.Cycle >= maxCycles {
			return nil
		}

		if dynamicTarget(rec.Op) {
			// JALR-class records carry a BranchHistory and resolve through
			// it; MRET/ECALL/EBREAK have no History (never allocated for
			// them by the block builder) so Lookup/Update are no-ops and
			// every pass falls through to a fresh resolve — their target
			// depends on mepc or host state, not a fixed PC, so nothing
			// here is safe to cache as a static successor.
			if target := bht.Lookup(rec, p.M.PC); target != nil {
				cur = target
				continue
			}
			next, err := p.resolve(p.M.PC)
			if err != nil {
				return err
			}
			bht.Update(rec, p.M.PC, next)
			cur = next
			continue
		}

		// Direct control transfer (conditional branch or unconditional
		// jump) with a statically known target. A branch has two
		// possible successors depending on the outcome just taken;
		// compare the resulting PC against the fall-through address to
		// tell which slot this pass resolved and cache into that one —
		// caching into a single TakenTarget field regardless of outcome
		// would let a later pass reuse the wrong successor the next time
		// the branch goes the other way.
		untaken := p.M.PC == rec.PC+uint32(rec.Size)
		cached := rec.TakenTarget
		if untaken {
			cached = rec.UntakenTarget
		}
		if cached != nil && rec.LinkGen == p.Map.Generation {
			cur = cached
			continue
		}

		next, err := p.resolve(p.M.PC)
		if err != nil {
			return err
		}
		if untaken {
			rec.UntakenTarget = next
		} else {
			rec.TakenTarget = next
		}
		rec.LinkGen = p.Map.Generation
		cur = next
	}
	return nil
}

// dynamicTarget reports whether op's successor PC cannot be statically
// linked from rec.PC/rec.Imm alone — either because it's register- or
// CSR-indirect (JALR-class) or because it depends on host/trap state
// (MRET, ECALL, EBREAK) rather than being a fixed branch target.
func dynamicTarget(op inst.OpCode) bool {
	switch op {
	case inst.JALR, inst.CJR, inst.CJALR, inst.MRET, inst.ECALL, inst.EBREAK, inst.CEBREAK:
		return true
	}
	return false
}

// resolve returns the block entry at pc, consulting the hot cache first,
// then the persistent map, building and registering a fresh block on a
// full miss.
func (p *Interp) resolve(pc uint32) (*inst.Instruction, error) {
	if b := p.Cache.Get(pc); b != nil {
		return b.Entry(), nil
	}
	if b := p.Map.Find(pc); b != nil {
		p.Cache.Put(b)
		return b.Entry(), nil
	}
	b, err := block.Build(pc, p.Fetch, exec.Assign)
	if err != nil {
		return nil, err
	}
	p.Map.Insert(b)
	p.Cache.Put(b)
	return b.Entry(), nil
}

func (p *Interp) checkHalt() (bool, error) {
	h, ok := p.M.Sys.(Haltable)
	if !ok {
		return false, nil
	}
	return h.Halted()
}
