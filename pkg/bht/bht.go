// Package bht implements the branch history table: a small, fixed-capacity
// side table recording recent indirect-jump (PC, target) pairs so a
// repeated JALR/C.JR/C.JALR through the same call site can tail-chain
// straight to its target instruction without consulting the block map or
// cache. Modeled as a deliberately simplified relative of the reference
// codebase's TAGEPredictor (proto/tage): no tagged geometric history, no
// confidence counters, just fixed capacity and round-robin overwrite —
// spec.md's indirect-jump table asks for "small and simple", not a branch
// predictor.
package bht

import "github.com/oisee/rv32core/pkg/inst"

// Lookup returns the previously recorded target instruction for an
// indirect jump from rec landing at pc, or nil on a miss. rec must be the
// JALR-class record that just executed (its History is non-nil — set by
// the block builder for every JALR/C.JR/C.JALR record).
func Lookup(rec *inst.Instruction, pc uint32) *inst.Instruction {
	h := rec.History
	if h == nil {
		return nil
	}
	for i := range h.Entries {
		if h.Entries[i].Valid && h.Entries[i].PC == pc {
			return h.Entries[i].Target
		}
	}
	return nil
}

// Update records a new (pc, target) pair for rec, overwriting the oldest
// entry once the table is full. No attempt is made to detect or dedupe an
// existing entry for pc beyond what Lookup already found — if Lookup
// missed, Update always appends a fresh slot.
func Update(rec *inst.Instruction, pc uint32, target *inst.Instruction) {
	h := rec.History
	if h == nil {
		return
	}
	h.Entries[h.Next] = inst.BranchHistoryEntry{Valid: true, PC: pc, Target: target}
	h.Next = (h.Next + 1) % inst.HistoryCapacity
}
