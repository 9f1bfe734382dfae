// Package statsio accumulates and persists run statistics. Grounded on the
// reference codebase's result.Table (pkg/result/table.go): a mutex-guarded
// accumulator plus a save/load pair, swapping gob for JSON since run
// statistics are meant to be read by a human or a shell script, not only
// reloaded by this program.
package statsio

import (
	"encoding/json"
	"os"
	"sync"
)

// Stats is one run's summary counters.
type Stats struct {
	Instructions  uint64 `json:"instructions"`
	Cycles        uint64 `json:"cycles"`
	Blocks        int    `json:"blocks"`
	BlockHits     uint64 `json:"block_cache_hits"`
	BHTHits       uint64 `json:"branch_history_hits"`
	Misaligns     uint64 `json:"misaligns"`
	ExitCode      int32  `json:"exit_code"`
}

// Table is a mutex-guarded accumulator for concurrently running workers
// (pkg/bench.WorkerPool), each contributing one Stats per machine.
type Table struct {
	mu    sync.Mutex
	stats []Stats
}

// NewTable creates an empty table.
func NewTable() *Table { return &Table{} }

// Add appends s.
func (t *Table) Add(s Stats) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stats = append(t.stats, s)
}

// All returns a copy of every recorded Stats.
func (t *Table) All() []Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Stats, len(t.stats))
	copy(out, t.stats)
	return out
}

// Save writes every recorded Stats to path as a JSON array.
func (t *Table) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(t.All())
}

// Load reads a JSON array of Stats previously written by Save.
func Load(path string) ([]Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []Stats
	if err := json.NewDecoder(f).Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}
