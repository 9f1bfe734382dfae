// Package loader reads a flat raw-binary guest image into memory. ELF and
// other container formats are out of scope (spec.md Non-goals: this core
// runs pre-linked flat images, the way a bare-metal guest's reset vector
// expects code at address 0).
package loader

import (
	"fmt"
	"os"

	"github.com/oisee/rv32core/pkg/mem"
)

// LoadFile reads path and copies it into m starting at base. It errors if
// the file is larger than the space remaining in m from base onward.
func LoadFile(m *mem.Flat, base uint32, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("loader: %w", err)
	}
	return Load(m, base, data)
}

// Load copies data into m starting at base.
func Load(m *mem.Flat, base uint32, data []byte) error {
	if uint64(base)+uint64(len(data)) > uint64(m.Len()) {
		return fmt.Errorf("loader: image of %d bytes at base %#x overruns %d-byte address space", len(data), base, m.Len())
	}
	m.Load(base, data)
	return nil
}
