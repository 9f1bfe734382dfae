// Package mem provides a flat, byte-addressable little-endian memory
// implementing cpu.MemoryHost, grounded on the reference register-machine
// codebase's little-endian load/store helpers (vm/vm.go uses
// encoding/binary and math.Float32bits the same way).
package mem

import "encoding/binary"

// Flat is a fixed-size flat address space backed by a single byte slice.
// Out-of-range accesses panic rather than silently wrapping — a guest bug
// should surface immediately during development, not corrupt an unrelated
// address.
type Flat struct {
	bytes []byte
}

// NewFlat allocates a Flat of the given size, zero-initialized.
func NewFlat(size uint32) *Flat {
	return &Flat{bytes: make([]byte, size)}
}

// Load copies data into the address space starting at base, panicking if
// it would run past the end.
func (f *Flat) Load(base uint32, data []byte) {
	copy(f.bytes[base:][:len(data)], data)
}

func (f *Flat) ReadB(addr uint32) uint8  { return f.bytes[addr] }
func (f *Flat) ReadH(addr uint32) uint16 { return binary.LittleEndian.Uint16(f.bytes[addr:]) }
func (f *Flat) ReadW(addr uint32) uint32 { return binary.LittleEndian.Uint32(f.bytes[addr:]) }

func (f *Flat) WriteB(addr uint32, v uint8)  { f.bytes[addr] = v }
func (f *Flat) WriteH(addr uint32, v uint16) { binary.LittleEndian.PutUint16(f.bytes[addr:], v) }
func (f *Flat) WriteW(addr uint32, v uint32) { binary.LittleEndian.PutUint32(f.bytes[addr:], v) }

// MemBase satisfies cpu.MemoryHost's fast-path hook. Flat has no stable
// address a JIT backend could dereference without unsafe.Pointer, which
// this core's NullGenerator-based JIT contract never needs, so it reports
// unavailable; a backend wanting direct guest-address translation supplies
// its own MemoryHost.
func (f *Flat) MemBase() uintptr { return 0 }

// Len reports the size of the address space in bytes.
func (f *Flat) Len() uint32 { return uint32(len(f.bytes)) }

// Fetch16 returns a decode.Fetch16 reading from this memory.
func (f *Flat) Fetch16(addr uint32) uint16 { return f.ReadH(addr) }
