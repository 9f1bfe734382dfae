package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/oisee/rv32core/pkg/mem"
)

func TestLoadCopiesBytesAtBase(t *testing.T) {
	m := mem.NewFlat(64)
	data := []byte{1, 2, 3, 4}
	if err := Load(m, 16, data); err != nil {
		t.Fatalf("Load: %v", err)
	}
	for i, b := range data {
		if got := m.ReadB(uint32(16 + i)); got != b {
			t.Errorf("byte at %d = %d, want %d", 16+i, got, b)
		}
	}
}

func TestLoadRejectsOverrun(t *testing.T) {
	m := mem.NewFlat(8)
	if err := Load(m, 4, []byte{1, 2, 3, 4, 5}); err == nil {
		t.Fatal("expected an overrun error")
	}
}

func TestLoadFileReadsFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "image.bin")
	if err := os.WriteFile(path, []byte{0xDE, 0xAD, 0xBE, 0xEF}, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	m := mem.NewFlat(64)
	if err := LoadFile(m, 0, path); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if got := m.ReadW(0); got != 0xEFBEADDE {
		t.Errorf("ReadW(0) = %#x, want 0xEFBEADDE (little-endian)", got)
	}
}
