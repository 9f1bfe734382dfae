package decode

import (
	"encoding/binary"
	"testing"

	"github.com/oisee/rv32core/pkg/inst"
)

// fetcher turns a flat byte slice into a Fetch16 for test fixtures.
func fetcher(words ...uint32) Fetch16 {
	buf := make([]byte, len(words)*4)
	for i, w := range words {
		binary.LittleEndian.PutUint32(buf[i*4:], w)
	}
	return func(addr uint32) uint16 {
		return binary.LittleEndian.Uint16(buf[addr:])
	}
}

func TestDecode32ALU(t *testing.T) {
	tests := []struct {
		name   string
		word   uint32
		op     inst.OpCode
		rd     uint8
		rs1    uint8
		rs2    uint8
		imm    int32
	}{
		// addi x1, x2, -1   (imm = -1, all ones in the 12-bit field)
		{"addi", 0xFFF10093, inst.ADDI, 1, 2, 0, -1},
		// add x1, x2, x3
		{"add", 0x003100B3, inst.ADD, 1, 2, 3, 0},
		// sub x1, x2, x3
		{"sub", 0x403100B3, inst.SUB, 1, 2, 3, 0},
		// lui x5, 0x12345
		{"lui", 0x123452B7, inst.LUI, 5, 0, 0, 0x12345000},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec, err := Decode(0, fetcher(tc.word))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if rec.Op != tc.op {
				t.Errorf("op = %v, want %v", rec.Op, tc.op)
			}
			if rec.Rd != tc.rd || rec.Rs1 != tc.rs1 || rec.Rs2 != tc.rs2 {
				t.Errorf("operands = (%d,%d,%d), want (%d,%d,%d)", rec.Rd, rec.Rs1, rec.Rs2, tc.rd, tc.rs1, tc.rs2)
			}
			if rec.Imm != tc.imm {
				t.Errorf("imm = %d, want %d", rec.Imm, tc.imm)
			}
			if rec.Size != 4 {
				t.Errorf("size = %d, want 4", rec.Size)
			}
		})
	}
}

func TestDecodeBranchImmediate(t *testing.T) {
	// beq x1, x2, -4 — encodes a tight backward branch, exercising the
	// B-type immediate's bit-scatter and sign extension together.
	word := uint32(0xFE208EE3)
	rec, err := Decode(0, fetcher(word))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.Op != inst.BEQ {
		t.Fatalf("op = %v, want BEQ", rec.Op)
	}
	if rec.Imm != -4 {
		t.Errorf("imm = %d, want -4", rec.Imm)
	}
}

func TestDecodeIllegal(t *testing.T) {
	// funct3=3 on a branch opcode has no defined encoding.
	word := uint32(0x00003063)
	_, err := Decode(0, fetcher(word))
	if err == nil {
		t.Fatal("expected an IllegalInstructionError")
	}
	if _, ok := err.(*IllegalInstructionError); !ok {
		t.Fatalf("err = %T, want *IllegalInstructionError", err)
	}
}

func TestDecodeFmaddR4Type(t *testing.T) {
	// fmadd.s f3, f1, f2, f0 (rm=0, fmt=00 single-precision)
	word := uint32(0x002081C3)
	rec, err := Decode(0, fetcher(word))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.Op != inst.FMADDS {
		t.Fatalf("op = %v, want FMADDS", rec.Op)
	}
	if rec.Rd != 3 || rec.Rs1 != 1 || rec.Rs2 != 2 || rec.Rs3 != 0 {
		t.Errorf("operands = (rd=%d,rs1=%d,rs2=%d,rs3=%d), want (3,1,2,0)", rec.Rd, rec.Rs1, rec.Rs2, rec.Rs3)
	}
}

func TestDecodeFmaFamilyMajorOpcodes(t *testing.T) {
	// Same operand encoding as TestDecodeFmaddR4Type, varied only by the
	// major opcode byte that selects FMADD/FMSUB/FNMSUB/FNMADD.
	tests := []struct {
		opcode uint32
		want   inst.OpCode
	}{
		{0x43, inst.FMADDS},
		{0x47, inst.FMSUBS},
		{0x4B, inst.FNMSUBS},
		{0x4F, inst.FNMADDS},
	}
	for _, tc := range tests {
		word := uint32(0x00208180) | tc.opcode
		rec, err := Decode(0, fetcher(word))
		if err != nil {
			t.Fatalf("decode opcode %#x: %v", tc.opcode, err)
		}
		if rec.Op != tc.want {
			t.Errorf("opcode %#x decoded as %v, want %v", tc.opcode, rec.Op, tc.want)
		}
	}
}

func TestDecodeFmaRejectsNonSingleFormat(t *testing.T) {
	// Same operand layout as TestDecodeFmaddR4Type but funct7's low two
	// bits (the fmt field) are 01 (double-precision), which this core
	// never wires up.
	bad := uint32(0x022081C3)
	_, err := Decode(0, fetcher(bad))
	if err == nil {
		t.Fatal("expected an IllegalInstructionError for a non-single fmt")
	}
}

func TestDecodeCompressedSelector(t *testing.T) {
	// c.nop: all-zero quadrant-1 word with funct3=0, rd=0 — low two bits
	// 0b01 select the compressed path without ever touching pc+2.
	fetch := func(addr uint32) uint16 {
		if addr != 0 {
			t.Fatalf("decode16 should never fetch past the single halfword, got addr=%d", addr)
		}
		return 0x0001
	}
	rec, err := Decode(0, fetch)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.Size != 2 {
		t.Errorf("size = %d, want 2", rec.Size)
	}
	if rec.Op != inst.ADDI {
		t.Errorf("op = %v, want ADDI (c.nop aliases addi x0,x0,0)", rec.Op)
	}
}
