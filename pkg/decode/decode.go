// Package decode turns raw RV32-IMC encodings into pkg/inst.Instruction
// records with operand fields pre-extracted. It never touches architectural
// state — semantics live in pkg/exec, execution order lives in pkg/interp.
package decode

import (
	"fmt"

	"github.com/oisee/rv32core/pkg/inst"
)

// IllegalInstructionError is returned when a 16- or 32-bit word does not
// match any recognized RV32-IMC encoding.
type IllegalInstructionError struct {
	PC  uint32
	Raw uint32
}

func (e *IllegalInstructionError) Error() string {
	return fmt.Sprintf("illegal instruction %#08x at pc %#08x", e.Raw, e.PC)
}

// Fetch16 reads the 16-bit halfword at addr. Decode calls it once to
// classify the instruction (compressed or base) and, only for base-width
// encodings, a second time at addr+2 to assemble the full word — so a
// compressed instruction at the last halfword of a memory image never
// triggers an out-of-range fetch for bytes that don't exist.
type Fetch16 func(addr uint32) uint16

// Decode decodes the instruction at pc. fetch is consulted lazily: compressed
// encodings (low two bits != 0b11) read only the halfword at pc.
func Decode(pc uint32, fetch Fetch16) (*inst.Instruction, error) {
	lo := fetch(pc)
	if lo&0x3 != 0x3 {
		return decode16(pc, lo)
	}
	hi := fetch(pc + 2)
	word := uint32(hi)<<16 | uint32(lo)
	return decode32(pc, word)
}

// --- base (32-bit) decoding ---

const (
	opLoad    = 0x03
	opMiscMem = 0x0F
	opOpImm   = 0x13
	opAUIPC   = 0x17
	opStore   = 0x23
	opOp      = 0x33
	opLUI     = 0x37
	opBranch  = 0x63
	opJALR    = 0x67
	opJAL     = 0x6F
	opSystem  = 0x73
	opAMO     = 0x2F
	opLoadFP  = 0x07
	opStoreFP = 0x27
	opOpFP    = 0x53
	opMADD    = 0x43
	opMSUB    = 0x47
	opNMSUB   = 0x4B
	opNMADD   = 0x4F
)

func iImm(word uint32) int32  { return int32(word) >> 20 }
func sImm(word uint32) int32  { return (int32(word) >> 25 << 5) | int32((word>>7)&0x1f) }
func bImm(word uint32) int32 {
	return (int32(word)>>31)<<12 | int32((word>>7)&1)<<11 | int32((word>>25)&0x3f)<<5 | int32((word>>8)&0xf)<<1
}
func uImm(word uint32) int32 { return int32(word & 0xFFFFF000) }
func jImm(word uint32) int32 {
	return (int32(word)>>31)<<20 | int32((word>>12)&0xff)<<12 | int32((word>>20)&1)<<11 | int32((word>>21)&0x3ff)<<1
}

func decode32(pc uint32, word uint32) (*inst.Instruction, error) {
	op := word & 0x7f
	rd := uint8((word >> 7) & 0x1f)
	funct3 := (word >> 12) & 0x7
	rs1 := uint8((word >> 15) & 0x1f)
	rs2 := uint8((word >> 20) & 0x1f)
	funct7 := (word >> 25) & 0x7f

	rec := &inst.Instruction{PC: pc, Size: 4, Rd: rd, Rs1: rs1, Rs2: rs2}

	illegal := func() (*inst.Instruction, error) {
		return nil, &IllegalInstructionError{PC: pc, Raw: word}
	}

	switch op {
	case opLUI:
		rec.Op, rec.Imm = inst.LUI, uImm(word)
	case opAUIPC:
		rec.Op, rec.Imm = inst.AUIPC, uImm(word)
	case opJAL:
		rec.Op, rec.Imm = inst.JAL, jImm(word)
	case opJALR:
		if funct3 != 0 {
			return illegal()
		}
		rec.Op, rec.Imm = inst.JALR, iImm(word)
	case opBranch:
		rec.Imm = bImm(word)
		switch funct3 {
		case 0x0:
			rec.Op = inst.BEQ
		case 0x1:
			rec.Op = inst.BNE
		case 0x4:
			rec.Op = inst.BLT
		case 0x5:
			rec.Op = inst.BGE
		case 0x6:
			rec.Op = inst.BLTU
		case 0x7:
			rec.Op = inst.BGEU
		default:
			return illegal()
		}
	case opLoad:
		rec.Imm = iImm(word)
		switch funct3 {
		case 0x0:
			rec.Op = inst.LB
		case 0x1:
			rec.Op = inst.LH
		case 0x2:
			rec.Op = inst.LW
		case 0x4:
			rec.Op = inst.LBU
		case 0x5:
			rec.Op = inst.LHU
		default:
			return illegal()
		}
	case opStore:
		rec.Imm = sImm(word)
		switch funct3 {
		case 0x0:
			rec.Op = inst.SB
		case 0x1:
			rec.Op = inst.SH
		case 0x2:
			rec.Op = inst.SW
		default:
			return illegal()
		}
	case opOpImm:
		rec.Imm = iImm(word)
		rec.Shamt = uint8(word>>20) & 0x1f
		switch funct3 {
		case 0x0:
			rec.Op = inst.ADDI
		case 0x2:
			rec.Op = inst.SLTI
		case 0x3:
			rec.Op = inst.SLTIU
		case 0x4:
			rec.Op = inst.XORI
		case 0x6:
			rec.Op = inst.ORI
		case 0x7:
			rec.Op = inst.ANDI
		case 0x1:
			if funct7 != 0x00 {
				return illegal()
			}
			rec.Op = inst.SLLI
		case 0x5:
			switch funct7 {
			case 0x00:
				rec.Op = inst.SRLI
			case 0x20:
				rec.Op = inst.SRAI
			default:
				return illegal()
			}
		default:
			return illegal()
		}
	case opOp:
		switch {
		case funct7 == 0x01:
			switch funct3 {
			case 0x0:
				rec.Op = inst.MUL
			case 0x1:
				rec.Op = inst.MULH
			case 0x2:
				rec.Op = inst.MULHSU
			case 0x3:
				rec.Op = inst.MULHU
			case 0x4:
				rec.Op = inst.DIV
			case 0x5:
				rec.Op = inst.DIVU
			case 0x6:
				rec.Op = inst.REM
			case 0x7:
				rec.Op = inst.REMU
			default:
				return illegal()
			}
		case funct7 == 0x00 || funct7 == 0x20:
			switch funct3 {
			case 0x0:
				if funct7 == 0x20 {
					rec.Op = inst.SUB
				} else {
					rec.Op = inst.ADD
				}
			case 0x1:
				rec.Op = inst.SLL
			case 0x2:
				rec.Op = inst.SLT
			case 0x3:
				rec.Op = inst.SLTU
			case 0x4:
				rec.Op = inst.XOR
			case 0x5:
				if funct7 == 0x20 {
					rec.Op = inst.SRA
				} else {
					rec.Op = inst.SRL
				}
			case 0x6:
				rec.Op = inst.OR
			case 0x7:
				rec.Op = inst.AND
			default:
				return illegal()
			}
		default:
			return illegal()
		}
	case opMiscMem:
		switch funct3 {
		case 0x0:
			rec.Op = inst.FENCE
		case 0x1:
			rec.Op = inst.FENCEI
		default:
			return illegal()
		}
	case opSystem:
		switch funct3 {
		case 0x0:
			switch word >> 20 {
			case 0x0:
				rec.Op = inst.ECALL
			case 0x1:
				rec.Op = inst.EBREAK
			case 0x302:
				rec.Op = inst.MRET
			default:
				return illegal()
			}
		case 0x1:
			rec.Op, rec.Imm = inst.CSRRW, int32(word>>20)
		case 0x2:
			rec.Op, rec.Imm = inst.CSRRS, int32(word>>20)
		case 0x3:
			rec.Op, rec.Imm = inst.CSRRC, int32(word>>20)
		case 0x5:
			rec.Op, rec.Imm = inst.CSRRWI, int32(word>>20)
		case 0x6:
			rec.Op, rec.Imm = inst.CSRRSI, int32(word>>20)
		case 0x7:
			rec.Op, rec.Imm = inst.CSRRCI, int32(word>>20)
		default:
			return illegal()
		}
	case opAMO:
		funct5 := funct7 >> 2
		switch funct3 {
		case 0x2:
			switch funct5 {
			case 0x02:
				rec.Op = inst.LRW
			case 0x03:
				rec.Op = inst.SCW
			case 0x01:
				rec.Op = inst.AMOSWAPW
			case 0x00:
				rec.Op = inst.AMOADDW
			case 0x04:
				rec.Op = inst.AMOXORW
			case 0x0C:
				rec.Op = inst.AMOANDW
			case 0x08:
				rec.Op = inst.AMOORW
			case 0x10:
				rec.Op = inst.AMOMINW
			case 0x14:
				rec.Op = inst.AMOMAXW
			case 0x18:
				rec.Op = inst.AMOMINUW
			case 0x1C:
				rec.Op = inst.AMOMAXUW
			default:
				return illegal()
			}
		default:
			return illegal()
		}
	case opLoadFP:
		if funct3 != 0x2 {
			return illegal()
		}
		rec.Op, rec.Imm = inst.FLW, iImm(word)
	case opStoreFP:
		if funct3 != 0x2 {
			return illegal()
		}
		rec.Op, rec.Imm = inst.FSW, sImm(word)
	case opOpFP:
		switch funct7 {
		case 0x00:
			rec.Op = inst.FADDS
		case 0x04:
			rec.Op = inst.FSUBS
		case 0x08:
			rec.Op = inst.FMULS
		case 0x0C:
			rec.Op = inst.FDIVS
		case 0x2C:
			rec.Op = inst.FSQRTS
		case 0x10:
			switch funct3 {
			case 0x0:
				rec.Op = inst.FSGNJS
			case 0x1:
				rec.Op = inst.FSGNJNS
			case 0x2:
				rec.Op = inst.FSGNJXS
			default:
				return illegal()
			}
		case 0x14:
			if funct3 == 0x0 {
				rec.Op = inst.FMINS
			} else {
				rec.Op = inst.FMAXS
			}
		case 0x60:
			if rs2 == 0 {
				rec.Op = inst.FCVTWS
			} else {
				rec.Op = inst.FCVTWUS
			}
		case 0x68:
			if rs2 == 0 {
				rec.Op = inst.FCVTSW
			} else {
				rec.Op = inst.FCVTSWU
			}
		case 0x70:
			if funct3 == 0x0 {
				rec.Op = inst.FMVXW
			} else {
				rec.Op = inst.FCLASSS
			}
		case 0x74:
			rec.Op = inst.FMVWX
		case 0x50:
			switch funct3 {
			case 0x0:
				rec.Op = inst.FLES
			case 0x1:
				rec.Op = inst.FLTS
			case 0x2:
				rec.Op = inst.FEQS
			default:
				return illegal()
			}
		default:
			return illegal()
		}
	case opMADD, opMSUB, opNMSUB, opNMADD:
		// R4-type: funct7 packs rs3 (bits [31:27], funct7[6:2]) and fmt
		// (bits [26:25], funct7[1:0]). Only fmt==00 (single-precision) is
		// wired; any other format is an illegal encoding here.
		if funct7&0x3 != 0x00 {
			return illegal()
		}
		rec.Rs3 = uint8(funct7 >> 2)
		switch op {
		case opMADD:
			rec.Op = inst.FMADDS
		case opMSUB:
			rec.Op = inst.FMSUBS
		case opNMSUB:
			rec.Op = inst.FNMSUBS
		case opNMADD:
			rec.Op = inst.FNMADDS
		}
	default:
		return illegal()
	}

	// Formats without an rs1/rs2 operand carry immediate or function bits
	// in those positions; leave the record's fields zero for them.
	switch op {
	case opLUI, opAUIPC, opJAL:
		rec.Rs1, rec.Rs2 = 0, 0
	case opJALR, opLoad, opOpImm, opLoadFP, opMiscMem, opSystem:
		rec.Rs2 = 0
	}

	return rec, nil
}
