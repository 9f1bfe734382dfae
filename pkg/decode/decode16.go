package decode

import "github.com/oisee/rv32core/pkg/inst"

// decode16 decodes a 16-bit RVC encoding. Compressed forms that alias a base
// instruction (e.g. C.ADDI -> ADDI) decode directly into the base OpCode;
// only the handful whose architectural effect differs from their expansion
// (C.J, C.JR, ...) keep a distinct OpCode (see pkg/inst.OpCode).
//
// Register fields in the C0/C1 quadrants are 3-bit and name x8-x15; rc
// widens them back to the full 5-bit register number.
func rc(bits uint16) uint8 { return uint8(bits&0x7) + 8 }

func decode16(pc uint32, word uint16) (*inst.Instruction, error) {
	rec := &inst.Instruction{PC: pc, Size: 2}
	illegal := func() (*inst.Instruction, error) {
		return nil, &IllegalInstructionError{PC: pc, Raw: uint32(word)}
	}

	quadrant := word & 0x3
	funct3 := (word >> 13) & 0x7

	switch quadrant {
	case 0x0: // C0
		switch funct3 {
		case 0x0: // C.ADDI4SPN
			nzuimm := uint16((word>>7)&0x30) | (word>>1)&0x3c0 | (word>>4)&0x4 | (word>>2)&0x8
			if nzuimm == 0 {
				return illegal()
			}
			rec.Op = inst.ADDI
			rec.Rd, rec.Rs1 = rc(word>>2), 2
			rec.Imm = int32(nzuimm)
		case 0x2: // C.LW
			rec.Op = inst.LW
			rec.Rd, rec.Rs1 = rc(word>>2), rc(word>>7)
			rec.Imm = int32(clwImm(word))
		case 0x6: // C.SW
			rec.Op = inst.SW
			rec.Rs1, rec.Rs2 = rc(word>>7), rc(word>>2)
			rec.Imm = int32(clwImm(word))
		default:
			return illegal()
		}

	case 0x1: // C1
		switch funct3 {
		case 0x0: // C.NOP / C.ADDI
			rd := uint8((word >> 7) & 0x1f)
			rec.Op = inst.ADDI
			rec.Rd, rec.Rs1 = rd, rd
			rec.Imm = int32(int8(signExt6(word)))
		case 0x1: // C.JAL (rd = x1)
			rec.Op = inst.CJAL
			rec.Rd = 1
			rec.Imm = cjImm(word)
		case 0x2: // C.LI
			rec.Op = inst.ADDI
			rec.Rd, rec.Rs1 = uint8((word>>7)&0x1f), 0
			rec.Imm = int32(int8(signExt6(word)))
		case 0x3:
			rd := uint8((word >> 7) & 0x1f)
			if rd == 2 { // C.ADDI16SP
				nz := addi16spImm(word)
				if nz == 0 {
					return illegal()
				}
				rec.Op = inst.ADDI
				rec.Rd, rec.Rs1 = 2, 2
				rec.Imm = nz
			} else { // C.LUI
				nz := luiImm(word)
				if nz == 0 || rd == 0 {
					return illegal()
				}
				rec.Op = inst.LUI
				rec.Rd = rd
				rec.Imm = nz
			}
		case 0x4:
			rdp := rc(word >> 7)
			switch (word >> 10) & 0x3 {
			case 0x0: // C.SRLI
				rec.Op, rec.Rd, rec.Rs1 = inst.SRLI, rdp, rdp
				rec.Shamt = uint8(shamt6(word))
				rec.Imm = int32(rec.Shamt)
			case 0x1: // C.SRAI
				rec.Op, rec.Rd, rec.Rs1 = inst.SRAI, rdp, rdp
				rec.Shamt = uint8(shamt6(word))
				rec.Imm = int32(rec.Shamt)
			case 0x2: // C.ANDI
				rec.Op, rec.Rd, rec.Rs1 = inst.ANDI, rdp, rdp
				rec.Imm = int32(int8(signExt6(word)))
			case 0x3:
				rs2p := rc(word >> 2)
				funct2 := (word >> 5) & 0x3
				switch {
				case (word>>12)&1 == 0 && funct2 == 0x0:
					rec.Op = inst.SUB
				case (word>>12)&1 == 0 && funct2 == 0x1:
					rec.Op = inst.XOR
				case (word>>12)&1 == 0 && funct2 == 0x2:
					rec.Op = inst.OR
				case (word>>12)&1 == 0 && funct2 == 0x3:
					rec.Op = inst.AND
				default:
					return illegal()
				}
				rec.Rd, rec.Rs1, rec.Rs2 = rdp, rdp, rs2p
			}
		case 0x5: // C.J
			rec.Op = inst.CJ
			rec.Rd = 0
			rec.Imm = cjImm(word)
		case 0x6: // C.BEQZ
			rec.Op = inst.CBEQZ
			rec.Rs1 = rc(word >> 7)
			rec.Imm = cbImm(word)
		case 0x7: // C.BNEZ
			rec.Op = inst.CBNEZ
			rec.Rs1 = rc(word >> 7)
			rec.Imm = cbImm(word)
		}

	case 0x2: // C2
		rd := uint8((word >> 7) & 0x1f)
		switch funct3 {
		case 0x0: // C.SLLI
			rec.Op, rec.Rd, rec.Rs1 = inst.SLLI, rd, rd
			rec.Shamt = uint8(shamt6(word))
			rec.Imm = int32(rec.Shamt)
		case 0x2: // C.LWSP
			if rd == 0 {
				return illegal()
			}
			rec.Op, rec.Rd, rec.Rs1 = inst.LW, rd, 2
			rec.Imm = lwspImm(word)
		case 0x4:
			rs2 := uint8((word >> 2) & 0x1f)
			hi := (word >> 12) & 1
			switch {
			case hi == 0 && rs2 == 0: // C.JR
				if rd == 0 {
					return illegal()
				}
				rec.Op, rec.Rs1 = inst.CJR, rd
			case hi == 0 && rs2 != 0: // C.MV
				rec.Op, rec.Rd, rec.Rs1, rec.Rs2 = inst.ADD, rd, 0, rs2
			case hi == 1 && rd == 0 && rs2 == 0: // C.EBREAK
				rec.Op = inst.CEBREAK
			case hi == 1 && rs2 == 0: // C.JALR
				rec.Op, rec.Rd, rec.Rs1 = inst.CJALR, 1, rd
			case hi == 1 && rs2 != 0: // C.ADD
				rec.Op, rec.Rd, rec.Rs1, rec.Rs2 = inst.ADD, rd, rd, rs2
			}
		case 0x6: // C.SWSP
			rec.Op, rec.Rs1, rec.Rs2 = inst.SW, 2, uint8((word>>2)&0x1f)
			rec.Imm = swspImm(word)
		default:
			return illegal()
		}

	default:
		return illegal()
	}

	if rec.Op == 0 {
		return illegal()
	}
	return rec, nil
}

func signExt6(word uint16) int16 {
	v := uint16((word>>12)&1)<<5 | (word>>2)&0x1f
	return int16(v<<10) >> 10
}

func shamt6(word uint16) uint16 {
	return uint16((word>>12)&1)<<5 | (word>>2)&0x1f
}

func clwImm(word uint16) uint16 {
	return (word>>10&0x7)<<3 | (word>>5&0x1)<<6 | (word>>6&0x1)<<2
}

func cjImm(word uint16) int32 {
	v := uint32((word>>12)&1)<<11 | uint32((word>>11)&1)<<4 |
		uint32((word>>9)&0x3)<<8 | uint32((word>>8)&1)<<10 |
		uint32((word>>7)&1)<<6 | uint32((word>>6)&1)<<7 |
		uint32((word>>3)&0x7)<<1 | uint32((word>>2)&1)<<5
	return int32(v<<20) >> 20
}

func cbImm(word uint16) int32 {
	v := uint32((word>>12)&1)<<8 | uint32((word>>10)&0x3)<<3 |
		uint32((word>>5)&0x3)<<6 | uint32((word>>3)&0x3)<<1 |
		uint32((word>>2)&1)<<5
	return int32(v<<23) >> 23
}

func addi16spImm(word uint16) int32 {
	v := uint32((word>>12)&1)<<9 | uint32((word>>3)&0x3)<<7 |
		uint32((word>>5)&1)<<6 | uint32((word>>2)&1)<<5 | uint32((word>>6)&1)<<4
	return int32(v<<22) >> 22
}

func luiImm(word uint16) int32 {
	v := uint32((word>>12)&1)<<17 | uint32((word>>2)&0x1f)<<12
	return int32(v<<14) >> 14
}

func lwspImm(word uint16) int32 {
	return int32(uint32((word>>2)&0x3)<<6 | uint32((word>>12)&1)<<5 | uint32((word>>4)&0x7)<<2)
}

func swspImm(word uint16) int32 {
	return int32(uint32((word>>7)&0x3)<<6 | uint32((word>>9)&0xf)<<2)
}
