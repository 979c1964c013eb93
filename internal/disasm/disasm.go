// Package disasm decodes Z80 machine code into mnemonic text:
// `cmd/crater disassemble` calls Decode on raw ROM bytes (internal/cpu
// keeps no instruction trace). It shares no code with internal/cpu (which
// dispatches by *function*, not by *name*) but decodes the same bit
// layout: opcode = xx yyy zzz, with p = y>>1, q = y&1.
//
// The original reference implementation's disassembler filled in only the
// bare opcode-to-mnemonic table; every operand (immediates, displacements,
// indirect addresses) was a literal "???" TODO, and extended (ED/CB/DD/FD)
// opcodes were never decoded at all ("TODO: extended..."). This package
// supplements that stub with full operand formatting and prefix handling,
// since a working disassemble subcommand and CPU trace log both need
// output that is actually decodable.
package disasm

import "fmt"

// Instruction is one decoded Z80 instruction.
type Instruction struct {
	Mnemonic string
	Operands string
	Length   uint8
}

// String renders the instruction the way the original's disassembler
// joined mnemonic and arguments: tab-separated, mnemonic alone if there
// are no operands.
func (i Instruction) String() string {
	if i.Operands == "" {
		return i.Mnemonic
	}
	return i.Mnemonic + "\t" + i.Operands
}

var reg8 = [8]string{"b", "c", "d", "e", "h", "l", "(hl)", "a"}
var reg16sp = [4]string{"bc", "de", "hl", "sp"}
var reg16af = [4]string{"bc", "de", "hl", "af"}
var condName = [8]string{"nz", "z", "nc", "c", "po", "pe", "p", "m"}
var aluMnemonic = [8]string{"add", "adc", "sub", "sbc", "and", "xor", "or", "cp"}
var rotMnemonic = [8]string{"rlc", "rrc", "rl", "rr", "sla", "sra", "sll", "srl"}

func hex8(v uint8) string  { return fmt.Sprintf("0x%02X", v) }
func hex16(v uint16) string { return fmt.Sprintf("0x%04X", v) }

func signedOffset(v uint8) string {
	s := int8(v)
	if s < 0 {
		return fmt.Sprintf("-0x%02X", -int(s))
	}
	return fmt.Sprintf("+0x%02X", s)
}

func u16(lo, hi uint8) uint16 { return uint16(hi)<<8 | uint16(lo) }

// indexName names the r[4], r[5], r[6] slots substituted by an active
// DD/FD prefix: the high half, low half, and displaced indirect form.
type indexName struct {
	name string // "ix" or "iy"
	half [2]string
}

func (ix indexName) indirectAt(d uint8) string {
	return fmt.Sprintf("(%s%s)", ix.name, signedOffset(d))
}

var ixNames = indexName{name: "ix", half: [2]string{"ixh", "ixl"}}
var iyNames = indexName{name: "iy", half: [2]string{"iyh", "iyl"}}

// regName returns the display name for r[z], substituting an active
// index register's half/displaced forms for z in {4,5,6}, and the extra
// displacement byte consumed (0 if none).
func regName(z uint8, idx *indexName, disp uint8) (string, int) {
	if idx != nil {
		switch z {
		case 4:
			return idx.half[0], 0
		case 5:
			return idx.half[1], 0
		case 6:
			return idx.indirectAt(disp), 1
		}
	}
	return reg8[z], 0
}

// Decode decodes the instruction starting at bytes[0]. bytes must hold at
// least as many trailing bytes as the instruction needs; four bytes is
// always sufficient for any Z80 opcode, including the four-byte DDCB/FDCB
// form.
func Decode(bytes [4]byte) (Instruction, error) {
	switch bytes[0] {
	case 0xCB:
		return decodeCB(bytes[1], nil, 0)
	case 0xED:
		return decodeED(bytes[1:])
	case 0xDD:
		return decodeIndexed(bytes[1:], &ixNames)
	case 0xFD:
		return decodeIndexed(bytes[1:], &iyNames)
	default:
		return decodeBase(bytes[:], nil)
	}
}

func decodeIndexed(rest []byte, idx *indexName) (Instruction, error) {
	if rest[0] == 0xCB {
		return decodeCB(rest[2], idx, rest[1])
	}
	instr, err := decodeBase(rest, idx)
	instr.Length++
	return instr, err
}

func decodeBase(bytes []byte, idx *indexName) (Instruction, error) {
	op := bytes[0]
	x, y, z := op>>6, (op>>3)&7, op&7
	p, q := y>>1, y&1

	switch x {
	case 0:
		return decodeX0(bytes, y, z, p, q, idx)
	case 1:
		if y == 6 && z == 6 {
			return Instruction{Mnemonic: "halt", Length: 1}, nil
		}
		src, extra := regName(z, idx, bytes[1])
		dst, extra2 := regName(y, idx, bytes[1+extra])
		return Instruction{Mnemonic: "ld", Operands: dst + "," + src, Length: uint8(1 + extra + extra2)}, nil
	case 2:
		arg, extra := regName(z, idx, bytes[1])
		return Instruction{Mnemonic: aluMnemonic[y], Operands: "a," + arg, Length: uint8(1 + extra)}, nil
	default:
		return decodeX3(bytes, y, z, p, q, idx)
	}
}

func decodeX0(bytes []byte, y, z, p, q uint8, idx *indexName) (Instruction, error) {
	switch z {
	case 0:
		switch {
		case y == 0:
			return Instruction{Mnemonic: "nop", Length: 1}, nil
		case y == 1:
			return Instruction{Mnemonic: "ex", Operands: "af,af'", Length: 1}, nil
		case y == 2:
			return Instruction{Mnemonic: "djnz", Operands: signedOffset(bytes[1]), Length: 2}, nil
		case y == 3:
			return Instruction{Mnemonic: "jr", Operands: signedOffset(bytes[1]), Length: 2}, nil
		default:
			return Instruction{Mnemonic: "jr", Operands: condName[y-4] + "," + signedOffset(bytes[1]), Length: 2}, nil
		}
	case 1:
		rp := rpName(p, idx)
		if q == 0 {
			return Instruction{Mnemonic: "ld", Operands: rp + "," + hex16(u16(bytes[1], bytes[2])), Length: 3}, nil
		}
		return Instruction{Mnemonic: "add", Operands: hlName(idx) + "," + rp, Length: 1}, nil
	case 2:
		return decodeX0Z2(y, bytes, idx)
	case 3:
		rp := rpName(p, idx)
		if q == 0 {
			return Instruction{Mnemonic: "inc", Operands: rp, Length: 1}, nil
		}
		return Instruction{Mnemonic: "dec", Operands: rp, Length: 1}, nil
	case 4, 5:
		arg, extra := regName(y, idx, bytes[1])
		mnemonic := "inc"
		if z == 5 {
			mnemonic = "dec"
		}
		return Instruction{Mnemonic: mnemonic, Operands: arg, Length: uint8(1 + extra)}, nil
	case 6:
		arg, extra := regName(y, idx, bytes[1])
		imm := bytes[1+extra]
		return Instruction{Mnemonic: "ld", Operands: arg + "," + hex8(imm), Length: uint8(2 + extra)}, nil
	default: // z == 7
		names := [8]string{"rlca", "rrca", "rla", "rra", "daa", "cpl", "scf", "ccf"}
		return Instruction{Mnemonic: names[y], Length: 1}, nil
	}
}

func decodeX0Z2(y uint8, bytes []byte, idx *indexName) (Instruction, error) {
	hl := hlName(idx)
	switch {
	case y == 0:
		return Instruction{Mnemonic: "ld", Operands: "(bc),a", Length: 1}, nil
	case y == 1:
		return Instruction{Mnemonic: "ld", Operands: "a,(bc)", Length: 1}, nil
	case y == 2:
		return Instruction{Mnemonic: "ld", Operands: "(de),a", Length: 1}, nil
	case y == 3:
		return Instruction{Mnemonic: "ld", Operands: "a,(de)", Length: 1}, nil
	case y == 4:
		addr := hex16(u16(bytes[1], bytes[2]))
		return Instruction{Mnemonic: "ld", Operands: "(" + addr + ")," + hl, Length: 3}, nil
	case y == 5:
		addr := hex16(u16(bytes[1], bytes[2]))
		return Instruction{Mnemonic: "ld", Operands: hl + ",(" + addr + ")", Length: 3}, nil
	case y == 6:
		addr := hex16(u16(bytes[1], bytes[2]))
		return Instruction{Mnemonic: "ld", Operands: "(" + addr + "),a", Length: 3}, nil
	default:
		addr := hex16(u16(bytes[1], bytes[2]))
		return Instruction{Mnemonic: "ld", Operands: "a,(" + addr + ")", Length: 3}, nil
	}
}

func decodeX3(bytes []byte, y, z, p, q uint8, idx *indexName) (Instruction, error) {
	op := bytes[0]
	switch z {
	case 0:
		return Instruction{Mnemonic: "ret", Operands: condName[y], Length: 1}, nil
	case 1:
		if q == 0 {
			return Instruction{Mnemonic: "pop", Operands: rp2Name(p, idx), Length: 1}, nil
		}
		switch p {
		case 0:
			return Instruction{Mnemonic: "ret", Length: 1}, nil
		case 1:
			return Instruction{Mnemonic: "exx", Length: 1}, nil
		case 2:
			return Instruction{Mnemonic: "jp", Operands: hlName(idx), Length: 1}, nil
		default:
			return Instruction{Mnemonic: "ld", Operands: "sp," + hlName(idx), Length: 1}, nil
		}
	case 2:
		addr := hex16(u16(bytes[1], bytes[2]))
		return Instruction{Mnemonic: "jp", Operands: condName[y] + "," + addr, Length: 3}, nil
	case 3:
		return decodeX3Z3(y, bytes, idx)
	case 4:
		addr := hex16(u16(bytes[1], bytes[2]))
		return Instruction{Mnemonic: "call", Operands: condName[y] + "," + addr, Length: 3}, nil
	case 5:
		if q == 0 {
			return Instruction{Mnemonic: "push", Operands: rp2Name(p, idx), Length: 1}, nil
		}
		if p == 0 {
			addr := hex16(u16(bytes[1], bytes[2]))
			return Instruction{Mnemonic: "call", Operands: addr, Length: 3}, nil
		}
		return Instruction{}, fmt.Errorf("disasm: undefined opcode 0x%02X", op)
	case 6:
		return Instruction{Mnemonic: aluMnemonic[y], Operands: "a," + hex8(bytes[1]), Length: 2}, nil
	default: // z == 7
		return Instruction{Mnemonic: "rst", Operands: hex8(y * 8), Length: 1}, nil
	}
}

func decodeX3Z3(y uint8, bytes []byte, idx *indexName) (Instruction, error) {
	switch y {
	case 0:
		addr := hex16(u16(bytes[1], bytes[2]))
		return Instruction{Mnemonic: "jp", Operands: addr, Length: 3}, nil
	case 2:
		return Instruction{Mnemonic: "out", Operands: "(" + hex8(bytes[1]) + "),a", Length: 2}, nil
	case 3:
		return Instruction{Mnemonic: "in", Operands: "a,(" + hex8(bytes[1]) + ")", Length: 2}, nil
	case 4:
		return Instruction{Mnemonic: "ex", Operands: "(sp)," + hlName(idx), Length: 1}, nil
	case 5:
		return Instruction{Mnemonic: "ex", Operands: "de,hl", Length: 1}, nil
	case 6:
		return Instruction{Mnemonic: "di", Length: 1}, nil
	default:
		return Instruction{Mnemonic: "ei", Length: 1}, nil
	}
}

func rpName(p uint8, idx *indexName) string {
	if idx != nil && p == 2 {
		return idx.name
	}
	return reg16sp[p]
}

func rp2Name(p uint8, idx *indexName) string {
	if idx != nil && p == 2 {
		return idx.name
	}
	return reg16af[p]
}

func hlName(idx *indexName) string {
	if idx != nil {
		return idx.name
	}
	return "hl"
}

func decodeCB(op uint8, idx *indexName, disp uint8) (Instruction, error) {
	x, y, z := op>>6, (op>>3)&7, op&7
	arg, extra := regName(z, idx, disp)
	length := uint8(2 + extra)
	if idx != nil {
		length = 4 // DDCB/FDCB is always a fixed four bytes
	}

	switch x {
	case 0:
		return Instruction{Mnemonic: rotMnemonic[y], Operands: arg, Length: length}, nil
	case 1:
		return Instruction{Mnemonic: "bit", Operands: fmt.Sprintf("%d,%s", y, arg), Length: length}, nil
	case 2:
		return Instruction{Mnemonic: "res", Operands: fmt.Sprintf("%d,%s", y, arg), Length: length}, nil
	default:
		return Instruction{Mnemonic: "set", Operands: fmt.Sprintf("%d,%s", y, arg), Length: length}, nil
	}
}

func decodeED(rest []byte) (Instruction, error) {
	op := rest[0]
	x, y, z := op>>6, (op>>3)&7, op&7
	p, q := y>>1, y&1

	if x == 1 {
		return decodeEDx1(y, z, p, q, rest)
	}
	if x == 2 && z <= 3 && y >= 4 {
		return decodeEDBlock(y, z), nil
	}
	return Instruction{Mnemonic: "nop", Operands: "; ed " + hex8(op), Length: 2}, nil
}

func decodeEDx1(y, z, p, q uint8, rest []byte) (Instruction, error) {
	switch z {
	case 0:
		if y == 6 {
			return Instruction{Mnemonic: "in", Operands: "(c)", Length: 2}, nil
		}
		return Instruction{Mnemonic: "in", Operands: reg8[y] + ",(c)", Length: 2}, nil
	case 1:
		if y == 6 {
			return Instruction{Mnemonic: "out", Operands: "(c),0", Length: 2}, nil
		}
		return Instruction{Mnemonic: "out", Operands: "(c)," + reg8[y], Length: 2}, nil
	case 2:
		mnemonic := "sbc"
		if q == 1 {
			mnemonic = "adc"
		}
		return Instruction{Mnemonic: mnemonic, Operands: "hl," + reg16sp[p], Length: 2}, nil
	case 3:
		addr := hex16(u16(rest[1], rest[2]))
		if q == 0 {
			return Instruction{Mnemonic: "ld", Operands: "(" + addr + ")," + reg16sp[p], Length: 4}, nil
		}
		return Instruction{Mnemonic: "ld", Operands: reg16sp[p] + ",(" + addr + ")", Length: 4}, nil
	case 4:
		return Instruction{Mnemonic: "neg", Length: 2}, nil
	case 5:
		if y == 1 {
			return Instruction{Mnemonic: "reti", Length: 2}, nil
		}
		return Instruction{Mnemonic: "retn", Length: 2}, nil
	case 6:
		ims := [8]string{"0", "0/1", "1", "2", "0", "0/1", "1", "2"}
		return Instruction{Mnemonic: "im", Operands: ims[y], Length: 2}, nil
	default: // z == 7
		names := [8]string{"ld i,a", "ld r,a", "ld a,i", "ld a,r", "rrd", "rld", "nop", "nop"}
		parts := names[y]
		return Instruction{Mnemonic: parts, Length: 2}, nil
	}
}

func decodeEDBlock(y, z uint8) Instruction {
	names := [4][4]string{
		{"ldi", "cpi", "ini", "outi"},
		{"ldd", "cpd", "ind", "outd"},
		{"ldir", "cpir", "inir", "otir"},
		{"lddr", "cpdr", "indr", "otdr"},
	}
	return Instruction{Mnemonic: names[y-4][z], Length: 2}
}
