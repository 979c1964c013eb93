package cpu

// execX0 covers the x=0 opcode group: NOP/EX AF,AF'/DJNZ/JR(cc), 16-bit
// immediate loads and ADD HL,rp, the four accumulator/(BC)/(DE)/(nn) load
// forms, INC/DEC rp, INC/DEC/LD r,n on the r[y] table, and the eight
// accumulator-rotate/DAA/CPL/SCF/CCF singletons.
func (c *CPU) execX0(opcode uint8, y, z, p, q uint8, mode indexMode) int {
	switch z {
	case 0:
		return c.execX0Z0(y)
	case 1:
		if q == 0 {
			nn := c.fetch16()
			c.setRP(p, mode, nn)
			return 10
		}
		hl := c.getRP(pairHL, mode)
		rh := c.getRP(p, mode)
		c.setRP(pairHL, mode, c.add16(hl, rh))
		return 11
	case 2:
		return c.execX0Z2(p, q, mode)
	case 3:
		if q == 0 {
			c.setRP(p, mode, c.getRP(p, mode)+1)
		} else {
			c.setRP(p, mode, c.getRP(p, mode)-1)
		}
		return 6
	case 4:
		c.writeR(y, mode, c.inc8(c.readR(y, mode)))
		if y == 6 {
			return 11
		}
		return 4
	case 5:
		c.writeR(y, mode, c.dec8(c.readR(y, mode)))
		if y == 6 {
			return 11
		}
		return 4
	case 6:
		if y == 6 {
			// LD (HL),n / LD (IX+d),n: the displacement byte precedes n.
			addr := c.resolveHL(mode)
			c.mem.WriteByte(addr, c.fetch8())
			if mode != indexNone {
				return 7 // 19 in total with the prefix and displacement surcharges
			}
			return 10
		}
		c.writeR(y, mode, c.fetch8())
		return 7
	default:
		return c.execX0Z7(y)
	}
}

func (c *CPU) execX0Z0(y uint8) int {
	switch y {
	case 0:
		return 4 // NOP
	case 1:
		c.r.exchangeAF()
		return 4
	case 2: // DJNZ d
		c.r.B--
		d := int8(c.fetch8())
		if c.r.B != 0 {
			c.r.PC = uint16(int32(c.r.PC) + int32(d))
			return 13
		}
		return 8
	case 3: // JR d
		d := int8(c.fetch8())
		c.r.PC = uint16(int32(c.r.PC) + int32(d))
		return 12
	default: // JR cc[y-4],d
		d := int8(c.fetch8())
		if c.condition(y - 4) {
			c.r.PC = uint16(int32(c.r.PC) + int32(d))
			return 12
		}
		return 7
	}
}

func (c *CPU) execX0Z2(p, q uint8, mode indexMode) int {
	switch {
	case q == 0 && p == 0:
		c.mem.WriteByte(c.r.getPair(pairBC), c.r.A)
		return 7
	case q == 0 && p == 1:
		c.mem.WriteByte(c.r.getPair(pairDE), c.r.A)
		return 7
	case q == 0 && p == 2:
		nn := c.fetch16()
		hl := c.getRP(pairHL, mode)
		c.mem.WriteByte(nn, uint8(hl))
		c.mem.WriteByte(nn+1, uint8(hl>>8))
		return 16
	case q == 0 && p == 3:
		nn := c.fetch16()
		c.mem.WriteByte(nn, c.r.A)
		return 13
	case q == 1 && p == 0:
		c.r.A = c.mem.ReadByte(c.r.getPair(pairBC))
		return 7
	case q == 1 && p == 1:
		c.r.A = c.mem.ReadByte(c.r.getPair(pairDE))
		return 7
	case q == 1 && p == 2:
		nn := c.fetch16()
		lo := c.mem.ReadByte(nn)
		hi := c.mem.ReadByte(nn + 1)
		c.setRP(pairHL, mode, uint16(hi)<<8|uint16(lo))
		return 16
	default: // q==1, p==3
		nn := c.fetch16()
		c.r.A = c.mem.ReadByte(nn)
		return 13
	}
}

func (c *CPU) execX0Z7(y uint8) int {
	switch y {
	case 0:
		c.rlca()
	case 1:
		c.rrca()
	case 2:
		c.rla()
	case 3:
		c.rra()
	case 4:
		c.daa()
	case 5:
		c.cpl()
	case 6:
		c.scf()
	default:
		c.ccf()
	}
	return 4
}
