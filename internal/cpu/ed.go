package cpu

// execED handles the ED-prefixed group: 16-bit SBC/ADC HL,rp and memory
// loads, NEG, RETN/RETI, IM set, the I/R transfer and transfer-with-flags
// forms, RRD/RLD, IN r,(C)/OUT (C),r, and the sixteen block instructions.
// Opcodes outside the defined ED space behave as an 8-cycle two-byte NOP,
// matching undefined-opcode behavior on real hardware.
func (c *CPU) execED() int {
	opcode := c.fetch8()
	x := opcode >> 6
	y := (opcode >> 3) & 7
	z := opcode & 7
	p := y >> 1
	q := y & 1

	isBlock := x == 2 && z <= 3 && y >= 4
	if x != 1 && !isBlock {
		return 8
	}
	if isBlock {
		return c.execEDBlock(y, z)
	}

	switch z {
	case 0: // IN r,(C); y==6 is the undocumented "IN F,(C)" flags-only form
		val := c.ports.Read(c.r.C)
		if y != 6 {
			c.writeR(y, indexNone, val)
		}
		c.r.updateFlags(c.r.getFlag(FlagC), false, parity(val), f3(val),
			false, f5(val), val == 0, isNeg(val), 0xFE)
		return 12
	case 1: // OUT (C),r; y==6 is the undocumented "OUT (C),0" form
		var val uint8
		if y != 6 {
			val = c.readR(y, indexNone)
		}
		c.ports.Write(c.r.C, val)
		return 12
	case 2: // SBC/ADC HL,rp
		rh := c.r.getPair(p)
		hl := c.r.getPair(pairHL)
		if q == 0 {
			c.r.setPair(pairHL, c.sbc16(hl, rh))
		} else {
			c.r.setPair(pairHL, c.adc16(hl, rh))
		}
		return 15
	case 3: // LD (nn),rp / LD rp,(nn)
		nn := c.fetch16()
		if q == 0 {
			rp := c.r.getPair(p)
			c.mem.WriteByte(nn, uint8(rp))
			c.mem.WriteByte(nn+1, uint8(rp>>8))
		} else {
			lo := c.mem.ReadByte(nn)
			hi := c.mem.ReadByte(nn + 1)
			c.r.setPair(p, uint16(hi)<<8|uint16(lo))
		}
		return 20
	case 4: // NEG
		rh := c.r.A
		c.r.A = 0
		c.r.A = c.sub8(rh, false)
		return 8
	case 5: // RETN / RETI
		c.r.PC = c.pop()
		c.r.IFF1 = c.r.IFF2
		return 14
	case 6: // IM 0/1/2; the undocumented "IM 0/1" encodings act as IM 0
		switch y {
		case 0, 1, 4, 5:
			c.r.IM = 0
		case 2, 6:
			c.r.IM = 1
		default:
			c.r.IM = 2
		}
		return 8
	default:
		return c.execEDMisc(y)
	}
}

func (c *CPU) execEDMisc(y uint8) int {
	switch y {
	case 0: // LD I,A
		c.r.I = c.r.A
		return 9
	case 1: // LD R,A
		c.r.R = c.r.A
		return 9
	case 2: // LD A,I
		c.r.A = c.r.I
		c.ldIRFlags()
		return 9
	case 3: // LD A,R
		c.r.A = c.r.R
		c.ldIRFlags()
		return 9
	case 4:
		c.rrd()
		return 18
	case 5:
		c.rld()
		return 18
	default: // ED 77 / ED 7F: undefined, no operation
		return 8
	}
}

// ldIRFlags sets the flags for LD A,I / LD A,R: P/V mirrors IFF2, an
// interrupt accepted between the flag sample and the fetch can clear it.
func (c *CPU) ldIRFlags() {
	c.r.updateFlags(c.r.getFlag(FlagC), false, c.r.IFF2, f3(c.r.A), false,
		f5(c.r.A), c.r.A == 0, isNeg(c.r.A), 0xFE)
}

func (c *CPU) rrd() {
	hl := c.r.getPair(pairHL)
	m := c.mem.ReadByte(hl)
	a := c.r.A
	newA := (a & 0xF0) | (m & 0x0F)
	newM := (a&0x0F)<<4 | (m >> 4)
	c.r.A = newA
	c.mem.WriteByte(hl, newM)
	c.r.updateFlags(c.r.getFlag(FlagC), false, parity(newA), f3(newA), false,
		f5(newA), newA == 0, isNeg(newA), 0xFE)
}

func (c *CPU) rld() {
	hl := c.r.getPair(pairHL)
	m := c.mem.ReadByte(hl)
	a := c.r.A
	newA := (a & 0xF0) | (m >> 4)
	newM := (m&0x0F)<<4 | (a & 0x0F)
	c.r.A = newA
	c.mem.WriteByte(hl, newM)
	c.r.updateFlags(c.r.getFlag(FlagC), false, parity(newA), f3(newA), false,
		f5(newA), newA == 0, isNeg(newA), 0xFE)
}

// execEDBlock dispatches the sixteen LDI/CPI/INI/OUTI family instructions:
// z selects LD/CP/IN/OUT, y's low bit selects increment vs decrement, and
// y's high bit selects the repeating form.
func (c *CPU) execEDBlock(y, z uint8) int {
	repeat := y >= 6
	decrement := y == 5 || y == 7
	switch z {
	case 0:
		return c.blockLD(decrement, repeat)
	case 1:
		return c.blockCP(decrement, repeat)
	case 2:
		return c.blockIN(decrement, repeat)
	default:
		return c.blockOUT(decrement, repeat)
	}
}

func (c *CPU) blockLD(decrement, repeat bool) int {
	hl := c.r.getPair(pairHL)
	de := c.r.getPair(pairDE)
	bc := c.r.getPair(pairBC)
	val := c.mem.ReadByte(hl)
	c.mem.WriteByte(de, val)
	if decrement {
		hl--
		de--
	} else {
		hl++
		de++
	}
	bc--
	c.r.setPair(pairHL, hl)
	c.r.setPair(pairDE, de)
	c.r.setPair(pairBC, bc)

	n := val + c.r.A
	c.r.setFlag(FlagN, false)
	c.r.setFlag(FlagH, false)
	c.r.setFlag(FlagPV, bc != 0)
	c.r.setFlag(Flag3, n&0x08 != 0)
	c.r.setFlag(Flag5, n&0x02 != 0)

	if repeat && bc != 0 {
		c.r.PC -= 2
		return 21
	}
	return 16
}

func (c *CPU) blockCP(decrement, repeat bool) int {
	hl := c.r.getPair(pairHL)
	bc := c.r.getPair(pairBC)
	val := c.mem.ReadByte(hl)
	res := c.r.A - val
	half := c.r.A&0x0F < val&0x0F
	if decrement {
		hl--
	} else {
		hl++
	}
	bc--
	c.r.setPair(pairHL, hl)
	c.r.setPair(pairBC, bc)

	n := res
	if half {
		n--
	}
	c.r.setFlag(FlagN, true)
	c.r.setFlag(FlagH, half)
	c.r.setFlag(FlagPV, bc != 0)
	c.r.setFlag(FlagZ, res == 0)
	c.r.setFlag(FlagS, isNeg(res))
	c.r.setFlag(Flag3, n&0x08 != 0)
	c.r.setFlag(Flag5, n&0x02 != 0)

	if repeat && bc != 0 && res != 0 {
		c.r.PC -= 2
		return 21
	}
	return 16
}

func (c *CPU) blockIN(decrement, repeat bool) int {
	val := c.ports.Read(c.r.C)
	hl := c.r.getPair(pairHL)
	c.mem.WriteByte(hl, val)
	if decrement {
		hl--
	} else {
		hl++
	}
	c.r.setPair(pairHL, hl)
	c.r.B = c.dec8(c.r.B)
	c.r.setFlag(FlagN, val&0x80 != 0)

	if repeat && c.r.B != 0 {
		c.r.PC -= 2
		return 21
	}
	return 16
}

func (c *CPU) blockOUT(decrement, repeat bool) int {
	hl := c.r.getPair(pairHL)
	val := c.mem.ReadByte(hl)
	c.ports.Write(c.r.C, val)
	if decrement {
		hl--
	} else {
		hl++
	}
	c.r.setPair(pairHL, hl)
	c.r.B = c.dec8(c.r.B)

	if repeat && c.r.B != 0 {
		c.r.PC -= 2
		return 21
	}
	return 16
}
