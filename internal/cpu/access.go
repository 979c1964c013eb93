package cpu

// resolveHL returns the effective address the r[z]==6 slot of the
// instruction table refers to: HL directly, or the displaced (IX+d)/(IY+d)
// address, consuming the displacement byte from the instruction stream if
// indexed. Must be called at most once per instruction.
func (c *CPU) resolveHL(mode indexMode) uint16 {
	switch mode {
	case indexIX:
		d := int8(c.fetch8())
		c.extra += 8
		return uint16(int32(c.r.IX) + int32(d))
	case indexIY:
		d := int8(c.fetch8())
		c.extra += 8
		return uint16(int32(c.r.IY) + int32(d))
	default:
		return c.r.getPair(pairHL)
	}
}

func (c *CPU) readR(z uint8, mode indexMode) uint8 {
	switch z {
	case 0:
		return c.r.B
	case 1:
		return c.r.C
	case 2:
		return c.r.D
	case 3:
		return c.r.E
	case 4:
		switch mode {
		case indexIX:
			return uint8(c.r.IX >> 8)
		case indexIY:
			return uint8(c.r.IY >> 8)
		default:
			return c.r.H
		}
	case 5:
		switch mode {
		case indexIX:
			return uint8(c.r.IX)
		case indexIY:
			return uint8(c.r.IY)
		default:
			return c.r.L
		}
	case 6:
		return c.mem.ReadByte(c.resolveHL(mode))
	default:
		return c.r.A
	}
}

func (c *CPU) writeR(z uint8, mode indexMode, value uint8) {
	switch z {
	case 0:
		c.r.B = value
	case 1:
		c.r.C = value
	case 2:
		c.r.D = value
	case 3:
		c.r.E = value
	case 4:
		switch mode {
		case indexIX:
			c.r.IX = uint16(value)<<8 | (c.r.IX & 0xFF)
		case indexIY:
			c.r.IY = uint16(value)<<8 | (c.r.IY & 0xFF)
		default:
			c.r.H = value
		}
	case 5:
		switch mode {
		case indexIX:
			c.r.IX = (c.r.IX & 0xFF00) | uint16(value)
		case indexIY:
			c.r.IY = (c.r.IY & 0xFF00) | uint16(value)
		default:
			c.r.L = value
		}
	case 6:
		c.mem.WriteByte(c.resolveHL(mode), value)
	default:
		c.r.A = value
	}
}

// getRP reads the rp[p] table (BC, DE, HL, SP), substituting IX/IY for HL
// when an index prefix is active.
func (c *CPU) getRP(p uint8, mode indexMode) uint16 {
	if p == pairHL {
		switch mode {
		case indexIX:
			return c.r.IX
		case indexIY:
			return c.r.IY
		}
	}
	return c.r.getPair(p)
}

func (c *CPU) setRP(p uint8, mode indexMode, value uint16) {
	if p == pairHL {
		switch mode {
		case indexIX:
			c.r.IX = value
			return
		case indexIY:
			c.r.IY = value
			return
		}
	}
	c.r.setPair(p, value)
}

// rp2PairID maps a PUSH/POP table index (0:BC 1:DE 2:HL 3:AF) to a
// Registers pair identifier.
func rp2PairID(p uint8) uint8 {
	if p == 3 {
		return pairAF
	}
	return p
}

func (c *CPU) condition(y uint8) bool {
	switch y {
	case 0:
		return !c.r.getFlag(FlagZ)
	case 1:
		return c.r.getFlag(FlagZ)
	case 2:
		return !c.r.getFlag(FlagC)
	case 3:
		return c.r.getFlag(FlagC)
	case 4:
		return !c.r.getFlag(FlagPV)
	case 5:
		return c.r.getFlag(FlagPV)
	case 6:
		return !c.r.getFlag(FlagS)
	default:
		return c.r.getFlag(FlagS)
	}
}

func (c *CPU) aluOp(y uint8, val uint8) {
	switch y {
	case 0:
		c.r.A = c.add8(val, false)
	case 1:
		c.r.A = c.add8(val, true)
	case 2:
		c.r.A = c.sub8(val, false)
	case 3:
		c.r.A = c.sub8(val, true)
	case 4:
		c.r.A = c.bitwise(c.r.A&val, true)
	case 5:
		c.r.A = c.bitwise(c.r.A^val, false)
	case 6:
		c.r.A = c.bitwise(c.r.A|val, false)
	case 7:
		c.cp8(val)
	}
}

func b2u8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// rotOp implements the rot[y] table: RLC, RRC, RL, RR, SLA, SRA, SLL (the
// undocumented "shift logical left, set bit 0"), SRL.
func (c *CPU) rotOp(y uint8, val uint8) uint8 {
	var res uint8
	var carryOut bool
	switch y {
	case 0:
		carryOut = val&0x80 != 0
		res = val<<1 | b2u8(carryOut)
	case 1:
		carryOut = val&0x01 != 0
		res = val>>1 | (b2u8(carryOut) << 7)
	case 2:
		oldCarry := c.r.getFlag(FlagC)
		carryOut = val&0x80 != 0
		res = val<<1 | b2u8(oldCarry)
	case 3:
		oldCarry := c.r.getFlag(FlagC)
		carryOut = val&0x01 != 0
		res = val>>1 | (b2u8(oldCarry) << 7)
	case 4:
		carryOut = val&0x80 != 0
		res = val << 1
	case 5:
		carryOut = val&0x01 != 0
		res = (val >> 1) | (val & 0x80)
	case 6:
		carryOut = val&0x80 != 0
		res = (val << 1) | 1
	default:
		carryOut = val&0x01 != 0
		res = val >> 1
	}
	c.r.updateFlags(carryOut, false, parity(res), f3(res), false, f5(res),
		res == 0, isNeg(res), 0xFF)
	return res
}
