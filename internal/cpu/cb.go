package cpu

// execCB handles the plain (unindexed) CB-prefixed group: rotate/shift
// (x=0), BIT (x=1), RES (x=2), SET (x=3), each over the r[z] table.
func (c *CPU) execCB() int {
	opcode := c.fetch8()
	x := opcode >> 6
	y := (opcode >> 3) & 7
	z := opcode & 7
	val := c.readR(z, indexNone)

	switch x {
	case 0:
		res := c.rotOp(y, val)
		c.writeR(z, indexNone, res)
	case 1:
		c.testBit(y, val, val)
		if z == 6 {
			return 12
		}
		return 8
	case 2:
		c.writeR(z, indexNone, val&^(1<<y))
	default:
		c.writeR(z, indexNone, val|(1<<y))
	}
	if z == 6 {
		return 15
	}
	return 8
}

// testBit sets BIT's flags. undocSrc supplies the undocumented F3/F5
// source: the tested byte itself for register/(HL) operands, or the high
// byte of the displaced address for the indexed forms.
func (c *CPU) testBit(y uint8, val, undocSrc uint8) {
	bit := val&(1<<y) != 0
	c.r.setFlag(FlagZ, !bit)
	c.r.setFlag(FlagPV, !bit)
	c.r.setFlag(FlagN, false)
	c.r.setFlag(FlagH, true)
	c.r.setFlag(FlagS, y == 7 && bit)
	c.r.setFlag(Flag3, undocSrc&0x08 != 0)
	c.r.setFlag(Flag5, undocSrc&0x20 != 0)
}

// execIndexedCB handles the DD CB d op / FD CB d op four-byte form: the
// displacement is always resolved and the operation always touches memory,
// but non-BIT operations also mirror their result into r[z] when z != 6
// (the well-known undocumented "copy" variants).
func (c *CPU) execIndexedCB(mode indexMode) int {
	d := int8(c.fetch8())
	opcode := c.fetch8()

	var base uint16
	if mode == indexIX {
		base = c.r.IX
	} else {
		base = c.r.IY
	}
	addr := uint16(int32(base) + int32(d))

	x := opcode >> 6
	y := (opcode >> 3) & 7
	z := opcode & 7
	val := c.mem.ReadByte(addr)

	switch x {
	case 0:
		res := c.rotOp(y, val)
		c.mem.WriteByte(addr, res)
		if z != 6 {
			c.writeR(z, indexNone, res)
		}
		return 23
	case 1:
		c.testBit(y, val, uint8(addr>>8))
		return 20
	case 2:
		res := val &^ (1 << y)
		c.mem.WriteByte(addr, res)
		if z != 6 {
			c.writeR(z, indexNone, res)
		}
		return 23
	default:
		res := val | (1 << y)
		c.mem.WriteByte(addr, res)
		if z != 6 {
			c.writeR(z, indexNone, res)
		}
		return 23
	}
}
