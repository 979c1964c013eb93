package cpu

// Accumulator rotates and flag singletons. Unlike the CB-prefixed rotate
// group, these never touch S, Z, or P/V.

func (c *CPU) rlca() {
	carry := c.r.A&0x80 != 0
	c.r.A = c.r.A<<1 | b2u8(carry)
	c.setRotFlags(carry)
}

func (c *CPU) rrca() {
	carry := c.r.A&0x01 != 0
	c.r.A = c.r.A>>1 | (b2u8(carry) << 7)
	c.setRotFlags(carry)
}

func (c *CPU) rla() {
	oldCarry := c.r.getFlag(FlagC)
	carry := c.r.A&0x80 != 0
	c.r.A = c.r.A<<1 | b2u8(oldCarry)
	c.setRotFlags(carry)
}

func (c *CPU) rra() {
	oldCarry := c.r.getFlag(FlagC)
	carry := c.r.A&0x01 != 0
	c.r.A = c.r.A>>1 | (b2u8(oldCarry) << 7)
	c.setRotFlags(carry)
}

func (c *CPU) setRotFlags(carry bool) {
	c.r.setFlag(FlagC, carry)
	c.r.setFlag(FlagN, false)
	c.r.setFlag(FlagH, false)
	c.r.setFlag(Flag3, f3(c.r.A))
	c.r.setFlag(Flag5, f5(c.r.A))
}

func (c *CPU) cpl() {
	c.r.A = ^c.r.A
	c.r.setFlag(FlagN, true)
	c.r.setFlag(FlagH, true)
	c.r.setFlag(Flag3, f3(c.r.A))
	c.r.setFlag(Flag5, f5(c.r.A))
}

func (c *CPU) scf() {
	c.r.setFlag(FlagC, true)
	c.r.setFlag(FlagN, false)
	c.r.setFlag(FlagH, false)
	c.r.setFlag(Flag3, f3(c.r.A))
	c.r.setFlag(Flag5, f5(c.r.A))
}

func (c *CPU) ccf() {
	oldCarry := c.r.getFlag(FlagC)
	c.r.setFlag(FlagH, oldCarry)
	c.r.setFlag(FlagC, !oldCarry)
	c.r.setFlag(FlagN, false)
	c.r.setFlag(Flag3, f3(c.r.A))
	c.r.setFlag(Flag5, f5(c.r.A))
}

// daa corrects A after a BCD addition/subtraction. N is preserved; every
// other flag is recomputed from the correction.
func (c *CPU) daa() {
	a := c.r.A
	var corr uint8
	carry := c.r.getFlag(FlagC)
	if c.r.getFlag(FlagH) || a&0x0F > 9 {
		corr |= 0x06
	}
	if carry || a > 0x99 {
		corr |= 0x60
		carry = true
	}

	var res uint8
	var halfOut bool
	if c.r.getFlag(FlagN) {
		halfOut = c.r.getFlag(FlagH) && a&0x0F < 6
		res = a - corr
	} else {
		halfOut = a&0x0F > 9
		res = a + corr
	}
	c.r.A = res
	c.r.updateFlags(carry, c.r.getFlag(FlagN), parity(res), f3(res), halfOut,
		f5(res), res == 0, isNeg(res), 0xFF&^(1<<FlagN))
}
