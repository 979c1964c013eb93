package cpu

// Flag formulas transcribed from the authoritative arithmetic semantics:
// carry/half-carry are bit 8/bit 4 of the unmasked intermediate result,
// overflow is computed from operand/result sign combinations (not from
// carry-out), and the undocumented F3/F5 bits always copy bits 3 and 5 of
// the result (or, for CP, of the subtrahend).

func isNeg(v uint8) bool { return v&0x80 != 0 }
func isPos(v uint8) bool { return v&0x80 == 0 }

func overflowAdd(lh, rh, res uint8) bool {
	return (isPos(lh) && isPos(rh) && isNeg(res)) || (isNeg(lh) && isNeg(rh) && isPos(res))
}

func overflowSub(lh, rh, res uint8) bool {
	return (isPos(lh) && isNeg(rh) && isNeg(res)) || (isNeg(lh) && isPos(rh) && isPos(res))
}

func parity(v uint8) bool {
	count := 0
	for i := 0; i < 8; i++ {
		if v&(1<<i) != 0 {
			count++
		}
	}
	return count%2 == 0
}

func f3(v uint8) bool { return v&0x08 != 0 }
func f5(v uint8) bool { return v&0x20 != 0 }

// add8 performs A + rh (+ carry-in if adc), updates flags, and returns the
// result.
func (c *CPU) add8(rh uint8, withCarry bool) uint8 {
	lh := c.r.A
	carryIn := uint16(0)
	if withCarry && c.r.getFlag(FlagC) {
		carryIn = 1
	}
	wide := uint16(lh) + uint16(rh) + carryIn
	res := uint8(wide)
	half := (lh&0x0F)+(rh&0x0F)+uint8(carryIn) > 0x0F
	c.r.updateFlags(wide&0x100 != 0, false, overflowAdd(lh, rh, res), f3(res),
		half, f5(res), res == 0, isNeg(res), 0xFF)
	return res
}

// sub8 performs A - rh (- carry-in if sbc), updates flags, and returns the
// result.
func (c *CPU) sub8(rh uint8, withCarry bool) uint8 {
	lh := c.r.A
	carryIn := uint16(0)
	if withCarry && c.r.getFlag(FlagC) {
		carryIn = 1
	}
	wide := uint16(lh) - uint16(rh) - carryIn
	res := uint8(wide)
	half := int(lh&0x0F)-int(rh&0x0F)-int(carryIn) < 0
	c.r.updateFlags(wide&0x100 != 0, true, overflowSub(lh, rh, res), f3(res),
		half, f5(res), res == 0, isNeg(res), 0xFF)
	return res
}

// cp8 compares A against rh, affecting flags as sub8 does, except the
// undocumented F3/F5 bits copy the subtrahend rather than the result.
func (c *CPU) cp8(rh uint8) {
	lh := c.r.A
	wide := uint16(lh) - uint16(rh)
	res := uint8(wide)
	half := int(lh&0x0F)-int(rh&0x0F) < 0
	c.r.updateFlags(wide&0x100 != 0, true, overflowSub(lh, rh, res), f3(rh),
		half, f5(rh), res == 0, isNeg(res), 0xFF)
}

func (c *CPU) bitwise(res uint8, isAnd bool) uint8 {
	c.r.updateFlags(false, false, parity(res), f3(res), isAnd, f5(res),
		res == 0, isNeg(res), 0xFF)
	return res
}

func (c *CPU) inc8(val uint8) uint8 {
	res := val + 1
	half := val&0x0F == 0x0F
	c.r.updateFlags(false, false, overflowAdd(val, 1, res), f3(res), half,
		f5(res), res == 0, isNeg(res), 0xFE)
	return res
}

func (c *CPU) dec8(val uint8) uint8 {
	res := val - 1
	half := val&0x0F == 0x00
	c.r.updateFlags(false, true, overflowSub(val, 1, res), f3(res), half,
		f5(res), res == 0, isNeg(res), 0xFE)
	return res
}

// add16 implements ADD HL/IX/IY, rp: only C, N, H, F3, F5 are affected.
func (c *CPU) add16(lh, rh uint16) uint16 {
	wide := uint32(lh) + uint32(rh)
	res := uint16(wide)
	half := (lh&0x0FFF)+(rh&0x0FFF) > 0x0FFF
	c.r.setFlag(FlagC, wide&0x10000 != 0)
	c.r.setFlag(FlagN, false)
	c.r.setFlag(FlagH, half)
	c.r.setFlag(Flag3, f3(uint8(res>>8)))
	c.r.setFlag(Flag5, f5(uint8(res>>8)))
	return res
}

// adc16/sbc16 implement ADC/SBC HL, rp: all flags affected.
func (c *CPU) adc16(lh, rh uint16) uint16 {
	carry := uint32(0)
	if c.r.getFlag(FlagC) {
		carry = 1
	}
	wide := uint32(lh) + uint32(rh) + carry
	res := uint16(wide)
	half := (lh&0x0FFF)+(rh&0x0FFF)+uint16(carry) > 0x0FFF
	overflow := (lh&0x8000 == rh&0x8000) && (lh&0x8000 != res&0x8000)
	c.r.updateFlags(wide&0x10000 != 0, false, overflow, f3(uint8(res>>8)),
		half, f5(uint8(res>>8)), res == 0, res&0x8000 != 0, 0xFF)
	return res
}

func (c *CPU) sbc16(lh, rh uint16) uint16 {
	carry := int32(0)
	if c.r.getFlag(FlagC) {
		carry = 1
	}
	wide := int32(lh) - int32(rh) - carry
	res := uint16(wide)
	half := int32(lh&0x0FFF)-int32(rh&0x0FFF)-carry < 0
	overflow := (lh&0x8000 != rh&0x8000) && (lh&0x8000 != res&0x8000)
	c.r.updateFlags(wide&0x10000 != 0, true, overflow, f3(uint8(res>>8)),
		half, f5(uint8(res>>8)), res == 0, res&0x8000 != 0, 0xFF)
	return res
}
