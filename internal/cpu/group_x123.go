package cpu

// execX1 covers the x=1 opcode group: the 8-bit LD r,r' block at
// 0x40-0x7F, with 0x76 (LD (HL),(HL)) repurposed as HALT.
func (c *CPU) execX1(y, z uint8, mode indexMode) int {
	if y == 6 && z == 6 {
		c.halted = true
		return 4
	}
	val := c.readR(z, mode)
	c.writeR(y, mode, val)
	if y == 6 || z == 6 {
		return 7
	}
	return 4
}

// execX2 covers the x=2 opcode group: ALU A,r[z] for the eight operations
// in alu[y].
func (c *CPU) execX2(y, z uint8, mode indexMode) int {
	val := c.readR(z, mode)
	c.aluOp(y, val)
	if z == 6 {
		return 7
	}
	return 4
}

// execX3 covers the x=3 opcode group: RET cc, POP/PUSH, EXX/EX (SP),HL/
// EX DE,HL/DI/EI, JP/JP cc/CALL/CALL cc, IN/OUT A,(n), ALU A,n and RST.
func (c *CPU) execX3(opcode, y, z, p, q uint8, mode indexMode) int {
	switch z {
	case 0: // RET cc
		if c.condition(y) {
			c.r.PC = c.pop()
			return 11
		}
		return 5
	case 1:
		return c.execX3Z1(y, p, q, mode)
	case 2: // JP cc,nn
		nn := c.fetch16()
		if c.condition(y) {
			c.r.PC = nn
		}
		return 10
	case 3:
		return c.execX3Z3(y, mode)
	case 4: // CALL cc,nn
		nn := c.fetch16()
		if c.condition(y) {
			c.push(c.r.PC)
			c.r.PC = nn
			return 17
		}
		return 10
	case 5:
		return c.execX3Z5(p, q, mode)
	case 6: // ALU A,n
		n := c.fetch8()
		c.aluOp(y, n)
		return 7
	default: // RST y*8
		c.push(c.r.PC)
		c.r.PC = uint16(y) * 8
		return 11
	}
}

func (c *CPU) execX3Z1(y, p, q uint8, mode indexMode) int {
	if q == 0 {
		c.setRP(rp2PairID(p), mode, c.pop())
		return 10
	}
	switch p {
	case 0: // RET
		c.r.PC = c.pop()
		return 10
	case 1: // EXX
		c.r.exchangeBCDEHL()
		return 4
	case 2: // JP (HL)/(IX)/(IY)
		c.r.PC = c.getRP(pairHL, mode)
		return 4
	default: // LD SP,HL/IX/IY
		c.r.SP = c.getRP(pairHL, mode)
		return 6
	}
}

func (c *CPU) execX3Z3(y uint8, mode indexMode) int {
	switch y {
	case 2: // OUT (n),A
		n := c.fetch8()
		c.ports.Write(n, c.r.A)
		return 11
	case 3: // IN A,(n)
		n := c.fetch8()
		c.r.A = c.ports.Read(n)
		return 11
	case 4: // EX (SP),HL/IX/IY
		return c.exSPHL(mode)
	case 5: // EX DE,HL (never index-substituted)
		de := c.r.getPair(pairDE)
		hl := c.r.getPair(pairHL)
		c.r.setPair(pairDE, hl)
		c.r.setPair(pairHL, de)
		return 4
	case 6: // DI
		c.r.IFF1, c.r.IFF2 = false, false
		return 4
	case 7: // EI
		c.r.IFF1, c.r.IFF2 = true, true
		c.irqWait = true
		return 4
	default: // y==0: JP nn; y==1: CB prefix, handled earlier in execBase
		c.r.PC = c.fetch16()
		return 10
	}
}

func (c *CPU) exSPHL(mode indexMode) int {
	lo := c.mem.ReadByte(c.r.SP)
	hi := c.mem.ReadByte(c.r.SP + 1)
	hl := c.getRP(pairHL, mode)
	c.mem.WriteByte(c.r.SP, uint8(hl))
	c.mem.WriteByte(c.r.SP+1, uint8(hl>>8))
	c.setRP(pairHL, mode, uint16(hi)<<8|uint16(lo))
	return 19
}

func (c *CPU) execX3Z5(p, q uint8, mode indexMode) int {
	if q == 0 {
		c.push(c.getRP(rp2PairID(p), mode))
		return 11
	}
	if p == 0 { // CALL nn
		nn := c.fetch16()
		c.push(c.r.PC)
		c.r.PC = nn
		return 17
	}
	return 4 // p==1,2,3: DD/ED/FD prefixes, handled earlier in execBase
}
