// Package cpu implements a cycle-counted Zilog Z80 interpreter: the
// register file, documented and commonly-emulated undocumented flag
// behavior, the five-way prefix dispatch (base/CB/ED/DD-FD/DDCB-FDCB), and
// IM 0/1/2 interrupt handling.
package cpu

import "fmt"

// Memory is the address-space view the CPU executes against.
type Memory interface {
	ReadByte(addr uint16) uint8
	WriteByte(addr uint16, value uint8) bool
}

// Ports is the I/O address space the CPU's IN/OUT instructions address.
type Ports interface {
	Read(port uint8) uint8
	Write(port uint8, value uint8)
}

// ExceptionCode identifies why the CPU halted abnormally.
type ExceptionCode uint8

const (
	ExcNone ExceptionCode = iota
	ExcUnimplementedOpcode
)

// Exception is a fatal CPU condition, surfaced to the driver as an error.
type Exception struct {
	Code ExceptionCode
	Data uint8
}

func (e *Exception) Error() string {
	switch e.Code {
	case ExcUnimplementedOpcode:
		return fmt.Sprintf("cpu: unimplemented opcode 0x%02X", e.Data)
	default:
		return "cpu: unknown exception"
	}
}

// CPU is a Z80 interpreter bound to a Memory and Ports implementation.
type CPU struct {
	r     Registers
	mem   Memory
	ports Ports

	halted    bool
	exception *Exception

	// irqWait implements the one-instruction EI grace period: interrupts
	// are not accepted until the instruction after EI has completed.
	irqWait bool

	irqPending bool
	nmiPending bool

	// extra accumulates displacement-calculation cycle surcharges incurred
	// by resolveHL during the instruction currently executing.
	extra int
}

// New returns a CPU wired to mem and ports. Call Power before running it.
func New(mem Memory, ports Ports) *CPU {
	return &CPU{mem: mem, ports: ports}
}

// Power resets the CPU to its post-power-on state.
func (c *CPU) Power() {
	c.r.power()
	c.halted = false
	c.exception = nil
	c.irqWait = false
	c.irqPending = false
	c.nmiPending = false
}

// Registers exposes the register file for debugging/tracing.
func (c *CPU) Registers() *Registers { return &c.r }

// Exception returns the fatal condition that halted the CPU, or nil.
func (c *CPU) Exception() *Exception { return c.exception }

// RequestIRQ raises the maskable interrupt line. The request stays pending
// until the CPU services it; there is no call that withdraws it.
func (c *CPU) RequestIRQ() { c.irqPending = true }

// RequestNMI raises the non-maskable interrupt line for the next Step.
func (c *CPU) RequestNMI() { c.nmiPending = true }

func (c *CPU) fetch8() uint8 {
	b := c.mem.ReadByte(c.r.PC)
	c.r.PC++
	return b
}

func (c *CPU) fetch16() uint16 {
	lo := c.fetch8()
	hi := c.fetch8()
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) push(value uint16) {
	c.r.SP -= 2
	c.mem.WriteByte(c.r.SP, uint8(value))
	c.mem.WriteByte(c.r.SP+1, uint8(value>>8))
}

func (c *CPU) pop() uint16 {
	lo := c.mem.ReadByte(c.r.SP)
	hi := c.mem.ReadByte(c.r.SP + 1)
	c.r.SP += 2
	return uint16(hi)<<8 | uint16(lo)
}

// Step executes exactly one instruction (servicing a pending interrupt
// first, if any is accepted) and returns the number of T-states consumed.
// If the CPU has raised an Exception, Step returns 0 without doing
// anything further; callers must check Exception() after each Step.
func (c *CPU) Step() int {
	if c.exception != nil {
		return 0
	}

	if cycles, serviced := c.serviceInterrupts(); serviced {
		return cycles
	}

	if c.halted {
		c.r.incrementRefreshCounter()
		return 4
	}

	c.extra = 0
	opcode := c.fetch8()
	c.r.incrementRefreshCounter()
	return c.execBase(opcode, indexNone)
}

// indexMode selects which register the z=4/5/6 slots of the r[z] table
// resolve to: HL directly, or a displaced (IX+d)/(IY+d) plus the
// corresponding half registers, per the DD/FD prefix.
type indexMode uint8

const (
	indexNone indexMode = iota
	indexIX
	indexIY
)

func (c *CPU) execBase(opcode uint8, mode indexMode) int {
	switch opcode {
	case 0xCB:
		if mode == indexNone {
			return c.execCB()
		}
		return c.execIndexedCB(mode)
	case 0xED:
		return c.execED()
	case 0xDD:
		return c.execBase(c.fetch8(), indexIX)
	case 0xFD:
		return c.execBase(c.fetch8(), indexIY)
	}

	x := opcode >> 6
	y := (opcode >> 3) & 0x07
	z := opcode & 0x07
	p := y >> 1
	q := y & 1

	switch x {
	case 0:
		return c.execX0(opcode, y, z, p, q, mode) + c.prefixCost(mode) + c.takeExtra()
	case 1:
		return c.execX1(y, z, mode) + c.prefixCost(mode) + c.takeExtra()
	case 2:
		return c.execX2(y, z, mode) + c.prefixCost(mode) + c.takeExtra()
	default:
		return c.execX3(opcode, y, z, p, q, mode) + c.prefixCost(mode) + c.takeExtra()
	}
}

// prefixCost accounts for the extra DD/FD prefix byte consumed before an
// indexed-mode base-group instruction; CB- and ED-prefixed instructions
// carry their own fixed total timings and don't go through this path.
func (c *CPU) prefixCost(mode indexMode) int {
	if mode != indexNone {
		return 4
	}
	return 0
}

func (c *CPU) takeExtra() int {
	v := c.extra
	c.extra = 0
	return v
}
