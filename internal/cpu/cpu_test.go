package cpu

import "testing"

type fakeMem struct {
	data [65536]byte
}

func (m *fakeMem) ReadByte(addr uint16) uint8 { return m.data[addr] }
func (m *fakeMem) WriteByte(addr uint16, value uint8) bool {
	m.data[addr] = value
	return true
}

type fakePorts struct {
	writes map[uint8]uint8
	reads  map[uint8]uint8
}

func newFakePorts() *fakePorts {
	return &fakePorts{writes: make(map[uint8]uint8), reads: make(map[uint8]uint8)}
}
func (p *fakePorts) Read(port uint8) uint8 { return p.reads[port] }
func (p *fakePorts) Write(port uint8, value uint8) {
	p.writes[port] = value
}

func newCPU(prog ...uint8) (*CPU, *fakeMem) {
	mem := &fakeMem{}
	copy(mem.data[:], prog)
	c := New(mem, newFakePorts())
	c.Power()
	return c, mem
}

func TestPowerOnState(t *testing.T) {
	c, _ := newCPU()
	r := c.Registers()
	if r.A != 0xFF || r.F != 0xFF || r.SP != 0xFFF0 || r.PC != 0 {
		t.Fatalf("unexpected power-on state: %+v", r)
	}
	if r.IFF1 || r.IFF2 || r.IM != 0 {
		t.Fatalf("interrupts should start disabled in IM 0")
	}
}

func TestAdd8FlagsAndCarry(t *testing.T) {
	c, _ := newCPU(0x3E, 0xFF, 0xC6, 0x01) // LD A,0xFF ; ADD A,1
	c.Step()
	c.Step()
	r := c.Registers()
	if r.A != 0 {
		t.Fatalf("A = 0x%02X, want 0", r.A)
	}
	if !r.getFlag(FlagZ) || !r.getFlag(FlagC) || !r.getFlag(FlagH) {
		t.Fatalf("expected Z, C, H set, F = 0x%02X", r.F)
	}
}

func TestCPFlag3Flag5FromOperand(t *testing.T) {
	// LD A,0 ; CP 0x28 -- CP's undocumented F3/F5 come from the operand, not
	// the (negative, wrapped) result.
	c, _ := newCPU(0x3E, 0x00, 0xFE, 0x28)
	c.Step()
	c.Step()
	r := c.Registers()
	if !r.getFlag(Flag3) || !r.getFlag(Flag5) {
		t.Fatalf("expected F3/F5 copied from CP operand 0x28, F = 0x%02X", r.F)
	}
}

func TestIncRPreservesTopBit(t *testing.T) {
	c, _ := newCPU(0x00, 0x00) // two NOPs
	c.Registers().R = 0x80
	c.Step()
	if c.Registers().R != 0x81 {
		t.Fatalf("R = 0x%02X, want 0x81", c.Registers().R)
	}
	c.Registers().R = 0xFF
	c.Step()
	if c.Registers().R != 0x80 {
		t.Fatalf("R should wrap within its low 7 bits and keep bit 7: got 0x%02X", c.Registers().R)
	}
}

func TestDDPrefixSubstitutesIX(t *testing.T) {
	// LD IX,0x1234 ; LD A,(IX+2)
	c, mem := newCPU(0xDD, 0x21, 0x34, 0x12, 0xDD, 0x7E, 0x02)
	mem.data[0x1236] = 0x99
	c.Step()
	c.Step()
	if c.Registers().A != 0x99 {
		t.Fatalf("A = 0x%02X, want 0x99", c.Registers().A)
	}
}

func TestDDFDRepeatedPrefixLastWins(t *testing.T) {
	// DD FD 21 nn nn == LD IY,nnnn (the FD supersedes the DD).
	c, _ := newCPU(0xDD, 0xFD, 0x21, 0x78, 0x56)
	c.Step()
	if c.Registers().IY != 0x5678 {
		t.Fatalf("IY = 0x%04X, want 0x5678", c.Registers().IY)
	}
	if c.Registers().IX != 0xFFFF {
		t.Fatalf("IX should be untouched, got 0x%04X", c.Registers().IX)
	}
}

func TestLDIRFullBlockCopy(t *testing.T) {
	mem := &fakeMem{}
	for i := 0; i < 4; i++ {
		mem.data[0x2000+i] = byte(0x10 + i)
	}
	c := New(mem, newFakePorts())
	c.Power()
	c.Registers().setPair(pairHL, 0x2000)
	c.Registers().setPair(pairDE, 0x3000)
	c.Registers().setPair(pairBC, 4)
	mem.data[0x0000] = 0xED
	mem.data[0x0001] = 0xB0 // LDIR

	for {
		cycles := c.Step()
		if c.Registers().PC != 0 {
			break
		}
		_ = cycles
	}
	for i := 0; i < 4; i++ {
		if mem.data[0x3000+i] != byte(0x10+i) {
			t.Fatalf("byte %d not copied: got 0x%02X", i, mem.data[0x3000+i])
		}
	}
	if c.Registers().getPair(pairBC) != 0 {
		t.Fatalf("BC should be 0 after LDIR completes")
	}
}

func TestEIGracePeriodDelaysOneInstruction(t *testing.T) {
	// EI ; NOP ; NOP
	c, _ := newCPU(0xFB, 0x00, 0x00)
	c.Registers().IM = 1
	c.RequestIRQ()

	c.Step() // EI: sets IFF1/2, arms the grace period
	if c.Registers().PC != 1 {
		t.Fatalf("EI should just advance PC, got PC=%d", c.Registers().PC)
	}

	c.Step() // the grace period must suppress the interrupt for this step
	if c.Registers().PC != 2 {
		t.Fatalf("instruction after EI should execute normally, got PC=%d", c.Registers().PC)
	}

	c.Step() // now the pending IRQ should be serviced
	if c.Registers().PC != 0x0038 {
		t.Fatalf("pending IRQ should now vector to 0x0038, got PC=0x%04X", c.Registers().PC)
	}
	if c.Registers().IFF1 {
		t.Fatalf("IFF1 should be cleared on interrupt acknowledge")
	}
}

func TestIM2VectorsThroughTable(t *testing.T) {
	mem := &fakeMem{}
	c := New(mem, newFakePorts())
	c.Power()
	c.Registers().I = 0x40
	c.Registers().IM = 2
	c.Registers().IFF1 = true
	mem.data[0x40FF] = 0x00
	mem.data[0x4100] = 0x80
	c.RequestIRQ()

	c.Step()
	if c.Registers().PC != 0x8000 {
		t.Fatalf("PC = 0x%04X, want 0x8000", c.Registers().PC)
	}
}

func TestBitUndocumentedFlagsFromDisplacedAddress(t *testing.T) {
	// LD IX,0x1200 ; BIT 0,(IX+0)
	c, mem := newCPU(0xDD, 0x21, 0x00, 0x12, 0xDD, 0xCB, 0x00, 0x46)
	mem.data[0x1200] = 0x01
	c.Step()
	c.Step()
	r := c.Registers()
	if r.getFlag(FlagZ) {
		t.Fatalf("bit 0 of 0x01 is set, Z should be clear")
	}
	if r.getFlag(Flag3) != (0x12&0x08 != 0) || r.getFlag(Flag5) != (0x12&0x20 != 0) {
		t.Fatalf("F3/F5 should come from the displaced address's high byte 0x12")
	}
}
