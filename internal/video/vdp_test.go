package video

import "testing"

func TestControlPortTwoByteLatch(t *testing.T) {
	v := New()
	v.Power()

	v.WriteControl(0x00) // low byte of address
	v.WriteControl(0x40) // high byte + code=1 (VRAM write)
	if v.controlAddr != 0x0000 {
		t.Fatalf("controlAddr = 0x%04X, want 0", v.controlAddr)
	}
	if v.controlCode != codeVRAMWrite {
		t.Fatalf("controlCode = %d, want %d", v.controlCode, codeVRAMWrite)
	}

	v.WriteData(0xAB)
	if v.VRAM[0] != 0xAB {
		t.Fatalf("VRAM[0] = 0x%02X, want 0xAB", v.VRAM[0])
	}
	if v.controlAddr != 1 {
		t.Fatalf("controlAddr should auto-increment, got %d", v.controlAddr)
	}
}

func TestRegisterWriteThroughControlPort(t *testing.T) {
	v := New()
	v.Power()

	v.WriteControl(0x0F)       // value to write (low byte of control_addr)
	v.WriteControl(0x80 | 0x0A) // code=2 (reg write), reg 0x0A
	if v.Regs[0x0A] != 0x0F {
		t.Fatalf("Regs[0x0A] = 0x%02X, want 0x0F", v.Regs[0x0A])
	}
}

func TestStatusReadClearsFlags(t *testing.T) {
	v := New()
	v.Power()
	v.flags = flagFrameInt | flagSprCol

	status := v.ReadControl()
	if status != 0xA0 {
		t.Fatalf("status = 0x%02X, want 0xA0", status)
	}
	if v.flags != 0 {
		t.Fatalf("flags should be cleared after status read, got 0x%02X", v.flags)
	}
}

func TestCRAMEvenOddLatch(t *testing.T) {
	v := New()
	v.Power()

	v.WriteControl(0x00)
	v.WriteControl(0xC0) // code=3 (CRAM write), addr 0
	v.WriteData(0x34)    // latched, not yet committed
	if v.CRAM[0] != 0 {
		t.Fatalf("even write should only latch, CRAM[0] = 0x%02X", v.CRAM[0])
	}
	v.WriteData(0x0F) // commits both bytes
	if v.CRAM[0] != 0x34 || v.CRAM[1] != 0x0F {
		t.Fatalf("CRAM[0:2] = %02X %02X, want 34 0F", v.CRAM[0], v.CRAM[1])
	}
}

func TestVCounterJumpQuirk(t *testing.T) {
	v := New()
	v.Power()
	v.vCounter = 0xDA

	v.advanceScanline()
	if v.vCounter != 0xD5 {
		t.Fatalf("first pass through 0xDA should jump to 0xD5, got 0x%02X", v.vCounter)
	}

	// Walk back up to 0xDA; this time it should fall through to 0xDB.
	for v.vCounter != 0xDA {
		v.advanceScanline()
	}
	v.advanceScanline()
	if v.vCounter != 0xDB {
		t.Fatalf("second pass through 0xDA should not jump, got 0x%02X", v.vCounter)
	}
}

func TestAssertIRQRespectsEnableBits(t *testing.T) {
	v := New()
	v.Power()
	v.flags = flagFrameInt
	if v.AssertIRQ() {
		t.Fatalf("frame interrupt should not assert IRQ while disabled in reg 1")
	}
	v.Regs[0x01] |= 0x20
	if !v.AssertIRQ() {
		t.Fatalf("frame interrupt should assert IRQ once enabled")
	}
}
