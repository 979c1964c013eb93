package ioport

import (
	"testing"

	"ggcore/internal/memory"
	"ggcore/internal/psg"
	"ggcore/internal/video"
)

func newIO() *IO {
	m := memory.New()
	m.LoadROM(make([]byte, 16*1024))
	m.Power()
	v := video.New()
	v.Power()
	p := psg.New()
	p.Power()
	io := New(m, v, p)
	io.Power()
	return io
}

func TestStartButtonLatchedInPortZero(t *testing.T) {
	io := newIO()
	if io.Read(0x00)&0x80 == 0 {
		t.Fatalf("start should read as not-pressed (bit set) initially")
	}
	io.SetStart(true)
	if io.Read(0x00)&0x80 != 0 {
		t.Fatalf("start should read as pressed (bit clear) once latched")
	}
}

func TestJoypadPortsActiveLow(t *testing.T) {
	io := newIO()
	if io.Read(0xDC) != 0xFF {
		t.Fatalf("no buttons pressed should read all-ones")
	}
	io.SetButton(ButtonUp, true)
	if io.Read(0xDC)&0x01 != 0 {
		t.Fatalf("pressed Up should clear bit 0")
	}
	if io.Read(0xCD) != io.Read(0xDC) {
		t.Fatalf("0xCD and 0xDC should mirror the same joypad latch")
	}
}

func TestMemoryControlTogglesBIOSEnabled(t *testing.T) {
	io := newIO()
	io.Write(0x3E, 0x08)
	if io.mmu.BIOSEnabled {
		t.Fatalf("bit 3 set should disable the BIOS")
	}
	io.Write(0x3E, 0x00)
	if !io.mmu.BIOSEnabled {
		t.Fatalf("bit 3 clear should re-enable the BIOS")
	}
}

func TestVDPPortsRouteThroughEvenOdd(t *testing.T) {
	io := newIO()
	io.Write(0xBF, 0x00) // control low byte
	io.Write(0xBF, 0x40) // control high byte, code=1 (VRAM write)
	io.Write(0xBE, 0xAB) // data write
	io.Write(0xBF, 0x00)
	io.Write(0xBF, 0x00) // re-point to address 0 for readback
	if got := io.Read(0xBE); got != 0xAB {
		t.Fatalf("VRAM readback = 0x%02X, want 0xAB", got)
	}
}

func TestPSGPortSinksWrites(t *testing.T) {
	io := newIO()
	io.Write(0x40, 0x9F) // latch tone1 volume 0xF
	if io.psg.Vol1 != 0x0F {
		t.Fatalf("Vol1 = 0x%02X, want 0x0F", io.psg.Vol1)
	}
}
