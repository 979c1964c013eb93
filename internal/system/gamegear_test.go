package system

import (
	"testing"
	"time"

	"ggcore/internal/rom"
)

// tightLoop returns a 16KiB ROM bank whose reset vector is an infinite
// "JP 0x0000", enough to keep the CPU busy without ever halting or
// raising an exception.
func tightLoop() *rom.ROM {
	data := make([]byte, 16*1024)
	data[0] = 0xC3 // JP nn
	data[1] = 0x00
	data[2] = 0x00
	return &rom.ROM{Data: data}
}

func TestSimulateInvokesCallbackEachFrame(t *testing.T) {
	gg := New()
	gg.LoadROM(tightLoop())

	frames := 0
	gg.SetCallback(func(g *GameGear) {
		frames++
		if frames >= 2 {
			g.PowerOff()
		}
	})

	done := make(chan struct{})
	go func() {
		gg.Simulate()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Simulate did not return after PowerOff")
	}

	if frames != 2 {
		t.Fatalf("frames = %d, want 2", frames)
	}
}

func TestSimulateIsANoOpWhilePowered(t *testing.T) {
	gg := New()
	gg.LoadROM(tightLoop())
	gg.powered = true

	returned := make(chan struct{})
	go func() {
		gg.Simulate()
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("Simulate should return immediately when already powered")
	}
}

func TestLoadROMIgnoredOncePowered(t *testing.T) {
	gg := New()
	gg.LoadROM(tightLoop())
	gg.powered = true

	other := make([]byte, 16*1024)
	other[0] = 0xFF
	gg.LoadROM(&rom.ROM{Data: other})

	if gg.MMU.ReadByte(0) != 0xC3 {
		t.Fatalf("LoadROM should have no effect while powered")
	}
}

func TestExceptionEmptyAfterCleanPowerOff(t *testing.T) {
	gg := New()
	gg.LoadROM(tightLoop())
	gg.SetCallback(func(g *GameGear) { g.PowerOff() })
	gg.Simulate()

	if exc := gg.Exception(); exc != "" {
		t.Fatalf("Exception() = %q, want empty", exc)
	}
}
