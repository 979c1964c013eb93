// Package ioport implements the Game Gear's Z80 I/O address space: the
// system ports (joypad/start latch and the PSG stereo byte), the memory
// control register that gates the boot ROM, the V/H counters, and the VDP
// data/control ports — dispatched by the same even/odd, range-based
// decoding the hardware uses.
package ioport

import (
	"ggcore/internal/memory"
	"ggcore/internal/psg"
	"ggcore/internal/video"
)

// Joypad button bit positions, as read back (active low) from ports
// 0xDC/0xCD.
const (
	ButtonUp = iota
	ButtonDown
	ButtonLeft
	ButtonRight
	Button1
	Button2
)

// IO is the Z80's port-space decoder, wired to the components it fronts.
type IO struct {
	mmu *memory.MMU
	vdp *video.VDP
	psg *psg.PSG

	ports   [6]uint8
	buttons uint8
	start   bool
}

// New returns an IO decoder wired to mmu, vdp, and psg. Call Power before
// use.
func New(mmu *memory.MMU, vdp *video.VDP, psg *psg.PSG) *IO {
	return &IO{mmu: mmu, vdp: vdp, psg: psg}
}

// Power resets the system ports and joypad latch to their documented
// post-power-on state (overseas/NTSC, no buttons pressed).
func (io *IO) Power() {
	io.ports[0x00] = 0xC0
	io.ports[0x01] = 0x7F
	io.ports[0x02] = 0xFF
	io.ports[0x03] = 0x00
	io.ports[0x04] = 0xFF
	io.ports[0x05] = 0x00

	io.buttons = 0xFF
	io.start = true
}

// CheckIRQ reports whether the VDP currently wants to interrupt the CPU.
func (io *IO) CheckIRQ() bool {
	return io.vdp.AssertIRQ()
}

// SetButton latches the pressed state of one joypad button (active low
// in the port read-back).
func (io *IO) SetButton(button uint8, pressed bool) {
	bit := uint8(1) << button
	if pressed {
		io.buttons &^= bit
	} else {
		io.buttons |= bit
	}
}

// SetStart latches the pressed state of the Start button.
func (io *IO) SetStart(pressed bool) {
	io.start = !pressed
}

func (io *IO) readSystemPort(port uint8) uint8 {
	switch port {
	case 0x00:
		status := io.ports[0] & 0x7F
		if io.start {
			status |= 0x80
		}
		return status
	case 0x01, 0x02, 0x03, 0x04, 0x05:
		return io.ports[port]
	default:
		return 0xFF
	}
}

func (io *IO) writeSystemPort(port, value uint8) {
	switch port {
	case 0x01, 0x02, 0x03:
		io.ports[port] = value
	case 0x05:
		io.ports[port] = value & 0xF8
	case 0x06:
		io.psg.WriteStereo(value)
	}
}

func (io *IO) writeMemoryControl(value uint8) {
	io.mmu.BIOSEnabled = value&0x08 == 0
}

// Read dispatches a port read across the system ports, the open bus
// region, the V/H counters, the VDP data/control ports, and the joypad
// latches.
func (io *IO) Read(port uint8) uint8 {
	switch {
	case port <= 0x06:
		return io.readSystemPort(port)
	case port <= 0x3F:
		return 0xFF
	case port <= 0x7F && port%2 == 0:
		return io.vdp.VCounter()
	case port <= 0x7F:
		return io.hCounter()
	case port <= 0xBF && port%2 == 0:
		return io.vdp.ReadData()
	case port <= 0xBF:
		return io.vdp.ReadControl()
	case port == 0xCD || port == 0xDC:
		return io.buttons
	case port == 0xC1 || port == 0xDD:
		return 0xFF
	default:
		return 0xFF
	}
}

// hCounter is a placeholder for the horizontal counter latch; it is never
// driven by the cycle-granularity scanline driver, which only steps the
// VDP once per complete line.
func (io *IO) hCounter() uint8 { return 0 }

// Write dispatches a port write across the system ports, the memory
// control register, the PSG, and the VDP data/control ports.
func (io *IO) Write(port, value uint8) {
	switch {
	case port <= 0x06:
		io.writeSystemPort(port, value)
	case port <= 0x3F && port%2 == 0:
		io.writeMemoryControl(value)
	case port <= 0x3F:
		// I/O control register: unused by any title this core targets.
	case port <= 0x7F:
		io.psg.Write(value)
	case port <= 0xBF && port%2 == 0:
		io.vdp.WriteData(value)
	case port <= 0xBF:
		io.vdp.WriteControl(value)
	}
}
