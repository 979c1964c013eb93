// Package video implements the Game Gear's Video Display Processor: VRAM
// and CRAM storage, the two-byte control-port latch protocol, per-scanline
// background and sprite rendering, and the V counter's region-specific
// jump quirk.
package video

const (
	VRAMSize = 16 * 1024
	CRAMSize = 64
	NumRegs  = 11

	ScreenWidth  = 160
	ScreenHeight = 144

	// LinesPerFrame is the NTSC Game Gear's total scanline count, including
	// the non-visible lines the V counter still walks through every frame.
	LinesPerFrame = 262

	flagControl = 0x01
	flagFrameInt = 0x02
	flagLineInt  = 0x04
	flagSprOvf   = 0x08
	flagSprCol   = 0x10

	codeVRAMRead  = 0
	codeVRAMWrite = 1
	codeRegWrite  = 2
	codeCRAMWrite = 3

	colbufBGPriority   = 0x10
	colbufOpaqueSprite = 0x20
)

// VDP is the Game Gear's video chip: a register file, VRAM/CRAM, and the
// two-byte control-address/write-code latch that every port access feeds
// through.
type VDP struct {
	VRAM [VRAMSize]byte
	CRAM [CRAMSize]byte
	Regs [NumRegs]byte

	Pixels []uint32 // ScreenWidth*ScreenHeight ARGB8888; nil disables rendering

	controlCode byte
	controlAddr uint16
	flags       byte

	hCounter   byte
	vCounter   byte
	vCountJump bool

	lineCount byte
	readBuf   byte
	cramLatch byte
}

// New returns a VDP with no attached pixel buffer. Call Power before use.
func New() *VDP {
	return &VDP{}
}

// Power resets VRAM, CRAM, and every register to its documented post-BIOS
// value.
func (v *VDP) Power() {
	for i := range v.VRAM {
		v.VRAM[i] = 0
	}
	for i := range v.CRAM {
		v.CRAM[i] = 0
	}

	v.Regs[0x00] = 0x00
	v.Regs[0x01] = 0x00
	v.Regs[0x02] = 0xFF
	v.Regs[0x03] = 0xFF
	v.Regs[0x04] = 0xFF
	v.Regs[0x05] = 0xFF
	v.Regs[0x06] = 0xFF
	v.Regs[0x07] = 0x00
	v.Regs[0x08] = 0x00
	v.Regs[0x09] = 0x00
	v.Regs[0x0A] = 0x01

	v.hCounter = 0
	v.vCounter = 0
	v.vCountJump = false

	v.flags = 0
	v.controlCode = 0
	v.controlAddr = 0
	v.lineCount = 0x01
	v.readBuf = 0
	v.cramLatch = 0
}

func (v *VDP) shouldLineInterrupt() bool  { return v.Regs[0x00]&0x10 != 0 }
func (v *VDP) shouldFrameInterrupt() bool { return v.Regs[0x01]&0x20 != 0 }
func (v *VDP) displayVisible() bool       { return v.Regs[0x01]&0x40 != 0 }

func (v *VDP) spriteHeightPatterns() int {
	if v.Regs[0x01]&0x02 != 0 {
		return 2
	}
	return 1
}

func (v *VDP) pntBase() uint16 { return uint16(v.Regs[0x02]&0x0E) << 10 }
func (v *VDP) satBase() uint16 { return uint16(v.Regs[0x05]&0x7E) << 7 }
func (v *VDP) sgtOffset() uint16 { return uint16(v.Regs[0x06]&0x04) << 6 }
func (v *VDP) backdropColor() byte { return v.Regs[0x07] & 0x0F }
func (v *VDP) bgHScroll() byte { return v.Regs[0x08] }
func (v *VDP) bgVScroll() byte { return v.Regs[0x09] }

// VCounter returns the VDP's current vertical counter value.
func (v *VDP) VCounter() byte { return v.vCounter }

// ReadControl returns the VDP status byte (frame interrupt / sprite
// overflow / sprite collision in bits 7/6/5) and clears all latched flags,
// including the line-interrupt flag which isn't itself exposed here.
func (v *VDP) ReadControl() byte {
	var status byte
	if v.flags&flagFrameInt != 0 {
		status |= 0x80
	}
	if v.flags&flagSprOvf != 0 {
		status |= 0x40
	}
	if v.flags&flagSprCol != 0 {
		status |= 0x20
	}
	v.flags = 0
	return status
}

// ReadData returns the read-ahead buffer, refills it from the current
// control address, advances the address, and clears the control latch.
func (v *VDP) ReadData() byte {
	buf := v.readBuf
	v.readBuf = v.VRAM[v.controlAddr]
	v.controlAddr = (v.controlAddr + 1) & 0x3FFF
	v.flags &^= flagControl
	return buf
}

// WriteControl feeds a byte through the two-byte control-address latch. The
// first byte of a pair sets the low 8 bits of the address; the second sets
// the high 6 bits plus the 2-bit operation code, and for VRAM-read/register
// -write codes triggers the corresponding side effect immediately.
func (v *VDP) WriteControl(b byte) {
	v.flags ^= flagControl
	if v.flags&flagControl != 0 {
		v.controlAddr = (v.controlAddr & 0x3F00) | uint16(b)
		return
	}

	v.controlAddr = uint16(b&0x3F)<<8 | (v.controlAddr & 0xFF)
	v.controlCode = b >> 6

	switch v.controlCode {
	case codeVRAMRead:
		v.readBuf = v.VRAM[v.controlAddr]
		v.controlAddr = (v.controlAddr + 1) & 0x3FFF
	case codeRegWrite:
		reg := b & 0x0F
		if int(reg) < NumRegs {
			v.Regs[reg] = byte(v.controlAddr & 0xFF)
		}
	}
}

func (v *VDP) writeCRAM(b byte) {
	if v.controlAddr%2 == 0 {
		v.cramLatch = b
		return
	}
	v.CRAM[(v.controlAddr-1)&0x3F] = v.cramLatch
	v.CRAM[v.controlAddr&0x3F] = b & 0x0F
}

// WriteData writes through to VRAM or, under a CRAM-write code, through the
// even/odd CRAM latch; the control latch is reset and the read-ahead buffer
// is squashed with the written byte, matching the data port's documented
// side effects.
func (v *VDP) WriteData(b byte) {
	if v.controlCode == codeCRAMWrite {
		v.writeCRAM(b)
	} else {
		v.VRAM[v.controlAddr] = b
	}
	v.controlAddr = (v.controlAddr + 1) & 0x3FFF
	v.flags &^= flagControl
	v.readBuf = b
}

// AssertIRQ reports whether the VDP currently wants to interrupt the CPU:
// a latched frame-complete or line-complete flag, gated by that source's
// enable bit.
func (v *VDP) AssertIRQ() bool {
	return (v.flags&flagFrameInt != 0 && v.shouldFrameInterrupt()) ||
		(v.flags&flagLineInt != 0 && v.shouldLineInterrupt())
}

func (v *VDP) updateLineCounter() {
	if v.vCounter < 0xC0 {
		if v.lineCount == 0 {
			v.flags |= flagLineInt
			v.lineCount = v.Regs[0x0A]
		} else {
			v.lineCount--
		}
	} else {
		v.lineCount = v.Regs[0x0A]
	}
}

func (v *VDP) advanceScanline() {
	if v.vCounter == 0xDA {
		v.vCountJump = !v.vCountJump
	}
	if v.vCounter == 0xDA && v.vCountJump {
		v.vCounter = 0xD5
	} else {
		v.vCounter++
	}
}

// SimulateLine renders the current scanline (if it's in the visible
// region), latches frame-interrupt at the bottom of the display, advances
// the line-interrupt countdown, and steps the V counter through its
// region-specific jump.
func (v *VDP) SimulateLine() {
	if v.vCounter >= 0x18 && v.vCounter < 0xA8 {
		v.drawScanline()
	}
	if v.vCounter == 0xC0 {
		v.flags |= flagFrameInt
	}
	v.updateLineCounter()
	v.advanceScanline()
}
