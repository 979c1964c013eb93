// Package system wires a CPU, MMU, VDP, PSG, and IO decoder into a
// complete Game Gear: the per-scanline simulate loop, 60Hz frame pacing,
// and the power on/off lifecycle.
package system

import (
	"fmt"
	"time"

	"ggcore/internal/cpu"
	"ggcore/internal/debug"
	"ggcore/internal/ioport"
	"ggcore/internal/memory"
	"ggcore/internal/psg"
	"ggcore/internal/rom"
	"ggcore/internal/save"
	"ggcore/internal/video"
)

// Clock speed in Hz, per the official Sega Game Gear documentation.
const (
	cpuClockSpeed  = 3579545.0
	framesPerSec   = 60
	cyclesPerFrame = cpuClockSpeed / framesPerSec
	cyclesPerLine  = cyclesPerFrame / video.LinesPerFrame
	nsPerFrame     = time.Second / framesPerSec
)

// Button identifies one of the joypad's six face/direction buttons, as
// distinct from Start which GameGear exposes through its own setter.
type Button = uint8

const (
	ButtonUp     = ioport.ButtonUp
	ButtonDown   = ioport.ButtonDown
	ButtonLeft   = ioport.ButtonLeft
	ButtonRight  = ioport.ButtonRight
	ButtonOne    = ioport.Button1
	ButtonTwo    = ioport.Button2
)

// FrameCallback is invoked once per simulated frame, after every scanline
// in that frame has been rendered.
type FrameCallback func(*GameGear)

// GameGear ties the Z80 CPU to the memory, video, sound, and I/O
// components that front it, and drives the scanline-by-scanline
// simulation loop that advances them all in lockstep.
type GameGear struct {
	CPU *cpu.CPU
	MMU *memory.MMU
	VDP *video.VDP
	PSG *psg.PSG
	IO  *ioport.IO

	Logger *debug.Logger

	powered bool
	callback FrameCallback

	// pendingCycles carries the fractional remainder of cyclesPerLine
	// (itself non-integral: the CPU clock doesn't divide evenly into 262
	// lines at 60 fps) forward to the next line, so T-state counts never
	// drift from the real average over a frame.
	pendingCycles float64
}

// New returns an unpowered GameGear with every component wired together.
// Call LoadROM, then Simulate, which powers every component on before
// running it.
func New() *GameGear {
	logger := debug.NewLogger(10000)

	mmu := memory.New()
	vdp := video.New()
	snd := psg.New()
	io := ioport.New(mmu, vdp, snd)
	z80 := cpu.New(mmu, io)

	return &GameGear{
		CPU:    z80,
		MMU:    mmu,
		VDP:    vdp,
		PSG:    snd,
		IO:     io,
		Logger: logger,
	}
}

// LoadROM maps a parsed ROM's data into the MMU. Calling this while the
// GameGear is powered on has no effect.
func (gg *GameGear) LoadROM(r *rom.ROM) {
	if gg.powered {
		return
	}
	gg.MMU.LoadROM(r.Data)
}

// LoadBIOS maps a BIOS image, toggled into view by the memory control
// port.
func (gg *GameGear) LoadBIOS(data []byte) {
	gg.MMU.LoadBIOS(data)
}

// LoadSave attaches persistent cartridge RAM.
func (gg *GameGear) LoadSave(s *save.Save) {
	gg.MMU.LoadSave(s)
}

// SetCallback installs a function to be invoked after every simulated
// frame.
func (gg *GameGear) SetCallback(cb FrameCallback) {
	gg.callback = cb
}

// ClearCallback removes any previously installed frame callback.
func (gg *GameGear) ClearCallback() {
	gg.callback = nil
}

// AttachDisplay points the VDP's renderer at an ARGB8888 pixel buffer of
// exactly video.ScreenWidth*video.ScreenHeight pixels. Pass nil to detach
// it, which silently disables rendering without otherwise affecting
// simulation.
func (gg *GameGear) AttachDisplay(pixels []uint32) {
	gg.VDP.Pixels = pixels
}

// SetButton latches the pressed state of a joypad direction or trigger
// button.
func (gg *GameGear) SetButton(button Button, pressed bool) {
	gg.IO.SetButton(button, pressed)
}

// SetStart latches the pressed state of the Start button.
func (gg *GameGear) SetStart(pressed bool) {
	gg.IO.SetStart(pressed)
}

// powerOn resets every component to its documented post-reset state. It
// does not itself start the simulation loop.
func (gg *GameGear) powerOn() {
	gg.Logger.LogSystem(debug.LogLevelDebug, "powering on", nil)

	gg.MMU.Power()
	gg.VDP.Power()
	gg.IO.Power()
	gg.CPU.Power()
	gg.pendingCycles = 0
	gg.powered = true
}

// PowerOff signals the simulation loop to stop at the next opportunity.
// It is safe to call at any time, including from another goroutine, and
// is idempotent if the GameGear is already off.
func (gg *GameGear) PowerOff() {
	gg.powered = false
}

// simulateFrame advances the VDP and CPU through one complete frame's
// worth of scanlines. It returns true if the CPU raised an exception
// partway through, in which case simulation must stop.
func (gg *GameGear) simulateFrame() bool {
	for line := 0; line < video.LinesPerFrame; line++ {
		gg.VDP.SimulateLine()
		if gg.IO.CheckIRQ() {
			gg.CPU.RequestIRQ()
		}

		if gg.runCycles(cyclesPerLine) {
			return true
		}
	}
	return false
}

// runCycles steps the CPU until it has consumed at least budget T-states
// (tracking the fractional remainder in pendingCycles), returning true if
// an exception halted it partway through.
func (gg *GameGear) runCycles(budget float64) bool {
	gg.pendingCycles += budget
	for gg.pendingCycles > 0 {
		spent := gg.CPU.Step()
		if gg.CPU.Exception() != nil {
			return true
		}
		gg.pendingCycles -= float64(spent)
	}
	return false
}

// Simulate runs the GameGear until it powers off or the CPU raises an
// exception, pacing itself to 60 frames per second and invoking the
// installed frame callback (if any) after each one. It blocks until the
// simulation ends; the GameGear must be unpowered when this is called.
func (gg *GameGear) Simulate() {
	if gg.powered {
		return
	}
	gg.powerOn()

	for gg.powered {
		start := time.Now()

		if gg.simulateFrame() || !gg.powered {
			break
		}
		if gg.callback != nil {
			gg.callback(gg)
		}

		if elapsed := time.Since(start); elapsed < nsPerFrame {
			time.Sleep(nsPerFrame - elapsed)
		}
	}

	gg.Logger.LogSystem(debug.LogLevelDebug, "powering off", nil)
	gg.PowerOff()
}

// Exception returns a human-readable description of the condition that
// halted the CPU, or "" if the simulation ended normally.
func (gg *GameGear) Exception() string {
	exc := gg.CPU.Exception()
	if exc == nil {
		return ""
	}
	return exc.Error()
}

// String reports whether the GameGear is currently powered, for debug
// dumps.
func (gg *GameGear) String() string {
	return fmt.Sprintf("GameGear{powered=%v}", gg.powered)
}
