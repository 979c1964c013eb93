package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"unsafe"

	"github.com/spf13/cobra"
	"github.com/veandco/go-sdl2/sdl"

	"ggcore/internal/config"
	"ggcore/internal/rom"
	"ggcore/internal/save"
	"ggcore/internal/system"
	"ggcore/internal/video"
)

var (
	runScale      int
	runBIOS       string
	runSaveDir    string
	runConfigPath string
	runNoSave     bool
)

var runCmd = &cobra.Command{
	Use:   "run <rom>",
	Short: "Play a ROM in an SDL2 window",
	Args:  cobra.ExactArgs(1),
	RunE:  runRun,
}

func init() {
	runCmd.Flags().IntVar(&runScale, "scale", 0, "display scale (default: from config, else 3)")
	runCmd.Flags().StringVar(&runBIOS, "bios", "", "path to a BIOS image to map at power-on")
	runCmd.Flags().StringVar(&runSaveDir, "save-dir", "", "directory for cart-RAM save files (default: from config)")
	runCmd.Flags().StringVar(&runConfigPath, "config", "", "path to crater.toml (default: platform config dir)")
	runCmd.Flags().BoolVar(&runNoSave, "no-save", false, "run with memory-only cart RAM, writing nothing to disk")
	rootCmd.AddCommand(runCmd)
}

// host bridges one simulated GameGear to one SDL2 window: it owns the
// pixel buffer the VDP renders into, the keyboard-to-button mapping, and
// the quit signal that unwinds gg.Simulate's blocking loop.
type host struct {
	gg      *system.GameGear
	window  *sdl.Window
	renderer *sdl.Renderer
	texture *sdl.Texture
	pixels  []uint32
	keys    config.KeyBindings
	quit    bool
}

func runRun(cmd *cobra.Command, args []string) error {
	cfgPath := runConfigPath
	if cfgPath == "" {
		if p, err := config.DefaultPath(); err == nil {
			cfgPath = p
		}
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("run: loading config: %w", err)
	}
	if runScale > 0 {
		cfg.Scale = runScale
	}
	if runSaveDir != "" {
		cfg.SaveDir = runSaveDir
	}

	r, err := rom.Open(args[0])
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	if r.Region() == "SMS Japan" || r.Region() == "SMS Export" {
		return fmt.Errorf("run: %s is a Master System ROM, not a Game Gear ROM", args[0])
	}

	gg := system.New()
	gg.LoadROM(r)

	if runBIOS != "" {
		bios, err := os.ReadFile(runBIOS)
		if err != nil {
			return fmt.Errorf("run: loading BIOS: %w", err)
		}
		gg.LoadBIOS(bios)
	}

	var sv *save.Save
	if !runNoSave {
		savePath := ""
		if cfg.SaveDir != "" {
			if err := os.MkdirAll(cfg.SaveDir, 0o755); err != nil {
				return fmt.Errorf("run: %w", err)
			}
			savePath = filepath.Join(cfg.SaveDir, saveFileName(args[0]))
		}
		sv, err = save.Init(savePath, r)
		if err != nil {
			return fmt.Errorf("run: %w", err)
		}
		gg.LoadSave(sv)
		defer sv.Close()
	}

	cfg.AddRecentROM(args[0])
	if cfgPath != "" {
		_ = config.Save(cfgPath, cfg)
	}

	h, err := newHost(gg, cfg.Keys, cfg.Scale)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	defer h.cleanup()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		<-sigCh
		gg.PowerOff()
	}()

	gg.SetCallback(h.onFrame)
	gg.Simulate()

	if exc := gg.Exception(); exc != "" {
		return fmt.Errorf("run: %s", exc)
	}
	return nil
}

func saveFileName(romPath string) string {
	base := filepath.Base(romPath)
	ext := filepath.Ext(base)
	return base[:len(base)-len(ext)] + ".sav"
}

func newHost(gg *system.GameGear, keys config.KeyBindings, scale int) (*host, error) {
	if scale <= 0 {
		scale = 3
	}

	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, fmt.Errorf("sdl.Init: %w", err)
	}

	w := int32(video.ScreenWidth * scale)
	hgt := int32(video.ScreenHeight * scale)
	window, err := sdl.CreateWindow("crater", sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		w, hgt, sdl.WINDOW_SHOWN)
	if err != nil {
		return nil, fmt.Errorf("sdl.CreateWindow: %w", err)
	}

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		window.Destroy()
		return nil, fmt.Errorf("sdl.CreateRenderer: %w", err)
	}

	texture, err := renderer.CreateTexture(sdl.PIXELFORMAT_ARGB8888, sdl.TEXTUREACCESS_STREAMING,
		video.ScreenWidth, video.ScreenHeight)
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		return nil, fmt.Errorf("renderer.CreateTexture: %w", err)
	}

	pixels := make([]uint32, video.ScreenWidth*video.ScreenHeight)
	gg.AttachDisplay(pixels)

	return &host{
		gg:       gg,
		window:   window,
		renderer: renderer,
		texture:  texture,
		pixels:   pixels,
		keys:     keys,
	}, nil
}

// onFrame is installed as the GameGear's FrameCallback: it runs once per
// simulated frame, on the same goroutine Simulate is blocked in, so event
// polling, input latching, and rendering all happen in lockstep with the
// emulation rather than on a separate timer.
func (h *host) onFrame(gg *system.GameGear) {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			h.quit = true
		case *sdl.KeyboardEvent:
			h.handleKey(e)
		}
	}
	if h.quit {
		gg.PowerOff()
		return
	}

	h.render()
}

func (h *host) handleKey(e *sdl.KeyboardEvent) {
	pressed := e.Type == sdl.KEYDOWN
	name := sdl.GetScancodeName(e.Keysym.Scancode)

	switch name {
	case h.keys.Up:
		h.gg.SetButton(system.ButtonUp, pressed)
	case h.keys.Down:
		h.gg.SetButton(system.ButtonDown, pressed)
	case h.keys.Left:
		h.gg.SetButton(system.ButtonLeft, pressed)
	case h.keys.Right:
		h.gg.SetButton(system.ButtonRight, pressed)
	case h.keys.One:
		h.gg.SetButton(system.ButtonOne, pressed)
	case h.keys.Two:
		h.gg.SetButton(system.ButtonTwo, pressed)
	case h.keys.Start:
		h.gg.SetStart(pressed)
	}
	if e.Keysym.Scancode == sdl.SCANCODE_ESCAPE && pressed {
		h.quit = true
	}
}

func (h *host) render() {
	pitch := video.ScreenWidth * 4
	if err := h.texture.Update(nil, unsafe.Pointer(&h.pixels[0]), pitch); err != nil {
		return
	}
	h.renderer.Copy(h.texture, nil, nil)
	h.renderer.Present()
}

func (h *host) cleanup() {
	h.gg.AttachDisplay(nil)
	if h.texture != nil {
		h.texture.Destroy()
	}
	if h.renderer != nil {
		h.renderer.Destroy()
	}
	if h.window != nil {
		h.window.Destroy()
	}
	sdl.Quit()
}
