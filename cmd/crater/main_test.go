package main

import (
	"os"
	"path/filepath"
	"testing"

	"ggcore/internal/rom"
)

// buildGGROM returns a minimal, checksum-valid 8KB Game Gear ROM image with
// its "TMR SEGA" header at the end, matching the smallest layout Open
// recognizes.
func buildGGROM(t *testing.T) []byte {
	t.Helper()
	const size = 8 << 10
	data := make([]byte, size)
	loc := size - 0x10
	copy(data[loc:], []byte("TMR SEGA"))
	data[loc+0xF] = 6<<4 | 0xA // GG Export, 8KB
	checksum := rom.ComputeChecksum(data, data[loc+0xF])
	data[loc+0xA] = byte(checksum)
	data[loc+0xB] = byte(checksum >> 8)
	return data
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

func TestSaveFileNameReplacesExtension(t *testing.T) {
	got := saveFileName("/roms/sonic.gg")
	if got != "sonic.sav" {
		t.Fatalf("saveFileName = %q, want %q", got, "sonic.sav")
	}
}

func TestRunInspectOnValidROM(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "game.gg", buildGGROM(t))

	if err := runInspect(nil, []string{path}); err != nil {
		t.Fatalf("runInspect: %v", err)
	}
}

func TestRunAssembleThenDisassembleRoundTrips(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "hello.asm", []byte("ld a,0x05\nld b,c\nret\n"))

	if err := runAssemble(nil, []string{src}); err != nil {
		t.Fatalf("runAssemble: %v", err)
	}

	bin := filepath.Join(dir, "hello.bin")
	if err := runDisassemble(nil, []string{bin}); err != nil {
		t.Fatalf("runDisassemble: %v", err)
	}
}
