package save

import (
	"os"
	"path/filepath"
	"testing"

	"ggcore/internal/rom"
)

func testROM() *rom.ROM {
	return &rom.ROM{ProductCode: 21234, ExpectedChecksum: 0xBEEF}
}

func TestLazyCartRAMLifecycle(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "game.sav")
	r := testROM()

	s, err := Init(path, r)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if s.HasCartRAM() {
		t.Fatalf("fresh save should not have cart RAM before a ROM requests it")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("save file should not be created until InitCartRAM")
	}

	if err := s.InitCartRAM(); err != nil {
		t.Fatalf("InitCartRAM: %v", err)
	}
	if !s.HasCartRAM() {
		t.Fatalf("expected cart RAM after InitCartRAM")
	}
	ram := s.CartRAM()
	if len(ram) != CartRAMSize {
		t.Fatalf("CartRAM length = %d, want %d", len(ram), CartRAMSize)
	}
	ram[0] = 0x42
	ram[CartRAMSize-1] = 0x99

	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Reload and verify the write persisted.
	s2, err := Init(path, r)
	if err != nil {
		t.Fatalf("reopen Init: %v", err)
	}
	if !s2.HasCartRAM() {
		t.Fatalf("expected reopened save to have cart RAM")
	}
	ram2 := s2.CartRAM()
	if ram2[0] != 0x42 || ram2[CartRAMSize-1] != 0x99 {
		t.Fatalf("cart RAM contents did not persist across reopen")
	}
	s2.Close()
}

func TestWrongROMRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "game.sav")
	r := testROM()

	s, err := Init(path, r)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := s.InitCartRAM(); err != nil {
		t.Fatalf("InitCartRAM: %v", err)
	}
	s.Close()

	other := &rom.ROM{ProductCode: 99999, ExpectedChecksum: 0x1234}
	if _, err := Init(path, other); err == nil {
		t.Fatalf("expected error loading save created for a different ROM")
	}
}

func TestMemoryOnlySave(t *testing.T) {
	s, err := Init("", testROM())
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if s.HasCartRAM() {
		t.Fatalf("memory-only save should never report cart RAM")
	}
	if err := s.InitCartRAM(); err == nil {
		t.Fatalf("expected error creating cart RAM without a path")
	}
}
