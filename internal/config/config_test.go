package config

import (
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "crater.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Scale != Default().Scale {
		t.Fatalf("Scale = %d, want default %d", cfg.Scale, Default().Scale)
	}
	if cfg.Keys != DefaultKeyBindings() {
		t.Fatalf("Keys = %+v, want defaults", cfg.Keys)
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "crater.toml")

	cfg := Default()
	cfg.Scale = 4
	cfg.SaveDir = "/tmp/saves"
	cfg.AddRecentROM("/roms/sonic.gg")
	cfg.Keys.Start = "Space"

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Scale != 4 {
		t.Fatalf("Scale = %d, want 4", loaded.Scale)
	}
	if loaded.SaveDir != "/tmp/saves" {
		t.Fatalf("SaveDir = %q", loaded.SaveDir)
	}
	if loaded.Keys.Start != "Space" {
		t.Fatalf("Keys.Start = %q, want Space", loaded.Keys.Start)
	}
	if len(loaded.RecentROMs) != 1 || loaded.RecentROMs[0] != "/roms/sonic.gg" {
		t.Fatalf("RecentROMs = %v", loaded.RecentROMs)
	}
}

func TestAddRecentROMMovesDuplicateToFront(t *testing.T) {
	cfg := Default()
	cfg.AddRecentROM("/roms/a.gg")
	cfg.AddRecentROM("/roms/b.gg")
	cfg.AddRecentROM("/roms/a.gg")

	want := []string{"/roms/a.gg", "/roms/b.gg"}
	if len(cfg.RecentROMs) != len(want) {
		t.Fatalf("RecentROMs = %v, want %v", cfg.RecentROMs, want)
	}
	for i, p := range want {
		if cfg.RecentROMs[i] != p {
			t.Fatalf("RecentROMs[%d] = %q, want %q", i, cfg.RecentROMs[i], p)
		}
	}
}

func TestAddRecentROMCapsListLength(t *testing.T) {
	cfg := Default()
	for i := 0; i < maxRecentROMs+5; i++ {
		cfg.AddRecentROM(filepath.Join("/roms", string(rune('a'+i))+".gg"))
	}
	if len(cfg.RecentROMs) != maxRecentROMs {
		t.Fatalf("len(RecentROMs) = %d, want %d", len(cfg.RecentROMs), maxRecentROMs)
	}
}
