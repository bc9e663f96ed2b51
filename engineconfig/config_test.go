package engineconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadNoDirReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := defaults()
	if cfg != want {
		t.Fatalf("Load() = %+v, want defaults %+v", cfg, want)
	}
}

func TestLoadOverlaysFile(t *testing.T) {
	dir := t.TempDir()
	toml := `
[engine]
max_live_handles = 500
propagation_workers = 8

[hybrid]
use_rk2 = false
`
	if err := os.WriteFile(filepath.Join(dir, "engine.toml"), []byte(toml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxLiveHandles != 500 {
		t.Errorf("MaxLiveHandles = %d, want 500", cfg.MaxLiveHandles)
	}
	if cfg.PropagationWorkers != 8 {
		t.Errorf("PropagationWorkers = %d, want 8", cfg.PropagationWorkers)
	}
	if cfg.UseRK2 {
		t.Errorf("UseRK2 = true, want false")
	}
	// Untouched keys keep their default.
	if cfg.PositionCapacity != defaults().PositionCapacity {
		t.Errorf("PositionCapacity = %d, want default %d", cfg.PositionCapacity, defaults().PositionCapacity)
	}
}

func TestLoadMissingFileInDirIsNotError(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != defaults() {
		t.Fatalf("Load() = %+v, want defaults", cfg)
	}
}
