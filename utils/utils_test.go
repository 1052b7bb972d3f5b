package utils

import (
	"duel/world"
	"errors"
	"io/fs"
	"testing"
	"time"
)

// TestReadTOML calls ReadTOML with a known test config, checking that set
// keys are read and unset keys keep their defaults.
func TestReadTOML(t *testing.T) {
	cfg, err := ReadTOML("testdata/test.toml")
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Arena.Size != 21 || cfg.Arena.Obstacles != 5 {
		t.Fatalf("Arena = %+v, want size 21 with 5 obstacles", cfg.Arena)
	}
	if cfg.Player.Speed != 3.5 {
		t.Fatalf("Player.Speed = %v, want 3.5", cfg.Player.Speed)
	}
	if cfg.Player.Radius != 0.5 {
		t.Fatalf("Player.Radius = %v, want default 0.5", cfg.Player.Radius)
	}
	if cfg.Net.InputDelay != 4 || cfg.Net.CheckInterval != 60 {
		t.Fatalf("Net = %+v, want delay 4 and default check interval", cfg.Net)
	}
	if len(cfg.Net.OriginPatterns) != 1 || cfg.Net.OriginPatterns[0] != "localhost:*" {
		t.Fatalf("Net.OriginPatterns = %v", cfg.Net.OriginPatterns)
	}

	tuning := cfg.Tuning()
	if tuning.FrameDuration != time.Second/30 {
		t.Fatalf("FrameDuration = %v, want %v", tuning.FrameDuration, time.Second/30)
	}
	if err := tuning.Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestDefaultConfigMatchesDefaultTuning(t *testing.T) {
	got := DefaultConfig().Tuning()
	want := world.DefaultTuning()
	if got != want {
		t.Fatalf("DefaultConfig().Tuning() = %+v, want %+v", got, want)
	}
}

func TestReadTOMLErrors(t *testing.T) {
	if _, err := ReadTOML("testdata/missing.toml"); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("missing file: err = %v, want fs.ErrNotExist", err)
	}
	if _, err := ReadTOML("testdata/broken.toml"); err == nil {
		t.Fatal("broken file: want error")
	}
}
