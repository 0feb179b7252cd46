package config

import (
	"math"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	var cfg DriftConfig
	if err := yaml.Unmarshal(defaultDriftYAML, &cfg); err != nil {
		t.Fatalf("embedded drift.yaml failed to parse: %v", err)
	}

	want := DefaultDriftConfig()
	if cfg.Spawner.MaxItems != want.Spawner.MaxItems {
		t.Errorf("spawner.max_items = %d, expected %d", cfg.Spawner.MaxItems, want.Spawner.MaxItems)
	}
	if cfg.Sweep.MinPopSpeed != want.Sweep.MinPopSpeed {
		t.Errorf("sweep.min_pop_speed = %v, expected %v", cfg.Sweep.MinPopSpeed, want.Sweep.MinPopSpeed)
	}
	if cfg.Level.LookAhead != want.Level.LookAhead {
		t.Errorf("level.look_ahead = %v, expected %v", cfg.Level.LookAhead, want.Level.LookAhead)
	}
	if cfg.Level.Loop != want.Level.Loop {
		t.Errorf("level.loop = %v, expected %v", cfg.Level.Loop, want.Level.Loop)
	}
	if len(cfg.Spawner.Templates) != len(want.Spawner.Templates) {
		t.Fatalf("spawner templates = %d, expected %d", len(cfg.Spawner.Templates), len(want.Spawner.Templates))
	}
	for i, tpl := range cfg.Spawner.Templates {
		if tpl != want.Spawner.Templates[i] {
			t.Errorf("template %d = %+v, expected %+v", i, tpl, want.Spawner.Templates[i])
		}
	}
	if cfg.Difficulty.Progression.Type != want.Difficulty.Progression.Type {
		t.Errorf("difficulty.progression.type = %q, expected %q",
			cfg.Difficulty.Progression.Type, want.Difficulty.Progression.Type)
	}
}

func TestDifficultyLevelProgression(t *testing.T) {
	dm := NewDifficultyManager(DifficultyConfig{
		Enabled:      true,
		InitialLevel: 0.0,
		Progression:  ProgressionConfig{Type: "score", MaxAt: 100},
		Scaling:      ScalingConfig{SpeedMultiplier: 1.0, IntervalReduction: 20},
	})

	tests := []struct {
		name     string
		score    int
		expected float64
	}{
		{"start", 0, 0.0},
		{"halfway", 50, 0.5},
		{"maxed", 100, 1.0},
		{"beyond max clamps", 250, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dm.Level(tt.score, 0)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Level(%d) = %v, expected %v", tt.score, got, tt.expected)
			}
		})
	}
}

func TestDifficultyDisabledHoldsInitial(t *testing.T) {
	dm := NewDifficultyManager(DifficultyConfig{
		Enabled:      false,
		InitialLevel: 0.4,
		Progression:  ProgressionConfig{Type: "score", MaxAt: 100},
	})

	if got := dm.Level(1000, 1000); got != 0.4 {
		t.Errorf("Level with disabled progression = %v, expected 0.4", got)
	}
	if dm.IsEnabled() {
		t.Error("IsEnabled() = true, expected false")
	}

	dm.SetEnabled(true)
	if !dm.IsEnabled() {
		t.Error("IsEnabled() after SetEnabled(true) = false, expected true")
	}
}

func TestDifficultySpeedScaling(t *testing.T) {
	dm := NewDifficultyManager(DifficultyConfig{
		Enabled:      true,
		InitialLevel: 0.0,
		Progression:  ProgressionConfig{Type: "time", MaxAt: 60},
		Scaling:      ScalingConfig{SpeedMultiplier: 1.5},
	})

	if got := dm.Speed(10, 0, 0); got != 10 {
		t.Errorf("Speed at start = %v, expected 10", got)
	}
	// At max difficulty: base * (1 + 1.5) = 25
	if got := dm.Speed(10, 0, 60); math.Abs(got-25) > 1e-9 {
		t.Errorf("Speed at max = %v, expected 25", got)
	}
}

func TestSpawnIntervalFloor(t *testing.T) {
	dm := NewDifficultyManager(DifficultyConfig{
		Enabled:      true,
		InitialLevel: 0.0,
		Progression:  ProgressionConfig{Type: "score", MaxAt: 100},
		Scaling:      ScalingConfig{IntervalReduction: 50},
	})

	if got := dm.SpawnInterval(45, 0, 0); got != 45 {
		t.Errorf("SpawnInterval at start = %d, expected 45", got)
	}
	if got := dm.SpawnInterval(45, 50, 0); got != 20 {
		t.Errorf("SpawnInterval halfway = %d, expected 20", got)
	}
	// Full reduction would give 45-50 = -5; clamps to the floor.
	if got := dm.SpawnInterval(45, 100, 0); got != 10 {
		t.Errorf("SpawnInterval at max = %d, expected floor 10", got)
	}
}

func TestApplyDriftPreset(t *testing.T) {
	tests := []struct {
		name            string
		preset          DifficultyPreset
		expectedEnabled bool
		expectedLevel   float64
	}{
		{"easy", DifficultyEasy, true, 0.0},
		{"normal", DifficultyNormal, true, 0.3},
		{"hard", DifficultyHard, true, 0.7},
		{"fixed", DifficultyFixed, false, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultDriftConfig()
			ApplyDriftPreset(&cfg, tt.preset)
			if cfg.Difficulty.Enabled != tt.expectedEnabled {
				t.Errorf("Enabled = %v, expected %v", cfg.Difficulty.Enabled, tt.expectedEnabled)
			}
			if tt.expectedEnabled && cfg.Difficulty.InitialLevel != tt.expectedLevel {
				t.Errorf("InitialLevel = %v, expected %v", cfg.Difficulty.InitialLevel, tt.expectedLevel)
			}
		})
	}
}

func TestHardPresetTightensSweep(t *testing.T) {
	cfg := DefaultDriftConfig()
	ApplyDriftPreset(&cfg, DifficultyHard)
	if cfg.Sweep.MinPopSpeed != 45 {
		t.Errorf("MinPopSpeed = %v, expected 45", cfg.Sweep.MinPopSpeed)
	}
	if cfg.Spawner.MaxItems != 32 {
		t.Errorf("MaxItems = %d, expected 32", cfg.Spawner.MaxItems)
	}
}
