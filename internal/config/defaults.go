package config

import (
	_ "embed"
)

//go:embed defaults/drift.yaml
var defaultDriftYAML []byte

// DefaultDriftConfig returns the default drift game configuration.
// Kept in sync with defaults/drift.yaml; used as the last-resort fallback
// when the embedded YAML fails to parse.
func DefaultDriftConfig() DriftConfig {
	return DriftConfig{
		Level: LevelConfig{
			Enabled:      true,
			Dir:          "",
			Loop:         true,
			LookAhead:    96,
			CullBehind:   48,
			FollowOffset: 0,
		},
		Spawner: SpawnerConfig{
			MaxItems:      24,
			SpawnInterval: 45,
			SpawnLead:     70,
			Templates: []OrbTemplate{
				{ColorIndex: 0, Radius: 1.0, Points: 10, DriftSpeed: 2.0},
				{ColorIndex: 1, Radius: 1.5, Points: 15, DriftSpeed: 3.0},
				{ColorIndex: 2, Radius: 2.0, Points: 25, DriftSpeed: 4.5},
				{ColorIndex: 3, Radius: 1.0, Points: 40, DriftSpeed: 6.0},
			},
		},
		Sweep: SweepConfig{
			MinPopSpeed:   30,
			HitSlack:      1.5,
			TrailMaxAgeMS: 250,
		},
		Physics: PhysicsConfig{
			BasePace: 12,
			Thrust:   14,
			Drag:     4.0,
			MaxClimb: 18,
		},
		Player: PlayerConfig{
			Col: 12,
		},
		Audio: AudioConfig{
			Enabled:    true,
			SampleRate: 44100,
			Voices:     6,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "score",
				MaxAt: 500,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier:   1.5,
				IntervalReduction: 30,
			},
		},
	}
}
