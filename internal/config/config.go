// Package config provides YAML-based game configuration loading and
// difficulty management.
package config

// DriftConfig contains all configuration for the drift game.
type DriftConfig struct {
	Level      LevelConfig      `yaml:"level"`
	Spawner    SpawnerConfig    `yaml:"spawner"`
	Sweep      SweepConfig      `yaml:"sweep"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Player     PlayerConfig     `yaml:"player"`
	Audio      AudioConfig      `yaml:"audio"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// LevelConfig defines the streamed level pipeline parameters.
type LevelConfig struct {
	Enabled      bool     `yaml:"enabled"`
	Dir          string   `yaml:"dir"`           // Levels directory; empty uses the built-in levels
	Files        []string `yaml:"files"`         // Explicit ordered file list; overrides dir when set
	Loop         bool     `yaml:"loop"`          // Restart the list at the end instead of stopping
	LookAhead    float64  `yaml:"look_ahead"`    // Minimum streamed distance ahead of the view center
	CullBehind   float64  `yaml:"cull_behind"`   // Entry-edge distance behind the view before culling
	FollowOffset float64  `yaml:"follow_offset"` // Camera rig to view center adjustment
}

// SpawnerConfig defines the orb pool and spawn cadence.
type SpawnerConfig struct {
	MaxItems      int           `yaml:"max_items"`      // Pool capacity; spawns beyond it are dropped
	SpawnInterval int           `yaml:"spawn_interval"` // Ticks between spawns at base difficulty
	SpawnLead     float64       `yaml:"spawn_lead"`     // Distance ahead of the player where orbs appear
	Templates     []OrbTemplate `yaml:"templates"`
}

// OrbTemplate is one spawnable orb kind.
type OrbTemplate struct {
	ColorIndex int     `yaml:"color_index"`
	Radius     float64 `yaml:"radius"`
	Points     int     `yaml:"points"`
	DriftSpeed float64 `yaml:"drift_speed"` // Maximum wander speed across the tunnel
}

// SweepConfig defines the cursor sweep thresholds.
type SweepConfig struct {
	MinPopSpeed   float64 `yaml:"min_pop_speed"`    // Sweep speed a segment must be recorded at to pop
	HitSlack      float64 `yaml:"hit_slack"`        // Extra hit distance around the orb radius
	TrailMaxAgeMS int     `yaml:"trail_max_age_ms"` // Sweep segments younger than this render as the trail
}

// PhysicsConfig defines glider movement parameters.
type PhysicsConfig struct {
	BasePace float64 `yaml:"base_pace"` // Forward speed in depth units per second
	Thrust   float64 `yaml:"thrust"`    // Vertical acceleration while steering, rows per second squared
	Drag     float64 `yaml:"drag"`      // Per-second vertical velocity damping
	MaxClimb float64 `yaml:"max_climb"` // Vertical speed clamp
}

// PlayerConfig defines where the glider sits on screen.
type PlayerConfig struct {
	Col int `yaml:"col"` // Screen column of the glider
}

// AudioConfig defines the feedback sound engine parameters.
type AudioConfig struct {
	Enabled    bool `yaml:"enabled"`
	SampleRate int  `yaml:"sample_rate"`
	Voices     int  `yaml:"voices"` // Simultaneous tones; further triggers steal the oldest
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Score/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier   float64 `yaml:"speed_multiplier"`   // Pace multiplier added at max difficulty
	IntervalReduction int     `yaml:"interval_reduction"` // Spawn interval ticks removed at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}
