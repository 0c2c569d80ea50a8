package thresholds

import (
	"fmt"
	"math"
)

// Score bounds shared by every level.
const (
	MinScore = 0.0
	MaxScore = 10.0
)

// Default pass thresholds.
const (
	DefaultLevel1    = 7.0
	DefaultLevel2    = 6.0
	DefaultLevel3    = 8.0
	DefaultComposite = DefaultLevel3
)

// Level identifies an evaluation level.
type Level int

const (
	LevelResume  Level = 1
	LevelProfile Level = 2
	LevelCoding  Level = 3
)

// Config is the full set of pass thresholds. It is always replaced as a whole.
type Config struct {
	Level1    float64 `json:"level_1"`
	Level2    float64 `json:"level_2"`
	Level3    float64 `json:"level_3"`
	Composite float64 `json:"composite"`
}

// Default returns the built-in thresholds.
func Default() Config {
	return Config{
		Level1:    DefaultLevel1,
		Level2:    DefaultLevel2,
		Level3:    DefaultLevel3,
		Composite: DefaultComposite,
	}
}

// For returns the threshold for a level.
func (c Config) For(level Level) float64 {
	switch level {
	case LevelResume:
		return c.Level1
	case LevelProfile:
		return c.Level2
	default:
		return c.Level3
	}
}

// Validate checks every value is inside [0,10].
func (c Config) Validate() error {
	fields := []struct {
		name string
		val  float64
	}{
		{"level_1", c.Level1},
		{"level_2", c.Level2},
		{"level_3", c.Level3},
		{"composite", c.Composite},
	}
	for _, f := range fields {
		if err := checkRange(f.name, f.val); err != nil {
			return err
		}
	}
	return nil
}

// Patch is a partial update. Nil fields keep their current value.
type Patch struct {
	Level1    *float64 `json:"level_1,omitempty"`
	Level2    *float64 `json:"level_2,omitempty"`
	Level3    *float64 `json:"level_3,omitempty"`
	Composite *float64 `json:"composite,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Level1 == nil && p.Level2 == nil && p.Level3 == nil && p.Composite == nil
}

// Apply returns c with the patch merged in. c itself is not modified.
func (c Config) Apply(p Patch) (Config, error) {
	if p.IsEmpty() {
		return c, ErrEmptyPatch
	}
	next := c
	if p.Level1 != nil {
		next.Level1 = *p.Level1
	}
	if p.Level2 != nil {
		next.Level2 = *p.Level2
	}
	if p.Level3 != nil {
		next.Level3 = *p.Level3
	}
	if p.Composite != nil {
		next.Composite = *p.Composite
	}
	if err := next.Validate(); err != nil {
		return c, err
	}
	return next, nil
}

func checkRange(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < MinScore || v > MaxScore {
		return fmt.Errorf("%w: %s=%v must be between %.0f and %.0f", ErrOutOfRange, name, v, MinScore, MaxScore)
	}
	return nil
}
