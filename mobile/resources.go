package mobile

import (
	"errors"
	"fmt"
)

// ErrInvalidLevel reports a signal level outside the defined range. The
// lookup still returns the nearest defined entry so callers can clamp.
var ErrInvalidLevel = errors.New("invalid signal level")

// ResourceMapper resolves a signal level to a spoken-description handle.
// Implementations must be pure and total for the known level range.
type ResourceMapper interface {
	LookupDescription(level int) (DescID, error)
}

// LevelDescriptions is the bundled ResourceMapper: a fixed table from
// signal level to description handle.
type LevelDescriptions struct {
	byLevel []DescID
}

func NewLevelDescriptions(byLevel ...DescID) *LevelDescriptions {
	if len(byLevel) == 0 {
		panic("mobile: level description table must not be empty")
	}
	return &LevelDescriptions{byLevel: byLevel}
}

// DefaultLevelDescriptions covers levels 0..4.
func DefaultLevelDescriptions() *LevelDescriptions {
	return NewLevelDescriptions(
		descHandle("signal none"),
		descHandle("signal one bar"),
		descHandle("signal two bars"),
		descHandle("signal three bars"),
		descHandle("signal full"),
	)
}

func (ld *LevelDescriptions) LookupDescription(level int) (DescID, error) {
	if level < 0 {
		return ld.byLevel[0], fmt.Errorf("level %d: %w", level, ErrInvalidLevel)
	}
	if level >= len(ld.byLevel) {
		return ld.byLevel[len(ld.byLevel)-1], fmt.Errorf("level %d: %w", level, ErrInvalidLevel)
	}
	return ld.byLevel[level], nil
}

// Levels reports the number of defined levels.
func (ld *LevelDescriptions) Levels() int {
	return len(ld.byLevel)
}
