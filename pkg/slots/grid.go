// Package slots holds the pure scheduling arithmetic of a booking day: the grid
// of bookable start instants, reservation end computation, half-open interval
// overlap and availability filtering. Everything here is stateless and safe for
// concurrent use.
package slots

import (
	"errors"
	"fmt"
	"time"

	"slotbook/pkg/model"
)

// ErrInvalidGrid reports a unit or day bounds that cannot form a grid.
var ErrInvalidGrid = errors.New("invalid time grid")

// Generate returns every instant dayStart + k*unit strictly before dayEnd.
// A day shorter than one unit yields an empty, non-nil slice.
func Generate(dayStart, dayEnd model.Clock, unit time.Duration) ([]model.Clock, error) {
	if err := checkGrid(dayStart, dayEnd, unit); err != nil {
		return nil, err
	}

	step := model.Clock(unit / time.Minute)
	out := make([]model.Clock, 0, int(dayEnd-dayStart)/int(step))
	for t := dayStart; t < dayEnd; t += step {
		out = append(out, t)
	}
	return out, nil
}

func checkGrid(dayStart, dayEnd model.Clock, unit time.Duration) error {
	if unit <= 0 {
		return fmt.Errorf("%w: unit duration must be positive, got %s", ErrInvalidGrid, unit)
	}
	if unit%time.Minute != 0 {
		return fmt.Errorf("%w: unit duration must be whole minutes, got %s", ErrInvalidGrid, unit)
	}
	if !dayStart.Valid() || !dayEnd.Valid() {
		return fmt.Errorf("%w: day bounds out of range (%s - %s)", ErrInvalidGrid, dayStart, dayEnd)
	}
	if dayStart >= dayEnd {
		return fmt.Errorf("%w: day start %s must be before day end %s", ErrInvalidGrid, dayStart, dayEnd)
	}
	return nil
}

// Grid is the validated (dayStart, dayEnd, unit) triple a booking day is built from.
type Grid struct {
	dayStart model.Clock
	dayEnd   model.Clock
	unit     time.Duration
}

func NewGrid(dayStart, dayEnd model.Clock, unit time.Duration) (*Grid, error) {
	if err := checkGrid(dayStart, dayEnd, unit); err != nil {
		return nil, err
	}
	return &Grid{dayStart: dayStart, dayEnd: dayEnd, unit: unit}, nil
}

func (g *Grid) DayStart() model.Clock { return g.dayStart }
func (g *Grid) DayEnd() model.Clock   { return g.dayEnd }
func (g *Grid) Unit() time.Duration   { return g.unit }

// Slots recomputes the start instants on every call; the grid is never cached.
func (g *Grid) Slots() []model.Clock {
	out, _ := Generate(g.dayStart, g.dayEnd, g.unit)
	return out
}

// Contains reports whether c is one of the grid's start instants.
func (g *Grid) Contains(c model.Clock) bool {
	if c < g.dayStart || c >= g.dayEnd {
		return false
	}
	step := int(g.unit / time.Minute)
	return int(c-g.dayStart)%step == 0
}
