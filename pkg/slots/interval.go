package slots

import (
	"errors"
	"fmt"
	"time"

	"slotbook/pkg/model"
)

// ErrInvalidDuration reports a unit count below one.
var ErrInvalidDuration = errors.New("invalid reservation duration")

// Interval is a half-open [Start, End) span of a single day.
type Interval struct {
	Start model.Clock
	End   model.Clock
}

func (i Interval) Overlaps(o Interval) bool {
	return Overlaps(i.Start, i.End, o.Start, o.End)
}

// ComputeEnd returns start + unitCount*unit.
func ComputeEnd(start model.Clock, unitCount int, unit time.Duration) (model.Clock, error) {
	if unitCount < 1 {
		return 0, fmt.Errorf("%w: unit count must be at least 1, got %d", ErrInvalidDuration, unitCount)
	}
	// Units are whole minutes, so anything longer than a day already ends
	// past midnight. Clamping keeps the multiplication from overflowing.
	if unitCount > model.MinutesPerDay {
		unitCount = model.MinutesPerDay + 1
	}
	return start.Add(time.Duration(unitCount) * unit), nil
}

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) share any instant.
// Intervals that only touch at a boundary do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd model.Clock) bool {
	return aStart < bEnd && bStart < aEnd
}

// Conflicts returns the indexes of existing intervals that overlap candidate.
func Conflicts(candidate Interval, existing []Interval) []int {
	var out []int
	for i, e := range existing {
		if candidate.Overlaps(e) {
			out = append(out, i)
		}
	}
	return out
}
