package slots

import "slotbook/pkg/model"

// AvailableStarts filters the grid down to the starts whose first unit is free.
//
// Only the one-unit probe [s, s+unit) is checked. A caller booking several
// units must still check the whole span with Conflicts before committing.
func AvailableStarts(g *Grid, existing []Interval) []model.Clock {
	slots := g.Slots()
	out := make([]model.Clock, 0, len(slots))
	for _, s := range slots {
		end, _ := ComputeEnd(s, 1, g.unit)
		probe := Interval{Start: s, End: end}
		if len(Conflicts(probe, existing)) == 0 {
			out = append(out, s)
		}
	}
	return out
}
