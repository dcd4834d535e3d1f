package csp

import "github.com/alessandroavenali/fuel-logistics/internal/logistics/domain"

// DaySim accumulates decided starts for one day and forward-simulates the
// four-compartment conservation law of spec.md §4.4/§4.6. It mirrors
// solver.py's literal loop structure: transitions are computed only for
// t in [0, slotsPerDay), so a start whose effect offset would land at
// exactly t0+offset == slotsPerDay never contributes to any transition.
// This is preserved deliberately — it is the ground-truth behavior, not a
// bug to fix.
type DaySim struct {
	grid    domain.TimeGrid
	catalog map[domain.Kind]domain.Task
	starts  map[domain.Kind][]int
	slots   int
}

// NewDaySim creates a simulator for one day under grid.
func NewDaySim(grid domain.TimeGrid) *DaySim {
	slots := grid.SlotsPerDay()
	catalog := domain.Catalog()
	starts := make(map[domain.Kind][]int, len(catalog))
	for k := range catalog {
		starts[k] = make([]int, slots)
	}
	return &DaySim{grid: grid, catalog: catalog, starts: starts, slots: slots}
}

// RecordStart registers one additional start of kind at slot t.
func (s *DaySim) RecordStart(kind domain.Kind, t int) {
	s.starts[kind][t]++
}

// StartsAt returns the number of starts of kind decided at slot t, 0 if t is
// out of range.
func (s *DaySim) StartsAt(kind domain.Kind, t int) int {
	if t < 0 || t >= s.slots {
		return 0
	}
	return s.starts[kind][t]
}

// Bounds forward-simulates the conservation equations from initial across
// the day and returns the boundary-indexed inventory, length slotsPerDay+1.
func (s *DaySim) Bounds(initial domain.FleetState) []domain.FleetState {
	bounds := make([]domain.FleetState, s.slots+1)
	bounds[0] = initial
	for t := 0; t < s.slots; t++ {
		next := bounds[t]
		for kind, task := range s.catalog {
			for _, eff := range task.Effects {
				offsetSlots := eff.OffsetMinutes / s.grid.SlotMinutes
				lag := t - offsetSlots
				if lag < 0 {
					continue
				}
				count := s.StartsAt(kind, lag)
				if count == 0 {
					continue
				}
				next.FT += eff.DeltaFT * count
				next.ET += eff.DeltaET * count
				next.Tf += eff.DeltaTf * count
				next.Te += eff.DeltaTe * count
			}
		}
		bounds[t+1] = next
	}
	return bounds
}
