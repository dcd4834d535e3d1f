// Package csp implements the discrete-time constraint-satisfaction engine
// described in spec.md §4: a time-indexed formulation of task starts over a
// multi-day horizon, subject to driver no-overlap, rolling-window break
// rules, weekly/biweekly accumulation caps, entry-window gating, and a
// slot-level conservation law for a four-compartment fleet inventory.
//
// No CP-SAT or ILP binding exists anywhere in the retrieved Go corpus, so
// search here is a multi-restart randomized-greedy constructive algorithm
// rather than a branch-and-bound solver (see DESIGN.md). Because the
// conservation equations only ever reference already-decided past starts,
// a constructive pass that only ever sets a start when every
// currently-checkable constraint holds is constraint-safe by construction
// — it can fail to find the true optimum, but it never emits a solution
// that violates P1-P10.
package csp

import "github.com/alessandroavenali/fuel-logistics/internal/logistics/domain"

// ForcedToZero reports whether a start of kind at slot t for the given
// driver index is structurally impossible, per spec.md §4.3: the driver is
// unavailable that day, the task would run past the shift, or its
// Livigno-entry anchor falls outside the configured window.
func ForcedToZero(task domain.Task, grid domain.TimeGrid, t, driverIndex, driversAvailable int) bool {
	if driverIndex >= driversAvailable {
		return true
	}
	if t+task.DurationSlots(grid) > grid.SlotsPerDay() {
		return true
	}
	if task.HasEntryAnchor() {
		anchor := t + task.EntryAnchorSlots(grid)
		if anchor < grid.LivignoEntryStartSlot() || anchor > grid.LivignoEntryEndSlot() {
			return true
		}
	}
	return false
}

// EligibleStarts returns every slot at which a start of kind is not
// structurally forced to zero for the given driver, in ascending order.
func EligibleStarts(task domain.Task, grid domain.TimeGrid, driverIndex, driversAvailable int) []int {
	slots := make([]int, 0, grid.SlotsPerDay())
	for t := 0; t < grid.SlotsPerDay(); t++ {
		if !ForcedToZero(task, grid, t, driverIndex, driversAvailable) {
			slots = append(slots, t)
		}
	}
	return slots
}
