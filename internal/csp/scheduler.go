package csp

import (
	"math/rand"

	"github.com/alessandroavenali/fuel-logistics/internal/logistics/domain"
)

// dayPlan is the committed outcome of scheduling one day: the decided
// starts, the per-driver trackers (consulted for weekly accumulation), and
// the inventory at the day's terminal boundary.
type dayPlan struct {
	sim        *DaySim
	tDrivers   []*DriverDayState
	lDrivers   []*DriverDayState
	startState domain.FleetState
	endState   domain.FleetState
	deliveries int
}

// kindPriority returns the driver-task kinds of one depot (U and S at T, V
// and A at L) in a uniformly shuffled attempt order, so randomized restarts
// explore alternative orders. Refill is not in either list: scheduleDay
// attempts it before any driver task in each slot.
func kindPriority(rng *rand.Rand, depot domain.Depot) []domain.Kind {
	var base []domain.Kind
	switch depot {
	case domain.DepotT:
		base = []domain.Kind{domain.KindShuttle, domain.KindSupply}
	case domain.DepotL:
		base = []domain.Kind{domain.KindResident, domain.KindADR}
	}
	rng.Shuffle(len(base), func(i, j int) { base[i], base[j] = base[j], base[i] })
	return base
}

// scheduleDay runs the greedy constructive pass for one day: for each slot
// in order, it attempts refills first and then driver starts in a randomized
// order, committing only those that hold every currently-checkable
// constraint (C1-C5) and keep every inventory boundary of the day, including
// those reached by the lagged effects of starts already committed,
// non-negative and within the fleet totals.
func scheduleDay(day domain.Day, grid domain.TimeGrid, limits domain.Limits, fleet domain.Fleet, initial domain.FleetState, tWeek, lWeek []*DriverWeekState, hasPreviousWeek bool, rng *rand.Rand) dayPlan {
	catalog := domain.Catalog()
	sim := NewDaySim(grid)

	tDrivers := make([]*DriverDayState, day.DT)
	for i := range tDrivers {
		tDrivers[i] = NewDriverDayState(grid)
	}
	lDrivers := make([]*DriverDayState, day.DL)
	for j := range lDrivers {
		lDrivers[j] = NewDriverDayState(grid)
	}

	deliveries := 0
	slots := grid.SlotsPerDay()

	for t := 0; t < slots; t++ {
		bounds := sim.Bounds(initial)
		at := bounds[t]
		pendingSupply, pendingRefill, pendingShuttle := 0, 0, 0

		// Refill has no driver; attempt as many starts as remain safe.
		refillTask := catalog[domain.KindRefill]
		for pendingRefill < at.FT {
			if t+refillTask.DurationSlots(grid) > slots {
				break
			}
			if !tryCommit(sim, bounds, initial, grid, fleet, domain.KindRefill, t, &pendingSupply, &pendingRefill, &pendingShuttle) {
				break
			}
		}

		for _, driverIdx := range rng.Perm(len(tDrivers)) {
			ds := tDrivers[driverIdx]
			for _, kind := range kindPriority(rng, domain.DepotT) {
				task := catalog[kind]
				if ForcedToZero(task, grid, t, driverIdx, day.DT) {
					continue
				}
				if !ds.CanStart(task, limits, t) {
					continue
				}
				if !tWeek[driverIdx].CanAddTask(ds.DriveMinutes(), task.DrivingMinutes, hasPreviousWeek, limits) {
					continue
				}
				if !tryCommit(sim, bounds, initial, grid, fleet, kind, t, &pendingSupply, &pendingRefill, &pendingShuttle) {
					continue
				}
				ds.Commit(task, t)
				if kind == domain.KindShuttle {
					deliveries++
				}
				break
			}
		}

		for _, driverIdx := range rng.Perm(len(lDrivers)) {
			ds := lDrivers[driverIdx]
			for _, kind := range kindPriority(rng, domain.DepotL) {
				task := catalog[kind]
				if ForcedToZero(task, grid, t, driverIdx, day.DL) {
					continue
				}
				if !ds.CanStart(task, limits, t) {
					continue
				}
				if !lWeek[driverIdx].CanAddTask(ds.DriveMinutes(), task.DrivingMinutes, hasPreviousWeek, limits) {
					continue
				}
				if kind == domain.KindADR && !lWeek[driverIdx].CanAddADR(limits) {
					continue
				}
				if !tryCommit(sim, bounds, initial, grid, fleet, kind, t, &pendingSupply, &pendingRefill, &pendingShuttle) {
					continue
				}
				ds.Commit(task, t)
				if kind == domain.KindADR {
					lWeek[driverIdx].CommitADR()
				}
				deliveries++
				break
			}
		}
	}

	finalBounds := sim.Bounds(initial)
	return dayPlan{
		sim:        sim,
		tDrivers:   tDrivers,
		lDrivers:   lDrivers,
		startState: initial,
		endState:   finalBounds[slots],
		deliveries: deliveries,
	}
}

// tryCommit speculatively records a start of kind at slot t, re-simulates
// the whole day's bounds, and keeps the commit only if every boundary
// stays non-negative and within the fleet totals, and the
// slot-t resource-availability checks (C5) hold against the running
// per-slot counters. On rejection the speculative start is rolled back.
func tryCommit(sim *DaySim, boundsBeforeSlot []domain.FleetState, initial domain.FleetState, grid domain.TimeGrid, fleet domain.Fleet, kind domain.Kind, t int, pendingSupply, pendingRefill, pendingShuttle *int) bool {
	at := boundsBeforeSlot[t]
	switch kind {
	case domain.KindSupply:
		if *pendingSupply+1 > at.ET || *pendingSupply+*pendingRefill+1 > at.Te {
			return false
		}
	case domain.KindRefill:
		if *pendingRefill+1 > at.FT {
			return false
		}
		if *pendingSupply+*pendingRefill+1 > at.Te {
			return false
		}
	case domain.KindShuttle:
		if *pendingShuttle+1 > at.Tf {
			return false
		}
	}

	sim.RecordStart(kind, t)
	bounds := sim.Bounds(initial)
	if !boundsValid(bounds, fleet) {
		sim.starts[kind][t]--
		return false
	}

	switch kind {
	case domain.KindSupply:
		*pendingSupply++
	case domain.KindRefill:
		*pendingRefill++
	case domain.KindShuttle:
		*pendingShuttle++
	}
	return true
}

func boundsValid(bounds []domain.FleetState, fleet domain.Fleet) bool {
	for _, b := range bounds {
		if !b.NonNegative() {
			return false
		}
		if !b.WithinTotals(fleet.TotalTrailers, fleet.TotalTractors) {
			return false
		}
	}
	return true
}
