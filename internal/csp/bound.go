package csp

import "github.com/alessandroavenali/fuel-logistics/internal/logistics/domain"

// upperBoundDeliveries computes a sound, possibly loose, upper bound on the
// best achievable objectiveDeliveries for req. It relaxes the couplings the
// real greedy must respect -- the shared fleet pool across drivers, and
// weekly/biweekly accumulation across days -- and sums each driver's
// best-case count in isolation. Dropping a constraint can only ever admit
// more starts, never fewer, so the sum is guaranteed >= the true optimum of
// the fully-constrained problem. When the search's achieved count equals
// this bound, no schedule -- constrained or not -- could possibly beat it,
// which certifies OPTIMAL; when it falls short, the gap may be real slack
// or may just be this bound's imprecision, so FEASIBLE is all that's
// honestly claimable.
func upperBoundDeliveries(req domain.Request) int {
	total := 0
	for i, day := range req.Days {
		total += dayUpperBoundDeliveries(day, req.Grid, req.Limits, req.InitialState, i == 0)
	}
	return total
}

// dayUpperBoundDeliveries bounds one day's deliveries in isolation from
// every other day. dayStart/knownStart give the fleet state actually
// available at the start of the horizon: only day 0's start state is known
// without re-deriving a schedule-independent fleet trajectory, so later
// days fall back to the untightened per-driver time bound. That's still
// sound -- just looser, so it certifies OPTIMAL less often on later days,
// never incorrectly.
func dayUpperBoundDeliveries(day domain.Day, grid domain.TimeGrid, limits domain.Limits, dayStart domain.FleetState, knownStart bool) int {
	catalog := domain.Catalog()

	tSum := 0
	for i := 0; i < day.DT; i++ {
		tSum += maxAloneStarts(catalog[domain.KindShuttle], day.DT, grid, limits)
	}
	if knownStart && dayStart.FT == 0 && dayStart.ET == 0 && dayStart.Te == 0 && tSum > dayStart.Tf {
		// Supply needs ET>=1 and Refill needs FT>=1 to ever start, and the
		// only kinds that add a trailer at T (V, A) first need FT or ET
		// themselves; with no trailer on site, neither Supply nor Refill can
		// run, so Tf is only ever spent by shuttles, never replenished -- the
		// starting free-tractor pool is a hard ceiling on top of the
		// per-driver timing bound.
		tSum = dayStart.Tf
	}

	lSum := 0
	for j := 0; j < day.DL; j++ {
		lSum += maxAloneStarts(catalog[domain.KindResident], day.DL, grid, limits)
		lSum += maxAloneStarts(catalog[domain.KindADR], day.DL, grid, limits)
	}

	return tSum + lSum
}

// maxAloneStarts greedily packs as many starts of a single kind as possible
// for one driver across a day, ignoring every other driver, the shared
// fleet pool, and weekly/biweekly accumulation. Earliest-feasible-slot
// greedy is optimal for packing a repeated fixed-duration activity subject
// only to per-driver overlap (C1), driving-minutes (C2), and break-window
// (C3) constraints: every candidate start of the same kind is
// interchangeable, so no alternative choice of start times can ever pack
// strictly more of it (a standard exchange argument for equal-length
// interval scheduling).
func maxAloneStarts(task domain.Task, driversAvailable int, grid domain.TimeGrid, limits domain.Limits) int {
	if driversAvailable == 0 {
		return 0
	}
	ds := NewDriverDayState(grid)
	count := 0
	for t := 0; t < grid.SlotsPerDay(); t++ {
		if ForcedToZero(task, grid, t, 0, driversAvailable) {
			continue
		}
		if !ds.CanStart(task, limits, t) {
			continue
		}
		ds.Commit(task, t)
		count++
	}
	return count
}
