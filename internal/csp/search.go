package csp

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/alessandroavenali/fuel-logistics/internal/logistics/domain"
)

// horizonPlan is one complete candidate schedule across the full day
// sequence: one dayPlan per day plus the total objective achieved.
type horizonPlan struct {
	days                []dayPlan
	objectiveDeliveries int
}

// buildHorizon greedily schedules every day in sequence, threading the
// terminal inventory of each day into the next day's initial state (the
// day-boundary copy rule of spec.md §4.4) and the per-driver weekly
// trackers across ISO week boundaries (C7/C8).
func buildHorizon(req domain.Request, rng *rand.Rand) (horizonPlan, error) {
	order, groups, err := domain.GroupByWeek(req.Days)
	if err != nil {
		return horizonPlan{}, err
	}
	sortWeekKeysAscending(order)

	tWeekStates := make(map[domain.WeekKey][]*DriverWeekState, len(order))
	lWeekStates := make(map[domain.WeekKey][]*DriverWeekState, len(order))
	previousTMinutes := make([]int, req.Limits.DriversTBase)
	previousLMinutes := make([]int, req.Limits.DriversLBase)

	dayToWeek := make(map[int]domain.WeekKey, len(req.Days))
	for _, key := range order {
		for _, idx := range groups[key] {
			dayToWeek[idx] = key
		}
	}

	plan := horizonPlan{days: make([]dayPlan, len(req.Days))}
	current := req.InitialState

	weekIndexOf := make(map[domain.WeekKey]int, len(order))
	for i, k := range order {
		weekIndexOf[k] = i
	}
	lastSeenWeek := -1

	for i, day := range req.Days {
		key := dayToWeek[i]
		weekIdx := weekIndexOf[key]
		if weekIdx != lastSeenWeek {
			tWeekStates[key] = newWeekStates(req.Limits.DriversTBase, previousTMinutes)
			lWeekStates[key] = newWeekStates(req.Limits.DriversLBase, previousLMinutes)
			lastSeenWeek = weekIdx
		}

		hasPreviousWeek := weekIdx > 0
		dp := scheduleDay(day, req.Grid, req.Limits, req.Fleet, current, tWeekStates[key], lWeekStates[key], hasPreviousWeek, rng)

		for idx, ds := range dp.tDrivers {
			tWeekStates[key][idx].CommitDay(ds.DriveMinutes(), ds.Extended(req.Limits))
		}
		for idx, ds := range dp.lDrivers {
			lWeekStates[key][idx].CommitDay(ds.DriveMinutes(), ds.Extended(req.Limits))
		}

		plan.days[i] = dp
		plan.objectiveDeliveries += dp.deliveries
		current = dp.endState

		if isLastDayOfWeek(i, req.Days, dayToWeek, key) {
			for idx, ws := range tWeekStates[key] {
				previousTMinutes[idx] = ws.TotalDriveMinutes()
			}
			for idx, ws := range lWeekStates[key] {
				previousLMinutes[idx] = ws.TotalDriveMinutes()
			}
		}
	}

	return plan, nil
}

func newWeekStates(count int, previousMinutes []int) []*DriverWeekState {
	states := make([]*DriverWeekState, count)
	for i := range states {
		prev := 0
		if i < len(previousMinutes) {
			prev = previousMinutes[i]
		}
		states[i] = NewDriverWeekState(prev)
	}
	return states
}

func isLastDayOfWeek(i int, days []domain.Day, dayToWeek map[int]domain.WeekKey, key domain.WeekKey) bool {
	if i == len(days)-1 {
		return true
	}
	return dayToWeek[i+1] != key
}

// sortWeekKeysAscending sorts week keys by (year, week), per C8's "sort week
// keys ascending" instruction.
func sortWeekKeysAscending(keys []domain.WeekKey) {
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0; j-- {
			a, b := keys[j-1], keys[j]
			if a.Year < b.Year || (a.Year == b.Year && a.Week <= b.Week) {
				break
			}
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
}

// Search runs a time-boxed, multi-restart randomized-greedy construction:
// each worker builds an independent horizon with its own random seed, and
// the best (highest-objective) result wins. This is the practical Go
// analogue of CP-SAT's num_search_workers parallel portfolio — the workers
// are independent restarts of the same constructive heuristic rather than
// independent proof strategies, since no branch-and-bound engine is
// available. The wall-clock budget is checked only before a worker starts
// its construction; a construction already running is not interrupted, so
// the call returns once every started worker has finished.
func Search(ctx context.Context, req domain.Request) (horizonPlan, bool) {
	budget := time.Duration(req.Solver.TimeLimitSeconds * float64(time.Second))
	deadline := time.Now().Add(budget)
	searchCtx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	workers := req.Solver.NumSearchWorkers
	if workers < 1 {
		workers = 1
	}

	results := make([]horizonPlan, workers)
	ok := make([]bool, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			seed := int64(worker)*1_000_003 + 17
			rng := rand.New(rand.NewSource(seed))
			select {
			case <-searchCtx.Done():
				return
			default:
			}
			plan, err := buildHorizon(req, rng)
			if err != nil {
				return
			}
			results[worker] = plan
			ok[worker] = true
		}(w)
	}
	wg.Wait()

	bestIdx := -1
	for i, found := range ok {
		if !found {
			continue
		}
		if bestIdx == -1 || results[i].objectiveDeliveries > results[bestIdx].objectiveDeliveries {
			bestIdx = i
		}
	}
	if bestIdx == -1 {
		return horizonPlan{}, false
	}
	return results[bestIdx], true
}
