package csp

import (
	"context"
	"sort"

	"github.com/alessandroavenali/fuel-logistics/internal/logistics/domain"
)

// Solve validates req and, if structurally sound, runs the time-boxed
// multi-restart search (spec.md §4.6), mapping the winning horizon plan to
// the reported solution document (spec.md §4.7). A validation failure
// surfaces as a wrapped ErrInvalidRequest; a search that never produces a
// single successful restart is reported as UNKNOWN per §7 kind 3, not as a
// Go error — only a build-time model defect is ever promoted to one.
func Solve(ctx context.Context, req domain.Request) (domain.Solution, error) {
	if err := req.Validate(); err != nil {
		return domain.Solution{}, err
	}

	plan, ok := Search(ctx, req)
	if !ok {
		return domain.Solution{Status: domain.StatusUnknown}, nil
	}

	if domain.Enabled(req.Solver.MinDeliveries) && plan.objectiveDeliveries < req.Solver.MinDeliveries {
		return domain.Solution{Status: domain.StatusInfeasible}, nil
	}

	days := make([]domain.DayResult, len(req.Days))
	for i, day := range req.Days {
		days[i] = reportDay(day, req.Grid, plan.days[i])
	}

	// This engine is a randomized-greedy constructive search, not a
	// branch-and-bound solver, so it never holds a general proof of
	// optimality. It can still report OPTIMAL honestly in the cases where
	// one is cheap to derive: upperBoundDeliveries computes a sound bound
	// by relaxing the couplings the real search must respect, and an
	// achieved count that meets that bound cannot be beaten by any
	// schedule, relaxed or not.
	status := domain.StatusFeasible
	if plan.objectiveDeliveries >= upperBoundDeliveries(req) {
		status = domain.StatusOptimal
	}

	return domain.Solution{
		Status:              status,
		ObjectiveDeliveries: plan.objectiveDeliveries,
		ObjectiveLiters:     plan.objectiveDeliveries * req.Limits.LitersPerUnit,
		Days:                days,
	}, nil
}

// reportDay builds one day's reported result from its committed plan,
// ordering each driver's starts by slot then by kind per spec.md §4.7.
func reportDay(day domain.Day, grid domain.TimeGrid, dp dayPlan) domain.DayResult {
	result := domain.DayResult{
		Date:     day.Date,
		DT:       day.DT,
		DL:       day.DL,
		DriversT: make([]domain.DriverSchedule, len(dp.tDrivers)),
		DriversL: make([]domain.DriverSchedule, len(dp.lDrivers)),
	}

	for i, ds := range dp.tDrivers {
		result.DriversT[i] = domain.DriverSchedule{Starts: orderedStarts(ds.Starts())}
		for _, s := range ds.Starts() {
			tallyKind(&result, s.Task)
		}
	}
	for j, ds := range dp.lDrivers {
		result.DriversL[j] = domain.DriverSchedule{Starts: orderedStarts(ds.Starts())}
		for _, s := range ds.Starts() {
			tallyKind(&result, s.Task)
		}
	}

	slots := grid.SlotsPerDay()
	for t := 0; t < slots; t++ {
		result.CountR += dp.sim.StartsAt(domain.KindRefill, t)
	}

	start, end := dp.startState, dp.endState
	result.FTStart, result.ETStart, result.TfStart, result.TeStart = start.FT, start.ET, start.Tf, start.Te
	result.FTEnd, result.ETEnd, result.TfEnd, result.TeEnd = end.FT, end.ET, end.Tf, end.Te

	return result
}

func tallyKind(result *domain.DayResult, kind domain.Kind) {
	switch kind {
	case domain.KindSupply:
		result.CountS++
	case domain.KindShuttle:
		result.CountU++
	case domain.KindResident:
		result.CountV++
	case domain.KindADR:
		result.CountA++
	}
}

func orderedStarts(starts []domain.TaskStart) []domain.TaskStart {
	out := make([]domain.TaskStart, len(starts))
	copy(out, starts)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Slot != out[j].Slot {
			return out[i].Slot < out[j].Slot
		}
		return out[i].Task < out[j].Task
	})
	return out
}

