package domain

// Request is one planning request: the day sequence, initial fleet state,
// and the time/limit/solver parameters that govern model construction.
type Request struct {
	Days         []Day
	InitialState FleetState
	Grid         TimeGrid
	Fleet        Fleet
	Limits       Limits
	Solver       SolverConfig
}

// NewRequest applies every documented default (spec.md §6) and lets the
// caller override individual fields afterward.
func NewRequest(days []Day, initial FleetState) Request {
	return Request{
		Days:         days,
		InitialState: initial,
		Grid:         DefaultTimeGrid(),
		Fleet: Fleet{
			TotalTrailers: initial.FT + initial.ET,
			TotalTractors: initial.Tf + initial.Te,
		},
		Limits: DefaultLimits(),
		Solver: DefaultSolverConfig(),
	}
}
