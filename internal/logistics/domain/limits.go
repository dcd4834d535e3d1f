package domain

// Limits holds every cap named in §4.4 and §6. A negative value disables the
// corresponding constraint, per the "Any constraint whose parameter is < 0
// is treated as disabled" rule in §4.4.
type Limits struct {
	MaxResidentTrips         int
	MaxADRTrips              int
	ADRWeeklyCap             int
	DriveMinutesDaily        int
	DriveMinutesExtended     int
	MaxExtendedDaysPerWeek   int
	WeeklyDriveLimitMinutes  int
	BiweeklyDriveLimitMinutes int

	DriversTBase  int
	DriversLBase  int
	LitersPerUnit int
}

// DefaultLimits returns the caps named as defaults in spec.md §6.
func DefaultLimits() Limits {
	return Limits{
		MaxResidentTrips:          2,
		MaxADRTrips:               1,
		ADRWeeklyCap:              2,
		DriveMinutesDaily:         540,
		DriveMinutesExtended:      600,
		MaxExtendedDaysPerWeek:    2,
		WeeklyDriveLimitMinutes:   3360,
		BiweeklyDriveLimitMinutes: 5400,
		DriversTBase:              4,
		DriversLBase:              1,
		LitersPerUnit:             17500,
	}
}

// Enabled reports whether a capacity value represents an active constraint.
func Enabled(limit int) bool {
	return limit >= 0
}

// SolverConfig governs the search budget and, for tests only, a minimum
// delivery floor used to exercise the INFEASIBLE path (spec.md §8, scenario 6).
type SolverConfig struct {
	TimeLimitSeconds float64
	NumSearchWorkers int

	// MinDeliveries is a test-only hook (never part of the public input
	// document): when ≥ 0, a solution achieving fewer deliveries than this
	// is reported as INFEASIBLE rather than FEASIBLE/OPTIMAL.
	MinDeliveries int
}

// DefaultSolverConfig returns the solver defaults named in spec.md §4.6.
func DefaultSolverConfig() SolverConfig {
	return SolverConfig{
		TimeLimitSeconds: 10,
		NumSearchWorkers: 8,
		MinDeliveries:    -1,
	}
}
