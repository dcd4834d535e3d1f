package domain

import "fmt"

// Validate checks a Request against the structural rules of spec.md §7
// kind 1 (invalid request): missing/empty day list, an unparseable date,
// negative driver counts or counts above drivers_T_base/drivers_L_base,
// negative initial inventory or inventory above the fleet totals, an
// internally inconsistent grid, and a non-positive solver time limit or
// worker count. The limits block itself is not checked. It never touches
// the search engine — only static shape.
func (r Request) Validate() error {
	if len(r.Days) == 0 {
		return fmt.Errorf("%w: at least one day is required", ErrInvalidRequest)
	}
	for i, day := range r.Days {
		if _, _, err := day.ISOWeek(); err != nil {
			return fmt.Errorf("day %d: %w", i, err)
		}
		if day.DT < 0 || day.DL < 0 {
			return fmt.Errorf("%w: day %d has negative driver count", ErrInvalidRequest, i)
		}
		if day.DT > r.Limits.DriversTBase || day.DL > r.Limits.DriversLBase {
			return fmt.Errorf("%w: day %d driver count exceeds drivers_T_base/drivers_L_base", ErrInvalidRequest, i)
		}
	}
	if !r.InitialState.NonNegative() {
		return fmt.Errorf("%w: initial fleet state must be non-negative", ErrInvalidRequest)
	}
	if !r.InitialState.WithinTotals(r.Fleet.TotalTrailers, r.Fleet.TotalTractors) {
		return fmt.Errorf("%w: initial fleet state exceeds configured totals", ErrInvalidRequest)
	}
	if err := r.Grid.Validate(); err != nil {
		return err
	}
	if r.Solver.TimeLimitSeconds <= 0 {
		return fmt.Errorf("%w: solver time_limit_seconds must be positive", ErrInvalidRequest)
	}
	if r.Solver.NumSearchWorkers <= 0 {
		return fmt.Errorf("%w: solver num_search_workers must be positive", ErrInvalidRequest)
	}
	return nil
}
