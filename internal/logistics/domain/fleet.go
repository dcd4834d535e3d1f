package domain

// FleetState is the four-compartment inventory at one slot boundary:
// full/empty trailers and free/engaged tractors on-site at depot T.
type FleetState struct {
	FT int
	ET int
	Tf int
	Te int
}

// NonNegative reports whether every component is ≥ 0 (P1).
func (f FleetState) NonNegative() bool {
	return f.FT >= 0 && f.ET >= 0 && f.Tf >= 0 && f.Te >= 0
}

// WithinTotals reports whether trailer/tractor totals respect the fleet
// caps (P2); the slack absorbs assets currently in transit or at depot L.
func (f FleetState) WithinTotals(totalTrailers, totalTractors int) bool {
	return f.FT+f.ET <= totalTrailers && f.Tf+f.Te <= totalTractors
}

// Fleet carries the totals that bound on-site inventory at every boundary.
type Fleet struct {
	TotalTrailers int
	TotalTractors int
}
