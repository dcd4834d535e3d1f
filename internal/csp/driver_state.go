package csp

import "github.com/alessandroavenali/fuel-logistics/internal/logistics/domain"

// DriverDayState tracks one driver's committed starts within a single day:
// enough to check C1 (no overlap), C2 (daily driving minutes), C3 (rolling
// break window), and C4 (trip caps) before a new start is committed.
type DriverDayState struct {
	grid domain.TimeGrid

	busyUntil int // slot at which the driver becomes free again; -1 if idle since start of day
	driveFlag []bool // per-slot actively-driving indicator, length slotsPerDay
	driveMin  int    // total driving minutes committed so far today

	countV int
	countA int

	starts []domain.TaskStart
}

// NewDriverDayState creates an empty tracker for one driver-day.
func NewDriverDayState(grid domain.TimeGrid) *DriverDayState {
	return &DriverDayState{
		grid:      grid,
		busyUntil: -1,
		driveFlag: make([]bool, grid.SlotsPerDay()),
	}
}

// CanStart reports whether starting task at slot t for this driver would
// hold C1-C4 (checked against commitments made so far this day; weekly caps
// are checked separately by the scheduler, which owns cross-day state).
func (d *DriverDayState) CanStart(task domain.Task, limits domain.Limits, t int) bool {
	if t < d.busyUntil {
		return false // C1: overlaps the driver's current task
	}
	if domain.Enabled(limits.MaxResidentTrips) && task.Kind == domain.KindResident && d.countV >= limits.MaxResidentTrips {
		return false // C4
	}
	if domain.Enabled(limits.MaxADRTrips) && task.Kind == domain.KindADR && d.countA >= limits.MaxADRTrips {
		return false // C4
	}
	if d.driveMin+task.DrivingMinutes > limits.DriveMinutesExtended {
		return false // C2 hard ceiling (extended cap is the absolute max)
	}
	if !d.withinBreakWindow(task, t, limits) {
		return false // C3
	}
	return true
}

// withinBreakWindow reports whether adding task's driving offsets at start t
// keeps every break_window_slots-wide sliding window within the drive cap.
func (d *DriverDayState) withinBreakWindow(task domain.Task, t int, limits domain.Limits) bool {
	offsets := task.DrivingOffsetSlots(d.grid)
	if len(offsets) == 0 {
		return true
	}
	window := d.grid.BreakWindowSlots()
	driveCap := d.grid.BreakDriveCapSlots()
	slots := d.grid.SlotsPerDay()
	if window <= 0 || window > slots {
		return true
	}

	tentative := make([]bool, slots)
	copy(tentative, d.driveFlag)
	for off := range offsets {
		idx := t + off
		if idx >= 0 && idx < slots {
			tentative[idx] = true
		}
	}

	for start := 0; start+window <= slots; start++ {
		count := 0
		for i := start; i < start+window; i++ {
			if tentative[i] {
				count++
			}
		}
		if count > driveCap {
			return false
		}
	}
	return true
}

// Commit records a start of task at slot t, updating all tracked state.
func (d *DriverDayState) Commit(task domain.Task, t int) {
	duration := task.DurationSlots(d.grid)
	d.busyUntil = t + duration
	d.driveMin += task.DrivingMinutes
	for off := range task.DrivingOffsetSlots(d.grid) {
		idx := t + off
		if idx >= 0 && idx < len(d.driveFlag) {
			d.driveFlag[idx] = true
		}
	}
	switch task.Kind {
	case domain.KindResident:
		d.countV++
	case domain.KindADR:
		d.countA++
	}
	d.starts = append(d.starts, domain.TaskStart{Task: task.Kind, Slot: t})
}

// Starts returns the driver's committed starts, in the order they were
// decided (ascending slot, since the scheduler processes slots in order).
func (d *DriverDayState) Starts() []domain.TaskStart {
	return d.starts
}

// DriveMinutes returns the driver's total driving minutes committed today.
func (d *DriverDayState) DriveMinutes() int { return d.driveMin }

// Extended reports whether today counts as an extended day under the
// strict-inequality rule of spec.md §9.
func (d *DriverDayState) Extended(limits domain.Limits) bool {
	return d.driveMin > limits.DriveMinutesDaily
}
