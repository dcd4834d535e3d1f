package csp

import "github.com/alessandroavenali/fuel-logistics/internal/logistics/domain"

// DriverWeekState accumulates one driver's committed driving minutes,
// extended-day count, and (for L-drivers) ADR starts across the days of a
// single ISO week (C7), plus the previous week's total for the adjacent-pair
// biweekly check (C8) — checking each new week against its predecessor
// covers every adjacent pair as the horizon is built forward.
type DriverWeekState struct {
	driveMinutes      int
	extendedDays      int
	adrStarts         int
	previousWeekMinutes int
}

// NewDriverWeekState starts a week's tracker, carrying over the prior week's
// total driving minutes for the C8 adjacent-pair check (0 if this is the
// first week in the horizon).
func NewDriverWeekState(previousWeekMinutes int) *DriverWeekState {
	return &DriverWeekState{previousWeekMinutes: previousWeekMinutes}
}

// CanAddDay reports whether adding a day with the given driving minutes and
// extended flag would keep the driver's week within C7 and, together with
// the previous week, within C8.
func (w *DriverWeekState) CanAddDay(driveMinutes int, extended bool, hasPreviousWeek bool, limits domain.Limits) bool {
	if domain.Enabled(limits.WeeklyDriveLimitMinutes) && w.driveMinutes+driveMinutes > limits.WeeklyDriveLimitMinutes {
		return false
	}
	if extended && domain.Enabled(limits.MaxExtendedDaysPerWeek) && w.extendedDays+1 > limits.MaxExtendedDaysPerWeek {
		return false
	}
	if hasPreviousWeek && domain.Enabled(limits.BiweeklyDriveLimitMinutes) {
		if w.previousWeekMinutes+w.driveMinutes+driveMinutes > limits.BiweeklyDriveLimitMinutes {
			return false
		}
	}
	return true
}

// CanAddTask reports whether adding one more task with taskMinutes of
// driving, given the driver has already committed dayMinutesBefore today,
// would keep the week within the weekly cap (C7), the adjacent biweekly
// cap (C8), and — only when this task newly crosses the extended-day
// threshold — the max-extended-days-per-week cap. It is checked once per
// task so a greedy construction never commits a start it would later have
// to undo for a weekly violation.
func (w *DriverWeekState) CanAddTask(dayMinutesBefore, taskMinutes int, hasPreviousWeek bool, limits domain.Limits) bool {
	if domain.Enabled(limits.WeeklyDriveLimitMinutes) && w.driveMinutes+dayMinutesBefore+taskMinutes > limits.WeeklyDriveLimitMinutes {
		return false
	}
	if hasPreviousWeek && domain.Enabled(limits.BiweeklyDriveLimitMinutes) {
		if w.previousWeekMinutes+w.driveMinutes+dayMinutesBefore+taskMinutes > limits.BiweeklyDriveLimitMinutes {
			return false
		}
	}
	crossesExtended := dayMinutesBefore <= limits.DriveMinutesDaily && dayMinutesBefore+taskMinutes > limits.DriveMinutesDaily
	if crossesExtended && domain.Enabled(limits.MaxExtendedDaysPerWeek) && w.extendedDays+1 > limits.MaxExtendedDaysPerWeek {
		return false
	}
	return true
}

// CommitDay records one day's driving minutes and extended flag.
func (w *DriverWeekState) CommitDay(driveMinutes int, extended bool) {
	w.driveMinutes += driveMinutes
	if extended {
		w.extendedDays++
	}
}

// CanAddADR reports whether one more ADR start this week stays within
// adr_weekly_cap.
func (w *DriverWeekState) CanAddADR(limits domain.Limits) bool {
	return !domain.Enabled(limits.ADRWeeklyCap) || w.adrStarts+1 <= limits.ADRWeeklyCap
}

// CommitADR records one ADR start this week.
func (w *DriverWeekState) CommitADR() {
	w.adrStarts++
}

// TotalDriveMinutes returns this week's accumulated driving minutes so far.
func (w *DriverWeekState) TotalDriveMinutes() int { return w.driveMinutes }
