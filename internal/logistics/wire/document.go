// Package wire translates between the external JSON request/output
// documents named in spec.md §6 and the internal domain.Request/
// domain.Solution types. The domain package itself carries no json tags,
// since its Go field names (FT, DT, ...) are already the wire vocabulary
// for the persisted jsonb document; this package owns the external
// snake_case contract the CLI and any future HTTP adapter must honor.
package wire

import "github.com/alessandroavenali/fuel-logistics/internal/logistics/domain"

// DayDocument is one entry of the input document's "days" array.
type DayDocument struct {
	Date string `json:"date"`
	DT   int    `json:"D_T"`
	DL   int    `json:"D_L"`
}

// FleetStateDocument is the input document's "initial_state" object.
type FleetStateDocument struct {
	FT int `json:"FT"`
	ET int `json:"ET"`
	Tf int `json:"Tf"`
	Te int `json:"Te"`
}

// RequestDocument is the external input document described in spec.md §6.
// Every field besides Days and InitialState is optional; a zero value means
// "use the documented default", applied in ToRequest.
type RequestDocument struct {
	Days         []DayDocument      `json:"days"`
	InitialState FleetStateDocument `json:"initial_state"`

	SlotMinutes              int `json:"slot_minutes,omitempty"`
	ShiftMinutes             int `json:"shift_minutes,omitempty"`
	LivignoEntryStartMinutes int `json:"livigno_entry_start_minutes,omitempty"`
	LivignoEntryEndMinutes   int `json:"livigno_entry_end_minutes,omitempty"`
	BreakWindowMinutes       int `json:"break_window_minutes,omitempty"`
	BreakDriveCapMinutes     int `json:"break_drive_cap_minutes,omitempty"`

	// These six carry an "active only when >= 0" default (spec.md §4.4 C4):
	// an explicit 0 is a legitimate cap, distinct from leaving the field
	// out entirely, so they need presence tracking rather than a zero-value
	// check. *int makes "absent" (nil) and "explicitly 0" distinguishable;
	// omitempty on a pointer only treats nil as empty, so a pointed-to zero
	// still round-trips on marshal.
	MaxResidentTrips          *int `json:"max_resident_trips,omitempty"`
	MaxADRTrips               *int `json:"max_adr_trips,omitempty"`
	ADRWeeklyCap              *int `json:"adr_weekly_cap,omitempty"`
	MaxExtendedDaysPerWeek    *int `json:"max_extended_days_per_week,omitempty"`
	WeeklyDriveLimitMinutes   *int `json:"weekly_drive_limit_minutes,omitempty"`
	BiweeklyDriveLimitMinutes *int `json:"biweekly_drive_limit_minutes,omitempty"`

	DriveMinutesDaily    int `json:"drive_minutes_daily,omitempty"`
	DriveMinutesExtended int `json:"drive_minutes_extended,omitempty"`

	DriversTBase  int `json:"drivers_T_base,omitempty"`
	DriversLBase  int `json:"drivers_L_base,omitempty"`
	TotalTrailers int `json:"total_trailers,omitempty"`
	TotalTractors int `json:"total_tractors,omitempty"`
	LitersPerUnit int `json:"liters_per_unit,omitempty"`

	TimeLimitSeconds float64 `json:"time_limit_seconds,omitempty"`
	NumSearchWorkers int     `json:"num_search_workers,omitempty"`
}

// TaskStartDocument is one scheduled start in the output document.
type TaskStartDocument struct {
	Task string `json:"task"`
	Slot int    `json:"slot"`
}

// DriverScheduleDocument is one driver's starts list in the output document.
type DriverScheduleDocument struct {
	Starts []TaskStartDocument `json:"starts"`
}

// DayResultDocument is one day's entry in the output document's "days" array.
type DayResultDocument struct {
	Date string `json:"date"`
	DT   int    `json:"D_T"`
	DL   int    `json:"D_L"`

	S int `json:"S"`
	U int `json:"U"`
	V int `json:"V"`
	A int `json:"A"`
	R int `json:"R"`

	DriversT []DriverScheduleDocument `json:"drivers_T"`
	DriversL []DriverScheduleDocument `json:"drivers_L"`

	FTStart int `json:"FT_start"`
	ETStart int `json:"ET_start"`
	TfStart int `json:"Tf_start"`
	TeStart int `json:"Te_start"`
	FTEnd   int `json:"FT_end"`
	ETEnd   int `json:"ET_end"`
	TfEnd   int `json:"Tf_end"`
	TeEnd   int `json:"Te_end"`
}

// SolutionDocument is the external output document described in spec.md §6.
type SolutionDocument struct {
	Status              string              `json:"status"`
	ObjectiveDeliveries int                 `json:"objective_deliveries"`
	ObjectiveLiters     int                 `json:"objective_liters"`
	Days                []DayResultDocument `json:"days"`
}

// ToRequest converts the external input document to a domain.Request,
// applying every default named in spec.md §6 for a field left at its zero
// value.
func (d RequestDocument) ToRequest() domain.Request {
	days := make([]domain.Day, len(d.Days))
	for i, day := range d.Days {
		days[i] = domain.Day{Date: day.Date, DT: day.DT, DL: day.DL}
	}

	initial := domain.FleetState{
		FT: d.InitialState.FT,
		ET: d.InitialState.ET,
		Tf: d.InitialState.Tf,
		Te: d.InitialState.Te,
	}

	req := domain.NewRequest(days, initial)

	if d.SlotMinutes > 0 {
		req.Grid.SlotMinutes = d.SlotMinutes
	}
	if d.ShiftMinutes > 0 {
		req.Grid.ShiftMinutes = d.ShiftMinutes
	}
	if d.LivignoEntryStartMinutes > 0 {
		req.Grid.LivignoEntryStartMinutes = d.LivignoEntryStartMinutes
	}
	if d.LivignoEntryEndMinutes > 0 {
		req.Grid.LivignoEntryEndMinutes = d.LivignoEntryEndMinutes
	}
	if d.BreakWindowMinutes > 0 {
		req.Grid.BreakWindowMinutes = d.BreakWindowMinutes
	}
	if d.BreakDriveCapMinutes > 0 {
		req.Grid.BreakDriveCapMinutes = d.BreakDriveCapMinutes
	}

	if d.MaxResidentTrips != nil {
		req.Limits.MaxResidentTrips = *d.MaxResidentTrips
	}
	if d.MaxADRTrips != nil {
		req.Limits.MaxADRTrips = *d.MaxADRTrips
	}
	if d.ADRWeeklyCap != nil {
		req.Limits.ADRWeeklyCap = *d.ADRWeeklyCap
	}
	if d.DriveMinutesDaily > 0 {
		req.Limits.DriveMinutesDaily = d.DriveMinutesDaily
	}
	if d.DriveMinutesExtended > 0 {
		req.Limits.DriveMinutesExtended = d.DriveMinutesExtended
	}
	if d.MaxExtendedDaysPerWeek != nil {
		req.Limits.MaxExtendedDaysPerWeek = *d.MaxExtendedDaysPerWeek
	}
	if d.WeeklyDriveLimitMinutes != nil {
		req.Limits.WeeklyDriveLimitMinutes = *d.WeeklyDriveLimitMinutes
	}
	if d.BiweeklyDriveLimitMinutes != nil {
		req.Limits.BiweeklyDriveLimitMinutes = *d.BiweeklyDriveLimitMinutes
	}
	if d.DriversTBase > 0 {
		req.Limits.DriversTBase = d.DriversTBase
	}
	if d.DriversLBase > 0 {
		req.Limits.DriversLBase = d.DriversLBase
	}
	if d.LitersPerUnit > 0 {
		req.Limits.LitersPerUnit = d.LitersPerUnit
	}

	if d.TotalTrailers > 0 {
		req.Fleet.TotalTrailers = d.TotalTrailers
	}
	if d.TotalTractors > 0 {
		req.Fleet.TotalTractors = d.TotalTractors
	}

	if d.TimeLimitSeconds > 0 {
		req.Solver.TimeLimitSeconds = d.TimeLimitSeconds
	}
	if d.NumSearchWorkers > 0 {
		req.Solver.NumSearchWorkers = d.NumSearchWorkers
	}

	return req
}

// FromSolution converts a domain.Solution to the external output document.
func FromSolution(solution domain.Solution) SolutionDocument {
	days := make([]DayResultDocument, len(solution.Days))
	for i, day := range solution.Days {
		days[i] = DayResultDocument{
			Date:     day.Date,
			DT:       day.DT,
			DL:       day.DL,
			S:        day.CountS,
			U:        day.CountU,
			V:        day.CountV,
			A:        day.CountA,
			R:        day.CountR,
			DriversT: driverSchedulesToDocument(day.DriversT),
			DriversL: driverSchedulesToDocument(day.DriversL),
			FTStart:  day.FTStart,
			ETStart:  day.ETStart,
			TfStart:  day.TfStart,
			TeStart:  day.TeStart,
			FTEnd:    day.FTEnd,
			ETEnd:    day.ETEnd,
			TfEnd:    day.TfEnd,
			TeEnd:    day.TeEnd,
		}
	}

	return SolutionDocument{
		Status:              string(solution.Status),
		ObjectiveDeliveries: solution.ObjectiveDeliveries,
		ObjectiveLiters:     solution.ObjectiveLiters,
		Days:                days,
	}
}

func driverSchedulesToDocument(schedules []domain.DriverSchedule) []DriverScheduleDocument {
	out := make([]DriverScheduleDocument, len(schedules))
	for i, schedule := range schedules {
		starts := make([]TaskStartDocument, len(schedule.Starts))
		for j, start := range schedule.Starts {
			starts[j] = TaskStartDocument{Task: string(start.Task), Slot: start.Slot}
		}
		out[i] = DriverScheduleDocument{Starts: starts}
	}
	return out
}
