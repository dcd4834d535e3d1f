package domain

// Kind identifies one of the five fixed task templates.
type Kind string

const (
	KindSupply   Kind = "S"
	KindShuttle  Kind = "U"
	KindResident Kind = "V"
	KindADR      Kind = "A"
	KindRefill   Kind = "R"
)

// Depot is the depot a task's driver is drawn from. Refill has no driver.
type Depot string

const (
	DepotT Depot = "T"
	DepotL Depot = "L"
)

// MinuteRange is a half-open [StartMin, EndMin) interval, minutes from task
// start, during which the task's driver is actively driving.
type MinuteRange struct {
	StartMin int
	EndMin   int
}

// Effect is one inventory adjustment a task applies at OffsetMinutes minutes
// after its start.
type Effect struct {
	OffsetMinutes int
	DeltaFT       int
	DeltaET       int
	DeltaTf       int
	DeltaTe       int
}

// Task is the read-only template for one task kind: its duration, driving
// profile, entry-window anchor, and inventory effects. Every duration and
// offset here is in minutes; TimeGrid converts to slots for a given
// slot_minutes, per §4.1's contract that duration in minutes is authoritative.
type Task struct {
	Kind               Kind
	Depot              Depot
	DurationMinutes    int
	DrivingMinutes     int
	DrivingWindows     []MinuteRange
	EntryAnchorMinutes int // -1 when the kind has no Livigno-entry anchor
	Effects            []Effect
}

// DurationSlots is the task's duration under the given grid.
func (t Task) DurationSlots(grid TimeGrid) int {
	return t.DurationMinutes / grid.SlotMinutes
}

// HasEntryAnchor reports whether starts of this kind are gated by the
// Livigno entry window.
func (t Task) HasEntryAnchor() bool {
	return t.EntryAnchorMinutes >= 0
}

// EntryAnchorSlots is the slot offset, from task start, at which the entry
// anchor must fall inside the configured window.
func (t Task) EntryAnchorSlots(grid TimeGrid) int {
	return t.EntryAnchorMinutes / grid.SlotMinutes
}

// DrivingOffsetSlots returns the set of slot offsets (from task start, under
// the given grid) at which the driver is actively driving. It is derived
// from DrivingWindows rather than hard-coded, so that changing slot_minutes
// rescales it proportionally instead of requiring a second table.
func (t Task) DrivingOffsetSlots(grid TimeGrid) map[int]struct{} {
	set := make(map[int]struct{})
	for _, w := range t.DrivingWindows {
		for m := w.StartMin; m < w.EndMin; m += grid.SlotMinutes {
			set[m/grid.SlotMinutes] = struct{}{}
		}
	}
	return set
}

// effectOffsetsSlots returns the slot offset of each entry of Effects under
// the given grid, in the same order as Effects.
func (t Task) effectOffsetsSlots(grid TimeGrid) []int {
	offsets := make([]int, len(t.Effects))
	for i, e := range t.Effects {
		offsets[i] = e.OffsetMinutes / grid.SlotMinutes
	}
	return offsets
}

// Catalog returns the fixed, read-only task catalog described in spec.md §3.
// Values are the literal minute/coefficient table; they are not derived at
// runtime and must never be mutated by callers.
func Catalog() map[Kind]Task {
	return map[Kind]Task{
		KindSupply: {
			Kind:               KindSupply,
			Depot:              DepotT,
			DurationMinutes:    345,
			DrivingMinutes:     300,
			DrivingWindows:     []MinuteRange{{0, 150}, {195, 345}},
			EntryAnchorMinutes: -1,
			Effects: []Effect{
				{OffsetMinutes: 0, DeltaET: -1, DeltaTe: -1},
				{OffsetMinutes: 345, DeltaFT: 1, DeltaTf: 1},
			},
		},
		KindShuttle: {
			Kind:               KindShuttle,
			Depot:              DepotT,
			DurationMinutes:    240,
			DrivingMinutes:     210,
			DrivingWindows:     []MinuteRange{{0, 120}, {150, 240}},
			EntryAnchorMinutes: 120,
			Effects: []Effect{
				{OffsetMinutes: 0, DeltaTf: -1},
				{OffsetMinutes: 240, DeltaTe: 1},
			},
		},
		KindResident: {
			Kind:               KindResident,
			Depot:              DepotL,
			DurationMinutes:    270,
			DrivingMinutes:     210,
			DrivingWindows:     []MinuteRange{{0, 90}, {120, 240}},
			EntryAnchorMinutes: 240,
			Effects: []Effect{
				{OffsetMinutes: 90, DeltaFT: -1},
				{OffsetMinutes: 120, DeltaET: 1},
			},
		},
		KindADR: {
			Kind:               KindADR,
			Depot:              DepotL,
			DurationMinutes:    585,
			DrivingMinutes:     510,
			DrivingWindows:     []MinuteRange{{0, 240}, {285, 555}},
			EntryAnchorMinutes: 555,
			Effects: []Effect{
				{OffsetMinutes: 90, DeltaET: -1},
				{OffsetMinutes: 435, DeltaFT: 1},
			},
		},
		KindRefill: {
			Kind:               KindRefill,
			Depot:              DepotT,
			DurationMinutes:    30,
			DrivingMinutes:     0,
			DrivingWindows:     nil,
			EntryAnchorMinutes: -1,
			Effects: []Effect{
				{OffsetMinutes: 0, DeltaFT: -1, DeltaTe: -1},
				{OffsetMinutes: 30, DeltaET: 1, DeltaTf: 1},
			},
		},
	}
}
