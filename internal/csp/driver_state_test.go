package csp

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alessandroavenali/fuel-logistics/internal/logistics/domain"
)

func TestDriverDayState_NoOverlap(t *testing.T) {
	grid := domain.DefaultTimeGrid()
	limits := domain.DefaultLimits()
	shuttle := domain.Catalog()[domain.KindShuttle] // 16 slots

	d := NewDriverDayState(grid)
	assert.True(t, d.CanStart(shuttle, limits, 0))
	d.Commit(shuttle, 0)

	assert.False(t, d.CanStart(shuttle, limits, 10), "still busy until slot 16")
	assert.True(t, d.CanStart(shuttle, limits, 16))
}

func TestDriverDayState_TripCaps(t *testing.T) {
	grid := domain.DefaultTimeGrid()
	limits := domain.DefaultLimits()
	limits.MaxResidentTrips = 1
	resident := domain.Catalog()[domain.KindResident] // 18 slots

	d := NewDriverDayState(grid)
	assert.True(t, d.CanStart(resident, limits, 0))
	d.Commit(resident, 0)

	assert.False(t, d.CanStart(resident, limits, 20), "MaxResidentTrips already reached")
}

func TestDriverDayState_DrivingMinutesCeiling(t *testing.T) {
	grid := domain.DefaultTimeGrid()
	limits := domain.DefaultLimits()
	limits.DriveMinutesExtended = 100
	adr := domain.Catalog()[domain.KindADR]

	d := NewDriverDayState(grid)
	d.driveMin = 100 - adr.DrivingMinutes + 1 // one minute over the ceiling once added
	assert.False(t, d.CanStart(adr, limits, 0))
}

func TestDriverDayState_BreakWindow(t *testing.T) {
	grid := domain.DefaultTimeGrid()
	grid.BreakDriveCapMinutes = 0 // any driving at all within the window is forbidden
	limits := domain.DefaultLimits()
	adr := domain.Catalog()[domain.KindADR]

	d := NewDriverDayState(grid)
	assert.False(t, d.CanStart(adr, limits, 0), "ADR's driving offsets fall inside the break window")
}

func TestDriverDayState_Extended(t *testing.T) {
	grid := domain.DefaultTimeGrid()
	limits := domain.DefaultLimits()
	d := NewDriverDayState(grid)
	d.driveMin = limits.DriveMinutesDaily
	assert.False(t, d.Extended(limits))
	d.driveMin = limits.DriveMinutesDaily + 1
	assert.True(t, d.Extended(limits))
}
