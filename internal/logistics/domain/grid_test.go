package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeGrid_Validate(t *testing.T) {
	t.Run("default grid is valid", func(t *testing.T) {
		require.NoError(t, DefaultTimeGrid().Validate())
	})

	t.Run("rejects slot_minutes not dividing shift_minutes", func(t *testing.T) {
		grid := DefaultTimeGrid()
		grid.ShiftMinutes = 721
		assert.ErrorIs(t, grid.Validate(), ErrInvalidRequest)
	})

	t.Run("rejects non-positive slot_minutes", func(t *testing.T) {
		grid := DefaultTimeGrid()
		grid.SlotMinutes = 0
		assert.ErrorIs(t, grid.Validate(), ErrInvalidRequest)
	})

	t.Run("rejects a slot_minutes that does not divide a task duration", func(t *testing.T) {
		grid := DefaultTimeGrid()
		grid.SlotMinutes = 7
		assert.ErrorIs(t, grid.Validate(), ErrInvalidRequest)
	})
}

func TestTimeGrid_SlotConversions(t *testing.T) {
	grid := DefaultTimeGrid()
	assert.Equal(t, 48, grid.SlotsPerDay())
	assert.Equal(t, 8, grid.LivignoEntryStartSlot())
	assert.Equal(t, 50, grid.LivignoEntryEndSlot())
	assert.Equal(t, 21, grid.BreakWindowSlots())
	assert.Equal(t, 18, grid.BreakDriveCapSlots())
}
