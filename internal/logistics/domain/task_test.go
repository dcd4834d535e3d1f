package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_DrivingOffsetSlots(t *testing.T) {
	grid := DefaultTimeGrid()
	catalog := Catalog()

	t.Run("supply matches the literal slot ranges", func(t *testing.T) {
		offsets := catalog[KindSupply].DrivingOffsetSlots(grid)
		for i := 0; i < 10; i++ {
			assert.Contains(t, offsets, i)
		}
		for i := 13; i < 23; i++ {
			assert.Contains(t, offsets, i)
		}
		assert.NotContains(t, offsets, 10)
		assert.Len(t, offsets, 20)
	})

	t.Run("shuttle matches the literal slot ranges", func(t *testing.T) {
		offsets := catalog[KindShuttle].DrivingOffsetSlots(grid)
		assert.Len(t, offsets, 14)
		assert.NotContains(t, offsets, 8)
		assert.NotContains(t, offsets, 9)
	})

	t.Run("resident matches the literal slot ranges", func(t *testing.T) {
		offsets := catalog[KindResident].DrivingOffsetSlots(grid)
		assert.Len(t, offsets, 14)
		assert.NotContains(t, offsets, 6)
		assert.NotContains(t, offsets, 7)
	})

	t.Run("adr matches the literal slot ranges", func(t *testing.T) {
		offsets := catalog[KindADR].DrivingOffsetSlots(grid)
		assert.Len(t, offsets, 34)
		assert.NotContains(t, offsets, 16)
		assert.NotContains(t, offsets, 17)
		assert.NotContains(t, offsets, 18)
	})

	t.Run("refill has no driving offsets", func(t *testing.T) {
		offsets := catalog[KindRefill].DrivingOffsetSlots(grid)
		assert.Empty(t, offsets)
	})
}

func TestCatalog_EntryAnchors(t *testing.T) {
	grid := DefaultTimeGrid()
	catalog := Catalog()

	require.True(t, catalog[KindShuttle].HasEntryAnchor())
	assert.Equal(t, 8, catalog[KindShuttle].EntryAnchorSlots(grid))

	require.True(t, catalog[KindResident].HasEntryAnchor())
	assert.Equal(t, 16, catalog[KindResident].EntryAnchorSlots(grid))

	require.True(t, catalog[KindADR].HasEntryAnchor())
	assert.Equal(t, 37, catalog[KindADR].EntryAnchorSlots(grid))

	assert.False(t, catalog[KindSupply].HasEntryAnchor())
	assert.False(t, catalog[KindRefill].HasEntryAnchor())
}

func TestCatalog_DurationSlots(t *testing.T) {
	grid := DefaultTimeGrid()
	catalog := Catalog()

	assert.Equal(t, 23, catalog[KindSupply].DurationSlots(grid))
	assert.Equal(t, 16, catalog[KindShuttle].DurationSlots(grid))
	assert.Equal(t, 18, catalog[KindResident].DurationSlots(grid))
	assert.Equal(t, 39, catalog[KindADR].DurationSlots(grid))
	assert.Equal(t, 2, catalog[KindRefill].DurationSlots(grid))
}

// TestShuttleEndEffectTargetsEngagedTractors resolves spec.md §9's open
// question: §3's prose says U's end effect is "+1 Tf", but §4.4's own
// conservation equations put the shuttle-end term into the Te transition,
// not Tf. The equations (and solver.py's literal code) are ground truth.
func TestShuttleEndEffectTargetsEngagedTractors(t *testing.T) {
	shuttle := Catalog()[KindShuttle]
	var endEffect Effect
	for _, e := range shuttle.Effects {
		if e.OffsetMinutes == shuttle.DurationMinutes {
			endEffect = e
		}
	}
	assert.Equal(t, 1, endEffect.DeltaTe)
	assert.Equal(t, 0, endEffect.DeltaTf)
}
