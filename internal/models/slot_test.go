package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayNameRoundTrip(t *testing.T) {
	assert.Equal(t, "MERCREDI", DayName(3))
	assert.Equal(t, 3, DayID("MERCREDI"))

	for id := MinDayID; id <= MaxDayID; id++ {
		name := DayName(id)
		require.NotEmpty(t, name)
		assert.Equal(t, id, DayID(name))
	}

	assert.Empty(t, DayName(0))
	assert.Empty(t, DayName(7))
	assert.Zero(t, DayID("DIMANCHE"))
}

func TestSlotWindow(t *testing.T) {
	window := SlotWindow(2)
	require.NotNil(t, window)
	assert.Equal(t, "11:00", window.Start)
	assert.Equal(t, "13:30", window.End)

	assert.Nil(t, SlotWindow(0))
	assert.Nil(t, SlotWindow(5))
}

func TestValidRanges(t *testing.T) {
	assert.True(t, ValidDayID(1))
	assert.True(t, ValidDayID(6))
	assert.False(t, ValidDayID(7))
	assert.True(t, ValidSlotID(4))
	assert.False(t, ValidSlotID(5))
}
