package service

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDay(t *testing.T) {
	d, err := ParseDay("monday")
	require.NoError(t, err)
	require.Equal(t, Monday, d)

	d, err = ParseDay(" Saturday ")
	require.NoError(t, err)
	require.Equal(t, Saturday, d)

	_, err = ParseDay("Sunday")
	require.Error(t, err)
}

func TestSlotUsable(t *testing.T) {
	require.True(t, SlotUsable(Friday, 6))
	require.True(t, SlotUsable(Saturday, 4))
	require.False(t, SlotUsable(Saturday, 5))
	require.False(t, SlotUsable(Monday, 0))
	require.False(t, SlotUsable(Monday, 7))
	require.False(t, SlotUsable(Day(6), 1))
}

func TestLabPairStart(t *testing.T) {
	require.Equal(t, Slot(1), LabPairStart(1))
	require.Equal(t, Slot(1), LabPairStart(2))
	require.Equal(t, Slot(5), LabPairStart(6))
}
