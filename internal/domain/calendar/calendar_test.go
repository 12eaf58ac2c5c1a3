package calendar_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"innsync/internal/domain/calendar"
	"innsync/internal/domain/shared/daterange"
)

func boolPtr(v bool) *bool { return &v }

func TestCalendar_DayFallsBackToDefault(t *testing.T) {
	cal := calendar.NewCalendar("unit-1")
	d := cal.Day(day("2025-01-15"))

	require.True(t, d.Available)
	require.False(t, d.StopSell)
	require.Nil(t, d.PriceOverrideCents)
	require.Nil(t, d.AvailableUnits)
	require.True(t, d.Sellable())
}

func TestCalendar_ReplaceRangeOverwritesWithServerTruth(t *testing.T) {
	cal := calendar.NewCalendar("unit-1")

	stale := calendar.DefaultDay(day("2025-01-10"))
	stale.StopSell = true
	cal.SetDay(stale)

	jan := span("2025-01-01", "2025-01-31")
	override := calendar.DefaultDay(day("2025-01-20"))
	override.StopSell = true
	override.Available = false
	cal.ReplaceRange(jan, []calendar.DayAvailability{override})

	// The stale local override was not in the server response, so it reverts.
	require.True(t, cal.Day(day("2025-01-10")).Sellable())
	require.False(t, cal.Day(day("2025-01-20")).Sellable())
	require.Len(t, cal.DaysIn(jan), 31)
}

func TestCalendar_ReplaceRangeIgnoresOutOfRangeRecords(t *testing.T) {
	cal := calendar.NewCalendar("unit-1")
	outside := calendar.DefaultDay(day("2025-02-05"))
	outside.StopSell = true

	cal.ReplaceRange(span("2025-01-01", "2025-01-31"), []calendar.DayAvailability{outside})
	require.False(t, cal.Day(day("2025-02-05")).StopSell)
}

func TestCalendar_ApplyUpdates(t *testing.T) {
	cal := calendar.NewCalendar("unit-1")
	price := int64(15000)
	units := 3

	cal.ApplyUpdates([]calendar.DayUpdate{
		{Date: day("2025-01-10"), StopSell: boolPtr(true), Units: intPtr(0), ClearPrice: true},
		{Date: day("2025-01-11"), PriceCents: &price, Units: &units},
	})

	blocked := cal.Day(day("2025-01-10"))
	require.True(t, blocked.StopSell)
	require.False(t, blocked.Available)
	require.Equal(t, 0, *blocked.AvailableUnits)
	require.Nil(t, blocked.PriceOverrideCents)

	priced := cal.Day(day("2025-01-11"))
	require.Equal(t, int64(15000), *priced.PriceOverrideCents)
	require.Equal(t, 3, *priced.AvailableUnits)
}

func TestCalendar_ApplyUpdatesResetRestoresDefault(t *testing.T) {
	cal := calendar.NewCalendar("unit-1")
	d := calendar.DefaultDay(day("2025-01-10"))
	d.StopSell = true
	d.Available = false
	cal.SetDay(d)

	cal.ApplyUpdates([]calendar.DayUpdate{{Date: day("2025-01-10"), Reset: true}})
	require.True(t, cal.Day(day("2025-01-10")).IsDefault())
}

func TestCalendar_SnapshotRestore(t *testing.T) {
	cal := calendar.NewCalendar("unit-1")
	jan := span("2025-01-01", "2025-01-31")
	cal.FillDefaults(jan)
	cal.Periods.Add(jan)

	snap := cal.Snapshot()

	cal.ApplyUpdates([]calendar.DayUpdate{
		{Date: day("2025-01-10"), StopSell: boolPtr(true), Units: intPtr(0), ClearPrice: true},
	})
	cal.Periods.Add(span("2025-02-01", "2025-02-28"))
	require.False(t, cal.Day(day("2025-01-10")).Sellable())

	cal.Restore(snap)
	require.True(t, cal.Day(day("2025-01-10")).Sellable())
	require.Equal(t, []daterange.DateRange{jan}, cal.Periods.Spans())
}

func TestCalendar_SnapshotIsIsolatedFromLaterEdits(t *testing.T) {
	cal := calendar.NewCalendar("unit-1")
	cal.SetDay(calendar.DefaultDay(day("2025-01-10")))

	snap := cal.Snapshot()
	cal.ApplyUpdates([]calendar.DayUpdate{{Date: day("2025-01-10"), StopSell: boolPtr(true)}})

	require.False(t, snap.Days["2025-01-10"].StopSell)
}
