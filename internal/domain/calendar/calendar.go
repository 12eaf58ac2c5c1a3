package calendar

import (
	"time"

	"innsync/internal/domain/shared/daterange"
)

// Calendar is the in-memory mirror of one unit's availability state: the
// day overrides fetched so far plus the set of loaded periods.
type Calendar struct {
	UnitID  UnitID
	Days    map[string]DayAvailability
	Periods PeriodSet
}

func NewCalendar(id UnitID) *Calendar {
	return &Calendar{UnitID: id, Days: make(map[string]DayAvailability)}
}

// Day returns the stored state for a date, falling back to the default.
func (c *Calendar) Day(date time.Time) DayAvailability {
	if d, ok := c.Days[daterange.FormatDay(date)]; ok {
		return d
	}
	return DefaultDay(date)
}

func (c *Calendar) SetDay(d DayAvailability) {
	c.Days[d.Key()] = d
}

// FillDefaults stores a default record for every day of r that has no
// override yet, so a fetched range always has a complete day map.
func (c *Calendar) FillDefaults(r daterange.DateRange) {
	r.EachDay(func(day time.Time) {
		key := daterange.FormatDay(day)
		if _, ok := c.Days[key]; !ok {
			c.Days[key] = DefaultDay(day)
		}
	})
}

// DaysIn returns the day records of r in chronological order, one per day.
func (c *Calendar) DaysIn(r daterange.DateRange) []DayAvailability {
	out := make([]DayAvailability, 0, r.Days())
	r.EachDay(func(day time.Time) {
		out = append(out, c.Day(day))
	})
	return out
}

// ReplaceRange overwrites the range with server truth: defaults everywhere,
// then the supplied override records.
func (c *Calendar) ReplaceRange(r daterange.DateRange, days []DayAvailability) {
	r.EachDay(func(day time.Time) {
		c.Days[daterange.FormatDay(day)] = DefaultDay(day)
	})
	for _, d := range days {
		if !r.ContainsDay(d.Date) {
			continue
		}
		c.SetDay(d)
	}
}

// ApplyUpdates applies composed mutation records locally, mirroring the
// upstream's interpretation so the calendar reflects a write before the
// remote confirms it.
func (c *Calendar) ApplyUpdates(updates []DayUpdate) {
	for _, u := range updates {
		if u.Reset {
			c.SetDay(DefaultDay(u.Date))
			continue
		}
		d := c.Day(u.Date).clone()
		if u.StopSell != nil {
			d.StopSell = *u.StopSell
			d.Available = !*u.StopSell
		}
		switch {
		case u.Units != nil:
			v := *u.Units
			d.AvailableUnits = &v
		case u.ClearUnits:
			d.AvailableUnits = nil
		}
		switch {
		case u.PriceCents != nil:
			v := *u.PriceCents
			d.PriceOverrideCents = &v
		case u.ClearPrice:
			d.PriceOverrideCents = nil
		}
		c.SetDay(d)
	}
}

// Snapshot captures an immutable copy of the calendar used to revert an
// optimistic mutation when the remote write fails.
type Snapshot struct {
	UnitID  UnitID
	Days    map[string]DayAvailability
	Periods PeriodSet
}

func (c *Calendar) Snapshot() Snapshot {
	days := make(map[string]DayAvailability, len(c.Days))
	for k, v := range c.Days {
		days[k] = v.clone()
	}
	return Snapshot{UnitID: c.UnitID, Days: days, Periods: c.Periods.clone()}
}

// Restore rolls the calendar back to a previously taken snapshot.
func (c *Calendar) Restore(s Snapshot) {
	c.Days = make(map[string]DayAvailability, len(s.Days))
	for k, v := range s.Days {
		c.Days[k] = v.clone()
	}
	c.Periods = s.Periods.clone()
}
