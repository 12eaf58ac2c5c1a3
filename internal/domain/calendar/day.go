package calendar

import (
	"time"

	"innsync/internal/domain/shared/daterange"
)

// UnitID identifies a sellable unit: a room type or an event space.
type UnitID string

// DayAvailability is the override state of one calendar day for one unit.
// A day without a stored override behaves like DefaultDay.
type DayAvailability struct {
	Date               time.Time
	Available          bool
	StopSell           bool
	PriceOverrideCents *int64
	AvailableUnits     *int
}

// DefaultDay is the state assumed for any day the upstream has no override
// record for: open for sale at the unit's computed price.
func DefaultDay(date time.Time) DayAvailability {
	return DayAvailability{Date: daterange.Day(date), Available: true}
}

// Sellable reports whether the day can be booked. StopSell wins over
// Available.
func (d DayAvailability) Sellable() bool {
	if d.StopSell {
		return false
	}
	return d.Available
}

// IsDefault reports whether the day carries no override at all.
func (d DayAvailability) IsDefault() bool {
	return d.Available && !d.StopSell && d.PriceOverrideCents == nil && d.AvailableUnits == nil
}

// Key returns the map key for the day (YYYY-MM-DD).
func (d DayAvailability) Key() string {
	return daterange.FormatDay(d.Date)
}

func (d DayAvailability) clone() DayAvailability {
	out := d
	if d.PriceOverrideCents != nil {
		v := *d.PriceOverrideCents
		out.PriceOverrideCents = &v
	}
	if d.AvailableUnits != nil {
		v := *d.AvailableUnits
		out.AvailableUnits = &v
	}
	return out
}
