package calendar

import (
	"time"

	"innsync/internal/domain/shared/daterange"
)

type EventKind string

const (
	KindAvailability EventKind = "availability"
	KindBooking      EventKind = "booking"
)

// Event is a display-only projection of a day override or a booking,
// keyed by a synthetic id so the two sources merge into one list.
type Event struct {
	ID       string
	Kind     EventKind
	Start    time.Time
	End      time.Time
	Title    string
	Status   string
	Sellable bool
}

func AvailabilityEventID(date time.Time) string {
	return "avail-" + daterange.FormatDay(date)
}

func BookingEventID(bookingID string) string {
	return "booking-" + bookingID
}

// DayEvent projects one day override into an event.
func DayEvent(d DayAvailability) Event {
	title := "Available"
	if !d.Sellable() {
		title = "Blocked"
	}
	return Event{
		ID:       AvailabilityEventID(d.Date),
		Kind:     KindAvailability,
		Start:    d.Date,
		End:      d.Date,
		Title:    title,
		Sellable: d.Sellable(),
	}
}

// MergeEvents unions incoming into existing, dropping any incoming event
// whose id is already present. Ids are date- or booking-derived, so
// collisions only happen when a range is fetched twice.
func MergeEvents(existing, incoming []Event) []Event {
	seen := make(map[string]struct{}, len(existing))
	for _, e := range existing {
		seen[e.ID] = struct{}{}
	}
	out := existing
	for _, e := range incoming {
		if _, ok := seen[e.ID]; ok {
			continue
		}
		seen[e.ID] = struct{}{}
		out = append(out, e)
	}
	return out
}

// AvailabilityUpdated is published after a bulk mutation lands upstream.
type AvailabilityUpdated struct {
	UnitID  UnitID    `json:"unit_id"`
	From    time.Time `json:"from"`
	To      time.Time `json:"to"`
	Records int       `json:"records"`
	At      time.Time `json:"at"`
}

func (e AvailabilityUpdated) EventName() string   { return "availability.updated" }
func (e AvailabilityUpdated) AggregateID() string { return string(e.UnitID) }
