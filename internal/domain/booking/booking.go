package booking

import (
	"errors"
	"time"

	"innsync/internal/domain/calendar"
	"innsync/internal/domain/shared/daterange"
)

var ErrInvalidTransition = errors.New("booking: invalid status transition")

type SlotID string

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusRejected  Status = "REJECTED"
	StatusCancelled Status = "CANCELLED"
)

// Slot is a booking as the upstream reports it. The sync layer never mutates
// a slot locally; status changes are upstream round-trips validated here
// before the call goes out.
type Slot struct {
	ID        SlotID
	UnitID    calendar.UnitID
	GuestName string
	Organizer string
	Range     daterange.DateRange
	Guests    int
	Status    Status
	CreatedAt time.Time
}

// CanTransition reports whether the slot may move to the target status.
func (s Slot) CanTransition(to Status) bool {
	switch to {
	case StatusConfirmed, StatusRejected:
		return s.Status == StatusPending
	case StatusCancelled:
		return s.Status == StatusPending || s.Status == StatusConfirmed
	default:
		return false
	}
}

// Validate rejects a transition before any network call is made.
func (s Slot) Validate(to Status) error {
	if !s.CanTransition(to) {
		return ErrInvalidTransition
	}
	return nil
}

// Event projects the slot into the calendar event list.
func (s Slot) Event() calendar.Event {
	title := s.GuestName
	if title == "" {
		title = s.Organizer
	}
	return calendar.Event{
		ID:     calendar.BookingEventID(string(s.ID)),
		Kind:   calendar.KindBooking,
		Start:  s.Range.Start,
		End:    s.Range.End,
		Title:  title,
		Status: string(s.Status),
	}
}

// ParseStatus normalizes a status string from the API surface.
func ParseStatus(raw string) (Status, bool) {
	switch Status(raw) {
	case StatusPending, StatusConfirmed, StatusRejected, StatusCancelled:
		return Status(raw), true
	}
	return "", false
}
