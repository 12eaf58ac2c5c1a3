package dto

import (
	"time"

	"innsync/internal/domain/booking"
	"innsync/internal/domain/shared/daterange"
)

type BookingSlot struct {
	ID        string    `json:"id"`
	UnitID    string    `json:"unit_id"`
	GuestName string    `json:"guest_name,omitempty"`
	Organizer string    `json:"organizer,omitempty"`
	Start     string    `json:"start"`
	End       string    `json:"end"`
	Guests    int       `json:"guests"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

func MapBookingSlot(s booking.Slot) BookingSlot {
	return BookingSlot{
		ID:        string(s.ID),
		UnitID:    string(s.UnitID),
		GuestName: s.GuestName,
		Organizer: s.Organizer,
		Start:     daterange.FormatDay(s.Range.Start),
		End:       daterange.FormatDay(s.Range.End),
		Guests:    s.Guests,
		Status:    string(s.Status),
		CreatedAt: s.CreatedAt,
	}
}

func MapBookingSlots(items []booking.Slot) []BookingSlot {
	out := make([]BookingSlot, 0, len(items))
	for _, s := range items {
		out = append(out, MapBookingSlot(s))
	}
	return out
}
