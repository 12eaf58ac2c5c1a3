package pms

import (
	"encoding/json"
	"fmt"
	"time"

	"innsync/internal/domain/booking"
	"innsync/internal/domain/calendar"
	"innsync/internal/domain/shared/daterange"
)

// envelope is the uniform response wrapper every upstream endpoint uses.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

func (e envelope) errorText() string {
	if e.Error != "" {
		return e.Error
	}
	if e.Message != "" {
		return e.Message
	}
	return "request failed"
}

// dayRecord is the single deserialization boundary for availability rows.
// The upstream emits snake_case from its bulk endpoints and camelCase from
// older ones; both spellings are accepted here and nowhere else.
type dayRecord struct {
	Date          string
	Available     *bool
	StopSell      *bool
	PriceOverride *int64
}

func (r *dayRecord) UnmarshalJSON(b []byte) error {
	var raw struct {
		Date           string `json:"date"`
		IsAvailable    *bool  `json:"is_available"`
		IsAvailableCC  *bool  `json:"isAvailable"`
		StopSell       *bool  `json:"stop_sell"`
		StopSellCC     *bool  `json:"stopSell"`
		PriceOverride  *int64 `json:"price_override"`
		PriceOverrideC *int64 `json:"priceOverride"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	r.Date = raw.Date
	r.Available = coalesceBool(raw.IsAvailable, raw.IsAvailableCC)
	r.StopSell = coalesceBool(raw.StopSell, raw.StopSellCC)
	r.PriceOverride = coalesceInt64(raw.PriceOverride, raw.PriceOverrideC)
	return nil
}

func (r dayRecord) toDomain() (calendar.DayAvailability, error) {
	date, err := daterange.ParseDay(r.Date)
	if err != nil {
		return calendar.DayAvailability{}, err
	}
	d := calendar.DefaultDay(date)
	if r.Available != nil {
		d.Available = *r.Available
	}
	if r.StopSell != nil {
		d.StopSell = *r.StopSell
	}
	if r.PriceOverride != nil {
		v := *r.PriceOverride
		d.PriceOverrideCents = &v
	}
	return d, nil
}

// bookingRecord tolerates check_in/checkIn and start_date/startDate spellings.
type bookingRecord struct {
	ID        string
	UnitID    string
	GuestName string
	Organizer string
	Start     string
	End       string
	Guests    int
	Status    string
	CreatedAt string
}

func (r *bookingRecord) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID          string `json:"id"`
		UnitID      string `json:"unit_id"`
		UnitIDCC    string `json:"unitId"`
		GuestName   string `json:"guest_name"`
		GuestNameCC string `json:"guestName"`
		Organizer   string `json:"organizer"`
		CheckIn     string `json:"check_in"`
		CheckInCC   string `json:"checkIn"`
		StartDate   string `json:"start_date"`
		StartDateCC string `json:"startDate"`
		CheckOut    string `json:"check_out"`
		CheckOutCC  string `json:"checkOut"`
		EndDate     string `json:"end_date"`
		EndDateCC   string `json:"endDate"`
		Guests      int    `json:"guests"`
		Status      string `json:"status"`
		CreatedAt   string `json:"created_at"`
		CreatedAtCC string `json:"createdAt"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	r.ID = raw.ID
	r.UnitID = coalesce(raw.UnitID, raw.UnitIDCC)
	r.GuestName = coalesce(raw.GuestName, raw.GuestNameCC)
	r.Organizer = raw.Organizer
	r.Start = coalesce(raw.CheckIn, raw.CheckInCC, raw.StartDate, raw.StartDateCC)
	r.End = coalesce(raw.CheckOut, raw.CheckOutCC, raw.EndDate, raw.EndDateCC)
	r.Guests = raw.Guests
	r.Status = raw.Status
	r.CreatedAt = coalesce(raw.CreatedAt, raw.CreatedAtCC)
	return nil
}

func (r bookingRecord) toDomain() (booking.Slot, error) {
	rng, err := daterange.Parse(r.Start, r.End)
	if err != nil {
		return booking.Slot{}, fmt.Errorf("pms: booking %s: %w", r.ID, err)
	}
	status, ok := booking.ParseStatus(r.Status)
	if !ok {
		return booking.Slot{}, fmt.Errorf("pms: booking %s: unknown status %q", r.ID, r.Status)
	}
	slot := booking.Slot{
		ID:        booking.SlotID(r.ID),
		UnitID:    calendar.UnitID(r.UnitID),
		GuestName: r.GuestName,
		Organizer: r.Organizer,
		Range:     rng,
		Guests:    r.Guests,
		Status:    status,
	}
	if r.CreatedAt != "" {
		if t, err := time.Parse(time.RFC3339, r.CreatedAt); err == nil {
			slot.CreatedAt = t
		}
	}
	return slot, nil
}

// encodeUpdate serializes one mutation record. Reset records carry nothing
// but the date and the flag; cleared fields serialize as explicit nulls so
// the upstream deletes the stored value.
func encodeUpdate(u calendar.DayUpdate) map[string]any {
	rec := map[string]any{"date": daterange.FormatDay(u.Date)}
	if u.Reset {
		rec["reset"] = true
		return rec
	}
	if u.StopSell != nil {
		rec["stop_sell"] = *u.StopSell
	}
	switch {
	case u.Units != nil:
		rec["available_units"] = *u.Units
	case u.ClearUnits:
		rec["available_units"] = nil
	}
	switch {
	case u.PriceCents != nil:
		rec["price_override"] = *u.PriceCents
	case u.ClearPrice:
		rec["price_override"] = nil
	}
	return rec
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func coalesceBool(a, b *bool) *bool {
	if a != nil {
		return a
	}
	return b
}

func coalesceInt64(a, b *int64) *int64 {
	if a != nil {
		return a
	}
	return b
}
