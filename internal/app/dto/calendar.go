package dto

import (
	appsync "innsync/internal/app/sync"
	"innsync/internal/domain/calendar"
	"innsync/internal/domain/shared/daterange"
)

type CalendarDay struct {
	Date           string `json:"date"`
	IsAvailable    bool   `json:"is_available"`
	StopSell       bool   `json:"stop_sell"`
	PriceOverride  *int64 `json:"price_override,omitempty"`
	AvailableUnits *int   `json:"available_units,omitempty"`
}

type CalendarEvent struct {
	ID     string `json:"id"`
	Kind   string `json:"kind"`
	Start  string `json:"start"`
	End    string `json:"end"`
	Title  string `json:"title"`
	Status string `json:"status,omitempty"`
}

type CalendarView struct {
	UnitID  string          `json:"unit_id"`
	Start   string          `json:"start"`
	End     string          `json:"end"`
	Fetched bool            `json:"fetched"`
	Days    []CalendarDay   `json:"days"`
	Events  []CalendarEvent `json:"events"`
}

type LoadedPeriod struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type BulkOutcome struct {
	Records  int `json:"records"`
	Updated  int `json:"updated"`
	Resynced int `json:"resynced"`
}

func MapCalendarView(unitID calendar.UnitID, res appsync.LoadResult) CalendarView {
	days := make([]CalendarDay, 0, len(res.Days))
	for _, d := range res.Days {
		days = append(days, CalendarDay{
			Date:           daterange.FormatDay(d.Date),
			IsAvailable:    d.Available,
			StopSell:       d.StopSell,
			PriceOverride:  d.PriceOverrideCents,
			AvailableUnits: d.AvailableUnits,
		})
	}
	events := make([]CalendarEvent, 0, len(res.Events))
	for _, ev := range res.Events {
		events = append(events, CalendarEvent{
			ID:     ev.ID,
			Kind:   string(ev.Kind),
			Start:  daterange.FormatDay(ev.Start),
			End:    daterange.FormatDay(ev.End),
			Title:  ev.Title,
			Status: ev.Status,
		})
	}
	return CalendarView{
		UnitID:  string(unitID),
		Start:   daterange.FormatDay(res.Range.Start),
		End:     daterange.FormatDay(res.Range.End),
		Fetched: res.Fetched,
		Days:    days,
		Events:  events,
	}
}

func MapPeriods(spans []daterange.DateRange) []LoadedPeriod {
	out := make([]LoadedPeriod, 0, len(spans))
	for _, span := range spans {
		out = append(out, LoadedPeriod{
			Start: daterange.FormatDay(span.Start),
			End:   daterange.FormatDay(span.End),
		})
	}
	return out
}

func MapBulkOutcome(res appsync.BulkResult) BulkOutcome {
	return BulkOutcome{Records: res.Records, Updated: res.Updated, Resynced: res.Resynced}
}
