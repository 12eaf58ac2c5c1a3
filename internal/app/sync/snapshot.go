package sync

import (
	"context"
	"encoding/json"
	"time"

	"innsync/internal/domain/calendar"
	"innsync/internal/domain/shared/daterange"
)

// cachedCalendar is the serialized form written to the snapshot store.
// Bookings are not cached; a warmed unit shows availability immediately and
// picks bookings up on its next load.
type cachedCalendar struct {
	UnitID  string       `json:"unit_id"`
	Days    []cachedDay  `json:"days"`
	Periods []cachedSpan `json:"periods"`
	SavedAt time.Time    `json:"saved_at"`
}

type cachedDay struct {
	Date           string `json:"date"`
	Available      bool   `json:"available"`
	StopSell       bool   `json:"stop_sell"`
	PriceOverride  *int64 `json:"price_override,omitempty"`
	AvailableUnits *int   `json:"available_units,omitempty"`
}

type cachedSpan struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func (e *Engine) saveSnapshot(ctx context.Context, unitID calendar.UnitID, state *unitState) {
	if e.snapshots == nil {
		return
	}

	e.mu.Lock()
	snap := cachedCalendar{UnitID: string(unitID), SavedAt: e.now().UTC()}
	for _, d := range state.cal.Days {
		snap.Days = append(snap.Days, cachedDay{
			Date:           daterange.FormatDay(d.Date),
			Available:      d.Available,
			StopSell:       d.StopSell,
			PriceOverride:  d.PriceOverrideCents,
			AvailableUnits: d.AvailableUnits,
		})
	}
	for _, span := range state.cal.Periods.Spans() {
		snap.Periods = append(snap.Periods, cachedSpan{
			Start: daterange.FormatDay(span.Start),
			End:   daterange.FormatDay(span.End),
		})
	}
	e.mu.Unlock()

	data, err := json.Marshal(snap)
	if err != nil {
		e.logger.Warn("snapshot marshal failed", "unit_id", unitID, "error", err)
		return
	}
	if err := e.snapshots.Save(ctx, unitID, data); err != nil {
		e.logger.Warn("snapshot save failed", "unit_id", unitID, "error", err)
	}
}

func (e *Engine) warm(ctx context.Context, unitID calendar.UnitID, state *unitState) {
	if e.snapshots == nil {
		return
	}
	data, err := e.snapshots.Load(ctx, unitID)
	if err != nil || len(data) == 0 {
		return
	}
	var snap cachedCalendar
	if err := json.Unmarshal(data, &snap); err != nil {
		e.logger.Warn("snapshot decode failed", "unit_id", unitID, "error", err)
		return
	}

	cal := calendar.NewCalendar(unitID)
	var events []calendar.Event
	for _, cd := range snap.Days {
		date, err := daterange.ParseDay(cd.Date)
		if err != nil {
			continue
		}
		day := calendar.DayAvailability{
			Date:               date,
			Available:          cd.Available,
			StopSell:           cd.StopSell,
			PriceOverrideCents: cd.PriceOverride,
			AvailableUnits:     cd.AvailableUnits,
		}
		cal.SetDay(day)
		events = append(events, calendar.DayEvent(day))
	}
	for _, cs := range snap.Periods {
		span, err := daterange.Parse(cs.Start, cs.End)
		if err != nil {
			continue
		}
		cal.Periods.Add(span)
	}

	e.mu.Lock()
	if len(state.cal.Days) == 0 && state.cal.Periods.Len() == 0 {
		state.cal = cal
		state.events = events
		e.logger.Info("calendar warmed from snapshot", "unit_id", unitID, "days", len(snap.Days), "periods", len(snap.Periods))
	}
	e.mu.Unlock()
}
