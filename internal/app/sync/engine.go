package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"innsync/internal/domain/booking"
	"innsync/internal/domain/calendar"
	"innsync/internal/domain/shared/daterange"
)

var (
	// ErrSyncInFlight is returned when a load or mutation for the unit is
	// already running; triggers are refused, not queued.
	ErrSyncInFlight = errors.New("sync: unit sync already in flight")
	// ErrHorizonExceeded guards against navigating absurdly far ahead.
	ErrHorizonExceeded = errors.New("sync: requested range beyond load horizon")
	ErrUnknownUnit     = errors.New("sync: unknown unit")
)

// PMS is the upstream surface the engine consumes.
type PMS interface {
	CalendarRange(ctx context.Context, unitID calendar.UnitID, r daterange.DateRange) ([]calendar.DayAvailability, error)
	BookingsRange(ctx context.Context, unitID calendar.UnitID, r daterange.DateRange) ([]booking.Slot, error)
	BulkUpdate(ctx context.Context, unitID calendar.UnitID, updates []calendar.DayUpdate) (int, error)
}

// CapacityResolver answers how many physical units back a calendar, bounding
// explicit unit-count overrides.
type CapacityResolver interface {
	UnitCapacity(ctx context.Context, id calendar.UnitID) (int, error)
}

// SnapshotStore persists serialized calendars so a restarted instance can
// warm a unit without an upstream round-trip. Both methods are best-effort
// from the engine's point of view.
type SnapshotStore interface {
	Save(ctx context.Context, id calendar.UnitID, data []byte) error
	Load(ctx context.Context, id calendar.UnitID) ([]byte, error)
	Drop(ctx context.Context, id calendar.UnitID) error
}

// Publisher broadcasts availability changes after they land upstream.
type Publisher interface {
	PublishAvailabilityUpdated(ctx context.Context, event calendar.AvailabilityUpdated) error
}

const (
	DefaultChunkDays        = 90
	DefaultMaxHorizonMonths = 60
)

// Engine keeps one calendar mirror per unit and coordinates loads and bulk
// mutations against the PMS. State is cached per unit id: switching the
// selected unit in the UI does not discard other units' loaded periods.
type Engine struct {
	pms       PMS
	capacity  CapacityResolver
	snapshots SnapshotStore
	publisher Publisher
	logger    *slog.Logger
	now       func() time.Time

	chunkDays        int
	maxHorizonMonths int

	mu    sync.Mutex
	units map[calendar.UnitID]*unitState
}

type unitState struct {
	cal    *calendar.Calendar
	events []calendar.Event
	busy   bool
}

type Config struct {
	PMS              PMS
	Capacity         CapacityResolver
	Snapshots        SnapshotStore
	Publisher        Publisher
	Logger           *slog.Logger
	ChunkDays        int
	MaxHorizonMonths int
	Now              func() time.Time
}

func NewEngine(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	chunk := cfg.ChunkDays
	if chunk <= 0 {
		chunk = DefaultChunkDays
	}
	horizon := cfg.MaxHorizonMonths
	if horizon <= 0 {
		horizon = DefaultMaxHorizonMonths
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Engine{
		pms:              cfg.PMS,
		capacity:         cfg.Capacity,
		snapshots:        cfg.Snapshots,
		publisher:        cfg.Publisher,
		logger:           logger,
		now:              now,
		chunkDays:        chunk,
		maxHorizonMonths: horizon,
		units:            make(map[calendar.UnitID]*unitState),
	}
}

// ChunkMonths converts the configured chunk size in days to whole months,
// rounding up: 90 days loads a 3-month window.
func (e *Engine) ChunkMonths() int {
	return int(math.Ceil(float64(e.chunkDays) / 30))
}

// ChunkRange computes the fetch window for an anchor date: the anchor's
// month start through the end of the month chunkMonths later.
func (e *Engine) ChunkRange(anchor time.Time) daterange.DateRange {
	return daterange.DateRange{
		Start: daterange.StartOfMonth(anchor),
		End:   daterange.EndOfMonth(anchor.AddDate(0, e.ChunkMonths(), 0)),
	}
}

// LoadResult reports what a period load did and the resulting view.
type LoadResult struct {
	Range   daterange.DateRange
	Fetched bool
	Days    []calendar.DayAvailability
	Events  []calendar.Event
}

// LoadPeriod ensures the chunk around anchor is loaded for the unit.
//
// The fetch is skipped when the merged period set already covers the range,
// unless force is set: a forced load bypasses the coverage short-circuit and
// overwrites local state with server truth. A load that fails records
// nothing, so the next navigation retries naturally.
func (e *Engine) LoadPeriod(ctx context.Context, unitID calendar.UnitID, anchor time.Time, force bool) (LoadResult, error) {
	rng := e.ChunkRange(anchor)
	horizon := daterange.Day(e.now()).AddDate(0, e.maxHorizonMonths, 0)
	if rng.End.After(horizon) {
		return LoadResult{}, fmt.Errorf("%w: %s ends after %s", ErrHorizonExceeded, rng, daterange.FormatDay(horizon))
	}

	state := e.state(ctx, unitID)

	e.mu.Lock()
	if !force && state.cal.Periods.Covers(rng) {
		res := e.viewLocked(state, rng)
		e.mu.Unlock()
		return res, nil
	}
	if state.busy {
		e.mu.Unlock()
		return LoadResult{}, ErrSyncInFlight
	}
	state.busy = true
	e.mu.Unlock()

	defer e.release(state)

	if err := e.fetchRange(ctx, unitID, state, rng); err != nil {
		return LoadResult{}, err
	}
	e.saveSnapshot(ctx, unitID, state)

	e.mu.Lock()
	res := e.viewLocked(state, rng)
	e.mu.Unlock()
	res.Fetched = true
	return res, nil
}

// View returns the current local state for a range without touching the
// network.
func (e *Engine) View(unitID calendar.UnitID, rng daterange.DateRange) (LoadResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	state, ok := e.units[unitID]
	if !ok {
		return LoadResult{}, ErrUnknownUnit
	}
	return e.viewLocked(state, rng), nil
}

// LoadedPeriods exposes the unit's merged period set, mainly for
// reconciliation and introspection endpoints.
func (e *Engine) LoadedPeriods(unitID calendar.UnitID) []daterange.DateRange {
	e.mu.Lock()
	defer e.mu.Unlock()
	state, ok := e.units[unitID]
	if !ok {
		return nil
	}
	return state.cal.Periods.Spans()
}

// Forget drops a unit's mirror and its cached snapshot; the next load starts
// cold.
func (e *Engine) Forget(ctx context.Context, unitID calendar.UnitID) {
	e.mu.Lock()
	delete(e.units, unitID)
	e.mu.Unlock()

	if e.snapshots == nil {
		return
	}
	if err := e.snapshots.Drop(ctx, unitID); err != nil {
		e.logger.Warn("snapshot drop failed", "unit_id", unitID, "error", err)
	}
}

// fetchRange downloads availability then bookings for the range,
// sequentially, and folds them into the unit state. Server truth overwrites
// whatever the range held locally.
func (e *Engine) fetchRange(ctx context.Context, unitID calendar.UnitID, state *unitState, rng daterange.DateRange) error {
	days, err := e.pms.CalendarRange(ctx, unitID, rng)
	if err != nil {
		return fmt.Errorf("sync: load availability %s: %w", rng, err)
	}
	slots, err := e.pms.BookingsRange(ctx, unitID, rng)
	if err != nil {
		return fmt.Errorf("sync: load bookings %s: %w", rng, err)
	}

	incoming := make([]calendar.Event, 0, rng.Days()+len(slots))
	e.mu.Lock()
	state.cal.ReplaceRange(rng, days)
	for _, d := range state.cal.DaysIn(rng) {
		incoming = append(incoming, calendar.DayEvent(d))
	}
	for _, slot := range slots {
		incoming = append(incoming, slot.Event())
	}
	state.events = calendar.MergeEvents(pruneEvents(state.events, rng), incoming)
	state.cal.Periods.Add(rng)
	e.mu.Unlock()
	return nil
}

// pruneEvents drops events that fall inside the range about to be replaced
// by server truth.
func pruneEvents(events []calendar.Event, rng daterange.DateRange) []calendar.Event {
	out := events[:0]
	for _, ev := range events {
		evRange := daterange.DateRange{Start: daterange.Day(ev.Start), End: daterange.Day(ev.End)}
		if evRange.Overlaps(rng) {
			continue
		}
		out = append(out, ev)
	}
	return out
}

func (e *Engine) viewLocked(state *unitState, rng daterange.DateRange) LoadResult {
	events := make([]calendar.Event, 0, len(state.events))
	for _, ev := range state.events {
		evRange := daterange.DateRange{Start: daterange.Day(ev.Start), End: daterange.Day(ev.End)}
		if evRange.Overlaps(rng) {
			events = append(events, ev)
		}
	}
	return LoadResult{
		Range:  rng,
		Days:   state.cal.DaysIn(rng),
		Events: events,
	}
}

// state returns the unit's cached mirror, creating it (and warming it from
// the snapshot store) on first access.
func (e *Engine) state(ctx context.Context, unitID calendar.UnitID) *unitState {
	e.mu.Lock()
	if s, ok := e.units[unitID]; ok {
		e.mu.Unlock()
		return s
	}
	s := &unitState{cal: calendar.NewCalendar(unitID)}
	e.units[unitID] = s
	e.mu.Unlock()

	e.warm(ctx, unitID, s)
	return s
}

func (e *Engine) release(state *unitState) {
	e.mu.Lock()
	state.busy = false
	e.mu.Unlock()
}
