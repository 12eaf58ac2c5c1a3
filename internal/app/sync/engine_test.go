package sync_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	appsync "innsync/internal/app/sync"
	"innsync/internal/domain/booking"
	"innsync/internal/domain/calendar"
	"innsync/internal/domain/shared/daterange"
)

func day(s string) time.Time {
	t, err := daterange.ParseDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

func span(start, end string) daterange.DateRange {
	r, err := daterange.Parse(start, end)
	if err != nil {
		panic(err)
	}
	return r
}

// fakePMS records every call and serves canned per-day overrides.
type fakePMS struct {
	mu sync.Mutex

	days  map[string]calendar.DayAvailability
	slots []booking.Slot

	calendarCalls []daterange.DateRange
	bookingCalls  []daterange.DateRange
	bulkCalls     [][]calendar.DayUpdate

	calendarErr error
	bulkErr     error
	block       chan struct{}
}

func newFakePMS() *fakePMS {
	return &fakePMS{days: make(map[string]calendar.DayAvailability)}
}

func (f *fakePMS) setDay(d calendar.DayAvailability) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.days[daterange.FormatDay(d.Date)] = d
}

func (f *fakePMS) CalendarRange(ctx context.Context, unitID calendar.UnitID, r daterange.DateRange) ([]calendar.DayAvailability, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calendarCalls = append(f.calendarCalls, r)
	if f.calendarErr != nil {
		return nil, f.calendarErr
	}
	var out []calendar.DayAvailability
	r.EachDay(func(d time.Time) {
		if rec, ok := f.days[daterange.FormatDay(d)]; ok {
			out = append(out, rec)
		}
	})
	return out, nil
}

func (f *fakePMS) BookingsRange(ctx context.Context, unitID calendar.UnitID, r daterange.DateRange) ([]booking.Slot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bookingCalls = append(f.bookingCalls, r)
	var out []booking.Slot
	for _, s := range f.slots {
		if s.Range.Overlaps(r) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakePMS) BulkUpdate(ctx context.Context, unitID calendar.UnitID, updates []calendar.DayUpdate) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bulkCalls = append(f.bulkCalls, updates)
	if f.bulkErr != nil {
		return 0, f.bulkErr
	}
	// The upstream applies the batch to its own store so subsequent fetches
	// return the mutated state.
	for _, u := range updates {
		key := daterange.FormatDay(u.Date)
		if u.Reset {
			delete(f.days, key)
			continue
		}
		d, ok := f.days[key]
		if !ok {
			d = calendar.DefaultDay(u.Date)
		}
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
		f.days[key] = d
	}
	return len(updates), nil
}

func (f *fakePMS) calendarCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calendarCalls)
}

type fixedCapacity int

func (c fixedCapacity) UnitCapacity(ctx context.Context, id calendar.UnitID) (int, error) {
	return int(c), nil
}

type memorySnapshots struct {
	mu   sync.Mutex
	data map[calendar.UnitID][]byte
}

func newMemorySnapshots() *memorySnapshots {
	return &memorySnapshots{data: make(map[calendar.UnitID][]byte)}
}

func (s *memorySnapshots) Save(ctx context.Context, id calendar.UnitID, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[id] = append([]byte(nil), data...)
	return nil
}

func (s *memorySnapshots) Load(ctx context.Context, id calendar.UnitID) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data[id], nil
}

func (s *memorySnapshots) Drop(ctx context.Context, id calendar.UnitID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []calendar.AvailabilityUpdated
}

func (p *recordingPublisher) PublishAvailabilityUpdated(ctx context.Context, event calendar.AvailabilityUpdated) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

var fixedNow = time.Date(2025, time.January, 15, 10, 0, 0, 0, time.UTC)

func newEngine(pms *fakePMS, opts ...func(*appsync.Config)) *appsync.Engine {
	cfg := appsync.Config{
		PMS:       pms,
		Capacity:  fixedCapacity(10),
		ChunkDays: 30,
		Now:       func() time.Time { return fixedNow },
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return appsync.NewEngine(cfg)
}

func TestEngine_ChunkRange(t *testing.T) {
	e := appsync.NewEngine(appsync.Config{PMS: newFakePMS(), Capacity: fixedCapacity(1), ChunkDays: 90})
	require.Equal(t, 3, e.ChunkMonths())
	require.Equal(t, span("2025-01-01", "2025-04-30"), e.ChunkRange(day("2025-01-15")))

	e = appsync.NewEngine(appsync.Config{PMS: newFakePMS(), Capacity: fixedCapacity(1), ChunkDays: 31})
	require.Equal(t, 2, e.ChunkMonths())
}

func TestEngine_LoadPeriodFetchesAndFillsDefaults(t *testing.T) {
	pms := newFakePMS()
	blocked := calendar.DefaultDay(day("2025-01-20"))
	blocked.StopSell = true
	blocked.Available = false
	pms.setDay(blocked)
	pms.slots = []booking.Slot{{
		ID:     "b-1",
		UnitID: "unit-1",
		Range:  span("2025-01-10", "2025-01-12"),
		Status: booking.StatusConfirmed,
	}}

	e := newEngine(pms)
	res, err := e.LoadPeriod(context.Background(), "unit-1", day("2025-01-15"), false)
	require.NoError(t, err)

	// chunkDays=30 loads the anchor month plus one: Jan 1 .. Feb 28.
	require.Equal(t, span("2025-01-01", "2025-02-28"), res.Range)
	require.True(t, res.Fetched)
	require.Len(t, res.Days, 59)

	byDate := make(map[string]calendar.DayAvailability, len(res.Days))
	for _, d := range res.Days {
		byDate[daterange.FormatDay(d.Date)] = d
	}
	require.False(t, byDate["2025-01-20"].Sellable())
	require.True(t, byDate["2025-01-21"].Sellable())

	var bookingEvents int
	for _, ev := range res.Events {
		if ev.Kind == calendar.KindBooking {
			bookingEvents++
			require.Equal(t, "booking-b-1", ev.ID)
		}
	}
	require.Equal(t, 1, bookingEvents)

	// Availability is fetched before bookings.
	require.Equal(t, []daterange.DateRange{res.Range}, pms.calendarCalls)
	require.Equal(t, []daterange.DateRange{res.Range}, pms.bookingCalls)
}

func TestEngine_LoadPeriodSkipsCoveredRange(t *testing.T) {
	pms := newFakePMS()
	e := newEngine(pms)
	ctx := context.Background()

	_, err := e.LoadPeriod(ctx, "unit-1", day("2025-01-15"), false)
	require.NoError(t, err)
	require.Equal(t, 1, pms.calendarCallCount())

	res, err := e.LoadPeriod(ctx, "unit-1", day("2025-01-20"), false)
	require.NoError(t, err)
	require.False(t, res.Fetched)
	require.Equal(t, 1, pms.calendarCallCount())

	// force bypasses the coverage short-circuit.
	res, err = e.LoadPeriod(ctx, "unit-1", day("2025-01-20"), true)
	require.NoError(t, err)
	require.True(t, res.Fetched)
	require.Equal(t, 2, pms.calendarCallCount())
}

func TestEngine_LoadPeriodMergesAdjacentChunks(t *testing.T) {
	pms := newFakePMS()
	e := newEngine(pms)
	ctx := context.Background()

	_, err := e.LoadPeriod(ctx, "unit-1", day("2025-01-15"), false)
	require.NoError(t, err)
	_, err = e.LoadPeriod(ctx, "unit-1", day("2025-03-10"), false)
	require.NoError(t, err)

	require.Equal(t, []daterange.DateRange{span("2025-01-01", "2025-04-30")}, e.LoadedPeriods("unit-1"))
}

func TestEngine_LoadPeriodRejectsBeyondHorizon(t *testing.T) {
	pms := newFakePMS()
	e := newEngine(pms, func(c *appsync.Config) { c.MaxHorizonMonths = 12 })

	_, err := e.LoadPeriod(context.Background(), "unit-1", day("2026-06-15"), false)
	require.ErrorIs(t, err, appsync.ErrHorizonExceeded)
	require.Zero(t, pms.calendarCallCount())
}

func TestEngine_LoadPeriodFailureRecordsNothing(t *testing.T) {
	pms := newFakePMS()
	pms.calendarErr = errors.New("upstream down")
	e := newEngine(pms)
	ctx := context.Background()

	_, err := e.LoadPeriod(ctx, "unit-1", day("2025-01-15"), false)
	require.Error(t, err)
	require.Empty(t, e.LoadedPeriods("unit-1"))

	// The next navigation retries instead of trusting a failed load.
	pms.calendarErr = nil
	res, err := e.LoadPeriod(ctx, "unit-1", day("2025-01-15"), false)
	require.NoError(t, err)
	require.True(t, res.Fetched)
}

func TestEngine_ConcurrentLoadIsRefused(t *testing.T) {
	pms := newFakePMS()
	pms.block = make(chan struct{})
	e := newEngine(pms)
	ctx := context.Background()

	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		close(started)
		_, err := e.LoadPeriod(ctx, "unit-1", day("2025-01-15"), false)
		done <- err
	}()
	<-started
	// Give the goroutine time to take the busy flag and park in the fake.
	time.Sleep(20 * time.Millisecond)

	_, err := e.BulkUpdate(ctx, "unit-1", calendar.BulkIntent{
		Range:  span("2025-01-10", "2025-01-12"),
		Action: calendar.ActionBlock,
	})
	require.ErrorIs(t, err, appsync.ErrSyncInFlight)

	close(pms.block)
	require.NoError(t, <-done)
}

func TestEngine_BulkUpdateRoundTrip(t *testing.T) {
	pms := newFakePMS()
	pub := &recordingPublisher{}
	e := newEngine(pms, func(c *appsync.Config) { c.Publisher = pub })
	ctx := context.Background()

	_, err := e.LoadPeriod(ctx, "unit-1", day("2025-01-15"), false)
	require.NoError(t, err)
	callsBefore := pms.calendarCallCount()

	res, err := e.BulkUpdate(ctx, "unit-1", calendar.BulkIntent{
		Range:  span("2025-01-10", "2025-01-12"),
		Action: calendar.ActionBlock,
	})
	require.NoError(t, err)
	require.Equal(t, 3, res.Records)
	require.Equal(t, 3, res.Updated)
	require.Equal(t, 1, res.Resynced)

	// One batch went out, and only the overlapping span was re-fetched.
	require.Len(t, pms.bulkCalls, 1)
	require.Len(t, pms.bulkCalls[0], 3)
	require.Equal(t, callsBefore+1, pms.calendarCallCount())

	view, err := e.View("unit-1", span("2025-01-09", "2025-01-13"))
	require.NoError(t, err)
	byDate := make(map[string]calendar.DayAvailability)
	for _, d := range view.Days {
		byDate[daterange.FormatDay(d.Date)] = d
	}
	require.True(t, byDate["2025-01-09"].Sellable())
	require.False(t, byDate["2025-01-10"].Sellable())
	require.False(t, byDate["2025-01-12"].Sellable())
	require.True(t, byDate["2025-01-13"].Sellable())

	require.Len(t, pub.events, 1)
	require.Equal(t, calendar.UnitID("unit-1"), pub.events[0].UnitID)
	require.Equal(t, 3, pub.events[0].Records)
}

func TestEngine_BulkUpdateResyncsOnlyOverlappingSpans(t *testing.T) {
	pms := newFakePMS()
	e := newEngine(pms)
	ctx := context.Background()

	// Two disjoint loaded spans: Jan..Feb and Jun..Jul.
	_, err := e.LoadPeriod(ctx, "unit-1", day("2025-01-15"), false)
	require.NoError(t, err)
	_, err = e.LoadPeriod(ctx, "unit-1", day("2025-06-15"), false)
	require.NoError(t, err)
	require.Len(t, e.LoadedPeriods("unit-1"), 2)
	callsBefore := pms.calendarCallCount()

	res, err := e.BulkUpdate(ctx, "unit-1", calendar.BulkIntent{
		Range:  span("2025-01-10", "2025-01-12"),
		Action: calendar.ActionBlock,
	})
	require.NoError(t, err)
	require.Equal(t, 1, res.Resynced)
	require.Equal(t, callsBefore+1, pms.calendarCallCount())
	require.Equal(t, span("2025-01-01", "2025-02-28"), pms.calendarCalls[len(pms.calendarCalls)-1])
}

func TestEngine_BulkUpdateRevertsOnRemoteFailure(t *testing.T) {
	pms := newFakePMS()
	e := newEngine(pms)
	ctx := context.Background()

	_, err := e.LoadPeriod(ctx, "unit-1", day("2025-01-15"), false)
	require.NoError(t, err)

	pms.bulkErr = errors.New("upstream rejected batch")
	_, err = e.BulkUpdate(ctx, "unit-1", calendar.BulkIntent{
		Range:  span("2025-01-10", "2025-01-12"),
		Action: calendar.ActionBlock,
	})
	require.Error(t, err)

	view, err := e.View("unit-1", span("2025-01-10", "2025-01-12"))
	require.NoError(t, err)
	for _, d := range view.Days {
		require.True(t, d.Sellable(), "optimistic block must be rolled back on %s", daterange.FormatDay(d.Date))
	}
}

func TestEngine_BulkUpdateEmptyBatchSkipsNetwork(t *testing.T) {
	pms := newFakePMS()
	e := newEngine(pms)

	res, err := e.BulkUpdate(context.Background(), "unit-1", calendar.BulkIntent{
		Range:  span("2025-01-10", "2025-01-12"),
		Action: calendar.ActionSet,
	})
	require.NoError(t, err)
	require.Zero(t, res.Records)
	require.Empty(t, pms.bulkCalls)
}

func TestEngine_BulkUpdateValidationAbortsBeforeNetwork(t *testing.T) {
	pms := newFakePMS()
	e := newEngine(pms)
	price := int64(0)

	_, err := e.BulkUpdate(context.Background(), "unit-1", calendar.BulkIntent{
		Range:      span("2025-01-10", "2025-01-12"),
		Action:     calendar.ActionSet,
		PriceCents: &price,
	})
	require.ErrorIs(t, err, calendar.ErrInvalidPrice)
	require.Empty(t, pms.bulkCalls)

	units := 11 // capacity is 10
	_, err = e.BulkUpdate(context.Background(), "unit-1", calendar.BulkIntent{
		Range:  span("2025-01-10", "2025-01-12"),
		Action: calendar.ActionSet,
		Units:  &units,
	})
	require.ErrorIs(t, err, calendar.ErrInvalidUnits)
	require.Empty(t, pms.bulkCalls)
}

func TestEngine_WarmFromSnapshotAnswersWithoutFetch(t *testing.T) {
	pms := newFakePMS()
	blocked := calendar.DefaultDay(day("2025-01-20"))
	blocked.StopSell = true
	blocked.Available = false
	pms.setDay(blocked)

	store := newMemorySnapshots()
	first := newEngine(pms, func(c *appsync.Config) { c.Snapshots = store })
	ctx := context.Background()

	_, err := first.LoadPeriod(ctx, "unit-1", day("2025-01-15"), false)
	require.NoError(t, err)
	callsAfterFirst := pms.calendarCallCount()

	// A fresh engine sharing the store serves the covered range cold.
	second := newEngine(pms, func(c *appsync.Config) { c.Snapshots = store })
	res, err := second.LoadPeriod(ctx, "unit-1", day("2025-01-15"), false)
	require.NoError(t, err)
	require.False(t, res.Fetched)
	require.Equal(t, callsAfterFirst, pms.calendarCallCount())

	byDate := make(map[string]calendar.DayAvailability)
	for _, d := range res.Days {
		byDate[daterange.FormatDay(d.Date)] = d
	}
	require.False(t, byDate["2025-01-20"].Sellable())
}

func TestEngine_ViewUnknownUnit(t *testing.T) {
	e := newEngine(newFakePMS())
	_, err := e.View("ghost", span("2025-01-01", "2025-01-31"))
	require.ErrorIs(t, err, appsync.ErrUnknownUnit)
}

func TestEngine_ForgetDropsState(t *testing.T) {
	pms := newFakePMS()
	e := newEngine(pms)
	ctx := context.Background()

	_, err := e.LoadPeriod(ctx, "unit-1", day("2025-01-15"), false)
	require.NoError(t, err)
	e.Forget(ctx, "unit-1")

	require.Empty(t, e.LoadedPeriods("unit-1"))
	_, err = e.View("unit-1", span("2025-01-01", "2025-01-31"))
	require.ErrorIs(t, err, appsync.ErrUnknownUnit)
}

func TestEngine_ReconcileRefetchesEveryLoadedSpan(t *testing.T) {
	pms := newFakePMS()
	e := newEngine(pms)
	ctx := context.Background()

	_, err := e.LoadPeriod(ctx, "unit-1", day("2025-01-15"), false)
	require.NoError(t, err)
	_, err = e.LoadPeriod(ctx, "unit-2", day("2025-06-15"), false)
	require.NoError(t, err)
	callsBefore := pms.calendarCallCount()

	require.NoError(t, e.Reconcile(ctx))
	require.Equal(t, callsBefore+2, pms.calendarCallCount())
}
