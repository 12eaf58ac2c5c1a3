package sync

import (
	"context"
	"fmt"

	"innsync/internal/domain/calendar"
	"innsync/internal/domain/shared/daterange"
)

// BulkResult summarizes one bulk mutation round-trip.
type BulkResult struct {
	Records  int
	Updated  int
	Resynced int
}

// BulkUpdate validates and expands the intent, applies it optimistically,
// pushes the batch upstream, and re-fetches every loaded period overlapping
// the mutated range so server-derived fields (weekend pricing and the like)
// replace the optimistic guess.
//
// A remote failure restores the pre-mutation snapshot before returning, so
// the local mirror never drifts on a failed write.
func (e *Engine) BulkUpdate(ctx context.Context, unitID calendar.UnitID, intent calendar.BulkIntent) (BulkResult, error) {
	capacity, err := e.capacity.UnitCapacity(ctx, unitID)
	if err != nil {
		return BulkResult{}, fmt.Errorf("sync: resolve capacity: %w", err)
	}
	updates, err := calendar.ComposeUpdates(intent, capacity)
	if err != nil {
		return BulkResult{}, err
	}
	if len(updates) == 0 {
		return BulkResult{}, nil
	}

	state := e.state(ctx, unitID)

	e.mu.Lock()
	if state.busy {
		e.mu.Unlock()
		return BulkResult{}, ErrSyncInFlight
	}
	state.busy = true
	snapshot := state.cal.Snapshot()
	state.cal.ApplyUpdates(updates)
	e.mu.Unlock()

	defer e.release(state)

	updated, err := e.pms.BulkUpdate(ctx, unitID, updates)
	if err != nil {
		e.mu.Lock()
		state.cal.Restore(snapshot)
		e.mu.Unlock()
		return BulkResult{}, fmt.Errorf("sync: bulk update %s: %w", intent.Range, err)
	}

	e.publish(ctx, unitID, intent.Range, len(updates))

	e.mu.Lock()
	spans := state.cal.Periods.Overlapping(intent.Range)
	e.mu.Unlock()

	resynced := 0
	for _, span := range spans {
		if err := e.fetchRange(ctx, unitID, state, span); err != nil {
			// The write already landed; a failed re-fetch only leaves the
			// optimistic state in place until the next load heals it.
			e.logger.Warn("post-mutation resync failed", "unit_id", unitID, "span", span.String(), "error", err)
			continue
		}
		resynced++
	}
	e.saveSnapshot(ctx, unitID, state)

	return BulkResult{Records: len(updates), Updated: updated, Resynced: resynced}, nil
}

// Reconcile re-fetches every loaded span of every unit with force semantics.
// The cron sweep uses it to heal optimistic drift accumulated during the day.
func (e *Engine) Reconcile(ctx context.Context) error {
	e.mu.Lock()
	ids := make([]calendar.UnitID, 0, len(e.units))
	for id := range e.units {
		ids = append(ids, id)
	}
	e.mu.Unlock()

	var firstErr error
	for _, id := range ids {
		if err := e.reconcileUnit(ctx, id); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (e *Engine) reconcileUnit(ctx context.Context, unitID calendar.UnitID) error {
	e.mu.Lock()
	state, ok := e.units[unitID]
	if !ok {
		e.mu.Unlock()
		return nil
	}
	if state.busy {
		e.mu.Unlock()
		return ErrSyncInFlight
	}
	state.busy = true
	spans := state.cal.Periods.Spans()
	e.mu.Unlock()

	defer e.release(state)

	var firstErr error
	for _, span := range spans {
		if err := e.fetchRange(ctx, unitID, state, span); err != nil {
			e.logger.Warn("reconcile fetch failed", "unit_id", unitID, "span", span.String(), "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	e.saveSnapshot(ctx, unitID, state)
	return firstErr
}

func (e *Engine) publish(ctx context.Context, unitID calendar.UnitID, rng daterange.DateRange, records int) {
	if e.publisher == nil {
		return
	}
	event := calendar.AvailabilityUpdated{
		UnitID:  unitID,
		From:    rng.Start,
		To:      rng.End,
		Records: records,
		At:      e.now().UTC(),
	}
	if err := e.publisher.PublishAvailabilityUpdated(ctx, event); err != nil {
		e.logger.Warn("availability event publish failed", "unit_id", unitID, "error", err)
	}
}
