package calendar

import (
	"errors"
	"fmt"
	"time"

	"innsync/internal/domain/shared/daterange"
)

var (
	ErrInvalidPrice = errors.New("calendar: price override must be positive")
	ErrInvalidUnits = errors.New("calendar: available units out of range")
)

// Action is the manager's edit intent for a date range.
type Action string

const (
	// ActionSet only applies the explicitly supplied price and/or unit values.
	ActionSet Action = "set"
	// ActionBlock closes the days for sale and discards any special price.
	ActionBlock Action = "block"
	// ActionUnblock reopens the days, reverting price and units unless
	// explicit values accompany the unblock.
	ActionUnblock Action = "unblock"
)

// BulkIntent captures one edit operation over an inclusive date range.
// Nil pointer fields mean the manager left that input empty. Reset supersedes
// every other field.
type BulkIntent struct {
	Range      daterange.DateRange
	Action     Action
	Reset      bool
	PriceCents *int64
	Units      *int
}

// DayUpdate is one network-ready per-date mutation record. Cleared fields
// (ClearPrice, ClearUnits) serialize as explicit nulls so the upstream drops
// the stored value rather than leaving it untouched.
type DayUpdate struct {
	Date       time.Time
	Reset      bool
	StopSell   *bool
	Units      *int
	ClearUnits bool
	PriceCents *int64
	ClearPrice bool
}

// IsNoop reports whether the record carries nothing beyond its date.
func (u DayUpdate) IsNoop() bool {
	return !u.Reset && u.StopSell == nil &&
		u.Units == nil && !u.ClearUnits &&
		u.PriceCents == nil && !u.ClearPrice
}

// ComposeUpdates expands an intent into one update record per day.
//
// Validation runs once on the scalar inputs before any expansion, so a bad
// price or unit count aborts the whole operation. capacity bounds the unit
// count (a unit can never oversell its physical inventory). Records that
// would change nothing are dropped from the batch.
func ComposeUpdates(intent BulkIntent, capacity int) ([]DayUpdate, error) {
	if err := intent.Range.Validate(); err != nil {
		return nil, err
	}
	if intent.PriceCents != nil && *intent.PriceCents <= 0 {
		return nil, ErrInvalidPrice
	}
	if intent.Units != nil {
		if *intent.Units < 0 || *intent.Units > capacity {
			return nil, fmt.Errorf("%w: %d not in [0, %d]", ErrInvalidUnits, *intent.Units, capacity)
		}
	}

	updates := make([]DayUpdate, 0, intent.Range.Days())
	intent.Range.EachDay(func(day time.Time) {
		u := composeDay(intent, day)
		if u.IsNoop() {
			return
		}
		updates = append(updates, u)
	})
	return updates, nil
}

func composeDay(intent BulkIntent, day time.Time) DayUpdate {
	u := DayUpdate{Date: day}
	if intent.Reset {
		u.Reset = true
		return u
	}

	switch intent.Action {
	case ActionBlock:
		// Blocking always clears any special price, even one typed in the
		// same operation.
		u.StopSell = boolPtr(true)
		u.Units = intPtr(0)
		u.ClearPrice = true
		return u
	case ActionUnblock:
		u.StopSell = boolPtr(false)
		if intent.PriceCents != nil {
			u.PriceCents = int64Ptr(*intent.PriceCents)
		} else {
			u.ClearPrice = true
		}
		if intent.Units != nil {
			u.Units = intPtr(*intent.Units)
		} else {
			u.ClearUnits = true
		}
		return u
	default:
		if intent.Units != nil {
			u.Units = intPtr(*intent.Units)
			u.StopSell = boolPtr(*intent.Units == 0)
		}
		if intent.PriceCents != nil {
			u.PriceCents = int64Ptr(*intent.PriceCents)
		}
		return u
	}
}

func boolPtr(v bool) *bool    { return &v }
func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }
