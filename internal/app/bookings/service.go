package bookings

import (
	"context"
	"fmt"
	"log/slog"

	"innsync/internal/domain/booking"
	"innsync/internal/domain/calendar"
	"innsync/internal/domain/shared/daterange"
)

// PMS is the booking slice of the upstream API.
type PMS interface {
	BookingsRange(ctx context.Context, unitID calendar.UnitID, r daterange.DateRange) ([]booking.Slot, error)
	SetBookingStatus(ctx context.Context, id booking.SlotID, status booking.Status) error
}

// Service reads booking slots from the PMS and drives status transitions
// through it. Nothing booking-related is stored locally.
type Service struct {
	pms    PMS
	logger *slog.Logger
}

func NewService(pms PMS, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{pms: pms, logger: logger}
}

func (s *Service) ListByUnit(ctx context.Context, unitID calendar.UnitID, r daterange.DateRange) ([]booking.Slot, error) {
	return s.pms.BookingsRange(ctx, unitID, r)
}

// Transition moves a booking to the target status. When the caller knows the
// current status, the transition is validated locally before the round-trip,
// matching the fail-fast behavior of the other mutation flows.
func (s *Service) Transition(ctx context.Context, id booking.SlotID, current string, target booking.Status) error {
	if current != "" {
		cur, ok := booking.ParseStatus(current)
		if !ok {
			return fmt.Errorf("bookings: unknown current status %q", current)
		}
		if err := (booking.Slot{ID: id, Status: cur}).Validate(target); err != nil {
			return err
		}
	}
	if err := s.pms.SetBookingStatus(ctx, id, target); err != nil {
		return err
	}
	s.logger.Info("booking status changed", "booking_id", id, "status", target)
	return nil
}
