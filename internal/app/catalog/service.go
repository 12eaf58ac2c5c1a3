package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"innsync/internal/domain/calendar"
	"innsync/internal/domain/hotel"
)

// Service owns the management catalog: hotels, room types, event spaces and
// promotions. It also resolves unit capacities for the sync engine's
// mutation validation.
type Service struct {
	hotels      hotel.HotelRepository
	roomTypes   hotel.RoomTypeRepository
	eventSpaces hotel.EventSpaceRepository
	promotions  hotel.PromotionRepository
	logger      *slog.Logger
	now         func() time.Time
}

type Repositories struct {
	Hotels      hotel.HotelRepository
	RoomTypes   hotel.RoomTypeRepository
	EventSpaces hotel.EventSpaceRepository
	Promotions  hotel.PromotionRepository
}

func NewService(repos Repositories, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		hotels:      repos.Hotels,
		roomTypes:   repos.RoomTypes,
		eventSpaces: repos.EventSpaces,
		promotions:  repos.Promotions,
		logger:      logger,
		now:         time.Now,
	}
}

// UnitCapacity looks a unit up as a room type first, then as an event space.
func (s *Service) UnitCapacity(ctx context.Context, id calendar.UnitID) (int, error) {
	if rt, err := s.roomTypes.ByID(ctx, id); err == nil {
		return rt.TotalUnits, nil
	}
	if es, err := s.eventSpaces.ByID(ctx, id); err == nil {
		return es.Capacity, nil
	}
	return 0, fmt.Errorf("%w: %s", hotel.ErrUnitNotFound, id)
}

type CreateHotelInput struct {
	TenantID string
	Name     string
	City     string
	Country  string
	Timezone string
}

func (s *Service) CreateHotel(ctx context.Context, in CreateHotelInput) (*hotel.Hotel, error) {
	h, err := hotel.NewHotel(hotel.CreateHotelParams{
		ID:       hotel.HotelID(uuid.NewString()),
		TenantID: hotel.TenantID(in.TenantID),
		Name:     in.Name,
		City:     in.City,
		Country:  in.Country,
		Timezone: in.Timezone,
		Now:      s.now(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.hotels.Save(ctx, h); err != nil {
		return nil, err
	}
	s.logger.Info("hotel created", "hotel_id", h.ID, "tenant_id", h.TenantID)
	return h, nil
}

func (s *Service) Hotel(ctx context.Context, id hotel.HotelID) (*hotel.Hotel, error) {
	return s.hotels.ByID(ctx, id)
}

func (s *Service) HotelsByTenant(ctx context.Context, tenant hotel.TenantID) ([]*hotel.Hotel, error) {
	return s.hotels.ListByTenant(ctx, tenant)
}

func (s *Service) RenameHotel(ctx context.Context, id hotel.HotelID, name string) (*hotel.Hotel, error) {
	h, err := s.hotels.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := h.Rename(name, s.now()); err != nil {
		return nil, err
	}
	if err := s.hotels.Save(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

type CreateRoomTypeInput struct {
	HotelID             string
	Name                string
	TotalUnits          int
	BasePriceCents      int64
	WeekendSurchargePct float64
	MaxGuests           int
}

func (s *Service) CreateRoomType(ctx context.Context, in CreateRoomTypeInput) (*hotel.RoomType, error) {
	if _, err := s.hotels.ByID(ctx, hotel.HotelID(in.HotelID)); err != nil {
		return nil, err
	}
	rt, err := hotel.NewRoomType(hotel.CreateRoomTypeParams{
		ID:                  calendar.UnitID(uuid.NewString()),
		HotelID:             hotel.HotelID(in.HotelID),
		Name:                in.Name,
		TotalUnits:          in.TotalUnits,
		BasePriceCents:      in.BasePriceCents,
		WeekendSurchargePct: in.WeekendSurchargePct,
		MaxGuests:           in.MaxGuests,
		Now:                 s.now(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.roomTypes.Save(ctx, rt); err != nil {
		return nil, err
	}
	s.logger.Info("room type created", "room_type_id", rt.ID, "hotel_id", rt.HotelID)
	return rt, nil
}

func (s *Service) RoomType(ctx context.Context, id calendar.UnitID) (*hotel.RoomType, error) {
	return s.roomTypes.ByID(ctx, id)
}

func (s *Service) RoomTypesByHotel(ctx context.Context, id hotel.HotelID) ([]*hotel.RoomType, error) {
	return s.roomTypes.ListByHotel(ctx, id)
}

type CreateEventSpaceInput struct {
	HotelID        string
	Name           string
	Capacity       int
	BasePriceCents int64
}

func (s *Service) CreateEventSpace(ctx context.Context, in CreateEventSpaceInput) (*hotel.EventSpace, error) {
	if _, err := s.hotels.ByID(ctx, hotel.HotelID(in.HotelID)); err != nil {
		return nil, err
	}
	es, err := hotel.NewEventSpace(hotel.CreateEventSpaceParams{
		ID:             calendar.UnitID(uuid.NewString()),
		HotelID:        hotel.HotelID(in.HotelID),
		Name:           in.Name,
		Capacity:       in.Capacity,
		BasePriceCents: in.BasePriceCents,
		Now:            s.now(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.eventSpaces.Save(ctx, es); err != nil {
		return nil, err
	}
	s.logger.Info("event space created", "event_space_id", es.ID, "hotel_id", es.HotelID)
	return es, nil
}

func (s *Service) EventSpace(ctx context.Context, id calendar.UnitID) (*hotel.EventSpace, error) {
	return s.eventSpaces.ByID(ctx, id)
}

func (s *Service) EventSpacesByHotel(ctx context.Context, id hotel.HotelID) ([]*hotel.EventSpace, error) {
	return s.eventSpaces.ListByHotel(ctx, id)
}

type CreatePromotionInput struct {
	HotelID     string
	Code        string
	DiscountPct float64
	From        time.Time
	To          time.Time
}

func (s *Service) CreatePromotion(ctx context.Context, in CreatePromotionInput) (*hotel.Promotion, error) {
	if _, err := s.hotels.ByID(ctx, hotel.HotelID(in.HotelID)); err != nil {
		return nil, err
	}
	p, err := hotel.NewPromotion(hotel.CreatePromotionParams{
		ID:          hotel.PromotionID(uuid.NewString()),
		HotelID:     hotel.HotelID(in.HotelID),
		Code:        in.Code,
		DiscountPct: in.DiscountPct,
		From:        in.From,
		To:          in.To,
		Now:         s.now(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.promotions.Save(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("promotion created", "promotion_id", p.ID, "code", p.Code)
	return p, nil
}

func (s *Service) PromotionsByHotel(ctx context.Context, id hotel.HotelID) ([]*hotel.Promotion, error) {
	return s.promotions.ListByHotel(ctx, id)
}

func (s *Service) DeactivatePromotion(ctx context.Context, id hotel.PromotionID) (*hotel.Promotion, error) {
	p, err := s.promotions.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Deactivate(s.now())
	if err := s.promotions.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
