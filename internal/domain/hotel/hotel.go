package hotel

import (
	"context"
	"errors"
	"strings"
	"time"

	"innsync/internal/domain/calendar"
)

var (
	ErrHotelNotFound     = errors.New("hotel: not found")
	ErrUnitNotFound      = errors.New("hotel: unit not found")
	ErrPromotionNotFound = errors.New("hotel: promotion not found")
	ErrNameRequired      = errors.New("hotel: name is required")
	ErrTenantRequired    = errors.New("hotel: tenant id is required")
	ErrInvalidCapacity   = errors.New("hotel: capacity must be positive")
	ErrInvalidBasePrice  = errors.New("hotel: base price must be positive")
	ErrInvalidPromoCode  = errors.New("hotel: promotion code is required")
	ErrInvalidDiscount   = errors.New("hotel: discount must be in (0, 100]")
	ErrInvalidPromoRange = errors.New("hotel: promotion end must be after start")
)

type HotelID string
type TenantID string

type Hotel struct {
	ID        HotelID
	TenantID  TenantID
	Name      string
	City      string
	Country   string
	Timezone  string
	CreatedAt time.Time
	UpdatedAt time.Time
	Version   int64
}

type CreateHotelParams struct {
	ID       HotelID
	TenantID TenantID
	Name     string
	City     string
	Country  string
	Timezone string
	Now      time.Time
}

func NewHotel(p CreateHotelParams) (*Hotel, error) {
	if strings.TrimSpace(string(p.TenantID)) == "" {
		return nil, ErrTenantRequired
	}
	if strings.TrimSpace(p.Name) == "" {
		return nil, ErrNameRequired
	}
	now := p.Now.UTC()
	tz := p.Timezone
	if tz == "" {
		tz = "UTC"
	}
	return &Hotel{
		ID:        p.ID,
		TenantID:  p.TenantID,
		Name:      strings.TrimSpace(p.Name),
		City:      strings.TrimSpace(p.City),
		Country:   strings.TrimSpace(p.Country),
		Timezone:  tz,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (h *Hotel) Rename(name string, now time.Time) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameRequired
	}
	h.Name = strings.TrimSpace(name)
	h.UpdatedAt = now.UTC()
	return nil
}

// RoomType is a bookable room category. TotalUnits bounds every explicit
// unit-count override on its calendar.
type RoomType struct {
	ID                  calendar.UnitID
	HotelID             HotelID
	Name                string
	TotalUnits          int
	BasePriceCents      int64
	WeekendSurchargePct float64
	MaxGuests           int
	CreatedAt           time.Time
	UpdatedAt           time.Time
	Version             int64
}

type CreateRoomTypeParams struct {
	ID                  calendar.UnitID
	HotelID             HotelID
	Name                string
	TotalUnits          int
	BasePriceCents      int64
	WeekendSurchargePct float64
	MaxGuests           int
	Now                 time.Time
}

func NewRoomType(p CreateRoomTypeParams) (*RoomType, error) {
	if strings.TrimSpace(p.Name) == "" {
		return nil, ErrNameRequired
	}
	if p.TotalUnits <= 0 {
		return nil, ErrInvalidCapacity
	}
	if p.BasePriceCents <= 0 {
		return nil, ErrInvalidBasePrice
	}
	now := p.Now.UTC()
	guests := p.MaxGuests
	if guests <= 0 {
		guests = 2
	}
	return &RoomType{
		ID:                  p.ID,
		HotelID:             p.HotelID,
		Name:                strings.TrimSpace(p.Name),
		TotalUnits:          p.TotalUnits,
		BasePriceCents:      p.BasePriceCents,
		WeekendSurchargePct: p.WeekendSurchargePct,
		MaxGuests:           guests,
		CreatedAt:           now,
		UpdatedAt:           now,
	}, nil
}

// NightlyPriceCents resolves the effective price for one day: the override
// when present, otherwise the base price with the weekend surcharge applied
// on Friday and Saturday nights.
func (rt *RoomType) NightlyPriceCents(day time.Time, override *int64) int64 {
	if override != nil {
		return *override
	}
	price := rt.BasePriceCents
	switch day.UTC().Weekday() {
	case time.Friday, time.Saturday:
		price += int64(float64(price) * rt.WeekendSurchargePct / 100)
	}
	return price
}

// EventSpace is a bookable venue (conference room, hall) on the same
// calendar machinery as room types.
type EventSpace struct {
	ID             calendar.UnitID
	HotelID        HotelID
	Name           string
	Capacity       int
	BasePriceCents int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Version        int64
}

type CreateEventSpaceParams struct {
	ID             calendar.UnitID
	HotelID        HotelID
	Name           string
	Capacity       int
	BasePriceCents int64
	Now            time.Time
}

func NewEventSpace(p CreateEventSpaceParams) (*EventSpace, error) {
	if strings.TrimSpace(p.Name) == "" {
		return nil, ErrNameRequired
	}
	if p.Capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	if p.BasePriceCents <= 0 {
		return nil, ErrInvalidBasePrice
	}
	now := p.Now.UTC()
	return &EventSpace{
		ID:             p.ID,
		HotelID:        p.HotelID,
		Name:           strings.TrimSpace(p.Name),
		Capacity:       p.Capacity,
		BasePriceCents: p.BasePriceCents,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

type PromotionID string

type Promotion struct {
	ID          PromotionID
	HotelID     HotelID
	Code        string
	DiscountPct float64
	From        time.Time
	To          time.Time
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Version     int64
}

type CreatePromotionParams struct {
	ID          PromotionID
	HotelID     HotelID
	Code        string
	DiscountPct float64
	From        time.Time
	To          time.Time
	Now         time.Time
}

func NewPromotion(p CreatePromotionParams) (*Promotion, error) {
	code := strings.ToUpper(strings.TrimSpace(p.Code))
	if code == "" {
		return nil, ErrInvalidPromoCode
	}
	if p.DiscountPct <= 0 || p.DiscountPct > 100 {
		return nil, ErrInvalidDiscount
	}
	if !p.To.After(p.From) {
		return nil, ErrInvalidPromoRange
	}
	now := p.Now.UTC()
	return &Promotion{
		ID:          p.ID,
		HotelID:     p.HotelID,
		Code:        code,
		DiscountPct: p.DiscountPct,
		From:        p.From.UTC(),
		To:          p.To.UTC(),
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// AppliesOn reports whether the promotion discounts a stay on the given day.
func (p *Promotion) AppliesOn(day time.Time) bool {
	if !p.Active {
		return false
	}
	d := day.UTC()
	return !d.Before(p.From) && d.Before(p.To)
}

// DiscountedCents applies the promotion percentage to a price.
func (p *Promotion) DiscountedCents(priceCents int64) int64 {
	return priceCents - int64(float64(priceCents)*p.DiscountPct/100)
}

func (p *Promotion) Deactivate(now time.Time) {
	p.Active = false
	p.UpdatedAt = now.UTC()
}

type HotelRepository interface {
	ByID(ctx context.Context, id HotelID) (*Hotel, error)
	Save(ctx context.Context, h *Hotel) error
	ListByTenant(ctx context.Context, tenant TenantID) ([]*Hotel, error)
}

type RoomTypeRepository interface {
	ByID(ctx context.Context, id calendar.UnitID) (*RoomType, error)
	Save(ctx context.Context, rt *RoomType) error
	ListByHotel(ctx context.Context, hotel HotelID) ([]*RoomType, error)
}

type EventSpaceRepository interface {
	ByID(ctx context.Context, id calendar.UnitID) (*EventSpace, error)
	Save(ctx context.Context, es *EventSpace) error
	ListByHotel(ctx context.Context, hotel HotelID) ([]*EventSpace, error)
}

type PromotionRepository interface {
	ByID(ctx context.Context, id PromotionID) (*Promotion, error)
	Save(ctx context.Context, p *Promotion) error
	ListByHotel(ctx context.Context, hotel HotelID) ([]*Promotion, error)
}
