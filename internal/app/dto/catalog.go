package dto

import (
	"time"

	"innsync/internal/domain/hotel"
)

type Hotel struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Name      string    `json:"name"`
	City      string    `json:"city,omitempty"`
	Country   string    `json:"country,omitempty"`
	Timezone  string    `json:"timezone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RoomType struct {
	ID                  string  `json:"id"`
	HotelID             string  `json:"hotel_id"`
	Name                string  `json:"name"`
	TotalUnits          int     `json:"total_units"`
	BasePriceCents      int64   `json:"base_price_cents"`
	WeekendSurchargePct float64 `json:"weekend_surcharge_pct"`
	MaxGuests           int     `json:"max_guests"`
}

type EventSpace struct {
	ID             string `json:"id"`
	HotelID        string `json:"hotel_id"`
	Name           string `json:"name"`
	Capacity       int    `json:"capacity"`
	BasePriceCents int64  `json:"base_price_cents"`
}

type Promotion struct {
	ID          string    `json:"id"`
	HotelID     string    `json:"hotel_id"`
	Code        string    `json:"code"`
	DiscountPct float64   `json:"discount_pct"`
	From        time.Time `json:"from"`
	To          time.Time `json:"to"`
	Active      bool      `json:"active"`
}

func MapHotel(h *hotel.Hotel) Hotel {
	return Hotel{
		ID:        string(h.ID),
		TenantID:  string(h.TenantID),
		Name:      h.Name,
		City:      h.City,
		Country:   h.Country,
		Timezone:  h.Timezone,
		CreatedAt: h.CreatedAt,
		UpdatedAt: h.UpdatedAt,
	}
}

func MapHotels(items []*hotel.Hotel) []Hotel {
	out := make([]Hotel, 0, len(items))
	for _, h := range items {
		out = append(out, MapHotel(h))
	}
	return out
}

func MapRoomType(rt *hotel.RoomType) RoomType {
	return RoomType{
		ID:                  string(rt.ID),
		HotelID:             string(rt.HotelID),
		Name:                rt.Name,
		TotalUnits:          rt.TotalUnits,
		BasePriceCents:      rt.BasePriceCents,
		WeekendSurchargePct: rt.WeekendSurchargePct,
		MaxGuests:           rt.MaxGuests,
	}
}

func MapRoomTypes(items []*hotel.RoomType) []RoomType {
	out := make([]RoomType, 0, len(items))
	for _, rt := range items {
		out = append(out, MapRoomType(rt))
	}
	return out
}

func MapEventSpace(es *hotel.EventSpace) EventSpace {
	return EventSpace{
		ID:             string(es.ID),
		HotelID:        string(es.HotelID),
		Name:           es.Name,
		Capacity:       es.Capacity,
		BasePriceCents: es.BasePriceCents,
	}
}

func MapEventSpaces(items []*hotel.EventSpace) []EventSpace {
	out := make([]EventSpace, 0, len(items))
	for _, es := range items {
		out = append(out, MapEventSpace(es))
	}
	return out
}

func MapPromotion(p *hotel.Promotion) Promotion {
	return Promotion{
		ID:          string(p.ID),
		HotelID:     string(p.HotelID),
		Code:        p.Code,
		DiscountPct: p.DiscountPct,
		From:        p.From,
		To:          p.To,
		Active:      p.Active,
	}
}

func MapPromotions(items []*hotel.Promotion) []Promotion {
	out := make([]Promotion, 0, len(items))
	for _, p := range items {
		out = append(out, MapPromotion(p))
	}
	return out
}
