package memory

import (
	"context"
	"sort"
	"sync"

	"innsync/internal/domain/calendar"
	"innsync/internal/domain/hotel"
)

// HotelRepository is an in-memory implementation for tests and local runs.
type HotelRepository struct {
	mu    sync.RWMutex
	items map[hotel.HotelID]*hotel.Hotel
}

func NewHotelRepository() *HotelRepository {
	return &HotelRepository{items: make(map[hotel.HotelID]*hotel.Hotel)}
}

func (r *HotelRepository) ByID(ctx context.Context, id hotel.HotelID) (*hotel.Hotel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.items[id]
	if !ok {
		return nil, hotel.ErrHotelNotFound
	}
	return h, nil
}

func (r *HotelRepository) Save(ctx context.Context, h *hotel.Hotel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	h.Version++
	r.items[h.ID] = h
	return nil
}

func (r *HotelRepository) ListByTenant(ctx context.Context, tenant hotel.TenantID) ([]*hotel.Hotel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*hotel.Hotel
	for _, h := range r.items {
		if h.TenantID == tenant {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// RoomTypeRepository keeps room types in memory.
type RoomTypeRepository struct {
	mu    sync.RWMutex
	items map[calendar.UnitID]*hotel.RoomType
}

func NewRoomTypeRepository() *RoomTypeRepository {
	return &RoomTypeRepository{items: make(map[calendar.UnitID]*hotel.RoomType)}
}

func (r *RoomTypeRepository) ByID(ctx context.Context, id calendar.UnitID) (*hotel.RoomType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rt, ok := r.items[id]
	if !ok {
		return nil, hotel.ErrUnitNotFound
	}
	return rt, nil
}

func (r *RoomTypeRepository) Save(ctx context.Context, rt *hotel.RoomType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rt.Version++
	r.items[rt.ID] = rt
	return nil
}

func (r *RoomTypeRepository) ListByHotel(ctx context.Context, id hotel.HotelID) ([]*hotel.RoomType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*hotel.RoomType
	for _, rt := range r.items {
		if rt.HotelID == id {
			out = append(out, rt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// EventSpaceRepository keeps event spaces in memory.
type EventSpaceRepository struct {
	mu    sync.RWMutex
	items map[calendar.UnitID]*hotel.EventSpace
}

func NewEventSpaceRepository() *EventSpaceRepository {
	return &EventSpaceRepository{items: make(map[calendar.UnitID]*hotel.EventSpace)}
}

func (r *EventSpaceRepository) ByID(ctx context.Context, id calendar.UnitID) (*hotel.EventSpace, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	es, ok := r.items[id]
	if !ok {
		return nil, hotel.ErrUnitNotFound
	}
	return es, nil
}

func (r *EventSpaceRepository) Save(ctx context.Context, es *hotel.EventSpace) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	es.Version++
	r.items[es.ID] = es
	return nil
}

func (r *EventSpaceRepository) ListByHotel(ctx context.Context, id hotel.HotelID) ([]*hotel.EventSpace, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*hotel.EventSpace
	for _, es := range r.items {
		if es.HotelID == id {
			out = append(out, es)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// PromotionRepository keeps promotions in memory.
type PromotionRepository struct {
	mu    sync.RWMutex
	items map[hotel.PromotionID]*hotel.Promotion
}

func NewPromotionRepository() *PromotionRepository {
	return &PromotionRepository{items: make(map[hotel.PromotionID]*hotel.Promotion)}
}

func (r *PromotionRepository) ByID(ctx context.Context, id hotel.PromotionID) (*hotel.Promotion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.items[id]
	if !ok {
		return nil, hotel.ErrPromotionNotFound
	}
	return p, nil
}

func (r *PromotionRepository) Save(ctx context.Context, p *hotel.Promotion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.Version++
	r.items[p.ID] = p
	return nil
}

func (r *PromotionRepository) ListByHotel(ctx context.Context, id hotel.HotelID) ([]*hotel.Promotion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*hotel.Promotion
	for _, p := range r.items {
		if p.HotelID == id {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}
