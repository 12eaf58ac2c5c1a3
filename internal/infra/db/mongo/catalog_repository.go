package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"innsync/internal/domain/calendar"
	"innsync/internal/domain/hotel"
)

var ErrConcurrentUpdate = errors.New("mongo: concurrent update detected")

// versionedSave performs the optimistic upsert every catalog repository
// shares: the filter pins the stored version, the write bumps it.
func versionedSave(ctx context.Context, col *mongo.Collection, id string, version int64, doc any) (int64, error) {
	filter := bson.M{"_id": id, "version": version}
	next := version + 1
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)
	res, err := col.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return version, ErrConcurrentUpdate
		}
		return version, err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return version, ErrConcurrentUpdate
	}
	return next, nil
}

type HotelRepository struct {
	col *mongo.Collection
}

func NewHotelRepository(db *mongo.Database) *HotelRepository {
	return &HotelRepository{col: db.Collection("cat_hotel")}
}

type hotelDocument struct {
	ID        string `bson:"_id"`
	TenantID  string `bson:"tenant_id"`
	Name      string `bson:"name"`
	City      string `bson:"city"`
	Country   string `bson:"country"`
	Timezone  string `bson:"timezone"`
	CreatedAt int64  `bson:"created_at"`
	UpdatedAt int64  `bson:"updated_at"`
	Version   int64  `bson:"version"`
}

func (r *HotelRepository) ByID(ctx context.Context, id hotel.HotelID) (*hotel.Hotel, error) {
	var doc hotelDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, hotel.ErrHotelNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *HotelRepository) Save(ctx context.Context, h *hotel.Hotel) error {
	doc := hotelDocument{
		ID:        string(h.ID),
		TenantID:  string(h.TenantID),
		Name:      h.Name,
		City:      h.City,
		Country:   h.Country,
		Timezone:  h.Timezone,
		CreatedAt: h.CreatedAt.UnixMilli(),
		UpdatedAt: h.UpdatedAt.UnixMilli(),
		Version:   h.Version + 1,
	}
	next, err := versionedSave(ctx, r.col, doc.ID, h.Version, doc)
	if err != nil {
		return err
	}
	h.Version = next
	return nil
}

func (r *HotelRepository) ListByTenant(ctx context.Context, tenant hotel.TenantID) ([]*hotel.Hotel, error) {
	cursor, err := r.col.Find(ctx, bson.M{"tenant_id": string(tenant)})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []*hotel.Hotel
	for cursor.Next(ctx) {
		var doc hotelDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toDomain())
	}
	return out, cursor.Err()
}

func (d hotelDocument) toDomain() *hotel.Hotel {
	return &hotel.Hotel{
		ID:        hotel.HotelID(d.ID),
		TenantID:  hotel.TenantID(d.TenantID),
		Name:      d.Name,
		City:      d.City,
		Country:   d.Country,
		Timezone:  d.Timezone,
		CreatedAt: millisToTime(d.CreatedAt),
		UpdatedAt: millisToTime(d.UpdatedAt),
		Version:   d.Version,
	}
}

type RoomTypeRepository struct {
	col *mongo.Collection
}

func NewRoomTypeRepository(db *mongo.Database) *RoomTypeRepository {
	return &RoomTypeRepository{col: db.Collection("cat_room_type")}
}

type roomTypeDocument struct {
	ID                  string  `bson:"_id"`
	HotelID             string  `bson:"hotel_id"`
	Name                string  `bson:"name"`
	TotalUnits          int     `bson:"total_units"`
	BasePriceCents      int64   `bson:"base_price_cents"`
	WeekendSurchargePct float64 `bson:"weekend_surcharge_pct"`
	MaxGuests           int     `bson:"max_guests"`
	CreatedAt           int64   `bson:"created_at"`
	UpdatedAt           int64   `bson:"updated_at"`
	Version             int64   `bson:"version"`
}

func (r *RoomTypeRepository) ByID(ctx context.Context, id calendar.UnitID) (*hotel.RoomType, error) {
	var doc roomTypeDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, hotel.ErrUnitNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *RoomTypeRepository) Save(ctx context.Context, rt *hotel.RoomType) error {
	doc := roomTypeDocument{
		ID:                  string(rt.ID),
		HotelID:             string(rt.HotelID),
		Name:                rt.Name,
		TotalUnits:          rt.TotalUnits,
		BasePriceCents:      rt.BasePriceCents,
		WeekendSurchargePct: rt.WeekendSurchargePct,
		MaxGuests:           rt.MaxGuests,
		CreatedAt:           rt.CreatedAt.UnixMilli(),
		UpdatedAt:           rt.UpdatedAt.UnixMilli(),
		Version:             rt.Version + 1,
	}
	next, err := versionedSave(ctx, r.col, doc.ID, rt.Version, doc)
	if err != nil {
		return err
	}
	rt.Version = next
	return nil
}

func (r *RoomTypeRepository) ListByHotel(ctx context.Context, id hotel.HotelID) ([]*hotel.RoomType, error) {
	cursor, err := r.col.Find(ctx, bson.M{"hotel_id": string(id)})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []*hotel.RoomType
	for cursor.Next(ctx) {
		var doc roomTypeDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toDomain())
	}
	return out, cursor.Err()
}

func (d roomTypeDocument) toDomain() *hotel.RoomType {
	return &hotel.RoomType{
		ID:                  calendar.UnitID(d.ID),
		HotelID:             hotel.HotelID(d.HotelID),
		Name:                d.Name,
		TotalUnits:          d.TotalUnits,
		BasePriceCents:      d.BasePriceCents,
		WeekendSurchargePct: d.WeekendSurchargePct,
		MaxGuests:           d.MaxGuests,
		CreatedAt:           millisToTime(d.CreatedAt),
		UpdatedAt:           millisToTime(d.UpdatedAt),
		Version:             d.Version,
	}
}

type EventSpaceRepository struct {
	col *mongo.Collection
}

func NewEventSpaceRepository(db *mongo.Database) *EventSpaceRepository {
	return &EventSpaceRepository{col: db.Collection("cat_event_space")}
}

type eventSpaceDocument struct {
	ID             string `bson:"_id"`
	HotelID        string `bson:"hotel_id"`
	Name           string `bson:"name"`
	Capacity       int    `bson:"capacity"`
	BasePriceCents int64  `bson:"base_price_cents"`
	CreatedAt      int64  `bson:"created_at"`
	UpdatedAt      int64  `bson:"updated_at"`
	Version        int64  `bson:"version"`
}

func (r *EventSpaceRepository) ByID(ctx context.Context, id calendar.UnitID) (*hotel.EventSpace, error) {
	var doc eventSpaceDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, hotel.ErrUnitNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *EventSpaceRepository) Save(ctx context.Context, es *hotel.EventSpace) error {
	doc := eventSpaceDocument{
		ID:             string(es.ID),
		HotelID:        string(es.HotelID),
		Name:           es.Name,
		Capacity:       es.Capacity,
		BasePriceCents: es.BasePriceCents,
		CreatedAt:      es.CreatedAt.UnixMilli(),
		UpdatedAt:      es.UpdatedAt.UnixMilli(),
		Version:        es.Version + 1,
	}
	next, err := versionedSave(ctx, r.col, doc.ID, es.Version, doc)
	if err != nil {
		return err
	}
	es.Version = next
	return nil
}

func (r *EventSpaceRepository) ListByHotel(ctx context.Context, id hotel.HotelID) ([]*hotel.EventSpace, error) {
	cursor, err := r.col.Find(ctx, bson.M{"hotel_id": string(id)})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []*hotel.EventSpace
	for cursor.Next(ctx) {
		var doc eventSpaceDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toDomain())
	}
	return out, cursor.Err()
}

func (d eventSpaceDocument) toDomain() *hotel.EventSpace {
	return &hotel.EventSpace{
		ID:             calendar.UnitID(d.ID),
		HotelID:        hotel.HotelID(d.HotelID),
		Name:           d.Name,
		Capacity:       d.Capacity,
		BasePriceCents: d.BasePriceCents,
		CreatedAt:      millisToTime(d.CreatedAt),
		UpdatedAt:      millisToTime(d.UpdatedAt),
		Version:        d.Version,
	}
}

type PromotionRepository struct {
	col *mongo.Collection
}

func NewPromotionRepository(db *mongo.Database) *PromotionRepository {
	return &PromotionRepository{col: db.Collection("cat_promotion")}
}

type promotionDocument struct {
	ID          string  `bson:"_id"`
	HotelID     string  `bson:"hotel_id"`
	Code        string  `bson:"code"`
	DiscountPct float64 `bson:"discount_pct"`
	From        int64   `bson:"from"`
	To          int64   `bson:"to"`
	Active      bool    `bson:"active"`
	CreatedAt   int64   `bson:"created_at"`
	UpdatedAt   int64   `bson:"updated_at"`
	Version     int64   `bson:"version"`
}

func (r *PromotionRepository) ByID(ctx context.Context, id hotel.PromotionID) (*hotel.Promotion, error) {
	var doc promotionDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, hotel.ErrPromotionNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *PromotionRepository) Save(ctx context.Context, p *hotel.Promotion) error {
	doc := promotionDocument{
		ID:          string(p.ID),
		HotelID:     string(p.HotelID),
		Code:        p.Code,
		DiscountPct: p.DiscountPct,
		From:        p.From.UnixMilli(),
		To:          p.To.UnixMilli(),
		Active:      p.Active,
		CreatedAt:   p.CreatedAt.UnixMilli(),
		UpdatedAt:   p.UpdatedAt.UnixMilli(),
		Version:     p.Version + 1,
	}
	next, err := versionedSave(ctx, r.col, doc.ID, p.Version, doc)
	if err != nil {
		return err
	}
	p.Version = next
	return nil
}

func (r *PromotionRepository) ListByHotel(ctx context.Context, id hotel.HotelID) ([]*hotel.Promotion, error) {
	cursor, err := r.col.Find(ctx, bson.M{"hotel_id": string(id)})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []*hotel.Promotion
	for cursor.Next(ctx) {
		var doc promotionDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toDomain())
	}
	return out, cursor.Err()
}

func (d promotionDocument) toDomain() *hotel.Promotion {
	return &hotel.Promotion{
		ID:          hotel.PromotionID(d.ID),
		HotelID:     hotel.HotelID(d.HotelID),
		Code:        d.Code,
		DiscountPct: d.DiscountPct,
		From:        millisToTime(d.From),
		To:          millisToTime(d.To),
		Active:      d.Active,
		CreatedAt:   millisToTime(d.CreatedAt),
		UpdatedAt:   millisToTime(d.UpdatedAt),
		Version:     d.Version,
	}
}

func millisToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
