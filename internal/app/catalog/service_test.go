package catalog_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"innsync/internal/app/catalog"
	"innsync/internal/domain/hotel"
	"innsync/internal/infra/storage/memory"
)

func newService() *catalog.Service {
	return catalog.NewService(catalog.Repositories{
		Hotels:      memory.NewHotelRepository(),
		RoomTypes:   memory.NewRoomTypeRepository(),
		EventSpaces: memory.NewEventSpaceRepository(),
		Promotions:  memory.NewPromotionRepository(),
	}, nil)
}

func createHotel(t *testing.T, svc *catalog.Service) *hotel.Hotel {
	t.Helper()
	h, err := svc.CreateHotel(context.Background(), catalog.CreateHotelInput{
		TenantID: "tenant-1",
		Name:     "Seaside Grand",
		City:     "Lisbon",
		Country:  "PT",
	})
	require.NoError(t, err)
	return h
}

func TestService_CreateAndFetchHotel(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	h := createHotel(t, svc)
	require.NotEmpty(t, h.ID)

	got, err := svc.Hotel(ctx, h.ID)
	require.NoError(t, err)
	require.Equal(t, "Seaside Grand", got.Name)

	listed, err := svc.HotelsByTenant(ctx, "tenant-1")
	require.NoError(t, err)
	require.Len(t, listed, 1)

	_, err = svc.Hotel(ctx, "missing")
	require.ErrorIs(t, err, hotel.ErrHotelNotFound)
}

func TestService_RenameHotel(t *testing.T) {
	svc := newService()
	h := createHotel(t, svc)

	renamed, err := svc.RenameHotel(context.Background(), h.ID, "Seaside Palace")
	require.NoError(t, err)
	require.Equal(t, "Seaside Palace", renamed.Name)

	_, err = svc.RenameHotel(context.Background(), h.ID, "  ")
	require.ErrorIs(t, err, hotel.ErrNameRequired)
}

func TestService_RoomTypeRequiresExistingHotel(t *testing.T) {
	svc := newService()

	_, err := svc.CreateRoomType(context.Background(), catalog.CreateRoomTypeInput{
		HotelID:        "missing",
		Name:           "Deluxe",
		TotalUnits:     4,
		BasePriceCents: 12000,
	})
	require.ErrorIs(t, err, hotel.ErrHotelNotFound)
}

func TestService_UnitCapacity(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	h := createHotel(t, svc)

	rt, err := svc.CreateRoomType(ctx, catalog.CreateRoomTypeInput{
		HotelID:        string(h.ID),
		Name:           "Deluxe",
		TotalUnits:     4,
		BasePriceCents: 12000,
	})
	require.NoError(t, err)

	es, err := svc.CreateEventSpace(ctx, catalog.CreateEventSpaceInput{
		HotelID:        string(h.ID),
		Name:           "Grand Ballroom",
		Capacity:       200,
		BasePriceCents: 500000,
	})
	require.NoError(t, err)

	cap1, err := svc.UnitCapacity(ctx, rt.ID)
	require.NoError(t, err)
	require.Equal(t, 4, cap1)

	cap2, err := svc.UnitCapacity(ctx, es.ID)
	require.NoError(t, err)
	require.Equal(t, 200, cap2)

	_, err = svc.UnitCapacity(ctx, "ghost")
	require.ErrorIs(t, err, hotel.ErrUnitNotFound)
}

func TestService_PromotionLifecycle(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	h := createHotel(t, svc)

	p, err := svc.CreatePromotion(ctx, catalog.CreatePromotionInput{
		HotelID:     string(h.ID),
		Code:        "summer10",
		DiscountPct: 10,
		From:        time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
		To:          time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Equal(t, "SUMMER10", p.Code)
	require.True(t, p.Active)

	deactivated, err := svc.DeactivatePromotion(ctx, p.ID)
	require.NoError(t, err)
	require.False(t, deactivated.Active)

	listed, err := svc.PromotionsByHotel(ctx, h.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
}
