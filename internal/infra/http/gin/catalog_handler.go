package ginserver

import (
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"innsync/internal/app/catalog"
	"innsync/internal/app/dto"
	"innsync/internal/domain/calendar"
	"innsync/internal/domain/hotel"
)

type CatalogHandler struct {
	Catalog *catalog.Service
}

type createHotelRequest struct {
	TenantID string `json:"tenant_id"`
	Name     string `json:"name"`
	City     string `json:"city"`
	Country  string `json:"country"`
	Timezone string `json:"timezone"`
}

func (h CatalogHandler) CreateHotel(c *gin.Context) {
	var req createHotelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	created, err := h.Catalog.CreateHotel(c.Request.Context(), catalog.CreateHotelInput{
		TenantID: req.TenantID,
		Name:     req.Name,
		City:     req.City,
		Country:  req.Country,
		Timezone: req.Timezone,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.MapHotel(created))
}

func (h CatalogHandler) GetHotel(c *gin.Context) {
	found, err := h.Catalog.Hotel(c.Request.Context(), hotel.HotelID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapHotel(found))
}

func (h CatalogHandler) ListHotels(c *gin.Context) {
	tenant := c.Query("tenant_id")
	if tenant == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tenant_id is required"})
		return
	}
	items, err := h.Catalog.HotelsByTenant(c.Request.Context(), hotel.TenantID(tenant))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hotels": dto.MapHotels(items)})
}

type renameHotelRequest struct {
	Name string `json:"name"`
}

func (h CatalogHandler) RenameHotel(c *gin.Context) {
	var req renameHotelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	updated, err := h.Catalog.RenameHotel(c.Request.Context(), hotel.HotelID(c.Param("id")), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapHotel(updated))
}

type createRoomTypeRequest struct {
	Name                string  `json:"name"`
	TotalUnits          int     `json:"total_units"`
	BasePriceCents      int64   `json:"base_price_cents"`
	WeekendSurchargePct float64 `json:"weekend_surcharge_pct"`
	MaxGuests           int     `json:"max_guests"`
}

func (h CatalogHandler) CreateRoomType(c *gin.Context) {
	var req createRoomTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	created, err := h.Catalog.CreateRoomType(c.Request.Context(), catalog.CreateRoomTypeInput{
		HotelID:             c.Param("id"),
		Name:                req.Name,
		TotalUnits:          req.TotalUnits,
		BasePriceCents:      req.BasePriceCents,
		WeekendSurchargePct: req.WeekendSurchargePct,
		MaxGuests:           req.MaxGuests,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.MapRoomType(created))
}

func (h CatalogHandler) GetRoomType(c *gin.Context) {
	found, err := h.Catalog.RoomType(c.Request.Context(), calendar.UnitID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapRoomType(found))
}

func (h CatalogHandler) ListRoomTypes(c *gin.Context) {
	items, err := h.Catalog.RoomTypesByHotel(c.Request.Context(), hotel.HotelID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"room_types": dto.MapRoomTypes(items)})
}

type createEventSpaceRequest struct {
	Name           string `json:"name"`
	Capacity       int    `json:"capacity"`
	BasePriceCents int64  `json:"base_price_cents"`
}

func (h CatalogHandler) CreateEventSpace(c *gin.Context) {
	var req createEventSpaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	created, err := h.Catalog.CreateEventSpace(c.Request.Context(), catalog.CreateEventSpaceInput{
		HotelID:        c.Param("id"),
		Name:           req.Name,
		Capacity:       req.Capacity,
		BasePriceCents: req.BasePriceCents,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.MapEventSpace(created))
}

func (h CatalogHandler) GetEventSpace(c *gin.Context) {
	found, err := h.Catalog.EventSpace(c.Request.Context(), calendar.UnitID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapEventSpace(found))
}

func (h CatalogHandler) ListEventSpaces(c *gin.Context) {
	items, err := h.Catalog.EventSpacesByHotel(c.Request.Context(), hotel.HotelID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"event_spaces": dto.MapEventSpaces(items)})
}

type createPromotionRequest struct {
	Code        string    `json:"code"`
	DiscountPct float64   `json:"discount_pct"`
	From        time.Time `json:"from"`
	To          time.Time `json:"to"`
}

func (h CatalogHandler) CreatePromotion(c *gin.Context) {
	var req createPromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	created, err := h.Catalog.CreatePromotion(c.Request.Context(), catalog.CreatePromotionInput{
		HotelID:     c.Param("id"),
		Code:        req.Code,
		DiscountPct: req.DiscountPct,
		From:        req.From,
		To:          req.To,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.MapPromotion(created))
}

func (h CatalogHandler) ListPromotions(c *gin.Context) {
	items, err := h.Catalog.PromotionsByHotel(c.Request.Context(), hotel.HotelID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"promotions": dto.MapPromotions(items)})
}

func (h CatalogHandler) DeactivatePromotion(c *gin.Context) {
	updated, err := h.Catalog.DeactivatePromotion(c.Request.Context(), hotel.PromotionID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapPromotion(updated))
}

var _ CatalogHTTP = CatalogHandler{}
