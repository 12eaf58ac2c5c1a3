package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"innsync/internal/infra/config"
	"innsync/internal/infra/obs"
)

type CalendarHTTP interface {
	Load(c *gin.Context)
	Periods(c *gin.Context)
	BulkUpdate(c *gin.Context)
	Reload(c *gin.Context)
}

type BookingHTTP interface {
	ListByUnit(c *gin.Context)
	SetStatus(c *gin.Context)
}

type CatalogHTTP interface {
	CreateHotel(c *gin.Context)
	GetHotel(c *gin.Context)
	ListHotels(c *gin.Context)
	RenameHotel(c *gin.Context)
	CreateRoomType(c *gin.Context)
	GetRoomType(c *gin.Context)
	ListRoomTypes(c *gin.Context)
	CreateEventSpace(c *gin.Context)
	GetEventSpace(c *gin.Context)
	ListEventSpaces(c *gin.Context)
	CreatePromotion(c *gin.Context)
	ListPromotions(c *gin.Context)
	DeactivatePromotion(c *gin.Context)
}

type Handlers struct {
	Calendar CalendarHTTP
	Booking  BookingHTTP
	Catalog  CatalogHTTP
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Calendar != nil {
		api.GET("/units/:id/calendar", h.Calendar.Load)
		api.GET("/units/:id/calendar/periods", h.Calendar.Periods)
		api.POST("/units/:id/calendar/bulk-update", h.Calendar.BulkUpdate)
		api.POST("/units/:id/calendar/reload", h.Calendar.Reload)
	}
	if h.Booking != nil {
		api.GET("/units/:id/bookings", h.Booking.ListByUnit)
		api.POST("/bookings/:id/status", h.Booking.SetStatus)
	}
	if h.Catalog != nil {
		api.POST("/hotels", h.Catalog.CreateHotel)
		api.GET("/hotels", h.Catalog.ListHotels)
		api.GET("/hotels/:id", h.Catalog.GetHotel)
		api.PATCH("/hotels/:id", h.Catalog.RenameHotel)
		api.POST("/hotels/:id/room-types", h.Catalog.CreateRoomType)
		api.GET("/hotels/:id/room-types", h.Catalog.ListRoomTypes)
		api.GET("/room-types/:id", h.Catalog.GetRoomType)
		api.POST("/hotels/:id/event-spaces", h.Catalog.CreateEventSpace)
		api.GET("/hotels/:id/event-spaces", h.Catalog.ListEventSpaces)
		api.GET("/event-spaces/:id", h.Catalog.GetEventSpace)
		api.POST("/hotels/:id/promotions", h.Catalog.CreatePromotion)
		api.GET("/hotels/:id/promotions", h.Catalog.ListPromotions)
		api.POST("/promotions/:id/deactivate", h.Catalog.DeactivatePromotion)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug", "dev", "local":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
