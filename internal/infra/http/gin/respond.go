package ginserver

import (
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"

	appsync "innsync/internal/app/sync"
	"innsync/internal/domain/booking"
	"innsync/internal/domain/calendar"
	"innsync/internal/domain/hotel"
	"innsync/internal/domain/shared/daterange"
	"innsync/internal/infra/pms"
)

// respondError maps domain and upstream errors onto HTTP statuses. Anything
// unmapped is a plain 500 with the error text.
func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, daterange.ErrInvalidRange),
		errors.Is(err, calendar.ErrInvalidPrice),
		errors.Is(err, calendar.ErrInvalidUnits),
		errors.Is(err, booking.ErrInvalidTransition),
		errors.Is(err, hotel.ErrNameRequired),
		errors.Is(err, hotel.ErrTenantRequired),
		errors.Is(err, hotel.ErrInvalidCapacity),
		errors.Is(err, hotel.ErrInvalidBasePrice),
		errors.Is(err, hotel.ErrInvalidPromoCode),
		errors.Is(err, hotel.ErrInvalidDiscount),
		errors.Is(err, hotel.ErrInvalidPromoRange):
		return http.StatusBadRequest
	case errors.Is(err, hotel.ErrHotelNotFound),
		errors.Is(err, hotel.ErrUnitNotFound),
		errors.Is(err, hotel.ErrPromotionNotFound),
		errors.Is(err, appsync.ErrUnknownUnit):
		return http.StatusNotFound
	case errors.Is(err, appsync.ErrSyncInFlight):
		return http.StatusConflict
	case errors.Is(err, appsync.ErrHorizonExceeded):
		return http.StatusUnprocessableEntity
	case errors.Is(err, pms.ErrRemote):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
