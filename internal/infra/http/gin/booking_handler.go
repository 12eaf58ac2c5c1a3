package ginserver

import (
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"innsync/internal/app/bookings"
	"innsync/internal/app/dto"
	"innsync/internal/domain/booking"
	"innsync/internal/domain/calendar"
	"innsync/internal/domain/shared/daterange"
)

type BookingHandler struct {
	Bookings *bookings.Service
}

// ListByUnit returns the unit's booking slots for a date range. The range
// defaults to the anchor month when start/end are omitted.
func (h BookingHandler) ListByUnit(c *gin.Context) {
	unitID := calendar.UnitID(c.Param("id"))

	var rng daterange.DateRange
	start, end := c.Query("start"), c.Query("end")
	if start == "" && end == "" {
		rng = daterange.Month(time.Now().UTC())
	} else {
		parsed, err := daterange.Parse(start, end)
		if err != nil {
			respondError(c, err)
			return
		}
		rng = parsed
	}

	slots, err := h.Bookings.ListByUnit(c.Request.Context(), unitID, rng)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": dto.MapBookingSlots(slots)})
}

type setStatusRequest struct {
	Status        string `json:"status"`
	CurrentStatus string `json:"current_status"`
}

func (h BookingHandler) SetStatus(c *gin.Context) {
	id := booking.SlotID(c.Param("id"))
	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	target, ok := booking.ParseStatus(req.Status)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
		return
	}
	if err := h.Bookings.Transition(c.Request.Context(), id, req.CurrentStatus, target); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": string(id), "status": string(target)})
}

var _ BookingHTTP = BookingHandler{}
