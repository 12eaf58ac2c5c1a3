package ginserver

import (
	"context"
	"net/http"
	"strconv"
	"time"

	gin "github.com/gin-gonic/gin"

	"innsync/internal/app/dto"
	appsync "innsync/internal/app/sync"
	"innsync/internal/domain/calendar"
	"innsync/internal/domain/shared/daterange"
)

// CalendarEngine is the slice of the sync engine the HTTP layer drives.
type CalendarEngine interface {
	LoadPeriod(ctx context.Context, unitID calendar.UnitID, anchor time.Time, force bool) (appsync.LoadResult, error)
	LoadedPeriods(unitID calendar.UnitID) []daterange.DateRange
	BulkUpdate(ctx context.Context, unitID calendar.UnitID, intent calendar.BulkIntent) (appsync.BulkResult, error)
	Forget(ctx context.Context, unitID calendar.UnitID)
}

type CalendarHandler struct {
	Engine CalendarEngine
	// Now supplies the default anchor when the query omits one. Nil means
	// the wall clock.
	Now func() time.Time
}

// Load ensures the chunk around the anchor date is present locally and
// returns the resulting view. anchor defaults to today; force bypasses the
// coverage short-circuit.
func (h CalendarHandler) Load(c *gin.Context) {
	unitID := calendar.UnitID(c.Param("id"))
	anchor, ok := h.parseAnchor(c)
	if !ok {
		return
	}
	force, _ := strconv.ParseBool(c.DefaultQuery("force", "false"))

	res, err := h.Engine.LoadPeriod(c.Request.Context(), unitID, anchor, force)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapCalendarView(unitID, res))
}

func (h CalendarHandler) Periods(c *gin.Context) {
	unitID := calendar.UnitID(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"periods": dto.MapPeriods(h.Engine.LoadedPeriods(unitID))})
}

type bulkUpdateRequest struct {
	Start      string `json:"start"`
	End        string `json:"end"`
	Action     string `json:"action"`
	Reset      bool   `json:"reset"`
	PriceCents *int64 `json:"price_cents"`
	Units      *int   `json:"units"`
}

func (h CalendarHandler) BulkUpdate(c *gin.Context) {
	unitID := calendar.UnitID(c.Param("id"))
	var req bulkUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rng, err := daterange.Parse(req.Start, req.End)
	if err != nil {
		respondError(c, err)
		return
	}
	intent := calendar.BulkIntent{
		Range:      rng,
		Action:     calendar.Action(req.Action),
		Reset:      req.Reset,
		PriceCents: req.PriceCents,
		Units:      req.Units,
	}
	res, err := h.Engine.BulkUpdate(c.Request.Context(), unitID, intent)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapBulkOutcome(res))
}

// Reload drops the unit's local mirror and force-loads the chunk around the
// anchor, so the response is guaranteed server truth.
func (h CalendarHandler) Reload(c *gin.Context) {
	unitID := calendar.UnitID(c.Param("id"))
	anchor, ok := h.parseAnchor(c)
	if !ok {
		return
	}
	h.Engine.Forget(c.Request.Context(), unitID)
	res, err := h.Engine.LoadPeriod(c.Request.Context(), unitID, anchor, true)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapCalendarView(unitID, res))
}

func (h CalendarHandler) parseAnchor(c *gin.Context) (time.Time, bool) {
	raw := c.Query("anchor")
	if raw == "" {
		if h.Now != nil {
			return h.Now().UTC(), true
		}
		return time.Now().UTC(), true
	}
	anchor, err := daterange.ParseDay(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid anchor date, want YYYY-MM-DD"})
		return time.Time{}, false
	}
	return anchor, true
}

var _ CalendarHTTP = CalendarHandler{}
