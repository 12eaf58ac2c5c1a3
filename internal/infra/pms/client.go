package pms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"

	"innsync/internal/domain/booking"
	"innsync/internal/domain/calendar"
	"innsync/internal/domain/shared/daterange"
	"innsync/internal/infra/obs"
)

// ErrRemote wraps every upstream-reported failure so callers can treat a
// success=false envelope and a transport error identically.
var ErrRemote = errors.New("pms: upstream rejected request")

// Client talks to the property-management system's REST API.
type Client struct {
	http   *resty.Client
	logger *slog.Logger
}

type Options struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	Logger  *slog.Logger
}

func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	c := resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if opts.APIKey != "" {
		c.SetHeader("Authorization", "Bearer "+opts.APIKey)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{http: c, logger: logger}
}

// request starts an upstream call, forwarding the originating request id when
// one is in the context.
func (c *Client) request(ctx context.Context) *resty.Request {
	req := c.http.R().SetContext(ctx)
	if id := obs.RequestIDFromContext(ctx); id != "" {
		req.SetHeader("X-Request-ID", id)
	}
	return req
}

// CalendarRange fetches availability override rows for a unit over a
// closed date range. Days without overrides are absent from the result.
func (c *Client) CalendarRange(ctx context.Context, unitID calendar.UnitID, r daterange.DateRange) ([]calendar.DayAvailability, error) {
	var env envelope
	resp, err := c.request(ctx).
		SetQueryParams(map[string]string{
			"start_date": daterange.FormatDay(r.Start),
			"end_date":   daterange.FormatDay(r.End),
		}).
		SetResult(&env).
		Get(fmt.Sprintf("/units/%s/calendar", unitID))
	if err := c.check(resp, err, &env, "calendar range"); err != nil {
		return nil, err
	}

	var records []dayRecord
	if err := json.Unmarshal(env.Data, &records); err != nil {
		return nil, fmt.Errorf("pms: decode calendar payload: %w", err)
	}
	days := make([]calendar.DayAvailability, 0, len(records))
	for _, rec := range records {
		d, err := rec.toDomain()
		if err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, nil
}

// BookingsRange fetches the unit's bookings intersecting the range.
func (c *Client) BookingsRange(ctx context.Context, unitID calendar.UnitID, r daterange.DateRange) ([]booking.Slot, error) {
	var env envelope
	resp, err := c.request(ctx).
		SetQueryParams(map[string]string{
			"start_date": daterange.FormatDay(r.Start),
			"end_date":   daterange.FormatDay(r.End),
		}).
		SetResult(&env).
		Get(fmt.Sprintf("/units/%s/bookings", unitID))
	if err := c.check(resp, err, &env, "bookings range"); err != nil {
		return nil, err
	}

	var records []bookingRecord
	if err := json.Unmarshal(env.Data, &records); err != nil {
		return nil, fmt.Errorf("pms: decode bookings payload: %w", err)
	}
	slots := make([]booking.Slot, 0, len(records))
	for _, rec := range records {
		slot, err := rec.toDomain()
		if err != nil {
			c.logger.Warn("skipping malformed booking record", "error", err)
			continue
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

// BulkUpdate sends the composed per-date mutation records in one batch and
// returns the upstream's updated-row count.
func (c *Client) BulkUpdate(ctx context.Context, unitID calendar.UnitID, updates []calendar.DayUpdate) (int, error) {
	payload := make([]map[string]any, 0, len(updates))
	for _, u := range updates {
		payload = append(payload, encodeUpdate(u))
	}

	var env envelope
	resp, err := c.request(ctx).
		SetBody(map[string]any{"updates": payload}).
		SetResult(&env).
		Post(fmt.Sprintf("/units/%s/calendar/bulk-update", unitID))
	if err := c.check(resp, err, &env, "bulk update"); err != nil {
		return 0, err
	}

	var result struct {
		Updated int `json:"updated"`
	}
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &result); err != nil {
			return 0, fmt.Errorf("pms: decode bulk-update payload: %w", err)
		}
	}
	if result.Updated == 0 {
		result.Updated = len(updates)
	}
	return result.Updated, nil
}

// SetBookingStatus drives a confirm/reject/cancel transition upstream.
func (c *Client) SetBookingStatus(ctx context.Context, id booking.SlotID, status booking.Status) error {
	var env envelope
	resp, err := c.request(ctx).
		SetBody(map[string]string{"status": string(status)}).
		SetResult(&env).
		Post(fmt.Sprintf("/bookings/%s/status", id))
	return c.check(resp, err, &env, "set booking status")
}

// check folds transport errors, non-2xx statuses and success=false envelopes
// into one error shape.
func (c *Client) check(resp *resty.Response, err error, env *envelope, op string) error {
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrRemote, op, err)
	}
	if resp.IsError() {
		return fmt.Errorf("%w: %s: status %d", ErrRemote, op, resp.StatusCode())
	}
	if !env.Success {
		return fmt.Errorf("%w: %s: %s", ErrRemote, op, env.errorText())
	}
	return nil
}
