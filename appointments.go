package vayd

import (
	"context"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/boickle/vayd-enterprise-manager-sub001/pkg/types"
)

// ListAppointments returns the appointments scheduled for the given day
// (YYYY-MM-DD).
func (c *Client) ListAppointments(ctx context.Context, day string) ([]types.Appointment, error) {
	var out types.AppointmentList
	path := "/appointments?" + url.Values{"date": {day}}.Encode()
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Appointments, nil
}

// ScheduleAppointment books a visit. Availability and routing checks run
// server-side; an idempotency key is generated when the caller leaves it
// empty so a replayed request cannot double-book.
func (c *Client) ScheduleAppointment(ctx context.Context, req types.ScheduleAppointmentRequest) (*types.Appointment, error) {
	if req.IdempotencyKey == "" {
		req.IdempotencyKey = uuid.NewString()
	}
	var out types.Appointment
	if err := c.doJSON(ctx, http.MethodPost, "/appointments", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelAppointment cancels a scheduled visit.
func (c *Client) CancelAppointment(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/appointments/"+url.PathEscape(id), nil, nil)
}
