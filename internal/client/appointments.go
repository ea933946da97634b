package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/petoo-app/petoo-booking/internal/model"
)

// ListAppointments はログイン中のクライアントの予約一覧を取得します
func (c *Client) ListAppointments(ctx context.Context) ([]model.Appointment, error) {
	raw, err := c.DoRaw(ctx, http.MethodGet, "/client/appointments", nil, RequestOptions{})
	if err != nil {
		return nil, err
	}
	return model.DecodeList[model.Appointment](raw, "appointments")
}

// CreateAppointment は予約を1回だけ作成します。再送は行いません
func (c *Client) CreateAppointment(ctx context.Context, req model.ReservationRequest, idempotencyKey string) (*model.Appointment, error) {
	raw, err := c.DoRaw(ctx, http.MethodPost, "/client/appointments", req, RequestOptions{IdempotencyKey: idempotencyKey})
	if err != nil {
		return nil, err
	}
	return decodeAppointment(raw)
}

// CancelAppointment は予約をキャンセルします
func (c *Client) CancelAppointment(ctx context.Context, appointmentID string) error {
	endpoint := "/client/appointments/" + url.PathEscape(appointmentID) + "/cancel"
	return c.Do(ctx, http.MethodPost, endpoint, nil, RequestOptions{}, nil)
}

// decodeAppointment は {"appointment": {...}} と素のオブジェクトの両方を受け付けます
func decodeAppointment(raw []byte) (*model.Appointment, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return &model.Appointment{}, nil
	}

	var wrapper struct {
		Appointment *model.Appointment `json:"appointment"`
	}
	if err := json.Unmarshal(raw, &wrapper); err == nil && wrapper.Appointment != nil {
		return wrapper.Appointment, nil
	}

	var appointment model.Appointment
	if err := json.Unmarshal(raw, &appointment); err != nil {
		return nil, fmt.Errorf("failed to decode appointment: %w", err)
	}
	return &appointment, nil
}
