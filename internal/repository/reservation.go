package repository

import (
	"context"
	"fmt"

	"github.com/petoo-app/petoo-booking/internal/common/utils"
	"github.com/petoo-app/petoo-booking/internal/model"
)

// ReservationAPI は予約を扱うリモートAPIです
type ReservationAPI interface {
	CreateAppointment(ctx context.Context, req model.ReservationRequest, idempotencyKey string) (*model.Appointment, error)
	ListAppointments(ctx context.Context) ([]model.Appointment, error)
	CancelAppointment(ctx context.Context, appointmentID string) error
}

type ReservationRepository interface {
	CreateReservation(ctx context.Context, req model.ReservationRequest, idempotencyKey string) (*model.Appointment, error)
	ListReservations(ctx context.Context) ([]model.Appointment, error)
	CancelReservation(ctx context.Context, reservationID string) error
}

type ReservationRepositoryImpl struct {
	api ReservationAPI
}

func NewReservationRepository(api ReservationAPI) *ReservationRepositoryImpl {
	return &ReservationRepositoryImpl{api: api}
}

// CreateReservation は予約リクエストを1回だけ送信します
func (r *ReservationRepositoryImpl) CreateReservation(ctx context.Context, req model.ReservationRequest, idempotencyKey string) (*model.Appointment, error) {
	ctx, span := utils.StartSpan(ctx, "ReservationRepository.CreateReservation")
	defer span.End(nil)
	span.AddMetadata("idempotency_key", idempotencyKey)

	appointment, err := r.api.CreateAppointment(ctx, req, idempotencyKey)
	if err != nil {
		span.End(err)
		return nil, fmt.Errorf("failed to create reservation: %w", err)
	}

	return appointment, nil
}

// ListReservations は、ログイン中のユーザーの予約を取得します
func (r *ReservationRepositoryImpl) ListReservations(ctx context.Context) ([]model.Appointment, error) {
	ctx, span := utils.StartSpan(ctx, "ReservationRepository.ListReservations")
	defer span.End(nil)

	appointments, err := r.api.ListAppointments(ctx)
	if err != nil {
		span.End(err)
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}

	return appointments, nil
}

// CancelReservation は予約をキャンセルします
func (r *ReservationRepositoryImpl) CancelReservation(ctx context.Context, reservationID string) error {
	ctx, span := utils.StartSpan(ctx, "ReservationRepository.CancelReservation")
	defer span.End(nil)

	if err := r.api.CancelAppointment(ctx, reservationID); err != nil {
		span.End(err)
		return fmt.Errorf("failed to cancel reservation %s: %w", reservationID, err)
	}

	return nil
}
