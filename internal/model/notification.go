package model

import (
	"fmt"
	"time"
)

// NotificationType は通知の種類を表します
type NotificationType string

const (
	// NotificationTypeReservation は予約関連の通知を表します
	NotificationTypeReservation NotificationType = "reservation"
	// NotificationTypeCommon は共通の通知を表します
	NotificationTypeCommon NotificationType = "common"
)

// Notification はワークフローへ引き渡す通知の定義です
type Notification struct {
	Type      NotificationType `json:"type"`
	CreatedAt time.Time        `json:"created_at"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Data      map[string]any   `json:"data"`
}

// NewReservationNotification は予約イベントから通知を作成します
func NewReservationNotification(event ReservationEvent) Notification {
	petName := event.PetName
	if petName == "" {
		petName = event.PetID
	}

	message := fmt.Sprintf(`Sua estadia foi solicitada com sucesso! Aguarde a confirmação.
Check-in: %s
Check-out: %s
Pet: %s`, FormatBR(event.CheckIn), FormatBR(event.CheckOut), petName)

	return Notification{
		Type:      NotificationTypeReservation,
		CreatedAt: event.CreatedAt,
		Title:     "Reserva Solicitada!",
		Message:   message,
		Data: map[string]any{
			"user_id":       event.UserID,
			"enterprise_id": event.EnterpriseID,
			"service_id":    event.ServiceID,
			"pet_id":        event.PetID,
			"check_in":      event.CheckIn,
			"check_out":     event.CheckOut,
		},
	}
}
