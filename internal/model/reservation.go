package model

import "time"

// 予約リクエストのキー。バックエンドはケバブケースを受け付けます
const (
	KeyEnterpriseID = "enterprise-id"
	KeyServiceID    = "service-id"
	KeyPetID        = "pet-id"
	KeyStartTime    = "start-time"
	KeyEndTime      = "end-time"
	KeyNotes        = "notes"
)

// チェックイン・チェックアウトの固定時刻
const (
	CheckInClock  = "14:00:00"
	CheckOutClock = "12:00:00"
)

// ReservationFields は予約リクエストの元になる値です。空文字は「値なし」を意味します
type ReservationFields struct {
	EnterpriseID string
	ServiceID    string
	PetID        string
	StartTime    string
	EndTime      string
	Notes        string
}

// ReservationRequest は値のあるキーだけを持つ予約リクエストです
type ReservationRequest map[string]string

// BuildReservationRequest は空でない値だけをリクエストに含めます
// 値の変換や検証は行いません
func BuildReservationRequest(f ReservationFields) ReservationRequest {
	req := ReservationRequest{}
	put := func(key, value string) {
		if value != "" {
			req[key] = value
		}
	}

	put(KeyEnterpriseID, f.EnterpriseID)
	put(KeyServiceID, f.ServiceID)
	put(KeyPetID, f.PetID)
	put(KeyStartTime, f.StartTime)
	put(KeyEndTime, f.EndTime)
	put(KeyNotes, f.Notes)

	return req
}

// CheckInTimestamp はチェックイン日に固定時刻を付けたUTC表記を返します
func CheckInTimestamp(iso string) string {
	if iso == "" {
		return ""
	}
	return iso + "T" + CheckInClock + "Z"
}

// CheckOutTimestamp はチェックアウト日に固定時刻を付けたUTC表記を返します
func CheckOutTimestamp(iso string) string {
	if iso == "" {
		return ""
	}
	return iso + "T" + CheckOutClock + "Z"
}

// HotelNotes はサービス名から予約メモを作成します
func HotelNotes(serviceName string) string {
	if serviceName == "" {
		return ""
	}
	return "Reserva de Hotel - " + serviceName
}

// Appointment はバックエンドが返す予約です
// 日時はサーバーの表記のまま保持します
type Appointment struct {
	ID           ID     `json:"id"`
	Status       string `json:"status"` // pending, confirmed, cancelled
	EnterpriseID ID     `json:"enterprise_id"`
	ServiceID    ID     `json:"service_id"`
	PetID        ID     `json:"pet_id"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	Notes        string `json:"notes,omitempty"`
	CreatedAt    string `json:"created_at,omitempty"`
}

// ReservationEvent は予約リクエストが受け付けられたときに発行されるイベントの構造体
type ReservationEvent struct {
	UserID       string    `json:"user_id"`
	EnterpriseID string    `json:"enterprise_id"`
	ServiceID    string    `json:"service_id"`
	PetID        string    `json:"pet_id"`
	PetName      string    `json:"pet_name,omitempty"`
	CheckIn      string    `json:"check_in"`
	CheckOut     string    `json:"check_out"`
	CreatedAt    time.Time `json:"created_at"`
}
