// Package auth は電話番号とワンタイムコードによるログインを扱います
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"
	"github.com/rs/zerolog/log"

	"github.com/petoo-app/petoo-booking/internal/common/utils"
	"github.com/petoo-app/petoo-booking/internal/model"
	"github.com/petoo-app/petoo-booking/internal/repository"
)

const DefaultRegion = "BR"

var (
	ErrInvalidPhone = errors.New("invalid phone number")
	ErrInvalidCode  = errors.New("verification code is required")
	ErrNoToken      = errors.New("authentication response has no token")
)

// AuthAPI はOTP認証のリモートAPIです
type AuthAPI interface {
	RequestOTP(ctx context.Context, phone string) error
	VerifyOTP(ctx context.Context, phone, code string) (*model.AuthResponse, error)
}

// LoginService は認証コードの送信と検証、ログアウトを担当します
type LoginService struct {
	api      AuthAPI
	sessions repository.SessionRepository
	session  *model.Session
	region   string
}

// NewLoginService は新しいLoginServiceを作成します
func NewLoginService(api AuthAPI, sessions repository.SessionRepository, session *model.Session, region string) *LoginService {
	if region == "" {
		region = DefaultRegion
	}
	return &LoginService{
		api:      api,
		sessions: sessions,
		session:  session,
		region:   strings.ToUpper(region),
	}
}

// NormalizePhone は電話番号をE.164形式に変換します
// 国番号が無い場合は region の番号として解釈します
func NormalizePhone(raw, region string) (string, error) {
	num, err := phonenumbers.Parse(strings.TrimSpace(raw), region)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPhone, err)
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", fmt.Errorf("%w: %s", ErrInvalidPhone, raw)
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

// RequestOTP は認証コードを送信させ、正規化した電話番号を返します
func (s *LoginService) RequestOTP(ctx context.Context, phone string) (string, error) {
	ctx, span := utils.StartSpan(ctx, "LoginService.RequestOTP")
	defer span.End(nil)

	normalized, err := NormalizePhone(phone, s.region)
	if err != nil {
		return "", err
	}

	if err := s.api.RequestOTP(ctx, normalized); err != nil {
		span.End(err)
		return "", fmt.Errorf("failed to request otp: %w", err)
	}

	log.Info().Str("phone", mask(normalized)).Msg("Verification code requested")
	return normalized, nil
}

// VerifyOTP は認証コードを検証し、トークンとユーザー情報を保存します
func (s *LoginService) VerifyOTP(ctx context.Context, phone, code string) (*model.Session, error) {
	ctx, span := utils.StartSpan(ctx, "LoginService.VerifyOTP")
	defer span.End(nil)

	normalized, err := NormalizePhone(phone, s.region)
	if err != nil {
		return nil, err
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrInvalidCode
	}

	resp, err := s.api.VerifyOTP(ctx, normalized, code)
	if err != nil {
		span.End(err)
		return nil, fmt.Errorf("failed to verify otp: %w", err)
	}
	if resp.Token == "" {
		return nil, ErrNoToken
	}

	if err := s.sessions.SetToken(ctx, resp.Token); err != nil {
		return nil, err
	}
	if profile := resp.Profile(); profile != nil {
		if err := s.sessions.SetStoredUser(ctx, profile); err != nil {
			return nil, err
		}
	}

	s.session.Login(*resp)
	log.Info().Str("user_id", s.session.UserID()).Bool("is_new_user", resp.IsNewUser).Msg("Logged in")

	return s.session, nil
}

// Logout は保存済みの認証情報を削除します
func (s *LoginService) Logout(ctx context.Context) error {
	if err := s.sessions.ClearToken(ctx); err != nil {
		return err
	}
	s.session.Logout()
	log.Info().Msg("Logged out")
	return nil
}

// mask は電話番号の末尾4桁以外を隠します
func mask(phone string) string {
	if len(phone) <= 4 {
		return phone
	}
	return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
}
