package client

import (
	"context"
	"net/http"

	"github.com/petoo-app/petoo-booking/internal/model"
)

// RequestOTP は電話番号(E.164)に認証コードを送信させます
func (c *Client) RequestOTP(ctx context.Context, phone string) error {
	body := map[string]string{"phone": phone}
	return c.Do(ctx, http.MethodPost, "/auth/otp/request", body, RequestOptions{SkipAuth: true}, nil)
}

// VerifyOTP は認証コードを検証し、トークンとクライアント情報を返します
func (c *Client) VerifyOTP(ctx context.Context, phone, code string) (*model.AuthResponse, error) {
	body := map[string]string{"phone": phone, "token": code}
	var resp model.AuthResponse
	if err := c.Do(ctx, http.MethodPost, "/auth/otp/verify", body, RequestOptions{SkipAuth: true}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// EnterpriseLogin は事業者ユーザーのログインです
func (c *Client) EnterpriseLogin(ctx context.Context, email, password string) (*model.AuthResponse, error) {
	body := map[string]string{"email": email, "password": password}
	var resp model.AuthResponse
	if err := c.Do(ctx, http.MethodPost, "/auth/enterprise/login", body, RequestOptions{SkipAuth: true}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetClientProfile はログイン中のクライアント情報を取得します
func (c *Client) GetClientProfile(ctx context.Context) (*model.UserProfile, error) {
	var profile model.UserProfile
	if err := c.Do(ctx, http.MethodGet, "/auth/client/me", nil, RequestOptions{}, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateClientProfile はクライアント情報(name, email, latitude, longitude)を更新します
func (c *Client) UpdateClientProfile(ctx context.Context, profile model.UserProfile) (*model.UserProfile, error) {
	var updated model.UserProfile
	if err := c.Do(ctx, http.MethodPut, "/auth/client/me", profile, RequestOptions{}, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}
