package model

import "testing"

func TestSessionLogin(t *testing.T) {
	s := NewSession("", nil, "")
	if s.BrandColor != DefaultBrandColor {
		t.Errorf("BrandColor = %v, want %v", s.BrandColor, DefaultBrandColor)
	}
	if s.IsAuthenticated() {
		t.Error("IsAuthenticated() should be false without token")
	}

	s.Login(AuthResponse{
		Token:  "tok",
		Client: &UserProfile{ID: "c1", Name: "Ana"},
		User:   &UserProfile{ID: "u1"},
	})
	if !s.IsAuthenticated() {
		t.Error("IsAuthenticated() should be true after login")
	}
	if s.UserID() != "c1" {
		t.Errorf("UserID() = %v, want %v", s.UserID(), "c1")
	}

	s.Login(AuthResponse{User: &UserProfile{ID: "u1"}})
	if s.Token != "tok" {
		t.Errorf("Token = %v, want token kept", s.Token)
	}
	if s.UserID() != "u1" {
		t.Errorf("UserID() = %v, want %v", s.UserID(), "u1")
	}

	s.UpdateTheme("#123456")
	s.Logout()
	if s.IsAuthenticated() || s.User != nil {
		t.Error("Logout() should clear token and user")
	}
	if s.BrandColor != "#123456" {
		t.Errorf("BrandColor = %v, want theme kept", s.BrandColor)
	}
}
