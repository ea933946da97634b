package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/petoo-app/petoo-booking/internal/common/utils"
	"github.com/petoo-app/petoo-booking/internal/model"
)

// 保存するキーはトークンとユーザー情報の2つだけです
const (
	TokenKey = "@petoo_token"
	UserKey  = "@petoo_user"
)

// SessionRepository は認証情報のローカル保存を担当するインターフェースです
type SessionRepository interface {
	GetToken(ctx context.Context) (string, error)
	SetToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
	GetStoredUser(ctx context.Context) (*model.UserProfile, error)
	SetStoredUser(ctx context.Context, user *model.UserProfile) error
	LoadSession(ctx context.Context, brandColor string) (*model.Session, error)
}

// SessionRepositoryImpl は kv_store テーブルに認証情報を保存します
type SessionRepositoryImpl struct {
	db  *DB
	now func() time.Time
}

// NewSessionRepository は新しいSessionRepositoryを作成します
func NewSessionRepository(db *DB) *SessionRepositoryImpl {
	return &SessionRepositoryImpl{db: db, now: time.Now}
}

// GetToken は保存済みのトークンを返します。未保存の場合は空文字です
func (r *SessionRepositoryImpl) GetToken(ctx context.Context) (string, error) {
	ctx, span := utils.StartSpan(ctx, "SessionRepository.GetToken")
	token, err := r.get(ctx, TokenKey)
	span.End(err)
	if err != nil {
		return "", fmt.Errorf("failed to get token: %w", err)
	}
	return token, nil
}

// SetToken はトークンを保存します
func (r *SessionRepositoryImpl) SetToken(ctx context.Context, token string) error {
	ctx, span := utils.StartSpan(ctx, "SessionRepository.SetToken")
	err := r.set(ctx, TokenKey, token)
	span.End(err)
	if err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

// ClearToken はトークンとユーザー情報をまとめて削除します
func (r *SessionRepositoryImpl) ClearToken(ctx context.Context) error {
	ctx, span := utils.StartSpan(ctx, "SessionRepository.ClearToken")
	defer span.End(nil)

	tx, err := r.db.BeginTxx(ctx)
	if err != nil {
		span.End(err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	query := `DELETE FROM kv_store WHERE item_key IN (?, ?)`
	if _, err := tx.ExecContext(ctx, tx.Rebind(query), TokenKey, UserKey); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error().Err(rbErr).Msg("rollback failed")
		}
		span.End(err)
		return fmt.Errorf("failed to clear session: %w", err)
	}

	if err := tx.Commit(); err != nil {
		span.End(err)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetStoredUser は保存済みのユーザー情報を返します。未保存の場合は nil です
func (r *SessionRepositoryImpl) GetStoredUser(ctx context.Context) (*model.UserProfile, error) {
	ctx, span := utils.StartSpan(ctx, "SessionRepository.GetStoredUser")
	defer span.End(nil)

	raw, err := r.get(ctx, UserKey)
	if err != nil {
		span.End(err)
		return nil, fmt.Errorf("failed to get stored user: %w", err)
	}
	if raw == "" {
		return nil, nil
	}

	var user model.UserProfile
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		span.End(err)
		return nil, fmt.Errorf("failed to decode stored user: %w", err)
	}
	return &user, nil
}

// SetStoredUser はユーザー情報をJSONで保存します
func (r *SessionRepositoryImpl) SetStoredUser(ctx context.Context, user *model.UserProfile) error {
	ctx, span := utils.StartSpan(ctx, "SessionRepository.SetStoredUser")
	defer span.End(nil)

	if user == nil {
		return fmt.Errorf("user is required")
	}
	data, err := json.Marshal(user)
	if err != nil {
		span.End(err)
		return fmt.Errorf("failed to encode user: %w", err)
	}
	if err := r.set(ctx, UserKey, string(data)); err != nil {
		span.End(err)
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// LoadSession は保存済みの認証情報から Session を組み立てます
// ユーザー情報が壊れている場合はログに残してトークンだけで復元します
func (r *SessionRepositoryImpl) LoadSession(ctx context.Context, brandColor string) (*model.Session, error) {
	token, err := r.GetToken(ctx)
	if err != nil {
		return nil, err
	}

	user, err := r.GetStoredUser(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Error loading stored user")
		user = nil
	}

	return model.NewSession(token, user, brandColor), nil
}

func (r *SessionRepositoryImpl) get(ctx context.Context, key string) (string, error) {
	query := `SELECT item_value FROM kv_store WHERE item_key = ?`

	var value string
	err := r.db.QueryRowxContext(ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (r *SessionRepositoryImpl) set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO kv_store (item_key, item_value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (item_key) DO UPDATE
		SET item_value = excluded.item_value,
			updated_at = excluded.updated_at`

	_, err := r.db.ExecContext(ctx, query, key, value, r.now().UTC())
	return err
}
