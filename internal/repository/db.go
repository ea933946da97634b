package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/petoo-app/petoo-booking/internal/common/utils"
)

// DB はローカル保存先への接続です。クエリごとにX-Rayのサブセグメントを作成します
type DB struct {
	*sqlx.DB
}

// NewDB は sqlx の接続を包みます
func NewDB(conn *sqlx.DB) *DB {
	return &DB{DB: conn}
}

// QueryRowxContext wraps sqlx.DB.QueryRowxContext with X-Ray tracing
func (db *DB) QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row {
	ctx, span := utils.StartSpan(ctx, "DB.QueryRow")
	defer span.End(nil)
	span.AddMetadata("query", query)

	return db.DB.QueryRowxContext(ctx, db.Rebind(query), args...)
}

// ExecContext wraps sqlx.DB.ExecContext with X-Ray tracing
func (db *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	ctx, span := utils.StartSpan(ctx, "DB.Exec")
	span.AddMetadata("query", query)

	result, err := db.DB.ExecContext(ctx, db.Rebind(query), args...)
	span.End(err)
	return result, err
}

// BeginTxx starts a new transaction
func (db *DB) BeginTxx(ctx context.Context) (*sqlx.Tx, error) {
	ctx, span := utils.StartSpan(ctx, "DB.BeginTx")
	tx, err := db.DB.BeginTxx(ctx, nil)
	span.End(err)
	return tx, err
}
