package gorm

import (
	"context"

	"gorm.io/gorm"

	"github.com/mealsync/api/internal/ports/outbound"
)

type txKey struct{}

// Transactor implements outbound.Transactor on a GORM connection.
// Repositories resolve the active transaction through dbFromContext, so
// calls made with the callback's context share one transaction.
type Transactor struct {
	db *gorm.DB
}

// NewTransactor creates a new transactor
func NewTransactor(db *gorm.DB) outbound.Transactor {
	return &Transactor{db: db}
}

// WithinTx runs fn inside a transaction. Returning an error rolls the
// whole transaction back.
func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// dbFromContext returns the transaction bound to ctx, or the base
// connection when no transaction is active.
func dbFromContext(ctx context.Context, base *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return base.WithContext(ctx)
}
