package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/rmcsharry/hq-api/internal/domain/shared"
)

// txKey carries an open transaction through the context so that every
// repository call made inside a unit of work joins the same transaction.
type txKey struct{}

// conn resolves the handle a repository call should run on: the transaction
// carried by ctx when inside a unit of work, the pooled handle otherwise.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// GormUnitOfWork implements shared.UnitOfWork over a database transaction.
// A nested Run joins the enclosing transaction instead of opening a new one.
type GormUnitOfWork struct {
	db *gorm.DB
}

var _ shared.UnitOfWork = (*GormUnitOfWork)(nil)

func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{db: db}
}

func (u *GormUnitOfWork) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}
