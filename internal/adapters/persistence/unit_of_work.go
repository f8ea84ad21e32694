package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/andrescamacho/railbot-go/internal/application/ports"
)

// GormUnitOfWork implements the UnitOfWork port over a GORM transaction.
// Repositories handed to the callback share the transaction handle, so the
// callback's writes commit together or roll back together.
type GormUnitOfWork struct {
	db *gorm.DB
}

// NewGormUnitOfWork creates a new GORM unit of work
func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{db: db}
}

var _ ports.UnitOfWork = (*GormUnitOfWork)(nil)

// InTransaction runs fn inside one database transaction
func (u *GormUnitOfWork) InTransaction(ctx context.Context, fn func(ctx context.Context, stores ports.Stores) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, ports.Stores{
			Games:   NewGormGameRepository(tx),
			Players: NewGormPlayerRepository(tx),
			Tracks:  NewGormTrackRepository(tx),
		})
	})
}
