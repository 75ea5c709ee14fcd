package services

import (
	"context"
	"inventory/internal/database"
	"inventory/internal/logger"

	"gorm.io/gorm"
)

type transactionKey struct{}

type TransactionService struct {
	db  database.DB
	log logger.Logger
}

func NewTransactionService(db database.DB) *TransactionService {
	return &TransactionService{
		db:  db,
		log: logger.New("TransactionService"),
	}
}

// Execute runs fn inside one database transaction. Repositories pick the
// transaction up from txCtx. A nested call joins the outer transaction.
func (s *TransactionService) Execute(ctx context.Context, fn func(txCtx context.Context) error) error {
	if _, ok := GetTransaction(ctx); ok {
		return fn(ctx)
	}

	return s.db.SQLWithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, transactionKey{}, tx))
	})
}

func GetTransaction(ctx context.Context) (*gorm.DB, bool) {
	if ctx == nil {
		return nil, false
	}
	tx, ok := ctx.Value(transactionKey{}).(*gorm.DB)
	return tx, ok && tx != nil
}
