package repositories

import (
	"context"
	"inventory/internal/database"
	"inventory/internal/logger"
	. "inventory/internal/models"
	"inventory/internal/services"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SKURepository interface {
	List(ctx context.Context) ([]SKU, error)
	GetByID(ctx context.Context, id string) (SKU, error)
	GetByCode(ctx context.Context, code string) (SKU, error)
	Create(ctx context.Context, sku *SKU) error
	LockForUpdate(ctx context.Context, id string) (SKU, error)
}

type skuRepository struct {
	db  database.DB
	log logger.Logger
}

func NewSKU(db database.DB) SKURepository {
	return &skuRepository{
		db:  db,
		log: logger.New("skuRepository"),
	}
}

func (r *skuRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := services.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func (r *skuRepository) List(ctx context.Context) ([]SKU, error) {
	log := r.log.Function("List")

	var skus []SKU
	if err := r.getDB(ctx).Order("code").Find(&skus).Error; err != nil {
		return nil, log.Err("failed to list skus", err)
	}
	return skus, nil
}

func (r *skuRepository) GetByID(ctx context.Context, id string) (SKU, error) {
	var sku SKU
	if err := r.getDB(ctx).First(&sku, "id = ?", id).Error; err != nil {
		return SKU{}, translate(err)
	}
	return sku, nil
}

func (r *skuRepository) GetByCode(ctx context.Context, code string) (SKU, error) {
	var sku SKU
	if err := r.getDB(ctx).First(&sku, "code = ?", code).Error; err != nil {
		return SKU{}, translate(err)
	}
	return sku, nil
}

func (r *skuRepository) Create(ctx context.Context, sku *SKU) error {
	log := r.log.Function("Create")

	if err := r.getDB(ctx).Create(sku).Error; err != nil {
		return log.Err("failed to create sku", translate(err), "code", sku.Code)
	}
	return nil
}

// LockForUpdate reads the SKU with a row lock held until the surrounding
// transaction ends. SQLite ignores the clause; its writers are already
// serialized by BEGIN IMMEDIATE.
func (r *skuRepository) LockForUpdate(ctx context.Context, id string) (SKU, error) {
	db := r.getDB(ctx)
	if r.db.Driver == "postgres" {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var sku SKU
	if err := db.First(&sku, "id = ?", id).Error; err != nil {
		return SKU{}, translate(err)
	}
	return sku, nil
}
