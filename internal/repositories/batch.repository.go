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

type BatchRepository interface {
	Create(ctx context.Context, batch *Batch) error
	Update(ctx context.Context, batch *Batch) error
	GetByID(ctx context.Context, id string) (Batch, error)
	List(ctx context.Context, skuID string) ([]Batch, error)
}

type batchRepository struct {
	db  database.DB
	log logger.Logger
}

func NewBatch(db database.DB) BatchRepository {
	return &batchRepository{
		db:  db,
		log: logger.New("batchRepository"),
	}
}

func (r *batchRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := services.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func (r *batchRepository) Create(ctx context.Context, batch *Batch) error {
	log := r.log.Function("Create")

	if err := r.getDB(ctx).Omit(clause.Associations).Create(batch).Error; err != nil {
		return log.Err("failed to create batch", translate(err), "prefix", batch.Prefix)
	}
	return nil
}

// Update writes the mutable columns only. sku_id, prefix and quantity are
// fixed once barcodes exist.
func (r *batchRepository) Update(ctx context.Context, batch *Batch) error {
	log := r.log.Function("Update")

	err := r.getDB(ctx).
		Model(batch).
		Omit(clause.Associations).
		Select("batch_date", "spec_template_id", "specs", "updated_at").
		Updates(batch).Error
	if err != nil {
		return log.Err("failed to update batch", translate(err), "batchID", batch.ID)
	}
	return nil
}

func (r *batchRepository) GetByID(ctx context.Context, id string) (Batch, error) {
	var batch Batch
	err := r.getDB(ctx).
		Preload("SKU").
		Preload("SpecTemplate").
		First(&batch, "id = ?", id).Error
	if err != nil {
		return Batch{}, translate(err)
	}
	return batch, nil
}

// List returns batches newest first, optionally for one SKU.
func (r *batchRepository) List(ctx context.Context, skuID string) ([]Batch, error) {
	log := r.log.Function("List")

	query := r.getDB(ctx).Preload("SKU").Order("created_at DESC, id DESC")
	if skuID != "" {
		query = query.Where("sku_id = ?", skuID)
	}

	var batches []Batch
	if err := query.Find(&batches).Error; err != nil {
		return nil, log.Err("failed to list batches", err, "skuID", skuID)
	}
	return batches, nil
}
