package repositories

import (
	"context"
	"errors"
	"inventory/internal/database"
	"inventory/internal/logger"
	. "inventory/internal/models"
	"inventory/internal/services"
	"time"

	"gorm.io/gorm"
)

const defaultBarcodeInsertBatch = 500

type BarcodeRepository interface {
	HighestSequenceForPrefix(ctx context.Context, prefix string) (string, bool, error)
	CreateBatch(ctx context.Context, barcodes []*Barcode) error
	ListByBatch(ctx context.Context, batchID string) ([]Barcode, error)
	GetByID(ctx context.Context, id string) (Barcode, error)
	MarkPrinted(ctx context.Context, ids []string, at time.Time) error
}

type barcodeRepository struct {
	db  database.DB
	log logger.Logger
}

func NewBarcode(db database.DB) BarcodeRepository {
	return &barcodeRepository{
		db:  db,
		log: logger.New("barcodeRepository"),
	}
}

func (r *barcodeRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := services.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

// HighestSequenceForPrefix finds the greatest sequence number issued to any
// batch with prefix, soft-deleted rows included. Longer values win before
// lexical order so "KA01AA001" ranks above "KA01Z999".
func (r *barcodeRepository) HighestSequenceForPrefix(
	ctx context.Context,
	prefix string,
) (string, bool, error) {
	log := r.log.Function("HighestSequenceForPrefix")

	var barcode Barcode
	err := r.getDB(ctx).
		Unscoped().
		Model(&Barcode{}).
		Select("barcodes.sequence_number").
		Joins("JOIN batches ON batches.id = barcodes.batch_id").
		Where("batches.prefix = ?", prefix).
		Order("LENGTH(barcodes.sequence_number) DESC").
		Order("barcodes.sequence_number DESC").
		Limit(1).
		Take(&barcode).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, log.Err("failed to query highest sequence", err, "prefix", prefix)
	}

	return barcode.SequenceNumber, true, nil
}

func (r *barcodeRepository) CreateBatch(ctx context.Context, barcodes []*Barcode) error {
	log := r.log.Function("CreateBatch")

	if len(barcodes) == 0 {
		return log.Error("empty barcode batch provided")
	}

	if err := r.getDB(ctx).CreateInBatches(barcodes, defaultBarcodeInsertBatch).Error; err != nil {
		return log.Err("failed to create barcodes", translate(err),
			"totalRecords", len(barcodes),
			"batchSize", defaultBarcodeInsertBatch)
	}

	log.Debug("inserted barcodes", "totalRecords", len(barcodes))
	return nil
}

// ListByBatch returns the batch's barcodes in issue order.
func (r *barcodeRepository) ListByBatch(ctx context.Context, batchID string) ([]Barcode, error) {
	log := r.log.Function("ListByBatch")

	var barcodes []Barcode
	err := r.getDB(ctx).
		Where("batch_id = ?", batchID).
		Order("LENGTH(sequence_number), sequence_number").
		Find(&barcodes).Error
	if err != nil {
		return nil, log.Err("failed to list barcodes", err, "batchID", batchID)
	}
	return barcodes, nil
}

func (r *barcodeRepository) GetByID(ctx context.Context, id string) (Barcode, error) {
	var barcode Barcode
	if err := r.getDB(ctx).First(&barcode, "id = ?", id).Error; err != nil {
		return Barcode{}, translate(err)
	}
	return barcode, nil
}

func (r *barcodeRepository) MarkPrinted(ctx context.Context, ids []string, at time.Time) error {
	log := r.log.Function("MarkPrinted")

	if len(ids) == 0 {
		return nil
	}

	err := r.getDB(ctx).
		Model(&Barcode{}).
		Where("id IN ?", ids).
		Update("printed_at", at).Error
	if err != nil {
		return log.Err("failed to mark barcodes printed", err, "count", len(ids))
	}
	return nil
}
