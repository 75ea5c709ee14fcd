package batchController

import (
	"context"
	"inventory/internal/events"
	"inventory/internal/forms"
	"inventory/internal/logger"
	. "inventory/internal/models"
	"inventory/internal/repositories"
	"inventory/internal/services"
)

type BatchController struct {
	skuRepo            repositories.SKURepository
	batchRepo          repositories.BatchRepository
	barcodeRepo        repositories.BarcodeRepository
	allocator          *Allocator
	formBuilder        *forms.BatchFormBuilder
	transactionService *services.TransactionService
	sequenceLock       *services.SequenceLockService
	eventBus           *events.EventBus
	log                logger.Logger
}

func New(
	skuRepo repositories.SKURepository,
	specTemplateRepo repositories.SpecTemplateRepository,
	batchRepo repositories.BatchRepository,
	barcodeRepo repositories.BarcodeRepository,
	transactionService *services.TransactionService,
	sequenceLock *services.SequenceLockService,
	eventBus *events.EventBus,
) *BatchController {
	return &BatchController{
		skuRepo:            skuRepo,
		batchRepo:          batchRepo,
		barcodeRepo:        barcodeRepo,
		allocator:          NewAllocator(barcodeRepo),
		formBuilder:        forms.NewBatchFormBuilder(skuRepo, specTemplateRepo),
		transactionService: transactionService,
		sequenceLock:       sequenceLock,
		eventBus:           eventBus,
		log:                logger.New("BatchController"),
	}
}

// BuildForm describes the batch form for data. With batchID set the form is
// bound to that batch for editing.
func (bc *BatchController) BuildForm(ctx context.Context, data map[string]string, batchID string) (forms.BatchForm, error) {
	if batchID == "" {
		return bc.formBuilder.Build(ctx, data, nil)
	}

	existing, err := bc.batchRepo.GetByID(ctx, batchID)
	if err != nil {
		return forms.BatchForm{}, err
	}
	return bc.formBuilder.Build(ctx, data, &existing)
}

// Create validates data, then stores the batch and its barcodes in one
// transaction while holding the prefix lock. Any failure leaves neither.
func (bc *BatchController) Create(ctx context.Context, userID string, data map[string]string) (Batch, error) {
	log := bc.log.Function("Create")

	form, err := bc.formBuilder.Build(ctx, data, nil)
	if err != nil {
		return Batch{}, err
	}
	cleaned, err := form.Validate(data)
	if err != nil {
		return Batch{}, err
	}

	sku, err := bc.skuRepo.GetByID(ctx, cleaned[forms.FieldSKU])
	if err != nil {
		return Batch{}, log.Err("failed to load sku", err, "skuID", cleaned[forms.FieldSKU])
	}

	unlock, err := bc.sequenceLock.Lock(ctx, sku.Code)
	if err != nil {
		return Batch{}, err
	}
	defer unlock()

	var batch Batch
	var barcodes []*Barcode
	err = bc.transactionService.Execute(ctx, func(txCtx context.Context) error {
		locked, err := bc.skuRepo.LockForUpdate(txCtx, sku.ID)
		if err != nil {
			return log.Err("failed to lock sku", err, "skuID", sku.ID)
		}

		if err := form.ApplyToBatch(cleaned, &batch, locked); err != nil {
			return err
		}

		if err := bc.batchRepo.Create(txCtx, &batch); err != nil {
			return err
		}

		barcodes, err = bc.allocator.Issue(txCtx, &batch)
		return err
	})
	if err != nil {
		return Batch{}, log.Err("failed to create batch", err, "prefix", sku.Code)
	}

	log.Info("Created batch",
		"batchID", batch.ID,
		"prefix", batch.Prefix,
		"quantity", batch.Quantity,
		"first", barcodes[0].SequenceNumber,
		"last", barcodes[len(barcodes)-1].SequenceNumber)

	bc.publish(userID, "created", batch, map[string]any{
		"first": barcodes[0].SequenceNumber,
		"last":  barcodes[len(barcodes)-1].SequenceNumber,
	})

	return bc.batchRepo.GetByID(ctx, batch.ID)
}

// Update edits the date, template and spec values of a batch. The SKU and
// quantity are fixed once barcodes are issued.
func (bc *BatchController) Update(
	ctx context.Context,
	userID string,
	batchID string,
	data map[string]string,
) (Batch, error) {
	log := bc.log.Function("Update")

	err := bc.transactionService.Execute(ctx, func(txCtx context.Context) error {
		existing, err := bc.batchRepo.GetByID(txCtx, batchID)
		if err != nil {
			return err
		}

		form, err := bc.formBuilder.Build(txCtx, data, &existing)
		if err != nil {
			return err
		}
		cleaned, err := form.Validate(data)
		if err != nil {
			return err
		}

		sku, err := bc.skuRepo.GetByID(txCtx, existing.SKUID)
		if err != nil {
			return log.Err("failed to load sku", err, "skuID", existing.SKUID)
		}

		if err := form.ApplyToBatch(cleaned, &existing, sku); err != nil {
			return err
		}
		return bc.batchRepo.Update(txCtx, &existing)
	})
	if err != nil {
		return Batch{}, err
	}

	batch, err := bc.batchRepo.GetByID(ctx, batchID)
	if err != nil {
		return Batch{}, err
	}

	bc.publish(userID, "updated", batch, nil)
	return batch, nil
}

func (bc *BatchController) Get(ctx context.Context, batchID string) (Batch, error) {
	return bc.batchRepo.GetByID(ctx, batchID)
}

func (bc *BatchController) List(ctx context.Context, skuID string) ([]Batch, error) {
	return bc.batchRepo.List(ctx, skuID)
}

// Barcodes lists a batch's sequence numbers in issue order.
func (bc *BatchController) Barcodes(ctx context.Context, batchID string) ([]BarcodeListItem, error) {
	if _, err := bc.batchRepo.GetByID(ctx, batchID); err != nil {
		return nil, err
	}

	barcodes, err := bc.barcodeRepo.ListByBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}

	items := make([]BarcodeListItem, 0, len(barcodes))
	for _, barcode := range barcodes {
		items = append(items, BarcodeListItem{ID: barcode.ID, SequenceNumber: barcode.SequenceNumber})
	}
	return items, nil
}

func (bc *BatchController) publish(userID, action string, batch Batch, extra map[string]any) {
	if bc.eventBus == nil {
		return
	}

	data := map[string]any{
		"batchId":  batch.ID,
		"prefix":   batch.Prefix,
		"quantity": batch.Quantity,
	}
	for key, value := range extra {
		data[key] = value
	}

	event := events.NewEvent(events.ChannelBatches, action, userID, data)
	if err := bc.eventBus.Publish(events.ChannelBatches, event); err != nil {
		bc.log.Function("publish").Warn("failed to publish batch event", "batchID", batch.ID, "error", err)
	}
}
