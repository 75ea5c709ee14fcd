package batchController

import (
	"context"
	"inventory/internal/logger"
	. "inventory/internal/models"
	"inventory/internal/repositories"
	"inventory/internal/utils"
)

// Allocator hands out barcode sequence numbers for a prefix. Callers must
// hold the prefix lock and a transaction across Allocate and the insert.
type Allocator struct {
	barcodeRepo repositories.BarcodeRepository
	log         logger.Logger
}

func NewAllocator(barcodeRepo repositories.BarcodeRepository) *Allocator {
	return &Allocator{
		barcodeRepo: barcodeRepo,
		log:         logger.New("Allocator"),
	}
}

// StartSuffix returns the first suffix the next batch for prefix receives.
// A stored suffix that cannot be incremented is treated as absent.
func (a *Allocator) StartSuffix(ctx context.Context, prefix string) (string, error) {
	log := a.log.Function("StartSuffix")

	highest, found, err := a.barcodeRepo.HighestSequenceForPrefix(ctx, prefix)
	if err != nil {
		return "", log.Err("failed to read highest sequence", err, "prefix", prefix)
	}
	if !found {
		return utils.FirstSuffix, nil
	}

	suffix, ok := utils.SequenceSuffix(prefix, highest)
	if !ok || !utils.UsableSuffix(suffix) {
		log.Warn("stored suffix is not usable, restarting sequence",
			"prefix", prefix,
			"sequenceNumber", highest)
		return utils.FirstSuffix, nil
	}

	next, err := utils.IncrementSuffix(suffix)
	if err != nil {
		return "", log.Err("failed to increment suffix", err, "suffix", suffix)
	}
	return next, nil
}

// Allocate returns quantity consecutive sequence numbers for prefix.
func (a *Allocator) Allocate(ctx context.Context, prefix string, quantity int) ([]string, error) {
	start, err := a.StartSuffix(ctx, prefix)
	if err != nil {
		return nil, err
	}

	sequence, err := utils.GenerateSequence(prefix, start, quantity)
	if err != nil {
		return nil, a.log.Function("Allocate").Err("failed to generate sequence", err, "prefix", prefix)
	}
	return sequence, nil
}

// Issue allocates and inserts one barcode per unit of batch.Quantity.
func (a *Allocator) Issue(ctx context.Context, batch *Batch) ([]*Barcode, error) {
	sequence, err := a.Allocate(ctx, batch.Prefix, batch.Quantity)
	if err != nil {
		return nil, err
	}

	barcodes := make([]*Barcode, 0, len(sequence))
	for _, number := range sequence {
		barcodes = append(barcodes, &Barcode{
			BatchID:        batch.ID,
			SKUID:          batch.SKUID,
			SequenceNumber: number,
		})
	}

	if err := a.barcodeRepo.CreateBatch(ctx, barcodes); err != nil {
		return nil, err
	}
	return barcodes, nil
}
