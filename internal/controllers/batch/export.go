package batchController

import (
	"bytes"
	"context"
	"fmt"
	"inventory/internal/apperrors"
	. "inventory/internal/models"
	"inventory/internal/utils"
	"strings"
	"time"
)

const (
	ExportCSV  = "csv"
	ExportXLSX = "xlsx"
)

type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Export renders a print sheet for every barcode of the batch, or only
// barcodeID when set, and stamps the exported rows as printed.
func (bc *BatchController) Export(ctx context.Context, batchID, format, barcodeID string) (ExportFile, error) {
	log := bc.log.Function("Export")

	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ExportCSV
	}
	if format != ExportCSV && format != ExportXLSX {
		return ExportFile{}, apperrors.ValidationErrors{"format": "Choose csv or xlsx."}
	}

	batch, err := bc.batchRepo.GetByID(ctx, batchID)
	if err != nil {
		return ExportFile{}, err
	}

	barcodes, err := bc.barcodeRepo.ListByBatch(ctx, batchID)
	if err != nil {
		return ExportFile{}, err
	}

	if barcodeID != "" {
		var selected []Barcode
		for _, barcode := range barcodes {
			if barcode.ID == barcodeID {
				selected = append(selected, barcode)
			}
		}
		if len(selected) == 0 {
			return ExportFile{}, fmt.Errorf("barcode %s in batch %s: %w", barcodeID, batchID, apperrors.ErrNotFound)
		}
		barcodes = selected
	}

	sheet := printSheet(batch, barcodes)

	var buf bytes.Buffer
	file := ExportFile{Filename: fmt.Sprintf("%s_%s.%s", batch.Prefix, batch.BatchDate.Format("20060102"), format)}
	switch format {
	case ExportXLSX:
		file.ContentType = utils.ContentTypeXLSX
		err = utils.WriteXLSX(&buf, sheet)
	default:
		file.ContentType = utils.ContentTypeCSV
		err = utils.WriteCSV(&buf, sheet)
	}
	if err != nil {
		return ExportFile{}, log.Err("failed to render print sheet", err, "batchID", batchID, "format", format)
	}
	file.Data = buf.Bytes()

	ids := make([]string, 0, len(barcodes))
	for _, barcode := range barcodes {
		ids = append(ids, barcode.ID)
	}
	if err := bc.barcodeRepo.MarkPrinted(ctx, ids, time.Now().UTC()); err != nil {
		return ExportFile{}, err
	}

	log.Info("Exported barcodes", "batchID", batchID, "format", format, "count", len(barcodes))
	return file, nil
}

func printSheet(batch Batch, barcodes []Barcode) utils.PrintSheet {
	columns := []string{"Sequence Number", "SKU", "Batch Date"}
	var specFields []string
	if batch.SpecTemplate != nil {
		specFields = batch.SpecTemplate.FieldNames()
	}
	for _, name := range specFields {
		columns = append(columns, SpecFieldLabel(name))
	}

	skuCode := batch.Prefix
	if batch.SKU != nil {
		skuCode = batch.SKU.Code
	}

	rows := make([][]string, 0, len(barcodes))
	for _, barcode := range barcodes {
		row := []string{barcode.SequenceNumber, skuCode, batch.BatchDate.Format("2006-01-02")}
		for _, name := range specFields {
			row = append(row, batch.SpecValue(name))
		}
		rows = append(rows, row)
	}

	return utils.PrintSheet{Columns: columns, Rows: rows}
}
