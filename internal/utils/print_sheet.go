package utils

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	ContentTypeCSV  = "text/csv"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	printSheetName = "Barcodes"
)

// PrintSheet is a tabular barcode print job: one label per row.
type PrintSheet struct {
	Columns []string
	Rows    [][]string
}

func (s PrintSheet) validate() error {
	for i, row := range s.Rows {
		if len(row) != len(s.Columns) {
			return fmt.Errorf("print sheet row %d has %d cells, want %d", i, len(row), len(s.Columns))
		}
	}
	return nil
}

// WriteCSV writes the sheet with a header row through a buffered writer.
func WriteCSV(w io.Writer, sheet PrintSheet) error {
	if err := sheet.validate(); err != nil {
		return err
	}

	buffered := bufio.NewWriterSize(w, 64*1024)
	writer := csv.NewWriter(buffered)

	if err := writer.Write(sheet.Columns); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	if err := writer.WriteAll(sheet.Rows); err != nil {
		return fmt.Errorf("failed to write csv rows: %w", err)
	}

	return buffered.Flush()
}

// WriteXLSX writes the sheet as a single worksheet workbook with a bold
// header row.
func WriteXLSX(w io.Writer, sheet PrintSheet) error {
	if err := sheet.validate(); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", printSheetName); err != nil {
		return fmt.Errorf("failed to name worksheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, header := range sheet.Columns {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		cell := fmt.Sprintf("%s1", col)
		if err := f.SetCellValue(printSheetName, cell, header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		if err := f.SetCellStyle(printSheetName, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("failed to style header: %w", err)
		}
		if err := f.SetColWidth(printSheetName, col, col, 22); err != nil {
			return fmt.Errorf("failed to size column: %w", err)
		}
	}

	for r, row := range sheet.Rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellStr(printSheetName, cell, value); err != nil {
				return fmt.Errorf("failed to write cell %s: %w", cell, err)
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
