// Package testutil opens throwaway SQLite databases and inserts fixtures for
// package tests.
package testutil

import (
	"inventory/config"
	"inventory/internal/database"
	. "inventory/internal/models"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

// NewDB returns a migrated database backed by a file in t.TempDir. A file is
// used so concurrent transactions share one database across connections.
func NewDB(t testing.TB) database.DB {
	t.Helper()

	db, err := database.New(config.Config{
		Environment:         "test",
		DatabaseDriver:      config.DriverSQLite,
		DatabaseDbPath:      filepath.Join(t.TempDir(), "inventory_test.db"),
		DatabaseAutoMigrate: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func CreateUser(t testing.TB, db database.DB, login string) User {
	t.Helper()
	user := User{Login: login, DisplayName: login, Role: RoleTester}
	require.NoError(t, db.SQL.Create(&user).Error)
	return user
}

func CreateSKU(t testing.TB, db database.DB, code string) SKU {
	t.Helper()
	sku := SKU{Code: code, Description: code + " test sku"}
	require.NoError(t, db.SQL.Create(&sku).Error)
	return sku
}

func CreateSpecTemplate(t testing.TB, db database.DB, name string, fields ...string) SpecTemplate {
	t.Helper()
	template := SpecTemplate{Name: name, Fields: datatypes.JSONSlice[string](fields)}
	require.NoError(t, db.SQL.Create(&template).Error)
	return template
}

// CreateBatch inserts a batch row without barcodes.
func CreateBatch(t testing.TB, db database.DB, sku SKU, quantity int) Batch {
	t.Helper()
	batch := Batch{
		SKUID:     sku.ID,
		Prefix:    sku.Code,
		BatchDate: time.Now().UTC().Truncate(24 * time.Hour),
		Quantity:  quantity,
	}
	require.NoError(t, db.SQL.Create(&batch).Error)
	return batch
}

// CreateBarcodes inserts one barcode per sequence number into batch.
func CreateBarcodes(t testing.TB, db database.DB, batch Batch, sequenceNumbers ...string) []Barcode {
	t.Helper()
	barcodes := make([]Barcode, 0, len(sequenceNumbers))
	for _, seq := range sequenceNumbers {
		barcodes = append(barcodes, Barcode{BatchID: batch.ID, SKUID: batch.SKUID, SequenceNumber: seq})
	}
	if len(barcodes) > 0 {
		require.NoError(t, db.SQL.Create(&barcodes).Error)
	}
	return barcodes
}

// CreateTestTemplate inserts a template with questions created one at a
// time so their creation order is the slice order.
func CreateTestTemplate(t testing.TB, db database.DB, name string, questions ...string) TestTemplate {
	t.Helper()
	template := TestTemplate{Name: name, Description: name}
	require.NoError(t, db.SQL.Create(&template).Error)

	base := time.Now().UTC()
	for i, text := range questions {
		question := TestQuestion{TemplateID: template.ID, QuestionText: text}
		question.CreatedAt = base.Add(time.Duration(i) * time.Millisecond)
		require.NoError(t, db.SQL.Create(&question).Error)
		template.Questions = append(template.Questions, question)
	}
	return template
}

func CreateTechnicalOutputs(t testing.TB, db database.DB, values ...string) []TechnicalOutputChoice {
	t.Helper()
	outputs := make([]TechnicalOutputChoice, 0, len(values))
	for i, value := range values {
		outputs = append(outputs, TechnicalOutputChoice{Value: value, IsActive: true, SortOrder: i})
	}
	if len(outputs) > 0 {
		require.NoError(t, db.SQL.Create(&outputs).Error)
	}
	return outputs
}

func Count(t testing.TB, db database.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.SQL.Model(model).Count(&n).Error)
	return n
}

func SequenceNumbers(barcodes []Barcode) []string {
	out := make([]string, len(barcodes))
	for i, b := range barcodes {
		out[i] = b.SequenceNumber
	}
	return out
}
