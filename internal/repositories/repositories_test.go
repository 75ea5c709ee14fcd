package repositories

import (
	"context"
	"inventory/internal/apperrors"
	. "inventory/internal/models"
	"inventory/internal/testutil"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBarcodeRepository_HighestSequenceForPrefix(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		want     string
		found    bool
	}{
		{name: "no barcodes", found: false},
		{name: "single", existing: []string{"KA01A001"}, want: "KA01A001", found: true},
		{
			name:     "highest counter",
			existing: []string{"KA01A001", "KA01A010", "KA01A002"},
			want:     "KA01A010",
			found:    true,
		},
		{
			name:     "wider letters rank above narrower",
			existing: []string{"KA01Z999", "KA01AA001", "KA01B500"},
			want:     "KA01AA001",
			found:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testutil.NewDB(t)
			sku := testutil.CreateSKU(t, db, "KA01")
			batch := testutil.CreateBatch(t, db, sku, len(tt.existing)+1)
			testutil.CreateBarcodes(t, db, batch, tt.existing...)

			got, found, err := NewBarcode(db).HighestSequenceForPrefix(context.Background(), "KA01")
			require.NoError(t, err)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBarcodeRepository_HighestSequenceIgnoresOtherPrefixes(t *testing.T) {
	db := testutil.NewDB(t)
	ka := testutil.CreateBatch(t, db, testutil.CreateSKU(t, db, "KA01"), 1)
	kb := testutil.CreateBatch(t, db, testutil.CreateSKU(t, db, "KB02"), 1)
	testutil.CreateBarcodes(t, db, ka, "KA01A005")
	testutil.CreateBarcodes(t, db, kb, "KB02C100")

	got, found, err := NewBarcode(db).HighestSequenceForPrefix(context.Background(), "KA01")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "KA01A005", got)
}

func TestBarcodeRepository_HighestSequenceIncludesSoftDeleted(t *testing.T) {
	db := testutil.NewDB(t)
	batch := testutil.CreateBatch(t, db, testutil.CreateSKU(t, db, "KA01"), 2)
	barcodes := testutil.CreateBarcodes(t, db, batch, "KA01A001", "KA01A002")
	require.NoError(t, db.SQL.Delete(&barcodes[1]).Error)

	got, _, err := NewBarcode(db).HighestSequenceForPrefix(context.Background(), "KA01")
	require.NoError(t, err)
	assert.Equal(t, "KA01A002", got)
}

func TestBarcodeRepository_CreateListAndMarkPrinted(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewBarcode(db)
	ctx := context.Background()
	batch := testutil.CreateBatch(t, db, testutil.CreateSKU(t, db, "KA01"), 3)

	assert.Error(t, repo.CreateBatch(ctx, nil))

	rows := []*Barcode{
		{BatchID: batch.ID, SKUID: batch.SKUID, SequenceNumber: "KA01A001"},
		{BatchID: batch.ID, SKUID: batch.SKUID, SequenceNumber: "KA01A002"},
		{BatchID: batch.ID, SKUID: batch.SKUID, SequenceNumber: "KA01A003"},
	}
	require.NoError(t, repo.CreateBatch(ctx, rows))

	listed, err := repo.ListByBatch(ctx, batch.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"KA01A001", "KA01A002", "KA01A003"}, testutil.SequenceNumbers(listed))

	printedAt := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.MarkPrinted(ctx, []string{listed[0].ID}, printedAt))

	first, err := repo.GetByID(ctx, listed[0].ID)
	require.NoError(t, err)
	require.NotNil(t, first.PrintedAt)
	assert.True(t, printedAt.Equal(first.PrintedAt.UTC()))

	second, err := repo.GetByID(ctx, listed[1].ID)
	require.NoError(t, err)
	assert.Nil(t, second.PrintedAt)

	duplicate := []*Barcode{{BatchID: batch.ID, SKUID: batch.SKUID, SequenceNumber: "KA01A001"}}
	err = repo.CreateBatch(ctx, duplicate)
	assert.ErrorIs(t, err, apperrors.ErrUniquenessViolation)
}

func TestSKURepository_LookupsAndNotFound(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewSKU(db)
	ctx := context.Background()

	sku := SKU{Code: "KA01", Description: "Keyboard"}
	require.NoError(t, repo.Create(ctx, &sku))

	byCode, err := repo.GetByCode(ctx, "KA01")
	require.NoError(t, err)
	assert.Equal(t, sku.ID, byCode.ID)

	locked, err := repo.LockForUpdate(ctx, sku.ID)
	require.NoError(t, err)
	assert.Equal(t, "KA01", locked.Code)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	err = repo.Create(ctx, &SKU{Code: "KA01"})
	assert.ErrorIs(t, err, apperrors.ErrUniquenessViolation)

	require.NoError(t, repo.Create(ctx, &SKU{Code: "AB02"}))
	skus, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, skus, 2)
	assert.Equal(t, "AB02", skus[0].Code)
}

func TestSpecTemplateRepository_FieldsFor(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewSpecTemplate(db)
	ctx := context.Background()

	template := testutil.CreateSpecTemplate(t, db, "Power bank", "capacity", "battery", "feature_spec")

	fields, err := repo.FieldsFor(ctx, template.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"capacity", "battery", "feature_spec"}, fields)

	_, err = repo.FieldsFor(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	templates, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, templates, 1)
	assert.Equal(t, "Power bank", templates[0].Name)
}

func TestBatchRepository_UpdateKeepsImmutableColumns(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewBatch(db)
	ctx := context.Background()

	sku := testutil.CreateSKU(t, db, "KA01")
	batch := testutil.CreateBatch(t, db, sku, 5)

	batch.Quantity = 99
	batch.Prefix = "ZZ"
	batch.MergeSpecs(SpecValues{"battery": "5000mAh"})
	require.NoError(t, repo.Update(ctx, &batch))

	stored, err := repo.GetByID(ctx, batch.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.Quantity)
	assert.Equal(t, "KA01", stored.Prefix)
	assert.Equal(t, "5000mAh", stored.SpecValue("battery"))
	require.NotNil(t, stored.SKU)
	assert.Equal(t, "KA01", stored.SKU.Code)

	other := testutil.CreateSKU(t, db, "KB02")
	testutil.CreateBatch(t, db, other, 1)

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filtered, err := repo.List(ctx, sku.ID)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, batch.ID, filtered[0].ID)
}

func TestTestTemplateRepository_QuestionOrder(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewTestTemplate(db)
	ctx := context.Background()

	template := &TestTemplate{
		Name: "Charger QA",
		Questions: []TestQuestion{
			{QuestionText: "Powers on"},
			{QuestionText: "Charges device"},
			{QuestionText: "No overheating"},
		},
	}
	require.NoError(t, repo.Create(ctx, template))

	questions, err := repo.Questions(ctx, template.ID)
	require.NoError(t, err)
	require.Len(t, questions, 3)
	assert.Equal(t, "Powers on", questions[0].QuestionText)
	assert.Equal(t, "Charges device", questions[1].QuestionText)
	assert.Equal(t, "No overheating", questions[2].QuestionText)

	loaded, err := repo.GetByID(ctx, template.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.Questions, 3)
}

func TestTechnicalOutputRepository_ListActiveOrdering(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewTechnicalOutput(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &TechnicalOutputChoice{Value: "Within tolerance", IsActive: true, SortOrder: 2}))
	require.NoError(t, repo.Create(ctx, &TechnicalOutputChoice{Value: "Low", IsActive: true, SortOrder: 1}))
	require.NoError(t, repo.Create(ctx, &TechnicalOutputChoice{Value: "High", IsActive: true, SortOrder: 1}))
	require.NoError(t, repo.Create(ctx, &TechnicalOutputChoice{Value: "Retired", IsActive: false}))

	choices, err := repo.ListActive(ctx)
	require.NoError(t, err)

	values := make([]string, 0, len(choices))
	for _, c := range choices {
		values = append(values, c.Value)
	}
	assert.Equal(t, []string{"High", "Low", "Within tolerance"}, values)
}

func TestTestRepository_CreateAndUpdateStatus(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewTest(db)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "tester")
	sku := testutil.CreateSKU(t, db, "KA01")
	batch := testutil.CreateBatch(t, db, sku, 1)

	test := &Test{
		SKUID:         sku.ID,
		BatchID:       batch.ID,
		UserID:        user.ID,
		OverallStatus: TestStatusPending,
		Answers: []TestAnswer{
			{QuestionID: "q1", QuestionText: "Powers on", Passed: true},
			{QuestionID: "q2", QuestionText: "Charges", Passed: false, Remarks: "slow"},
		},
	}
	require.NoError(t, repo.Create(ctx, test))

	loaded, err := repo.GetByID(ctx, test.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Answers, 2)
	assert.Equal(t, "Powers on", loaded.Answers[0].QuestionText)

	require.NoError(t, repo.UpdateStatus(ctx, test.ID, TestStatusFailed))
	loaded, err = repo.GetByID(ctx, test.ID)
	require.NoError(t, err)
	assert.Equal(t, TestStatusFailed, loaded.OverallStatus)

	err = repo.UpdateStatus(ctx, "missing", TestStatusPassed)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUserRepository_GetByLogin(t *testing.T) {
	db := testutil.NewDB(t)
	repo := New(db)
	ctx := context.Background()

	user := &User{Login: "ops", Role: RoleOperator, Password: "secret"}
	require.NoError(t, repo.Create(ctx, user))

	loaded, err := repo.GetByLogin(ctx, "ops")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loaded.ID)
	assert.True(t, loaded.CheckPassword("secret"))

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
