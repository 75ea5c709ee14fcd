package forms

import (
	"context"
	"fmt"
	"inventory/internal/apperrors"
	. "inventory/internal/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

type fakeSKUs []SKU

func (f fakeSKUs) List(context.Context) ([]SKU, error) { return f, nil }

type fakeSpecTemplates []SpecTemplate

func (f fakeSpecTemplates) List(context.Context) ([]SpecTemplate, error) { return f, nil }

func (f fakeSpecTemplates) FieldsFor(_ context.Context, id string) ([]string, error) {
	for _, template := range f {
		if template.ID == id {
			return template.FieldNames(), nil
		}
	}
	return nil, apperrors.ErrNotFound
}

type fakeBatches []Batch

func (f fakeBatches) List(_ context.Context, skuID string) ([]Batch, error) {
	var out []Batch
	for _, batch := range f {
		if skuID == "" || batch.SKUID == skuID {
			out = append(out, batch)
		}
	}
	return out, nil
}

type fakeBarcodes []Barcode

func (f fakeBarcodes) ListByBatch(_ context.Context, batchID string) ([]Barcode, error) {
	var out []Barcode
	for _, barcode := range f {
		if barcode.BatchID == batchID {
			out = append(out, barcode)
		}
	}
	return out, nil
}

type fakeTestTemplates []TestTemplate

func (f fakeTestTemplates) List(context.Context) ([]TestTemplate, error) { return f, nil }

func (f fakeTestTemplates) Questions(_ context.Context, id string) ([]TestQuestion, error) {
	for _, template := range f {
		if template.ID == id {
			return template.Questions, nil
		}
	}
	return nil, nil
}

type fakeOutputs []TechnicalOutputChoice

func (f fakeOutputs) ListActive(context.Context) ([]TechnicalOutputChoice, error) { return f, nil }

func sku(id, code string) SKU {
	s := SKU{Code: code}
	s.ID = id
	return s
}

func specTemplate(id, name string, fields ...string) SpecTemplate {
	t := SpecTemplate{Name: name, Fields: datatypes.JSONSlice[string](fields)}
	t.ID = id
	return t
}

func newBatchBuilder() *BatchFormBuilder {
	builder := NewBatchFormBuilder(
		fakeSKUs{sku("sku-1", "KA01"), sku("sku-2", "KB02")},
		fakeSpecTemplates{
			specTemplate("tpl-power", "Power", "battery", "capacity"),
			specTemplate("tpl-extra", "Extra", "feature_spec"),
		},
	)
	builder.now = func() time.Time { return time.Date(2024, 3, 9, 15, 0, 0, 0, time.UTC) }
	return builder
}

func dynamicFields(form BatchForm) []Field {
	var out []Field
	for _, name := range form.SpecFields {
		field, _ := form.Field(name)
		out = append(out, field)
	}
	return out
}

func TestBatchFormBuilder_TwoRequiredFields(t *testing.T) {
	form, err := newBatchBuilder().Build(context.Background(), map[string]string{FieldSpecTemplate: "tpl-power"}, nil)
	require.NoError(t, err)

	fields := dynamicFields(form)
	require.Len(t, fields, 2)
	assert.Equal(t, "battery", fields[0].Name)
	assert.Equal(t, "Battery", fields[0].Label)
	assert.True(t, fields[0].Required)
	assert.Equal(t, "capacity", fields[1].Name)
	assert.True(t, fields[1].Required)
	assert.Equal(t, []string{FieldSKU, FieldBatchDate, FieldQuantity, FieldSpecTemplate, "battery", "capacity"}, form.Names())
}

func TestBatchFormBuilder_OneOptionalField(t *testing.T) {
	form, err := newBatchBuilder().Build(context.Background(), map[string]string{FieldSpecTemplate: "tpl-extra"}, nil)
	require.NoError(t, err)

	fields := dynamicFields(form)
	require.Len(t, fields, 1)
	assert.Equal(t, "feature_spec", fields[0].Name)
	assert.Equal(t, "Feature Spec", fields[0].Label)
	assert.False(t, fields[0].Required)
}

func TestBatchFormBuilder_NoTemplate(t *testing.T) {
	form, err := newBatchBuilder().Build(context.Background(), map[string]string{}, nil)
	require.NoError(t, err)

	assert.Empty(t, form.SpecFields)
	dateField, ok := form.Field(FieldBatchDate)
	require.True(t, ok)
	assert.Equal(t, "2024-03-09", dateField.Initial)
}

func TestBatchFormBuilder_UnknownTemplateFailsValidation(t *testing.T) {
	form, err := newBatchBuilder().Build(context.Background(), map[string]string{FieldSpecTemplate: "missing"}, nil)
	require.NoError(t, err)
	assert.Empty(t, form.SpecFields)

	_, err = form.Validate(map[string]string{
		FieldSKU:          "sku-1",
		FieldBatchDate:    "2024-03-09",
		FieldQuantity:     "3",
		FieldSpecTemplate: "missing",
	})
	errs, ok := apperrors.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, msgInvalidChoice, errs[FieldSpecTemplate])
}

func TestBatchForm_ValidateReportsStaticAndDynamicUniformly(t *testing.T) {
	form, err := newBatchBuilder().Build(context.Background(), map[string]string{FieldSpecTemplate: "tpl-power"}, nil)
	require.NoError(t, err)

	_, err = form.Validate(map[string]string{
		FieldSpecTemplate: "tpl-power",
		FieldQuantity:     "0",
		FieldBatchDate:    "not a date",
		"battery":         "5000mAh",
	})
	errs, ok := apperrors.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ValidationErrors{
		FieldSKU:       msgRequired,
		FieldQuantity:  msgPositiveInt,
		FieldBatchDate: msgInvalidDate,
		"capacity":     msgRequired,
	}, errs)
}

func TestBatchForm_QuantityUpperBound(t *testing.T) {
	form, err := newBatchBuilder().Build(context.Background(), map[string]string{}, nil)
	require.NoError(t, err)

	field, ok := form.Field(FieldQuantity)
	require.True(t, ok)
	assert.Equal(t, MaxBatchQuantity, field.Max)

	base := map[string]string{FieldSKU: "sku-1", FieldBatchDate: "2024-03-09"}

	base[FieldQuantity] = fmt.Sprint(MaxBatchQuantity)
	_, err = form.Validate(base)
	assert.NoError(t, err)

	base[FieldQuantity] = "50000000"
	_, err = form.Validate(base)
	errs, ok := apperrors.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, fmt.Sprintf(msgMaxInt, MaxBatchQuantity), errs[FieldQuantity])

	var batch Batch
	err = form.ApplyToBatch(map[string]string{
		FieldBatchDate: "2024-03-09",
		FieldQuantity:  "50000000",
	}, &batch, SKU{Code: "KA01"})
	errs, ok = apperrors.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, errs, FieldQuantity)
	assert.Zero(t, batch.Quantity)
}

func TestBatchForm_ApplyToBatch(t *testing.T) {
	form, err := newBatchBuilder().Build(context.Background(), map[string]string{FieldSpecTemplate: "tpl-power"}, nil)
	require.NoError(t, err)

	data := map[string]string{
		FieldSKU:          "sku-1",
		FieldBatchDate:    "03/09/2024",
		FieldQuantity:     "12",
		FieldSpecTemplate: "tpl-power",
		"battery":         " 5000mAh ",
		"capacity":        "20Ah",
		"prefix":          "IGNORED",
	}
	cleaned, err := form.Validate(data)
	require.NoError(t, err)
	assert.NotContains(t, cleaned, "prefix")

	var batch Batch
	require.NoError(t, form.ApplyToBatch(cleaned, &batch, sku("sku-1", "KA01")))

	assert.Equal(t, "sku-1", batch.SKUID)
	assert.Equal(t, "KA01", batch.Prefix)
	assert.Equal(t, 12, batch.Quantity)
	assert.Equal(t, "2024-03-09", batch.BatchDate.Format("2006-01-02"))
	require.NotNil(t, batch.SpecTemplateID)
	assert.Equal(t, "tpl-power", *batch.SpecTemplateID)
	assert.Equal(t, "5000mAh", batch.SpecValue("battery"))
	assert.Equal(t, "20Ah", batch.SpecValue("capacity"))
}

func existingBatch() *Batch {
	templateID := "tpl-power"
	batch := &Batch{
		SKUID:          "sku-1",
		Prefix:         "KA01",
		Quantity:       5,
		BatchDate:      time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		SpecTemplateID: &templateID,
		Specs:          datatypes.NewJSONType(SpecValues{"battery": "5000mAh", "capacity": "20Ah"}),
	}
	batch.ID = "batch-1"
	return batch
}

func TestBatchFormBuilder_ExistingBatchInitials(t *testing.T) {
	form, err := newBatchBuilder().Build(context.Background(), map[string]string{}, existingBatch())
	require.NoError(t, err)

	require.Equal(t, []string{"battery", "capacity"}, form.SpecFields)
	battery, _ := form.Field("battery")
	assert.Equal(t, "5000mAh", battery.Initial)
	quantity, _ := form.Field(FieldQuantity)
	assert.Equal(t, "5", quantity.Initial)
	date, _ := form.Field(FieldBatchDate)
	assert.Equal(t, "2024-01-02", date.Initial)
}

func TestBatchForm_UpdateRejectsSKUAndQuantityChanges(t *testing.T) {
	existing := existingBatch()
	form, err := newBatchBuilder().Build(context.Background(), map[string]string{}, existing)
	require.NoError(t, err)

	_, err = form.Validate(map[string]string{
		FieldSKU:       "sku-2",
		FieldBatchDate: "2024-01-02",
		FieldQuantity:  "6",
		"battery":      "1",
		"capacity":     "2",
	})
	errs, ok := apperrors.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, msgImmutableSKU, errs[FieldSKU])
	assert.Equal(t, msgImmutableQty, errs[FieldQuantity])
}

func TestBatchForm_TemplateChangeRetainsStaleValues(t *testing.T) {
	existing := existingBatch()
	data := map[string]string{
		FieldSKU:          "sku-1",
		FieldBatchDate:    "2024-01-03",
		FieldQuantity:     "5",
		FieldSpecTemplate: "tpl-extra",
		"feature_spec":    "fast charge",
	}
	form, err := newBatchBuilder().Build(context.Background(), data, existing)
	require.NoError(t, err)
	assert.Equal(t, []string{"feature_spec"}, form.SpecFields)

	cleaned, err := form.Validate(data)
	require.NoError(t, err)
	require.NoError(t, form.ApplyToBatch(cleaned, existing, sku("sku-1", "KA01")))

	assert.Equal(t, 5, existing.Quantity)
	assert.Equal(t, "tpl-extra", *existing.SpecTemplateID)
	assert.Equal(t, "fast charge", existing.SpecValue("feature_spec"))
	assert.Equal(t, "5000mAh", existing.SpecValue("battery"))
	assert.Equal(t, "20Ah", existing.SpecValue("capacity"))
}

func newTestBuilder() *TestFormBuilder {
	b1 := Batch{SKUID: "sku-1", Prefix: "KA01"}
	b1.ID = "batch-1"
	b2 := Batch{SKUID: "sku-2", Prefix: "KB02"}
	b2.ID = "batch-2"

	bc := Barcode{BatchID: "batch-1", SequenceNumber: "KA01A001"}
	bc.ID = "barcode-1"

	template := TestTemplate{Name: "Charger"}
	template.ID = "tt-1"
	for _, id := range []string{"q1", "q2", "q3"} {
		q := TestQuestion{TemplateID: "tt-1", QuestionText: "Question " + id}
		q.ID = id
		template.Questions = append(template.Questions, q)
	}

	return NewTestFormBuilder(
		fakeSKUs{sku("sku-1", "KA01"), sku("sku-2", "KB02")},
		fakeBatches{b1, b2},
		fakeBarcodes{bc},
		fakeTestTemplates{template},
		fakeOutputs{{Value: "High"}, {Value: "Low"}},
	)
}

func TestTestFormBuilder_EmptyDependentChoices(t *testing.T) {
	form, err := newTestBuilder().Build(context.Background(), map[string]string{})
	require.NoError(t, err)

	batch, ok := form.Field(FieldBatch)
	require.True(t, ok)
	assert.Empty(t, batch.Choices)

	barcode, ok := form.Field(FieldBarcode)
	require.True(t, ok)
	assert.Empty(t, barcode.Choices)

	status, _ := form.Field(FieldOverallStatus)
	assert.Equal(t, string(TestStatusPending), status.Initial)
	assert.Len(t, form.Fields, 5)
}

func TestTestFormBuilder_DependentChoicesFollowSelection(t *testing.T) {
	form, err := newTestBuilder().Build(context.Background(), map[string]string{
		FieldSKU:   "sku-1",
		FieldBatch: "batch-1",
	})
	require.NoError(t, err)

	batch, _ := form.Field(FieldBatch)
	require.Len(t, batch.Choices, 1)
	assert.Equal(t, "batch-1", batch.Choices[0].Value)

	barcode, _ := form.Field(FieldBarcode)
	require.Len(t, barcode.Choices, 1)
	assert.Equal(t, "KA01A001", barcode.Choices[0].Label)

	other, err := newTestBuilder().Build(context.Background(), map[string]string{
		FieldSKU:   "sku-2",
		FieldBatch: "batch-1",
	})
	require.NoError(t, err)
	barcode, _ = other.Field(FieldBarcode)
	assert.Empty(t, barcode.Choices)
}

func TestTestFormBuilder_NineQuestionFields(t *testing.T) {
	form, err := newTestBuilder().Build(context.Background(), map[string]string{FieldTemplate: "tt-1"})
	require.NoError(t, err)

	require.Len(t, form.Fields, 5+9)
	assert.Equal(t, []string{
		"question_q1_status", "question_q1_output", "question_q1_remarks",
		"question_q2_status", "question_q2_output", "question_q2_remarks",
		"question_q3_status", "question_q3_output", "question_q3_remarks",
	}, form.Names()[5:])

	status, _ := form.Field("question_q1_status")
	assert.True(t, status.Required)
	output, _ := form.Field("question_q1_output")
	assert.False(t, output.Required)
	require.Len(t, output.Choices, 3)
	assert.Equal(t, "", output.Choices[0].Value)
	assert.Equal(t, "High", output.Choices[1].Value)
}

func TestTestForm_Answers(t *testing.T) {
	form, err := newTestBuilder().Build(context.Background(), map[string]string{
		FieldSKU:      "sku-1",
		FieldBatch:    "batch-1",
		FieldTemplate: "tt-1",
	})
	require.NoError(t, err)

	data := map[string]string{
		FieldSKU:              "sku-1",
		FieldBatch:            "batch-1",
		FieldTemplate:         "tt-1",
		FieldOverallStatus:    "passed",
		"question_q1_status":  "pass",
		"question_q1_output":  "High",
		"question_q2_status":  "fail",
		"question_q2_remarks": "scratched",
		"question_q3_status":  "pass",
	}
	cleaned, err := form.Validate(data)
	require.NoError(t, err)

	answers := form.Answers(data, cleaned)
	require.Len(t, answers, 3)
	assert.True(t, answers[0].Passed)
	require.NotNil(t, answers[0].TechnicalOutput)
	assert.Equal(t, "High", *answers[0].TechnicalOutput)
	assert.False(t, answers[1].Passed)
	assert.Nil(t, answers[1].TechnicalOutput)
	assert.Equal(t, "scratched", answers[1].Remarks)
	assert.Equal(t, "Question q3", answers[2].QuestionText)
}

func TestTestForm_RejectsUnknownOutput(t *testing.T) {
	form, err := newTestBuilder().Build(context.Background(), map[string]string{FieldTemplate: "tt-1"})
	require.NoError(t, err)

	_, err = form.Validate(map[string]string{"question_q1_output": "Bogus"})
	errs, ok := apperrors.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, msgInvalidChoice, errs["question_q1_output"])
	assert.Equal(t, msgRequired, errs["question_q1_status"])
}

func TestDataFromJSON(t *testing.T) {
	data := DataFromJSON(map[string]any{
		"quantity": float64(12),
		"sku_id":   "sku-1",
		"flag":     true,
		"empty":    nil,
	})
	assert.Equal(t, map[string]string{"quantity": "12", "sku_id": "sku-1", "flag": "true", "empty": ""}, data)
}
