package forms

import (
	"context"
	"fmt"
	"inventory/internal/apperrors"
	"inventory/internal/logger"
	. "inventory/internal/models"
	"strconv"
	"time"
)

const (
	FieldSKU          = "sku_id"
	FieldBatchDate    = "batch_date"
	FieldQuantity     = "quantity"
	FieldSpecTemplate = "spec_template_id"

	// MaxBatchQuantity caps how many barcodes one batch issues.
	MaxBatchQuantity = 10000

	dateLayout      = "2006-01-02"
	msgImmutableSKU = "The SKU cannot be changed after barcodes are issued."
	msgImmutableQty = "The quantity cannot be changed after barcodes are issued."
)

type SKUSource interface {
	List(ctx context.Context) ([]SKU, error)
}

type SpecTemplateSource interface {
	List(ctx context.Context) ([]SpecTemplate, error)
	FieldsFor(ctx context.Context, id string) ([]string, error)
}

type BatchFormBuilder struct {
	skus      SKUSource
	templates SpecTemplateSource
	now       func() time.Time
	log       logger.Logger
}

func NewBatchFormBuilder(skus SKUSource, templates SpecTemplateSource) *BatchFormBuilder {
	return &BatchFormBuilder{
		skus:      skus,
		templates: templates,
		now:       time.Now,
		log:       logger.New("BatchFormBuilder"),
	}
}

// BatchForm is a batch form bound to one template selection.
type BatchForm struct {
	Form
	SpecFields []string `json:"specFields"`
	existing   *Batch
}

// Build assembles the static batch fields followed by one input per field
// of the selected template. The selection is read from data when the key is
// present, otherwise from existing.
func (b *BatchFormBuilder) Build(ctx context.Context, data map[string]string, existing *Batch) (BatchForm, error) {
	log := b.log.Function("Build")

	skus, err := b.skus.List(ctx)
	if err != nil {
		return BatchForm{}, log.Err("failed to load skus", err)
	}
	templates, err := b.templates.List(ctx)
	if err != nil {
		return BatchForm{}, log.Err("failed to load spec templates", err)
	}

	skuChoices := make([]Choice, 0, len(skus))
	for _, sku := range skus {
		skuChoices = append(skuChoices, Choice{Value: sku.ID, Label: sku.Code})
	}
	templateChoices := make([]Choice, 0, len(templates))
	for _, template := range templates {
		templateChoices = append(templateChoices, Choice{Value: template.ID, Label: template.Name})
	}

	initialDate := b.now().UTC().Format(dateLayout)
	var initialSKU, initialQty, initialTemplate string
	if existing != nil {
		initialSKU = existing.SKUID
		initialQty = strconv.Itoa(existing.Quantity)
		initialDate = existing.BatchDate.UTC().Format(dateLayout)
		if existing.SpecTemplateID != nil {
			initialTemplate = *existing.SpecTemplateID
		}
	}

	form := BatchForm{existing: existing}
	form.Fields = []Field{
		{Name: FieldSKU, Label: "SKU", Kind: KindSelect, Required: true, Initial: initialSKU, Choices: skuChoices},
		{Name: FieldBatchDate, Label: "Batch Date", Kind: KindDate, Required: true, Initial: initialDate},
		{Name: FieldQuantity, Label: "Quantity", Kind: KindInteger, Required: true, Initial: initialQty, Max: MaxBatchQuantity},
		{Name: FieldSpecTemplate, Label: "Spec Template", Kind: KindSelect, Initial: initialTemplate, Choices: templateChoices},
	}

	templateID := initialTemplate
	if selected, ok := data[FieldSpecTemplate]; ok {
		templateID = selected
	}
	if templateID == "" {
		return form, nil
	}

	fields, err := b.templates.FieldsFor(ctx, templateID)
	if apperrors.IsNotFound(err) {
		// The select rejects the unknown id during validation.
		return form, nil
	}
	if err != nil {
		return BatchForm{}, log.Err("failed to load template fields", err, "templateID", templateID)
	}

	for _, name := range fields {
		field := Field{
			Name:     name,
			Label:    SpecFieldLabel(name),
			Kind:     KindText,
			Required: !IsOptionalSpecField(name),
		}
		if existing != nil {
			field.Initial = existing.SpecValue(name)
		}
		form.Fields = append(form.Fields, field)
		form.SpecFields = append(form.SpecFields, name)
	}

	return form, nil
}

// Validate runs field validation and, on an existing batch, rejects changes
// to the SKU or quantity. When editing, keys absent from data keep the
// batch's stored value.
func (f BatchForm) Validate(data map[string]string) (map[string]string, error) {
	if f.existing != nil {
		merged := make(map[string]string, len(f.Fields))
		for _, field := range f.Fields {
			merged[field.Name] = field.Initial
		}
		for key, value := range data {
			merged[key] = value
		}
		data = merged
	}

	cleaned, err := f.Form.Validate(data)

	errs, _ := apperrors.AsValidation(err)
	if errs == nil {
		errs = apperrors.ValidationErrors{}
	}

	if f.existing != nil {
		if sku, ok := cleaned[FieldSKU]; ok && sku != f.existing.SKUID {
			errs.Add(FieldSKU, msgImmutableSKU)
		}
		if qty, ok := cleaned[FieldQuantity]; ok && qty != strconv.Itoa(f.existing.Quantity) {
			errs.Add(FieldQuantity, msgImmutableQty)
		}
	}

	if errs.HasErrors() {
		return cleaned, errs
	}
	return cleaned, nil
}

// ApplyToBatch copies cleaned values onto batch. The prefix always comes
// from sku; template values are merged so fields dropped by a template
// change keep their stored value.
func (f BatchForm) ApplyToBatch(cleaned map[string]string, batch *Batch, sku SKU) error {
	date, err := time.Parse(dateLayout, cleaned[FieldBatchDate])
	if err != nil {
		return apperrors.ValidationErrors{FieldBatchDate: msgInvalidDate}
	}

	if batch.ID == "" {
		quantity, err := strconv.Atoi(cleaned[FieldQuantity])
		if err != nil || quantity <= 0 {
			return apperrors.ValidationErrors{FieldQuantity: msgPositiveInt}
		}
		if quantity > MaxBatchQuantity {
			return apperrors.ValidationErrors{FieldQuantity: fmt.Sprintf(msgMaxInt, MaxBatchQuantity)}
		}
		batch.Quantity = quantity
		batch.SKUID = sku.ID
	}

	batch.Prefix = sku.Code
	batch.BatchDate = date

	if templateID := cleaned[FieldSpecTemplate]; templateID != "" {
		batch.SpecTemplateID = &templateID
	} else {
		batch.SpecTemplateID = nil
	}

	updates := SpecValues{}
	for _, name := range f.SpecFields {
		updates[name] = cleaned[name]
	}
	batch.MergeSpecs(updates)

	return nil
}
