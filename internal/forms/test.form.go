package forms

import (
	"context"
	"fmt"
	"inventory/internal/logger"
	. "inventory/internal/models"
)

const (
	FieldBatch         = "batch_id"
	FieldBarcode       = "barcode_id"
	FieldTemplate      = "template_id"
	FieldOverallStatus = "overall_status"

	AnswerPass = "pass"
	AnswerFail = "fail"

	notSelectedLabel = "---------"
)

type BatchSource interface {
	List(ctx context.Context, skuID string) ([]Batch, error)
}

type BarcodeSource interface {
	ListByBatch(ctx context.Context, batchID string) ([]Barcode, error)
}

type TestTemplateSource interface {
	List(ctx context.Context) ([]TestTemplate, error)
	Questions(ctx context.Context, templateID string) ([]TestQuestion, error)
}

type TechnicalOutputSource interface {
	ListActive(ctx context.Context) ([]TechnicalOutputChoice, error)
}

func QuestionStatusField(questionID string) string {
	return fmt.Sprintf("question_%s_status", questionID)
}

func QuestionOutputField(questionID string) string {
	return fmt.Sprintf("question_%s_output", questionID)
}

func QuestionRemarksField(questionID string) string {
	return fmt.Sprintf("question_%s_remarks", questionID)
}

type TestFormBuilder struct {
	skus      SKUSource
	batches   BatchSource
	barcodes  BarcodeSource
	templates TestTemplateSource
	outputs   TechnicalOutputSource
	log       logger.Logger
}

func NewTestFormBuilder(
	skus SKUSource,
	batches BatchSource,
	barcodes BarcodeSource,
	templates TestTemplateSource,
	outputs TechnicalOutputSource,
) *TestFormBuilder {
	return &TestFormBuilder{
		skus:      skus,
		batches:   batches,
		barcodes:  barcodes,
		templates: templates,
		outputs:   outputs,
		log:       logger.New("TestFormBuilder"),
	}
}

// TestForm is a test form bound to one template's questions.
type TestForm struct {
	Form
	Questions []TestQuestion `json:"questions"`
}

// Build narrows batch choices to the selected SKU and barcode choices to
// the selected batch, then adds a status, output and remarks field for each
// question of the selected template.
func (b *TestFormBuilder) Build(ctx context.Context, data map[string]string) (TestForm, error) {
	log := b.log.Function("Build")

	skus, err := b.skus.List(ctx)
	if err != nil {
		return TestForm{}, log.Err("failed to load skus", err)
	}
	skuChoices := make([]Choice, 0, len(skus))
	for _, sku := range skus {
		skuChoices = append(skuChoices, Choice{Value: sku.ID, Label: sku.Code})
	}

	batchChoices := []Choice{}
	if skuID := data[FieldSKU]; skuID != "" {
		batches, err := b.batches.List(ctx, skuID)
		if err != nil {
			return TestForm{}, log.Err("failed to load batches", err, "skuID", skuID)
		}
		for _, batch := range batches {
			label := fmt.Sprintf("%s (%s)", batch.Prefix, batch.BatchDate.Format(dateLayout))
			batchChoices = append(batchChoices, Choice{Value: batch.ID, Label: label})
		}
	}

	barcodeChoices := []Choice{}
	if batchID := data[FieldBatch]; batchID != "" && hasValue(batchChoices, batchID) {
		barcodes, err := b.barcodes.ListByBatch(ctx, batchID)
		if err != nil {
			return TestForm{}, log.Err("failed to load barcodes", err, "batchID", batchID)
		}
		for _, barcode := range barcodes {
			barcodeChoices = append(barcodeChoices, Choice{Value: barcode.ID, Label: barcode.SequenceNumber})
		}
	}

	templates, err := b.templates.List(ctx)
	if err != nil {
		return TestForm{}, log.Err("failed to load test templates", err)
	}
	templateChoices := make([]Choice, 0, len(templates))
	for _, template := range templates {
		templateChoices = append(templateChoices, Choice{Value: template.ID, Label: template.Name})
	}

	statusChoices := make([]Choice, 0, len(TestStatuses()))
	for _, status := range TestStatuses() {
		statusChoices = append(statusChoices, Choice{Value: string(status), Label: string(status)})
	}

	form := TestForm{}
	form.Fields = []Field{
		{Name: FieldSKU, Label: "SKU", Kind: KindSelect, Required: true, Choices: skuChoices},
		{Name: FieldBatch, Label: "Batch", Kind: KindSelect, Required: true, Choices: batchChoices},
		{Name: FieldBarcode, Label: "Barcode", Kind: KindSelect, Choices: barcodeChoices},
		{Name: FieldTemplate, Label: "Test Template", Kind: KindSelect, Choices: templateChoices},
		{
			Name:     FieldOverallStatus,
			Label:    "Overall Status",
			Kind:     KindSelect,
			Required: true,
			Initial:  string(TestStatusPending),
			Choices:  statusChoices,
		},
	}

	templateID := data[FieldTemplate]
	if templateID == "" {
		return form, nil
	}

	questions, err := b.templates.Questions(ctx, templateID)
	if err != nil {
		return TestForm{}, log.Err("failed to load questions", err, "templateID", templateID)
	}
	if len(questions) == 0 {
		return form, nil
	}

	outputs, err := b.outputs.ListActive(ctx)
	if err != nil {
		return TestForm{}, log.Err("failed to load technical outputs", err)
	}
	outputChoices := make([]Choice, 0, len(outputs)+1)
	outputChoices = append(outputChoices, Choice{Value: "", Label: notSelectedLabel})
	for _, output := range outputs {
		outputChoices = append(outputChoices, Choice{Value: output.Value, Label: output.Value})
	}

	answerChoices := []Choice{{Value: AnswerPass, Label: "Pass"}, {Value: AnswerFail, Label: "Fail"}}
	for _, question := range questions {
		form.Fields = append(form.Fields,
			Field{
				Name:     QuestionStatusField(question.ID),
				Label:    question.QuestionText,
				Kind:     KindSelect,
				Required: true,
				Choices:  answerChoices,
			},
			Field{
				Name:    QuestionOutputField(question.ID),
				Label:   "Technical Output",
				Kind:    KindSelect,
				Choices: outputChoices,
			},
			Field{
				Name:  QuestionRemarksField(question.ID),
				Label: "Remarks",
				Kind:  KindText,
			},
		)
	}
	form.Questions = questions

	return form, nil
}

// Answers builds one answer per question whose status key was submitted.
func (f TestForm) Answers(data, cleaned map[string]string) []TestAnswer {
	answers := make([]TestAnswer, 0, len(f.Questions))
	for _, question := range f.Questions {
		if _, ok := data[QuestionStatusField(question.ID)]; !ok {
			continue
		}

		answer := TestAnswer{
			QuestionID:   question.ID,
			QuestionText: question.QuestionText,
			Passed:       cleaned[QuestionStatusField(question.ID)] == AnswerPass,
			Remarks:      cleaned[QuestionRemarksField(question.ID)],
		}
		if output := cleaned[QuestionOutputField(question.ID)]; output != "" {
			answer.TechnicalOutput = &output
		}
		answers = append(answers, answer)
	}
	return answers
}

func hasValue(choices []Choice, value string) bool {
	for _, choice := range choices {
		if choice.Value == value {
			return true
		}
	}
	return false
}
