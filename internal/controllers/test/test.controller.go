package testController

import (
	"context"
	"inventory/internal/apperrors"
	"inventory/internal/events"
	"inventory/internal/forms"
	"inventory/internal/logger"
	. "inventory/internal/models"
	"inventory/internal/repositories"
	"inventory/internal/services"
)

type TestController struct {
	testRepo           repositories.TestRepository
	testTemplateRepo   repositories.TestTemplateRepository
	formBuilder        *forms.TestFormBuilder
	transactionService *services.TransactionService
	eventBus           *events.EventBus
	log                logger.Logger
}

func New(
	skuRepo repositories.SKURepository,
	batchRepo repositories.BatchRepository,
	barcodeRepo repositories.BarcodeRepository,
	testTemplateRepo repositories.TestTemplateRepository,
	technicalOutputRepo repositories.TechnicalOutputRepository,
	testRepo repositories.TestRepository,
	transactionService *services.TransactionService,
	eventBus *events.EventBus,
) *TestController {
	return &TestController{
		testRepo:         testRepo,
		testTemplateRepo: testTemplateRepo,
		formBuilder: forms.NewTestFormBuilder(
			skuRepo,
			batchRepo,
			barcodeRepo,
			testTemplateRepo,
			technicalOutputRepo,
		),
		transactionService: transactionService,
		eventBus:           eventBus,
		log:                logger.New("TestController"),
	}
}

func (tc *TestController) BuildForm(ctx context.Context, data map[string]string) (forms.TestForm, error) {
	return tc.formBuilder.Build(ctx, data)
}

// Create records one test and an answer for each submitted question. A test
// without a template is stored with no answers.
func (tc *TestController) Create(ctx context.Context, userID string, data map[string]string) (Test, error) {
	log := tc.log.Function("Create")

	if userID == "" {
		return Test{}, apperrors.ValidationErrors{"user": "A recording user is required."}
	}

	form, err := tc.formBuilder.Build(ctx, data)
	if err != nil {
		return Test{}, err
	}
	cleaned, err := form.Validate(data)
	if err != nil {
		return Test{}, err
	}

	test := Test{
		SKUID:         cleaned[forms.FieldSKU],
		BatchID:       cleaned[forms.FieldBatch],
		UserID:        userID,
		OverallStatus: TestStatus(cleaned[forms.FieldOverallStatus]),
		Answers:       form.Answers(data, cleaned),
	}
	if barcodeID := cleaned[forms.FieldBarcode]; barcodeID != "" {
		test.BarcodeID = &barcodeID
	}

	err = tc.transactionService.Execute(ctx, func(txCtx context.Context) error {
		if templateID := cleaned[forms.FieldTemplate]; templateID != "" {
			template, err := tc.testTemplateRepo.GetByID(txCtx, templateID)
			if err != nil {
				return log.Err("failed to load test template", err, "templateID", templateID)
			}
			test.TemplateUsedID = &template.ID
			test.TemplateName = template.Name
		}

		return tc.testRepo.Create(txCtx, &test)
	})
	if err != nil {
		return Test{}, err
	}

	if len(test.Answers) == 0 {
		log.Warn("Recorded test without answers", "testID", test.ID, "batchID", test.BatchID)
	}

	tc.publish(userID, "created", test)
	return tc.testRepo.GetByID(ctx, test.ID)
}

func (tc *TestController) Get(ctx context.Context, testID string) (Test, error) {
	return tc.testRepo.GetByID(ctx, testID)
}

// UpdateStatus changes the overall status. Answers are never rewritten.
func (tc *TestController) UpdateStatus(ctx context.Context, userID, testID, status string) (Test, error) {
	next := TestStatus(status)
	if !next.Valid() {
		return Test{}, apperrors.ValidationErrors{forms.FieldOverallStatus: "Select a valid choice."}
	}

	if err := tc.testRepo.UpdateStatus(ctx, testID, next); err != nil {
		return Test{}, err
	}

	test, err := tc.testRepo.GetByID(ctx, testID)
	if err != nil {
		return Test{}, err
	}

	tc.publish(userID, "status_changed", test)
	return test, nil
}

func (tc *TestController) publish(userID, action string, test Test) {
	if tc.eventBus == nil {
		return
	}

	event := events.NewEvent(events.ChannelTests, action, userID, map[string]any{
		"testId":        test.ID,
		"batchId":       test.BatchID,
		"overallStatus": test.OverallStatus,
		"answers":       len(test.Answers),
	})
	if err := tc.eventBus.Publish(events.ChannelTests, event); err != nil {
		tc.log.Function("publish").Warn("failed to publish test event", "testID", test.ID, "error", err)
	}
}
