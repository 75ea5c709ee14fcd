package catalogController

import (
	"context"
	"inventory/config"
	"inventory/internal/apperrors"
	"inventory/internal/events"
	. "inventory/internal/models"
	"inventory/internal/repositories"
	"inventory/internal/services"
	"inventory/internal/testutil"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newController(t *testing.T) (*CatalogController, *events.EventBus) {
	t.Helper()

	db := testutil.NewDB(t)
	bus := events.New(nil, config.Config{})
	return New(
		repositories.NewSKU(db),
		repositories.NewSpecTemplate(db),
		repositories.NewTestTemplate(db),
		repositories.NewTechnicalOutput(db),
		services.NewTransactionService(db),
		services.NewCacheInvalidationService(db.Cache.Catalog, bus),
	), bus
}

func TestCreateSKU(t *testing.T) {
	controller, _ := newController(t)
	ctx := context.Background()

	sku, err := controller.CreateSKU(ctx, CreateSKURequest{Code: " ka01 ", Description: "Keyboard"})
	require.NoError(t, err)
	assert.Equal(t, "KA01", sku.Code)

	_, err = controller.CreateSKU(ctx, CreateSKURequest{Code: "KA01"})
	assert.ErrorIs(t, err, apperrors.ErrUniquenessViolation)

	_, err = controller.CreateSKU(ctx, CreateSKURequest{Code: "bad code!"})
	_, ok := apperrors.AsValidation(err)
	assert.True(t, ok)
}

func TestCreateSpecTemplate(t *testing.T) {
	controller, bus := newController(t)
	ctx := context.Background()

	var actions []string
	bus.Subscribe(events.ChannelCatalog, func(e events.Event) { actions = append(actions, e.Action) })

	template, err := controller.CreateSpecTemplate(ctx, CreateSpecTemplateRequest{
		Name:   "Power bank",
		Fields: []string{"capacity", "battery"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"capacity", "battery"}, template.FieldNames())
	assert.Equal(t, []string{"spec_template_changed"}, actions)

	templates, err := controller.ListSpecTemplates(ctx)
	require.NoError(t, err)
	require.Len(t, templates, 1)

	_, err = controller.CreateSpecTemplate(ctx, CreateSpecTemplateRequest{
		Name:   "Broken",
		Fields: []string{"battery", "battery", "flux_capacitor"},
	})
	errs, ok := apperrors.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, errs, "fieldNames")

	_, err = controller.CreateSpecTemplate(ctx, CreateSpecTemplateRequest{})
	errs, ok = apperrors.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "fieldNames")
}

func TestSpecFields(t *testing.T) {
	controller, _ := newController(t)
	fields := controller.SpecFields()
	require.Len(t, fields, 12)
	assert.Equal(t, SpecDeviceName, fields[0].Name)
}

func TestCreateTechnicalOutput(t *testing.T) {
	controller, _ := newController(t)
	ctx := context.Background()

	inactive := false
	_, err := controller.CreateTechnicalOutput(ctx, CreateTechnicalOutputRequest{Value: "Retired", IsActive: &inactive})
	require.NoError(t, err)
	_, err = controller.CreateTechnicalOutput(ctx, CreateTechnicalOutputRequest{Value: "Nominal", SortOrder: 1})
	require.NoError(t, err)

	outputs, err := controller.ListTechnicalOutputs(ctx)
	require.NoError(t, err)
	require.Len(t, outputs, 1)
	assert.Equal(t, "Nominal", outputs[0].Value)

	_, err = controller.CreateTechnicalOutput(ctx, CreateTechnicalOutputRequest{Value: "  "})
	_, ok := apperrors.AsValidation(err)
	assert.True(t, ok)
}

func TestCreateTestTemplate(t *testing.T) {
	controller, _ := newController(t)
	ctx := context.Background()

	template, err := controller.CreateTestTemplate(ctx, CreateTestTemplateRequest{
		Name:      "Charger QA",
		Questions: []string{"Powers on", "Charges"},
	})
	require.NoError(t, err)
	require.Len(t, template.Questions, 2)

	templates, err := controller.ListTestTemplates(ctx)
	require.NoError(t, err)
	require.Len(t, templates, 1)
	assert.Equal(t, "Powers on", templates[0].Questions[0].QuestionText)

	_, err = controller.CreateTestTemplate(ctx, CreateTestTemplateRequest{Name: "Charger QA"})
	assert.ErrorIs(t, err, apperrors.ErrUniquenessViolation)
}
