package catalogController

import (
	"context"
	"inventory/internal/apperrors"
	"inventory/internal/logger"
	. "inventory/internal/models"
	"inventory/internal/repositories"
	"inventory/internal/services"
	"regexp"
	"strings"

	"gorm.io/datatypes"
)

var skuCodePattern = regexp.MustCompile(`^[A-Z0-9-]{1,32}$`)

type CatalogController struct {
	skuRepo                  repositories.SKURepository
	specTemplateRepo         repositories.SpecTemplateRepository
	testTemplateRepo         repositories.TestTemplateRepository
	technicalOutputRepo      repositories.TechnicalOutputRepository
	transactionService       *services.TransactionService
	cacheInvalidationService *services.CacheInvalidationService
	log                      logger.Logger
}

func New(
	skuRepo repositories.SKURepository,
	specTemplateRepo repositories.SpecTemplateRepository,
	testTemplateRepo repositories.TestTemplateRepository,
	technicalOutputRepo repositories.TechnicalOutputRepository,
	transactionService *services.TransactionService,
	cacheInvalidationService *services.CacheInvalidationService,
) *CatalogController {
	return &CatalogController{
		skuRepo:                  skuRepo,
		specTemplateRepo:         specTemplateRepo,
		testTemplateRepo:         testTemplateRepo,
		technicalOutputRepo:      technicalOutputRepo,
		transactionService:       transactionService,
		cacheInvalidationService: cacheInvalidationService,
		log:                      logger.New("CatalogController"),
	}
}

func (cc *CatalogController) ListSKUs(ctx context.Context) ([]SKU, error) {
	return cc.skuRepo.List(ctx)
}

// CreateSKU upper-cases the code before validating it; the code doubles as
// the barcode prefix of every batch of the SKU.
func (cc *CatalogController) CreateSKU(ctx context.Context, req CreateSKURequest) (SKU, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if !skuCodePattern.MatchString(code) {
		return SKU{}, apperrors.ValidationErrors{"code": "Use 1 to 32 letters, digits or dashes."}
	}

	sku := SKU{Code: code, Description: strings.TrimSpace(req.Description)}
	if err := cc.skuRepo.Create(ctx, &sku); err != nil {
		return SKU{}, err
	}

	cc.invalidate(ctx, "sku_created")
	return sku, nil
}

func (cc *CatalogController) SpecFields() []SpecFieldInfo {
	return SpecFieldCatalog()
}

func (cc *CatalogController) ListSpecTemplates(ctx context.Context) ([]SpecTemplate, error) {
	return cc.specTemplateRepo.List(ctx)
}

// CreateSpecTemplate accepts only catalog field names, each at most once,
// and keeps them in the submitted order.
func (cc *CatalogController) CreateSpecTemplate(ctx context.Context, req CreateSpecTemplateRequest) (SpecTemplate, error) {
	errs := apperrors.ValidationErrors{}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		errs.Add("name", "This field is required.")
	}
	if len(req.Fields) == 0 {
		errs.Add("fieldNames", "Select at least one field.")
	}

	seen := map[string]bool{}
	for _, field := range req.Fields {
		if _, ok := LookupSpecField(field); !ok {
			errs.Add("fieldNames", "Unknown spec field "+field+".")
			continue
		}
		if seen[field] {
			errs.Add("fieldNames", "Field "+field+" is listed twice.")
		}
		seen[field] = true
	}
	if errs.HasErrors() {
		return SpecTemplate{}, errs
	}

	template := SpecTemplate{Name: name, Fields: datatypes.JSONSlice[string](req.Fields)}
	if err := cc.specTemplateRepo.Create(ctx, &template); err != nil {
		return SpecTemplate{}, err
	}

	if _, err := cc.cacheInvalidationService.InvalidateSpecTemplate(ctx, template.ID); err != nil {
		cc.log.Function("CreateSpecTemplate").Warn("failed to invalidate spec template cache", "error", err)
	}
	return template, nil
}

func (cc *CatalogController) ListTechnicalOutputs(ctx context.Context) ([]TechnicalOutputChoice, error) {
	return cc.technicalOutputRepo.ListActive(ctx)
}

func (cc *CatalogController) CreateTechnicalOutput(
	ctx context.Context,
	req CreateTechnicalOutputRequest,
) (TechnicalOutputChoice, error) {
	value := strings.TrimSpace(req.Value)
	if value == "" {
		return TechnicalOutputChoice{}, apperrors.ValidationErrors{"value": "This field is required."}
	}

	choice := TechnicalOutputChoice{Value: value, IsActive: true, SortOrder: req.SortOrder}
	if req.IsActive != nil {
		choice.IsActive = *req.IsActive
	}

	if err := cc.technicalOutputRepo.Create(ctx, &choice); err != nil {
		return TechnicalOutputChoice{}, err
	}

	cc.invalidate(ctx, "technical_output_created", services.TechnicalOutputListCacheKey)
	return choice, nil
}

func (cc *CatalogController) ListTestTemplates(ctx context.Context) ([]TestTemplate, error) {
	return cc.testTemplateRepo.List(ctx)
}

// CreateTestTemplate stores the template and its questions together.
func (cc *CatalogController) CreateTestTemplate(ctx context.Context, req CreateTestTemplateRequest) (TestTemplate, error) {
	errs := apperrors.ValidationErrors{}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		errs.Add("name", "This field is required.")
	}

	template := TestTemplate{Name: name, Description: strings.TrimSpace(req.Description)}
	for _, text := range req.Questions {
		text = strings.TrimSpace(text)
		if text == "" {
			errs.Add("questions", "Questions cannot be blank.")
			continue
		}
		template.Questions = append(template.Questions, TestQuestion{QuestionText: text})
	}
	if errs.HasErrors() {
		return TestTemplate{}, errs
	}

	err := cc.transactionService.Execute(ctx, func(txCtx context.Context) error {
		return cc.testTemplateRepo.Create(txCtx, &template)
	})
	if err != nil {
		return TestTemplate{}, err
	}

	cc.invalidate(ctx, "test_template_created", services.TestTemplateListCacheKey)
	return template, nil
}

func (cc *CatalogController) invalidate(ctx context.Context, action string, keys ...string) {
	if cc.cacheInvalidationService == nil {
		return
	}
	if _, err := cc.cacheInvalidationService.InvalidateCatalog(ctx, action, keys...); err != nil {
		cc.log.Function("invalidate").Warn("failed to invalidate catalog cache", "action", action, "error", err)
	}
}
