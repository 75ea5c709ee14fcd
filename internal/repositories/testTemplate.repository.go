package repositories

import (
	"context"
	"inventory/internal/database"
	"inventory/internal/logger"
	. "inventory/internal/models"
	"inventory/internal/services"

	"gorm.io/gorm"
)

type TestTemplateRepository interface {
	List(ctx context.Context) ([]TestTemplate, error)
	GetByID(ctx context.Context, id string) (TestTemplate, error)
	Questions(ctx context.Context, templateID string) ([]TestQuestion, error)
	Create(ctx context.Context, template *TestTemplate) error
}

type testTemplateRepository struct {
	db  database.DB
	log logger.Logger
}

func NewTestTemplate(db database.DB) TestTemplateRepository {
	return &testTemplateRepository{
		db:  db,
		log: logger.New("testTemplateRepository"),
	}
}

func (r *testTemplateRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := services.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func orderQuestions(db *gorm.DB) *gorm.DB {
	return db.Order("created_at, id")
}

func (r *testTemplateRepository) List(ctx context.Context) ([]TestTemplate, error) {
	log := r.log.Function("List")

	var templates []TestTemplate
	cache := database.NewCacheBuilder(r.db.Cache.Catalog, services.TestTemplateListCacheKey).WithContext(ctx)
	if found, _ := cache.Get(&templates); found {
		return templates, nil
	}

	err := r.getDB(ctx).
		Preload("Questions", orderQuestions).
		Order("name").
		Find(&templates).Error
	if err != nil {
		return nil, log.Err("failed to list test templates", err)
	}

	if r.db.Cache.Catalog != nil {
		if err := cache.WithStruct(templates).WithTTL(specTemplateCacheTTL).Set(); err != nil {
			log.Warn("failed to cache test templates", "error", err)
		}
	}
	return templates, nil
}

func (r *testTemplateRepository) GetByID(ctx context.Context, id string) (TestTemplate, error) {
	var template TestTemplate
	err := r.getDB(ctx).
		Preload("Questions", orderQuestions).
		First(&template, "id = ?", id).Error
	if err != nil {
		return TestTemplate{}, translate(err)
	}
	return template, nil
}

// Questions returns the template's questions in creation order.
func (r *testTemplateRepository) Questions(ctx context.Context, templateID string) ([]TestQuestion, error) {
	log := r.log.Function("Questions")

	var questions []TestQuestion
	err := orderQuestions(r.getDB(ctx)).
		Where("template_id = ?", templateID).
		Find(&questions).Error
	if err != nil {
		return nil, log.Err("failed to list questions", err, "templateID", templateID)
	}
	return questions, nil
}

// Create inserts the template and its questions. Questions are written one
// by one so created_at follows slice order.
func (r *testTemplateRepository) Create(ctx context.Context, template *TestTemplate) error {
	log := r.log.Function("Create")

	db := r.getDB(ctx)
	questions := template.Questions
	template.Questions = nil

	if err := db.Create(template).Error; err != nil {
		return log.Err("failed to create test template", translate(err), "name", template.Name)
	}

	for i := range questions {
		questions[i].TemplateID = template.ID
		if err := db.Create(&questions[i]).Error; err != nil {
			return log.Err("failed to create test question", translate(err), "templateID", template.ID)
		}
	}

	template.Questions = questions
	return nil
}
