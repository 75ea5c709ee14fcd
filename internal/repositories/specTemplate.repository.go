package repositories

import (
	"context"
	"inventory/internal/database"
	"inventory/internal/logger"
	. "inventory/internal/models"
	"inventory/internal/services"
	"time"

	"gorm.io/gorm"
)

const specTemplateCacheTTL = 10 * time.Minute

type SpecTemplateRepository interface {
	List(ctx context.Context) ([]SpecTemplate, error)
	GetByID(ctx context.Context, id string) (SpecTemplate, error)
	FieldsFor(ctx context.Context, id string) ([]string, error)
	Create(ctx context.Context, template *SpecTemplate) error
}

type specTemplateRepository struct {
	db  database.DB
	log logger.Logger
}

func NewSpecTemplate(db database.DB) SpecTemplateRepository {
	return &specTemplateRepository{
		db:  db,
		log: logger.New("specTemplateRepository"),
	}
}

func (r *specTemplateRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := services.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func (r *specTemplateRepository) List(ctx context.Context) ([]SpecTemplate, error) {
	log := r.log.Function("List")

	var templates []SpecTemplate
	cache := database.NewCacheBuilder(r.db.Cache.Catalog, services.SpecTemplateListCacheKey).WithContext(ctx)
	if found, _ := cache.Get(&templates); found {
		return templates, nil
	}

	if err := r.getDB(ctx).Order("name").Find(&templates).Error; err != nil {
		return nil, log.Err("failed to list spec templates", err)
	}

	r.store(cache.WithStruct(templates))
	return templates, nil
}

func (r *specTemplateRepository) GetByID(ctx context.Context, id string) (SpecTemplate, error) {
	var template SpecTemplate
	cache := database.NewCacheBuilder(r.db.Cache.Catalog, id).
		WithHashPattern(services.SpecTemplateCachePattern).
		WithContext(ctx)
	if found, _ := cache.Get(&template); found {
		return template, nil
	}

	if err := r.getDB(ctx).First(&template, "id = ?", id).Error; err != nil {
		return SpecTemplate{}, translate(err)
	}

	r.store(cache.WithStruct(template))
	return template, nil
}

// FieldsFor returns the template's field names in their stored order.
func (r *specTemplateRepository) FieldsFor(ctx context.Context, id string) ([]string, error) {
	template, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return template.FieldNames(), nil
}

func (r *specTemplateRepository) Create(ctx context.Context, template *SpecTemplate) error {
	log := r.log.Function("Create")

	if err := r.getDB(ctx).Create(template).Error; err != nil {
		return log.Err("failed to create spec template", translate(err), "name", template.Name)
	}
	return nil
}

func (r *specTemplateRepository) store(cache *database.CacheBuilder) {
	if r.db.Cache.Catalog == nil {
		return
	}
	if err := cache.WithTTL(specTemplateCacheTTL).Set(); err != nil {
		r.log.Function("store").Warn("failed to cache spec template", "key", cache.Key(), "error", err)
	}
}
