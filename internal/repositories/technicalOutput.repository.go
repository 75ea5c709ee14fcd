package repositories

import (
	"context"
	"inventory/internal/database"
	"inventory/internal/logger"
	. "inventory/internal/models"
	"inventory/internal/services"

	"gorm.io/gorm"
)

type TechnicalOutputRepository interface {
	ListActive(ctx context.Context) ([]TechnicalOutputChoice, error)
	Create(ctx context.Context, choice *TechnicalOutputChoice) error
}

type technicalOutputRepository struct {
	db  database.DB
	log logger.Logger
}

func NewTechnicalOutput(db database.DB) TechnicalOutputRepository {
	return &technicalOutputRepository{
		db:  db,
		log: logger.New("technicalOutputRepository"),
	}
}

func (r *technicalOutputRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := services.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

// ListActive returns active choices ordered by sort order, then value.
func (r *technicalOutputRepository) ListActive(ctx context.Context) ([]TechnicalOutputChoice, error) {
	log := r.log.Function("ListActive")

	var choices []TechnicalOutputChoice
	cache := database.NewCacheBuilder(r.db.Cache.Catalog, services.TechnicalOutputListCacheKey).WithContext(ctx)
	if found, _ := cache.Get(&choices); found {
		return choices, nil
	}

	err := r.getDB(ctx).
		Where("is_active = ?", true).
		Order("sort_order, value").
		Find(&choices).Error
	if err != nil {
		return nil, log.Err("failed to list technical outputs", err)
	}

	if r.db.Cache.Catalog != nil {
		if err := cache.WithStruct(choices).WithTTL(specTemplateCacheTTL).Set(); err != nil {
			log.Warn("failed to cache technical outputs", "error", err)
		}
	}
	return choices, nil
}

// Create inserts choice. is_active defaults to true in the schema, so an
// inactive choice is written in a second statement.
func (r *technicalOutputRepository) Create(ctx context.Context, choice *TechnicalOutputChoice) error {
	log := r.log.Function("Create")

	db := r.getDB(ctx)
	active := choice.IsActive
	if err := db.Create(choice).Error; err != nil {
		return log.Err("failed to create technical output", translate(err), "value", choice.Value)
	}

	if !active {
		if err := db.Model(choice).Update("is_active", false).Error; err != nil {
			return log.Err("failed to deactivate technical output", err, "value", choice.Value)
		}
	}
	return nil
}
