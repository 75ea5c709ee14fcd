package repositories

import (
	"context"
	"inventory/internal/database"
	"inventory/internal/logger"
	. "inventory/internal/models"
	"inventory/internal/services"

	"gorm.io/gorm"
)

type TestRepository interface {
	Create(ctx context.Context, test *Test) error
	GetByID(ctx context.Context, id string) (Test, error)
	UpdateStatus(ctx context.Context, id string, status TestStatus) error
}

type testRepository struct {
	db  database.DB
	log logger.Logger
}

func NewTest(db database.DB) TestRepository {
	return &testRepository{
		db:  db,
		log: logger.New("testRepository"),
	}
}

func (r *testRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := services.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

// Create inserts the test and its answers in one statement group.
func (r *testRepository) Create(ctx context.Context, test *Test) error {
	log := r.log.Function("Create")

	if err := r.getDB(ctx).Create(test).Error; err != nil {
		return log.Err("failed to create test", translate(err), "batchID", test.BatchID)
	}
	return nil
}

func (r *testRepository) GetByID(ctx context.Context, id string) (Test, error) {
	var test Test
	err := r.getDB(ctx).
		Preload("Answers", func(db *gorm.DB) *gorm.DB { return db.Order("created_at, id") }).
		First(&test, "id = ?", id).Error
	if err != nil {
		return Test{}, translate(err)
	}
	return test, nil
}

func (r *testRepository) UpdateStatus(ctx context.Context, id string, status TestStatus) error {
	log := r.log.Function("UpdateStatus")

	result := r.getDB(ctx).Model(&Test{}).Where("id = ?", id).Update("overall_status", status)
	if result.Error != nil {
		return log.Err("failed to update test status", result.Error, "testID", id)
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound)
	}
	return nil
}
