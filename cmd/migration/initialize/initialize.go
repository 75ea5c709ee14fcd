package initialize

import (
	"inventory/config"
	"inventory/internal/logger"
	. "inventory/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var technicalOutputs = []TechnicalOutputChoice{
	{Value: "Within Tolerance", IsActive: true, SortOrder: 10},
	{Value: "Above Tolerance", IsActive: true, SortOrder: 20},
	{Value: "Below Tolerance", IsActive: true, SortOrder: 30},
	{Value: "No Output", IsActive: true, SortOrder: 40},
}

// InitializeTables inserts the reference rows every environment needs.
// Existing rows are left alone so operators can edit or deactivate them.
func InitializeTables(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("InitializeTables")
	log.Info("Initializing essential production data", "environment", config.Environment)

	for _, output := range technicalOutputs {
		result := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "value"}},
			DoNothing: true,
		}).Create(&output)
		if result.Error != nil {
			return log.Err("failed to insert technical output", result.Error, "value", output.Value)
		}
		if result.RowsAffected == 0 {
			log.Debug("Technical output already exists", "value", output.Value)
		}
	}

	log.Info("Table initialization complete", "technicalOutputs", len(technicalOutputs))
	return nil
}
