package seed

import (
	"errors"
	"inventory/config"
	"inventory/internal/logger"
	. "inventory/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func Seed(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("seed")
	log.Info("Seeding development data", "environment", config.Environment)

	users := []User{
		{Login: "admin", DisplayName: "Admin", Role: RoleAdmin, Password: "password"},
		{Login: "tester", DisplayName: "Line Tester", Role: RoleTester, Password: "password"},
		{Login: "operator", DisplayName: "Print Operator", Role: RoleOperator, Password: "password"},
	}
	for _, user := range users {
		if err := createIfMissing(db, &user, "login"); err != nil {
			log.Er("failed to create user", err, "login", user.Login)
		}
	}

	skus := []SKU{
		{Code: "KA01", Description: "Power bank 10000mAh"},
		{Code: "KB02", Description: "USB-C wall charger"},
		{Code: "KC03", Description: "Wireless earbuds"},
	}
	for _, sku := range skus {
		if err := createIfMissing(db, &sku, "code"); err != nil {
			log.Er("failed to create sku", err, "code", sku.Code)
		}
	}

	specTemplates := []SpecTemplate{
		{Name: "Power Bank", Fields: datatypes.JSONSlice[string]{
			string(SpecDeviceName), string(SpecModelNumber), string(SpecCapacity),
			string(SpecVoltage), string(SpecFeatureSpec),
		}},
		{Name: "Charger", Fields: datatypes.JSONSlice[string]{
			string(SpecDeviceName), string(SpecWattage), string(SpecVoltage), string(SpecColor),
		}},
	}
	for _, template := range specTemplates {
		if err := createIfMissing(db, &template, "name"); err != nil {
			log.Er("failed to create spec template", err, "name", template.Name)
		}
	}

	if err := seedTestTemplate(db, "Power Bank QA", []string{
		"Charges from empty to full",
		"Output voltage under load",
		"Casing free of defects",
	}); err != nil {
		log.Er("failed to create test template", err)
	}

	log.Info("Seeding complete")
	return nil
}

func createIfMissing(db *gorm.DB, value any, column string) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: column}},
		DoNothing: true,
	}).Create(value).Error
}

// Questions are only added alongside a new template so reseeding never
// duplicates them.
func seedTestTemplate(db *gorm.DB, name string, questions []string) error {
	var existing TestTemplate
	err := db.Where("name = ?", name).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		template := TestTemplate{Name: name}
		if err := tx.Omit("Questions").Create(&template).Error; err != nil {
			return err
		}
		for _, text := range questions {
			question := TestQuestion{TemplateID: template.ID, QuestionText: text}
			if err := tx.Create(&question).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
