package models

type SKU struct {
	BaseUUIDModel
	Code        string `gorm:"type:varchar(32);uniqueIndex;not null" json:"code"`
	Description string `gorm:"type:text"                             json:"description"`
}

func (SKU) TableName() string {
	return "skus"
}

type CreateSKURequest struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}
