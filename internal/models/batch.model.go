package models

import (
	"time"

	"gorm.io/datatypes"
)

type SpecValues map[string]string

type Batch struct {
	BaseUUIDModel
	SKUID          string                          `gorm:"column:sku_id;type:varchar(64);not null;index" json:"skuId"`
	SKU            *SKU                            `gorm:"foreignKey:SKUID"                                json:"sku,omitempty"`
	Prefix         string                          `gorm:"type:varchar(32);not null;index"                json:"prefix"`
	BatchDate      time.Time                       `gorm:"type:date;not null"                             json:"batchDate"`
	Quantity       int                             `gorm:"not null"                                       json:"quantity"`
	SpecTemplateID *string                         `gorm:"type:varchar(64);index"                         json:"specTemplateId"`
	SpecTemplate   *SpecTemplate                   `gorm:"foreignKey:SpecTemplateID"                      json:"specTemplate,omitempty"`
	Specs          datatypes.JSONType[SpecValues] `json:"specs"`
	Barcodes       []Barcode                       `gorm:"foreignKey:BatchID"                             json:"barcodes,omitempty"`
}

func (Batch) TableName() string {
	return "batches"
}

func (b *Batch) SpecValue(name string) string {
	values := b.Specs.Data()
	if values == nil {
		return ""
	}
	return values[name]
}

// MergeSpecs overlays updates on the stored values. Keys missing from
// updates keep their stored value, including ones a new template no longer
// asks for.
func (b *Batch) MergeSpecs(updates SpecValues) {
	merged := SpecValues{}
	for key, value := range b.Specs.Data() {
		merged[key] = value
	}
	for key, value := range updates {
		merged[key] = value
	}
	b.Specs = datatypes.NewJSONType(merged)
}

type Barcode struct {
	BaseUUIDModel
	BatchID        string     `gorm:"type:varchar(64);not null;index"          json:"batchId"`
	SKUID          string     `gorm:"column:sku_id;type:varchar(64);not null;index" json:"skuId"`
	SequenceNumber string     `gorm:"type:varchar(64);uniqueIndex;not null"    json:"sequenceNumber"`
	PrintedAt      *time.Time `json:"printedAt,omitempty"`
}

func (Barcode) TableName() string {
	return "barcodes"
}

type BarcodeListItem struct {
	ID             string `json:"id"`
	SequenceNumber string `json:"sequenceNumber"`
}
