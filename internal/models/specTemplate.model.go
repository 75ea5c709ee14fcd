package models

import (
	"gorm.io/datatypes"
)

type SpecField string

const (
	SpecDeviceName      SpecField = "device_name"
	SpecModelNumber     SpecField = "model_number"
	SpecBattery         SpecField = "battery"
	SpecCapacity        SpecField = "capacity"
	SpecVoltage         SpecField = "voltage"
	SpecWattage         SpecField = "wattage"
	SpecColor           SpecField = "color"
	SpecDimensions      SpecField = "dimensions"
	SpecWeight          SpecField = "weight"
	SpecFirmwareVersion SpecField = "firmware_version"
	SpecFeatureSpec     SpecField = "feature_spec"
	SpecAdditionalSpec  SpecField = "additional_spec"
)

type SpecFieldInfo struct {
	Name     SpecField `json:"name"`
	Label    string    `json:"label"`
	Optional bool      `json:"optional"`
}

// Catalog order is the order fields are offered when building templates.
var specFieldCatalog = []SpecFieldInfo{
	{Name: SpecDeviceName, Label: "Device Name"},
	{Name: SpecModelNumber, Label: "Model Number"},
	{Name: SpecBattery, Label: "Battery"},
	{Name: SpecCapacity, Label: "Capacity"},
	{Name: SpecVoltage, Label: "Voltage"},
	{Name: SpecWattage, Label: "Wattage"},
	{Name: SpecColor, Label: "Color"},
	{Name: SpecDimensions, Label: "Dimensions"},
	{Name: SpecWeight, Label: "Weight"},
	{Name: SpecFirmwareVersion, Label: "Firmware Version"},
	{Name: SpecFeatureSpec, Label: "Feature Spec", Optional: true},
	{Name: SpecAdditionalSpec, Label: "Additional Spec", Optional: true},
}

func SpecFieldCatalog() []SpecFieldInfo {
	out := make([]SpecFieldInfo, len(specFieldCatalog))
	copy(out, specFieldCatalog)
	return out
}

func LookupSpecField(name string) (SpecFieldInfo, bool) {
	for _, info := range specFieldCatalog {
		if string(info.Name) == name {
			return info, true
		}
	}
	return SpecFieldInfo{}, false
}

func SpecFieldLabel(name string) string {
	if info, ok := LookupSpecField(name); ok {
		return info.Label
	}
	return name
}

func IsOptionalSpecField(name string) bool {
	info, ok := LookupSpecField(name)
	return ok && info.Optional
}

type SpecTemplate struct {
	BaseUUIDModel
	Name   string                      `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Fields datatypes.JSONSlice[string] `gorm:"not null"                               json:"fieldNames"`
}

func (SpecTemplate) TableName() string {
	return "spec_templates"
}

func (s SpecTemplate) FieldNames() []string {
	out := make([]string, len(s.Fields))
	copy(out, s.Fields)
	return out
}

type CreateSpecTemplateRequest struct {
	Name   string   `json:"name"`
	Fields []string `json:"fieldNames"`
}
