package models

type TestTemplate struct {
	BaseUUIDModel
	Name        string         `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Description string         `gorm:"type:text"                              json:"description"`
	Questions   []TestQuestion `gorm:"foreignKey:TemplateID"                  json:"questions,omitempty"`
}

func (TestTemplate) TableName() string {
	return "test_templates"
}

type TestQuestion struct {
	BaseUUIDModel
	TemplateID   string `gorm:"type:varchar(64);not null;index" json:"templateId"`
	QuestionText string `gorm:"type:text;not null"              json:"questionText"`
}

func (TestQuestion) TableName() string {
	return "test_questions"
}

type TechnicalOutputChoice struct {
	BaseUUIDModel
	Value     string `gorm:"type:varchar(100);uniqueIndex;not null" json:"value"`
	IsActive  bool   `gorm:"not null;default:true"                  json:"isActive"`
	SortOrder int    `gorm:"not null;default:0"                     json:"sortOrder"`
}

func (TechnicalOutputChoice) TableName() string {
	return "technical_output_choices"
}

type CreateTestTemplateRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Questions   []string `json:"questions"`
}

type CreateTechnicalOutputRequest struct {
	Value     string `json:"value"`
	IsActive  *bool  `json:"isActive"`
	SortOrder int    `json:"sortOrder"`
}
