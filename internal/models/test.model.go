package models

type TestStatus string

const (
	TestStatusPending TestStatus = "pending"
	TestStatusPassed  TestStatus = "passed"
	TestStatusFailed  TestStatus = "failed"
)

var testStatuses = []TestStatus{TestStatusPending, TestStatusPassed, TestStatusFailed}

func TestStatuses() []TestStatus {
	out := make([]TestStatus, len(testStatuses))
	copy(out, testStatuses)
	return out
}

func (s TestStatus) Valid() bool {
	for _, status := range testStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Test is one quality inspection. TemplateUsedID and TemplateName keep the
// template reference for audit after the template itself is deleted.
type Test struct {
	BaseUUIDModel
	SKUID          string       `gorm:"column:sku_id;type:varchar(64);not null;index" json:"skuId"`
	BatchID        string       `gorm:"type:varchar(64);not null;index"               json:"batchId"`
	BarcodeID      *string      `gorm:"type:varchar(64);index"                        json:"barcodeId"`
	UserID         string       `gorm:"type:varchar(64);not null;index"               json:"userId"`
	TemplateUsedID *string      `gorm:"type:varchar(64);index"                        json:"templateUsedId"`
	TemplateName   string       `gorm:"type:varchar(100)"                             json:"templateName"`
	OverallStatus  TestStatus   `gorm:"type:varchar(20);not null;default:pending"    json:"overallStatus"`
	Answers        []TestAnswer `gorm:"foreignKey:TestID"                             json:"answers,omitempty"`
}

func (Test) TableName() string {
	return "tests"
}

type TestAnswer struct {
	BaseUUIDModel
	TestID          string  `gorm:"type:varchar(64);not null;index" json:"testId"`
	QuestionID      string  `gorm:"type:varchar(64);not null;index" json:"questionId"`
	QuestionText    string  `gorm:"type:text"                       json:"questionText"`
	Passed          bool    `gorm:"not null"                        json:"passed"`
	TechnicalOutput *string `gorm:"type:varchar(100)"               json:"technicalOutput"`
	Remarks         string  `gorm:"type:text"                       json:"remarks"`
}

func (TestAnswer) TableName() string {
	return "test_answers"
}

type UpdateTestStatusRequest struct {
	OverallStatus string `json:"overallStatus"`
}
