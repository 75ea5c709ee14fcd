package utils

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

type DateFormat string

const (
	FormatISO8601Date DateFormat = "2006-01-02"
	FormatISO8601     DateFormat = "2006-01-02T15:04:05Z07:00"
	FormatSlashDate   DateFormat = "2006/01/02"
	FormatUSDate      DateFormat = "01/02/2006"
	FormatDotDate     DateFormat = "02.01.2006"
	FormatMonthDay    DateFormat = "January 2, 2006"
	FormatShortMonth  DateFormat = "Jan 2, 2006"
)

var usDatePattern = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)

type DateValidator struct {
	supportedFormats []DateFormat
	standardFormat   DateFormat
}

type ValidationResult struct {
	IsValid        bool
	DetectedFormat DateFormat
	ParsedTime     time.Time
	StandardFormat string
	OriginalValue  string
}

// NewDateValidator accepts the date spellings batch forms receive and
// normalizes them to ISO dates.
func NewDateValidator() *DateValidator {
	return &DateValidator{
		supportedFormats: []DateFormat{
			FormatISO8601Date,
			FormatISO8601,
			FormatSlashDate,
			FormatUSDate,
			FormatDotDate,
			FormatMonthDay,
			FormatShortMonth,
		},
		standardFormat: FormatISO8601Date,
	}
}

func (dv *DateValidator) ValidateAndConvert(input string) ValidationResult {
	result := ValidationResult{
		IsValid:       false,
		OriginalValue: input,
	}

	input = strings.TrimSpace(input)
	if input == "" {
		return result
	}

	for _, format := range dv.supportedFormats {
		parsedTime, err := time.Parse(string(format), input)
		if err != nil {
			continue
		}
		if format == FormatUSDate && !validUSDate(input) {
			continue
		}

		day := time.Date(parsedTime.Year(), parsedTime.Month(), parsedTime.Day(), 0, 0, 0, 0, time.UTC)
		result.IsValid = true
		result.DetectedFormat = format
		result.ParsedTime = day
		result.StandardFormat = day.Format(string(dv.standardFormat))
		return result
	}

	return result
}

func validUSDate(input string) bool {
	matches := usDatePattern.FindStringSubmatch(input)
	if len(matches) < 4 {
		return false
	}

	month, _ := strconv.Atoi(matches[1])
	day, _ := strconv.Atoi(matches[2])

	return month >= 1 && month <= 12 && day >= 1 && day <= 31
}

func (dv *DateValidator) GetSupportedFormats() []DateFormat {
	return dv.supportedFormats
}
