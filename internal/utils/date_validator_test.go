package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDateValidator_ValidateAndConvert(t *testing.T) {
	dv := NewDateValidator()

	tests := []struct {
		name      string
		input     string
		isValid   bool
		format    DateFormat
		canonical string
	}{
		{name: "iso date", input: "2024-03-09", isValid: true, format: FormatISO8601Date, canonical: "2024-03-09"},
		{name: "iso timestamp", input: "2024-03-09T17:30:00+02:00", isValid: true, format: FormatISO8601, canonical: "2024-03-09"},
		{name: "slash date", input: "2024/03/09", isValid: true, format: FormatSlashDate, canonical: "2024-03-09"},
		{name: "us date", input: "03/09/2024", isValid: true, format: FormatUSDate, canonical: "2024-03-09"},
		{name: "dotted european", input: "09.03.2024", isValid: true, format: FormatDotDate, canonical: "2024-03-09"},
		{name: "long month", input: "March 9, 2024", isValid: true, format: FormatMonthDay, canonical: "2024-03-09"},
		{name: "padded whitespace", input: "  2024-03-09 ", isValid: true, format: FormatISO8601Date, canonical: "2024-03-09"},
		{name: "empty", input: "", isValid: false},
		{name: "garbage", input: "next tuesday", isValid: false},
		{name: "impossible month", input: "2024-13-01", isValid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := dv.ValidateAndConvert(tt.input)

			assert.Equal(t, tt.isValid, result.IsValid)
			assert.Equal(t, tt.input, result.OriginalValue)
			if !tt.isValid {
				return
			}
			assert.Equal(t, tt.format, result.DetectedFormat)
			assert.Equal(t, tt.canonical, result.StandardFormat)
			assert.Equal(t, time.UTC, result.ParsedTime.Location())
			assert.Zero(t, result.ParsedTime.Hour())
		})
	}
}
