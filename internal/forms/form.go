// Package forms builds field sets whose shape depends on stored templates and
// validates submitted values against them. Static and template-driven fields
// go through the same validation path and report errors the same way.
package forms

import (
	"fmt"
	"inventory/internal/apperrors"
	"inventory/internal/utils"
	"strconv"
	"strings"
)

type FieldKind string

const (
	KindText    FieldKind = "text"
	KindSelect  FieldKind = "select"
	KindDate    FieldKind = "date"
	KindInteger FieldKind = "integer"
)

const (
	msgRequired      = "This field is required."
	msgInvalidChoice = "Select a valid choice."
	msgInvalidDate   = "Enter a valid date."
	msgPositiveInt   = "Enter a whole number greater than zero."
	msgMaxInt        = "Ensure this value is less than or equal to %d."
)

type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type Field struct {
	Name     string    `json:"name"`
	Label    string    `json:"label"`
	Kind     FieldKind `json:"kind"`
	Required bool      `json:"required"`
	Initial  string    `json:"initial,omitempty"`
	Choices  []Choice  `json:"choices,omitempty"`
	// Max bounds integer fields when positive.
	Max      int       `json:"max,omitempty"`
}

type Form struct {
	Fields []Field `json:"fields"`
}

func (f Form) Field(name string) (Field, bool) {
	for _, field := range f.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

func (f Form) Names() []string {
	names := make([]string, len(f.Fields))
	for i, field := range f.Fields {
		names[i] = field.Name
	}
	return names
}

// Validate cleans data for every field of the form. Keys the form does not
// declare are dropped. The error, when non-nil, is apperrors.ValidationErrors.
func (f Form) Validate(data map[string]string) (map[string]string, error) {
	cleaned := make(map[string]string, len(f.Fields))
	errs := apperrors.ValidationErrors{}

	for _, field := range f.Fields {
		value, msg := field.clean(data[field.Name])
		if msg != "" {
			errs.Add(field.Name, msg)
			continue
		}
		cleaned[field.Name] = value
	}

	if errs.HasErrors() {
		return cleaned, errs
	}
	return cleaned, nil
}

func (field Field) clean(raw string) (string, string) {
	value := strings.TrimSpace(raw)
	if value == "" {
		if field.Required {
			return "", msgRequired
		}
		return "", ""
	}

	switch field.Kind {
	case KindSelect:
		if !field.hasChoice(value) {
			return "", msgInvalidChoice
		}
	case KindDate:
		result := utils.NewDateValidator().ValidateAndConvert(value)
		if !result.IsValid {
			return "", msgInvalidDate
		}
		value = result.StandardFormat
	case KindInteger:
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return "", msgPositiveInt
		}
		if field.Max > 0 && n > field.Max {
			return "", fmt.Sprintf(msgMaxInt, field.Max)
		}
		value = strconv.Itoa(n)
	}

	return value, ""
}

func (field Field) hasChoice(value string) bool {
	return value != "" && hasValue(field.Choices, value)
}

// DataFromJSON flattens a decoded JSON object into form data. Numbers and
// booleans are rendered the way a browser would submit them.
func DataFromJSON(body map[string]any) map[string]string {
	data := make(map[string]string, len(body))
	for key, value := range body {
		switch v := value.(type) {
		case nil:
			data[key] = ""
		case string:
			data[key] = v
		case float64:
			data[key] = strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			data[key] = strconv.FormatBool(v)
		default:
			data[key] = fmt.Sprint(v)
		}
	}
	return data
}
