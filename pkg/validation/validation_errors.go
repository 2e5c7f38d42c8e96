package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps struct field names to user-facing labels
var FieldLabels = map[string]string{
	"Position":             "Position",
	"FullName":             "Full name",
	"NationalID":           "National ID number",
	"BirthPlace":           "Birth place",
	"BirthDate":            "Birth date",
	"Gender":               "Gender",
	"Religion":             "Religion",
	"BloodType":            "Blood type",
	"MaritalStatus":        "Marital status",
	"IDCardAddress":        "ID card address",
	"DomicileAddress":      "Domicile address",
	"Email":                "Email",
	"Phone":                "Phone number",
	"EmergencyContact":     "Emergency contact",
	"Skills":               "Skills",
	"PlacementWillingness": "Placement willingness",
	"ExpectedIncome":       "Expected income",
}

// FormatValidationErrors converts validator.ValidationErrors to user-friendly messages
func FormatValidationErrors(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}
	return messages
}

// formatSingleError formats a single validation error to a user-friendly message
func formatSingleError(e validator.FieldError) string {
	label := getFieldLabel(e.Field())
	param := e.Param()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", label)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, param)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", label)
	case "datetime":
		return fmt.Sprintf("%s must be a date formatted as YYYY-MM-DD", label)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.ReplaceAll(param, " ", ", "))
	case "valid_phone":
		return fmt.Sprintf("%s may only contain digits, spaces, hyphens and parentheses with an optional leading +", label)
	case "no_emoji":
		return fmt.Sprintf("%s must not contain emoji or special symbols", label)
	default:
		return fmt.Sprintf("%s is invalid (%s)", label, e.Tag())
	}
}

// getFieldLabel returns the user-friendly label for a field
func getFieldLabel(fieldName string) string {
	if label, ok := FieldLabels[fieldName]; ok {
		return label
	}
	return formatCamelCase(fieldName)
}

// formatCamelCase converts CamelCase to spaced words
func formatCamelCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune(' ')
		}
		result.WriteRune(r)
	}
	return result.String()
}
