// Package schema holds the rules a report candidate must satisfy before it can be
// submitted.
package schema

import (
	"fmt"
	"sort"
	"strings"

	"github.com/splitleasesharath/emergency-report/internal/domain"
	"github.com/splitleasesharath/emergency-report/pkg/e"
	"github.com/splitleasesharath/emergency-report/pkg/validator"
)

const (
	FieldReservation   = "reservation"
	FieldEmergencyType = "emergencyType"
	FieldDescription   = "description"
	FieldPhoto1        = "photo1"
	FieldPhoto2        = "photo2"

	DescriptionMin = 10
	DescriptionMax = 1000

	MsgEmergencyTypeRequired = "Please select an emergency type"
	MsgDescriptionTooShort   = "Please provide at least 10 characters"
	MsgDescriptionTooLong    = "Description is too long"
)

var messages = map[string]map[string]string{
	FieldEmergencyType: {
		"required":       MsgEmergencyTypeRequired,
		"emergency_type": MsgEmergencyTypeRequired,
	},
	FieldDescription: {
		"min": MsgDescriptionTooShort,
		"max": MsgDescriptionTooLong,
	},
}

// FieldErrors maps a field name to the message of the first rule it violated.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, fe[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (fe FieldErrors) Unwrap() error { return e.ErrInvalidInput }

// Valid is a candidate that passed Validate.
type Valid struct {
	data domain.EmergencyFormData
}

func (v *Valid) Data() domain.EmergencyFormData { return v.data }

func (v *Valid) Report() domain.EmergencyReport { return v.data.ToReport() }

// Validate checks the whole candidate in one pass. On failure the returned error is a
// FieldErrors.
func Validate(candidate domain.EmergencyFormData) (*Valid, error) {
	violations, err := validator.Violations(candidate)
	if err != nil {
		return nil, e.Wrap("schema.Validate", err)
	}
	if len(violations) == 0 {
		return &Valid{data: candidate}, nil
	}

	fe := make(FieldErrors, len(violations))
	for _, v := range violations {
		if _, seen := fe[v.Field]; seen {
			continue
		}
		fe[v.Field] = message(v)
	}
	return nil, fe
}

// ValidateField returns the message for field, or "" when it passes.
func ValidateField(candidate domain.EmergencyFormData, field string) string {
	_, err := Validate(candidate)
	if fe, ok := err.(FieldErrors); ok {
		return fe[field]
	}
	return ""
}

func message(v validator.Violation) string {
	if m, ok := messages[v.Field][v.Tag]; ok {
		return m
	}
	return fmt.Sprintf("%s failed %s", v.Field, v.Tag)
}
