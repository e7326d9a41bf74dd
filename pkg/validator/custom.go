package validator

import (
	"github.com/go-playground/validator/v10"

	"github.com/splitleasesharath/emergency-report/internal/domain"
)

func RegisterCustomValidations(validate *validator.Validate) {
	validate.RegisterValidation("emergency_type", validateEmergencyType)
}

func validateEmergencyType(fl validator.FieldLevel) bool {
	return domain.EmergencyType(fl.Field().String()).Valid()
}
