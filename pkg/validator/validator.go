package validator

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(jsonFieldName)
	RegisterCustomValidations(validate)
}

// Violation is one failed rule. Field is the json name of the field.
type Violation struct {
	Field string
	Tag   string
	Param string
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// Violations runs ValidateStruct and flattens the result. The library stops at the
// first failing tag of a field, so there is at most one violation per field.
func Violations(s interface{}) ([]Violation, error) {
	err := validate.Struct(s)
	if err == nil {
		return nil, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, err
	}
	out := make([]Violation, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, Violation{Field: fe.Field(), Tag: fe.Tag(), Param: fe.Param()})
	}
	return out, nil
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	}
	return name
}
