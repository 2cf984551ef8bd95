package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"resort-backend/models"
)

const dateLayout = "2006-01-02"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report json names so messages match the request body
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// validateStruct converts the first validator failure into a models.ValidationError.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return models.Invalid(field, fmt.Sprintf("%s is required", field))
	case "email":
		return models.Invalid(field, fmt.Sprintf("%s must be a valid email address", field))
	case "datetime":
		return models.Invalid(field, fmt.Sprintf("%s must be a date (YYYY-MM-DD)", field))
	default:
		return models.Invalid(field, fmt.Sprintf("%s is invalid", field))
	}
}
