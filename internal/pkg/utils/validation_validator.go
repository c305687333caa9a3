package utils

import (
	"time"

	"pharmacare-service/internal/pkg/constvars"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("future_time", validateFutureTime)
	validate.RegisterValidation("consult_length", validateConsultLength)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateFutureTime(fl validator.FieldLevel) bool {
	t, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	return t.After(time.Now().UTC())
}

func validateConsultLength(fl validator.FieldLevel) bool {
	minutes := int(fl.Field().Int())
	for _, allowed := range constvars.AllowedDurationsMinutes {
		if minutes == allowed {
			return true
		}
	}
	return false
}
