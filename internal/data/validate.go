package data

import (
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("delegate_id", func(fl validator.FieldLevel) bool {
			return ValidDelegateId(fl.Field().String())
		})
	})
	return validate
}

// Validate checks the struct tags of item, the returned error is a
// validator.ValidationErrors when a field is invalid
func Validate(item any) error {
	return validatorInstance().Struct(item)
}
