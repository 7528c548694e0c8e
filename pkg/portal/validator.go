package portal

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	baseValidator "github.com/go-playground/validator/v10"
)

type Validator struct {
	validator *baseValidator.Validate
	errors    map[string]string
}

func GetDefaultValidator() *Validator {
	validate := baseValidator.New(
		baseValidator.WithRequiredStructEnabled(),
	)

	return &Validator{
		validator: validate,
		errors:    map[string]string{},
	}
}

func (v *Validator) Passes(entity any) (bool, error) {
	v.errors = map[string]string{}

	err := v.validator.Struct(entity)
	if err == nil {
		return true, nil
	}

	var invalid *baseValidator.InvalidValidationError
	if errors.As(err, &invalid) {
		return false, fmt.Errorf("invalid validation target: %w", err)
	}

	var violations baseValidator.ValidationErrors
	if errors.As(err, &violations) {
		for _, item := range violations {
			field := strings.ToLower(item.Field())
			v.errors[field] = fmt.Sprintf(
				"validation failed on field '%s' with tag '%s'",
				item.Field(),
				item.Tag(),
			)
		}
	}

	return false, err
}

func (v *Validator) Rejects(entity any) (bool, error) {
	ok, err := v.Passes(entity)

	return !ok, err
}

func (v *Validator) GetErrors() map[string]string {
	return v.errors
}

func (v *Validator) GetErrorsAsJson() string {
	if len(v.errors) == 0 {
		return ""
	}

	data, err := json.Marshal(v.errors)
	if err != nil {
		slog.Error("could not marshal validation errors", "error", err)
		return ""
	}

	return string(data)
}
