package services

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/habitmaster/core/internal/domain/entities"
)

// NewValidator returns a validator with the habit-specific tags registered
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("calendar_date", func(fl validator.FieldLevel) bool {
		_, err := entities.ParseDate(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("utf8_text", func(fl validator.FieldLevel) bool {
		return utf8.ValidString(fl.Field().String())
	})
	return v
}

// validateRequest maps validator failures onto ErrInvalidInput
func validateRequest(v *validator.Validate, req interface{}) error {
	err := v.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", entities.ErrInvalidInput, err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", strings.ToLower(fe.Field())))
		case "utf8_text":
			msgs = append(msgs, fmt.Sprintf("%s must be valid UTF-8", strings.ToLower(fe.Field())))
		case "calendar_date":
			msgs = append(msgs, fmt.Sprintf("%s %q must be YYYY-MM-DD", strings.ToLower(fe.Field()), fe.Value()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", entities.ErrInvalidInput, strings.Join(msgs, "; "))
}
