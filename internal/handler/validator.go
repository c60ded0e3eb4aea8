package handler

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/osse101/CodeLedger_Go/internal/domain"
)

// handlePattern accepts the characters the supported platforms allow in usernames
var handlePattern = regexp.MustCompile(`^[A-Za-z0-9_.\-]+$`)

// Validator wraps the validator instance
type Validator struct {
	validate *validator.Validate
}

// Global validator instance
var validate *Validator

// InitValidator initializes the global validator
func InitValidator() {
	v := validator.New()

	_ = v.RegisterValidation("platform", validatePlatform)
	_ = v.RegisterValidation("handle", validateHandle)

	validate = &Validator{validate: v}
}

// GetValidator returns the global validator instance
func GetValidator() *Validator {
	if validate == nil {
		InitValidator()
	}
	return validate
}

// ValidateStruct validates a struct using tags
func (v *Validator) ValidateStruct(s any) error {
	return v.validate.Struct(s)
}

// FormatValidationError formats validation errors into a user-friendly map
// without leaking struct names
func FormatValidationError(err error) map[string]string {
	if err == nil {
		return nil
	}

	errs := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		errs["error"] = ErrMsgRequestFormat
		return errs
	}

	for _, e := range validationErrors {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required":
			errs[field] = ErrMsgFieldRequired
		case "platform":
			errs[field] = ErrMsgFieldPlatform
		case "handle":
			errs[field] = ErrMsgFieldHandle
		case "max":
			errs[field] = fmt.Sprintf(ErrMsgFieldTooLong, e.Param())
		case "min":
			errs[field] = fmt.Sprintf(ErrMsgFieldTooShort, e.Param())
		case "excludesall":
			errs[field] = ErrMsgFieldInvalidChars
		default:
			errs[field] = ErrMsgFieldInvalid
		}
	}

	return errs
}

// validatePlatform accepts supported platforms case-insensitively; empty is left to "required"
func validatePlatform(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, err := domain.ParsePlatform(value)
	return err == nil
}

func validateHandle(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return handlePattern.MatchString(value)
}
