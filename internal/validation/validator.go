package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"discount-api/internal/model"

	"github.com/go-playground/validator/v10"
)

var isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{3}Z$`)

// IsISODate reports whether s is an ISO-8601 UTC timestamp that survives a
// parse/re-format round trip unchanged. Values in any other form, including
// ones time.Parse would normalise (out-of-range components, offsets), are
// rejected.
func IsISODate(s string) bool {
	if !isoDatePattern.MatchString(s) {
		return false
	}
	t, err := time.Parse(model.TimestampLayout, s)
	if err != nil {
		return false
	}
	return model.FormatTimestamp(t) == s
}

// Validator checks submitted discount fields before they reach the
// lifecycle manager.
type Validator struct {
	validate *validator.Validate
}

// New builds a Validator with the isodate rule registered.
func New() (*Validator, error) {
	v := validator.New()

	// Report field names as their json tag so error lists match the wire.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		return IsISODate(fl.Field().String())
	}); err != nil {
		return nil, fmt.Errorf("failed to register isodate rule: %w", err)
	}

	return &Validator{validate: v}, nil
}

// Check validates a submitted discount body and returns one entry per
// failed field, or nil when everything passes.
func (v *Validator) Check(req *model.DiscountRequest) []model.FieldError {
	err := v.validate.Struct(req)
	if err == nil {
		return nil
	}

	var invalid validator.ValidationErrors
	if !errors.As(err, &invalid) {
		return []model.FieldError{{Field: "body", Message: err.Error()}}
	}

	fieldErrors := make([]model.FieldError, 0, len(invalid))
	for _, fe := range invalid {
		fieldErrors = append(fieldErrors, model.FieldError{
			Field:   fe.Field(),
			Message: messageFor(fe),
		})
	}
	return fieldErrors
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "isodate":
		return fmt.Sprintf("%s must be an ISO-8601 UTC timestamp", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
