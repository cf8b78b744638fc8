package validation

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/taskhub/task-service/pkg/util"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report field names as they appear on the wire
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("iso8601", isISO8601)

	return v
}

// isISO8601 accepts RFC3339 timestamps and bare dates.
func isISO8601(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if _, err := time.Parse(time.RFC3339, val); err == nil {
		return true
	}
	if _, err := time.Parse("2006-01-02", val); err == nil {
		return true
	}
	return false
}

// ParseISO8601 parses a value accepted by the iso8601 rule.
func ParseISO8601(val string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, val); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", val)
}

// ValidateStruct runs every rule declared on req and aggregates all
// violations into a single validation error. A nil return means the
// payload passed every rule.
func ValidateStruct(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	violations, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.NewInternalError(err)
	}

	details := make([]apperrors.FieldViolation, 0, len(violations))
	for _, violation := range violations {
		details = append(details, apperrors.FieldViolation{
			Field:   violation.Field(),
			Message: messageFor(violation),
		})
	}
	return apperrors.NewValidationError("invalid request data", details)
}

func messageFor(v validator.FieldError) string {
	switch v.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", v.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", v.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", v.Field(), v.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", v.Field(), v.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", v.Field(), strings.ReplaceAll(v.Param(), " ", ", "))
	case "iso8601":
		return fmt.Sprintf("%s must be an ISO-8601 timestamp", v.Field())
	}
	return fmt.Sprintf("%s is invalid", v.Field())
}
