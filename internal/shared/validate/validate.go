package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/abdelrahmanseada/Car-Parking/internal/shared/failure"
)

var instance = validator.New(validator.WithRequiredStructEnabled())

// Struct checks v's validate tags and reports the first violation as a
// Validation failure carrying a readable sentence.
func Struct(v any) error {
	err := instance.Struct(v)
	if err == nil {
		return nil
	}

	var fields validator.ValidationErrors
	if errors.As(err, &fields) && len(fields) > 0 {
		return failure.Validation(describe(fields[0]))
	}
	return failure.Validation("the submitted data is invalid")
}

func describe(fe validator.FieldError) string {
	field := humanize(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gtfield":
		return fmt.Sprintf("%s must be after %s", field, humanize(fe.Param()))
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// humanize turns a struct field name into lowercase words, so messages read
// "duration hours is required" instead of "DurationHours is required".
func humanize(field string) string {
	var b strings.Builder
	for i, r := range field {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteRune(' ')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
