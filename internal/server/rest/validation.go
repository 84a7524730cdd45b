package rest

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/dmitrijs2005/baibai/internal/server/locations"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Up to ten integer digits to fit NUMERIC(12,2).
var currencyRe = regexp.MustCompile(`^\d{1,10}(\.\d{1,2})?$`)

var (
	validatorsOnce sync.Once
	validatorsErr  error
)

// registerValidators adds the custom binding tags to gin's validator and
// makes field errors use JSON names.
func registerValidators() error {
	validatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			validatorsErr = errors.New("unexpected validator engine")
			return
		}

		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		validatorsErr = errors.Join(
			v.RegisterValidation("currency", func(fl validator.FieldLevel) bool {
				return currencyRe.MatchString(fl.Field().String())
			}),
			v.RegisterValidation("location", func(fl validator.FieldLevel) bool {
				return locations.Valid(fl.Field().String())
			}),
		)
	})
	return validatorsErr
}

// validationMessage turns a binding error into a client message.
func validationMessage(err error) string {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return "invalid request body"
	}

	msgs := make([]string, 0, len(ves))
	for _, fe := range ves {
		msgs = append(msgs, fieldMessage(fe))
	}
	return strings.Join(msgs, "; ")
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "alphanum":
		return field + " must contain only letters and numbers"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "currency":
		return field + " must be an amount with at most two decimals"
	case "location":
		return field + " must be a known country"
	default:
		return field + " is invalid"
	}
}
