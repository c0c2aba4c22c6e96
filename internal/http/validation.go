package http

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/mcnijman/go-emailaddress"
)

var phonePattern = regexp.MustCompile(`^\d{3}-\d{3,4}-\d{4}$`)

var (
	registerOnce sync.Once
	registerErr  error
)

// registerValidators extends gin's validation engine with the rules used by
// request payloads and makes field errors report JSON names.
func registerValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = fmt.Errorf("unexpected validation engine %T", binding.Validator.Engine())
			return
		}

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		rules := map[string]validator.Func{
			"notblank":  notBlank,
			"emailaddr": emailAddress,
			"phone":     phoneNumber,
		}
		for tag, fn := range rules {
			if err := v.RegisterValidation(tag, fn); err != nil {
				registerErr = fmt.Errorf("register %s validation: %w", tag, err)
				return
			}
		}
	})
	return registerErr
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func emailAddress(fl validator.FieldLevel) bool {
	_, err := emailaddress.Parse(fl.Field().String())
	return err == nil
}

func phoneNumber(fl validator.FieldLevel) bool {
	return phonePattern.MatchString(fl.Field().String())
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "must not be blank"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "emailaddr":
		return "must be a well-formed email address"
	case "phone":
		return "must match the pattern 010-1234-5678"
	default:
		return fmt.Sprintf("failed on the %s rule", fe.Tag())
	}
}
