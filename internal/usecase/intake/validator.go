// Package intake normalizes and validates every request before it reaches a ledger.
package intake

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"contrack-backend/internal/domain/apperr"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	reHex32    = regexp.MustCompile(`^[a-f0-9]{32}$`)
	reCurrency = regexp.MustCompile(`^[A-Z]{3}$`)
)

// Validator wraps go-playground/validator with the project's tags:
//
//	hex32    32-char lowercase hex id
//	currency ISO-4217 style three upper-case letters
//
// decimal.Decimal fields validate as numbers, so gt/gte/lte work on amounts.
type Validator struct{ v *validator.Validate }

func New() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		d, ok := field.Interface().(decimal.Decimal)
		if !ok {
			return nil
		}
		f, _ := d.Float64()
		return f
	}, decimal.Decimal{})

	_ = v.RegisterValidation("hex32", func(fl validator.FieldLevel) bool {
		return reHex32.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("currency", func(fl validator.FieldLevel) bool {
		return reCurrency.MatchString(fl.Field().String())
	})

	return &Validator{v: v}
}

// Validate satisfies echo.Validator.
func (x *Validator) Validate(i any) error { return x.Struct("intake", i) }

// Struct validates s and reports every violation as an apperr validation error.
func (x *Validator) Struct(op string, s any) error {
	err := x.v.Struct(s)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return apperr.WrapKind(apperr.KindInternal, op, err)
	}
	return apperr.Validation(op, ToFieldErrors(ve)...)
}

// ToFieldErrors maps validator errors to JSON-named field messages.
func ToFieldErrors(ve validator.ValidationErrors) []apperr.FieldError {
	out := make([]apperr.FieldError, 0, len(ve))
	for _, e := range ve {
		out = append(out, apperr.FieldError{Field: fieldName(e), Message: message(e)})
	}
	return out
}

// fieldName drops the root struct name from the namespace: milestones[0].name.
func fieldName(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return e.Field()
}

func message(e validator.FieldError) string {
	text := e.Kind() == reflect.String
	switch e.Tag() {
	case "required":
		return "is required"
	case "hex32":
		return "must be 32-char lowercase hex"
	case "currency":
		return "must be a 3-letter currency code"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "oneof":
		return "must be one of " + strings.ReplaceAll(e.Param(), " ", ", ")
	case "min":
		if text {
			return "must be at least " + e.Param() + " characters"
		}
		return "must be at least " + e.Param()
	case "max":
		if text {
			return "must be at most " + e.Param() + " characters"
		}
		return "must be at most " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	default:
		return e.Tag() + " validation failed"
	}
}
