package http

import (
	"errors"
	"math"
	"reflect"
	"strings"

	"credify-backend/internal/domain/kyc"

	"github.com/go-playground/validator/v10"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
type ErrorResponse struct {
	Error   string       `json:"error"`
	Details []FieldError `json:"details,omitempty"`
}

type CustomValidator struct{ v *validator.Validate }

func NewValidator() *CustomValidator {
	v := validator.New()

	// report json names so details match the request body
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// at most 2 decimal places (rupees and paise, percent points)
	_ = v.RegisterValidation("dec2", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
		return math.Abs(f-(math.Round(f*100)/100)) < 1e-9
	})
	_ = v.RegisterValidation("dataurl", func(fl validator.FieldLevel) bool {
		_, _, err := kyc.ParseDataURL(fl.Field().String())
		return err == nil
	})

	return &CustomValidator{v: v}
}

func (cv *CustomValidator) Validate(i any) error { return cv.v.Struct(i) }

// ToFieldErrors maps validator.ValidationErrors to readable per-field messages.
func ToFieldErrors(err error) []FieldError {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return []FieldError{{Field: "_", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(ve))
	for _, e := range ve {
		field := e.Field()
		var msg string
		switch e.Tag() {
		case "required":
			msg = "is required"
		case "email":
			msg = "must be a valid email address"
		case "oneof":
			msg = "must be one of: " + e.Param()
		case "len":
			msg = "must be exactly " + e.Param() + " characters"
		case "numeric":
			msg = "must contain digits only"
		case "min":
			msg = "must be at least " + e.Param()
		case "max":
			msg = "must be at most " + e.Param()
		case "gt":
			msg = "must be greater than " + e.Param()
		case "dec2":
			msg = "must have at most 2 decimal places"
		case "dataurl":
			msg = "must be a base64 image data URL"
		case "gte":
			msg = "must be greater than or equal to " + e.Param()
		case "lte":
			msg = "must be less than or equal to " + e.Param()
		default:
			msg = e.Tag() + " validation failed"
		}
		out = append(out, FieldError{Field: field, Message: msg})
	}
	return out
}
