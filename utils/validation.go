package utils

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var productIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ValidProductID reports whether id has the shape of a product identifier.
func ValidProductID(id string) bool {
	return productIDPattern.MatchString(id)
}

// NewValidator returns a validator that reports JSON field names and knows the
// "productid" tag.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("productid", func(fl validator.FieldLevel) bool {
		return ValidProductID(fl.Field().String())
	})
	return v
}

// FieldErrors unwraps validator failures. It returns nil for any other error.
func FieldErrors(err error) validator.ValidationErrors {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		return fieldErrs
	}
	return nil
}

// DescribeFieldErrors renders a generic message such as "price must be at least 0".
func DescribeFieldErrors(fieldErrs validator.ValidationErrors) string {
	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			messages = append(messages, fe.Field()+" is required")
		case "min":
			messages = append(messages, fe.Field()+" must be at least "+fe.Param())
		case "oneof":
			messages = append(messages, fe.Field()+" must be one of: "+strings.ReplaceAll(fe.Param(), " ", ", "))
		default:
			messages = append(messages, fe.Field()+" is invalid")
		}
	}
	return strings.Join(messages, ", ")
}
