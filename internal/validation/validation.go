// Package validation wires the go-playground validator with the two rules
// the stock tags cannot express: the password complexity policy and the
// phone number shape. Handlers validate request structs and report only
// the first violated rule, as a human-readable message.
package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var phoneRe = regexp.MustCompile(`^\+?[0-9. ()-]{10,}$`)

const passwordMessage = "Password must be at least 6 characters, include at least one uppercase letter, one numeric digit, and one special character."

// New builds the validator engine with the custom rules registered.
// Field names in messages come from the json tag.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	// Go's regexp has no lookahead, so the password policy is checked
	// with explicit passes instead of the original single expression.
	v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return ValidPassword(fl.Field().String())
	})

	v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return ValidPhone(fl.Field().String())
	})

	return v
}

// ValidPassword enforces: minimum 6 characters, at least one lowercase
// letter, one uppercase letter, one digit and one symbol from @$!%*?&.
func ValidPassword(s string) bool {
	if len(s) < 6 {
		return false
	}
	var lower, upper, digit bool
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return lower && upper && digit && strings.ContainsAny(s, "@$!%*?&")
}

// ValidPhone reports whether s looks like a phone number: ten or more
// digits with an optional leading + and common separators.
func ValidPhone(s string) bool {
	return phoneRe.MatchString(s)
}

// FirstError renders the first violated rule of a validator error as the
// message returned to the client.
func FirstError(err error) string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return "Invalid request body"
	}
	fe := errs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%q is required", fe.Field())
	case "email":
		return fmt.Sprintf("%q must be a valid email", fe.Field())
	case "password":
		return passwordMessage
	case "phone":
		return "Invalid phone number"
	case "min", "max":
		return fmt.Sprintf("%q length is out of range", fe.Field())
	case "oneof":
		return fmt.Sprintf("%q must be one of: %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%q is invalid", fe.Field())
	}
}
