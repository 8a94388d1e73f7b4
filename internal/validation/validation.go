// Package validation checks request payloads with go-playground/validator
// struct tags. Besides the built-in tags it registers "strongpassword".
package validation

import (
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	validate *validator.Validate
)

// Validator returns the shared validator with the custom tags registered.
func Validator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("strongpassword", strongPassword)
	})
	return validate
}

// Struct validates s against its `validate` tags.
func Struct(s any) error {
	return Validator().Struct(s)
}

// passwordSymbols is the symbol class accepted by the strength rule.
const passwordSymbols = "-#!$@£%^&*()_+|~=`{}[]:\";'<>?,./\\ "

func strongPassword(fl validator.FieldLevel) bool {
	return IsStrongPassword(fl.Field().String())
}

// IsStrongPassword reports whether p has at least one lowercase letter, one
// uppercase letter, one digit and one symbol. Length is checked separately.
func IsStrongPassword(p string) bool {
	var lower, upper, digit, symbol bool
	for _, r := range p {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		}
	}
	return lower && upper && digit && symbol
}
