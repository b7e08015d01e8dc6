// Package validate guards user-supplied values before they reach the engine.
package validate

import (
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/leebenson/conform"
)

var phoneRe = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

// Validator wraps go-playground/validator with the project's custom rules and
// conform-based sanitization. Construct with New; Get returns a shared instance.
type Validator struct {
	v *validator.Validate
}

var (
	shared *Validator
	once   sync.Once
)

// New builds a validator with the phone and password rules registered.
func New() *Validator {
	v := validator.New()
	if err := v.RegisterValidation("phone", validatePhone); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("password", validatePassword); err != nil {
		panic(err)
	}
	return &Validator{v: v}
}

// Get lazily initialises and returns the shared validator.
func Get() *Validator {
	once.Do(func() { shared = New() })
	return shared
}

// Struct sanitizes string fields per their conform tags, then validates the
// struct. i must be a pointer for sanitization to take effect.
func (m *Validator) Struct(i interface{}) error {
	if err := conform.Strings(i); err != nil {
		return err
	}
	return m.v.Struct(i)
}

// Var validates a single value against a tag expression, e.g. "required,email".
func (m *Validator) Var(value interface{}, tag string) error {
	return m.v.Var(value, tag)
}

// validatePhone accepts E.164-style numbers, tolerating spaces, dashes,
// dots and parentheses as technicians type them.
func validatePhone(fl validator.FieldLevel) bool {
	s := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '.', '(', ')':
			return -1
		}
		return r
	}, fl.Field().String())
	return phoneRe.MatchString(s)
}

// validatePassword requires at least 8 characters with an upper-case letter,
// a lower-case letter and a digit.
func validatePassword(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) < 8 {
		return false
	}
	var upper, lower, digit bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}

// SanitizeText trims freeform text and strips control characters, keeping
// newlines and tabs.
func SanitizeText(s string) string {
	cleaned := strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(cleaned)
}
