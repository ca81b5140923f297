// Package validation holds the shared jellydator rules and the bridge from
// validation.Errors to the field-keyed apperrors.ValidationError.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/quizly/internal/errors"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	// letters, digits and @.+-_
	usernameRegex = regexp.MustCompile(`^[\w.@+\-]+$`)
)

// WrapValidationError converts validation errors into a domain ValidationError.
// Field errors produced by ValidateStruct keep their field names; nested errors
// (for example slice elements) are flattened under their parent key.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}

	var fieldErrs validation.Errors
	if !apperrors.As(err, &fieldErrs) {
		return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
	}

	result := &apperrors.ValidationError{}
	flatten(result, "", fieldErrs)
	if !result.HasErrors() {
		return nil
	}
	return result
}

func flatten(result *apperrors.ValidationError, parent string, errs validation.Errors) {
	for key, err := range errs {
		if err == nil {
			continue
		}
		field := key
		if parent != "" {
			field = parent
		}
		var nested validation.Errors
		if apperrors.As(err, &nested) {
			flatten(result, field, nested)
			continue
		}
		result.Add(field, err.Error())
	}
}

// Password bounds a password by its length in characters, not bytes, so
// multi-byte passwords are measured the way users count them.
type Password struct {
	Min int
	Max int
}

// Validate implements validation.Rule. Empty values pass; pair it with Required.
func (p Password) Validate(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_password_type", "password must be a string")
	}
	if s == "" {
		return nil
	}

	n := utf8.RuneCountInString(s)
	switch {
	case n < p.Min:
		return validation.NewError(
			"validation_password_min_length",
			fmt.Sprintf("password must be at least %d characters", p.Min),
		)
	case p.Max > 0 && n > p.Max:
		return validation.NewError(
			"validation_password_max_length",
			fmt.Sprintf("password must be at most %d characters", p.Max),
		)
	case strings.TrimSpace(s) == "":
		return validation.NewError("validation_password_blank", "password must not be only whitespace")
	}
	return nil
}

// Email is a pragmatic address check; deliverability is never verified.
var Email = validation.NewStringRuleWithError(
	func(s string) bool {
		return emailRegex.MatchString(s)
	},
	validation.NewError("validation_email_format", "must be a valid email address"),
)

// Username accepts letters, digits and @.+-_ only.
var Username = validation.NewStringRuleWithError(
	func(s string) bool {
		return usernameRegex.MatchString(s)
	},
	validation.NewError(
		"validation_username_format",
		"may contain only letters, numbers, and @/./+/-/_ characters",
	),
)

// NotBlank rejects whitespace-only strings.
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)
