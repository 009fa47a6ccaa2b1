package core

import (
	"errors"
	"regexp"
	"strconv"
	"sync"
	"unicode/utf16"

	"github.com/go-playground/validator/v10"
)

// RegisterInput contains the data needed to register a new account
type RegisterInput struct {
	Username string `json:"username" form:"username" validate:"required"`
	Email    string `json:"email" form:"email" validate:"required,loose_email"`
	Password string `json:"password" form:"password" validate:"required,form_min=6"`
}

// LoginInput contains the credentials for authentication
type LoginInput struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// MinPasswordLength is enforced on registration only; login accepts whatever
// was stored. It counts UTF-16 code units, as the browser form does.
const MinPasswordLength = 6

// Same shape check the registration form has always used: something@something.tld.
// The excluded class is the browser's whitespace set: Go's \s is ASCII only,
// so vertical tab, Unicode separators and the BOM are listed explicitly.
var emailPattern = regexp.MustCompile(`^[^@\s\x0B\p{Z}\x{FEFF}]+@[^@\s\x0B\p{Z}\x{FEFF}]+\.[^@\s\x0B\p{Z}\x{FEFF}]+$`)

// formLength is the length a browser reports for s
func formLength(s string) int {
	n := 0
	for _, r := range s {
		if utf16.RuneLen(r) == 2 {
			n += 2
		} else {
			n++
		}
	}
	return n
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func inputValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("loose_email", func(fl validator.FieldLevel) bool {
			return emailPattern.MatchString(fl.Field().String())
		})
		_ = validate.RegisterValidation("form_min", func(fl validator.FieldLevel) bool {
			want, err := strconv.Atoi(fl.Param())
			if err != nil {
				return false
			}
			return formLength(fl.Field().String()) >= want
		})
	})
	return validate
}

// Validate checks the registration form rules in the order the user sees
// them: missing fields first, then email shape, then password length.
func (in RegisterInput) Validate() error {
	err := inputValidator().Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			return ErrFieldsRequired
		}
	}
	for _, fe := range fieldErrs {
		if fe.Tag() == "loose_email" {
			return ErrInvalidEmail
		}
	}
	return ErrPasswordTooShort
}

func (in LoginInput) Validate() error {
	err := inputValidator().Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		return ErrCredentialsRequired
	}
	return err
}
