package validator

import (
	"errors"
	"fmt"
	"regexp"
	"unicode/utf8"
)

const (
	minEmailLength    = 3
	maxEmailLength    = 255
	currencyCodeLen   = 3
	asciiControlStart = 32
	asciiDelete       = 127

	errEmailEmptyFmt       = "email cannot be empty"
	errEmailLengthFmt      = "email must be between %d and %d characters"
	errEmailInvalidFmt     = "invalid email format"
	errRequiredFmt         = "%s cannot be empty"
	errMaxLengthFmt        = "%s must not exceed %d characters"
	errControlCharsFmt     = "%s cannot contain control characters"
	errCurrencyCodeFmt     = "currency code must be %d uppercase letters"
	errPositiveFmt         = "%s must be greater than zero"
	errIdentifierFormatFmt = "%s must be lowercase letters, digits or underscores"
)

var (
	emailRegex        = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	currencyCodeRegex = regexp.MustCompile(`^[A-Z]{3}$`)
	identifierRegex   = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
)

func Email(email string) error {
	if email == "" {
		return errors.New(errEmailEmptyFmt)
	}

	if len(email) < minEmailLength || len(email) > maxEmailLength {
		return fmt.Errorf(errEmailLengthFmt, minEmailLength, maxEmailLength)
	}

	if !emailRegex.MatchString(email) {
		return errors.New(errEmailInvalidFmt)
	}

	return nil
}

// OptionalEmail accepts an empty value
func OptionalEmail(email string) error {
	if email == "" {
		return nil
	}
	return Email(email)
}

// Text checks a free-text field: required when asked, at most max
// characters, no control characters
func Text(field, value string, required bool, max int) error {
	if value == "" {
		if required {
			return fmt.Errorf(errRequiredFmt, field)
		}
		return nil
	}

	if utf8.RuneCountInString(value) > max {
		return fmt.Errorf(errMaxLengthFmt, field, max)
	}

	for _, char := range value {
		if char < asciiControlStart || char == asciiDelete {
			return fmt.Errorf(errControlCharsFmt, field)
		}
	}

	return nil
}

func CurrencyCode(code string) error {
	if !currencyCodeRegex.MatchString(code) {
		return fmt.Errorf(errCurrencyCodeFmt, currencyCodeLen)
	}
	return nil
}

func Positive(field string, value float64) error {
	if value <= 0 {
		return fmt.Errorf(errPositiveFmt, field)
	}
	return nil
}

// Identifier checks a namespace identifier such as an application or module
func Identifier(field, value string) error {
	if value == "" {
		return fmt.Errorf(errRequiredFmt, field)
	}
	if !identifierRegex.MatchString(value) {
		return fmt.Errorf(errIdentifierFormatFmt, field)
	}
	return nil
}

// First returns the first non-nil error
func First(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
