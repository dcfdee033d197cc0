package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Константы валидации
const (
	MaxNameLength  = 100
	MaxEmailLength = 254
	MaxFieldLength = 5000
	MaxAboutLength = 5000
)

// Тот же минимальный формат, что и в форме: что-то@что-то.что-то без пробелов.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateLength проверяет длину строки.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s must be at least %d characters", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s must be at most %d characters", fieldName, max)
	}
	return nil
}

// ValidateEmail проверяет формат email.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if len(email) > MaxEmailLength {
		return fmt.Errorf("email is too long")
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("please enter a valid email address")
	}
	return nil
}

// ValidateNonEmpty проверяет, что строка не пустая.
func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	return nil
}

// ValidateName проверяет имя посетителя.
func ValidateName(name string) error {
	if err := ValidateNonEmpty("name", name); err != nil {
		return err
	}
	return ValidateLength("name", strings.TrimSpace(name), 1, MaxNameLength)
}

// ValidateField проверяет обязательное текстовое поле формы.
func ValidateField(fieldName, value string) error {
	if err := ValidateNonEmpty(fieldName, value); err != nil {
		return err
	}
	return ValidateLength(fieldName, value, 0, MaxFieldLength)
}

// ValidateOptional проверяет только длину необязательного поля.
func ValidateOptional(fieldName, value string, max int) error {
	return ValidateLength(fieldName, value, 0, max)
}
