package utils

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/ttacon/libphonenumber"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// ValidatePhoneNumber parses and validates using the given ISO region
// (defaults to IN, the association's home region).
func ValidatePhoneNumber(phoneNumber, countryCode string) error {
	if countryCode == "" {
		countryCode = "IN"
	}
	num, err := libphonenumber.Parse(phoneNumber, countryCode)
	if err != nil {
		return fmt.Errorf("invalid phone number: %v", err)
	}
	if !libphonenumber.IsValidNumber(num) {
		return fmt.Errorf("invalid phone number: %s", phoneNumber)
	}
	return nil
}

// GenerateUniqueFilename keeps the original extension but replaces the name so
// uploads can never collide or traverse paths.
func GenerateUniqueFilename(original string) string {
	ext := ""
	if idx := strings.LastIndex(original, "."); idx >= 0 {
		ext = strings.ToLower(original[idx:])
	}
	return fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.NewString(), ext)
}

// ProcessValidationErrors flattens validator errors into field -> message.
func ProcessValidationErrors(err error) map[string]string {
	out := map[string]string{}
	if verr, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verr {
			out[fe.Field()] = fmt.Sprintf("failed on '%s'", fe.Tag())
		}
	}
	return out
}

// NilIfEmpty maps the zero value to nil (nullable unique columns must store
// NULL, never the empty string).
func NilIfEmpty[T comparable](v T) *T {
	var zero T
	if v == zero {
		return nil
	}
	return &v
}
