package validators

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	validate.RegisterValidation("object_id", validateObjectID)
	validate.RegisterValidation("strong_password", validateStrongPassword)
	validate.RegisterValidation("time_of_day", validateTimeOfDay)
}

var (
	ErrInvalidObjectID = errors.New("invalid object ID format")
	ErrWeakPassword    = errors.New("password does not meet strength requirements")
)

// ValidationError represents a field validation error
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var messages []string
	for _, err := range v {
		messages = append(messages, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(messages, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	m := make(map[string]string, len(v))
	for _, err := range v {
		m[err.Field] = err.Message
	}
	return m
}

// ValidateStruct validates a struct and returns detailed errors
func ValidateStruct(s interface{}) ValidationErrors {
	var validationErrors ValidationErrors

	err := validate.Struct(s)
	if err != nil {
		var fieldErrors validator.ValidationErrors
		if errors.As(err, &fieldErrors) {
			for _, fe := range fieldErrors {
				validationErrors = append(validationErrors, ValidationError{
					Field:   strings.ToLower(fe.Field()),
					Tag:     fe.Tag(),
					Value:   fmt.Sprintf("%v", fe.Value()),
					Message: messageForTag(fe),
				})
			}
		}
	}

	return validationErrors
}

func messageForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "object_id":
		return "must be a valid object id"
	case "strong_password":
		return "must be at least 8 characters with upper, lower and digit"
	case "time_of_day":
		return "must be in HH:MM format"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

func validateObjectID(fl validator.FieldLevel) bool {
	_, err := primitive.ObjectIDFromHex(fl.Field().String())
	return err == nil
}

func validateStrongPassword(fl validator.FieldLevel) bool {
	password := fl.Field().String()
	if len(password) < 8 {
		return false
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	return hasUpper && hasLower && hasDigit
}

func validateTimeOfDay(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if len(value) != 5 || value[2] != ':' {
		return false
	}

	hour := int(value[0]-'0')*10 + int(value[1]-'0')
	minute := int(value[3]-'0')*10 + int(value[4]-'0')

	for _, c := range []byte{value[0], value[1], value[3], value[4]} {
		if c < '0' || c > '9' {
			return false
		}
	}

	return hour >= 0 && hour <= 23 && minute >= 0 && minute <= 59
}
