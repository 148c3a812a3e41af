package validators

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"ecocreds/internal/utils"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Register custom validation functions
	validate.RegisterValidation("object_id", validateObjectID)
	validate.RegisterValidation("strong_password", validateStrongPassword)
	validate.RegisterValidation("currency_code", validateCurrencyCode)
	validate.RegisterValidation("minor_units", validateMinorUnits)
	validate.RegisterValidation("credit_code", validateCreditCode)
	validate.RegisterValidation("checkout_reference", validateCheckoutReference)
}

// Common validation errors
var (
	ErrInvalidObjectID = errors.New("invalid object ID format")
	ErrWeakPassword    = errors.New("password does not meet strength requirements")
	ErrInvalidCurrency = errors.New("invalid currency code")
	ErrInvalidAmount   = errors.New("invalid amount")
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

// ValidateStruct validates a struct and returns detailed errors
func ValidateStruct(s interface{}) ValidationErrors {
	var validationErrors ValidationErrors

	err := validate.Struct(s)
	if err != nil {
		for _, err := range err.(validator.ValidationErrors) {
			validationError := ValidationError{
				Field:   err.Field(),
				Tag:     err.Tag(),
				Value:   fmt.Sprintf("%v", err.Value()),
				Message: getErrorMessage(err),
			}
			validationErrors = append(validationErrors, validationError)
		}
	}

	return validationErrors
}

func getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", err.Field())
	case "email":
		return "Invalid email format"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", err.Field(), err.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", err.Field(), err.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
	case "object_id":
		return "Invalid ID format"
	case "strong_password":
		return "Password must contain uppercase, lowercase, number, and special character"
	case "currency_code":
		return "Invalid currency code"
	case "minor_units":
		return "Amount must be a non-negative integer in minor units"
	case "credit_code":
		return "Invalid credit code format"
	case "checkout_reference":
		return "Invalid checkout reference format"
	default:
		return fmt.Sprintf("Validation failed for %s", err.Field())
	}
}

// Custom validation functions
func validateObjectID(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // Let required tag handle empty values
	}
	_, err := primitive.ObjectIDFromHex(value)
	return err == nil
}

func validateStrongPassword(fl validator.FieldLevel) bool {
	password := fl.Field().String()
	if len(password) < utils.PasswordMinLength || len(password) > utils.PasswordMaxLength {
		return false
	}

	var (
		hasUpper   = false
		hasLower   = false
		hasNumber  = false
		hasSpecial = false
	)

	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}

	return hasUpper && hasLower && hasNumber && hasSpecial
}

func validateCurrencyCode(fl validator.FieldLevel) bool {
	return utils.ValidateCurrencyCode(fl.Field().String())
}

func validateMinorUnits(fl validator.FieldLevel) bool {
	return fl.Field().Int() >= 0
}

func validateCreditCode(fl validator.FieldLevel) bool {
	code := fl.Field().String()
	if code == "" {
		return true
	}

	codeRegex := regexp.MustCompile(`^ECO-[A-Z0-9]{10}$`)
	return codeRegex.MatchString(strings.ToUpper(code))
}

func validateCheckoutReference(fl validator.FieldLevel) bool {
	reference := fl.Field().String()
	if reference == "" {
		return true // empty means the server generates one
	}
	return strings.HasPrefix(reference, "chk_")
}

// Helper functions for common validations
func IsValidEmail(email string) bool {
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	return emailRegex.MatchString(email)
}

func IsValidObjectID(id string) bool {
	_, err := primitive.ObjectIDFromHex(id)
	return err == nil
}

func SanitizeInput(input string) string {
	// Remove HTML tags and trim whitespace
	htmlRegex := regexp.MustCompile(`<[^>]*>`)
	cleaned := htmlRegex.ReplaceAllString(input, "")
	return strings.TrimSpace(cleaned)
}
