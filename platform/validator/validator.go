// Package validator provides validation infrastructure for the application.
// This is part of the platform layer and contains no business logic, but it
// registers the domain enum tags so transport DTOs can declare them.
package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator wraps the go-playground validator for structured validation.
type Validator struct {
	v *validator.Validate
}

// enumTags maps custom validation tags to their allowed values.
var enumTags = map[string][]string{
	"leadstatus":    {"nuevo", "contactado", "interesado", "confirmado", "descartado"},
	"paymentstatus": {"pendiente", "seña", "completo"},
	"paymentmethod": {"", "transferencia", "mercadopago", "efectivo"},
	"interesttype":  {"reservar", "info", "consulta"},
	"leadsource":    {"landing", "instagram", "facebook", "referido", "otro"},
	"retreatstatus": {"draft", "active", "completed", "cancelled"},
	"currency":      {"ARS", "USD", "EUR"},
}

// New creates a new Validator instance with the domain enum tags registered.
func New() *Validator {
	v := validator.New()
	for tag, allowed := range enumTags {
		values := allowed
		_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			for _, val := range values {
				if s == val {
					return true
				}
			}
			return false
		})
	}
	return &Validator{v: v}
}

// Struct validates a struct based on validation tags.
func (val *Validator) Struct(s interface{}) error {
	return val.v.Struct(s)
}

// Var validates a single variable against a tag.
func (val *Validator) Var(field interface{}, tag string) error {
	return val.v.Var(field, tag)
}

// FieldMessages converts a validation error into one readable message per
// offending field, suitable for apperr.ValidationFields details.
func (val *Validator) FieldMessages(err error) []string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}
	messages := make([]string, 0, len(errs))
	for _, fe := range errs {
		messages = append(messages, fieldMessage(fe))
	}
	return messages
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "gte":
		return fmt.Sprintf("%s must be %s or greater", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be %s or less", field, fe.Param())
	default:
		if allowed, ok := enumTags[fe.Tag()]; ok {
			return fmt.Sprintf("%s must be one of: %s", field, strings.Join(allowed, ", "))
		}
		return fmt.Sprintf("%s is invalid", field)
	}
}
