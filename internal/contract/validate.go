package contract

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/huangsam/roomspot/schema"
)

var (
	queryValidator     *validator.Validate
	queryValidatorOnce sync.Once
)

// getQueryValidator returns the shared validator with the roomspot tags registered.
func getQueryValidator() *validator.Validate {
	queryValidatorOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		if err := v.RegisterValidation("campus", validateCampus); err != nil {
			LogFatal("Failed to register 'campus' validator", err)
		}
		queryValidator = v
	})
	return queryValidator
}

func validateCampus(fl validator.FieldLevel) bool {
	return schema.IsKnownLocation(fl.Field().String())
}

// ValidateQuery checks a search query before any work is done for it.
// An unknown location yields schema.ErrInvalidLocation.
func ValidateQuery(q schema.SearchQuery) error {
	err := getQueryValidator().Struct(q)
	if err == nil {
		return nil
	}
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	var messages []string
	for _, fe := range validationErrs {
		switch fe.Tag() {
		case "campus":
			return fmt.Errorf("%w: %q", schema.ErrInvalidLocation, q.Location)
		case "required":
			if fe.Field() == "Location" {
				return fmt.Errorf("%w: location is required", schema.ErrInvalidLocation)
			}
			messages = append(messages, fmt.Sprintf("%s is required", fe.Field()))
		case "gt":
			messages = append(messages, fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param()))
		case "min":
			messages = append(messages, fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param()))
		case "max":
			messages = append(messages, fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param()))
		default:
			messages = append(messages, fe.Error())
		}
	}
	return fmt.Errorf("invalid search query: %s", strings.Join(messages, "; "))
}
