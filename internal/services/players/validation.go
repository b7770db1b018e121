package players

import (
	"errors"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/mcoot/tourney/internal/model"
)

// nameSymbols are the characters a player name may not contain
const nameSymbols = "!@#$%^&*()~`+="

var noDigits = regexp.MustCompile(`^[^0-9]*$`)

var (
	errNameRequired    = validation.NewError("name_required", "name is required")
	errNameDigits      = validation.NewError("name_digits", "name must not contain numbers")
	errNameLength      = validation.NewError("name_length", "name must be at least 2 characters")
	errNameSurname     = validation.NewError("name_surname", "name is missing a surname")
	errNameSymbols     = validation.NewError("name_symbols", "name must not contain symbols")
	errCountryRequired = validation.NewError("country_required", "country is required")
)

// Rules run in order and stop at the first failure
var (
	nameRules = []validation.Rule{
		validation.Required.ErrorObject(errNameRequired),
		validation.Match(noDigits).ErrorObject(errNameDigits),
		validation.RuneLength(2, 0).ErrorObject(errNameLength),
		validation.NewStringRuleWithError(hasSurname, errNameSurname),
		validation.NewStringRuleWithError(hasNoSymbols, errNameSymbols),
	}
	countryRules = []validation.Rule{
		validation.Required.ErrorObject(errCountryRequired),
	}
)

func hasSurname(name string) bool {
	return len(strings.Fields(name)) >= 2
}

func hasNoSymbols(name string) bool {
	return !strings.ContainsAny(name, nameSymbols)
}

// ValidateName checks a player name against the registration rules
func ValidateName(name string) error {
	return validateField("name", name, nameRules...)
}

// ValidateCountry checks a country is present
func ValidateCountry(country string) error {
	return validateField("country", strings.TrimSpace(country), countryRules...)
}

// validateField runs rules against value and converts the first failure into
// a model.ValidationError carrying the rule code
func validateField(field, value string, rules ...validation.Rule) error {
	err := validation.Validate(value, rules...)
	if err == nil {
		return nil
	}

	var verr validation.Error
	if errors.As(err, &verr) {
		return model.NewValidationError(field, verr.Code(), verr.Message())
	}
	return err
}
