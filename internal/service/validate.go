package service

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/bookery/bookery/internal/model"
)

// Validation messages surfaced in field error responses.
const (
	msgRequired     = "This field is required."
	msgInvalidEmail = "Enter a valid email address."
	msgUsernameDup  = "A user with that username already exists."
	msgEmailDup     = "A user with that email already exists."
)

var (
	msgAgeRange = fmt.Sprintf("Age must be between %d and %d.", model.MinAge, model.MaxAge)
	msgTitleMax = fmt.Sprintf("Ensure this field has no more than %d characters.", model.MaxTitleLength)
	msgDescMax  = fmt.Sprintf("Ensure this field has no more than %d characters.", model.MaxDescriptionLength)
)

// validEmail checks the address against the standard grammar and
// additionally requires a dotted domain, so "alex@authors" is rejected
// the way clients expect.
func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}

	at := strings.LastIndex(email, "@")
	domain := email[at+1:]
	return strings.Contains(domain, ".") && !strings.HasPrefix(domain, ".") && !strings.HasSuffix(domain, ".")
}

// validateRegistration applies the state-independent field rules for
// user registration.
func validateRegistration(input RegisterInput) FieldErrors {
	fieldErrs := FieldErrors{}

	if strings.TrimSpace(input.Username) == "" {
		fieldErrs.Add("username", msgRequired)
	}

	if strings.TrimSpace(input.Email) == "" {
		fieldErrs.Add("email", msgRequired)
	} else if !validEmail(input.Email) {
		fieldErrs.Add("email", msgInvalidEmail)
	}

	if input.Password == "" {
		fieldErrs.Add("password", msgRequired)
	}

	if input.Age != nil && (*input.Age < model.MinAge || *input.Age > model.MaxAge) {
		fieldErrs.Add("age", msgAgeRange)
	}

	return fieldErrs
}

// validateBookFields applies the state-independent field rules for
// book titles and descriptions.
func validateBookFields(title, description string) FieldErrors {
	fieldErrs := FieldErrors{}

	if strings.TrimSpace(title) == "" {
		fieldErrs.Add("title", msgRequired)
	} else if utf8.RuneCountInString(title) > model.MaxTitleLength {
		fieldErrs.Add("title", msgTitleMax)
	}

	if utf8.RuneCountInString(description) > model.MaxDescriptionLength {
		fieldErrs.Add("description", msgDescMax)
	}

	return fieldErrs
}
