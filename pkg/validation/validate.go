// Package validation implements the registration predicate set. Validate is a
// pure function of the draft and the rules; it never mutates its input.
package validation

import (
	"regexp"
	"strconv"
	"unicode/utf8"

	"github.com/goliatone/go-regforms/pkg/registration"
)

// Field paths reported in a Violations mapping.
const (
	FieldName      = "firstName"
	FieldSurname   = "lastName"
	FieldEmail     = "email"
	FieldPassword  = "password"
	FieldAge       = "age"
	FieldGender    = "gender"
	FieldInterests = "interests"
	FieldCountry   = "country"
	FieldSubscribe = "newsletter"
	FieldTerms     = "terms"
	FieldBio       = "bio"
	FieldColor     = "color"
	FieldBirthDate = "date"
	FieldHobbies   = "hobbies"
)

// Constraint values shared with the form document.
const (
	EmailPattern      = `^[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}$`
	MinPasswordLength = 6
	MinAge            = 18
	MinBioLength      = 10
)

var emailRe = regexp.MustCompile(`(?i)` + EmailPattern)

// Rules parameterises the predicate set for one variant.
type Rules struct {
	// MaxAge bounds age from above; zero leaves it unbounded.
	MaxAge         int
	RequireHobbies bool
	Messages       Messages
}

// RulesFor derives the rules of a variant using the default catalog.
func RulesFor(variant registration.Variant) Rules {
	return Rules{
		MaxAge:         variant.MaxAge,
		RequireHobbies: variant.Hobbies,
		Messages:       DefaultMessages(),
	}
}

// WithMessages returns a copy of the rules using the supplied overrides on
// top of the current catalog.
func (r Rules) WithMessages(overrides Messages) Rules {
	r.Messages = overrides.Merge(r.catalog())
	return r
}

func (r Rules) catalog() Messages {
	return r.Messages.Merge(DefaultMessages())
}

// HobbyPath returns the path of a hobby entry field, e.g. hobbies.0.name.
func HobbyPath(index int, field string) string {
	return FieldHobbies + "." + strconv.Itoa(index) + "." + field
}

// Validate evaluates every field independently and returns the violations
// found. A valid draft yields an empty, non-nil mapping.
func Validate(draft registration.Draft, rules Rules) Violations {
	msg := rules.catalog()
	out := Violations{}

	if draft.Name == "" {
		out[FieldName] = msg.Required
	}
	if draft.Surname == "" {
		out[FieldSurname] = msg.Required
	}

	switch {
	case draft.Email == "":
		out[FieldEmail] = msg.Required
	case !emailRe.MatchString(draft.Email):
		out[FieldEmail] = msg.InvalidEmail
	}

	switch {
	case draft.Password == "":
		out[FieldPassword] = msg.Required
	case utf8.RuneCountInString(draft.Password) < MinPasswordLength:
		out[FieldPassword] = msg.PasswordTooShort
	}

	switch {
	case draft.Age == nil:
		out[FieldAge] = msg.Required
	case *draft.Age < MinAge:
		out[FieldAge] = msg.AgeTooLow
	case rules.MaxAge > 0 && *draft.Age > rules.MaxAge:
		out[FieldAge] = msg.AgeTooHigh
	}

	switch {
	case draft.Gender == "":
		out[FieldGender] = msg.GenderRequired
	case !registration.IsGender(draft.Gender):
		out[FieldGender] = msg.GenderUnknown
	}

	if len(draft.Interests) == 0 {
		out[FieldInterests] = msg.InterestsRequired
	} else {
		for _, interest := range draft.Interests {
			if !registration.IsInterest(interest) {
				out[FieldInterests] = msg.InterestUnknown
				break
			}
		}
	}

	switch {
	case draft.Country == "":
		out[FieldCountry] = msg.CountryRequired
	case !registration.IsCountry(draft.Country):
		out[FieldCountry] = msg.CountryUnknown
	}

	if !draft.AcceptedTerms {
		out[FieldTerms] = msg.TermsRequired
	}

	switch {
	case draft.Bio == "":
		out[FieldBio] = msg.BioRequired
	case utf8.RuneCountInString(draft.Bio) < MinBioLength:
		out[FieldBio] = msg.BioTooShort
	}

	if rules.RequireHobbies {
		if len(draft.Hobbies) == 0 {
			out[FieldHobbies] = msg.HobbiesRequired
		}
		for i, hobby := range draft.Hobbies {
			if hobby.Name == "" {
				out[HobbyPath(i, "name")] = msg.HobbyNameRequired
			}
			if !registration.IsHobbyLevel(hobby.Level) {
				out[HobbyPath(i, "level")] = msg.HobbyLevelInvalid
			}
		}
	}

	return out
}
