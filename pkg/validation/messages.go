package validation

import "strings"

// Messages is the catalog of user-facing violation texts. Empty fields fall
// back to the English defaults when merged.
type Messages struct {
	Required          string `yaml:"required" json:"required"`
	InvalidEmail      string `yaml:"invalid_email" json:"invalidEmail"`
	PasswordTooShort  string `yaml:"password_too_short" json:"passwordTooShort"`
	AgeTooLow         string `yaml:"age_too_low" json:"ageTooLow"`
	AgeTooHigh        string `yaml:"age_too_high" json:"ageTooHigh"`
	GenderRequired    string `yaml:"gender_required" json:"genderRequired"`
	GenderUnknown     string `yaml:"gender_unknown" json:"genderUnknown"`
	InterestsRequired string `yaml:"interests_required" json:"interestsRequired"`
	InterestUnknown   string `yaml:"interest_unknown" json:"interestUnknown"`
	CountryRequired   string `yaml:"country_required" json:"countryRequired"`
	CountryUnknown    string `yaml:"country_unknown" json:"countryUnknown"`
	TermsRequired     string `yaml:"terms_required" json:"termsRequired"`
	BioRequired       string `yaml:"bio_required" json:"bioRequired"`
	BioTooShort       string `yaml:"bio_too_short" json:"bioTooShort"`
	HobbiesRequired   string `yaml:"hobbies_required" json:"hobbiesRequired"`
	HobbyNameRequired string `yaml:"hobby_name_required" json:"hobbyNameRequired"`
	HobbyLevelInvalid string `yaml:"hobby_level_invalid" json:"hobbyLevelInvalid"`
}

// DefaultMessages returns the English catalog.
func DefaultMessages() Messages {
	return Messages{
		Required:          "This field is required",
		InvalidEmail:      "Invalid email address",
		PasswordTooShort:  "Password must be at least 6 characters",
		AgeTooLow:         "You must be at least 18 years old",
		AgeTooHigh:        "Age must be at most 100 years",
		GenderRequired:    "Select a gender",
		GenderUnknown:     "Select one of the listed genders",
		InterestsRequired: "Select at least one interest",
		InterestUnknown:   "Select only listed interests",
		CountryRequired:   "Select a country",
		CountryUnknown:    "Select one of the listed countries",
		TermsRequired:     "You must accept the terms",
		BioRequired:       "Tell us about yourself",
		BioTooShort:       "Tell us more about yourself (at least 10 characters)",
		HobbiesRequired:   "Add at least one hobby",
		HobbyNameRequired: "Hobby name is required",
		HobbyLevelInvalid: "Select a hobby level",
	}
}

// Merge returns m with every blank entry filled from base.
func (m Messages) Merge(base Messages) Messages {
	pick := func(value, fallback string) string {
		if strings.TrimSpace(value) == "" {
			return fallback
		}
		return value
	}
	return Messages{
		Required:          pick(m.Required, base.Required),
		InvalidEmail:      pick(m.InvalidEmail, base.InvalidEmail),
		PasswordTooShort:  pick(m.PasswordTooShort, base.PasswordTooShort),
		AgeTooLow:         pick(m.AgeTooLow, base.AgeTooLow),
		AgeTooHigh:        pick(m.AgeTooHigh, base.AgeTooHigh),
		GenderRequired:    pick(m.GenderRequired, base.GenderRequired),
		GenderUnknown:     pick(m.GenderUnknown, base.GenderUnknown),
		InterestsRequired: pick(m.InterestsRequired, base.InterestsRequired),
		InterestUnknown:   pick(m.InterestUnknown, base.InterestUnknown),
		CountryRequired:   pick(m.CountryRequired, base.CountryRequired),
		CountryUnknown:    pick(m.CountryUnknown, base.CountryUnknown),
		TermsRequired:     pick(m.TermsRequired, base.TermsRequired),
		BioRequired:       pick(m.BioRequired, base.BioRequired),
		BioTooShort:       pick(m.BioTooShort, base.BioTooShort),
		HobbiesRequired:   pick(m.HobbiesRequired, base.HobbiesRequired),
		HobbyNameRequired: pick(m.HobbyNameRequired, base.HobbyNameRequired),
		HobbyLevelInvalid: pick(m.HobbyLevelInvalid, base.HobbyLevelInvalid),
	}
}
