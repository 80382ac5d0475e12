package registration

import (
	"fmt"
	"strings"
)

// Variant identifiers.
const (
	FormOneID = "form-one"
	FormTwoID = "form-two"
)

// ValidationMode controls when violations become visible to the user.
type ValidationMode string

const (
	// ValidationModeOnChange reveals a field's violation once its value changed.
	ValidationModeOnChange ValidationMode = "onChange"
	// ValidationModeOnTouched reveals a field's violation once it was visited.
	ValidationModeOnTouched ValidationMode = "onTouched"
)

// SubmitGate controls when the submit action is offered.
type SubmitGate string

const (
	// SubmitGateValid offers submit only while the draft is valid.
	SubmitGateValid SubmitGate = "valid"
	// SubmitGateDirty offers submit once the draft differs from its defaults.
	SubmitGateDirty SubmitGate = "dirty"
)

// Variant describes one registration form.
type Variant struct {
	ID          string
	Title       string
	Description string
	// MaxAge bounds the age field; zero leaves it unbounded.
	MaxAge  int
	Hobbies bool
	Mode    ValidationMode
	Gate    SubmitGate

	defaults func() Draft
}

// Defaults returns a fresh copy of the variant's default record.
func (v Variant) Defaults() Draft {
	if v.defaults == nil {
		return Draft{}
	}
	return v.defaults()
}

// FormOne validates on change, enforces an upper age bound and only offers
// submit while the draft is valid.
func FormOne() Variant {
	return Variant{
		ID:          FormOneID,
		Title:       "Registration (validate on change)",
		Description: "Field-level rules, errors shown as you type, submit enabled only when valid.",
		MaxAge:      100,
		Mode:        ValidationModeOnChange,
		Gate:        SubmitGateValid,
		defaults: func() Draft {
			return Draft{
				Gender:        GenderMale,
				Interests:     []string{},
				Country:       CountryRussia,
				Subscribe:     true,
				FavoriteColor: "#000000",
			}
		},
	}
}

// FormTwo validates the whole record, shows errors for touched fields and
// carries the hobbies array.
func FormTwo() Variant {
	return Variant{
		ID:          FormTwoID,
		Title:       "Registration with hobbies (validate touched)",
		Description: "Record-level validation, errors shown after a field is visited, dynamic hobbies list.",
		Hobbies:     true,
		Mode:        ValidationModeOnTouched,
		Gate:        SubmitGateDirty,
		defaults: func() Draft {
			return Draft{
				Gender:        GenderMale,
				Interests:     []string{},
				Country:       CountryRussia,
				Subscribe:     true,
				FavoriteColor: "#000000",
				Hobbies:       []Hobby{NewHobby()},
			}
		},
	}
}

// Variants lists every registration form in display order.
func Variants() []Variant {
	return []Variant{FormOne(), FormTwo()}
}

// Lookup resolves a variant by id.
func Lookup(id string) (Variant, error) {
	id = strings.TrimSpace(id)
	for _, variant := range Variants() {
		if variant.ID == id {
			return variant, nil
		}
	}
	return Variant{}, fmt.Errorf("registration: unknown form %q", id)
}
