package orchestrator

import (
	"github.com/goliatone/go-regforms/pkg/model"
	"github.com/goliatone/go-regforms/pkg/registration"
)

// Metadata keys describing the behaviour of a registration variant.
const (
	MetadataValidationMode = "validation-mode"
	MetadataSubmitGate     = "submit-gate"
	MetadataHobbies        = "hobbies"
)

// VariantDecorator stamps the validation mode and submit gate of the matching
// registration variant onto the form metadata, so renderers follow the Go
// rules even when the document omits them. Unknown forms are left alone.
func VariantDecorator() model.Decorator {
	return model.DecoratorFunc(func(form *model.FormModel) error {
		if form == nil {
			return nil
		}
		variant, err := registration.Lookup(form.OperationID)
		if err != nil {
			return nil
		}
		if form.Metadata == nil {
			form.Metadata = make(map[string]string, 3)
		}
		form.Metadata[MetadataValidationMode] = string(variant.Mode)
		form.Metadata[MetadataSubmitGate] = string(variant.Gate)
		if variant.Hobbies {
			form.Metadata[MetadataHobbies] = "true"
		}
		if form.Title == "" {
			form.Title = variant.Title
		}
		if form.Description == "" {
			form.Description = variant.Description
		}
		return nil
	})
}
