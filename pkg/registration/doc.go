// Package registration defines the registration draft shared by both form
// variants, the closed value sets its enum fields draw from, and the variant
// descriptors (form-one, form-two) that carry per-form defaults and behaviour
// flags. The JSON encoding of Draft uses the field keys rendered by the live
// preview (firstName, lastName, newsletter, terms, color, date, ...).
package registration
