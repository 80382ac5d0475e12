package model

import (
	"context"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-regforms/internal/openapi/parser"
	pkgopenapi "github.com/goliatone/go-regforms/pkg/openapi"
	"github.com/goliatone/go-regforms/pkg/registration"
	"github.com/goliatone/go-regforms/pkg/validation"
)

func buildRegistration(t *testing.T, id string) FormModel {
	t.Helper()
	ops, err := parser.New(pkgopenapi.NewParserOptions()).Operations(context.Background(), pkgopenapi.RegistrationDocument())
	if err != nil {
		t.Fatalf("operations: %v", err)
	}
	op, ok := ops[id]
	if !ok {
		t.Fatalf("operation %q missing", id)
	}
	form, err := New(Options{}).Build(op)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return form
}

func fieldNames(fields []Field) []string {
	names := make([]string, 0, len(fields))
	for _, field := range fields {
		names = append(names, field.Name)
	}
	return names
}

func TestBuild_FieldOrderFollowsDocument(t *testing.T) {
	one := buildRegistration(t, registration.FormOneID)
	want := []string{"firstName", "lastName", "email", "password", "age", "date", "color", "gender", "interests", "country", "bio", "newsletter", "terms"}
	if diff := cmp.Diff(want, fieldNames(one.Fields)); diff != "" {
		t.Fatalf("form-one order mismatch (-want +got):\n%s", diff)
	}

	two := buildRegistration(t, registration.FormTwoID)
	want = []string{"firstName", "lastName", "email", "password", "age", "date", "color", "gender", "interests", "country", "bio", "hobbies", "newsletter", "terms"}
	if diff := cmp.Diff(want, fieldNames(two.Fields)); diff != "" {
		t.Fatalf("form-two order mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_SectionsAndWidgets(t *testing.T) {
	two := buildRegistration(t, registration.FormTwoID)
	var ids []string
	for _, section := range two.Sections {
		ids = append(ids, section.ID)
	}
	if diff := cmp.Diff([]string{"basic", "additional", "gender", "interests", "about", "hobbies", "consent"}, ids); diff != "" {
		t.Fatalf("sections mismatch (-want +got):\n%s", diff)
	}

	widgets := map[string]string{
		"email": WidgetEmail, "password": WidgetPassword, "age": WidgetNumber,
		"gender": WidgetRadio, "interests": WidgetCheckboxGroup, "country": WidgetSelect,
		"bio": WidgetTextarea, "hobbies": WidgetArray, "terms": WidgetCheckbox, "color": WidgetColor,
	}
	for name, widget := range widgets {
		field, ok := two.Field(name)
		if !ok {
			t.Fatalf("field %q missing", name)
		}
		if field.Widget != widget {
			t.Fatalf("field %q: expected widget %q, got %q", name, widget, field.Widget)
		}
	}

	hobbies, _ := two.Field("hobbies")
	if hobbies.Items == nil || diffNames(hobbies.Items.Nested) != "name,level" {
		t.Fatalf("unexpected hobby item %#v", hobbies.Items)
	}
	if hobbies.Metadata["add-label"] != "Add hobby" {
		t.Fatalf("expected add-label metadata, got %#v", hobbies.Metadata)
	}
}

func diffNames(fields []Field) string {
	out := ""
	for i, field := range fields {
		if i > 0 {
			out += ","
		}
		out += field.Name
	}
	return out
}

func TestBuild_OptionsMatchRegistration(t *testing.T) {
	form := buildRegistration(t, registration.FormOneID)
	checks := map[string][]registration.Option{
		"gender":    registration.Genders(),
		"interests": registration.Interests(),
		"country":   registration.Countries(),
	}
	for name, want := range checks {
		field, _ := form.Field(name)
		got := make([]registration.Option, 0, len(field.Options))
		for _, option := range field.Options {
			got = append(got, registration.Option{Value: option.Value, Label: option.Label})
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("%s options mismatch (-want +got):\n%s", name, diff)
		}
	}

	two := buildRegistration(t, registration.FormTwoID)
	hobbies, _ := two.Field("hobbies")
	level := hobbies.Items.Nested[1]
	got := make([]string, 0, len(level.Options))
	for _, option := range level.Options {
		got = append(got, option.Value)
	}
	if diff := cmp.Diff(registration.Values(registration.HobbyLevels()), got); diff != "" {
		t.Fatalf("hobby levels mismatch (-want +got):\n%s", diff)
	}
}

// The document constraints must agree with the Go predicate set.
func TestBuild_ConstraintsMatchValidationRules(t *testing.T) {
	for _, variant := range registration.Variants() {
		t.Run(variant.ID, func(t *testing.T) {
			form := buildRegistration(t, variant.ID)
			rules := validation.RulesFor(variant)

			ruleValue := func(field, kind string) string {
				f, ok := form.Field(field)
				if !ok {
					t.Fatalf("field %q missing", field)
				}
				rule, ok := f.Rule(kind)
				if !ok {
					return ""
				}
				if kind == ValidationRulePattern {
					return rule.Params["pattern"] + "/" + rule.Params["flags"]
				}
				return rule.Params["value"]
			}

			expect := map[[2]string]string{
				{"email", ValidationRulePattern}:      validation.EmailPattern + "/i",
				{"password", ValidationRuleMinLength}: strconv.Itoa(validation.MinPasswordLength),
				{"age", ValidationRuleMin}:            strconv.Itoa(validation.MinAge),
				{"bio", ValidationRuleMinLength}:      strconv.Itoa(validation.MinBioLength),
				{"interests", ValidationRuleMinItems}: "1",
				{"firstName", ValidationRuleMinLength}: "1",
				{"lastName", ValidationRuleMinLength}:  "1",
			}
			if rules.MaxAge > 0 {
				expect[[2]string{"age", ValidationRuleMax}] = strconv.Itoa(rules.MaxAge)
			} else {
				expect[[2]string{"age", ValidationRuleMax}] = ""
			}
			if rules.RequireHobbies {
				expect[[2]string{"hobbies", ValidationRuleMinItems}] = "1"
			}
			for key, want := range expect {
				if got := ruleValue(key[0], key[1]); got != want {
					t.Fatalf("%s %s: expected %q, got %q", key[0], key[1], want, got)
				}
			}

			terms, _ := form.Field("terms")
			if _, ok := terms.Rule(ValidationRuleAccepted); !ok {
				t.Fatalf("terms must require acceptance")
			}

			required := map[string]bool{}
			for _, field := range form.Fields {
				if field.Required {
					required[field.Name] = true
				}
			}
			wantRequired := map[string]bool{
				"firstName": true, "lastName": true, "email": true, "password": true, "age": true,
				"gender": true, "interests": true, "country": true, "bio": true, "terms": true,
			}
			if rules.RequireHobbies {
				wantRequired["hobbies"] = true
			}
			if diff := cmp.Diff(wantRequired, required); diff != "" {
				t.Fatalf("required mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuild_DefaultsMatchVariant(t *testing.T) {
	for _, variant := range registration.Variants() {
		form := buildRegistration(t, variant.ID)
		defaults := variant.Defaults()
		checks := map[string]any{
			"gender":     defaults.Gender,
			"country":    defaults.Country,
			"newsletter": defaults.Subscribe,
		}
		if defaults.FavoriteColor != "" {
			checks["color"] = defaults.FavoriteColor
		}
		for name, want := range checks {
			field, _ := form.Field(name)
			if field.Default != want {
				t.Fatalf("%s %s: expected default %v, got %v", variant.ID, name, want, field.Default)
			}
		}
	}
}

func TestBuild_RejectsInvalidOperation(t *testing.T) {
	b := New(Options{})
	if _, err := b.Build(pkgopenapi.Operation{}); err != errOperationIDMissing {
		t.Fatalf("expected missing id error, got %v", err)
	}
	op := pkgopenapi.MustNewOperation("x", "POST", "/x", pkgopenapi.Schema{
		Type:       "object",
		Properties: map[string]pkgopenapi.Schema{"tags": {Type: "array"}},
	})
	if _, err := b.Build(op); err == nil {
		t.Fatalf("expected error for array without items")
	}
}

func TestBuild_UnorderedPropertiesSortedAfterOrdered(t *testing.T) {
	op := pkgopenapi.MustNewOperation("x", "post", "/x", pkgopenapi.Schema{
		Type: "object",
		Properties: map[string]pkgopenapi.Schema{
			"zeta":  {Type: "string"},
			"alpha": {Type: "string"},
			"mid":   {Type: "boolean"},
		},
		Extensions: map[string]any{"x-formgen": map[string]any{"order": []any{"mid"}}},
	})
	form, err := New(Options{}).Build(op)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if diff := cmp.Diff([]string{"mid", "alpha", "zeta"}, fieldNames(form.Fields)); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	if form.Method != "POST" || form.Fields[0].Widget != WidgetCheckbox || form.Fields[1].Label != "Alpha" {
		t.Fatalf("unexpected form %#v", form)
	}
}

func TestDefaultLabeler(t *testing.T) {
	tests := map[string]string{
		"firstName":  "First name",
		"birth_date": "Birth date",
		"bio":        "Bio",
		"":           "",
	}
	for in, want := range tests {
		if got := DefaultLabeler(in); got != want {
			t.Fatalf("DefaultLabeler(%q) = %q, want %q", in, got, want)
		}
	}
}
