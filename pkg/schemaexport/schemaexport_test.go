package schemaexport_test

import (
	"encoding/json"
	"regexp"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/invopop/jsonschema"

	"github.com/goliatone/go-regforms/pkg/registration"
	"github.com/goliatone/go-regforms/pkg/schemaexport"
)

func TestSchema_FormOne(t *testing.T) {
	schema, err := schemaexport.For(registration.FormOneID)
	if err != nil {
		t.Fatalf("schema: %v", err)
	}

	if schema.Type != "object" {
		t.Fatalf("expected object root, got %q", schema.Type)
	}
	if schema.ID != jsonschema.ID(schemaexport.DefaultBaseID+"form-one.schema.json") {
		t.Fatalf("unexpected id %q", schema.ID)
	}
	if schema.Title != registration.FormOne().Title {
		t.Fatalf("unexpected title %q", schema.Title)
	}

	age := mustProperty(t, schema, "age")
	if age.Minimum != "18" || age.Maximum != "100" {
		t.Fatalf("unexpected age bounds: min=%q max=%q", age.Minimum, age.Maximum)
	}

	if _, ok := schema.Properties.Get("hobbies"); ok {
		t.Fatalf("form-one must not expose hobbies")
	}
	if slices.Contains(schema.Required, "hobbies") {
		t.Fatalf("form-one must not require hobbies")
	}
	for _, name := range []string{"firstName", "email", "password", "terms"} {
		if !slices.Contains(schema.Required, name) {
			t.Fatalf("expected %s to be required, got %v", name, schema.Required)
		}
	}

	gender := mustProperty(t, schema, "gender")
	if diff := cmp.Diff([]any{"male", "female", "other"}, gender.Enum); diff != "" {
		t.Fatalf("gender enum mismatch (-want +got):\n%s", diff)
	}
	if gender.Default != "male" {
		t.Fatalf("unexpected gender default %v", gender.Default)
	}

	password := mustProperty(t, schema, "password")
	if password.MinLength == nil || *password.MinLength != 6 {
		t.Fatalf("unexpected password min length %v", password.MinLength)
	}

	color := mustProperty(t, schema, "color")
	if color.Default != "#000000" {
		t.Fatalf("unexpected color default %v", color.Default)
	}
}

func TestSchema_FormTwo(t *testing.T) {
	schema, err := schemaexport.For(registration.FormTwoID)
	if err != nil {
		t.Fatalf("schema: %v", err)
	}

	age := mustProperty(t, schema, "age")
	if age.Maximum != "" {
		t.Fatalf("form-two age must be unbounded above, got %q", age.Maximum)
	}

	hobbies := mustProperty(t, schema, "hobbies")
	if hobbies.MinItems == nil || *hobbies.MinItems != 1 {
		t.Fatalf("unexpected hobbies min items %v", hobbies.MinItems)
	}
	if !slices.Contains(schema.Required, "hobbies") {
		t.Fatalf("form-two must require hobbies")
	}
	if hobbies.Items == nil {
		t.Fatalf("hobbies items missing")
	}
	level, ok := hobbies.Items.Properties.Get("level")
	if !ok {
		t.Fatalf("hobby level missing")
	}
	if diff := cmp.Diff([]any{"beginner", "intermediate", "advanced", "expert"}, level.Enum); diff != "" {
		t.Fatalf("level enum mismatch (-want +got):\n%s", diff)
	}
	name, ok := hobbies.Items.Properties.Get("name")
	if !ok || name.MinLength == nil || *name.MinLength != 1 {
		t.Fatalf("hobby name must be non-empty")
	}
}

func TestSchema_EmailPatternAgreesWithRules(t *testing.T) {
	schema, err := schemaexport.For(registration.FormOneID)
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	pattern := regexp.MustCompile(mustProperty(t, schema, "email").Pattern)

	cases := map[string]bool{
		"a@b.co":        true,
		"Jane@Mail.COM": true,
		"a@b":           false,
		"plain":         false,
	}
	for input, want := range cases {
		if got := pattern.MatchString(input); got != want {
			t.Fatalf("pattern match %q: want %v, got %v", input, want, got)
		}
	}
}

func TestExporter_JSON(t *testing.T) {
	exporter := schemaexport.New(schemaexport.WithBaseID(""))

	data, err := exporter.JSON(registration.FormTwoID)
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := doc["$id"]; ok {
		t.Fatalf("expected $id to be omitted, got %v", doc["$id"])
	}
	props, ok := doc["properties"].(map[string]any)
	if !ok {
		t.Fatalf("properties missing: %v", doc)
	}
	if _, ok := props["hobbies"]; !ok {
		t.Fatalf("hobbies missing from form-two schema")
	}

	if _, err := exporter.JSON("contact"); err == nil {
		t.Fatalf("expected error for unknown form")
	}
}

func mustProperty(t *testing.T, schema *jsonschema.Schema, name string) *jsonschema.Schema {
	t.Helper()
	prop, ok := schema.Properties.Get(name)
	if !ok || prop == nil {
		t.Fatalf("property %q missing", name)
	}
	return prop
}
