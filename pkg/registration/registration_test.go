package registration

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestVariantDefaults(t *testing.T) {
	one := FormOne().Defaults()
	wantOne := Draft{
		Gender:        GenderMale,
		Interests:     []string{},
		Country:       CountryRussia,
		Subscribe:     true,
		FavoriteColor: "#000000",
	}
	if diff := cmp.Diff(wantOne, one); diff != "" {
		t.Fatalf("form-one defaults mismatch (-want +got):\n%s", diff)
	}

	two := FormTwo().Defaults()
	wantTwo := Draft{
		Gender:        GenderMale,
		Interests:     []string{},
		Country:       CountryRussia,
		Subscribe:     true,
		FavoriteColor: "#000000",
		Hobbies:       []Hobby{{Name: "", Level: LevelBeginner}},
	}
	if diff := cmp.Diff(wantTwo, two); diff != "" {
		t.Fatalf("form-two defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestVariantDefaultsAreFreshCopies(t *testing.T) {
	variant := FormTwo()
	first := variant.Defaults()
	first.Hobbies[0].Name = "mutated"
	first.Interests = append(first.Interests, InterestMusic)
	if second := variant.Defaults(); second.Hobbies[0].Name != "" || len(second.Interests) != 0 {
		t.Fatalf("defaults shared state: %#v", second)
	}
}

func TestLookup(t *testing.T) {
	variant, err := Lookup(" form-two ")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if variant.ID != FormTwoID || !variant.Hobbies {
		t.Fatalf("unexpected variant %#v", variant)
	}
	if _, err := Lookup("form-three"); err == nil {
		t.Fatalf("expected error for unknown form")
	}
}

func TestDraftCloneIsDeep(t *testing.T) {
	age := 30
	draft := Draft{Age: &age, Interests: []string{InterestSports}, Hobbies: []Hobby{{Name: "chess"}}}
	clone := draft.Clone()
	*clone.Age = 40
	clone.Interests[0] = InterestTravel
	clone.Hobbies[0].Name = "go"
	if *draft.Age != 30 || draft.Interests[0] != InterestSports || draft.Hobbies[0].Name != "chess" {
		t.Fatalf("clone aliases original: %#v", draft)
	}
	if draft.Equal(clone) {
		t.Fatalf("expected drafts to differ")
	}
	if !draft.Equal(draft.Clone()) {
		t.Fatalf("expected clone to equal original")
	}
}

func TestDraftEqualTreatsAgeByValue(t *testing.T) {
	a, b := 20, 20
	if !(Draft{Age: &a}).Equal(Draft{Age: &b}) {
		t.Fatalf("expected equal ages to compare equal")
	}
	if (Draft{Age: &a}).Equal(Draft{}) {
		t.Fatalf("expected absent age to differ from present age")
	}
}

func TestDraftJSONKeys(t *testing.T) {
	raw, err := json.Marshal(FormOne().Defaults().Redacted())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"firstName", "lastName", "email", "password", "age", "gender", "interests", "country", "newsletter", "terms", "bio", "color", "date"} {
		if _, ok := got[key]; !ok {
			t.Fatalf("expected key %q in %s", key, raw)
		}
	}
	if _, ok := got["hobbies"]; ok {
		t.Fatalf("expected hobbies omitted for form-one, got %s", raw)
	}
}

func TestRedacted(t *testing.T) {
	draft := Draft{Password: "secret"}
	if got := draft.Redacted().Password; got != "[redacted]" {
		t.Fatalf("expected redacted password, got %q", got)
	}
	if draft.Password != "secret" {
		t.Fatalf("redaction mutated original")
	}
}

func TestOptionSets(t *testing.T) {
	if diff := cmp.Diff([]string{"ru", "us", "de", "fr", "jp"}, Values(Countries())); diff != "" {
		t.Fatalf("countries mismatch (-want +got):\n%s", diff)
	}
	if !IsHobbyLevel(LevelExpert) || IsHobbyLevel("") {
		t.Fatalf("unexpected hobby level membership")
	}
	options := Interests()
	options[0].Label = "changed"
	if Interests()[0].Label != "Sports" {
		t.Fatalf("option slices must be copies")
	}
}
