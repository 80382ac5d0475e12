package form

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-regforms/pkg/registration"
	"github.com/goliatone/go-regforms/pkg/validation"
)

func fillValid(t *testing.T, f *Form) {
	t.Helper()
	err := f.Apply(map[string]any{
		"firstName": "Ada",
		"lastName":  "Lovelace",
		"email":     "ada@example.com",
		"password":  "analytical",
		"age":       "36",
		"gender":    "female",
		"interests": []string{"music", "reading"},
		"country":   "fr",
		"terms":     "on",
		"bio":       "Wrote the first published program.",
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if f.Variant().Hobbies {
		if err := f.Set("hobbies.0.name", "chess"); err != nil {
			t.Fatalf("set hobby: %v", err)
		}
	}
}

type recordingSubmitter struct {
	calls  int
	drafts []registration.Draft
	err    error
}

func (r *recordingSubmitter) Submit(_ context.Context, _ registration.Variant, draft registration.Draft) error {
	r.calls++
	r.drafts = append(r.drafts, draft)
	return r.err
}

func TestNew_SeedsDefaults(t *testing.T) {
	f := New(registration.FormTwo())
	if diff := cmp.Diff(registration.FormTwo().Defaults(), f.Draft()); diff != "" {
		t.Fatalf("draft mismatch (-want +got):\n%s", diff)
	}
	if f.Status() != StatusEditing || !f.Pristine() || f.Attempted() {
		t.Fatalf("unexpected initial state: status=%s pristine=%v attempted=%v", f.Status(), f.Pristine(), f.Attempted())
	}
}

func TestSet_CoercesFormValues(t *testing.T) {
	f := New(registration.FormOne())
	if err := f.Set("age", "18"); err != nil {
		t.Fatalf("set age: %v", err)
	}
	if err := f.Set("terms", "on"); err != nil {
		t.Fatalf("set terms: %v", err)
	}
	if err := f.Set("newsletter", []string{"false"}); err != nil {
		t.Fatalf("set newsletter: %v", err)
	}
	if err := f.Set("interests", []any{"music", "sports", "music"}); err != nil {
		t.Fatalf("set interests: %v", err)
	}
	if err := f.Set("age", float64(21)); err != nil {
		t.Fatalf("set age float: %v", err)
	}

	draft := f.Draft()
	if draft.Age == nil || *draft.Age != 21 {
		t.Fatalf("expected age 21, got %v", draft.Age)
	}
	if !draft.AcceptedTerms || draft.Subscribe {
		t.Fatalf("unexpected flags %+v", draft)
	}
	if diff := cmp.Diff([]string{"music", "sports"}, draft.Interests); diff != "" {
		t.Fatalf("interests mismatch (-want +got):\n%s", diff)
	}

	if err := f.Set("age", ""); err != nil {
		t.Fatalf("clear age: %v", err)
	}
	if f.Draft().Age != nil {
		t.Fatalf("expected empty string to clear age")
	}
}

func TestSet_Errors(t *testing.T) {
	f := New(registration.FormOne())
	if err := f.Set("nickname", "x"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if err := f.Set("age", "eighteen"); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}
	if err := f.Set("terms", "maybe"); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}
	if err := f.Set("hobbies.0.name", "chess"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField for form-one hobbies, got %v", err)
	}
	if err := f.Set("firstName", 42); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}
}

func TestApply_JoinsErrors(t *testing.T) {
	f := New(registration.FormOne())
	err := f.Apply(map[string]any{"age": "x", "bogus": "y", "firstName": "Ada"})
	if !errors.Is(err, ErrInvalidValue) || !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected joined errors, got %v", err)
	}
	if f.Draft().Name != "Ada" {
		t.Fatalf("expected valid entries to be applied")
	}
}

func TestSanitizer(t *testing.T) {
	f := New(registration.FormTwo(), WithSanitizer(strings.ToUpper))
	_ = f.Set("bio", "hello")
	_ = f.Set("email", "a@b.co")
	_ = f.Set("hobbies.0.name", "chess")
	draft := f.Draft()
	if draft.Bio != "HELLO" || draft.Email != "a@b.co" || draft.Hobbies[0].Name != "CHESS" {
		t.Fatalf("unexpected sanitised draft %+v", draft)
	}
}

func TestVisibleViolations_FormOneShowsDirtyFields(t *testing.T) {
	f := New(registration.FormOne())
	if got := f.VisibleViolations(); !got.Empty() {
		t.Fatalf("expected nothing visible initially, got %#v", got)
	}
	_ = f.Touch("email")
	if got := f.VisibleViolations(); !got.Empty() {
		t.Fatalf("touch must not reveal form-one violations, got %#v", got)
	}
	_ = f.Set("email", "a@b")
	got := f.VisibleViolations()
	want := validation.Violations{"email": validation.DefaultMessages().InvalidEmail}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("visible mismatch (-want +got):\n%s", diff)
	}
}

func TestVisibleViolations_FormTwoShowsTouchedFields(t *testing.T) {
	f := New(registration.FormTwo())
	if err := f.Touch("firstName"); err != nil {
		t.Fatalf("touch: %v", err)
	}
	if err := f.Touch("hobbies.0.name"); err != nil {
		t.Fatalf("touch hobby: %v", err)
	}
	got := f.VisibleViolations().Paths()
	if diff := cmp.Diff([]string{"firstName", "hobbies.0.name"}, got); diff != "" {
		t.Fatalf("visible mismatch (-want +got):\n%s", diff)
	}
	if err := f.Touch("nope"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestVisibleViolations_AllAfterAttempt(t *testing.T) {
	f := New(registration.FormOne())
	if _, err := f.Submit(context.Background()); err == nil {
		t.Fatalf("expected defaults to be rejected")
	}
	if diff := cmp.Diff(f.Violations(), f.VisibleViolations()); diff != "" {
		t.Fatalf("expected every violation visible (-want +got):\n%s", diff)
	}
}

func TestCanSubmit_FormOneFollowsValidity(t *testing.T) {
	f := New(registration.FormOne())
	if f.CanSubmit() {
		t.Fatalf("defaults must not be submittable")
	}
	fillValid(t, f)
	if !f.CanSubmit() || !f.Valid() {
		t.Fatalf("expected valid draft to be submittable: %#v", f.Violations())
	}
	_ = f.Set("age", "101")
	if f.CanSubmit() {
		t.Fatalf("age 101 must close form-one submit")
	}
}

func TestCanSubmit_FormTwoFollowsPristine(t *testing.T) {
	f := New(registration.FormTwo())
	if f.CanSubmit() {
		t.Fatalf("pristine form-two must not be submittable")
	}
	_ = f.Set("firstName", "Ada")
	if !f.CanSubmit() {
		t.Fatalf("changed form-two must be submittable")
	}
	if f.Valid() {
		t.Fatalf("partial draft must still be invalid")
	}
	_ = f.Set("firstName", "")
	if f.CanSubmit() {
		t.Fatalf("draft equal to defaults is pristine again")
	}
}

func TestSubmit_RejectsInvalidDraft(t *testing.T) {
	sub := &recordingSubmitter{}
	f := New(registration.FormTwo(), WithSubmitter(sub))
	_ = f.Set("firstName", "Ada")
	_, err := f.Submit(context.Background())
	var verr *validation.ValidationError
	if !errors.As(err, &verr) || !errors.Is(err, validation.ErrInvalid) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, ok := verr.Violations["lastName"]; !ok {
		t.Fatalf("expected lastName violation, got %#v", verr.Violations)
	}
	if sub.calls != 0 || f.Status() != StatusEditing {
		t.Fatalf("invalid draft must not be emitted")
	}
}

func TestSubmit_EmitsValidDraft(t *testing.T) {
	for _, variant := range registration.Variants() {
		t.Run(variant.ID, func(t *testing.T) {
			sub := &recordingSubmitter{}
			f := New(variant, WithSubmitter(sub))
			fillValid(t, f)

			got, err := f.Submit(context.Background())
			if err != nil {
				t.Fatalf("submit: %v", err)
			}
			if sub.calls != 1 {
				t.Fatalf("expected one submitter call, got %d", sub.calls)
			}
			if diff := cmp.Diff(f.Draft(), got); diff != "" {
				t.Fatalf("emitted draft mismatch (-want +got):\n%s", diff)
			}
			if !f.Submitted() {
				t.Fatalf("expected submitted status")
			}
			_ = f.Set("bio", "Changed after submitting.")
			if f.Submitted() {
				t.Fatalf("editing must leave the submitted state")
			}
		})
	}
}

func TestSubmit_SubmitterError(t *testing.T) {
	boom := errors.New("boom")
	f := New(registration.FormOne(), WithSubmitter(&recordingSubmitter{err: boom}))
	fillValid(t, f)
	if _, err := f.Submit(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected submitter error, got %v", err)
	}
	if f.Submitted() {
		t.Fatalf("failed submit must not change status")
	}
}

func TestSubmit_CanceledContext(t *testing.T) {
	sub := &recordingSubmitter{}
	f := New(registration.FormOne(), WithSubmitter(sub))
	fillValid(t, f)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := f.Submit(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if sub.calls != 0 {
		t.Fatalf("submitter must not run for canceled context")
	}
}

func TestReset_RestoresDefaults(t *testing.T) {
	for _, variant := range registration.Variants() {
		t.Run(variant.ID, func(t *testing.T) {
			f := New(variant)
			fillValid(t, f)
			if variant.Hobbies {
				_ = f.AppendHobby()
			}
			_, _ = f.Submit(context.Background())
			f.Reset()

			if diff := cmp.Diff(variant.Defaults(), f.Draft()); diff != "" {
				t.Fatalf("reset mismatch (-want +got):\n%s", diff)
			}
			if f.Attempted() || f.Dirty("firstName") || f.Touched("firstName") || f.Status() != StatusEditing {
				t.Fatalf("reset must clear marks")
			}
		})
	}
}

func TestHobbies(t *testing.T) {
	f := New(registration.FormTwo())
	if err := f.RemoveHobby(0); !errors.Is(err, ErrLastHobby) {
		t.Fatalf("expected ErrLastHobby, got %v", err)
	}
	if err := f.AppendHobby(); err != nil {
		t.Fatalf("append: %v", err)
	}
	_ = f.Set("hobbies.0.name", "chess")
	_ = f.Set("hobbies.1.name", "go")
	_ = f.Set("hobbies.1.level", "expert")
	_ = f.Touch("hobbies.1.level")

	if err := f.RemoveHobby(0); err != nil {
		t.Fatalf("remove: %v", err)
	}
	want := []registration.Hobby{{Name: "go", Level: "expert"}}
	if diff := cmp.Diff(want, f.Draft().Hobbies); diff != "" {
		t.Fatalf("hobbies mismatch (-want +got):\n%s", diff)
	}
	if !f.Touched("hobbies.0.level") || f.Touched("hobbies.1.level") {
		t.Fatalf("expected marks to shift down with the entries")
	}
	if err := f.RemoveHobby(3); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}

	one := New(registration.FormOne())
	if err := one.AppendHobby(); !errors.Is(err, ErrNoHobbies) {
		t.Fatalf("expected ErrNoHobbies, got %v", err)
	}
	if err := one.RemoveHobby(0); !errors.Is(err, ErrNoHobbies) {
		t.Fatalf("expected ErrNoHobbies, got %v", err)
	}
}

func TestHobbyViolationsVisibleAfterArrayChange(t *testing.T) {
	f := New(registration.FormTwo())
	_ = f.Touch("hobbies.0.name")
	_ = f.Set("hobbies", []registration.Hobby{})
	got := f.VisibleViolations()
	if got["hobbies"] != validation.DefaultMessages().HobbiesRequired {
		t.Fatalf("expected hobbies violation, got %#v", got)
	}
}

func TestPreview(t *testing.T) {
	f := New(registration.FormOne())
	_ = f.Set("firstName", "Ada")
	raw, err := f.Preview()
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	text := string(raw)
	if !strings.Contains(text, "\n  \"firstName\": \"Ada\",") {
		t.Fatalf("expected two-space indented preview, got:\n%s", text)
	}
	if !strings.Contains(text, `"age": null`) {
		t.Fatalf("expected absent age as null, got:\n%s", text)
	}
}

func TestValues(t *testing.T) {
	f := New(registration.FormTwo())
	_ = f.Set("age", 30)
	values := f.Values()
	if values["age"] != 30 || values["country"] != "ru" {
		t.Fatalf("unexpected values %#v", values)
	}
	hobbies, ok := values["hobbies"].([]any)
	if !ok || len(hobbies) != 1 {
		t.Fatalf("expected one hobby entry, got %#v", values["hobbies"])
	}
	if _, ok := New(registration.FormOne()).Values()["hobbies"]; ok {
		t.Fatalf("form-one must not expose hobbies")
	}
}

func TestSubmitEligibleIffNoViolations(t *testing.T) {
	mutations := []map[string]any{
		{},
		{"email": "a@b"},
		{"password": "abcde"},
		{"age": "17"},
		{"interests": []string{}},
		{"terms": "off"},
		{"bio": "short"},
	}
	for _, mutation := range mutations {
		f := New(registration.FormOne(), WithSubmitter(&recordingSubmitter{}))
		fillValid(t, f)
		if err := f.Apply(mutation); err != nil {
			t.Fatalf("apply %v: %v", mutation, err)
		}
		_, err := f.Submit(context.Background())
		if (err == nil) != f.Violations().Empty() {
			t.Fatalf("mutation %v: submit err=%v violations=%#v", mutation, err, f.Violations())
		}
	}
}

func TestUpdate_MarksOnlyChangedPaths(t *testing.T) {
	f := New(registration.FormOne())

	err := f.Update(map[string]any{
		"firstName":  "Ada",
		"email":      "",
		"gender":     registration.GenderMale,
		"newsletter": "on",
		"interests":  []string{""},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !f.Dirty("firstName") {
		t.Fatalf("expected firstName dirty")
	}
	for _, path := range []string{"email", "gender", "newsletter", "interests"} {
		if f.Dirty(path) || f.Touched(path) {
			t.Fatalf("expected %s to stay clean", path)
		}
	}
	if _, shown := f.VisibleViolations()["email"]; shown {
		t.Fatalf("email violation shown before the field changed")
	}

	if err := f.Update(map[string]any{"firstName": "Ada"}); err != nil {
		t.Fatalf("update again: %v", err)
	}
	if !f.Dirty("firstName") {
		t.Fatalf("existing dirty mark was dropped")
	}

	if err := f.Update(map[string]any{"age": "old", "email": "a@b.co"}); err == nil {
		t.Fatalf("expected coercion error")
	}
	if !f.Dirty("email") {
		t.Fatalf("valid entries should still apply when another entry fails")
	}
}

// browserControls mirrors what a browser posts for an untouched form-two page.
func browserControls() map[string]any {
	return map[string]any{
		"firstName":       []string{""},
		"lastName":        []string{""},
		"email":           []string{""},
		"password":        []string{""},
		"age":             []string{""},
		"gender":          []string{"male"},
		"interests":       []string{""},
		"country":         []string{"ru"},
		"newsletter":      []string{"off", "on"},
		"terms":           []string{"off"},
		"bio":             []string{""},
		"color":           []string{"#000000"},
		"date":            []string{""},
		"hobbies.0.name":  []string{""},
		"hobbies.0.level": []string{"beginner"},
	}
}

func TestUpdate_UntouchedPageStaysPristine(t *testing.T) {
	f := New(registration.FormTwo())
	if err := f.Update(browserControls()); err != nil {
		t.Fatalf("update: %v", err)
	}
	if !f.Pristine() || f.CanSubmit() {
		t.Fatalf("expected a pristine form with submit withheld, pristine=%v canSubmit=%v", f.Pristine(), f.CanSubmit())
	}
	for path := range browserControls() {
		if f.Dirty(path) || f.Touched(path) {
			t.Fatalf("expected %s to stay clean", path)
		}
	}
}

func TestSet_RejectsAliasHobbyPaths(t *testing.T) {
	f := New(registration.FormTwo())
	for _, path := range []string{"hobbies.00.name", "hobbies.+0.name", "hobbies.-0.level"} {
		if err := f.Set(path, "chess"); !errors.Is(err, ErrUnknownField) {
			t.Fatalf("%s: expected ErrUnknownField, got %v", path, err)
		}
	}
	if f.Draft().Hobbies[0].Name != "" || f.Dirty("hobbies.0.name") {
		t.Fatalf("alias paths must not reach the entry")
	}

	if err := f.Set("hobbies.0.name", ""); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got := f.VisibleViolations()["hobbies.0.name"]; got != validation.DefaultMessages().HobbyNameRequired {
		t.Fatalf("expected the hobby name violation, got %q", got)
	}
}

func TestSet_NullHobbiesClearsTheList(t *testing.T) {
	f := New(registration.FormTwo())
	if err := f.Set("hobbies", nil); err != nil {
		t.Fatalf("set: %v", err)
	}
	if hobbies := f.Draft().Hobbies; hobbies == nil || len(hobbies) != 0 {
		t.Fatalf("expected an empty hobby list, got %#v", hobbies)
	}
	if got := f.VisibleViolations()["hobbies"]; got != validation.DefaultMessages().HobbiesRequired {
		t.Fatalf("expected the hobbies violation, got %q", got)
	}
}
