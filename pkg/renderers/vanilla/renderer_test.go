package vanilla_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-regforms/pkg/form"
	"github.com/goliatone/go-regforms/pkg/registration"
	"github.com/goliatone/go-regforms/pkg/render"
	"github.com/goliatone/go-regforms/pkg/renderers/vanilla"
	"github.com/goliatone/go-regforms/pkg/testsupport"
	"github.com/goliatone/go-regforms/pkg/themes"
	"github.com/goliatone/go-regforms/pkg/validation"
)

func renderInstance(t *testing.T, f *form.Form, mutate func(*render.RenderOptions)) string {
	t.Helper()

	renderer, err := vanilla.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	model := testsupport.RegistrationForm(t, f.Variant().ID)
	preview, err := f.Preview()
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	options := render.RenderOptions{
		Values:    f.Values(),
		Errors:    render.MapViolations(model, f.VisibleViolations()).Fields,
		Preview:   string(preview),
		CanSubmit: f.CanSubmit(),
		Submitted: f.Submitted(),
		Pristine:  f.Pristine(),
	}
	if mutate != nil {
		mutate(&options)
	}
	out, err := renderer.Render(testsupport.Context(), model, options)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out)
}

func assertContains(t *testing.T, html string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if !strings.Contains(html, fragment) {
			t.Fatalf("expected output to contain %q\n%s", fragment, html)
		}
	}
}

func assertNotContains(t *testing.T, html string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if strings.Contains(html, fragment) {
			t.Fatalf("expected output to omit %q", fragment)
		}
	}
}

func TestRenderer_FormOneDefaults(t *testing.T) {
	f := form.New(registration.FormOne())
	html := renderInstance(t, f, nil)

	assertContains(t, html,
		`data-form="form-one"`,
		`action="/forms/form-one"`,
		`data-validation-mode="onChange"`,
		`id="rf-section-basic"`,
		`name="firstName"`,
		`type="email" id="rf-email" name="email"`,
		`type="password" id="rf-password"`,
		`min="18"`,
		`max="100"`,
		`value="#000000"`,
		`id="rf-gender-male" name="gender" value="male" checked`,
		`<option value="ru" selected>`,
		`id="rf-newsletter" name="newsletter" value="on" checked`,
		`value="submit" disabled`,
		`<pre class="rf-preview" id="rf-preview">`,
	)
	assertNotContains(t, html, `rf-error`, `rf-banner`, `name="hobbies.0.name"`)
}

func TestRenderer_InlineErrorsForDirtyFields(t *testing.T) {
	f := form.New(registration.FormOne())
	if err := f.Set("email", "a@b"); err != nil {
		t.Fatalf("set: %v", err)
	}
	html := renderInstance(t, f, nil)

	msg := validation.DefaultMessages()
	assertContains(t, html,
		`rf-field rf-field--invalid" data-field="email"`,
		`aria-invalid="true" aria-describedby="rf-email-error"`,
		`<p class="rf-error" id="rf-email-error">`+msg.InvalidEmail+`</p>`,
	)
	assertNotContains(t, html, `id="rf-firstName-error"`)
}

func TestRenderer_FormTwoHobbyControls(t *testing.T) {
	f := form.New(registration.FormTwo())
	html := renderInstance(t, f, nil)

	assertContains(t, html,
		`data-validation-mode="onTouched"`,
		`name="hobbies.0.name"`,
		`name="hobbies.0.level"`,
		`<option value="beginner" selected>`,
		`formaction="/forms/form-two?_index=0" disabled`,
		`value="add-hobby"`,
		`value="reset" disabled`,
	)

	if err := f.AppendHobby(); err != nil {
		t.Fatalf("append: %v", err)
	}
	html = renderInstance(t, f, nil)
	assertContains(t, html,
		`name="hobbies.1.name"`,
		`formaction="/forms/form-two?_index=1">Remove`,
	)
	assertNotContains(t, html, `formaction="/forms/form-two?_index=0" disabled`, `value="submit" disabled`)
}

func TestRenderer_IndexedHobbyErrors(t *testing.T) {
	f := form.New(registration.FormTwo())
	if err := f.AppendHobby(); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := f.Set("hobbies.0.name", "chess"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, err := f.Submit(context.Background()); err == nil {
		t.Fatalf("expected rejected submit")
	}
	html := renderInstance(t, f, nil)

	assertContains(t, html, `id="rf-hobbies-1-name-error"`)
	assertNotContains(t, html, `id="rf-hobbies-0-name-error"`)
}

func TestRenderer_SubmittedBanner(t *testing.T) {
	f := form.New(registration.FormOne())
	html := renderInstance(t, f, func(opts *render.RenderOptions) {
		opts.Submitted = true
		opts.CanSubmit = true
	})
	assertContains(t, html, `class="rf-banner" role="status"`, `value="submit" disabled`)
}

func TestRenderer_ThemeConfig(t *testing.T) {
	selector, err := themes.NewSelector("")
	if err != nil {
		t.Fatalf("selector: %v", err)
	}
	selection, err := selector.Select("", registration.FormOneID)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	cfg := themes.RendererConfig(selection, vanilla.DefaultPartials())

	html := renderInstance(t, form.New(registration.FormOne()), func(opts *render.RenderOptions) {
		opts.Theme = cfg
	})
	assertContains(t, html,
		`<link rel="stylesheet" href="/assets/regforms/regforms.css">`,
		`data-theme="regforms"`,
		`data-theme-variant="form-one"`,
		`--brand: #ec5990`,
	)
}

func TestRenderer_HiddenFieldsAndMethodOverride(t *testing.T) {
	html := renderInstance(t, form.New(registration.FormOne()), func(opts *render.RenderOptions) {
		opts.Method = "PUT"
		opts.Action = "/custom"
		opts.HiddenFields = map[string]string{"_form": "form-one"}
		opts.FormErrors = []string{"Try again later"}
	})
	assertContains(t, html,
		`method="post" action="/custom"`,
		`<input type="hidden" name="_form" value="form-one">`,
		`<input type="hidden" name="_method" value="PUT">`,
		`<li>Try again later</li>`,
	)
}

func TestRenderer_EscapesValues(t *testing.T) {
	f := form.New(registration.FormOne())
	if err := f.Set("email", `"><script>`); err != nil {
		t.Fatalf("set: %v", err)
	}
	html := renderInstance(t, f, nil)
	assertNotContains(t, html, `"><script>`)
}

func TestRenderer_RenderIndex(t *testing.T) {
	renderer, err := vanilla.New(vanilla.WithIndexTitle("Forms"), vanilla.WithStylesheet("/static/site.css"))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := renderer.RenderIndex(testsupport.Context(), []vanilla.IndexEntry{
		{ID: "form-one", Title: "Form one", URL: "/forms/form-one"},
		{ID: "form-two", Title: "Form two", Description: "With hobbies", URL: "/forms/form-two"},
	}, nil)
	if err != nil {
		t.Fatalf("render index: %v", err)
	}
	assertContains(t, string(out),
		`<h1>Forms</h1>`,
		`href="/static/site.css"`,
		`<a href="/forms/form-one">Form one</a>`,
		`<span>With hobbies</span>`,
	)
}

func TestRenderer_TemplatesDirShadowsBundle(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "templates"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "templates", "index.tmpl"), []byte(`<p>custom {{ title }}</p>`), 0o600); err != nil {
		t.Fatalf("write template: %v", err)
	}

	renderer, err := vanilla.New(vanilla.WithTemplatesDir(dir))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := renderer.RenderIndex(testsupport.Context(), nil, nil)
	if err != nil {
		t.Fatalf("render index: %v", err)
	}
	if string(out) != "<p>custom Registration forms</p>" {
		t.Fatalf("expected the shadowing index template, got %q", out)
	}

	page, err := renderer.Render(testsupport.Context(), testsupport.RegistrationForm(t, registration.FormOneID), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	assertContains(t, string(page), `data-form="form-one"`)

	if _, err := vanilla.New(vanilla.WithTemplatesDir(filepath.Join(dir, "missing"))); err == nil {
		t.Fatalf("expected an error for a missing templates dir")
	}
}

func TestRenderer_WithTemplateRenderer(t *testing.T) {
	stub := &stubTemplateRenderer{
		renderTemplateFunc: func(name string, _ any, _ ...io.Writer) (string, error) {
			if name == "templates/form.tmpl" {
				return "custom-output", nil
			}
			return "<field />", nil
		},
	}

	renderer, err := vanilla.New(vanilla.WithTemplateRenderer(stub))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := renderer.Render(testsupport.Context(), testsupport.RegistrationForm(t, registration.FormOneID), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(out) != "custom-output" {
		t.Fatalf("unexpected output %q", out)
	}
	if stub.calls < 2 {
		t.Fatalf("expected field partials to be rendered, got %d calls", stub.calls)
	}
}

func TestRenderer_PropagatesTemplateErrors(t *testing.T) {
	boom := errors.New("boom")
	stub := &stubTemplateRenderer{
		renderTemplateFunc: func(string, any, ...io.Writer) (string, error) {
			return "", boom
		},
	}
	renderer, err := vanilla.New(vanilla.WithTemplateRenderer(stub))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	_, err = renderer.Render(testsupport.Context(), testsupport.RegistrationForm(t, registration.FormOneID), render.RenderOptions{})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped template error, got %v", err)
	}
}

func TestRenderer_CanceledContext(t *testing.T) {
	renderer, err := vanilla.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := renderer.Render(ctx, testsupport.RegistrationForm(t, registration.FormOneID), render.RenderOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

type stubTemplateRenderer struct {
	calls              int
	renderTemplateFunc func(name string, data any, out ...io.Writer) (string, error)
}

func (s *stubTemplateRenderer) Render(name string, data any, out ...io.Writer) (string, error) {
	return s.RenderTemplate(name, data, out...)
}

func (s *stubTemplateRenderer) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	s.calls++
	if s.renderTemplateFunc != nil {
		return s.renderTemplateFunc(name, data, out...)
	}
	return "", nil
}

func (s *stubTemplateRenderer) RenderString(string, any, ...io.Writer) (string, error) {
	return "", nil
}

func (s *stubTemplateRenderer) RegisterFilter(string, func(input any, param any) (any, error)) error {
	return nil
}

func (s *stubTemplateRenderer) GlobalContext(any) error {
	return nil
}
