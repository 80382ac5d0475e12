package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-regforms/pkg/form"
	"github.com/goliatone/go-regforms/pkg/model"
	"github.com/goliatone/go-regforms/pkg/registration"
	"github.com/goliatone/go-regforms/pkg/render"
	"github.com/goliatone/go-regforms/pkg/validation"
)

// Name is the registry name of the terminal renderer.
const Name = "tui"

// Renderer implements render.Renderer for terminal-driven sessions. Every
// answer goes through the form instance; a field is asked again while it
// still has a violation.
type Renderer struct {
	driver       PromptDriver
	infoWriter   io.Writer
	outputFormat OutputFormat
	formOptions  []form.Option
	confirm      bool
	theme        Theme
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		confirm:      true,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	format, err := ParseOutputFormat(string(r.outputFormat))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, r.outputFormat)
	}
	r.outputFormat = format

	if r.driver == nil {
		r.driver = NewSurveyDriver(r.infoWriter)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return Name
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain; charset=utf-8"
	default:
		return "application/json"
	}
}

// Render runs a prompt session for the variant named by the form model and
// returns the submitted draft serialized in the configured format.
// RenderOptions.Values prefill the instance.
func (r *Renderer) Render(ctx context.Context, fm model.FormModel, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	variant, err := registration.Lookup(fm.OperationID)
	if err != nil {
		return nil, fmt.Errorf("tui: %w", err)
	}
	instance := form.New(variant, r.formOptions...)
	if len(opts.Values) > 0 {
		if err := instance.Update(prefill(opts.Values)); err != nil {
			return nil, fmt.Errorf("tui: prefill: %w", err)
		}
	}

	draft, err := r.Fill(ctx, instance, fm)
	if err != nil {
		return nil, err
	}
	return r.Serialize(draft)
}

// Fill prompts every field of fm into instance, asks for confirmation and
// submits. Fields still violated after a rejected submit are asked again.
func (r *Renderer) Fill(ctx context.Context, instance *form.Form, fm model.FormModel) (registration.Draft, error) {
	if instance == nil {
		return registration.Draft{}, errors.New("tui: form instance is nil")
	}
	if r.driver == nil {
		return registration.Draft{}, errors.New("tui: prompt driver is nil")
	}

	pending := fm.Fields
	for {
		for _, field := range pending {
			if err := r.promptField(ctx, instance, field); err != nil {
				return registration.Draft{}, err
			}
		}

		if r.confirm {
			ok, err := r.driver.Confirm(ctx, ConfirmConfig{
				Message: "Submit registration?",
				Default: true,
			})
			if err != nil {
				return registration.Draft{}, err
			}
			if !ok {
				return registration.Draft{}, ErrDeclined
			}
		}

		draft, err := instance.Submit(ctx)
		if err == nil {
			r.info(ctx, "Registration submitted.")
			return draft, nil
		}
		var invalid *validation.ValidationError
		if !errors.As(err, &invalid) {
			return registration.Draft{}, err
		}

		violations := instance.Violations()
		for _, path := range violations.Paths() {
			r.fail(ctx, fmt.Sprintf("%s: %s", path, violations[path]))
		}
		pending = violatedFields(fm.Fields, violations)
		if len(pending) == 0 {
			return registration.Draft{}, err
		}
	}
}

// Serialize encodes a submitted draft in the configured output format.
func (r *Renderer) Serialize(draft registration.Draft) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		values, err := flattenDraft(draft)
		if err != nil {
			return nil, err
		}
		return []byte(values.Encode()), nil
	case OutputFormatPrettyText:
		values, err := flattenDraft(draft.Redacted())
		if err != nil {
			return nil, err
		}
		return []byte(prettyPrint(values)), nil
	default:
		out, err := json.Marshal(draft)
		if err != nil {
			return nil, fmt.Errorf("tui: encode draft: %w", err)
		}
		return out, nil
	}
}

func (r *Renderer) promptField(ctx context.Context, instance *form.Form, field model.Field) error {
	if field.Widget == model.WidgetArray {
		return r.promptHobbies(ctx, instance, field)
	}
	return r.promptValue(ctx, instance, field, field.Name, instance.Values()[field.Name])
}

// promptValue asks for path until the answer is accepted and leaves no
// violation on path.
func (r *Renderer) promptValue(ctx context.Context, instance *form.Form, field model.Field, path string, current any) error {
	for {
		answer, err := r.ask(ctx, field, current)
		if err != nil {
			return err
		}
		if err := instance.Set(path, answer); err != nil {
			if errors.Is(err, form.ErrInvalidValue) {
				r.fail(ctx, fmt.Sprintf("Invalid %s: %v", displayLabel(field), err))
				continue
			}
			return err
		}
		if message, ok := instance.Violations()[path]; ok {
			r.fail(ctx, fmt.Sprintf("%s: %s", displayLabel(field), message))
			current = answer
			continue
		}
		return nil
	}
}

func (r *Renderer) ask(ctx context.Context, field model.Field, current any) (any, error) {
	label := displayLabel(field)
	help := displayHelp(field)
	text := formatValue(current)

	switch field.Widget {
	case model.WidgetPassword:
		return r.driver.Password(ctx, InputConfig{Message: label, Help: help})
	case model.WidgetTextarea:
		return r.driver.TextArea(ctx, TextAreaConfig{Message: label, Default: text, Help: help})
	case model.WidgetCheckbox:
		flag, _ := current.(bool)
		return r.driver.Confirm(ctx, ConfirmConfig{Message: label, Default: flag, Help: help})
	case model.WidgetRadio, model.WidgetSelect:
		if len(field.Options) == 0 {
			break
		}
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      label,
			Options:      optionLabels(field.Options),
			DefaultIndex: optionIndex(field.Options, text),
			Help:         help,
		})
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= len(field.Options) {
			return "", nil
		}
		return field.Options[idx].Value, nil
	case model.WidgetCheckboxGroup:
		indices, err := r.driver.MultiSelect(ctx, SelectConfig{
			Message:  label,
			Options:  optionLabels(field.Options),
			Defaults: optionIndices(field.Options, stringList(current)),
			Help:     help,
		})
		if err != nil {
			return nil, err
		}
		selected := make([]string, 0, len(indices))
		for _, idx := range indices {
			if idx >= 0 && idx < len(field.Options) {
				selected = append(selected, field.Options[idx].Value)
			}
		}
		return selected, nil
	}

	return r.driver.Input(ctx, InputConfig{
		Message:     label,
		Default:     text,
		Help:        help,
		Placeholder: field.Placeholder,
	})
}

// promptHobbies walks the existing entries and offers to append more. An
// empty list gets one entry without asking.
func (r *Renderer) promptHobbies(ctx context.Context, instance *form.Form, field model.Field) error {
	nameField, levelField := hobbyFields(field)

	for i := 0; ; i++ {
		hobbies := instance.Draft().Hobbies
		if i >= len(hobbies) {
			if i > 0 {
				more, err := r.driver.Confirm(ctx, ConfirmConfig{
					Message: "Add another hobby?",
					Default: false,
				})
				if err != nil {
					return err
				}
				if !more {
					return nil
				}
			}
			if err := instance.AppendHobby(); err != nil {
				return err
			}
			hobbies = instance.Draft().Hobbies
		}

		r.info(ctx, fmt.Sprintf("%s #%d", displayLabel(field), i+1))
		if err := r.promptValue(ctx, instance, nameField, validation.HobbyPath(i, "name"), hobbies[i].Name); err != nil {
			return err
		}
		if err := r.promptValue(ctx, instance, levelField, validation.HobbyPath(i, "level"), hobbies[i].Level); err != nil {
			return err
		}
	}
}

func (r *Renderer) info(ctx context.Context, msg string) {
	_ = r.driver.Info(ctx, r.theme.InfoPrefix+msg)
}

func (r *Renderer) fail(ctx context.Context, msg string) {
	_ = r.driver.Info(ctx, r.theme.ErrorPrefix+msg)
}

func hobbyFields(field model.Field) (model.Field, model.Field) {
	name := model.Field{Name: "name", Label: "Hobby name", Widget: model.WidgetText}
	level := model.Field{Name: "level", Label: "Level", Widget: model.WidgetSelect}
	if field.Items != nil {
		for _, nested := range field.Items.Nested {
			switch nested.Name {
			case "name":
				name = nested
			case "level":
				level = nested
			}
		}
	}
	if len(level.Options) == 0 {
		for _, option := range registration.HobbyLevels() {
			level.Options = append(level.Options, model.Option{Value: option.Value, Label: option.Label})
		}
	}
	return name, level
}

// violatedFields keeps the top-level fields owning a violated path.
func violatedFields(fields []model.Field, violations validation.Violations) []model.Field {
	var out []model.Field
	for _, field := range fields {
		for path := range violations {
			if path == field.Name || strings.HasPrefix(path, field.Name+".") {
				out = append(out, field)
				break
			}
		}
	}
	return out
}

// prefill drops control inputs such as _action from posted values.
func prefill(values map[string]any) map[string]any {
	out := make(map[string]any, len(values))
	for key, value := range values {
		if render.IsControlField(key) {
			continue
		}
		out[key] = value
	}
	return out
}

func displayLabel(field model.Field) string {
	if field.Label != "" {
		return field.Label
	}
	return field.Name
}

func displayHelp(field model.Field) string {
	if field.Description != "" {
		return field.Description
	}
	return field.Placeholder
}

func optionLabels(options []model.Option) []string {
	out := make([]string, 0, len(options))
	for _, option := range options {
		if option.Label != "" {
			out = append(out, option.Label)
			continue
		}
		out = append(out, option.Value)
	}
	return out
}

func optionIndex(options []model.Option, value string) int {
	for i, option := range options {
		if option.Value == value {
			return i
		}
	}
	return -1
}

func optionIndices(options []model.Option, values []string) []int {
	var out []int
	for _, value := range values {
		if idx := optionIndex(options, value); idx >= 0 {
			out = append(out, idx)
		}
	}
	sort.Ints(out)
	return out
}

func formatValue(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case int:
		return strconv.Itoa(typed)
	case bool:
		return strconv.FormatBool(typed)
	default:
		return fmt.Sprint(typed)
	}
}

func stringList(value any) []string {
	switch typed := value.(type) {
	case []string:
		return typed
	case string:
		if typed == "" {
			return nil
		}
		return []string{typed}
	default:
		return nil
	}
}

// flattenDraft converts the draft into the field paths the HTML form posts:
// lists repeat their key and hobbies expand to hobbies.<i>.<field>.
func flattenDraft(draft registration.Draft) (url.Values, error) {
	raw, err := json.Marshal(draft)
	if err != nil {
		return nil, fmt.Errorf("tui: encode draft: %w", err)
	}
	var values map[string]any
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("tui: decode draft: %w", err)
	}
	out := url.Values{}
	flatten("", values, out)
	return out, nil
}

func flatten(prefix string, value any, out url.Values) {
	switch v := value.(type) {
	case map[string]any:
		for key, val := range v {
			next := key
			if prefix != "" {
				next = prefix + "." + key
			}
			flatten(next, val, out)
		}
	case []any:
		if len(v) == 0 {
			out[prefix] = []string{}
			return
		}
		for idx, val := range v {
			if _, nested := val.(map[string]any); nested {
				flatten(prefix+"."+strconv.Itoa(idx), val, out)
				continue
			}
			out.Add(prefix, scalar(val))
		}
	default:
		out.Set(prefix, scalar(v))
	}
}

func scalar(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	default:
		return fmt.Sprint(typed)
	}
}

func prettyPrint(values url.Values) string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		fmt.Fprintf(&b, "%s=%s\n", key, strings.Join(values[key], ", "))
	}
	return b.String()
}
