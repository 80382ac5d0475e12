package vanilla

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-regforms/pkg/model"
	"github.com/goliatone/go-regforms/pkg/render"
	"github.com/goliatone/go-regforms/pkg/render/template/pongo"
)

// Metadata keys read from the form model.
const (
	metaValidationMode = "validation-mode"
	metaSubmitGate     = "submit-gate"
)

type pageView struct {
	FormID        string        `json:"form_id"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	Method        string        `json:"method"`
	Action        string        `json:"action"`
	Mode          string        `json:"mode"`
	Gate          string        `json:"gate"`
	HiddenFields  []hiddenView  `json:"hidden_fields"`
	Sections      []sectionView `json:"sections"`
	FormErrors    []string      `json:"form_errors"`
	CanSubmit     bool          `json:"can_submit"`
	Submitted     bool          `json:"submitted"`
	ResetDisabled bool          `json:"reset_disabled"`
	Preview       string        `json:"preview"`
	Stylesheet    string        `json:"stylesheet"`
	Style         string        `json:"style"`
	Theme         string        `json:"theme"`
	ThemeVariant  string        `json:"theme_variant"`
}

type hiddenView struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type sectionView struct {
	ID     string   `json:"id"`
	Anchor string   `json:"anchor"`
	Title  string   `json:"title"`
	Fields []string `json:"fields"`

	source []model.Field
}

type indexView struct {
	Title      string       `json:"title"`
	Entries    []IndexEntry `json:"entries"`
	Stylesheet string       `json:"stylesheet"`
	Style      string       `json:"style"`
}

type optionView struct {
	ID       string `json:"id"`
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

type fieldView struct {
	Name        string       `json:"name"`
	ID          string       `json:"id"`
	Label       string       `json:"label"`
	Widget      string       `json:"widget"`
	InputType   string       `json:"input_type"`
	Placeholder string       `json:"placeholder"`
	Description string       `json:"description"`
	Value       string       `json:"value"`
	Checked     bool         `json:"checked"`
	Required    bool         `json:"required"`
	Invalid     bool         `json:"invalid"`
	Errors      []string     `json:"errors"`
	Options     []optionView `json:"options"`
	Min         string       `json:"min"`
	Max         string       `json:"max"`
	MinLength   string       `json:"minlength"`
	Entries     []entryView  `json:"entries"`
}

type entryView struct {
	Index        string    `json:"index"`
	Name         fieldView `json:"name"`
	Level        fieldView `json:"level"`
	CanRemove    bool      `json:"can_remove"`
	RemoveAction string    `json:"remove_action"`
}

func buildPage(form model.FormModel, options render.RenderOptions) pageView {
	method, hidden := formMethod(form.Method, options.Method)

	title := form.Title
	if title == "" {
		title = form.Summary
	}

	page := pageView{
		FormID:        form.OperationID,
		Title:         title,
		Description:   form.Description,
		Method:        method,
		Action:        options.Action,
		Mode:          form.Metadata[metaValidationMode],
		Gate:          form.Metadata[metaSubmitGate],
		Sections:      groupSections(form),
		FormErrors:    options.FormErrors,
		CanSubmit:     options.CanSubmit && !options.Submitted,
		Submitted:     options.Submitted,
		ResetDisabled: form.Metadata[metaSubmitGate] == "dirty" && options.Pristine,
		Preview:       options.Preview,
	}

	fields := options.HiddenFields
	if hidden != "" {
		fields = render.MergeHiddenFields(fields, render.Hidden("_method", hidden))
	}
	for _, field := range render.SortedHiddenFields(fields) {
		page.HiddenFields = append(page.HiddenFields, hiddenView{Name: field.Name, Value: field.Value})
	}
	return page
}

// formMethod maps the declared verb onto what an HTML form can send. Verbs
// other than GET and POST travel in a hidden _method input.
func formMethod(declared, override string) (string, string) {
	method := strings.ToUpper(strings.TrimSpace(override))
	if method == "" {
		method = strings.ToUpper(strings.TrimSpace(declared))
	}
	switch method {
	case "", "POST":
		return "post", ""
	case "GET":
		return "get", ""
	default:
		return "post", method
	}
}

// groupSections follows the declared sections; fields no section claims fall
// into a trailing untitled section.
func groupSections(form model.FormModel) []sectionView {
	byName := make(map[string]model.Field, len(form.Fields))
	for _, field := range form.Fields {
		byName[field.Name] = field
	}

	claimed := make(map[string]bool, len(form.Fields))
	sections := make([]sectionView, 0, len(form.Sections)+1)
	for _, section := range form.Sections {
		view := sectionView{ID: section.ID, Anchor: "section." + section.ID, Title: section.Title}
		for _, name := range section.Fields {
			field, ok := byName[name]
			if !ok || claimed[name] {
				continue
			}
			claimed[name] = true
			view.source = append(view.source, field)
		}
		if len(view.source) > 0 {
			sections = append(sections, view)
		}
	}

	rest := sectionView{ID: "fields", Anchor: "section.fields"}
	for _, field := range form.Fields {
		if !claimed[field.Name] {
			rest.source = append(rest.source, field)
		}
	}
	if len(rest.source) > 0 {
		sections = append(sections, rest)
	}
	return sections
}

func buildField(field model.Field, options render.RenderOptions) fieldView {
	value := options.Values[field.Name]
	view := baseField(field, field.Name, value, options.FieldErrors(field.Name))

	switch field.Widget {
	case model.WidgetCheckboxGroup:
		view.Options = optionViews(field.Name, field.Options, stringSet(value))
	case model.WidgetArray:
		view.Entries = hobbyEntries(field, value, options)
	}
	return view
}

func baseField(field model.Field, path string, value any, errs []string) fieldView {
	text := formatValue(value)
	view := fieldView{
		Name:        path,
		ID:          pongo.DOMID(path),
		Label:       field.Label,
		Widget:      field.Widget,
		InputType:   inputType(field.Widget),
		Placeholder: field.Placeholder,
		Description: field.Description,
		Value:       text,
		Required:    field.Required,
		Errors:      errs,
		Invalid:     len(errs) > 0,
	}
	if flag, ok := value.(bool); ok {
		view.Checked = flag
	}
	if rule, ok := field.Rule(model.ValidationRuleMin); ok {
		view.Min = rule.Params["value"]
	}
	if rule, ok := field.Rule(model.ValidationRuleMax); ok {
		view.Max = rule.Params["value"]
	}
	if rule, ok := field.Rule(model.ValidationRuleMinLength); ok {
		view.MinLength = rule.Params["value"]
	}
	if len(field.Options) > 0 {
		view.Options = optionViews(path, field.Options, map[string]bool{text: true})
	}
	return view
}

func hobbyEntries(field model.Field, value any, options render.RenderOptions) []entryView {
	var nameField, levelField model.Field
	if field.Items != nil {
		for _, nested := range field.Items.Nested {
			switch nested.Name {
			case "name":
				nameField = nested
			case "level":
				levelField = nested
			}
		}
	}

	entries := hobbyValues(value)
	out := make([]entryView, 0, len(entries))
	for i, entry := range entries {
		namePath := fmt.Sprintf("%s.%d.name", field.Name, i)
		levelPath := fmt.Sprintf("%s.%d.level", field.Name, i)
		out = append(out, entryView{
			Index:        strconv.Itoa(i),
			Name:         baseField(nameField, namePath, entry["name"], options.FieldErrors(namePath)),
			Level:        baseField(levelField, levelPath, entry["level"], options.FieldErrors(levelPath)),
			CanRemove:    len(entries) > 1,
			RemoveAction: withQuery(options.Action, render.IndexFieldName, strconv.Itoa(i)),
		})
	}
	return out
}

func hobbyValues(value any) []map[string]any {
	switch typed := value.(type) {
	case []map[string]any:
		return typed
	case []any:
		out := make([]map[string]any, 0, len(typed))
		for _, item := range typed {
			if entry, ok := item.(map[string]any); ok {
				out = append(out, entry)
			}
		}
		return out
	default:
		return nil
	}
}

func optionViews(path string, options []model.Option, selected map[string]bool) []optionView {
	out := make([]optionView, 0, len(options))
	for _, option := range options {
		out = append(out, optionView{
			ID:       pongo.DOMID(path + "." + option.Value),
			Value:    option.Value,
			Label:    option.Label,
			Selected: selected[option.Value],
		})
	}
	return out
}

func inputType(widget string) string {
	switch widget {
	case model.WidgetEmail, model.WidgetPassword, model.WidgetNumber, model.WidgetDate, model.WidgetColor:
		return widget
	default:
		return "text"
	}
}

func formatValue(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case bool:
		return strconv.FormatBool(typed)
	case int:
		return strconv.Itoa(typed)
	case *int:
		if typed == nil {
			return ""
		}
		return strconv.Itoa(*typed)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	default:
		return fmt.Sprint(typed)
	}
}

func stringSet(value any) map[string]bool {
	set := map[string]bool{}
	switch typed := value.(type) {
	case []string:
		for _, item := range typed {
			set[item] = true
		}
	case []any:
		for _, item := range typed {
			if text, ok := item.(string); ok {
				set[text] = true
			}
		}
	case string:
		if typed != "" {
			set[typed] = true
		}
	}
	return set
}

func withQuery(action, key, value string) string {
	separator := "?"
	if strings.Contains(action, "?") {
		separator = "&"
	}
	return action + separator + key + "=" + value
}

// inlineStyle renders CSS custom properties as a sorted style attribute.
func inlineStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+vars[name])
	}
	return strings.Join(parts, "; ")
}
