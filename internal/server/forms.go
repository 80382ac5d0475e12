package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/goliatone/go-regforms/pkg/form"
	"github.com/goliatone/go-regforms/pkg/orchestrator"
	"github.com/goliatone/go-regforms/pkg/registration"
	"github.com/goliatone/go-regforms/pkg/render"
	"github.com/goliatone/go-regforms/pkg/renderers/vanilla"
	"github.com/goliatone/go-regforms/pkg/validation"
)

const htmlContentType = "text/html; charset=utf-8"

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.orch.ThemeConfig("", "")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	output, err := s.index.RenderIndex(r.Context(), s.indexEntries(), cfg)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", htmlContentType)
	_, _ = w.Write(output)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// indexEntries lists every variant with the configured default first.
func (s *Server) indexEntries() []vanilla.IndexEntry {
	variants := registration.Variants()
	entries := make([]vanilla.IndexEntry, 0, len(variants))
	for _, variant := range variants {
		entry := vanilla.IndexEntry{
			ID:          variant.ID,
			Title:       variant.Title,
			Description: variant.Description,
			URL:         formURL(variant.ID),
		}
		if variant.ID == s.cfg.Forms.Default {
			entries = append([]vanilla.IndexEntry{entry}, entries...)
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	variant, ok := s.variant(w, r)
	if !ok {
		return
	}
	sess := s.session(w, r)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	f := sess.form(variant, s.formOptions)
	s.renderForm(w, r, f, http.StatusOK, nil)
}

// handleFormPost applies the posted controls to the session instance and
// runs the action named by the last _action value.
func (s *Server) handleFormPost(w http.ResponseWriter, r *http.Request) {
	variant, ok := s.variant(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	sess := s.session(w, r)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	f := sess.form(variant, s.formOptions)
	action := lastValue(r.PostForm[render.ActionFieldName])
	if action == "" {
		action = render.ActionChange
	}

	if action == render.ActionReset {
		f.Reset()
		s.renderForm(w, r, f, http.StatusOK, nil)
		return
	}

	var formErrors []string
	if err := f.Update(postedValues(r.PostForm)); err != nil {
		formErrors = append(formErrors, splitErrors(err)...)
	}

	status := http.StatusOK
	switch action {
	case render.ActionChange:
	case render.ActionAddHobby:
		if err := f.AppendHobby(); err != nil {
			formErrors = append(formErrors, err.Error())
		}
	case render.ActionRemoveHobby:
		index, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get(render.IndexFieldName)))
		if err != nil {
			formErrors = append(formErrors, "form: missing hobby index")
			break
		}
		if err := f.RemoveHobby(index); err != nil {
			formErrors = append(formErrors, err.Error())
		}
	case render.ActionSubmit:
		_, err := f.Submit(r.Context())
		var invalid *validation.ValidationError
		switch {
		case errors.As(err, &invalid):
			status = http.StatusUnprocessableEntity
			s.metrics.ObserveSubmission(variant.ID, false)
		case err != nil:
			s.fail(w, r, err)
			return
		default:
			s.metrics.ObserveSubmission(variant.ID, true)
		}
	default:
		writeError(w, http.StatusBadRequest, errors.New("server: unknown action "+strconv.Quote(action)))
		return
	}

	s.renderForm(w, r, f, status, formErrors)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	variant, ok := s.variant(w, r)
	if !ok {
		return
	}
	sess := s.session(w, r)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	preview, err := sess.form(variant, s.formOptions).Preview()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", jsonContentType)
	_, _ = w.Write(append(preview, '\n'))
}

func (s *Server) handleModel(w http.ResponseWriter, r *http.Request) {
	variant, ok := s.variant(w, r)
	if !ok {
		return
	}
	formModel, err := s.orch.Model(r.Context(), variant.ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, formModel)
}

func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	variant, ok := s.variant(w, r)
	if !ok {
		return
	}
	data, err := s.exporter.JSON(variant.ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/schema+json")
	_, _ = w.Write(data)
}

func (s *Server) renderForm(w http.ResponseWriter, r *http.Request, f *form.Form, status int, formErrors []string) {
	variant := f.Variant()
	formModel, err := s.orch.Model(r.Context(), variant.ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	preview, err := f.Preview()
	if err != nil {
		s.fail(w, r, err)
		return
	}

	mapping := render.MapViolations(formModel, f.VisibleViolations())
	output, err := s.orch.Generate(r.Context(), orchestrator.Request{
		OperationID:   variant.ID,
		RenderOptions: render.RenderOptions{
			Action:       formURL(variant.ID),
			Values:       f.Values(),
			Errors:       mapping.Fields,
			FormErrors:   render.MergeFormErrors(mapping.Form, formErrors...),
			HiddenFields: render.MergeHiddenFields(nil, render.ActionField(render.ActionChange)),
			Preview:      string(preview),
			CanSubmit:    f.CanSubmit(),
			Submitted:    f.Submitted(),
			Pristine:     f.Pristine(),
		},
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", htmlContentType)
	w.WriteHeader(status)
	_, _ = w.Write(output)
}

// variant resolves the {form} parameter, answering 404 for unknown ids.
func (s *Server) variant(w http.ResponseWriter, r *http.Request) (registration.Variant, bool) {
	variant, err := registration.Lookup(chi.URLParam(r, "form"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return registration.Variant{}, false
	}
	return variant, true
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("request failed",
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	writeError(w, http.StatusInternalServerError, errors.New(http.StatusText(http.StatusInternalServerError)))
}

func formURL(id string) string {
	return "/forms/" + id
}

// postedValues keeps every draft control with all of its posted values.
func postedValues(values map[string][]string) map[string]any {
	out := make(map[string]any, len(values))
	for name, posted := range values {
		if render.IsControlField(name) {
			continue
		}
		out[name] = posted
	}
	return out
}

func lastValue(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[len(values)-1])
}

// splitErrors unwraps a joined error into its messages.
func splitErrors(err error) []string {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []string
		for _, inner := range joined.Unwrap() {
			out = append(out, splitErrors(inner)...)
		}
		return out
	}
	return []string{err.Error()}
}
