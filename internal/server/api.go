package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/goliatone/go-regforms/pkg/form"
	"github.com/goliatone/go-regforms/pkg/registration"
	"github.com/goliatone/go-regforms/pkg/validation"
)

const (
	jsonContentType = "application/json"
	maxBodyBytes    = 1 << 20
)

type errorResponse struct {
	Error string `json:"error"`
}

type submissionResponse struct {
	Form  string             `json:"form"`
	Draft registration.Draft `json:"draft"`
}

type formSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Mode        string `json:"mode"`
	Gate        string `json:"gate"`
	URL         string `json:"url"`
	SchemaURL   string `json:"schemaUrl"`
}

func (s *Server) handleListForms(w http.ResponseWriter, _ *http.Request) {
	variants := registration.Variants()
	out := make([]formSummary, 0, len(variants))
	for _, variant := range variants {
		out = append(out, formSummary{
			ID:          variant.ID,
			Title:       variant.Title,
			Description: variant.Description,
			Mode:        string(variant.Mode),
			Gate:        string(variant.Gate),
			URL:         formURL(variant.ID),
			SchemaURL:   formURL(variant.ID) + "/schema",
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": out})
}

// handleValidate evaluates a draft without keeping any state.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	f, ok := s.decodeDraft(w, r)
	if !ok {
		return
	}
	result := validation.NewResult(f.Violations())
	s.metrics.ObserveValidation(f.Variant().ID, result.Valid)
	writeJSON(w, http.StatusOK, result)
}

// handleSubmission validates and submits a draft in one request.
func (s *Server) handleSubmission(w http.ResponseWriter, r *http.Request) {
	f, ok := s.decodeDraft(w, r)
	if !ok {
		return
	}
	variant := f.Variant()

	draft, err := f.Submit(r.Context())
	var invalid *validation.ValidationError
	switch {
	case errors.As(err, &invalid):
		s.metrics.ObserveSubmission(variant.ID, false)
		writeJSON(w, http.StatusUnprocessableEntity, validation.NewResult(invalid.Violations))
		return
	case err != nil:
		s.fail(w, r, err)
		return
	}

	s.metrics.ObserveSubmission(variant.ID, true)
	writeJSON(w, http.StatusCreated, submissionResponse{Form: variant.ID, Draft: draft.Redacted()})
}

// decodeDraft applies a JSON object onto a fresh instance of the requested
// form. Keys absent from the body keep the variant defaults.
func (s *Server) decodeDraft(w http.ResponseWriter, r *http.Request) (*form.Form, bool) {
	variant, ok := s.variant(w, r)
	if !ok {
		return nil, false
	}
	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, jsonContentType) {
		writeError(w, http.StatusUnsupportedMediaType, fmt.Errorf("server: unsupported content type %q", ct))
		return nil, false
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, err)
		return nil, false
	}
	var values map[string]any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&values); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("server: decode draft: %w", err))
		return nil, false
	}

	f := form.New(variant, s.formOptions...)
	if err := f.Apply(values); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return nil, false
	}
	return f, true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", jsonContentType)
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
