// Package testsupport holds fixtures and golden helpers shared by tests.
package testsupport

import (
	"bytes"
	"context"
	"io"
	"os"
	"testing"

	internalparser "github.com/goliatone/go-regforms/internal/openapi/parser"
	pkgmodel "github.com/goliatone/go-regforms/pkg/model"
	pkgopenapi "github.com/goliatone/go-regforms/pkg/openapi"
)

// registrationOperations parses the embedded registration document.
func registrationOperations(t *testing.T) map[string]pkgopenapi.Operation {
	t.Helper()

	parser := internalparser.New(pkgopenapi.NewParserOptions())
	operations, err := parser.Operations(Context(), pkgopenapi.RegistrationDocument())
	if err != nil {
		t.Fatalf("parse registration document: %v", err)
	}
	return operations
}

// RegistrationForm builds the form model for one variant of the embedded
// document.
func RegistrationForm(t *testing.T, id string) pkgmodel.FormModel {
	t.Helper()

	op, ok := registrationOperations(t)[id]
	if !ok {
		t.Fatalf("operation %q missing from registration document", id)
	}
	form, err := pkgmodel.NewBuilder().Build(op)
	if err != nil {
		t.Fatalf("build form model %q: %v", id, err)
	}
	return form
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput executes a render function that writes to an
// io.Writer, returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
