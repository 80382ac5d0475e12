package loader

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	pkgopenapi "github.com/goliatone/go-regforms/pkg/openapi"
)

func TestLoader_EmbeddedDocument(t *testing.T) {
	l := New(pkgopenapi.NewLoaderOptions())
	doc, err := l.Load(context.Background(), pkgopenapi.RegistrationSource())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if doc.Location() != pkgopenapi.RegistrationDocumentName || len(doc.Raw()) == 0 {
		t.Fatalf("unexpected document %q (%d bytes)", doc.Location(), len(doc.Raw()))
	}
}

func TestLoader_FileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forms.json")
	if err := os.WriteFile(path, []byte(`{"openapi":"3.0.3"}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	doc, err := New(pkgopenapi.NewLoaderOptions()).Load(context.Background(), pkgopenapi.SourceFromFile(path))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(doc.Raw()) != `{"openapi":"3.0.3"}` {
		t.Fatalf("unexpected payload %q", doc.Raw())
	}
}

func TestLoader_Errors(t *testing.T) {
	ctx := context.Background()
	l := New(pkgopenapi.NewLoaderOptions(pkgopenapi.WithFileSystem(fstest.MapFS{})))

	if _, err := l.Load(ctx, nil); err == nil {
		t.Fatalf("expected error for nil source")
	}
	if _, err := l.Load(ctx, pkgopenapi.SourceFromFS("missing.json")); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}
	if _, err := l.Load(ctx, pkgopenapi.SourceFromFile(filepath.Join(t.TempDir(), "nope.json"))); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := l.Load(canceled, pkgopenapi.SourceFromFS("missing.json")); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
