package openapi

import (
	"embed"
	"io/fs"
)

// RegistrationDocumentName is the embedded document describing both forms.
const RegistrationDocumentName = "registration.openapi.json"

//go:embed registration.openapi.json
var embedded embed.FS

// EmbeddedFS exposes the embedded documents.
func EmbeddedFS() fs.FS {
	return embedded
}

// RegistrationSource points at the embedded registration document.
func RegistrationSource() Source {
	return SourceFromFS(RegistrationDocumentName)
}

// RegistrationDocument returns the embedded registration document.
func RegistrationDocument() Document {
	raw, err := fs.ReadFile(embedded, RegistrationDocumentName)
	if err != nil {
		panic(err)
	}
	return MustNewDocument(RegistrationSource(), raw)
}
