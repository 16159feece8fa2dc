package formguard

import (
	"embed"
	"io/fs"

	"github.com/goliatone/go-formguard/pkg/formconfig"
)

//go:embed forms/*.yaml forms/*.html
var embeddedForms embed.FS

// FormsFS exposes the bundled form definitions and their sample pages so
// callers can try the validator without writing configuration first.
//
// Typical use:
//
//	store, err := formconfig.LoadFS(formguard.FormsFS())
func FormsFS() fs.FS {
	sub, err := fs.Sub(embeddedForms, "forms")
	if err != nil {
		return embeddedForms
	}
	return sub
}

// DefaultForms loads the bundled form definitions.
func DefaultForms() (*formconfig.Store, error) {
	return formconfig.LoadFS(FormsFS())
}

// SamplePage returns the bundled HTML page for the named form.
func SamplePage(name string) ([]byte, error) {
	return fs.ReadFile(FormsFS(), name+".html")
}
