package htmldoc

import (
	"embed"
	"fmt"
	"io"
	"io/fs"

	gotemplate "github.com/goliatone/go-template"
)

const messageTemplateName = "message"

//go:embed templates/*.tpl
var templateFiles embed.FS

// Renderer renders message markup. It matches the string and named template
// methods of the go-template engine.
type Renderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
}

// NewRenderer returns a go-template engine loading the bundled message
// template.
func NewRenderer() (Renderer, error) {
	files, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		return nil, fmt.Errorf("htmldoc: bundled templates: %w", err)
	}
	engine, err := gotemplate.NewRenderer(
		gotemplate.WithFS(files),
		gotemplate.WithExtension(".tpl"),
	)
	if err != nil {
		return nil, fmt.Errorf("htmldoc: create renderer: %w", err)
	}
	return engine, nil
}

// messageRenderer renders one entry per message with either the bundled
// template or an inline override.
type messageRenderer struct {
	engine Renderer
	inline string
}

func (m messageRenderer) render(message, class string, out io.Writer) error {
	data := map[string]any{
		"message": message,
		"class":   class,
	}
	var err error
	if m.inline != "" {
		_, err = m.engine.RenderString(m.inline, data, out)
	} else {
		_, err = m.engine.RenderTemplate(messageTemplateName, data, out)
	}
	return err
}
