package ensure

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

//go:embed templates/*
var templatesFS embed.FS

// BuiltinTemplate selects a template shipped with hostkit.
const BuiltinTemplate = "builtin"

// loadTemplate returns the embedded template name when source is empty or
// BuiltinTemplate, otherwise the contents of the local file at source.
func loadTemplate(name, source string) ([]byte, error) {
	if source == "" || source == BuiltinTemplate {
		content, err := templatesFS.ReadFile("templates/" + name)
		if err != nil {
			return nil, fmt.Errorf("failed to read template %s: %w", name, err)
		}
		return content, nil
	}

	// #nosec G304
	content, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("failed to read template %s: %w", source, err)
	}
	return content, nil
}

// renderTemplate processes a template with the sprig function map.
func renderTemplate(name string, content []byte, data any) ([]byte, error) {
	tmpl, err := template.New(name).
		Funcs(sprig.TxtFuncMap()).
		Option("missingkey=error").
		Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
