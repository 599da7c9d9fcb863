package skills

import (
	"bytes"
	"embed"
	"text/template"
)

//go:embed templates/*.md.tmpl
var templatesFS embed.FS

var skillTemplates = template.Must(template.New("").ParseFS(templatesFS, "templates/*.md.tmpl"))

// renderTemplate executes a named template with the given data.
func renderTemplate(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := skillTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
