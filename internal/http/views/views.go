// Package views holds the embedded HTML templates.
package views

import (
	"embed"
	"html/template"
	"time"

	"taskboard/internal/domain"
)

//go:embed templates/*.tmpl
var files embed.FS

const IndexTemplate = "index.tmpl"

// IndexPage is the data rendered by IndexTemplate.
type IndexPage struct {
	Tasks       []domain.Task
	Environment string
	DBType      string
	WebServer   string
	// DBError marks degraded mode: the task list could not be read.
	DBError bool
}

var funcs = template.FuncMap{
	"formatTime": func(t time.Time) string { return t.Format("02/01/2006 15:04") },
	"isoTime":    func(t time.Time) string { return t.Format(time.RFC3339) },
}

// Load parses the embedded templates. It panics on a malformed template,
// which can only happen at build time.
func Load() *template.Template {
	return template.Must(template.New("").Funcs(funcs).ParseFS(files, "templates/*.tmpl"))
}
