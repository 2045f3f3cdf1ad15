package templates

import (
	"embed"
	"html/template"

	"github.com/CYule/vibe-gallery/web/templates/components"
)

//go:embed pages/*.html
var pagesFS embed.FS

// New parses the embedded page templates with the component helpers bound.
func New() (*template.Template, error) {
	funcs := template.FuncMap{
		"reltime":      components.FormatRelativeTime,
		"likes":        components.FormatLikeCount,
		"monetization": components.MonetizationLabel,
	}
	return template.New("").Funcs(funcs).ParseFS(pagesFS, "pages/*.html")
}
