package handlers

import (
	"embed"
	"html/template"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page template names.
const (
	PageSignIn = "signin.html"
	PageApp    = "app.html"
)

// timestampLayout renders "Last generated" the way a browser locale string
// reads in en-US.
const timestampLayout = "1/2/2006, 3:04:05 PM"

// Templates parses the embedded pages. Install the result with
// gin.Engine.SetHTMLTemplate.
func Templates(loc *time.Location) (*template.Template, error) {
	if loc == nil {
		loc = time.UTC
	}

	return template.New("pages").Funcs(template.FuncMap{
		"timestamp": func(t *time.Time) string {
			if t == nil {
				return ""
			}
			return t.In(loc).Format(timestampLayout)
		},
	}).ParseFS(templateFS, "templates/*.html")
}
