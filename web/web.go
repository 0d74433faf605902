// Package web embeds the HTML templates and the OpenAPI document.
package web

import (
	"embed"
	"html/template"
)

//go:embed templates openapi.json
var FS embed.FS

// Templates parses every page; each file defines a template named after its
// path below templates/, e.g. "flights/index.html".
func Templates() (*template.Template, error) {
	return template.ParseFS(FS, "templates/*.html", "templates/*/*.html")
}

func OpenAPI() ([]byte, error) {
	return FS.ReadFile("openapi.json")
}
