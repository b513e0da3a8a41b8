// Package web embeds the HTML templates served by cmd/api
package web

import (
	"embed"
	"html/template"
	"time"
)

//go:embed templates/*.tmpl
var files embed.FS

var funcs = template.FuncMap{
	"inc":  func(i int) int { return i + 1 },
	"date": func(t time.Time) string { return t.Local().Format("Jan 2, 2006 15:04") },
}

// Templates parses every page and partial
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(files, "templates/*.tmpl")
}
