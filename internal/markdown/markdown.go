// Package markdown renders generated coaching text to HTML
package markdown

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// raw HTML in the source is dropped since goldmark is not configured with html.WithUnsafe
var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// ToHTML converts markdown to sanitized HTML
func ToHTML(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}
