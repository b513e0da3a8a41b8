package email

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/briangreenhill/coachbot/internal/markdown"
)

var planTmpl = template.Must(template.New("plan").Parse(`<!doctype html>
<html><body style="font-family:sans-serif;max-width:640px">
<h1>{{.Feature}}</h1>
<p>{{.Sport}}{{if .Position}} ({{.Position}}){{end}}, goal: {{.Goal}}</p>
{{.Body}}
{{if .ShareURL}}<p><a href="{{.ShareURL}}">Open this plan in CoachBot</a></p>{{end}}
<p style="color:#888;font-size:12px">Generated guidance, not medical advice.</p>
</body></html>
`))

// PlanEmail holds what goes into a plan message
type PlanEmail struct {
	Feature  string
	Sport    string
	Position string
	Goal     string
	Markdown string
	ShareURL string
}

// Render returns the subject and HTML body for the message
func (p PlanEmail) Render() (string, string, error) {
	body, err := markdown.ToHTML(p.Markdown)
	if err != nil {
		return "", "", err
	}

	var buf bytes.Buffer
	err = planTmpl.Execute(&buf, struct {
		PlanEmail
		Body template.HTML
	}{p, body})
	if err != nil {
		return "", "", fmt.Errorf("render plan email: %w", err)
	}
	return fmt.Sprintf("Your CoachBot plan: %s", p.Feature), buf.String(), nil
}
