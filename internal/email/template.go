package email

import (
	"bytes"
	"html/template"

	"github.com/example/spanbot/internal/session"
)

// defaultTemplate is the built-in digest layout, used unless a template
// file is configured.
const defaultTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; color: #333;">
  <h1 style="color: #c60b1e;">Your Daily Spanish Vocabulary</h1>
  <p style="color: #888;">{{.Date.Format "Monday, January 2, 2006"}}</p>

  {{if or .VerbReset .AdjectiveReset}}
  <div style="background-color: #fff3cd; padding: 12px; border-radius: 8px; margin: 16px 0; border-left: 4px solid #ffc107;">
    Congratulations! You've completed
    {{if .VerbReset}}all verbs{{if .AdjectiveReset}} and {{end}}{{end}}{{if .AdjectiveReset}}all adjectives{{end}}.
    Starting a new cycle!
  </div>
  {{end}}

  <h2>Verb</h2>
  <p><strong>{{.Verb.Spanish}}</strong> &mdash; {{.Verb.English}}</p>
  {{if .Verb.Conjugation}}<p><em>Conjugation:</em> {{.Verb.Conjugation}}</p>{{end}}
  {{if .Verb.Example}}<p><em>{{.Verb.Example}}</em><br>{{.Verb.ExampleEN}}</p>{{end}}

  <h2>Adjective</h2>
  <p><strong>{{.Adjective.Spanish}}{{if .Adjective.SpanishF}}/{{.Adjective.SpanishF}}{{end}}</strong> &mdash; {{.Adjective.English}}</p>
  {{if .Adjective.PluralM}}<p><em>Plural forms:</em> {{.Adjective.PluralM}}, {{.Adjective.PluralF}}</p>{{end}}
  {{if .Adjective.Example}}<p><em>{{.Adjective.Example}}</em><br>{{.Adjective.ExampleEN}}</p>{{end}}

  <hr>
  <p style="color: #888;">Current difficulty: {{printf "%.1f" .Difficulty}} ({{.DifficultyName}})</p>
  <p style="color: #888; font-size: 12px;">
    Reply with "easy", "hard" or "perfect" to adjust the difficulty.
  </p>
</body>
</html>
`

// Render produces the HTML body for a digest. templateFile overrides the
// built-in layout when non-empty.
func Render(d session.Digest, templateFile string) (string, error) {
	var tmpl *template.Template
	var err error

	if templateFile != "" {
		tmpl, err = template.ParseFiles(templateFile)
	} else {
		tmpl, err = template.New("digest").Parse(defaultTemplate)
	}
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, d); err != nil {
		return "", err
	}
	return buf.String(), nil
}
