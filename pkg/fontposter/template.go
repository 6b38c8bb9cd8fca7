package fontposter

import (
	"strings"
	"text/template"
)

const SamplePhrase = "Hello World! 123"

// The font URL and label are inserted verbatim, nothing is escaped.
var posterTemplate = template.Must(template.New("poster").Parse(`
<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <style>
    @font-face {
      font-family: 'CustomFont';
      src: url('{{.FontURL}}') format('truetype');
    }
    html { height: 100%; }
    body {
      margin: 0;
      display: flex;
      justify-content: center;
      align-items: center;
      width: 100%;
      height: 100%;
      background-color: #141414;
      font-family: 'CustomFont', sans-serif;
    }
    .poster > div:first-child { line-height: 1; padding: 0 12px; }
    .poster > div:last-child { font-size: 28px; padding-top: 6px; }
    .poster { text-align: center; font-size: 42px; color: #ffffff; }
  </style>
  <title>Font Preview</title>
</head>
<body>
  <div class="poster">
    <div>{{.Text}}</div>
    <div>{{.Sample}}</div>
  </div>
</body>
</html>
`))

// Build the poster page. fontURL is resolved relative to the page location.
func GenerateHTML(fontURL string, text string) string {
	var sb strings.Builder
	// Executing a parsed template with string fields into a strings.Builder cannot fail
	_ = posterTemplate.Execute(&sb, struct {
		FontURL string
		Text    string
		Sample  string
	}{
		FontURL: fontURL,
		Text:    text,
		Sample:  SamplePhrase,
	})
	return sb.String()
}
