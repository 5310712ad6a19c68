package readme

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/animus-coder/readmeart/internal/catalog"
)

const asciiTemplate = `# ASCII Art Generator Output

## Random Prompt

**Model**: {{ .PromptModel.Name }} ({{ .PromptModel.ID }})

**Prompt**: {{ .Prompt }}

## ASCII Art

{{ .Art }}

## Generation Model

**Model**: {{ .ArtModel.Name }} ({{ .ArtModel.ID }})
`

const imageTemplate = `**Model**: [{{ .PromptModel.Name }} ({{ .PromptModel.ID }})]({{ link .PromptModel.HTMLURL }})

**Prompt**: {{ .Prompt }}

## Generated Image

![Generated Image](./images/{{ .ImageName }})
`

var (
	asciiTmpl = template.Must(template.New("ascii").Parse(asciiTemplate))
	imageTmpl = template.Must(template.New("image").Funcs(template.FuncMap{
		"link": func(url string) string {
			if url == "" {
				return "#"
			}
			return url
		},
	}).Parse(imageTemplate))
)

// ASCIIPage is the README written by the ascii command.
type ASCIIPage struct {
	Prompt      string
	PromptModel catalog.Model
	Art         string
	ArtModel    catalog.Model
}

// ImagePage is the README written by the image command.
type ImagePage struct {
	Prompt      string
	PromptModel catalog.Model
	ImageName   string
}

// RenderASCII renders the ASCII art README.
func RenderASCII(p ASCIIPage) (string, error) {
	return render(asciiTmpl, p)
}

// RenderImage renders the image README.
func RenderImage(p ImagePage) (string, error) {
	return render(imageTmpl, p)
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s readme: %w", t.Name(), err)
	}
	return buf.String(), nil
}
