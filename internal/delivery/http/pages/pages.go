// Package pages serves the static informational pages rendered from embedded Markdown.
package pages

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
)

//go:embed content/*.md
var content embed.FS

const layout = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
</head>
<body>
<main>
{{.Body}}
</main>
</body>
</html>
`

type page struct {
	Title string
	Body  template.HTML
}

// Pages holds the pre-rendered HTML of every page. Markdown is converted once at start-up.
type Pages struct {
	rendered map[string][]byte
}

// New renders every embedded page through the layout.
func New() (*Pages, error) {
	tmpl, err := template.New("layout").Parse(layout)
	if err != nil {
		return nil, errors.Wrap(err, "parse page layout")
	}

	p := &Pages{rendered: make(map[string][]byte)}
	for name, title := range map[string]string{
		"home":      "Integrated PG & Tiffin Management",
		"dashboard": "Dashboard",
	} {
		md, err := content.ReadFile("content/" + name + ".md")
		if err != nil {
			return nil, errors.Wrapf(err, "read page %s", name)
		}

		var body bytes.Buffer
		if err := goldmark.Convert(md, &body); err != nil {
			return nil, errors.Wrapf(err, "render page %s", name)
		}

		var out bytes.Buffer
		if err := tmpl.Execute(&out, page{Title: title, Body: template.HTML(body.String())}); err != nil {
			return nil, errors.Wrapf(err, "execute layout for %s", name)
		}
		p.rendered[name] = out.Bytes()
	}

	return p, nil
}

// Home handles GET /.
func (p *Pages) Home(c echo.Context) error {
	return p.serve(c, "home")
}

// Dashboard handles GET /dashboard.
func (p *Pages) Dashboard(c echo.Context) error {
	return p.serve(c, "dashboard")
}

func (p *Pages) serve(c echo.Context, name string) error {
	return c.HTMLBlob(http.StatusOK, p.rendered[name])
}
