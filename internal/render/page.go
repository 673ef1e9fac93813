package render

import (
	_ "embed"
	"html/template"
	"io"

	"github.com/rotisserie/eris"
)

//go:embed templates/page.html.tmpl
var pageSource string

var pageTmpl = template.Must(template.New("page").Parse(pageSource))

// Option is one entry of the mode selector.
type Option struct {
	Value string
	Label string
}

// Page is everything shown for one request: the controls of the selected mode
// and that mode's output.
type Page struct {
	Title       string
	Region      string
	Modes       []Option
	Selected    string
	Heading     string
	Description string
	Error       string

	Latitude      float64
	Longitude     float64
	RadiusKm      int
	BufferKm      int
	MaxDistanceKm int

	Map   *MapView
	Table *Table
	Embed *Embed
}

type pageData struct {
	Page
	MapJS template.JS
}

// WritePage renders p as a complete HTML document.
func WritePage(w io.Writer, p Page) error {
	data := pageData{Page: p}
	if p.Map != nil {
		js, err := p.Map.Script()
		if err != nil {
			return err
		}
		data.MapJS = js
	}
	if data.MaxDistanceKm <= 0 {
		data.MaxDistanceKm = 100
	}
	if err := pageTmpl.Execute(w, data); err != nil {
		return eris.Wrap(err, "render: execute page template")
	}
	return nil
}
