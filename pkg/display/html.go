package display

import (
	"bytes"
	"fmt"
	"html/template"

	md "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/codeGROOVE-dev/geotz/pkg/tzlookup"
)

// The ids match the slots and blocks so the browser can update them in place.
var panelTemplate = template.Must(template.New("panel").Parse(`<section class="panel" id="{{.Panel}}-panel">
{{- if .IsAddress}}{{if or .ErrorShown (not .Static)}}
<p id="error-message" class="error"{{if not .ErrorShown}} hidden{{end}}>{{.ErrorText}}</p>
{{- end}}{{end}}
{{- if or .DataShown (not .Static)}}
<h2 id="{{.Panel}}-result-title"{{if not .DataShown}} hidden{{end}}>{{.Title}}</h2>
<ul id="{{.Panel}}-timezone-data" class="tz-data"{{if not .DataShown}} hidden{{end}}>
{{- range .Rows}}
<li><strong>{{.Label}}:</strong> <span id="{{.Slot}}">{{.Value}}</span></li>
{{- end}}
</ul>
{{- end}}
</section>`))

type panelView struct {
	Panel      tzlookup.Panel
	Title      string
	ErrorText  string
	Rows       []Row
	IsAddress  bool
	ErrorShown bool
	DataShown  bool
	Static     bool
}

func newPanelView(p tzlookup.Panel, snap Snapshot, static bool) panelView {
	return panelView{
		Panel:      p,
		Title:      Title(p),
		Rows:       Rows(p, snap),
		IsAddress:  p == tzlookup.Address,
		ErrorText:  snap.Text[tzlookup.BlockError],
		ErrorShown: snap.Shown(tzlookup.BlockError),
		DataShown:  resultShown(p, snap),
		Static:     static,
	}
}

// HTML renders panel p as an HTML fragment. Hidden blocks are kept with the
// hidden attribute so a script can reveal them later.
func HTML(p tzlookup.Panel, snap Snapshot) (template.HTML, error) {
	return renderPanel(newPanelView(p, snap, false))
}

// Markdown renders the visible parts of panel p as Markdown.
func Markdown(p tzlookup.Panel, snap Snapshot) (string, error) {
	fragment, err := renderPanel(newPanelView(p, snap, true))
	if err != nil {
		return "", err
	}
	markdown, err := md.ConvertString(string(fragment))
	if err != nil {
		return "", fmt.Errorf("converting panel to markdown: %w", err)
	}
	return markdown, nil
}

func renderPanel(view panelView) (template.HTML, error) {
	var buf bytes.Buffer
	if err := panelTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("rendering %s panel: %w", view.Panel, err)
	}
	return template.HTML(buf.String()), nil //nolint:gosec // produced by html/template
}
