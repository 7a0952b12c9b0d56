package page

import (
	"bytes"
	"html/template"

	"github.com/okian/aquaguard/internal/domain/view"
)

// EntryPath is where the empty-state prompt links to.
const EntryPath = "/data-entry"

var tableTemplate = template.Must(template.New("table").Parse(`
{{- if .Table.Empty -}}
<div class="empty-state">
  <div class="empty-icon">&#128196;</div>
  <p>{{.Table.EmptyMessage}}</p>
  <a href="{{.EntryPath}}" class="btn btn-primary">Add First Record</a>
</div>
{{- else -}}
<table class="data-table">
  <thead>
    <tr>
      <th>Village</th>
      <th>Diarrhea Cases</th>
      <th>Fever Cases</th>
      <th>Rainfall</th>
      <th>Risk Level</th>
      <th>Date</th>
    </tr>
  </thead>
  <tbody>
  {{- range .Table.Rows}}
    <tr>
      <td><strong>{{.Village}}</strong></td>
      <td>{{.Diarrhea}}</td>
      <td>{{.Fever}}</td>
      <td>{{.Rainfall}}</td>
      <td><span class="risk-badge {{.RiskClass}}">{{.Risk}}</span></td>
      <td>{{.Date}}</td>
    </tr>
  {{- end}}
  </tbody>
</table>
{{- end -}}
`))

// renderTable turns a table model into escaped markup. Record fields are
// backend-supplied and always escaped.
func renderTable(t view.Table) template.HTML {
	var buf bytes.Buffer
	data := struct {
		Table     view.Table
		EntryPath string
	}{t, EntryPath}
	if err := tableTemplate.Execute(&buf, data); err != nil {
		return template.HTML("<p>" + template.HTMLEscapeString(err.Error()) + "</p>") //nolint:gosec // escaped above
	}
	return template.HTML(buf.String()) //nolint:gosec // produced by html/template
}
