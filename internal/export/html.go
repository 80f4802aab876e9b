package export

import (
	"html/template"
	"io"

	"github.com/ppiankov/chatnow/internal/render"
	"github.com/ppiankov/chatnow/internal/result"
)

var htmlTemplate = template.Must(template.New("reply").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>chatnow reply</title>
</head>
<body>
<p><small>Generated {{.Metadata.GeneratedAt.Format "2006-01-02 15:04:05 UTC"}} by chatnow {{.Metadata.ChatnowVersion}}, model {{.Reply.Model}}</small></p>
<blockquote style="white-space: pre-wrap">{{.Reply.Message}}</blockquote>
{{if .List}}<ul>
{{range .Reply.Segments}}<li>{{.Text}}</li>
{{end}}</ul>
{{else}}<p style="white-space: pre-wrap">{{range .Reply.Segments}}{{if eq .Kind "link"}}<a href="{{.Text}}" target="_blank" rel="noopener noreferrer">{{.Text}}</a>{{else}}{{.Text}}{{end}}{{end}}</p>
{{end}}</body>
</html>
`))

type htmlData struct {
	Metadata ExportMetadata
	Reply    *result.Reply
	List     bool
}

// exportHTML renders a bullet list, or text whose links open in a new tab
// without a back-reference to the opening page.
func exportHTML(r *result.Reply, metadata ExportMetadata, w io.Writer) error {
	return htmlTemplate.Execute(w, htmlData{
		Metadata: metadata,
		Reply:    r,
		List:     render.IsList(r.Segments),
	})
}
