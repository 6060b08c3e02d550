package server

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/lox/partycards/internal/packs"
	"github.com/yuin/goldmark"
)

var indexTemplate = template.Must(template.New("index").Parse(`<!doctype html>
<html>
<head><meta charset="utf-8"><title>partycards</title></head>
<body>
<h1>Card packs</h1>
{{- if not .}}
<p>No pack collections loaded.</p>
{{- end}}
{{- range .}}
<section>
<h2>{{.Name}}</h2>
<p>{{.White}} white cards, {{.Black}} black cards</p>
<ul>
{{- range .Packs}}
<li>
<a href="/game?packs={{.Selection}}">{{.Name}}</a>{{if .Official}} (official){{end}}
{{.Description}}
</li>
{{- end}}
</ul>
</section>
{{- end}}
</body>
</html>
`))

type indexPack struct {
	Name        string
	Selection   string
	Official    bool
	Description template.HTML
}

type indexCollection struct {
	Name  string
	White int
	Black int
	Packs []indexPack
}

// renderMarkdown converts a pack description to HTML. Raw HTML in the
// source is not passed through.
func renderMarkdown(md goldmark.Markdown, src string) (template.HTML, error) {
	if src == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	md := goldmark.New()

	var view []indexCollection
	for _, e := range s.manager.Entries() {
		ic := indexCollection{Name: e.Name, White: len(e.Collection.White), Black: len(e.Collection.Black)}
		for _, p := range packs.ListPacks(e.Collection) {
			desc, err := renderMarkdown(md, p.Pack.Description)
			if err != nil {
				s.logger.Warn("Failed to render pack description", "pack", p.Key, "error", err)
			}
			ic.Packs = append(ic.Packs, indexPack{
				Name:        p.Pack.Name,
				Selection:   packs.RawSelection{Collection: e.Name, Pack: p.Key}.String(),
				Official:    p.Pack.Official,
				Description: desc,
			})
		}
		view = append(view, ic)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, view); err != nil {
		s.logger.Error("Failed to render index", "error", err)
	}
}
