package views

import (
	"html"
	"html/template"
	"strings"
	"time"

	"github.com/eringen/pubhouse/content"
)

var funcs = template.FuncMap{
	"date":       formatDate,
	"paragraphs": paragraphs,
	"jsonld":     func(s string) template.JS { return template.JS(s) },
	"join":       strings.Join,
	"inCategory": inCategory,
}

func formatDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

// paragraphs escapes text and turns blank-line separated blocks into <p>
// elements and single newlines into <br>.
func paragraphs(text string) template.HTML {
	text = strings.ReplaceAll(strings.TrimSpace(text), "\r\n", "\n")
	if text == "" {
		return ""
	}
	var b strings.Builder
	for _, block := range strings.Split(text, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		lines := strings.Split(block, "\n")
		for i := range lines {
			lines[i] = html.EscapeString(lines[i])
		}
		b.WriteString("<p>")
		b.WriteString(strings.Join(lines, "<br>"))
		b.WriteString("</p>\n")
	}
	return template.HTML(b.String())
}

// inCategory reports whether p is filed under the category id.
func inCategory(p *content.Post, id int64) bool {
	return p != nil && p.CategoryID != nil && *p.CategoryID == id
}
