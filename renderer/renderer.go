// Package renderer renders reconstruction results as markdown.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
)

//go:embed templates/*.md
var templates embed.FS

// RenderSummary renders the Summary struct to a markdown string.
func RenderSummary(s *Summary) string {
	partials := map[string]string{
		"summary_title":      "summary_title.md",
		"summary_agents":     "summary_agents.md",
		"summary_references": "summary_references.md",
	}
	if len(s.References) == 0 {
		partials["summary_references"] = ""
	}
	return renderTemplate("summary", "summary.md", partials, s)
}

// RenderHistory renders the History struct to a markdown string.
func RenderHistory(h *History) string {
	return renderTemplate("history", "history.md", nil, h)
}

// RenderTrades renders the Trades struct to a markdown string.
func RenderTrades(t *Trades) string {
	partials := map[string]string{"trades_table": "trades_table.md"}
	if len(t.Trades) == 0 {
		partials["trades_table"] = "trades_none.md"
	}
	return renderTemplate("trades", "trades.md", partials, t)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, "templates/"+mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		// An empty file name is a valid case, resulting in an empty template.
		if file != "" {
			var readErr error
			content, readErr = fs.ReadFile(templates, "templates/"+file)
			if readErr != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, readErr)
			}
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
