// Package renderer converts workbook sheets into markdown documents.
//
// The rendering is done in two phases: first the sheet is flattened into a
// view model (plain structs with pre-formatted strings), then the view is fed
// through a text/template whose partials live as embedded markdown files.
package renderer

import (
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	tracker "github.com/rohanveit/monzo-tracker"
)

// MonthMarkdown renders a monthly sheet to a markdown string.
func MonthMarkdown(s *tracker.Sheet) string {
	partials := map[string]string{
		"month_section": "month_section.md",
		"month_footer":  "month_footer.md",
	}
	return renderTemplate("month", "month.md", partials, newMonthView(s))
}

// OverviewMarkdown renders a yearly overview sheet to a markdown string.
func OverviewMarkdown(s *tracker.Sheet) string {
	partials := map[string]string{
		"overview_section": "overview_section.md",
	}
	return renderTemplate("overview", "overview.md", partials, newOverviewView(s))
}

// WorkbookMarkdown renders the table of contents of a whole workbook.
func WorkbookMarkdown(store *tracker.Store) string {
	return renderTemplate("workbook", "workbook.md", nil, newWorkbookView(store))
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
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
