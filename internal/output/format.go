// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"

	"bizdesk/internal/entity"
	"bizdesk/internal/view"
)

// NoRecords is printed for an empty list unless quiet.
const NoRecords = "no records found"

// FormatSections prints one line per section: name, title, and a search
// marker when the backend can filter it by name.
// Format: "{NAME:<8}  {TITLE:<9}{  [search]}\n"
func FormatSections(w io.Writer, sections []entity.Section) {
	for _, s := range sections {
		line := fmt.Sprintf("%-8s  %-9s", s.Name(), s.Title())
		if s.Searchable() {
			line += "  [search]"
		}
		fmt.Fprintln(w, trimRight(line))
	}
}

// FormatList prints a rendered list as a table or as cards.
func FormatList(w io.Writer, state view.State, styles view.Styles, quiet bool) {
	if state.Len() == 0 {
		if !quiet {
			fmt.Fprintln(w, NoRecords)
		}
		return
	}
	fmt.Fprint(w, view.Text(state, styles, -1))
}

// FormatForm prints the form caption followed by "key: value" lines in field order.
func FormatForm(w io.Writer, form entity.Form, fields []entity.Field) {
	fmt.Fprintln(w, form.Title)
	for _, f := range fields {
		fmt.Fprintf(w, "  %s: %s\n", f.Key, form.Values[f.Key])
	}
}

func trimRight(s string) string {
	i := len(s)
	for i > 0 && s[i-1] == ' ' {
		i--
	}
	return s[:i]
}
