package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/glamour"
)

const helpIntro = `# tunebook

The sidebar has four sections. **Active** lists the running demodulators,
**View Ranges** the saved spectrum windows, **Bookmarks** the saved
frequencies by group and **Recents** what was tuned lately.

Removing an active demodulator keeps it under Recents. Bookmarking a recent
moves it into a group with the same identity.
`

const helpSearch = `## Search

Words are matched against the label, the type and the frequency. Every word
must match. Plain digits match the frequency in hertz; a unit suffix such as
` + "`101.1MHz`" + ` matches the displayed frequency. Groups and sections stay
open while a search is active.
`

// helpMarkdown renders the key map as a markdown document.
func helpMarkdown(k KeyMap) string {
	var sb strings.Builder
	sb.WriteString(helpIntro)
	sb.WriteString("\n## Keys\n\n| Key | Action |\n| --- | --- |\n")
	for _, col := range k.FullHelp() {
		for _, b := range col {
			h := b.Help()
			fmt.Fprintf(&sb, "| `%s` | %s |\n", h.Key, h.Desc)
		}
	}
	sb.WriteString("\n")
	sb.WriteString(helpSearch)
	return sb.String()
}

// renderHelp returns the help text styled for the terminal. It falls back to
// the raw markdown if glamour fails.
func renderHelp(k KeyMap, width int) string {
	md := helpMarkdown(k)
	if width < 20 {
		width = 20
	}
	style := "dark"
	if TermProfile < colorprofile.ANSI {
		style = "notty"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}
