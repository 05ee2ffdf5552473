package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/tunebook/pkg/bookmarks"
	"github.com/vanderheijden86/tunebook/pkg/config"
	"github.com/vanderheijden86/tunebook/pkg/demod"
	"github.com/vanderheijden86/tunebook/pkg/export"
	"github.com/vanderheijden86/tunebook/pkg/model"
	"github.com/vanderheijden86/tunebook/pkg/treesync"
)

// buildListTree builds the tree the sidebar would show, without live
// demodulators.
func buildListTree(store *bookmarks.Store, cfg config.Config, search string) *treesync.Tree {
	engine := treesync.NewEngine(store, demod.NewRegistry(), cfg.ExpandState())
	engine.SetKeywords(treesync.ParseKeywords(search))
	engine.RefreshActive(treesync.Hint{})
	engine.RefreshBookmarks(treesync.Hint{})
	return engine.Tree()
}

// writeList prints every section, ignoring collapsed state. Empty sections
// are skipped.
func writeList(w io.Writer, tree *treesync.Tree) error {
	var sb strings.Builder
	for _, root := range tree.Roots() {
		if len(root.Children) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "%s\n", root.Label)
		writeNodes(&sb, root.Children)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeNodes(sb *strings.Builder, nodes []*treesync.Node) {
	for _, n := range nodes {
		indent := strings.Repeat("  ", n.Depth)
		switch n.Kind {
		case treesync.KindGroup:
			fmt.Fprintf(sb, "%s%s/\n", indent, n.Label)
		case treesync.KindRange:
			fmt.Fprintf(sb, "%s%-28s %s - %s\n", indent, n.Label,
				model.FormatFrequency(n.Range.Start), model.FormatFrequency(n.Range.End))
		case treesync.KindBookmark, treesync.KindRecent:
			e := n.Entry
			fmt.Fprintf(sb, "%s%-28s %12s %-5s %s\n", indent, n.Label,
				model.FormatFrequency(e.Frequency), e.Type, model.FormatFrequency(e.Bandwidth))
		default:
			fmt.Fprintf(sb, "%s%s\n", indent, n.Label)
		}
		writeNodes(sb, n.Children)
	}
}

type listEntry struct {
	Section   string `json:"section"`
	Kind      string `json:"kind"`
	ID        string `json:"id"`
	Label     string `json:"label"`
	Group     string `json:"group,omitempty"`
	Type      string `json:"type,omitempty"`
	Frequency int64  `json:"frequency,omitempty"`
	Bandwidth int64  `json:"bandwidth,omitempty"`
	Start     int64  `json:"start,omitempty"`
	End       int64  `json:"end,omitempty"`
}

func listEntries(tree *treesync.Tree) []listEntry {
	out := []listEntry{}
	tree.Walk(func(n *treesync.Node) bool {
		e := listEntry{
			Section: string(n.Token().Branch()),
			Kind:    n.Kind.String(),
			ID:      n.Token().ID,
			Label:   n.Label,
			Group:   n.Group,
		}
		switch n.Kind {
		case treesync.KindBranch:
			return true
		case treesync.KindRange:
			e.Start, e.End = n.Range.Start, n.Range.End
		case treesync.KindBookmark, treesync.KindRecent:
			e.Type = n.Entry.Type
			e.Frequency, e.Bandwidth = n.Entry.Frequency, n.Entry.Bandwidth
		}
		out = append(out, e)
		return true
	})
	return out
}

func writeListJSON(w io.Writer, tree *treesync.Tree) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(listEntries(tree))
}

func printExportResult(w io.Writer, res export.Result) {
	m := res.Meta
	fmt.Fprintf(w, "Exported %d bookmarks in %d groups, %d ranges, %d recents\n",
		m.BookmarkCount, m.GroupCount, m.RangeCount, m.RecentCount)
	if res.Database != "" {
		fmt.Fprintf(w, "  SQLite: %s\n", res.Database)
	}
	if res.JSON != "" {
		fmt.Fprintf(w, "  JSON:   %s\n", res.JSON)
	}
}
