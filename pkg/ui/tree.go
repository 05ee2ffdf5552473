package ui

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/tunebook/pkg/model"
	"github.com/vanderheijden86/tunebook/pkg/treesync"
)

// nodeStyle picks the icon and accent for a row.
type nodeStyle int

const (
	styleBranch nodeStyle = iota
	styleActive
	styleRecording
	styleRange
	styleBookmark
	styleRecent
	styleGroup
)

func styleOf(n *treesync.Node) nodeStyle {
	switch n.Kind {
	case treesync.KindActive:
		if n.Demod.Recording {
			return styleRecording
		}
		return styleActive
	case treesync.KindRange:
		return styleRange
	case treesync.KindBookmark:
		return styleBookmark
	case treesync.KindRecent:
		return styleRecent
	case treesync.KindGroup:
		return styleGroup
	default:
		return styleBranch
	}
}

func (s nodeStyle) icon() string {
	switch s {
	case styleActive:
		return "◆"
	case styleRecording:
		return "●"
	case styleRange:
		return "↔"
	case styleBookmark:
		return "★"
	case styleRecent:
		return "↺"
	case styleGroup:
		return "▣"
	default:
		return ""
	}
}

// TreeView renders the sidebar tree. It holds no nodes of its own: the flat
// list is re-read from the tree after every rebuild and the cursor follows
// the tree's selection.
type TreeView struct {
	theme  Theme
	tree   *treesync.Tree
	flat   []*treesync.Node
	cursor int
	offset int
	width  int
	height int

	activeID uint64 // registry's active demodulator, 0 if none
	cut      treesync.Token
}

func NewTreeView(theme Theme, tree *treesync.Tree) TreeView {
	return TreeView{theme: theme, tree: tree, width: 40, height: 20}
}

func (v *TreeView) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.ensureCursorVisible()
}

// Refresh re-reads the visible rows and moves the cursor onto the
// selection.
func (v *TreeView) Refresh() {
	v.flat = v.tree.Visible()
	if i := v.indexOf(v.tree.SelectedToken()); i >= 0 {
		v.cursor = i
	}
	if v.cursor >= len(v.flat) {
		v.cursor = len(v.flat) - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
	v.ensureCursorVisible()
}

func (v *TreeView) indexOf(tok treesync.Token) int {
	if tok.IsZero() {
		return -1
	}
	for i, n := range v.flat {
		if n.Token() == tok {
			return i
		}
	}
	return -1
}

// Len is the number of visible rows.
func (v *TreeView) Len() int { return len(v.flat) }

// Cursor is the highlighted row index.
func (v *TreeView) Cursor() int { return v.cursor }

// NodeAt returns the row at i, or nil.
func (v *TreeView) NodeAt(i int) *treesync.Node {
	if i < 0 || i >= len(v.flat) {
		return nil
	}
	return v.flat[i]
}

// SetCursor moves the highlight to i.
func (v *TreeView) SetCursor(i int) {
	if i < 0 || i >= len(v.flat) {
		return
	}
	v.cursor = i
	v.ensureCursorVisible()
}

// FirstChildIndex returns the row of n's first child, or -1 when n is
// collapsed or empty.
func (v *TreeView) FirstChildIndex(n *treesync.Node) int {
	if n == nil || !n.Expanded || len(n.Children) == 0 {
		return -1
	}
	return v.indexOf(n.Children[0].Token())
}

// ParentIndex returns the row of n's parent, or -1 for a section.
func (v *TreeView) ParentIndex(n *treesync.Node) int {
	if n == nil || n.Parent == nil {
		return -1
	}
	return v.indexOf(n.Parent.Token())
}

func (v *TreeView) SetActiveID(id uint64)     { v.activeID = id }
func (v *TreeView) SetCut(tok treesync.Token) { v.cut = tok }
func (v *TreeView) CutToken() treesync.Token  { return v.cut }

func (v *TreeView) ensureCursorVisible() {
	h := v.height
	if h <= 0 {
		return
	}
	if v.cursor < v.offset {
		v.offset = v.cursor
	}
	if v.cursor >= v.offset+h {
		v.offset = v.cursor - h + 1
	}
	if maxOff := len(v.flat) - h; v.offset > maxOff {
		v.offset = max(maxOff, 0)
	}
}

func (v *TreeView) visibleRange() (start, end int) {
	start = v.offset
	end = len(v.flat)
	if v.height > 0 && start+v.height < end {
		end = start + v.height
	}
	return start, end
}

// View renders the visible window of rows.
func (v *TreeView) View() string {
	if len(v.flat) == 0 {
		return v.theme.MutedText.Render("  (empty)")
	}

	var sb strings.Builder
	start, end := v.visibleRange()
	selected := v.tree.SelectedToken()
	for i := start; i < end; i++ {
		node := v.flat[i]
		line := v.renderNode(node)
		if i == v.cursor && node.Token() == selected {
			line = v.theme.Selected.Render(line)
		}
		sb.WriteString(line)
		if i < end-1 {
			sb.WriteString("\n")
		}
	}

	if v.height > 0 && len(v.flat) > v.height {
		sb.WriteString("\n")
		sb.WriteString(v.theme.MutedText.Render(fmt.Sprintf(" %d-%d of %d", start+1, end, len(v.flat))))
	}
	return sb.String()
}

func (v *TreeView) renderNode(node *treesync.Node) string {
	r := v.theme.Renderer
	style := styleOf(node)

	prefix := v.buildTreePrefix(node)
	indicator := getExpandIndicator(node)
	label := node.Label
	if node.Kind == treesync.KindBranch {
		label = fmt.Sprintf("%s (%d)", label, len(node.Children))
	}

	var right string
	if f := node.Frequency(); f > 0 && node.Kind != treesync.KindRange {
		right = model.FormatFrequency(f)
	}

	// Widths are computed on plain text and the pieces styled afterwards.
	head := prefix + indicator + " "
	if ic := style.icon(); ic != "" {
		head += ic + " "
	}
	avail := v.width - runewidth.StringWidth(head)
	if right != "" {
		avail -= runewidth.StringWidth(right) + 1
	}
	label = truncate(label, max(avail, 1))
	gap := v.width - runewidth.StringWidth(head) - runewidth.StringWidth(label) - runewidth.StringWidth(right)
	if gap < 1 {
		gap = 1
	}

	var sb strings.Builder
	sb.WriteString(v.theme.MutedText.Render(prefix))
	sb.WriteString(indicator)
	sb.WriteString(" ")
	if ic := style.icon(); ic != "" {
		sb.WriteString(r.NewStyle().Foreground(v.theme.KindColor(style)).Render(ic))
		sb.WriteString(" ")
	}

	switch {
	case node.Token() == v.cut:
		sb.WriteString(v.theme.CutText.Render(label))
	case node.Kind == treesync.KindBranch:
		sb.WriteString(v.theme.BranchText.Render(label))
	case node.Kind == treesync.KindActive && node.Demod.ID == v.activeID:
		sb.WriteString(v.theme.Base.Bold(true).Render(label))
	default:
		sb.WriteString(v.theme.Base.Render(label))
	}
	if right != "" {
		sb.WriteString(strings.Repeat(" ", gap))
		sb.WriteString(v.theme.FreqText.Render(right))
	}
	return sb.String()
}

// buildTreePrefix draws the connector lines for a row. Sections sit at depth
// 0 and have none.
func (v *TreeView) buildTreePrefix(node *treesync.Node) string {
	if node.Depth == 0 {
		return ""
	}

	var parts []string
	ancestors := getAncestors(node)
	// ancestors[0] is the section; its siblings are not drawn.
	for i := 1; i < len(ancestors)-1; i++ {
		if hasSiblingsBelow(ancestors[i]) {
			parts = append(parts, "│   ")
		} else {
			parts = append(parts, "    ")
		}
	}
	if hasSiblingsBelow(node) {
		parts = append(parts, "├── ")
	} else {
		parts = append(parts, "└── ")
	}
	return strings.Join(parts, "")
}

// getAncestors returns the chain from the section down to node itself.
func getAncestors(node *treesync.Node) []*treesync.Node {
	var out []*treesync.Node
	for cur := node; cur != nil; cur = cur.Parent {
		out = append([]*treesync.Node{cur}, out...)
	}
	return out
}

func hasSiblingsBelow(node *treesync.Node) bool {
	if node.Parent == nil {
		return false
	}
	sibs := node.Parent.Children
	for i, s := range sibs {
		if s == node {
			return i < len(sibs)-1
		}
	}
	return false
}

func getExpandIndicator(node *treesync.Node) string {
	if !node.IsExpandable() {
		return "•"
	}
	if node.Expanded {
		return "▾"
	}
	return "▸"
}
