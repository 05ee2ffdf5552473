package ui

import (
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/tunebook/pkg/model"
	"github.com/vanderheijden86/tunebook/pkg/treesync"
)

func plainTheme() Theme {
	return DefaultTheme(lipgloss.NewRenderer(io.Discard))
}

func newTestTree(t *testing.T) (*testApp, TreeView) {
	t.Helper()
	a := newTestApp()
	for _, b := range []*model.Bookmark{
		model.NewBookmark("NPR", "FM", 91_500_000, 200_000),
		model.NewBookmark("Jazz", "FM", 88_900_000, 200_000),
	} {
		if err := a.store.AddBookmark("FM", b); err != nil {
			t.Fatal(err)
		}
	}
	if err := a.store.AddBookmark("AM", model.NewBookmark("WBZ", "AM", 1_030_000, 10_000)); err != nil {
		t.Fatal(err)
	}
	a.sync.Tick()

	v := NewTreeView(plainTheme(), a.sync.Engine().Tree())
	v.SetSize(50, 40)
	v.Refresh()
	return a, v
}

func TestTreeViewConnectors(t *testing.T) {
	_, v := newTestTree(t)
	out := v.View()

	for _, want := range []string{"▾ Bookmarks", "├── ▾ ▣ AM", "└── ▾ ▣ FM", "    ├── • ★ Jazz", "    └── • ★ NPR", "│   └── • ★ WBZ"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q\n%s", want, out)
		}
	}
	if !strings.Contains(out, "▸ View Ranges") {
		t.Error("ranges start collapsed")
	}
}

func TestTreeViewFrequencyRightAligned(t *testing.T) {
	_, v := newTestTree(t)
	for _, line := range strings.Split(v.View(), "\n") {
		if strings.Contains(line, "NPR") {
			if !strings.HasSuffix(line, "91.5MHz") {
				t.Errorf("frequency should end the row: %q", line)
			}
			return
		}
	}
	t.Fatal("NPR row not rendered")
}

func TestTreeViewCursorFollowsSelection(t *testing.T) {
	a, v := newTestTree(t)
	tree := a.sync.Engine().Tree()
	tok := treesync.GroupToken("FM")
	if !tree.Select(tok) {
		t.Fatal("FM group not found")
	}
	v.Refresh()
	if n := v.NodeAt(v.Cursor()); n == nil || n.Token() != tok {
		t.Fatalf("cursor on %v, want %v", n, tok)
	}
	if i := v.FirstChildIndex(v.NodeAt(v.Cursor())); i != v.Cursor()+1 {
		t.Errorf("first child at %d, want %d", i, v.Cursor()+1)
	}
	if p := v.NodeAt(v.ParentIndex(v.NodeAt(v.Cursor()))); p == nil || p.Branch != treesync.BranchBookmarks {
		t.Errorf("parent = %v", p)
	}
}

func TestTreeViewScrolls(t *testing.T) {
	a, v := newTestTree(t)
	v.SetSize(50, 3)
	last := v.Len() - 1
	if !a.sync.Engine().Tree().Select(v.NodeAt(last).Token()) {
		t.Fatal("select failed")
	}
	v.Refresh()

	out := v.View()
	if !strings.Contains(out, "Recents") {
		t.Errorf("last row should be scrolled into view:\n%s", out)
	}
	if strings.Contains(out, "Active") {
		t.Errorf("first row should be scrolled out:\n%s", out)
	}
	if !strings.Contains(out, "of 9") {
		t.Errorf("expected a position indicator:\n%s", out)
	}
}

func TestTreeViewEmpty(t *testing.T) {
	v := NewTreeView(plainTheme(), treesync.NewTree(nil))
	if !strings.Contains(v.View(), "empty") {
		t.Error("an unrefreshed view has no rows")
	}
}

func TestExpandIndicator(t *testing.T) {
	tests := []struct {
		name string
		node *treesync.Node
		want string
	}{
		{"open section", &treesync.Node{Kind: treesync.KindBranch, Expanded: true}, "▾"},
		{"closed group", &treesync.Node{Kind: treesync.KindGroup}, "▸"},
		{"empty open group", &treesync.Node{Kind: treesync.KindGroup, Expanded: true}, "▾"},
		{"leaf", &treesync.Node{Kind: treesync.KindRecent, Entry: &model.Bookmark{}}, "•"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := getExpandIndicator(tt.node); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
