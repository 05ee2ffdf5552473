package treesync

import (
	"testing"

	"github.com/vanderheijden86/tunebook/pkg/testutil"
)

func TestEngineWithGeneratedStore(t *testing.T) {
	store, err := testutil.NewDefault().Store()
	if err != nil {
		t.Fatal(err)
	}
	e := NewEngine(store, &fakeDemods{}, nil)
	e.RefreshActive(Hint{})
	e.RefreshBookmarks(Hint{})

	tree := e.Tree()
	if got := tree.Count(KindGroup); got != 3 {
		t.Errorf("groups = %d, want 3", got)
	}
	if got := tree.Count(KindBookmark); got != 12 {
		t.Errorf("bookmarks = %d, want 12", got)
	}
	if got := tree.Count(KindRange); got != 2 {
		t.Errorf("ranges = %d, want 2", got)
	}

	// Group 02 is collapsed and View Ranges is closed by default:
	// 4 sections, 3 groups, 8 bookmarks and 3 recents.
	if got := len(tree.Visible()); got != 18 {
		t.Errorf("visible rows = %d, want 18", got)
	}
}

func benchSync(b *testing.B, groups, perGroup int) (*Sync, []string) {
	b.Helper()
	store := testutil.QuickStore(groups, perGroup)
	s := NewSync(NewEngine(store, &fakeDemods{}, nil))
	s.Tick()
	return s, store.Groups()
}

func BenchmarkTickFullRebuild(b *testing.B) {
	s, _ := benchSync(b, 50, 40)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.InvalidateAll()
		s.Tick()
	}
}

func BenchmarkTickCoalesced(b *testing.B) {
	s, groups := benchSync(b, 50, 40)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, g := range groups {
			s.InvalidateBookmarkGroup(g)
		}
		s.Tick()
	}
}

func BenchmarkSearch(b *testing.B) {
	s, _ := benchSync(b, 50, 40)
	kw := ParseKeywords("station 7")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.SetKeywords(kw)
		s.Tick()
		s.SetKeywords(nil)
		s.Tick()
	}
}
