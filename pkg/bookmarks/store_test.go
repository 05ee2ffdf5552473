package bookmarks

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"github.com/vanderheijden86/tunebook/pkg/model"
)

type recorder struct {
	mu        sync.Mutex
	bookmarks int
	groups    []string
	active    int
}

func (r *recorder) InvalidateBookmarks() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookmarks++
}

func (r *recorder) InvalidateBookmarkGroup(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.groups = append(r.groups, name)
}

func (r *recorder) InvalidateActiveList() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active++
}

func bm(label string, freq int64) *model.Bookmark {
	return model.NewBookmark(label, "FM", freq, 200000)
}

func TestGroupsSortedAndBookmarksByFrequency(t *testing.T) {
	s := New()
	_ = s.AddBookmark("FM", bm("b", 101000000))
	_ = s.AddBookmark("FM", bm("a", 91500000))
	_ = s.AddBookmark("AM", bm("c", 1030000))
	_ = s.AddGroup("Ham")

	if got, want := s.Groups(), []string{"AM", "FM", "Ham"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("groups = %v, want %v", got, want)
	}
	fm := s.Bookmarks("FM")
	if len(fm) != 2 || fm[0].Label != "a" || fm[1].Label != "b" {
		t.Fatalf("FM not sorted by frequency: %v", fm)
	}
	if s.Bookmarks("nope") != nil {
		t.Fatal("unknown group should yield nil")
	}
}

func TestAddGroupRejectsEmptyName(t *testing.T) {
	s := New()
	if err := s.AddGroup("   "); !errors.Is(err, ErrEmptyGroupName) {
		t.Fatalf("err = %v", err)
	}
	if err := s.AddGroup(" Scanner "); err != nil {
		t.Fatal(err)
	}
	if !s.HasGroup("Scanner") {
		t.Fatal("group name should be trimmed")
	}
}

func TestRenameGroup(t *testing.T) {
	s := New()
	_ = s.AddBookmark("Old", bm("x", 100))
	if err := s.RenameGroup("Old", "New"); err != nil {
		t.Fatal(err)
	}
	if s.HasGroup("Old") || len(s.Bookmarks("New")) != 1 {
		t.Fatalf("rename failed: %v", s.Groups())
	}
	if err := s.RenameGroup("missing", "x"); !errors.Is(err, ErrGroupNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestRenameGroupMergesIntoExisting(t *testing.T) {
	s := New()
	_ = s.AddBookmark("A", bm("a", 100))
	_ = s.AddBookmark("B", bm("b", 200))
	if err := s.RenameGroup("A", "B"); err != nil {
		t.Fatal(err)
	}
	if got := len(s.Bookmarks("B")); got != 2 {
		t.Fatalf("merged group has %d bookmarks", got)
	}
	if len(s.Groups()) != 1 {
		t.Fatalf("groups = %v", s.Groups())
	}
}

func TestMoveBookmark(t *testing.T) {
	s := New()
	b := bm("x", 100)
	_ = s.AddBookmark("A", b)
	if err := s.MoveBookmark(b.ID, "B"); err != nil {
		t.Fatal(err)
	}
	if len(s.Bookmarks("A")) != 0 || len(s.Bookmarks("B")) != 1 {
		t.Fatal("bookmark not moved")
	}
	if _, g, ok := s.FindBookmark(b.ID); !ok || g != "B" {
		t.Fatalf("FindBookmark = %q %v", g, ok)
	}
	if err := s.MoveBookmark("nope", "B"); !errors.Is(err, ErrBookmarkNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestRemoveBookmarkAndGroup(t *testing.T) {
	s := New()
	b := bm("x", 100)
	_ = s.AddBookmark("A", b)
	if err := s.RemoveBookmark(b.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.RemoveBookmark(b.ID); !errors.Is(err, ErrBookmarkNotFound) {
		t.Fatalf("err = %v", err)
	}
	if !s.HasGroup("A") {
		t.Fatal("removing the last bookmark keeps the group")
	}
	if err := s.RemoveGroup("A"); err != nil {
		t.Fatal(err)
	}
	if err := s.RemoveGroup("A"); !errors.Is(err, ErrGroupNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestRecentsCapAndDedup(t *testing.T) {
	s := New(WithMaxRecents(3))
	for i := int64(1); i <= 5; i++ {
		_ = s.AddRecent(bm("", i*1000))
	}
	rec := s.Recents()
	if len(rec) != 3 || rec[0].Frequency != 3000 || rec[2].Frequency != 5000 {
		t.Fatalf("recents = %v", rec)
	}

	dup := model.NewBookmark("", "FM", 3000, 200000)
	_ = s.AddRecent(dup)
	rec = s.Recents()
	if len(rec) != 3 || rec[2].ID != dup.ID {
		t.Fatalf("duplicate should move to the end: %v", rec)
	}

	if err := s.RemoveRecent(dup.ID); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.FindRecent(dup.ID); ok {
		t.Fatal("recent not removed")
	}
	s.ClearRecents()
	if len(s.Recents()) != 0 {
		t.Fatal("recents not cleared")
	}
}

func TestRangesSortedAndUpdated(t *testing.T) {
	s := New()
	air := model.NewRange("Air", 118000000, 137000000)
	fm := model.NewRange("FM", 88000000, 108000000)
	s.AddRange(air)
	s.AddRange(fm)
	if r := s.Ranges(); r[0] != fm || r[1] != air {
		t.Fatal("ranges not sorted by start")
	}
	err := s.UpdateRange(fm.ID, func(r *model.Range) {
		r.Start, r.End = 108000000, 87500000
	})
	if err != nil {
		t.Fatal(err)
	}
	if fm.Start != 87500000 || fm.End != 108000000 {
		t.Fatalf("bounds not reordered: %+v", fm)
	}
	if err := s.RemoveRange(air.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.RemoveRange(air.ID); !errors.Is(err, ErrRangeNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestNotifications(t *testing.T) {
	s := New()
	r := &recorder{}
	s.Subscribe(r)

	b := bm("x", 100)
	_ = s.AddBookmark("FM", b)
	if !reflect.DeepEqual(r.groups, []string{"FM"}) {
		t.Fatalf("add bookmark signalled %v", r.groups)
	}
	_ = s.MoveBookmark(b.ID, "AM")
	if !reflect.DeepEqual(r.groups, []string{"FM", "AM", "FM"}) {
		t.Fatalf("move should signal both groups, got %v", r.groups)
	}
	_ = s.RenameGroup("AM", "MW")
	if r.bookmarks != 1 {
		t.Fatalf("rename should invalidate all bookmarks, got %d", r.bookmarks)
	}
	_ = s.AddRecent(bm("", 5))
	s.AddRange(model.NewRange("", 1, 2))
	if r.active != 2 {
		t.Fatalf("recents and ranges signal the active list, got %d", r.active)
	}
	_ = s.SetGroupExpanded("MW", false)
	_ = s.SetGroupExpanded("MW", false)
	if got := r.groups[len(r.groups)-1]; got != "MW" || len(r.groups) != 4 {
		t.Fatalf("expand change should signal once: %v", r.groups)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "bookmarks.yaml")
	s := New()
	b := bm("NPR", 91500000)
	_ = s.AddBookmark("FM", b)
	_ = s.AddGroup("Empty")
	_ = s.SetGroupExpanded("Empty", false)
	rng := model.NewRange("Air", 118000000, 137000000)
	s.AddRange(rng)
	rec := bm("", 146520000)
	_ = s.AddRecent(rec)

	if err := s.Save(path); err != nil {
		t.Fatal(err)
	}

	loaded := New()
	r := &recorder{}
	loaded.Subscribe(r)
	if err := loaded.Load(path); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(loaded.Snapshot(), s.Snapshot()) {
		t.Fatalf("round trip mismatch:\n%+v\n%+v", loaded.Snapshot(), s.Snapshot())
	}
	if loaded.GroupExpanded("Empty") {
		t.Fatal("group expand state lost")
	}
	if r.bookmarks != 1 || r.active != 1 {
		t.Fatalf("load should invalidate everything: %+v", r)
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Fatalf("temp files left behind: %v", entries)
	}
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	s := New()
	if err := s.Load(filepath.Join(t.TempDir(), "none.yaml")); err != nil {
		t.Fatal(err)
	}
	if g, b, r, rc := s.Counts(); g+b+r+rc != 0 {
		t.Fatal("store should be empty")
	}
}

func TestLoadRejectsBadFiles(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		body string
		want error
	}{
		{"garbage", "groups: [\n", nil},
		{"future version", "version: 99\n", nil},
		{"zero frequency", "groups:\n  - name: FM\n    bookmarks:\n      - id: a\n        type: FM\n", nil},
		{"id in two groups", `groups:
  - name: AM
    bookmarks:
      - {id: dup, type: AM, frequency: 1030000, bandwidth: 10000}
  - name: FM
    bookmarks:
      - {id: dup, type: FM, frequency: 91500000, bandwidth: 200000}
`, ErrDuplicateID},
		{"duplicate range", `ranges:
  - {id: r1, start: 1000, end: 2000}
  - {id: r1, start: 3000, end: 4000}
`, ErrDuplicateID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".yaml")
			if err := os.WriteFile(path, []byte(tt.body), 0o644); err != nil {
				t.Fatal(err)
			}
			s := New()
			err := s.Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if groups, marks, ranges, _ := s.Counts(); groups+marks+ranges != 0 {
				t.Fatal("a rejected file must leave the store untouched")
			}
		})
	}
}

func TestLoadDropsRecentsWithTakenIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookmarks.yaml")
	body := `groups:
  - name: FM
    bookmarks:
      - {id: npr, type: FM, frequency: 91500000, bandwidth: 200000}
recents:
  - {id: npr, type: FM, frequency: 91500000, bandwidth: 200000}
  - {id: r1, type: AM, frequency: 1030000, bandwidth: 10000}
  - {id: r1, type: AM, frequency: 1030000, bandwidth: 10000}
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	s := New()
	if err := s.Load(path); err != nil {
		t.Fatal(err)
	}
	recents := s.Recents()
	if len(recents) != 1 || recents[0].ID != "r1" {
		t.Fatalf("recents = %+v", recents)
	}
	if err := s.RemoveBookmark("npr"); err != nil {
		t.Fatal(err)
	}
	if _, _, ok := s.FindBookmark("npr"); ok {
		t.Fatal("bookmark still present")
	}
}
