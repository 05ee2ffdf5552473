package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/tunebook/pkg/bookmarks"
	"github.com/vanderheijden86/tunebook/pkg/model"
)

// AssertCounts verifies the number of groups, bookmarks, ranges and recents.
func AssertCounts(t *testing.T, f *bookmarks.File, groups, marks, ranges, recents int) {
	t.Helper()
	n := 0
	for _, g := range f.Groups {
		n += len(g.Bookmarks)
	}
	if len(f.Groups) != groups || n != marks || len(f.Ranges) != ranges || len(f.Recents) != recents {
		t.Errorf("counts: got %d groups, %d bookmarks, %d ranges, %d recents; want %d, %d, %d, %d",
			len(f.Groups), n, len(f.Ranges), len(f.Recents), groups, marks, ranges, recents)
	}
}

// AssertNoDuplicateIDs verifies every bookmark, range and recent ID is
// unique across the file.
func AssertNoDuplicateIDs(t *testing.T, f *bookmarks.File) {
	t.Helper()
	seen := make(map[string]bool)
	check := func(id string) {
		if seen[id] {
			t.Errorf("duplicate ID: %s", id)
		}
		seen[id] = true
	}
	for _, g := range f.Groups {
		for _, b := range g.Bookmarks {
			check(b.ID)
		}
	}
	for _, r := range f.Ranges {
		check(r.ID)
	}
	for _, b := range f.Recents {
		check(b.ID)
	}
}

// AssertAllValid verifies all bookmarks and recents pass validation.
func AssertAllValid(t *testing.T, f *bookmarks.File) {
	t.Helper()
	for _, g := range f.Groups {
		for _, b := range g.Bookmarks {
			if err := b.Validate(); err != nil {
				t.Errorf("group %q: %v", g.Name, err)
			}
		}
	}
	for _, b := range f.Recents {
		if err := b.Validate(); err != nil {
			t.Errorf("recent: %v", err)
		}
	}
	for _, r := range f.Ranges {
		if r.End < r.Start {
			t.Errorf("range %s: end before start", r.ID)
		}
	}
}

// AssertJSONEqual compares two values after JSON encoding.
func AssertJSONEqual(t *testing.T, expected, actual any) {
	t.Helper()

	expectedJSON, err := json.Marshal(expected)
	if err != nil {
		t.Fatalf("failed to marshal expected: %v", err)
	}
	actualJSON, err := json.Marshal(actual)
	if err != nil {
		t.Fatalf("failed to marshal actual: %v", err)
	}
	if string(expectedJSON) != string(actualJSON) {
		t.Errorf("JSON mismatch:\nexpected: %s\nactual:   %s", expectedJSON, actualJSON)
	}
}

// GoldenFile handles golden file comparisons.
type GoldenFile struct {
	t      *testing.T
	dir    string
	name   string
	update bool
}

// NewGoldenFile creates a golden file helper.
// If GENERATE_GOLDEN env var is set, golden files will be updated.
func NewGoldenFile(t *testing.T, dir, name string) *GoldenFile {
	t.Helper()
	return &GoldenFile{
		t:      t,
		dir:    dir,
		name:   name,
		update: os.Getenv("GENERATE_GOLDEN") != "",
	}
}

// Path returns the full path to the golden file.
func (g *GoldenFile) Path() string {
	return filepath.Join(g.dir, g.name)
}

// Assert compares actual content against the golden file.
// If GENERATE_GOLDEN is set, updates the golden file instead.
func (g *GoldenFile) Assert(actual string) {
	g.t.Helper()

	path := g.Path()
	if g.update {
		if err := os.MkdirAll(g.dir, 0o755); err != nil {
			g.t.Fatalf("failed to create golden dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(actual), 0o644); err != nil {
			g.t.Fatalf("failed to write golden file: %v", err)
		}
		g.t.Logf("updated golden file: %s", path)
		return
	}

	expected, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			g.t.Fatalf("golden file does not exist: %s\nRun with GENERATE_GOLDEN=1 to create it", path)
		}
		g.t.Fatalf("failed to read golden file: %v", err)
	}
	if string(expected) == actual {
		return
	}

	expectedLines := strings.Split(string(expected), "\n")
	actualLines := strings.Split(actual, "\n")
	for i := 0; i < len(expectedLines) || i < len(actualLines); i++ {
		var expLine, actLine string
		if i < len(expectedLines) {
			expLine = expectedLines[i]
		}
		if i < len(actualLines) {
			actLine = actualLines[i]
		}
		if expLine != actLine {
			g.t.Errorf("golden file mismatch at line %d:\nexpected: %s\nactual:   %s", i+1, expLine, actLine)
			return
		}
	}
	g.t.Errorf("golden file mismatch (length differs)")
}

// WriteBookmarksFile saves f as a bookmark file under dir and returns its
// path.
func WriteBookmarksFile(t *testing.T, dir string, f *bookmarks.File) string {
	t.Helper()
	s := bookmarks.New()
	if err := s.Replace(f); err != nil {
		t.Fatalf("invalid fixture: %v", err)
	}
	path := filepath.Join(dir, "bookmarks.yaml")
	if err := s.Save(path); err != nil {
		t.Fatalf("failed to write bookmarks file: %v", err)
	}
	return path
}

// FindBookmark returns the bookmark or recent with the given ID, or nil.
func FindBookmark(f *bookmarks.File, id string) *model.Bookmark {
	for _, g := range f.Groups {
		for _, b := range g.Bookmarks {
			if b.ID == id {
				return b
			}
		}
	}
	for _, b := range f.Recents {
		if b.ID == id {
			return b
		}
	}
	return nil
}

// CountByType returns a map of demodulator type to bookmark count.
func CountByType(f *bookmarks.File) map[string]int {
	counts := make(map[string]int)
	for _, g := range f.Groups {
		for _, b := range g.Bookmarks {
			counts[b.Type]++
		}
	}
	return counts
}
