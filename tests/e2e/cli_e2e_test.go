package main_test

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/tunebook/pkg/testutil"

	_ "modernc.org/sqlite"
)

func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	if err != nil {
		return -1
	}
	return 0
}

func generatedBookmarks(t *testing.T, dir string, groups, perGroup int) string {
	t.Helper()
	return testutil.WriteBookmarksFile(t, dir, testutil.QuickFile(groups, perGroup))
}

func TestVersion(t *testing.T) {
	out, _, err := runTunebook(t, t.TempDir(), "--version")
	if err != nil {
		t.Fatalf("--version failed: %v", err)
	}
	if !strings.HasPrefix(out, "tunebook ") {
		t.Errorf("version output = %q", out)
	}
}

func TestListPlain(t *testing.T) {
	dir := t.TempDir()
	path := generatedBookmarks(t, dir, 3, 2)

	out, stderr, err := runTunebook(t, dir, "--bookmarks", path, "--list")
	if err != nil {
		t.Fatalf("--list failed: %v\n%s", err, stderr)
	}
	for _, want := range []string{"View Ranges", "Bookmarks", "Group 00/", "Group 02/", "Station 2.1", "Recents"} {
		if !strings.Contains(out, want) {
			t.Errorf("list missing %q:\n%s", want, out)
		}
	}
}

func TestListJSONAndSearch(t *testing.T) {
	dir := t.TempDir()
	path := generatedBookmarks(t, dir, 4, 5)

	out, stderr, err := runTunebook(t, dir, "--bookmarks", path, "--list", "--json")
	if err != nil {
		t.Fatalf("--list --json failed: %v\n%s", err, stderr)
	}
	var entries []map[string]any
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	n := 0
	for _, e := range entries {
		if e["kind"] == "bookmark" {
			n++
		}
	}
	if n != 20 {
		t.Errorf("bookmarks = %d, want 20", n)
	}

	out, _, err = runTunebook(t, dir, "--bookmarks", path, "--list", "--json", "--search", "station 3.4")
	if err != nil {
		t.Fatal(err)
	}
	entries = nil
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatal(err)
	}
	var labels []string
	for _, e := range entries {
		if e["kind"] == "bookmark" {
			labels = append(labels, e["label"].(string))
		}
	}
	// "3.4" can also match a frequency such as 93.4MHz.
	found := false
	for _, l := range labels {
		found = found || l == "Station 3.4"
	}
	if !found || len(labels) >= 20 {
		t.Errorf("search matched %v", labels)
	}
}

func TestNoTerminal(t *testing.T) {
	_, stderr, err := runTunebook(t, t.TempDir())
	if code := exitCode(err); code != 2 {
		t.Fatalf("exit code = %d, want 2 (%s)", code, stderr)
	}
	if !strings.Contains(stderr, "needs a terminal") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestBrokenBookmarkFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bookmarks.yaml")
	if err := os.WriteFile(path, []byte("groups: [\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, stderr, err := runTunebook(t, dir, "--bookmarks", path, "--list")
	if code := exitCode(err); code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr, "Error loading bookmarks") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestExportWithHooks(t *testing.T) {
	dir := t.TempDir()
	path := generatedBookmarks(t, dir, 2, 3)

	hooksDir := filepath.Join(dir, "config", "tunebook")
	if err := os.MkdirAll(hooksDir, 0o755); err != nil {
		t.Fatal(err)
	}
	hooksYAML := `
hooks:
  pre-export:
    - name: announce
      command: echo "exporting $TUNEBOOK_BOOKMARK_COUNT"
  post-export:
    - name: check-db
      command: test -s "$TUNEBOOK_EXPORT_SQLITE" && echo db-ok
`
	if err := os.WriteFile(filepath.Join(hooksDir, "hooks.yaml"), []byte(hooksYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	outDir := filepath.Join(dir, "export")
	jsonPath := filepath.Join(dir, "bookmarks.json")
	out, stderr, err := runTunebook(t, dir, "--bookmarks", path, "--export-sqlite", outDir, "--export-json", jsonPath)
	if err != nil {
		t.Fatalf("export failed: %v\n%s", err, stderr)
	}
	if !strings.Contains(out, "Exported 6 bookmarks in 2 groups") {
		t.Errorf("stdout = %q", out)
	}
	for _, want := range []string{"exporting 6", "db-ok"} {
		if !strings.Contains(stderr, want) {
			t.Errorf("hook output missing %q:\n%s", want, stderr)
		}
	}

	db, err := sql.Open("sqlite", filepath.Join(outDir, "tunebook.sqlite3"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM bookmarks`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 6 {
		t.Errorf("exported bookmarks = %d, want 6", n)
	}
	if _, err := os.Stat(jsonPath); err != nil {
		t.Errorf("JSON export missing: %v", err)
	}

	_, stderr, err = runTunebook(t, dir, "--bookmarks", path, "--export-json", jsonPath, "--no-hooks")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(stderr, "exporting") {
		t.Errorf("--no-hooks still ran hooks: %s", stderr)
	}
}

func TestTUIStartsAndQuits(t *testing.T) {
	skipIfNoScriptTUI(t)

	dir := t.TempDir()
	path := generatedBookmarks(t, dir, 2, 2)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	out, err := runUnderScript(ctx, binary(t), dir, filepath.Join(dir, "script.out"), 750*time.Millisecond, "--bookmarks", path)
	if ctx.Err() == context.DeadlineExceeded {
		t.Fatalf("tunebook did not exit:\n%s", out)
	}
	if err != nil {
		t.Fatalf("TUI run failed: %v\n%s", err, out)
	}
	if !strings.Contains(string(out), "tunebook") {
		t.Errorf("header not rendered:\n%s", out)
	}
}
