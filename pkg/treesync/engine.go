package treesync

import (
	"github.com/vanderheijden86/tunebook/pkg/debug"
	"github.com/vanderheijden86/tunebook/pkg/metrics"
	"github.com/vanderheijden86/tunebook/pkg/model"
)

// BookmarkSource is the read side of the bookmark store.
type BookmarkSource interface {
	Groups() []string
	Bookmarks(group string) []*model.Bookmark
	GroupExpanded(group string) bool
	Ranges() []*model.Range
	Recents() []*model.Bookmark
}

// DemodSource is the read side of the demodulator registry.
type DemodSource interface {
	Demodulators() []*model.Demodulator
	ActiveDemodulator() *model.Demodulator
}

// Engine rebuilds the tree from its two sources. It is not safe for
// concurrent use; Sync decides when it runs.
type Engine struct {
	bookmarks BookmarkSource
	demods    DemodSource
	tree      *Tree
	expand    ExpandState
	keywords  Keywords
}

// NewEngine creates an engine with an empty tree. A nil expand uses the
// defaults.
func NewEngine(bookmarks BookmarkSource, demods DemodSource, expand ExpandState) *Engine {
	if expand == nil {
		expand = DefaultExpandState()
	} else {
		expand = expand.Clone()
	}
	return &Engine{
		bookmarks: bookmarks,
		demods:    demods,
		tree:      NewTree(expand),
		expand:    expand,
	}
}

func (e *Engine) Tree() *Tree { return e.tree }

// Keywords returns the active search.
func (e *Engine) Keywords() Keywords { return e.keywords }

// SetKeywords replaces the search. The caller invalidates both sections.
func (e *Engine) SetKeywords(k Keywords) { e.keywords = k }

// Searching reports whether a search is active.
func (e *Engine) Searching() bool { return e.keywords.Active() }

// ExpandState returns the stored state for a section.
func (e *Engine) ExpandState(b Branch) bool { return e.expand.Get(b) }

// SetExpandState stores the state for a section. It takes effect on the
// next rebuild of that section.
func (e *Engine) SetExpandState(b Branch, expanded bool) {
	if !b.Valid() {
		return
	}
	e.expand[b] = expanded
}

// ExpandStates returns a copy of all section states.
func (e *Engine) ExpandStates() ExpandState { return e.expand.Clone() }

// SnapshotBookmarks reads the store for a Bookmarks rebuild.
func (e *Engine) SnapshotBookmarks() BookmarkSnapshot {
	var snap BookmarkSnapshot
	for _, name := range e.bookmarks.Groups() {
		snap.Groups = append(snap.Groups, GroupSnapshot{
			Name:      name,
			Expanded:  e.bookmarks.GroupExpanded(name),
			Bookmarks: e.bookmarks.Bookmarks(name),
		})
	}
	return snap
}

// SnapshotActive reads the registry and the store for an Active rebuild.
func (e *Engine) SnapshotActive() ActiveSnapshot {
	return ActiveSnapshot{
		Demods:  e.demods.Demodulators(),
		Current: e.demods.ActiveDemodulator(),
		Ranges:  e.bookmarks.Ranges(),
		Recents: e.bookmarks.Recents(),
	}
}

func (e *Engine) params(h Hint) BuildParams {
	return BuildParams{
		Keywords: e.keywords,
		Expand:   e.expand,
		Previous: e.tree.SelectedToken(),
		Hint:     h,
	}
}

// RefreshBookmarks rebuilds the Bookmarks section and reports whether h was
// consumed.
func (e *Engine) RefreshBookmarks(h Hint) bool {
	defer metrics.Timer(metrics.RebuildBookmarks)()
	p := e.params(h)
	res := BuildBookmarks(e.SnapshotBookmarks(), p)
	e.tree.apply(res, p.Previous)
	debug.Log("treesync: bookmarks rebuilt, selected=%s hint=%v used=%v", e.tree.SelectedToken(), h, res.HintUsed)
	return res.HintUsed
}

// RefreshActive rebuilds the Active, View Ranges and Recents sections and
// reports whether h was consumed.
func (e *Engine) RefreshActive(h Hint) bool {
	defer metrics.Timer(metrics.RebuildActive)()
	p := e.params(h)
	res := BuildActive(e.SnapshotActive(), p)
	e.tree.apply(res, p.Previous)
	debug.Log("treesync: active rebuilt, selected=%s hint=%v used=%v", e.tree.SelectedToken(), h, res.HintUsed)
	return res.HintUsed
}
