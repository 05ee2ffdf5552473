package treesync

import (
	"sync/atomic"

	"github.com/vanderheijden86/tunebook/pkg/debug"
	"github.com/vanderheijden86/tunebook/pkg/metrics"
)

// Sync coalesces change notifications into rebuilds. Invalidate* may be
// called from any goroutine; Tick, SetHint and the expand methods belong to
// the UI goroutine.
//
// Each section has a generation counter. Invalidation bumps it; a rebuild
// records the generation it started from, so an invalidation that lands
// during a rebuild triggers another one on the next tick.
type Sync struct {
	engine *Engine

	activeGen    atomic.Uint64
	bookmarksGen atomic.Uint64
	activeDone   uint64
	bookmarkDone uint64

	visible atomic.Bool

	hint Hint
}

// TickResult reports what a tick rebuilt.
type TickResult struct {
	Active      bool
	Bookmarks   bool
	HintUsed    bool
	HintDropped bool
}

// Rebuilt reports whether anything was rebuilt.
func (r TickResult) Rebuilt() bool { return r.Active || r.Bookmarks }

// NewSync wraps e. Both sections start dirty and the panel starts visible.
func NewSync(e *Engine) *Sync {
	s := &Sync{engine: e}
	s.activeGen.Store(1)
	s.bookmarksGen.Store(1)
	s.visible.Store(true)
	return s
}

func (s *Sync) Engine() *Engine { return s.engine }

// InvalidateBookmarks marks the Bookmarks section dirty.
func (s *Sync) InvalidateBookmarks() {
	s.bookmarksGen.Add(1)
}

// InvalidateBookmarkGroup is InvalidateBookmarks; a group change rebuilds
// the whole section.
func (s *Sync) InvalidateBookmarkGroup(string) {
	s.bookmarksGen.Add(1)
}

// InvalidateActiveList marks the Active, View Ranges and Recents sections
// dirty.
func (s *Sync) InvalidateActiveList() {
	s.activeGen.Add(1)
}

// InvalidateAll marks every section dirty.
func (s *Sync) InvalidateAll() {
	s.InvalidateActiveList()
	s.InvalidateBookmarks()
}

// SetVisible shows or hides the panel. Ticks do nothing while hidden and
// marks accumulate.
func (s *Sync) SetVisible(v bool) { s.visible.Store(v) }

func (s *Sync) Visible() bool { return s.visible.Load() }

func (s *Sync) activeDirty() bool   { return s.activeGen.Load() != s.activeDone }
func (s *Sync) bookmarksDirty() bool { return s.bookmarksGen.Load() != s.bookmarkDone }

// Pending reports whether the panel is hidden or a section is dirty.
func (s *Sync) Pending() bool {
	return !s.Visible() || s.activeDirty() || s.bookmarksDirty()
}

// SetHint stores the entity the next rebuild should select, replacing any
// earlier hint.
func (s *Sync) SetHint(h Hint) { s.hint = h }

// Hint returns the pending hint.
func (s *Sync) Hint() Hint { return s.hint }

// SetKeywords changes the search and invalidates both sections. It reports
// whether the keywords changed.
func (s *Sync) SetKeywords(k Keywords) bool {
	if s.engine.Keywords().Equal(k) {
		return false
	}
	s.engine.SetKeywords(k)
	s.InvalidateAll()
	return true
}

// GetExpandState returns the stored state for a section.
func (s *Sync) GetExpandState(b Branch) bool { return s.engine.ExpandState(b) }

// SetExpandState stores the state for a section and marks the section that
// owns it dirty.
func (s *Sync) SetExpandState(b Branch, expanded bool) {
	if !b.Valid() || s.engine.ExpandState(b) == expanded {
		return
	}
	s.engine.SetExpandState(b, expanded)
	if b == BranchBookmarks {
		s.InvalidateBookmarks()
	} else {
		s.InvalidateActiveList()
	}
}

// Tick rebuilds the dirty sections, Active first. A hint is cleared once a
// rebuild consumes it, and dropped if it is still pending when a visible
// tick leaves nothing dirty, whether or not anything was rebuilt.
func (s *Sync) Tick() TickResult {
	var res TickResult
	if !s.Visible() {
		metrics.TicksSkipped.Inc()
		return res
	}

	if gen := s.activeGen.Load(); gen != s.activeDone {
		if s.engine.RefreshActive(s.hint) {
			s.consumeHint(&res)
		}
		s.activeDone = gen
		res.Active = true
	}

	if gen := s.bookmarksGen.Load(); gen != s.bookmarkDone {
		if s.engine.RefreshBookmarks(s.hint) {
			s.consumeHint(&res)
		}
		s.bookmarkDone = gen
		res.Bookmarks = true
	}

	if !s.hint.IsZero() && !s.activeDirty() && !s.bookmarksDirty() {
		debug.Log("treesync: dropping unmatched hint %v", s.hint)
		metrics.HintsDropped.Inc()
		s.hint = Hint{}
		res.HintDropped = true
	}
	return res
}

func (s *Sync) consumeHint(res *TickResult) {
	s.hint = Hint{}
	res.HintUsed = true
	metrics.HintsConsumed.Inc()
}
