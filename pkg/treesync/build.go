package treesync

import (
	"github.com/vanderheijden86/tunebook/pkg/model"
)

// ExpandState records which top-level sections are expanded. Missing keys
// fall back to DefaultExpandState.
type ExpandState map[Branch]bool

// DefaultExpandState is the layout of a fresh session: everything open
// except View Ranges.
func DefaultExpandState() ExpandState {
	return ExpandState{
		BranchActive:    true,
		BranchRanges:    false,
		BranchBookmarks: true,
		BranchRecents:   true,
	}
}

// Get returns the stored state for b, or its default.
func (e ExpandState) Get(b Branch) bool {
	if v, ok := e[b]; ok {
		return v
	}
	return DefaultExpandState()[b]
}

// Clone copies the map.
func (e ExpandState) Clone() ExpandState {
	c := make(ExpandState, len(e))
	for k, v := range e {
		c[k] = v
	}
	return c
}

// GroupSnapshot is one bookmark group as read from the store.
type GroupSnapshot struct {
	Name      string
	Expanded  bool
	Bookmarks []*model.Bookmark
}

// BookmarkSnapshot is the input of a Bookmarks rebuild. Groups are expected
// in display order.
type BookmarkSnapshot struct {
	Groups []GroupSnapshot
}

// ActiveSnapshot is the input of an Active/Ranges/Recents rebuild.
type ActiveSnapshot struct {
	Demods  []*model.Demodulator
	Current *model.Demodulator // registry's active demodulator, may be nil
	Ranges  []*model.Range
	Recents []*model.Bookmark
}

// BuildParams carries the state a rebuild reads but does not own.
type BuildParams struct {
	Keywords Keywords
	Expand   ExpandState
	Previous Token
	Hint     Hint
}

// BuildResult is what a rebuild produced.
type BuildResult struct {
	Branches []*Node
	// Select is the token to select, valid only when Found.
	Select   Token
	Found    bool
	HintUsed bool
}

// picker collects selection candidates while nodes are created.
type picker struct {
	params   BuildParams
	hint     *Node
	restore  *Node
	fallback *Node
}

func (p *picker) consider(n *Node, visible bool) {
	if p.hint == nil && p.params.Hint.matches(n) {
		p.hint = n
	}
	if p.restore == nil && visible && !p.params.Previous.IsZero() && n.Token() == p.params.Previous {
		p.restore = n
	}
}

func (p *picker) finish(branches []*Node, allowFallback bool) BuildResult {
	res := BuildResult{Branches: branches}
	switch {
	case p.hint != nil:
		for a := p.hint.Parent; a != nil; a = a.Parent {
			a.Expanded = true
		}
		res.Select, res.Found, res.HintUsed = p.hint.Token(), true, true
	case p.restore != nil:
		res.Select, res.Found = p.restore.Token(), true
	case allowFallback && p.fallback != nil:
		res.Select, res.Found = p.fallback.Token(), true
	}
	return res
}

// BuildBookmarks builds the Bookmarks section. Groups are kept even when
// every bookmark in them is filtered out.
func BuildBookmarks(snap BookmarkSnapshot, params BuildParams) BuildResult {
	searching := params.Keywords.Active()
	p := &picker{params: params}

	branch := newBranchNode(BranchBookmarks)
	branch.Expanded = searching || params.Expand.Get(BranchBookmarks)

	for _, g := range snap.Groups {
		gn := &Node{Kind: KindGroup, Branch: BranchBookmarks, Group: g.Name, Label: g.Name}
		gn.Expanded = searching || g.Expanded
		branch.add(gn)
		p.consider(gn, branch.Expanded)

		for _, bm := range g.Bookmarks {
			if bm == nil {
				continue
			}
			if searching && !params.Keywords.Match(bookmarkSearchText(bm)) {
				continue
			}
			n := &Node{
				Kind:   KindBookmark,
				Branch: BranchBookmarks,
				Group:  g.Name,
				Label:  bm.DisplayName(),
				Entry:  bm,
			}
			gn.add(n)
			p.consider(n, branch.Expanded && gn.Expanded)
		}
	}

	return p.finish([]*Node{branch}, false)
}

// BuildActive builds the Active, View Ranges and Recents sections. When
// nothing else is picked and the previous selection was empty or a
// demodulator, the registry's current demodulator is selected.
func BuildActive(snap ActiveSnapshot, params BuildParams) BuildResult {
	searching := params.Keywords.Active()
	p := &picker{params: params}

	active := newBranchNode(BranchActive)
	active.Expanded = searching || params.Expand.Get(BranchActive)
	for _, d := range snap.Demods {
		if d == nil {
			continue
		}
		if searching && !params.Keywords.Match(activeSearchText(d)) {
			continue
		}
		n := &Node{Kind: KindActive, Branch: BranchActive, Label: d.DisplayName(), Demod: d}
		active.add(n)
		p.consider(n, active.Expanded)
		if p.fallback == nil && active.Expanded && snap.Current != nil && d.ID == snap.Current.ID {
			p.fallback = n
		}
	}

	ranges := newBranchNode(BranchRanges)
	ranges.Expanded = searching || params.Expand.Get(BranchRanges)
	for _, r := range snap.Ranges {
		if r == nil {
			continue
		}
		if searching && !params.Keywords.Match(rangeSearchText(r)) {
			continue
		}
		n := &Node{Kind: KindRange, Branch: BranchRanges, Label: r.DisplayName(), Range: r}
		ranges.add(n)
		p.consider(n, ranges.Expanded)
	}

	recents := newBranchNode(BranchRecents)
	recents.Expanded = searching || params.Expand.Get(BranchRecents)
	for _, bm := range snap.Recents {
		if bm == nil {
			continue
		}
		if searching && !params.Keywords.Match(recentSearchText(bm)) {
			continue
		}
		n := &Node{Kind: KindRecent, Branch: BranchRecents, Label: bm.DisplayName(), Entry: bm}
		recents.add(n)
		p.consider(n, recents.Expanded)
	}

	allowFallback := params.Previous.IsZero() || params.Previous.Kind == KindActive
	return p.finish([]*Node{active, ranges, recents}, allowFallback)
}
