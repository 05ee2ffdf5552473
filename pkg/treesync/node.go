// Package treesync rebuilds the sidebar tree (Active, View Ranges, Bookmarks,
// Recents) from the bookmark store and the demodulator registry.
//
// Nodes are thrown away on every rebuild. Anything that has to survive a
// rebuild (the selection, a pending "select this next" request) is carried
// as a comparable value, never as a *Node:
//
//	tok := tree.SelectedToken()   // captured before the rebuild
//	engine.RefreshBookmarks(hint) // old nodes are gone after this
//	tree.Selected()               // resolves the token against the new nodes
package treesync

import (
	"fmt"
	"strconv"

	"github.com/vanderheijden86/tunebook/pkg/model"
)

// Kind tags the variant a Node holds.
type Kind int

const (
	KindBranch   Kind = iota // fixed top-level section (or the root)
	KindActive               // live demodulator
	KindRange                // saved view range
	KindBookmark             // saved bookmark inside a group
	KindRecent               // recently tuned entry
	KindGroup                // bookmark group
)

func (k Kind) String() string {
	switch k {
	case KindBranch:
		return "branch"
	case KindActive:
		return "active"
	case KindRange:
		return "range"
	case KindBookmark:
		return "bookmark"
	case KindRecent:
		return "recent"
	case KindGroup:
		return "group"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Branch names one of the fixed top-level sections. The string values are
// the keys used by ExpandState and the config file.
type Branch string

const (
	BranchRoot      Branch = "root"
	BranchActive    Branch = "active"
	BranchRanges    Branch = "range"
	BranchBookmarks Branch = "bookmark"
	BranchRecents   Branch = "recent"
)

// Branches lists the sections in display order.
var Branches = []Branch{BranchActive, BranchRanges, BranchBookmarks, BranchRecents}

// Title is the label shown for the section.
func (b Branch) Title() string {
	switch b {
	case BranchRoot:
		return "Root"
	case BranchActive:
		return "Active"
	case BranchRanges:
		return "View Ranges"
	case BranchBookmarks:
		return "Bookmarks"
	case BranchRecents:
		return "Recents"
	default:
		return string(b)
	}
}

// Valid reports whether b is one of the four sections.
func (b Branch) Valid() bool {
	switch b {
	case BranchActive, BranchRanges, BranchBookmarks, BranchRecents:
		return true
	default:
		return false
	}
}

// Node is one row of the tree. Exactly one of Demod, Range, Entry is set for
// the record kinds; groups carry only Group, branches only Branch.
type Node struct {
	Kind     Kind
	Branch   Branch
	Label    string
	Group    string // group name for KindGroup, owning group for KindBookmark
	Demod    *model.Demodulator
	Range    *model.Range
	Entry    *model.Bookmark
	Expanded bool
	Depth    int
	Parent   *Node
	Children []*Node
}

func newBranchNode(b Branch) *Node {
	return &Node{Kind: KindBranch, Branch: b, Label: b.Title()}
}

func (n *Node) add(child *Node) {
	child.Parent = n
	child.Depth = n.Depth + 1
	n.Children = append(n.Children, child)
}

// Token returns the value identity of the node.
func (n *Node) Token() Token {
	switch n.Kind {
	case KindBranch:
		return BranchToken(n.Branch)
	case KindActive:
		return ActiveToken(n.Demod)
	case KindRange:
		return RangeToken(n.Range)
	case KindBookmark:
		return BookmarkToken(n.Entry)
	case KindRecent:
		return RecentToken(n.Entry)
	case KindGroup:
		return GroupToken(n.Group)
	default:
		panic(fmt.Sprintf("treesync: unknown node kind %d", int(n.Kind)))
	}
}

// IsExpandable reports whether the node can hold children.
func (n *Node) IsExpandable() bool {
	switch n.Kind {
	case KindBranch, KindGroup:
		return true
	case KindActive, KindRange, KindBookmark, KindRecent:
		return false
	default:
		panic(fmt.Sprintf("treesync: unknown node kind %d", int(n.Kind)))
	}
}

// Frequency is the tuning frequency the node stands for, or 0.
func (n *Node) Frequency() int64 {
	switch n.Kind {
	case KindActive:
		return n.Demod.Frequency
	case KindRange:
		return n.Range.Center()
	case KindBookmark, KindRecent:
		return n.Entry.Frequency
	case KindBranch, KindGroup:
		return 0
	default:
		panic(fmt.Sprintf("treesync: unknown node kind %d", int(n.Kind)))
	}
}

// Token identifies a logical entity independently of any node. The zero
// value means "nothing".
type Token struct {
	Kind Kind
	ID   string
}

// IsZero reports whether the token refers to nothing.
func (t Token) IsZero() bool { return t.ID == "" }

// Branch is the section the entity lives in.
func (t Token) Branch() Branch {
	switch t.Kind {
	case KindBranch:
		return Branch(t.ID)
	case KindActive:
		return BranchActive
	case KindRange:
		return BranchRanges
	case KindBookmark, KindGroup:
		return BranchBookmarks
	case KindRecent:
		return BranchRecents
	default:
		panic(fmt.Sprintf("treesync: unknown token kind %d", int(t.Kind)))
	}
}

func (t Token) String() string {
	if t.IsZero() {
		return "<none>"
	}
	return t.Kind.String() + ":" + t.ID
}

func BranchToken(b Branch) Token { return Token{Kind: KindBranch, ID: string(b)} }

func ActiveToken(d *model.Demodulator) Token {
	if d == nil {
		return Token{}
	}
	return Token{Kind: KindActive, ID: demodID(d)}
}

func RangeToken(r *model.Range) Token {
	if r == nil {
		return Token{}
	}
	return Token{Kind: KindRange, ID: r.ID}
}

func BookmarkToken(b *model.Bookmark) Token {
	if b == nil {
		return Token{}
	}
	return Token{Kind: KindBookmark, ID: b.ID}
}

func RecentToken(b *model.Bookmark) Token {
	if b == nil {
		return Token{}
	}
	return Token{Kind: KindRecent, ID: b.ID}
}

func GroupToken(name string) Token { return Token{Kind: KindGroup, ID: name} }

func demodID(d *model.Demodulator) string { return strconv.FormatUint(d.ID, 10) }

// HintKind selects what a Hint matches.
type HintKind int

const (
	HintNone  HintKind = iota
	HintEntry          // bookmark or recent with the given entry ID
	HintDemod
	HintGroup
	HintRange
)

// Hint asks the next rebuild to select a specific entity, e.g. the bookmark
// just created from a recent. It wins over restoring the previous selection
// and is consumed by the first rebuild that finds it.
type Hint struct {
	Kind HintKind
	ID   string
}

func (h Hint) IsZero() bool { return h.Kind == HintNone || h.ID == "" }

func EntryHint(b *model.Bookmark) Hint {
	if b == nil {
		return Hint{}
	}
	return Hint{Kind: HintEntry, ID: b.ID}
}

func DemodHint(d *model.Demodulator) Hint {
	if d == nil {
		return Hint{}
	}
	return Hint{Kind: HintDemod, ID: demodID(d)}
}

func GroupHint(name string) Hint { return Hint{Kind: HintGroup, ID: name} }

func RangeHint(r *model.Range) Hint {
	if r == nil {
		return Hint{}
	}
	return Hint{Kind: HintRange, ID: r.ID}
}

func (h Hint) matches(n *Node) bool {
	if h.IsZero() {
		return false
	}
	switch h.Kind {
	case HintEntry:
		return (n.Kind == KindBookmark || n.Kind == KindRecent) && n.Entry.ID == h.ID
	case HintDemod:
		return n.Kind == KindActive && demodID(n.Demod) == h.ID
	case HintGroup:
		return n.Kind == KindGroup && n.Group == h.ID
	case HintRange:
		return n.Kind == KindRange && n.Range.ID == h.ID
	default:
		panic(fmt.Sprintf("treesync: unknown hint kind %d", int(h.Kind)))
	}
}
