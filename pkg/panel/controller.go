// Package panel turns user actions on the sidebar into store and registry
// mutations, and tells the tree what to select next.
package panel

import (
	"errors"
	"fmt"

	"github.com/vanderheijden86/tunebook/pkg/bookmarks"
	"github.com/vanderheijden86/tunebook/pkg/debug"
	"github.com/vanderheijden86/tunebook/pkg/demod"
	"github.com/vanderheijden86/tunebook/pkg/model"
	"github.com/vanderheijden86/tunebook/pkg/treesync"
)

// Group picker entries around the group names.
const (
	ChoiceBookmark = "Bookmark"
	ChoiceMove     = "Move to group"
	ChoiceNewGroup = "New group…"
)

var (
	ErrNotFound       = errors.New("item is no longer in the tree")
	ErrUnsupported    = errors.New("action not available for this item")
	ErrSearchActive   = errors.New("expand state is fixed while searching")
	ErrNoConfirmation = errors.New("nothing to confirm")
	ErrBusy           = errors.New("tree is updating")
)

// Confirmation is a pending destructive action.
type Confirmation struct {
	Token   treesync.Token
	Title   string
	Message string
}

// Controller owns no state besides a pending confirmation. All methods run
// on the UI goroutine.
type Controller struct {
	store   *bookmarks.Store
	demods  *demod.Registry
	tuner   *demod.Tuner
	sync    *treesync.Sync
	pending *Confirmation
}

func New(store *bookmarks.Store, demods *demod.Registry, tuner *demod.Tuner, sync *treesync.Sync) *Controller {
	return &Controller{store: store, demods: demods, tuner: tuner, sync: sync}
}

func (c *Controller) tree() *treesync.Tree { return c.sync.Engine().Tree() }

func (c *Controller) resolve(tok treesync.Token) (*treesync.Node, error) {
	n := c.tree().Find(tok)
	if n == nil {
		return nil, fmt.Errorf("%s: %w", tok, ErrNotFound)
	}
	return n, nil
}

// Select moves the selection to tok and describes it. Selection changes
// are ignored while the panel is hidden or a rebuild is pending.
func (c *Controller) Select(tok treesync.Token) (Props, error) {
	if c.sync.Pending() {
		return Props{}, ErrBusy
	}
	if !c.tree().Select(tok) {
		return Props{}, fmt.Errorf("%s: %w", tok, ErrNotFound)
	}
	return c.Props()
}

// Props describes the current selection.
func (c *Controller) Props() (Props, error) {
	n := c.tree().Selected()
	if n == nil {
		return Props{}, ErrNotFound
	}
	return propsFor(n), nil
}

// Activate performs the default action for the node: tune a demodulator,
// start one from a bookmark or recent, go to a range, or toggle a branch or
// group.
func (c *Controller) Activate(tok treesync.Token) error {
	n, err := c.resolve(tok)
	if err != nil {
		return err
	}
	switch n.Kind {
	case treesync.KindActive:
		if c.demods.ActiveDemodulator() == n.Demod {
			return nil
		}
		c.tuner.SetCenter(n.Demod.Frequency)
		c.sync.SetHint(treesync.DemodHint(n.Demod))
		return c.demods.SetActive(n.Demod.ID)
	case treesync.KindRecent:
		// activateBookmark selects the demodulator, so no entry hint.
		b := n.Entry
		if err := c.store.RemoveRecent(b.ID); err != nil {
			return err
		}
		return c.activateBookmark(b)
	case treesync.KindBookmark:
		return c.activateBookmark(n.Entry)
	case treesync.KindRange:
		r := n.Range
		c.tuner.SetCenter(r.Center())
		c.tuner.SetView(r.Center(), r.Span())
		return nil
	case treesync.KindBranch, treesync.KindGroup:
		return c.SetExpanded(tok, !n.Expanded)
	default:
		panic(fmt.Sprintf("panel: unknown node kind %d", int(n.Kind)))
	}
}

// activateBookmark reuses the newest demodulator created from the same
// settings, or starts one, then makes it active.
func (c *Controller) activateBookmark(b *model.Bookmark) error {
	d, created := c.demods.FindOrCreate(b)
	if c.tuner.EnsureInBand(d.Frequency) {
		debug.Log("panel: retuned to %s for %s", model.FormatFrequency(d.Frequency), d.DisplayName())
	}
	debug.LogIf(created, "panel: started demodulator %d for bookmark %s", d.ID, b.ID)
	c.sync.SetHint(treesync.DemodHint(d))
	return c.demods.SetActive(d.ID)
}

// Remove deletes demodulators and recents directly. Bookmarks, groups and
// ranges return a Confirmation that must be passed to ConfirmRemove.
func (c *Controller) Remove(tok treesync.Token) (*Confirmation, error) {
	n, err := c.resolve(tok)
	if err != nil {
		return nil, err
	}
	switch n.Kind {
	case treesync.KindActive:
		d := n.Demod
		if err := c.store.AddRecent(d.ToBookmark()); err != nil {
			debug.Log("panel: not adding %s to recents: %v", d.DisplayName(), err)
		}
		return nil, c.demods.Remove(d.ID)
	case treesync.KindRecent:
		return nil, c.store.RemoveRecent(n.Entry.ID)
	case treesync.KindBookmark:
		return c.ask(tok, "Remove Bookmark", fmt.Sprintf("Remove bookmark %q?", n.Entry.DisplayName())), nil
	case treesync.KindGroup:
		count := len(c.store.Bookmarks(n.Group))
		return c.ask(tok, "Remove Group", fmt.Sprintf("Remove group %q and its %d bookmark(s)?", n.Group, count)), nil
	case treesync.KindRange:
		return c.ask(tok, "Remove Range", fmt.Sprintf("Remove range %q?", n.Range.DisplayName())), nil
	case treesync.KindBranch:
		return nil, ErrUnsupported
	default:
		panic(fmt.Sprintf("panel: unknown node kind %d", int(n.Kind)))
	}
}

func (c *Controller) ask(tok treesync.Token, title, msg string) *Confirmation {
	c.pending = &Confirmation{Token: tok, Title: title, Message: msg}
	return c.pending
}

// PendingConfirmation returns the removal waiting for confirmation.
func (c *Controller) PendingConfirmation() *Confirmation { return c.pending }

// CancelRemove drops the pending confirmation.
func (c *Controller) CancelRemove() { c.pending = nil }

// ConfirmRemove performs the removal asked for by the last Remove call.
func (c *Controller) ConfirmRemove(conf *Confirmation) error {
	if conf == nil || c.pending == nil || conf.Token != c.pending.Token {
		return ErrNoConfirmation
	}
	c.pending = nil

	tok := conf.Token
	switch tok.Kind {
	case treesync.KindBookmark:
		return c.store.RemoveBookmark(tok.ID)
	case treesync.KindGroup:
		return c.store.RemoveGroup(tok.ID)
	case treesync.KindRange:
		return c.store.RemoveRange(tok.ID)
	case treesync.KindBranch, treesync.KindActive, treesync.KindRecent:
		return ErrUnsupported
	default:
		panic(fmt.Sprintf("panel: unknown token kind %d", int(tok.Kind)))
	}
}

// SetLabel edits the node's label. For a group it renames the group and
// selects it after the rebuild.
func (c *Controller) SetLabel(tok treesync.Token, text string) error {
	n, err := c.resolve(tok)
	if err != nil {
		return err
	}
	switch n.Kind {
	case treesync.KindActive:
		return c.demods.SetLabel(n.Demod.ID, text)
	case treesync.KindBookmark:
		return c.store.UpdateBookmark(n.Entry.ID, func(b *model.Bookmark) { b.Label = text })
	case treesync.KindRecent:
		return c.store.UpdateRecent(n.Entry.ID, func(b *model.Bookmark) { b.Label = text })
	case treesync.KindRange:
		return c.store.UpdateRange(n.Range.ID, func(r *model.Range) { r.Label = text })
	case treesync.KindGroup:
		name := model.NormalizeGroupName(text)
		if name == "" || name == n.Group {
			return nil
		}
		if err := c.store.RenameGroup(n.Group, name); err != nil {
			return err
		}
		c.sync.SetHint(treesync.GroupHint(name))
		return nil
	case treesync.KindBranch:
		return ErrUnsupported
	default:
		panic(fmt.Sprintf("panel: unknown node kind %d", int(n.Kind)))
	}
}

// BookmarkTo files the node under group: a demodulator is bookmarked, a
// recent is promoted (keeping its identity), a bookmark is moved.
func (c *Controller) BookmarkTo(tok treesync.Token, group string) error {
	group = model.NormalizeGroupName(group)
	if group == "" {
		return bookmarks.ErrEmptyGroupName
	}
	n, err := c.resolve(tok)
	if err != nil {
		return err
	}
	switch n.Kind {
	case treesync.KindActive:
		return c.store.AddBookmark(group, n.Demod.ToBookmark())
	case treesync.KindRecent:
		b := n.Entry.Clone()
		if err := c.store.AddBookmark(group, b); err != nil {
			return err
		}
		c.sync.SetHint(treesync.EntryHint(b))
		return c.store.RemoveRecent(b.ID)
	case treesync.KindBookmark:
		if err := c.store.MoveBookmark(n.Entry.ID, group); err != nil {
			return err
		}
		c.sync.SetHint(treesync.EntryHint(n.Entry))
		return nil
	case treesync.KindBranch, treesync.KindGroup, treesync.KindRange:
		return ErrUnsupported
	default:
		panic(fmt.Sprintf("panel: unknown node kind %d", int(n.Kind)))
	}
}

// Paste drops src onto dst, the keyboard form of drag and drop. Dropping
// on the Bookmarks section files into UngroupedName; dropping on a group
// or a bookmark files into that group.
func (c *Controller) Paste(src, dst treesync.Token) error {
	target, err := c.resolve(dst)
	if err != nil {
		return err
	}
	var group string
	switch target.Kind {
	case treesync.KindBranch:
		if target.Branch != treesync.BranchBookmarks {
			return ErrUnsupported
		}
		group = bookmarks.UngroupedName
	case treesync.KindGroup, treesync.KindBookmark:
		group = target.Group
	case treesync.KindActive, treesync.KindRecent, treesync.KindRange:
		return ErrUnsupported
	default:
		panic(fmt.Sprintf("panel: unknown node kind %d", int(target.Kind)))
	}
	return c.BookmarkTo(src, group)
}

// CanCut reports whether tok can be picked up for Paste.
func (c *Controller) CanCut(tok treesync.Token) bool {
	switch tok.Kind {
	case treesync.KindActive, treesync.KindRecent, treesync.KindBookmark:
		return c.tree().Find(tok) != nil
	default:
		return false
	}
}

// BookmarkChoices is the group picker for tok: a leading "Bookmark" (or
// "Move to group" for bookmarks) placeholder, every group, then
// ChoiceNewGroup.
func (c *Controller) BookmarkChoices(tok treesync.Token) []string {
	first := ChoiceBookmark
	if tok.Kind == treesync.KindBookmark {
		first = ChoiceMove
	}
	out := []string{first}
	out = append(out, c.store.Groups()...)
	return append(out, ChoiceNewGroup)
}

// AddGroup creates a group and selects it after the rebuild. An existing
// group is left alone and the selection does not move.
func (c *Controller) AddGroup(name string) error {
	name = model.NormalizeGroupName(name)
	if c.store.HasGroup(name) {
		return nil
	}
	if err := c.store.AddGroup(name); err != nil {
		return err
	}
	c.sync.SetHint(treesync.GroupHint(name))
	return nil
}

func (c *Controller) ClearRecents() { c.store.ClearRecents() }

// AddActiveRange saves the visible spectrum window as a range.
func (c *Controller) AddActiveRange(label string) *model.Range {
	start, end := c.tuner.VisibleRange()
	r := model.NewRange(label, start, end)
	c.store.AddRange(r)
	c.sync.SetHint(treesync.RangeHint(r))
	return r
}

// UpdateRange sets the range to the visible spectrum window.
func (c *Controller) UpdateRange(tok treesync.Token) error {
	n, err := c.resolve(tok)
	if err != nil {
		return err
	}
	if n.Kind != treesync.KindRange {
		return ErrUnsupported
	}
	start, end := c.tuner.VisibleRange()
	return c.store.UpdateRange(n.Range.ID, func(r *model.Range) {
		r.Start, r.End = start, end
	})
}

// ToggleRecording flips recording on a demodulator and reports the new
// state.
func (c *Controller) ToggleRecording(tok treesync.Token) (bool, error) {
	n, err := c.resolve(tok)
	if err != nil {
		return false, err
	}
	if n.Kind != treesync.KindActive {
		return false, ErrUnsupported
	}
	return c.demods.ToggleRecording(n.Demod.ID)
}

// SetExpanded stores the expand state of a section or group. It is refused
// while a search forces everything open.
func (c *Controller) SetExpanded(tok treesync.Token, expanded bool) error {
	if c.sync.Engine().Searching() {
		return ErrSearchActive
	}
	n, err := c.resolve(tok)
	if err != nil {
		return err
	}
	switch n.Kind {
	case treesync.KindBranch:
		c.sync.SetExpandState(n.Branch, expanded)
		return nil
	case treesync.KindGroup:
		return c.store.SetGroupExpanded(n.Group, expanded)
	case treesync.KindActive, treesync.KindRange, treesync.KindBookmark, treesync.KindRecent:
		return ErrUnsupported
	default:
		panic(fmt.Sprintf("panel: unknown node kind %d", int(n.Kind)))
	}
}

// Search filters the tree by text. It reports whether the search changed.
func (c *Controller) Search(text string) bool {
	return c.sync.SetKeywords(treesync.ParseKeywords(text))
}

// ClearSearch removes the filter.
func (c *Controller) ClearSearch() bool {
	return c.sync.SetKeywords(nil)
}
