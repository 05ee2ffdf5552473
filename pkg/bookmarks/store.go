// Package bookmarks is the authoritative store for bookmark groups, view
// ranges and recents. Readers get sorted copies of the lists; every mutation
// notifies the subscribed invalidators after the lock is released.
package bookmarks

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/vanderheijden86/tunebook/pkg/model"
)

// UngroupedName is the group used when a bookmark is dropped on the
// Bookmarks section itself.
const UngroupedName = "Ungrouped"

// DefaultMaxRecents caps the recents list.
const DefaultMaxRecents = 25

var (
	ErrGroupNotFound    = errors.New("group not found")
	ErrBookmarkNotFound = errors.New("bookmark not found")
	ErrRangeNotFound    = errors.New("range not found")
	ErrRecentNotFound   = errors.New("recent not found")
	ErrEmptyGroupName   = errors.New("group name is empty")
	ErrDuplicateID      = errors.New("duplicate id")
)

// Notifier receives invalidation signals. treesync.Sync satisfies it.
type Notifier interface {
	InvalidateBookmarks()
	InvalidateBookmarkGroup(name string)
	InvalidateActiveList()
}

type group struct {
	expanded  bool
	bookmarks []*model.Bookmark
}

// Store holds the bookmark data. It is safe for concurrent use.
type Store struct {
	mu         sync.RWMutex
	groups     map[string]*group
	ranges     []*model.Range
	recents    []*model.Bookmark
	maxRecents int

	nmu       sync.Mutex
	notifiers []Notifier
}

// Option configures a Store.
type Option func(*Store)

// WithMaxRecents sets the recents cap. Values below 1 keep the default.
func WithMaxRecents(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxRecents = n
		}
	}
}

// New returns an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		groups:     make(map[string]*group),
		maxRecents: DefaultMaxRecents,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers n for change notifications.
func (s *Store) Subscribe(n Notifier) {
	s.nmu.Lock()
	defer s.nmu.Unlock()
	s.notifiers = append(s.notifiers, n)
}

type signal struct {
	all    bool
	groups []string
	active bool
}

func (s *Store) emit(sig signal) {
	s.nmu.Lock()
	ns := append([]Notifier(nil), s.notifiers...)
	s.nmu.Unlock()

	for _, n := range ns {
		if sig.all {
			n.InvalidateBookmarks()
		}
		for _, g := range sig.groups {
			n.InvalidateBookmarkGroup(g)
		}
		if sig.active {
			n.InvalidateActiveList()
		}
	}
}

// Groups returns the group names sorted by name.
func (s *Store) Groups() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.groups))
	for name := range s.groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasGroup reports whether the group exists.
func (s *Store) HasGroup(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.groups[name]
	return ok
}

// Bookmarks returns the group's bookmarks sorted by frequency. Unknown
// groups yield nil.
func (s *Store) Bookmarks(name string) []*model.Bookmark {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.groups[name]
	if !ok {
		return nil
	}
	out := append([]*model.Bookmark(nil), g.bookmarks...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Frequency < out[j].Frequency })
	return out
}

// GroupExpanded returns the group's expand state. Unknown groups are
// expanded.
func (s *Store) GroupExpanded(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if g, ok := s.groups[name]; ok {
		return g.expanded
	}
	return true
}

// SetGroupExpanded stores the group's expand state.
func (s *Store) SetGroupExpanded(name string, expanded bool) error {
	s.mu.Lock()
	g, ok := s.groups[name]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("expand %q: %w", name, ErrGroupNotFound)
	}
	changed := g.expanded != expanded
	g.expanded = expanded
	s.mu.Unlock()

	if changed {
		s.emit(signal{groups: []string{name}})
	}
	return nil
}

// AddGroup creates an empty, expanded group. Adding an existing group is a
// no-op.
func (s *Store) AddGroup(name string) error {
	name = model.NormalizeGroupName(name)
	if name == "" {
		return ErrEmptyGroupName
	}
	s.mu.Lock()
	if _, ok := s.groups[name]; ok {
		s.mu.Unlock()
		return nil
	}
	s.groups[name] = &group{expanded: true}
	s.mu.Unlock()

	s.emit(signal{groups: []string{name}})
	return nil
}

// RemoveGroup deletes the group and its bookmarks.
func (s *Store) RemoveGroup(name string) error {
	s.mu.Lock()
	if _, ok := s.groups[name]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("remove group %q: %w", name, ErrGroupNotFound)
	}
	delete(s.groups, name)
	s.mu.Unlock()

	s.emit(signal{all: true})
	return nil
}

// RenameGroup renames a group. Renaming onto an existing group merges the
// bookmarks into it.
func (s *Store) RenameGroup(from, to string) error {
	to = model.NormalizeGroupName(to)
	if to == "" {
		return ErrEmptyGroupName
	}
	if from == to {
		return nil
	}

	s.mu.Lock()
	src, ok := s.groups[from]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("rename group %q: %w", from, ErrGroupNotFound)
	}
	if dst, ok := s.groups[to]; ok {
		dst.bookmarks = append(dst.bookmarks, src.bookmarks...)
	} else {
		s.groups[to] = src
	}
	delete(s.groups, from)
	s.mu.Unlock()

	s.emit(signal{all: true})
	return nil
}

// AddBookmark adds b to the group, creating the group if needed. A bookmark
// already present anywhere in the store is moved instead of duplicated.
func (s *Store) AddBookmark(name string, b *model.Bookmark) error {
	name = model.NormalizeGroupName(name)
	if name == "" {
		return ErrEmptyGroupName
	}
	if err := b.Validate(); err != nil {
		return fmt.Errorf("add bookmark: %w", err)
	}

	s.mu.Lock()
	touched := []string{name}
	if old, _, ok := s.findLocked(b.ID); ok {
		s.removeLocked(b.ID)
		if old != name {
			touched = append(touched, old)
		}
	}
	g, ok := s.groups[name]
	if !ok {
		g = &group{expanded: true}
		s.groups[name] = g
	}
	g.bookmarks = append(g.bookmarks, b)
	s.mu.Unlock()

	s.emit(signal{groups: touched})
	return nil
}

// RemoveBookmark deletes the bookmark with the given id.
func (s *Store) RemoveBookmark(id string) error {
	s.mu.Lock()
	name, _, ok := s.findLocked(id)
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("remove bookmark %s: %w", id, ErrBookmarkNotFound)
	}
	s.removeLocked(id)
	s.mu.Unlock()

	s.emit(signal{groups: []string{name}})
	return nil
}

// MoveBookmark moves the bookmark into the named group, creating it if
// needed.
func (s *Store) MoveBookmark(id, to string) error {
	s.mu.RLock()
	_, b, ok := s.findLocked(id)
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("move bookmark %s: %w", id, ErrBookmarkNotFound)
	}
	return s.AddBookmark(to, b)
}

// FindBookmark returns the bookmark and its group.
func (s *Store) FindBookmark(id string) (*model.Bookmark, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	name, b, ok := s.findLocked(id)
	return b, name, ok
}

// UpdateBookmark applies fn to the stored bookmark under the write lock.
func (s *Store) UpdateBookmark(id string, fn func(*model.Bookmark)) error {
	s.mu.Lock()
	name, b, ok := s.findLocked(id)
	if ok {
		fn(b)
	}
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("update bookmark %s: %w", id, ErrBookmarkNotFound)
	}
	s.emit(signal{groups: []string{name}})
	return nil
}

func (s *Store) findLocked(id string) (string, *model.Bookmark, bool) {
	for name, g := range s.groups {
		for _, b := range g.bookmarks {
			if b.ID == id {
				return name, b, true
			}
		}
	}
	return "", nil, false
}

func (s *Store) removeLocked(id string) {
	for _, g := range s.groups {
		for i, b := range g.bookmarks {
			if b.ID == id {
				g.bookmarks = append(g.bookmarks[:i:i], g.bookmarks[i+1:]...)
				return
			}
		}
	}
}

// Recents returns the recents, oldest first.
func (s *Store) Recents() []*model.Bookmark {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*model.Bookmark(nil), s.recents...)
}

// AddRecent appends b to the recents. An existing recent with the same
// type, frequency and bandwidth is replaced, and the oldest entries are
// dropped past the cap.
func (s *Store) AddRecent(b *model.Bookmark) error {
	if err := b.Validate(); err != nil {
		return fmt.Errorf("add recent: %w", err)
	}
	s.mu.Lock()
	kept := s.recents[:0:0]
	for _, r := range s.recents {
		if r.ID == b.ID || (r.Type == b.Type && r.Frequency == b.Frequency && r.Bandwidth == b.Bandwidth) {
			continue
		}
		kept = append(kept, r)
	}
	kept = append(kept, b)
	if over := len(kept) - s.maxRecents; over > 0 {
		kept = kept[over:]
	}
	s.recents = kept
	s.mu.Unlock()

	s.emit(signal{active: true})
	return nil
}

// RemoveRecent deletes the recent with the given id.
func (s *Store) RemoveRecent(id string) error {
	s.mu.Lock()
	idx := -1
	for i, r := range s.recents {
		if r.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("remove recent %s: %w", id, ErrRecentNotFound)
	}
	s.recents = append(s.recents[:idx:idx], s.recents[idx+1:]...)
	s.mu.Unlock()

	s.emit(signal{active: true})
	return nil
}

// FindRecent returns the recent with the given id.
func (s *Store) FindRecent(id string) (*model.Bookmark, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.recents {
		if r.ID == id {
			return r, true
		}
	}
	return nil, false
}

// UpdateRecent applies fn to the stored recent under the write lock.
func (s *Store) UpdateRecent(id string, fn func(*model.Bookmark)) error {
	s.mu.Lock()
	var found *model.Bookmark
	for _, r := range s.recents {
		if r.ID == id {
			found = r
			break
		}
	}
	if found != nil {
		fn(found)
	}
	s.mu.Unlock()
	if found == nil {
		return fmt.Errorf("update recent %s: %w", id, ErrRecentNotFound)
	}
	s.emit(signal{active: true})
	return nil
}

// ClearRecents empties the recents.
func (s *Store) ClearRecents() {
	s.mu.Lock()
	s.recents = nil
	s.mu.Unlock()
	s.emit(signal{active: true})
}

// Ranges returns the ranges sorted by start frequency.
func (s *Store) Ranges() []*model.Range {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := append([]*model.Range(nil), s.ranges...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

// AddRange stores r.
func (s *Store) AddRange(r *model.Range) {
	s.mu.Lock()
	s.ranges = append(s.ranges, r)
	s.mu.Unlock()
	s.emit(signal{active: true})
}

// RemoveRange deletes the range with the given id.
func (s *Store) RemoveRange(id string) error {
	s.mu.Lock()
	idx := -1
	for i, r := range s.ranges {
		if r.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("remove range %s: %w", id, ErrRangeNotFound)
	}
	s.ranges = append(s.ranges[:idx:idx], s.ranges[idx+1:]...)
	s.mu.Unlock()

	s.emit(signal{active: true})
	return nil
}

// FindRange returns the range with the given id.
func (s *Store) FindRange(id string) (*model.Range, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.ranges {
		if r.ID == id {
			return r, true
		}
	}
	return nil, false
}

// UpdateRange applies fn to the stored range under the write lock. Bounds
// are reordered afterwards if fn swapped them.
func (s *Store) UpdateRange(id string, fn func(*model.Range)) error {
	s.mu.Lock()
	var found *model.Range
	for _, r := range s.ranges {
		if r.ID == id {
			found = r
			break
		}
	}
	if found != nil {
		fn(found)
		if found.End < found.Start {
			found.Start, found.End = found.End, found.Start
		}
	}
	s.mu.Unlock()
	if found == nil {
		return fmt.Errorf("update range %s: %w", id, ErrRangeNotFound)
	}
	s.emit(signal{active: true})
	return nil
}

// Counts returns the number of groups, bookmarks, ranges and recents.
func (s *Store) Counts() (groups, bookmarks, ranges, recents int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, g := range s.groups {
		bookmarks += len(g.bookmarks)
	}
	return len(s.groups), bookmarks, len(s.ranges), len(s.recents)
}
