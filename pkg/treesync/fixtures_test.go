package treesync

import (
	"sort"

	"github.com/vanderheijden86/tunebook/pkg/model"
)

// fakeStore is an in-memory BookmarkSource. Groups are returned in the
// order they were added.
type fakeStore struct {
	order     []string
	groups    map[string][]*model.Bookmark
	collapsed map[string]bool
	ranges    []*model.Range
	recents   []*model.Bookmark

	onGroups func()
}

func newFakeStore(groups ...string) *fakeStore {
	s := &fakeStore{groups: map[string][]*model.Bookmark{}, collapsed: map[string]bool{}}
	for _, g := range groups {
		s.addGroup(g)
	}
	return s
}

func (s *fakeStore) addGroup(name string) {
	if _, ok := s.groups[name]; ok {
		return
	}
	s.order = append(s.order, name)
	s.groups[name] = nil
}

func (s *fakeStore) add(group string, b *model.Bookmark) *model.Bookmark {
	s.addGroup(group)
	s.groups[group] = append(s.groups[group], b)
	return b
}

func (s *fakeStore) rename(from, to string) {
	for i, g := range s.order {
		if g == from {
			s.order[i] = to
		}
	}
	s.groups[to] = s.groups[from]
	delete(s.groups, from)
	sort.Strings(s.order)
}

func (s *fakeStore) removeRecent(b *model.Bookmark) {
	for i, r := range s.recents {
		if r.ID == b.ID {
			s.recents = append(s.recents[:i], s.recents[i+1:]...)
			return
		}
	}
}

func (s *fakeStore) Groups() []string {
	if s.onGroups != nil {
		s.onGroups()
	}
	return append([]string(nil), s.order...)
}

func (s *fakeStore) Bookmarks(group string) []*model.Bookmark {
	return append([]*model.Bookmark(nil), s.groups[group]...)
}

func (s *fakeStore) GroupExpanded(group string) bool { return !s.collapsed[group] }
func (s *fakeStore) Ranges() []*model.Range          { return s.ranges }
func (s *fakeStore) Recents() []*model.Bookmark      { return s.recents }

type fakeDemods struct {
	list    []*model.Demodulator
	current *model.Demodulator
	nextID  uint64
}

func (d *fakeDemods) add(typ string, freq int64) *model.Demodulator {
	d.nextID++
	m := &model.Demodulator{ID: d.nextID, Type: typ, Frequency: freq, Bandwidth: 200000}
	d.list = append(d.list, m)
	return m
}

func (d *fakeDemods) Demodulators() []*model.Demodulator  { return d.list }
func (d *fakeDemods) ActiveDemodulator() *model.Demodulator { return d.current }

// scenario builds groups ["FM","AM"] with NPR at 91.5 MHz in FM.
func scenario() (*fakeStore, *model.Bookmark) {
	s := newFakeStore("FM", "AM")
	npr := s.add("FM", &model.Bookmark{ID: "npr", Label: "NPR", Type: "FM", Frequency: 91500000, Bandwidth: 200000})
	s.add("AM", &model.Bookmark{ID: "wbz", Label: "WBZ", Type: "AM", Frequency: 1030000, Bandwidth: 10000})
	return s, npr
}

func childLabels(n *Node) []string {
	var out []string
	for _, c := range n.Children {
		out = append(out, c.Label)
	}
	return out
}

func groupNode(t *Tree, name string) *Node {
	return t.Find(GroupToken(name))
}
