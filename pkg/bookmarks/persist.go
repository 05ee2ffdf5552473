package bookmarks

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/tunebook/pkg/debug"
	"github.com/vanderheijden86/tunebook/pkg/metrics"
	"github.com/vanderheijden86/tunebook/pkg/model"
)

// FileVersion is written into every bookmark file.
const FileVersion = 1

// File is the on-disk layout of the store.
type File struct {
	Version int               `yaml:"version" json:"version"`
	Groups  []FileGroup       `yaml:"groups" json:"groups"`
	Ranges  []*model.Range    `yaml:"ranges,omitempty" json:"ranges,omitempty"`
	Recents []*model.Bookmark `yaml:"recents,omitempty" json:"recents,omitempty"`
}

// FileGroup is one group in a File.
type FileGroup struct {
	Name      string            `yaml:"name" json:"name"`
	Expanded  bool              `yaml:"expanded" json:"expanded"`
	Bookmarks []*model.Bookmark `yaml:"bookmarks" json:"bookmarks"`
}

// Snapshot copies the store into a File. Records are cloned so the result
// can be used off the UI goroutine.
func (s *Store) Snapshot() *File {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f := &File{Version: FileVersion}
	names := make([]string, 0, len(s.groups))
	for name := range s.groups {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		g := s.groups[name]
		fg := FileGroup{Name: name, Expanded: g.expanded}
		for _, b := range g.bookmarks {
			fg.Bookmarks = append(fg.Bookmarks, b.Clone())
		}
		sort.SliceStable(fg.Bookmarks, func(i, j int) bool { return fg.Bookmarks[i].Frequency < fg.Bookmarks[j].Frequency })
		f.Groups = append(f.Groups, fg)
	}
	for _, r := range s.ranges {
		c := *r
		f.Ranges = append(f.Ranges, &c)
	}
	sort.SliceStable(f.Ranges, func(i, j int) bool { return f.Ranges[i].Start < f.Ranges[j].Start })
	for _, b := range s.recents {
		f.Recents = append(f.Recents, b.Clone())
	}
	return f
}

// Replace swaps the store contents for f and notifies everything. Bookmark
// and range ids must be unique; a recent sharing an id with a bookmark or an
// earlier recent is dropped.
func (s *Store) Replace(f *File) error {
	seen := make(map[string]string)
	groups := make(map[string]*group, len(f.Groups))
	for _, fg := range f.Groups {
		name := model.NormalizeGroupName(fg.Name)
		if name == "" {
			return fmt.Errorf("bookmark file: %w", ErrEmptyGroupName)
		}
		g, ok := groups[name]
		if !ok {
			g = &group{expanded: fg.Expanded}
			groups[name] = g
		}
		for _, b := range fg.Bookmarks {
			if b == nil {
				continue
			}
			if err := b.Validate(); err != nil {
				return fmt.Errorf("bookmark file, group %q: %w", name, err)
			}
			if other, ok := seen[b.ID]; ok {
				return fmt.Errorf("bookmark file, group %q: bookmark %q also in %q: %w", name, b.ID, other, ErrDuplicateID)
			}
			seen[b.ID] = name
			g.bookmarks = append(g.bookmarks, b)
		}
	}
	var ranges []*model.Range
	rangeIDs := make(map[string]bool)
	for _, r := range f.Ranges {
		if r == nil || r.ID == "" {
			continue
		}
		if rangeIDs[r.ID] {
			return fmt.Errorf("bookmark file: range %q: %w", r.ID, ErrDuplicateID)
		}
		rangeIDs[r.ID] = true
		if r.End < r.Start {
			r.Start, r.End = r.End, r.Start
		}
		ranges = append(ranges, r)
	}
	var recents []*model.Bookmark
	for _, b := range f.Recents {
		if b == nil || b.Validate() != nil {
			continue
		}
		if _, ok := seen[b.ID]; ok {
			debug.Log("bookmarks: dropping recent %s, id already in use", b.ID)
			continue
		}
		seen[b.ID] = ""
		recents = append(recents, b)
	}

	s.mu.Lock()
	if over := len(recents) - s.maxRecents; over > 0 {
		recents = recents[over:]
	}
	s.groups = groups
	s.ranges = ranges
	s.recents = recents
	s.mu.Unlock()

	s.emit(signal{all: true, active: true})
	return nil
}

// Load replaces the store contents with the file at path. A missing file
// leaves the store empty and is not an error.
func (s *Store) Load(path string) error {
	defer metrics.Timer(metrics.StoreLoad)()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			debug.Log("bookmarks: %s does not exist, starting empty", path)
			return nil
		}
		return fmt.Errorf("read bookmarks: %w", err)
	}
	f, err := decodeFile(path, data)
	if err != nil {
		return err
	}
	return s.Replace(f)
}

func decodeFile(path string, data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse bookmarks %s: %w", path, err)
	}
	if f.Version > FileVersion {
		return nil, fmt.Errorf("bookmarks %s: unsupported version %d", path, f.Version)
	}
	return &f, nil
}

// Save writes the store to path through a temp file and rename.
func (s *Store) Save(path string) error {
	defer metrics.Timer(metrics.StoreSave)()
	data, err := yaml.Marshal(s.Snapshot())
	if err != nil {
		return fmt.Errorf("encode bookmarks: %w", err)
	}
	return writeFileAtomic(path, data)
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create bookmarks dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace bookmarks file: %w", err)
	}
	return nil
}
