package bookmarks

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/tunebook/pkg/debug"
	"github.com/vanderheijden86/tunebook/pkg/watcher"
)

// Persister keeps the store and its file in step: store changes are saved
// after a quiet period, and Reload picks up edits made by other processes.
// It remembers the bytes it last wrote or read, so our own save seen by the
// file watcher does not cause a reload, and a reload does not write back an
// identical file.
type Persister struct {
	store     *Store
	path      string
	debouncer *watcher.Debouncer
	onError   func(error)

	mu   sync.Mutex
	last []byte
}

// NewPersister subscribes a persister for path to store. A zero delay uses
// the debouncer default.
func NewPersister(store *Store, path string, delay time.Duration, onError func(error)) *Persister {
	if onError == nil {
		onError = func(error) {}
	}
	p := &Persister{
		store:     store,
		path:      path,
		debouncer: watcher.NewDebouncer(delay),
		onError:   onError,
	}
	store.Subscribe(p)
	return p
}

func (p *Persister) Path() string { return p.path }

func (p *Persister) InvalidateBookmarks()          { p.schedule() }
func (p *Persister) InvalidateBookmarkGroup(string) { p.schedule() }
func (p *Persister) InvalidateActiveList()         { p.schedule() }

func (p *Persister) schedule() {
	p.debouncer.Trigger(func() {
		if err := p.Flush(); err != nil {
			p.onError(err)
		}
	})
}

// Flush writes the store now if it differs from the file.
func (p *Persister) Flush() error {
	data, err := yaml.Marshal(p.store.Snapshot())
	if err != nil {
		return fmt.Errorf("encode bookmarks: %w", err)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if bytes.Equal(data, p.last) {
		return nil
	}
	if err := writeFileAtomic(p.path, data); err != nil {
		return err
	}
	p.last = data
	debug.Log("bookmarks: saved %s (%d bytes)", p.path, len(data))
	return nil
}

// Reload reads the file into the store unless it holds what we last wrote
// or read. It reports whether the store was replaced. A missing file is
// not an error.
func (p *Persister) Reload() (bool, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("read bookmarks: %w", err)
	}

	p.mu.Lock()
	same := bytes.Equal(data, p.last)
	p.mu.Unlock()
	if same {
		return false, nil
	}

	f, err := decodeFile(p.path, data)
	if err != nil {
		return false, err
	}

	p.mu.Lock()
	p.last = data
	p.mu.Unlock()

	if err := p.store.Replace(f); err != nil {
		return false, err
	}
	debug.Log("bookmarks: reloaded %s", p.path)
	return true, nil
}

// Close cancels a pending save and flushes.
func (p *Persister) Close() error {
	p.debouncer.Cancel()
	return p.Flush()
}
