// Package demod models the receiver side of the sidebar: the registry of
// live demodulators and the tuner they share.
package demod

import (
	"errors"
	"fmt"
	"sync"

	"github.com/vanderheijden86/tunebook/pkg/model"
)

var ErrDemodNotFound = errors.New("demodulator not found")

// ActiveListNotifier is told when the demodulator list changes.
type ActiveListNotifier interface {
	InvalidateActiveList()
}

// Registry owns the live demodulators in creation order and tracks which
// one is active. It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	demods []*model.Demodulator
	active *model.Demodulator
	nextID uint64

	nmu       sync.Mutex
	notifiers []ActiveListNotifier
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Subscribe registers n for change notifications.
func (r *Registry) Subscribe(n ActiveListNotifier) {
	r.nmu.Lock()
	defer r.nmu.Unlock()
	r.notifiers = append(r.notifiers, n)
}

func (r *Registry) notify() {
	r.nmu.Lock()
	ns := append([]ActiveListNotifier(nil), r.notifiers...)
	r.nmu.Unlock()
	for _, n := range ns {
		n.InvalidateActiveList()
	}
}

// Demodulators returns the live demodulators in creation order.
func (r *Registry) Demodulators() []*model.Demodulator {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*model.Demodulator(nil), r.demods...)
}

// ActiveDemodulator returns the active demodulator, or nil.
func (r *Registry) ActiveDemodulator() *model.Demodulator {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active
}

// Get returns the demodulator with the given id.
func (r *Registry) Get(id uint64) (*model.Demodulator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.getLocked(id)
}

func (r *Registry) getLocked(id uint64) (*model.Demodulator, bool) {
	for _, d := range r.demods {
		if d.ID == id {
			return d, true
		}
	}
	return nil, false
}

// SetActive makes the demodulator with the given id active.
func (r *Registry) SetActive(id uint64) error {
	r.mu.Lock()
	d, ok := r.getLocked(id)
	if ok {
		r.active = d
	}
	r.mu.Unlock()
	if !ok {
		return fmt.Errorf("set active %d: %w", id, ErrDemodNotFound)
	}
	r.notify()
	return nil
}

// FindLast returns the most recently created demodulator matching the
// given settings.
func (r *Registry) FindLast(typ, label string, freq, bw int64) (*model.Demodulator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := len(r.demods) - 1; i >= 0; i-- {
		if r.demods[i].Matches(typ, label, freq, bw) {
			return r.demods[i], true
		}
	}
	return nil, false
}

// Create starts a new demodulator.
func (r *Registry) Create(typ, label string, freq, bw int64) *model.Demodulator {
	r.mu.Lock()
	r.nextID++
	d := &model.Demodulator{
		ID:        r.nextID,
		Type:      typ,
		UserLabel: label,
		Frequency: freq,
		Bandwidth: bw,
	}
	r.demods = append(r.demods, d)
	r.mu.Unlock()
	r.notify()
	return d
}

// FindOrCreate returns the last demodulator matching b, creating one if
// none does. created reports which happened.
func (r *Registry) FindOrCreate(b *model.Bookmark) (d *model.Demodulator, created bool) {
	if d, ok := r.FindLast(b.Type, b.Label, b.Frequency, b.Bandwidth); ok {
		return d, false
	}
	return r.Create(b.Type, b.Label, b.Frequency, b.Bandwidth), true
}

// Remove stops the demodulator. If it was active, the newest remaining one
// becomes active.
func (r *Registry) Remove(id uint64) error {
	r.mu.Lock()
	idx := -1
	for i, d := range r.demods {
		if d.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		r.mu.Unlock()
		return fmt.Errorf("remove demodulator %d: %w", id, ErrDemodNotFound)
	}
	removed := r.demods[idx]
	r.demods = append(r.demods[:idx:idx], r.demods[idx+1:]...)
	if r.active == removed {
		r.active = nil
		if n := len(r.demods); n > 0 {
			r.active = r.demods[n-1]
		}
	}
	r.mu.Unlock()
	r.notify()
	return nil
}

// Update applies fn to the demodulator under the write lock.
func (r *Registry) Update(id uint64, fn func(*model.Demodulator)) error {
	r.mu.Lock()
	d, ok := r.getLocked(id)
	if ok {
		fn(d)
	}
	r.mu.Unlock()
	if !ok {
		return fmt.Errorf("update demodulator %d: %w", id, ErrDemodNotFound)
	}
	r.notify()
	return nil
}

// SetLabel sets the user label.
func (r *Registry) SetLabel(id uint64, label string) error {
	return r.Update(id, func(d *model.Demodulator) { d.UserLabel = label })
}

// ToggleRecording flips the recording flag and returns the new value.
func (r *Registry) ToggleRecording(id uint64) (bool, error) {
	var on bool
	err := r.Update(id, func(d *model.Demodulator) {
		d.Recording = !d.Recording
		on = d.Recording
	})
	return on, err
}

// Len returns the number of live demodulators.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.demods)
}
