package demod

import "sync"

// Tuner is the receiver front end: a centre frequency, the sample rate
// around it, and the span shown in the spectrum view.
type Tuner struct {
	mu         sync.RWMutex
	center     int64
	sampleRate int64
	viewCenter int64
	viewSpan   int64
}

// NewTuner returns a tuner showing the full sample rate.
func NewTuner(center, sampleRate int64) *Tuner {
	return &Tuner{center: center, sampleRate: sampleRate, viewCenter: center}
}

func (t *Tuner) Center() int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.center
}

func (t *Tuner) SampleRate() int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.sampleRate
}

// SetCenter retunes the front end and recentres the view on it.
func (t *Tuner) SetCenter(freq int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.center = freq
	t.viewCenter = freq
}

// InBand reports whether freq can be received without retuning.
func (t *Tuner) InBand(freq int64) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	d := freq - t.center
	if d < 0 {
		d = -d
	}
	return d <= t.sampleRate/2
}

// EnsureInBand retunes to freq if it lies outside the band. It reports
// whether it retuned.
func (t *Tuner) EnsureInBand(freq int64) bool {
	if t.InBand(freq) {
		return false
	}
	t.SetCenter(freq)
	return true
}

// SetView sets the visible span. A span of 0 or one wider than the sample
// rate shows the whole band.
func (t *Tuner) SetView(center, span int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if span <= 0 || span >= t.sampleRate {
		t.viewCenter, t.viewSpan = t.center, 0
		return
	}
	t.viewCenter, t.viewSpan = center, span
}

// View returns the visible window as (center, span).
func (t *Tuner) View() (center, span int64) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.viewSpan == 0 {
		return t.center, t.sampleRate
	}
	return t.viewCenter, t.viewSpan
}

// VisibleRange returns the start and end of the visible window.
func (t *Tuner) VisibleRange() (start, end int64) {
	c, s := t.View()
	return c - s/2, c + s/2
}
