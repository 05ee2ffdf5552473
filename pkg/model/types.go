// Package model holds the records shared by the bookmark store, the
// demodulator registry and the tree engine.
package model

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Bookmark is a saved or recently tuned receiver setting. Recents and saved
// bookmarks share this type; promoting a recent keeps its ID.
type Bookmark struct {
	ID        string `yaml:"id" json:"id"`
	Label     string `yaml:"label,omitempty" json:"label,omitempty"`
	Type      string `yaml:"type" json:"type"`
	Frequency int64  `yaml:"frequency" json:"frequency"`
	Bandwidth int64  `yaml:"bandwidth" json:"bandwidth"`
}

// NewBookmark returns a bookmark with a fresh ID.
func NewBookmark(label, typ string, freq, bw int64) *Bookmark {
	return &Bookmark{
		ID:        uuid.NewString(),
		Label:     label,
		Type:      typ,
		Frequency: freq,
		Bandwidth: bw,
	}
}

// DisplayName is the label, or "<freq> <type>" when the label is empty.
func (b *Bookmark) DisplayName() string {
	if b.Label != "" {
		return b.Label
	}
	return FormatFrequency(b.Frequency) + " " + b.Type
}

// Clone returns a copy with the same ID.
func (b *Bookmark) Clone() *Bookmark {
	c := *b
	return &c
}

// Validate checks the fields a bookmark cannot be used without.
func (b *Bookmark) Validate() error {
	if b.ID == "" {
		return fmt.Errorf("bookmark has no id")
	}
	if b.Frequency <= 0 {
		return fmt.Errorf("bookmark %s: frequency must be positive", b.ID)
	}
	if b.Bandwidth < 0 {
		return fmt.Errorf("bookmark %s: negative bandwidth", b.ID)
	}
	return nil
}

// Range is a saved frequency span.
type Range struct {
	ID    string `yaml:"id" json:"id"`
	Label string `yaml:"label,omitempty" json:"label,omitempty"`
	Start int64  `yaml:"start" json:"start"`
	End   int64  `yaml:"end" json:"end"`
}

// NewRange returns a range with a fresh ID. Start and end are swapped if
// given in the wrong order.
func NewRange(label string, start, end int64) *Range {
	if end < start {
		start, end = end, start
	}
	return &Range{ID: uuid.NewString(), Label: label, Start: start, End: end}
}

// Center is the midpoint of the span.
func (r *Range) Center() int64 {
	return r.Start + (r.End-r.Start)/2
}

// Span is the width of the range in Hz.
func (r *Range) Span() int64 {
	return r.End - r.Start
}

// DisplayName is the label, or "<start> - <end>" when the label is empty.
func (r *Range) DisplayName() string {
	if r.Label != "" {
		return r.Label
	}
	return FormatFrequency(r.Start) + " - " + FormatFrequency(r.End)
}

// Demodulator is a live demodulator as seen by the sidebar. The registry
// owns these records; everything else holds pointers for display only.
type Demodulator struct {
	ID        uint64
	Type      string
	UserLabel string
	Frequency int64
	Bandwidth int64
	Recording bool
}

// DisplayName is the user label, or "<freq> <type>" when it is empty.
func (d *Demodulator) DisplayName() string {
	if d.UserLabel != "" {
		return d.UserLabel
	}
	return FormatFrequency(d.Frequency) + " " + d.Type
}

// Matches reports whether the demodulator was created from the given
// bookmark settings.
func (d *Demodulator) Matches(typ, label string, freq, bw int64) bool {
	return d.Type == typ && d.UserLabel == label && d.Frequency == freq && d.Bandwidth == bw
}

// ToBookmark snapshots the demodulator settings into a new bookmark.
func (d *Demodulator) ToBookmark() *Bookmark {
	return NewBookmark(d.UserLabel, d.Type, d.Frequency, d.Bandwidth)
}

// NormalizeGroupName trims whitespace from a user supplied group name.
func NormalizeGroupName(name string) string {
	return strings.TrimSpace(name)
}
