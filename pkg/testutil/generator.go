// Package testutil provides bookmark fixture generators and assertions.
// All generators produce deterministic output for reproducible tests.
package testutil

import (
	"fmt"
	"math/rand"

	"github.com/vanderheijden86/tunebook/pkg/bookmarks"
	"github.com/vanderheijden86/tunebook/pkg/model"
)

// Band describes where generated bookmarks of one demodulator type live.
type Band struct {
	Type      string
	Low       int64 // Hz
	High      int64 // Hz
	Step      int64 // channel raster
	Bandwidth int64
}

// DefaultBands covers the usual broadcast and voice allocations.
var DefaultBands = []Band{
	{Type: "FM", Low: 88_000_000, High: 108_000_000, Step: 100_000, Bandwidth: 200_000},
	{Type: "AM", Low: 530_000, High: 1_700_000, Step: 10_000, Bandwidth: 10_000},
	{Type: "NFM", Low: 144_000_000, High: 148_000_000, Step: 12_500, Bandwidth: 12_500},
	{Type: "USB", Low: 14_000_000, High: 14_350_000, Step: 1_000, Bandwidth: 2_800},
}

// GeneratorConfig controls fixture generation.
type GeneratorConfig struct {
	Seed        int64  // 0 = 42
	IDPrefix    string // default: "test"
	Groups      int
	PerGroup    int
	Ranges      int
	Recents     int
	Bands       []Band // nil = DefaultBands
	Unlabeled   bool   // leave bookmark labels empty
	AllExpanded bool   // otherwise every third group is collapsed
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:     42,
		IDPrefix: "test",
		Groups:   3,
		PerGroup: 4,
		Ranges:   2,
		Recents:  3,
	}
}

// Generator creates bookmark files.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
	seq int
}

// New creates a Generator with the given config.
func New(cfg GeneratorConfig) *Generator {
	if cfg.Seed == 0 {
		cfg.Seed = 42
	}
	if cfg.IDPrefix == "" {
		cfg.IDPrefix = "test"
	}
	if len(cfg.Bands) == 0 {
		cfg.Bands = DefaultBands
	}
	return &Generator{cfg: cfg, rng: rand.New(rand.NewSource(cfg.Seed))}
}

// NewDefault creates a Generator with default config.
func NewDefault() *Generator {
	return New(DefaultConfig())
}

func (g *Generator) nextID(kind string) string {
	g.seq++
	return fmt.Sprintf("%s-%s-%d", g.cfg.IDPrefix, kind, g.seq)
}

func (g *Generator) pickBand() Band {
	return g.cfg.Bands[g.rng.Intn(len(g.cfg.Bands))]
}

func (g *Generator) pickFrequency(b Band) int64 {
	channels := (b.High - b.Low) / b.Step
	return b.Low + g.rng.Int63n(channels+1)*b.Step
}

// Bookmark returns one bookmark on a random band.
func (g *Generator) Bookmark(label string) *model.Bookmark {
	b := g.pickBand()
	if g.cfg.Unlabeled {
		label = ""
	}
	return &model.Bookmark{
		ID:        g.nextID("bm"),
		Label:     label,
		Type:      b.Type,
		Frequency: g.pickFrequency(b),
		Bandwidth: b.Bandwidth,
	}
}

// Range returns one range inside a random band.
func (g *Generator) Range(label string) *model.Range {
	b := g.pickBand()
	start := g.pickFrequency(b)
	end := start + b.Step*int64(10+g.rng.Intn(90))
	return &model.Range{ID: g.nextID("rng"), Label: label, Start: start, End: end}
}

// File builds a bookmark file. Group names are "Group 00", "Group 01" and
// so on so that they sort in creation order.
func (g *Generator) File() *bookmarks.File {
	f := &bookmarks.File{Version: bookmarks.FileVersion}
	for i := 0; i < g.cfg.Groups; i++ {
		fg := bookmarks.FileGroup{
			Name:     fmt.Sprintf("Group %02d", i),
			Expanded: g.cfg.AllExpanded || i%3 != 2,
		}
		for j := 0; j < g.cfg.PerGroup; j++ {
			fg.Bookmarks = append(fg.Bookmarks, g.Bookmark(fmt.Sprintf("Station %d.%d", i, j)))
		}
		f.Groups = append(f.Groups, fg)
	}
	for i := 0; i < g.cfg.Ranges; i++ {
		f.Ranges = append(f.Ranges, g.Range(fmt.Sprintf("Range %d", i)))
	}
	for i := 0; i < g.cfg.Recents; i++ {
		b := g.Bookmark("")
		b.ID = g.nextID("recent")
		f.Recents = append(f.Recents, b)
	}
	return f
}

// Store returns a store loaded with a generated file.
func (g *Generator) Store(opts ...bookmarks.Option) (*bookmarks.Store, error) {
	s := bookmarks.New(opts...)
	if err := s.Replace(g.File()); err != nil {
		return nil, err
	}
	return s, nil
}

// QuickFile creates a file with default settings and the given shape.
func QuickFile(groups, perGroup int) *bookmarks.File {
	cfg := DefaultConfig()
	cfg.Groups, cfg.PerGroup = groups, perGroup
	return New(cfg).File()
}

// QuickStore is QuickFile loaded into a store. It panics on a generator
// bug since the generated file is always valid.
func QuickStore(groups, perGroup int) *bookmarks.Store {
	cfg := DefaultConfig()
	cfg.Groups, cfg.PerGroup = groups, perGroup
	s, err := New(cfg).Store()
	if err != nil {
		panic(err)
	}
	return s
}

// Empty returns a file with no entries.
func Empty() *bookmarks.File {
	return &bookmarks.File{Version: bookmarks.FileVersion}
}

// Single returns a file holding one bookmark in one group.
func Single() *bookmarks.File {
	return &bookmarks.File{
		Version: bookmarks.FileVersion,
		Groups: []bookmarks.FileGroup{{
			Name:     "General",
			Expanded: true,
			Bookmarks: []*model.Bookmark{{
				ID: "test-single", Label: "Single", Type: "FM", Frequency: 100_000_000, Bandwidth: 200_000,
			}},
		}},
	}
}
