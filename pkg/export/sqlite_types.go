// Package export writes the bookmark store to formats other tools can read:
// a queryable SQLite database and a flat JSON document.
package export

import (
	"time"

	"github.com/vanderheijden86/tunebook/pkg/bookmarks"
	"github.com/vanderheijden86/tunebook/pkg/model"
)

// ExportBookmark is a bookmark flattened with its group for export.
type ExportBookmark struct {
	ID        string `json:"id"`
	Group     string `json:"group"`
	Label     string `json:"label,omitempty"`
	Type      string `json:"type"`
	Frequency int64  `json:"frequency"`
	Bandwidth int64  `json:"bandwidth"`
	Display   string `json:"display"`
}

// ExportRange is a saved range with its derived fields.
type ExportRange struct {
	ID     string `json:"id"`
	Label  string `json:"label,omitempty"`
	Start  int64  `json:"start"`
	End    int64  `json:"end"`
	Center int64  `json:"center"`
	Span   int64  `json:"span"`
}

// ExportMeta contains metadata about the export.
type ExportMeta struct {
	Version       string    `json:"version"`
	SchemaVersion int       `json:"schema_version"`
	GeneratedAt   time.Time `json:"generated_at"`
	Source        string    `json:"source,omitempty"`
	GroupCount    int       `json:"group_count"`
	BookmarkCount int       `json:"bookmark_count"`
	RangeCount    int       `json:"range_count"`
	RecentCount   int       `json:"recent_count"`
}

// Document is the JSON export layout.
type Document struct {
	Meta      ExportMeta       `json:"meta"`
	Groups    []ExportGroup    `json:"groups"`
	Bookmarks []ExportBookmark `json:"bookmarks"`
	Ranges    []ExportRange    `json:"ranges"`
	Recents   []ExportBookmark `json:"recents"`
}

// ExportGroup is a group row.
type ExportGroup struct {
	Name     string `json:"name"`
	Expanded bool   `json:"expanded"`
	Count    int    `json:"count"`
}

// SQLiteExportConfig configures the SQLite export process.
type SQLiteExportConfig struct {
	// Source is recorded in the metadata, usually the bookmark file path.
	Source string

	// PageSize is the SQLite page size.
	PageSize int

	// WriteMeta also writes meta.json next to the database.
	WriteMeta bool
}

// DefaultSQLiteExportConfig returns sensible defaults for export configuration.
func DefaultSQLiteExportConfig() SQLiteExportConfig {
	return SQLiteExportConfig{
		PageSize:  4096,
		WriteMeta: true,
	}
}

// Flatten converts a bookmark file into export rows. Recents get an empty
// group.
func Flatten(f *bookmarks.File, source string) Document {
	doc := Document{
		Meta: ExportMeta{
			Version:       "1.0.0",
			SchemaVersion: SchemaVersion,
			GeneratedAt:   time.Now().UTC(),
			Source:        source,
		},
		Groups:    []ExportGroup{},
		Bookmarks: []ExportBookmark{},
		Ranges:    []ExportRange{},
		Recents:   []ExportBookmark{},
	}
	if f == nil {
		return doc
	}
	for _, g := range f.Groups {
		count := 0
		for _, b := range g.Bookmarks {
			if b == nil {
				continue
			}
			doc.Bookmarks = append(doc.Bookmarks, exportBookmark(g.Name, b))
			count++
		}
		doc.Groups = append(doc.Groups, ExportGroup{Name: g.Name, Expanded: g.Expanded, Count: count})
	}
	for _, r := range f.Ranges {
		if r == nil {
			continue
		}
		doc.Ranges = append(doc.Ranges, ExportRange{
			ID:     r.ID,
			Label:  r.Label,
			Start:  r.Start,
			End:    r.End,
			Center: r.Center(),
			Span:   r.Span(),
		})
	}
	for _, b := range f.Recents {
		if b == nil {
			continue
		}
		doc.Recents = append(doc.Recents, exportBookmark("", b))
	}
	doc.Meta.GroupCount = len(doc.Groups)
	doc.Meta.BookmarkCount = len(doc.Bookmarks)
	doc.Meta.RangeCount = len(doc.Ranges)
	doc.Meta.RecentCount = len(doc.Recents)
	return doc
}

func exportBookmark(group string, b *model.Bookmark) ExportBookmark {
	return ExportBookmark{
		ID:        b.ID,
		Group:     group,
		Label:     b.Label,
		Type:      b.Type,
		Frequency: b.Frequency,
		Bandwidth: b.Bandwidth,
		Display:   b.DisplayName(),
	}
}
