package export

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/tunebook/pkg/bookmarks"
	"github.com/vanderheijden86/tunebook/pkg/debug"
)

// Options selects the export targets. Empty fields are skipped.
type Options struct {
	SQLiteDir string
	JSONPath  string
	Source    string
}

// Result lists what was written.
type Result struct {
	Database string
	JSON     string
	Meta     ExportMeta
}

// Run exports a snapshot of f to every target in opts concurrently.
func Run(ctx context.Context, f *bookmarks.File, opts Options) (Result, error) {
	doc := Flatten(f, opts.Source)
	res := Result{Meta: doc.Meta}

	g, ctx := errgroup.WithContext(ctx)
	if opts.SQLiteDir != "" {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			exp := NewSQLiteExporter(doc)
			exp.Config.Source = opts.Source
			path, err := exp.Export(opts.SQLiteDir)
			if err != nil {
				return err
			}
			res.Database = path
			return nil
		})
	}
	if opts.JSONPath != "" {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := WriteJSON(opts.JSONPath, doc); err != nil {
				return err
			}
			res.JSON = opts.JSONPath
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	debug.Log("export: %d bookmarks to db=%q json=%q", doc.Meta.BookmarkCount, res.Database, res.JSON)
	return res, nil
}
