package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/vanderheijden86/tunebook/pkg/bookmarks"
	"github.com/vanderheijden86/tunebook/pkg/export"
	"github.com/vanderheijden86/tunebook/pkg/hooks"
)

func runExport(ctx context.Context, store *bookmarks.Store, opts export.Options, hooksDir string, noHooks bool) error {
	return exportWithHooks(ctx, os.Stdout, os.Stderr, store, opts, hooksDir, noHooks)
}

// exportWithHooks wraps export.Run with the pre- and post-export hooks.
// A failing pre-export hook cancels the export; post-export failures are
// reported after the export result.
func exportWithHooks(ctx context.Context, out, errOut io.Writer, store *bookmarks.Store, opts export.Options, hooksDir string, noHooks bool) error {
	groups, marks, _, _ := store.Counts()
	hctx := hooks.ExportContext{
		BookmarksPath: opts.Source,
		JSONPath:      opts.JSONPath,
		BookmarkCount: marks,
		GroupCount:    groups,
		Timestamp:     time.Now().UTC(),
	}
	if opts.SQLiteDir != "" {
		hctx.SQLitePath = filepath.Join(opts.SQLiteDir, export.DatabaseName)
	}

	executor, warnings, err := hooks.RunHooks(hooksDir, hctx, noHooks)
	if err != nil {
		return fmt.Errorf("load hooks: %w", err)
	}
	for _, w := range warnings {
		fmt.Fprintf(errOut, "Warning: %s\n", w)
	}
	if executor != nil {
		defer func() {
			if s := executor.Summary(); s != "" {
				fmt.Fprint(errOut, s)
			}
		}()
		if err := executor.RunPreExport(); err != nil {
			return err
		}
	}

	res, err := export.Run(ctx, store.Snapshot(), opts)
	if err != nil {
		return err
	}
	printExportResult(out, res)

	if executor == nil {
		return nil
	}
	hctx.SQLitePath, hctx.JSONPath = res.Database, res.JSON
	executor.SetContext(hctx)
	return executor.RunPostExport()
}
