//go:build ignore

// generate_testdata.go creates bookmark files for benchmarking and manual
// testing of the sidebar.
// Usage: go run scripts/generate_testdata.go [output dir]
//
// Creates (default dir tests/testdata/bookmarks):
//
//	small.yaml   (5 groups x 10 bookmarks)
//	medium.yaml  (20 groups x 50 bookmarks)
//	large.yaml   (50 groups x 200 bookmarks)
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vanderheijden86/tunebook/pkg/bookmarks"
	"github.com/vanderheijden86/tunebook/pkg/testutil"
)

type datasetSpec struct {
	name     string
	groups   int
	perGroup int
	ranges   int
	recents  int
}

var datasets = []datasetSpec{
	{"small", 5, 10, 4, 10},
	{"medium", 20, 50, 20, 25},
	{"large", 50, 200, 100, 25},
}

func main() {
	outputDir := "tests/testdata/bookmarks"
	if len(os.Args) > 1 {
		outputDir = os.Args[1]
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	for _, ds := range datasets {
		fmt.Printf("Generating %s dataset (%d bookmarks)...\n", ds.name, ds.groups*ds.perGroup)

		gen := testutil.New(testutil.GeneratorConfig{
			Seed:     int64(ds.groups*1000 + ds.perGroup),
			IDPrefix: ds.name,
			Groups:   ds.groups,
			PerGroup: ds.perGroup,
			Ranges:   ds.ranges,
			Recents:  ds.recents,
		})
		store, err := gen.Store(bookmarks.WithMaxRecents(ds.recents))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to build %s: %v\n", ds.name, err)
			os.Exit(1)
		}

		path := filepath.Join(outputDir, ds.name+".yaml")
		if err := store.Save(path); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", path, err)
			os.Exit(1)
		}
		groups, marks, ranges, recents := store.Counts()
		fmt.Printf("  Wrote %s: %d groups, %d bookmarks, %d ranges, %d recents\n", path, groups, marks, ranges, recents)
	}

	fmt.Println("Done.")
}
