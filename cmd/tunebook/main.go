package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/vanderheijden86/tunebook/pkg/bookmarks"
	"github.com/vanderheijden86/tunebook/pkg/config"
	"github.com/vanderheijden86/tunebook/pkg/debug"
	"github.com/vanderheijden86/tunebook/pkg/demod"
	"github.com/vanderheijden86/tunebook/pkg/export"
	"github.com/vanderheijden86/tunebook/pkg/metrics"
	"github.com/vanderheijden86/tunebook/pkg/treesync"
	_ "github.com/vanderheijden86/tunebook/pkg/ttyguard"
	"github.com/vanderheijden86/tunebook/pkg/ui"
	"github.com/vanderheijden86/tunebook/pkg/version"
	"github.com/vanderheijden86/tunebook/pkg/watcher"
)

func main() {
	configPath := flag.String("config", "", "Config file (default: $XDG_CONFIG_HOME/tunebook/config.yaml)")
	bookmarksPath := flag.String("bookmarks", "", "Bookmark file (overrides the config)")
	listFlag := flag.Bool("list", false, "Print the bookmark tree and exit")
	searchFlag := flag.String("search", "", "Only list entries matching these keywords (with --list)")
	jsonFlag := flag.Bool("json", false, "Print --list output as JSON")
	exportSQLite := flag.String("export-sqlite", "", "Export the bookmarks to a SQLite database in this directory and exit")
	exportJSON := flag.String("export-json", "", "Export the bookmarks to this JSON file and exit")
	noHooks := flag.Bool("no-hooks", false, "Skip the export hooks in hooks.yaml")
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	flag.Parse()

	if *help {
		fmt.Println("Usage: tunebook [options]")
		fmt.Println("\nA bookmark sidebar for SDR receivers.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("tunebook %s\n", version.Version)
		os.Exit(0)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *bookmarksPath != "" {
		cfg.BookmarksPath = *bookmarksPath
	}

	store := bookmarks.New(bookmarks.WithMaxRecents(cfg.MaxRecents))
	if err := store.Load(cfg.BookmarksPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading bookmarks: %v\n", err)
		os.Exit(1)
	}

	if *exportSQLite != "" || *exportJSON != "" {
		opts := export.Options{
			SQLiteDir: *exportSQLite,
			JSONPath:  *exportJSON,
			Source:    cfg.BookmarksPath,
		}
		if err := runExport(context.Background(), store, opts, config.ConfigDir(), *noHooks); err != nil {
			fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if *listFlag {
		tree := buildListTree(store, cfg, *searchFlag)
		if *jsonFlag {
			err = writeListJSON(os.Stdout, tree)
		} else {
			err = writeList(os.Stdout, tree)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "tunebook needs a terminal; use --list or --export-json for scripted use")
		os.Exit(2)
	}

	if err := runTUI(cfg, store); err != nil {
		fmt.Printf("Error running tunebook: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// runTUI wires the store, registry and tree engine to the UI and runs it
// until the user quits. Pending bookmark changes are flushed on exit.
func runTUI(cfg config.Config, store *bookmarks.Store) error {
	logFile, err := tea.LogToFile(config.LogPath(), "tunebook")
	if err == nil {
		defer logFile.Close()
		debug.SetOutput(logFile)
	}

	errCh := make(chan error, 4)
	persister := bookmarks.NewPersister(store, cfg.BookmarksPath, cfg.SaveDelay, func(err error) {
		select {
		case errCh <- err:
		default:
		}
	})
	defer func() {
		if err := persister.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving bookmarks: %v\n", err)
		}
	}()

	var w *watcher.Watcher
	if cfg.WatchEnabled() {
		w, err = watcher.New(cfg.BookmarksPath,
			watcher.WithDebounceDuration(cfg.Watch.Debounce),
			watcher.WithPollInterval(cfg.Watch.PollInterval),
			watcher.WithForcePoll(cfg.Watch.ForcePoll),
		)
		if err == nil {
			err = w.Start(context.Background())
		}
		if err != nil {
			debug.Log("watcher disabled: %v", err)
			w = nil
		} else {
			defer w.Stop()
		}
	}

	demods := demod.NewRegistry()
	tuner := demod.NewTuner(cfg.Tuner.Center, cfg.Tuner.SampleRate)
	sync := treesync.NewSync(treesync.NewEngine(store, demods, cfg.ExpandState()))
	store.Subscribe(sync)
	demods.Subscribe(sync)

	m := ui.NewModel(ui.Deps{
		Store:     store,
		Demods:    demods,
		Tuner:     tuner,
		Sync:      sync,
		Persister: persister,
		Watcher:   w,
		Errors:    errCh,
		Config:    cfg,
	})

	err = runTUIProgram(m)
	if debug.Enabled() {
		debug.Dump("timings", metrics.AllTimingStats())
		debug.Dump("counters", metrics.CounterValues())
	}
	return err
}

func runTUIProgram(m ui.Model) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
	)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	// Optional auto-quit for automated tests: set TUNEBOOK_TUI_AUTOCLOSE_MS.
	if v := os.Getenv("TUNEBOOK_TUI_AUTOCLOSE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			go func() {
				timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
				defer timer.Stop()

				select {
				case <-runDone:
					return
				case <-timer.C:
				}

				p.Quit()
			}()
		}
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted) {
		return nil
	}
	return err
}
