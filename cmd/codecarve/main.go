package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"

	"codecarve/internal/config"
	"codecarve/internal/merge"
	"codecarve/internal/tree"
)

var (
	// To set this at build time, use go build -ldflags '-X main.version=something'.
	version = "unknown"

	// Flag sets are associated with the fields of a corresponding context
	// struct. Sometimes the properties are bound to positional arguments.
	// The global context is for flags that are part of all flag sets, that
	// is, all sub-commands.
	globalContext struct {
		base     string
		logLevel string
	}

	splitContext struct {
		workers int
	}
)

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.StringVar(&globalContext.base, "base", config.DefaultBaseDirectoryPath, "`directory` for configuration")
	var levels []string
	for _, l := range log.AllLevels {
		levels = append(levels, l.String())
	}
	fs.StringVar(&globalContext.logLevel, "verbosity", "", "sets the log `level`, among "+strings.Join(levels, ", "))
	return fs
}

func exitUsage(msg string) {
	_, _ = fmt.Fprintln(os.Stderr, msg)
	_, _ = fmt.Fprintf(os.Stderr, `Usage: %s COMMAND [ARGS]

Commands:

	split LEFT_DIR RIGHT_DIR: reconcile two directory roots in place

		This is the entry point to configure as a split hook. LEFT_DIR holds
		the prior revision, RIGHT_DIR the working copy mixing code changes
		with comment and whitespace edits. Every file under RIGHT_DIR is
		rewritten so that only its code changes remain; comments deleted in
		the working copy are restored, comments added are dropped. Files
		only in LEFT_DIR are restored verbatim; files only in RIGHT_DIR are
		filtered down to their code. The %s file, if present, is
		left alone.

	merge LEFT_FILE RIGHT_FILE: merge a single file to standard output

		Pass - for LEFT_FILE when the file had no prior revision.

	filter FILE: filter a brand-new file to standard output
	init: initializes configuration given the base directory
	version: show version information

Set CARVE_VERBOSE=1 to log one diagnostic line per processed path.
`, os.Args[0], tree.InstructionsFile)
	os.Exit(2)
}

func main() {
	splitFlags := newFlagSet("split")
	splitFlags.IntVar(&splitContext.workers, "workers", 0, "max `number` of files reconciled concurrently, 0 for the default")

	// For all commands that don't take flags of their own.
	mergeFlags := newFlagSet("merge")
	filterFlags := newFlagSet("filter")
	emptyFlags := newFlagSet("empty")

	if len(os.Args) < 2 {
		exitUsage("Command name required")
	}

	switch cmd := os.Args[1]; cmd {
	case "split":
		// Ignoring error - here and in all other cases below - because we
		// configure flag sets to exit on error.
		_ = splitFlags.Parse(os.Args[2:])
		if narg := splitFlags.NArg(); narg != 2 {
			exitUsage(fmt.Sprintf("split: expected LEFT_DIR and RIGHT_DIR, got %d args", narg))
		}
	case "merge":
		_ = mergeFlags.Parse(os.Args[2:])
		if narg := mergeFlags.NArg(); narg != 2 {
			exitUsage(fmt.Sprintf("merge: expected LEFT_FILE and RIGHT_FILE, got %d args", narg))
		}
	case "filter":
		_ = filterFlags.Parse(os.Args[2:])
		if narg := filterFlags.NArg(); narg != 1 {
			exitUsage(fmt.Sprintf("filter: expected FILE, got %d args", narg))
		}
	case "init":
		_ = emptyFlags.Parse(os.Args[2:])
		if narg := emptyFlags.NArg(); narg != 0 {
			exitUsage(fmt.Sprintf("init: no args expected, got %d", narg))
		}
	case "version":
		_ = emptyFlags.Parse(os.Args[2:])
		if narg := emptyFlags.NArg(); narg != 0 {
			exitUsage(fmt.Sprintf("version: no args expected, got %d", narg))
		}
	default:
		exitUsage(fmt.Sprintf("%q: command not recognized", cmd))
	}

	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.JSONFormatter{})

	// The init subcommand is special, because it must create configuration,
	// not use it. And version must work even with a broken one.
	switch os.Args[1] {
	case "init":
		if err := config.Initialize(globalContext.base); err != nil {
			log.Fatalf("Could not initialize config in %q: %v", globalContext.base, err)
		}
		return
	case "version":
		fmt.Printf("codecarve version %s\n", version)
		return
	}

	cfg, err := config.Load(globalContext.base)
	if err != nil {
		log.Fatalf("Could not load config from %q: %v", globalContext.base, err)
	}
	setLogLevel(cfg)
	merger := merge.Merger{Policy: cfg.Policy()}

	switch os.Args[1] {
	case "split":
		workers := splitContext.workers
		if workers == 0 {
			workers = cfg.Workers
		}
		r := tree.Reconciler{
			Left:    splitFlags.Arg(0),
			Right:   splitFlags.Arg(1),
			Merger:  merger,
			Workers: workers,
		}
		if err := r.Reconcile(); err != nil {
			log.Fatalf("Could not reconcile %q with %q: %v", r.Left, r.Right, err)
		}
	case "merge":
		var leftText string
		if name := mergeFlags.Arg(0); name != "-" {
			b, err := os.ReadFile(name)
			if err != nil {
				log.Fatalf("Could not read %q: %v", name, err)
			}
			leftText = string(b)
		}
		b, err := os.ReadFile(mergeFlags.Arg(1))
		if err != nil {
			log.Fatalf("Could not read %q: %v", mergeFlags.Arg(1), err)
		}
		fmt.Print(merger.KeepCode(leftText, string(b)))
	case "filter":
		b, err := os.ReadFile(filterFlags.Arg(0))
		if err != nil {
			log.Fatalf("Could not read %q: %v", filterFlags.Arg(0), err)
		}
		fmt.Print(merger.FilterNew(string(b)))
	}
}

// setLogLevel resolves the log level: the -verbosity flag wins, then the
// CARVE_VERBOSE toggle, then the config file, then warning.
func setLogLevel(cfg *config.C) {
	level := globalContext.logLevel
	if level == "" && os.Getenv("CARVE_VERBOSE") != "" {
		level = "debug"
	}
	if level == "" {
		level = cfg.Verbosity
	}
	if level == "" {
		level = "warning"
	}
	ll, err := log.ParseLevel(level)
	if err != nil {
		log.Fatalf("Could not parse log level %q: %v", level, err)
	}
	log.SetLevel(ll)
}
