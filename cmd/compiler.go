package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"krawl/cmd/flags"
	"krawl/colors"
	"krawl/internal/backend"
	"krawl/internal/brawl"
	"krawl/internal/cimport"
	"krawl/internal/config"
	"krawl/internal/frontend/parser"
	"krawl/internal/registry"
	"krawl/internal/report"
	"krawl/internal/semantic/analyzer"
	"krawl/internal/semantic/collector"
	"krawl/internal/semantic/typecheck"
	"krawl/internal/source"
	"krawl/internal/symbol"
	"krawl/internal/utils/fs"
)

const stdinName = "stdin"

// Driver runs the pipeline for one invocation. The import cache it owns is
// shared by the unit being compiled and every header built on a cache miss.
type Driver struct {
	Args     *flags.Args
	Config   *config.Config
	Files    *source.Group
	Importer *registry.Importer

	Stdout io.Writer
	Stderr io.Writer

	// serializes diagnostics of headers built concurrently
	displayMu sync.Mutex
}

// NewDriver wires the C front end, the import cache and the module search
// path from the configuration. Flags have already been folded into cfg.
func NewDriver(args *flags.Args, cfg *config.Config) *Driver {
	d := &Driver{
		Args:   args,
		Config: cfg,
		Files:  source.NewGroup(),
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
	bridge := &cimport.Bridge{Clang: cfg.Clang, Plugin: cfg.ClangPlugin, Debug: args.Debug}
	cache := registry.NewCache(cfg.CacheDir, bridge, d)
	cache.Debug = args.Debug
	d.Importer = &registry.Importer{Cache: cache, IncludeDirs: cfg.IncludeDirs}
	return d
}

// Compile reads the source file (or standard input), runs the passes and
// writes the listing, plus the module interface for library builds. It
// returns the process exit status.
func (d *Driver) Compile(ctx context.Context) int {
	name, content, err := d.readInput()
	if err != nil {
		colors.RED.Fprintf(d.Stderr, "%v\n", err)
		return 1
	}

	if d.Args.Deps {
		return d.printDeps(name, content)
	}

	timers := newTimers(d.Args.Time, d.Stderr)
	defer timers.Print()

	reports := &report.Reports{}
	d.Files.Add(name, content)

	stop := timers.Start("parse")
	program := parser.NewParser(name, content, reports, d.Args.Debug).Parse()
	stop()
	if d.halt(reports, "Parsing") {
		return 1
	}

	u := analyzer.NewUnit(name, program, reports, d.Files, d.Args.Debug)
	defer u.Destroy()
	u.Prefix = d.Args.Prefix()
	u.Package = d.Args.Package

	stop = timers.Start("pass1")
	collector.CollectProgram(ctx, u, d.Importer)
	stop()
	if d.halt(reports, "Pass 1") {
		return 1
	}

	stop = timers.Start("pass2")
	typecheck.CheckProgram(u)
	if d.halt(reports, "Pass 2") {
		stop()
		return 1
	}
	if d.Args.IsLib() {
		if err := brawl.WriteFile(d.Args.LibPath, u.Trackers, u.Decls, u.Prefix, u.Package); err != nil {
			stop()
			colors.RED.Fprintf(d.Stderr, "%v\n", err)
			return 1
		}
		if d.Args.Debug {
			colors.GREEN.Printf("Module interface written to: %s\n", d.Args.LibPath)
		}
	}
	stop()

	stop = timers.Start("pass3")
	defer stop()
	var dump io.Writer
	if d.Args.Dump || d.Args.OutputPath == "" {
		dump = d.Stdout
	}
	if err := backend.Lower(u, d.Args.OutputPath, dump); err != nil {
		colors.RED.Fprintf(d.Stderr, "%v\n", err)
		return 1
	}
	if d.halt(reports, "Pass 3") {
		return 1
	}

	if len(*reports) > 0 {
		reports.DisplayAll(d.Stderr, d.Files)
	}
	return 0
}

// halt renders the diagnostics and reports whether they stop the build.
func (d *Driver) halt(reports *report.Reports, stage string) bool {
	if reports.HasErrors() {
		reports.DisplayAll(d.Stderr, d.Files)
		return true
	}
	if d.Args.Debug {
		colors.BLUE.Printf("---------- [%s done] ----------\n", stage)
	}
	return false
}

func (d *Driver) readInput() (string, []byte, error) {
	if d.Args.Filename == "" {
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", nil, fmt.Errorf("failed to read data from stdin: %w", err)
		}
		return stdinName, content, nil
	}

	if !fs.IsValidFile(d.Args.Filename) {
		return "", nil, fmt.Errorf("source file not found: %s", d.Args.Filename)
	}
	content, err := os.ReadFile(d.Args.Filename)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read data from file: %w", err)
	}
	return filepath.ToSlash(d.Args.Filename), content, nil
}

// printDeps lists the distinct import paths of the source, one per line.
func (d *Driver) printDeps(name string, content []byte) int {
	reports := &report.Reports{}
	d.Files.Add(name, content)
	program := parser.NewParser(name, content, reports, d.Args.Debug).Parse()
	if reports.HasErrors() {
		reports.DisplayAll(d.Stderr, d.Files)
		return 1
	}
	for _, path := range program.ImportPaths() {
		fmt.Fprintln(d.Stdout, path)
	}
	return 0
}

// CompileHeader makes sure the import cache holds an up to date interface
// for header and returns its path.
func (d *Driver) CompileHeader(ctx context.Context, header string) (string, error) {
	return d.Importer.Resolve(ctx, header)
}

// BuildHeader is called by the import cache on a miss. It checks the
// declarations the C front end produced for a header and writes them as a
// module interface with no symbol prefix. Headers imported by the
// translation are resolved with ctx, which carries the chain of builds.
func (d *Driver) BuildHeader(ctx context.Context, tr *cimport.Translation, artifact string) error {
	name := tr.Header
	content := []byte(tr.Source)
	d.Files.Add(name, content)

	reports := &report.Reports{}
	program := parser.NewParser(name, content, reports, d.Args.Debug).Parse()
	if reports.HasErrors() {
		return d.headerFailed(tr.Header, reports)
	}

	u := analyzer.NewUnit(name, program, reports, d.Files, d.Args.Debug)
	defer u.Destroy()
	u.Package = symbol.PackageName(fs.Stem(tr.Header))

	collector.CollectProgram(ctx, u, d.Importer)
	if reports.HasErrors() {
		return d.headerFailed(tr.Header, reports)
	}
	typecheck.CheckProgram(u)
	if reports.HasErrors() {
		return d.headerFailed(tr.Header, reports)
	}

	if d.Args.Debug {
		colors.PURPLE.Printf("Built %d declarations for %q\n", len(u.Decls), tr.Header)
	}
	return brawl.WriteFile(artifact, u.Trackers, u.Decls, "", u.Package)
}

func (d *Driver) headerFailed(header string, reports *report.Reports) error {
	d.displayMu.Lock()
	reports.DisplayAll(d.Stderr, d.Files)
	d.displayMu.Unlock()
	return fmt.Errorf("%d errors in declarations translated from %s", reports.ErrorCount(), header)
}
