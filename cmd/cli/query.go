package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/peterh/liner"

	"krawl/colors"
	"krawl/internal/brawl"
	"krawl/internal/symbol"
)

const (
	QUERY_PROMPT      = "brawl> "
	QUERY_HISTORY     = "query_history"
	QUERY_LOAD_ERROR  = "❌ Failed to load module interface: %v\n"
	QUERY_HELP_HINT   = "💡 Type 'help' for the list of commands"
	QUERY_UNKNOWN_MSG = "no declaration named %q\n"
)

// Query is an interactive view of one module interface.
type Query struct {
	Path   string
	Module *brawl.Module

	tr     *symbol.Trackers
	byName map[string]symbol.DeclID
}

// OpenQuery loads the module interface at path into fresh trackers.
func OpenQuery(path string) (*Query, error) {
	tr := symbol.NewTrackers()
	mod, err := brawl.ReadFile(path, tr)
	if err != nil {
		tr.Teardown()
		return nil, err
	}
	q := &Query{Path: path, Module: mod, tr: tr, byName: make(map[string]symbol.DeclID, len(mod.Decls))}
	for _, id := range mod.Decls {
		q.byName[tr.Decls.Get(id).Name] = id
	}
	return q, nil
}

// Close releases the trackers holding the module.
func (q *Query) Close() {
	q.tr.Teardown()
}

// Execute runs one command line and reports whether the session should end.
func (q *Query) Execute(w io.Writer, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	switch fields[0] {
	case "quit", "exit", "q":
		return true
	case "help", "?":
		q.help(w)
	case "info":
		q.info(w)
	case "list", "ls":
		q.list(w, fields[1:])
	default:
		for _, name := range fields {
			q.describe(w, name)
		}
	}
	return false
}

func (q *Query) help(w io.Writer) {
	fmt.Fprintln(w, "list [kind]   list declarations, optionally only vars, consts, types or funcs")
	fmt.Fprintln(w, "info          show the package name, symbol prefix and declaration counts")
	fmt.Fprintln(w, "<name>...     describe declarations")
	fmt.Fprintln(w, "quit          leave")
}

func (q *Query) info(w io.Writer) {
	fmt.Fprintf(w, "file:    %s\n", q.Path)
	fmt.Fprintf(w, "package: %s\n", q.Module.Package)
	if q.Module.Prefix != "" {
		fmt.Fprintf(w, "prefix:  %s\n", q.Module.Prefix)
	} else {
		fmt.Fprintln(w, "prefix:  (none)")
	}

	counts := make(map[symbol.DeclKind]int)
	for _, id := range q.Module.Decls {
		counts[q.tr.Decls.Get(id).Kind]++
	}
	for _, kind := range []symbol.DeclKind{symbol.DeclType, symbol.DeclVar, symbol.DeclConst, symbol.DeclFunc} {
		fmt.Fprintf(w, "%-8s %d\n", kind.String()+"s:", counts[kind])
	}
}

func (q *Query) list(w io.Writer, filter []string) {
	names := make([]string, 0, len(q.byName))
	for name, id := range q.byName {
		if len(filter) > 0 && !kindMatches(q.tr.Decls.Get(id).Kind, filter[0]) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "%-5s %s\n", q.tr.Decls.Get(q.byName[name]).Kind, name)
	}
}

func kindMatches(kind symbol.DeclKind, filter string) bool {
	return strings.TrimSuffix(filter, "s") == kind.String()
}

func (q *Query) describe(w io.Writer, name string) {
	id, ok := q.byName[name]
	if !ok {
		fmt.Fprintf(w, QUERY_UNKNOWN_MSG, name)
		return
	}
	fmt.Fprintln(w, Describe(q.tr, q.tr.Decls.Get(id)))
}

// Describe renders a declaration the way it would be written in source.
func Describe(tr *symbol.Trackers, decl *symbol.Decl) string {
	switch decl.Kind {
	case symbol.DeclFunc:
		return "func " + decl.Name + strings.TrimPrefix(tr.TypeString(decl.Type), "func")
	case symbol.DeclConst:
		return fmt.Sprintf("const %s %s = %s", decl.Name, tr.TypeString(decl.Type), decl.Value)
	case symbol.DeclType:
		typ := decl.Type
		if named := tr.Types.Get(typ); named != nil && named.Kind == symbol.TypeNamed {
			typ = named.Underlying
		}
		return fmt.Sprintf("type %s %s", decl.Name, tr.TypeString(typ))
	default:
		return fmt.Sprintf("%s %s %s", decl.Kind, decl.Name, tr.TypeString(decl.Type))
	}
}

// HandleQueryCommand opens a line editor over the module interface at path.
// History is kept in historyDir when it is not empty.
func HandleQueryCommand(path, historyDir string) {
	q, err := OpenQuery(path)
	if err != nil {
		colors.RED.Printf(QUERY_LOAD_ERROR, err)
		os.Exit(1)
	}
	defer q.Close()

	if err := runQuery(q, historyDir); err != nil {
		colors.RED.Println(err)
		os.Exit(1)
	}
}

func runQuery(q *Query, historyDir string) error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetCompleter(q.complete)

	var historyPath string
	if historyDir != "" {
		historyPath = filepath.Join(historyDir, QUERY_HISTORY)
		if f, err := os.Open(historyPath); err == nil {
			_, _ = ln.ReadHistory(f)
			f.Close()
		}
	}

	colors.BLUE.Printf("%s (package %s, %d declarations)\n", q.Path, q.Module.Package, len(q.Module.Decls))
	colors.YELLOW.Println(QUERY_HELP_HINT)

	for {
		line, err := ln.Prompt(QUERY_PROMPT)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
				break
			}
			return fmt.Errorf("failed to read command: %w", err)
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		ln.AppendHistory(line)
		if q.Execute(os.Stdout, line) {
			break
		}
	}

	if historyPath == "" {
		return nil
	}
	if err := os.MkdirAll(historyDir, 0o755); err != nil {
		return nil
	}
	if f, err := os.Create(historyPath); err == nil {
		_, _ = ln.WriteHistory(f)
		f.Close()
	}
	return nil
}

// complete offers command and declaration names for the word being typed.
func (q *Query) complete(line string) []string {
	start := strings.LastIndexByte(line, ' ') + 1
	head, word := line[:start], line[start:]

	var candidates []string
	if start == 0 {
		for _, cmd := range []string{"list", "info", "help", "quit"} {
			if strings.HasPrefix(cmd, word) {
				candidates = append(candidates, cmd)
			}
		}
	}
	for name := range q.byName {
		if strings.HasPrefix(name, word) {
			candidates = append(candidates, head+name)
		}
	}
	sort.Strings(candidates)
	return candidates
}
