package source

import (
	"sort"
	"strings"
	"sync"
)

// Group maps file names to their contents so diagnostics can render
// snippets for sources that never existed on disk, such as the declaration
// text produced for an imported C header. It is safe for concurrent use;
// headers are translated in parallel.
type Group struct {
	mu    sync.RWMutex
	files map[string][]string
}

func NewGroup() *Group {
	return &Group{files: make(map[string][]string)}
}

// Add registers (or replaces) the contents of a file.
func (g *Group) Add(name string, content []byte) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.files[name] = strings.Split(string(content), "\n")
}

// Line returns the 1-based line of a registered file.
func (g *Group) Line(name string, line int) (string, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	lines, ok := g.files[name]
	if !ok || line < 1 || line > len(lines) {
		return "", false
	}
	return strings.TrimRight(lines[line-1], "\r"), true
}

func (g *Group) Has(name string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.files[name]
	return ok
}

func (g *Group) Names() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	names := make([]string, 0, len(g.files))
	for name := range g.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
