package registry

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"krawl/colors"
	"krawl/constants"
	"krawl/internal/cimport"
	"krawl/internal/utils/fingerprint"
	"krawl/internal/utils/fs"
)

// Frontend translates a C header into krawl declarations.
type Frontend interface {
	Translate(ctx context.Context, header string) (*cimport.Translation, error)
}

// Builder checks a translated header and writes its module interface to
// artifact. Headers it imports must be resolved with ctx.
type Builder interface {
	BuildHeader(ctx context.Context, tr *cimport.Translation, artifact string) error
}

// ErrImportCycle is returned when a header being built imports itself,
// directly or through other headers.
var ErrImportCycle = errors.New("import cycle")

type buildingKey struct{}

// building returns the header whose build ctx belongs to.
func building(ctx context.Context) (string, bool) {
	header, ok := ctx.Value(buildingKey{}).(string)
	return header, ok
}

// Cache maps C headers to module interfaces built from them, rebuilding
// only when a file the header depends on changed.
type Cache struct {
	Dir      string
	Frontend Frontend
	Builder  Builder
	Debug    bool

	group singleflight.Group

	mu sync.Mutex
	// waits maps a header being built to the headers it is waiting for
	waits map[string]map[string]int
}

func NewCache(dir string, frontend Frontend, builder Builder) *Cache {
	return &Cache{Dir: dir, Frontend: frontend, Builder: builder}
}

// Paths returns the metadata and artifact locations for header.
func (c *Cache) Paths(header string) (string, string) {
	key := filepath.Join(c.Dir, fingerprint.String(header))
	return key, key + constants.BRAWL_EXT
}

// Resolve returns the path of an up to date module interface for header,
// running the C front end only on a cache miss. Concurrent calls for the
// same header share one computation. A header that ends up waiting for its
// own build fails with ErrImportCycle.
func (c *Cache) Resolve(ctx context.Context, header string) (string, error) {
	if parent, ok := building(ctx); ok {
		if err := c.wait(parent, header); err != nil {
			return "", err
		}
		defer c.done(parent, header)
	}

	v, err, _ := c.group.Do(header, func() (any, error) {
		return c.resolve(context.WithValue(ctx, buildingKey{}, header), header)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// wait records that the build of parent needs header, unless header is
// already waiting for parent.
func (c *Cache) wait(parent, header string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if path := c.waitPath(header, parent, nil); path != nil {
		return fmt.Errorf("%w: %s", ErrImportCycle, strings.Join(append(path, header), " -> "))
	}
	if c.waits == nil {
		c.waits = make(map[string]map[string]int)
	}
	if c.waits[parent] == nil {
		c.waits[parent] = make(map[string]int)
	}
	c.waits[parent][header]++
	return nil
}

func (c *Cache) done(parent, header string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.waits[parent][header]--; c.waits[parent][header] <= 0 {
		delete(c.waits[parent], header)
	}
	if len(c.waits[parent]) == 0 {
		delete(c.waits, parent)
	}
}

// waitPath returns the chain of waiting builds leading from one header to
// another, or nil.
func (c *Cache) waitPath(from, to string, seen map[string]bool) []string {
	if from == to {
		return []string{from}
	}
	if seen == nil {
		seen = make(map[string]bool)
	}
	seen[from] = true
	for next := range c.waits[from] {
		if seen[next] {
			continue
		}
		if rest := c.waitPath(next, to, seen); rest != nil {
			return append([]string{from}, rest...)
		}
	}
	return nil
}

func (c *Cache) resolve(ctx context.Context, header string) (string, error) {
	meta, artifact := c.Paths(header)

	if c.Valid(header) {
		if c.Debug {
			colors.GREEN.Printf("Cache hit for %q: %s\n", header, artifact)
		}
		return artifact, nil
	}
	if c.Debug {
		colors.YELLOW.Printf("Cache miss for %q\n", header)
	}

	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}

	tr, err := c.Frontend.Translate(ctx, header)
	if err != nil {
		return "", err
	}
	// stamp before building so an edit during the build forces a rebuild
	metadata := NewMetadata(header, tr.Deps)

	if err := c.Builder.BuildHeader(ctx, tr, artifact); err != nil {
		return "", fmt.Errorf("failed to build %q: %w", header, err)
	}
	if err := metadata.Save(meta); err != nil {
		return "", err
	}

	if c.Debug {
		colors.GREEN.Printf("Cached %q with %d deps: %s\n", header, len(tr.Deps), artifact)
	}
	return artifact, nil
}

// Valid reports whether the cache holds an up to date artifact for header.
// Unreadable metadata, a different header stored under the same key, a
// changed dep or a missing artifact all count as a miss.
func (c *Cache) Valid(header string) bool {
	meta, artifact := c.Paths(header)

	metadata, err := LoadMetadata(meta)
	if err != nil {
		if c.Debug && !os.IsNotExist(err) {
			colors.GREY.Printf("Ignoring cache metadata %s: %v\n", meta, err)
		}
		return false
	}
	if metadata.Header != header {
		return false
	}
	if dep, stale := metadata.Stale(); stale {
		if c.Debug {
			colors.GREY.Printf("%q is stale: %s changed\n", header, dep)
		}
		return false
	}
	return fs.IsValidFile(artifact)
}
