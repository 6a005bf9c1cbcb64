package registry

import (
	"bufio"
	"bytes"
	"fmt"
	"os"

	"github.com/google/renameio/v2"

	"krawl/internal/utils/fs"
	"krawl/internal/utils/stream"
)

// DepEntry is a file an import depends on, with its modification time when
// the artifact was built.
type DepEntry struct {
	Path  string
	MTime uint64
}

// Metadata records what a cached artifact was built from.
type Metadata struct {
	Header string
	Deps   []DepEntry
}

// NewMetadata stamps each dep with its current modification time.
func NewMetadata(header string, deps []string) *Metadata {
	meta := &Metadata{Header: header, Deps: make([]DepEntry, 0, len(deps))}
	for _, dep := range deps {
		meta.Deps = append(meta.Deps, DepEntry{Path: dep, MTime: fs.ModTime(dep)})
	}
	return meta
}

// LoadMetadata reads a metadata file.
func LoadMetadata(path string) (*Metadata, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := stream.NewReader(bufio.NewReader(file))
	meta := &Metadata{}
	if meta.Header, err = r.ReadString(); err != nil {
		return nil, fmt.Errorf("failed to read cache metadata header: %w", err)
	}
	n, err := r.ReadVarUint()
	if err != nil {
		return nil, fmt.Errorf("failed to read cache metadata: %w", err)
	}
	for i := uint64(0); i < n; i++ {
		var dep DepEntry
		if dep.Path, err = r.ReadString(); err != nil {
			return nil, fmt.Errorf("failed to read cache metadata dep %d: %w", i, err)
		}
		if dep.MTime, err = r.ReadUint64(); err != nil {
			return nil, fmt.Errorf("failed to read cache metadata dep %d: %w", i, err)
		}
		meta.Deps = append(meta.Deps, dep)
	}
	return meta, nil
}

// Save writes the metadata atomically; concurrent writers leave one
// complete file behind.
func (m *Metadata) Save(path string) error {
	var buf bytes.Buffer
	w := stream.NewWriter(&buf)
	w.WriteString(m.Header)
	w.WriteVarUint(uint64(len(m.Deps)))
	for _, dep := range m.Deps {
		w.WriteString(dep.Path)
		w.WriteUint64(dep.MTime)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to encode cache metadata: %w", err)
	}
	if err := renameio.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write cache metadata: %w", err)
	}
	return nil
}

// Stale returns the first dep whose modification time changed, if any.
func (m *Metadata) Stale() (string, bool) {
	for _, dep := range m.Deps {
		if fs.ModTime(dep.Path) != dep.MTime {
			return dep.Path, true
		}
	}
	return "", false
}
