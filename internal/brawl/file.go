package brawl

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"

	"krawl/internal/symbol"
)

// WriteFile serializes into path atomically: readers see either the old
// file or the complete new one.
func WriteFile(path string, tr *symbol.Trackers, decls []symbol.DeclID, prefix, pkg string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	pending, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644))
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer pending.Cleanup()

	if err := Serialize(pending, tr, decls, prefix, pkg); err != nil {
		return err
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ReadFile deserializes the module interface at path into tr.
func ReadFile(path string, tr *symbol.Trackers) (*Module, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	mod, err := Deserialize(bufio.NewReader(file), tr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return mod, nil
}
