package registry

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"krawl/constants"
	"krawl/internal/utils/fs"
)

var ErrModuleNotFound = errors.New("module not found")

// LocateModule finds the interface file of a native krawl module. The
// import path names the file without its extension and is looked up in
// each include directory in order.
func LocateModule(includeDirs []string, importPath string) (string, error) {
	name := importPath
	if !strings.HasSuffix(name, constants.BRAWL_EXT) {
		name += constants.BRAWL_EXT
	}

	if filepath.IsAbs(name) {
		if fs.IsValidFile(name) {
			return name, nil
		}
		return "", fmt.Errorf("%w: %s", ErrModuleNotFound, importPath)
	}

	for _, dir := range includeDirs {
		candidate := filepath.Join(dir, filepath.FromSlash(name))
		if fs.IsValidFile(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: %s (searched %s)", ErrModuleNotFound, importPath, strings.Join(includeDirs, ", "))
}
