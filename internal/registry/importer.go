package registry

import "context"

// Importer resolves both kinds of imports for Pass 1: C headers through the
// cache and native modules through the include directories.
type Importer struct {
	Cache       *Cache
	IncludeDirs []string
}

func (i *Importer) Resolve(ctx context.Context, header string) (string, error) {
	return i.Cache.Resolve(ctx, header)
}

func (i *Importer) Locate(importPath string) (string, error) {
	return LocateModule(i.IncludeDirs, importPath)
}
