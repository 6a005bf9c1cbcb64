package collector

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"krawl/colors"
	"krawl/internal/brawl"
	"krawl/internal/frontend/ast"
	"krawl/internal/registry"
	"krawl/internal/report"
	"krawl/internal/semantic/analyzer"
	"krawl/internal/symbol"
	"krawl/internal/utils/fs"
)

// loaded is a module already read into the unit, shared by every import
// spec naming the same path.
type loaded struct {
	artifact string
	module   *brawl.Module
	members  symbol.ScopeID
}

func collectImports(ctx context.Context, u *analyzer.Unit, importer Importer) {
	if len(u.Program.Imports) == 0 {
		return
	}

	artifacts, failed := resolveHeaders(ctx, u, importer)
	modules := make(map[string]*loaded)

	for _, spec := range u.Program.Imports {
		if failed[spec.Path] {
			continue
		}

		mod, ok := modules[spec.Path]
		if !ok {
			artifact, ok := artifacts[spec.Path]
			if !ok {
				path, err := importer.Locate(spec.Path)
				if err != nil {
					reportImportError(u, spec, err)
					failed[spec.Path] = true
					continue
				}
				artifact = path
			}
			if mod = loadModule(u, spec, artifact); mod == nil {
				failed[spec.Path] = true
				continue
			}
			modules[spec.Path] = mod
		}

		declarePackage(u, spec, mod)
	}
}

// resolveHeaders runs the import cache for every distinct C header of the
// unit concurrently. Loading the results into the unit stays sequential.
func resolveHeaders(ctx context.Context, u *analyzer.Unit, importer Importer) (map[string]string, map[string]bool) {
	var headers []*ast.ImportSpec
	seen := make(map[string]bool)
	for _, spec := range u.Program.Imports {
		if spec.IsCHeader() && !seen[spec.Path] {
			seen[spec.Path] = true
			headers = append(headers, spec)
		}
	}

	artifacts := make([]string, len(headers))
	errs := make([]error, len(headers))

	// a failing header must not cancel the others
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, spec := range headers {
		g.Go(func() error {
			artifacts[i], errs[i] = importer.Resolve(ctx, spec.Path)
			return nil
		})
	}
	_ = g.Wait()

	resolved := make(map[string]string, len(headers))
	failed := make(map[string]bool)
	for i, spec := range headers {
		if errs[i] != nil {
			reportImportError(u, spec, errs[i])
			failed[spec.Path] = true
			continue
		}
		resolved[spec.Path] = artifacts[i]
	}
	return resolved, failed
}

func reportImportError(u *analyzer.Unit, spec *ast.ImportSpec, err error) {
	if errors.Is(err, registry.ErrModuleNotFound) {
		u.Reports.AddSemanticError(u.FullPath, spec.Loc(), fmt.Sprintf("%s: %q", report.MODULE_NOT_FOUND, spec.Path), report.COLLECTOR_PHASE).
			AddHint("add the directory holding the module with -I")
		return
	}
	u.Reports.AddCriticalError(u.FullPath, spec.Loc(), fmt.Sprintf("%s %q: %v", report.IMPORT_FAILED, spec.Path, err), report.COLLECTOR_PHASE)
}

// loadModule reads an interface into the unit's trackers and declares its
// contents in a fresh member scope.
func loadModule(u *analyzer.Unit, spec *ast.ImportSpec, artifact string) *loaded {
	tr := u.Trackers
	mod, err := brawl.ReadFile(artifact, tr)
	if err != nil {
		reportImportError(u, spec, err)
		return nil
	}

	members := tr.Scopes.New(u.Global)
	for _, id := range mod.Decls {
		decl := tr.Decls.Get(id)
		decl.Scope = members
		decl.File = artifact
		if err := tr.Scopes.Declare(members, decl.Name, id); err != nil {
			u.Reports.AddWarning(u.FullPath, spec.Loc(), fmt.Sprintf("module %q: %v", spec.Path, err), report.COLLECTOR_PHASE)
		}
	}

	if u.Debug {
		colors.PURPLE.Printf("Loaded %d declarations of %q from %s\n", len(mod.Decls), spec.Path, artifact)
	}
	return &loaded{artifact: artifact, module: mod, members: members}
}

// declarePackage binds the import's alias, or the module's package name,
// to a package declaration in the unit's scope.
func declarePackage(u *analyzer.Unit, spec *ast.ImportSpec, mod *loaded) {
	name := mod.module.Package
	if spec.Alias != nil {
		name = spec.Alias.Name
	}
	if name == "" {
		name = symbol.PackageName(fs.Stem(spec.Path))
	}

	tr := u.Trackers
	id := tr.Decls.New(&symbol.Decl{
		Name:     name,
		Kind:     symbol.DeclPackage,
		Scope:    u.Scope,
		State:    symbol.Checked,
		File:     u.FullPath,
		Location: spec.Loc(),
		Node:     spec,
		Members:  mod.members,
		Prefix:   mod.module.Prefix,
		Path:     spec.Path,
	})
	if err := tr.Scopes.Declare(u.Scope, name, id); err != nil {
		reportDuplicate(u, name, spec.Loc(), err)
		return
	}

	u.Imports = append(u.Imports, &analyzer.Import{
		Spec:     spec,
		Artifact: mod.artifact,
		Package:  name,
		Prefix:   mod.module.Prefix,
		Decl:     id,
		Members:  mod.members,
	})
}
