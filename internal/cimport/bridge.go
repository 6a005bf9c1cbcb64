// Package cimport runs the external C front end that translates a C header
// into krawl declarations.
package cimport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"krawl/colors"
	"krawl/constants"
	"krawl/internal/utils/fs"
)

var (
	ErrMissingDelimiter   = errors.New("C front end output has no '" + constants.BRIDGE_DELIM + "' delimiter")
	ErrMultipleDelimiters = errors.New("C front end output has more than one '" + constants.BRIDGE_DELIM + "' delimiter")
)

// Translation is the output of one bridge run.
type Translation struct {
	Header string
	// Source is krawl declaration text for everything the header declares.
	Source string
	// Deps lists every file the header pulled in, the header included.
	Deps []string
}

// Bridge invokes clang with the translation plugin loaded.
type Bridge struct {
	Clang  string
	Plugin string
	// TempDir holds the generated includer files; empty means os.TempDir.
	TempDir string
	// Dir is where a quoted include is looked up first, as if the includer
	// lived there; empty means the working directory.
	Dir   string
	Debug bool
}

// includePath is what the includer names for header. A relative header
// found under Dir is made absolute; anything else is left to clang's
// search path.
func (b *Bridge) includePath(header string) string {
	if filepath.IsAbs(header) {
		return header
	}
	dir := b.Dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return header
		}
		dir = wd
	}
	local := filepath.Join(dir, header)
	if !fs.IsValidFile(local) {
		return header
	}
	if abs, err := filepath.Abs(local); err == nil {
		return abs
	}
	return local
}

// Translate produces krawl declarations for header. The includer file is
// removed afterwards on a best-effort basis.
func (b *Bridge) Translate(ctx context.Context, header string) (*Translation, error) {
	tmp, err := os.CreateTemp(b.TempDir, "header-*"+constants.C_HEADER_EXT)
	if err != nil {
		return nil, fmt.Errorf("failed to create includer for %s: %w", header, err)
	}
	includer := tmp.Name()
	defer os.Remove(includer)

	_, err = fmt.Fprintf(tmp, "#include \"%s\"\n", filepath.ToSlash(b.includePath(header)))
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, fmt.Errorf("failed to write includer for %s: %w", header, err)
	}

	args := []string{"-cc1", "-load", b.Plugin, "-plugin", constants.CLANG_PLUGIN, "-x", "c", includer}
	if b.Debug {
		colors.CYAN.Printf("Running %s %s\n", b.Clang, strings.Join(args, " "))
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, b.Clang, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("C front end failed on %s: %w: %s", header, err, msg)
		}
		return nil, fmt.Errorf("C front end failed on %s: %w", header, err)
	}

	src, deps, err := Split(stdout.String())
	if err != nil {
		return nil, fmt.Errorf("C front end output for %s: %w", header, err)
	}

	return &Translation{Header: header, Source: src, Deps: deps}, nil
}

// Split separates bridge output into declaration text and the dependency
// list. Empty dependency lines are skipped.
func Split(output string) (string, []string, error) {
	switch strings.Count(output, constants.BRIDGE_DELIM) {
	case 0:
		return "", nil, ErrMissingDelimiter
	case 1:
	default:
		return "", nil, ErrMultipleDelimiters
	}

	src, rest, _ := strings.Cut(output, constants.BRIDGE_DELIM)

	var deps []string
	for _, line := range strings.Split(rest, "\n") {
		if line = strings.TrimRight(line, "\r"); line != "" {
			deps = append(deps, line)
		}
	}
	return src, deps, nil
}
