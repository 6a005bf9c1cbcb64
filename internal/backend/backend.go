// Package backend is Pass 3: it lowers the checked declarations of a unit
// into an x86-64 assembly listing.
package backend

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"

	"krawl/colors"
	"krawl/internal/backend/codegen"
	"krawl/internal/semantic/analyzer"
)

// Lower generates the listing for a checked unit. The listing is copied to
// dump when it is not nil and written to outputPath when that is not empty.
// It is the only stage that writes the unit's output file; the file is
// replaced atomically.
func Lower(u *analyzer.Unit, outputPath string, dump io.Writer) error {
	generator := codegen.NewCodeGenerator(&codegen.GeneratorOptions{
		Target: codegen.TargetX86_64,
		Source: u.FullPath,
		Debug:  u.Debug,
	})

	listing, err := generator.Generate(&codegen.Unit{
		FullPath: u.FullPath,
		Prefix:   u.Prefix,
		Trackers: u.Trackers,
		Decls:    u.Decls,
		Externs:  u.UsedExterns,
		Reports:  u.Reports,
	})
	if err != nil {
		return fmt.Errorf("failed to generate assembly: %w", err)
	}
	if u.Reports.HasErrors() {
		return nil
	}

	if dump != nil {
		if _, err := io.WriteString(dump, listing); err != nil {
			return err
		}
	}
	if outputPath == "" {
		return nil
	}
	if err := writeToFile(outputPath, listing); err != nil {
		return fmt.Errorf("failed to write assembly to file: %w", err)
	}
	if u.Debug {
		colors.GREEN.Printf("Assembly code written to: %s\n", outputPath)
	}
	return nil
}

// writeToFile writes content to a file, creating directories if needed
func writeToFile(filePath, content string) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	return renameio.WriteFile(filePath, []byte(content), 0644)
}
