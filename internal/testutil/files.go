package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"krawl/constants"
)

// CreateTestFile creates a temporary source file with content
func CreateTestFile(t *testing.T, content string) string {
	t.Helper()
	return CreateTestFileInDir(t, t.TempDir(), "test"+constants.EXT, content)
}

// CreateTestFileInDir creates a test file in a specific directory
func CreateTestFileInDir(t *testing.T, dir, filename, content string) string {
	t.Helper()
	// Ensure the target directory exists
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	filePath := filepath.Join(dir, filename)
	if err := os.WriteFile(filePath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	return filePath
}

// CreateFakeClang writes a shell script standing in for clang into dir.
// The includer file clang is asked to parse is the script's $8. Tests are
// skipped where no POSIX shell is available.
func CreateFakeClang(t *testing.T, dir, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-in for clang needs a POSIX shell")
	}
	path := CreateTestFileInDir(t, dir, "clang", "#!/bin/sh\n"+body)
	if err := os.Chmod(path, 0755); err != nil {
		t.Fatalf("Failed to make fake clang executable: %v", err)
	}
	return path
}
