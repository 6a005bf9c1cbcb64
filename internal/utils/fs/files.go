package fs

import (
	"os"
	"path/filepath"
	"strings"
)

// Check if file exists and is a regular file
func IsValidFile(filename string) bool {
	fileInfo, err := os.Stat(filepath.FromSlash(filename))
	return err == nil && fileInfo.Mode().IsRegular()
}

// ModTime returns the modification time of a file in nanoseconds since the
// epoch, or 0 when the file cannot be stat'ed.
func ModTime(filename string) uint64 {
	info, err := os.Stat(filename)
	if err != nil {
		return 0
	}
	ns := info.ModTime().UnixNano()
	if ns < 0 {
		return 0
	}
	return uint64(ns)
}

func LastPart(path string) string {
	if path == "" {
		return ""
	}

	normalized := strings.ReplaceAll(path, "\\", "/")
	parts := strings.Split(normalized, "/")

	if len(parts) > 0 && parts[len(parts)-1] != "" {
		return parts[len(parts)-1]
	}
	return ""
}

// Stem returns the last path element without its extension.
func Stem(path string) string {
	base := LastPart(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ReplaceExtension swaps the extension of path for ext (given without the
// leading dot). Paths without an extension get one appended.
func ReplaceExtension(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + "." + ext
}
