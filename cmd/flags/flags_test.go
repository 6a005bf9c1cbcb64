package flags

import (
	"os"
	"reflect"
	"testing"

	"krawl/internal/utils/fingerprint"
)

// Test constants to avoid string literal duplication
const (
	testFilename   = "net/http-util.krl"
	testOutputPath = "build/1st-lib.o"
	testBrawlPath  = "iface/http.brl"
	testHeader     = "stdio.h"
	testModule     = "lib/io.brl"
	debugFlag      = "-debug"
	expectedGotMsg = "Expected %+v, got %+v"
)

// Helper function to compare Args structs and report differences
func compareArgs(t *testing.T, expected, actual *Args) {
	t.Helper()
	if !reflect.DeepEqual(actual, expected) {
		t.Errorf(expectedGotMsg, expected, actual)
	}
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected *Args
		newIndex int
	}{
		{
			name:     "query command with module",
			args:     []string{"query", testModule},
			expected: &Args{QueryCommand: true, QueryPath: testModule},
			newIndex: 1,
		},
		{
			name:     "header command with header",
			args:     []string{"header", testHeader},
			expected: &Args{HeaderCommand: true, HeaderPath: testHeader},
			newIndex: 1,
		},
		{
			name:     "deps command with file",
			args:     []string{"deps", testFilename},
			expected: &Args{Deps: true, Filename: testFilename},
			newIndex: 1,
		},
		{
			name:     "command without argument",
			args:     []string{"query"},
			expected: &Args{},
			newIndex: 0,
		},
		{
			name:     "command with flag as next argument",
			args:     []string{"header", debugFlag},
			expected: &Args{},
			newIndex: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := &Args{}
			newIndex := parseCommand(tt.args, 0, result)

			if newIndex != tt.newIndex {
				t.Errorf("Expected index %d, got %d", tt.newIndex, newIndex)
			}
			compareArgs(t, tt.expected, result)
		})
	}
}

func TestParseFlag(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected *Args
		newIndex int
	}{
		{"debug flag", []string{debugFlag}, &Args{Debug: true}, 0},
		{"double dash", []string{"--time"}, &Args{Time: true}, 0},
		{"output short", []string{"-o", testOutputPath}, &Args{OutputPath: testOutputPath}, 1},
		{"output long with equals", []string{"--obj-out=" + testOutputPath}, &Args{OutputPath: testOutputPath}, 0},
		{"brawl output", []string{"-b", testBrawlPath}, &Args{LibPath: testBrawlPath}, 1},
		{"uid", []string{"-uid", "Xa8f3kQz01b"}, &Args{UID: "Xa8f3kQz01b"}, 1},
		{"hash uid", []string{"-U", "net/http"}, &Args{HashUID: "net/http"}, 1},
		{"package", []string{"--package", "http"}, &Args{Package: "http"}, 1},
		{"include separate", []string{"-I", "/opt/inc"}, &Args{IncludeDirs: []string{"/opt/inc"}}, 1},
		{"include joined", []string{"-I/opt/inc"}, &Args{IncludeDirs: []string{"/opt/inc"}}, 0},
		{"clang", []string{"-clang", "/usr/bin/clang-17"}, &Args{Clang: "/usr/bin/clang-17"}, 1},
		{"clang plugin", []string{"-clang-plugin=/p.so"}, &Args{ClangPlugin: "/p.so"}, 0},
		{"value flag without value", []string{"-o"}, &Args{}, 0},
		{"unknown flag", []string{"-unknown"}, &Args{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := &Args{}
			newIndex := parseFlag(tt.args, 0, result)

			if newIndex != tt.newIndex {
				t.Errorf("Expected index %d, got %d", tt.newIndex, newIndex)
			}
			compareArgs(t, tt.expected, result)
		})
	}
}

func TestParseArgs(t *testing.T) {
	originalArgs := os.Args
	defer func() { os.Args = originalArgs }()

	tests := []struct {
		name     string
		args     []string
		expected *Args
	}{
		{
			name: "derived names",
			args: []string{"krawl", testFilename},
			expected: &Args{
				Filename:   testFilename,
				OutputPath: "net/http-util.o",
				LibPath:    "net/http-util.brl",
				Package:    "http_util",
			},
		},
		{
			name: "package from output with leading digit",
			args: []string{"krawl", "-uid", "p", testFilename, "-o", testOutputPath},
			expected: &Args{
				Filename:   testFilename,
				OutputPath: testOutputPath,
				LibPath:    "build/1st-lib.brl",
				Package:    "_1st_lib",
				UID:        "p",
			},
		},
		{
			name: "explicit names win",
			args: []string{"krawl", "-P", "web", "-b", testBrawlPath, testFilename, debugFlag},
			expected: &Args{
				Filename:   testFilename,
				OutputPath: "net/http-util.o",
				LibPath:    testBrawlPath,
				Package:    "web",
				Debug:      true,
			},
		},
		{
			name:     "standard input",
			args:     []string{"krawl", "-dump"},
			expected: &Args{Dump: true},
		},
		{
			name:     "dash is standard input",
			args:     []string{"krawl", "-", "-time"},
			expected: &Args{Time: true},
		},
		{
			name:     "query command",
			args:     []string{"krawl", "query", testModule},
			expected: &Args{QueryCommand: true, QueryPath: testModule},
		},
		{
			name: "deps flag",
			args: []string{"krawl", "-deps", "main.krl"},
			expected: &Args{
				Filename:   "main.krl",
				Deps:       true,
				OutputPath: "main.o",
				LibPath:    "main.brl",
				Package:    "main",
			},
		},
		{
			name: "file named like a command",
			args: []string{"krawl", "main.krl", "query"},
			expected: &Args{
				Filename:   "main.krl",
				OutputPath: "main.o",
				LibPath:    "main.brl",
				Package:    "main",
			},
		},
		{
			name:     "header command with includes",
			args:     []string{"krawl", "header", testHeader, "-I", "inc", "-I", "sys"},
			expected: &Args{HeaderCommand: true, HeaderPath: testHeader, IncludeDirs: []string{"inc", "sys"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args
			compareArgs(t, tt.expected, ParseArgs())
		})
	}
}

func TestPrefix(t *testing.T) {
	tests := []struct {
		name string
		args Args
		want string
		lib  bool
	}{
		{"none", Args{}, "", false},
		{"uid", Args{UID: "abc"}, "abc", true},
		{"hash uid", Args{HashUID: "net/http"}, fingerprint.String("net/http"), true},
		{"uid wins", Args{UID: "abc", HashUID: "net/http"}, "abc", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.args.Prefix(); got != tt.want {
				t.Errorf("Prefix() = %q, want %q", got, tt.want)
			}
			if got := tt.args.IsLib(); got != tt.lib {
				t.Errorf("IsLib() = %v, want %v", got, tt.lib)
			}
		})
	}
}
