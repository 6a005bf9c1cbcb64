package flags

import (
	"os"
	"strings"

	"krawl/internal/symbol"
	"krawl/internal/utils/fingerprint"
	"krawl/internal/utils/fs"
)

// Args holds the parsed command line arguments
type Args struct {
	// Filename is the source file; empty means standard input.
	Filename    string
	Debug       bool
	OutputPath  string
	LibPath     string
	UID         string
	HashUID     string
	Package     string
	IncludeDirs []string
	Clang       string
	ClangPlugin string
	Deps        bool
	Time        bool
	Dump        bool
	Version     bool
	Help        bool

	QueryCommand  bool
	QueryPath     string
	HeaderCommand bool
	HeaderPath    string
}

// IsLib reports whether a symbol prefix was requested, which turns the
// compilation into a library build that also writes a module interface.
func (a *Args) IsLib() bool {
	return a.UID != "" || a.HashUID != ""
}

// Prefix is the symbol prefix of the unit: the -uid value, else the
// fingerprint of the -hash-uid string, else empty.
func (a *Args) Prefix() string {
	if a.UID != "" {
		return a.UID
	}
	if a.HashUID != "" {
		return fingerprint.String(a.HashUID)
	}
	return ""
}

// valueFlags take the next argument as their value.
var valueFlags = map[string]bool{
	"-o": true, "-obj-out": true, "-output": true,
	"-b": true, "-brl-out": true,
	"-u": true, "-uid": true,
	"-U": true, "-hash-uid": true,
	"-P": true, "-package": true,
	"-I":            true,
	"-clang":        true,
	"-clang-plugin": true,
}

// parseCommand processes command-specific arguments
func parseCommand(args []string, i int, result *Args) int {
	if i+1 >= len(args) || args[i+1] == "" || strings.HasPrefix(args[i+1], "-") {
		return i
	}

	switch args[i] {
	case "query":
		result.QueryCommand = true
		result.QueryPath = args[i+1]
		return i + 1
	case "header":
		result.HeaderCommand = true
		result.HeaderPath = args[i+1]
		return i + 1
	case "deps":
		result.Deps = true
		result.Filename = args[i+1]
		return i + 1
	}
	return i
}

// parseFlag processes flag arguments. Long flags may be written with one or
// two dashes and take their value either as the next argument or after '='.
func parseFlag(args []string, i int, result *Args) int {
	name, value, hasValue := splitFlag(args[i])

	if valueFlags[name] && !hasValue {
		if i+1 >= len(args) {
			return i
		}
		value = args[i+1]
		i++
	}

	switch name {
	case "-debug":
		result.Debug = true
	case "-deps":
		result.Deps = true
	case "-time":
		result.Time = true
	case "-dump":
		result.Dump = true
	case "-v", "-version":
		result.Version = true
	case "-h", "-help":
		result.Help = true
	case "-o", "-obj-out", "-output":
		result.OutputPath = value
	case "-b", "-brl-out":
		result.LibPath = value
	case "-u", "-uid":
		result.UID = value
	case "-U", "-hash-uid":
		result.HashUID = value
	case "-P", "-package":
		result.Package = value
	case "-I":
		result.IncludeDirs = append(result.IncludeDirs, value)
	case "-clang":
		result.Clang = value
	case "-clang-plugin":
		result.ClangPlugin = value
	}
	return i
}

func splitFlag(arg string) (name, value string, hasValue bool) {
	if strings.HasPrefix(arg, "--") {
		arg = arg[1:]
	}
	// -Idir
	if strings.HasPrefix(arg, "-I") && len(arg) > 2 {
		return "-I", strings.TrimPrefix(arg[2:], "="), true
	}
	name, value, hasValue = strings.Cut(arg, "=")
	return name, value, hasValue
}

func ParseArgs() *Args {
	return parseArgs(os.Args[1:])
}

func parseArgs(args []string) *Args {
	result := &Args{}

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch {
		case arg == "query" || arg == "header" || arg == "deps":
			if result.Filename == "" && !result.QueryCommand && !result.HeaderCommand {
				i = parseCommand(args, i, result)
			}
		case len(arg) > 1 && arg[0] == '-':
			i = parseFlag(args, i, result)
		default:
			// If it's not a flag and we haven't set filename yet, this is the filename
			if result.Filename == "" && arg != "" {
				result.Filename = arg
			}
		}
	}

	applyDefaults(result)
	return result
}

// applyDefaults derives the output names and the package name the way the
// build expects them: foo.krl compiles to foo.o, whose interface is foo.brl
// and whose package is foo.
func applyDefaults(a *Args) {
	if a.Filename == "-" {
		a.Filename = ""
	}
	if a.OutputPath == "" && a.Filename != "" {
		a.OutputPath = fs.ReplaceExtension(a.Filename, "o")
	}
	if a.LibPath == "" && a.OutputPath != "" {
		a.LibPath = fs.ReplaceExtension(a.OutputPath, "brl")
	}
	if a.Package == "" && a.OutputPath != "" {
		a.Package = symbol.PackageName(fs.Stem(a.OutputPath))
	}
}
