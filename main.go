package main

import (
	"context"
	"fmt"
	"os"

	"krawl/cmd"
	"krawl/cmd/cli"
	"krawl/cmd/flags"
	"krawl/colors"
	"krawl/constants"
	"krawl/internal/config"
)

const usage = `Usage: krawl [options] [file.krl]
       krawl header <file.h> [-I dir]...
       krawl query <file.brl>

Options:
  -o, -obj-out <file>     output listing (default: <file>.o)
  -b, -brl-out <file>     module interface (default: <output>.brl)
  -u, -uid <prefix>       symbol prefix; writes the module interface
  -U, -hash-uid <string>  symbol prefix derived from a string
  -P, -package <name>     package name (default: output file stem)
  -I <dir>                search dir for imported modules
  -clang <path>           C front end executable
  -clang-plugin <path>    C translation plugin
  -deps                   print the imports of the file and exit
  -dump                   also print the listing to stdout
  -time                   print the time spent in each pass
  -debug                  verbose output
  -v, -version            print the version
  -h, -help               print this message

Reads standard input when no file (or '-') is given.`

func main() {
	args := flags.ParseArgs()

	if args.Help {
		fmt.Println(usage)
		return
	}
	if args.Version {
		fmt.Printf("%s %s\n", constants.COMPONENT, constants.VERSION)
		return
	}

	// Handle query command
	if args.QueryCommand {
		cli.HandleQueryCommand(args.QueryPath, historyDir())
		return
	}

	cfg, err := config.Load()
	if err != nil {
		colors.RED.Println(err)
		os.Exit(1)
	}
	if args.Clang != "" {
		cfg.Clang = args.Clang
	}
	if args.ClangPlugin != "" {
		cfg.ClangPlugin = args.ClangPlugin
	}
	cfg.AddIncludeDirs(args.IncludeDirs...)

	if args.Debug {
		colors.BLUE.Println("Debug mode enabled")
		colors.GREY.Printf("Cache: %s\n", cfg.CacheDir)
	}

	driver := cmd.NewDriver(args, cfg)

	// Handle header command
	if args.HeaderCommand {
		cli.HandleHeaderCommand(driver, args.HeaderPath)
		return
	}

	os.Exit(driver.Compile(context.Background()))
}

// historyDir keeps the query history next to the import cache.
func historyDir() string {
	cfg, err := config.Load()
	if err != nil {
		return ""
	}
	return cfg.CacheDir
}
