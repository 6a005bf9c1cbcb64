package cli

import (
	"context"
	"fmt"
	"os"

	"krawl/cmd"
	"krawl/colors"
)

const HEADER_BUILD_ERROR = "❌ Failed to import %s: %v\n"

// HandleHeaderCommand translates a C header through the import cache and
// prints the path of its module interface. A header whose dependencies are
// unchanged is not translated again.
func HandleHeaderCommand(d *cmd.Driver, header string) {
	artifact, err := d.CompileHeader(context.Background(), header)
	if err != nil {
		colors.RED.Fprintf(d.Stderr, HEADER_BUILD_ERROR, header, err)
		os.Exit(1)
	}
	fmt.Fprintln(d.Stdout, artifact)
}
