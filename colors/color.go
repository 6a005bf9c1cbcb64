package colors

import "os"

// ANSI color escape codes
type COLOR string

const (
	RESET COLOR = "\033[0m"

	RED    COLOR = "\033[31m"
	GREEN  COLOR = "\033[32m"
	YELLOW COLOR = "\033[33m"
	BLUE   COLOR = "\033[34m"
	PURPLE COLOR = "\033[35m"
	CYAN   COLOR = "\033[36m"
	WHITE  COLOR = "\033[37m"
	GREY   COLOR = "\033[90m"

	BOLD_RED    COLOR = "\033[1;31m"
	BOLD_GREEN  COLOR = "\033[1;32m"
	BOLD_PURPLE COLOR = "\033[1;35m"

	ORANGE       COLOR = "\033[38;5;208m"
	BRIGHT_BROWN COLOR = "\033[38;5;136m"
	TEAL         COLOR = "\033[38;5;37m"
)

// Enabled turns escape codes on or off for every print helper. It honours
// the NO_COLOR convention at startup.
var Enabled = os.Getenv("NO_COLOR") == ""

func (c COLOR) code() string {
	if !Enabled {
		return ""
	}
	return string(c)
}

func reset() string {
	if !Enabled {
		return ""
	}
	return string(RESET)
}
