package colors

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Print methods write to stdout.
func (c COLOR) Printf(format string, args ...any) {
	c.Fprintf(os.Stdout, format, args...)
}

func (c COLOR) Println(args ...any) {
	c.Fprintln(os.Stdout, args...)
}

func (c COLOR) Print(args ...any) {
	c.Fprint(os.Stdout, args...)
}

// Fprint methods write to a specific writer, usually os.Stderr for failures.
func (c COLOR) Fprintf(w io.Writer, format string, args ...any) {
	fmt.Fprint(w, c.code()+fmt.Sprintf(format, args...)+reset())
}

func (c COLOR) Fprintln(w io.Writer, args ...any) {
	line := strings.TrimSuffix(fmt.Sprintln(args...), "\n")
	fmt.Fprintln(w, c.code()+line+reset())
}

func (c COLOR) Fprint(w io.Writer, args ...any) {
	fmt.Fprint(w, c.code())
	fmt.Fprint(w, args...)
	fmt.Fprint(w, reset())
}

func (c COLOR) Sprintf(format string, args ...any) string {
	return c.code() + fmt.Sprintf(format, args...) + reset()
}

func (c COLOR) Sprint(args ...any) string {
	return c.code() + fmt.Sprint(args...) + reset()
}
