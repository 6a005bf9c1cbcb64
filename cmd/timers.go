package cmd

import (
	"io"
	"time"

	"krawl/colors"
)

// timers measures the stages of a compilation for -time.
type timers struct {
	enabled bool
	w       io.Writer
	names   []string
	elapsed map[string]time.Duration
}

func newTimers(enabled bool, w io.Writer) *timers {
	return &timers{enabled: enabled, w: w, elapsed: make(map[string]time.Duration)}
}

// Start begins timing a stage and returns the function that ends it.
func (t *timers) Start(name string) func() {
	if !t.enabled {
		return func() {}
	}
	if _, seen := t.elapsed[name]; !seen {
		t.names = append(t.names, name)
		t.elapsed[name] = 0
	}
	begin := time.Now()
	stopped := false
	return func() {
		if stopped {
			return
		}
		stopped = true
		t.elapsed[name] += time.Since(begin)
	}
}

// Print writes every measured stage and the total.
func (t *timers) Print() {
	if !t.enabled || len(t.names) == 0 {
		return
	}
	var total time.Duration
	colors.BLUE.Fprintln(t.w, "---------- [Timers] ----------")
	for _, name := range t.names {
		total += t.elapsed[name]
		colors.GREY.Fprintf(t.w, "%-8s %v\n", name, t.elapsed[name])
	}
	colors.GREY.Fprintf(t.w, "%-8s %v\n", "total", total)
}
