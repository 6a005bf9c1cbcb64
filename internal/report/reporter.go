package report

import (
	"fmt"
	"io"
	"strings"

	"krawl/colors"
	"krawl/internal/source"
)

type PROBLEM_TYPE string

type COMPILATION_PHASE string

const (
	LEXING_PHASE    COMPILATION_PHASE = "lexing"
	PARSING_PHASE   COMPILATION_PHASE = "parsing"
	COLLECTOR_PHASE COMPILATION_PHASE = "collecting symbols"
	TYPECHECK_PHASE COMPILATION_PHASE = "type checking"
	LOWERING_PHASE  COMPILATION_PHASE = "lowering"
)

const (
	NULL           PROBLEM_TYPE = ""
	SEMANTIC_ERROR PROBLEM_TYPE = "semantic error"
	CRITICAL_ERROR PROBLEM_TYPE = "critical error"
	SYNTAX_ERROR   PROBLEM_TYPE = "syntax error"
	NORMAL_ERROR   PROBLEM_TYPE = "error"

	WARNING PROBLEM_TYPE = "warning"
	INFO    PROBLEM_TYPE = "info"
)

var colorMap = map[PROBLEM_TYPE]colors.COLOR{
	CRITICAL_ERROR: colors.BOLD_RED,
	SYNTAX_ERROR:   colors.RED,
	SEMANTIC_ERROR: colors.RED,
	NORMAL_ERROR:   colors.RED,
	WARNING:        colors.YELLOW,
	INFO:           colors.BLUE,
}

// Reports is the diagnostics sink shared by every pass of a unit. Reports
// accumulate; nothing in here stops compilation, the driver checks
// HasErrors between stages.
type Reports []*Report

func (r Reports) Len() int {
	return len(r)
}

func (r *Reports) HasErrors() bool {
	for _, report := range *r {
		if report.IsError() {
			return true
		}
	}
	return false
}

func (r *Reports) HasWarnings() bool {
	for _, report := range *r {
		if report.Level == WARNING {
			return true
		}
	}
	return false
}

// ErrorCount returns the number of reports at an error level.
func (r Reports) ErrorCount() int {
	count := 0
	for _, report := range r {
		if report.IsError() {
			count++
		}
	}
	return count
}

// DisplayAll renders every report followed by the status line.
func (r Reports) DisplayAll(w io.Writer, files *source.Group) {
	for _, report := range r {
		report.Render(w, files)
	}
	r.ShowStatus(w)
}

type HintContainer struct {
	hint string
	col  int
}

// Report is a single diagnostic.
type Report struct {
	FilePath string
	Location *source.Location
	Message  string
	Hints    HintContainer
	Level    PROBLEM_TYPE
	Phase    COMPILATION_PHASE
}

func (r *Report) IsError() bool {
	switch r.Level {
	case NORMAL_ERROR, CRITICAL_ERROR, SYNTAX_ERROR, SEMANTIC_ERROR:
		return true
	}
	return false
}

func (r *Report) Hint() string {
	return r.Hints.hint
}

// Render prints the report header, the location and, when the file is
// known to the source group, a snippet with an underline.
func (r *Report) Render(w io.Writer, files *source.Group) {
	var reportMsgType string

	switch r.Level {
	case WARNING:
		reportMsgType = fmt.Sprintf("[Warning while %s]: ", r.Phase)
	case INFO:
		reportMsgType = fmt.Sprintf("[Info while %s]: ", r.Phase)
	case CRITICAL_ERROR:
		reportMsgType = fmt.Sprintf("[Critical Error while %s]: ", r.Phase)
	case SYNTAX_ERROR:
		reportMsgType = fmt.Sprintf("[Syntax Error while %s]: ", r.Phase)
	case NORMAL_ERROR:
		reportMsgType = fmt.Sprintf("[Error while %s]: ", r.Phase)
	case SEMANTIC_ERROR:
		reportMsgType = fmt.Sprintf("[Semantic Error while %s]: ", r.Phase)
	}

	reportColor := colorMap[r.Level]
	reportColor.Fprint(w, reportMsgType)
	reportColor.Fprintln(w, r.Message)

	numlen := len(fmt.Sprint(r.Location.Start.Line))
	colors.GREY.Fprintf(w, "%s> [%s:%d:%d]\n", strings.Repeat("-", numlen+2), r.FilePath, r.Location.Start.Line, r.Location.Start.Column)

	line, ok := "", false
	if files != nil {
		line, ok = files.Line(r.FilePath, r.Location.Start.Line)
	}
	if !ok {
		if r.Hints.hint != "" {
			colors.YELLOW.Fprintf(w, "  hint: %s\n", r.Hints.hint)
		}
		return
	}

	snippet, underline := makeParts(r, line)
	fmt.Fprint(w, snippet)
	if r.Hints.hint != "" {
		reportColor.Fprint(w, underline)
		colors.YELLOW.Fprintf(w, " %s\n", r.Hints.hint)
	} else {
		reportColor.Fprintln(w, underline)
	}
}

// makeParts builds the code snippet and the underline marking the span.
func makeParts(r *Report, line string) (snippet, underline string) {
	hLen := 0
	if r.Location.Start.Line == r.Location.End.Line {
		hLen = (r.Location.End.Column - r.Location.Start.Column) - 1
	} else {
		hLen = len(line) - 2
	}
	if hLen < 0 {
		hLen = 0
	}

	bar := fmt.Sprintf("%s |", strings.Repeat(" ", len(fmt.Sprint(r.Location.Start.Line))))
	lineNumber := fmt.Sprintf("%d | ", r.Location.Start.Line)

	padLen := ((r.Location.Start.Column - 1) + len(lineNumber)) - len(bar)
	if padLen < 0 {
		padLen = 0
	}
	padding := strings.Repeat(" ", padLen)

	snippet = colors.GREY.Sprint(bar) + "\n" + colors.GREY.Sprint(lineNumber) + line + "\n"
	snippet += colors.GREY.Sprint(bar)
	underline = fmt.Sprintf("%s^%s", padding, strings.Repeat("~", hLen))

	return snippet, underline
}

// AddHint appends a hint to the report. Empty hints are ignored.
func (r *Report) AddHint(msg string) *Report {
	if msg == "" {
		return r
	}

	r.Hints.hint = msg
	r.Hints.col = r.Location.Start.Column

	return r
}

// createNew registers a report, clamping the location to valid positions.
// A nil location points at the start of the file.
func (r *Reports) createNew(filePath string, location *source.Location, msg string, phase COMPILATION_PHASE, level PROBLEM_TYPE) *Report {
	if location == nil || location.Start == nil || location.End == nil {
		location = source.NewLocation(&source.Position{Line: 1, Column: 1}, &source.Position{Line: 1, Column: 1})
	}

	if location.Start.Line < 1 {
		location.Start.Line = 1
	}
	if location.End.Line < 1 {
		location.End.Line = 1
	}
	if location.Start.Column < 1 {
		location.Start.Column = 1
	}
	if location.End.Column < 1 {
		location.End.Column = 1
	}

	if level == NULL {
		panic("report created without a level")
	}

	report := &Report{
		FilePath: filePath,
		Location: location,
		Message:  msg,
		Level:    level,
		Phase:    phase,
	}

	*r = append(*r, report)

	return report
}

// AddError creates and registers a new error report
func (r *Reports) AddError(filePath string, location *source.Location, msg string, phase COMPILATION_PHASE) *Report {
	return r.createNew(filePath, location, msg, phase, NORMAL_ERROR)
}

// AddSemanticError creates and registers a new semantic error report
func (r *Reports) AddSemanticError(filePath string, location *source.Location, msg string, phase COMPILATION_PHASE) *Report {
	return r.createNew(filePath, location, msg, phase, SEMANTIC_ERROR)
}

// AddSyntaxError creates and registers a new syntax error report
func (r *Reports) AddSyntaxError(filePath string, location *source.Location, msg string, phase COMPILATION_PHASE) *Report {
	return r.createNew(filePath, location, msg, phase, SYNTAX_ERROR)
}

// AddCriticalError creates and registers a new critical error report
func (r *Reports) AddCriticalError(filePath string, location *source.Location, msg string, phase COMPILATION_PHASE) *Report {
	return r.createNew(filePath, location, msg, phase, CRITICAL_ERROR)
}

// AddWarning creates and registers a new warning report
func (r *Reports) AddWarning(filePath string, location *source.Location, msg string, phase COMPILATION_PHASE) *Report {
	return r.createNew(filePath, location, msg, phase, WARNING)
}

// AddInfo creates and registers a new info report
func (r *Reports) AddInfo(filePath string, location *source.Location, msg string, phase COMPILATION_PHASE) *Report {
	return r.createNew(filePath, location, msg, phase, INFO)
}

// ShowStatus prints a summary line with warning and error counts.
func (r Reports) ShowStatus(w io.Writer) {
	warningCount := 0
	probCount := 0

	for _, report := range r {
		switch {
		case report.Level == WARNING:
			warningCount++
		case report.IsError():
			probCount++
		}
	}

	var messageColor colors.COLOR

	if probCount > 0 {
		messageColor = colors.RED
		messageColor.Fprint(w, "------------- failed with ")
	} else {
		messageColor = colors.GREEN
		messageColor.Fprint(w, "------------- Passed ")
	}

	totalProblemsString := ""

	if warningCount > 0 {
		totalProblemsString += colorMap[WARNING].Sprintf("(%d %s) ", warningCount, plural("warning", "warnings", warningCount))
		if probCount > 0 {
			totalProblemsString += colors.ORANGE.Sprintf(", ")
		}
	}

	if probCount > 0 {
		totalProblemsString += colorMap[NORMAL_ERROR].Sprintf("%d %s", probCount, plural("error", "errors", probCount))
	}

	messageColor.Fprint(w, totalProblemsString)
	messageColor.Fprintln(w, "-------------")
}

func plural(singular, pluralForm string, count int) string {
	if count == 1 {
		return singular
	}
	return pluralForm
}
