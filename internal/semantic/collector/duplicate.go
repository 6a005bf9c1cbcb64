package collector

import (
	"errors"
	"fmt"

	"krawl/internal/report"
	"krawl/internal/semantic/analyzer"
	"krawl/internal/source"
	"krawl/internal/symbol"
)

func reportDuplicate(u *analyzer.Unit, name string, loc *source.Location, err error) {
	var dup *symbol.DuplicateNameError
	if !errors.As(err, &dup) {
		u.Reports.AddCriticalError(u.FullPath, loc, err.Error(), report.COLLECTOR_PHASE)
		return
	}

	r := u.Reports.AddSemanticError(u.FullPath, loc, fmt.Sprintf("'%s' %s", name, report.ALREADY_DECLARED), report.COLLECTOR_PHASE)

	prev := u.Decl(dup.Previous)
	switch {
	case prev == nil:
	case prev.Kind == symbol.DeclPackage:
		r.AddHint(fmt.Sprintf("'%s' names the import of %q", name, prev.Path))
	case prev.Location != nil && prev.Location.Start != nil:
		r.AddHint(fmt.Sprintf("previous declaration at %d:%d", prev.Location.Start.Line, prev.Location.Start.Column))
	}
}
