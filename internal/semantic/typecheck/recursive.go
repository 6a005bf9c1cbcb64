package typecheck

import (
	"fmt"
	"strings"

	"krawl/internal/report"
	"krawl/internal/symbol"
)

// flattenAliases replaces a named underlying type by that type's own
// underlying type, so `type A B` shares the structure of B. A chain that
// comes back to itself has no structure at all and is reported once.
func (c *checker) flattenAliases() {
	for _, id := range c.u.Decls {
		decl := c.u.Decl(id)
		if !decl.IsType() {
			continue
		}
		named := c.tr.Types.Get(decl.Type)
		named.Underlying = c.followChain(decl.Type)
	}
}

// followChain walks named types from start until it reaches a type that is
// not named. It returns NoType for broken or cyclic chains.
func (c *checker) followChain(start symbol.TypeID) symbol.TypeID {
	path := []symbol.TypeID{start}
	onPath := map[symbol.TypeID]int{start: 0}

	cur := c.tr.Types.Get(start).Underlying
	for {
		typ := c.tr.Types.Get(cur)
		if typ == nil {
			return symbol.NoType
		}
		if typ.Kind != symbol.TypeNamed {
			return cur
		}
		if c.cyclic[cur] {
			return symbol.NoType
		}
		if at, seen := onPath[cur]; seen {
			c.reportCycle(path[at:])
			return symbol.NoType
		}
		if _, own := c.owner[cur]; !own {
			// imported types arrive flattened
			return typ.Underlying
		}
		onPath[cur] = len(path)
		path = append(path, cur)
		cur = typ.Underlying
	}
}

// checkContainment finds named types that contain themselves by value:
// through struct and union fields, array elements and other named types.
// Pointers, slices and functions hold a reference and end the search.
func (c *checker) checkContainment() {
	const (
		white = iota
		grey
		black
	)
	color := make(map[symbol.TypeID]int)
	var stack []symbol.TypeID

	var visitNamed func(id symbol.TypeID)
	var visit func(id symbol.TypeID)

	visit = func(id symbol.TypeID) {
		typ := c.tr.Types.Get(id)
		if typ == nil {
			return
		}
		switch typ.Kind {
		case symbol.TypeNamed:
			visitNamed(id)
		case symbol.TypeArray:
			visit(typ.Elem)
		case symbol.TypeStruct, symbol.TypeUnion:
			for _, f := range typ.Fields {
				visit(c.u.Decl(f).Type)
			}
		}
	}

	visitNamed = func(id symbol.TypeID) {
		if _, own := c.owner[id]; !own {
			return
		}
		switch color[id] {
		case black:
			return
		case grey:
			if c.cyclic[id] {
				return
			}
			for i := len(stack) - 1; i >= 0; i-- {
				if stack[i] == id {
					c.reportCycle(stack[i:])
					break
				}
			}
			return
		}

		color[id] = grey
		stack = append(stack, id)
		visit(c.tr.Types.Get(id).Underlying)
		stack = stack[:len(stack)-1]
		color[id] = black
	}

	for _, id := range c.u.Decls {
		if decl := c.u.Decl(id); decl.IsType() {
			visitNamed(decl.Type)
		}
	}
}

// reportCycle reports a cycle at its first type and marks every member so
// the cycle is not reported again from another entry point.
func (c *checker) reportCycle(cycle []symbol.TypeID) {
	for _, id := range cycle {
		if c.cyclic[id] {
			return
		}
	}

	names := make([]string, 0, len(cycle)+1)
	for _, id := range cycle {
		c.cyclic[id] = true
		names = append(names, c.tr.Types.Get(id).Name)
	}
	names = append(names, names[0])

	decl := c.u.Decl(c.owner[cycle[0]])
	c.u.Reports.AddSemanticError(c.u.FullPath, decl.Location, fmt.Sprintf("%s '%s'", report.INVALID_RECURSIVE_TYPE, decl.Name), report.TYPECHECK_PHASE).
		AddHint(strings.Join(names, " refers to "))
}
