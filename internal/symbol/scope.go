package symbol

import (
	"fmt"
)

// ScopeBlock maps names to declarations. Lookups that miss continue in the
// parent block; the global block has no parent.
type ScopeBlock struct {
	Parent ScopeID
	names  map[string]DeclID
	order  []string
}

// DuplicateNameError is returned when a name is declared twice in one block.
type DuplicateNameError struct {
	Name     string
	Previous DeclID
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("'%s' already declared in this scope", e.Name)
}

// Declare binds name to decl in scope. Shadowing a name of an enclosing
// block is allowed.
func (t *ScopeTracker) Declare(scope ScopeID, name string, decl DeclID) error {
	block := t.Get(scope)
	if block == nil {
		return fmt.Errorf("declare '%s': invalid scope %d", name, scope)
	}
	if prev, exists := block.names[name]; exists {
		return &DuplicateNameError{Name: name, Previous: prev}
	}
	block.names[name] = decl
	block.order = append(block.order, name)
	return nil
}

// Lookup finds name in scope or any of its ancestors.
func (t *ScopeTracker) Lookup(scope ScopeID, name string) (DeclID, bool) {
	for scope.IsValid() {
		block := t.Get(scope)
		if block == nil {
			break
		}
		if decl, ok := block.names[name]; ok {
			return decl, true
		}
		scope = block.Parent
	}
	return NoDecl, false
}

// LookupLocal finds name in scope only.
func (t *ScopeTracker) LookupLocal(scope ScopeID, name string) (DeclID, bool) {
	block := t.Get(scope)
	if block == nil {
		return NoDecl, false
	}
	decl, ok := block.names[name]
	return decl, ok
}

// Names returns the names declared in scope in declaration order.
func (t *ScopeTracker) Names(scope ScopeID) []string {
	block := t.Get(scope)
	if block == nil {
		return nil
	}
	return append([]string(nil), block.order...)
}
