package symbol

import (
	"fmt"

	"fortio.org/safecast"
)

// DeclID, TypeID and ScopeID are non-owning handles into the trackers of one
// unit. The zero value of each is the "no object" sentinel.
type (
	DeclID  uint32
	TypeID  uint32
	ScopeID uint32
)

const (
	NoDecl  DeclID  = 0
	NoType  TypeID  = 0
	NoScope ScopeID = 0
)

func (id DeclID) IsValid() bool  { return id != NoDecl }
func (id TypeID) IsValid() bool  { return id != NoType }
func (id ScopeID) IsValid() bool { return id != NoScope }

// arena owns every object of one kind allocated during a unit of work.
// Objects are never freed individually; teardown releases all of them.
type arena[T any] struct {
	name  string
	data  []*T
	count int
	freed int
	torn  bool
}

func newArena[T any](name string, capacity int) arena[T] {
	data := make([]*T, 1, capacity+1) // index 0 reserved for the sentinel
	return arena[T]{name: name, data: data}
}

func (a *arena[T]) alloc(v *T) uint32 {
	if a.torn {
		panic(fmt.Sprintf("%s tracker: allocation after teardown", a.name))
	}
	id, err := safecast.Conv[uint32](len(a.data))
	if err != nil {
		panic(fmt.Errorf("%s tracker overflow: %w", a.name, err))
	}
	a.data = append(a.data, v)
	a.count++
	return id
}

func (a *arena[T]) get(id uint32) *T {
	if id == 0 || int(id) >= len(a.data) {
		return nil
	}
	return a.data[id]
}

// allocated is the number of objects ever allocated, unaffected by teardown.
func (a *arena[T]) allocated() int {
	return a.count
}

func (a *arena[T]) teardown() int {
	if a.torn {
		panic(fmt.Sprintf("%s tracker torn down twice", a.name))
	}
	for i := 1; i < len(a.data); i++ {
		if a.data[i] != nil {
			a.data[i] = nil
			a.freed++
		}
	}
	a.data = nil
	a.torn = true
	return a.freed
}

// DeclTracker owns every declaration of a unit.
type DeclTracker struct {
	arena arena[Decl]
}

func NewDeclTracker() *DeclTracker {
	return &DeclTracker{arena: newArena[Decl]("declaration", 64)}
}

// New takes ownership of d and returns its handle.
func (t *DeclTracker) New(d *Decl) DeclID {
	if d == nil {
		panic("declaration tracker: nil declaration")
	}
	return DeclID(t.arena.alloc(d))
}

// Get returns the declaration for id, or nil for an invalid handle.
func (t *DeclTracker) Get(id DeclID) *Decl { return t.arena.get(uint32(id)) }
func (t *DeclTracker) Allocated() int       { return t.arena.allocated() }
func (t *DeclTracker) Freed() int           { return t.arena.freed }
func (t *DeclTracker) Teardown() int        { return t.arena.teardown() }

// TypeTracker owns every type of a unit. Builtin types are allocated once per
// tracker on first use.
type TypeTracker struct {
	arena    arena[Type]
	builtins map[BuiltinKind]TypeID
}

func NewTypeTracker() *TypeTracker {
	return &TypeTracker{
		arena:    newArena[Type]("type", 128),
		builtins: make(map[BuiltinKind]TypeID),
	}
}

// New takes ownership of t and returns its handle.
func (t *TypeTracker) New(typ *Type) TypeID {
	if typ == nil {
		panic("type tracker: nil type")
	}
	return TypeID(t.arena.alloc(typ))
}

func (t *TypeTracker) Get(id TypeID) *Type { return t.arena.get(uint32(id)) }
func (t *TypeTracker) Allocated() int      { return t.arena.allocated() }
func (t *TypeTracker) Freed() int          { return t.arena.freed }

func (t *TypeTracker) Teardown() int {
	t.builtins = nil
	return t.arena.teardown()
}

// ScopeTracker owns every scope block of a unit.
type ScopeTracker struct {
	arena arena[ScopeBlock]
}

func NewScopeTracker() *ScopeTracker {
	return &ScopeTracker{arena: newArena[ScopeBlock]("scope", 16)}
}

// New allocates an empty scope block under parent (NoScope for a root).
func (t *ScopeTracker) New(parent ScopeID) ScopeID {
	return ScopeID(t.arena.alloc(&ScopeBlock{
		Parent: parent,
		names:  make(map[string]DeclID),
	}))
}

func (t *ScopeTracker) Get(id ScopeID) *ScopeBlock { return t.arena.get(uint32(id)) }
func (t *ScopeTracker) Allocated() int             { return t.arena.allocated() }
func (t *ScopeTracker) Freed() int                 { return t.arena.freed }
func (t *ScopeTracker) Teardown() int              { return t.arena.teardown() }

// Trackers bundles the three arenas of one unit of work.
type Trackers struct {
	Decls  *DeclTracker
	Types  *TypeTracker
	Scopes *ScopeTracker
}

func NewTrackers() *Trackers {
	return &Trackers{
		Decls:  NewDeclTracker(),
		Types:  NewTypeTracker(),
		Scopes: NewScopeTracker(),
	}
}

// Teardown frees every object of all three trackers.
func (t *Trackers) Teardown() {
	t.Types.Teardown()
	t.Decls.Teardown()
	t.Scopes.Teardown()
}
