package symbol

// FillGlobalScope declares the builtin types and constants in scope.
func FillGlobalScope(tr *Trackers, scope ScopeID) {
	for kind := Void; int(kind) < NumBuiltins; kind++ {
		declareBuiltinType(tr, scope, kind.String(), kind)
	}
	// byte is an alias of uint8
	declareBuiltinType(tr, scope, "byte", Uint8)

	declareBuiltinConst(tr, scope, "true", tr.Types.Builtin(Bool), "true")
	declareBuiltinConst(tr, scope, "false", tr.Types.Builtin(Bool), "false")
	declareBuiltinConst(tr, scope, "nil", tr.Types.NewPointer(tr.Types.Builtin(Void)), "0")
}

func declareBuiltinType(tr *Trackers, scope ScopeID, name string, kind BuiltinKind) {
	decl := tr.Decls.New(&Decl{
		Name:    name,
		Kind:    DeclType,
		Type:    tr.Types.Builtin(kind),
		Scope:   scope,
		State:   Checked,
		Builtin: true,
	})
	_ = tr.Scopes.Declare(scope, name, decl)
}

func declareBuiltinConst(tr *Trackers, scope ScopeID, name string, typ TypeID, value string) {
	decl := tr.Decls.New(&Decl{
		Name:    name,
		Kind:    DeclConst,
		Type:    typ,
		Scope:   scope,
		State:   Checked,
		Value:   value,
		Builtin: true,
	})
	_ = tr.Scopes.Declare(scope, name, decl)
}
