package miniscript

// Env is a chained scope record. Lookup walks outward through parent links;
// a function's captured environment is whatever Env was current at its
// declaration.
type Env struct {
	parent *Env
	table  map[string]Value
}

// NewEnv creates an environment chained to parent (nil for the outermost).
func NewEnv(parent *Env) *Env {
	return &Env{parent: parent, table: make(map[string]Value)}
}

// Define binds name in this scope, shadowing any outer binding.
func (e *Env) Define(name string, v Value) {
	e.table[name] = v
}

// Get resolves name, walking outward. The second return is false when the
// name is undefined everywhere.
func (e *Env) Get(name string) (Value, bool) {
	for s := e; s != nil; s = s.parent {
		if v, ok := s.table[name]; ok {
			return v, true
		}
	}
	return Value{}, false
}

// Assign updates the nearest existing binding of name. When no scope holds
// the name, it is declared in this (innermost) scope: plain assignment
// doubles as declaration in this language.
func (e *Env) Assign(name string, v Value) {
	for s := e; s != nil; s = s.parent {
		if _, ok := s.table[name]; ok {
			s.table[name] = v
			return
		}
	}
	e.table[name] = v
}
