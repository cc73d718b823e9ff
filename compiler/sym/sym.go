package sym

import (
	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/errors"
)

type (
	// Entry is one declared name.
	Entry struct {
		Name string `json:"name" yaml:"name"`
		Type string `json:"type" yaml:"type"` // entity:Deportista, list:Pais, int, ...
		Line int    `json:"line" yaml:"line"`
		Node int    `json:"node" yaml:"node"` // declaring node id, -1 when none
	}

	scope struct {
		names []string
		elems map[string]*Entry
	}

	// Table is a stack of lexical scopes. Index 0 is the global scope;
	// it exists for the whole lifetime of the table and can not be
	// exited.
	Table struct {
		scopes []*scope
	}

	// Snapshot is a deep, order-stable copy of the whole table,
	// innermost scope last. Entries keep declaration order.
	Snapshot []ScopeSnap

	ScopeSnap struct {
		Level   int     `json:"level" yaml:"level"`
		Entries []Entry `json:"entries" yaml:"entries"`
	}
)

func New() *Table {
	return &Table{
		scopes: []*scope{newScope()},
	}
}

func newScope() *scope {
	return &scope{elems: map[string]*Entry{}}
}

// Level is the innermost scope level. Global is 0.
func (t *Table) Level() int { return len(t.scopes) - 1 }

// EnterScope pushes a scope and returns the new level.
func (t *Table) EnterScope() int {
	t.scopes = append(t.scopes, newScope())

	return t.Level()
}

// ExitScope pops the innermost scope and returns the new level.
// The global scope stays: exiting at level 0 is a no-op.
func (t *Table) ExitScope() int {
	if len(t.scopes) > 1 {
		t.scopes = t.scopes[:len(t.scopes)-1]
	}

	return t.Level()
}

// Declare binds name in the innermost scope. Redeclaring a name in
// the same scope is an error; shadowing an outer scope is not.
func (t *Table) Declare(name, typ string, node, line int) error {
	s := t.scopes[len(t.scopes)-1]

	if _, ok := s.elems[name]; ok {
		return errors.New("'%v' already declared in current scope (level %v)", name, t.Level())
	}

	s.elems[name] = &Entry{
		Name: name,
		Type: typ,
		Line: line,
		Node: node,
	}

	s.names = append(s.names, name)

	return nil
}

// Lookup searches from the innermost scope outwards.
// It returns nil when the name is not declared anywhere.
func (t *Table) Lookup(name string) *Entry {
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if e, ok := t.scopes[i].elems[name]; ok {
			return e
		}
	}

	return nil
}

// Snapshot copies the table. Later mutations of the table do not
// show through, so snapshots can be logged as a trail.
func (t *Table) Snapshot() Snapshot {
	s := make(Snapshot, len(t.scopes))

	for i, sc := range t.scopes {
		cp := ScopeSnap{
			Level:   i,
			Entries: make([]Entry, len(sc.names)),
		}

		for j, name := range sc.names {
			cp.Entries[j] = *sc.elems[name]
		}

		s[i] = cp
	}

	return s
}

func (s Snapshot) String() string {
	var b []byte

	for _, sc := range s {
		b = hfmt.Appendf(b, "scope %d:\n", sc.Level)

		if len(sc.Entries) == 0 {
			b = append(b, "  (empty)\n"...)
		}

		for _, e := range sc.Entries {
			b = hfmt.Appendf(b, "  %v %v (line %d)\n", e.Name, e.Type, e.Line)
		}
	}

	return string(b)
}
