// Package symtab implements the scope-stacked symbol table ("STK" in the
// design) shared by the semantic pass and the IR emitter. Each scope's
// identifier table is backed by a swiss-table map rather than a plain Go
// map, matching how the rest of this toolchain's dependency stack favours
// open-addressing maps over the builtin one for anything on a hot lookup
// path.
package symtab

import (
	"fmt"

	"github.com/dolthub/swiss"
)

// Kind identifies what an identifier is bound to.
type Kind uint8

const (
	None Kind = iota
	ConstScalar
	VarScalar
	Ptr // pointer variable, distinct from a raw array
	ArgScalar
	ArgPtr
	ConstArray
	VarArray
	FuncInt
	FuncVoid
)

var kindNames = [...]string{
	None:        "none",
	ConstScalar: "const scalar",
	VarScalar:   "var scalar",
	Ptr:         "pointer",
	ArgScalar:   "arg scalar",
	ArgPtr:      "arg pointer",
	ConstArray:  "const array",
	VarArray:    "var array",
	FuncInt:     "int function",
	FuncVoid:    "void function",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("<invalid kind %d>", k)
}

// IsFunc reports whether k denotes a function symbol.
func (k Kind) IsFunc() bool { return k == FuncInt || k == FuncVoid }

// IsArray reports whether k denotes an array (as opposed to a pointer or
// scalar) symbol.
func (k Kind) IsArray() bool { return k == ConstArray || k == VarArray }

// IsConst reports whether k denotes a compile-time constant symbol.
func (k Kind) IsConst() bool { return k == ConstScalar || k == ConstArray }

// Entry is a symbol-table record: {kind, dim_count, value} from the data
// model. Value carries a compile-time known integer for constants; it is
// unused (and meaningless) for every other kind.
type Entry struct {
	Kind     Kind
	DimCount int
	Value    int

	// Dims holds the declared dimension sizes for array/pointer kinds,
	// outermost first (for a Ptr parameter, the first entry is the decayed,
	// unconstrained dimension and is meaningless as a size).
	Dims []int

	// IRName is the mangled Koopa IR name assigned to this symbol when it
	// was declared (see Mangle). Functions keep their unmangled name here.
	IRName string
}

// scope is a single stack frame of the symbol table: a monotone id and an
// identifier-to-entry map.
type scope struct {
	id    int
	table *swiss.Map[string, *Entry]
}

// Stack is the scope-stacked symbol table. The zero value is not usable;
// construct one with New.
type Stack struct {
	scopes  []*scope
	nextID  int // monotone scope-id counter, never reused after pop
}

// New returns a Stack with only the global scope (id 0) pushed.
func New() *Stack {
	s := &Stack{}
	s.PushScope()
	return s
}

// PushScope opens a new innermost scope and returns its id.
func (s *Stack) PushScope() int {
	id := s.nextID
	s.nextID++
	s.scopes = append(s.scopes, &scope{id: id, table: swiss.NewMap[string, *Entry](8)})
	return id
}

// PopScope closes the innermost scope. It panics if called with only the
// global scope remaining, which would violate the "scope 0 is always
// present" invariant.
func (s *Stack) PopScope() {
	if len(s.scopes) <= 1 {
		panic("symtab: cannot pop the global scope")
	}
	s.scopes = s.scopes[:len(s.scopes)-1]
}

// Depth returns the number of scopes currently on the stack (1 means only
// the global scope is present).
func (s *Stack) Depth() int { return len(s.scopes) }

// CurrentScopeID returns the id of the innermost scope.
func (s *Stack) CurrentScopeID() int { return s.scopes[len(s.scopes)-1].id }

// Add inserts ident into the innermost scope. It panics if ident is
// already declared in that scope: callers must check ExistsInScope (or
// otherwise guarantee uniqueness) before calling Add.
func (s *Stack) Add(ident string, entry Entry) {
	top := s.scopes[len(s.scopes)-1]
	if _, ok := top.table.Get(ident); ok {
		panic(fmt.Sprintf("symtab: %q already declared in scope %d", ident, top.id))
	}
	e := entry
	top.table.Put(ident, &e)
}

// Lookup resolves ident innermost-first, returning its entry and the id of
// the scope that defined it. Calling Lookup for an identifier that cannot
// be resolved is a fatal core error: the caller must have already verified
// existence (normally via the semantic pass), so Lookup panics rather than
// returning an ok flag.
func (s *Stack) Lookup(ident string) (Entry, int) {
	for i := len(s.scopes) - 1; i >= 0; i-- {
		if e, ok := s.scopes[i].table.Get(ident); ok {
			return *e, s.scopes[i].id
		}
	}
	panic(fmt.Sprintf("symtab: unresolved identifier %q", ident))
}

// TryLookup is the non-panicking counterpart of Lookup, for callers (such
// as the semantic pass) that must turn an unresolved name into a regular
// diagnostic instead of a fatal invariant violation.
func (s *Stack) TryLookup(ident string) (Entry, int, bool) {
	for i := len(s.scopes) - 1; i >= 0; i-- {
		if e, ok := s.scopes[i].table.Get(ident); ok {
			return *e, s.scopes[i].id, true
		}
	}
	return Entry{}, 0, false
}

// FindFunction searches only the global scope (scope 0) for ident.
func (s *Stack) FindFunction(ident string) (Entry, bool) {
	e, ok := s.scopes[0].table.Get(ident)
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Modify rebinds the integer Value of an existing entry, searching
// innermost-first. This keeps interpreter-style constant propagation
// available in the symbol table; core IR emission does not depend on it
// for correctness.
func (s *Stack) Modify(ident string, value int) {
	for i := len(s.scopes) - 1; i >= 0; i-- {
		if e, ok := s.scopes[i].table.Get(ident); ok {
			e.Value = value
			return
		}
	}
	panic(fmt.Sprintf("symtab: unresolved identifier %q", ident))
}

// ExistsInScope reports whether ident is already bound in the innermost
// scope, without panicking. It mirrors the frontend check that SEM relies
// on before calling Add.
func (s *Stack) ExistsInScope(ident string) bool {
	top := s.scopes[len(s.scopes)-1]
	_, ok := top.table.Get(ident)
	return ok
}

// Mangle forms the deterministic IR name for an identifier declared in
// scope id, using the role prefix for kind: var_<id>_<n>, arr_<id>_<n>,
// ptr_<id>_<n> or arg_<id>_<n>.
func Mangle(kind Kind, ident string, scopeID int) string {
	var prefix string
	switch kind {
	case VarScalar, ConstScalar:
		prefix = "var"
	case VarArray, ConstArray:
		prefix = "arr"
	case Ptr:
		prefix = "ptr"
	case ArgScalar, ArgPtr:
		prefix = "arg"
	default:
		prefix = "var"
	}
	return fmt.Sprintf("%s_%s_%d", prefix, ident, scopeID)
}
